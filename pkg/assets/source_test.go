package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/minio/minio-go/v7"
	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSSource(t *testing.T) {
	ctx := context.Background()

	t.Run("Diretório local", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pic.3.jpg"), []byte("jpeg"), 0o644))

		src := NewDirSource(dir)
		data, err := src.Open(ctx, "pic.3.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), data)

		_, err = src.Open(ctx, "pic.4.jpg")
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("Nomes inválidos", func(t *testing.T) {
		src := NewFSSource(fstest.MapFS{"a.jpg": {Data: []byte("x")}})
		for _, name := range []string{"", ".", "..", "../a.jpg", "sub/a.jpg", `sub\a.jpg`} {
			_, err := src.Open(ctx, name)
			assert.True(t, errors.Is(err, ErrInvalidName), name)
		}
	})
}

// MockS3 para testes de assets
type MockS3 struct {
	GetObjectFunc func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

func (m *MockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return m.GetObjectFunc(ctx, params, optFns...)
}

func TestS3Source(t *testing.T) {
	ctx := context.Background()
	mock := &MockS3{
		GetObjectFunc: func(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			switch *params.Key {
			case "feed/pic.1.jpg":
				return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("jpeg")))}, nil
			case "feed/pic.2.jpg":
				return nil, &types.NoSuchKey{}
			}
			return nil, errors.New("AccessDenied")
		},
	}
	src := NewS3Source(mock, "media", "/feed/")

	data, err := src.Open(ctx, "pic.1.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)

	_, err = src.Open(ctx, "pic.2.jpg")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = src.Open(ctx, "pic.3.jpg")
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestMinioError(t *testing.T) {
	err := minioError("media", "pic.1.jpg", minio.ErrorResponse{Code: "NoSuchKey"})
	assert.True(t, errors.Is(err, ErrNotFound))

	err = minioError("media", "pic.1.jpg", minio.ErrorResponse{Code: "AccessDenied"})
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestJoinKey(t *testing.T) {
	assert.Equal(t, "a.jpg", joinKey("", "a.jpg"))
	assert.Equal(t, "a.jpg", joinKey("/", "a.jpg"))
	assert.Equal(t, "img/feed/a.jpg", joinKey("/img/feed/", "a.jpg"))
}

// fakeRedis implementa apenas os comandos usados pelo RedisCache.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttls map[string]time.Duration
	err  error
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

// countingSource conta as leituras na origem.
type countingSource struct {
	Source
	opens int
}

func (c *countingSource) Open(ctx context.Context, name string) ([]byte, error) {
	c.opens++
	return c.Source.Open(ctx, name)
}

func TestCachedSource(t *testing.T) {
	ctx := context.Background()
	origin := &countingSource{Source: NewFSSource(fstest.MapFS{"pic.1.jpg": {Data: []byte("jpeg")}})}

	t.Run("Miss, preenche e depois hit", func(t *testing.T) {
		rdb := newFakeRedis()
		src := NewCachedSource(origin, NewRedisCache(rdb, 10*time.Minute))
		origin.opens = 0

		for i := 0; i < 3; i++ {
			data, err := src.Open(ctx, "pic.1.jpg")
			require.NoError(t, err)
			assert.Equal(t, []byte("jpeg"), data)
		}
		assert.Equal(t, 1, origin.opens)
		assert.Equal(t, "jpeg", rdb.data[cacheKeyPrefix+"pic.1.jpg"])
		assert.Equal(t, 10*time.Minute, rdb.ttls[cacheKeyPrefix+"pic.1.jpg"])
	})

	t.Run("Ausente não é cacheado", func(t *testing.T) {
		rdb := newFakeRedis()
		src := NewCachedSource(origin, NewRedisCache(rdb, 0))

		_, err := src.Open(ctx, "pic.9.jpg")
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Empty(t, rdb.data)
	})

	t.Run("Redis fora do ar cai na origem", func(t *testing.T) {
		rdb := newFakeRedis()
		rdb.err = errors.New("connection refused")
		src := NewCachedSource(origin, NewRedisCache(rdb, 0))

		data, err := src.Open(ctx, "pic.1.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg"), data)
	})
}

func TestBuilder_Build(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeRedis()
	b := &Builder{
		NewS3: func(ctx context.Context) (S3Client, error) { return &MockS3{}, nil },
		NewRedis: func(cfg config.RedisConf) redis.Cmdable {
			return rdb
		},
	}

	tests := []struct {
		name    string
		cfg     config.AssetsConf
		want    interface{}
		wantErr bool
	}{
		{name: "Diretório", cfg: config.AssetsConf{Source: "dir://./assets"}, want: &FSSource{}},
		{name: "Caminho puro", cfg: config.AssetsConf{Source: "./assets"}, want: &FSSource{}},
		{name: "S3", cfg: config.AssetsConf{Source: "s3://media/feed"}, want: &S3Source{}},
		{name: "S3 sem bucket", cfg: config.AssetsConf{Source: "s3://"}, wantErr: true},
		{name: "Minio", cfg: config.AssetsConf{Source: "minio://localhost:9000/media/feed"}, want: &MinioSource{}},
		{name: "Minio sem bucket", cfg: config.AssetsConf{Source: "minio://localhost:9000"}, wantErr: true},
		{name: "Esquema desconhecido", cfg: config.AssetsConf{Source: "ftp://host/x"}, wantErr: true},
		{
			name: "Com cache",
			cfg: config.AssetsConf{
				Source: "dir://./assets",
				Cache:  config.CacheConf{Redis: config.RedisConf{Enabled: true, Addr: "localhost:6379"}},
			},
			want: &CachedSource{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := b.Build(ctx, tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}

	t.Run("Prefixo do minio", func(t *testing.T) {
		src, err := b.Build(ctx, config.AssetsConf{Source: "minio://localhost:9000/media/img/feed"})
		require.NoError(t, err)
		m := src.(*MinioSource)
		assert.Equal(t, "media", m.bucket)
		assert.Equal(t, "img/feed", m.prefix)
	})

	t.Run("Prefixo do S3", func(t *testing.T) {
		src, err := b.Build(ctx, config.AssetsConf{Source: "s3://media/img/feed"})
		require.NoError(t, err)
		s := src.(*S3Source)
		assert.Equal(t, "media", s.bucket)
		assert.Equal(t, "img/feed", s.prefix)
	})
}
