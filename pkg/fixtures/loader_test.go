package fixtures

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/feed-emulator/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallDataset = `
users:
  1:
    name: Ana
    avatar: {url: "mock://sc.com/avatar.1.jpg"}
  2:
    name: Bruno
    avatar: {url: "mock://sc.com/avatar.2.jpg"}
posts:
  10:
    date: "2021-01-02T10:00:00Z"
    text: primeiro
    images: [{url: "mock://sc.com/pic.10.jpg"}]
  11:
    date: "2021-01-03T10:00:00Z"
    text: segundo
    images: []
owners:
  10: 1
  11: 2
`

type mockS3 struct {
	body string
}

func (m *mockS3) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(m.body))}, nil
}

func TestParse(t *testing.T) {
	t.Run("YAML válido", func(t *testing.T) {
		ds, err := Parse([]byte(smallDataset))
		require.NoError(t, err)
		assert.Len(t, ds.Users, 2)
		assert.Equal(t, "primeiro", ds.Posts[10].Text)
		assert.Equal(t, UserID(2), ds.Owners[11])
	})

	t.Run("JSON válido", func(t *testing.T) {
		js := `{"users":{"1":{"name":"Ana","avatar":{"url":"a"}}},` +
			`"posts":{"7":{"date":"2021-01-02T10:00:00Z","text":"x","images":[]}},` +
			`"owners":{"7":1}}`
		ds, err := Parse([]byte(js))
		require.NoError(t, err)
		assert.Equal(t, UserID(1), ds.Owners[7])
	})

	t.Run("Data fora do ISO-8601", func(t *testing.T) {
		bad := strings.Replace(smallDataset, "2021-01-02T10:00:00Z", "02/01/2021", 1)
		_, err := Parse([]byte(bad))
		assert.ErrorContains(t, err, "datetime")
	})

	t.Run("Usuário sem nome", func(t *testing.T) {
		bad := strings.Replace(smallDataset, "name: Ana", "name: \"\"", 1)
		_, err := Parse([]byte(bad))
		assert.ErrorContains(t, err, "required")
	})

	t.Run("YAML malformado", func(t *testing.T) {
		_, err := Parse([]byte("users: [nao: e: mapa"))
		assert.Error(t, err)
	})
}

func TestLoad_NonCanonicalDates(t *testing.T) {
	// Em UTC: post 1 = 05:00, post 2 = 06:00, post 3 = 06:00:00.5. Como strings,
	// a ordem ficaria invertida; o dataset precisa ser recusado na carga.
	dataset := `
users:
  1: {name: Ana, avatar: {url: "mock://sc.com/avatar.1.jpg"}}
posts:
  1: {date: "2021-01-01T10:00:00+05:00", text: a, images: []}
  2: {date: "2021-01-01T06:00:00Z", text: b, images: []}
  3: {date: "2021-01-01T06:00:00.5Z", text: c, images: []}
owners: {1: 1, 2: 1, 3: 1}
`
	path := filepath.Join(t.TempDir(), "dataset.yaml")
	require.NoError(t, os.WriteFile(path, []byte(dataset), 0o644))

	_, err := Load(context.Background(), path)
	require.ErrorIs(t, err, ErrInvalidDate)
	assert.ErrorContains(t, err, "post 1")
	assert.ErrorContains(t, err, "post 3")
	assert.NotContains(t, err.Error(), "post 2")
}

func TestLoad(t *testing.T) {
	t.Run("Builtin", func(t *testing.T) {
		for _, uri := range []string{"", BuiltinSource} {
			store, err := Load(context.Background(), uri)
			require.NoError(t, err)
			assert.Equal(t, 20, store.Len())
		}
	})

	t.Run("Arquivo local", func(t *testing.T) {
		tmp, _ := os.CreateTemp("", "dataset_*.yaml")
		defer os.Remove(tmp.Name())
		tmp.WriteString(smallDataset)
		tmp.Close()

		store, err := Load(context.Background(), tmp.Name())
		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("S3", func(t *testing.T) {
		f := &source.Fetcher{
			NewS3: func(context.Context) (source.S3Downloader, error) { return &mockS3{body: smallDataset}, nil },
		}
		store, err := LoadWith(context.Background(), f, "s3://bucket/dataset.yaml")
		require.NoError(t, err)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("Dataset inconsistente", func(t *testing.T) {
		f := &source.Fetcher{
			NewS3: func(context.Context) (source.S3Downloader, error) {
				return &mockS3{body: strings.Replace(smallDataset, "11: 2", "11: 3", 1)}, nil
			},
		}
		_, err := LoadWith(context.Background(), f, "s3://bucket/dataset.yaml")
		assert.ErrorIs(t, err, ErrInternalConsistency)
	})
}
