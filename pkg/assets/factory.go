package assets

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/raywall/feed-emulator/pkg/source"
	"github.com/redis/go-redis/v9"
)

// Builder permite trocar a criação dos clientes remotos em testes.
type Builder struct {
	NewS3    func(ctx context.Context) (S3Client, error)
	NewRedis func(cfg config.RedisConf) redis.Cmdable
}

func NewBuilder() *Builder {
	return &Builder{
		NewS3: func(ctx context.Context) (S3Client, error) {
			cfg, err := source.AWSConfig(ctx, os.Getenv("AWS_REGION"))
			if err != nil {
				return nil, err
			}
			return s3.NewFromConfig(cfg), nil
		},
		NewRedis: func(cfg config.RedisConf) redis.Cmdable {
			return redis.NewClient(&redis.Options{
				Addr:     cfg.Addr,
				Password: cfg.Password,
			})
		},
	}
}

// FromConfig é o atalho de pacote para NewBuilder().Build.
func FromConfig(ctx context.Context, cfg config.AssetsConf) (Source, error) {
	return NewBuilder().Build(ctx, cfg)
}

// Build cria a origem descrita em assets.source:
//
//	./assets | dir://./assets
//	s3://bucket/prefixo
//	minio://endpoint/bucket/prefixo
//
// e a envolve no cache Redis quando habilitado.
func (b *Builder) Build(ctx context.Context, cfg config.AssetsConf) (Source, error) {
	var (
		src Source
		err error
	)

	uri := cfg.Source
	switch {
	case strings.HasPrefix(uri, "s3://"):
		bucket, prefix, _ := strings.Cut(strings.TrimPrefix(uri, "s3://"), "/")
		if bucket == "" {
			return nil, fmt.Errorf("bucket ausente em '%s'", uri)
		}
		var client S3Client
		if client, err = b.NewS3(ctx); err != nil {
			return nil, fmt.Errorf("falha ao criar cliente S3: %w", err)
		}
		src = NewS3Source(client, bucket, prefix)

	case strings.HasPrefix(uri, "minio://"):
		parts := strings.SplitN(strings.TrimPrefix(uri, "minio://"), "/", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("origem minio deve ser minio://endpoint/bucket[/prefixo]: '%s'", uri)
		}
		mc := MinioConfig{
			Endpoint:  parts[0],
			Bucket:    parts[1],
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			UseSSL:    cfg.Minio.UseSSL,
		}
		if len(parts) == 3 {
			mc.Prefix = parts[2]
		}
		if src, err = NewMinioSource(mc); err != nil {
			return nil, err
		}

	case strings.Contains(uri, "://") && !strings.HasPrefix(uri, "dir://"):
		return nil, fmt.Errorf("origem de assets não suportada: '%s'", uri)

	default:
		dir := strings.TrimPrefix(uri, "dir://")
		if dir == "" {
			dir = "."
		}
		src = NewDirSource(dir)
	}

	if cfg.Cache.Redis.Enabled {
		src = NewCachedSource(src, NewRedisCache(b.NewRedis(cfg.Cache.Redis), cfg.Cache.Redis.GetTTL()))
	}
	return src, nil
}
