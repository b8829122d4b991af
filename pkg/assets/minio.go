package assets

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig identifica o servidor e o bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Prefix    string
}

// MinioSource lê assets de um bucket MinIO (ou qualquer S3 compatível).
type MinioSource struct {
	client *minio.Client
	bucket string
	prefix string
}

func NewMinioSource(cfg MinioConfig) (*MinioSource, error) {
	cl, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("erro ao criar cliente minio: %w", err)
	}
	return &MinioSource{client: cl, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

func (s *MinioSource) Open(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	key := joinKey(s.prefix, name)

	// O GetObject é preguiçoso: erros de objeto ausente só aparecem na leitura.
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, minioError(s.bucket, key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, minioError(s.bucket, key, err)
	}
	return data, nil
}

func minioError(bucket, key string, err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("%w: minio://%s/%s", ErrNotFound, bucket, key)
	}
	return fmt.Errorf("erro ao ler do minio: %w", err)
}
