// Package source lê documentos brutos (configuração, datasets) de arquivos
// locais, objetos S3 ou itens do DynamoDB a partir de uma URI.
//
//	config.yaml | file://config.yaml
//	s3://bucket/caminho/dataset.yaml
//	dynamodb://tabela/chave?col=config&pk=id
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrEmptyItem é retornado quando o item do DynamoDB não existe ou a coluna está vazia.
var ErrEmptyItem = errors.New("item não encontrado no DynamoDB")

// --- Interfaces para Mocking ---

type S3Downloader interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type DynamoGetter interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// Fetcher resolve a URI para o backend certo. Os clientes AWS são criados
// sob demanda, só quando uma URI remota aparece.
type Fetcher struct {
	NewS3     func(ctx context.Context) (S3Downloader, error)
	NewDynamo func(ctx context.Context) (DynamoGetter, error)
}

// NewFetcher cria um Fetcher com clientes AWS reais.
func NewFetcher() *Fetcher {
	return &Fetcher{
		NewS3: func(ctx context.Context) (S3Downloader, error) {
			cfg, err := AWSConfig(ctx, os.Getenv("AWS_REGION"))
			if err != nil {
				return nil, err
			}
			return s3.NewFromConfig(cfg), nil
		},
		NewDynamo: func(ctx context.Context) (DynamoGetter, error) {
			cfg, err := AWSConfig(ctx, os.Getenv("AWS_REGION"))
			if err != nil {
				return nil, err
			}
			return dynamodb.NewFromConfig(cfg), nil
		},
	}
}

// Fetch é o atalho de pacote para NewFetcher().Fetch.
func Fetch(ctx context.Context, uri string) ([]byte, error) {
	return NewFetcher().Fetch(ctx, uri)
}

// Fetch detecta o esquema da URI e devolve o conteúdo bruto.
func (f *Fetcher) Fetch(ctx context.Context, uri string) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch {
	case strings.HasPrefix(uri, "s3://"):
		var client S3Downloader
		if client, err = f.NewS3(ctx); err == nil {
			data, err = fetchS3(ctx, client, uri)
		}
	case strings.HasPrefix(uri, "dynamodb://"):
		var client DynamoGetter
		if client, err = f.NewDynamo(ctx); err == nil {
			data, err = fetchDynamo(ctx, client, uri)
		}
	default:
		data, err = os.ReadFile(strings.TrimPrefix(uri, "file://"))
	}

	if err != nil {
		return nil, fmt.Errorf("falha leitura (%s): %w", uri, err)
	}
	return data, nil
}

func fetchS3(ctx context.Context, client S3Downloader, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL S3 inválida: %w", err)
	}
	bucket := u.Host
	key := strings.TrimPrefix(u.Path, "/")

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, err
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

func fetchDynamo(ctx context.Context, client DynamoGetter, uri string) ([]byte, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("URL DynamoDB inválida: %w", err)
	}

	tableName := u.Host
	pkValue := strings.TrimPrefix(u.Path, "/")

	colName := u.Query().Get("col")
	if colName == "" {
		colName = "document"
	}
	pkName := u.Query().Get("pk")
	if pkName == "" {
		pkName = "id"
	}

	out, err := client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: &tableName,
		Key: map[string]types.AttributeValue{
			pkName: &types.AttributeValueMemberS{Value: pkValue},
		},
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, ErrEmptyItem
	}

	var item map[string]interface{}
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, err
	}

	content, ok := item[colName].(string)
	if !ok || content == "" {
		return nil, fmt.Errorf("%w: coluna '%s' inválida ou vazia", ErrEmptyItem, colName)
	}
	return []byte(content), nil
}
