// Package assets resolve arquivos binários (imagens) por nome de arquivo,
// a partir de um diretório local, de um bucket S3 ou de um MinIO, com cache
// opcional em Redis.
package assets

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indica que o asset não existe na origem.
	ErrNotFound = errors.New("asset não encontrado")
	// ErrInvalidName indica um nome com separadores ou referência a diretório pai.
	ErrInvalidName = errors.New("nome de asset inválido")
)

// Source entrega o conteúdo de um asset pelo nome do arquivo.
type Source interface {
	Open(ctx context.Context, name string) ([]byte, error)
}

// checkName garante que o nome é um único componente de caminho.
func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: '%s'", ErrInvalidName, name)
	}
	return nil
}

func joinKey(prefix, name string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return name
	}
	return prefix + "/" + name
}
