package fixtures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/raywall/feed-emulator/pkg/source"
	"gopkg.in/yaml.v3"
)

// BuiltinSource seleciona o dataset embutido no binário.
const BuiltinSource = "builtin"

var validate = validator.New()

// Parse decodifica um dataset YAML ou JSON e valida a estrutura de cada
// registro. Integridade referencial fica com NewStore.
func Parse(data []byte) (Dataset, error) {
	var ds Dataset
	if err := unmarshal(data, &ds); err != nil {
		return Dataset{}, fmt.Errorf("dataset malformado: %w", err)
	}

	if err := validate.Struct(ds); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var msgs []string
			for _, e := range validationErrors {
				msgs = append(msgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return Dataset{}, fmt.Errorf("dataset inválido:\n- %s", strings.Join(msgs, "\n- "))
		}
		return Dataset{}, fmt.Errorf("dataset inválido: %w", err)
	}
	return ds, nil
}

// Chaves de objeto JSON são sempre strings, e o yaml.v3 não as converte
// para as chaves inteiras das tabelas.
func unmarshal(data []byte, ds *Dataset) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
		return json.Unmarshal(trimmed, ds)
	}
	return yaml.Unmarshal(data, ds)
}

// Load monta o Store a partir de uma URI (ver pacote source). Vazio ou
// "builtin" devolve o dataset padrão.
func Load(ctx context.Context, uri string) (*Store, error) {
	return LoadWith(ctx, source.NewFetcher(), uri)
}

// LoadWith é o Load com um Fetcher injetável.
func LoadWith(ctx context.Context, f *source.Fetcher, uri string) (*Store, error) {
	if uri == "" || uri == BuiltinSource {
		return NewStore(Builtin())
	}

	data, err := f.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return NewStore(ds)
}
