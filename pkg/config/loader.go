package config

import (
	"context"
	"fmt"

	"github.com/raywall/feed-emulator/pkg/config/injector"
	"github.com/raywall/feed-emulator/pkg/source"
	"gopkg.in/yaml.v3"
)

// Loader junta as três etapas: leitura da URI, injeção de valores externos e validação.
type Loader struct {
	Fetcher   *source.Fetcher
	Injector  *injector.Injector
	Validator *ConfigValidator
}

func NewLoader() *Loader {
	return &Loader{
		Fetcher:   source.NewFetcher(),
		Injector:  injector.New(),
		Validator: NewValidator(),
	}
}

// Load é o atalho de pacote para NewLoader().Load.
func Load(ctx context.Context, uri string) (*Config, error) {
	return NewLoader().Load(ctx, uri)
}

// Load lê o YAML sobre os valores de Default, injeta e valida.
func (l *Loader) Load(ctx context.Context, uri string) (*Config, error) {
	data, err := l.Fetcher.Fetch(ctx, uri)
	if err != nil {
		return nil, err
	}
	return l.Parse(ctx, data)
}

func (l *Loader) Parse(ctx context.Context, data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("erro parse yaml: %w", err)
	}

	if err := l.Injector.Inject(ctx, cfg); err != nil {
		return nil, fmt.Errorf("erro injetando valores: %w", err)
	}

	if err := l.Validator.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
