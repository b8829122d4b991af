package logger

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/rs/zerolog"
)

// Configure inicializa o logger global baseando-se na configuração do YAML.
func Configure(cfg config.LoggingConf, service string) zerolog.Logger {
	return ConfigureTo(os.Stdout, cfg, service)
}

// ConfigureTo é o Configure com destino explícito.
func ConfigureTo(out io.Writer, cfg config.LoggingConf, service string) zerolog.Logger {
	// Define o nível de log (default: info)
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// JSON para produção, Console "bonito" para local se solicitado
	output := out
	if !cfg.Enabled {
		output = io.Discard
	} else if cfg.Format == "console" {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(output).With().Timestamp()
	if service != "" {
		ctx = ctx.Str("service", service)
	}
	return ctx.Logger()
}

// WithCorrelation anexa ao contexto um logger filho com o correlation id.
// Um id vazio gera um novo UUID.
func WithCorrelation(ctx context.Context, base zerolog.Logger, id string) (context.Context, string) {
	if id == "" {
		id = uuid.New().String()
	}
	l := base.With().Str("correlation_id", id).Logger()
	return l.WithContext(ctx), id
}
