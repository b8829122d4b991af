package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var schemePattern = regexp.MustCompile(`^[a-z][a-z0-9+.-]*$`)

// assetSchemes lista os prefixos aceitos em assets.source.
var assetSchemes = []string{"dir://", "s3://", "minio://"}

type ConfigValidator struct {
	validate *validator.Validate
}

// NewValidator cria uma nova instância do validador
func NewValidator() *ConfigValidator {
	return &ConfigValidator{
		validate: validator.New(),
	}
}

// Validate realiza validações estruturais (tags) e semânticas (lógica)
func (cv *ConfigValidator) Validate(cfg *Config) error {
	// 1. Validação Estrutural (Tags do struct: required, oneof, etc)
	if err := cv.validate.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			var errMsgs []string
			for _, e := range validationErrors {
				errMsgs = append(errMsgs, fmt.Sprintf("Campo '%s' falhou na regra '%s'", e.Namespace(), e.Tag()))
			}
			return fmt.Errorf("erros de validação estrutural:\n- %s", strings.Join(errMsgs, "\n- "))
		}
		return fmt.Errorf("erro de validação estrutural: %w", err)
	}

	// 2. Validação Semântica (Regras de negócio da configuração)
	if err := cv.validateSemantics(cfg); err != nil {
		return fmt.Errorf("erro de validação semântica: %w", err)
	}

	return nil
}

func (cv *ConfigValidator) validateSemantics(cfg *Config) error {
	var errs []error

	if !schemePattern.MatchString(cfg.Service.Scheme) {
		errs = append(errs, fmt.Errorf("scheme inválido: '%s'", cfg.Service.Scheme))
	}

	durations := []struct{ name, value string }{
		{"service.latency.headers", cfg.Service.Latency.Headers},
		{"service.latency.body", cfg.Service.Latency.Body},
		{"assets.cache.redis.ttl", cfg.Assets.Cache.Redis.TTL},
	}
	for _, f := range durations {
		name, value := f.name, f.value
		if value == "" {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			errs = append(errs, fmt.Errorf("duração inválida em %s: '%s'", name, value))
			continue
		}
		if d < 0 {
			errs = append(errs, fmt.Errorf("duração negativa em %s: '%s'", name, value))
		}
	}

	prom := cfg.Service.Metrics.Prometheus
	if prom.Enabled && !strings.HasPrefix(prom.Route, "/") {
		errs = append(errs, fmt.Errorf("rota de métricas deve começar com '/': '%s'", prom.Route))
	}

	if src := cfg.Assets.Source; strings.Contains(src, "://") && !hasAnyPrefix(src, assetSchemes) {
		errs = append(errs, fmt.Errorf("origem de assets não suportada: '%s'", src))
	}

	if strings.HasPrefix(cfg.Assets.Source, "minio://") {
		parts := strings.SplitN(strings.TrimPrefix(cfg.Assets.Source, "minio://"), "/", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			errs = append(errs, fmt.Errorf("origem minio deve ser minio://endpoint/bucket[/prefixo]: '%s'", cfg.Assets.Source))
		}
	}

	return errors.Join(errs...)
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
