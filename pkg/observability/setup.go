package observability

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/DataDog/datadog-go/v5/statsd"
	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/raywall/feed-emulator/pkg/metrics"
)

// NoopProvider é um placeholder para quando métricas estão desabilitadas.
type NoopProvider struct{}

func (n *NoopProvider) Count(name string, value float64, tags []string) error     { return nil }
func (n *NoopProvider) Gauge(name string, value float64, tags []string) error     { return nil }
func (n *NoopProvider) Histogram(name string, value float64, tags []string) error { return nil }

// DatadogProvider adapta a lib oficial do Datadog para nossa interface.
type DatadogProvider struct {
	client statsd.ClientInterface
}

func (d *DatadogProvider) Count(name string, value float64, tags []string) error {
	return d.client.Count(name, int64(value), tags, 1)
}

func (d *DatadogProvider) Gauge(name string, value float64, tags []string) error {
	return d.client.Gauge(name, value, tags, 1)
}

func (d *DatadogProvider) Histogram(name string, value float64, tags []string) error {
	return d.client.Histogram(name, value, tags, 1)
}

// MultiProvider replica cada métrica para todos os providers habilitados.
type MultiProvider []metrics.Provider

func (m MultiProvider) Count(name string, value float64, tags []string) error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.Count(name, value, tags))
	}
	return errors.Join(errs...)
}

func (m MultiProvider) Gauge(name string, value float64, tags []string) error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.Gauge(name, value, tags))
	}
	return errors.Join(errs...)
}

func (m MultiProvider) Histogram(name string, value float64, tags []string) error {
	var errs []error
	for _, p := range m {
		errs = append(errs, p.Histogram(name, value, tags))
	}
	return errors.Join(errs...)
}

// SetupMetrics inicializa o provedor correto baseado no YAML.
func SetupMetrics(cfg config.MetricsConf) (metrics.Provider, error) {
	var providers MultiProvider

	if cfg.Datadog.Enabled {
		opts := []statsd.Option{
			statsd.WithNamespace(cfg.Datadog.Namespace),
		}
		client, err := statsd.New(cfg.Datadog.Addr, opts...)
		if err != nil {
			return nil, fmt.Errorf("falha ao conectar no datadog statsd: %w", err)
		}
		providers = append(providers, &DatadogProvider{client: client})
	}

	if cfg.Prometheus.Enabled {
		providers = append(providers, NewPrometheusProvider())
	}

	switch len(providers) {
	case 0:
		return &NoopProvider{}, nil
	case 1:
		return providers[0], nil
	}
	return providers, nil
}

// MetricsHandler devolve o handler de scrape quando algum provider o expõe.
func MetricsHandler(p metrics.Provider) (http.Handler, bool) {
	switch v := p.(type) {
	case *PrometheusProvider:
		return v.Handler(), true
	case MultiProvider:
		for _, inner := range v {
			if h, ok := MetricsHandler(inner); ok {
				return h, true
			}
		}
	}
	return nil, false
}
