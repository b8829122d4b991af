// Package engine monta o emulador a partir da configuração: logger, métricas,
// dataset de fixtures, origem de assets e o Server com suas rotas.
package engine

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/raywall/feed-emulator/pkg/assets"
	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/raywall/feed-emulator/pkg/emulator"
	"github.com/raywall/feed-emulator/pkg/fixtures"
	"github.com/raywall/feed-emulator/pkg/logger"
	"github.com/raywall/feed-emulator/pkg/metrics"
	"github.com/raywall/feed-emulator/pkg/observability"
	"github.com/raywall/feed-emulator/pkg/query"
	"github.com/raywall/feed-emulator/pkg/source"
	"github.com/rs/zerolog"
)

type ServiceEngine struct {
	Config  *config.Config
	Logger  zerolog.Logger
	Metrics metrics.Provider
	Store   *fixtures.Store
	Assets  assets.Source
	Server  *emulator.Server
}

// Option substitui dependências externas (útil em testes).
type Option func(*deps)

type deps struct {
	logOutput io.Writer
	fetcher   *source.Fetcher
	assets    assets.Source
	metrics   metrics.Provider
}

// WithLogOutput redireciona os logs (default: stdout).
func WithLogOutput(w io.Writer) Option {
	return func(d *deps) { d.logOutput = w }
}

// WithFetcher troca o leitor de datasets remotos.
func WithFetcher(f *source.Fetcher) Option {
	return func(d *deps) { d.fetcher = f }
}

// WithAssets ignora assets.source e usa a origem informada.
func WithAssets(src assets.Source) Option {
	return func(d *deps) { d.assets = src }
}

// WithMetrics ignora a configuração de métricas e usa o provider informado.
func WithMetrics(p metrics.Provider) Option {
	return func(d *deps) { d.metrics = p }
}

func NewServiceEngine(ctx context.Context, cfg *config.Config, opts ...Option) (*ServiceEngine, error) {
	d := &deps{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(d)
	}

	log := logger.ConfigureTo(d.logOutput, cfg.Service.Logging, cfg.Service.Name)

	metricProvider := d.metrics
	if metricProvider == nil {
		var err error
		if metricProvider, err = observability.SetupMetrics(cfg.Service.Metrics); err != nil {
			return nil, fmt.Errorf("falha métricas: %w", err)
		}
	}

	fetcher := d.fetcher
	if fetcher == nil {
		fetcher = source.NewFetcher()
	}
	store, err := fixtures.LoadWith(ctx, fetcher, cfg.Fixtures.Source)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar fixtures: %w", err)
	}
	log.Info().Str("source", sourceName(cfg.Fixtures.Source)).Int("posts", store.Len()).Msg("Fixtures carregadas")

	assetSource := d.assets
	if assetSource == nil {
		if assetSource, err = assets.FromConfig(ctx, cfg.Assets); err != nil {
			return nil, fmt.Errorf("falha ao configurar assets: %w", err)
		}
	}

	fallback, err := emulator.ParseFallback(cfg.Service.UnknownRoute)
	if err != nil {
		return nil, err
	}

	srv, err := emulator.New(query.New(store), emulator.Options{
		Scheme: cfg.Service.Scheme,
		Latency: &emulator.Latency{
			Head: cfg.Service.Latency.HeadersDelay(),
			Body: cfg.Service.Latency.BodyDelay(),
		},
		Fallback:        fallback,
		AssetExtensions: cfg.Assets.Extensions,
		Assets:          assetSource,
		Logger:          &log,
		Recorder:        metrics.NewRecorder(metricProvider),
	})
	if err != nil {
		return nil, fmt.Errorf("falha ao iniciar emulador: %w", err)
	}

	return &ServiceEngine{
		Config:  cfg,
		Logger:  log,
		Metrics: metricProvider,
		Store:   store,
		Assets:  assetSource,
		Server:  srv,
	}, nil
}

func sourceName(uri string) string {
	if uri == "" {
		return fixtures.BuiltinSource
	}
	return uri
}
