package config

import "time"

const (
	UnknownRouteEmpty    = "empty"
	UnknownRouteNotFound = "not_found"

	defaultHeadersLatency = 200 * time.Millisecond
	defaultBodyLatency    = 300 * time.Millisecond
)

// Config representa a estrutura raiz do arquivo YAML do emulador.
type Config struct {
	Version  string         `yaml:"version" validate:"required"`
	Service  ServiceDetails `yaml:"service" validate:"required"`
	Fixtures FixturesConf   `yaml:"fixtures"`
	Assets   AssetsConf     `yaml:"assets"`
}

// ServiceDetails contém os metadados e configurações de runtime do serviço.
type ServiceDetails struct {
	Name         string      `yaml:"name" validate:"required,hostname_rfc1123"`
	Runtime      string      `yaml:"runtime" env:"SERVICE_RUNTIME" validate:"required,oneof=local lambda"`
	Port         int         `yaml:"port" env:"PORT" validate:"required_if=Runtime local,gte=0,lte=65535"`
	Scheme       string      `yaml:"scheme" validate:"required"`
	UnknownRoute string      `yaml:"unknown_route" validate:"oneof=empty not_found"`
	Latency      LatencyConf `yaml:"latency"`
	Logging      LoggingConf `yaml:"logging"`
	Metrics      MetricsConf `yaml:"metrics"`
}

// LatencyConf define os atrasos das duas fases da entrega. Ex: "200ms".
type LatencyConf struct {
	Headers string `yaml:"headers"`
	Body    string `yaml:"body"`
}

type LoggingConf struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Format  string `yaml:"format" validate:"oneof=json console"`
}

type MetricsConf struct {
	Datadog    DatadogConf    `yaml:"datadog"`
	Prometheus PrometheusConf `yaml:"prometheus"`
}

type DatadogConf struct {
	Enabled   bool   `yaml:"enabled" env:"DD_ENABLED"`
	Addr      string `yaml:"addr" env:"DD_AGENT_HOST" validate:"required_if=Enabled true"`
	Namespace string `yaml:"namespace"`
}

type PrometheusConf struct {
	Enabled bool   `yaml:"enabled"`
	Route   string `yaml:"route" validate:"required_if=Enabled true"`
}

// FixturesConf aponta para o dataset: builtin, arquivo, s3:// ou dynamodb://.
type FixturesConf struct {
	Source string `yaml:"source" env:"FIXTURES_SOURCE"`
}

type AssetsConf struct {
	Source     string    `yaml:"source" env:"ASSETS_SOURCE"`
	Extensions []string  `yaml:"extensions" validate:"dive,startswith=."`
	Minio      MinioConf `yaml:"minio"`
	Cache      CacheConf `yaml:"cache"`
}

type MinioConf struct {
	AccessKey string `yaml:"access_key" env:"MINIO_ACCESS_KEY"`
	SecretKey string `yaml:"secret_key" env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type CacheConf struct {
	Redis RedisConf `yaml:"redis"`
}

type RedisConf struct {
	Enabled  bool   `yaml:"enabled"`
	Addr     string `yaml:"addr" env:"REDIS_ADDR" validate:"required_if=Enabled true"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	TTL      string `yaml:"ttl"`
}

// Default devolve a configuração usada quando nenhum arquivo é informado.
// Também serve de base para o Load: campos omitidos no YAML mantêm estes valores.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Service: ServiceDetails{
			Name:         "feed-emulator",
			Runtime:      "local",
			Port:         8080,
			Scheme:       "mock",
			UnknownRoute: UnknownRouteEmpty,
			Latency: LatencyConf{
				Headers: defaultHeadersLatency.String(),
				Body:    defaultBodyLatency.String(),
			},
			Logging: LoggingConf{Enabled: true, Level: "info", Format: "json"},
			Metrics: MetricsConf{
				Prometheus: PrometheusConf{Route: "/metrics"},
			},
		},
		Fixtures: FixturesConf{Source: "builtin"},
		Assets: AssetsConf{
			Source:     "dir://./assets",
			Extensions: []string{".jpg"},
		},
	}
}

func (l LatencyConf) HeadersDelay() time.Duration {
	return parseDelay(l.Headers, defaultHeadersLatency)
}

func (l LatencyConf) BodyDelay() time.Duration {
	return parseDelay(l.Body, defaultBodyLatency)
}

func parseDelay(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return fallback
	}
	return d
}

func (r RedisConf) GetTTL() time.Duration {
	if r.TTL == "" {
		return 0
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil {
		return 0
	}
	return d
}
