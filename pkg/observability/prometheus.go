package observability

import (
	"fmt"
	"net/http"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var invalidChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// PrometheusProvider registra as métricas num registry próprio, exposto via Handler.
// Os vetores são criados no primeiro uso com os nomes de label vindos das tags "chave:valor".
type PrometheusProvider struct {
	registry *prometheus.Registry

	mu         sync.Mutex
	counters   map[string]*prometheus.CounterVec
	gauges     map[string]*prometheus.GaugeVec
	histograms map[string]*prometheus.HistogramVec
}

func NewPrometheusProvider() *PrometheusProvider {
	return &PrometheusProvider{
		registry:   prometheus.NewRegistry(),
		counters:   map[string]*prometheus.CounterVec{},
		gauges:     map[string]*prometheus.GaugeVec{},
		histograms: map[string]*prometheus.HistogramVec{},
	}
}

func (p *PrometheusProvider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry expõe o registry (útil para testes e coletores extras).
func (p *PrometheusProvider) Registry() *prometheus.Registry {
	return p.registry
}

func (p *PrometheusProvider) Count(name string, value float64, tags []string) error {
	if value < 0 {
		return fmt.Errorf("contador %s não aceita valor negativo: %v", name, value)
	}
	metricName, labels := translate(name, tags)
	if !strings.HasSuffix(metricName, "_total") {
		metricName += "_total" // convenção do Prometheus para contadores
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.counters[metricName]
	if !ok {
		vec = prometheus.NewCounterVec(prometheus.CounterOpts{Name: metricName, Help: name}, labelNames(labels))
		if err := p.registry.Register(vec); err != nil {
			return fmt.Errorf("falha ao registrar %s: %w", metricName, err)
		}
		p.counters[metricName] = vec
	}
	c, err := vec.GetMetricWith(labels)
	if err != nil {
		return err
	}
	c.Add(value)
	return nil
}

func (p *PrometheusProvider) Gauge(name string, value float64, tags []string) error {
	metricName, labels := translate(name, tags)

	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.gauges[metricName]
	if !ok {
		vec = prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: metricName, Help: name}, labelNames(labels))
		if err := p.registry.Register(vec); err != nil {
			return fmt.Errorf("falha ao registrar %s: %w", metricName, err)
		}
		p.gauges[metricName] = vec
	}
	g, err := vec.GetMetricWith(labels)
	if err != nil {
		return err
	}
	g.Set(value)
	return nil
}

func (p *PrometheusProvider) Histogram(name string, value float64, tags []string) error {
	metricName, labels := translate(name, tags)

	p.mu.Lock()
	defer p.mu.Unlock()
	vec, ok := p.histograms[metricName]
	if !ok {
		vec = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    metricName,
			Help:    name,
			Buckets: prometheus.DefBuckets,
		}, labelNames(labels))
		if err := p.registry.Register(vec); err != nil {
			return fmt.Errorf("falha ao registrar %s: %w", metricName, err)
		}
		p.histograms[metricName] = vec
	}
	h, err := vec.GetMetricWith(labels)
	if err != nil {
		return err
	}
	h.Observe(value)
	return nil
}

// translate converte nome e tags no formato statsd ("emulator.requests", "route:posts")
// para o formato do Prometheus ("emulator_requests", {route="posts"}). Count
// ainda acrescenta o sufixo "_total".
func translate(name string, tags []string) (string, prometheus.Labels) {
	labels := prometheus.Labels{}
	for _, tag := range tags {
		k, v, found := strings.Cut(tag, ":")
		if !found {
			v = "true"
		}
		labels[sanitize(k)] = v
	}
	return sanitize(name), labels
}

func labelNames(labels prometheus.Labels) []string {
	names := make([]string, 0, len(labels))
	for k := range labels {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func sanitize(s string) string {
	s = invalidChars.ReplaceAllString(s, "_")
	if s != "" && s[0] >= '0' && s[0] <= '9' {
		s = "_" + s
	}
	return s
}
