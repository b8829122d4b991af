package metrics

import (
	"fmt"
	"strconv"
	"time"
)

// IDs das métricas emitidas pelo emulador.
const (
	Requests  = "requests"
	Resolve   = "resolve_time"
	Cancelled = "cancelled"
)

var definitions = map[string]MetricDefinition{
	Requests:  {Name: "emulator.requests", Type: TypeCount},
	Resolve:   {Name: "emulator.resolve_ms", Type: TypeHistogram},
	Cancelled: {Name: "emulator.cancelled", Type: TypeCount},
}

// Recorder traduz eventos do emulador em chamadas ao Provider.
type Recorder struct {
	provider Provider
}

// NewRecorder aceita provider nil (nenhuma métrica é enviada).
func NewRecorder(provider Provider) *Recorder {
	return &Recorder{provider: provider}
}

// Definition devolve nome e tipo de uma métrica conhecida.
func Definition(id string) (MetricDefinition, bool) {
	d, ok := definitions[id]
	return d, ok
}

// ObserveRequest registra uma requisição resolvida: contagem por rota/status e latência de resolução.
func (r *Recorder) ObserveRequest(route string, status int, elapsed time.Duration) error {
	tags := []string{"route:" + route, "status:" + strconv.Itoa(status)}
	if err := r.emit(Requests, 1, tags); err != nil {
		return err
	}
	return r.emit(Resolve, float64(elapsed.Microseconds())/1000, []string{"route:" + route})
}

// ObserveCancel registra uma entrega interrompida antes da fase indicada.
func (r *Recorder) ObserveCancel(phase string) error {
	return r.emit(Cancelled, 1, []string{"phase:" + phase})
}

func (r *Recorder) emit(id string, value float64, tags []string) error {
	if r == nil || r.provider == nil {
		return nil
	}
	def := definitions[id]

	switch def.Type {
	case TypeCount:
		return r.provider.Count(def.Name, value, tags)
	case TypeGauge:
		return r.provider.Gauge(def.Name, value, tags)
	case TypeHistogram:
		return r.provider.Histogram(def.Name, value, tags)
	default:
		return fmt.Errorf("tipo de métrica desconhecido: %s", def.Type)
	}
}
