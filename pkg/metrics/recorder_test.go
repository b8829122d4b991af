package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type call struct {
	Type  string
	Name  string
	Value float64
	Tags  []string
}

// MockProvider para verificar chamadas
type MockProvider struct {
	Calls []call
	Err   error
}

func (m *MockProvider) Count(name string, val float64, tags []string) error {
	m.Calls = append(m.Calls, call{"count", name, val, tags})
	return m.Err
}

func (m *MockProvider) Gauge(name string, val float64, tags []string) error {
	m.Calls = append(m.Calls, call{"gauge", name, val, tags})
	return m.Err
}

func (m *MockProvider) Histogram(name string, val float64, tags []string) error {
	m.Calls = append(m.Calls, call{"histogram", name, val, tags})
	return m.Err
}

func TestRecorder_ObserveRequest(t *testing.T) {
	mock := &MockProvider{}
	rec := NewRecorder(mock)

	err := rec.ObserveRequest("user_posts", 200, 1500*time.Microsecond)
	assert.NoError(t, err)

	if assert.Len(t, mock.Calls, 2) {
		assert.Equal(t, call{"count", "emulator.requests", 1, []string{"route:user_posts", "status:200"}}, mock.Calls[0])
		assert.Equal(t, "histogram", mock.Calls[1].Type)
		assert.Equal(t, "emulator.resolve_ms", mock.Calls[1].Name)
		assert.InDelta(t, 1.5, mock.Calls[1].Value, 0.0001)
	}
}

func TestRecorder_ObserveCancel(t *testing.T) {
	mock := &MockProvider{}
	assert.NoError(t, NewRecorder(mock).ObserveCancel("body"))
	assert.Equal(t, []call{{"count", "emulator.cancelled", 1, []string{"phase:body"}}}, mock.Calls)
}

func TestRecorder_Errors(t *testing.T) {
	t.Run("Erro do provider interrompe", func(t *testing.T) {
		mock := &MockProvider{Err: errors.New("statsd fora")}
		err := NewRecorder(mock).ObserveRequest("posts", 200, time.Millisecond)
		assert.Error(t, err)
		assert.Len(t, mock.Calls, 1)
	})

	t.Run("Recorder sem provider", func(t *testing.T) {
		assert.NoError(t, NewRecorder(nil).ObserveRequest("posts", 200, time.Millisecond))

		var rec *Recorder
		assert.NoError(t, rec.ObserveCancel("head"))
	})
}

func TestDefinition(t *testing.T) {
	d, ok := Definition(Resolve)
	assert.True(t, ok)
	assert.Equal(t, TypeHistogram, d.Type)

	_, ok = Definition("inexistente")
	assert.False(t, ok)
}
