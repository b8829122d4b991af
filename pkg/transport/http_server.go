package transport

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/raywall/feed-emulator/pkg/emulator"
	"github.com/raywall/feed-emulator/pkg/engine"
	"github.com/raywall/feed-emulator/pkg/logger"
	"github.com/raywall/feed-emulator/pkg/observability"
	"github.com/rs/zerolog"
)

const (
	HeaderCorrelationID = "x-correlation-id"
	HeaderLatency       = "x-latency-ms"
)

// HandlerOptions controla as rotas auxiliares expostas junto do emulador.
type HandlerOptions struct {
	Logger         zerolog.Logger
	MetricsHandler http.Handler
	MetricsRoute   string
}

// NewHandler expõe o emulador via HTTP: /healthz, /metrics (opcional) e um
// catch-all que entrega cada resposta nas mesmas duas fases do emulador.
func NewHandler(srv *emulator.Server, opts HandlerOptions) http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	if opts.MetricsHandler != nil && opts.MetricsRoute != "" {
		router.Handle(opts.MetricsRoute, opts.MetricsHandler).Methods(http.MethodGet)
	}

	router.PathPrefix("/").Handler(emulatorHandler(srv))

	return ObservabilityMiddleware(opts.Logger, router)
}

func StartHTTPServer(svc *engine.ServiceEngine) error {
	opts := HandlerOptions{Logger: svc.Logger}
	if h, ok := observability.MetricsHandler(svc.Metrics); ok {
		opts.MetricsHandler = h
		opts.MetricsRoute = svc.Config.Service.Metrics.Prometheus.Route
		svc.Logger.Info().Msgf("Registrando métricas em %s", opts.MetricsRoute)
	}

	addr := fmt.Sprintf(":%d", svc.Config.Service.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           NewHandler(svc.Server, opts),
		ReadHeaderTimeout: 5 * time.Second,
	}

	svc.Logger.Info().Msgf("Servidor HTTP ouvindo em %s", addr)
	return server.ListenAndServe()
}

// emulatorHandler traduz a requisição HTTP para o emulador, usando o scheme
// configurado. O cliente recebe o status e os cabeçalhos após a primeira
// fase e o corpo após a segunda. Desconexão do cliente cancela a entrega.
func emulatorHandler(srv *emulator.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		heads := make(chan emulator.Head, 1)
		bodies := make(chan []byte, 1)

		req := emulator.Request{Scheme: srv.Scheme(), Method: r.Method, Path: r.URL.Path}
		call, err := srv.Start(r.Context(), req, emulator.ReceiverFuncs{
			OnHead: func(h emulator.Head) { heads <- h },
			OnBody: func(b []byte) { bodies <- b },
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		defer call.Cancel()

		head, ok := await(heads, call.Done())
		if !ok {
			return
		}
		for k, v := range head.Headers {
			w.Header()[k] = v
		}
		w.WriteHeader(head.StatusCode)
		_ = http.NewResponseController(w).Flush()

		body, ok := await(bodies, call.Done())
		if !ok {
			return
		}
		w.Write(body)
	}
}

// await espera um valor da fase ou o fim da entrega. Um valor entregue junto
// com o fim ainda é aproveitado.
func await[T any](ch <-chan T, done <-chan struct{}) (T, bool) {
	select {
	case v := <-ch:
		return v, true
	case <-done:
		select {
		case v := <-ch:
			return v, true
		default:
			var zero T
			return zero, false
		}
	}
}

// --- MIDDLEWARE DE OBSERVABILIDADE ---
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode  int
	startTime   time.Time
	wroteHeader bool
}

func (rw *responseWriterWrapper) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	duration := time.Since(rw.startTime)
	rw.Header().Set(HeaderLatency, strconv.FormatInt(duration.Milliseconds(), 10))
	rw.ResponseWriter.WriteHeader(code)
	rw.wroteHeader = true
}

func (rw *responseWriterWrapper) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// Unwrap permite ao http.ResponseController alcançar o Flusher original.
func (rw *responseWriterWrapper) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

func ObservabilityMiddleware(base zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, corrID := logger.WithCorrelation(r.Context(), base, r.Header.Get(HeaderCorrelationID))
		w.Header().Set(HeaderCorrelationID, corrID)

		wrapper := &responseWriterWrapper{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			startTime:      start,
		}

		next.ServeHTTP(wrapper, r.WithContext(ctx))

		zerolog.Ctx(ctx).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Msg("request completed")
	})
}
