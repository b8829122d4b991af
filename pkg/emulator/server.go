package emulator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/raywall/feed-emulator/pkg/assets"
	"github.com/raywall/feed-emulator/pkg/fixtures"
	"github.com/raywall/feed-emulator/pkg/metrics"
	"github.com/raywall/feed-emulator/pkg/query"
	"github.com/raywall/feed-emulator/pkg/route"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnsupportedScheme indica uma requisição que não pertence ao emulador.
var ErrUnsupportedScheme = errors.New("scheme não suportado pelo emulador")

// Fallback decide a resposta para requisições que não casam com nenhuma rota.
type Fallback int

const (
	// FallbackEmpty responde 200 com uma lista vazia.
	FallbackEmpty Fallback = iota
	// FallbackNotFound responde 404 sem corpo.
	FallbackNotFound
)

// ParseFallback converte o valor de configuração ("empty", "not_found").
func ParseFallback(s string) (Fallback, error) {
	switch s {
	case "", "empty":
		return FallbackEmpty, nil
	case "not_found":
		return FallbackNotFound, nil
	}
	return 0, fmt.Errorf("fallback desconhecido: '%s'", s)
}

// Nomes de rota usados em logs, métricas e spans.
const (
	RouteAllPosts  = "all_posts"
	RouteUserPosts = "user_posts"
	RouteAsset     = "asset"
	RouteUnmatched = "unmatched"
)

const tracerName = "github.com/raywall/feed-emulator/pkg/emulator"

// Latency define os atrasos da entrega. Body conta a partir da entrega do Head.
type Latency struct {
	Head time.Duration
	Body time.Duration
}

// DefaultLatency reproduz uma rede lenta: 200ms até os cabeçalhos, mais 300ms até o corpo.
var DefaultLatency = Latency{Head: 200 * time.Millisecond, Body: 300 * time.Millisecond}

// Options configura o Server. Campos zerados assumem os defaults.
type Options struct {
	Scheme          string
	Latency         *Latency
	Fallback        Fallback
	AssetExtensions []string
	Assets          assets.Source
	Logger          *zerolog.Logger
	Recorder        *metrics.Recorder
}

type routeEntry struct {
	name    string
	method  string
	pattern *route.Pattern
	run     func(params route.Params) ([]fixtures.EnrichedPost, error)
}

// Server resolve requisições do scheme configurado contra o Query Engine e a
// origem de assets, e entrega a resposta em duas fases atrasadas.
// Não há estado mutável após a construção: é seguro para uso concorrente.
type Server struct {
	scheme     string
	latency    Latency
	fallback   Fallback
	extensions map[string]bool
	assets     assets.Source
	routes     []routeEntry
	logger     zerolog.Logger
	recorder   *metrics.Recorder
	tracer     trace.Tracer
}

// New monta o Server sobre o Query Engine.
func New(engine *query.Engine, opts Options) (*Server, error) {
	if engine == nil {
		return nil, errors.New("query engine é obrigatório")
	}

	s := &Server{
		scheme:     opts.Scheme,
		latency:    DefaultLatency,
		fallback:   opts.Fallback,
		extensions: map[string]bool{},
		assets:     opts.Assets,
		logger:     zerolog.Nop(),
		recorder:   opts.Recorder,
		tracer:     otel.Tracer(tracerName),
	}
	if s.scheme == "" {
		s.scheme = "mock"
	}
	if opts.Latency != nil {
		s.latency = *opts.Latency
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	}

	exts := opts.AssetExtensions
	if exts == nil {
		exts = []string{".jpg"}
	}
	for _, ext := range exts {
		s.extensions[ext] = true
	}

	allPosts, err := route.Compile("/posts")
	if err != nil {
		return nil, err
	}
	userPosts, err := route.Compile("/users/:user_id/posts")
	if err != nil {
		return nil, err
	}

	s.routes = []routeEntry{
		{
			name:    RouteAllPosts,
			method:  http.MethodGet,
			pattern: allPosts,
			run: func(route.Params) ([]fixtures.EnrichedPost, error) {
				return engine.AllPosts()
			},
		},
		{
			name:    RouteUserPosts,
			method:  http.MethodGet,
			pattern: userPosts,
			run: func(p route.Params) ([]fixtures.EnrichedPost, error) {
				id, _ := p.Get("user_id")
				return engine.PostsByUser(fixtures.UserID(id))
			},
		},
	}

	return s, nil
}

func (s *Server) Scheme() string {
	return s.scheme
}

func (s *Server) Latency() Latency {
	return s.latency
}

// CanHandle informa se a requisição pertence ao emulador.
func (s *Server) CanHandle(req Request) bool {
	return strings.EqualFold(req.Scheme, s.scheme)
}

// Resolve calcula a resposta de forma síncrona, sem atrasos.
func (s *Server) Resolve(ctx context.Context, req Request) Response {
	ctx, span := s.tracer.Start(ctx, "emulator.resolve", trace.WithAttributes(
		attribute.String("http.request.method", req.Method),
		attribute.String("url.path", req.Path),
	))
	defer span.End()

	start := time.Now()
	name, resp := s.dispatch(ctx, req)
	elapsed := time.Since(start)

	span.SetAttributes(
		attribute.String("emulator.route", name),
		attribute.Int("http.response.status_code", resp.StatusCode),
	)
	if resp.StatusCode >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
	}

	if err := s.recorder.ObserveRequest(name, resp.StatusCode, elapsed); err != nil {
		s.log(ctx).Debug().Err(err).Msg("Falha ao registrar métrica")
	}

	s.log(ctx).Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Str("route", name).
		Int("status", resp.StatusCode).
		Dur("resolve", elapsed).
		Msg("Requisição resolvida")

	return resp
}

func (s *Server) dispatch(ctx context.Context, req Request) (string, Response) {
	if s.extensions[path.Ext(req.Path)] {
		return RouteAsset, s.serveAsset(ctx, path.Base(req.Path))
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	for _, r := range s.routes {
		if r.method != method {
			continue
		}
		params, ok := r.pattern.Match(req.Path)
		if !ok {
			continue
		}

		posts, err := r.run(params)
		if err != nil {
			s.log(ctx).Error().Err(err).Str("route", r.name).Msg("Falha de consistência ao consultar fixtures")
			return r.name, Response{StatusCode: http.StatusInternalServerError, Headers: http.Header{}}
		}
		return r.name, s.jsonResponse(ctx, posts)
	}

	return RouteUnmatched, s.unmatched()
}

func (s *Server) serveAsset(ctx context.Context, name string) Response {
	notFound := Response{StatusCode: http.StatusNotFound, Headers: http.Header{}}
	if s.assets == nil {
		return notFound
	}

	data, err := s.assets.Open(ctx, name)
	if err != nil {
		if !errors.Is(err, assets.ErrNotFound) {
			s.log(ctx).Warn().Err(err).Str("asset", name).Msg("Falha ao ler asset")
		}
		return notFound
	}

	h := http.Header{}
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		h.Set("Content-Type", ct)
	} else {
		h.Set("Content-Type", http.DetectContentType(data))
	}
	return Response{StatusCode: http.StatusOK, Headers: h, Body: data}
}

func (s *Server) unmatched() Response {
	if s.fallback == FallbackNotFound {
		return Response{StatusCode: http.StatusNotFound, Headers: http.Header{}}
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return Response{StatusCode: http.StatusOK, Headers: h, Body: []byte("[]")}
}

func (s *Server) jsonResponse(ctx context.Context, posts []fixtures.EnrichedPost) Response {
	body, err := json.Marshal(posts)
	if err != nil {
		s.log(ctx).Error().Err(err).Msg("Falha ao serializar posts")
		return Response{StatusCode: http.StatusInternalServerError, Headers: http.Header{}}
	}
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	return Response{StatusCode: http.StatusOK, Headers: h, Body: body}
}

// log prefere o logger do contexto (com correlation id) ao logger do Server.
func (s *Server) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &s.logger
}
