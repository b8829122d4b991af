package transport

import (
	"context"
	"encoding/base64"
	"errors"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/raywall/feed-emulator/pkg/emulator"
	"github.com/raywall/feed-emulator/pkg/engine"
	"github.com/raywall/feed-emulator/pkg/logger"
	"github.com/rs/zerolog"
)

// LambdaHandler adapta eventos do API Gateway para o emulador
type LambdaHandler struct {
	svc *engine.ServiceEngine
}

// NewLambdaHandler cria uma nova instância do adaptador
func NewLambdaHandler(svc *engine.ServiceEngine) *LambdaHandler {
	return &LambdaHandler{svc: svc}
}

// Handle processa a requisição Lambda. A resposta só retorna após as duas
// fases de latência; o API Gateway não faz streaming.
func (h *LambdaHandler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	start := time.Now()

	// O API Gateway pode preservar a caixa original do header
	corrID := req.Headers[HeaderCorrelationID]
	if corrID == "" {
		corrID = req.Headers["X-Correlation-Id"]
	}
	ctx, corrID = logger.WithCorrelation(ctx, h.svc.Logger, corrID)
	log := zerolog.Ctx(ctx)

	srv := h.svc.Server
	resp, err := srv.Do(ctx, emulator.Request{Scheme: srv.Scheme(), Method: req.HTTPMethod, Path: req.Path})

	var response events.APIGatewayProxyResponse
	switch {
	case err == nil:
		response = toProxyResponse(resp)
	case errors.Is(err, context.DeadlineExceeded):
		response = events.APIGatewayProxyResponse{
			StatusCode: http.StatusGatewayTimeout,
			Body:       `{"error": "timeout"}`,
		}
	default:
		log.Error().Err(err).Msg("Erro na entrega do emulador")
		response = events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"error": "internal server error"}`,
		}
	}

	log.Info().
		Str("method", req.HTTPMethod).
		Str("path", req.Path).
		Int("status", response.StatusCode).
		Int64("latency_ms", time.Since(start).Milliseconds()).
		Msg("lambda request completed")

	if response.Headers == nil {
		response.Headers = make(map[string]string)
	}
	response.Headers[HeaderCorrelationID] = corrID

	return response, nil
}

// toProxyResponse converte a resposta; conteúdo binário vai em base64.
func toProxyResponse(resp emulator.Response) events.APIGatewayProxyResponse {
	headers := make(map[string]string, len(resp.Headers))
	for k := range resp.Headers {
		headers[k] = resp.Headers.Get(k)
	}

	out := events.APIGatewayProxyResponse{StatusCode: resp.StatusCode, Headers: headers}
	if len(resp.Body) == 0 {
		return out
	}
	if isTextual(resp.Headers.Get("Content-Type")) {
		out.Body = string(resp.Body)
		return out
	}
	out.Body = base64.StdEncoding.EncodeToString(resp.Body)
	out.IsBase64Encoded = true
	return out
}

func isTextual(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mediaType, "text/") || mediaType == "application/json"
}
