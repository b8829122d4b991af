package transport

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"
	"testing/fstest"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/raywall/feed-emulator/pkg/assets"
	"github.com/raywall/feed-emulator/pkg/config"
	"github.com/raywall/feed-emulator/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAssets = fstest.MapFS{"pic.3.jpg": {Data: []byte("\xff\xd8\xff\xe0jpeg")}}

func newTestEngine(t *testing.T, mutate func(*config.Config)) (*engine.ServiceEngine, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.Service.Latency = config.LatencyConf{Headers: "20ms", Body: "30ms"}
	if mutate != nil {
		mutate(cfg)
	}

	var logs bytes.Buffer
	svc, err := engine.NewServiceEngine(context.Background(), cfg,
		engine.WithLogOutput(&logs),
		engine.WithAssets(assets.NewFSSource(testAssets)),
	)
	require.NoError(t, err)
	return svc, &logs
}

func TestLambdaHandler_Feed(t *testing.T) {
	svc, logs := newTestEngine(t, nil)
	handler := NewLambdaHandler(svc)

	resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{
		HTTPMethod: "GET",
		Path:       "/users/2/posts",
		Headers:    map[string]string{HeaderCorrelationID: "corr-1"},
	})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	assert.Equal(t, "corr-1", resp.Headers[HeaderCorrelationID])
	assert.False(t, resp.IsBase64Encoded)
	assert.Contains(t, resp.Body, "Beth Lee")
	assert.Contains(t, logs.String(), `"correlation_id":"corr-1"`)
}

func TestLambdaHandler_Asset(t *testing.T) {
	svc, _ := newTestEngine(t, nil)
	handler := NewLambdaHandler(svc)

	t.Run("Imagem em base64", func(t *testing.T) {
		resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/pic.3.jpg"})
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.True(t, resp.IsBase64Encoded)
		assert.Equal(t, "image/jpeg", resp.Headers["Content-Type"])

		raw, err := base64.StdEncoding.DecodeString(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, []byte("\xff\xd8\xff\xe0jpeg"), raw)
		assert.NotEmpty(t, resp.Headers[HeaderCorrelationID], "correlation id gerado")
	})

	t.Run("Imagem ausente", func(t *testing.T) {
		resp, err := handler.Handle(context.Background(), events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/pic.99.jpg"})
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		assert.Empty(t, resp.Body)
		assert.False(t, resp.IsBase64Encoded)
	})
}

func TestLambdaHandler_Timeout(t *testing.T) {
	svc, _ := newTestEngine(t, nil)
	handler := NewLambdaHandler(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()

	resp, err := handler.Handle(ctx, events.APIGatewayProxyRequest{HTTPMethod: "GET", Path: "/posts"})
	require.NoError(t, err)
	assert.Equal(t, 504, resp.StatusCode)
}
