package emulator

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder guarda as fases recebidas e o instante de cada uma.
type recorder struct {
	mu     sync.Mutex
	events []string
	head   Head
	body   []byte
	headAt time.Time
	bodyAt time.Time
}

func (r *recorder) ReceiveHead(h Head) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "head")
	r.head, r.headAt = h, time.Now()
}

func (r *recorder) ReceiveBody(b []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "body")
	r.body, r.bodyAt = b, time.Now()
}

func (r *recorder) Events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func waitDone(t *testing.T, c *Call) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("entrega não terminou")
	}
}

var postsReq = Request{Scheme: "mock", Method: "GET", Path: "/posts"}

func TestServer_Start_Phases(t *testing.T) {
	lat := Latency{Head: 60 * time.Millisecond, Body: 90 * time.Millisecond}
	srv := newTestServer(t, Options{Latency: &lat})

	rec := &recorder{}
	start := time.Now()
	call, err := srv.Start(context.Background(), postsReq, rec)
	require.NoError(t, err)
	waitDone(t, call)

	assert.Equal(t, []string{"head", "body"}, rec.Events())
	assert.Equal(t, http.StatusOK, rec.head.StatusCode)
	assert.Equal(t, "application/json", rec.head.Headers.Get("Content-Type"))
	assert.Len(t, decodePosts(t, rec.body), 20)

	assert.GreaterOrEqual(t, rec.headAt.Sub(start), lat.Head, "head não pode chegar antes do atraso")
	assert.GreaterOrEqual(t, rec.bodyAt.Sub(rec.headAt), lat.Body, "body conta a partir do head")
}

func TestServer_Start_DefaultLatency(t *testing.T) {
	srv := newTestServer(t, Options{})
	assert.Equal(t, DefaultLatency, srv.Latency())

	rec := &recorder{}
	start := time.Now()
	call, err := srv.Start(context.Background(), postsReq, rec)
	require.NoError(t, err)
	waitDone(t, call)

	assert.GreaterOrEqual(t, rec.headAt.Sub(start), 200*time.Millisecond)
	assert.GreaterOrEqual(t, rec.bodyAt.Sub(start), 500*time.Millisecond)
}

func TestServer_Start_UnsupportedScheme(t *testing.T) {
	srv := newTestServer(t, Options{})
	rec := &recorder{}

	call, err := srv.Start(context.Background(), Request{Scheme: "https", Method: "GET", Path: "/posts"}, rec)
	assert.Nil(t, call)
	assert.True(t, errors.Is(err, ErrUnsupportedScheme))
	assert.Empty(t, rec.Events())
}

func TestServer_Start_Cancel(t *testing.T) {
	lat := Latency{Head: 80 * time.Millisecond, Body: 80 * time.Millisecond}
	srv := newTestServer(t, Options{Latency: &lat})

	t.Run("Antes do head", func(t *testing.T) {
		rec := &recorder{}
		call, err := srv.Start(context.Background(), postsReq, rec)
		require.NoError(t, err)

		time.Sleep(20 * time.Millisecond)
		call.Cancel()
		waitDone(t, call)

		time.Sleep(200 * time.Millisecond)
		assert.Empty(t, rec.Events())
	})

	t.Run("Entre head e body", func(t *testing.T) {
		rec := &recorder{}
		call, err := srv.Start(context.Background(), postsReq, rec)
		require.NoError(t, err)

		require.Eventually(t, func() bool { return len(rec.Events()) == 1 }, time.Second, 5*time.Millisecond)
		call.Cancel()
		waitDone(t, call)

		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, []string{"head"}, rec.Events())
	})

	t.Run("Cancelamento pelo contexto", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		rec := &recorder{}
		call, err := srv.Start(ctx, postsReq, rec)
		require.NoError(t, err)

		cancel()
		waitDone(t, call)
		assert.Empty(t, rec.Events())
	})

	t.Run("Contexto já cancelado", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		rec := &recorder{}
		call, err := srv.Start(ctx, postsReq, rec)
		require.NoError(t, err)
		waitDone(t, call)
		assert.Empty(t, rec.Events())
	})

	t.Run("Cancel depois do fim é inofensivo", func(t *testing.T) {
		rec := &recorder{}
		call, err := srv.Start(context.Background(), postsReq, rec)
		require.NoError(t, err)
		waitDone(t, call)

		call.Cancel()
		call.Cancel()
		assert.Equal(t, []string{"head", "body"}, rec.Events())
	})
}

func TestServer_Start_ZeroLatency(t *testing.T) {
	srv := newTestServer(t, Options{Latency: &Latency{}})

	rec := &recorder{}
	call, err := srv.Start(context.Background(), postsReq, rec)
	require.NoError(t, err)
	waitDone(t, call)
	assert.Equal(t, []string{"head", "body"}, rec.Events())
}

func TestServer_Start_Independent(t *testing.T) {
	lat := Latency{Head: 50 * time.Millisecond, Body: 50 * time.Millisecond}
	srv := newTestServer(t, Options{Latency: &lat})

	const n = 20
	recs := make([]*recorder, n)
	calls := make([]*Call, n)
	for i := range n {
		recs[i] = &recorder{}
		req := Request{Scheme: "mock", Method: "GET", Path: "/users/2/posts"}
		call, err := srv.Start(context.Background(), req, recs[i])
		require.NoError(t, err)
		calls[i] = call
	}

	// Cancela as chamadas pares antes do head
	for i := 0; i < n; i += 2 {
		calls[i].Cancel()
	}
	for _, c := range calls {
		waitDone(t, c)
	}

	for i, rec := range recs {
		if i%2 == 0 {
			assert.Empty(t, rec.Events(), "chamada %d", i)
			continue
		}
		assert.Equal(t, []string{"head", "body"}, rec.Events(), "chamada %d", i)
		assert.Len(t, decodePosts(t, rec.body), 6)
	}
}

func TestServer_Do(t *testing.T) {
	lat := Latency{Head: 10 * time.Millisecond, Body: 10 * time.Millisecond}
	srv := newTestServer(t, Options{Latency: &lat})

	t.Run("Resposta completa", func(t *testing.T) {
		resp, err := srv.Do(context.Background(), Request{Scheme: "mock", Method: "GET", Path: "/pic.3.jpg"})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/jpeg", resp.Headers.Get("Content-Type"))
		assert.NotEmpty(t, resp.Body)
	})

	t.Run("Timeout do contexto", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
		defer cancel()

		_, err := srv.Do(ctx, postsReq)
		assert.True(t, errors.Is(err, context.DeadlineExceeded))
	})

	t.Run("Scheme não suportado", func(t *testing.T) {
		_, err := srv.Do(context.Background(), Request{Scheme: "http", Path: "/posts"})
		assert.True(t, errors.Is(err, ErrUnsupportedScheme))
	})
}

// blockingSource simula um backend remoto lento: Open só retorna com o ctx.
type blockingSource struct {
	opened chan struct{}
}

func (b *blockingSource) Open(ctx context.Context, _ string) ([]byte, error) {
	close(b.opened)
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestServer_Start_SlowAssetDoesNotBlock(t *testing.T) {
	src := &blockingSource{opened: make(chan struct{})}
	lat := Latency{Head: 10 * time.Millisecond, Body: 10 * time.Millisecond}
	srv := newTestServer(t, Options{Latency: &lat, Assets: src})

	rec := &recorder{}
	call, err := srv.Start(context.Background(), Request{Scheme: "mock", Method: "GET", Path: "/pic.3.jpg"}, rec)
	require.NoError(t, err, "Start retorna antes da leitura do asset")

	select {
	case <-src.opened:
	case <-time.After(5 * time.Second):
		t.Fatal("asset não foi lido")
	}

	call.Cancel()
	waitDone(t, call)
	assert.Empty(t, rec.Events(), "cancelado durante a resolução: nenhuma fase entregue")
}
