package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/raywall/feed-emulator/pkg/emulator"
)

// RoundTripper intercepta requisições do scheme do emulador feitas por um
// *http.Client. RoundTrip retorna após a fase de cabeçalhos, e o Body só
// produz bytes após a fase de corpo. Outros schemes seguem para Fallback.
type RoundTripper struct {
	Server   *emulator.Server
	Fallback http.RoundTripper
}

// NewClient cria um cliente que atende o scheme do emulador e usa o
// http.DefaultTransport para o resto.
func NewClient(srv *emulator.Server) *http.Client {
	return &http.Client{Transport: &RoundTripper{Server: srv, Fallback: http.DefaultTransport}}
}

func (rt *RoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	req := emulator.Request{Scheme: r.URL.Scheme, Method: r.Method, Path: r.URL.Path}
	if !rt.Server.CanHandle(req) {
		if rt.Fallback == nil {
			if r.Body != nil {
				r.Body.Close()
			}
			return nil, fmt.Errorf("%w: '%s'", emulator.ErrUnsupportedScheme, r.URL.Scheme)
		}
		return rt.Fallback.RoundTrip(r)
	}
	if r.Body != nil {
		r.Body.Close()
	}

	ctx := r.Context()
	heads := make(chan emulator.Head, 1)
	body := &pendingBody{ctx: ctx, ready: make(chan struct{})}

	call, err := rt.Server.Start(ctx, req, emulator.ReceiverFuncs{
		OnHead: func(h emulator.Head) { heads <- h },
		OnBody: body.fill,
	})
	if err != nil {
		return nil, err
	}
	body.call = call

	head, ok := await(heads, call.Done())
	if !ok {
		return nil, cancelErr(ctx)
	}

	return &http.Response{
		Status:        fmt.Sprintf("%d %s", head.StatusCode, http.StatusText(head.StatusCode)),
		StatusCode:    head.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        head.Headers,
		Body:          body,
		ContentLength: -1,
		Request:       r,
	}, nil
}

// pendingBody bloqueia a leitura até a fase de corpo. Close cancela a
// entrega se ela ainda estiver em andamento.
type pendingBody struct {
	ctx   context.Context
	call  *emulator.Call
	ready chan struct{}
	data  *bytes.Reader
	once  sync.Once
}

// fill roda na goroutine da entrega; o close de ready publica data.
func (b *pendingBody) fill(p []byte) {
	b.data = bytes.NewReader(p)
	close(b.ready)
}

func (b *pendingBody) Read(p []byte) (int, error) {
	select {
	case <-b.ready:
		return b.data.Read(p)
	case <-b.call.Done():
		select {
		case <-b.ready:
			return b.data.Read(p)
		default:
			return 0, cancelErr(b.ctx)
		}
	}
}

func (b *pendingBody) Close() error {
	b.once.Do(b.call.Cancel)
	return nil
}

func cancelErr(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return io.ErrUnexpectedEOF
}
