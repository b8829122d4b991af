package emulator

import (
	"context"
	"fmt"
	"time"
)

// Fases da entrega, usadas em métricas de cancelamento.
const (
	PhaseHead = "head"
	PhaseBody = "body"
)

// Call é uma entrega em andamento. Cada Call tem sua própria goroutine,
// seus timers e seu cancelamento.
type Call struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel interrompe a entrega. Fases ainda não entregues são descartadas.
// Pode ser chamado várias vezes e depois do fim da entrega.
func (c *Call) Cancel() {
	c.cancel()
}

// Done fecha quando a entrega termina, completa ou cancelada. Depois disso
// o Receiver não recebe mais nenhuma chamada.
func (c *Call) Done() <-chan struct{} {
	return c.done
}

// Start agenda a entrega e retorna sem bloquear: a resolução (inclusive a
// leitura de assets remotos) roda na goroutine da Call, seguida do Head após
// Latency.Head e, a partir dele, do Body após Latency.Body. O cancelamento do
// ctx tem o mesmo efeito de Call.Cancel.
func (s *Server) Start(ctx context.Context, req Request, recv Receiver) (*Call, error) {
	if !s.CanHandle(req) {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedScheme, req.Scheme)
	}

	ctx, cancel := context.WithCancel(ctx)
	c := &Call{cancel: cancel, done: make(chan struct{})}

	go s.deliver(ctx, c, req, recv)
	return c, nil
}

func (s *Server) deliver(ctx context.Context, c *Call, req Request, recv Receiver) {
	defer close(c.done)
	defer c.cancel()

	resp := s.Resolve(ctx, req)

	if !sleep(ctx, s.latency.Head) {
		s.cancelled(ctx, PhaseHead)
		return
	}
	recv.ReceiveHead(resp.Head())

	if !sleep(ctx, s.latency.Body) {
		s.cancelled(ctx, PhaseBody)
		return
	}
	recv.ReceiveBody(resp.Body)
}

func (s *Server) cancelled(ctx context.Context, phase string) {
	if err := s.recorder.ObserveCancel(phase); err != nil {
		s.log(ctx).Debug().Err(err).Msg("Falha ao registrar métrica")
	}
	s.log(ctx).Debug().Str("phase", phase).Msg("Entrega cancelada")
}

// sleep espera d ou o cancelamento do ctx. Devolve false se cancelado.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		// Timer e cancelamento simultâneos: o cancelamento vence.
		return ctx.Err() == nil
	}
}

// Do é a forma bloqueante de Start: espera as duas fases e devolve a resposta
// completa, ou o erro do ctx se ele for cancelado antes do corpo.
func (s *Server) Do(ctx context.Context, req Request) (Response, error) {
	var (
		head Head
		body []byte
		got  bool
	)

	call, err := s.Start(ctx, req, ReceiverFuncs{
		OnHead: func(h Head) { head = h },
		OnBody: func(b []byte) { body, got = b, true },
	})
	if err != nil {
		return Response{}, err
	}

	// Os campos acima só são escritos pela goroutine da entrega, antes de Done fechar.
	<-call.Done()
	if !got {
		if err := ctx.Err(); err != nil {
			return Response{}, err
		}
		return Response{}, context.Canceled
	}
	return Response{StatusCode: head.StatusCode, Headers: head.Headers, Body: body}, nil
}
