package emulator

import "net/http"

// Request é a requisição abstrata que o emulador entende.
type Request struct {
	Scheme string
	Method string
	Path   string
}

// Head é a primeira fase da entrega: status e cabeçalhos.
type Head struct {
	StatusCode int
	Headers    http.Header
}

// Response é a resposta completa, antes de ser fatiada nas duas fases.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

func (r Response) Head() Head {
	return Head{StatusCode: r.StatusCode, Headers: r.Headers.Clone()}
}

// Receiver recebe as duas fases de uma chamada, sempre nesta ordem e
// no máximo uma vez cada. As chamadas acontecem na goroutine da entrega.
type Receiver interface {
	ReceiveHead(Head)
	ReceiveBody([]byte)
}

// ReceiverFuncs adapta funções soltas para Receiver. Campos nil são ignorados.
type ReceiverFuncs struct {
	OnHead func(Head)
	OnBody func([]byte)
}

func (r ReceiverFuncs) ReceiveHead(h Head) {
	if r.OnHead != nil {
		r.OnHead(h)
	}
}

func (r ReceiverFuncs) ReceiveBody(b []byte) {
	if r.OnBody != nil {
		r.OnBody(b)
	}
}
