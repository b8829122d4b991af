// Package route compila padrões de rota como "/users/:user_id/posts" em
// matchers que extraem identificadores inteiros de caminhos concretos.
//
// A gramática é mínima: segmentos literais exigem igualdade exata e
// segmentos ":nome" aceitam um ou mais dígitos decimais. Não há
// segmentos opcionais, curingas de vários segmentos nem placeholders
// de texto. O caminho inteiro precisa casar, nunca apenas um prefixo.
package route

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	separator = "/"
	marker    = ":"
)

// ErrMalformedPattern indica um padrão inválido. É um erro de configuração,
// detectado na compilação e nunca durante o match.
var ErrMalformedPattern = errors.New("padrão de rota malformado")

type segment struct {
	literal     string
	placeholder bool
}

// Pattern é a forma compilada de um padrão de rota.
type Pattern struct {
	raw      string
	segments []segment
	names    []string
}

// Compile transforma o padrão em Pattern. Segmentos vazios (separadores
// repetidos ou finais) são descartados.
func Compile(pattern string) (*Pattern, error) {
	if !strings.HasPrefix(pattern, separator) {
		return nil, fmt.Errorf("%w: '%s' deve começar com '%s'", ErrMalformedPattern, pattern, separator)
	}

	p := &Pattern{raw: pattern}
	seen := make(map[string]bool)

	for _, part := range strings.Split(pattern, separator) {
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, marker) {
			p.segments = append(p.segments, segment{literal: part})
			continue
		}

		name := strings.TrimPrefix(part, marker)
		if name == "" {
			return nil, fmt.Errorf("%w: placeholder sem nome em '%s'", ErrMalformedPattern, pattern)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: placeholder '%s' duplicado em '%s'", ErrMalformedPattern, name, pattern)
		}
		seen[name] = true
		p.names = append(p.names, name)
		p.segments = append(p.segments, segment{placeholder: true})
	}

	return p, nil
}

// MustCompile é similar ao Compile, mas panic em caso de erro.
func MustCompile(pattern string) *Pattern {
	p, err := Compile(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String devolve o padrão original.
func (p *Pattern) String() string { return p.raw }

// Placeholders devolve os nomes na ordem de declaração.
func (p *Pattern) Placeholders() []string {
	return append([]string(nil), p.names...)
}

// Match testa o caminho contra o padrão em uma única passada. Retorna
// false quando não há match; um padrão sem placeholders que casa devolve
// Params vazio e true.
func (p *Pattern) Match(path string) (Params, bool) {
	if !strings.HasPrefix(path, separator) {
		return Params{}, false
	}
	rest := path[len(separator):]

	params := Params{values: make([]Param, 0, len(p.names))}
	for _, seg := range p.segments {
		if rest == "" {
			return Params{}, false
		}

		var part string
		if idx := strings.Index(rest, separator); idx >= 0 {
			part, rest = rest[:idx], rest[idx+len(separator):]
			if rest == "" {
				// separador final sobrando ("/posts/")
				return Params{}, false
			}
		} else {
			part, rest = rest, ""
		}

		if !seg.placeholder {
			if part != seg.literal {
				return Params{}, false
			}
			continue
		}

		value, ok := parseDigits(part)
		if !ok {
			return Params{}, false
		}
		params.values = append(params.values, Param{Name: p.names[len(params.values)], Value: value})
	}

	if rest != "" {
		return Params{}, false
	}
	return params, true
}

// parseDigits aceita apenas dígitos ASCII; sinais, espaços e valores que
// estouram int ficam de fora.
func parseDigits(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}
