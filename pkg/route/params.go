package route

// Param é um placeholder extraído com seu valor.
type Param struct {
	Name  string
	Value int
}

// Params guarda os placeholders de um match bem-sucedido, na ordem em que
// foram declarados no padrão.
type Params struct {
	values []Param
}

// Get devolve o valor do placeholder.
func (p Params) Get(name string) (int, bool) {
	for _, v := range p.values {
		if v.Name == name {
			return v.Value, true
		}
	}
	return 0, false
}

// Len devolve a quantidade de placeholders extraídos.
func (p Params) Len() int { return len(p.values) }

// All devolve uma cópia dos placeholders em ordem de declaração.
func (p Params) All() []Param {
	return append([]Param(nil), p.values...)
}

// Map devolve os placeholders como mapa nome -> valor.
func (p Params) Map() map[string]int {
	m := make(map[string]int, len(p.values))
	for _, v := range p.values {
		m[v.Name] = v.Value
	}
	return m
}
