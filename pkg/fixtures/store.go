package fixtures

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sort"
	"time"
)

var (
	// ErrNotFound indica um id ausente numa das tabelas.
	ErrNotFound = errors.New("fixture não encontrada")
	// ErrInternalConsistency indica tabelas corrompidas (referências pendentes).
	ErrInternalConsistency = errors.New("fixtures inconsistentes")
	// ErrInvalidDate indica uma data fora do formato UTC canônico (2020-09-01T12:30:07Z).
	ErrInvalidDate = errors.New("data de post inválida")
)

// Dataset é a forma serializada das três tabelas.
type Dataset struct {
	Users  map[UserID]User   `json:"users" yaml:"users" validate:"required,dive"`
	Posts  map[PostID]Post   `json:"posts" yaml:"posts" validate:"required,dive"`
	Owners map[PostID]UserID `json:"owners" yaml:"owners" validate:"required"`
}

type ownership struct {
	post PostID
	user UserID
}

// Store mantém as tabelas imutáveis de posts, usuários e ownership.
// Nenhum método altera estado, então leituras concorrentes são seguras.
type Store struct {
	posts  map[PostID]Post
	users  map[UserID]User
	owners []ownership
}

// NewStore copia o dataset e verifica a integridade referencial uma única vez.
func NewStore(ds Dataset) (*Store, error) {
	if err := ds.Check(); err != nil {
		return nil, err
	}

	s := &Store{
		posts:  make(map[PostID]Post, len(ds.Posts)),
		users:  make(map[UserID]User, len(ds.Users)),
		owners: make([]ownership, 0, len(ds.Owners)),
	}
	for id, p := range ds.Posts {
		p.Images = slices.Clone(p.Images)
		s.posts[id] = p
	}
	for id, u := range ds.Users {
		s.users[id] = u
	}
	for post, user := range ds.Owners {
		s.owners = append(s.owners, ownership{post: post, user: user})
	}
	sort.Slice(s.owners, func(i, j int) bool { return s.owners[i].post < s.owners[j].post })

	return s, nil
}

// MustNewStore é similar ao NewStore, mas panic em caso de erro.
func MustNewStore(ds Dataset) *Store {
	s, err := NewStore(ds)
	if err != nil {
		panic(err)
	}
	return s
}

// Check valida que todo post tem exatamente um dono existente, que toda
// entrada de ownership aponta para um post existente e que as datas estão em
// UTC canônico, a forma em que ordem de string e ordem cronológica coincidem.
func (ds Dataset) Check() error {
	var errs []error
	for id, p := range ds.Posts {
		if !canonicalDate(p.Date) {
			errs = append(errs, fmt.Errorf("%w: post %d com data '%s'", ErrInvalidDate, id, p.Date))
		}
	}
	for post, user := range ds.Owners {
		if _, ok := ds.Posts[post]; !ok {
			errs = append(errs, fmt.Errorf("%w: ownership referencia post %d inexistente", ErrInternalConsistency, post))
		}
		if _, ok := ds.Users[user]; !ok {
			errs = append(errs, fmt.Errorf("%w: post %d referencia usuário %d inexistente", ErrInternalConsistency, post, user))
		}
	}
	for post := range ds.Posts {
		if _, ok := ds.Owners[post]; !ok {
			errs = append(errs, fmt.Errorf("%w: post %d sem dono", ErrInternalConsistency, post))
		}
	}
	return errors.Join(errs...)
}

func canonicalDate(date string) bool {
	t, err := time.Parse(time.RFC3339, date)
	return err == nil && t.UTC().Format(time.RFC3339) == date
}

// Post devolve uma cópia do post.
func (s *Store) Post(id PostID) (Post, error) {
	p, ok := s.posts[id]
	if !ok {
		return Post{}, fmt.Errorf("%w: post %d", ErrNotFound, id)
	}
	p.Images = slices.Clone(p.Images)
	return p, nil
}

// User devolve o usuário.
func (s *Store) User(id UserID) (User, error) {
	u, ok := s.users[id]
	if !ok {
		return User{}, fmt.Errorf("%w: usuário %d", ErrNotFound, id)
	}
	return u, nil
}

// Ownerships percorre o índice post -> dono em ordem crescente de post.
// A sequência pode ser percorrida quantas vezes for necessário.
func (s *Store) Ownerships() iter.Seq2[PostID, UserID] {
	return func(yield func(PostID, UserID) bool) {
		for _, o := range s.owners {
			if !yield(o.post, o.user) {
				return
			}
		}
	}
}

// Len devolve o número de entradas no índice de ownership.
func (s *Store) Len() int { return len(s.owners) }
