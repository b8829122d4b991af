// Package query responde às consultas de feed sobre as tabelas de fixtures:
// junta posts com seus donos e ordena do mais novo para o mais antigo.
package query

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/raywall/feed-emulator/pkg/fixtures"
)

// Reader é o contrato de leitura do Fixture Store.
type Reader interface {
	Post(id fixtures.PostID) (fixtures.Post, error)
	User(id fixtures.UserID) (fixtures.User, error)
	Ownerships() iter.Seq2[fixtures.PostID, fixtures.UserID]
}

// Engine executa as consultas. Não guarda estado além do Reader, então
// pode ser compartilhado entre goroutines.
type Engine struct {
	store Reader
}

func New(store Reader) *Engine {
	return &Engine{store: store}
}

// AllPosts devolve todos os posts enriquecidos, do mais novo para o mais antigo.
func (e *Engine) AllPosts() ([]fixtures.EnrichedPost, error) {
	return e.collect(func(fixtures.PostID, fixtures.UserID) bool { return true })
}

// PostsByUser devolve os posts do usuário na mesma ordem de AllPosts.
// Usuário inexistente ou sem posts resulta em lista vazia, sem erro.
func (e *Engine) PostsByUser(userID fixtures.UserID) ([]fixtures.EnrichedPost, error) {
	return e.collect(func(_ fixtures.PostID, owner fixtures.UserID) bool { return owner == userID })
}

func (e *Engine) collect(keep func(fixtures.PostID, fixtures.UserID) bool) ([]fixtures.EnrichedPost, error) {
	result := make([]fixtures.EnrichedPost, 0)

	for postID, userID := range e.store.Ownerships() {
		if !keep(postID, userID) {
			continue
		}

		user, err := e.store.User(userID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", fixtures.ErrInternalConsistency, err)
		}
		post, err := e.store.Post(postID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", fixtures.ErrInternalConsistency, err)
		}

		images := post.Images
		if images == nil {
			images = []fixtures.Image{}
		}

		result = append(result, fixtures.EnrichedPost{
			ID:     postID,
			Date:   post.Date,
			Text:   post.Text,
			Images: images,
			User: fixtures.UserView{
				ID:     userID,
				Name:   user.Name,
				Avatar: user.Avatar,
			},
		})
	}

	// NewStore só aceita datas em UTC canônico: ordem lexicográfica == ordem cronológica.
	// Estável para que empates mantenham a ordem do índice.
	slices.SortStableFunc(result, func(a, b fixtures.EnrichedPost) int {
		return strings.Compare(b.Date, a.Date)
	})

	return result, nil
}
