package fixtures

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
)

// GenerateOptions controla o tamanho e a semente do dataset sintético.
type GenerateOptions struct {
	Users int
	Posts int
	Seed  int64
	// Host usado nas URLs de imagem (ex: mock://sc.com).
	Host string
}

var (
	generateFrom = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	generateTo   = time.Date(2020, 12, 31, 23, 59, 59, 0, time.UTC)
)

// Generate cria um dataset consistente com dados falsos. A mesma semente
// produz sempre o mesmo dataset.
func Generate(opts GenerateOptions) (Dataset, error) {
	if opts.Users < 1 || opts.Posts < 0 {
		return Dataset{}, fmt.Errorf("dataset precisa de ao menos 1 usuário (users=%d, posts=%d)", opts.Users, opts.Posts)
	}
	if opts.Host == "" {
		opts.Host = "mock://sc.com"
	}

	faker := gofakeit.New(opts.Seed)
	ds := Dataset{
		Users:  make(map[UserID]User, opts.Users),
		Posts:  make(map[PostID]Post, opts.Posts),
		Owners: make(map[PostID]UserID, opts.Posts),
	}

	for i := 1; i <= opts.Users; i++ {
		ds.Users[UserID(i)] = User{
			Name:   faker.Name(),
			Avatar: Avatar{URL: fmt.Sprintf("%s/avatar.%d.jpg", opts.Host, i)},
		}
	}

	for i := 1; i <= opts.Posts; i++ {
		id := PostID(i)
		ds.Posts[id] = Post{
			Date:   faker.DateRange(generateFrom, generateTo).UTC().Format(time.RFC3339),
			Text:   faker.Sentence(faker.Number(4, 20)),
			Images: []Image{{URL: fmt.Sprintf("%s/pic.%d.jpg", opts.Host, i)}},
		}
		ds.Owners[id] = UserID(faker.Number(1, opts.Users))
	}

	return ds, nil
}

// Encode serializa o dataset em YAML, no mesmo formato aceito por Parse.
func Encode(ds Dataset) ([]byte, error) {
	out, err := yaml.Marshal(ds)
	if err != nil {
		return nil, fmt.Errorf("erro ao serializar dataset: %w", err)
	}
	return out, nil
}
