package fixtures

// PostID identifica um post na tabela de ownership.
type PostID int

// UserID identifica um usuário.
type UserID int

// Image é uma referência de imagem anexada a um post.
type Image struct {
	URL string `json:"url" yaml:"url" validate:"required"`
}

// Avatar é a imagem de perfil de um usuário.
type Avatar struct {
	URL string `json:"url" yaml:"url" validate:"required"`
}

// Post é o registro normalizado, sem id e sem dono.
// O id vem da chave da tabela de ownership.
type Post struct {
	Date   string  `json:"date" yaml:"date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Text   string  `json:"text" yaml:"text"`
	Images []Image `json:"images" yaml:"images" validate:"dive"`
}

// User é o registro normalizado de usuário.
type User struct {
	Name   string `json:"name" yaml:"name" validate:"required"`
	Avatar Avatar `json:"avatar" yaml:"avatar"`
}

// UserView é o usuário com id, como aparece embutido num EnrichedPost.
type UserView struct {
	ID     UserID `json:"id"`
	Name   string `json:"name"`
	Avatar Avatar `json:"avatar"`
}

// EnrichedPost é o registro composto devolvido pelas consultas: o post com id
// carimbado e o usuário dono resolvido.
type EnrichedPost struct {
	ID     PostID   `json:"id"`
	Date   string   `json:"date"`
	Text   string   `json:"text"`
	Images []Image  `json:"images"`
	User   UserView `json:"user"`
}
