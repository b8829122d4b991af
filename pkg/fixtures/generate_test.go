package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	opts := GenerateOptions{Users: 5, Posts: 40, Seed: 7}

	ds, err := Generate(opts)
	require.NoError(t, err)
	assert.Len(t, ds.Users, 5)
	assert.Len(t, ds.Posts, 40)
	assert.Len(t, ds.Owners, 40)

	store, err := NewStore(ds)
	require.NoError(t, err, "dataset gerado deve ser consistente")
	assert.Equal(t, 40, store.Len())

	again, err := Generate(opts)
	require.NoError(t, err)
	assert.Equal(t, ds, again, "mesma semente deve gerar o mesmo dataset")
}

func TestGenerate_EncodeParse(t *testing.T) {
	ds, err := Generate(GenerateOptions{Users: 3, Posts: 6, Seed: 1, Host: "mock://img.local"})
	require.NoError(t, err)

	out, err := Encode(ds)
	require.NoError(t, err)

	parsed, err := Parse(out)
	require.NoError(t, err, "YAML gerado deve passar na validação")
	assert.Equal(t, ds, parsed)
	assert.Equal(t, "mock://img.local/pic.1.jpg", parsed.Posts[1].Images[0].URL)
}

func TestGenerate_InvalidOptions(t *testing.T) {
	_, err := Generate(GenerateOptions{Users: 0, Posts: 3})
	assert.Error(t, err)
}
