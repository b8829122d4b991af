package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FSSource lê assets de um fs.FS (diretório local, embed.FS, fstest.MapFS).
type FSSource struct {
	fsys fs.FS
}

// NewDirSource usa um diretório local como origem.
func NewDirSource(dir string) *FSSource {
	return &FSSource{fsys: os.DirFS(dir)}
}

// NewFSSource usa qualquer fs.FS como origem.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

func (s *FSSource) Open(ctx context.Context, name string) ([]byte, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao ler asset %s: %w", name, err)
	}
	return data, nil
}
