package jsonstore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

const documentExt = ".json"

// FileBackend хранит каждый документ в отдельном файле <dir>/<name>.json.
type FileBackend struct {
	dir string
}

func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:mnd
		return nil, errors.Wrapf(err, "create data dir %s", dir)
	}
	return &FileBackend{dir: dir}, nil
}

func (f *FileBackend) path(name string) string {
	return filepath.Join(f.dir, name+documentExt)
}

func (f *FileBackend) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(f.path(name))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "read file %s", f.path(name))
	}
	return data, nil
}

// Write перезаписывает файл целиком. Без временного файла и rename: частично записанный файл при следующем
// чтении будет считаться поврежденным и заменится пустым значением.
func (f *FileBackend) Write(_ context.Context, name string, data []byte) error {
	if err := os.WriteFile(f.path(name), data, 0o644); err != nil { //nolint:gosec,mnd
		return errors.Wrapf(err, "write file %s", f.path(name))
	}
	return nil
}

func (f *FileBackend) Close() error {
	return nil
}
