package jsonstore

import (
	"context"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/pkg/errors"
)

// PebbleBackend встраиваемое хранилище: имя документа - ключ, JSON - значение.
type PebbleBackend struct {
	db *pebble.DB
}

func NewPebbleBackend(dir string) (*PebbleBackend, error) {
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "pebble open %s", dir)
	}
	return &PebbleBackend{db: db}, nil
}

func (p *PebbleBackend) Read(_ context.Context, name string) ([]byte, error) {
	value, closer, err := p.db.Get([]byte(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "pebble get %s", name)
	}
	defer func() {
		_ = closer.Close()
	}()

	// value валиден только до closer.Close().
	return append([]byte(nil), value...), nil
}

func (p *PebbleBackend) Write(_ context.Context, name string, data []byte) error {
	if err := p.db.Set([]byte(name), data, pebble.Sync); err != nil {
		return errors.Wrapf(err, "pebble set %s", name)
	}
	return nil
}

func (p *PebbleBackend) Close() error {
	return p.db.Close() //nolint:wrapcheck
}
