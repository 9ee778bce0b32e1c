package jsonstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"
)

// BackendTestSuite общие проверки для бэкендов, которые можно поднять без внешних сервисов.
type BackendTestSuite struct {
	suite.Suite
	newBackend func(dir string) (Backend, error)
}

func TestFileBackendSuite(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: func(dir string) (Backend, error) {
		return NewFileBackend(dir)
	}})
}

func TestPebbleBackendSuite(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: func(dir string) (Backend, error) {
		return NewPebbleBackend(dir)
	}})
}

func TestMemoryBackendSuite(t *testing.T) {
	suite.Run(t, &BackendTestSuite{newBackend: func(_ string) (Backend, error) {
		return NewMemoryBackend(), nil
	}})
}

func (s *BackendTestSuite) TestReadWrite() {
	backend, err := s.newBackend(s.T().TempDir())
	s.Require().NoError(err)
	defer func() {
		s.NoError(backend.Close())
	}()

	ctx := context.Background()

	_, readErr := backend.Read(ctx, "orders")
	s.Require().ErrorIs(readErr, ErrNotFound)

	s.Require().NoError(backend.Write(ctx, "orders", []byte(`[{"id": "o1"}]`)))
	data, readErr := backend.Read(ctx, "orders")
	s.Require().NoError(readErr)
	s.Equal(`[{"id": "o1"}]`, string(data))

	// перезапись заменяет документ целиком.
	s.Require().NoError(backend.Write(ctx, "orders", []byte(`[]`)))
	data, readErr = backend.Read(ctx, "orders")
	s.Require().NoError(readErr)
	s.Equal(`[]`, string(data))
}

func TestFileBackendLayout(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatal(err)
	}

	if writeErr := backend.Write(context.Background(), "push-tokens", []byte(`[]`)); writeErr != nil {
		t.Fatal(writeErr)
	}

	if _, statErr := os.Stat(filepath.Join(dir, "push-tokens.json")); statErr != nil {
		t.Fatalf("expected push-tokens.json in data dir: %v", statErr)
	}
}
