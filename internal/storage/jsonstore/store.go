// Package jsonstore хранит ресурсы приложения целиком, как JSON документы. Каждый ресурс (users, orders и т.д.)
// это один документ, который читается при старте и перезаписывается полностью при каждом изменении.
package jsonstore

import (
	"context"
	"errors"
	"reflect"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// ErrNotFound возвращается бэкендом, если документа с таким именем нет.
var ErrNotFound = errors.New("[jsonstore] document not found")

// Backend место физического хранения документов. Бэкенд не делает никаких блокировок и не гарантирует
// атомарности: при конкурентной записи одного документа побеждает последний писатель.
type Backend interface {
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Close() error
}

type Store struct {
	backend Backend
	l       *logrus.Entry
}

func New(backend Backend, l *logrus.Logger) *Store {
	return &Store{
		backend: backend,
		l: l.WithFields(logrus.Fields{
			"component": "storage",
			"module":    "jsonstore",
		}),
	}
}

func (s *Store) Close() error {
	return s.backend.Close() //nolint:wrapcheck
}

// Load читает документ name и возвращает его содержимое.
//
// Если документа нет, возвращается empty(). Если документ не читается или содержит некорректный JSON,
// причина логируется и тоже возвращается empty(). Ошибка за пределы хранилища не выходит никогда.
func Load[T any](ctx context.Context, s *Store, name string, empty func() T) T {
	l := s.l.WithField("resource", name)

	data, readErr := s.backend.Read(ctx, name)
	if readErr != nil {
		if !errors.Is(readErr, ErrNotFound) {
			l.WithError(readErr).Error("read resource, falling back to empty value")
		}
		return empty()
	}

	var value T
	if jsonErr := json.Unmarshal(data, &value); jsonErr != nil {
		l.WithError(jsonErr).Error("parse resource, falling back to empty value")
		return empty()
	}

	// null в файле не должен превращаться в nil-коллекцию.
	if isNil(value) {
		return empty()
	}
	return value
}

// Save сериализует value в JSON с отступами и перезаписывает документ name целиком.
func Save[T any](ctx context.Context, s *Store, name string, value T) error {
	data, jsonErr := json.MarshalIndent(value, "", "  ")
	if jsonErr != nil {
		s.l.WithField("resource", name).WithError(jsonErr).Error("encode resource")
		return jsonErr //nolint:wrapcheck
	}
	data = append(data, '\n')

	if writeErr := s.backend.Write(ctx, name, data); writeErr != nil {
		s.l.WithField("resource", name).WithError(writeErr).Error("write resource")
		return writeErr //nolint:wrapcheck
	}
	return nil
}

func isNil(value any) bool {
	v := reflect.ValueOf(value)
	switch v.Kind() { //nolint:exhaustive
	case reflect.Slice, reflect.Map, reflect.Pointer:
		return v.IsNil()
	default:
		return false
	}
}
