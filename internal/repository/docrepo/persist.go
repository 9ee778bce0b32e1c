package docrepo

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
	"github.com/google/uuid"
)

// persist записывает коллекцию целиком. Ошибка записи уже залогирована хранилищем и дальше не передается:
// состояние в памяти остается единственным источником правды до следующей успешной записи.
// Запись не должна прерываться вместе с запросом, поэтому отмена ctx игнорируется.
func persist[T any](ctx context.Context, store *jsonstore.Store, name string, value T) {
	_ = jsonstore.Save(context.WithoutCancel(ctx), store, name, value)
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}
