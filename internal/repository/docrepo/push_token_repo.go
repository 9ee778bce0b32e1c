package docrepo

import (
	"context"
	"sync"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

type PushTokenRepository struct {
	mu     sync.RWMutex
	store  *jsonstore.Store
	tokens []domain.PushToken
}

func NewPushTokenRepository(ctx context.Context, store *jsonstore.Store) *PushTokenRepository {
	return &PushTokenRepository{
		store: store,
		tokens: jsonstore.Load(ctx, store, repoargs.PushTokensResource, func() []domain.PushToken {
			return []domain.PushToken{}
		}),
	}
}

// Upsert регистрирует токен устройства. Токен уникален: повторная регистрация переносит его на нового владельца
// и обновляет платформу.
func (r *PushTokenRepository) Upsert(ctx context.Context, token domain.PushToken) (*domain.PushToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	updatedAt := now()
	for i := range r.tokens {
		if r.tokens[i].Token == token.Token {
			r.tokens[i].UserID = token.UserID
			r.tokens[i].Platform = token.Platform
			r.tokens[i].UpdatedAt = updatedAt
			persist(ctx, r.store, repoargs.PushTokensResource, r.tokens)

			res := r.tokens[i]
			return &res, nil
		}
	}

	token.CreatedAt = updatedAt
	token.UpdatedAt = updatedAt
	r.tokens = append(r.tokens, token)
	persist(ctx, r.store, repoargs.PushTokensResource, r.tokens)

	return &token, nil
}

func (r *PushTokenRepository) GetByUserID(_ context.Context, userID string) ([]domain.PushToken, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tokens = make([]domain.PushToken, 0)
	for _, token := range r.tokens {
		if token.UserID == userID {
			tokens = append(tokens, token)
		}
	}
	return tokens, nil
}
