package docrepo

import (
	"context"
	"slices"
	"sync"

	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

// FavoriteRepository множество избранных ресторанов на пользователя. Порядок в документе - порядок добавления.
type FavoriteRepository struct {
	mu        sync.RWMutex
	store     *jsonstore.Store
	favorites map[string][]string
}

func NewFavoriteRepository(ctx context.Context, store *jsonstore.Store) *FavoriteRepository {
	return &FavoriteRepository{
		store: store,
		favorites: jsonstore.Load(ctx, store, repoargs.FavoritesResource, func() map[string][]string {
			return map[string][]string{}
		}),
	}
}

func (r *FavoriteRepository) GetByUserID(_ context.Context, userID string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string{}, r.favorites[userID]...), nil
}

// Add добавляет ресторан в избранное. Возвращает false, если он там уже был.
func (r *FavoriteRepository) Add(ctx context.Context, userID, restaurantID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.Contains(r.favorites[userID], restaurantID) {
		return false, nil
	}
	r.favorites[userID] = append(r.favorites[userID], restaurantID)
	persist(ctx, r.store, repoargs.FavoritesResource, r.favorites)
	return true, nil
}

// Remove удаляет ресторан из избранного или возвращает domain.ErrRecordNotFound.
func (r *FavoriteRepository) Remove(ctx context.Context, userID, restaurantID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := slices.Index(r.favorites[userID], restaurantID)
	if i < 0 {
		return notFoundErr("removing favorite `%s` of user `%s`", restaurantID, userID)
	}
	r.favorites[userID] = slices.Delete(r.favorites[userID], i, i+1)
	persist(ctx, r.store, repoargs.FavoritesResource, r.favorites)
	return nil
}
