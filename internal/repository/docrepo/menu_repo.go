package docrepo

import (
	"context"
	"sync"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

// MenuRepository меню ресторанов, ключ - id ресторана.
type MenuRepository struct {
	mu    sync.RWMutex
	store *jsonstore.Store
	menus map[string]domain.Menu
}

func NewMenuRepository(ctx context.Context, store *jsonstore.Store) *MenuRepository {
	return &MenuRepository{
		store: store,
		menus: jsonstore.Load(ctx, store, repoargs.MenusResource, func() map[string]domain.Menu {
			return map[string]domain.Menu{}
		}),
	}
}

func (r *MenuRepository) GetByRestaurantID(_ context.Context, restaurantID string) (*domain.Menu, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	menu, ok := r.menus[restaurantID]
	if !ok {
		return nil, notFoundErr("finding menu of restaurant `%s`", restaurantID)
	}
	res := cloneMenu(menu)
	if res.RestaurantID == "" {
		res.RestaurantID = restaurantID
	}
	return &res, nil
}

// ReplaceAll заменяет все меню. Используется генератором каталога.
func (r *MenuRepository) ReplaceAll(ctx context.Context, menus map[string]domain.Menu) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.menus = make(map[string]domain.Menu, len(menus))
	for id, menu := range menus {
		r.menus[id] = cloneMenu(menu)
	}
	return jsonstore.Save(ctx, r.store, repoargs.MenusResource, r.menus) //nolint:wrapcheck
}

func cloneMenu(menu domain.Menu) domain.Menu {
	categories := make([]domain.MenuCategory, len(menu.Categories))
	for i, category := range menu.Categories {
		category.Items = append([]domain.MenuItem{}, category.Items...)
		categories[i] = category
	}
	menu.Categories = categories
	return menu
}
