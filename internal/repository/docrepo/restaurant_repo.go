package docrepo

import (
	"context"
	"sync"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

type RestaurantRepository struct {
	mu          sync.RWMutex
	store       *jsonstore.Store
	restaurants []domain.Restaurant
}

func NewRestaurantRepository(ctx context.Context, store *jsonstore.Store) *RestaurantRepository {
	return &RestaurantRepository{
		store: store,
		restaurants: jsonstore.Load(ctx, store, repoargs.RestaurantsResource, func() []domain.Restaurant {
			return []domain.Restaurant{}
		}),
	}
}

// All возвращает копию каталога в порядке хранения.
func (r *RestaurantRepository) All(_ context.Context) ([]domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var restaurants = make([]domain.Restaurant, len(r.restaurants))
	for i, restaurant := range r.restaurants {
		restaurants[i] = cloneRestaurant(restaurant)
	}
	return restaurants, nil
}

func (r *RestaurantRepository) FindByID(_ context.Context, id string) (*domain.Restaurant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, notFoundErr("finding restaurant by id `%s`", id)
	}
	res := cloneRestaurant(r.restaurants[i])
	return &res, nil
}

// UpdateRating обновляет агрегированный рейтинг ресторана.
func (r *RestaurantRepository) UpdateRating(
	ctx context.Context,
	id string,
	rating float64,
	reviewCount int,
) (*domain.Restaurant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, notFoundErr("updating rating of restaurant `%s`", id)
	}
	r.restaurants[i].Rating = rating
	r.restaurants[i].ReviewCount = reviewCount
	persist(ctx, r.store, repoargs.RestaurantsResource, r.restaurants)

	res := cloneRestaurant(r.restaurants[i])
	return &res, nil
}

// ReplaceAll заменяет весь каталог. Используется генератором каталога.
func (r *RestaurantRepository) ReplaceAll(ctx context.Context, restaurants []domain.Restaurant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.restaurants = make([]domain.Restaurant, len(restaurants))
	for i, restaurant := range restaurants {
		r.restaurants[i] = cloneRestaurant(restaurant)
	}
	return jsonstore.Save(ctx, r.store, repoargs.RestaurantsResource, r.restaurants) //nolint:wrapcheck
}

func (r *RestaurantRepository) indexByID(id string) int {
	for i := range r.restaurants {
		if r.restaurants[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneRestaurant(restaurant domain.Restaurant) domain.Restaurant {
	restaurant.Categories = append([]string{}, restaurant.Categories...)
	if restaurant.Tags != nil {
		restaurant.Tags = append([]string{}, restaurant.Tags...)
	}
	return restaurant
}
