package docrepo

import (
	"context"
	"slices"
	"sync"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

type OrderRepository struct {
	mu     sync.RWMutex
	store  *jsonstore.Store
	orders []domain.Order
}

func NewOrderRepository(ctx context.Context, store *jsonstore.Store) *OrderRepository {
	return &OrderRepository{
		store:  store,
		orders: jsonstore.Load(ctx, store, repoargs.OrdersResource, func() []domain.Order { return []domain.Order{} }),
	}
}

// CreateOrder сохраняет новый заказ. Если ID не задан, он генерируется.
func (r *OrderRepository) CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = newID()
	}
	if r.indexByID(order.ID) >= 0 {
		return nil, duplicateErr("creating order with id `%s`", order.ID)
	}

	stored := order.Clone()
	r.orders = append(r.orders, stored)
	persist(ctx, r.store, repoargs.OrdersResource, r.orders)

	res := stored.Clone()
	return &res, nil
}

func (r *OrderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexByID(id)
	if i < 0 {
		return nil, notFoundErr("finding order by id `%s`", id)
	}
	res := r.orders[i].Clone()
	return &res, nil
}

// GetByUserID возвращает заказы пользователя, отсортированные по дате создания по убыванию.
func (r *OrderRepository) GetByUserID(_ context.Context, filter repoargs.OrderFilter) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders = make([]domain.Order, 0)
	for _, order := range r.orders {
		if order.UserID != filter.UserID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		orders = append(orders, order.Clone())
	}

	slices.SortStableFunc(orders, func(a, b domain.Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return orders, nil
}

// UpdateOrder заменяет сохраненный заказ с тем же ID.
func (r *OrderRepository) UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(order.ID)
	if i < 0 {
		return nil, notFoundErr("updating order with id `%s`", order.ID)
	}

	r.orders[i] = order.Clone()
	persist(ctx, r.store, repoargs.OrdersResource, r.orders)

	res := r.orders[i].Clone()
	return &res, nil
}

func (r *OrderRepository) indexByID(id string) int {
	for i := range r.orders {
		if r.orders[i].ID == id {
			return i
		}
	}
	return -1
}
