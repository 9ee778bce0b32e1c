package repoargs

import "github.com/fsdevblog/groph-eats/internal/domain"

// OrderFilter фильтр списка заказов пользователя. Пустой Status - любые статусы.
type OrderFilter struct {
	UserID string
	Status domain.OrderStatusType
}
