package lifecycle

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-eats/internal/domain"
)

type Advancer interface {
	Advance(ctx context.Context, orderID string, to domain.OrderStatusType) (*domain.Order, error)
}
