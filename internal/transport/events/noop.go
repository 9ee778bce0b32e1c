package events

import (
	"context"

	"github.com/fsdevblog/groph-eats/internal/domain"
)

// Noop используется, когда брокер не настроен.
type Noop struct{}

func (Noop) OrderStatusChanged(context.Context, domain.Order) error { return nil }

func (Noop) Close() error { return nil }
