package service

import (
	"context"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/sirupsen/logrus"
)

// StatusFanout рассылает смену статуса заказа всем нотификаторам по очереди. Ошибка одного нотификатора
// логируется и не мешает остальным.
type StatusFanout struct {
	notifiers []StatusNotifier
	l         *logrus.Entry
}

func NewStatusFanout(l *logrus.Logger, notifiers ...StatusNotifier) *StatusFanout {
	return &StatusFanout{
		notifiers: notifiers,
		l: l.WithFields(logrus.Fields{
			"component": "service",
			"module":    "status_fanout",
		}),
	}
}

func (f *StatusFanout) OrderStatusChanged(ctx context.Context, order domain.Order) error {
	for _, notifier := range f.notifiers {
		if err := notifier.OrderStatusChanged(ctx, order); err != nil {
			f.l.WithError(err).WithFields(logrus.Fields{
				"order_id": order.ID,
				"status":   order.Status,
			}).Error("notify order status")
		}
	}
	return nil
}
