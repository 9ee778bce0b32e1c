// Package events публикует события смены статусов заказов в RabbitMQ. Доставкой push уведомлений на устройства
// занимается внешний подписчик обменника.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const OrderStatusExchange = "order_status_fanout"

type OrderStatusEvent struct {
	OrderID     string                 `json:"orderId"`
	OrderNumber string                 `json:"orderNumber"`
	UserID      string                 `json:"userId"`
	Status      domain.OrderStatusType `json:"status"`
	Message     string                 `json:"message"`
	Timestamp   time.Time              `json:"timestamp"`
}

// Publisher публикует события в fanout обменник. Канал AMQP не безопасен для конкурентной публикации,
// поэтому публикации сериализуются.
type Publisher struct {
	mu   sync.Mutex
	ch   Channel
	conn *amqp.Connection
	l    *logrus.Entry
}

// Dial подключается к брокеру по url и объявляет обменник.
func Dial(url string, l *logrus.Logger) (*Publisher, error) {
	conn, dialErr := amqp.Dial(url)
	if dialErr != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", dialErr)
	}
	ch, chErr := conn.Channel()
	if chErr != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("opening rabbitmq channel: %w", chErr)
	}

	p, pErr := NewPublisher(ch, l)
	if pErr != nil {
		_ = conn.Close()
		return nil, pErr
	}
	p.conn = conn
	return p, nil
}

func NewPublisher(ch Channel, l *logrus.Logger) (*Publisher, error) {
	if err := ch.ExchangeDeclare(OrderStatusExchange, amqp.ExchangeFanout, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("declaring exchange %s: %w", OrderStatusExchange, err)
	}
	return &Publisher{
		ch: ch,
		l: l.WithFields(logrus.Fields{
			"component": "events",
			"module":    "publisher",
		}),
	}, nil
}

// OrderStatusChanged публикует событие о последнем статусе заказа.
func (p *Publisher) OrderStatusChanged(ctx context.Context, order domain.Order) error {
	entry := order.LastTimelineEntry()
	body, jsonErr := json.Marshal(OrderStatusEvent{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		Status:      order.Status,
		Message:     entry.Message,
		Timestamp:   entry.Timestamp,
	})
	if jsonErr != nil {
		return fmt.Errorf("encoding order status event: %w", jsonErr)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.PublishWithContext(ctx, OrderStatusExchange, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    entry.Timestamp,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publishing order status event: %w", err)
	}
	p.l.WithFields(logrus.Fields{"orderID": order.ID, "status": order.Status}).Debug("event published")
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	chErr := p.ch.Close()
	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("closing rabbitmq connection: %w", err)
		}
	}
	return chErr //nolint:wrapcheck
}
