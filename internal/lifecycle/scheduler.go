// Package lifecycle автоматически продвигает заказы по статусам жизненного цикла.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/sirupsen/logrus"
)

const defaultServiceTimeout = 3 * time.Second

// DefaultOffsets смещения от создания заказа для переходов confirmed, preparing, ready, picked_up, delivering
// и delivered.
var DefaultOffsets = []time.Duration{ //nolint:gochecknoglobals
	10 * time.Second,
	30 * time.Second,
	60 * time.Second,
	90 * time.Second,
	120 * time.Second,
	180 * time.Second,
}

type job struct {
	cancel context.CancelFunc
}

// Scheduler держит по одной горутине на каждый запланированный заказ. Задание заказа можно отозвать,
// остановка Run отзывает все задания.
//
// Задания живут только в памяти: после перезапуска процесса незавершенные заказы больше не продвигаются.
type Scheduler struct {
	advancer Advancer
	offsets  []time.Duration
	l        *logrus.Entry

	mu   sync.Mutex
	jobs map[string]*job
	wg   sync.WaitGroup

	root     context.Context //nolint:containedctx
	stopRoot context.CancelFunc
}

func New(advancer Advancer, l *logrus.Logger) *Scheduler {
	root, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		advancer: advancer,
		offsets:  DefaultOffsets,
		l: l.WithFields(logrus.Fields{
			"component": "lifecycle",
			"module":    "scheduler",
		}),
		jobs:     make(map[string]*job),
		root:     root,
		stopRoot: cancel,
	}
}

// SetOffsets устанавливает смещения переходов от момента создания заказа. Лишние смещения игнорируются.
func (s *Scheduler) SetOffsets(offsets []time.Duration) *Scheduler {
	if len(offsets) > 0 {
		s.offsets = offsets
	}
	return s
}

// Run блокируется до отмены ctx, затем отзывает все задания и дожидается их завершения.
// Возвращает кол-во заданий, оставшихся невыполненными на момент остановки.
func (s *Scheduler) Run(ctx context.Context) int {
	s.l.WithField("offsets", s.offsets).Info("Starting")

	<-ctx.Done()
	dropped := s.Pending()
	s.l.WithField("dropped", dropped).Info("Got stop signal, exiting...")

	s.stopRoot()
	s.wg.Wait()
	return dropped
}

// Arm планирует переходы заказа. Смещения отсчитываются от createdAt, поэтому просроченные переходы
// применяются сразу. Повторный Arm заменяет прежнее задание.
func (s *Scheduler) Arm(orderID string, createdAt time.Time) {
	ctx, cancel := context.WithCancel(s.root)
	j := &job{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.jobs[orderID]; ok {
		prev.cancel()
	}
	s.jobs[orderID] = j
	s.wg.Add(1)
	s.mu.Unlock()

	go s.run(ctx, j, orderID, createdAt)
}

// Revoke отзывает задание заказа. Возвращает false, если задания не было.
func (s *Scheduler) Revoke(orderID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[orderID]
	if !ok {
		return false
	}
	j.cancel()
	delete(s.jobs, orderID)
	return true
}

// Pending кол-во активных заданий.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *Scheduler) run(ctx context.Context, j *job, orderID string, createdAt time.Time) {
	defer s.wg.Done()
	defer s.forget(orderID, j)

	l := s.l.WithField("orderID", orderID)
	status := domain.OrderStatusPending

	for _, offset := range s.offsets {
		next, ok := status.Next()
		if !ok {
			return
		}

		timer := time.NewTimer(max(time.Until(createdAt.Add(offset)), 0))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		order, err := s.advance(ctx, orderID, next)
		if err != nil {
			switch {
			case errors.Is(err, domain.ErrOrderCancelled), errors.Is(err, context.Canceled):
				l.WithField("status", next).Debug("job stopped")
			default:
				l.WithError(err).WithField("status", next).Error("advance order")
			}
			return
		}
		l.WithField("status", order.Status).Info("order advanced")
		status = order.Status
	}
}

func (s *Scheduler) advance(ctx context.Context, orderID string, to domain.OrderStatusType) (*domain.Order, error) {
	reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()
	return s.advancer.Advance(reqCtx, orderID, to) //nolint:wrapcheck
}

// forget удаляет завершившееся задание, если его еще не заменили новым.
func (s *Scheduler) forget(orderID string, j *job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if current, ok := s.jobs[orderID]; ok && current == j {
		current.cancel()
		delete(s.jobs, orderID)
	}
}
