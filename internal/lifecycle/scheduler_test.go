package lifecycle

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/lifecycle/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type SchedulerTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	mockAdvancer *mocks.MockAdvancer
	scheduler    *Scheduler
	offsets      []time.Duration
}

func TestSchedulerSuite(t *testing.T) {
	suite.Run(t, new(SchedulerTestSuite))
}

func (s *SchedulerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockAdvancer = mocks.NewMockAdvancer(s.ctrl)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	s.offsets = []time.Duration{
		5 * time.Millisecond,
		10 * time.Millisecond,
		15 * time.Millisecond,
		20 * time.Millisecond,
		25 * time.Millisecond,
		30 * time.Millisecond,
	}
	s.scheduler = New(s.mockAdvancer, logger).SetOffsets(s.offsets)
}

func (s *SchedulerTestSuite) TearDownTest() {
	s.scheduler.stopRoot()
	s.scheduler.wg.Wait()
	s.ctrl.Finish()
}

// recordAdvances настраивает мок так, чтобы он принимал переходы и записывал их порядок.
func (s *SchedulerTestSuite) recordAdvances(orderID string) (*[]domain.OrderStatusType, *sync.Mutex) {
	var mu sync.Mutex
	var applied []domain.OrderStatusType

	s.mockAdvancer.EXPECT().
		Advance(gomock.Any(), orderID, gomock.Any()).
		DoAndReturn(func(_ context.Context, id string, to domain.OrderStatusType) (*domain.Order, error) {
			mu.Lock()
			defer mu.Unlock()
			applied = append(applied, to)
			return &domain.Order{ID: id, Status: to}, nil
		}).AnyTimes()
	return &applied, &mu
}

func (s *SchedulerTestSuite) TestWalksWholeLifecycle() {
	applied, mu := s.recordAdvances("o1")

	s.scheduler.Arm("o1", time.Now())
	s.Equal(1, s.scheduler.Pending())

	s.Eventually(func() bool {
		return s.scheduler.Pending() == 0
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	s.Equal(domain.OrderLifecycle[1:], *applied)
}

func (s *SchedulerTestSuite) TestOverdueStepsApplyImmediately() {
	applied, mu := s.recordAdvances("o1")

	// заказ создан "давно": все смещения уже прошли.
	s.scheduler.Arm("o1", time.Now().Add(-time.Hour))

	s.Eventually(func() bool {
		return s.scheduler.Pending() == 0
	}, 200*time.Millisecond, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	s.Len(*applied, len(s.offsets))
}

func (s *SchedulerTestSuite) TestRevoke() {
	s.scheduler.SetOffsets([]time.Duration{time.Hour})
	s.mockAdvancer.EXPECT().Advance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	s.scheduler.Arm("o1", time.Now())
	s.True(s.scheduler.Revoke("o1"))
	s.False(s.scheduler.Revoke("o1"))
	s.False(s.scheduler.Revoke("unknown"))
	s.Equal(0, s.scheduler.Pending())
}

func (s *SchedulerTestSuite) TestStopsOnCancelledOrder() {
	s.mockAdvancer.EXPECT().
		Advance(gomock.Any(), "o1", domain.OrderStatusConfirmed).
		Return(nil, domain.ErrOrderCancelled)

	s.scheduler.Arm("o1", time.Now())

	s.Eventually(func() bool {
		return s.scheduler.Pending() == 0
	}, time.Second, 5*time.Millisecond)
}

func (s *SchedulerTestSuite) TestStopsOnError() {
	s.mockAdvancer.EXPECT().
		Advance(gomock.Any(), "o1", domain.OrderStatusConfirmed).
		Return(nil, errors.New("storage down"))

	s.scheduler.Arm("o1", time.Now())

	s.Eventually(func() bool {
		return s.scheduler.Pending() == 0
	}, time.Second, 5*time.Millisecond)
}

func (s *SchedulerTestSuite) TestRunShutdownRevokesJobs() {
	s.scheduler.SetOffsets([]time.Duration{time.Hour})
	s.mockAdvancer.EXPECT().Advance(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	s.scheduler.Arm("o1", time.Now())
	s.scheduler.Arm("o2", time.Now())

	s.scheduler.Arm("o3", time.Now())
	s.True(s.scheduler.Revoke("o3"))

	ctx, cancel := context.WithCancel(s.T().Context())
	done := make(chan int, 1)
	go func() {
		done <- s.scheduler.Run(ctx)
	}()
	cancel()

	select {
	case dropped := <-done:
		// отозванное задание не считается брошенным.
		s.Equal(2, dropped)
	case <-time.After(time.Second):
		s.Fail("scheduler did not stop")
	}
	s.Equal(0, s.scheduler.Pending())
}
