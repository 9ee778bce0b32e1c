package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/service/mocks"
	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type NotificationServiceTestSuite struct {
	suite.Suite
	notificationService *NotificationService
}

func TestNotificationServiceSuite(t *testing.T) {
	suite.Run(t, new(NotificationServiceTestSuite))
}

func (s *NotificationServiceTestSuite) SetupTest() {
	u, _, _, _ := newTestUOW(s.T().Context(), s.T())
	notificationService, err := NewNotificationService(u)
	s.Require().NoError(err)
	s.notificationService = notificationService
}

func (s *NotificationServiceTestSuite) TestOrderStatusChanged() {
	ctx := s.T().Context()
	order := domain.Order{ID: "o1", OrderNumber: "ORD-1", UserID: "u1"}
	order.ApplyStatus(domain.OrderStatusConfirmed, StatusMessage(domain.OrderStatusConfirmed), order.CreatedAt)

	s.Require().NoError(s.notificationService.OrderStatusChanged(ctx, order))

	list, err := s.notificationService.List(ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(domain.NotificationTypeOrderStatus, list[0].Type)
	s.Equal("Restaurant confirmed your order", list[0].Body)
	s.Equal("o1", list[0].Data["orderId"])
	s.False(list[0].Read)

	read, err := s.notificationService.MarkRead(ctx, "u1", list[0].ID)
	s.Require().NoError(err)
	s.True(read.Read)

	_, strangerErr := s.notificationService.MarkRead(ctx, "u2", list[0].ID)
	s.ErrorIs(strangerErr, domain.ErrRecordNotFound)
}

func (s *NotificationServiceTestSuite) TestRegisterToken() {
	ctx := s.T().Context()

	first, err := s.notificationService.RegisterToken(ctx, "u1", " tok ", domain.PlatformIOS)
	s.Require().NoError(err)
	s.Equal("tok", first.Token)

	moved, err := s.notificationService.RegisterToken(ctx, "u2", "tok", domain.PlatformIOS)
	s.Require().NoError(err)
	s.Equal("u2", moved.UserID)
}

func (s *NotificationServiceTestSuite) TestFanoutContinuesOnError() {
	ctrl := gomock.NewController(s.T())
	failing := mocks.NewMockStatusNotifier(ctrl)
	working := mocks.NewMockStatusNotifier(ctrl)

	order := domain.Order{ID: "o1", Status: domain.OrderStatusReady}
	failing.EXPECT().OrderStatusChanged(gomock.Any(), order).Return(errors.New("broker down"))
	working.EXPECT().OrderStatusChanged(gomock.Any(), order).Return(nil)

	l := logrus.New()
	l.SetOutput(io.Discard)
	fanout := NewStatusFanout(l, failing, working)

	s.NoError(fanout.OrderStatusChanged(context.Background(), order))
}
