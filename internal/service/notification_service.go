package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/pkg/uow"
)

type NotificationService struct {
	uow              uow.UOW
	notificationRepo NotificationRepository
	pushTokenRepo    PushTokenRepository
}

func NewNotificationService(u uow.UOW) (*NotificationService, error) {
	notificationRepo, notificationRepoErr :=
		uow.GetRepositoryAs[NotificationRepository](u, uow.RepositoryName(repoargs.NotificationRepoName))
	if notificationRepoErr != nil {
		return nil, notificationRepoErr
	}
	pushTokenRepo, pushTokenRepoErr :=
		uow.GetRepositoryAs[PushTokenRepository](u, uow.RepositoryName(repoargs.PushTokenRepoName))
	if pushTokenRepoErr != nil {
		return nil, pushTokenRepoErr
	}
	return &NotificationService{
		uow:              u,
		notificationRepo: notificationRepo,
		pushTokenRepo:    pushTokenRepo,
	}, nil
}

// RegisterToken привязывает push токен устройства к пользователю. Токен, зарегистрированный ранее другим
// пользователем, переходит к текущему.
func (s *NotificationService) RegisterToken(
	ctx context.Context,
	userID, token string,
	platform domain.PlatformType,
) (*domain.PushToken, error) {
	pushToken, err := s.pushTokenRepo.Upsert(ctx, domain.PushToken{
		Token:    strings.TrimSpace(token),
		UserID:   userID,
		Platform: platform,
	})
	if err != nil {
		return nil, fmt.Errorf("registering push token: %w", err)
	}
	return pushToken, nil
}

func (s *NotificationService) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	notifications, err := s.notificationRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing notifications: %w", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	notification, err := s.notificationRepo.MarkRead(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("marking notification read: %w", err)
	}
	return notification, nil
}

// OrderStatusChanged создает уведомление пользователю о новом статусе заказа.
func (s *NotificationService) OrderStatusChanged(ctx context.Context, order domain.Order) error {
	entry := order.LastTimelineEntry()
	_, err := s.notificationRepo.CreateNotification(ctx, domain.Notification{
		UserID: order.UserID,
		Type:   domain.NotificationTypeOrderStatus,
		Title:  fmt.Sprintf("Order %s", order.OrderNumber),
		Body:   entry.Message,
		Data: map[string]string{
			"orderId": order.ID,
			"status":  string(order.Status),
		},
	})
	if err != nil {
		return fmt.Errorf("creating order status notification: %w", err)
	}
	return nil
}
