package docrepo

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
)

type NotificationRepository struct {
	mu            sync.RWMutex
	store         *jsonstore.Store
	notifications []domain.Notification
}

func NewNotificationRepository(ctx context.Context, store *jsonstore.Store) *NotificationRepository {
	return &NotificationRepository{
		store: store,
		notifications: jsonstore.Load(ctx, store, repoargs.NotificationsResource, func() []domain.Notification {
			return []domain.Notification{}
		}),
	}
}

func (r *NotificationRepository) CreateNotification(
	ctx context.Context,
	notification domain.Notification,
) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if notification.ID == "" {
		notification.ID = newID()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now()
	}
	notification.Data = maps.Clone(notification.Data)
	r.notifications = append(r.notifications, notification)
	persist(ctx, r.store, repoargs.NotificationsResource, r.notifications)

	return cloneNotification(notification), nil
}

// GetByUserID уведомления пользователя, новые первыми.
func (r *NotificationRepository) GetByUserID(_ context.Context, userID string) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var notifications = make([]domain.Notification, 0)
	for _, notification := range r.notifications {
		if notification.UserID == userID {
			notifications = append(notifications, *cloneNotification(notification))
		}
	}
	slices.SortStableFunc(notifications, func(a, b domain.Notification) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return notifications, nil
}

// MarkRead помечает уведомление прочитанным. Чужое уведомление считается не найденным.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.notifications {
		if r.notifications[i].ID == id && r.notifications[i].UserID == userID {
			if !r.notifications[i].Read {
				r.notifications[i].Read = true
				persist(ctx, r.store, repoargs.NotificationsResource, r.notifications)
			}
			return cloneNotification(r.notifications[i]), nil
		}
	}
	return nil, notFoundErr("marking notification `%s` as read", id)
}

func cloneNotification(notification domain.Notification) *domain.Notification {
	notification.Data = maps.Clone(notification.Data)
	return &notification
}
