package service

import (
	"context"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/service/tokens"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

type TokenIssuer interface {
	GeneratePair(userID, email string) (*tokens.Pair, error)
	ValidateRefresh(tokenString string) (*tokens.UserClaims, error)
}

// OrderScheduler планировщик автоматического продвижения заказа по статусам.
type OrderScheduler interface {
	// Arm запускает продвижение заказа, смещения отсчитываются от createdAt.
	Arm(orderID string, createdAt time.Time)
	// Revoke отменяет запланированные переходы. Возвращает false, если заказ не был запланирован.
	Revoke(orderID string) bool
}

// StatusNotifier получает заказ сразу после смены его статуса.
type StatusNotifier interface {
	OrderStatusChanged(ctx context.Context, order domain.Order) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, args repoargs.CreateUser) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindUserByID(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, args repoargs.UpdateProfile) (*domain.User, error)
	SaveAddresses(ctx context.Context, userID string, addresses []domain.Address) (*domain.User, error)
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	GetByUserID(ctx context.Context, filter repoargs.OrderFilter) ([]domain.Order, error)
	UpdateOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
}

type RestaurantRepository interface {
	All(ctx context.Context) ([]domain.Restaurant, error)
	FindByID(ctx context.Context, id string) (*domain.Restaurant, error)
	UpdateRating(ctx context.Context, id string, rating float64, reviewCount int) (*domain.Restaurant, error)
}

type MenuRepository interface {
	GetByRestaurantID(ctx context.Context, restaurantID string) (*domain.Menu, error)
}

type FavoriteRepository interface {
	GetByUserID(ctx context.Context, userID string) ([]string, error)
	Add(ctx context.Context, userID, restaurantID string) (bool, error)
	Remove(ctx context.Context, userID, restaurantID string) error
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review domain.Review) (*domain.Review, error)
	GetByRestaurantID(ctx context.Context, restaurantID string) ([]domain.Review, error)
}

type PushTokenRepository interface {
	Upsert(ctx context.Context, token domain.PushToken) (*domain.PushToken, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.PushToken, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification domain.Notification) (*domain.Notification, error)
	GetByUserID(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error)
}
