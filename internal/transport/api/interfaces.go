package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"io"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/service"
	"github.com/fsdevblog/groph-eats/internal/service/tokens"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, *tokens.Pair, error)
	Login(ctx context.Context, args service.LoginUserArgs) (*domain.User, *tokens.Pair, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, *tokens.Pair, error)
	GetProfile(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, args service.UpdateProfileArgs) (*domain.User, error)
}

type AddressServicer interface {
	List(ctx context.Context, userID string) ([]domain.Address, error)
	Add(ctx context.Context, userID string, args service.AddressArgs) (*domain.Address, error)
	Update(ctx context.Context, userID, addressID string, args service.AddressArgs) (*domain.Address, error)
	Delete(ctx context.Context, userID, addressID string) error
	SetDefault(ctx context.Context, userID, addressID string) (*domain.Address, error)
}

type CatalogServicer interface {
	Search(ctx context.Context, userID string, query service.CatalogQuery) (*service.CatalogPage, error)
	GetRestaurant(ctx context.Context, userID, restaurantID string) (*service.RestaurantListing, error)
	GetMenu(ctx context.Context, restaurantID string) (*domain.Menu, error)
	GetDish(ctx context.Context, restaurantID, dishID string) (*service.DishDetails, error)
	GetReviews(ctx context.Context, restaurantID string) ([]domain.Review, error)
	AddReview(ctx context.Context, userID, restaurantID string, args service.AddReviewArgs) (*domain.Review, error)
}

type FavoriteServicer interface {
	List(ctx context.Context, userID string) ([]domain.Restaurant, error)
	Add(ctx context.Context, userID, restaurantID string) (*domain.Restaurant, error)
	Remove(ctx context.Context, userID, restaurantID string) error
}

type OrderServicer interface {
	Create(ctx context.Context, userID string, args service.CreateOrderArgs) (*domain.Order, error)
	GetByUserID(ctx context.Context, userID string, status domain.OrderStatusType) ([]domain.Order, error)
	GetForUser(ctx context.Context, userID, orderID string) (*service.OrderView, error)
	Track(ctx context.Context, userID, orderID string) (*service.TrackingInfo, error)
	Cancel(ctx context.Context, userID, orderID, reason string) (*domain.Order, error)
}

type NotificationServicer interface {
	RegisterToken(
		ctx context.Context,
		userID, token string,
		platform domain.PlatformType,
	) (*domain.PushToken, error)
	List(ctx context.Context, userID string) ([]domain.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (*domain.Notification, error)
}

type UploadServicer interface {
	Save(ctx context.Context, r io.Reader) (*service.Upload, error)
	MaxBytes() int64
}
