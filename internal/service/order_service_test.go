package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/docrepo"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/service/mocks"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
	"github.com/fsdevblog/groph-eats/pkg/uow"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockScheduler *mocks.MockOrderScheduler
	mockNotifier  *mocks.MockStatusNotifier
	orderService  *OrderService
	restaurants   *docrepo.RestaurantRepository
	userID        string
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

// newTestUOW собирает единицу работы поверх хранилища в памяти с зарегистрированными репозиториями.
func newTestUOW(ctx context.Context, t *testing.T) (*uow.UnitOfWork, *docrepo.RestaurantRepository,
	*docrepo.MenuRepository, *docrepo.UserRepository) {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	store := jsonstore.New(jsonstore.NewMemoryBackend(), l)

	restaurantRepo := docrepo.NewRestaurantRepository(ctx, store)
	menuRepo := docrepo.NewMenuRepository(ctx, store)
	userRepo := docrepo.NewUserRepository(ctx, store)

	u := uow.NewUnitOfWork()
	repos := map[repoargs.RepositoryName]uow.Repository{
		repoargs.UserRepoName:         userRepo,
		repoargs.OrderRepoName:        docrepo.NewOrderRepository(ctx, store),
		repoargs.RestaurantRepoName:   restaurantRepo,
		repoargs.MenuRepoName:         menuRepo,
		repoargs.FavoriteRepoName:     docrepo.NewFavoriteRepository(ctx, store),
		repoargs.ReviewRepoName:       docrepo.NewReviewRepository(ctx, store),
		repoargs.PushTokenRepoName:    docrepo.NewPushTokenRepository(ctx, store),
		repoargs.NotificationRepoName: docrepo.NewNotificationRepository(ctx, store),
	}
	for name, repo := range repos {
		if err := u.Register(uow.RepositoryName(name), repo); err != nil {
			t.Fatal(err)
		}
	}
	return u, restaurantRepo, menuRepo, userRepo
}

func (s *OrderServiceTestSuite) SetupTest() {
	ctx := s.T().Context()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockScheduler = mocks.NewMockOrderScheduler(s.mockCtrl)
	s.mockNotifier = mocks.NewMockStatusNotifier(s.mockCtrl)

	u, restaurantRepo, menuRepo, userRepo := newTestUOW(ctx, s.T())

	s.Require().NoError(restaurantRepo.ReplaceAll(ctx, []domain.Restaurant{
		{
			ID:           "r1",
			Name:         "Pasta Place",
			IsOpen:       true,
			DeliveryFee:  decimal.RequireFromString("2.50"),
			MinimumOrder: decimal.RequireFromString("10"),
			DeliveryTime: domain.DeliveryTime{Min: 20, Max: 30},
			Location:     domain.Location{Latitude: 40.7128, Longitude: -74.006},
		},
		{ID: "closed", Name: "Closed Diner", IsOpen: false},
	}))
	s.Require().NoError(menuRepo.ReplaceAll(ctx, map[string]domain.Menu{
		"r1": {
			RestaurantID: "r1",
			Categories: []domain.MenuCategory{{
				ID:   "c1",
				Name: "Pasta",
				Items: []domain.MenuItem{
					{ID: "m1", Name: "Carbonara", Price: decimal.RequireFromString("10.00"), IsAvailable: true},
					{ID: "m2", Name: "Lasagna", Price: decimal.RequireFromString("7.25"), IsAvailable: false},
				},
			}},
		},
	}))

	user, userErr := userRepo.CreateUser(ctx, repoargs.CreateUser{Email: "john@example.com", Name: "John"})
	s.Require().NoError(userErr)
	_, addrErr := userRepo.SaveAddresses(ctx, user.ID, []domain.Address{
		{ID: "a1", Label: "Home", Street: "1 Main St", City: "NYC", Latitude: 40.73, Longitude: -73.99, IsDefault: true},
	})
	s.Require().NoError(addrErr)
	s.userID = user.ID
	s.restaurants = restaurantRepo

	orderService, servErr := NewOrderService(u)
	s.Require().NoError(servErr)
	s.orderService = orderService.SetScheduler(s.mockScheduler).SetNotifier(s.mockNotifier)
}

func (s *OrderServiceTestSuite) createOrder(args CreateOrderArgs) *domain.Order {
	s.mockScheduler.EXPECT().Arm(gomock.Any(), gomock.Any())
	s.mockNotifier.EXPECT().OrderStatusChanged(gomock.Any(), gomock.Any()).Return(nil)

	order, err := s.orderService.Create(s.T().Context(), s.userID, args)
	s.Require().NoError(err)
	return order
}

func (s *OrderServiceTestSuite) TestCreate() {
	order := s.createOrder(CreateOrderArgs{
		RestaurantID: "r1",
		Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 2}},
	})

	s.Equal(domain.OrderStatusPending, order.Status)
	s.True(decimal.RequireFromString("20.00").Equal(order.Subtotal))
	s.True(decimal.RequireFromString("0.99").Equal(order.ServiceFee))
	s.True(decimal.RequireFromString("23.49").Equal(order.Total), order.Total.String())
	s.Require().Len(order.Timeline, 1)
	s.Equal("Order placed successfully", order.Timeline[0].Message)
	s.Equal("a1", order.DeliveryAddress.ID)
	s.Equal(domain.PaymentMethodCard, order.PaymentMethod)
	s.Equal(order.CreatedAt.Add(30*time.Minute), order.EstimatedDeliveryTime)
	s.NotEmpty(order.OrderNumber)
}

func (s *OrderServiceTestSuite) TestCreateValidation() {
	cases := []struct {
		name string
		args CreateOrderArgs
		err  error
	}{
		{
			name: "unknown restaurant",
			args: CreateOrderArgs{RestaurantID: "missing", Items: []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}}},
			err:  domain.ErrRecordNotFound,
		},
		{
			name: "closed restaurant",
			args: CreateOrderArgs{RestaurantID: "closed", Items: []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}}},
			err:  domain.ErrRestaurantClosed,
		},
		{
			name: "unknown item",
			args: CreateOrderArgs{RestaurantID: "r1", Items: []CreateOrderItemArgs{{MenuItemID: "nope", Quantity: 1}}},
			err:  domain.ErrInvalidOrderItem,
		},
		{
			name: "unavailable item",
			args: CreateOrderArgs{RestaurantID: "r1", Items: []CreateOrderItemArgs{{MenuItemID: "m2", Quantity: 2}}},
			err:  domain.ErrInvalidOrderItem,
		},
		{
			name: "zero quantity",
			args: CreateOrderArgs{RestaurantID: "r1", Items: []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 0}}},
			err:  domain.ErrInvalidOrderItem,
		},
		{
			name: "unknown promo",
			args: CreateOrderArgs{
				RestaurantID: "r1",
				Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}},
				PromoCode:    "FREEFOOD",
			},
			err: domain.ErrInvalidPromoCode,
		},
		{
			name: "unknown address",
			args: CreateOrderArgs{
				RestaurantID: "r1",
				Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}},
				AddressID:    "nope",
			},
			err: domain.ErrAddressRequired,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			_, err := s.orderService.Create(s.T().Context(), s.userID, tc.args)
			s.ErrorIs(err, tc.err)
		})
	}
}

func (s *OrderServiceTestSuite) TestCreateBelowMinimum() {
	s.Require().NoError(s.restaurants.ReplaceAll(s.T().Context(), []domain.Restaurant{{
		ID:           "r1",
		IsOpen:       true,
		MinimumOrder: decimal.NewFromInt(400),
		DeliveryFee:  decimal.Zero,
	}}))

	_, err := s.orderService.Create(s.T().Context(), s.userID, CreateOrderArgs{
		RestaurantID: "r1",
		Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}},
	})
	s.ErrorIs(err, domain.ErrBelowMinimumOrder)
}

func (s *OrderServiceTestSuite) TestCreateWithPromo() {
	order := s.createOrder(CreateOrderArgs{
		RestaurantID: "r1",
		Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 3}},
		PromoCode:    "welcome10",
		Tip:          decimal.RequireFromString("1.50"),
		DeliveryAddress: &AddressArgs{
			Street: "5 Side St",
			City:   "NYC",
		},
	})

	s.True(decimal.RequireFromString("3.00").Equal(order.Discount))
	s.True(decimal.RequireFromString("31.99").Equal(order.Total), order.Total.String())
	s.Equal("WELCOME10", order.PromoCode)
	s.Equal("5 Side St", order.DeliveryAddress.Street)
}

func (s *OrderServiceTestSuite) TestCancel() {
	order := s.createOrder(CreateOrderArgs{
		RestaurantID: "r1",
		Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}},
	})

	s.Run("other user", func() {
		_, err := s.orderService.Cancel(s.T().Context(), "stranger", order.ID, "")
		s.ErrorIs(err, domain.ErrRecordNotFound)
	})

	s.Run("first cancel", func() {
		s.mockScheduler.EXPECT().Revoke(order.ID).Return(true)
		s.mockNotifier.EXPECT().OrderStatusChanged(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, o domain.Order) error {
				s.Equal(domain.OrderStatusCancelled, o.Status)
				return nil
			})

		cancelled, err := s.orderService.Cancel(s.T().Context(), s.userID, order.ID, "changed my mind")
		s.Require().NoError(err)
		s.Equal(domain.OrderStatusCancelled, cancelled.Status)
		s.Equal("changed my mind", cancelled.CancelReason)
		s.Require().Len(cancelled.Timeline, 2)
		s.Equal("Order cancelled: changed my mind", cancelled.Timeline[1].Message)
	})

	s.Run("second cancel", func() {
		_, err := s.orderService.Cancel(s.T().Context(), s.userID, order.ID, "")
		s.ErrorIs(err, domain.ErrOrderNotCancellable)

		stored, _ := s.orderService.GetForUser(s.T().Context(), s.userID, order.ID)
		s.Len(stored.Timeline, 2)
	})

	s.Run("advance after cancel", func() {
		_, err := s.orderService.Advance(s.T().Context(), order.ID, domain.OrderStatusConfirmed)
		s.ErrorIs(err, domain.ErrOrderCancelled)
	})
}

func (s *OrderServiceTestSuite) TestCancelByStatus() {
	s.mockScheduler.EXPECT().Arm(gomock.Any(), gomock.Any()).AnyTimes()
	s.mockScheduler.EXPECT().Revoke(gomock.Any()).Return(true).AnyTimes()
	s.mockNotifier.EXPECT().OrderStatusChanged(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	cancellable := map[domain.OrderStatusType]bool{
		domain.OrderStatusPending:   true,
		domain.OrderStatusConfirmed: true,
	}

	for i, status := range domain.OrderLifecycle {
		s.Run(string(status), func() {
			ctx := s.T().Context()
			order, createErr := s.orderService.Create(ctx, s.userID, CreateOrderArgs{
				RestaurantID: "r1",
				Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}},
			})
			s.Require().NoError(createErr)
			for _, next := range domain.OrderLifecycle[1 : i+1] {
				_, advErr := s.orderService.Advance(ctx, order.ID, next)
				s.Require().NoError(advErr)
			}

			cancelled, cancelErr := s.orderService.Cancel(ctx, s.userID, order.ID, "")
			stored, getErr := s.orderService.GetForUser(ctx, s.userID, order.ID)
			s.Require().NoError(getErr)

			if cancellable[status] {
				s.Require().NoError(cancelErr)
				s.Equal(domain.OrderStatusCancelled, cancelled.Status)
				s.Len(stored.Timeline, i+2)
				s.Equal(domain.OrderStatusCancelled, stored.Status)
				return
			}
			s.Require().ErrorIs(cancelErr, domain.ErrOrderNotCancellable)
			s.Len(stored.Timeline, i+1)
			s.Equal(status, stored.Status)
		})
	}
}

func (s *OrderServiceTestSuite) TestAdvanceWalksLifecycle() {
	order := s.createOrder(CreateOrderArgs{
		RestaurantID: "r1",
		Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}},
	})
	s.mockNotifier.EXPECT().OrderStatusChanged(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	// пропустить статус нельзя.
	_, skipErr := s.orderService.Advance(s.T().Context(), order.ID, domain.OrderStatusReady)
	s.ErrorIs(skipErr, domain.ErrIllegalTransition)

	for i, status := range domain.OrderLifecycle[1:] {
		advanced, err := s.orderService.Advance(s.T().Context(), order.ID, status)
		s.Require().NoError(err)
		s.Equal(status, advanced.Status)

		// таймлайн - префикс канонической последовательности.
		s.Require().Len(advanced.Timeline, i+2)
		for j, entry := range advanced.Timeline {
			s.Equal(domain.OrderLifecycle[j], entry.Status)
		}
	}

	_, afterErr := s.orderService.Advance(s.T().Context(), order.ID, domain.OrderStatusDelivered)
	s.ErrorIs(afterErr, domain.ErrIllegalTransition)

	_, cancelErr := s.orderService.Cancel(s.T().Context(), s.userID, order.ID, "")
	s.ErrorIs(cancelErr, domain.ErrOrderNotCancellable)
}

func (s *OrderServiceTestSuite) TestTrack() {
	order := s.createOrder(CreateOrderArgs{
		RestaurantID: "r1",
		Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}},
	})

	pending, err := s.orderService.Track(s.T().Context(), s.userID, order.ID)
	s.Require().NoError(err)
	s.Nil(pending.Driver)
	s.Nil(pending.EstimatedArrival)

	s.mockNotifier.EXPECT().OrderStatusChanged(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	for _, status := range domain.OrderLifecycle[1:5] {
		_, advErr := s.orderService.Advance(s.T().Context(), order.ID, status)
		s.Require().NoError(advErr)
	}

	first, err := s.orderService.Track(s.T().Context(), s.userID, order.ID)
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusPickedUp, first.Status)
	s.Require().NotNil(first.Driver)
	s.Require().NotNil(first.EstimatedArrival)
	s.InDelta(40.73, first.Driver.Location.Latitude, 0.05)

	second, err := s.orderService.GetForUser(s.T().Context(), s.userID, order.ID)
	s.Require().NoError(err)
	s.Require().NotNil(second.Driver)
	// курьер тот же, положение пересчитывается.
	s.Equal(first.Driver.Name, second.Driver.Name)
	s.Equal(first.Driver.Phone, second.Driver.Phone)

	_, otherErr := s.orderService.Track(s.T().Context(), "stranger", order.ID)
	s.ErrorIs(otherErr, domain.ErrRecordNotFound)
}

func (s *OrderServiceTestSuite) TestGetByUserID() {
	first := s.createOrder(CreateOrderArgs{
		RestaurantID: "r1",
		Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 1}},
	})
	second := s.createOrder(CreateOrderArgs{
		RestaurantID: "r1",
		Items:        []CreateOrderItemArgs{{MenuItemID: "m1", Quantity: 2}},
	})

	s.mockScheduler.EXPECT().Revoke(first.ID).Return(true)
	s.mockNotifier.EXPECT().OrderStatusChanged(gomock.Any(), gomock.Any()).Return(nil)
	_, cancelErr := s.orderService.Cancel(s.T().Context(), s.userID, first.ID, "")
	s.Require().NoError(cancelErr)

	all, err := s.orderService.GetByUserID(s.T().Context(), s.userID, "")
	s.Require().NoError(err)
	s.Len(all, 2)

	pending, err := s.orderService.GetByUserID(s.T().Context(), s.userID, domain.OrderStatusPending)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(second.ID, pending[0].ID)
}
