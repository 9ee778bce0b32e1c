package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-eats/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	DefaultServiceTimeout = 3 * time.Second
)

const (
	RouteGroup = "/api"

	RegisterRoute = "/auth/register"
	LoginRoute    = "/auth/login"
	RefreshRoute  = "/auth/refresh"

	ProfileRoute        = "/users/profile"
	AddressesRoute      = "/users/addresses"
	AddressRoute        = "/users/addresses/:id"
	DefaultAddressRoute = "/users/addresses/:id/default"

	RestaurantsRoute = "/restaurants"
	RestaurantRoute  = "/restaurants/:id"
	MenuRoute        = "/restaurants/:id/menu"
	DishRoute        = "/restaurants/:id/menu/:dishId/dish"
	ReviewsRoute     = "/restaurants/:id/reviews"

	OrdersRoute      = "/orders"
	OrderRoute       = "/orders/:id"
	CancelOrderRoute = "/orders/:id/cancel"
	TrackOrderRoute  = "/orders/:id/track"

	FavoritesRoute = "/favorites"
	FavoriteRoute  = "/favorites/:id"

	NotificationsRoute    = "/notifications"
	RegisterTokenRoute    = "/notifications/register-token"
	ReadNotificationRoute = "/notifications/:id/read"

	UploadsRoute = "/uploads"

	MetricsRoute      = "/metrics"
	HealthRoute       = "/health"
	StaticUploadsPath = "/uploads"
)

// MetricsProvider учитывает запросы и отдает собранные метрики.
type MetricsProvider interface {
	middlewares.RequestObserver
	Handler() http.Handler
}

type RouterArgs struct {
	Logger  *logrus.Logger
	Metrics MetricsProvider
	Tokens  middlewares.TokenValidator

	UserService         UserServicer
	AddressService      AddressServicer
	CatalogService      CatalogServicer
	FavoriteService     FavoriteServicer
	OrderService        OrderServicer
	NotificationService NotificationServicer
	UploadService       UploadServicer

	// UploadsDir каталог, содержимое которого раздается по StaticUploadsPath. Пустой - не раздается.
	UploadsDir string
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, fmt.Errorf("router: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	if args.Metrics != nil {
		r.Use(middlewares.Metrics(args.Metrics))
		r.GET(MetricsRoute, gin.WrapH(args.Metrics.Handler()))
	}
	r.Use(middlewares.Errors())

	r.GET(HealthRoute, func(c *gin.Context) {
		respond(c, http.StatusOK, gin.H{"status": "ok"})
	})
	if args.UploadsDir != "" {
		r.Static(StaticUploadsPath, args.UploadsDir)
	}

	authHandler := NewAuthHandler(args.UserService)
	usersHandler := NewUsersHandler(args.UserService, args.AddressService)
	restaurantsHandler := NewRestaurantsHandler(args.CatalogService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	favoritesHandler := NewFavoritesHandler(args.FavoriteService)
	notificationsHandler := NewNotificationsHandler(args.NotificationService)
	uploadsHandler := NewUploadsHandler(args.UploadService)

	api := r.Group(RouteGroup)
	authRequired := middlewares.AuthRequired(args.Tokens)

	api.POST(RegisterRoute, authHandler.Register)
	api.POST(LoginRoute, authHandler.Login)
	api.POST(RefreshRoute, authHandler.Refresh)

	// каталог доступен всем, авторизованный юзер дополнительно получает пометку избранного.
	catalog := api.Group("", middlewares.OptionalAuth(args.Tokens))
	catalog.GET(RestaurantsRoute, restaurantsHandler.Index)
	catalog.GET(RestaurantRoute, restaurantsHandler.Show)
	catalog.GET(MenuRoute, restaurantsHandler.Menu)
	catalog.GET(DishRoute, restaurantsHandler.Dish)
	catalog.GET(ReviewsRoute, restaurantsHandler.Reviews)

	// ниже все роуты группы требуют авторизованного пользователя.
	private := api.Group("", authRequired)
	private.POST(ReviewsRoute, restaurantsHandler.AddReview)

	private.GET(ProfileRoute, usersHandler.Profile)
	private.PUT(ProfileRoute, usersHandler.UpdateProfile)
	private.GET(AddressesRoute, usersHandler.Addresses)
	private.POST(AddressesRoute, usersHandler.AddAddress)
	private.PUT(AddressRoute, usersHandler.UpdateAddress)
	private.DELETE(AddressRoute, usersHandler.DeleteAddress)
	private.PATCH(DefaultAddressRoute, usersHandler.SetDefaultAddress)

	private.POST(OrdersRoute, ordersHandler.Create)
	private.GET(OrdersRoute, ordersHandler.Index)
	private.GET(OrderRoute, ordersHandler.Show)
	private.POST(CancelOrderRoute, ordersHandler.Cancel)
	private.GET(TrackOrderRoute, ordersHandler.Track)

	private.GET(FavoritesRoute, favoritesHandler.Index)
	private.POST(FavoritesRoute, favoritesHandler.Create)
	private.DELETE(FavoriteRoute, favoritesHandler.Delete)

	private.POST(RegisterTokenRoute, notificationsHandler.RegisterToken)
	private.GET(NotificationsRoute, notificationsHandler.Index)
	private.PATCH(ReadNotificationRoute, notificationsHandler.MarkRead)

	private.POST(UploadsRoute, uploadsHandler.Create)

	return r, nil
}
