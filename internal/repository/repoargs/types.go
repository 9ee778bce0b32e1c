package repoargs

type RepositoryName string

const (
	UserRepoName         RepositoryName = "user"
	OrderRepoName        RepositoryName = "order"
	RestaurantRepoName   RepositoryName = "restaurant"
	MenuRepoName         RepositoryName = "menu"
	FavoriteRepoName     RepositoryName = "favorite"
	ReviewRepoName       RepositoryName = "review"
	PushTokenRepoName    RepositoryName = "push_token"
	NotificationRepoName RepositoryName = "notification"
)

// Имена документов в хранилище.
const (
	UsersResource         = "users"
	OrdersResource        = "orders"
	RestaurantsResource   = "restaurants"
	MenusResource         = "menus"
	FavoritesResource     = "favorites"
	ReviewsResource       = "reviews"
	PushTokensResource    = "push-tokens"
	NotificationsResource = "notifications"
)
