package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/pkg/uow"
)

type SortKey string

const (
	SortByRating       SortKey = "rating"
	SortByDistance     SortKey = "distance"
	SortByDeliveryTime SortKey = "deliveryTime"
	SortByPopularity   SortKey = "popularity"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// CatalogQuery параметры поиска ресторанов. Пустые поля не фильтруют.
type CatalogQuery struct {
	Category    string
	Cuisine     string
	Query       string
	PriceRanges []string
	MinRating   float64
	Latitude    *float64
	Longitude   *float64
	// RadiusKm учитывается только вместе с точкой.
	RadiusKm float64
	SortBy   SortKey
	Page     int
	Limit    int
}

// RestaurantListing ресторан в выдаче каталога.
type RestaurantListing struct {
	domain.Restaurant
	DistanceKm *float64 `json:"distance,omitempty"`
	IsFavorite bool     `json:"isFavorite"`
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

type CatalogPage struct {
	Restaurants []RestaurantListing `json:"restaurants"`
	Pagination  Pagination          `json:"pagination"`
}

type DishDetails struct {
	domain.MenuItem
	CategoryID     string `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	RestaurantID   string `json:"restaurantId"`
	RestaurantName string `json:"restaurantName"`
}

type CatalogService struct {
	uow            uow.UOW
	restaurantRepo RestaurantRepository
	menuRepo       MenuRepository
	reviewRepo     ReviewRepository
	favoriteRepo   FavoriteRepository
}

func NewCatalogService(u uow.UOW) (*CatalogService, error) {
	restaurantRepo, restaurantRepoErr :=
		uow.GetRepositoryAs[RestaurantRepository](u, uow.RepositoryName(repoargs.RestaurantRepoName))
	if restaurantRepoErr != nil {
		return nil, restaurantRepoErr
	}
	menuRepo, menuRepoErr := uow.GetRepositoryAs[MenuRepository](u, uow.RepositoryName(repoargs.MenuRepoName))
	if menuRepoErr != nil {
		return nil, menuRepoErr
	}
	reviewRepo, reviewRepoErr := uow.GetRepositoryAs[ReviewRepository](u, uow.RepositoryName(repoargs.ReviewRepoName))
	if reviewRepoErr != nil {
		return nil, reviewRepoErr
	}
	favoriteRepo, favoriteRepoErr :=
		uow.GetRepositoryAs[FavoriteRepository](u, uow.RepositoryName(repoargs.FavoriteRepoName))
	if favoriteRepoErr != nil {
		return nil, favoriteRepoErr
	}
	return &CatalogService{
		uow:            u,
		restaurantRepo: restaurantRepo,
		menuRepo:       menuRepo,
		reviewRepo:     reviewRepo,
		favoriteRepo:   favoriteRepo,
	}, nil
}

// Search ищет рестораны. Для авторизованного пользователя (userID не пуст) помечает избранные.
func (s *CatalogService) Search(ctx context.Context, userID string, query CatalogQuery) (*CatalogPage, error) {
	restaurants, err := s.restaurantRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching restaurants: %w", err)
	}

	page := searchRestaurants(restaurants, query)

	favorites, favErr := s.favoriteSet(ctx, userID)
	if favErr != nil {
		return nil, fmt.Errorf("searching restaurants: %w", favErr)
	}
	for i := range page.Restaurants {
		_, page.Restaurants[i].IsFavorite = favorites[page.Restaurants[i].ID]
	}
	return page, nil
}

func (s *CatalogService) GetRestaurant(ctx context.Context, userID, restaurantID string) (*RestaurantListing, error) {
	restaurant, err := s.restaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("getting restaurant: %w", err)
	}
	favorites, favErr := s.favoriteSet(ctx, userID)
	if favErr != nil {
		return nil, fmt.Errorf("getting restaurant: %w", favErr)
	}
	_, isFavorite := favorites[restaurant.ID]
	return &RestaurantListing{Restaurant: *restaurant, IsFavorite: isFavorite}, nil
}

// GetMenu меню ресторана. У существующего ресторана без меню возвращается пустое меню.
func (s *CatalogService) GetMenu(ctx context.Context, restaurantID string) (*domain.Menu, error) {
	if _, err := s.restaurantRepo.FindByID(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("getting menu: %w", err)
	}
	menu, err := s.menuRepo.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return &domain.Menu{RestaurantID: restaurantID, Categories: []domain.MenuCategory{}}, nil
		}
		return nil, fmt.Errorf("getting menu: %w", err)
	}
	return menu, nil
}

func (s *CatalogService) GetDish(ctx context.Context, restaurantID, dishID string) (*DishDetails, error) {
	restaurant, err := s.restaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("getting dish: %w", err)
	}
	menu, menuErr := s.menuRepo.GetByRestaurantID(ctx, restaurantID)
	if menuErr != nil {
		return nil, fmt.Errorf("getting dish: %w", menuErr)
	}
	item, category := menu.FindItem(dishID)
	if item == nil {
		return nil, fmt.Errorf("getting dish `%s`: %w", dishID, domain.ErrRecordNotFound)
	}
	return &DishDetails{
		MenuItem:       *item,
		CategoryID:     category.ID,
		CategoryName:   category.Name,
		RestaurantID:   restaurant.ID,
		RestaurantName: restaurant.Name,
	}, nil
}

func (s *CatalogService) GetReviews(ctx context.Context, restaurantID string) ([]domain.Review, error) {
	if _, err := s.restaurantRepo.FindByID(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("getting reviews: %w", err)
	}
	reviews, err := s.reviewRepo.GetByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("getting reviews: %w", err)
	}
	return reviews, nil
}

type AddReviewArgs struct {
	Rating  int
	Comment string
}

// AddReview сохраняет отзыв и пересчитывает рейтинг ресторана как среднее с учетом нового отзыва.
func (s *CatalogService) AddReview(
	ctx context.Context,
	userID, restaurantID string,
	args AddReviewArgs,
) (*domain.Review, error) {
	var review *domain.Review
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		restaurantRepo, restaurantRepoErr :=
			uow.GetAs[RestaurantRepository](tx, uow.RepositoryName(repoargs.RestaurantRepoName))
		if restaurantRepoErr != nil {
			return restaurantRepoErr //nolint:wrapcheck
		}
		reviewRepo, reviewRepoErr := uow.GetAs[ReviewRepository](tx, uow.RepositoryName(repoargs.ReviewRepoName))
		if reviewRepoErr != nil {
			return reviewRepoErr //nolint:wrapcheck
		}
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		restaurant, restaurantErr := restaurantRepo.FindByID(c, restaurantID)
		if restaurantErr != nil {
			return restaurantErr //nolint:wrapcheck
		}
		user, userErr := userRepo.FindUserByID(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}

		var reviewErr error
		review, reviewErr = reviewRepo.CreateReview(c, domain.Review{
			RestaurantID: restaurant.ID,
			UserID:       user.ID,
			UserName:     user.Name,
			Rating:       args.Rating,
			Comment:      strings.TrimSpace(args.Comment),
		})
		if reviewErr != nil {
			return reviewErr //nolint:wrapcheck
		}

		rating, count := addRating(restaurant.Rating, restaurant.ReviewCount, args.Rating)
		_, updateErr := restaurantRepo.UpdateRating(c, restaurant.ID, rating, count)
		return updateErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("adding review: %w", txErr)
	}
	return review, nil
}

// addRating новое среднее, округленное до десятых.
func addRating(rating float64, count, newRating int) (float64, int) {
	total := rating*float64(count) + float64(newRating)
	count++
	return roundTo(total/float64(count), 1), count
}

func (s *CatalogService) favoriteSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	if userID == "" {
		return set, nil
	}
	ids, err := s.favoriteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// searchRestaurants применяет фильтры, сортировку и пагинацию к каталогу.
//
// Алгоритм работы:
//  1. Отбирает рестораны, подходящие под все фильтры. Расстояние считается один раз для каждого кандидата.
//  2. Отбрасывает рестораны дальше радиуса, если заданы точка и радиус.
//  3. Стабильно сортирует по ключу. Сортировка по расстоянию без точки сохраняет исходный порядок.
//  4. Возвращает запрошенную страницу.
func searchRestaurants(restaurants []domain.Restaurant, query CatalogQuery) *CatalogPage {
	hasPoint := query.Latitude != nil && query.Longitude != nil

	matched := make([]RestaurantListing, 0, len(restaurants))
	for _, restaurant := range restaurants {
		if !matchesQuery(restaurant, query) {
			continue
		}
		listing := RestaurantListing{Restaurant: restaurant}
		if hasPoint {
			distance := haversineKm(*query.Latitude, *query.Longitude,
				restaurant.Location.Latitude, restaurant.Location.Longitude)
			if query.RadiusKm > 0 && distance > query.RadiusKm {
				continue
			}
			rounded := roundTo(distance, 2)
			listing.DistanceKm = &rounded
		}
		matched = append(matched, listing)
	}

	if cmp := listingComparator(query.SortBy, hasPoint); cmp != nil {
		slices.SortStableFunc(matched, cmp)
	}

	page, limit := normalizePaging(query.Page, query.Limit)
	total := len(matched)
	// страница за концом выборки пустая; (page-1)*limit может переполниться.
	start := total
	if page-1 < total/limit+1 {
		start = min((page-1)*limit, total)
	}
	end := start + min(limit, total-start)

	return &CatalogPage{
		Restaurants: matched[start:end],
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: (total + limit - 1) / limit,
		},
	}
}

func normalizePaging(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

func matchesQuery(restaurant domain.Restaurant, query CatalogQuery) bool {
	if query.Category != "" && !containsFold(restaurant.Categories, query.Category) {
		return false
	}
	if query.Cuisine != "" && !strings.Contains(strings.ToLower(restaurant.Cuisine), strings.ToLower(query.Cuisine)) {
		return false
	}
	if len(query.PriceRanges) > 0 && !slices.Contains(query.PriceRanges, restaurant.PriceRange) {
		return false
	}
	if query.MinRating > 0 && restaurant.Rating < query.MinRating {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(query.Query)); q != "" && !matchesText(restaurant, q) {
		return false
	}
	return true
}

// matchesText ищет подстроку q (в нижнем регистре) в названии, описании, кухне, тегах и категориях.
func matchesText(restaurant domain.Restaurant, q string) bool {
	fields := []string{restaurant.Name, restaurant.Description, restaurant.Cuisine}
	fields = append(fields, restaurant.Tags...)
	fields = append(fields, restaurant.Categories...)
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

func containsFold(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func listingComparator(sortBy SortKey, hasPoint bool) func(a, b RestaurantListing) int {
	switch sortBy {
	case SortByDistance:
		if !hasPoint {
			return nil
		}
		return func(a, b RestaurantListing) int {
			return compareFloat(*a.DistanceKm, *b.DistanceKm)
		}
	case SortByDeliveryTime:
		return func(a, b RestaurantListing) int {
			return a.DeliveryTime.Min - b.DeliveryTime.Min
		}
	case SortByPopularity:
		return func(a, b RestaurantListing) int {
			return b.Popularity - a.Popularity
		}
	case SortByRating, "":
		return func(a, b RestaurantListing) int {
			return compareFloat(b.Rating, a.Rating)
		}
	default:
		return nil
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
