package service

import (
	"context"
	"math"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/docrepo"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/pkg/uow"
	"github.com/stretchr/testify/suite"
)

type CatalogServiceTestSuite struct {
	suite.Suite
	catalog     []domain.Restaurant
	catalogServ *CatalogService
	userID      string
}

func TestCatalogServiceSuite(t *testing.T) {
	suite.Run(t, new(CatalogServiceTestSuite))
}

func (s *CatalogServiceTestSuite) SetupTest() {
	ctx := s.T().Context()
	s.catalog = []domain.Restaurant{
		{
			ID: "r1", Name: "Pizza Roma", Cuisine: "Italian", Categories: []string{"pizza"}, Rating: 4.5,
			PriceRange: "$$", DeliveryTime: domain.DeliveryTime{Min: 30, Max: 40}, Popularity: 10,
			Location: domain.Location{Latitude: 40.7128, Longitude: -74.0060},
		},
		{
			ID: "r2", Name: "Sushi Zen", Cuisine: "Japanese", Categories: []string{"sushi"}, Rating: 4.8,
			PriceRange: "$$$", DeliveryTime: domain.DeliveryTime{Min: 25, Max: 35}, Popularity: 50,
			Tags: []string{"fresh fish"}, Location: domain.Location{Latitude: 40.7580, Longitude: -73.9855},
		},
		{
			ID: "r3", Name: "Burger Hub", Cuisine: "American", Categories: []string{"burgers"}, Rating: 4.5,
			PriceRange: "$", DeliveryTime: domain.DeliveryTime{Min: 15, Max: 25}, Popularity: 90,
			Location: domain.Location{Latitude: 40.6782, Longitude: -73.9442},
		},
		{
			ID: "r4", Name: "Pasta Fresca", Cuisine: "Italian", Categories: []string{"pasta", "pizza"}, Rating: 3.9,
			PriceRange: "$$", DeliveryTime: domain.DeliveryTime{Min: 20, Max: 30}, Popularity: 30,
			Location: domain.Location{Latitude: 34.0522, Longitude: -118.2437},
		},
	}

	u, restaurantRepo, _, userRepo := newTestUOW(ctx, s.T())
	s.Require().NoError(restaurantRepo.ReplaceAll(ctx, s.catalog))
	user, err := userRepo.CreateUser(ctx, repoargs.CreateUser{Email: "john@example.com", Name: "John"})
	s.Require().NoError(err)
	s.userID = user.ID

	catalogService, servErr := NewCatalogService(u)
	s.Require().NoError(servErr)
	s.catalogServ = catalogService
}

func ids(listings []RestaurantListing) []string {
	res := make([]string, len(listings))
	for i, l := range listings {
		res[i] = l.ID
	}
	return res
}

func (s *CatalogServiceTestSuite) TestSearchRestaurants() {
	lat, lng := 40.7128, -74.0060

	cases := []struct {
		name      string
		query     CatalogQuery
		wantIDs   []string
		wantTotal int
	}{
		{
			// равные рейтинги r1 и r3 сохраняют исходный порядок.
			name:    "default sort by rating",
			query:   CatalogQuery{},
			wantIDs: []string{"r2", "r1", "r3", "r4"},
		},
		{
			name:    "category",
			query:   CatalogQuery{Category: "PIZZA"},
			wantIDs: []string{"r1", "r4"},
		},
		{
			name:    "cuisine substring",
			query:   CatalogQuery{Cuisine: "ital"},
			wantIDs: []string{"r1", "r4"},
		},
		{
			name:    "text query matches tags",
			query:   CatalogQuery{Query: "fish"},
			wantIDs: []string{"r2"},
		},
		{
			name:    "price ranges and min rating",
			query:   CatalogQuery{PriceRanges: []string{"$", "$$"}, MinRating: 4.0},
			wantIDs: []string{"r1", "r3"},
		},
		{
			name:    "delivery time",
			query:   CatalogQuery{SortBy: SortByDeliveryTime},
			wantIDs: []string{"r3", "r4", "r2", "r1"},
		},
		{
			name:    "popularity",
			query:   CatalogQuery{SortBy: SortByPopularity},
			wantIDs: []string{"r3", "r2", "r4", "r1"},
		},
		{
			name:    "distance without point keeps order",
			query:   CatalogQuery{SortBy: SortByDistance},
			wantIDs: []string{"r1", "r2", "r3", "r4"},
		},
		{
			name:    "distance with radius",
			query:   CatalogQuery{SortBy: SortByDistance, Latitude: &lat, Longitude: &lng, RadiusKm: 15},
			wantIDs: []string{"r1", "r2", "r3"},
		},
		{
			name:      "second page",
			query:     CatalogQuery{Page: 2, Limit: 3},
			wantIDs:   []string{"r4"},
			wantTotal: 4,
		},
		{
			name:      "page past the end",
			query:     CatalogQuery{Page: 5, Limit: 3},
			wantIDs:   []string{},
			wantTotal: 4,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			page := searchRestaurants(s.catalog, tc.query)
			s.Equal(tc.wantIDs, ids(page.Restaurants))
			if tc.wantTotal > 0 {
				s.Equal(tc.wantTotal, page.Pagination.Total)
			}
		})
	}
}

func (s *CatalogServiceTestSuite) TestPagination() {
	restaurants := make([]domain.Restaurant, 45)
	for i := range restaurants {
		restaurants[i] = domain.Restaurant{ID: gofakeit.UUID(), Rating: gofakeit.Float64Range(1, 5)}
	}

	page := searchRestaurants(restaurants, CatalogQuery{})
	s.Equal(Pagination{Page: 1, Limit: DefaultPageLimit, Total: 45, TotalPages: 3}, page.Pagination)
	s.Len(page.Restaurants, DefaultPageLimit)
	for i := 1; i < len(page.Restaurants); i++ {
		s.GreaterOrEqual(page.Restaurants[i-1].Rating, page.Restaurants[i].Rating)
	}

	capped := searchRestaurants(restaurants, CatalogQuery{Limit: 1000})
	s.Equal(MaxPageLimit, capped.Pagination.Limit)
	s.Equal(1, capped.Pagination.TotalPages)

	empty := searchRestaurants(nil, CatalogQuery{})
	s.Equal(0, empty.Pagination.TotalPages)
	s.Empty(empty.Restaurants)
}

func (s *CatalogServiceTestSuite) TestPagesPastEnd() {
	restaurants := []domain.Restaurant{{ID: "r1"}, {ID: "r2"}, {ID: "r3"}}

	cases := []struct {
		name    string
		page    int
		limit   int
		wantIDs []string
	}{
		{name: "last partial page", page: 2, limit: 2, wantIDs: []string{"r3"}},
		{name: "right after the end", page: 3, limit: 2, wantIDs: []string{}},
		{name: "far past the end", page: 1000, limit: 20, wantIDs: []string{}},
		{name: "max int page", page: math.MaxInt, limit: 20, wantIDs: []string{}},
		{name: "max int page with max limit", page: math.MaxInt, limit: MaxPageLimit, wantIDs: []string{}},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			var page *CatalogPage
			s.Require().NotPanics(func() {
				page = searchRestaurants(restaurants, CatalogQuery{Page: t.page, Limit: t.limit})
			})
			s.Equal(t.wantIDs, ids(page.Restaurants))
			s.Equal(3, page.Pagination.Total)
			s.Equal(t.page, page.Pagination.Page)
		})
	}
}

func (s *CatalogServiceTestSuite) TestRadiusUsesRawDistance() {
	// точки на меридиане: расстояние по haversine равно дуге по широте.
	latAtKm := func(km float64) float64 { return km / earthRadiusKm * 180 / math.Pi }
	restaurants := []domain.Restaurant{
		{ID: "inside", Location: domain.Location{Latitude: latAtKm(4.996)}},
		{ID: "outside", Location: domain.Location{Latitude: latAtKm(5.004)}},
	}
	lat, lng := 0.0, 0.0

	page := searchRestaurants(restaurants, CatalogQuery{Latitude: &lat, Longitude: &lng, RadiusKm: 5})
	s.Equal([]string{"inside"}, ids(page.Restaurants))
	s.Require().NotNil(page.Restaurants[0].DistanceKm)
	s.Equal(5.0, *page.Restaurants[0].DistanceKm)
}

func (s *CatalogServiceTestSuite) TestDistanceIsAttached() {
	lat, lng := 40.7128, -74.0060
	page := searchRestaurants(s.catalog, CatalogQuery{Latitude: &lat, Longitude: &lng})
	for _, listing := range page.Restaurants {
		s.Require().NotNil(listing.DistanceKm)
	}
	s.InDelta(0, *page.Restaurants[1].DistanceKm, 0.01) // r1 в самой точке.

	noPoint := searchRestaurants(s.catalog, CatalogQuery{})
	s.Nil(noPoint.Restaurants[0].DistanceKm)
}

func (s *CatalogServiceTestSuite) TestFavoritesAnnotation() {
	ctx := s.T().Context()
	s.Require().NoError(s.catalogServ.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, err := uow.GetAs[*docrepo.FavoriteRepository](tx, uow.RepositoryName(repoargs.FavoriteRepoName))
		if err != nil {
			return err
		}
		_, addErr := repo.Add(c, s.userID, "r3")
		return addErr
	}))

	anonymous, err := s.catalogServ.Search(ctx, "", CatalogQuery{})
	s.Require().NoError(err)
	for _, listing := range anonymous.Restaurants {
		s.False(listing.IsFavorite)
	}

	authorized, err := s.catalogServ.Search(ctx, s.userID, CatalogQuery{})
	s.Require().NoError(err)
	s.Equal(ids(anonymous.Restaurants), ids(authorized.Restaurants))
	for _, listing := range authorized.Restaurants {
		s.Equal(listing.ID == "r3", listing.IsFavorite)
	}

	restaurant, err := s.catalogServ.GetRestaurant(ctx, s.userID, "r3")
	s.Require().NoError(err)
	s.True(restaurant.IsFavorite)
}

func (s *CatalogServiceTestSuite) TestAddReview() {
	ctx := s.T().Context()
	review, err := s.catalogServ.AddReview(ctx, s.userID, "r1", AddReviewArgs{Rating: 1, Comment: " cold "})
	s.Require().NoError(err)
	s.Equal("John", review.UserName)
	s.Equal("cold", review.Comment)

	restaurant, err := s.catalogServ.GetRestaurant(ctx, s.userID, "r1")
	s.Require().NoError(err)
	// r1 загружен с ReviewCount=0, поэтому новый рейтинг равен оценке.
	s.Equal(1, restaurant.ReviewCount)
	s.InDelta(1.0, restaurant.Rating, 0.001)

	reviews, err := s.catalogServ.GetReviews(ctx, "r1")
	s.Require().NoError(err)
	s.Len(reviews, 1)

	_, missingErr := s.catalogServ.AddReview(ctx, s.userID, "missing", AddReviewArgs{Rating: 5})
	s.ErrorIs(missingErr, domain.ErrRecordNotFound)
}

func (s *CatalogServiceTestSuite) TestAddRating() {
	rating, count := addRating(4.5, 3, 1)
	s.Equal(4, count)
	s.InDelta(3.6, rating, 0.001)

	first, firstCount := addRating(0, 0, 5)
	s.Equal(1, firstCount)
	s.InDelta(5.0, first, 0.001)
}

func (s *CatalogServiceTestSuite) TestMenuAndDish() {
	ctx := s.T().Context()

	emptyMenu, err := s.catalogServ.GetMenu(ctx, "r1")
	s.Require().NoError(err)
	s.Empty(emptyMenu.Categories)

	_, missingErr := s.catalogServ.GetMenu(ctx, "missing")
	s.ErrorIs(missingErr, domain.ErrRecordNotFound)

	_, dishErr := s.catalogServ.GetDish(ctx, "r1", "d1")
	s.ErrorIs(dishErr, domain.ErrRecordNotFound)
}
