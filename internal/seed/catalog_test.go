package seed

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type CatalogTestSuite struct {
	suite.Suite
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) TestDeterministic() {
	r1, m1 := Generate(Args{Restaurants: 5, Seed: 42})
	r2, m2 := Generate(Args{Restaurants: 5, Seed: 42})
	s.Equal(r1, r2)
	s.Equal(m1, m2)

	r3, _ := Generate(Args{Restaurants: 5, Seed: 43})
	s.NotEqual(r1[0].ID, r3[0].ID)
}

func (s *CatalogTestSuite) TestCatalogShape() {
	restaurants, menus := Generate(Args{Seed: 7})
	s.Len(restaurants, DefaultRestaurants)
	s.Len(menus, DefaultRestaurants)

	itemIDs := make(map[string]struct{})
	for _, r := range restaurants {
		s.NotEmpty(r.Name)
		s.GreaterOrEqual(r.Rating, 3.2)
		s.LessOrEqual(r.Rating, 5.0)
		s.Less(r.DeliveryTime.Min, r.DeliveryTime.Max)
		s.False(r.DeliveryFee.IsNegative())
		s.Contains(priceRanges, r.PriceRange)
		s.InDelta(DefaultLatitude, r.Location.Latitude, 0.1)

		menu, ok := menus[r.ID]
		s.Require().True(ok, "menu for %s", r.ID)
		s.Equal(r.ID, menu.RestaurantID)
		s.Len(menu.Categories, 4)
		for _, category := range menu.Categories {
			s.NotEmpty(category.Items)
			for _, item := range category.Items {
				s.True(item.Price.IsPositive())
				s.True(item.Price.Equal(item.Price.Round(2)))
				_, dup := itemIDs[item.ID]
				s.False(dup, "duplicate item id %s", item.ID)
				itemIDs[item.ID] = struct{}{}
			}
		}
	}
}
