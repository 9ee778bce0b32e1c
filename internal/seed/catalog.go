// Package seed генерирует демонстрационный каталог ресторанов и меню.
package seed

import (
	"fmt"
	"math"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultRestaurants = 24
	// DefaultLatitude, DefaultLongitude центр города, вокруг которого расставляются рестораны.
	DefaultLatitude  = 40.7128
	DefaultLongitude = -74.0060
	defaultSpreadKm  = 8.0
	kmPerDegree      = 111.0
)

type cuisine struct {
	name       string
	categories []string
	tags       []string
}

var cuisines = []cuisine{
	{name: "Italian", categories: []string{"pizza", "pasta"}, tags: []string{"family", "cheesy"}},
	{name: "Japanese", categories: []string{"sushi", "asian"}, tags: []string{"fresh", "healthy"}},
	{name: "Mexican", categories: []string{"tacos", "burritos"}, tags: []string{"spicy"}},
	{name: "American", categories: []string{"burgers", "fast-food"}, tags: []string{"comfort"}},
	{name: "Indian", categories: []string{"curry", "asian"}, tags: []string{"spicy", "vegetarian"}},
	{name: "Thai", categories: []string{"noodles", "asian"}, tags: []string{"spicy"}},
	{name: "French", categories: []string{"bakery", "desserts"}, tags: []string{"sweet"}},
	{name: "Mediterranean", categories: []string{"salads", "healthy"}, tags: []string{"vegan", "fresh"}},
}

var priceRanges = []string{"$", "$$", "$$$", "$$$$"}

type Args struct {
	Restaurants int
	Seed        uint64
	Latitude    float64
	Longitude   float64
	SpreadKm    float64
}

func (a Args) withDefaults() Args {
	if a.Restaurants <= 0 {
		a.Restaurants = DefaultRestaurants
	}
	if a.Latitude == 0 && a.Longitude == 0 {
		a.Latitude, a.Longitude = DefaultLatitude, DefaultLongitude
	}
	if a.SpreadKm <= 0 {
		a.SpreadKm = defaultSpreadKm
	}
	return a
}

// Generate детерминированно (для одного Seed) строит рестораны и меню к ним.
func Generate(args Args) ([]domain.Restaurant, map[string]domain.Menu) {
	args = args.withDefaults()
	f := gofakeit.New(args.Seed)

	restaurants := make([]domain.Restaurant, 0, args.Restaurants)
	menus := make(map[string]domain.Menu, args.Restaurants)

	for i := range args.Restaurants {
		c := cuisines[i%len(cuisines)]
		restaurant := generateRestaurant(f, c, args)
		restaurants = append(restaurants, restaurant)
		menus[restaurant.ID] = generateMenu(f, restaurant.ID, c)
	}
	return restaurants, menus
}

func generateRestaurant(f *gofakeit.Faker, c cuisine, args Args) domain.Restaurant {
	spreadLat := args.SpreadKm / kmPerDegree
	spreadLng := spreadLat / math.Cos(args.Latitude*math.Pi/180)

	minDelivery := f.IntRange(15, 35)
	name := fmt.Sprintf("%s %s", f.LastName(), c.name)

	return domain.Restaurant{
		ID:          f.UUID(),
		Name:        name,
		Description: f.Sentence(12),
		Image:       imageURL(f, "restaurant"),
		CoverImage:  imageURL(f, "cover"),
		Cuisine:     c.name,
		Categories:  append([]string(nil), c.categories...),
		Tags:        append([]string(nil), c.tags...),
		Rating:      math.Round(f.Float64Range(3.2, 5)*10) / 10,
		ReviewCount: f.IntRange(5, 900),
		PriceRange:  f.RandomString(priceRanges),
		DeliveryTime: domain.DeliveryTime{
			Min: minDelivery,
			Max: minDelivery + f.IntRange(10, 20),
		},
		DeliveryFee:  money(f.Float64Range(0, 5.99)),
		MinimumOrder: decimal.NewFromInt(int64(f.IntRange(0, 4) * 5)),
		Location: domain.Location{
			Latitude:  args.Latitude + f.Float64Range(-spreadLat, spreadLat),
			Longitude: args.Longitude + f.Float64Range(-spreadLng, spreadLng),
			Address:   fmt.Sprintf("%s, %s", f.Street(), f.City()),
		},
		// примерно каждый восьмой ресторан закрыт.
		IsOpen:     f.IntRange(0, 7) != 0,
		Popularity: f.IntRange(0, 1000),
	}
}

func generateMenu(f *gofakeit.Faker, restaurantID string, c cuisine) domain.Menu {
	sections := []struct {
		name     string
		dish     func() string
		min, max float64
	}{
		{name: "Starters", dish: f.Lunch, min: 4, max: 12},
		{name: "Mains", dish: f.Dinner, min: 9, max: 32},
		{name: "Desserts", dish: f.Dessert, min: 3, max: 11},
		{name: "Drinks", dish: f.Drink, min: 1.5, max: 7},
	}

	menu := domain.Menu{RestaurantID: restaurantID}
	for _, section := range sections {
		category := domain.MenuCategory{
			ID:   f.UUID(),
			Name: section.name,
		}
		seen := make(map[string]struct{})
		for range f.IntRange(3, 6) {
			name := titleCase(section.dish())
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			category.Items = append(category.Items, domain.MenuItem{
				ID:          f.UUID(),
				Name:        name,
				Description: fmt.Sprintf("%s. %s", c.name, f.Sentence(8)),
				Price:       money(f.Float64Range(section.min, section.max)),
				Image:       imageURL(f, "dish"),
				IsAvailable: f.IntRange(0, 9) != 0,
				IsPopular:   f.IntRange(0, 4) == 0,
				Calories:    f.IntRange(80, 1200),
			})
		}
		menu.Categories = append(menu.Categories, category)
	}
	return menu
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func imageURL(f *gofakeit.Faker, kind string) string {
	return fmt.Sprintf("https://picsum.photos/seed/%s-%d/640/480", kind, f.IntRange(1, 100000))
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
