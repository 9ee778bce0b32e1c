package jsonstore

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

const restaurantsDoc = `[
  {
    "id": "r1",
    "name": "Napoli",
    "description": "Wood fired pizza",
    "image": "https://img.example.com/r1.jpg",
    "coverImage": "https://img.example.com/r1-cover.jpg",
    "cuisine": "Italian",
    "categories": ["pizza", "italian"],
    "tags": ["wood-fired"],
    "rating": 4.7,
    "reviewCount": 120,
    "priceRange": "$$",
    "deliveryTime": {"min": 20, "max": 35},
    "deliveryFee": 2.50,
    "minimumOrder": 10,
    "location": {"latitude": 40.7128, "longitude": -74.006, "address": "1 Main St"},
    "isOpen": true,
    "popularity": 87
  },
  {
    "id": "r2",
    "name": "Corner Deli",
    "description": "",
    "image": "",
    "coverImage": "",
    "cuisine": "American",
    "categories": [],
    "tags": [],
    "rating": 0,
    "reviewCount": 0,
    "priceRange": "$",
    "deliveryTime": {"min": 0, "max": 0},
    "deliveryFee": 0,
    "minimumOrder": 0,
    "location": {"latitude": 0, "longitude": 0, "address": ""},
    "isOpen": false,
    "popularity": 0
  }
]`

const menusDoc = `{
  "r1": {
    "restaurantId": "r1",
    "categories": [
      {
        "id": "c1",
        "name": "Pizza",
        "items": [
          {"id": "m1", "name": "Margherita", "description": "Classic", "price": 9.5, "image": "",
           "isAvailable": true, "isPopular": true, "calories": 0},
          {"id": "m2", "name": "Diavola", "description": "", "price": 11, "image": "https://img.example.com/m2.jpg",
           "isAvailable": false, "isPopular": false, "calories": 840}
        ]
      },
      {"id": "c2", "name": "Drinks", "items": []}
    ]
  }
}`

const usersDoc = `[
  {
    "id": "u1",
    "email": "jane@example.com",
    "password": "$2a$10$hash",
    "name": "Jane",
    "phone": "",
    "avatar": "",
    "addresses": [
      {
        "id": "a1", "label": "Home", "street": "1 Main St", "apartment": "", "city": "New York",
        "state": "", "zipCode": "", "latitude": 40.7, "longitude": -74, "instructions": "", "isDefault": true
      }
    ],
    "createdAt": "2025-01-02T10:00:00Z",
    "updatedAt": "2025-01-02T10:00:00Z"
  },
  {
    "id": "u2", "email": "john@example.com", "password": "", "name": "John", "phone": "+1", "avatar": "",
    "addresses": [], "createdAt": "2025-01-02T10:00:00Z", "updatedAt": "2025-01-03T10:00:00Z"
  }
]`

const ordersDoc = `[
  {
    "id": "o1",
    "orderNumber": "ORD-O1",
    "userId": "u1",
    "restaurantId": "r1",
    "restaurantName": "Napoli",
    "restaurantImage": "",
    "restaurantLocation": {"latitude": 40.7128, "longitude": -74.006, "address": "1 Main St"},
    "items": [
      {
        "menuItem": {"id": "m1", "name": "Margherita", "description": "Classic", "price": 9.5, "image": "",
                     "isAvailable": true, "isPopular": true, "calories": 0},
        "quantity": 2,
        "specialInstructions": "",
        "total": 19
      }
    ],
    "status": "cancelled",
    "subtotal": 19,
    "deliveryFee": 2.5,
    "serviceFee": 0.99,
    "tip": 0,
    "discount": 0,
    "total": 22.49,
    "promoCode": "",
    "paymentMethod": "card",
    "deliveryAddress": {
      "id": "a1", "label": "Home", "street": "1 Main St", "apartment": "", "city": "New York",
      "state": "", "zipCode": "", "latitude": 40.7, "longitude": -74, "instructions": "", "isDefault": true
    },
    "deliveryInstructions": "",
    "timeline": [
      {"status": "pending", "timestamp": "2025-01-02T10:00:00Z", "message": "Order placed successfully"},
      {"status": "cancelled", "timestamp": "2025-01-02T10:00:05.5Z", "message": "Order cancelled"}
    ],
    "estimatedDeliveryTime": "2025-01-02T10:45:00Z",
    "cancelReason": "",
    "createdAt": "2025-01-02T10:00:00Z",
    "updatedAt": "2025-01-02T10:00:05.5Z"
  }
]`

const notificationsDoc = `[
  {"id": "n1", "userId": "u1", "type": "order_status", "title": "Order update", "body": "",
   "data": {}, "read": false, "createdAt": "2025-01-02T10:00:00Z"}
]`

type StoreTestSuite struct {
	suite.Suite
	backend *MemoryBackend
	store   *Store
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupTest() {
	l := logrus.New()
	l.SetOutput(io.Discard)

	s.backend = NewMemoryBackend()
	s.store = New(s.backend, l)
}

func emptyRestaurants() []domain.Restaurant { return []domain.Restaurant{} }

func emptyMenus() map[string]domain.Menu { return map[string]domain.Menu{} }

func (s *StoreTestSuite) TestLoadDefaults() {
	ctx := context.Background()

	cases := []struct {
		name string
		doc  *string
	}{
		{name: "missing document"},
		{name: "malformed document", doc: ptr(`[{"id": "r1",`)},
		{name: "null document", doc: ptr(`null`)},
		{name: "wrong shape", doc: ptr(`{"id": "r1"}`)},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.backend = NewMemoryBackend()
			s.store.backend = s.backend
			if t.doc != nil {
				s.Require().NoError(s.backend.Write(ctx, "restaurants", []byte(*t.doc)))
			}

			restaurants := Load(ctx, s.store, "restaurants", emptyRestaurants)
			s.NotNil(restaurants)
			s.Empty(restaurants)

			menus := Load(ctx, s.store, "menus", emptyMenus)
			s.NotNil(menus)
			s.Empty(menus)
		})
	}
}

func (s *StoreTestSuite) TestLoadParsesDocument() {
	ctx := context.Background()
	s.Require().NoError(s.backend.Write(ctx, "restaurants", []byte(restaurantsDoc)))

	restaurants := Load(ctx, s.store, "restaurants", emptyRestaurants)
	s.Require().Len(restaurants, 2)
	s.Equal("Napoli", restaurants[0].Name)
	s.True(decimal.RequireFromString("2.5").Equal(restaurants[0].DeliveryFee))
	s.Equal(35, restaurants[0].DeliveryTime.Max)
}

func roundTrip[T any](ctx context.Context, store *Store, name string, empty func() T) error {
	return Save(ctx, store, name, Load(ctx, store, name, empty))
}

// TestRoundTripIsFixedPoint сохранение сразу после загрузки воспроизводит эквивалентный документ.
func (s *StoreTestSuite) TestRoundTripIsFixedPoint() {
	ctx := context.Background()

	cases := []struct {
		name string
		doc  string
		run  func() error
	}{
		{
			name: "restaurants",
			doc:  restaurantsDoc,
			run:  func() error { return roundTrip(ctx, s.store, "restaurants", emptyRestaurants) },
		},
		{
			name: "menus",
			doc:  menusDoc,
			run:  func() error { return roundTrip(ctx, s.store, "menus", emptyMenus) },
		},
		{
			name: "users",
			doc:  usersDoc,
			run: func() error {
				return roundTrip(ctx, s.store, "users", func() []domain.User { return []domain.User{} })
			},
		},
		{
			name: "orders",
			doc:  ordersDoc,
			run: func() error {
				return roundTrip(ctx, s.store, "orders", func() []domain.Order { return []domain.Order{} })
			},
		},
		{
			name: "notifications",
			doc:  notificationsDoc,
			run: func() error {
				return roundTrip(ctx, s.store, "notifications", func() []domain.Notification {
					return []domain.Notification{}
				})
			},
		},
		{
			name: "favorites",
			doc:  `{"u1": ["r1", "r2"], "u2": []}`,
			run: func() error {
				return roundTrip(ctx, s.store, "favorites", func() map[string][]string { return map[string][]string{} })
			},
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.Require().NoError(s.backend.Write(ctx, t.name, []byte(t.doc)))
			s.Require().NoError(t.run())

			saved, err := s.backend.Read(ctx, t.name)
			s.Require().NoError(err)
			s.JSONEq(t.doc, string(saved))

			// повторный цикл не меняет байты.
			s.Require().NoError(t.run())
			again, _ := s.backend.Read(ctx, t.name)
			s.Equal(string(saved), string(again))
		})
	}
}

func (s *StoreTestSuite) TestSaveIsPrettyPrinted() {
	ctx := context.Background()

	s.Require().NoError(Save(ctx, s.store, "favorites", map[string][]string{"u1": {"r1"}}))

	data, err := s.backend.Read(ctx, "favorites")
	s.Require().NoError(err)
	s.Equal("{\n  \"u1\": [\n    \"r1\"\n  ]\n}\n", string(data))
	s.True(strings.HasSuffix(string(data), "\n"))
}

func ptr[T any](v T) *T {
	return &v
}
