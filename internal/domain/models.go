package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Денежные поля хранятся и отдаются клиенту числами, а не строками.
	decimal.MarshalJSONWithoutQuotes = true
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Avatar    string    `json:"avatar"`
	Addresses []Address `json:"addresses"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultAddress возвращает адрес по умолчанию или nil.
func (u *User) DefaultAddress() *Address {
	for i := range u.Addresses {
		if u.Addresses[i].IsDefault {
			return &u.Addresses[i]
		}
	}
	return nil
}

type Address struct {
	ID           string  `json:"id"`
	Label        string  `json:"label"`
	Street       string  `json:"street"`
	Apartment    string  `json:"apartment"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	ZipCode      string  `json:"zipCode"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Instructions string  `json:"instructions"`
	IsDefault    bool    `json:"isDefault"`
}

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address"`
}

type DeliveryTime struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

type Restaurant struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	CoverImage   string          `json:"coverImage"`
	Cuisine      string          `json:"cuisine"`
	Categories   []string        `json:"categories"`
	Tags         []string        `json:"tags"`
	Rating       float64         `json:"rating"`
	ReviewCount  int             `json:"reviewCount"`
	PriceRange   string          `json:"priceRange"`
	DeliveryTime DeliveryTime    `json:"deliveryTime"`
	DeliveryFee  decimal.Decimal `json:"deliveryFee"`
	MinimumOrder decimal.Decimal `json:"minimumOrder"`
	Location     Location        `json:"location"`
	IsOpen       bool            `json:"isOpen"`
	Popularity   int             `json:"popularity"`
}

type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	IsAvailable bool            `json:"isAvailable"`
	IsPopular   bool            `json:"isPopular"`
	Calories    int             `json:"calories"`
}

type MenuCategory struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Items []MenuItem `json:"items"`
}

// Menu меню одного ресторана. Каждое блюдо принадлежит ровно одной категории.
type Menu struct {
	RestaurantID string         `json:"restaurantId"`
	Categories   []MenuCategory `json:"categories"`
}

// FindItem ищет блюдо по id во всех категориях меню.
func (m *Menu) FindItem(itemID string) (*MenuItem, *MenuCategory) {
	for ci := range m.Categories {
		for ii := range m.Categories[ci].Items {
			if m.Categories[ci].Items[ii].ID == itemID {
				return &m.Categories[ci].Items[ii], &m.Categories[ci]
			}
		}
	}
	return nil, nil
}

type Review struct {
	ID           string    `json:"id"`
	RestaurantID string    `json:"restaurantId"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	Rating       int       `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
}

type OrderItem struct {
	MenuItem            MenuItem        `json:"menuItem"`
	Quantity            int             `json:"quantity"`
	SpecialInstructions string          `json:"specialInstructions"`
	Total               decimal.Decimal `json:"total"`
}

type TimelineEntry struct {
	Status    OrderStatusType `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Message   string          `json:"message"`
}

type Order struct {
	ID                    string            `json:"id"`
	OrderNumber           string            `json:"orderNumber"`
	UserID                string            `json:"userId"`
	RestaurantID          string            `json:"restaurantId"`
	RestaurantName        string            `json:"restaurantName"`
	RestaurantImage       string            `json:"restaurantImage"`
	RestaurantLocation    Location          `json:"restaurantLocation"`
	Items                 []OrderItem       `json:"items"`
	Status                OrderStatusType   `json:"status"`
	Subtotal              decimal.Decimal   `json:"subtotal"`
	DeliveryFee           decimal.Decimal   `json:"deliveryFee"`
	ServiceFee            decimal.Decimal   `json:"serviceFee"`
	Tip                   decimal.Decimal   `json:"tip"`
	Discount              decimal.Decimal   `json:"discount"`
	Total                 decimal.Decimal   `json:"total"`
	PromoCode             string            `json:"promoCode"`
	PaymentMethod         PaymentMethodType `json:"paymentMethod"`
	DeliveryAddress       Address           `json:"deliveryAddress"`
	DeliveryInstructions  string            `json:"deliveryInstructions"`
	Timeline              []TimelineEntry   `json:"timeline"`
	EstimatedDeliveryTime time.Time         `json:"estimatedDeliveryTime"`
	CancelReason          string            `json:"cancelReason"`
	CreatedAt             time.Time         `json:"createdAt"`
	UpdatedAt             time.Time         `json:"updatedAt"`
}

// Clone возвращает копию заказа, не разделяющую срезы с оригиналом.
func (o Order) Clone() Order {
	o.Items = append([]OrderItem(nil), o.Items...)
	o.Timeline = append([]TimelineEntry(nil), o.Timeline...)
	return o
}

// ApplyStatus переводит заказ в статус status и добавляет запись в таймлайн.
func (o *Order) ApplyStatus(status OrderStatusType, message string, at time.Time) TimelineEntry {
	entry := TimelineEntry{Status: status, Timestamp: at, Message: message}
	o.Status = status
	o.Timeline = append(o.Timeline, entry)
	o.UpdatedAt = at
	return entry
}

// LastTimelineEntry последняя запись таймлайна. Заказ всегда создается с одной записью.
func (o *Order) LastTimelineEntry() TimelineEntry {
	if len(o.Timeline) == 0 {
		return TimelineEntry{Status: o.Status, Timestamp: o.UpdatedAt}
	}
	return o.Timeline[len(o.Timeline)-1]
}

type Notification struct {
	ID        string            `json:"id"`
	UserID    string            `json:"userId"`
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data"`
	Read      bool              `json:"read"`
	CreatedAt time.Time         `json:"createdAt"`
}

type PushToken struct {
	Token     string       `json:"token"`
	UserID    string       `json:"userId"`
	Platform  PlatformType `json:"platform"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}
