package service

import (
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-eats/internal/domain"
)

const (
	driverSpeedKmh     = 25.0
	minArrivalDuration = 2 * time.Minute
)

type DriverInfo struct {
	Name     string          `json:"name"`
	Phone    string          `json:"phone"`
	Vehicle  string          `json:"vehicle"`
	Rating   float64         `json:"rating"`
	Location domain.Location `json:"location"`
}

// OrderView заказ в ответе клиенту. Пока курьер в пути, дополняется его положением и расчетным временем прибытия.
// Эти поля вычисляются при каждом чтении и не сохраняются.
type OrderView struct {
	domain.Order
	Driver           *DriverInfo `json:"driver,omitempty"`
	EstimatedArrival *time.Time  `json:"estimatedArrival,omitempty"`
}

type TrackingInfo struct {
	OrderID               string                 `json:"orderId"`
	OrderNumber           string                 `json:"orderNumber"`
	Status                domain.OrderStatusType `json:"status"`
	Timeline              []domain.TimelineEntry `json:"timeline"`
	EstimatedDeliveryTime time.Time              `json:"estimatedDeliveryTime"`
	RestaurantLocation    domain.Location        `json:"restaurantLocation"`
	DeliveryAddress       domain.Address         `json:"deliveryAddress"`
	Driver                *DriverInfo            `json:"driver,omitempty"`
	EstimatedArrival      *time.Time             `json:"estimatedArrival,omitempty"`
}

func newOrderView(order domain.Order, now time.Time) *OrderView {
	view := OrderView{Order: order}
	if order.Status.IsTracked() {
		driver, arrival := simulateDriver(order, now)
		view.Driver = driver
		view.EstimatedArrival = &arrival
	}
	return &view
}

func newTrackingInfo(order domain.Order, now time.Time) *TrackingInfo {
	view := newOrderView(order, now)
	return &TrackingInfo{
		OrderID:               order.ID,
		OrderNumber:           order.OrderNumber,
		Status:                order.Status,
		Timeline:              order.Timeline,
		EstimatedDeliveryTime: order.EstimatedDeliveryTime,
		RestaurantLocation:    order.RestaurantLocation,
		DeliveryAddress:       order.DeliveryAddress,
		Driver:                view.Driver,
		EstimatedArrival:      view.EstimatedArrival,
	}
}

// simulateDriver генерирует курьера рядом с адресом доставки. Имя и телефон постоянны для заказа,
// положение случайно при каждом вызове.
func simulateDriver(order domain.Order, now time.Time) (*DriverInfo, time.Time) {
	faker := gofakeit.New(orderSeed(order.ID))

	targetLat, targetLng := order.DeliveryAddress.Latitude, order.DeliveryAddress.Longitude
	if targetLat == 0 && targetLng == 0 {
		targetLat, targetLng = order.RestaurantLocation.Latitude, order.RestaurantLocation.Longitude
	}

	// Забравший заказ курьер еще у ресторана, дальше от клиента.
	spread := 0.008
	if order.Status == domain.OrderStatusPickedUp {
		spread = 0.02
	}
	lat := targetLat + (rand.Float64()*2-1)*spread //nolint:gosec
	lng := targetLng + (rand.Float64()*2-1)*spread //nolint:gosec

	distance := haversineKm(lat, lng, targetLat, targetLng)
	minutes := jitter(distance/driverSpeedKmh*60, 0.1, 0.25)
	eta := time.Duration(minutes * float64(time.Minute))
	if eta < minArrivalDuration {
		eta = minArrivalDuration
	}

	return &DriverInfo{
		Name:    faker.Name(),
		Phone:   faker.Phone(),
		Vehicle: faker.CarMaker() + " " + faker.CarModel(),
		Rating:  roundTo(faker.Float64Range(4.5, 5.0), 1),
		Location: domain.Location{
			Latitude:  lat,
			Longitude: lng,
		},
	}, now.Add(eta)
}

func orderSeed(orderID string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(orderID))
	return h.Sum64()
}

// jitter случайно сдвигает value в диапазоне [value*(1-below), value*(1+above)].
func jitter(value, below, above float64) float64 {
	return value * (1 - below + rand.Float64()*(below+above)) //nolint:gosec
}
