package domain

type OrderStatusType string

const (
	OrderStatusPending    OrderStatusType = "pending"
	OrderStatusConfirmed  OrderStatusType = "confirmed"
	OrderStatusPreparing  OrderStatusType = "preparing"
	OrderStatusReady      OrderStatusType = "ready"
	OrderStatusPickedUp   OrderStatusType = "picked_up"
	OrderStatusDelivering OrderStatusType = "delivering"
	OrderStatusDelivered  OrderStatusType = "delivered"
	OrderStatusCancelled  OrderStatusType = "cancelled"
)

// OrderLifecycle канонический порядок статусов заказа. cancelled в него не входит.
var OrderLifecycle = []OrderStatusType{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusPickedUp,
	OrderStatusDelivering,
	OrderStatusDelivered,
}

// Next возвращает следующий статус жизненного цикла. Для delivered, cancelled и неизвестных значений
// второе значение false.
func (s OrderStatusType) Next() (OrderStatusType, bool) {
	for i, status := range OrderLifecycle {
		if status == s && i+1 < len(OrderLifecycle) {
			return OrderLifecycle[i+1], true
		}
	}
	return "", false
}

// IsCancellable заказ можно отменить только до начала готовки.
func (s OrderStatusType) IsCancellable() bool {
	return s == OrderStatusPending || s == OrderStatusConfirmed
}

// IsTracked в этих статусах курьер в пути и ответу добавляется его положение.
func (s OrderStatusType) IsTracked() bool {
	return s == OrderStatusPickedUp || s == OrderStatusDelivering
}

func (s OrderStatusType) IsValid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	for _, status := range OrderLifecycle {
		if status == s {
			return true
		}
	}
	return false
}

type PaymentMethodType string

const (
	PaymentMethodCard      PaymentMethodType = "card"
	PaymentMethodCash      PaymentMethodType = "cash"
	PaymentMethodApplePay  PaymentMethodType = "apple_pay"
	PaymentMethodGooglePay PaymentMethodType = "google_pay"
)

type PlatformType string

const (
	PlatformIOS     PlatformType = "ios"
	PlatformAndroid PlatformType = "android"
	PlatformWeb     PlatformType = "web"
)

const NotificationTypeOrderStatus = "order_status"
