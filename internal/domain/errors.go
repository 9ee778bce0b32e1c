package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	ErrOrderNotCancellable = errors.New("order can not be cancelled")
	ErrOrderCancelled      = errors.New("order is cancelled")
	ErrIllegalTransition   = errors.New("illegal order status transition")
	ErrRestaurantClosed    = errors.New("restaurant is closed")
	ErrInvalidOrderItem    = errors.New("invalid order item")
	ErrBelowMinimumOrder   = errors.New("order is below restaurant minimum")
	ErrAddressRequired     = errors.New("delivery address required")
	ErrInvalidPromoCode    = errors.New("invalid promo code")

	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrFileTooLarge     = errors.New("file too large")
)

// IllegalTransitionError описывает попытку перевести заказ в статус, который не следует за текущим.
type IllegalTransitionError struct {
	OrderID string
	From    OrderStatusType
	To      OrderStatusType
}

func NewIllegalTransitionError(orderID string, from, to OrderStatusType) error {
	return &IllegalTransitionError{OrderID: orderID, From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("order %s: transition %s -> %s is not allowed", e.OrderID, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}
