package service

import (
	"fmt"
	"strings"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/shopspring/decimal"
)

// ServiceFee фиксированный сервисный сбор с каждого заказа.
var ServiceFee = decimal.RequireFromString("0.99")

const (
	PromoWelcome10    = "WELCOME10"
	PromoFreeDelivery = "FREEDELIVERY"
)

var welcomeRate = decimal.RequireFromString("0.10")

// Totals денежные поля заказа.
type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	ServiceFee  decimal.Decimal
	Tip         decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

func lineTotal(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// CalculateTotals считает итог заказа. Скидка не может превышать subtotal, итог всегда равен
// subtotal + deliveryFee + serviceFee + tip - discount.
func CalculateTotals(items []domain.OrderItem, deliveryFee, tip, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Total)
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}
	return Totals{
		Subtotal:    subtotal,
		DeliveryFee: deliveryFee,
		ServiceFee:  ServiceFee,
		Tip:         tip,
		Discount:    discount,
		Total:       subtotal.Add(deliveryFee).Add(ServiceFee).Add(tip).Sub(discount),
	}
}

// promoDiscount скидка по промокоду. Пустой код дает нулевую скидку, неизвестный - domain.ErrInvalidPromoCode.
func promoDiscount(code string, subtotal, deliveryFee decimal.Decimal) (decimal.Decimal, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "":
		return decimal.Zero, nil
	case PromoWelcome10:
		return subtotal.Mul(welcomeRate).Round(2), nil
	case PromoFreeDelivery:
		return deliveryFee, nil
	default:
		return decimal.Zero, fmt.Errorf("promo code `%s`: %w", code, domain.ErrInvalidPromoCode)
	}
}
