package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var errTipNegative = errors.New("tip must not be negative")

type OrdersHandler struct {
	orderSvs OrderServicer
}

func NewOrdersHandler(orderSvs OrderServicer) *OrdersHandler {
	return &OrdersHandler{
		orderSvs: orderSvs,
	}
}

type OrderItemParams struct {
	MenuItemID          string `binding:"required"                 json:"menuItemId"`
	Quantity            int    `binding:"required,min=1,max=99"    json:"quantity"`
	SpecialInstructions string `binding:"omitempty,max_bytes=500"  json:"specialInstructions"`
}

type CreateOrderParams struct {
	RestaurantID         string            `binding:"required"                         json:"restaurantId"`
	Items                []OrderItemParams `binding:"required,min=1,max=50,dive"       json:"items"`
	AddressID            string            `binding:"omitempty"                        json:"addressId"`
	DeliveryAddress      *AddressParams    `binding:"omitempty"                        json:"deliveryAddress"`
	DeliveryInstructions string            `binding:"omitempty,max_bytes=500"          json:"deliveryInstructions"`
	PaymentMethod        string            `binding:"omitempty,payment_method"         json:"paymentMethod"`
	Tip                  decimal.Decimal   `json:"tip"`
	PromoCode            string            `binding:"omitempty,max=32"                 json:"promoCode"`
}

func (p CreateOrderParams) toArgs() service.CreateOrderArgs {
	items := make([]service.CreateOrderItemArgs, len(p.Items))
	for i, item := range p.Items {
		items[i] = service.CreateOrderItemArgs{
			MenuItemID:          item.MenuItemID,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		}
	}
	args := service.CreateOrderArgs{
		RestaurantID:         p.RestaurantID,
		Items:                items,
		AddressID:            p.AddressID,
		DeliveryInstructions: p.DeliveryInstructions,
		PaymentMethod:        domain.PaymentMethodType(p.PaymentMethod),
		Tip:                  p.Tip,
		PromoCode:            p.PromoCode,
	}
	if p.DeliveryAddress != nil {
		address := p.DeliveryAddress.toArgs()
		args.DeliveryAddress = &address
	}
	return args
}

// Create POST RouteGroup + OrdersRoute.
func (o *OrdersHandler) Create(c *gin.Context) {
	var params CreateOrderParams
	if !bindJSON(c, &params) {
		return
	}
	if params.Tip.IsNegative() {
		_ = c.AbortWithError(http.StatusBadRequest, errTipNegative).SetType(gin.ErrorTypePublic)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, createErr := o.orderSvs.Create(reqCtx, getUserIDFromContext(c), params.toArgs())
	if createErr != nil {
		abortWithServiceError(c, createErr)
		return
	}

	respond(c, http.StatusCreated, order)
}

type OrdersQueryParams struct {
	Status string `binding:"omitempty,order_status" form:"status"`
}

// Index GET RouteGroup + OrdersRoute. Заказы текущего юзера, новые первыми.
func (o *OrdersHandler) Index(c *gin.Context) {
	var params OrdersQueryParams
	if !bindQuery(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	orders, err := o.orderSvs.GetByUserID(reqCtx, getUserIDFromContext(c), domain.OrderStatusType(params.Status))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	respond(c, http.StatusOK, orders)
}

// Show GET RouteGroup + OrderRoute. Чужой заказ отдается как несуществующий.
func (o *OrdersHandler) Show(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.GetForUser(reqCtx, getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

type CancelOrderParams struct {
	Reason string `binding:"omitempty,max_bytes=500" json:"reason"`
}

// Cancel POST RouteGroup + CancelOrderRoute. Тело запроса необязательно.
func (o *OrdersHandler) Cancel(c *gin.Context) {
	var params CancelOrderParams
	if !bindOptionalJSON(c, &params) {
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	order, err := o.orderSvs.Cancel(reqCtx, getUserIDFromContext(c), c.Param("id"), params.Reason)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, order)
}

// Track GET RouteGroup + TrackOrderRoute.
func (o *OrdersHandler) Track(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	info, err := o.orderSvs.Track(reqCtx, getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, info)
}
