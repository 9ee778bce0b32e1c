package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/pkg/uow"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultDeliveryMinutes = 45

var statusMessages = map[domain.OrderStatusType]string{
	domain.OrderStatusPending:    "Order placed successfully",
	domain.OrderStatusConfirmed:  "Restaurant confirmed your order",
	domain.OrderStatusPreparing:  "Your food is being prepared",
	domain.OrderStatusReady:      "Your order is ready for pickup",
	domain.OrderStatusPickedUp:   "Driver has picked up your order",
	domain.OrderStatusDelivering: "Your order is on the way",
	domain.OrderStatusDelivered:  "Your order has been delivered. Enjoy!",
	domain.OrderStatusCancelled:  "Order cancelled",
}

// StatusMessage текст записи таймлайна для статуса.
func StatusMessage(status domain.OrderStatusType) string {
	return statusMessages[status]
}

type OrderService struct {
	uow       uow.UOW
	orderRepo OrderRepository
	scheduler OrderScheduler
	notifier  StatusNotifier
	now       func() time.Time
}

func NewOrderService(u uow.UOW) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[OrderRepository](u, uow.RepositoryName(repoargs.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}, nil
}

// SetScheduler задает планировщик продвижения заказов. Без планировщика заказы остаются в pending.
func (o *OrderService) SetScheduler(scheduler OrderScheduler) *OrderService {
	o.scheduler = scheduler
	return o
}

func (o *OrderService) SetNotifier(notifier StatusNotifier) *OrderService {
	o.notifier = notifier
	return o
}

type CreateOrderItemArgs struct {
	MenuItemID          string
	Quantity            int
	SpecialInstructions string
}

type CreateOrderArgs struct {
	RestaurantID string
	Items        []CreateOrderItemArgs
	// AddressID адрес из профиля. Если не задан, используется DeliveryAddress, затем адрес по умолчанию.
	AddressID            string
	DeliveryAddress      *AddressArgs
	DeliveryInstructions string
	PaymentMethod        domain.PaymentMethodType
	Tip                  decimal.Decimal
	PromoCode            string
}

// Create оформляет заказ в статусе pending и ставит его на автоматическое продвижение.
//
// Алгоритм работы:
//  1. Проверяет ресторан (существует и открыт) и позиции меню (существуют и доступны).
//  2. Проверяет минимальную сумму заказа и определяет адрес доставки.
//  3. Считает стоимость с учетом промокода и сохраняет заказ.
//  4. После фиксации передает заказ планировщику и нотификаторам.
func (o *OrderService) Create(ctx context.Context, userID string, args CreateOrderArgs) (*domain.Order, error) {
	var order *domain.Order
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		draft, draftErr := o.draftOrder(c, tx, userID, args)
		if draftErr != nil {
			return draftErr
		}

		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		var createErr error
		order, createErr = orderRepo.CreateOrder(c, *draft)
		return createErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("creating order: %w", txErr)
	}

	if o.scheduler != nil {
		o.scheduler.Arm(order.ID, order.CreatedAt)
	}
	o.notify(ctx, *order)
	return order, nil
}

func (o *OrderService) draftOrder(
	ctx context.Context,
	tx uow.TX,
	userID string,
	args CreateOrderArgs,
) (*domain.Order, error) {
	restaurantRepo, restaurantRepoErr :=
		uow.GetAs[RestaurantRepository](tx, uow.RepositoryName(repoargs.RestaurantRepoName))
	if restaurantRepoErr != nil {
		return nil, restaurantRepoErr //nolint:wrapcheck
	}
	menuRepo, menuRepoErr := uow.GetAs[MenuRepository](tx, uow.RepositoryName(repoargs.MenuRepoName))
	if menuRepoErr != nil {
		return nil, menuRepoErr //nolint:wrapcheck
	}
	userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr //nolint:wrapcheck
	}

	restaurant, restaurantErr := restaurantRepo.FindByID(ctx, args.RestaurantID)
	if restaurantErr != nil {
		return nil, restaurantErr //nolint:wrapcheck
	}
	if !restaurant.IsOpen {
		return nil, fmt.Errorf("restaurant `%s`: %w", restaurant.ID, domain.ErrRestaurantClosed)
	}

	menu, menuErr := menuRepo.GetByRestaurantID(ctx, restaurant.ID)
	if menuErr != nil {
		if errors.Is(menuErr, domain.ErrRecordNotFound) {
			return nil, fmt.Errorf("restaurant `%s` has no menu: %w", restaurant.ID, domain.ErrInvalidOrderItem)
		}
		return nil, menuErr //nolint:wrapcheck
	}
	items, itemsErr := buildOrderItems(menu, args.Items)
	if itemsErr != nil {
		return nil, itemsErr
	}

	user, userErr := userRepo.FindUserByID(ctx, userID)
	if userErr != nil {
		return nil, userErr //nolint:wrapcheck
	}
	address, addressErr := resolveDeliveryAddress(user, args)
	if addressErr != nil {
		return nil, addressErr
	}

	totals := CalculateTotals(items, restaurant.DeliveryFee, decimal.Max(args.Tip, decimal.Zero), decimal.Zero)
	if totals.Subtotal.LessThan(restaurant.MinimumOrder) {
		return nil, fmt.Errorf("subtotal %s is below minimum %s: %w",
			totals.Subtotal.StringFixed(2), restaurant.MinimumOrder.StringFixed(2), domain.ErrBelowMinimumOrder)
	}
	discount, promoErr := promoDiscount(args.PromoCode, totals.Subtotal, restaurant.DeliveryFee)
	if promoErr != nil {
		return nil, promoErr
	}
	totals = CalculateTotals(items, totals.DeliveryFee, totals.Tip, discount)

	paymentMethod := args.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.PaymentMethodCard
	}
	deliveryMinutes := restaurant.DeliveryTime.Max
	if deliveryMinutes <= 0 {
		deliveryMinutes = defaultDeliveryMinutes
	}

	createdAt := o.now()
	id := uuid.NewString()
	order := domain.Order{
		ID:                    id,
		OrderNumber:           orderNumber(id),
		UserID:                userID,
		RestaurantID:          restaurant.ID,
		RestaurantName:        restaurant.Name,
		RestaurantImage:       restaurant.Image,
		RestaurantLocation:    restaurant.Location,
		Items:                 items,
		Subtotal:              totals.Subtotal,
		DeliveryFee:           totals.DeliveryFee,
		ServiceFee:            totals.ServiceFee,
		Tip:                   totals.Tip,
		Discount:              totals.Discount,
		Total:                 totals.Total,
		PromoCode:             strings.ToUpper(strings.TrimSpace(args.PromoCode)),
		PaymentMethod:         paymentMethod,
		DeliveryAddress:       *address,
		DeliveryInstructions:  args.DeliveryInstructions,
		EstimatedDeliveryTime: createdAt.Add(time.Duration(deliveryMinutes) * time.Minute),
		CreatedAt:             createdAt,
	}
	order.ApplyStatus(domain.OrderStatusPending, StatusMessage(domain.OrderStatusPending), createdAt)
	return &order, nil
}

func buildOrderItems(menu *domain.Menu, args []CreateOrderItemArgs) ([]domain.OrderItem, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("order has no items: %w", domain.ErrInvalidOrderItem)
	}
	items := make([]domain.OrderItem, 0, len(args))
	for _, arg := range args {
		menuItem, _ := menu.FindItem(arg.MenuItemID)
		if menuItem == nil {
			return nil, fmt.Errorf("menu item `%s` not found: %w", arg.MenuItemID, domain.ErrInvalidOrderItem)
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("menu item `%s` is unavailable: %w", arg.MenuItemID, domain.ErrInvalidOrderItem)
		}
		if arg.Quantity < 1 {
			return nil, fmt.Errorf("menu item `%s` quantity %d: %w", arg.MenuItemID, arg.Quantity,
				domain.ErrInvalidOrderItem)
		}
		items = append(items, domain.OrderItem{
			MenuItem:            *menuItem,
			Quantity:            arg.Quantity,
			SpecialInstructions: arg.SpecialInstructions,
			Total:               lineTotal(menuItem.Price, arg.Quantity),
		})
	}
	return items, nil
}

func resolveDeliveryAddress(user *domain.User, args CreateOrderArgs) (*domain.Address, error) {
	switch {
	case args.AddressID != "":
		i := addressIndex(user.Addresses, args.AddressID)
		if i < 0 {
			return nil, fmt.Errorf("address `%s` not found: %w", args.AddressID, domain.ErrAddressRequired)
		}
		return &user.Addresses[i], nil
	case args.DeliveryAddress != nil:
		address := args.DeliveryAddress.toAddress(uuid.NewString())
		return &address, nil
	default:
		if address := user.DefaultAddress(); address != nil {
			return address, nil
		}
		return nil, domain.ErrAddressRequired
	}
}

// orderNumber короткий номер заказа для показа клиенту.
func orderNumber(id string) string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(id, "-", "")[:8])
}

// GetByUserID заказы пользователя, новые первыми. Пустой status - без фильтра.
func (o *OrderService) GetByUserID(
	ctx context.Context,
	userID string,
	status domain.OrderStatusType,
) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, repoargs.OrderFilter{UserID: userID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("getting user orders: %w", err)
	}
	return orders, nil
}

// GetForUser заказ пользователя. Чужой заказ неотличим от несуществующего.
func (o *OrderService) GetForUser(ctx context.Context, userID, orderID string) (*OrderView, error) {
	order, err := o.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return newOrderView(*order, o.now()), nil
}

func (o *OrderService) Track(ctx context.Context, userID, orderID string) (*TrackingInfo, error) {
	order, err := o.findOwned(ctx, userID, orderID)
	if err != nil {
		return nil, fmt.Errorf("tracking order: %w", err)
	}
	return newTrackingInfo(*order, o.now()), nil
}

func (o *OrderService) findOwned(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := o.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order `%s` of another user: %w", orderID, domain.ErrRecordNotFound)
	}
	return order, nil
}

// Cancel отменяет заказ пользователя. Отмена возможна только в статусах pending и confirmed,
// запланированные переходы заказа снимаются.
func (o *OrderService) Cancel(ctx context.Context, userID, orderID, reason string) (*domain.Order, error) {
	var order *domain.Order
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		current, findErr := orderRepo.FindByID(c, orderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if current.UserID != userID {
			return fmt.Errorf("order `%s` of another user: %w", orderID, domain.ErrRecordNotFound)
		}
		if !current.Status.IsCancellable() {
			return fmt.Errorf("order `%s` in status %s: %w", orderID, current.Status, domain.ErrOrderNotCancellable)
		}

		reason = strings.TrimSpace(reason)
		message := StatusMessage(domain.OrderStatusCancelled)
		if reason != "" {
			message += ": " + reason
		}
		current.ApplyStatus(domain.OrderStatusCancelled, message, o.now())
		current.CancelReason = reason

		var updateErr error
		order, updateErr = orderRepo.UpdateOrder(c, *current)
		return updateErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("cancelling order: %w", txErr)
	}

	if o.scheduler != nil {
		o.scheduler.Revoke(order.ID)
	}
	o.notify(ctx, *order)
	return order, nil
}

// Advance переводит заказ в статус to. Допустим только непосредственный следующий статус,
// для отмененного заказа возвращается domain.ErrOrderCancelled.
func (o *OrderService) Advance(ctx context.Context, orderID string, to domain.OrderStatusType) (*domain.Order, error) {
	var order *domain.Order
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[OrderRepository](tx, uow.RepositoryName(repoargs.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		current, findErr := orderRepo.FindByID(c, orderID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		if current.Status == domain.OrderStatusCancelled {
			return fmt.Errorf("order `%s`: %w", orderID, domain.ErrOrderCancelled)
		}
		if next, ok := current.Status.Next(); !ok || next != to {
			return domain.NewIllegalTransitionError(orderID, current.Status, to)
		}

		current.ApplyStatus(to, StatusMessage(to), o.now())
		var updateErr error
		order, updateErr = orderRepo.UpdateOrder(c, *current)
		return updateErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("advancing order: %w", txErr)
	}

	o.notify(ctx, *order)
	return order, nil
}

// notify ошибки нотификаторов логирует сам нотификатор, на результат операции они не влияют.
func (o *OrderService) notify(ctx context.Context, order domain.Order) {
	if o.notifier == nil {
		return
	}
	_ = o.notifier.OrderStatusChanged(context.WithoutCancel(ctx), order)
}
