package service

import (
	"fmt"

	"github.com/fsdevblog/groph-eats/pkg/uow"
)

type AppServices struct {
	UserService         *UserService
	AddressService      *AddressService
	CatalogService      *CatalogService
	FavoriteService     *FavoriteService
	OrderService        *OrderService
	NotificationService *NotificationService
	UploadService       *UploadService
}

type FactoryArgs struct {
	Tokens         TokenIssuer
	Hasher         PasswordHasher
	UploadsDir     string
	PublicBaseURL  string
	MaxUploadBytes int64
}

// Factory создает сервисы приложения. Планировщик и нотификатор заказов подключаются отдельно,
// т.к. сами зависят от OrderService и NotificationService.
func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	userService, userServiceErr := NewUserService(unitOfWork, args.Tokens, args.Hasher)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	addressService, addressServiceErr := NewAddressService(unitOfWork)
	if addressServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", addressServiceErr.Error())
	}

	catalogService, catalogServiceErr := NewCatalogService(unitOfWork)
	if catalogServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", catalogServiceErr.Error())
	}

	favoriteService, favoriteServiceErr := NewFavoriteService(unitOfWork)
	if favoriteServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", favoriteServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	notificationService, notificationServiceErr := NewNotificationService(unitOfWork)
	if notificationServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", notificationServiceErr.Error())
	}

	uploadService, uploadServiceErr := NewUploadService(args.UploadsDir, args.PublicBaseURL, args.MaxUploadBytes)
	if uploadServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", uploadServiceErr.Error())
	}

	return &AppServices{
		UserService:         userService,
		AddressService:      addressService,
		CatalogService:      catalogService,
		FavoriteService:     favoriteService,
		OrderService:        orderService,
		NotificationService: notificationService,
		UploadService:       uploadService,
	}, nil
}
