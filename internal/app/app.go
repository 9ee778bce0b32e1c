package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsdevblog/groph-eats/internal/config"
	"github.com/fsdevblog/groph-eats/internal/lifecycle"
	"github.com/fsdevblog/groph-eats/internal/metrics"
	"github.com/fsdevblog/groph-eats/internal/service"
	"github.com/fsdevblog/groph-eats/internal/service/psswd"
	"github.com/fsdevblog/groph-eats/internal/service/tokens"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
	"github.com/fsdevblog/groph-eats/internal/transport/api"
	"github.com/fsdevblog/groph-eats/internal/transport/events"
	"github.com/fsdevblog/groph-eats/pkg/uow"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 5 * time.Second
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

// eventPublisher публикатор событий заказов, настоящий или пустой.
type eventPublisher interface {
	service.StatusNotifier
	Close() error
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.WithFields(logrus.Fields{
		"address": a.Config.RunAddress,
		"storage": a.Config.StorageDriver,
		"dataDir": a.Config.DataDir,
		"events":  a.Config.AMQPURL != "",
	}).Info("starting app")

	store, storeErr := jsonstore.Open(notifyCtx, jsonstore.OpenArgs{
		Driver:        a.Config.StorageDriver,
		DataDir:       a.Config.DataDir,
		DatabaseDSN:   a.Config.DatabaseDSN,
		MigrationsDir: a.Config.MigrationsDir,
		RedisAddr:     a.Config.RedisAddr,
	}, a.Logger)
	if storeErr != nil {
		return fmt.Errorf("app run: %s", storeErr.Error())
	}
	defer func() {
		if err := store.Close(); err != nil {
			a.Logger.WithError(err).Error("close storage")
		}
	}()

	publisher, pubErr := a.newPublisher()
	if pubErr != nil {
		return fmt.Errorf("app run: %s", pubErr.Error())
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			a.Logger.WithError(err).Error("close events publisher")
		}
	}()

	c, buildErr := a.build(notifyCtx, store, publisher)
	if buildErr != nil {
		return fmt.Errorf("app run: %s", buildErr.Error())
	}

	srv := &http.Server{
		Addr:              a.Config.RunAddress,
		Handler:           c.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if runErr := srv.ListenAndServe(); runErr != nil && !errors.Is(runErr, http.ErrServerClosed) {
			errChan <- runErr
		}
	}()

	schedulerDone := make(chan int, 1)
	go func() {
		schedulerDone <- c.scheduler.Run(notifyCtx)
	}()

	var runErr error
	select {
	case <-notifyCtx.Done():
		runErr = notifyCtx.Err()
	case runErr = <-errChan:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.Logger.WithError(err).Error("http server shutdown")
	}
	// незавершенные переходы заказов после остановки не восстанавливаются.
	dropped := <-schedulerDone
	a.Logger.WithField("dropped", dropped).Info("order scheduler stopped")

	return runErr
}

// components собранное приложение.
type components struct {
	unitOfWork *uow.UnitOfWork
	router     *gin.Engine
	scheduler  *lifecycle.Scheduler
	metrics    *metrics.Registry
}

// build собирает репозитории, сервисы, планировщик и роутер поверх открытого хранилища.
func (a *App) build(ctx context.Context, store *jsonstore.Store, publisher eventPublisher) (*components, error) {
	unitOfWork, uowErr := InitUOW(ctx, store)
	if uowErr != nil {
		return nil, uowErr
	}

	tokenManager := tokens.NewManager(tokens.ManagerArgs{
		AccessSecret:  []byte(a.Config.JWTSecret),
		RefreshSecret: []byte(a.Config.JWTRefreshSecret),
		AccessTTL:     a.Config.AccessTokenTTL,
		RefreshTTL:    a.Config.RefreshTokenTTL,
	})

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		Tokens:         tokenManager,
		Hasher:         psswd.Bcrypt{},
		UploadsDir:     a.Config.UploadsDir,
		PublicBaseURL:  a.Config.PublicBaseURL,
		MaxUploadBytes: a.Config.MaxUploadBytes,
	})
	if sErr != nil {
		return nil, sErr //nolint:wrapcheck
	}

	registry := metrics.NewRegistry()

	scheduler := lifecycle.New(services.OrderService, a.Logger)
	if len(a.Config.OrderStepOffsets) > 0 {
		scheduler.SetOffsets(a.Config.OrderStepOffsets)
	}
	services.OrderService.
		SetScheduler(scheduler).
		SetNotifier(service.NewStatusFanout(a.Logger, services.NotificationService, registry, publisher))

	router, routerErr := api.New(api.RouterArgs{
		Logger:              a.Logger,
		Metrics:             registry,
		Tokens:              tokenManager,
		UserService:         services.UserService,
		AddressService:      services.AddressService,
		CatalogService:      services.CatalogService,
		FavoriteService:     services.FavoriteService,
		OrderService:        services.OrderService,
		NotificationService: services.NotificationService,
		UploadService:       services.UploadService,
		UploadsDir:          a.Config.UploadsDir,
	})
	if routerErr != nil {
		return nil, routerErr //nolint:wrapcheck
	}

	return &components{
		unitOfWork: unitOfWork,
		router:     router,
		scheduler:  scheduler,
		metrics:    registry,
	}, nil
}

func (a *App) newPublisher() (eventPublisher, error) {
	if a.Config.AMQPURL == "" {
		a.Logger.Info("AMQP_URL is not set, order events are not published")
		return events.Noop{}, nil
	}
	publisher, err := events.Dial(a.Config.AMQPURL, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("events publisher: %w", err)
	}
	return publisher, nil
}
