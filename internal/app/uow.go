package app

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-eats/internal/repository/docrepo"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/storage/jsonstore"
	"github.com/fsdevblog/groph-eats/pkg/uow"
)

// InitUOW загружает все ресурсы из store и регистрирует репозитории в новом UnitOfWork.
func InitUOW(ctx context.Context, store *jsonstore.Store) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork()

	repos := []struct {
		name repoargs.RepositoryName
		repo uow.Repository
	}{
		{repoargs.UserRepoName, docrepo.NewUserRepository(ctx, store)},
		{repoargs.OrderRepoName, docrepo.NewOrderRepository(ctx, store)},
		{repoargs.RestaurantRepoName, docrepo.NewRestaurantRepository(ctx, store)},
		{repoargs.MenuRepoName, docrepo.NewMenuRepository(ctx, store)},
		{repoargs.FavoriteRepoName, docrepo.NewFavoriteRepository(ctx, store)},
		{repoargs.ReviewRepoName, docrepo.NewReviewRepository(ctx, store)},
		{repoargs.PushTokenRepoName, docrepo.NewPushTokenRepository(ctx, store)},
		{repoargs.NotificationRepoName, docrepo.NewNotificationRepository(ctx, store)},
	}
	for _, r := range repos {
		if regErr := unitOfWork.Register(uow.RepositoryName(r.name), r.repo); regErr != nil {
			return nil, fmt.Errorf("init UOW: %s", regErr.Error())
		}
	}
	return unitOfWork, nil
}
