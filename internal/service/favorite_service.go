package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/pkg/uow"
)

type FavoriteService struct {
	uow            uow.UOW
	favoriteRepo   FavoriteRepository
	restaurantRepo RestaurantRepository
}

func NewFavoriteService(u uow.UOW) (*FavoriteService, error) {
	favoriteRepo, favoriteRepoErr :=
		uow.GetRepositoryAs[FavoriteRepository](u, uow.RepositoryName(repoargs.FavoriteRepoName))
	if favoriteRepoErr != nil {
		return nil, favoriteRepoErr
	}
	restaurantRepo, restaurantRepoErr :=
		uow.GetRepositoryAs[RestaurantRepository](u, uow.RepositoryName(repoargs.RestaurantRepoName))
	if restaurantRepoErr != nil {
		return nil, restaurantRepoErr
	}
	return &FavoriteService{
		uow:            u,
		favoriteRepo:   favoriteRepo,
		restaurantRepo: restaurantRepo,
	}, nil
}

// List избранные рестораны пользователя. Рестораны, которых больше нет в каталоге, пропускаются.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]domain.Restaurant, error) {
	ids, err := s.favoriteRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	restaurants := make([]domain.Restaurant, 0, len(ids))
	for _, id := range ids {
		restaurant, findErr := s.restaurantRepo.FindByID(ctx, id)
		if findErr != nil {
			if errors.Is(findErr, domain.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("listing favorites: %w", findErr)
		}
		restaurants = append(restaurants, *restaurant)
	}
	return restaurants, nil
}

// Add добавляет ресторан в избранное. Повторное добавление ничего не меняет.
func (s *FavoriteService) Add(ctx context.Context, userID, restaurantID string) (*domain.Restaurant, error) {
	var restaurant *domain.Restaurant
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		restaurantRepo, restaurantRepoErr :=
			uow.GetAs[RestaurantRepository](tx, uow.RepositoryName(repoargs.RestaurantRepoName))
		if restaurantRepoErr != nil {
			return restaurantRepoErr //nolint:wrapcheck
		}
		favoriteRepo, favoriteRepoErr :=
			uow.GetAs[FavoriteRepository](tx, uow.RepositoryName(repoargs.FavoriteRepoName))
		if favoriteRepoErr != nil {
			return favoriteRepoErr //nolint:wrapcheck
		}

		var findErr error
		restaurant, findErr = restaurantRepo.FindByID(c, restaurantID)
		if findErr != nil {
			return findErr //nolint:wrapcheck
		}
		_, addErr := favoriteRepo.Add(c, userID, restaurant.ID)
		return addErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("adding favorite: %w", txErr)
	}
	return restaurant, nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, restaurantID string) error {
	if err := s.favoriteRepo.Remove(ctx, userID, restaurantID); err != nil {
		return fmt.Errorf("removing favorite: %w", err)
	}
	return nil
}
