package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/internal/service/tokens"
	"github.com/fsdevblog/groph-eats/pkg/uow"
)

type UserService struct {
	uow       uow.UOW
	userRepo  UserRepository
	hasher    PasswordHasher
	tokenizer TokenIssuer
}

func NewUserService(u uow.UOW, tokenizer TokenIssuer, hasher PasswordHasher) (*UserService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &UserService{
		uow:       u,
		userRepo:  userRepo,
		hasher:    hasher,
		tokenizer: tokenizer,
	}, nil
}

type RegisterUserArgs struct {
	Email    string
	Password string
	Name     string
	Phone    string
}

// Register создает пользователя и выпускает для него пару токенов. Email сравнивается без учета регистра,
// повторная регистрация возвращает domain.ErrDuplicateKey.
func (s *UserService) Register(ctx context.Context, args RegisterUserArgs) (*domain.User, *tokens.Pair, error) {
	password, hashErr := s.hasher.HashPassword(args.Password)
	if hashErr != nil {
		return nil, nil, fmt.Errorf("registering user: %s", hashErr.Error())
	}

	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		var userErr error
		user, userErr = userRepo.CreateUser(c, repoargs.CreateUser{
			Email:    normalizeEmail(args.Email),
			Password: password,
			Name:     strings.TrimSpace(args.Name),
			Phone:    strings.TrimSpace(args.Phone),
		})
		return userErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, nil, fmt.Errorf("registering user: %w", txErr)
	}

	pair, pairErr := s.tokenizer.GeneratePair(user.ID, user.Email)
	if pairErr != nil {
		return nil, nil, fmt.Errorf("registering user: %w", pairErr)
	}
	return user, pair, nil
}

type LoginUserArgs struct {
	Email    string
	Password string
}

// Login проверяет email и пароль. Неизвестный email возвращает domain.ErrRecordNotFound,
// неверный пароль domain.ErrPasswordMissMatch.
func (s *UserService) Login(ctx context.Context, args LoginUserArgs) (*domain.User, *tokens.Pair, error) {
	user, userErr := s.userRepo.FindUserByEmail(ctx, normalizeEmail(args.Email))
	if userErr != nil {
		return nil, nil, fmt.Errorf("login user: %w", userErr)
	}

	if !s.hasher.ComparePassword(args.Password, user.Password) {
		return nil, nil, fmt.Errorf("login user: %w", domain.ErrPasswordMissMatch)
	}

	pair, pairErr := s.tokenizer.GeneratePair(user.ID, user.Email)
	if pairErr != nil {
		return nil, nil, fmt.Errorf("login user: %w", pairErr)
	}
	return user, pair, nil
}

// Refresh обменивает refresh токен на новую пару. Пользователь из токена должен существовать.
func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*domain.User, *tokens.Pair, error) {
	claims, claimsErr := s.tokenizer.ValidateRefresh(refreshToken)
	if claimsErr != nil {
		return nil, nil, fmt.Errorf("refreshing token: %w", claimsErr)
	}

	user, userErr := s.userRepo.FindUserByID(ctx, claims.UserID)
	if userErr != nil {
		if errors.Is(userErr, domain.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("refreshing token: user gone: %w", domain.ErrInvalidToken)
		}
		return nil, nil, fmt.Errorf("refreshing token: %w", userErr)
	}

	pair, pairErr := s.tokenizer.GeneratePair(user.ID, user.Email)
	if pairErr != nil {
		return nil, nil, fmt.Errorf("refreshing token: %w", pairErr)
	}
	return user, pair, nil
}

func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	return user, nil
}

type UpdateProfileArgs struct {
	Name   *string
	Phone  *string
	Avatar *string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, args UpdateProfileArgs) (*domain.User, error) {
	var user *domain.User
	txErr := s.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		var err error
		user, err = userRepo.UpdateProfile(c, userID, repoargs.UpdateProfile{
			Name:   trimmed(args.Name),
			Phone:  trimmed(args.Phone),
			Avatar: trimmed(args.Avatar),
		})
		return err //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("updating profile: %w", txErr)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trimmed(value *string) *string {
	if value == nil {
		return nil
	}
	v := strings.TrimSpace(*value)
	return &v
}
