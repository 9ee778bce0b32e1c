package service

import (
	"context"
	"fmt"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/fsdevblog/groph-eats/pkg/uow"
	"github.com/google/uuid"
)

// AddressService управляет адресами доставки пользователя. У пользователя с непустым списком адресов
// ровно один адрес по умолчанию.
type AddressService struct {
	uow      uow.UOW
	userRepo UserRepository
}

func NewAddressService(u uow.UOW) (*AddressService, error) {
	userRepo, userRepoErr := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if userRepoErr != nil {
		return nil, userRepoErr
	}
	return &AddressService{uow: u, userRepo: userRepo}, nil
}

type AddressArgs struct {
	Label        string
	Street       string
	Apartment    string
	City         string
	State        string
	ZipCode      string
	Latitude     float64
	Longitude    float64
	Instructions string
	IsDefault    bool
}

func (a AddressArgs) toAddress(id string) domain.Address {
	return domain.Address{
		ID:           id,
		Label:        a.Label,
		Street:       a.Street,
		Apartment:    a.Apartment,
		City:         a.City,
		State:        a.State,
		ZipCode:      a.ZipCode,
		Latitude:     a.Latitude,
		Longitude:    a.Longitude,
		Instructions: a.Instructions,
		IsDefault:    a.IsDefault,
	}
}

func (s *AddressService) List(ctx context.Context, userID string) ([]domain.Address, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing addresses: %w", err)
	}
	if user.Addresses == nil {
		return []domain.Address{}, nil
	}
	return user.Addresses, nil
}

func (s *AddressService) Add(ctx context.Context, userID string, args AddressArgs) (*domain.Address, error) {
	address := args.toAddress(uuid.NewString())
	err := s.modify(ctx, userID, func(addresses []domain.Address) ([]domain.Address, error) {
		return addAddress(addresses, address), nil
	})
	if err != nil {
		return nil, fmt.Errorf("adding address: %w", err)
	}
	return s.find(ctx, userID, address.ID)
}

// Update заменяет поля адреса. Снять флаг по умолчанию через Update нельзя, только назначив другой адрес.
func (s *AddressService) Update(
	ctx context.Context,
	userID, addressID string,
	args AddressArgs,
) (*domain.Address, error) {
	err := s.modify(ctx, userID, func(addresses []domain.Address) ([]domain.Address, error) {
		return updateAddress(addresses, args.toAddress(addressID))
	})
	if err != nil {
		return nil, fmt.Errorf("updating address: %w", err)
	}
	return s.find(ctx, userID, addressID)
}

func (s *AddressService) Delete(ctx context.Context, userID, addressID string) error {
	err := s.modify(ctx, userID, func(addresses []domain.Address) ([]domain.Address, error) {
		return deleteAddress(addresses, addressID)
	})
	if err != nil {
		return fmt.Errorf("deleting address: %w", err)
	}
	return nil
}

func (s *AddressService) SetDefault(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	err := s.modify(ctx, userID, func(addresses []domain.Address) ([]domain.Address, error) {
		return setDefaultAddress(addresses, addressID)
	})
	if err != nil {
		return nil, fmt.Errorf("setting default address: %w", err)
	}
	return s.find(ctx, userID, addressID)
}

// modify читает адреса пользователя, применяет fn и сохраняет результат в одной единице работы.
func (s *AddressService) modify(
	ctx context.Context,
	userID string,
	fn func([]domain.Address) ([]domain.Address, error),
) error {
	return s.uow.Do(ctx, func(c context.Context, tx uow.TX) error { //nolint:wrapcheck
		userRepo, userRepoErr := uow.GetAs[UserRepository](tx, uow.RepositoryName(repoargs.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		user, userErr := userRepo.FindUserByID(c, userID)
		if userErr != nil {
			return userErr //nolint:wrapcheck
		}
		addresses, fnErr := fn(user.Addresses)
		if fnErr != nil {
			return fnErr
		}
		_, saveErr := userRepo.SaveAddresses(c, userID, addresses)
		return saveErr //nolint:wrapcheck
	})
}

func (s *AddressService) find(ctx context.Context, userID, addressID string) (*domain.Address, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	i := addressIndex(user.Addresses, addressID)
	if i < 0 {
		return nil, fmt.Errorf("address `%s`: %w", addressID, domain.ErrRecordNotFound)
	}
	return &user.Addresses[i], nil
}

// addAddress добавляет адрес в конец списка. Первый адрес всегда становится адресом по умолчанию.
func addAddress(addresses []domain.Address, address domain.Address) []domain.Address {
	res := append([]domain.Address{}, addresses...)
	if len(res) == 0 {
		address.IsDefault = true
	}
	if address.IsDefault {
		clearDefault(res)
	}
	return append(res, address)
}

func updateAddress(addresses []domain.Address, address domain.Address) ([]domain.Address, error) {
	i := addressIndex(addresses, address.ID)
	if i < 0 {
		return nil, fmt.Errorf("address `%s`: %w", address.ID, domain.ErrRecordNotFound)
	}
	res := append([]domain.Address{}, addresses...)
	if res[i].IsDefault {
		address.IsDefault = true
	}
	if address.IsDefault {
		clearDefault(res)
	}
	res[i] = address
	return res, nil
}

// deleteAddress удаляет адрес. Если удален адрес по умолчанию, им становится первый из оставшихся.
func deleteAddress(addresses []domain.Address, addressID string) ([]domain.Address, error) {
	i := addressIndex(addresses, addressID)
	if i < 0 {
		return nil, fmt.Errorf("address `%s`: %w", addressID, domain.ErrRecordNotFound)
	}
	wasDefault := addresses[i].IsDefault
	res := make([]domain.Address, 0, len(addresses)-1)
	res = append(res, addresses[:i]...)
	res = append(res, addresses[i+1:]...)
	if wasDefault && len(res) > 0 {
		res[0].IsDefault = true
	}
	return res, nil
}

func setDefaultAddress(addresses []domain.Address, addressID string) ([]domain.Address, error) {
	i := addressIndex(addresses, addressID)
	if i < 0 {
		return nil, fmt.Errorf("address `%s`: %w", addressID, domain.ErrRecordNotFound)
	}
	res := append([]domain.Address{}, addresses...)
	clearDefault(res)
	res[i].IsDefault = true
	return res, nil
}

func clearDefault(addresses []domain.Address) {
	for i := range addresses {
		addresses[i].IsDefault = false
	}
}

func addressIndex(addresses []domain.Address, addressID string) int {
	for i := range addresses {
		if addresses[i].ID == addressID {
			return i
		}
	}
	return -1
}
