package service

import (
	"testing"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/repository/repoargs"
	"github.com/stretchr/testify/suite"
)

type AddressServiceTestSuite struct {
	suite.Suite
	addressService *AddressService
	userID         string
}

func TestAddressServiceSuite(t *testing.T) {
	suite.Run(t, new(AddressServiceTestSuite))
}

func (s *AddressServiceTestSuite) SetupTest() {
	u, _, _, userRepo := newTestUOW(s.T().Context(), s.T())
	user, err := userRepo.CreateUser(s.T().Context(), repoargs.CreateUser{Email: "john@example.com"})
	s.Require().NoError(err)
	s.userID = user.ID

	addressService, servErr := NewAddressService(u)
	s.Require().NoError(servErr)
	s.addressService = addressService
}

// defaults количество адресов по умолчанию.
func defaults(addresses []domain.Address) int {
	var n int
	for _, a := range addresses {
		if a.IsDefault {
			n++
		}
	}
	return n
}

func (s *AddressServiceTestSuite) TestDefaultInvariant() {
	ctx := s.T().Context()

	home, err := s.addressService.Add(ctx, s.userID, AddressArgs{Label: "Home", Street: "1 Main St"})
	s.Require().NoError(err)
	s.True(home.IsDefault, "first address becomes default")

	work, err := s.addressService.Add(ctx, s.userID, AddressArgs{Label: "Work", Street: "2 Office Rd"})
	s.Require().NoError(err)
	s.False(work.IsDefault)

	gym, err := s.addressService.Add(ctx, s.userID, AddressArgs{Label: "Gym", Street: "3 Fit Ave", IsDefault: true})
	s.Require().NoError(err)
	s.True(gym.IsDefault)

	list, err := s.addressService.List(ctx, s.userID)
	s.Require().NoError(err)
	s.Len(list, 3)
	s.Equal(1, defaults(list))

	_, err = s.addressService.SetDefault(ctx, s.userID, work.ID)
	s.Require().NoError(err)
	list, _ = s.addressService.List(ctx, s.userID)
	s.Equal(1, defaults(list))
	s.True(list[1].IsDefault)

	// удаление адреса по умолчанию делает умолчанием первый оставшийся.
	s.Require().NoError(s.addressService.Delete(ctx, s.userID, work.ID))
	list, _ = s.addressService.List(ctx, s.userID)
	s.Require().Len(list, 2)
	s.Equal(home.ID, list[0].ID)
	s.True(list[0].IsDefault)
	s.Equal(1, defaults(list))

	updated, err := s.addressService.Update(ctx, s.userID, home.ID, AddressArgs{Label: "Home", Street: "10 Main St"})
	s.Require().NoError(err)
	s.Equal("10 Main St", updated.Street)
	s.True(updated.IsDefault, "update keeps default flag")
}

func (s *AddressServiceTestSuite) TestNotFound() {
	ctx := s.T().Context()

	_, updErr := s.addressService.Update(ctx, s.userID, "missing", AddressArgs{})
	s.ErrorIs(updErr, domain.ErrRecordNotFound)

	s.ErrorIs(s.addressService.Delete(ctx, s.userID, "missing"), domain.ErrRecordNotFound)

	_, defErr := s.addressService.SetDefault(ctx, s.userID, "missing")
	s.ErrorIs(defErr, domain.ErrRecordNotFound)

	_, userErr := s.addressService.List(ctx, "nobody")
	s.ErrorIs(userErr, domain.ErrRecordNotFound)
}

func (s *AddressServiceTestSuite) TestDeleteLast() {
	ctx := s.T().Context()
	only, err := s.addressService.Add(ctx, s.userID, AddressArgs{Street: "1 Main St"})
	s.Require().NoError(err)

	s.Require().NoError(s.addressService.Delete(ctx, s.userID, only.ID))
	list, err := s.addressService.List(ctx, s.userID)
	s.Require().NoError(err)
	s.Empty(list)
}
