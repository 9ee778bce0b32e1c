package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/service"
	"github.com/fsdevblog/groph-eats/internal/service/tokens"
	"github.com/fsdevblog/groph-eats/internal/transport/api/testutils"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"
)

type AuthHandlerTestSuite struct {
	handlerSuite
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerTestSuite))
}

func (s *AuthHandlerTestSuite) TestRegister() {
	user := &domain.User{ID: "u-1", Email: "jane@example.com", Name: "Jane", Password: "$2a$10$hash"}
	pair := &tokens.Pair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600}

	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{Email: "jane@example.com", Password: "secret1", Name: "Jane"}).
		Return(user, pair, nil).Times(1)
	s.mockUserService.EXPECT().
		Register(gomock.Any(), service.RegisterUserArgs{Email: "dup@example.com", Password: "secret1", Name: "Dup"}).
		Return(nil, nil, wrapErr("creating user", domain.ErrDuplicateKey)).Times(1)

	cases := []struct {
		name       string
		payload    map[string]string
		wantStatus int
	}{
		{
			name:       "all ok",
			payload:    map[string]string{"email": "jane@example.com", "password": "secret1", "name": "Jane"},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "duplicate email",
			payload:    map[string]string{"email": "dup@example.com", "password": "secret1", "name": "Dup"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "invalid email",
			payload:    map[string]string{"email": "nope", "password": "secret1", "name": "Jane"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			payload:    map[string]string{"email": "jane@example.com", "password": "123", "name": "Jane"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "password over bcrypt limit in bytes",
			payload: map[string]string{
				"email":    "jane@example.com",
				"password": testutils.GenerateOverBytesUnderRunes(20),
				"name":     "Jane",
			},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing name",
			payload:    map[string]string{"email": "jane@example.com", "password": "secret1"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range cases {
		s.Run(tt.name, func() {
			resp := s.request(http.MethodPost, RegisterRoute, testutils.WithJSON(tt.payload))
			var auth AuthResponse
			env := s.envelope(resp, &auth)
			s.Equal(tt.wantStatus, resp.StatusCode, env.Message)

			if tt.wantStatus == http.StatusCreated {
				s.Equal("u-1", auth.User.ID)
				s.Equal("access", auth.Tokens.AccessToken)
				s.Equal(int64(3600), auth.Tokens.ExpiresIn)
				s.NotContains(string(env.Data), "password")
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestLogin() {
	user := &domain.User{ID: "u-1", Email: "jane@example.com"}
	pair := &tokens.Pair{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 3600}

	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: "jane@example.com", Password: "secret1"}).
		Return(user, pair, nil).Times(1)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: "jane@example.com", Password: "wrong-password"}).
		Return(nil, nil, wrapErr("login user", domain.ErrPasswordMissMatch)).Times(1)
	s.mockUserService.EXPECT().
		Login(gomock.Any(), service.LoginUserArgs{Email: "ghost@example.com", Password: "secret1"}).
		Return(nil, nil, wrapErr("login user", domain.ErrRecordNotFound)).Times(1)

	cases := []struct {
		name        string
		payload     map[string]string
		wantStatus  int
		wantMessage string
	}{
		{
			name:       "all ok",
			payload:    map[string]string{"email": "jane@example.com", "password": "secret1"},
			wantStatus: http.StatusOK,
		},
		{
			name:        "wrong password",
			payload:     map[string]string{"email": "jane@example.com", "password": "wrong-password"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid credentials",
		},
		{
			name:        "unknown email",
			payload:     map[string]string{"email": "ghost@example.com", "password": "secret1"},
			wantStatus:  http.StatusUnauthorized,
			wantMessage: "invalid credentials",
		},
		{
			name:       "missing password",
			payload:    map[string]string{"email": "jane@example.com"},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range cases {
		s.Run(tt.name, func() {
			resp := s.request(http.MethodPost, LoginRoute, testutils.WithJSON(tt.payload))
			env := s.envelope(resp, nil)
			s.Equal(tt.wantStatus, resp.StatusCode)
			if tt.wantMessage != "" {
				s.Equal(tt.wantMessage, env.Message)
			}
		})
	}
}

func (s *AuthHandlerTestSuite) TestRefresh() {
	pair := &tokens.Pair{AccessToken: "new-access", RefreshToken: "new-refresh", ExpiresIn: 3600}

	s.mockUserService.EXPECT().
		Refresh(gomock.Any(), "good").
		Return(&domain.User{ID: "u-1"}, pair, nil).Times(1)
	s.mockUserService.EXPECT().
		Refresh(gomock.Any(), "bad").
		Return(nil, nil, wrapErr("refreshing token", domain.ErrInvalidToken)).Times(1)

	s.Run("valid", func() {
		resp := s.request(http.MethodPost, RefreshRoute, testutils.WithJSON(map[string]string{"refreshToken": "good"}))
		var auth AuthResponse
		s.envelope(resp, &auth)
		s.Equal(http.StatusOK, resp.StatusCode)
		s.Equal("new-refresh", auth.Tokens.RefreshToken)
	})

	s.Run("invalid", func() {
		resp := s.request(http.MethodPost, RefreshRoute, testutils.WithJSON(map[string]string{"refreshToken": "bad"}))
		s.envelope(resp, nil)
		s.Equal(http.StatusUnauthorized, resp.StatusCode)
	})

	s.Run("missing", func() {
		resp := s.request(http.MethodPost, RefreshRoute, testutils.WithJSON(map[string]string{}))
		env := s.envelope(resp, nil)
		s.Equal(http.StatusBadRequest, resp.StatusCode)
		s.True(strings.Contains(env.Message, "refreshToken"), env.Message)
	})
}

func (s *AuthHandlerTestSuite) TestProfileRequiresAuth() {
	resp := s.request(http.MethodGet, ProfileRoute)
	env := s.envelope(resp, nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.Equal("access token required", env.Message)
}

func (s *AuthHandlerTestSuite) TestRefreshTokenIsNotAccessToken() {
	pair, err := s.tokens.GeneratePair("u-1", "jane@example.com")
	s.Require().NoError(err)

	resp := s.request(http.MethodGet, ProfileRoute, testutils.WithBearer(pair.RefreshToken))
	s.envelope(resp, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
}
