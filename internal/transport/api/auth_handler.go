package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/service"
	"github.com/fsdevblog/groph-eats/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService UserServicer
}

func NewAuthHandler(userService UserServicer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
	}
}

type UserResponse struct {
	ID        string           `json:"id"`
	Email     string           `json:"email"`
	Name      string           `json:"name"`
	Phone     string           `json:"phone"`
	Avatar    string           `json:"avatar,omitempty"`
	Addresses []domain.Address `json:"addresses"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// newUserResponse ответ без хеша пароля.
func newUserResponse(user *domain.User) UserResponse {
	addresses := user.Addresses
	if addresses == nil {
		addresses = []domain.Address{}
	}
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Avatar:    user.Avatar,
		Addresses: addresses,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type AuthResponse struct {
	User   UserResponse `json:"user"`
	Tokens tokens.Pair  `json:"tokens"`
}

type UserRegisterParams struct {
	Email    string `binding:"required,email,max=255"           json:"email"`
	Password string `binding:"required,min=6,max_bytes=72"      json:"password"`
	Name     string `binding:"required,min=1,max=100"           json:"name"`
	Phone    string `binding:"omitempty,max=32"                 json:"phone"`
}

// Register POST RouteGroup + RegisterRoute. Регистрирует пользователя и сразу выдает ему токены.
func (h *AuthHandler) Register(c *gin.Context) {
	var params UserRegisterParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, pair, createErr := h.userService.Register(ctx, service.RegisterUserArgs{
		Email:    params.Email,
		Password: params.Password,
		Name:     params.Name,
		Phone:    params.Phone,
	})
	if createErr != nil {
		if errors.Is(createErr, domain.ErrDuplicateKey) {
			_ = c.AbortWithError(http.StatusConflict, errors.New("user with this email already exists")).
				SetType(gin.ErrorTypePublic)
			return
		}
		abortWithServiceError(c, createErr)
		return
	}

	respond(c, http.StatusCreated, AuthResponse{User: newUserResponse(user), Tokens: *pair})
}

type UserLoginParams struct {
	Email    string `binding:"required,email"        json:"email"`
	Password string `binding:"required,max_bytes=72" json:"password"`
}

// Login POST RouteGroup + LoginRoute. Аутентификация по паре email/пароль.
func (h *AuthHandler) Login(c *gin.Context) {
	var params UserLoginParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, pair, err := h.userService.Login(ctx, service.LoginUserArgs{
		Email:    params.Email,
		Password: params.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) || errors.Is(err, domain.ErrPasswordMissMatch) {
			_ = c.AbortWithError(http.StatusUnauthorized, errors.New("invalid credentials")).
				SetType(gin.ErrorTypePublic)
			return
		}
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, AuthResponse{User: newUserResponse(user), Tokens: *pair})
}

type RefreshParams struct {
	RefreshToken string `binding:"required" json:"refreshToken"`
}

// Refresh POST RouteGroup + RefreshRoute. Обменивает refresh токен на новую пару.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var params RefreshParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	user, pair, err := h.userService.Refresh(ctx, params.RefreshToken)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidToken) || errors.Is(err, domain.ErrTokenExpired) {
			_ = c.AbortWithError(http.StatusUnauthorized, errors.New("invalid refresh token")).
				SetType(gin.ErrorTypePublic)
			return
		}
		abortWithServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, AuthResponse{User: newUserResponse(user), Tokens: *pair})
}
