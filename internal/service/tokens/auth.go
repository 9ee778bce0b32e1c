// Package tokens выпуск и проверка JWT токенов пользователя. Access токен короткоживущий и передается в заголовке
// Authorization, refresh токен подписывается отдельным ключом и обменивается на новую пару.
package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

const (
	DefaultAccessTTL  = time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

type UserClaims struct {
	jwt.RegisteredClaims
	UserID string    `json:"userId"`
	Email  string    `json:"email"`
	Type   TokenType `json:"type"`
}

type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	// ExpiresIn время жизни access токена в секундах.
	ExpiresIn int64 `json:"expiresIn"`
}

type ManagerArgs struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewManager(args ManagerArgs) *Manager {
	m := Manager{
		accessSecret:  args.AccessSecret,
		refreshSecret: args.RefreshSecret,
		accessTTL:     args.AccessTTL,
		refreshTTL:    args.RefreshTTL,
	}
	if m.accessTTL <= 0 {
		m.accessTTL = DefaultAccessTTL
	}
	if m.refreshTTL <= 0 {
		m.refreshTTL = DefaultRefreshTTL
	}
	return &m
}

// GeneratePair выпускает access и refresh токены для пользователя.
func (m *Manager) GeneratePair(userID, email string) (*Pair, error) {
	access, accessErr := GenerateUserJWT(userID, email, TokenTypeAccess, m.accessTTL, m.accessSecret)
	if accessErr != nil {
		return nil, accessErr
	}
	refresh, refreshErr := GenerateUserJWT(userID, email, TokenTypeRefresh, m.refreshTTL, m.refreshSecret)
	if refreshErr != nil {
		return nil, refreshErr
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTTL.Seconds()),
	}, nil
}

// ValidateAccess проверяет access токен. Возвращает domain.ErrTokenExpired или domain.ErrInvalidToken.
func (m *Manager) ValidateAccess(tokenString string) (*UserClaims, error) {
	return ValidateUserJWT(tokenString, TokenTypeAccess, m.accessSecret)
}

// ValidateRefresh проверяет refresh токен. Возвращает domain.ErrTokenExpired или domain.ErrInvalidToken.
func (m *Manager) ValidateRefresh(tokenString string) (*UserClaims, error) {
	return ValidateUserJWT(tokenString, TokenTypeRefresh, m.refreshSecret)
}

func GenerateUserJWT(userID, email string, typ TokenType, expire time.Duration, key []byte) (string, error) {
	issuedAt := time.Now()
	userClaims := UserClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(expire)),
		},
		UserID: userID,
		Email:  email,
		Type:   typ,
	}
	token, err := generateJWT(userClaims, key)
	if err != nil {
		return "", fmt.Errorf("generating user jwt token: %s", err.Error())
	}
	return token, nil
}

func ValidateUserJWT(tokenString string, typ TokenType, key []byte) (*UserClaims, error) {
	token, err := validateJWT(tokenString, new(UserClaims), key)
	if err != nil {
		return nil, fmt.Errorf("validating user jwt token: %w", err)
	}

	claims, ok := token.Claims.(*UserClaims)
	if !ok || claims.UserID == "" {
		return nil, fmt.Errorf("validating user jwt token: invalid claims: %w", domain.ErrInvalidToken)
	}
	if claims.Type != typ {
		return nil, fmt.Errorf("validating user jwt token: want %s token, got %s: %w",
			typ, claims.Type, domain.ErrInvalidToken)
	}
	return claims, nil
}

func generateJWT(claims jwt.Claims, key []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("generating jwt token: %s", err.Error())
	}

	return tokenString, nil
}

func validateJWT(tokenString string, claims jwt.Claims, key []byte) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, fmt.Errorf("parsing jwt token: %w: %s", domain.ErrInvalidToken, err.Error())
	}

	return token, nil
}
