package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/fsdevblog/groph-eats/internal/service/tokens"
	"github.com/gin-gonic/gin"
)

var ErrTokenNotExist = errors.New("token not exist")

const (
	CurrentUserIDKey    = "currentUserID"
	CurrentUserEmailKey = "currentUserEmail"
)

type TokenValidator interface {
	ValidateAccess(tokenString string) (*tokens.UserClaims, error)
}

// checkAuthorization извлекает токен из заголовка Authorization и проверяет его. Если токен не передан, вернется ошибка
// ErrTokenNotExist
func checkAuthorization(c *gin.Context, validator TokenValidator) (*tokens.UserClaims, error) {
	tokenHeader := c.GetHeader("Authorization")
	bearer := "Bearer "

	if len(tokenHeader) <= len(bearer) || !strings.EqualFold(tokenHeader[:len(bearer)], bearer) {
		return nil, ErrTokenNotExist
	}

	return validator.ValidateAccess(strings.TrimSpace(tokenHeader[len(bearer):])) //nolint:wrapcheck
}

func setCurrentUser(c *gin.Context, claims *tokens.UserClaims) {
	c.Set(CurrentUserIDKey, claims.UserID)
	c.Set(CurrentUserEmailKey, claims.Email)
}

// AuthRequired проверяет, что запрос авторизован. Без токена 401, с недействительным или просроченным 403.
// Записывает в контекст (поле CurrentUserIDKey) id юзера.
func AuthRequired(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := checkAuthorization(c, validator)
		if err != nil {
			if errors.Is(err, ErrTokenNotExist) {
				_ = c.AbortWithError(http.StatusUnauthorized, errors.New("access token required")).
					SetType(gin.ErrorTypePublic)
				return
			}
			_ = c.AbortWithError(http.StatusForbidden, errors.New("invalid or expired token")).
				SetType(gin.ErrorTypePublic)
			return
		}
		setCurrentUser(c, claims)
		c.Next()
	}
}

// OptionalAuth пропускает любые запросы, но если передан действительный токен, записывает юзера в контекст.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := checkAuthorization(c, validator); err == nil {
			setCurrentUser(c, claims)
		}
		c.Next()
	}
}
