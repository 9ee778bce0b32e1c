package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/fsdevblog/groph-eats/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// getUserIDFromContext берет из контекста gin ID текущего юзера. ID устанавливается в
// middlewares.AuthRequired и middlewares.OptionalAuth. Для анонимного запроса вернется пустая строка.
func getUserIDFromContext(c *gin.Context) string {
	return c.GetString(middlewares.CurrentUserIDKey)
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// bindJSON разбирает тело запроса в params. При ошибке запрос прерывается со статусом 400.
func bindJSON(c *gin.Context, params any) bool {
	return bindWith(c, params, c.ShouldBindJSON)
}

// bindOptionalJSON как bindJSON, но пустое тело не ошибка.
func bindOptionalJSON(c *gin.Context, params any) bool {
	return bindWith(c, params, func(obj any) error {
		if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
			return err //nolint:wrapcheck
		}
		return nil
	})
}

func bindQuery(c *gin.Context, params any) bool {
	return bindWith(c, params, c.ShouldBindQuery)
}

func bindWith(c *gin.Context, params any, bind func(any) error) bool {
	bindErr := bind(params)
	if bindErr == nil {
		return true
	}
	var valErrs validator.ValidationErrors
	if errors.As(bindErr, &valErrs) {
		_ = c.AbortWithError(http.StatusBadRequest, errors.New(validationMessage(valErrs))).
			SetType(gin.ErrorTypePublic)
		return false
	}
	_ = c.AbortWithError(http.StatusBadRequest, errors.New("malformed request")).
		SetType(gin.ErrorTypePublic)
	_ = c.Error(bindErr).SetType(gin.ErrorTypeBind)
	return false
}

// errorStatuses соответствие доменных ошибок http статусам. Проверяется по порядку.
var errorStatuses = []struct {
	err    error
	status int
}{
	{domain.ErrRecordNotFound, http.StatusNotFound},
	{domain.ErrDuplicateKey, http.StatusConflict},
	{domain.ErrPasswordMissMatch, http.StatusUnauthorized},
	{domain.ErrTokenExpired, http.StatusForbidden},
	{domain.ErrInvalidToken, http.StatusForbidden},
	{domain.ErrIllegalTransition, http.StatusBadRequest},
	{domain.ErrOrderNotCancellable, http.StatusBadRequest},
	{domain.ErrOrderCancelled, http.StatusBadRequest},
	{domain.ErrRestaurantClosed, http.StatusBadRequest},
	{domain.ErrInvalidOrderItem, http.StatusBadRequest},
	{domain.ErrBelowMinimumOrder, http.StatusBadRequest},
	{domain.ErrAddressRequired, http.StatusBadRequest},
	{domain.ErrInvalidPromoCode, http.StatusBadRequest},
	{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
	{domain.ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
}

// abortWithServiceError прерывает запрос со статусом, соответствующим ошибке сервиса. Клиент получает текст
// доменной ошибки без цепочки обертки, неизвестные ошибки становятся 500 без подробностей.
func abortWithServiceError(c *gin.Context, err error) {
	var transitionErr *domain.IllegalTransitionError
	if errors.As(err, &transitionErr) {
		_ = c.AbortWithError(http.StatusBadRequest, transitionErr).SetType(gin.ErrorTypePublic)
		return
	}
	for _, es := range errorStatuses {
		if errors.Is(err, es.err) {
			_ = c.AbortWithError(es.status, es.err).SetType(gin.ErrorTypePublic)
			_ = c.Error(err).SetType(gin.ErrorTypePrivate)
			return
		}
	}
	_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
}
