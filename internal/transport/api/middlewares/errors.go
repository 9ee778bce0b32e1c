package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func statusErrorText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusRequestEntityTooLarge:
		return "request entity too large"
	case http.StatusUnsupportedMediaType:
		return "unsupported media type"
	default:
		return "internal server error"
	}
}

// Errors отдает клиенту первую ошибку запроса в виде {"success": false, "message": "..."}. Текст публичных ошибок
// уходит как есть, для остальных клиент видит только описание http статуса.
func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		// тело уже отдано обработчиком.
		if c.Writer.Size() > 0 {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			status = http.StatusInternalServerError
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]
		var msg string
		if firstErr.IsType(gin.ErrorTypePublic) {
			msg = firstErr.Error()
		} else {
			msg = statusErrorText(status)
		}

		c.JSON(status, gin.H{"success": false, "message": msg})
		c.Abort()
	}
}
