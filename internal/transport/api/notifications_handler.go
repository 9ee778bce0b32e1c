package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-eats/internal/domain"
	"github.com/gin-gonic/gin"
)

type NotificationsHandler struct {
	notifications NotificationServicer
}

func NewNotificationsHandler(notifications NotificationServicer) *NotificationsHandler {
	return &NotificationsHandler{
		notifications: notifications,
	}
}

type RegisterTokenParams struct {
	Token    string `binding:"required,max=4096"  json:"token"`
	Platform string `binding:"required,platform"  json:"platform"`
}

// RegisterToken POST RouteGroup + RegisterTokenRoute.
func (h *NotificationsHandler) RegisterToken(c *gin.Context) {
	var params RegisterTokenParams
	if !bindJSON(c, &params) {
		return
	}

	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	token, err := h.notifications.RegisterToken(
		ctx,
		getUserIDFromContext(c),
		params.Token,
		domain.PlatformType(params.Platform),
	)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, token)
}

// Index GET RouteGroup + NotificationsRoute. Новые первыми.
func (h *NotificationsHandler) Index(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	notifications, err := h.notifications.List(ctx, getUserIDFromContext(c))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	if notifications == nil {
		notifications = []domain.Notification{}
	}
	respond(c, http.StatusOK, notifications)
}

// MarkRead PATCH RouteGroup + ReadNotificationRoute.
func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	notification, err := h.notifications.MarkRead(ctx, getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, notification)
}
