package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/service/notify"
)

// NotificationHandler exposes the operator toasts.
type NotificationHandler struct {
	center *notify.Center
	logger *zap.Logger
}

// NewNotificationHandler constructs the notification HTTP adapter.
func NewNotificationHandler(center *notify.Center, logger *zap.Logger) *NotificationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationHandler{center: center, logger: logger}
}

// List returns the live notifications, oldest first.
func (h *NotificationHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.center.List()})
}

// Dismiss closes a notification before its TTL.
func (h *NotificationHandler) Dismiss(c *gin.Context) {
	if !h.center.Dismiss(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
