package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/service/analytics"
	"github.com/mamadbah2/promoboard/internal/service/export"
	"github.com/mamadbah2/promoboard/internal/service/pricing"
	"github.com/mamadbah2/promoboard/internal/service/registry"
	"github.com/mamadbah2/promoboard/internal/service/session"
)

const (
	// SessionHeader selects the view state a request reads and writes.
	SessionHeader = "X-Session-ID"
	// UserHeader names the operator recorded in the audit log.
	UserHeader = "X-User"
)

func sessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return id
	}
	return session.DefaultID
}

// hasQuery reports whether any of the keys is present in the query string.
func hasQuery(c *gin.Context, keys ...string) bool {
	q := c.Request.URL.Query()
	for _, k := range keys {
		if q.Has(k) {
			return true
		}
	}
	return false
}

func userOf(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(UserHeader))
}

func statusOf(err error) int {
	switch {
	case registry.IsValidation(err),
		errors.Is(err, analytics.ErrInvalidUnit),
		errors.Is(err, analytics.ErrUnknownSortKey),
		errors.Is(err, export.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrNotFound),
		errors.Is(err, export.ErrNotFound),
		errors.Is(err, pricing.ErrUnknownUnit):
		return http.StatusNotFound
	case errors.Is(err, export.ErrExportNotReady):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError maps service errors onto status codes. Unknown errors are logged
// and hidden from the caller.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	logger.Debug("request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}
