package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/service/export"
	"github.com/mamadbah2/promoboard/internal/service/registry"
	"github.com/mamadbah2/promoboard/internal/service/session"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ArchiveReader lists archived export jobs.
type ArchiveReader interface {
	RecentExports(ctx context.Context, limit int64) ([]models.ExportRecord, error)
}

// ExportHandler serves export jobs.
type ExportHandler struct {
	exports  *export.Service
	registry *registry.Service
	archive  ArchiveReader
	sessions *session.Manager
	logger   *zap.Logger
}

// NewExportHandler constructs the export HTTP adapter. archive may be nil.
func NewExportHandler(exports *export.Service, reg *registry.Service, archive ArchiveReader, sessions *session.Manager, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{exports: exports, registry: reg, archive: archive, sessions: sessions, logger: logger}
}

type startExportRequest struct {
	Format string `json:"format" binding:"required"`
}

// Start queues an export of the registry as the session currently sees it.
func (h *ExportHandler) Start(c *gin.Context) {
	var req startExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	state := h.sessions.Get(sessionID(c))
	rows, err := h.registry.List(state.Filter, state.Sort)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	job, err := h.exports.Start(req.Format, rows)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusAccepted, job)
}

// List returns this process's jobs, newest first.
func (h *ExportHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.exports.List()})
}

// Get returns the state of one job.
func (h *ExportHandler) Get(c *gin.Context) {
	job, err := h.exports.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// Download streams the workbook of a finished Excel job.
func (h *ExportHandler) Download(c *gin.Context) {
	job, data, err := h.exports.Artifact(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+job.Filename+`"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// Archive lists archived jobs from storage. Without storage the list is empty.
func (h *ExportHandler) Archive(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusOK, gin.H{"items": []models.ExportRecord{}})
		return
	}

	limit := int64(20)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	records, err := h.archive.RecentExports(ctx, limit)
	if err != nil {
		h.logger.Error("failed to read export archive", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "export archive unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": records})
}
