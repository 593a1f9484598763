package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/service/analytics"
	"github.com/mamadbah2/promoboard/internal/service/session"
)

// AnalyticsHandler serves the analytics tab.
type AnalyticsHandler struct {
	analytics *analytics.Service
	sessions  *session.Manager
	logger    *zap.Logger
}

// NewAnalyticsHandler constructs the analytics HTTP adapter.
func NewAnalyticsHandler(svc *analytics.Service, sessions *session.Manager, logger *zap.Logger) *AnalyticsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalyticsHandler{analytics: svc, sessions: sessions, logger: logger}
}

type unitRequest struct {
	Unit models.MetricUnit `json:"unit" binding:"required"`
}

type rangeRequest struct {
	Range models.ChartRange `json:"range" binding:"required"`
}

var analyticsFilterKeys = []string{"promoId", "project", "type", "dateFrom", "dateTo"}

// Report returns rows, KPIs and charts. Filter query parameters replace the
// session filter; a range parameter switches the chart granularity.
func (h *AnalyticsHandler) Report(c *gin.Context) {
	filterSet := hasQuery(c, analyticsFilterKeys...)
	r := c.Query("range")

	var f analytics.Filter
	if filterSet {
		if err := c.ShouldBindQuery(&f); err != nil {
			badRequest(c, h.logger, err)
			return
		}
	}

	state, err := h.sessions.Update(sessionID(c), func(v *session.ViewState) error {
		if filterSet {
			v.Analytics.Filter = f
		}
		if r != "" {
			next, err := h.analytics.ChangeRange(v.Analytics, models.ChartRange(r))
			if err != nil {
				return err
			}
			v.Analytics = next
		}
		return nil
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.analytics.Report(state.Analytics)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Sort applies an analytics header click.
func (h *AnalyticsHandler) Sort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.update(c, func(st analytics.State) (analytics.State, error) {
		return h.analytics.ClickSort(st, req.Key)
	})
}

// Unit switches the metric unit of the charts.
func (h *AnalyticsHandler) Unit(c *gin.Context) {
	var req unitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.update(c, func(st analytics.State) (analytics.State, error) {
		return h.analytics.ChangeUnit(st, req.Unit)
	})
}

// Range switches the chart granularity.
func (h *AnalyticsHandler) Range(c *gin.Context) {
	var req rangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.update(c, func(st analytics.State) (analytics.State, error) {
		return h.analytics.ChangeRange(st, req.Range)
	})
}

func (h *AnalyticsHandler) update(c *gin.Context, fn func(analytics.State) (analytics.State, error)) {
	state, err := h.sessions.Update(sessionID(c), func(v *session.ViewState) error {
		next, err := fn(v.Analytics)
		if err != nil {
			return err
		}
		v.Analytics = next
		return nil
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	report, err := h.analytics.Report(state.Analytics)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
