package handlers

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/service/registry"
	"github.com/mamadbah2/promoboard/internal/service/session"
)

// PromotionHandler serves the registry tab.
type PromotionHandler struct {
	registry *registry.Service
	sessions *session.Manager
	logger   *zap.Logger
}

// NewPromotionHandler constructs the registry HTTP adapter.
func NewPromotionHandler(reg *registry.Service, sessions *session.Manager, logger *zap.Logger) *PromotionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PromotionHandler{registry: reg, sessions: sessions, logger: logger}
}

type listResponse struct {
	Items    []models.Promotion `json:"items"`
	Total    int                `json:"total"`
	Filter   registry.Filter    `json:"filter"`
	Sort     registry.Sort      `json:"sort"`
	Selected []string           `json:"selectedIds"`
}

type idsRequest struct {
	IDs []string `json:"ids"`
}

type sortRequest struct {
	Key string `json:"key" binding:"required"`
}

type bulkStatusRequest struct {
	IDs    []string               `json:"ids"`
	Status models.PromotionStatus `json:"status" binding:"required"`
}

// bulkPeriodRequest accepts explicit date changes or the two plain inputs of the
// dialog, where an empty input keeps the current value.
type bulkPeriodRequest struct {
	IDs       []string             `json:"ids"`
	Start     *registry.DateChange `json:"start"`
	End       *registry.DateChange `json:"end"`
	StartDate string               `json:"startDate"`
	EndDate   string               `json:"endDate"`
}

func (r bulkPeriodRequest) change() registry.PeriodChange {
	if r.Start == nil && r.End == nil {
		return registry.LegacyPeriodChange(r.StartDate, r.EndDate)
	}
	pc := registry.PeriodChange{
		Start: registry.DateChange{Mode: registry.DateKeep},
		End:   registry.DateChange{Mode: registry.DateKeep},
	}
	if r.Start != nil {
		pc.Start = *r.Start
	}
	if r.End != nil {
		pc.End = *r.End
	}
	return pc
}

var registryFilterKeys = []string{"status", "createdAt", "name", "periodFrom", "periodTo", "project", "type", "priority"}

// List returns the filtered and sorted registry. Filter or sort query parameters
// replace the matching part of the session view; without them the stored view is
// replayed.
func (h *PromotionHandler) List(c *gin.Context) {
	sid := sessionID(c)
	state := h.sessions.Get(sid)

	filterSet := hasQuery(c, registryFilterKeys...)
	sortSet := c.Query("sortKey") != ""
	if filterSet {
		var f registry.Filter
		if err := c.ShouldBindQuery(&f); err != nil {
			badRequest(c, h.logger, err)
			return
		}
		state.Filter = f
	}
	if sortSet {
		var s registry.Sort
		if err := c.ShouldBindQuery(&s); err != nil {
			badRequest(c, h.logger, err)
			return
		}
		if s.Order != registry.Asc {
			s.Order = registry.Desc
		}
		state.Sort = s
	}
	override := filterSet || sortSet

	items, err := h.registry.List(state.Filter, state.Sort)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if override {
		state, _ = h.sessions.Update(sid, func(v *session.ViewState) error {
			v.Filter = state.Filter
			v.Sort = state.Sort
			return nil
		})
	}

	c.JSON(http.StatusOK, listResponse{
		Items:    items,
		Total:    len(items),
		Filter:   state.Filter,
		Sort:     state.Sort,
		Selected: state.Selected,
	})
}

// Get returns one promotion.
func (h *PromotionHandler) Get(c *gin.Context) {
	p, err := h.registry.Get(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Save creates or updates a promotion from the form payload.
func (h *PromotionHandler) Save(c *gin.Context) {
	var in registry.PromotionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	// The grid selection supplies the units unless the payload lists them.
	if in.UnitIDs == nil {
		in.UnitIDs = []string(h.sessions.Get(sessionID(c)).Units)
	}

	p, created, err := h.registry.Save(in, userOf(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, p)
}

// Duplicate prepends a copy of the promotion.
func (h *PromotionHandler) Duplicate(c *gin.Context) {
	p, err := h.registry.Duplicate(c.Param("id"), userOf(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Delete removes a promotion. Unknown ids succeed with deleted=false.
func (h *PromotionHandler) Delete(c *gin.Context) {
	deleted := h.registry.Delete(c.Param("id"))
	if deleted {
		h.pruneSelections()
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// Toggle flips a promotion between active and archived.
func (h *PromotionHandler) Toggle(c *gin.Context) {
	p, err := h.registry.Toggle(c.Param("id"), userOf(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Select replaces the session's registry selection.
func (h *PromotionHandler) Select(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	state, _ := h.sessions.Update(sessionID(c), func(v *session.ViewState) error {
		v.Selected = make([]string, 0, len(req.IDs))
		for _, id := range req.IDs {
			if !slices.Contains(v.Selected, id) {
				v.Selected = append(v.Selected, id)
			}
		}
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"selectedIds": state.Selected})
}

// BulkStatus sets the status of the listed or selected promotions.
func (h *PromotionHandler) BulkStatus(c *gin.Context) {
	var req bulkStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	n, err := h.registry.BulkStatus(h.targets(c, req.IDs), req.Status, userOf(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.clearSelection(c)
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// BulkPeriod changes the period of the listed or selected promotions.
func (h *PromotionHandler) BulkPeriod(c *gin.Context) {
	var req bulkPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	n, err := h.registry.BulkPeriod(h.targets(c, req.IDs), req.change(), userOf(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.clearSelection(c)
	c.JSON(http.StatusOK, gin.H{"updated": n})
}

// BulkDelete removes the listed or selected promotions.
func (h *PromotionHandler) BulkDelete(c *gin.Context) {
	var req idsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	n := h.registry.BulkDelete(h.targets(c, req.IDs))
	if n > 0 {
		h.pruneSelections()
	}
	h.clearSelection(c)
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// Sort applies a registry header click to the session sort.
func (h *PromotionHandler) Sort(c *gin.Context) {
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if !slices.Contains(registry.SortKeys(), req.Key) {
		respondError(c, h.logger, fmt.Errorf("%w: %s", registry.ErrUnknownSortKey, req.Key))
		return
	}

	state, _ := h.sessions.Update(sessionID(c), func(v *session.ViewState) error {
		v.Sort = v.Sort.Toggle(req.Key)
		return nil
	})
	c.JSON(http.StatusOK, state.Sort)
}

// Options returns the filter dropdown values.
func (h *PromotionHandler) Options(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Options())
}

// Appearance returns the badge settings, creating defaults on first access.
func (h *PromotionHandler) Appearance(c *gin.Context) {
	a, err := h.registry.Appearance(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// SaveAppearance replaces the badge settings.
func (h *PromotionHandler) SaveAppearance(c *gin.Context) {
	var a models.AppearanceSettings
	if err := c.ShouldBindJSON(&a); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	if err := h.registry.SaveAppearance(c.Param("id"), a, userOf(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// targets falls back to the session selection when the body lists no ids.
func (h *PromotionHandler) targets(c *gin.Context, ids []string) []string {
	if len(ids) > 0 {
		return ids
	}
	return h.sessions.Get(sessionID(c)).Selected
}

func (h *PromotionHandler) pruneSelections() {
	h.sessions.PrunePromotions(func(id string) bool {
		_, err := h.registry.Get(id)
		return err == nil
	})
}

// clearSelection empties the session selection once a bulk action has applied.
func (h *PromotionHandler) clearSelection(c *gin.Context) {
	_, _ = h.sessions.Update(sessionID(c), func(v *session.ViewState) error {
		v.Selected = nil
		return nil
	})
}
