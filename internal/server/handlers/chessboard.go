package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/service/chessboard"
	"github.com/mamadbah2/promoboard/internal/service/pricing"
	"github.com/mamadbah2/promoboard/internal/service/registry"
	"github.com/mamadbah2/promoboard/internal/service/session"
)

// ChessboardHandler serves the unit selection grid and the unit lookups of the
// promotion form.
type ChessboardHandler struct {
	board    *chessboard.Board
	registry *registry.Service
	pricing  *pricing.Service
	sessions *session.Manager
	logger   *zap.Logger
}

// NewChessboardHandler constructs the chessboard HTTP adapter.
func NewChessboardHandler(board *chessboard.Board, reg *registry.Service, prices *pricing.Service, sessions *session.Manager, logger *zap.Logger) *ChessboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChessboardHandler{board: board, registry: reg, pricing: prices, sessions: sessions, logger: logger}
}

type selectionResponse struct {
	Selected chessboard.Selection `json:"selectedUnitIds"`
	Count    int                  `json:"count"`
	Added    *int                 `json:"added,omitempty"`
}

type toggleUnitRequest struct {
	UnitID string `json:"unitId" binding:"required"`
}

type rectRequest struct {
	Anchor  chessboard.Point `json:"anchor"`
	Current chessboard.Point `json:"current"`
}

type columnRequest struct {
	Section string `json:"section" binding:"required"`
	Stack   string `json:"stack" binding:"required"`
}

type rowRequest struct {
	Section string `json:"section" binding:"required"`
	Floor   int    `json:"floor" binding:"required,min=1"`
}

type loadRequest struct {
	PromotionID string `json:"promotionId" binding:"required"`
}

// Grid renders the chessboard for the session's project and selection. The
// heatmap query parameter switches the overlay and is remembered.
func (h *ChessboardHandler) Grid(c *gin.Context) {
	sid := sessionID(c)
	state := h.sessions.Get(sid)

	if raw, ok := c.GetQuery("heatmap"); ok {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, h.logger, err)
			return
		}
		state, _ = h.sessions.Update(sid, func(v *session.ViewState) error {
			v.Heatmap = on
			return nil
		})
	}

	c.JSON(http.StatusOK, h.board.Grid(state.Project, state.Units, h.registry.All(), state.Heatmap))
}

// Toggle flips one unit in the selection.
func (h *ChessboardHandler) Toggle(c *gin.Context) {
	var req toggleUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.apply(c, func(sel chessboard.Selection) (chessboard.Selection, *int) {
		return h.board.Toggle(sel, req.UnitID), nil
	})
}

// Rect adds every available unit under the dragged rectangle.
func (h *ChessboardHandler) Rect(c *gin.Context) {
	var req rectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	rect := chessboard.RectFromPoints(req.Anchor, req.Current)
	h.apply(c, func(sel chessboard.Selection) (chessboard.Selection, *int) {
		next, added := h.board.SelectRect(sel, rect)
		return next, &added
	})
}

// Column toggles one stack of a section.
func (h *ChessboardHandler) Column(c *gin.Context) {
	var req columnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.apply(c, func(sel chessboard.Selection) (chessboard.Selection, *int) {
		return h.board.ToggleColumn(sel, req.Section, req.Stack), nil
	})
}

// Row toggles one floor of a section.
func (h *ChessboardHandler) Row(c *gin.Context) {
	var req rowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	h.apply(c, func(sel chessboard.Selection) (chessboard.Selection, *int) {
		return h.board.ToggleRow(sel, req.Section, req.Floor), nil
	})
}

// All selects every available unit.
func (h *ChessboardHandler) All(c *gin.Context) {
	h.apply(c, func(chessboard.Selection) (chessboard.Selection, *int) {
		return h.board.SelectAll(), nil
	})
}

// Clear empties the selection.
func (h *ChessboardHandler) Clear(c *gin.Context) {
	h.apply(c, func(chessboard.Selection) (chessboard.Selection, *int) {
		return h.board.Clear(), nil
	})
}

// Load seeds the selection from a promotion's units.
func (h *ChessboardHandler) Load(c *gin.Context) {
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	p, err := h.registry.Get(req.PromotionID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.apply(c, func(chessboard.Selection) (chessboard.Selection, *int) {
		return h.board.FromPromotion(p), nil
	})
}

// Match counts the units satisfying the form criteria.
func (h *ChessboardHandler) Match(c *gin.Context) {
	var req chessboard.Criteria
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.board.Match(req))
}

// Price previews the adjusted price of a unit.
func (h *ChessboardHandler) Price(c *gin.Context) {
	q, err := h.pricing.Preview(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *ChessboardHandler) apply(c *gin.Context, fn func(chessboard.Selection) (chessboard.Selection, *int)) {
	var added *int
	state, _ := h.sessions.Update(sessionID(c), func(v *session.ViewState) error {
		v.Units, added = fn(v.Units)
		return nil
	})
	c.JSON(http.StatusOK, selectionResponse{Selected: state.Units, Count: len(state.Units), Added: added})
}
