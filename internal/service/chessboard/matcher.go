package chessboard

import (
	"slices"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// Criteria narrows units the way the promotion form does. Empty fields do not constrain.
type Criteria struct {
	Sections  []string            `json:"sections"`
	RoomTypes []string            `json:"roomTypes"`
	AreaMin   *float64            `json:"areaMin" binding:"omitempty,gte=0"`
	AreaMax   *float64            `json:"areaMax" binding:"omitempty,gte=0"`
	Statuses  []models.UnitStatus `json:"statuses"`
}

// Match reports whether u satisfies every non-empty criterion.
func (c Criteria) Match(u models.Unit) bool {
	if len(c.Sections) > 0 && !slices.Contains(c.Sections, u.Section) {
		return false
	}
	if len(c.RoomTypes) > 0 && !slices.Contains(c.RoomTypes, u.RoomLabel()) {
		return false
	}
	if c.AreaMin != nil && u.Area < *c.AreaMin {
		return false
	}
	if c.AreaMax != nil && u.Area > *c.AreaMax {
		return false
	}
	if len(c.Statuses) > 0 && !slices.Contains(c.Statuses, u.Status) {
		return false
	}
	return true
}

// MatchResult lists the matching units.
type MatchResult struct {
	Count int      `json:"count"`
	IDs   []string `json:"ids"`
}

// Match returns the units satisfying c in generation order.
func (b *Board) Match(c Criteria) MatchResult {
	res := MatchResult{IDs: []string{}}
	for _, u := range b.units {
		if c.Match(u) {
			res.IDs = append(res.IDs, u.ID)
		}
	}
	res.Count = len(res.IDs)
	return res
}
