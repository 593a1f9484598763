package chessboard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// Board answers selection and rendering questions over the fixed unit layout.
type Board struct {
	units  []models.Unit
	byID   map[string]models.Unit
	byCell map[string]models.Unit
	layout Layout
	logger *zap.Logger
}

// NewBoard indexes the units by id and by grid position.
func NewBoard(units []models.Unit, layout Layout, logger *zap.Logger) *Board {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Board{
		units:  append([]models.Unit(nil), units...),
		byID:   make(map[string]models.Unit, len(units)),
		byCell: make(map[string]models.Unit, len(units)),
		layout: layout,
		logger: logger,
	}
	for _, u := range b.units {
		b.byID[u.ID] = u
		if st, ok := stackOf(u); ok {
			key := cellKey(u.Section, u.Floor, st)
			if _, taken := b.byCell[key]; !taken {
				b.byCell[key] = u
			}
		}
	}
	return b
}

func cellKey(section string, floor int, stack string) string {
	return fmt.Sprintf("%s/%d/%s", section, floor, stack)
}

// Layout returns the pixel metrics the board was built with.
func (b *Board) Layout() Layout { return b.layout }

// UnitAt looks a unit up by grid position.
func (b *Board) UnitAt(section string, floor int, stack string) (models.Unit, bool) {
	u, ok := b.byCell[cellKey(section, floor, stack)]
	return u, ok
}

// Unit looks a unit up by id.
func (b *Board) Unit(id string) (models.Unit, bool) {
	u, ok := b.byID[id]
	return u, ok
}

// Units returns every unit in generation order.
func (b *Board) Units() []models.Unit {
	return append([]models.Unit(nil), b.units...)
}

// Toggle flips the membership of one unit. Units that are not available are ignored.
func (b *Board) Toggle(sel Selection, id string) Selection {
	u, ok := b.byID[id]
	if !ok || !u.Available() {
		b.logger.Debug("toggle ignored", zap.String("unit", id), zap.Bool("known", ok))
		return sel.Union()
	}
	if sel.Contains(id) {
		return sel.Without(id)
	}
	return sel.Union(id)
}

// SelectRect adds every available unit whose cell overlaps rect. It never removes.
func (b *Board) SelectRect(sel Selection, rect Rect) (Selection, int) {
	var hits []string
	for _, u := range b.units {
		if !u.Available() {
			continue
		}
		st, ok := stackOf(u)
		if !ok {
			continue
		}
		cell, ok := b.layout.CellRect(u.Section, u.Floor, st)
		if !ok || !cell.Overlaps(rect) {
			continue
		}
		hits = append(hits, u.ID)
	}
	out := sel.Union(hits...)
	return out, len(out) - len(sel.Union())
}

// ToggleColumn selects or deselects the available units of one stack in a section.
func (b *Board) ToggleColumn(sel Selection, section, stack string) Selection {
	return sel.toggleGroup(b.columnIDs(section, stack))
}

// ToggleRow selects or deselects the available units of one floor in a section.
func (b *Board) ToggleRow(sel Selection, section string, floor int) Selection {
	return sel.toggleGroup(b.rowIDs(section, floor))
}

// SelectAll replaces the selection with every available unit.
func (b *Board) SelectAll() Selection {
	return Selection(availableIDs(b.units, func(models.Unit) bool { return true })).Union()
}

// Clear returns an empty selection.
func (b *Board) Clear() Selection {
	return Selection{}
}

// FromPromotion seeds a selection with the units a promotion targets. Unknown ids are dropped.
func (b *Board) FromPromotion(p models.Promotion) Selection {
	var ids []string
	for _, id := range p.UnitIDs {
		if _, ok := b.byID[id]; ok {
			ids = append(ids, id)
		}
	}
	return Selection{}.Union(ids...)
}

func (b *Board) columnIDs(section, stack string) []string {
	return availableIDs(b.units, func(u models.Unit) bool {
		return u.Section == section && u.HasStack(stack)
	})
}

func (b *Board) rowIDs(section string, floor int) []string {
	return availableIDs(b.units, func(u models.Unit) bool {
		return u.Section == section && u.Floor == floor
	})
}
