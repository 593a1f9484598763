package chessboard

import (
	"strconv"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// Heat buckets of the popularity overlay.
const (
	HeatHot  = "hot"
	HeatWarm = "warm"
	HeatMild = "mild"
	HeatCold = "cold"
)

// HeatBucket classifies a popularity score. Units without a score are cold.
func HeatBucket(popularity *int) string {
	score := 0
	if popularity != nil {
		score = *popularity
	}
	switch {
	case score > 80:
		return HeatHot
	case score > 50:
		return HeatWarm
	case score > 20:
		return HeatMild
	default:
		return HeatCold
	}
}

// Badge is the promotion marker drawn on a unit.
type Badge struct {
	PromotionID string                    `json:"promotionId"`
	Name        string                    `json:"name"`
	Priority    int                       `json:"priority"`
	Visible     bool                      `json:"visible"`
	Appearance  models.AppearanceSettings `json:"appearance"`
}

// Winners maps each unit id to the index of the active promotion with the highest
// priority targeting it. Ties go to the promotion that comes first.
func Winners(promotions []models.Promotion) map[string]int {
	out := make(map[string]int)
	for i, p := range promotions {
		if !p.Active() {
			continue
		}
		for _, id := range p.UnitIDs {
			if cur, ok := out[id]; !ok || p.Priority > promotions[cur].Priority {
				out[id] = i
			}
		}
	}
	return out
}

func badgeOf(p models.Promotion) *Badge {
	appearance := models.DefaultAppearance()
	if p.Appearance != nil {
		appearance = *p.Appearance
	}
	return &Badge{
		PromotionID: p.ID,
		Name:        p.Name,
		Priority:    p.Priority,
		Visible:     appearance.ActiveInCRM,
		Appearance:  appearance,
	}
}

// Cell is one grid position. Placeholder cells have no unit.
type Cell struct {
	Section     string       `json:"section"`
	Floor       int          `json:"floor"`
	Stack       string       `json:"stack"`
	Placeholder bool         `json:"placeholder"`
	Unit        *models.Unit `json:"unit,omitempty"`
	StatusLabel string       `json:"statusLabel,omitempty"`
	Selectable  bool         `json:"selectable"`
	Selected    bool         `json:"selected"`
	Heat        string       `json:"heat,omitempty"`
	Badge       *Badge       `json:"badge,omitempty"`
	Rect        Rect         `json:"rect"`
}

// RowGroup is one floor within one section, with its row toggle state.
type RowGroup struct {
	Section string `json:"section"`
	Marked  bool   `json:"marked"`
	Cells   []Cell `json:"cells"`
}

// FloorRow is a rendered floor across every section.
type FloorRow struct {
	Floor  int        `json:"floor"`
	Label  string     `json:"label"`
	Groups []RowGroup `json:"groups"`
}

// Column is a stack header with its column toggle state.
type Column struct {
	Stack  string `json:"stack"`
	Marked bool   `json:"marked"`
}

// SectionHeader is the header block of one section.
type SectionHeader struct {
	Section string   `json:"section"`
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
}

// Grid is the full chessboard view.
type Grid struct {
	Project       string          `json:"project"`
	Heatmap       bool            `json:"heatmap"`
	Layout        Layout          `json:"layout"`
	Bounds        Rect            `json:"bounds"`
	Sections      []SectionHeader `json:"sections"`
	Floors        []FloorRow      `json:"floors"`
	SelectedCount int             `json:"selectedCount"`
	Available     int             `json:"available"`
}

// Grid renders every section, floor and stack. Floors are listed from the top down.
func (b *Board) Grid(project string, sel Selection, promotions []models.Promotion, heatmap bool) Grid {
	winners := Winners(promotions)

	g := Grid{
		Project:       project,
		Heatmap:       heatmap,
		Layout:        b.layout,
		Bounds:        b.layout.Bounds(),
		SelectedCount: len(sel.Union()),
		Available:     len(availableIDs(b.units, func(models.Unit) bool { return true })),
	}

	for _, section := range models.Sections {
		header := SectionHeader{Section: section, Title: "Секция " + section}
		for _, stack := range models.Stacks {
			header.Columns = append(header.Columns, Column{
				Stack:  stack,
				Marked: sel.ContainsAll(b.columnIDs(section, stack)),
			})
		}
		g.Sections = append(g.Sections, header)
	}

	for floor := models.FloorCount; floor >= 1; floor-- {
		row := FloorRow{Floor: floor, Label: floorLabel(floor)}
		for _, section := range models.Sections {
			group := RowGroup{Section: section, Marked: sel.ContainsAll(b.rowIDs(section, floor))}
			for _, stack := range models.Stacks {
				group.Cells = append(group.Cells, b.cell(section, floor, stack, sel, promotions, winners, heatmap))
			}
			row.Groups = append(row.Groups, group)
		}
		g.Floors = append(g.Floors, row)
	}

	return g
}

func (b *Board) cell(section string, floor int, stack string, sel Selection, promotions []models.Promotion, winners map[string]int, heatmap bool) Cell {
	rect, _ := b.layout.CellRect(section, floor, stack)
	c := Cell{Section: section, Floor: floor, Stack: stack, Rect: rect}

	u, ok := b.UnitAt(section, floor, stack)
	if !ok {
		c.Placeholder = true
		return c
	}

	c.Unit = &u
	c.StatusLabel = u.Status.Label()
	c.Selectable = u.Available()
	c.Selected = sel.Contains(u.ID)
	if heatmap {
		c.Heat = HeatBucket(u.Popularity)
	}
	if i, ok := winners[u.ID]; ok {
		c.Badge = badgeOf(promotions[i])
	}
	return c
}

func floorLabel(floor int) string {
	return strconv.Itoa(floor) + " эт."
}
