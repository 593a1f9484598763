package chessboard

import (
	"math"
	"slices"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// Point is a position in the scrollable grid's content coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned box in content coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// RectFromPoints builds the drag rectangle spanned by the press anchor and the
// current pointer position. Width and height are never negative.
func RectFromPoints(anchor, current Point) Rect {
	return Rect{
		Left:   math.Min(anchor.X, current.X),
		Top:    math.Min(anchor.Y, current.Y),
		Right:  math.Max(anchor.X, current.X),
		Bottom: math.Max(anchor.Y, current.Y),
	}
}

// Width of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height of the rectangle.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Overlaps is the strict intersection test; touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Left < o.Right && r.Right > o.Left && r.Top < o.Bottom && r.Bottom > o.Top
}

// Layout holds the pixel metrics of the rendered grid. Padding applies to the sides
// and bottom, PaddingTop above the first floor. Sections sit side by side,
// floors run top to bottom from the highest floor down.
type Layout struct {
	HeaderHeight    float64 `json:"headerHeight"`
	Padding         float64 `json:"padding"`
	PaddingTop      float64 `json:"paddingTop"`
	FloorLabelWidth float64 `json:"floorLabelWidth"`
	SectionPadding  float64 `json:"sectionPadding"`
	SectionBorder   float64 `json:"sectionBorder"`
	RowToggleWidth  float64 `json:"rowToggleWidth"`
	CellSize        float64 `json:"cellSize"`
	Gap             float64 `json:"gap"`
	RowSpacing      float64 `json:"rowSpacing"`
}

// DefaultLayout matches the dashboard stylesheet.
func DefaultLayout() Layout {
	return Layout{
		HeaderHeight:    96,
		Padding:         32,
		PaddingTop:      16,
		FloorLabelWidth: 80,
		SectionPadding:  24,
		SectionBorder:   1,
		RowToggleWidth:  24,
		CellSize:        56,
		Gap:             8,
		RowSpacing:      8,
	}
}

// SectionWidth is the horizontal extent of one section block.
func (l Layout) SectionWidth() float64 {
	stacks := float64(len(models.Stacks))
	return 2*l.SectionPadding + l.RowToggleWidth + stacks*(l.Gap+l.CellSize) + l.SectionBorder
}

// CellRect returns the box of the cell at the given section, floor and stack
// position. ok is false when the coordinates fall outside the building.
func (l Layout) CellRect(section string, floor int, stack string) (Rect, bool) {
	si := slices.Index(models.Sections, section)
	ki := slices.Index(models.Stacks, stack)
	if si < 0 || ki < 0 || floor < 1 || floor > models.FloorCount {
		return Rect{}, false
	}

	left := l.Padding + l.FloorLabelWidth + float64(si)*l.SectionWidth() +
		l.SectionPadding + l.RowToggleWidth + l.Gap + float64(ki)*(l.CellSize+l.Gap)
	row := models.FloorCount - floor
	top := l.HeaderHeight + l.PaddingTop + float64(row)*(l.CellSize+l.RowSpacing)

	return Rect{Left: left, Top: top, Right: left + l.CellSize, Bottom: top + l.CellSize}, true
}

// Bounds is the content size of the whole grid.
func (l Layout) Bounds() Rect {
	width := 2*l.Padding + l.FloorLabelWidth + float64(len(models.Sections))*l.SectionWidth()
	height := l.HeaderHeight + l.PaddingTop + float64(models.FloorCount)*(l.CellSize+l.RowSpacing) + l.Padding
	return Rect{Right: width, Bottom: height}
}
