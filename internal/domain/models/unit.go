package models

import (
	"fmt"
	"strings"
)

// UnitStatus enumerates the occupancy states of a sellable unit.
type UnitStatus string

const (
	UnitAvailable UnitStatus = "available"
	UnitReserved  UnitStatus = "reserved"
	UnitSold      UnitStatus = "sold"
)

var unitStatusLabels = map[UnitStatus]string{
	UnitAvailable: "Свободно",
	UnitReserved:  "Бронь",
	UnitSold:      "Продано",
}

// Label returns the dashboard caption for the status.
func (s UnitStatus) Label() string {
	if label, ok := unitStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// ParseUnitStatus accepts either the code or the dashboard caption.
func ParseUnitStatus(value string) (UnitStatus, bool) {
	value = strings.TrimSpace(value)
	for status, label := range unitStatusLabels {
		if value == string(status) || value == label {
			return status, true
		}
	}
	return "", false
}

// UnmarshalText decodes a status from its code or caption.
func (s *UnitStatus) UnmarshalText(text []byte) error {
	status, ok := ParseUnitStatus(string(text))
	if !ok {
		return fmt.Errorf("unknown unit status %q", text)
	}
	*s = status
	return nil
}

// Unit is a sellable apartment or commercial space with a fixed grid position.
type Unit struct {
	ID         string     `json:"id"`
	Number     string     `json:"number"`
	Floor      int        `json:"floor"`
	Rooms      int        `json:"rooms"`
	Area       float64    `json:"area"`
	Price      float64    `json:"price"`
	Status     UnitStatus `json:"status"`
	Section    string     `json:"section"`
	Popularity *int       `json:"popularity,omitempty"`
}

// Available reports whether the unit can be selected for a promotion.
func (u Unit) Available() bool {
	return u.Status == UnitAvailable
}

// HasStack reports whether the display number ends with the stack suffix.
func (u Unit) HasStack(stack string) bool {
	return stack != "" && strings.HasSuffix(u.Number, stack)
}

// RoomLabel renders the room count the way the promotion form lists it.
func (u Unit) RoomLabel() string {
	if u.Rooms == 0 {
		return "Студия"
	}
	return fmt.Sprintf("%d-к", u.Rooms)
}

// Building layout shared by the unit generator and the chessboard.
const FloorCount = 18

var (
	Sections = []string{"1", "2", "3"}
	Stacks   = []string{"01", "02", "03", "04"}
)
