package registry

import (
	"fmt"
	"strings"
)

// DateMode says what a bulk period change does with one date field.
type DateMode string

const (
	DateKeep  DateMode = "keep"
	DateSet   DateMode = "set"
	DateClear DateMode = "clear"
)

// DateChange is the requested change of one date field.
type DateChange struct {
	Mode  DateMode `json:"mode"`
	Value string   `json:"value"`
}

// PeriodChange is the bulk period dialog payload.
type PeriodChange struct {
	Start DateChange `json:"start"`
	End   DateChange `json:"end"`
}

// LegacyPeriodChange maps the two-input dialog onto explicit changes: an empty
// input leaves the field unchanged.
func LegacyPeriodChange(start, end string) PeriodChange {
	return PeriodChange{Start: legacyDate(start), End: legacyDate(end)}
}

func legacyDate(value string) DateChange {
	if strings.TrimSpace(value) == "" {
		return DateChange{Mode: DateKeep}
	}
	return DateChange{Mode: DateSet, Value: strings.TrimSpace(value)}
}

func (c DateChange) normalize() (DateChange, error) {
	c.Value = strings.TrimSpace(c.Value)
	if c.Mode == "" {
		if c.Value == "" {
			c.Mode = DateKeep
		} else {
			c.Mode = DateSet
		}
	}
	switch c.Mode {
	case DateKeep, DateClear:
		c.Value = ""
	case DateSet:
		if c.Value == "" {
			return DateChange{}, fmt.Errorf("%w: date value required for mode set", ErrInvalidInput)
		}
		if err := validDate(c.Value); err != nil {
			return DateChange{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	default:
		return DateChange{}, fmt.Errorf("%w: unknown date mode %q", ErrInvalidInput, c.Mode)
	}
	return c, nil
}

func (c DateChange) apply(current string) string {
	switch c.Mode {
	case DateSet:
		return c.Value
	case DateClear:
		return ""
	default:
		return current
	}
}

// Normalize validates the change. Start dates are required and cannot be cleared.
func (pc PeriodChange) Normalize() (PeriodChange, error) {
	start, err := pc.Start.normalize()
	if err != nil {
		return PeriodChange{}, err
	}
	if start.Mode == DateClear {
		return PeriodChange{}, fmt.Errorf("%w: start date cannot be cleared", ErrInvalidInput)
	}
	end, err := pc.End.normalize()
	if err != nil {
		return PeriodChange{}, err
	}
	return PeriodChange{Start: start, End: end}, nil
}

// NoOp reports whether the change leaves both fields untouched.
func (pc PeriodChange) NoOp() bool {
	return pc.Start.Mode == DateKeep && pc.End.Mode == DateKeep
}
