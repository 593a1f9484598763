package models

import (
	"slices"
	"strings"
	"time"
)

// DateLayout is the ISO calendar layout used for every promotion date field.
const DateLayout = "2006-01-02"

// CopyMarker is appended to the name of a duplicated promotion.
const CopyMarker = "(копия)"

// PromotionStatus enumerates the promotion lifecycle states.
type PromotionStatus string

const (
	StatusActive        PromotionStatus = "active"
	StatusArchived      PromotionStatus = "archived"
	StatusDraft         PromotionStatus = "draft"
	StatusPendingReview PromotionStatus = "pending_review"
)

// PromotionStatuses lists the statuses in the order the bulk dialog offers them.
var PromotionStatuses = []PromotionStatus{StatusActive, StatusArchived, StatusDraft, StatusPendingReview}

var promotionStatusLabels = map[PromotionStatus]string{
	StatusActive:        "Активна",
	StatusArchived:      "Архив",
	StatusDraft:         "Черновик",
	StatusPendingReview: "На проверке",
}

// Label returns the dashboard caption.
func (s PromotionStatus) Label() string {
	if label, ok := promotionStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is a known status.
func (s PromotionStatus) Valid() bool {
	_, ok := promotionStatusLabels[s]
	return ok
}

// PromotionType enumerates the kinds of promotions.
type PromotionType string

const (
	TypeDiscount       PromotionType = "discount"
	TypeGift           PromotionType = "gift"
	TypeExtraAreaGift  PromotionType = "extra_area_gift"
	TypeFlatOfTheMonth PromotionType = "flat_of_month"
)

// PromotionTypes lists every promotion type.
var PromotionTypes = []PromotionType{TypeDiscount, TypeGift, TypeExtraAreaGift, TypeFlatOfTheMonth}

var promotionTypeLabels = map[PromotionType]string{
	TypeDiscount:       "Скидка",
	TypeGift:           "Подарок за покупку",
	TypeExtraAreaGift:  "м² в подарок",
	TypeFlatOfTheMonth: "Квартира месяца",
}

// Label returns the dashboard caption.
func (t PromotionType) Label() string {
	if label, ok := promotionTypeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Valid reports whether t is a known type.
func (t PromotionType) Valid() bool {
	_, ok := promotionTypeLabels[t]
	return ok
}

// AdjustmentType describes how the adjustment value is applied to a unit price.
type AdjustmentType string

const (
	AdjustPercentOfCost     AdjustmentType = "percent_of_cost"
	AdjustPercentOfAreaCost AdjustmentType = "percent_of_area_cost"
	AdjustFixedToCost       AdjustmentType = "fixed_to_cost"
	AdjustFixedToAreaCost   AdjustmentType = "fixed_to_area_cost"
	AdjustNthAreaUnitGift   AdjustmentType = "nth_area_unit_gift"
)

var adjustmentTypeLabels = map[AdjustmentType]string{
	AdjustPercentOfCost:     "% от стоимости",
	AdjustPercentOfAreaCost: "% от квадратного метра",
	AdjustFixedToCost:       "фиксированная сумма к стоимости",
	AdjustFixedToAreaCost:   "фиксированная сумма к стоимости за м²",
	AdjustNthAreaUnitGift:   "каждый n м² в подарок",
}

// Label returns the dashboard caption.
func (a AdjustmentType) Label() string {
	if label, ok := adjustmentTypeLabels[a]; ok {
		return label
	}
	return string(a)
}

// Valid reports whether a is a known adjustment type.
func (a AdjustmentType) Valid() bool {
	_, ok := adjustmentTypeLabels[a]
	return ok
}

// Percent reports whether the value is a percentage rather than a currency amount.
func (a AdjustmentType) Percent() bool {
	return a == AdjustPercentOfCost || a == AdjustPercentOfAreaCost
}

// AdjustmentMode is the direction of the price effect.
type AdjustmentMode string

const (
	ModeIncrease AdjustmentMode = "increase"
	ModeDecrease AdjustmentMode = "decrease"
)

// Valid reports whether m is a known direction.
func (m AdjustmentMode) Valid() bool {
	return m == ModeIncrease || m == ModeDecrease
}

// AuditEntry records one change applied to a promotion.
type AuditEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Action    string    `json:"action"`
	Changes   string    `json:"changes,omitempty"`
}

// Promotion is a time-boxed price or marketing adjustment over a set of units.
type Promotion struct {
	ID               string              `json:"id"`
	Name             string              `json:"name"`
	Description      string              `json:"description,omitempty"`
	Project          string              `json:"project"`
	Section          string              `json:"section,omitempty"`
	RoomTypes        []string            `json:"roomTypes,omitempty"`
	Status           PromotionStatus     `json:"status"`
	Type             PromotionType       `json:"type"`
	AdjustmentType   AdjustmentType      `json:"adjustmentType,omitempty"`
	AdjustmentValue  float64             `json:"adjustmentValue"`
	AdjustmentMode   AdjustmentMode      `json:"adjustmentMode"`
	StartDate        string              `json:"startDate"`
	EndDate          string              `json:"endDate,omitempty"`
	UnitIDs          []string            `json:"unitIds"`
	Priority         int                 `json:"priority"`
	Stackable        bool                `json:"isStackable"`
	MaxTotalDiscount *float64            `json:"maxTotalDiscount,omitempty"`
	Link             string              `json:"link,omitempty"`
	ShowOnDomclick   bool                `json:"showOnDomclick,omitempty"`
	CreatedAt        string              `json:"createdAt"`
	Appearance       *AppearanceSettings `json:"appearance,omitempty"`
	AuditLog         []AuditEntry        `json:"auditLog,omitempty"`
}

// Active reports whether the promotion is in the active lifecycle state.
func (p Promotion) Active() bool {
	return p.Status == StatusActive
}

// Targets reports whether the promotion applies to the unit.
func (p Promotion) Targets(unitID string) bool {
	for _, id := range p.UnitIDs {
		if id == unitID {
			return true
		}
	}
	return false
}

// CopyName returns the name a duplicate of p carries. The marker is never doubled.
func (p Promotion) CopyName() string {
	if strings.Contains(p.Name, CopyMarker) {
		return p.Name
	}
	return p.Name + " " + CopyMarker
}

// Clone returns a deep copy so callers never alias registry-owned slices.
func (p Promotion) Clone() Promotion {
	out := p
	out.RoomTypes = slices.Clone(p.RoomTypes)
	out.UnitIDs = slices.Clone(p.UnitIDs)
	if out.UnitIDs == nil {
		out.UnitIDs = []string{}
	}
	out.AuditLog = slices.Clone(p.AuditLog)
	if p.MaxTotalDiscount != nil {
		v := *p.MaxTotalDiscount
		out.MaxTotalDiscount = &v
	}
	if p.Appearance != nil {
		a := *p.Appearance
		out.Appearance = &a
	}
	return out
}
