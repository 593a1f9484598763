package pricing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// ErrUnknownUnit indicates the price preview was requested for a unit that does not exist.
var ErrUnknownUnit = errors.New("unknown unit")

var hundred = decimal.NewFromInt(100)

// Adjustment is the effect of one promotion on a unit price. Delta is signed.
type Adjustment struct {
	PromotionID string                `json:"promotionId"`
	Name        string                `json:"name"`
	Type        models.AdjustmentType `json:"adjustmentType"`
	Mode        models.AdjustmentMode `json:"adjustmentMode"`
	Value       float64               `json:"adjustmentValue"`
	Delta       decimal.Decimal       `json:"delta"`
}

// Quote is the price preview of a unit.
type Quote struct {
	UnitID      string          `json:"unitId"`
	BasePrice   decimal.Decimal `json:"basePrice"`
	FinalPrice  decimal.Decimal `json:"finalPrice"`
	Adjustments []Adjustment    `json:"adjustments"`
	Capped      bool            `json:"capped"`
}

// Delta computes the signed price change one promotion causes on a unit.
// Gifts of every n-th square metre always lower the price.
func Delta(u models.Unit, p models.Promotion) decimal.Decimal {
	price := decimal.NewFromFloat(u.Price)
	area := decimal.NewFromFloat(u.Area)
	value := decimal.NewFromFloat(p.AdjustmentValue)

	var amount decimal.Decimal
	switch p.AdjustmentType {
	case models.AdjustPercentOfCost:
		amount = price.Mul(value).Div(hundred)
	case models.AdjustPercentOfAreaCost:
		if area.IsZero() {
			return decimal.Zero
		}
		amount = price.Div(area).Mul(value).Div(hundred).Mul(area)
	case models.AdjustFixedToCost:
		amount = value
	case models.AdjustFixedToAreaCost:
		amount = value.Mul(area)
	case models.AdjustNthAreaUnitGift:
		if area.IsZero() || value.IsZero() {
			return decimal.Zero
		}
		return area.Div(value).Floor().Mul(price.Div(area)).Neg()
	default:
		return decimal.Zero
	}

	if p.AdjustmentMode == models.ModeIncrease {
		return amount
	}
	return amount.Neg()
}

// Applicable orders the active, price-affecting promotions targeting the unit and
// keeps the ones that combine: the highest priority always applies, the rest only
// when both it and they are stackable.
func Applicable(unitID string, promotions []models.Promotion) []models.Promotion {
	var candidates []models.Promotion
	for _, p := range promotions {
		if p.Active() && p.AdjustmentType.Valid() && p.Targets(unitID) {
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})

	primary := candidates[0]
	out := []models.Promotion{primary}
	if !primary.Stackable {
		return out
	}
	for _, p := range candidates[1:] {
		if p.Stackable {
			out = append(out, p)
		}
	}
	return out
}

// Calculate previews the price of u under the given promotions. The cap of the
// leading promotion limits the combined discount, and the price never drops below zero.
func Calculate(u models.Unit, promotions []models.Promotion) Quote {
	base := decimal.NewFromFloat(u.Price)
	q := Quote{UnitID: u.ID, BasePrice: base, Adjustments: []Adjustment{}}

	applied := Applicable(u.ID, promotions)
	final := base
	for _, p := range applied {
		d := Delta(u, p)
		final = final.Add(d)
		q.Adjustments = append(q.Adjustments, Adjustment{
			PromotionID: p.ID,
			Name:        p.Name,
			Type:        p.AdjustmentType,
			Mode:        p.AdjustmentMode,
			Value:       p.AdjustmentValue,
			Delta:       d.Round(2),
		})
	}

	if len(applied) > 0 && applied[0].MaxTotalDiscount != nil {
		limit := base.Mul(decimal.NewFromFloat(*applied[0].MaxTotalDiscount)).Div(hundred)
		if base.Sub(final).GreaterThan(limit) {
			final = base.Sub(limit)
			q.Capped = true
		}
	}
	if final.IsNegative() {
		final = decimal.Zero
	}
	q.FinalPrice = final.Round(2)
	return q
}

// UnitSource resolves units by id.
type UnitSource interface {
	Get(id string) (models.Unit, bool)
}

// PromotionSource lists the registry.
type PromotionSource interface {
	All() []models.Promotion
}

// Service serves price previews.
type Service struct {
	units      UnitSource
	promotions PromotionSource
	logger     *zap.Logger
}

// NewService wires a price preview service.
func NewService(units UnitSource, promotions PromotionSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{units: units, promotions: promotions, logger: logger}
}

// Preview quotes the unit under the current registry.
func (s *Service) Preview(unitID string) (Quote, error) {
	u, ok := s.units.Get(unitID)
	if !ok {
		return Quote{}, fmt.Errorf("%w: %s", ErrUnknownUnit, unitID)
	}
	q := Calculate(u, s.promotions.All())
	s.logger.Debug("price preview",
		zap.String("unit", unitID),
		zap.String("base", q.BasePrice.String()),
		zap.String("final", q.FinalPrice.String()),
		zap.Int("adjustments", len(q.Adjustments)))
	return q, nil
}
