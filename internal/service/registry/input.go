package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// DefaultName is given to promotions saved without a name.
const DefaultName = "Новая акция"

// UnitSource resolves unit identifiers.
type UnitSource interface {
	Exists(id string) bool
}

// PromotionInput is the payload of the promotion form. Build turns it into a
// fully populated Promotion or rejects it.
type PromotionInput struct {
	ID               string                     `json:"id"`
	Name             string                     `json:"name" binding:"max=200"`
	Description      string                     `json:"description" binding:"max=1000"`
	Project          string                     `json:"project"`
	Section          string                     `json:"section"`
	RoomTypes        []string                   `json:"roomTypes"`
	Type             models.PromotionType       `json:"type" binding:"required"`
	AdjustmentType   models.AdjustmentType      `json:"adjustmentType"`
	AdjustmentValue  *float64                   `json:"adjustmentValue" binding:"required,gte=0"`
	AdjustmentMode   models.AdjustmentMode      `json:"adjustmentMode"`
	StartDate        string                     `json:"startDate"`
	EndDate          string                     `json:"endDate"`
	UnitIDs          []string                   `json:"unitIds"`
	Priority         int                        `json:"priority" binding:"required,min=1,max=10"`
	Stackable        bool                       `json:"isStackable"`
	MaxTotalDiscount *float64                   `json:"maxTotalDiscount" binding:"omitempty,gte=0,lte=100"`
	Link             string                     `json:"link" binding:"omitempty,url"`
	ShowOnDomclick   bool                       `json:"showOnDomclick"`
	CreatedAt        string                     `json:"createdAt"`
	Appearance       *models.AppearanceSettings `json:"appearance"`
}

// Defaults are the values a saved promotion falls back to.
type Defaults struct {
	Project string
	Today   time.Time
}

// Build validates the input and fills in defaults. It does not assign an id.
func (in PromotionInput) Build(d Defaults, units UnitSource) (models.Promotion, error) {
	today := d.Today.Format(models.DateLayout)

	p := models.Promotion{
		ID:             strings.TrimSpace(in.ID),
		Name:           strings.TrimSpace(in.Name),
		Description:    strings.TrimSpace(in.Description),
		Project:        strings.TrimSpace(in.Project),
		Section:        in.Section,
		RoomTypes:      append([]string(nil), in.RoomTypes...),
		Status:         models.StatusActive,
		Type:           in.Type,
		AdjustmentType: in.AdjustmentType,
		AdjustmentMode: in.AdjustmentMode,
		StartDate:      strings.TrimSpace(in.StartDate),
		EndDate:        strings.TrimSpace(in.EndDate),
		Priority:       in.Priority,
		Stackable:      in.Stackable,
		Link:           strings.TrimSpace(in.Link),
		ShowOnDomclick: in.ShowOnDomclick,
		CreatedAt:      strings.TrimSpace(in.CreatedAt),
	}

	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Project == "" {
		p.Project = d.Project
	}
	if p.AdjustmentMode == "" {
		p.AdjustmentMode = models.ModeDecrease
	}
	if p.StartDate == "" {
		p.StartDate = today
	}
	if p.CreatedAt == "" {
		p.CreatedAt = today
	}

	if !p.Type.Valid() {
		return models.Promotion{}, fmt.Errorf("%w: unknown type %q", ErrInvalidInput, p.Type)
	}
	if p.AdjustmentType != "" && !p.AdjustmentType.Valid() {
		return models.Promotion{}, fmt.Errorf("%w: unknown adjustment type %q", ErrInvalidInput, p.AdjustmentType)
	}
	if !p.AdjustmentMode.Valid() {
		return models.Promotion{}, fmt.Errorf("%w: unknown adjustment mode %q", ErrInvalidInput, p.AdjustmentMode)
	}
	if in.AdjustmentValue == nil || *in.AdjustmentValue < 0 {
		return models.Promotion{}, fmt.Errorf("%w: adjustment value must be non-negative", ErrInvalidInput)
	}
	p.AdjustmentValue = *in.AdjustmentValue
	if p.AdjustmentType == models.AdjustNthAreaUnitGift && p.AdjustmentValue == 0 {
		return models.Promotion{}, fmt.Errorf("%w: every n-th m² gift needs n > 0", ErrInvalidInput)
	}
	if p.Priority < 1 || p.Priority > 10 {
		return models.Promotion{}, fmt.Errorf("%w: priority must be within 1..10", ErrInvalidInput)
	}
	if in.MaxTotalDiscount != nil {
		if *in.MaxTotalDiscount < 0 || *in.MaxTotalDiscount > 100 {
			return models.Promotion{}, fmt.Errorf("%w: max total discount must be within 0..100", ErrInvalidInput)
		}
		v := *in.MaxTotalDiscount
		p.MaxTotalDiscount = &v
	}

	for field, value := range map[string]string{"startDate": p.StartDate, "endDate": p.EndDate, "createdAt": p.CreatedAt} {
		if err := validDate(value); err != nil {
			return models.Promotion{}, fmt.Errorf("%w: %s: %v", ErrInvalidInput, field, err)
		}
	}
	if p.EndDate != "" && p.EndDate < p.StartDate {
		return models.Promotion{}, fmt.Errorf("%w: end date precedes start date", ErrInvalidInput)
	}

	unitIDs, err := normalizeUnitIDs(in.UnitIDs, units)
	if err != nil {
		return models.Promotion{}, err
	}
	p.UnitIDs = unitIDs

	if in.Appearance != nil {
		a := *in.Appearance
		p.Appearance = &a
	}

	return p, nil
}

func validDate(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(models.DateLayout, value); err != nil {
		return fmt.Errorf("%q is not YYYY-MM-DD", value)
	}
	return nil
}

func normalizeUnitIDs(ids []string, units UnitSource) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		if units != nil && !units.Exists(id) {
			return nil, fmt.Errorf("%w: unknown unit %q", ErrInvalidInput, id)
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out, nil
}
