package registry

import (
	"cmp"
	"fmt"
	"sort"
	"strings"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// Status buckets offered by the registry status filter.
const (
	BucketAll         = ""
	BucketActive      = "active"
	BucketDeactivated = "deactivated"
)

// Filter is the registry filter bar. Empty fields do not constrain the result.
type Filter struct {
	Status     string `form:"status" json:"status"`
	CreatedAt  string `form:"createdAt" json:"createdAt"`
	Name       string `form:"name" json:"name"`
	PeriodFrom string `form:"periodFrom" json:"periodFrom"`
	PeriodTo   string `form:"periodTo" json:"periodTo"`
	Project    string `form:"project" json:"project"`
	Type       string `form:"type" json:"type"`
	Priority   int    `form:"priority" json:"priority"`
}

// NormalizeBucket maps the dashboard captions onto bucket codes. Unknown values
// mean no constraint.
func NormalizeBucket(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case BucketActive, "активные":
		return BucketActive
	case BucketDeactivated, "деактивированы":
		return BucketDeactivated
	}
	return BucketAll
}

// Match reports whether p satisfies every non-empty criterion.
func (f Filter) Match(p models.Promotion) bool {
	switch NormalizeBucket(f.Status) {
	case BucketActive:
		if !p.Active() {
			return false
		}
	case BucketDeactivated:
		if p.Active() {
			return false
		}
	}
	if f.CreatedAt != "" && p.CreatedAt != f.CreatedAt {
		return false
	}
	if f.Name != "" && p.Name != f.Name {
		return false
	}
	if f.PeriodFrom != "" && p.StartDate < f.PeriodFrom {
		return false
	}
	// Open-ended promotions are only bounded when an end date is present.
	if f.PeriodTo != "" && p.EndDate != "" && p.EndDate > f.PeriodTo {
		return false
	}
	if f.Project != "" && p.Project != f.Project {
		return false
	}
	if f.Type != "" && string(p.Type) != f.Type && p.Type.Label() != f.Type {
		return false
	}
	if f.Priority != 0 && p.Priority != f.Priority {
		return false
	}
	return true
}

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Flip returns the opposite order.
func (o SortOrder) Flip() SortOrder {
	if o == Asc {
		return Desc
	}
	return Asc
}

// Sort is the registry table sort state.
type Sort struct {
	Key   string    `json:"key" form:"sortKey"`
	Order SortOrder `json:"order" form:"sortOrder"`
}

// DefaultSort is newest first.
func DefaultSort() Sort {
	return Sort{Key: "createdAt", Order: Desc}
}

// Toggle applies a header click: the key becomes current and the order always flips,
// whether or not the key changed.
func (s Sort) Toggle(key string) Sort {
	return Sort{Key: key, Order: s.Order.Flip()}
}

type comparator func(a, b models.Promotion) int

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	default:
		return 1
	}
}

var comparators = map[string]comparator{
	"id":              func(a, b models.Promotion) int { return strings.Compare(a.ID, b.ID) },
	"name":            func(a, b models.Promotion) int { return strings.Compare(a.Name, b.Name) },
	"description":     func(a, b models.Promotion) int { return strings.Compare(a.Description, b.Description) },
	"project":         func(a, b models.Promotion) int { return strings.Compare(a.Project, b.Project) },
	"status":          func(a, b models.Promotion) int { return strings.Compare(a.Status.Label(), b.Status.Label()) },
	"type":            func(a, b models.Promotion) int { return strings.Compare(a.Type.Label(), b.Type.Label()) },
	"adjustmentType":  func(a, b models.Promotion) int { return strings.Compare(a.AdjustmentType.Label(), b.AdjustmentType.Label()) },
	"adjustmentValue": func(a, b models.Promotion) int { return cmp.Compare(a.AdjustmentValue, b.AdjustmentValue) },
	"adjustmentMode":  func(a, b models.Promotion) int { return strings.Compare(string(a.AdjustmentMode), string(b.AdjustmentMode)) },
	"startDate":       func(a, b models.Promotion) int { return strings.Compare(a.StartDate, b.StartDate) },
	"endDate":         func(a, b models.Promotion) int { return strings.Compare(a.EndDate, b.EndDate) },
	"unitIds":         func(a, b models.Promotion) int { return cmp.Compare(len(a.UnitIDs), len(b.UnitIDs)) },
	"priority":        func(a, b models.Promotion) int { return cmp.Compare(a.Priority, b.Priority) },
	"isStackable":     func(a, b models.Promotion) int { return boolCmp(a.Stackable, b.Stackable) },
	"createdAt":       func(a, b models.Promotion) int { return strings.Compare(a.CreatedAt, b.CreatedAt) },
}

// SortKeys lists the sortable registry columns.
func SortKeys() []string {
	keys := make([]string, 0, len(comparators))
	for k := range comparators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply filters promotions and sorts the result stably by s. The input slice is untouched.
func Apply(promotions []models.Promotion, f Filter, s Sort) ([]models.Promotion, error) {
	if s.Key == "" {
		s = DefaultSort()
	}
	compare, ok := comparators[s.Key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSortKey, s.Key)
	}

	out := make([]models.Promotion, 0, len(promotions))
	for _, p := range promotions {
		if f.Match(p) {
			out = append(out, p)
		}
	}

	desc := s.Order != Asc
	sort.SliceStable(out, func(i, j int) bool {
		c := compare(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})

	return out, nil
}
