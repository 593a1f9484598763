package analytics

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

// ErrUnknownSortKey indicates the analytics table cannot sort by the requested field.
var ErrUnknownSortKey = errors.New("unknown analytics sort key")

// openEnd stands in for a missing end date in the period upper bound.
const openEnd = "9999-12-31"

// Row is a promotion joined with its sales metrics.
type Row struct {
	models.AnalyticsData
	Name                string               `json:"name"`
	Project             string               `json:"project"`
	Type                models.PromotionType `json:"type"`
	TypeLabel           string               `json:"typeLabel"`
	Status              string               `json:"status"`
	StartDate           string               `json:"startDate"`
	EndDate             string               `json:"endDate,omitempty"`
	TotalInPromo        int                  `json:"totalInPromo"`
	SoldShare           float64              `json:"soldShare"`
	RevenueContribution float64              `json:"revenueContribution"`
}

// MetricsSource looks up the metrics of a promotion. It never fails.
type MetricsSource interface {
	Lookup(promoID string) models.AnalyticsData
}

// Join builds one row per promotion. reference is the revenue the contribution
// share is measured against.
func Join(promotions []models.Promotion, metrics MetricsSource, reference float64) []Row {
	rows := make([]Row, 0, len(promotions))
	for _, p := range promotions {
		data := metrics.Lookup(p.ID)
		data.PromoID = p.ID

		total := len(p.UnitIDs)
		var share float64
		if total > 0 {
			share = float64(data.SoldCount) / float64(total) * 100
		}
		var contribution float64
		if reference > 0 {
			contribution = data.Revenue / reference * 100
		}

		rows = append(rows, Row{
			AnalyticsData:       data,
			Name:                p.Name,
			Project:             p.Project,
			Type:                p.Type,
			TypeLabel:           p.Type.Label(),
			Status:              p.Status.Label(),
			StartDate:           p.StartDate,
			EndDate:             p.EndDate,
			TotalInPromo:        total,
			SoldShare:           share,
			RevenueContribution: contribution,
		})
	}
	return rows
}

// Filter is the analytics filter bar. Empty fields do not constrain.
type Filter struct {
	PromoID  string `form:"promoId" json:"promoId"`
	Project  string `form:"project" json:"project"`
	Type     string `form:"type" json:"type"`
	DateFrom string `form:"dateFrom" json:"dateFrom"`
	DateTo   string `form:"dateTo" json:"dateTo"`
}

// Match reports whether the row satisfies every non-empty criterion. A row without
// an end date only passes the upper bound when the bound is the far future.
func (f Filter) Match(r Row) bool {
	if f.PromoID != "" && r.PromoID != f.PromoID {
		return false
	}
	if f.Project != "" && r.Project != f.Project {
		return false
	}
	if f.Type != "" && string(r.Type) != f.Type && r.TypeLabel != f.Type {
		return false
	}
	if f.DateFrom != "" && r.StartDate < f.DateFrom {
		return false
	}
	if f.DateTo != "" {
		end := r.EndDate
		if end == "" {
			end = openEnd
		}
		if end > f.DateTo {
			return false
		}
	}
	return true
}

// SortOrder is ascending or descending.
type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

// Sort is the analytics table sort state.
type Sort struct {
	Key   string    `json:"key"`
	Order SortOrder `json:"order"`
}

// DefaultSort is highest revenue first.
func DefaultSort() Sort {
	return Sort{Key: "revenue", Order: Desc}
}

// Click applies a header click: the same key flips the order, a new key starts descending.
func (s Sort) Click(key string) Sort {
	if s.Key == key {
		if s.Order == Asc {
			return Sort{Key: key, Order: Desc}
		}
		return Sort{Key: key, Order: Asc}
	}
	return Sort{Key: key, Order: Desc}
}

var textFields = map[string]func(Row) string{
	"promoId":   func(r Row) string { return r.PromoID },
	"name":      func(r Row) string { return r.Name },
	"project":   func(r Row) string { return r.Project },
	"type":      func(r Row) string { return r.TypeLabel },
	"status":    func(r Row) string { return r.Status },
	"startDate": func(r Row) string { return r.StartDate },
	"endDate":   func(r Row) string { return r.EndDate },
}

var numberFields = map[string]func(Row) float64{
	"soldCount":           func(r Row) float64 { return float64(r.SoldCount) },
	"bookedCount":         func(r Row) float64 { return float64(r.BookedCount) },
	"availableCount":      func(r Row) float64 { return float64(r.AvailableCount) },
	"soldArea":            func(r Row) float64 { return r.SoldArea },
	"revenue":             func(r Row) float64 { return r.Revenue },
	"totalRevenue":        func(r Row) float64 { return r.TotalRevenue },
	"totalDiscount":       func(r Row) float64 { return r.TotalDiscount },
	"conversionRate":      func(r Row) float64 { return r.ConversionRate },
	"views":               func(r Row) float64 { return float64(r.Views) },
	"bookings":            func(r Row) float64 { return float64(r.Bookings) },
	"totalInPromo":        func(r Row) float64 { return float64(r.TotalInPromo) },
	"soldShare":           func(r Row) float64 { return r.SoldShare },
	"revenueContribution": func(r Row) float64 { return r.RevenueContribution },
}

// SortKeys lists the sortable analytics fields.
func SortKeys() []string {
	keys := make([]string, 0, len(textFields)+len(numberFields))
	for k := range textFields {
		keys = append(keys, k)
	}
	for k := range numberFields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Apply filters rows and sorts them stably. Text fields compare case-insensitively
// under Russian collation.
func Apply(rows []Row, f Filter, s Sort) ([]Row, error) {
	if s.Key == "" {
		s = DefaultSort()
	}

	var compare func(a, b Row) int
	if text, ok := textFields[s.Key]; ok {
		col := collate.New(language.Russian, collate.IgnoreCase)
		compare = func(a, b Row) int { return col.CompareString(text(a), text(b)) }
	} else if number, ok := numberFields[s.Key]; ok {
		compare = func(a, b Row) int {
			x, y := number(a), number(b)
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	} else {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSortKey, s.Key)
	}

	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if f.Match(r) {
			out = append(out, r)
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
