package models

// AnalyticsData holds the precomputed sales metrics attributed to one promotion.
type AnalyticsData struct {
	PromoID        string  `json:"promoId"`
	SoldCount      int     `json:"soldCount"`
	BookedCount    int     `json:"bookedCount"`
	AvailableCount int     `json:"availableCount"`
	SoldArea       float64 `json:"soldArea"`
	Revenue        float64 `json:"revenue"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalDiscount  float64 `json:"totalDiscount"`
	ConversionRate float64 `json:"conversionRate"`
	Views          int     `json:"views"`
	Bookings       int     `json:"bookings"`
}

// MetricUnit selects which measure the analytics charts display.
type MetricUnit string

const (
	MetricPieces  MetricUnit = "pieces"
	MetricArea    MetricUnit = "area"
	MetricRubles  MetricUnit = "rub"
	MetricPercent MetricUnit = "percent"
)

// Valid reports whether u is a known metric unit.
func (u MetricUnit) Valid() bool {
	switch u {
	case MetricPieces, MetricArea, MetricRubles, MetricPercent:
		return true
	}
	return false
}

// Label is the suffix shown next to values of this unit.
func (u MetricUnit) Label() string {
	switch u {
	case MetricArea:
		return "м²"
	case MetricRubles:
		return "М₽"
	case MetricPercent:
		return "%"
	default:
		return "шт"
	}
}

// SoldField is the analytics row field that the "sold" column sorts by for this unit.
func (u MetricUnit) SoldField() string {
	switch u {
	case MetricArea:
		return "soldArea"
	case MetricRubles:
		return "revenue"
	case MetricPercent:
		return "conversionRate"
	default:
		return "soldCount"
	}
}

// ChartRange selects the time-series granularity.
type ChartRange string

const (
	RangeWeek  ChartRange = "week"
	RangeMonth ChartRange = "month"
)

// TimeSeriesPoint is one bucket of the promo vs non-promo sales fixture.
type TimeSeriesPoint struct {
	Name             string  `json:"name" yaml:"name"`
	SalesWithPromo   float64 `json:"salesWithPromo" yaml:"salesWithPromo"`
	SalesNoPromo     float64 `json:"salesNoPromo" yaml:"salesNoPromo"`
	RevenueWithPromo float64 `json:"revenueWithPromo" yaml:"revenueWithPromo"`
	RevenueNoPromo   float64 `json:"revenueNoPromo" yaml:"revenueNoPromo"`
	Discount         float64 `json:"discount" yaml:"discount"`
}

// SeriesValue is a named value ready for a chart.
type SeriesValue struct {
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	UnitLabel string  `json:"unitLabel"`
}

// ChartPoint pairs the promo and baseline values of one chart bucket.
type ChartPoint struct {
	Name  string  `json:"name"`
	Promo float64 `json:"promo"`
	Base  float64 `json:"base"`
}
