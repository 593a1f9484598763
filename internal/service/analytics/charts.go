package analytics

import (
	"math"
	"sort"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

const (
	pieTop      = 5
	pieMaxSlice = 6
	othersLabel = "Прочие"
	emptyLabel  = "Нет данных"

	// average sold area per unit, used to turn sales counts into square metres
	metresPerSale = 45
	// baseline discount share shown next to the promo discount
	baseDiscountRatio = 0.8
)

func pieValue(r Row, unit models.MetricUnit) float64 {
	switch unit {
	case models.MetricArea:
		return r.SoldArea
	case models.MetricRubles:
		return r.Revenue
	case models.MetricPercent:
		return r.ConversionRate
	default:
		return float64(r.SoldCount)
	}
}

// Pie buckets rows by the value of the selected unit, largest first. More than six
// slices fold everything past the fifth into "Прочие". An empty input yields a
// single placeholder slice.
func Pie(rows []Row, unit models.MetricUnit) []models.SeriesValue {
	if len(rows) == 0 {
		return []models.SeriesValue{{Name: emptyLabel, Value: 1}}
	}

	label := unit.Label()
	data := make([]models.SeriesValue, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if name == "" {
			name = "Акция"
		}
		data = append(data, models.SeriesValue{
			Name:      name,
			Value:     math.Max(0, pieValue(r, unit)),
			UnitLabel: label,
		})
	}
	sort.SliceStable(data, func(i, j int) bool { return data[i].Value > data[j].Value })

	if len(data) <= pieMaxSlice {
		return data
	}
	var rest float64
	for _, v := range data[pieTop:] {
		rest += v.Value
	}
	return append(data[:pieTop:pieTop], models.SeriesValue{Name: othersLabel, Value: rest, UnitLabel: label})
}

// KPIs are the headline figures above the analytics table.
type KPIs struct {
	Promotions  int     `json:"promotions"`
	SoldUnits   int     `json:"soldUnits"`
	RevenueMln  float64 `json:"revenueMln"`
	DiscountMln float64 `json:"discountMln"`
}

// Summarize totals the filtered rows. Money is reported in millions to one decimal.
func Summarize(rows []Row) KPIs {
	var k KPIs
	var revenue, discount float64
	for _, r := range rows {
		k.SoldUnits += r.SoldCount
		revenue += r.Revenue
		discount += r.TotalDiscount
	}
	k.Promotions = len(rows)
	k.RevenueMln = millions(revenue)
	k.DiscountMln = millions(discount)
	return k
}

func millions(v float64) float64 {
	return math.Round(v/1e6*10) / 10
}

// Chart shapes a time series into promo vs baseline values for the selected unit.
func Chart(series []models.TimeSeriesPoint, unit models.MetricUnit) []models.ChartPoint {
	out := make([]models.ChartPoint, 0, len(series))
	for _, p := range series {
		c := models.ChartPoint{Name: p.Name}
		switch unit {
		case models.MetricArea:
			c.Promo, c.Base = p.SalesWithPromo*metresPerSale, p.SalesNoPromo*metresPerSale
		case models.MetricRubles:
			c.Promo, c.Base = p.RevenueWithPromo, p.RevenueNoPromo
		case models.MetricPercent:
			c.Promo, c.Base = p.Discount, p.Discount*baseDiscountRatio
		default:
			c.Promo, c.Base = p.SalesWithPromo, p.SalesNoPromo
		}
		out = append(out, c)
	}
	return out
}
