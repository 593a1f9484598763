// Package seed builds the in-memory data the dashboard starts with: the unit
// collection, the initial promotions and the per-promotion sales metrics.
package seed

import (
	_ "embed"
	"fmt"
	"math"
	"math/rand"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

//go:embed fixtures/promotions.yaml
var promotionsFixture []byte

//go:embed fixtures/timeseries.yaml
var timeSeriesFixture []byte

const (
	extraPromotions = 15
	soldUnitArea    = 45
	unitRevenue     = 8200000
	unitDiscount    = 580000
)

type promotionFixture struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Description     string  `yaml:"description"`
	Status          string  `yaml:"status"`
	Type            string  `yaml:"type"`
	AdjustmentType  string  `yaml:"adjustmentType"`
	AdjustmentValue float64 `yaml:"adjustmentValue"`
	AdjustmentMode  string  `yaml:"adjustmentMode"`
	StartDate       string  `yaml:"startDate"`
	EndDate         string  `yaml:"endDate"`
	Units           [2]int  `yaml:"units"`
	Priority        int     `yaml:"priority"`
	Stackable       bool    `yaml:"stackable"`
	CreatedAt       string  `yaml:"createdAt"`
}

// TimeSeries holds the monthly and weekly sales fixtures behind the analytics chart.
type TimeSeries struct {
	Month []models.TimeSeriesPoint `yaml:"month"`
	Week  []models.TimeSeriesPoint `yaml:"week"`
}

// Units generates the 3 sections x 18 floors x 4 stacks building. Statuses and
// popularity come from rng so a fixed seed reproduces the same board.
func Units(seed int64) []models.Unit {
	rng := rand.New(rand.NewSource(seed))
	units := make([]models.Unit, 0, len(models.Sections)*models.FloorCount*len(models.Stacks))

	for _, section := range models.Sections {
		for floor := 1; floor <= models.FloorCount; floor++ {
			for idx := 1; idx <= len(models.Stacks); idx++ {
				stack := fmt.Sprintf("%02d", idx)
				popularity := rng.Intn(100)

				units = append(units, models.Unit{
					ID:         fmt.Sprintf("unit-%s-%d-%s", section, floor, stack),
					Number:     fmt.Sprintf("%s%d%s", section, floor, stack),
					Floor:      floor,
					Rooms:      (idx % 3) + 1,
					Area:       float64(35 + (idx%4)*15 + (floor%2)*5),
					Price:      float64(6000000 + floor*200000 + idx*500000),
					Status:     randomStatus(rng),
					Section:    section,
					Popularity: &popularity,
				})
			}
		}
	}

	return units
}

func randomStatus(rng *rand.Rand) models.UnitStatus {
	if rng.Float64() > 0.85 {
		return models.UnitSold
	}
	if rng.Float64() > 0.9 {
		return models.UnitReserved
	}
	return models.UnitAvailable
}

// Promotions returns the fixture promotions followed by the generated extras.
func Promotions(units []models.Unit, project string) ([]models.Promotion, error) {
	var doc struct {
		Promotions []promotionFixture `yaml:"promotions"`
	}
	if err := yaml.Unmarshal(promotionsFixture, &doc); err != nil {
		return nil, fmt.Errorf("decode promotions fixture: %w", err)
	}
	if len(doc.Promotions) == 0 {
		return nil, fmt.Errorf("promotions fixture is empty")
	}

	base := make([]models.Promotion, 0, len(doc.Promotions))
	for _, f := range doc.Promotions {
		base = append(base, models.Promotion{
			ID:              f.ID,
			Name:            f.Name,
			Description:     f.Description,
			Project:         project,
			Status:          models.PromotionStatus(f.Status),
			Type:            models.PromotionType(f.Type),
			AdjustmentType:  models.AdjustmentType(f.AdjustmentType),
			AdjustmentValue: f.AdjustmentValue,
			AdjustmentMode:  models.AdjustmentMode(f.AdjustmentMode),
			StartDate:       f.StartDate,
			EndDate:         f.EndDate,
			UnitIDs:         unitRange(units, f.Units[0], f.Units[1]),
			Priority:        f.Priority,
			Stackable:       f.Stackable,
			CreatedAt:       f.CreatedAt,
		})
	}

	out := append([]models.Promotion(nil), base...)
	for i := 0; i < extraPromotions; i++ {
		p := base[i%len(base)].Clone()
		p.ID = fmt.Sprintf("p-extra-%d", i)
		p.Name = fmt.Sprintf("Спецпредложение №%d", i+5)
		p.CreatedAt = time.Date(2024, time.March, i+1, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
		p.Priority = (i % 10) + 1
		p.UnitIDs = unitRange(units, 100+i*5, 110+i*5)
		p.AdjustmentValue = float64(5 + i%5)
		p.AdjustmentMode = models.ModeDecrease
		out = append(out, p)
	}

	return out, nil
}

func unitRange(units []models.Unit, from, to int) []string {
	if from < 0 {
		from = 0
	}
	if to > len(units) {
		to = len(units)
	}
	ids := make([]string, 0, max(0, to-from))
	for i := from; i < to; i++ {
		ids = append(ids, units[i].ID)
	}
	return ids
}

// Metrics derives the sales record of every promotion from its position and unit count.
func Metrics(promotions []models.Promotion) []models.AnalyticsData {
	out := make([]models.AnalyticsData, 0, len(promotions))

	for idx, promo := range promotions {
		totalUnits := max(1, len(promo.UnitIDs))
		mult := 0.3
		if promo.Active() {
			mult = 1
		}

		sold := int(math.Floor(float64(totalUnits) * (0.3 + float64(idx%4)*0.1) * mult))
		booked := int(math.Floor(float64(totalUnits) * 0.2 * mult))
		available := max(0, totalUnits-sold-booked)
		total := max(1, sold+booked+available)

		out = append(out, models.AnalyticsData{
			PromoID:        promo.ID,
			SoldCount:      sold,
			BookedCount:    booked,
			AvailableCount: available,
			SoldArea:       float64(sold * soldUnitArea),
			Revenue:        float64(sold) * unitRevenue,
			TotalRevenue:   float64(total) * unitRevenue,
			TotalDiscount:  float64(sold) * unitDiscount,
			ConversionRate: math.Round(float64(sold)/float64(total)*1000) / 10,
			Views:          1500 + idx*350,
			Bookings:       booked,
		})
	}

	return out
}

// LoadTimeSeries decodes the chart fixtures.
func LoadTimeSeries() (TimeSeries, error) {
	var ts TimeSeries
	if err := yaml.Unmarshal(timeSeriesFixture, &ts); err != nil {
		return TimeSeries{}, fmt.Errorf("decode time series fixture: %w", err)
	}
	return ts, nil
}
