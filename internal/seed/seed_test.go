package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

func TestUnitsLayout(t *testing.T) {
	units := Units(1)
	require.Len(t, units, 216)

	first := units[0]
	assert.Equal(t, "unit-1-1-01", first.ID)
	assert.Equal(t, "1101", first.Number)
	assert.Equal(t, 2, first.Rooms)
	assert.Equal(t, float64(55), first.Area)
	assert.Equal(t, float64(6700000), first.Price)

	seen := map[string]bool{}
	for _, u := range units {
		assert.False(t, seen[u.ID], "duplicate id %s", u.ID)
		seen[u.ID] = true
		require.NotNil(t, u.Popularity)
		assert.GreaterOrEqual(t, *u.Popularity, 0)
		assert.Less(t, *u.Popularity, 100)
	}
}

func TestUnitsDeterministicPerSeed(t *testing.T) {
	a, b := Units(99), Units(99)
	for i := range a {
		assert.Equal(t, a[i].Status, b[i].Status)
	}
}

func TestPromotions(t *testing.T) {
	units := Units(1)
	promos, err := Promotions(units, "Проект")
	require.NoError(t, err)
	require.Len(t, promos, 17)

	assert.Equal(t, "p-1", promos[0].ID)
	assert.Len(t, promos[0].UnitIDs, 40)
	assert.Equal(t, 8, promos[0].Priority)
	assert.Equal(t, "Проект", promos[0].Project)
	assert.Equal(t, models.TypeExtraAreaGift, promos[1].Type)

	extra := promos[2]
	assert.Equal(t, "p-extra-0", extra.ID)
	assert.Equal(t, "Спецпредложение №5", extra.Name)
	assert.Equal(t, "2024-03-01", extra.CreatedAt)
	assert.Equal(t, 1, extra.Priority)
	assert.Equal(t, units[100].ID, extra.UnitIDs[0])
	assert.Len(t, extra.UnitIDs, 10)

	last := promos[16]
	assert.Equal(t, "2024-03-15", last.CreatedAt)
	assert.Equal(t, 5, last.Priority)
	assert.Equal(t, float64(9), last.AdjustmentValue)
}

func TestMetrics(t *testing.T) {
	promos := []models.Promotion{
		{ID: "a", Status: models.StatusActive, UnitIDs: make([]string, 40)},
		{ID: "b", Status: models.StatusArchived, UnitIDs: make([]string, 10)},
		{ID: "c", Status: models.StatusActive},
	}

	metrics := Metrics(promos)
	require.Len(t, metrics, 3)

	assert.Equal(t, 12, metrics[0].SoldCount)
	assert.Equal(t, 8, metrics[0].BookedCount)
	assert.Equal(t, 20, metrics[0].AvailableCount)
	assert.Equal(t, float64(12*45), metrics[0].SoldArea)
	assert.Equal(t, float64(12*8200000), metrics[0].Revenue)
	assert.Equal(t, 30.0, metrics[0].ConversionRate)
	assert.Equal(t, 1500, metrics[0].Views)

	// archived: 10 * 0.4 * 0.3 = 1.2 -> 1 sold, 10 * 0.2 * 0.3 = 0.6 -> 0 booked
	assert.Equal(t, 1, metrics[1].SoldCount)
	assert.Equal(t, 0, metrics[1].BookedCount)
	assert.Equal(t, 1850, metrics[1].Views)

	// no units still counts as one
	assert.Equal(t, 0, metrics[2].SoldCount)
	assert.Equal(t, 1, metrics[2].AvailableCount)
}

func TestLoadTimeSeries(t *testing.T) {
	ts, err := LoadTimeSeries()
	require.NoError(t, err)
	assert.Len(t, ts.Month, 7)
	assert.Len(t, ts.Week, 4)
	assert.Equal(t, "Янв", ts.Month[0].Name)
	assert.Equal(t, 8.9, ts.Week[3].Discount)
}
