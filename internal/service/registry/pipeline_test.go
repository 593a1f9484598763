package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

func samplePromotions() []models.Promotion {
	return []models.Promotion{
		{ID: "a", Name: "Alpha", Project: "X", Status: models.StatusActive, Type: models.TypeDiscount, Priority: 8, StartDate: "2024-01-01", EndDate: "2024-12-31", CreatedAt: "2024-01-10", UnitIDs: []string{"u1", "u2"}},
		{ID: "b", Name: "Beta", Project: "Y", Status: models.StatusArchived, Type: models.TypeGift, Priority: 3, StartDate: "2024-03-01", EndDate: "2024-06-30", CreatedAt: "2024-02-01", UnitIDs: []string{"u1"}},
		{ID: "c", Name: "Gamma", Project: "X", Status: models.StatusDraft, Type: models.TypeDiscount, Priority: 5, StartDate: "2024-05-01", CreatedAt: "2024-03-05", UnitIDs: []string{"u1", "u2", "u3"}},
		{ID: "d", Name: "Delta", Project: "Y", Status: models.StatusPendingReview, Type: models.TypeFlatOfTheMonth, Priority: 10, StartDate: "2023-11-01", EndDate: "2024-01-31", CreatedAt: "2023-10-01"},
	}
}

func idsOf(promos []models.Promotion) []string {
	out := make([]string, 0, len(promos))
	for _, p := range promos {
		out = append(out, p.ID)
	}
	return out
}

func TestApplyEmptyFilterIsIdentity(t *testing.T) {
	in := samplePromotions()
	out, err := Apply(in, Filter{}, Sort{Key: "createdAt", Order: Asc})
	require.NoError(t, err)
	assert.ElementsMatch(t, idsOf(in), idsOf(out))
}

func TestApplyStatusBucketsPartitionInput(t *testing.T) {
	in := samplePromotions()

	active, err := Apply(in, Filter{Status: "Активные"}, DefaultSort())
	require.NoError(t, err)
	deactivated, err := Apply(in, Filter{Status: BucketDeactivated}, DefaultSort())
	require.NoError(t, err)

	for _, p := range active {
		assert.True(t, p.Active())
	}
	for _, p := range deactivated {
		assert.False(t, p.Active())
	}
	assert.Equal(t, len(in), len(active)+len(deactivated))
	assert.Equal(t, []string{"a"}, idsOf(active))
	assert.ElementsMatch(t, []string{"b", "c", "d"}, idsOf(deactivated))
}

func TestApplyActiveBucketSortedByPriority(t *testing.T) {
	in := []models.Promotion{
		{ID: "A", Priority: 8, Status: models.StatusActive, Project: "X"},
		{ID: "B", Priority: 3, Status: models.StatusArchived, Project: "Y"},
	}
	out, err := Apply(in, Filter{Status: "Активные"}, Sort{Key: "priority", Order: Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, idsOf(out))
}

func TestApplyCriteria(t *testing.T) {
	in := samplePromotions()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"created date", Filter{CreatedAt: "2024-02-01"}, []string{"b"}},
		{"name", Filter{Name: "Gamma"}, []string{"c"}},
		{"period from", Filter{PeriodFrom: "2024-03-01"}, []string{"b", "c"}},
		{"period to keeps open ended", Filter{PeriodTo: "2024-06-30"}, []string{"b", "c", "d"}},
		{"project", Filter{Project: "X"}, []string{"a", "c"}},
		{"type code", Filter{Type: string(models.TypeDiscount)}, []string{"a", "c"}},
		{"type caption", Filter{Type: "Подарок за покупку"}, []string{"b"}},
		{"priority", Filter{Priority: 10}, []string{"d"}},
		{"combined", Filter{Project: "X", Status: BucketDeactivated}, []string{"c"}},
		{"no match", Filter{Project: "X", Priority: 3}, []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Apply(in, tc.filter, Sort{Key: "id", Order: Asc})
			require.NoError(t, err)
			assert.Equal(t, tc.want, idsOf(out))
		})
	}
}

func TestApplySortByUnitCount(t *testing.T) {
	out, err := Apply(samplePromotions(), Filter{}, Sort{Key: "unitIds", Order: Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b", "d"}, idsOf(out))
}

func TestApplySortIsStable(t *testing.T) {
	in := []models.Promotion{
		{ID: "1", Priority: 5},
		{ID: "2", Priority: 5},
		{ID: "3", Priority: 1},
		{ID: "4", Priority: 5},
	}
	asc, err := Apply(in, Filter{}, Sort{Key: "priority", Order: Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2", "4"}, idsOf(asc))

	desc, err := Apply(in, Filter{}, Sort{Key: "priority", Order: Desc})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "4", "3"}, idsOf(desc))
}

func TestToggleTwiceReversesOrder(t *testing.T) {
	in := samplePromotions()
	state := DefaultSort()

	state = state.Toggle("name")
	first, err := Apply(in, Filter{}, state)
	require.NoError(t, err)

	state = state.Toggle("name")
	second, err := Apply(in, Filter{}, state)
	require.NoError(t, err)

	reversed := idsOf(first)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	assert.Equal(t, reversed, idsOf(second))
}

func TestToggleFlipsOrderEvenOnNewKey(t *testing.T) {
	state := Sort{Key: "createdAt", Order: Desc}

	state = state.Toggle("priority")
	assert.Equal(t, Sort{Key: "priority", Order: Asc}, state)

	state = state.Toggle("name")
	assert.Equal(t, Sort{Key: "name", Order: Desc}, state)
}

func TestApplyUnknownSortKey(t *testing.T) {
	_, err := Apply(samplePromotions(), Filter{}, Sort{Key: "colour"})
	assert.ErrorIs(t, err, ErrUnknownSortKey)
}

func TestApplyDoesNotReorderInput(t *testing.T) {
	in := samplePromotions()
	_, err := Apply(in, Filter{}, Sort{Key: "priority", Order: Asc})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, idsOf(in))
}
