package registry

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/repository/memory"
)

type recordingNotifier struct {
	successes []string
	errors    []string
}

func (r *recordingNotifier) Success(message string) { r.successes = append(r.successes, message) }
func (r *recordingNotifier) Error(message string)   { r.errors = append(r.errors, message) }

func (r *recordingNotifier) last() string {
	if len(r.successes) == 0 {
		return ""
	}
	return r.successes[len(r.successes)-1]
}

type unitSet map[string]bool

func (u unitSet) Exists(id string) bool { return u[id] }

func newTestService(t *testing.T, seed ...models.Promotion) (*Service, *recordingNotifier) {
	t.Helper()

	notifier := &recordingNotifier{}
	svc := NewService(memory.NewPromotionStore(seed), unitSet{"u1": true, "u2": true, "u3": true}, notifier, "ЖК Тест", nil)
	svc.now = func() time.Time { return time.Date(2024, 7, 15, 12, 0, 0, 0, time.UTC) }
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("new-%d", seq)
	}
	return svc, notifier
}

func float(v float64) *float64 { return &v }

func TestSaveCreatesWithDefaults(t *testing.T) {
	svc, notifier := newTestService(t, samplePromotions()...)

	p, created, err := svc.Save(PromotionInput{
		Type:            models.TypeDiscount,
		AdjustmentValue: float(5),
		Priority:        4,
		UnitIDs:         []string{"u2", "u1", "u2", " "},
	}, "manager")
	require.NoError(t, err)

	assert.True(t, created)
	assert.Equal(t, "new-1", p.ID)
	assert.Equal(t, DefaultName, p.Name)
	assert.Equal(t, "ЖК Тест", p.Project)
	assert.Equal(t, models.StatusActive, p.Status)
	assert.Equal(t, models.ModeDecrease, p.AdjustmentMode)
	assert.Equal(t, "2024-07-15", p.StartDate)
	assert.Equal(t, "2024-07-15", p.CreatedAt)
	assert.Equal(t, []string{"u2", "u1"}, p.UnitIDs)
	require.Len(t, p.AuditLog, 1)
	assert.Equal(t, "manager", p.AuditLog[0].User)
	assert.Equal(t, "Акция успешно создана", notifier.last())

	all := svc.All()
	assert.Equal(t, "new-1", all[0].ID, "new promotions go to the front")
	assert.Len(t, all, 5)
}

func TestSaveUpdatesInPlace(t *testing.T) {
	svc, notifier := newTestService(t, samplePromotions()...)

	p, created, err := svc.Save(PromotionInput{
		ID:              "b",
		Name:            "Beta 2",
		Type:            models.TypeGift,
		AdjustmentValue: float(1),
		Priority:        3,
		StartDate:       "2024-03-01",
	}, "")
	require.NoError(t, err)

	assert.False(t, created)
	assert.Equal(t, "Beta 2", p.Name)
	assert.Equal(t, "2024-02-01", p.CreatedAt, "creation date survives edits")
	require.Len(t, p.AuditLog, 1)
	assert.Equal(t, "system", p.AuditLog[0].User)
	assert.Contains(t, p.AuditLog[0].Changes, "Beta → Beta 2")
	assert.Equal(t, "Изменения сохранены", notifier.last())

	assert.Equal(t, []string{"a", "b", "c", "d"}, idsOf(svc.All()))
}

func TestSaveRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   PromotionInput
	}{
		{"unknown type", PromotionInput{Type: "sale", AdjustmentValue: float(1), Priority: 1}},
		{"missing value", PromotionInput{Type: models.TypeDiscount, Priority: 1}},
		{"negative value", PromotionInput{Type: models.TypeDiscount, AdjustmentValue: float(-1), Priority: 1}},
		{"priority out of range", PromotionInput{Type: models.TypeDiscount, AdjustmentValue: float(1), Priority: 11}},
		{"zero step gift", PromotionInput{Type: models.TypeExtraAreaGift, AdjustmentType: models.AdjustNthAreaUnitGift, AdjustmentValue: float(0), Priority: 1}},
		{"bad date", PromotionInput{Type: models.TypeDiscount, AdjustmentValue: float(1), Priority: 1, StartDate: "15.07.2024"}},
		{"end before start", PromotionInput{Type: models.TypeDiscount, AdjustmentValue: float(1), Priority: 1, StartDate: "2024-07-10", EndDate: "2024-07-01"}},
		{"unknown unit", PromotionInput{Type: models.TypeDiscount, AdjustmentValue: float(1), Priority: 1, UnitIDs: []string{"u9"}}},
		{"cap above 100", PromotionInput{Type: models.TypeDiscount, AdjustmentValue: float(1), Priority: 1, MaxTotalDiscount: float(120)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, notifier := newTestService(t)
			_, _, err := svc.Save(tc.in, "")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.True(t, IsValidation(err))
			assert.Empty(t, svc.All())
			assert.Equal(t, []string{"Не удалось сохранить акцию"}, notifier.errors)
		})
	}
}

func TestDuplicateAddsMarkerOnce(t *testing.T) {
	svc, notifier := newTestService(t, models.Promotion{ID: "x", Name: "Foo", Status: models.StatusArchived, CreatedAt: "2020-01-01", UnitIDs: []string{"u1"}})

	first, err := svc.Duplicate("x", "")
	require.NoError(t, err)
	assert.Equal(t, "Foo (копия)", first.Name)
	assert.Equal(t, models.StatusActive, first.Status)
	assert.Equal(t, "2024-07-15", first.CreatedAt)
	assert.NotEqual(t, "x", first.ID)
	assert.Equal(t, "Создана копия: Foo (копия)", notifier.last())

	second, err := svc.Duplicate(first.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "Foo (копия)", second.Name)

	all := svc.All()
	assert.Equal(t, []string{second.ID, first.ID, "x"}, idsOf(all))

	all[1].UnitIDs[0] = "mutated"
	src, err := svc.Get("x")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, src.UnitIDs)
}

func TestDuplicateUnknown(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Duplicate("missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUnknownIsNoOp(t *testing.T) {
	svc, notifier := newTestService(t, samplePromotions()...)

	assert.False(t, svc.Delete("zzz"))
	assert.Len(t, svc.All(), 4)
	assert.Empty(t, notifier.successes)

	assert.True(t, svc.Delete("a"))
	assert.Equal(t, "Акция \"Alpha\" удалена", notifier.last())
	assert.Equal(t, []string{"b", "c", "d"}, idsOf(svc.All()))
}

func TestBulkDelete(t *testing.T) {
	svc, notifier := newTestService(t, samplePromotions()...)

	n := svc.BulkDelete([]string{"a", "c", "missing"})
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"b", "d"}, idsOf(svc.All()))
	assert.Equal(t, "Акции удалены", notifier.last())
}

func TestToggle(t *testing.T) {
	svc, notifier := newTestService(t, samplePromotions()...)

	p, err := svc.Toggle("a", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusArchived, p.Status)
	assert.Equal(t, "Акция деактивирована", notifier.last())

	p, err = svc.Toggle("c", "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, p.Status, "drafts activate")
	assert.Equal(t, "Акция активирована", notifier.last())

	_, err = svc.Toggle("missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBulkStatus(t *testing.T) {
	svc, notifier := newTestService(t, samplePromotions()...)

	n, err := svc.BulkStatus([]string{"a", "b", "missing"}, models.StatusDraft, "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Статус изменен для 2 акций", notifier.last())

	for _, id := range []string{"a", "b"} {
		p, err := svc.Get(id)
		require.NoError(t, err)
		assert.Equal(t, models.StatusDraft, p.Status)
	}

	_, err = svc.BulkStatus([]string{"a"}, "paused", "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestBulkPeriodStartOnlyKeepsEnds(t *testing.T) {
	svc, notifier := newTestService(t, samplePromotions()...)

	n, err := svc.BulkPeriod([]string{"a", "b"}, LegacyPeriodChange("2024-02-01", ""), "")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Период обновлен для 2 акций", notifier.last())

	a, _ := svc.Get("a")
	b, _ := svc.Get("b")
	assert.Equal(t, "2024-02-01", a.StartDate)
	assert.Equal(t, "2024-12-31", a.EndDate)
	assert.Equal(t, "2024-02-01", b.StartDate)
	assert.Equal(t, "2024-06-30", b.EndDate)
}

func TestBulkPeriodEmptyChangesNothing(t *testing.T) {
	svc, _ := newTestService(t, samplePromotions()...)
	before := svc.All()

	n, err := svc.BulkPeriod([]string{"a", "b", "c", "d"}, LegacyPeriodChange("", ""), "")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, before, svc.All())
}

func TestBulkPeriodClearEnd(t *testing.T) {
	svc, _ := newTestService(t, samplePromotions()...)

	n, err := svc.BulkPeriod([]string{"a"}, PeriodChange{End: DateChange{Mode: DateClear}}, "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	a, _ := svc.Get("a")
	assert.Equal(t, "2024-01-01", a.StartDate)
	assert.Empty(t, a.EndDate)
}

func TestBulkPeriodSkipsInvertedRanges(t *testing.T) {
	svc, _ := newTestService(t, samplePromotions()...)

	// b ends 2024-06-30, a ends 2024-12-31.
	n, err := svc.BulkPeriod([]string{"a", "b"}, LegacyPeriodChange("2024-09-01", ""), "")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	b, _ := svc.Get("b")
	assert.Equal(t, "2024-03-01", b.StartDate)
}

func TestPeriodChangeNormalize(t *testing.T) {
	_, err := PeriodChange{Start: DateChange{Mode: DateClear}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = PeriodChange{End: DateChange{Mode: DateSet}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = PeriodChange{End: DateChange{Mode: "shift"}}.Normalize()
	assert.ErrorIs(t, err, ErrInvalidInput)

	pc, err := PeriodChange{Start: DateChange{Value: " 2024-01-02 "}}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, DateChange{Mode: DateSet, Value: "2024-01-02"}, pc.Start)
	assert.Equal(t, DateKeep, pc.End.Mode)
	assert.False(t, pc.NoOp())
}

func TestAppearanceCreatedLazily(t *testing.T) {
	svc, _ := newTestService(t, samplePromotions()...)

	p, _ := svc.Get("a")
	assert.Nil(t, p.Appearance)

	a, err := svc.Appearance("a")
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAppearance(), a)

	a.BadgeText = "Хит"
	require.NoError(t, svc.SaveAppearance("a", a, "designer"))

	again, err := svc.Appearance("a")
	require.NoError(t, err)
	assert.Equal(t, "Хит", again.BadgeText)

	_, err = svc.Appearance("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveAppearanceRejectsLongTooltip(t *testing.T) {
	svc, _ := newTestService(t, samplePromotions()...)

	a := models.DefaultAppearance()
	long := make([]rune, models.MaxTooltipLength+1)
	for i := range long {
		long[i] = 'я'
	}
	a.BadgeTooltipText = string(long)
	assert.ErrorIs(t, svc.SaveAppearance("a", a, ""), ErrInvalidInput)
}

func TestOptions(t *testing.T) {
	svc, _ := newTestService(t, samplePromotions()...)

	opts := svc.Options()
	assert.Equal(t, []string{"Alpha", "Beta", "Delta", "Gamma"}, opts.Names)
	assert.Equal(t, []string{"X", "Y"}, opts.Projects)
	assert.Len(t, opts.Priorities, 10)
	assert.Len(t, opts.Types, len(models.PromotionTypes))
	assert.Contains(t, opts.SortKeys, "priority")
}
