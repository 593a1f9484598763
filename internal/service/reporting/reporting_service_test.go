package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/service/analytics"
)

type fakeAnalytics struct {
	report analytics.Report
	err    error
}

func (f fakeAnalytics) Report(analytics.State) (analytics.Report, error) { return f.report, f.err }

type fakeRegistry []models.Promotion

func (f fakeRegistry) All() []models.Promotion { return f }

var now = time.Date(2024, 7, 15, 20, 0, 0, 0, time.UTC)

func TestGenerateWeeklyReport(t *testing.T) {
	reg := fakeRegistry{
		{ID: "p-1", Status: models.StatusActive, EndDate: "2024-07-20"},
		{ID: "p-2", Status: models.StatusActive, EndDate: "2024-12-31"},
		{ID: "p-3", Status: models.StatusArchived, EndDate: "2024-07-16"},
	}
	stats := fakeAnalytics{report: analytics.Report{
		KPIs: analytics.KPIs{Promotions: 3, SoldUnits: 12, RevenueMln: 98.4, DiscountMln: 6.9},
		Rows: []analytics.Row{{Name: "Старт продаж"}},
	}}

	text, err := NewService(stats, reg, nil).GenerateWeeklyReport(context.Background(), now)
	require.NoError(t, err)

	assert.Contains(t, text, "Сводка по акциям на 2024-07-15")
	assert.Contains(t, text, "Активных акций: 2 из 3")
	assert.Contains(t, text, "Заканчиваются в течение недели: 1")
	assert.Contains(t, text, "Продано помещений: 12")
	assert.Contains(t, text, "Выручка: 98.4 млн ₽, скидки: 6.9 млн ₽")
	assert.Contains(t, text, "Лидер по выручке: Старт продаж")
}

func TestGenerateWeeklyReportEmptyRegistry(t *testing.T) {
	text, err := NewService(fakeAnalytics{}, fakeRegistry{}, nil).GenerateWeeklyReport(context.Background(), now)
	require.NoError(t, err)

	assert.Contains(t, text, "Активных акций: 0 из 0")
	assert.NotContains(t, text, "Заканчиваются")
	assert.NotContains(t, text, "Лидер")
}

func TestGenerateWeeklyReportErrors(t *testing.T) {
	svc := NewService(fakeAnalytics{err: errors.New("boom")}, fakeRegistry{}, nil)
	_, err := svc.GenerateWeeklyReport(context.Background(), now)
	assert.ErrorContains(t, err, "boom")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = svc.GenerateWeeklyReport(ctx, now)
	assert.ErrorIs(t, err, context.Canceled)
}
