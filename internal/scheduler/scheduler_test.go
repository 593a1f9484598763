package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/promoboard/internal/config"
	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/service/registry"
)

type fakeNotifications struct {
	mu       sync.Mutex
	calls    int
	messages []string
}

func (f *fakeNotifications) Success(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

func (f *fakeNotifications) Sweep() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return 1
}

func (f *fakeNotifications) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeExporter struct {
	format string
	rows   []models.Promotion
	err    error
}

func (f *fakeExporter) Start(format string, rows []models.Promotion) (models.ExportJob, error) {
	f.format, f.rows = format, rows
	if f.err != nil {
		return models.ExportJob{}, f.err
	}
	return models.ExportJob{ID: "job-1", RowCount: len(rows)}, nil
}

type fakeRegistry struct {
	sort registry.Sort
	err  error
}

func (f *fakeRegistry) List(_ registry.Filter, s registry.Sort) ([]models.Promotion, error) {
	f.sort = s
	return []models.Promotion{{ID: "p-1"}, {ID: "p-2"}}, f.err
}

type fakeReporter struct {
	text string
	err  error
}

func (f fakeReporter) GenerateWeeklyReport(context.Context, time.Time) (string, error) {
	return f.text, f.err
}

func testConfig() config.Config {
	return config.Config{
		Notifications: config.NotificationsConfig{SweepSchedule: "@every 10ms"},
	}
}

func TestSweepRunsOnSchedule(t *testing.T) {
	sw := &fakeNotifications{}
	s := NewScheduler(testConfig(), sw, nil, nil, nil, nil)
	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return sw.count() > 0 }, 3*time.Second, 10*time.Millisecond)
}

func TestStartRegistersConfiguredJobs(t *testing.T) {
	cfg := testConfig()
	cfg.Export.CronSchedule = "0 9 * * 1"
	cfg.Reporting.WeeklySchedule = "0 20 * * 5"

	s := NewScheduler(cfg, &fakeNotifications{}, &fakeExporter{}, &fakeRegistry{}, fakeReporter{}, nil)
	s.Start()
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 3)
}

func TestStartSkipsExportWithoutSchedule(t *testing.T) {
	s := NewScheduler(testConfig(), &fakeNotifications{}, &fakeExporter{}, &fakeRegistry{}, nil, nil)
	s.Start()
	defer s.Stop()

	assert.Len(t, s.cron.Entries(), 1)
}

func TestInvalidScheduleIsLoggedNotFatal(t *testing.T) {
	cfg := testConfig()
	cfg.Notifications.SweepSchedule = "not a schedule"

	s := NewScheduler(cfg, &fakeNotifications{}, nil, nil, nil, nil)
	s.Start()
	defer s.Stop()

	assert.Empty(t, s.cron.Entries())
}

func TestExportRegistryUsesDefaultSort(t *testing.T) {
	exp := &fakeExporter{}
	reg := &fakeRegistry{}
	s := NewScheduler(testConfig(), nil, exp, reg, nil, nil)

	s.exportRegistry()

	assert.Equal(t, registry.DefaultSort(), reg.sort)
	assert.Equal(t, "Excel", exp.format)
	require.Len(t, exp.rows, 2)
}

func TestExportRegistryStopsOnListError(t *testing.T) {
	exp := &fakeExporter{}
	s := NewScheduler(testConfig(), nil, exp, &fakeRegistry{err: errors.New("boom")}, nil, nil)

	s.exportRegistry()

	assert.Empty(t, exp.format)
}

func TestSendWeeklyReportNotifies(t *testing.T) {
	sw := &fakeNotifications{}
	s := NewScheduler(testConfig(), sw, nil, nil, fakeReporter{text: "Сводка"}, nil)

	s.sendWeeklyReport()
	assert.Equal(t, []string{"Сводка"}, sw.messages)

	s.reports = fakeReporter{err: errors.New("boom")}
	s.sendWeeklyReport()
	assert.Len(t, sw.messages, 1)
}
