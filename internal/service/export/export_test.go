package export

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

type recorder struct {
	mu       sync.Mutex
	messages []string
	records  []models.ExportRecord
}

func (r *recorder) Success(m string) { r.add(m) }
func (r *recorder) Error(m string)   { r.add(m) }

func (r *recorder) add(m string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, m)
}

func (r *recorder) SaveExport(_ context.Context, rec models.ExportRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *recorder) snapshot() ([]string, []models.ExportRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...), append([]models.ExportRecord(nil), r.records...)
}

func rows() []models.Promotion {
	return []models.Promotion{
		{ID: "p-1", Name: "Скидка 5%", Project: "ЖК", Status: models.StatusActive, Type: models.TypeDiscount, AdjustmentType: models.AdjustPercentOfCost, AdjustmentValue: 5, AdjustmentMode: models.ModeDecrease, StartDate: "2024-01-01", UnitIDs: []string{"u1", "u2"}, Priority: 8, Stackable: true, CreatedAt: "2024-01-01"},
		{ID: "p-2", Name: "Подарок", Project: "ЖК", Status: models.StatusArchived, Type: models.TypeGift, Priority: 3, CreatedAt: "2024-02-01"},
	}
}

func waitDone(t *testing.T, svc *Service, id string) models.ExportJob {
	t.Helper()
	var job models.ExportJob
	require.Eventually(t, func() bool {
		var err error
		job, err = svc.Get(id)
		return err == nil && job.Status != models.ExportPending
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func TestRenderRegistry(t *testing.T) {
	data, err := RenderRegistry(rows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, RegistryHeader, got[0])
	assert.Equal(t, "p-1", got[1][0])
	assert.Equal(t, "Активна", got[1][3])
	assert.Equal(t, "5%", got[1][6])
	assert.Equal(t, "Понижение", got[1][7])
	assert.Equal(t, "2", got[1][10])
	assert.Equal(t, "Да", got[1][12])
	assert.Equal(t, "Архив", got[2][3])
	assert.Empty(t, got[2][6])
}

func TestAdjustmentValueUnits(t *testing.T) {
	tests := map[models.AdjustmentType]string{
		models.AdjustPercentOfCost:     "2.5%",
		models.AdjustPercentOfAreaCost: "2.5%",
		models.AdjustFixedToCost:       "2.5 ₽",
		models.AdjustFixedToAreaCost:   "2.5 ₽",
		models.AdjustNthAreaUnitGift:   "2.5",
		"":                             "",
	}
	for typ, want := range tests {
		assert.Equal(t, want, adjustmentValue(models.Promotion{AdjustmentType: typ, AdjustmentValue: 2.5}), string(typ))
	}
}

func TestExcelJobCompletesWithArtifact(t *testing.T) {
	rec := &recorder{}
	svc := NewService(10*time.Millisecond, rec, rec, nil)
	defer svc.Close()

	job, err := svc.Start("excel", rows())
	require.NoError(t, err)
	assert.Equal(t, models.ExportPending, job.Status)
	assert.Equal(t, models.ExportExcel, job.Format)
	assert.Equal(t, 2, job.RowCount)

	_, _, err = svc.Artifact(job.ID)
	assert.ErrorIs(t, err, ErrExportNotReady)

	done := waitDone(t, svc, job.ID)
	assert.Equal(t, models.ExportDone, done.Status)
	assert.NotNil(t, done.CompletedAt)
	assert.Contains(t, done.Filename, ".xlsx")

	_, data, err := svc.Artifact(job.ID)
	require.NoError(t, err)
	assert.Equal(t, done.Size, len(data))

	require.Eventually(t, func() bool {
		_, records := rec.snapshot()
		return len(records) == 1
	}, time.Second, 5*time.Millisecond)

	messages, records := rec.snapshot()
	assert.Equal(t, []string{"Экспорт в Excel запущен...", "Файл Excel успешно загружен"}, messages)
	assert.Equal(t, job.ID, records[0].JobID)
	assert.Equal(t, models.ExportDone, records[0].Status)
}

func TestPDFJobHasNoArtifact(t *testing.T) {
	svc := NewService(5*time.Millisecond, nil, nil, nil)
	defer svc.Close()

	job, err := svc.Start("PDF", rows())
	require.NoError(t, err)

	done := waitDone(t, svc, job.ID)
	assert.Equal(t, models.ExportDone, done.Status)
	assert.Empty(t, done.Filename)

	_, _, err = svc.Artifact(job.ID)
	assert.ErrorIs(t, err, ErrExportNotReady)
}

func TestStartRejectsUnknownFormat(t *testing.T) {
	svc := NewService(time.Millisecond, nil, nil, nil)
	defer svc.Close()

	_, err := svc.Start("csv", rows())
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, svc.List())
}

func TestGetUnknown(t *testing.T) {
	svc := NewService(time.Millisecond, nil, nil, nil)
	defer svc.Close()

	_, err := svc.Get("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, _, err = svc.Artifact("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCloseCancelsPendingJobs(t *testing.T) {
	rec := &recorder{}
	svc := NewService(time.Hour, nil, rec, nil)

	job, err := svc.Start("excel", rows())
	require.NoError(t, err)
	svc.Close()

	got, err := svc.Get(job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExportPending, got.Status)

	messages, _ := rec.snapshot()
	assert.Equal(t, []string{"Экспорт в Excel запущен..."}, messages)

	_, err = svc.Start("pdf", rows())
	assert.Error(t, err)
}

func TestStartSnapshotsRows(t *testing.T) {
	svc := NewService(10*time.Millisecond, nil, nil, nil)
	defer svc.Close()

	in := rows()
	job, err := svc.Start("excel", in)
	require.NoError(t, err)
	in[0].Name = "changed"

	waitDone(t, svc, job.ID)
	_, data, err := svc.Artifact(job.ID)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Equal(t, "Скидка 5%", got[1][1])
}
