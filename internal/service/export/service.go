package export

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/domain/models"
)

var (
	// ErrUnsupportedFormat indicates a format other than Excel or PDF.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNotFound indicates no export job carries the requested id.
	ErrNotFound = errors.New("export job not found")
	// ErrExportNotReady indicates the job has no downloadable artifact yet, or never will.
	ErrExportNotReady = errors.New("export artifact not ready")
)

const archiveTimeout = 10 * time.Second

// Notifier receives the export progress messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// Archive stores finished job summaries.
type Archive interface {
	SaveExport(ctx context.Context, record models.ExportRecord) error
}

// Service runs simulated export jobs. A job stays pending for the configured delay
// and then completes; Excel jobs leave a workbook behind.
type Service struct {
	mu        sync.Mutex
	jobs      map[string]*models.ExportJob
	artifacts map[string][]byte
	timers    map[string]*time.Timer
	closed    bool
	running   sync.WaitGroup
	delay     time.Duration
	archive   Archive
	notifier  Notifier
	logger    *zap.Logger
	now       func() time.Time
	newID     func() string
}

// NewService wires an export service. archive may be nil.
func NewService(delay time.Duration, archive Archive, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		jobs:      make(map[string]*models.ExportJob),
		artifacts: make(map[string][]byte),
		timers:    make(map[string]*time.Timer),
		delay:     delay,
		archive:   archive,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Start queues an export of the given registry rows.
func (s *Service) Start(format string, rows []models.Promotion) (models.ExportJob, error) {
	f, ok := models.ParseExportFormat(format)
	if !ok {
		return models.ExportJob{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	snapshot := make([]models.Promotion, len(rows))
	for i, p := range rows {
		snapshot[i] = p.Clone()
	}

	job := &models.ExportJob{
		ID:          s.newID(),
		Format:      f,
		Status:      models.ExportPending,
		RowCount:    len(snapshot),
		RequestedAt: s.now().UTC(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return models.ExportJob{}, errors.New("export service is shut down")
	}
	s.jobs[job.ID] = job
	// Announce before the timer exists so the start message always precedes the result.
	s.notify(fmt.Sprintf("Экспорт в %s запущен...", f))
	s.running.Add(1)
	id := job.ID
	s.timers[id] = time.AfterFunc(s.delay, func() {
		defer s.running.Done()
		s.complete(id, snapshot)
	})
	out := *job
	s.mu.Unlock()

	s.logger.Info("export started", zap.String("job", id), zap.String("format", string(f)), zap.Int("rows", len(snapshot)))
	return out, nil
}

func (s *Service) complete(id string, rows []models.Promotion) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	job, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.timers, id)
	format := job.Format
	s.mu.Unlock()

	var artifact []byte
	var renderErr error
	if format == models.ExportExcel {
		artifact, renderErr = RenderRegistry(rows)
	}

	s.mu.Lock()
	done := s.now().UTC()
	job.CompletedAt = &done
	if renderErr != nil {
		job.Status = models.ExportFailed
		job.Error = renderErr.Error()
	} else {
		job.Status = models.ExportDone
		if artifact != nil {
			job.Filename = fmt.Sprintf("promotions-%s.xlsx", done.Format("20060102-150405"))
			job.Size = len(artifact)
			s.artifacts[id] = artifact
		}
	}
	record := models.ExportRecord{
		JobID:       job.ID,
		Format:      job.Format,
		Status:      job.Status,
		RowCount:    job.RowCount,
		Size:        job.Size,
		RequestedAt: job.RequestedAt,
		CompletedAt: done,
	}
	s.mu.Unlock()

	if renderErr != nil {
		s.logger.Error("export failed", zap.String("job", id), zap.Error(renderErr))
		if s.notifier != nil {
			s.notifier.Error(fmt.Sprintf("Не удалось выгрузить файл %s", format))
		}
	} else {
		s.logger.Info("export completed", zap.String("job", id), zap.Int("size", record.Size))
		s.notify(fmt.Sprintf("Файл %s успешно загружен", format))
	}

	if s.archive != nil {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		if err := s.archive.SaveExport(ctx, record); err != nil {
			s.logger.Warn("failed to archive export job", zap.String("job", id), zap.Error(err))
		}
	}
}

func (s *Service) notify(message string) {
	if s.notifier != nil {
		s.notifier.Success(message)
	}
}

// Get returns the current state of a job.
func (s *Service) Get(id string) (models.ExportJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.ExportJob{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *job, nil
}

// List returns every job, newest first.
func (s *Service) List() []models.ExportJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ExportJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, *j)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.After(out[j].RequestedAt) })
	return out
}

// Artifact returns the workbook of a finished Excel job.
func (s *Service) Artifact(id string) (models.ExportJob, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return models.ExportJob{}, nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	data, ok := s.artifacts[id]
	if !ok {
		return *job, nil, fmt.Errorf("%w: job %s is %s", ErrExportNotReady, id, job.Status)
	}
	return *job, data, nil
}

// Close cancels pending jobs and waits for running completions.
func (s *Service) Close() {
	s.mu.Lock()
	s.closed = true
	for id, t := range s.timers {
		if t.Stop() {
			s.running.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	s.running.Wait()
}
