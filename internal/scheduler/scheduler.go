package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/promoboard/internal/config"
	"github.com/mamadbah2/promoboard/internal/domain/models"
	"github.com/mamadbah2/promoboard/internal/service/registry"
)

// Notifications drops expired toasts and receives the weekly digest.
type Notifications interface {
	Sweep() int
	Success(message string)
}

// Reporter composes the weekly digest.
type Reporter interface {
	GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error)
}

// Exporter queues export jobs.
type Exporter interface {
	Start(format string, rows []models.Promotion) (models.ExportJob, error)
}

// Registry lists the filtered and sorted promotions.
type Registry interface {
	List(f registry.Filter, s registry.Sort) ([]models.Promotion, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron          *cron.Cron
	notifications Notifications
	exports       Exporter
	registry      Registry
	reports       Reporter
	cfg           config.Config
	logger        *zap.Logger
}

// NewScheduler creates a new scheduler instance. Jobs whose dependencies are nil
// are not registered.
func NewScheduler(cfg config.Config, notifications Notifications, exports Exporter, reg Registry, reports Reporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Standard 5-field parser plus descriptors such as "@every 1s".
	c := cron.New()

	return &Scheduler{
		cron:          c,
		notifications: notifications,
		exports:       exports,
		registry:      reg,
		reports:       reports,
		cfg:           cfg,
		logger:        logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if s.notifications != nil {
		if _, err := s.cron.AddFunc(s.cfg.Notifications.SweepSchedule, s.sweepNotifications); err != nil {
			s.logger.Error("failed to schedule notification sweep",
				zap.String("schedule", s.cfg.Notifications.SweepSchedule), zap.Error(err))
		}
	}

	if schedule := s.cfg.Export.CronSchedule; schedule != "" && s.exports != nil && s.registry != nil {
		if _, err := s.cron.AddFunc(schedule, s.exportRegistry); err != nil {
			s.logger.Error("failed to schedule registry export", zap.String("schedule", schedule), zap.Error(err))
		}
	}

	if schedule := s.cfg.Reporting.WeeklySchedule; schedule != "" && s.reports != nil && s.notifications != nil {
		if _, err := s.cron.AddFunc(schedule, s.sendWeeklyReport); err != nil {
			s.logger.Error("failed to schedule weekly report", zap.String("schedule", schedule), zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) sweepNotifications() {
	if n := s.notifications.Sweep(); n > 0 {
		s.logger.Debug("expired notifications swept", zap.Int("count", n))
	}
}

func (s *Scheduler) exportRegistry() {
	rows, err := s.registry.List(registry.Filter{}, registry.DefaultSort())
	if err != nil {
		s.logger.Error("failed to list registry for export", zap.Error(err))
		return
	}

	job, err := s.exports.Start(string(models.ExportExcel), rows)
	if err != nil {
		s.logger.Error("failed to start scheduled export", zap.Error(err))
		return
	}
	s.logger.Info("scheduled export queued", zap.String("job", job.ID), zap.Int("rows", job.RowCount))
}

func (s *Scheduler) sendWeeklyReport() {
	s.logger.Info("generating weekly report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reports.GenerateWeeklyReport(ctx, time.Now())
	if err != nil {
		s.logger.Error("failed to generate weekly report", zap.Error(err))
		return
	}

	s.notifications.Success(report)
	s.logger.Info("weekly report sent successfully")
}
