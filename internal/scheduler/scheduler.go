package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/domain/models"
)

// ReportSource computes the summary of a calendar month.
type ReportSource interface {
	MonthlyReport(ctx context.Context, month models.Month) (models.MonthlyReport, error)
}

// ReportArchive persists generated monthly reports.
type ReportArchive interface {
	SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error
}

// ReportNotifier delivers a monthly report to a person.
type ReportNotifier interface {
	NotifyMonthlyReport(ctx context.Context, report models.MonthlyReport) error
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	cfg      config.ReportingConfig
	source   ReportSource
	archive  ReportArchive
	notifier ReportNotifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduler creates a new scheduler instance. archive and notifier may be
// nil when the deployment has no report storage or no recipient.
func NewScheduler(cfg config.ReportingConfig, source ReportSource, archive ReportArchive, notifier ReportNotifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(cfg.Location())),
		cfg:      cfg,
		source:   source,
		archive:  archive,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Start registers the monthly report job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runMonthlyReport); err != nil {
		return fmt.Errorf("schedule monthly report %q: %w", s.cfg.CronSchedule, err)
	}
	s.logger.Info("starting scheduler",
		zap.String("schedule", s.cfg.CronSchedule),
		zap.String("timezone", s.cfg.Location().String()))
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// RunNow generates, archives and sends the report for month. An archive
// failure aborts before notification.
func (s *Scheduler) RunNow(ctx context.Context, month models.Month) (models.MonthlyReport, error) {
	report, err := s.source.MonthlyReport(ctx, month)
	if err != nil {
		return models.MonthlyReport{}, fmt.Errorf("generate monthly report %s: %w", month, err)
	}

	if s.archive != nil {
		if err := s.archive.SaveMonthlyReport(ctx, report); err != nil {
			return report, fmt.Errorf("archive monthly report %s: %w", month, err)
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyMonthlyReport(ctx, report); err != nil {
			return report, fmt.Errorf("notify monthly report %s: %w", month, err)
		}
	}
	return report, nil
}

// previousMonth is the last full month as seen in the configured timezone.
func (s *Scheduler) previousMonth() models.Month {
	return models.MonthOf(s.now().In(s.cfg.Location())).Prev()
}

func (s *Scheduler) runMonthlyReport() {
	month := s.previousMonth()
	s.logger.Info("generating monthly report", zap.String("month", month.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.RunNow(ctx, month)
	switch {
	case err == nil:
		s.logger.Info("monthly report completed",
			zap.String("month", month.String()),
			zap.String("net_profit", report.NetProfit.StringFixed(2)))
	case errors.Is(err, context.DeadlineExceeded):
		s.logger.Error("monthly report timed out", zap.String("month", month.String()), zap.Error(err))
	default:
		s.logger.Error("monthly report failed", zap.String("month", month.String()), zap.Error(err))
	}
}
