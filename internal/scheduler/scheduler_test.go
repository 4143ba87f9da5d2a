package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/domain/models"
)

type fakeSource struct {
	asked []models.Month
	err   error
}

func (f *fakeSource) MonthlyReport(_ context.Context, month models.Month) (models.MonthlyReport, error) {
	f.asked = append(f.asked, month)
	return models.MonthlyReport{Month: month, NetProfit: decimal.NewFromInt(42)}, f.err
}

type fakeArchive struct {
	saved []models.MonthlyReport
	err   error
}

func (f *fakeArchive) SaveMonthlyReport(_ context.Context, report models.MonthlyReport) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, report)
	return nil
}

type fakeNotifier struct{ sent int }

func (f *fakeNotifier) NotifyMonthlyReport(context.Context, models.MonthlyReport) error {
	f.sent++
	return nil
}

var reporting = config.ReportingConfig{Enabled: true, CronSchedule: "0 6 1 * *", Timezone: "UTC"}

func TestRunNowArchivesAndNotifies(t *testing.T) {
	source, archive, notifier := &fakeSource{}, &fakeArchive{}, &fakeNotifier{}
	s := NewScheduler(reporting, source, archive, notifier, nil)

	report, err := s.RunNow(context.Background(), "2024-12")
	if err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if report.Month != "2024-12" || len(archive.saved) != 1 || notifier.sent != 1 {
		t.Fatalf("report=%+v saved=%d sent=%d", report, len(archive.saved), notifier.sent)
	}
}

func TestRunNowWithoutArchiveOrNotifier(t *testing.T) {
	s := NewScheduler(reporting, &fakeSource{}, nil, nil, nil)
	if _, err := s.RunNow(context.Background(), "2024-12"); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
}

func TestRunNowStopsOnArchiveFailure(t *testing.T) {
	boom := errors.New("mongo down")
	notifier := &fakeNotifier{}
	s := NewScheduler(reporting, &fakeSource{}, &fakeArchive{err: boom}, notifier, nil)

	if _, err := s.RunNow(context.Background(), "2024-12"); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want archive failure", err)
	}
	if notifier.sent != 0 {
		t.Fatalf("notifier should not run after archive failure")
	}
}

func TestRunNowSourceFailure(t *testing.T) {
	boom := errors.New("store down")
	archive := &fakeArchive{}
	s := NewScheduler(reporting, &fakeSource{err: boom}, archive, nil, nil)

	if _, err := s.RunNow(context.Background(), "2024-12"); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want source failure", err)
	}
	if len(archive.saved) != 0 {
		t.Fatalf("nothing should be archived")
	}
}

func TestPreviousMonthUsesTimezone(t *testing.T) {
	cfg := reporting
	cfg.Timezone = "Asia/Tokyo"
	s := NewScheduler(cfg, &fakeSource{}, nil, nil, nil)
	// Still December 31st in UTC, already January 1st in Tokyo.
	s.now = func() time.Time { return time.Date(2024, 12, 31, 16, 0, 0, 0, time.UTC) }

	if got := s.previousMonth(); got != "2024-12" {
		t.Fatalf("previousMonth = %s, want 2024-12", got)
	}

	s.cfg.Timezone = "UTC"
	if got := s.previousMonth(); got != "2024-11" {
		t.Fatalf("previousMonth in UTC = %s, want 2024-11", got)
	}
}

func TestScheduledJobRunsPreviousMonth(t *testing.T) {
	source := &fakeSource{}
	s := NewScheduler(reporting, source, nil, nil, nil)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 6, 0, 0, 0, time.UTC) }

	s.runMonthlyReport()
	if len(source.asked) != 1 || source.asked[0] != "2025-02" {
		t.Fatalf("asked = %v, want [2025-02]", source.asked)
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := reporting
	cfg.CronSchedule = "every monday"
	s := NewScheduler(cfg, &fakeSource{}, nil, nil, nil)
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatalf("expected error for invalid cron expression")
	}

	s = NewScheduler(reporting, &fakeSource{}, nil, nil, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}
