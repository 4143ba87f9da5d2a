package memory

import (
	"context"
	"sync"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
)

// Store keeps every entity collection in process memory. Reads hand out copies
// so callers get a stable snapshot.
type Store struct {
	mu      sync.RWMutex
	snap    engine.Snapshot
	reports []models.MonthlyReport
}

// New builds a store holding a copy of snapshot.
func New(snapshot engine.Snapshot) *Store {
	return &Store{snap: snapshot.Clone()}
}

// Snapshot returns a copy of the current collections.
func (s *Store) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return engine.Snapshot{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone(), nil
}

// SaveMonthlyReport archives a report, replacing any earlier one for the same month.
func (s *Store) SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.reports {
		if s.reports[i].Month == report.Month {
			s.reports[i] = report
			return nil
		}
	}
	s.reports = append(s.reports, report)
	return nil
}

// LatestMonthlyReport returns the most recent archived month, or nil when nothing was archived.
func (s *Store) LatestMonthlyReport(ctx context.Context) (*models.MonthlyReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *models.MonthlyReport
	for i := range s.reports {
		if latest == nil || s.reports[i].Month > latest.Month {
			r := s.reports[i]
			latest = &r
		}
	}
	return latest, nil
}
