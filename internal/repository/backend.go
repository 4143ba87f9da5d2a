// Package repository selects the entity store configured for the process.
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
	"github.com/mamadbah2/smallerp/internal/repository/memory"
	"github.com/mamadbah2/smallerp/internal/repository/mongodb"
	"github.com/mamadbah2/smallerp/internal/repository/sheets"
)

// SnapshotReader loads every entity collection at once.
type SnapshotReader interface {
	Snapshot(ctx context.Context) (engine.Snapshot, error)
}

// ReportArchive stores generated monthly reports.
type ReportArchive interface {
	SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error
}

// Backend bundles the opened store with its report archive.
type Backend struct {
	Driver  string
	Store   SnapshotReader
	Archive ReportArchive
	closer  func(context.Context) error
}

// Close releases connections held by the backend.
func (b *Backend) Close(ctx context.Context) error {
	if b.closer == nil {
		return nil
	}
	return b.closer(ctx)
}

// Open builds the store selected by cfg.Store.Driver. The memory driver is
// seeded with the demo coffee-shop data.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Backend, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.NewDemo()
		logger.Info("using in-memory demo store")
		return &Backend{Driver: cfg.Store.Driver, Store: store, Archive: store}, nil

	case config.DriverMongoDB:
		repo, err := mongodb.NewMongoDBRepository(ctx, cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named("repo.mongodb"))
		if err != nil {
			return nil, fmt.Errorf("init mongodb repository: %w", err)
		}
		return &Backend{Driver: cfg.Store.Driver, Store: repo, Archive: repo, closer: repo.Close}, nil

	case config.DriverSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			return nil, fmt.Errorf("init sheets repository: %w", err)
		}
		store := sheets.NewStore(repo, logger.Named("repo.sheets"))
		return &Backend{Driver: cfg.Store.Driver, Store: store, Archive: store}, nil
	}

	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}
