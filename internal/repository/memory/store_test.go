package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
)

func TestDemoSnapshotIsConsistent(t *testing.T) {
	snap := DemoSnapshot()
	if err := snap.Validate(); err != nil {
		t.Fatalf("demo data should validate: %v", err)
	}
	if len(snap.Sales) != 13 || len(snap.Products) != 3 || len(snap.Owners) != 2 {
		t.Fatalf("unexpected demo sizes: %d sales, %d products, %d owners", len(snap.Sales), len(snap.Products), len(snap.Owners))
	}
}

func TestDemoDecemberFigures(t *testing.T) {
	calc := engine.New(DemoSnapshot())

	// bills 3050 + salaries 2700 + 3800 + 2100
	if got := calc.MonthlyOverhead("2024-12"); !got.Equal(decimal.NewFromInt(11650)) {
		t.Fatalf("December overhead = %s, want 11650", got)
	}
	revenue := calc.TotalRevenue(models.MonthPeriod("2024-12"))
	if !revenue.TotalRevenue.Equal(decimal.NewFromInt(678)) || revenue.TotalOrders != 8 {
		t.Fatalf("December revenue = %s over %d orders", revenue.TotalRevenue, revenue.TotalOrders)
	}
}

func TestSnapshotReturnsCopies(t *testing.T) {
	store := NewDemo()
	ctx := context.Background()

	first, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	first.Sales[0].Quantity = 999
	first.Products[0].Recipe[0].QuantityPerUnit = decimal.NewFromInt(5)

	second, _ := store.Snapshot(ctx)
	if second.Sales[0].Quantity == 999 || second.Products[0].Recipe[0].QuantityPerUnit.Equal(decimal.NewFromInt(5)) {
		t.Fatalf("store leaked internal state through Snapshot")
	}
}

func TestSnapshotHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewDemo().Snapshot(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Snapshot error = %v, want context.Canceled", err)
	}
}

func TestMonthlyReportArchive(t *testing.T) {
	store := New(engine.Snapshot{})
	ctx := context.Background()

	latest, err := store.LatestMonthlyReport(ctx)
	if err != nil || latest != nil {
		t.Fatalf("empty archive = %v, %v", latest, err)
	}

	for _, m := range []models.Month{"2024-11", "2024-12", "2024-10"} {
		if err := store.SaveMonthlyReport(ctx, models.MonthlyReport{Month: m}); err != nil {
			t.Fatalf("SaveMonthlyReport: %v", err)
		}
	}
	if err := store.SaveMonthlyReport(ctx, models.MonthlyReport{Month: "2024-12", Orders: 8}); err != nil {
		t.Fatalf("SaveMonthlyReport overwrite: %v", err)
	}

	latest, err = store.LatestMonthlyReport(ctx)
	if err != nil {
		t.Fatalf("LatestMonthlyReport: %v", err)
	}
	if latest.Month != "2024-12" || latest.Orders != 8 {
		t.Fatalf("latest report = %+v", latest)
	}
}
