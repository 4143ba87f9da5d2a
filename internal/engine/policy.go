package engine

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

// DefaultVariableExpense classifies utilities, maintenance, marketing and other
// expenses as variable. Rent reaches overhead through recurring bills instead.
func DefaultVariableExpense(t models.ExpenseType) bool {
	switch t {
	case models.ExpenseUtilities, models.ExpenseMaintenance, models.ExpenseMarketing, models.ExpenseOther:
		return true
	}
	return false
}

// SalesVolume is what an allocation policy knows about a product's sales
// relative to the whole catalog for one period.
type SalesVolume struct {
	ProductUnits   int
	TotalUnits     int
	ProductRevenue decimal.Decimal
	TotalRevenue   decimal.Decimal
}

// AllocationPolicy spreads a period cost pool over the units of one product.
type AllocationPolicy interface {
	Name() string
	PerUnit(pool decimal.Decimal, volume SalesVolume) decimal.Decimal
}

// UnitVolumeAllocation gives every unit sold in the period the same share of
// the pool, whatever the product.
type UnitVolumeAllocation struct{}

func (UnitVolumeAllocation) Name() string { return "units" }

// PerUnit returns pool / totalUnits, or zero when the product or the catalog sold nothing.
func (UnitVolumeAllocation) PerUnit(pool decimal.Decimal, v SalesVolume) decimal.Decimal {
	if v.ProductUnits <= 0 || v.TotalUnits <= 0 {
		return decimal.Zero
	}
	// (pool x productUnits / totalUnits) / productUnits
	return pool.Div(decimal.NewFromInt(int64(v.TotalUnits)))
}

// RevenueWeightedAllocation assigns each product a slice of the pool matching
// its share of period revenue, then spreads that slice over the product's units.
type RevenueWeightedAllocation struct{}

func (RevenueWeightedAllocation) Name() string { return "revenue" }

func (RevenueWeightedAllocation) PerUnit(pool decimal.Decimal, v SalesVolume) decimal.Decimal {
	if v.ProductUnits <= 0 || !v.TotalRevenue.IsPositive() {
		return decimal.Zero
	}
	share := pool.Mul(v.ProductRevenue).Div(v.TotalRevenue)
	return share.Div(decimal.NewFromInt(int64(v.ProductUnits)))
}

// AllocationByName resolves a policy from its configured name.
func AllocationByName(name string) (AllocationPolicy, bool) {
	switch name {
	case "", "units":
		return UnitVolumeAllocation{}, true
	case "revenue":
		return RevenueWeightedAllocation{}, true
	}
	return nil, false
}
