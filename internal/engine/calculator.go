// Package engine turns an entity snapshot into period-bounded cost, revenue,
// profitability and owner distribution figures. It performs no I/O and reads
// no clock; every month or period is passed in by the caller.
package engine

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

// DefaultProrationDivisor is the flat month length used to prorate monthly overhead.
const DefaultProrationDivisor = 30

// Calculator answers financial questions about a single snapshot. It is safe
// for concurrent use and never modifies the snapshot.
type Calculator struct {
	snap        Snapshot
	ingredients map[int64]models.Ingredient
	products    map[int64]models.Product

	isVariable func(models.ExpenseType) bool
	allocation AllocationPolicy
	divisor    decimal.Decimal
}

// Option customizes a Calculator.
type Option func(*Calculator)

// WithVariableExpenseRule replaces DefaultVariableExpense.
func WithVariableExpenseRule(rule func(models.ExpenseType) bool) Option {
	return func(c *Calculator) {
		if rule != nil {
			c.isVariable = rule
		}
	}
}

// WithAllocation replaces UnitVolumeAllocation.
func WithAllocation(policy AllocationPolicy) Option {
	return func(c *Calculator) {
		if policy != nil {
			c.allocation = policy
		}
	}
}

// WithProrationDivisor sets the number of days a monthly overhead is spread
// over. Non-positive values are ignored.
func WithProrationDivisor(days int) Option {
	return func(c *Calculator) {
		if days > 0 {
			c.divisor = decimal.NewFromInt(int64(days))
		}
	}
}

// New indexes the snapshot for lookups. When ids repeat, the first entity wins.
func New(snapshot Snapshot, opts ...Option) *Calculator {
	c := &Calculator{
		snap:        snapshot,
		ingredients: make(map[int64]models.Ingredient, len(snapshot.Ingredients)),
		products:    make(map[int64]models.Product, len(snapshot.Products)),
		isVariable:  DefaultVariableExpense,
		allocation:  UnitVolumeAllocation{},
		divisor:     decimal.NewFromInt(DefaultProrationDivisor),
	}
	for _, in := range snapshot.Ingredients {
		if _, ok := c.ingredients[in.ID]; !ok {
			c.ingredients[in.ID] = in
		}
	}
	for _, p := range snapshot.Products {
		if _, ok := c.products[p.ID]; !ok {
			c.products[p.ID] = p
		}
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Product looks up a catalog product by id.
func (c *Calculator) Product(id int64) (models.Product, bool) {
	p, ok := c.products[id]
	return p, ok
}

// Allocation reports the active allocation policy.
func (c *Calculator) Allocation() AllocationPolicy { return c.allocation }

// Percent returns part / whole x 100, or zero when whole is zero.
func Percent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Mul(decimal.NewFromInt(100)).Div(whole)
}

// ratio returns a / b, or zero when b is zero.
func ratio(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}

func units(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
