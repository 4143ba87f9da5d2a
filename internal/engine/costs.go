package engine

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

// UnitCost is the full cost of producing one unit of a product in a period.
type UnitCost struct {
	DirectMaterialCost decimal.Decimal `json:"direct_material_cost"`
	VariableOverhead   decimal.Decimal `json:"variable_overhead"`
	FixedOverhead      decimal.Decimal `json:"fixed_overhead"`
	TotalCostPerUnit   decimal.Decimal `json:"total_cost_per_unit"`
}

// periodStats caches the per-period sums shared by the allocation functions.
type periodStats struct {
	unitsByProduct   map[int64]int
	revenueByProduct map[int64]decimal.Decimal
	ordersByProduct  map[int64]int
	totalUnits       int
	totalRevenue     decimal.Decimal
	totalOrders      int
	variableExpenses decimal.Decimal
	fixedPool        decimal.Decimal
}

func (c *Calculator) stats(period models.Period) periodStats {
	st := periodStats{
		unitsByProduct:   make(map[int64]int),
		revenueByProduct: make(map[int64]decimal.Decimal),
		ordersByProduct:  make(map[int64]int),
	}
	for _, sale := range c.snap.Sales {
		if !period.Contains(sale.Date) {
			continue
		}
		st.unitsByProduct[sale.ProductID] += sale.Quantity
		st.revenueByProduct[sale.ProductID] = st.revenueByProduct[sale.ProductID].Add(sale.Amount)
		st.ordersByProduct[sale.ProductID]++
		st.totalUnits += sale.Quantity
		st.totalRevenue = st.totalRevenue.Add(sale.Amount)
		st.totalOrders++
	}
	st.variableExpenses = c.variableExpenses(period)
	st.fixedPool = c.PeriodOverhead(period)
	return st
}

func (st periodStats) volume(productID int64) SalesVolume {
	return SalesVolume{
		ProductUnits:   st.unitsByProduct[productID],
		TotalUnits:     st.totalUnits,
		ProductRevenue: st.revenueByProduct[productID],
		TotalRevenue:   st.totalRevenue,
	}
}

// DirectMaterialCost is the recipe cost of a single unit. Recipe lines whose
// ingredient is unknown contribute nothing.
func (c *Calculator) DirectMaterialCost(product models.Product) decimal.Decimal {
	total := decimal.Zero
	for _, line := range product.Recipe {
		in, ok := c.ingredients[line.IngredientID]
		if !ok {
			continue
		}
		total = total.Add(in.UnitCost.Mul(line.QuantityPerUnit))
	}
	return total
}

// EffectiveSalary is the employee's base salary plus the signed adjustments
// recorded for month. Unknown employees earn zero.
func (c *Calculator) EffectiveSalary(employeeID int64, month models.Month) decimal.Decimal {
	var (
		salary decimal.Decimal
		found  bool
	)
	for _, e := range c.snap.Employees {
		if e.ID == employeeID {
			salary, found = e.BaseSalary, true
			break
		}
	}
	if !found {
		return decimal.Zero
	}
	for _, adj := range c.snap.SalaryAdjustments {
		if adj.EmployeeID == employeeID && adj.Month == month {
			salary = salary.Add(adj.Signed())
		}
	}
	return salary
}

// MonthlyOverhead sums active bills at their estimated amount and every
// employee's effective salary for month.
func (c *Calculator) MonthlyOverhead(month models.Month) decimal.Decimal {
	total := decimal.Zero
	for _, b := range c.snap.Bills {
		if b.IsActive {
			total = total.Add(b.EstimatedAmount)
		}
	}
	for _, e := range c.snap.Employees {
		total = total.Add(c.EffectiveSalary(e.ID, month))
	}
	return total
}

// PeriodOverhead prorates the overhead of the period's first month with the
// flat divisor: overhead x days / divisor.
func (c *Calculator) PeriodOverhead(period models.Period) decimal.Decimal {
	days := period.ProrationDays()
	if days == 0 {
		return decimal.Zero
	}
	return c.MonthlyOverhead(period.OverheadMonth()).Mul(units(days)).Div(c.divisor)
}

func (c *Calculator) variableExpenses(period models.Period) decimal.Decimal {
	total := decimal.Zero
	for _, e := range c.snap.Expenses {
		if c.isVariable(e.Type) && period.Contains(e.Date) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// VariableOverheadPerUnit allocates the period's variable expenses to one unit of productID.
func (c *Calculator) VariableOverheadPerUnit(productID int64, period models.Period) decimal.Decimal {
	st := c.stats(period)
	return c.allocation.PerUnit(st.variableExpenses, st.volume(productID))
}

// FixedOverheadPerUnit allocates the prorated monthly overhead to one unit of productID.
func (c *Calculator) FixedOverheadPerUnit(productID int64, period models.Period) decimal.Decimal {
	st := c.stats(period)
	return c.allocation.PerUnit(st.fixedPool, st.volume(productID))
}

// FullCostPerUnit combines material, variable and fixed cost for one unit.
func (c *Calculator) FullCostPerUnit(product models.Product, period models.Period) UnitCost {
	return c.unitCost(product, c.stats(period))
}

func (c *Calculator) unitCost(product models.Product, st periodStats) UnitCost {
	v := st.volume(product.ID)
	uc := UnitCost{
		DirectMaterialCost: c.DirectMaterialCost(product),
		VariableOverhead:   c.allocation.PerUnit(st.variableExpenses, v),
		FixedOverhead:      c.allocation.PerUnit(st.fixedPool, v),
	}
	uc.TotalCostPerUnit = uc.DirectMaterialCost.Add(uc.VariableOverhead).Add(uc.FixedOverhead)
	return uc
}
