package engine

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

// UncategorizedLabel groups products without a category.
const UncategorizedLabel = "Other"

// CostBreakdown mirrors the cost components for charting. Bills and
// Adjustments are informational and not part of TotalCosts.
type CostBreakdown struct {
	Materials   decimal.Decimal `json:"materials"`
	Variable    decimal.Decimal `json:"variable"`
	Fixed       decimal.Decimal `json:"fixed"`
	Bills       decimal.Decimal `json:"bills"`
	Adjustments decimal.Decimal `json:"adjustments"`
}

// ExpenseTotal aggregates the expenses of one type.
type ExpenseTotal struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// CostSummary is the cost side of a period.
type CostSummary struct {
	DirectMaterialCosts decimal.Decimal                     `json:"direct_material_costs"`
	VariableExpenses    decimal.Decimal                     `json:"variable_expenses"`
	AllocatedFixedCosts decimal.Decimal                     `json:"allocated_fixed_costs"`
	TotalCosts          decimal.Decimal                     `json:"total_costs"`
	ActualBillPayments  decimal.Decimal                     `json:"actual_bill_payments"`
	SalaryAdjustments   decimal.Decimal                     `json:"salary_adjustments"`
	ExpensesByType      map[models.ExpenseType]ExpenseTotal `json:"expenses_by_type"`
	Breakdown           CostBreakdown                       `json:"breakdown"`
}

// TotalCosts aggregates material, variable and prorated fixed costs for the
// period. A zero-length period has no costs.
func (c *Calculator) TotalCosts(period models.Period) CostSummary {
	summary := CostSummary{ExpensesByType: make(map[models.ExpenseType]ExpenseTotal)}
	if period.ProrationDays() == 0 {
		return summary
	}

	for _, sale := range c.snap.Sales {
		if !period.Contains(sale.Date) {
			continue
		}
		product, ok := c.products[sale.ProductID]
		if !ok {
			continue
		}
		summary.DirectMaterialCosts = summary.DirectMaterialCosts.Add(c.DirectMaterialCost(product).Mul(units(sale.Quantity)))
	}

	for _, e := range c.snap.Expenses {
		if !period.Contains(e.Date) {
			continue
		}
		byType := summary.ExpensesByType[e.Type]
		byType.Total = byType.Total.Add(e.Amount)
		byType.Count++
		summary.ExpensesByType[e.Type] = byType
		if c.isVariable(e.Type) {
			summary.VariableExpenses = summary.VariableExpenses.Add(e.Amount)
		}
	}

	summary.AllocatedFixedCosts = c.PeriodOverhead(period)
	summary.TotalCosts = summary.DirectMaterialCosts.Add(summary.VariableExpenses).Add(summary.AllocatedFixedCosts)

	for _, p := range c.snap.BillPayments {
		if period.Contains(p.PaidDate) {
			summary.ActualBillPayments = summary.ActualBillPayments.Add(p.ActualAmount)
		}
	}
	for _, adj := range c.snap.SalaryAdjustments {
		if period.Contains(adj.CreatedAt) {
			summary.SalaryAdjustments = summary.SalaryAdjustments.Add(adj.Signed())
		}
	}

	summary.Breakdown = CostBreakdown{
		Materials:   summary.DirectMaterialCosts,
		Variable:    summary.VariableExpenses,
		Fixed:       summary.AllocatedFixedCosts,
		Bills:       summary.ActualBillPayments,
		Adjustments: summary.SalaryAdjustments,
	}
	return summary
}

// ProductRevenue is one catalog product's sales in a period.
type ProductRevenue struct {
	ProductID     int64           `json:"product_id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Revenue       decimal.Decimal `json:"revenue"`
	Units         int             `json:"units"`
	Orders        int             `json:"orders"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	RevenueShare  decimal.Decimal `json:"revenue_share"`
}

// CategoryRevenue groups product revenue by category.
type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Units    int             `json:"units"`
	Orders   int             `json:"orders"`
	Share    decimal.Decimal `json:"share"`
}

// RevenueSummary is the revenue side of a period.
type RevenueSummary struct {
	TotalRevenue      decimal.Decimal   `json:"total_revenue"`
	TotalUnits        int               `json:"total_units"`
	TotalOrders       int               `json:"total_orders"`
	RevenueByProduct  []ProductRevenue  `json:"revenue_by_product"`
	RevenueByCategory []CategoryRevenue `json:"revenue_by_category"`
	AvgOrderValue     decimal.Decimal   `json:"avg_order_value"`
	AvgRevenuePerUnit decimal.Decimal   `json:"avg_revenue_per_unit"`
	DailyAverage      decimal.Decimal   `json:"daily_average"`
}

// TotalRevenue aggregates in-period sales overall, per product and per category.
func (c *Calculator) TotalRevenue(period models.Period) RevenueSummary {
	st := c.stats(period)
	summary := RevenueSummary{
		TotalRevenue:      st.totalRevenue,
		TotalUnits:        st.totalUnits,
		TotalOrders:       st.totalOrders,
		AvgOrderValue:     ratio(st.totalRevenue, units(st.totalOrders)),
		AvgRevenuePerUnit: ratio(st.totalRevenue, units(st.totalUnits)),
		DailyAverage:      st.totalRevenue.Div(units(period.CalendarDays())),
	}

	summary.RevenueByProduct = make([]ProductRevenue, 0, len(c.snap.Products))
	seen := make(map[int64]struct{}, len(c.snap.Products))
	for _, p := range c.snap.Products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		revenue := st.revenueByProduct[p.ID]
		orders := st.ordersByProduct[p.ID]
		summary.RevenueByProduct = append(summary.RevenueByProduct, ProductRevenue{
			ProductID:     p.ID,
			Name:          p.Name,
			Category:      p.Category,
			Revenue:       revenue,
			Units:         st.unitsByProduct[p.ID],
			Orders:        orders,
			AvgOrderValue: ratio(revenue, units(orders)),
			RevenueShare:  Percent(revenue, st.totalRevenue),
		})
	}
	slices.SortStableFunc(summary.RevenueByProduct, func(a, b ProductRevenue) int {
		if n := b.Revenue.Cmp(a.Revenue); n != 0 {
			return n
		}
		return cmp.Compare(a.ProductID, b.ProductID)
	})

	byCategory := make(map[string]*CategoryRevenue)
	for _, pr := range summary.RevenueByProduct {
		name := pr.Category
		if name == "" {
			name = UncategorizedLabel
		}
		cat, ok := byCategory[name]
		if !ok {
			cat = &CategoryRevenue{Category: name}
			byCategory[name] = cat
		}
		cat.Revenue = cat.Revenue.Add(pr.Revenue)
		cat.Units += pr.Units
		cat.Orders += pr.Orders
	}
	summary.RevenueByCategory = make([]CategoryRevenue, 0, len(byCategory))
	for _, cat := range byCategory {
		cat.Share = Percent(cat.Revenue, st.totalRevenue)
		summary.RevenueByCategory = append(summary.RevenueByCategory, *cat)
	}
	slices.SortFunc(summary.RevenueByCategory, func(a, b CategoryRevenue) int {
		if n := b.Revenue.Cmp(a.Revenue); n != 0 {
			return n
		}
		return cmp.Compare(a.Category, b.Category)
	})

	return summary
}

// TrendPoint is one month of the revenue and cost series.
type TrendPoint struct {
	Month        models.Month    `json:"month"`
	Revenue      decimal.Decimal `json:"revenue"`
	Costs        decimal.Decimal `json:"costs"`
	Profit       decimal.Decimal `json:"profit"`
	ProfitMargin decimal.Decimal `json:"profit_margin"`
}

// Trend computes revenue, costs and profit for each calendar month, in the order given.
func (c *Calculator) Trend(months []models.Month) []TrendPoint {
	points := make([]TrendPoint, 0, len(months))
	for _, m := range months {
		period := models.MonthPeriod(m)
		revenue := c.TotalRevenue(period).TotalRevenue
		costs := c.TotalCosts(period).TotalCosts
		profit := revenue.Sub(costs)
		points = append(points, TrendPoint{
			Month:        m,
			Revenue:      revenue,
			Costs:        costs,
			Profit:       profit,
			ProfitMargin: Percent(profit, revenue),
		})
	}
	return points
}

// BillState is the payment state of a recurring bill in a month.
type BillState string

const (
	BillPaid    BillState = "paid"
	BillPending BillState = "pending"
	BillOverdue BillState = "overdue"
)

// BillStatus reports how one active bill stands for a month.
type BillStatus struct {
	Bill     models.MonthlyBill `json:"bill"`
	Status   BillState          `json:"status"`
	Amount   decimal.Decimal    `json:"amount"`
	DueDate  time.Time          `json:"due_date"`
	PaidDate *time.Time         `json:"paid_date,omitempty"`
	Variance decimal.Decimal    `json:"variance"`
}

// BillSummary totals the bill statuses of a month.
type BillSummary struct {
	TotalEstimated decimal.Decimal `json:"total_estimated"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalUnpaid    decimal.Decimal `json:"total_unpaid"`
	Paid           int             `json:"paid"`
	Pending        int             `json:"pending"`
	Overdue        int             `json:"overdue"`
}

// BillStatuses classifies every active bill for month as of the given instant.
// A bill with a payment recorded for the month is paid; otherwise it is
// overdue once asOf is past its due day. Amount is what was paid, or the
// estimate while unpaid; Variance is actual minus estimate.
func (c *Calculator) BillStatuses(month models.Month, asOf time.Time) ([]BillStatus, BillSummary) {
	var (
		statuses []BillStatus
		summary  BillSummary
	)
	for _, bill := range c.snap.Bills {
		if !bill.IsActive {
			continue
		}
		status := BillStatus{Bill: bill, DueDate: bill.DueDate(month)}

		var (
			paid     bool
			actual   decimal.Decimal
			lastPaid time.Time
		)
		for _, p := range c.snap.BillPayments {
			if p.BillID != bill.ID || p.Month != month {
				continue
			}
			paid = true
			actual = actual.Add(p.ActualAmount)
			if p.PaidDate.After(lastPaid) {
				lastPaid = p.PaidDate
			}
		}

		summary.TotalEstimated = summary.TotalEstimated.Add(bill.EstimatedAmount)
		switch {
		case paid:
			status.Status = BillPaid
			status.Amount = actual
			status.Variance = actual.Sub(bill.EstimatedAmount)
			if !lastPaid.IsZero() {
				status.PaidDate = &lastPaid
			}
			summary.TotalPaid = summary.TotalPaid.Add(actual)
			summary.Paid++
		case asOf.After(models.EndOfDay(status.DueDate)):
			status.Status = BillOverdue
			status.Amount = bill.EstimatedAmount
			summary.TotalUnpaid = summary.TotalUnpaid.Add(bill.EstimatedAmount)
			summary.Overdue++
		default:
			status.Status = BillPending
			status.Amount = bill.EstimatedAmount
			summary.TotalUnpaid = summary.TotalUnpaid.Add(bill.EstimatedAmount)
			summary.Pending++
		}
		statuses = append(statuses, status)
	}

	slices.SortStableFunc(statuses, func(a, b BillStatus) int {
		if n := cmp.Compare(a.Bill.DueDay, b.Bill.DueDay); n != 0 {
			return n
		}
		return cmp.Compare(a.Bill.ID, b.Bill.ID)
	})
	return statuses, summary
}
