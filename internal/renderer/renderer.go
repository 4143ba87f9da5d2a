// Package renderer formats analysis results as markdown tables.
package renderer

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
	"github.com/mamadbah2/smallerp/internal/service/export"
)

func pct(d decimal.Decimal) string {
	return d.StringFixed(2) + "%"
}

// CostsMarkdown renders a cost summary.
func CostsMarkdown(period models.Period, c engine.CostSummary, currency string) string {
	money := func(d decimal.Decimal) string { return export.FormatAmount(d, currency) }

	var b strings.Builder
	fmt.Fprintf(&b, "# Costs %s\n\n", period)
	fmt.Fprintln(&b, "| Component | Amount |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Direct materials | %s |\n", money(c.DirectMaterialCosts))
	fmt.Fprintf(&b, "| Variable expenses | %s |\n", money(c.VariableExpenses))
	fmt.Fprintf(&b, "| Allocated fixed costs | %s |\n", money(c.AllocatedFixedCosts))
	fmt.Fprintf(&b, "| **Total** | **%s** |\n", money(c.TotalCosts))

	fmt.Fprintf(&b, "\nBill payments in period: %s. Salary adjustments: %s.\n",
		money(c.ActualBillPayments), money(c.SalaryAdjustments))

	if len(c.ExpensesByType) > 0 {
		types := make([]models.ExpenseType, 0, len(c.ExpensesByType))
		for t := range c.ExpensesByType {
			types = append(types, t)
		}
		slices.Sort(types)

		fmt.Fprint(&b, "\n## Expenses by type\n\n")
		fmt.Fprintln(&b, "| Type | Count | Total |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, t := range types {
			e := c.ExpensesByType[t]
			fmt.Fprintf(&b, "| %s | %d | %s |\n", t, e.Count, money(e.Total))
		}
	}
	return b.String()
}

// RevenueMarkdown renders a revenue summary.
func RevenueMarkdown(period models.Period, r engine.RevenueSummary, currency string) string {
	money := func(d decimal.Decimal) string { return export.FormatAmount(d, currency) }

	var b strings.Builder
	fmt.Fprintf(&b, "# Revenue %s\n\n", period)
	fmt.Fprintf(&b, "**%s** from %d orders (%d units). Average order %s, daily average %s.\n\n",
		money(r.TotalRevenue), r.TotalOrders, r.TotalUnits, money(r.AvgOrderValue), money(r.DailyAverage))

	fmt.Fprintln(&b, "| Product | Category | Units | Orders | Revenue | Share |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|")
	for _, p := range r.RevenueByProduct {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %s | %s |\n", p.Name, p.Category, p.Units, p.Orders, money(p.Revenue), pct(p.RevenueShare))
	}

	fmt.Fprint(&b, "\n## By category\n\n")
	fmt.Fprintln(&b, "| Category | Units | Revenue | Share |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, c := range r.RevenueByCategory {
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", c.Category, c.Units, money(c.Revenue), pct(c.Share))
	}
	return b.String()
}

// PortfolioMarkdown renders per-product profitability.
func PortfolioMarkdown(period models.Period, p engine.PortfolioSummary, currency string) string {
	money := func(d decimal.Decimal) string { return export.FormatAmount(d, currency) }

	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio %s\n\n", period)
	fmt.Fprintln(&b, "| Product | Units | Revenue | Unit cost | Gross profit | Margin | ROI |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	for _, m := range p.Products {
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			m.Name,
			m.TotalQuantitySold,
			money(m.TotalRevenue),
			money(m.CostBreakdown.TotalCostPerUnit),
			money(m.GrossProfit),
			pct(m.GrossProfitMargin),
			pct(m.ROI),
		)
	}
	t := p.Portfolio
	fmt.Fprintf(&b, "| **Total** | %d | %s | | %s | %s | %s |\n",
		t.TotalUnits, money(t.TotalRevenue), money(t.TotalProfit), pct(t.PortfolioMargin), pct(t.PortfolioROI))
	return b.String()
}

// OwnersMarkdown renders an owner profit distribution.
func OwnersMarkdown(title string, d engine.OwnerDistribution, currency string) string {
	money := func(v decimal.Decimal) string { return export.FormatAmount(v, currency) }

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "Net profit: **%s**\n\n", money(d.NetProfit))
	fmt.Fprintln(&b, "| Owner | Share capital | Percent | Profit share |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, s := range d.Shares {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", s.Name, money(s.ShareCapital), pct(s.ProfitSharePercent), money(s.ProfitShare))
	}
	if !d.PercentTotal.Equal(decimal.NewFromInt(100)) && len(d.Shares) > 0 {
		fmt.Fprintf(&b, "\n> Owner percentages add up to %s, not 100%%.\n", pct(d.PercentTotal))
	}
	return b.String()
}

// MonthlyReportMarkdown renders an archived monthly report.
func MonthlyReportMarkdown(r models.MonthlyReport, currency string) string {
	money := func(v decimal.Decimal) string { return export.FormatAmount(v, currency) }

	var b strings.Builder
	fmt.Fprintf(&b, "# Monthly report %s\n\n", r.Month)
	fmt.Fprintln(&b, "| Metric | Value |")
	fmt.Fprintln(&b, "|:---|---:|")
	fmt.Fprintf(&b, "| Revenue | %s |\n", money(r.Revenue))
	fmt.Fprintf(&b, "| Costs | %s |\n", money(r.Costs))
	fmt.Fprintf(&b, "| Net profit | %s |\n", money(r.NetProfit))
	fmt.Fprintf(&b, "| Margin | %s |\n", pct(r.Margin))
	fmt.Fprintf(&b, "| Orders | %d |\n", r.Orders)
	fmt.Fprintf(&b, "| Units sold | %d |\n", r.UnitsSold)
	for _, s := range r.OwnerShares {
		fmt.Fprintf(&b, "| %s (%s) | %s |\n", s.Name, pct(s.Percent), money(s.Amount))
	}
	return b.String()
}
