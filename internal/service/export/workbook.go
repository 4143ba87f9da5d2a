// Package export renders period reports as xlsx workbooks.
package export

import (
	"fmt"
	"io"
	"slices"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/service/analysis"
)

// Sheet names, in workbook order.
const (
	SheetSummary   = "Summary"
	SheetCosts     = "Costs"
	SheetRevenue   = "Revenue"
	SheetPortfolio = "Portfolio"
	SheetOwners    = "Owners"
)

// FormatAmount renders amount in currency using its grapheme, separators and
// minor units. Unknown currency codes fall back to "1234.50 XYZ".
func FormatAmount(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return fmt.Sprintf("%s %s", amount.StringFixed(2), currency)
	}
	minor := amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	return money.New(minor.IntPart(), cur.Code).Display()
}

// Workbook builds a workbook with one sheet per report section. Callers close
// the returned file.
func Workbook(report analysis.PeriodReport, currency string) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("rename default sheet: %w", err)
	}
	for _, name := range []string{SheetCosts, SheetRevenue, SheetPortfolio, SheetOwners} {
		if _, err := f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	writers := []struct {
		sheet string
		rows  [][]interface{}
	}{
		{SheetSummary, summaryRows(report, currency)},
		{SheetCosts, costRows(report)},
		{SheetRevenue, revenueRows(report)},
		{SheetPortfolio, portfolioRows(report)},
		{SheetOwners, ownerRows(report, currency)},
	}
	for _, w := range writers {
		if err := writeRows(f, w.sheet, w.rows); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WriteTo builds the workbook for report and streams it to w.
func WriteTo(w io.Writer, report analysis.PeriodReport, currency string) (int64, error) {
	f, err := Workbook(report, currency)
	if err != nil {
		return 0, err
	}
	defer func() { _ = f.Close() }()

	n, err := f.WriteTo(w)
	if err != nil {
		return n, fmt.Errorf("write workbook: %w", err)
	}
	return n, nil
}

// FileName is the suggested download name for a period's workbook.
func FileName(period models.Period) string {
	return fmt.Sprintf("report_%s_%s.xlsx", period.Start.Format("20060102"), period.End.Format("20060102"))
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("%s column width: %w", sheet, err)
	}
	return nil
}

func num(d decimal.Decimal) float64 {
	return d.Round(4).InexactFloat64()
}

func summaryRows(r analysis.PeriodReport, currency string) [][]interface{} {
	rows := [][]interface{}{
		{"Metric", "Value", "Formatted"},
		{"Period start", r.Period.Start.Format(models.DateLayout)},
		{"Period end", r.Period.End.Format(models.DateLayout)},
	}
	for _, m := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Revenue", r.Revenue.TotalRevenue},
		{"Total costs", r.Costs.TotalCosts},
		{"Net profit", r.NetProfit},
	} {
		rows = append(rows, []interface{}{m.label, num(m.amount), FormatAmount(m.amount, currency)})
	}
	return append(rows,
		[]interface{}{"Margin %", num(r.Margin)},
		[]interface{}{"Units sold", r.Revenue.TotalUnits},
		[]interface{}{"Orders", r.Revenue.TotalOrders},
		[]interface{}{"Average order value", num(r.Revenue.AvgOrderValue), FormatAmount(r.Revenue.AvgOrderValue, currency)},
		[]interface{}{"Daily average", num(r.Revenue.DailyAverage), FormatAmount(r.Revenue.DailyAverage, currency)},
	)
}

func costRows(r analysis.PeriodReport) [][]interface{} {
	c := r.Costs
	rows := [][]interface{}{
		{"Component", "Amount"},
		{"Direct materials", num(c.DirectMaterialCosts)},
		{"Variable expenses", num(c.VariableExpenses)},
		{"Allocated fixed costs", num(c.AllocatedFixedCosts)},
		{"Total costs", num(c.TotalCosts)},
		{"Bill payments", num(c.ActualBillPayments)},
		{"Salary adjustments", num(c.SalaryAdjustments)},
		{},
		{"Expense type", "Total", "Count"},
	}

	types := make([]models.ExpenseType, 0, len(c.ExpensesByType))
	for t := range c.ExpensesByType {
		types = append(types, t)
	}
	slices.Sort(types)
	for _, t := range types {
		total := c.ExpensesByType[t]
		rows = append(rows, []interface{}{string(t), num(total.Total), total.Count})
	}
	return rows
}

func revenueRows(r analysis.PeriodReport) [][]interface{} {
	rows := [][]interface{}{
		{"Product ID", "Product", "Category", "Units", "Orders", "Revenue", "Share %"},
	}
	for _, p := range r.Revenue.RevenueByProduct {
		rows = append(rows, []interface{}{p.ProductID, p.Name, p.Category, p.Units, p.Orders, num(p.Revenue), num(p.RevenueShare)})
	}
	rows = append(rows, []interface{}{}, []interface{}{"Category", "Units", "Orders", "Revenue", "Share %"})
	for _, c := range r.Revenue.RevenueByCategory {
		rows = append(rows, []interface{}{c.Category, c.Units, c.Orders, num(c.Revenue), num(c.Share)})
	}
	return rows
}

func portfolioRows(r analysis.PeriodReport) [][]interface{} {
	rows := [][]interface{}{
		{"Product", "Units", "Revenue", "Unit cost", "Total cost", "Gross profit", "Margin %", "Markup %", "ROI %"},
	}
	for _, p := range r.Portfolio.Products {
		rows = append(rows, []interface{}{
			p.Name,
			p.TotalQuantitySold,
			num(p.TotalRevenue),
			num(p.CostBreakdown.TotalCostPerUnit),
			num(p.TotalCostForPeriod),
			num(p.GrossProfit),
			num(p.GrossProfitMargin),
			num(p.MarkupPercentage),
			num(p.ROI),
		})
	}
	t := r.Portfolio.Portfolio
	return append(rows, []interface{}{
		"Total", t.TotalUnits, num(t.TotalRevenue), nil, num(t.TotalCost), num(t.TotalProfit), num(t.PortfolioMargin), nil, num(t.PortfolioROI),
	})
}

func ownerRows(r analysis.PeriodReport, currency string) [][]interface{} {
	rows := [][]interface{}{
		{"Owner", "Percent", "Share capital", "Profit share", "Formatted"},
	}
	for _, s := range r.Owners.Shares {
		rows = append(rows, []interface{}{s.Name, num(s.ProfitSharePercent), num(s.ShareCapital), num(s.ProfitShare), FormatAmount(s.ProfitShare, currency)})
	}
	return append(rows, []interface{}{"Total", num(r.Owners.PercentTotal), nil, num(r.Owners.NetProfit), FormatAmount(r.Owners.NetProfit, currency)})
}
