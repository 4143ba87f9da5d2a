package engine

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

// ProfitMetrics describes how profitable one product was over a period.
// Percentages are expressed out of 100.
type ProfitMetrics struct {
	TotalRevenue                 decimal.Decimal `json:"total_revenue"`
	TotalQuantitySold            int             `json:"total_quantity_sold"`
	AverageSellingPrice          decimal.Decimal `json:"average_selling_price"`
	CostBreakdown                UnitCost        `json:"cost_breakdown"`
	TotalCostForPeriod           decimal.Decimal `json:"total_cost_for_period"`
	GrossProfit                  decimal.Decimal `json:"gross_profit"`
	ProfitPerUnit                decimal.Decimal `json:"profit_per_unit"`
	AvgProfitPerUnit             decimal.Decimal `json:"avg_profit_per_unit"`
	GrossProfitMargin            decimal.Decimal `json:"gross_profit_margin"`
	MarkupPercentage             decimal.Decimal `json:"markup_percentage"`
	ContributionMargin           decimal.Decimal `json:"contribution_margin"`
	ContributionMarginPercentage decimal.Decimal `json:"contribution_margin_percentage"`
	SalesCount                   int             `json:"sales_count"`
	AverageOrderSize             decimal.Decimal `json:"average_order_size"`
	ROI                          decimal.Decimal `json:"roi"`
}

// ProfitMetrics combines a product's in-period sales with its full unit cost.
func (c *Calculator) ProfitMetrics(product models.Product, period models.Period) ProfitMetrics {
	return c.profitMetrics(product, c.stats(period))
}

func (c *Calculator) profitMetrics(product models.Product, st periodStats) ProfitMetrics {
	revenue := st.revenueByProduct[product.ID]
	qty := st.unitsByProduct[product.ID]
	orders := st.ordersByProduct[product.ID]
	uc := c.unitCost(product, st)
	sold := units(qty)

	m := ProfitMetrics{
		TotalRevenue:       revenue,
		TotalQuantitySold:  qty,
		CostBreakdown:      uc,
		TotalCostForPeriod: uc.TotalCostPerUnit.Mul(sold),
		SalesCount:         orders,
		AverageOrderSize:   ratio(sold, units(orders)),
	}
	m.GrossProfit = revenue.Sub(m.TotalCostForPeriod)

	if qty > 0 {
		m.AverageSellingPrice = revenue.Div(sold)
		m.ProfitPerUnit = m.GrossProfit.Div(sold)
		m.AvgProfitPerUnit = m.ProfitPerUnit
	} else {
		m.AverageSellingPrice = product.SellingPrice
		m.ProfitPerUnit = product.SellingPrice.Sub(uc.TotalCostPerUnit)
	}

	m.GrossProfitMargin = Percent(m.GrossProfit, revenue)
	m.MarkupPercentage = Percent(product.SellingPrice.Sub(uc.TotalCostPerUnit), uc.TotalCostPerUnit)

	variablePerUnit := uc.DirectMaterialCost.Add(uc.VariableOverhead)
	m.ContributionMargin = revenue.Sub(variablePerUnit.Mul(sold))
	m.ContributionMarginPercentage = Percent(m.ContributionMargin, revenue)
	m.ROI = Percent(m.ProfitPerUnit, uc.TotalCostPerUnit)
	return m
}

// ProductProfit pairs a catalog product with its metrics.
type ProductProfit struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	ProfitMetrics
}

// PortfolioTotals aggregates profit metrics across the catalog.
type PortfolioTotals struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	TotalProfit      decimal.Decimal `json:"total_profit"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	TotalUnits       int             `json:"total_units"`
	AvgProfitPerUnit decimal.Decimal `json:"avg_profit_per_unit"`
	PortfolioMargin  decimal.Decimal `json:"portfolio_margin"`
	PortfolioROI     decimal.Decimal `json:"portfolio_roi"`
}

// PortfolioSummary holds per-product metrics and their totals.
type PortfolioSummary struct {
	Products  []ProductProfit `json:"products"`
	Portfolio PortfolioTotals `json:"portfolio"`
}

// PortfolioMetrics runs ProfitMetrics for every catalog product, in catalog order.
// A repeated product id is counted once, like in TotalRevenue.
func (c *Calculator) PortfolioMetrics(period models.Period) PortfolioSummary {
	st := c.stats(period)
	summary := PortfolioSummary{Products: make([]ProductProfit, 0, len(c.snap.Products))}
	totals := &summary.Portfolio
	seen := make(map[int64]struct{}, len(c.snap.Products))
	for _, p := range c.snap.Products {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		m := c.profitMetrics(p, st)
		summary.Products = append(summary.Products, ProductProfit{
			ProductID:     p.ID,
			Name:          p.Name,
			Category:      p.Category,
			ProfitMetrics: m,
		})
		totals.TotalRevenue = totals.TotalRevenue.Add(m.TotalRevenue)
		totals.TotalProfit = totals.TotalProfit.Add(m.GrossProfit)
		totals.TotalCost = totals.TotalCost.Add(m.TotalCostForPeriod)
		totals.TotalUnits += m.TotalQuantitySold
	}
	totals.AvgProfitPerUnit = ratio(totals.TotalProfit, units(totals.TotalUnits))
	totals.PortfolioMargin = Percent(totals.TotalProfit, totals.TotalRevenue)
	totals.PortfolioROI = Percent(totals.TotalProfit, totals.TotalCost)
	return summary
}

// ProductMargin is the product's margin on its selling price against the
// full unit cost for a calendar month.
func (c *Calculator) ProductMargin(product models.Product, month models.Month) decimal.Decimal {
	uc := c.FullCostPerUnit(product, models.MonthPeriod(month))
	return Percent(product.SellingPrice.Sub(uc.TotalCostPerUnit), product.SellingPrice)
}
