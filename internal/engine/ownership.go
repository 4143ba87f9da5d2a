package engine

import (
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

// OwnerShare is an owner together with their slice of net profit.
type OwnerShare struct {
	models.Owner
	ProfitShare decimal.Decimal `json:"profit_share"`
}

// OwnerDistribution splits a net profit between owners. PercentTotal is the
// configured sum of percentages; shares are not renormalized when it differs from 100.
type OwnerDistribution struct {
	NetProfit    decimal.Decimal `json:"net_profit"`
	PercentTotal decimal.Decimal `json:"percent_total"`
	Shares       []OwnerShare    `json:"shares"`
}

// OwnerProfits distributes the all-time net profit: every sale ever recorded
// minus the overhead of month and every expense ever recorded.
func (c *Calculator) OwnerProfits(month models.Month) OwnerDistribution {
	revenue := decimal.Zero
	for _, s := range c.snap.Sales {
		revenue = revenue.Add(s.Amount)
	}
	expenses := decimal.Zero
	for _, e := range c.snap.Expenses {
		expenses = expenses.Add(e.Amount)
	}
	net := revenue.Sub(c.MonthlyOverhead(month).Add(expenses))
	return c.Distribute(net)
}

// OwnerProfitsForPeriod distributes the period's revenue minus its total costs.
func (c *Calculator) OwnerProfitsForPeriod(period models.Period) OwnerDistribution {
	net := c.TotalRevenue(period).TotalRevenue.Sub(c.TotalCosts(period).TotalCosts)
	return c.Distribute(net)
}

// Distribute gives each owner netProfit x percent / 100.
func (c *Calculator) Distribute(netProfit decimal.Decimal) OwnerDistribution {
	dist := OwnerDistribution{
		NetProfit: netProfit,
		Shares:    make([]OwnerShare, 0, len(c.snap.Owners)),
	}
	for _, o := range c.snap.Owners {
		dist.PercentTotal = dist.PercentTotal.Add(o.ProfitSharePercent)
		dist.Shares = append(dist.Shares, OwnerShare{
			Owner:       o,
			ProfitShare: netProfit.Mul(o.ProfitSharePercent).Div(decimal.NewFromInt(100)),
		})
	}
	return dist
}
