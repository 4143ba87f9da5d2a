package renderer

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
	"github.com/mamadbah2/smallerp/internal/repository/memory"
)

var december = models.MonthPeriod("2024-12")

func assertContains(t *testing.T, md string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestRevenueMarkdown(t *testing.T) {
	calc := engine.New(memory.DemoSnapshot())
	md := RevenueMarkdown(december, calc.TotalRevenue(december), "USD")

	assertContains(t, md,
		"# Revenue 2024-12-01..2024-12-31",
		"**$678.00** from 8 orders (150 units)",
		"| Cappuccino | Coffee | 75 | 3 | $337.50 |",
		"## By category",
	)
}

func TestCostsMarkdownListsExpenseTypes(t *testing.T) {
	calc := engine.New(memory.DemoSnapshot())
	md := CostsMarkdown(december, calc.TotalCosts(december), "USD")

	assertContains(t, md, "| **Total** |", "| marketing | 1 | $500.00 |", "| rent | 1 | $2,000.00 |")
}

func TestOwnersMarkdownWarnsWhenUnbalanced(t *testing.T) {
	d := engine.OwnerDistribution{
		NetProfit:    decimal.NewFromInt(1000),
		PercentTotal: decimal.NewFromInt(90),
		Shares: []engine.OwnerShare{
			{Owner: models.Owner{Name: "A", ProfitSharePercent: decimal.NewFromInt(90)}, ProfitShare: decimal.NewFromInt(900)},
		},
	}
	md := OwnersMarkdown("Owner shares", d, "EUR")
	assertContains(t, md, "Net profit: **€1,000.00**", "| A | €0.00 | 90.00% | €900.00 |", "add up to 90.00%")

	d.PercentTotal = decimal.NewFromInt(100)
	if strings.Contains(OwnersMarkdown("Owner shares", d, "EUR"), "add up to") {
		t.Fatalf("balanced distribution should not warn")
	}
}

func TestMonthlyReportMarkdown(t *testing.T) {
	md := MonthlyReportMarkdown(models.MonthlyReport{
		Month:     "2024-12",
		Revenue:   decimal.NewFromInt(678),
		NetProfit: decimal.NewFromInt(-100),
		Orders:    8,
	}, "USD")
	assertContains(t, md, "# Monthly report 2024-12", "| Revenue | $678.00 |", "| Net profit | -$100.00 |", "| Orders | 8 |")
}
