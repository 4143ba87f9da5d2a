package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/renderer"
)

// periodReport runs render over the period selected by flags.
func periodReport(ctx context.Context, flags *periodFlags, plain bool, render func(*app, models.Period) (string, error)) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close(ctx)

	period, err := flags.period(a.cfg.Reporting.Location())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	md, err := render(a, period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md, plain)
	return subcommands.ExitSuccess
}

type costsCmd struct {
	periodFlags
	plain bool
}

func (*costsCmd) Name() string     { return "costs" }
func (*costsCmd) Synopsis() string { return "display material, variable and fixed costs for a period" }
func (*costsCmd) Usage() string {
	return `erpreport costs [-start <date> -end <date> | -month <YYYY-MM>] [-plain]

  Displays total costs: direct materials of sold units, variable expenses and
  the prorated monthly overhead.
`
}

func (c *costsCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *costsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return periodReport(ctx, &c.periodFlags, c.plain, func(a *app, period models.Period) (string, error) {
		summary, err := a.svc.Costs(ctx, period)
		if err != nil {
			return "", err
		}
		return renderer.CostsMarkdown(period, summary, a.cfg.Analysis.Currency), nil
	})
}

type revenueCmd struct {
	periodFlags
	plain bool
}

func (*revenueCmd) Name() string     { return "revenue" }
func (*revenueCmd) Synopsis() string { return "display revenue by product and category" }
func (*revenueCmd) Usage() string {
	return `erpreport revenue [-start <date> -end <date> | -month <YYYY-MM>] [-plain]

  Displays revenue, orders and units, broken down by product and category.
`
}

func (c *revenueCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *revenueCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return periodReport(ctx, &c.periodFlags, c.plain, func(a *app, period models.Period) (string, error) {
		summary, err := a.svc.Revenue(ctx, period)
		if err != nil {
			return "", err
		}
		return renderer.RevenueMarkdown(period, summary, a.cfg.Analysis.Currency), nil
	})
}

type portfolioCmd struct {
	periodFlags
	plain bool
}

func (*portfolioCmd) Name() string     { return "portfolio" }
func (*portfolioCmd) Synopsis() string { return "display profitability of every product" }
func (*portfolioCmd) Usage() string {
	return `erpreport portfolio [-start <date> -end <date> | -month <YYYY-MM>] [-plain]

  Displays unit cost, gross profit, margin and ROI for each product.
`
}

func (c *portfolioCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *portfolioCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return periodReport(ctx, &c.periodFlags, c.plain, func(a *app, period models.Period) (string, error) {
		summary, err := a.svc.Portfolio(ctx, period)
		if err != nil {
			return "", err
		}
		return renderer.PortfolioMarkdown(period, summary, a.cfg.Analysis.Currency), nil
	})
}

type ownersCmd struct {
	periodFlags
	plain bool
}

func (*ownersCmd) Name() string     { return "owners" }
func (*ownersCmd) Synopsis() string { return "display owner profit shares" }
func (*ownersCmd) Usage() string {
	return `erpreport owners [-start <date> -end <date> | -month <YYYY-MM>] [-plain]

  With -month (or no flag), distributes the all-time net profit using that
  month's overhead. With -start and -end, distributes the period's net profit.
`
}

func (c *ownersCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *ownersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	byPeriod := c.start != "" || c.end != ""
	return periodReport(ctx, &c.periodFlags, c.plain, func(a *app, period models.Period) (string, error) {
		if byPeriod && c.month == "" {
			dist, err := a.svc.OwnerSharesForPeriod(ctx, period)
			if err != nil {
				return "", err
			}
			return renderer.OwnersMarkdown("Owner shares "+period.String(), dist, a.cfg.Analysis.Currency), nil
		}

		month := period.OverheadMonth()
		dist, err := a.svc.OwnerShares(ctx, month)
		if err != nil {
			return "", err
		}
		return renderer.OwnersMarkdown("Owner shares (all time, overhead of "+month.String()+")", dist, a.cfg.Analysis.Currency), nil
	})
}
