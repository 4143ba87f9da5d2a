package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mamadbah2/smallerp/internal/service/export"
)

type exportCmd struct {
	periodFlags
	out string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write a period report as an xlsx workbook" }
func (*exportCmd) Usage() string {
	return `erpreport export [-start <date> -end <date> | -month <YYYY-MM>] [-out <file>]

  Writes Summary, Costs, Revenue, Portfolio and Owners sheets to an xlsx file.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	c.register(f)
	f.StringVar(&c.out, "out", "", "Output file. Defaults to report_<start>_<end>.xlsx.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close(ctx)

	period, err := c.period(a.cfg.Reporting.Location())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}

	report, err := a.svc.PeriodReport(ctx, period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error computing report: %v\n", err)
		return subcommands.ExitFailure
	}

	out := c.out
	if out == "" {
		out = export.FileName(period)
	}
	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", out, err)
		return subcommands.ExitFailure
	}
	if _, err := export.WriteTo(f, report, a.cfg.Analysis.Currency); err != nil {
		_ = f.Close()
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", out, err)
		return subcommands.ExitFailure
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error closing %s: %v\n", out, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(stdout, "Report for %s written to %s\n", period, out)
	return subcommands.ExitSuccess
}
