package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/renderer"
	"github.com/mamadbah2/smallerp/internal/scheduler"
	"github.com/mamadbah2/smallerp/internal/service/notify"
	whatsappclient "github.com/mamadbah2/smallerp/pkg/clients/whatsapp"
)

type monthlyCmd struct {
	month   string
	archive bool
	notify  bool
	plain   bool
}

func (*monthlyCmd) Name() string     { return "monthly" }
func (*monthlyCmd) Synopsis() string { return "run the monthly report job once" }
func (*monthlyCmd) Usage() string {
	return `erpreport monthly [-month <YYYY-MM>] [-archive] [-notify] [-plain]

  Generates the monthly report the scheduler would produce. Defaults to the
  previous calendar month. -archive stores it in the entity store and -notify
  sends it to WHATSAPP_REPORT_RECIPIENT.
`
}

func (c *monthlyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "month", "", "Month to report on (YYYY-MM). Defaults to the previous month.")
	f.BoolVar(&c.archive, "archive", false, "Store the report in the configured backend.")
	f.BoolVar(&c.notify, "notify", false, "Send the report over WhatsApp.")
	f.BoolVar(&c.plain, "plain", false, "Print raw markdown instead of rendering it.")
}

func (c *monthlyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.close(ctx)

	month := models.MonthOf(time.Now().In(a.cfg.Reporting.Location())).Prev()
	if c.month != "" {
		if month, err = models.ParseMonth(c.month); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing month: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	var archive scheduler.ReportArchive
	if c.archive {
		archive = a.backend.Archive
	}
	var notifier scheduler.ReportNotifier
	if c.notify {
		if !a.cfg.WhatsApp.Enabled() {
			fmt.Fprintln(os.Stderr, "Error: -notify requires WHATSAPP_REPORT_RECIPIENT")
			return subcommands.ExitUsageError
		}
		notifier = notify.NewNotifier(
			whatsappclient.NewClient(a.cfg.WhatsApp),
			a.cfg.WhatsApp.ReportRecipient,
			a.cfg.Analysis.Currency,
			a.logger.Named("svc.notify"),
		)
	}

	job := scheduler.NewScheduler(a.cfg.Reporting, a.svc, archive, notifier, a.logger.Named("scheduler"))
	report, err := job.RunNow(ctx, month)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.MonthlyReportMarkdown(report, a.cfg.Analysis.Currency), c.plain)
	return subcommands.ExitSuccess
}
