package main

import (
	"bytes"
	"context"
	"flag"
	"strings"
	"testing"

	"github.com/google/subcommands"
)

// useDemoStore points configuration at the in-memory demo data and captures output.
func useDemoStore(t *testing.T) *bytes.Buffer {
	t.Helper()
	for key, value := range map[string]string{
		"STORE_DRIVER":              "memory",
		"TIMEZONE":                  "UTC",
		"CURRENCY":                  "USD",
		"ALLOCATION_POLICY":         "units",
		"PRORATION_DIVISOR":         "30",
		"REPORTING_ENABLED":         "true",
		"REPORT_CRON_SCHEDULE":      "0 6 1 * *",
		"WHATSAPP_REPORT_RECIPIENT": "",
		"WHATSAPP_VERIFY_TOKEN":     "",
		"MONGODB_URI":               "",
		"ERPREPORT_LOG_LEVEL":       "",
	} {
		t.Setenv(key, value)
	}

	buf := new(bytes.Buffer)
	previous := stdout
	stdout = buf
	t.Cleanup(func() { stdout = previous })
	return buf
}

func runCommand(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	cmd.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cmd.Execute(context.Background(), fs)
}

func TestReportCommandsPrintMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		cmd   subcommands.Command
		wants []string
	}{
		{"costs", &costsCmd{}, []string{"# Costs 2024-12-01..2024-12-31", "| rent | 1 | $2,000.00 |", "| **Total** |"}},
		{"revenue", &revenueCmd{}, []string{"$678.00", "Cappuccino"}},
		{"owners", &ownersCmd{}, []string{"# Owner shares (all time, overhead of 2024-12)", "Net profit: **-$13,972.50**"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := useDemoStore(t)

			if status := runCommand(t, tt.cmd, "-month", "2024-12", "-plain"); status != subcommands.ExitSuccess {
				t.Fatalf("%s exited with %v", tt.name, status)
			}
			for _, want := range tt.wants {
				if !strings.Contains(out.String(), want) {
					t.Errorf("%s output missing %q:\n%s", tt.name, want, out.String())
				}
			}
		})
	}
}

func TestReportCommandRejectsBadMonth(t *testing.T) {
	out := useDemoStore(t)

	if status := runCommand(t, &costsCmd{}, "-month", "2024-13", "-plain"); status != subcommands.ExitUsageError {
		t.Fatalf("bad month exited with %v, want usage error", status)
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output: %s", out.String())
	}
}
