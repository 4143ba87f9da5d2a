package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
	"github.com/mamadbah2/smallerp/internal/service/analysis"
	"github.com/mamadbah2/smallerp/internal/service/export"
	"github.com/mamadbah2/smallerp/internal/service/notify"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

var hundred = decimal.NewFromInt(100)

// HelpText lists the queries understood by the dispatcher.
const HelpText = `Available reports (month is optional, YYYY-MM or "last"):
/revenue [month] - sales and top products
/costs [month] - materials, expenses and overhead
/profit [month] - monthly summary with owner shares
/owners [month] - all-time owner profit shares
/bills [month] - recurring bill status`

// Analyzer is the subset of the analysis service the dispatcher reads from.
type Analyzer interface {
	Revenue(ctx context.Context, period models.Period) (engine.RevenueSummary, error)
	Costs(ctx context.Context, period models.Period) (engine.CostSummary, error)
	MonthlyReport(ctx context.Context, month models.Month) (models.MonthlyReport, error)
	OwnerShares(ctx context.Context, month models.Month) (engine.OwnerDistribution, error)
	Bills(ctx context.Context, month models.Month, asOf time.Time) (analysis.BillsReport, error)
}

// Dispatcher answers a parsed chat command with a text reply.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements Dispatcher on top of the analysis service.
type Service struct {
	analysis Analyzer
	currency string
	location *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

// NewService constructs a command dispatcher. Months without an explicit
// argument are resolved in location.
func NewService(analyzer Analyzer, currency string, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{
		analysis: analyzer,
		currency: currency,
		location: location,
		logger:   logger,
		now:      time.Now,
	}
}

// HandleCommand runs the report named by cmd and formats it for chat.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandHelp:
		return HelpText, nil
	case models.CommandUnknown:
		return "Unknown command.\n" + HelpText, nil
	}

	month, err := s.month(cmd.Args)
	if err != nil {
		return "", err
	}

	switch cmd.Type {
	case models.CommandRevenue:
		summary, err := s.analysis.Revenue(ctx, models.MonthPeriod(month))
		if err != nil {
			return "", err
		}
		return s.formatRevenue(month, summary), nil

	case models.CommandCosts:
		summary, err := s.analysis.Costs(ctx, models.MonthPeriod(month))
		if err != nil {
			return "", err
		}
		return s.formatCosts(month, summary), nil

	case models.CommandProfit:
		report, err := s.analysis.MonthlyReport(ctx, month)
		if err != nil {
			return "", err
		}
		return notify.FormatMonthlyReport(report, s.currency), nil

	case models.CommandOwners:
		dist, err := s.analysis.OwnerShares(ctx, month)
		if err != nil {
			return "", err
		}
		return s.formatOwners(month, dist), nil

	case models.CommandBills:
		report, err := s.analysis.Bills(ctx, month, s.asOf(month))
		if err != nil {
			return "", err
		}
		return s.formatBills(report), nil
	}

	return "", fmt.Errorf("%w: %s", ErrInvalidArguments, cmd.Type)
}

// month resolves the optional month argument, defaulting to the current month.
func (s *Service) month(args []string) (models.Month, error) {
	current := models.MonthOf(s.now().In(s.location))
	if len(args) == 0 {
		return current, nil
	}

	switch args[0] {
	case "last", "previous":
		return current.Prev(), nil
	case "this", "current":
		return current, nil
	}

	m, err := models.ParseMonth(args[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return m, nil
}

// asOf is now for the current or a future month, and the month end otherwise.
func (s *Service) asOf(month models.Month) time.Time {
	now := s.now()
	if end := month.End(); end.Before(now) {
		return end
	}
	return now
}

func (s *Service) formatRevenue(month models.Month, summary engine.RevenueSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Revenue %s*\n", month)
	fmt.Fprintf(&b, "%s from %d orders (%d units)", export.FormatAmount(summary.TotalRevenue, s.currency), summary.TotalOrders, summary.TotalUnits)

	top := summary.RevenueByProduct
	if len(top) > 3 {
		top = top[:3]
	}
	if len(top) > 0 {
		b.WriteString("\nTop products:")
	}
	for _, p := range top {
		fmt.Fprintf(&b, "\n- %s: %s (%d units)", p.Name, export.FormatAmount(p.Revenue, s.currency), p.Units)
	}
	return b.String()
}

func (s *Service) formatCosts(month models.Month, summary engine.CostSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Costs %s*\n", month)
	fmt.Fprintf(&b, "Materials: %s\n", export.FormatAmount(summary.DirectMaterialCosts, s.currency))
	fmt.Fprintf(&b, "Expenses: %s\n", export.FormatAmount(summary.VariableExpenses, s.currency))
	fmt.Fprintf(&b, "Overhead: %s\n", export.FormatAmount(summary.AllocatedFixedCosts, s.currency))
	fmt.Fprintf(&b, "Total: %s", export.FormatAmount(summary.TotalCosts, s.currency))
	return b.String()
}

func (s *Service) formatOwners(month models.Month, dist engine.OwnerDistribution) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Owner shares* (all time, overhead of %s)\n", month)
	fmt.Fprintf(&b, "Net profit: %s", export.FormatAmount(dist.NetProfit, s.currency))
	for _, share := range dist.Shares {
		fmt.Fprintf(&b, "\n- %s (%s%%): %s", share.Name, share.ProfitSharePercent.String(), export.FormatAmount(share.ProfitShare, s.currency))
	}
	if !dist.PercentTotal.Equal(hundred) && len(dist.Shares) > 0 {
		fmt.Fprintf(&b, "\nWarning: shares add up to %s%%", dist.PercentTotal.String())
	}
	return b.String()
}

func (s *Service) formatBills(report analysis.BillsReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Bills %s*\n", report.Month)
	fmt.Fprintf(&b, "%d paid, %d pending, %d overdue\n", report.Summary.Paid, report.Summary.Pending, report.Summary.Overdue)
	fmt.Fprintf(&b, "Unpaid: %s", export.FormatAmount(report.Summary.TotalUnpaid, s.currency))
	for _, bill := range report.Bills {
		if bill.Status != engine.BillOverdue {
			continue
		}
		fmt.Fprintf(&b, "\n- %s overdue since %s (%s)", bill.Bill.Name, bill.DueDate.Format(models.DateLayout), export.FormatAmount(bill.Amount, s.currency))
	}
	return b.String()
}
