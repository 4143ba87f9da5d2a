package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/service/export"
	"github.com/mamadbah2/smallerp/pkg/clients/whatsapp"
)

// ErrNoRecipient is returned when the notifier has nowhere to send.
var ErrNoRecipient = errors.New("no report recipient configured")

// Notifier pushes monthly summaries over WhatsApp.
type Notifier struct {
	sender    whatsapp.Sender
	recipient string
	currency  string
	logger    *zap.Logger
}

// NewNotifier wires a notifier for a single recipient.
func NewNotifier(sender whatsapp.Sender, recipient, currency string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{sender: sender, recipient: recipient, currency: currency, logger: logger}
}

// NotifyMonthlyReport formats report and sends it to the recipient.
func (n *Notifier) NotifyMonthlyReport(ctx context.Context, report models.MonthlyReport) error {
	if n.recipient == "" {
		return ErrNoRecipient
	}

	id, err := n.sender.SendText(ctx, n.recipient, FormatMonthlyReport(report, n.currency))
	if err != nil {
		return fmt.Errorf("send monthly report %s: %w", report.Month, err)
	}
	n.logger.Info("monthly report sent",
		zap.String("month", report.Month.String()),
		zap.String("recipient", n.recipient),
		zap.String("message_id", id),
	)
	return nil
}

// FormatMonthlyReport renders the report as a short chat message.
func FormatMonthlyReport(report models.MonthlyReport, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Monthly report %s*\n", report.Month)
	fmt.Fprintf(&b, "Revenue: %s (%d orders, %d units)\n", export.FormatAmount(report.Revenue, currency), report.Orders, report.UnitsSold)
	fmt.Fprintf(&b, "Costs: %s\n", export.FormatAmount(report.Costs, currency))
	fmt.Fprintf(&b, "Net profit: %s (margin %s%%)\n", export.FormatAmount(report.NetProfit, currency), report.Margin.StringFixed(1))

	if len(report.OwnerShares) > 0 {
		b.WriteString("\nOwner shares:\n")
		for _, s := range report.OwnerShares {
			fmt.Fprintf(&b, "- %s (%s%%): %s\n", s.Name, s.Percent.String(), export.FormatAmount(s.Amount, currency))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
