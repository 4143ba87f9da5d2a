package sheets

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
)

const (
	ingredientsRange  = "Ingredients!A:G"
	productsRange     = "Products!A:F"
	salesRange        = "Sales!A:I"
	employeesRange    = "Employees!A:E"
	adjustmentsRange  = "Adjustments!A:G"
	expensesRange     = "Expenses!A:F"
	billsRange        = "Bills!A:H"
	paymentsRange     = "Payments!A:F"
	ownersRange       = "Owners!A:D"
	reportsRange      = "Reports!A:F"
	reportSharesRange = "ReportShares!A:E"
)

var entityRanges = []string{
	ingredientsRange, productsRange, salesRange, employeesRange, adjustmentsRange,
	expensesRange, billsRange, paymentsRange, ownersRange,
}

// Store reads entity snapshots from a spreadsheet with one tab per entity.
// The first row of each tab is a header.
type Store struct {
	repo   Repository
	logger *zap.Logger
}

// NewStore wraps a sheets repository.
func NewStore(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger}
}

// Snapshot loads every tab. Rows that fail to parse are skipped.
func (s *Store) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	tabs, err := s.repo.ReadRanges(ctx, entityRanges...)
	if err != nil {
		return engine.Snapshot{}, fmt.Errorf("load entity ranges: %w", err)
	}

	return engine.Snapshot{
		Ingredients:       parseRows(s.logger, ingredientsRange, tabs[ingredientsRange], parseIngredient),
		Products:          parseRows(s.logger, productsRange, tabs[productsRange], parseProduct),
		Sales:             parseRows(s.logger, salesRange, tabs[salesRange], parseSale),
		Employees:         parseRows(s.logger, employeesRange, tabs[employeesRange], parseEmployee),
		SalaryAdjustments: parseRows(s.logger, adjustmentsRange, tabs[adjustmentsRange], parseAdjustment),
		Expenses:          parseRows(s.logger, expensesRange, tabs[expensesRange], parseExpense),
		Bills:             parseRows(s.logger, billsRange, tabs[billsRange], parseBill),
		BillPayments:      parseRows(s.logger, paymentsRange, tabs[paymentsRange], parsePayment),
		Owners:            parseRows(s.logger, ownersRange, tabs[ownersRange], parseOwner),
	}, nil
}

// SaveMonthlyReport appends the report summary to the Reports tab and one
// row per owner to the ReportShares tab.
func (s *Store) SaveMonthlyReport(ctx context.Context, report models.MonthlyReport) error {
	row := []interface{}{
		report.Month.String(),
		report.Revenue.StringFixed(2),
		report.Costs.StringFixed(2),
		report.NetProfit.StringFixed(2),
		report.Margin.StringFixed(2),
		report.GeneratedAt.UTC().Format(time.RFC3339),
	}
	if err := s.repo.AppendRows(ctx, reportsRange, [][]interface{}{row}); err != nil {
		return fmt.Errorf("append monthly report: %w", err)
	}

	shares := make([][]interface{}, 0, len(report.OwnerShares))
	for _, share := range report.OwnerShares {
		shares = append(shares, []interface{}{
			report.Month.String(),
			strconv.FormatInt(share.OwnerID, 10),
			share.Name,
			share.Percent.String(),
			share.Amount.StringFixed(2),
		})
	}
	if err := s.repo.AppendRows(ctx, reportSharesRange, shares); err != nil {
		return fmt.Errorf("append monthly report shares: %w", err)
	}
	return nil
}

func parseRows[T any](logger *zap.Logger, tab string, rows [][]interface{}, parse func([]interface{}) (T, error)) []T {
	if len(rows) <= 1 {
		return nil
	}
	out := make([]T, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) == 0 || cell(row, 0) == "" {
			continue
		}
		v, err := parse(row)
		if err != nil {
			logger.Debug("skip sheet row", zap.String("range", tab), zap.Int("row", i+2), zap.Error(err))
			continue
		}
		out = append(out, v)
	}
	return out
}
