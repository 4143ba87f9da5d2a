package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/smallerp/internal/config"
	"github.com/mamadbah2/smallerp/internal/domain/models"
	"github.com/mamadbah2/smallerp/internal/engine"
	"github.com/mamadbah2/smallerp/internal/metrics"
)

// ErrProductNotFound is returned when a product id is not in the catalog.
var ErrProductNotFound = errors.New("product not found")

// Store supplies a consistent view of every entity collection.
type Store interface {
	Snapshot(ctx context.Context) (engine.Snapshot, error)
}

// Service loads a snapshot per call and runs the financial engine on it.
type Service struct {
	store   Store
	opts    []engine.Option
	metrics *metrics.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new analysis service instance.
func NewService(store Store, cfg config.AnalysisConfig, m *metrics.Metrics, logger *zap.Logger) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	policy, ok := engine.AllocationByName(cfg.AllocationPolicy)
	if !ok {
		return nil, fmt.Errorf("unknown allocation policy %q", cfg.AllocationPolicy)
	}
	return &Service{
		store: store,
		opts: []engine.Option{
			engine.WithAllocation(policy),
			engine.WithProrationDivisor(cfg.ProrationDivisor),
		},
		metrics: m,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// PeriodReport gathers every period-scoped figure in one pass.
type PeriodReport struct {
	Period    models.Period            `json:"period"`
	Costs     engine.CostSummary       `json:"costs"`
	Revenue   engine.RevenueSummary    `json:"revenue"`
	Portfolio engine.PortfolioSummary  `json:"portfolio"`
	Owners    engine.OwnerDistribution `json:"owners"`
	NetProfit decimal.Decimal          `json:"net_profit"`
	Margin    decimal.Decimal          `json:"margin"`
}

// EmployeeSalary is one employee's contribution to monthly overhead.
type EmployeeSalary struct {
	EmployeeID      int64           `json:"employee_id"`
	Name            string          `json:"name"`
	Position        string          `json:"position"`
	BaseSalary      decimal.Decimal `json:"base_salary"`
	Adjustments     decimal.Decimal `json:"adjustments"`
	EffectiveSalary decimal.Decimal `json:"effective_salary"`
}

// OverheadReport explains the monthly overhead figure.
type OverheadReport struct {
	Month         models.Month     `json:"month"`
	Salaries      []EmployeeSalary `json:"salaries"`
	TotalSalaries decimal.Decimal  `json:"total_salaries"`
	ActiveBills   decimal.Decimal  `json:"active_bills"`
	Total         decimal.Decimal  `json:"total"`
}

// MarginReport is a product's margin for a calendar month.
type MarginReport struct {
	ProductID    int64           `json:"product_id"`
	Name         string          `json:"name"`
	Month        models.Month    `json:"month"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	UnitCost     engine.UnitCost `json:"unit_cost"`
	Margin       decimal.Decimal `json:"margin"`
}

// BillsReport lists the bill statuses of a month.
type BillsReport struct {
	Month   models.Month        `json:"month"`
	AsOf    time.Time           `json:"as_of"`
	Bills   []engine.BillStatus `json:"bills"`
	Summary engine.BillSummary  `json:"summary"`
}

// Problem is one validation finding, flattened for presentation.
type Problem struct {
	Entity  string `json:"entity,omitempty"`
	ID      int64  `json:"id,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Warning bool   `json:"warning"`
}

// Costs returns the cost summary of period.
func (s *Service) Costs(ctx context.Context, period models.Period) (engine.CostSummary, error) {
	calc, _, err := s.load(ctx, "total_costs")
	if err != nil {
		return engine.CostSummary{}, err
	}
	return calc.TotalCosts(period), nil
}

// Revenue returns the revenue summary of period.
func (s *Service) Revenue(ctx context.Context, period models.Period) (engine.RevenueSummary, error) {
	calc, _, err := s.load(ctx, "total_revenue")
	if err != nil {
		return engine.RevenueSummary{}, err
	}
	return calc.TotalRevenue(period), nil
}

// Portfolio returns profit metrics for every product.
func (s *Service) Portfolio(ctx context.Context, period models.Period) (engine.PortfolioSummary, error) {
	calc, _, err := s.load(ctx, "portfolio")
	if err != nil {
		return engine.PortfolioSummary{}, err
	}
	return calc.PortfolioMetrics(period), nil
}

// ProductProfit returns one product's profit metrics.
func (s *Service) ProductProfit(ctx context.Context, productID int64, period models.Period) (engine.ProductProfit, error) {
	calc, _, err := s.load(ctx, "profit_metrics")
	if err != nil {
		return engine.ProductProfit{}, err
	}
	product, err := lookup(calc, productID)
	if err != nil {
		return engine.ProductProfit{}, err
	}
	return engine.ProductProfit{
		ProductID:     product.ID,
		Name:          product.Name,
		Category:      product.Category,
		ProfitMetrics: calc.ProfitMetrics(product, period),
	}, nil
}

// ProductCost returns one product's full cost per unit.
func (s *Service) ProductCost(ctx context.Context, productID int64, period models.Period) (engine.UnitCost, error) {
	calc, _, err := s.load(ctx, "full_cost_per_unit")
	if err != nil {
		return engine.UnitCost{}, err
	}
	product, err := lookup(calc, productID)
	if err != nil {
		return engine.UnitCost{}, err
	}
	return calc.FullCostPerUnit(product, period), nil
}

// ProductMargin returns one product's margin for month.
func (s *Service) ProductMargin(ctx context.Context, productID int64, month models.Month) (MarginReport, error) {
	calc, _, err := s.load(ctx, "product_margin")
	if err != nil {
		return MarginReport{}, err
	}
	product, err := lookup(calc, productID)
	if err != nil {
		return MarginReport{}, err
	}
	return MarginReport{
		ProductID:    product.ID,
		Name:         product.Name,
		Month:        month,
		SellingPrice: product.SellingPrice,
		UnitCost:     calc.FullCostPerUnit(product, models.MonthPeriod(month)),
		Margin:       calc.ProductMargin(product, month),
	}, nil
}

// Overhead breaks the monthly overhead down into salaries and active bills.
func (s *Service) Overhead(ctx context.Context, month models.Month) (OverheadReport, error) {
	calc, snap, err := s.load(ctx, "monthly_overhead")
	if err != nil {
		return OverheadReport{}, err
	}

	report := OverheadReport{
		Month:    month,
		Salaries: make([]EmployeeSalary, 0, len(snap.Employees)),
		Total:    calc.MonthlyOverhead(month),
	}
	for _, e := range snap.Employees {
		effective := calc.EffectiveSalary(e.ID, month)
		report.Salaries = append(report.Salaries, EmployeeSalary{
			EmployeeID:      e.ID,
			Name:            e.Name,
			Position:        e.Position,
			BaseSalary:      e.BaseSalary,
			Adjustments:     effective.Sub(e.BaseSalary),
			EffectiveSalary: effective,
		})
		report.TotalSalaries = report.TotalSalaries.Add(effective)
	}
	report.ActiveBills = report.Total.Sub(report.TotalSalaries)
	return report, nil
}

// OwnerShares distributes the all-time net profit using month's overhead.
func (s *Service) OwnerShares(ctx context.Context, month models.Month) (engine.OwnerDistribution, error) {
	calc, snap, err := s.load(ctx, "owner_profits")
	if err != nil {
		return engine.OwnerDistribution{}, err
	}
	s.warnUnbalanced(snap)
	return calc.OwnerProfits(month), nil
}

// OwnerSharesForPeriod distributes the net profit of period.
func (s *Service) OwnerSharesForPeriod(ctx context.Context, period models.Period) (engine.OwnerDistribution, error) {
	calc, snap, err := s.load(ctx, "owner_profits_period")
	if err != nil {
		return engine.OwnerDistribution{}, err
	}
	s.warnUnbalanced(snap)
	return calc.OwnerProfitsForPeriod(period), nil
}

// Bills classifies every active bill of month as of asOf.
func (s *Service) Bills(ctx context.Context, month models.Month, asOf time.Time) (BillsReport, error) {
	calc, _, err := s.load(ctx, "bill_statuses")
	if err != nil {
		return BillsReport{}, err
	}
	bills, summary := calc.BillStatuses(month, asOf)
	if bills == nil {
		bills = []engine.BillStatus{}
	}
	return BillsReport{Month: month, AsOf: asOf, Bills: bills, Summary: summary}, nil
}

// Trends returns n monthly points ending with end.
func (s *Service) Trends(ctx context.Context, end models.Month, n int) ([]engine.TrendPoint, error) {
	calc, _, err := s.load(ctx, "trend")
	if err != nil {
		return nil, err
	}
	return calc.Trend(models.LastMonths(end, n)), nil
}

// PeriodReport computes costs, revenue, portfolio and owner shares on a
// single snapshot.
func (s *Service) PeriodReport(ctx context.Context, period models.Period) (PeriodReport, error) {
	calc, snap, err := s.load(ctx, "period_report")
	if err != nil {
		return PeriodReport{}, err
	}
	s.warnUnbalanced(snap)

	report := PeriodReport{
		Period:    period,
		Costs:     calc.TotalCosts(period),
		Revenue:   calc.TotalRevenue(period),
		Portfolio: calc.PortfolioMetrics(period),
	}
	report.NetProfit = report.Revenue.TotalRevenue.Sub(report.Costs.TotalCosts)
	report.Margin = engine.Percent(report.NetProfit, report.Revenue.TotalRevenue)
	report.Owners = calc.Distribute(report.NetProfit)
	return report, nil
}

// MonthlyReport summarises a calendar month for archiving and notification.
func (s *Service) MonthlyReport(ctx context.Context, month models.Month) (models.MonthlyReport, error) {
	report, err := s.PeriodReport(ctx, models.MonthPeriod(month))
	if err != nil {
		return models.MonthlyReport{}, err
	}

	out := models.MonthlyReport{
		Month:       month,
		Revenue:     report.Revenue.TotalRevenue,
		Costs:       report.Costs.TotalCosts,
		NetProfit:   report.NetProfit,
		Margin:      report.Margin,
		UnitsSold:   report.Revenue.TotalUnits,
		Orders:      report.Revenue.TotalOrders,
		OwnerShares: make([]models.OwnerShareEntry, 0, len(report.Owners.Shares)),
		GeneratedAt: s.now().UTC(),
	}
	for _, share := range report.Owners.Shares {
		out.OwnerShares = append(out.OwnerShares, models.OwnerShareEntry{
			OwnerID: share.ID,
			Name:    share.Name,
			Percent: share.ProfitSharePercent,
			Amount:  share.ProfitShare,
		})
	}
	return out, nil
}

// Validation lists business-rule violations and dangling references in the
// current data.
func (s *Service) Validation(ctx context.Context) ([]Problem, error) {
	_, snap, err := s.load(ctx, "validation")
	if err != nil {
		return nil, err
	}

	problems := make([]Problem, 0)
	for _, p := range snap.Problems() {
		problem := Problem{Message: p.Error()}
		var verr *models.ValidationError
		if errors.As(p, &verr) {
			problem.Entity, problem.ID, problem.Field = verr.Entity, verr.ID, verr.Field
		}
		problem.Warning = errors.Is(p, engine.ErrOwnerSharesUnbalanced)
		problems = append(problems, problem)
	}
	return problems, nil
}

func (s *Service) load(ctx context.Context, operation string) (*engine.Calculator, engine.Snapshot, error) {
	start := time.Now()
	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		s.logger.Error("load snapshot failed", zap.String("operation", operation), zap.Error(err))
		return nil, engine.Snapshot{}, fmt.Errorf("load snapshot: %w", err)
	}
	s.metrics.ObserveSnapshotLoad(time.Since(start))
	s.metrics.ObserveCalculation(operation)
	s.logger.Debug("snapshot loaded",
		zap.String("operation", operation),
		zap.Int("products", len(snap.Products)),
		zap.Int("sales", len(snap.Sales)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return engine.New(snap, s.opts...), snap, nil
}

func (s *Service) warnUnbalanced(snap engine.Snapshot) {
	for _, p := range snap.Problems() {
		if errors.Is(p, engine.ErrOwnerSharesUnbalanced) {
			s.logger.Warn("owner shares are unbalanced", zap.Error(p))
			return
		}
	}
}

func lookup(calc *engine.Calculator, productID int64) (models.Product, error) {
	product, ok := calc.Product(productID)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %d", ErrProductNotFound, productID)
	}
	return product, nil
}
