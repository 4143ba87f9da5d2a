package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/smallerp/internal/domain/models"
)

// ErrOwnerSharesUnbalanced flags owner profit percentages that do not add up
// to 100. Distribution still runs; the shares just won't reconcile.
var ErrOwnerSharesUnbalanced = errors.New("owner profit shares do not sum to 100")

// Snapshot is a consistent, read-only view of every entity collection.
type Snapshot struct {
	Ingredients       []models.Ingredient       `json:"ingredients"`
	Products          []models.Product          `json:"products"`
	Sales             []models.Sale             `json:"sales"`
	Employees         []models.Employee         `json:"employees"`
	SalaryAdjustments []models.SalaryAdjustment `json:"salary_adjustments"`
	Expenses          []models.Expense          `json:"expenses"`
	Bills             []models.MonthlyBill      `json:"bills"`
	BillPayments      []models.BillPayment      `json:"bill_payments"`
	Owners            []models.Owner            `json:"owners"`
}

// Clone returns a snapshot whose slices do not alias s.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Ingredients:       append([]models.Ingredient(nil), s.Ingredients...),
		Products:          make([]models.Product, len(s.Products)),
		Sales:             append([]models.Sale(nil), s.Sales...),
		Employees:         append([]models.Employee(nil), s.Employees...),
		SalaryAdjustments: append([]models.SalaryAdjustment(nil), s.SalaryAdjustments...),
		Expenses:          append([]models.Expense(nil), s.Expenses...),
		Bills:             append([]models.MonthlyBill(nil), s.Bills...),
		BillPayments:      append([]models.BillPayment(nil), s.BillPayments...),
		Owners:            append([]models.Owner(nil), s.Owners...),
	}
	for i, p := range s.Products {
		p.Recipe = append([]models.RecipeLine(nil), p.Recipe...)
		out.Products[i] = p
	}
	return out
}

// Problems lists business-rule violations and dangling references. Owner
// percentages that don't total 100 are reported as ErrOwnerSharesUnbalanced.
func (s Snapshot) Problems() []error {
	var problems []error

	ingredients := make(map[int64]struct{}, len(s.Ingredients))
	for _, in := range s.Ingredients {
		ingredients[in.ID] = struct{}{}
	}
	products := make(map[int64]struct{}, len(s.Products))
	for _, p := range s.Products {
		products[p.ID] = struct{}{}
		if err := p.Validate(); err != nil {
			problems = append(problems, err)
		}
		for _, line := range p.Recipe {
			if _, ok := ingredients[line.IngredientID]; !ok {
				problems = append(problems, dangling("product", p.ID, "recipe", "ingredient", line.IngredientID))
			}
		}
	}
	for _, sale := range s.Sales {
		if err := sale.Validate(); err != nil {
			problems = append(problems, err)
		}
		if _, ok := products[sale.ProductID]; !ok && sale.ProductID != 0 {
			problems = append(problems, dangling("sale", sale.ID, "product_id", "product", sale.ProductID))
		}
	}

	employees := make(map[int64]struct{}, len(s.Employees))
	for _, e := range s.Employees {
		employees[e.ID] = struct{}{}
	}
	for _, adj := range s.SalaryAdjustments {
		if err := adj.Validate(); err != nil {
			problems = append(problems, err)
		}
		if _, ok := employees[adj.EmployeeID]; !ok && adj.EmployeeID != 0 {
			problems = append(problems, dangling("salary_adjustment", adj.ID, "employee_id", "employee", adj.EmployeeID))
		}
	}

	for _, e := range s.Expenses {
		if err := e.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	bills := make(map[int64]struct{}, len(s.Bills))
	for _, b := range s.Bills {
		bills[b.ID] = struct{}{}
		if err := b.Validate(); err != nil {
			problems = append(problems, err)
		}
	}
	for _, p := range s.BillPayments {
		if err := p.Validate(); err != nil {
			problems = append(problems, err)
		}
		if _, ok := bills[p.BillID]; !ok && p.BillID != 0 {
			problems = append(problems, dangling("bill_payment", p.ID, "bill_id", "bill", p.BillID))
		}
	}

	if len(s.Owners) > 0 {
		total := decimal.Zero
		for _, o := range s.Owners {
			if err := o.Validate(); err != nil {
				problems = append(problems, err)
			}
			total = total.Add(o.ProfitSharePercent)
		}
		if !total.Equal(decimal.NewFromInt(100)) {
			problems = append(problems, fmt.Errorf("%w: total is %s", ErrOwnerSharesUnbalanced, total.String()))
		}
	}

	return problems
}

// Validate joins every problem found by Problems, or returns nil.
func (s Snapshot) Validate() error {
	return errors.Join(s.Problems()...)
}

func dangling(entity string, id int64, field, target string, targetID int64) *models.ValidationError {
	return &models.ValidationError{
		Entity: entity,
		ID:     id,
		Field:  field,
		Reason: fmt.Sprintf("references unknown %s %d", target, targetID),
	}
}
