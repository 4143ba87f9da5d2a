package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseType classifies one-off expenses.
type ExpenseType string

const (
	ExpenseRent         ExpenseType = "rent"
	ExpenseUtilities    ExpenseType = "utilities"
	ExpenseMarketing    ExpenseType = "marketing"
	ExpenseMaintenance  ExpenseType = "maintenance"
	ExpenseDepreciation ExpenseType = "depreciation"
	ExpenseOther        ExpenseType = "other"
)

// Expense is a dated operating expense.
type Expense struct {
	ID          int64           `bson:"_id" json:"id"`
	Type        ExpenseType     `bson:"type" json:"type"`
	Description string          `bson:"description" json:"description"`
	Amount      decimal.Decimal `bson:"amount" json:"amount"`
	Date        time.Time       `bson:"date" json:"date"`
	Category    string          `bson:"category,omitempty" json:"category,omitempty"`
}

// Validate checks the rules enforced when an expense is recorded.
func (e Expense) Validate() error {
	if e.Amount.IsNegative() {
		return invalid("expense", e.ID, "amount", "must not be negative")
	}
	if e.Type == "" {
		return invalid("expense", e.ID, "type", "is required")
	}
	return nil
}

// BillType tells whether a recurring bill has a fixed or a usage-based amount.
type BillType string

const (
	BillFixed    BillType = "fixed"
	BillVariable BillType = "variable"
)

// MonthlyBill is a recurring bill. Only active bills count as overhead, always
// at their estimated amount.
type MonthlyBill struct {
	ID              int64           `bson:"_id" json:"id"`
	Name            string          `bson:"name" json:"name"`
	EstimatedAmount decimal.Decimal `bson:"estimated_amount" json:"estimated_amount"`
	Category        string          `bson:"category" json:"category"`
	IsActive        bool            `bson:"is_active" json:"is_active"`
	BillType        BillType        `bson:"bill_type" json:"bill_type"`
	DueDay          int             `bson:"due_day" json:"due_day"`
	Vendor          string          `bson:"vendor,omitempty" json:"vendor,omitempty"`
}

// Validate checks the rules enforced when a bill is configured.
func (b MonthlyBill) Validate() error {
	if b.DueDay < 1 || b.DueDay > 31 {
		return invalid("monthly_bill", b.ID, "due_day", "must be between 1 and 31")
	}
	if b.EstimatedAmount.IsNegative() {
		return invalid("monthly_bill", b.ID, "estimated_amount", "must not be negative")
	}
	return nil
}

// DueDate returns the bill's due date within month m, clamped to the month's last day.
func (b MonthlyBill) DueDate(m Month) time.Time {
	start := m.Start()
	last := m.End().Day()
	d := min(max(b.DueDay, 1), last)
	return time.Date(start.Year(), start.Month(), d, 0, 0, 0, 0, time.UTC)
}

// BillPayment is the cash actually paid against a bill for a month.
type BillPayment struct {
	ID           int64           `bson:"_id" json:"id"`
	BillID       int64           `bson:"bill_id" json:"bill_id"`
	BillName     string          `bson:"bill_name" json:"bill_name"`
	ActualAmount decimal.Decimal `bson:"actual_amount" json:"actual_amount"`
	PaidDate     time.Time       `bson:"paid_date" json:"paid_date"`
	Month        Month           `bson:"month" json:"month"`
}

// Validate checks the rules enforced when a payment is recorded.
func (p BillPayment) Validate() error {
	if p.BillID == 0 {
		return invalid("bill_payment", p.ID, "bill_id", "is required")
	}
	if p.ActualAmount.IsNegative() {
		return invalid("bill_payment", p.ID, "actual_amount", "must not be negative")
	}
	if !p.Month.Valid() {
		return invalid("bill_payment", p.ID, "month", "must be YYYY-MM")
	}
	return nil
}
