package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalaryType enumerates how an employee's base salary is expressed.
type SalaryType string

const (
	SalaryMonthly SalaryType = "monthly"
	SalaryHourly  SalaryType = "hourly"
	SalaryDaily   SalaryType = "daily"
)

// Employee is a staff member whose salary counts as monthly overhead.
type Employee struct {
	ID         int64           `bson:"_id" json:"id"`
	Name       string          `bson:"name" json:"name"`
	Position   string          `bson:"position" json:"position"`
	BaseSalary decimal.Decimal `bson:"base_salary" json:"base_salary"`
	SalaryType SalaryType      `bson:"salary_type" json:"salary_type"`
}

// AdjustmentType enumerates salary adjustment kinds.
type AdjustmentType string

const (
	AdjustmentBonus     AdjustmentType = "bonus"
	AdjustmentOvertime  AdjustmentType = "overtime"
	AdjustmentAllowance AdjustmentType = "allowance"
	AdjustmentDeduction AdjustmentType = "deduction"
)

// Valid reports whether t is a known adjustment type.
func (t AdjustmentType) Valid() bool {
	switch t {
	case AdjustmentBonus, AdjustmentOvertime, AdjustmentAllowance, AdjustmentDeduction:
		return true
	}
	return false
}

// SalaryAdjustment changes an employee's effective salary for one month.
// Amount is always a positive magnitude; Type decides the sign.
type SalaryAdjustment struct {
	ID         int64           `bson:"_id" json:"id"`
	EmployeeID int64           `bson:"employee_id" json:"employee_id"`
	Amount     decimal.Decimal `bson:"amount" json:"amount"`
	Type       AdjustmentType  `bson:"type" json:"type"`
	Month      Month           `bson:"month" json:"month"`
	Reason     string          `bson:"reason,omitempty" json:"reason,omitempty"`
	CreatedAt  time.Time       `bson:"created_at" json:"created_at"`
}

// Signed returns the amount with the sign it contributes to the effective salary.
func (a SalaryAdjustment) Signed() decimal.Decimal {
	if a.Type == AdjustmentDeduction {
		return a.Amount.Neg()
	}
	return a.Amount
}

// Validate checks the rules enforced when an adjustment is recorded.
func (a SalaryAdjustment) Validate() error {
	if a.EmployeeID == 0 {
		return invalid("salary_adjustment", a.ID, "employee_id", "is required")
	}
	if !a.Amount.IsPositive() {
		return invalid("salary_adjustment", a.ID, "amount", "must be greater than 0")
	}
	if !a.Type.Valid() {
		return invalid("salary_adjustment", a.ID, "type", "is unknown")
	}
	if !a.Month.Valid() {
		return invalid("salary_adjustment", a.ID, "month", "must be YYYY-MM")
	}
	return nil
}
