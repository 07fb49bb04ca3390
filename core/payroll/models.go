package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core"
)

// PayItem is one named allowance or deduction line.
type PayItem struct {
	Label  string          `json:"label" db:"label" validate:"required"`
	Amount decimal.Decimal `json:"amount" db:"amount"`
}

// SalaryStructure is a staff member's standing pay terms. There is at most
// one per staff member; saving replaces the previous terms but never touches
// payslips already issued.
type SalaryStructure struct {
	StaffID    string          `json:"staff_id" db:"staff_id"`
	Basic      decimal.Decimal `json:"basic" db:"basic"`
	Allowances []PayItem       `json:"allowances"`
	Deductions []PayItem       `json:"deductions"`
	UpdatedAt  time.Time       `json:"updated_at" db:"updated_at"` // UTC
}

// NewSalaryStructure contains information needed to set a staff member's pay terms.
type NewSalaryStructure struct {
	Basic      decimal.Decimal `json:"basic"`
	Allowances []PayItem       `json:"allowances" validate:"omitempty,dive"`
	Deductions []PayItem       `json:"deductions" validate:"omitempty,dive"`
}

func (ns *NewSalaryStructure) Validate() error {
	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	if ns.Basic.IsNegative() {
		return core.NewValidationError(nil, core.FieldError{Field: "basic", Error: "basic salary cannot be negative"})
	}
	for _, item := range append(append([]PayItem{}, ns.Allowances...), ns.Deductions...) {
		if item.Amount.IsNegative() {
			return core.NewValidationError(nil, core.FieldError{
				Field: "amount",
				Error: item.Label + ": amount cannot be negative",
			})
		}
	}
	return nil
}

// Payslip is the derived pay computation for one staff member and period.
type Payslip struct {
	StaffID         string          `json:"staff_id"`
	Period          string          `json:"period"` // eg. "2024-07"
	Basic           decimal.Decimal `json:"basic"`
	Allowances      []PayItem       `json:"allowances"`
	Deductions      []PayItem       `json:"deductions"`
	Gross           decimal.Decimal `json:"gross"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	Net             decimal.Decimal `json:"net"`
	AdvanceBalance  decimal.Decimal `json:"advance_balance"` // outstanding advances, informational
	GeneratedAt     time.Time       `json:"generated_at"`    // UTC
}
