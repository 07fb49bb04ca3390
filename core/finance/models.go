package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core"
)

// EntryKind is the sign of a ledger transaction.
type EntryKind string

const (
	// Debit increases the balance owed by the account holder.
	Debit EntryKind = "debit"
	// Credit is a payment or allowance reducing the balance due.
	Credit EntryKind = "credit"
)

// Transaction is a single immutable ledger entry. Ledgers are append-only:
// corrections go through Void, historical amounts are never edited.
type Transaction struct {
	ID          string          `json:"id" db:"id"`
	AccountID   string          `json:"account_id" db:"account_id"`
	Kind        EntryKind       `json:"kind" db:"kind"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	Date        time.Time       `json:"date" db:"date"`
	Description string          `json:"description" db:"description"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"` // UTC
}

// StatementLine is a Transaction with the running balance after it applied.
type StatementLine struct {
	Transaction
	Balance decimal.Decimal `json:"balance"`
}

// NewTransaction contains information needed to append a charge or payment.
type NewTransaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description" validate:"required"`
}

func (nt *NewTransaction) Validate() error {
	nt.Description = core.CleanString(nt.Description)
	if err := core.Validate.Struct(nt); err != nil {
		return err
	}
	if nt.Amount.IsNegative() {
		return core.NewValidationError(nil, core.FieldError{Field: "amount", Error: "amount cannot be negative"})
	}
	if nt.Date.IsZero() {
		nt.Date = time.Now().UTC()
	}
	return nil
}

// Requirement is a billable school requirement (uniforms, books, levies...).
// Its terms are fixed at assignment time and never mutated retroactively for
// students that already settled.
type Requirement struct {
	ID             string          `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Grade          int             `json:"grade" db:"grade"`
	UnitPrice      decimal.Decimal `json:"unit_price" db:"unit_price"`
	QuantityNeeded int             `json:"quantity_needed" db:"quantity_needed"`
	IsCompulsory   bool            `json:"is_compulsory" db:"is_compulsory"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"` // UTC
}

// TotalExpected is the full monetary obligation: unitPrice * quantityNeeded.
func (r Requirement) TotalExpected() decimal.Decimal {
	return r.UnitPrice.Mul(decimal.NewFromInt(int64(r.QuantityNeeded)))
}

// NewRequirement contains information needed to assign a new Requirement.
type NewRequirement struct {
	Name           string          `json:"name" validate:"required"`
	Grade          int             `json:"grade" validate:"min=0"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	QuantityNeeded int             `json:"quantity_needed" validate:"min=1"`
	IsCompulsory   bool            `json:"is_compulsory"`
}

func (nr *NewRequirement) Validate() error {
	nr.Name = core.CleanString(nr.Name)
	if err := core.Validate.Struct(nr); err != nil {
		return err
	}
	if nr.UnitPrice.IsNegative() {
		return core.NewValidationError(nil, core.FieldError{Field: "unit_price", Error: "unit price cannot be negative"})
	}
	return nil
}

// Contribution is a single monetary and/or physical provision towards a
// requirement. Append-only, like ledger transactions.
type Contribution struct {
	ID            string          `json:"id" db:"id"`
	RequirementID string          `json:"requirement_id" db:"requirement_id"`
	StudentID     string          `json:"student_id" db:"student_id"`
	Amount        decimal.Decimal `json:"amount" db:"amount"`
	Quantity      int             `json:"quantity" db:"quantity"`
	Date          time.Time       `json:"date" db:"date"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"` // UTC
}

// NewContribution contains information needed to record a Contribution.
type NewContribution struct {
	Amount   decimal.Decimal `json:"amount"`
	Quantity int             `json:"quantity" validate:"min=0"`
	Date     time.Time       `json:"date"`
}

func (nc *NewContribution) Validate() error {
	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	if nc.Amount.IsNegative() {
		return core.NewValidationError(nil, core.FieldError{Field: "amount", Error: "amount cannot be negative"})
	}
	if !nc.Amount.IsPositive() && nc.Quantity == 0 {
		return core.NewValidationError(nil, core.FieldError{Field: "amount", Error: "a contribution must carry an amount or a quantity"})
	}
	if nc.Date.IsZero() {
		nc.Date = time.Now().UTC()
	}
	return nil
}

// RequirementFilter narrows requirement queries.
type RequirementFilter struct {
	Grade        *int  `query:"grade"`
	IsCompulsory *bool `query:"is_compulsory"`
}

func (f *RequirementFilter) IsEmpty() bool {
	return f.Grade == nil && f.IsCompulsory == nil
}
