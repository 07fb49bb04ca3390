package payroll

import (
	"context"
	"fmt"
	"net/mail"
	"regexp"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core"
	"github.com/shuletech/shule/core/finance"
)

var (
	// errors
	ErrStructureNotFound = errors.New("salary structure not found")
	errBadPeriod         = errors.New("period must look like YYYY-MM")

	periodRegex = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

type (
	Repository interface {
		// SaveSalaryStructure replaces the staff member's standing pay terms.
		SaveSalaryStructure(ctx context.Context, ss SalaryStructure) (SalaryStructure, error)
		GetSalaryStructure(ctx context.Context, staffID string) (SalaryStructure, error)
	}

	// Ledger is the slice of the finance service the payroll ledger rides on:
	// advances post as debits, salary payments as credits, against the staff
	// member's account.
	Ledger interface {
		Charge(ctx context.Context, accountID string, nt finance.NewTransaction) (finance.Transaction, error)
		RecordPayment(ctx context.Context, accountID string, nt finance.NewTransaction) (finance.Transaction, error)
		Statement(ctx context.Context, accountID string) ([]finance.StatementLine, error)
		Balance(ctx context.Context, accountID string) (decimal.Decimal, error)
	}

	// StaffDirectory resolves staff email addresses for payslip delivery.
	StaffDirectory interface {
		StaffAddress(ctx context.Context, staffID string) (mail.Address, error)
	}

	ServiceInterface interface {
		SetSalaryStructure(ctx context.Context, staffID string, ns NewSalaryStructure) (SalaryStructure, error)
		GetSalaryStructure(ctx context.Context, staffID string) (SalaryStructure, error)
		GeneratePayslip(ctx context.Context, staffID, period string) (Payslip, error)
		SendPayslip(ctx context.Context, staffID, period string) error
		RecordAdvance(ctx context.Context, staffID string, nt finance.NewTransaction) (finance.Transaction, error)
		RecordRepayment(ctx context.Context, staffID string, nt finance.NewTransaction) (finance.Transaction, error)
		Statement(ctx context.Context, staffID string) ([]finance.StatementLine, error)
	}

	service struct {
		repo    Repository
		ledger  Ledger
		staff   StaffDirectory
		mailSvc core.EmailService
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, ledger Ledger, staff StaffDirectory, mailSvc core.EmailService) ServiceInterface {
	return &service{repo: repo, ledger: ledger, staff: staff, mailSvc: mailSvc}
}

func (svc *service) SetSalaryStructure(ctx context.Context, staffID string, ns NewSalaryStructure) (SalaryStructure, error) {
	ss := SalaryStructure{
		StaffID:    staffID,
		Basic:      ns.Basic,
		Allowances: ns.Allowances,
		Deductions: ns.Deductions,
		UpdatedAt:  time.Now().UTC(),
	}
	return svc.repo.SaveSalaryStructure(ctx, ss)
}

func (svc *service) GetSalaryStructure(ctx context.Context, staffID string) (SalaryStructure, error) {
	return svc.repo.GetSalaryStructure(ctx, staffID)
}

func (svc *service) GeneratePayslip(ctx context.Context, staffID, period string) (Payslip, error) {
	if !periodRegex.MatchString(period) {
		return Payslip{}, core.NewValidationError(errBadPeriod, core.FieldError{Field: "period", Error: errBadPeriod.Error()})
	}

	ss, err := svc.repo.GetSalaryStructure(ctx, staffID)
	if err != nil {
		return Payslip{}, err
	}
	slip := ComputePayslip(ss, period)

	balance, err := svc.ledger.Balance(ctx, staffID)
	if err != nil {
		return Payslip{}, errors.Wrap(err, "querying advance balance")
	}
	slip.AdvanceBalance = balance
	return slip, nil
}

func (svc *service) SendPayslip(ctx context.Context, staffID, period string) error {
	slip, err := svc.GeneratePayslip(ctx, staffID, period)
	if err != nil {
		return err
	}
	addr, err := svc.staff.StaffAddress(ctx, staffID)
	if err != nil {
		return errors.Wrap(err, "resolving staff address")
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{addr},
		Subject: fmt.Sprintf("Payslip %s", slip.Period),
		BodyStr: fmt.Sprintf(
			"Basic: %s\nGross: %s\nDeductions: %s\nNet pay: %s\nOutstanding advances: %s\n",
			slip.Basic.StringFixed(2), slip.Gross.StringFixed(2),
			slip.TotalDeductions.StringFixed(2), slip.Net.StringFixed(2),
			slip.AdvanceBalance.StringFixed(2),
		),
	})
	return nil
}

func (svc *service) RecordAdvance(ctx context.Context, staffID string, nt finance.NewTransaction) (finance.Transaction, error) {
	return svc.ledger.Charge(ctx, staffID, nt)
}

func (svc *service) RecordRepayment(ctx context.Context, staffID string, nt finance.NewTransaction) (finance.Transaction, error) {
	return svc.ledger.RecordPayment(ctx, staffID, nt)
}

func (svc *service) Statement(ctx context.Context, staffID string) ([]finance.StatementLine, error) {
	return svc.ledger.Statement(ctx, staffID)
}
