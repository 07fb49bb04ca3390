package finance

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core"
)

var (
	// errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrRequirementNotFound = errors.New("requirement not found")
)

type (
	Repository interface {
		CreateTransaction(ctx context.Context, tx Transaction) (Transaction, error)
		GetTransaction(ctx context.Context, id string) (Transaction, error)
		QueryAccountTransactions(ctx context.Context, accountID string) ([]Transaction, error)
		// DeleteTransaction exists for corrections only; the common path never deletes.
		DeleteTransaction(ctx context.Context, id string) error
		// SumPayments totals all credit entries across accounts.
		SumPayments(ctx context.Context) (decimal.Decimal, error)

		CreateRequirement(ctx context.Context, req Requirement) (Requirement, error)
		GetRequirement(ctx context.Context, id string) (Requirement, error)
		QueryRequirements(ctx context.Context, filter RequirementFilter) ([]Requirement, error)

		CreateContribution(ctx context.Context, c Contribution) (Contribution, error)
		QueryContributions(ctx context.Context, requirementID, studentID string) ([]Contribution, error)
		SetExemption(ctx context.Context, requirementID, studentID string, exempted bool) error
		IsExempted(ctx context.Context, requirementID, studentID string) (bool, error)
	}

	// StudentDirectory resolves guardian contacts for receipts. Implemented
	// by the student service.
	StudentDirectory interface {
		GuardianAddress(ctx context.Context, studentID string) (mail.Address, error)
	}

	ServiceInterface interface {
		Charge(ctx context.Context, accountID string, nt NewTransaction) (Transaction, error)
		RecordPayment(ctx context.Context, accountID string, nt NewTransaction) (Transaction, error)
		Void(ctx context.Context, txID string) error
		Statement(ctx context.Context, accountID string) ([]StatementLine, error)
		Balance(ctx context.Context, accountID string) (decimal.Decimal, error)
		TotalCollected(ctx context.Context) (decimal.Decimal, error)

		CreateRequirement(ctx context.Context, nr NewRequirement) (Requirement, error)
		GetRequirement(ctx context.Context, id string) (Requirement, error)
		QueryRequirements(ctx context.Context, filter RequirementFilter) ([]Requirement, error)
		Contribute(ctx context.Context, requirementID, studentID string, nc NewContribution) (Settlement, error)
		Exempt(ctx context.Context, requirementID, studentID string) error
		SettlementStatus(ctx context.Context, requirementID, studentID string) (Settlement, error)
		StudentRequirements(ctx context.Context, studentID string, grade int) ([]Settlement, error)
	}

	service struct {
		repo     Repository
		students StudentDirectory
		mailSvc  core.EmailService
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository, students StudentDirectory, mailSvc core.EmailService) ServiceInterface {
	return &service{repo: repo, students: students, mailSvc: mailSvc}
}

func (svc *service) append(ctx context.Context, accountID string, kind EntryKind, nt NewTransaction) (Transaction, error) {
	tx := Transaction{
		ID:          uuid.New().String(),
		AccountID:   accountID,
		Kind:        kind,
		Amount:      nt.Amount,
		Date:        nt.Date,
		Description: nt.Description,
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateTransaction(ctx, tx)
}

func (svc *service) Charge(ctx context.Context, accountID string, nt NewTransaction) (Transaction, error) {
	return svc.append(ctx, accountID, Debit, nt)
}

func (svc *service) RecordPayment(ctx context.Context, accountID string, nt NewTransaction) (Transaction, error) {
	tx, err := svc.append(ctx, accountID, Credit, nt)
	if err != nil {
		return Transaction{}, err
	}
	svc.sendReceipt(ctx, tx)
	return tx, nil
}

// sendReceipt emails a payment receipt to the student's guardian.
// Failure to resolve a guardian is not an error; not every account is a student.
func (svc *service) sendReceipt(ctx context.Context, tx Transaction) {
	addr, err := svc.students.GuardianAddress(ctx, tx.AccountID)
	if err != nil || addr.Address == "" {
		return
	}
	balance, err := svc.Balance(ctx, tx.AccountID)
	if err != nil {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{addr},
		Subject: "Payment received",
		BodyStr: fmt.Sprintf(
			"We have received your payment of %s (%s).\nOutstanding balance: %s.",
			tx.Amount.StringFixed(2), tx.Description, balance.StringFixed(2),
		),
	})
}

func (svc *service) Void(ctx context.Context, txID string) error {
	if _, err := svc.repo.GetTransaction(ctx, txID); err != nil {
		return err
	}
	return svc.repo.DeleteTransaction(ctx, txID)
}

func (svc *service) Statement(ctx context.Context, accountID string) ([]StatementLine, error) {
	txs, err := svc.repo.QueryAccountTransactions(ctx, accountID)
	if err != nil {
		return nil, errors.Wrap(err, "querying account transactions")
	}
	return BuildStatement(txs), nil
}

func (svc *service) Balance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	txs, err := svc.repo.QueryAccountTransactions(ctx, accountID)
	if err != nil {
		return decimal.Zero, errors.Wrap(err, "querying account transactions")
	}
	return ClosingBalance(txs), nil
}

// TotalCollected satisfies the school fees census: all payments ever recorded.
func (svc *service) TotalCollected(ctx context.Context) (decimal.Decimal, error) {
	return svc.repo.SumPayments(ctx)
}

func (svc *service) CreateRequirement(ctx context.Context, nr NewRequirement) (Requirement, error) {
	req := Requirement{
		ID:             uuid.New().String(),
		Name:           nr.Name,
		Grade:          nr.Grade,
		UnitPrice:      nr.UnitPrice,
		QuantityNeeded: nr.QuantityNeeded,
		IsCompulsory:   nr.IsCompulsory,
		CreatedAt:      time.Now().UTC(),
	}
	return svc.repo.CreateRequirement(ctx, req)
}

func (svc *service) GetRequirement(ctx context.Context, id string) (Requirement, error) {
	return svc.repo.GetRequirement(ctx, id)
}

func (svc *service) QueryRequirements(ctx context.Context, filter RequirementFilter) ([]Requirement, error) {
	return svc.repo.QueryRequirements(ctx, filter)
}

func (svc *service) Contribute(ctx context.Context, requirementID, studentID string, nc NewContribution) (Settlement, error) {
	req, err := svc.repo.GetRequirement(ctx, requirementID)
	if err != nil {
		return Settlement{}, err
	}

	c := Contribution{
		ID:            uuid.New().String(),
		RequirementID: requirementID,
		StudentID:     studentID,
		Amount:        nc.Amount,
		Quantity:      nc.Quantity,
		Date:          nc.Date,
		CreatedAt:     time.Now().UTC(),
	}
	if _, err = svc.repo.CreateContribution(ctx, c); err != nil {
		return Settlement{}, errors.Wrap(err, "creating contribution")
	}
	return svc.settle(ctx, req, studentID)
}

func (svc *service) Exempt(ctx context.Context, requirementID, studentID string) error {
	if _, err := svc.repo.GetRequirement(ctx, requirementID); err != nil {
		return err
	}
	return svc.repo.SetExemption(ctx, requirementID, studentID, true)
}

func (svc *service) SettlementStatus(ctx context.Context, requirementID, studentID string) (Settlement, error) {
	req, err := svc.repo.GetRequirement(ctx, requirementID)
	if err != nil {
		return Settlement{}, err
	}
	return svc.settle(ctx, req, studentID)
}

// StudentRequirements derives the student's standing on every requirement of
// their grade.
func (svc *service) StudentRequirements(ctx context.Context, studentID string, grade int) ([]Settlement, error) {
	reqs, err := svc.repo.QueryRequirements(ctx, RequirementFilter{Grade: &grade})
	if err != nil {
		return nil, errors.Wrap(err, "querying requirements")
	}
	settlements := make([]Settlement, 0, len(reqs))
	for _, req := range reqs {
		s, err := svc.settle(ctx, req, studentID)
		if err != nil {
			return nil, err
		}
		settlements = append(settlements, s)
	}
	return settlements, nil
}

func (svc *service) settle(ctx context.Context, req Requirement, studentID string) (Settlement, error) {
	contribs, err := svc.repo.QueryContributions(ctx, req.ID, studentID)
	if err != nil {
		return Settlement{}, errors.Wrap(err, "querying contributions")
	}
	exempted, err := svc.repo.IsExempted(ctx, req.ID, studentID)
	if err != nil {
		return Settlement{}, errors.Wrap(err, "checking exemption")
	}
	s := Settle(req, SumContributions(contribs, exempted))
	s.RequirementID = req.ID
	s.StudentID = studentID
	return s, nil
}
