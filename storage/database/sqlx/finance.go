package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core/finance"
)

const (
	transactionColumns  = `id, account_id, kind, amount, date, description, created_at`
	requirementColumns  = `id, name, grade, unit_price, quantity_needed, is_compulsory, created_at`
	contributionColumns = `id, requirement_id, student_id, amount, quantity, date, created_at`
)

type financeRepository struct {
	db *sqlx.DB
}

var _ finance.Repository = (*financeRepository)(nil)

func NewFinanceRepository(db *sqlx.DB) *financeRepository {
	return &financeRepository{db: db}
}

func (repo *financeRepository) CreateTransaction(ctx context.Context, tx finance.Transaction) (finance.Transaction, error) {
	q := `
INSERT INTO ledger_transaction (` + transactionColumns + `)
VALUES (:id, :account_id, :kind, :amount, :date, :description, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, tx); err != nil {
		return finance.Transaction{}, errors.Wrap(err, "inserting transaction")
	}
	return tx, nil
}

func (repo *financeRepository) GetTransaction(ctx context.Context, id string) (finance.Transaction, error) {
	var tx finance.Transaction
	q := `SELECT ` + transactionColumns + ` FROM ledger_transaction WHERE id = $1`
	if err := repo.db.GetContext(ctx, &tx, q, id); err != nil {
		return finance.Transaction{}, trapNoRowsErr(err, finance.ErrTransactionNotFound)
	}
	return tx, nil
}

func (repo *financeRepository) QueryAccountTransactions(ctx context.Context, accountID string) ([]finance.Transaction, error) {
	var txs []finance.Transaction
	q := `SELECT ` + transactionColumns + ` FROM ledger_transaction WHERE account_id = $1 ORDER BY date ASC, created_at ASC`
	if err := repo.db.SelectContext(ctx, &txs, q, accountID); err != nil {
		return nil, errors.Wrap(err, "selecting transactions")
	}
	return txs, nil
}

func (repo *financeRepository) DeleteTransaction(ctx context.Context, id string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM ledger_transaction WHERE id = $1`, id)
	return errors.Wrap(err, "deleting transaction")
}

func (repo *financeRepository) SumPayments(ctx context.Context) (decimal.Decimal, error) {
	var sum decimal.Decimal
	q := `SELECT COALESCE(SUM(amount), 0) FROM ledger_transaction WHERE kind = $1`
	if err := repo.db.GetContext(ctx, &sum, q, finance.Credit); err != nil {
		return decimal.Zero, errors.Wrap(err, "summing payments")
	}
	return sum, nil
}

func (repo *financeRepository) CreateRequirement(ctx context.Context, req finance.Requirement) (finance.Requirement, error) {
	q := `
INSERT INTO requirement (` + requirementColumns + `)
VALUES (:id, :name, :grade, :unit_price, :quantity_needed, :is_compulsory, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, req); err != nil {
		return finance.Requirement{}, errors.Wrap(err, "inserting requirement")
	}
	return req, nil
}

func (repo *financeRepository) GetRequirement(ctx context.Context, id string) (finance.Requirement, error) {
	var req finance.Requirement
	q := `SELECT ` + requirementColumns + ` FROM requirement WHERE id = $1`
	if err := repo.db.GetContext(ctx, &req, q, id); err != nil {
		return finance.Requirement{}, trapNoRowsErr(err, finance.ErrRequirementNotFound)
	}
	return req, nil
}

func (repo *financeRepository) QueryRequirements(ctx context.Context, filter finance.RequirementFilter) ([]finance.Requirement, error) {
	var where whereBuilder
	if filter.Grade != nil {
		where.add("grade = ?", *filter.Grade)
	}
	if filter.IsCompulsory != nil {
		where.add("is_compulsory = ?", *filter.IsCompulsory)
	}

	q := `SELECT ` + requirementColumns + ` FROM requirement` + where.clause() + ` ORDER BY created_at DESC`
	var reqs []finance.Requirement
	if err := repo.db.SelectContext(ctx, &reqs, q, where.args...); err != nil {
		return nil, errors.Wrap(err, "selecting requirements")
	}
	return reqs, nil
}

func (repo *financeRepository) CreateContribution(ctx context.Context, c finance.Contribution) (finance.Contribution, error) {
	q := `
INSERT INTO requirement_contribution (` + contributionColumns + `)
VALUES (:id, :requirement_id, :student_id, :amount, :quantity, :date, :created_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, c); err != nil {
		return finance.Contribution{}, errors.Wrap(err, "inserting contribution")
	}
	return c, nil
}

func (repo *financeRepository) QueryContributions(ctx context.Context, requirementID, studentID string) ([]finance.Contribution, error) {
	var contribs []finance.Contribution
	q := `
SELECT ` + contributionColumns + ` FROM requirement_contribution
WHERE requirement_id = $1 AND student_id = $2 ORDER BY date ASC`
	if err := repo.db.SelectContext(ctx, &contribs, q, requirementID, studentID); err != nil {
		return nil, errors.Wrap(err, "selecting contributions")
	}
	return contribs, nil
}

func (repo *financeRepository) SetExemption(ctx context.Context, requirementID, studentID string, exempted bool) error {
	var err error
	if exempted {
		q := `
INSERT INTO requirement_exemption (requirement_id, student_id)
VALUES ($1, $2) ON CONFLICT DO NOTHING`
		_, err = repo.db.ExecContext(ctx, q, requirementID, studentID)
	} else {
		q := `DELETE FROM requirement_exemption WHERE requirement_id = $1 AND student_id = $2`
		_, err = repo.db.ExecContext(ctx, q, requirementID, studentID)
	}
	return errors.Wrap(err, "setting exemption")
}

func (repo *financeRepository) IsExempted(ctx context.Context, requirementID, studentID string) (bool, error) {
	var exempted bool
	q := `SELECT EXISTS (SELECT 1 FROM requirement_exemption WHERE requirement_id = $1 AND student_id = $2)`
	if err := repo.db.GetContext(ctx, &exempted, q, requirementID, studentID); err != nil {
		return false, errors.Wrap(err, "checking exemption")
	}
	return exempted, nil
}
