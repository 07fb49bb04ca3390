package sqlxrepos

import (
	"context"
	"database/sql/driver"
	"encoding/json"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core/payroll"
)

type payrollRepository struct {
	db *sqlx.DB
}

var _ payroll.Repository = (*payrollRepository)(nil)

func NewPayrollRepository(db *sqlx.DB) *payrollRepository {
	return &payrollRepository{db: db}
}

// payItems maps allowance/deduction lines to a JSONB column.
type payItems []payroll.PayItem

func (p payItems) Value() (driver.Value, error) {
	if p == nil {
		p = payItems{}
	}
	return json.Marshal(p)
}

func (p *payItems) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return errors.Errorf("unexpected pay items type %T", src)
	}
	return json.Unmarshal(b, p)
}

func (repo *payrollRepository) SaveSalaryStructure(ctx context.Context, ss payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	q := `
INSERT INTO salary_structure (staff_id, basic, allowances, deductions, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (staff_id) DO UPDATE
    SET basic = EXCLUDED.basic, allowances = EXCLUDED.allowances,
        deductions = EXCLUDED.deductions, updated_at = EXCLUDED.updated_at`
	_, err := repo.db.ExecContext(ctx, q,
		ss.StaffID, ss.Basic, payItems(ss.Allowances), payItems(ss.Deductions), ss.UpdatedAt,
	)
	if err != nil {
		return payroll.SalaryStructure{}, errors.Wrap(err, "saving salary structure")
	}
	return ss, nil
}

func (repo *payrollRepository) GetSalaryStructure(ctx context.Context, staffID string) (payroll.SalaryStructure, error) {
	var (
		ss         payroll.SalaryStructure
		allowances payItems
		deductions payItems
	)
	q := `SELECT staff_id, basic, allowances, deductions, updated_at FROM salary_structure WHERE staff_id = $1`
	err := repo.db.QueryRowxContext(ctx, q, staffID).
		Scan(&ss.StaffID, &ss.Basic, &allowances, &deductions, &ss.UpdatedAt)
	if err != nil {
		return payroll.SalaryStructure{}, trapNoRowsErr(err, payroll.ErrStructureNotFound)
	}
	ss.Allowances = allowances
	ss.Deductions = deductions
	return ss, nil
}
