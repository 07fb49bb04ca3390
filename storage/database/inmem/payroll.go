package inmemdb

import (
	"context"

	"github.com/shuletech/shule/core/payroll"
)

type payrollRepository struct {
	db *payrollTable
}

var _ payroll.Repository = (*payrollRepository)(nil)

func NewPayrollRepository(db *DB) *payrollRepository {
	return &payrollRepository{db: db.payroll}
}

func (repo *payrollRepository) SaveSalaryStructure(ctx context.Context, ss payroll.SalaryStructure) (payroll.SalaryStructure, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.structures[ss.StaffID] = &ss
	return ss, nil
}

func (repo *payrollRepository) GetSalaryStructure(ctx context.Context, staffID string) (payroll.SalaryStructure, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if ss, ok := repo.db.structures[staffID]; ok {
		return *ss, nil
	}
	return payroll.SalaryStructure{}, payroll.ErrStructureNotFound
}
