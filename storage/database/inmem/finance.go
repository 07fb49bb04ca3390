package inmemdb

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core/finance"
)

type financeRepository struct {
	db *financeTable
}

var _ finance.Repository = (*financeRepository)(nil)

func NewFinanceRepository(db *DB) *financeRepository {
	return &financeRepository{db: db.finance}
}

func exemptionKey(requirementID, studentID string) string {
	return requirementID + "/" + studentID
}

func (repo *financeRepository) CreateTransaction(ctx context.Context, tx finance.Transaction) (finance.Transaction, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.transactions = append(repo.db.transactions, tx)
	return tx, nil
}

func (repo *financeRepository) GetTransaction(ctx context.Context, id string) (finance.Transaction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	for _, tx := range repo.db.transactions {
		if tx.ID == id {
			return tx, nil
		}
	}
	return finance.Transaction{}, finance.ErrTransactionNotFound
}

func (repo *financeRepository) QueryAccountTransactions(ctx context.Context, accountID string) ([]finance.Transaction, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	txs := make([]finance.Transaction, 0)
	for _, tx := range repo.db.transactions {
		if tx.AccountID == accountID {
			txs = append(txs, tx)
		}
	}
	// stable: equal CreatedAt keeps insertion order, like the statement fold
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].CreatedAt.Before(txs[j].CreatedAt) })
	return txs, nil
}

func (repo *financeRepository) DeleteTransaction(ctx context.Context, id string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for i, tx := range repo.db.transactions {
		if tx.ID == id {
			repo.db.transactions = append(repo.db.transactions[:i], repo.db.transactions[i+1:]...)
			break
		}
	}
	return nil
}

func (repo *financeRepository) SumPayments(ctx context.Context) (decimal.Decimal, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sum := decimal.Zero
	for _, tx := range repo.db.transactions {
		if tx.Kind == finance.Credit {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (repo *financeRepository) CreateRequirement(ctx context.Context, req finance.Requirement) (finance.Requirement, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.requirements[req.ID] = &req
	return req, nil
}

func (repo *financeRepository) GetRequirement(ctx context.Context, id string) (finance.Requirement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if req, ok := repo.db.requirements[id]; ok {
		return *req, nil
	}
	return finance.Requirement{}, finance.ErrRequirementNotFound
}

func (repo *financeRepository) QueryRequirements(ctx context.Context, filter finance.RequirementFilter) ([]finance.Requirement, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	reqs := make([]finance.Requirement, 0)
	for _, req := range repo.db.requirements {
		if filter.Grade != nil && req.Grade != *filter.Grade {
			continue
		}
		if filter.IsCompulsory != nil && req.IsCompulsory != *filter.IsCompulsory {
			continue
		}
		reqs = append(reqs, *req)
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs, nil
}

func (repo *financeRepository) CreateContribution(ctx context.Context, c finance.Contribution) (finance.Contribution, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.contributions[c.ID] = &c
	return c, nil
}

func (repo *financeRepository) QueryContributions(ctx context.Context, requirementID, studentID string) ([]finance.Contribution, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	contribs := make([]finance.Contribution, 0)
	for _, c := range repo.db.contributions {
		if c.RequirementID == requirementID && c.StudentID == studentID {
			contribs = append(contribs, *c)
		}
	}
	sort.Slice(contribs, func(i, j int) bool { return contribs[i].Date.Before(contribs[j].Date) })
	return contribs, nil
}

func (repo *financeRepository) SetExemption(ctx context.Context, requirementID, studentID string, exempted bool) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	key := exemptionKey(requirementID, studentID)
	if exempted {
		repo.db.exemptions[key] = true
	} else {
		delete(repo.db.exemptions, key)
	}
	return nil
}

func (repo *financeRepository) IsExempted(ctx context.Context, requirementID, studentID string) (bool, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return repo.db.exemptions[exemptionKey(requirementID, studentID)], nil
}
