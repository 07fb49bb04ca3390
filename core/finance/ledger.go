package finance

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BuildStatement folds an account's transactions into running balances.
//
// Transactions are stable-sorted ascending by date before folding: debits
// increase the balance due, credits decrease it. Entries sharing a timestamp
// keep the input list's relative order; beyond that the tie-break is
// unspecified (inherited from the paper records this models). The returned
// lines are in descending date order for display, newest first.
func BuildStatement(txs []Transaction) []StatementLine {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	lines := make([]StatementLine, 0, len(sorted))
	balance := decimal.Zero
	for _, tx := range sorted {
		switch tx.Kind {
		case Debit:
			balance = balance.Add(tx.Amount)
		case Credit:
			balance = balance.Sub(tx.Amount)
		}
		lines = append(lines, StatementLine{Transaction: tx, Balance: balance})
	}

	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
	return lines
}

// ClosingBalance is the final running balance: Σdebits − Σcredits.
// Input order is irrelevant.
func ClosingBalance(txs []Transaction) decimal.Decimal {
	balance := decimal.Zero
	for _, tx := range txs {
		switch tx.Kind {
		case Debit:
			balance = balance.Add(tx.Amount)
		case Credit:
			balance = balance.Sub(tx.Amount)
		}
	}
	return balance
}
