package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func tx(kind EntryKind, amount int64, date time.Time, desc string) Transaction {
	return Transaction{
		ID:          desc,
		AccountID:   "acc1",
		Kind:        kind,
		Amount:      decimal.NewFromInt(amount),
		Date:        date,
		Description: desc,
	}
}

func Test_BuildStatement(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.March, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name         string
		txs          []Transaction
		wantBalances []int64 // newest first, matching the returned order
		wantOrder    []string
	}{
		{name: "empty ledger", txs: nil, wantBalances: []int64{}, wantOrder: []string{}},
		{
			name: "single debit",
			txs:  []Transaction{tx(Debit, 500, day(1), "term fees")},
			wantBalances: []int64{500}, wantOrder: []string{"term fees"},
		},
		{
			name: "debits and credits fold in date order",
			txs: []Transaction{
				tx(Credit, 300, day(10), "payment"),
				tx(Debit, 1000, day(1), "term fees"),
				tx(Debit, 200, day(5), "exam levy"),
			},
			// chronological: 1000, 1200, 900 -> displayed newest first
			wantBalances: []int64{900, 1200, 1000},
			wantOrder:    []string{"payment", "exam levy", "term fees"},
		},
		{
			name: "equal timestamps keep input order",
			txs: []Transaction{
				tx(Debit, 100, day(2), "first"),
				tx(Debit, 50, day(2), "second"),
				tx(Credit, 30, day(2), "third"),
			},
			// stable: 100, 150, 120 -> reversed for display
			wantBalances: []int64{120, 150, 100},
			wantOrder:    []string{"third", "second", "first"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := BuildStatement(tt.txs)
			if len(lines) != len(tt.wantBalances) {
				t.Fatalf("len(lines) = %d; want %d", len(lines), len(tt.wantBalances))
			}
			for i, line := range lines {
				if want := decimal.NewFromInt(tt.wantBalances[i]); !line.Balance.Equal(want) {
					t.Errorf("lines[%d].Balance = %s; want %s", i, line.Balance, want)
				}
				if line.Description != tt.wantOrder[i] {
					t.Errorf("lines[%d].Description = %q; want %q", i, line.Description, tt.wantOrder[i])
				}
			}
		})
	}
}

// The closing balance must equal Σdebits − Σcredits no matter how the input
// list is shuffled.
func Test_ClosingBalance_orderIndependent(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC) }
	txs := []Transaction{
		tx(Debit, 1000, day(3), "a"),
		tx(Credit, 250, day(1), "b"),
		tx(Debit, 75, day(9), "c"),
		tx(Credit, 300, day(2), "d"),
	}
	want := decimal.NewFromInt(1000 + 75 - 250 - 300)

	permutations := [][]int{{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2}}
	for _, perm := range permutations {
		shuffled := make([]Transaction, 0, len(txs))
		for _, i := range perm {
			shuffled = append(shuffled, txs[i])
		}
		if got := ClosingBalance(shuffled); !got.Equal(want) {
			t.Errorf("ClosingBalance(%v) = %s; want %s", perm, got, want)
		}

		// BuildStatement's own sort must land on the same closing balance,
		// carried by the newest line.
		lines := BuildStatement(shuffled)
		if got := lines[0].Balance; !got.Equal(want) {
			t.Errorf("BuildStatement(%v) closing = %s; want %s", perm, got, want)
		}
	}
}
