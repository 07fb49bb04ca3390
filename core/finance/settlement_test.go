package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func Test_Settle(t *testing.T) {
	req := Requirement{
		ID:             "req1",
		Name:           "Exercise Books",
		UnitPrice:      decimal.NewFromInt(1000),
		QuantityNeeded: 3,
		IsCompulsory:   true,
	}

	d := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	tests := []struct {
		name       string
		totals     ContributionTotals
		wantDue    decimal.Decimal
		wantStatus SettlementStatus
	}{
		{
			name:       "nothing contributed",
			totals:     ContributionTotals{AmountPaid: decimal.Zero},
			wantDue:    d(3000),
			wantStatus: StatusPending,
		},
		{
			// unitPrice=1000, quantityNeeded=3 -> totalExpected=3000;
			// paid 1000, provided 1 -> due = 3000-1000-1000 = 1000
			name:       "partial mixed contribution",
			totals:     ContributionTotals{AmountPaid: d(1000), QuantityProvided: 1},
			wantDue:    d(1000),
			wantStatus: StatusPartiallySettled,
		},
		{
			name:       "paid in full, nothing provided",
			totals:     ContributionTotals{AmountPaid: d(3000)},
			wantDue:    d(0),
			wantStatus: StatusSettledMonetary,
		},
		{
			name:       "overpaid floors at zero",
			totals:     ContributionTotals{AmountPaid: d(3500)},
			wantDue:    d(0),
			wantStatus: StatusSettledMonetary,
		},
		{
			name:       "provided in full, nothing paid",
			totals:     ContributionTotals{AmountPaid: decimal.Zero, QuantityProvided: 3},
			wantDue:    d(0),
			wantStatus: StatusSettledPhysical,
		},
		{
			name:       "over-provided floors at zero",
			totals:     ContributionTotals{AmountPaid: decimal.Zero, QuantityProvided: 5},
			wantDue:    d(0),
			wantStatus: StatusSettledPhysical,
		},
		{
			name:       "combined covers but neither alone does",
			totals:     ContributionTotals{AmountPaid: d(2000), QuantityProvided: 1},
			wantDue:    d(0),
			wantStatus: StatusSettledMixed,
		},
		{
			name:       "paid in full plus physical counts as mixed",
			totals:     ContributionTotals{AmountPaid: d(3000), QuantityProvided: 1},
			wantDue:    d(0),
			wantStatus: StatusSettledMixed,
		},
		{
			name:       "money only, below target",
			totals:     ContributionTotals{AmountPaid: d(500)},
			wantDue:    d(2500),
			wantStatus: StatusPartiallySettled,
		},
		{
			name:       "physical only, below target",
			totals:     ContributionTotals{AmountPaid: decimal.Zero, QuantityProvided: 2},
			wantDue:    d(1000),
			wantStatus: StatusPartiallySettled,
		},
		{
			name:       "exempted wins over everything",
			totals:     ContributionTotals{AmountPaid: d(500), Exempted: true},
			wantDue:    d(0),
			wantStatus: StatusExempted,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Settle(req, tt.totals)
			if !s.NetBalanceDue.Equal(tt.wantDue) {
				t.Errorf("NetBalanceDue = %s; want %s", s.NetBalanceDue, tt.wantDue)
			}
			if s.Status != tt.wantStatus {
				t.Errorf("Status = %q; want %q", s.Status, tt.wantStatus)
			}
			if !s.TotalExpected.Equal(decimal.NewFromInt(3000)) {
				t.Errorf("TotalExpected = %s; want 3000", s.TotalExpected)
			}
		})
	}
}

func Test_SumContributions(t *testing.T) {
	contribs := []Contribution{
		{Amount: decimal.NewFromInt(200), Quantity: 0},
		{Amount: decimal.NewFromInt(300), Quantity: 1},
		{Amount: decimal.Zero, Quantity: 2},
	}
	totals := SumContributions(contribs, false)
	if !totals.AmountPaid.Equal(decimal.NewFromInt(500)) {
		t.Errorf("AmountPaid = %s; want 500", totals.AmountPaid)
	}
	if totals.QuantityProvided != 3 {
		t.Errorf("QuantityProvided = %d; want 3", totals.QuantityProvided)
	}
}
