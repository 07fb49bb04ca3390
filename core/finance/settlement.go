package finance

import "github.com/shopspring/decimal"

// SettlementStatus classifies how far a student's obligation on a
// requirement has been met.
type SettlementStatus string

const (
	StatusPending          SettlementStatus = "pending"
	StatusPartiallySettled SettlementStatus = "partially_settled"
	StatusSettledMonetary  SettlementStatus = "fully_settled_monetary"
	StatusSettledPhysical  SettlementStatus = "fully_settled_physical"
	StatusSettledMixed     SettlementStatus = "fully_settled_mixed"
	StatusExempted         SettlementStatus = "exempted"
)

// ContributionTotals is a student's cumulative standing on one requirement.
type ContributionTotals struct {
	AmountPaid       decimal.Decimal
	QuantityProvided int
	Exempted         bool
}

// Settlement is the derived state of a requirement obligation. It is never
// stored; it is recomputed from the requirement terms and the cumulative
// contributions every time it is read.
type Settlement struct {
	RequirementID    string           `json:"requirement_id,omitempty"`
	StudentID        string           `json:"student_id,omitempty"`
	TotalExpected    decimal.Decimal  `json:"total_expected_amount"`
	AmountPaid       decimal.Decimal  `json:"amount_paid"`
	QuantityProvided int              `json:"quantity_provided"`
	NetBalanceDue    decimal.Decimal  `json:"net_monetary_balance_due"`
	Status           SettlementStatus `json:"status"`
}

// Settle derives the settlement state of a requirement given the cumulative
// monetary and physical contributions.
//
// netBalanceDue = totalExpected − amountPaid − quantityProvided*unitPrice,
// floored at zero once the combined coverage exceeds the billed amount.
//
// Status decision table:
//   - exempted flag set                                  -> Exempted
//   - paid >= total and nothing provided physically      -> FullySettledMonetary
//   - provided >= needed and nothing paid                -> FullySettledPhysical
//   - combined coverage reaches total otherwise          -> FullySettledMixed
//   - any partial contribution                           -> PartiallySettled
//   - none                                               -> Pending
func Settle(req Requirement, totals ContributionTotals) Settlement {
	total := req.TotalExpected()
	s := Settlement{
		TotalExpected:    total,
		AmountPaid:       totals.AmountPaid,
		QuantityProvided: totals.QuantityProvided,
		NetBalanceDue:    decimal.Zero,
	}

	if totals.Exempted {
		s.Status = StatusExempted
		return s
	}

	physical := req.UnitPrice.Mul(decimal.NewFromInt(int64(totals.QuantityProvided)))
	due := total.Sub(totals.AmountPaid).Sub(physical)
	if due.IsNegative() {
		due = decimal.Zero
	}
	s.NetBalanceDue = due

	paidInFull := totals.AmountPaid.GreaterThanOrEqual(total)
	providedInFull := totals.QuantityProvided >= req.QuantityNeeded

	switch {
	case paidInFull && totals.QuantityProvided == 0:
		s.Status = StatusSettledMonetary
	case providedInFull && totals.AmountPaid.IsZero():
		s.Status = StatusSettledPhysical
	case due.IsZero():
		s.Status = StatusSettledMixed
	case totals.AmountPaid.IsPositive() || totals.QuantityProvided > 0:
		s.Status = StatusPartiallySettled
	default:
		s.Status = StatusPending
	}
	return s
}

// SumContributions folds individual contribution records into totals.
func SumContributions(contribs []Contribution, exempted bool) ContributionTotals {
	totals := ContributionTotals{AmountPaid: decimal.Zero, Exempted: exempted}
	for _, c := range contribs {
		totals.AmountPaid = totals.AmountPaid.Add(c.Amount)
		totals.QuantityProvided += c.Quantity
	}
	return totals
}
