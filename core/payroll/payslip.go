package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComputePayslip derives a payslip from standing pay terms:
// gross = basic + Σallowances, net = gross − Σdeductions.
func ComputePayslip(ss SalaryStructure, period string) Payslip {
	gross := ss.Basic
	for _, a := range ss.Allowances {
		gross = gross.Add(a.Amount)
	}

	totalDeductions := decimal.Zero
	for _, d := range ss.Deductions {
		totalDeductions = totalDeductions.Add(d.Amount)
	}

	return Payslip{
		StaffID:         ss.StaffID,
		Period:          period,
		Basic:           ss.Basic,
		Allowances:      ss.Allowances,
		Deductions:      ss.Deductions,
		Gross:           gross,
		TotalDeductions: totalDeductions,
		Net:             gross.Sub(totalDeductions),
		AdvanceBalance:  decimal.Zero,
		GeneratedAt:     time.Now().UTC(),
	}
}
