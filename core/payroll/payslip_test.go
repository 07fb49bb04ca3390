package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
)

func Test_ComputePayslip(t *testing.T) {
	d := func(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

	tests := []struct {
		name     string
		ss       SalaryStructure
		wantGros int64
		wantDed  int64
		wantNet  int64
	}{
		{
			name:     "basic only",
			ss:       SalaryStructure{StaffID: "s1", Basic: d(50000)},
			wantGros: 50000, wantDed: 0, wantNet: 50000,
		},
		{
			name: "allowances and deductions",
			ss: SalaryStructure{
				StaffID: "s1",
				Basic:   d(50000),
				Allowances: []PayItem{
					{Label: "housing", Amount: d(10000)},
					{Label: "transport", Amount: d(5000)},
				},
				Deductions: []PayItem{
					{Label: "paye", Amount: d(8000)},
					{Label: "pension", Amount: d(2500)},
				},
			},
			wantGros: 65000, wantDed: 10500, wantNet: 54500,
		},
		{
			name: "deductions can exceed gross",
			ss: SalaryStructure{
				StaffID:    "s1",
				Basic:      d(1000),
				Deductions: []PayItem{{Label: "recovery", Amount: d(1500)}},
			},
			wantGros: 1000, wantDed: 1500, wantNet: -500,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slip := ComputePayslip(tt.ss, "2024-07")
			if !slip.Gross.Equal(d(tt.wantGros)) {
				t.Errorf("Gross = %s; want %d", slip.Gross, tt.wantGros)
			}
			if !slip.TotalDeductions.Equal(d(tt.wantDed)) {
				t.Errorf("TotalDeductions = %s; want %d", slip.TotalDeductions, tt.wantDed)
			}
			if !slip.Net.Equal(d(tt.wantNet)) {
				t.Errorf("Net = %s; want %d", slip.Net, tt.wantNet)
			}
			if slip.Period != "2024-07" {
				t.Errorf("Period = %q; want 2024-07", slip.Period)
			}
		})
	}
}
