// Package report computes read-only projections over ledger records for the
// dashboards. Everything here is recomputed per read; the ledgers remain the
// single source of truth.
package report

import (
	"sort"

	"github.com/anshumat/payroll-management/internal/expense"
	"github.com/anshumat/payroll-management/internal/payroll"
)

// NetSalary derives the take-home amount of a slip. Not clamped: deductions
// exceeding base plus bonus yield a negative net.
func NetSalary(slip *payroll.SalarySlip) float64 {
	return slip.BaseSalary + slip.Bonus - slip.Deductions
}

// MonthTotal aggregates all slips of one month.
type MonthTotal struct {
	Month      string  `json:"month"`
	Base       float64 `json:"base"`
	Bonus      float64 `json:"bonus"`
	Deductions float64 `json:"deductions"`
	Net        float64 `json:"net"`
	Count      int     `json:"count"`
}

// MonthlyTotals groups slips by month and sums each component. Months come
// back in ascending order so trend charts read left to right.
func MonthlyTotals(slips []*payroll.SalarySlip) []MonthTotal {
	byMonth := make(map[string]*MonthTotal)
	for _, slip := range slips {
		entry, ok := byMonth[slip.Month]
		if !ok {
			entry = &MonthTotal{Month: slip.Month}
			byMonth[slip.Month] = entry
		}
		entry.Base += slip.BaseSalary
		entry.Bonus += slip.Bonus
		entry.Deductions += slip.Deductions
		entry.Net += NetSalary(slip)
		entry.Count++
	}

	months := make([]string, 0, len(byMonth))
	for month := range byMonth {
		months = append(months, month)
	}
	sort.Strings(months)

	totals := make([]MonthTotal, 0, len(months))
	for _, month := range months {
		totals = append(totals, *byMonth[month])
	}
	return totals
}

// StatusTotals sums expense amounts per status bucket.
type StatusTotals struct {
	Submitted float64 `json:"submitted"`
	Approved  float64 `json:"approved"`
	Rejected  float64 `json:"rejected"`
}

// SumByStatus buckets expense amounts by status. Records carrying a status
// outside the known set are skipped, matching how the dashboard has always
// treated them.
func SumByStatus(expenses []*expense.Expense) StatusTotals {
	var totals StatusTotals
	for _, exp := range expenses {
		switch exp.Status {
		case expense.StatusSubmitted:
			totals.Submitted += exp.Amount
		case expense.StatusApproved:
			totals.Approved += exp.Amount
		case expense.StatusRejected:
			totals.Rejected += exp.Amount
		}
	}
	return totals
}
