package payroll

import (
	"regexp"
	"time"

	"github.com/anshumat/payroll-management/internal"
	"github.com/anshumat/payroll-management/internal/identity"
)

// SalarySlip is one employee's payroll record for a single calendar month.
// At most one slip exists per (employee, month) pair.
type SalarySlip struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	UserID     int64     `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_salary_slips_user_month"`
	Month      string    `json:"month" gorm:"not null;uniqueIndex:idx_salary_slips_user_month"`
	BaseSalary float64   `json:"base_salary" gorm:"column:base_salary;not null"`
	Bonus      float64   `json:"bonus" gorm:"default:0"`
	Deductions float64   `json:"deductions" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at" gorm:"column:created_at"`
}

func (SalarySlip) TableName() string {
	return "salary_slips"
}

// Net is the derived take-home amount. Never persisted, may be negative.
func (s *SalarySlip) Net() float64 {
	return s.BaseSalary + s.Bonus - s.Deductions
}

// SlipWithEmployee joins a slip with the owning employee's public projection
// for the admin overview.
type SlipWithEmployee struct {
	SalarySlip
	Employee identity.Projection `json:"user"`
}

// monthPattern accepts year-month tokens like "2025-01".
var monthPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

func ValidMonth(month string) bool {
	return monthPattern.MatchString(month)
}

var (
	ErrSlipNotFound  = internal.NewNotFoundError("salary slip not found", internal.ErrCodeSlipNotFound)
	ErrDuplicateSlip = internal.NewConflictError("salary slip already exists for this employee and month", internal.ErrCodeDuplicateSlip)
	ErrInvalidMonth  = internal.NewValidationError("month must be in YYYY-MM format", internal.ErrCodeInvalidMonth)
	ErrNegativeBase  = internal.NewValidationError("base salary cannot be negative", internal.ErrCodeInvalidSalary)
	ErrNotAnEmployee = internal.NewValidationError("salary slips can only be issued to employees", internal.ErrCodeNotAnEmployee)
)
