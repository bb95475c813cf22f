package expense

import (
	"time"

	"github.com/anshumat/payroll-management/internal"
)

// Status is the closed lifecycle of a reimbursable expense. Records enter as
// submitted; the only transitions are submitted → approved and
// submitted → rejected, and the terminal states are immutable.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// ParseDecision accepts only the two terminal statuses an admin may apply.
func ParseDecision(s string) (Status, error) {
	switch Status(s) {
	case StatusApproved:
		return StatusApproved, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", ErrInvalidDecision
	}
}

type Expense struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	UserID      int64     `json:"user_id" gorm:"column:user_id;not null"`
	Amount      float64   `json:"amount" gorm:"not null"`
	Description string    `json:"description"`
	Status      Status    `json:"status" gorm:"default:submitted"`
	CreatedAt   time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Expense) TableName() string {
	return "expenses"
}

func (e *Expense) CanBeDecided() bool {
	return e.Status == StatusSubmitted
}

// ExpenseWithEmail attaches the submitting employee's email for the admin
// approval queue.
type ExpenseWithEmail struct {
	Expense
	UserEmail string `json:"user_email"`
}

var (
	ErrExpenseNotFound = internal.NewNotFoundError("expense not found", internal.ErrCodeExpenseNotFound)
	ErrInvalidAmount   = internal.NewValidationError("amount must be greater than 0", internal.ErrCodeInvalidAmount)
	ErrInvalidDecision = internal.NewValidationError("status must be either 'approved' or 'rejected'", internal.ErrCodeInvalidStatus)
	ErrAlreadyDecided  = internal.NewInvalidStateError("expense has already been decided", internal.ErrCodeExpenseDecided)
)
