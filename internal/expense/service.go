package expense

import (
	"log/slog"

	"github.com/anshumat/payroll-management/internal"
	"github.com/anshumat/payroll-management/internal/identity"
)

// RepositoryAPI defines the data access methods for expenses.
type RepositoryAPI interface {
	Create(exp *Expense) error
	GetByID(id int64) (*Expense, error)
	GetByUserID(userID int64) ([]*Expense, error)
	GetAll() ([]*Expense, error)
	GetAllWithEmail() ([]*ExpenseWithEmail, error)
	// UpdateStatusIfSubmitted applies the decision only while the record is
	// still submitted and reports how many rows changed.
	UpdateStatusIfSubmitted(id int64, status Status) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Submit creates a new expense owned by the caller in the submitted state.
func (s *Service) Submit(caller *identity.User, dto SubmitExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "user_id", caller.ID)
		return nil, err
	}

	exp := &Expense{
		UserID:      caller.ID,
		Amount:      dto.Amount,
		Description: dto.Description,
		Status:      StatusSubmitted,
	}

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "user_id", caller.ID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.logger.Info("expense submitted",
		"expense_id", exp.ID,
		"user_id", caller.ID,
		"amount", exp.Amount)

	return exp, nil
}

// ListOwn returns only the caller's expenses.
func (s *Service) ListOwn(caller *identity.User) ([]*Expense, error) {
	expenses, err := s.repo.GetByUserID(caller.ID)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err, "user_id", caller.ID)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return expenses, nil
}

// ListForCaller scopes the result to the caller: admins see the whole ledger,
// employees their own records. Used by the reporting views.
func (s *Service) ListForCaller(caller *identity.User) ([]*Expense, error) {
	if caller.IsAdmin() {
		expenses, err := s.repo.GetAll()
		if err != nil {
			s.logger.Error("failed to list all expenses", "error", err)
			return nil, internal.NewInternalError("failed to list expenses", err)
		}
		return expenses, nil
	}
	return s.ListOwn(caller)
}

// ListAllWithEmail returns every expense with the submitter's email attached.
func (s *Service) ListAllWithEmail() ([]*ExpenseWithEmail, error) {
	expenses, err := s.repo.GetAllWithEmail()
	if err != nil {
		s.logger.Error("failed to list expenses with emails", "error", err)
		return nil, internal.NewInternalError("failed to list expenses", err)
	}
	return expenses, nil
}

// Decide applies an approve/reject decision to a submitted expense. The
// repository guards the update with the submitted precondition, so of two
// concurrent decisions the first wins and the second observes the record as
// already decided.
func (s *Service) Decide(expenseID int64, rawStatus string) (*Expense, error) {
	decision, err := ParseDecision(rawStatus)
	if err != nil {
		s.logger.Warn("invalid expense decision", "expense_id", expenseID, "status", rawStatus)
		return nil, err
	}

	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		s.logger.Error("expense not found for decision", "error", err, "expense_id", expenseID)
		return nil, ErrExpenseNotFound
	}

	if !exp.CanBeDecided() {
		s.logger.Warn("expense already decided",
			"expense_id", expenseID,
			"current_status", exp.Status)
		return nil, ErrAlreadyDecided
	}

	rows, err := s.repo.UpdateStatusIfSubmitted(expenseID, decision)
	if err != nil {
		s.logger.Error("failed to update expense status", "error", err, "expense_id", expenseID)
		return nil, internal.NewInternalError("failed to update expense status", err)
	}
	if rows == 0 {
		// lost the race against a concurrent decision
		s.logger.Warn("expense decided concurrently", "expense_id", expenseID)
		return nil, ErrAlreadyDecided
	}

	exp.Status = decision

	s.logger.Info("expense decided",
		"expense_id", expenseID,
		"status", decision,
		"amount", exp.Amount)

	return exp, nil
}
