package payroll

import (
	"log/slog"

	"github.com/anshumat/payroll-management/internal"
	"github.com/anshumat/payroll-management/internal/identity"
)

// RepositoryAPI defines the data access methods for salary slips.
type RepositoryAPI interface {
	Create(slip *SalarySlip) error
	GetByID(id int64) (*SalarySlip, error)
	GetByUserAndMonth(userID int64, month string) (*SalarySlip, error)
	GetByUserID(userID int64) ([]*SalarySlip, error)
	GetAll() ([]*SalarySlip, error)
	GetAllWithEmployee() ([]*SlipWithEmployee, error)
	Update(slip *SalarySlip) error
}

// UserDirectory resolves slip targets against the identity store.
type UserDirectory interface {
	GetByID(id int64) (*identity.User, error)
}

type Service struct {
	repo   RepositoryAPI
	users  UserDirectory
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		users:  users,
		logger: logger,
	}
}

// CreateSlip issues a new slip for an employee. Route-level policy restricts
// this to admins; the uniqueness invariant on (employee, month) is enforced
// here and backed by the database index.
func (s *Service) CreateSlip(dto CreateSlipDTO) (*SalarySlip, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("slip validation failed", "error", err, "user_id", dto.UserID, "month", dto.Month)
		return nil, err
	}

	target, err := s.users.GetByID(dto.UserID)
	if err != nil {
		s.logger.Warn("slip target not found", "user_id", dto.UserID)
		return nil, identity.ErrUserNotFound
	}

	if target.Role != identity.RoleEmployee {
		s.logger.Warn("slip target is not an employee", "user_id", dto.UserID, "role", target.Role)
		return nil, ErrNotAnEmployee
	}

	if existing, err := s.repo.GetByUserAndMonth(dto.UserID, dto.Month); err == nil && existing != nil {
		s.logger.Warn("duplicate slip rejected", "user_id", dto.UserID, "month", dto.Month)
		return nil, ErrDuplicateSlip
	}

	slip := &SalarySlip{
		UserID:     dto.UserID,
		Month:      dto.Month,
		BaseSalary: dto.BaseSalary,
		Bonus:      dto.Bonus,
		Deductions: dto.Deductions,
	}

	if err := s.repo.Create(slip); err != nil {
		s.logger.Error("failed to create salary slip", "error", err, "user_id", dto.UserID, "month", dto.Month)
		return nil, internal.NewInternalError("failed to create salary slip", err)
	}

	s.logger.Info("salary slip created",
		"slip_id", slip.ID,
		"user_id", slip.UserID,
		"month", slip.Month,
		"net", slip.Net())

	return slip, nil
}

// UpdateSlip merges a partial update into an existing slip. Moving the slip
// to another month must not collide with that employee's existing slip.
func (s *Service) UpdateSlip(slipID int64, dto UpdateSlipDTO) (*SalarySlip, error) {
	slip, err := s.repo.GetByID(slipID)
	if err != nil {
		return nil, ErrSlipNotFound
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("slip update validation failed", "error", err, "slip_id", slipID)
		return nil, err
	}

	if dto.Month != nil && *dto.Month != slip.Month {
		if existing, err := s.repo.GetByUserAndMonth(slip.UserID, *dto.Month); err == nil && existing != nil && existing.ID != slip.ID {
			s.logger.Warn("slip month change collides with existing slip",
				"slip_id", slipID,
				"month", *dto.Month,
				"existing_slip_id", existing.ID)
			return nil, ErrDuplicateSlip
		}
		slip.Month = *dto.Month
	}

	if dto.BaseSalary != nil {
		slip.BaseSalary = *dto.BaseSalary
	}
	if dto.Bonus != nil {
		slip.Bonus = *dto.Bonus
	}
	if dto.Deductions != nil {
		slip.Deductions = *dto.Deductions
	}

	if err := s.repo.Update(slip); err != nil {
		s.logger.Error("failed to update salary slip", "error", err, "slip_id", slipID)
		return nil, internal.NewInternalError("failed to update salary slip", err)
	}

	s.logger.Info("salary slip updated", "slip_id", slip.ID, "month", slip.Month, "net", slip.Net())

	return slip, nil
}

// ListSlips returns the slips visible to the caller: admins see every slip,
// employees only their own.
func (s *Service) ListSlips(caller *identity.User) ([]*SalarySlip, error) {
	var (
		slips []*SalarySlip
		err   error
	)

	if caller.IsAdmin() {
		slips, err = s.repo.GetAll()
	} else {
		slips, err = s.repo.GetByUserID(caller.ID)
	}

	if err != nil {
		s.logger.Error("failed to list salary slips", "error", err, "caller_id", caller.ID)
		return nil, internal.NewInternalError("failed to list salary slips", err)
	}

	return slips, nil
}

// ListAllWithEmployee returns every slip joined with its employee projection.
func (s *Service) ListAllWithEmployee() ([]*SlipWithEmployee, error) {
	slips, err := s.repo.GetAllWithEmployee()
	if err != nil {
		s.logger.Error("failed to list salary slips with employees", "error", err)
		return nil, internal.NewInternalError("failed to list salary slips", err)
	}
	return slips, nil
}
