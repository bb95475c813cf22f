package postgres

import (
	"github.com/anshumat/payroll-management/internal/identity"
	"github.com/anshumat/payroll-management/internal/payroll"
	"gorm.io/gorm"
)

// SlipRepository implements the payroll.RepositoryAPI interface using GORM
type SlipRepository struct {
	db *gorm.DB
}

func NewSlipRepository(db *gorm.DB) payroll.RepositoryAPI {
	return &SlipRepository{db: db}
}

func (r *SlipRepository) Create(slip *payroll.SalarySlip) error {
	return r.db.Create(slip).Error
}

func (r *SlipRepository) GetByID(id int64) (*payroll.SalarySlip, error) {
	var slip payroll.SalarySlip
	err := r.db.Where("id = ?", id).First(&slip).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payroll.ErrSlipNotFound
		}
		return nil, err
	}
	return &slip, nil
}

func (r *SlipRepository) GetByUserAndMonth(userID int64, month string) (*payroll.SalarySlip, error) {
	var slip payroll.SalarySlip
	err := r.db.Where("user_id = ? AND month = ?", userID, month).First(&slip).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, payroll.ErrSlipNotFound
		}
		return nil, err
	}
	return &slip, nil
}

// GetByUserID returns one employee's slips, latest first.
func (r *SlipRepository) GetByUserID(userID int64) ([]*payroll.SalarySlip, error) {
	var slips []*payroll.SalarySlip
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&slips).Error
	return slips, err
}

func (r *SlipRepository) GetAll() ([]*payroll.SalarySlip, error) {
	var slips []*payroll.SalarySlip
	err := r.db.Order("created_at DESC, id DESC").Find(&slips).Error
	return slips, err
}

// GetAllWithEmployee joins every slip with its employee's public fields.
func (r *SlipRepository) GetAllWithEmployee() ([]*payroll.SlipWithEmployee, error) {
	rows, err := r.db.Raw(`
		SELECT s.id, s.user_id, s.month, s.base_salary, s.bonus, s.deductions, s.created_at,
		       u.id, u.email, u.role
		FROM salary_slips s
		JOIN users u ON u.id = s.user_id
		ORDER BY s.created_at DESC, s.id DESC`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*payroll.SlipWithEmployee
	for rows.Next() {
		var entry payroll.SlipWithEmployee
		var role string
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Month,
			&entry.BaseSalary, &entry.Bonus, &entry.Deductions, &entry.CreatedAt,
			&entry.Employee.ID, &entry.Employee.Email, &role,
		); err != nil {
			return nil, err
		}
		entry.Employee.Role = identity.Role(role)
		result = append(result, &entry)
	}
	return result, rows.Err()
}

func (r *SlipRepository) Update(slip *payroll.SalarySlip) error {
	return r.db.Save(slip).Error
}
