package postgres

import (
	"github.com/anshumat/payroll-management/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.RepositoryAPI interface using GORM
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(exp *expense.Expense) error {
	return r.db.Create(exp).Error
}

func (r *ExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	var exp expense.Expense
	err := r.db.Where("id = ?", id).First(&exp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, expense.ErrExpenseNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (r *ExpenseRepository) GetByUserID(userID int64) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) GetAll() ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	err := r.db.Order("created_at DESC, id DESC").Find(&expenses).Error
	return expenses, err
}

// GetAllWithEmail joins every expense with the submitter's email.
func (r *ExpenseRepository) GetAllWithEmail() ([]*expense.ExpenseWithEmail, error) {
	rows, err := r.db.Raw(`
		SELECT e.id, e.user_id, e.amount, e.description, e.status, e.created_at, u.email
		FROM expenses e
		JOIN users u ON u.id = e.user_id
		ORDER BY e.created_at DESC, e.id DESC`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*expense.ExpenseWithEmail
	for rows.Next() {
		var entry expense.ExpenseWithEmail
		var status string
		if err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.Amount,
			&entry.Description, &status, &entry.CreatedAt,
			&entry.UserEmail,
		); err != nil {
			return nil, err
		}
		entry.Status = expense.Status(status)
		result = append(result, &entry)
	}
	return result, rows.Err()
}

// UpdateStatusIfSubmitted flips the status only while the record is still
// submitted; the WHERE clause makes concurrent decisions race safely.
func (r *ExpenseRepository) UpdateStatusIfSubmitted(id int64, status expense.Status) (int64, error) {
	result := r.db.Model(&expense.Expense{}).
		Where("id = ? AND status = ?", id, expense.StatusSubmitted).
		Update("status", status)
	return result.RowsAffected, result.Error
}
