package postgres

import (
	"github.com/anshumat/payroll-management/internal/identity"
	"gorm.io/gorm"
)

// UserRepository implements the identity.RepositoryAPI interface using GORM
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) identity.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *identity.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByEmail(email string) (*identity.User, error) {
	var user identity.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByID(id int64) (*identity.User, error) {
	var user identity.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, identity.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetAll() ([]*identity.User, error) {
	var users []*identity.User
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}
