package identity

import (
	"strings"

	"github.com/anshumat/payroll-management/internal"
)

// SignupDTO is the request payload for registering a user.
type SignupDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d SignupDTO) Validate() error {
	if strings.TrimSpace(d.Email) == "" {
		return internal.NewValidationError("email is required", internal.ErrCodeValidationFailed)
	}
	if !strings.Contains(d.Email, "@") {
		return internal.NewValidationError("email is not a valid address", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	if _, err := ParseRole(d.Role); err != nil {
		return err
	}
	return nil
}

// LoginDTO carries the credentials from the form-encoded login request. The
// frontend posts OAuth2 password-flow fields, so the email arrives as
// `username`.
type LoginDTO struct {
	Email    string
	Password string
}

func (d LoginDTO) Validate() error {
	if d.Email == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
