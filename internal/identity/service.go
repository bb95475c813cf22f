package identity

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/anshumat/payroll-management/internal"
)

// RepositoryAPI defines the data access methods for users.
type RepositoryAPI interface {
	Create(user *User) error
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
	GetAll() ([]*User, error)
}

type Service struct {
	repo       RepositoryAPI
	tokens     TokenGeneratorAPI
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo RepositoryAPI, tokens TokenGeneratorAPI, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// Signup registers a new user with a hashed credential. The role given at
// signup is permanent.
func (s *Service) Signup(dto SignupDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("signup validation failed", "error", err, "email", dto.Email)
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(dto.Email))

	if existing, err := s.repo.GetByEmail(email); err == nil && existing != nil {
		s.logger.Warn("signup rejected: email already registered", "email", email)
		return nil, ErrEmailTaken
	}

	hash, err := HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	role, _ := ParseRole(dto.Role)
	user := &User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}

	if err := s.repo.Create(user); err != nil {
		s.logger.Error("failed to create user", "error", err, "email", email)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", email, "role", role)

	return user, nil
}

// Authenticate verifies credentials and issues a bearer token carrying the
// user's identity and role.
func (s *Service) Authenticate(dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	user, err := s.repo.GetByEmail(strings.ToLower(strings.TrimSpace(dto.Email)))
	if err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, dto.Password); err != nil {
		return AuthTokens{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.GenerateAccessToken(strconv.FormatInt(user.ID, 10), user.Email, user.Role)
	if err != nil {
		s.logger.Error("failed to generate access token", "error", err, "user_id", user.ID)
		return AuthTokens{}, internal.NewInternalError("failed to issue credential", err)
	}

	return AuthTokens{
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// ResolveCredential maps a bearer token back to the stored user. The user row
// is always reloaded so a deleted or unknown subject fails closed. Resolution
// never mutates state and is safe to replay within the token's validity.
func (s *Service) ResolveCredential(tokenString string) (*User, error) {
	claims, err := s.tokens.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	uid, err := strconv.ParseInt(claims.UserID, 10, 64)
	if err != nil {
		s.logger.Warn("credential carries malformed subject", "value", claims.UserID, "error", err)
		return nil, ErrInvalidToken
	}

	user, err := s.repo.GetByID(uid)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}

// ListUsers returns every registered user. Route-level policy restricts this
// to admins.
func (s *Service) ListUsers() ([]*User, error) {
	users, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}
