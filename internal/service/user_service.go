package service

import (
	"context"
	"errors"
	"strings"

	"notesapi/internal/auth"
	dom "notesapi/internal/domain"
	"notesapi/internal/repo"
	"notesapi/internal/utils"

	"github.com/jackc/pgx/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email not confirmed")
	ErrEmailTaken         = errors.New("account already exists")
	ErrUserNotFound       = errors.New("user not found")
)

// UserService handles account logic: registration, credential checks,
// email confirmation, refresh-token bookkeeping.
type UserService struct {
	repo   repo.UserRepo
	hasher *auth.Hasher
}

// NewUserService returns a new UserService.
func NewUserService(r repo.UserRepo, h *auth.Hasher) *UserService {
	return &UserService{repo: r, hasher: h}
}

// Register creates a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, username, email, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, hash)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks email and password; returns the user if valid.
// Unknown email and wrong password produce the same error.
func (s *UserService) ValidateCredentials(ctx context.Context, email, password string) (dom.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if !u.Confirmed {
		return dom.User{}, ErrEmailNotConfirmed
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByEmail returns the user for email or ErrUserNotFound.
func (s *UserService) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	u, err := s.repo.GetByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrUserNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}

// ConfirmEmail marks the account confirmed. Returns true when it already was.
func (s *UserService) ConfirmEmail(ctx context.Context, email string) (bool, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if u.Confirmed {
		return true, nil
	}
	return false, s.repo.ConfirmEmail(ctx, u.Email)
}

// StoreRefreshToken records the latest refresh token on the user row. One
// token per user; a new login or refresh replaces the previous session.
func (s *UserService) StoreRefreshToken(ctx context.Context, userID int64, token string) error {
	return s.repo.UpdateRefreshToken(ctx, userID, token)
}

// ClearRefreshToken drops the stored refresh token, forcing a fresh login.
func (s *UserService) ClearRefreshToken(ctx context.Context, userID int64) error {
	return s.repo.UpdateRefreshToken(ctx, userID, "")
}
