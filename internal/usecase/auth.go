package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/playroomlab/tictactoe-server/internal/apperror"
	"github.com/playroomlab/tictactoe-server/internal/entity"
)

const minPasswordLength = 6

type userRepo interface {
	Save(ctx context.Context, user *entity.User) error
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
}

// AuthManager implements the LOGIN and REGISTER rules over the
// credential store.
type AuthManager struct {
	userRepo userRepo
}

func NewAuthManager(userRepo userRepo) *AuthManager {
	return &AuthManager{
		userRepo: userRepo,
	}
}

// Login verifies credentials. It returns apperror.ErrUserNotFound or
// apperror.ErrWrongPassword for the corresponding ack codes.
func (that *AuthManager) Login(ctx context.Context, username, password string) error {
	user, err := that.userRepo.FindByUsername(ctx, username)
	if errors.Is(err, apperror.ErrUserNotFound) {
		return apperror.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return apperror.ErrWrongPassword
	}

	return nil
}

// Register validates and persists a new account: the username must be
// strictly alphanumeric, the password at least six characters, and the
// username unused.
func (that *AuthManager) Register(ctx context.Context, username, password string) error {
	if !isAlphanumeric(username) {
		return apperror.ErrInvalidUsername
	}

	if len(password) < minPasswordLength {
		return apperror.ErrShortPassword
	}

	_, err := that.userRepo.FindByUsername(ctx, username)
	if err == nil {
		return apperror.ErrUserExists
	}
	if !errors.Is(err, apperror.ErrUserNotFound) {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &entity.User{Username: username, PasswordHash: string(hash)}
	if err = that.userRepo.Save(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}

	return nil
}

func isAlphanumeric(s string) bool {
	if s == "" {
		return false
	}

	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return true
}
