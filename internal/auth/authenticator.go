// Package auth checks login credentials against stored bcrypt hashes and
// manages the signed session tokens handed out after a successful login.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"invoice-dashboard-backend/internal/logger"
	"invoice-dashboard-backend/internal/models"
	"invoice-dashboard-backend/internal/repository"
	"invoice-dashboard-backend/internal/validation"
)

// ErrFetchUser wraps backend failures of the user lookup. It is distinct
// from a credential mismatch, which is not an error.
var ErrFetchUser = errors.New("Failed to fetch user.")

type UserFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

var _ UserFinder = (*repository.UserRepository)(nil)

type Authenticator struct {
	users  UserFinder
	logger *zap.Logger
}

func NewAuthenticator(users UserFinder, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{users: users, logger: log}
}

// Authorize returns the user whose e-mail and password match. Malformed
// credentials, unknown e-mails and wrong passwords all yield (nil, nil).
func (a *Authenticator) Authorize(ctx context.Context, email, password string) (*models.User, error) {
	creds := validation.Credentials{Email: strings.TrimSpace(email), Password: password}
	if !validation.ValidCredentials(creds) {
		return nil, nil
	}

	user, err := a.users.GetByEmail(ctx, creds.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		logger.Or(ctx, a.logger).Error("Failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrFetchUser, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(creds.Password)); err != nil {
		return nil, nil
	}
	return user, nil
}

// HashPassword returns the bcrypt hash stored for a user password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
