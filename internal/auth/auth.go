package auth

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Authenticator checks a submitted username and password against the single
// shared admin credential. The password is held only as a bcrypt hash.
type Authenticator struct {
	username     string
	passwordHash []byte
	logger       *slog.Logger
}

func NewAuthenticator(username, password string, logger *slog.Logger) (*Authenticator, error) {
	if username == "" || password == "" {
		return nil, errors.New("admin username and password must be set")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &Authenticator{username: username, passwordHash: hash, logger: logger}, nil
}

// Check returns ErrInvalidCredentials for any mismatch. It does not reveal
// whether the username or the password was wrong.
func (a *Authenticator) Check(username, password string) error {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		a.logger.Info("auth_event", "event", "login_failed")
		return ErrInvalidCredentials
	}
	a.logger.Info("auth_event", "event", "login_success")
	return nil
}
