// Package session holds per-browser admin sessions keyed by an opaque token
// delivered in a cookie.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

var ErrNotFound = errors.New("session not found")

// Session is the server-held state for one browser.
type Session struct {
	Admin     bool      `json:"admin"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists sessions. Get returns ErrNotFound for unknown or expired
// tokens.
type Store interface {
	Create(ctx context.Context, s Session) (token string, err error)
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
}

// NewToken returns 32 random bytes, hex encoded.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
