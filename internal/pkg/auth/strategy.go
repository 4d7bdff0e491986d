package auth

import (
	"time"

	"github.com/google/uuid"
)

// Session is the decoded content of an issued token.
type Session struct {
	UserID    uuid.UUID
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Remaining returns time until the session expires.
func (s *Session) Remaining(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}

// Strategy issues and verifies signed, time-bound session tokens.
type Strategy interface {
	IssueToken(userID uuid.UUID) (string, error)
	ParseToken(token string) (*Session, error)
	Name() string
}

// Options tune token issuance.
type Options struct {
	TTL time.Duration
}
