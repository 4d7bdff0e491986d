package test

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/gridbill/gridbill/internal/pkg/auth"
)

// HasherStub provides deterministic hashing for tests.
type HasherStub struct {
	HashFn    func(string) (string, error)
	CompareFn func(string, string) error
}

// Hash returns a predictable hash for the supplied password.
func (h HasherStub) Hash(password string) (string, error) {
	if h.HashFn != nil {
		return h.HashFn(password)
	}
	return "hash:" + password, nil
}

// Compare validates password against stored hash.
func (h HasherStub) Compare(hash string, password string) error {
	if h.CompareFn != nil {
		return h.CompareFn(hash, password)
	}
	if hash != "hash:"+password {
		return errors.New("mismatch")
	}
	return nil
}

// StrategyStub issues and parses tokens via function overrides.
type StrategyStub struct {
	IssueFn func(uuid.UUID) (string, error)
	ParseFn func(string) (*pkgAuth.Session, error)
	UserID  uuid.UUID
	NameVal string
}

// IssueToken returns deterministic tokens for tests.
func (s StrategyStub) IssueToken(userID uuid.UUID) (string, error) {
	if s.IssueFn != nil {
		return s.IssueFn(userID)
	}
	return "token", nil
}

// ParseToken parses previously issued token strings.
func (s StrategyStub) ParseToken(token string) (*pkgAuth.Session, error) {
	if s.ParseFn != nil {
		return s.ParseFn(token)
	}
	now := time.Now()
	return &pkgAuth.Session{
		UserID:    s.UserID,
		TokenID:   "jti",
		IssuedAt:  now,
		ExpiresAt: now.Add(time.Hour),
	}, nil
}

// Name returns the strategy identifier used in tests.
func (s StrategyStub) Name() string {
	if s.NameVal != "" {
		return s.NameVal
	}
	return "stub"
}

// DenylistStub records revocations in-memory.
type DenylistStub struct {
	RevokeFn    func(context.Context, string, time.Duration) error
	IsRevokedFn func(context.Context, string) (bool, error)
	Revoked     map[string]time.Duration
}

// Revoke stores the token id and its remaining lifetime.
func (s *DenylistStub) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if s.RevokeFn != nil {
		return s.RevokeFn(ctx, tokenID, ttl)
	}
	if s.Revoked == nil {
		s.Revoked = make(map[string]time.Duration)
	}
	s.Revoked[tokenID] = ttl
	return nil
}

// IsRevoked reports whether the token id was revoked earlier.
func (s *DenylistStub) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if s.IsRevokedFn != nil {
		return s.IsRevokedFn(ctx, tokenID)
	}
	_, ok := s.Revoked[tokenID]
	return ok, nil
}
