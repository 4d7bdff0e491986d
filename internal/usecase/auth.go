package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/adapter/revocation"
	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
	pkgAuth "github.com/gridbill/gridbill/internal/pkg/auth"
)

// RegistrationInput carries the fields accepted at account creation.
type RegistrationInput struct {
	FirstName    string
	LastName     string
	Email        string
	Password     string
	Phone        string
	Address      model.Address
	CustomerType model.CustomerType
}

// AuthUseCase handles account lifecycle and session token management.
type AuthUseCase struct {
	users    repository.UserRepository
	hasher   pkgAuth.PasswordHasher
	tokens   pkgAuth.Strategy
	denylist revocation.Denylist
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, denylist revocation.Denylist) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy, denylist: denylist}
}

// Register creates a new customer account and returns it with a fresh
// session token. The store's unique email constraint is the sole
// arbiter for concurrent same-email registrations.
func (u *AuthUseCase) Register(ctx context.Context, input RegistrationInput) (*model.User, string, error) {
	usr, err := u.createUser(ctx, input, model.RoleCustomer, true)
	if err != nil {
		return nil, "", err
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	u.recordLogin(ctx, usr)

	return usr, token, nil
}

// Authenticate validates credentials and returns the account with a
// session token. Unknown email and wrong password yield the same
// error so callers cannot enumerate accounts.
func (u *AuthUseCase) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", validationError("email and password are required")
	}

	usr, err := u.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	if !usr.IsActive {
		return nil, "", domainErrors.ErrAccountDeactivated
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	u.recordLogin(ctx, usr)

	return usr, token, nil
}

// VerifySession validates the token and re-reads the account from the
// store, so profile changes and deletions take effect immediately.
func (u *AuthUseCase) VerifySession(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, pkgAuth.ErrInvalidToken
	}

	session, err := u.tokens.ParseToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := u.denylist.IsRevoked(ctx, session.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, pkgAuth.ErrInvalidToken
	}

	return u.users.GetByID(ctx, session.UserID)
}

// Logout revokes the token id for its remaining lifetime when a
// denylist backend is configured. Always succeeds: an unparsable or
// already-expired token has nothing left to revoke.
func (u *AuthUseCase) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}
	session, err := u.tokens.ParseToken(token)
	if err != nil {
		return
	}
	_ = u.denylist.Revoke(ctx, session.TokenID, session.Remaining(time.Now()))
}

// CreateUser provisions an account on behalf of an administrator. It
// reuses the registration validation and hashing path and additionally
// allows setting role and active flag.
func (u *AuthUseCase) CreateUser(ctx context.Context, input RegistrationInput, role model.Role, active bool) (*model.User, error) {
	if role == "" {
		role = model.RoleCustomer
	}
	if role != model.RoleCustomer && role != model.RoleAdmin {
		return nil, validationError("invalid role")
	}
	return u.createUser(ctx, input, role, active)
}

func (u *AuthUseCase) createUser(ctx context.Context, input RegistrationInput, role model.Role, active bool) (*model.User, error) {
	input.Email = normalizeEmail(input.Email)
	if err := ValidateRegistration(input); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	customerType := input.CustomerType
	if customerType == "" {
		customerType = model.CustomerResidential
	}

	address := input.Address
	if address.Country == "" {
		address.Country = "US"
	}

	// Account and meter numbers are regenerated when the store reports
	// a collision on one of them.
	for attempt := 0; ; attempt++ {
		usr := &model.User{
			ID:            uuid.New(),
			FirstName:     strings.TrimSpace(input.FirstName),
			LastName:      strings.TrimSpace(input.LastName),
			Email:         input.Email,
			PasswordHash:  hash,
			Phone:         strings.TrimSpace(input.Phone),
			Address:       address,
			AccountNumber: NewAccountNumber(),
			MeterNumber:   NewMeterNumber(),
			CustomerType:  customerType,
			Role:          role,
			IsActive:      active,
			Preferences:   model.DefaultPreferences(),
		}

		created, err := u.users.Create(ctx, usr)
		if errors.Is(err, domainErrors.ErrNumberCollision) && attempt < 2 {
			continue
		}
		return created, err
	}
}

// recordLogin persists the login timestamp. Best effort: a failed
// write must not fail an otherwise successful login.
func (u *AuthUseCase) recordLogin(ctx context.Context, usr *model.User) {
	now := time.Now().UTC()
	if err := u.users.UpdateLastLogin(ctx, usr.ID, now); err == nil {
		usr.LastLogin = &now
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewAccountNumber generates an account number: ACC plus eight digits
// derived from the current unix time in milliseconds and a random
// component, so registrations within the same millisecond differ.
func NewAccountNumber() string {
	n := time.Now().UnixMilli()*1000 + int64(rand.Intn(1000))
	return fmt.Sprintf("ACC%08d", n%100000000)
}

const meterAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewMeterNumber generates a meter number: MTR plus eight random
// base36 characters.
func NewMeterNumber() string {
	b := make([]byte, 8)
	for i := range b {
		b[i] = meterAlphabet[rand.Intn(len(meterAlphabet))]
	}
	return "MTR" + string(b)
}
