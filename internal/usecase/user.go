package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// UserUseCase covers profile access and administrative user listings.
type UserUseCase struct {
	users repository.UserRepository
}

// NewUserUseCase constructs UserUseCase.
func NewUserUseCase(users repository.UserRepository) *UserUseCase {
	return &UserUseCase{users: users}
}

// Profile fetches the account by identifier.
func (u *UserUseCase) Profile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// UpdateProfile applies owner-mutable fields only. Role, email and
// credentials cannot be changed through this path.
func (u *UserUseCase) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (*model.User, error) {
	if update.Empty() {
		return u.users.GetByID(ctx, id)
	}

	if update.FirstName != nil && strings.TrimSpace(*update.FirstName) == "" {
		return nil, validationError("first name cannot be empty")
	}
	if update.LastName != nil && strings.TrimSpace(*update.LastName) == "" {
		return nil, validationError("last name cannot be empty")
	}
	if update.Phone != nil && !ValidPhone(strings.TrimSpace(*update.Phone)) {
		return nil, validationError("invalid phone number")
	}
	if update.Address != nil {
		addr := *update.Address
		if strings.TrimSpace(addr.Street) == "" || strings.TrimSpace(addr.City) == "" ||
			strings.TrimSpace(addr.State) == "" || strings.TrimSpace(addr.ZipCode) == "" {
			return nil, validationError("incomplete address")
		}
	}

	return u.users.UpdateProfile(ctx, id, update)
}

// List returns a page of users for the admin console.
func (u *UserUseCase) List(ctx context.Context, filter repository.UserListFilter) ([]model.User, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	filter.Search = strings.TrimSpace(filter.Search)
	return u.users.List(ctx, filter)
}
