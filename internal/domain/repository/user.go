package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/domain/model"
)

// UserListFilter bounds admin user listings.
type UserListFilter struct {
	Page   int
	Limit  int
	Search string
}

// Offset returns the row offset for the requested page.
func (f UserListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// UserRepository describes persistence operations for user accounts.
// Email uniqueness is enforced by the store; Create surfaces
// ErrAlreadyExists on violation.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (*model.User, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	List(ctx context.Context, filter UserListFilter) ([]model.User, int, error)
}
