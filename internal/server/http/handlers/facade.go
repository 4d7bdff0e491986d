package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
	"github.com/gridbill/gridbill/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Register(ctx context.Context, input usecase.RegistrationInput) (*model.User, string, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, string, error)
	VerifySession(ctx context.Context, token string) (*model.User, error)
	Logout(ctx context.Context, token string)
}

// UserFacade covers profile access and admin user management.
type UserFacade interface {
	Profile(ctx context.Context, id uuid.UUID) (*model.User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (*model.User, error)
	ListUsers(ctx context.Context, filter repository.UserListFilter) ([]model.User, int, error)
	CreateUser(ctx context.Context, input usecase.RegistrationInput, role model.Role, active bool) (*model.User, error)
}

// BillFacade provides bill operations exposed via HTTP.
type BillFacade interface {
	Bills(ctx context.Context, userID uuid.UUID) ([]model.Bill, error)
	PayBill(ctx context.Context, userID uuid.UUID, billNumber string, method model.PaymentMethod) (*model.Bill, error)
	IssueBill(ctx context.Context, input usecase.BillInput) (*model.Bill, error)
}

// DashboardFacade aggregates account state for the landing page.
type DashboardFacade interface {
	Dashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardSummary, error)
}

// HealthFacade reports readiness of backing services.
type HealthFacade interface {
	HealthCheck(ctx context.Context) error
}

// PortalFacade aggregates the full set of operations used across handlers.
type PortalFacade interface {
	AuthFacade
	UserFacade
	BillFacade
	DashboardFacade
	HealthFacade
}
