package app

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
	"github.com/gridbill/gridbill/internal/usecase"
)

// HealthChecker reports readiness of backing storage.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// PortalFacade aggregates the use cases behind one surface consumed by
// the HTTP handlers and the overdue worker.
type PortalFacade struct {
	auth      *usecase.AuthUseCase
	users     *usecase.UserUseCase
	bills     *usecase.BillUseCase
	dashboard *usecase.DashboardUseCase
	health    HealthChecker
}

// NewPortalFacade constructs PortalFacade.
func NewPortalFacade(auth *usecase.AuthUseCase, users *usecase.UserUseCase, bills *usecase.BillUseCase, dashboard *usecase.DashboardUseCase, health HealthChecker) *PortalFacade {
	return &PortalFacade{auth: auth, users: users, bills: bills, dashboard: dashboard, health: health}
}

func (f *PortalFacade) Register(ctx context.Context, input usecase.RegistrationInput) (*model.User, string, error) {
	return f.auth.Register(ctx, input)
}

func (f *PortalFacade) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	return f.auth.Authenticate(ctx, email, password)
}

func (f *PortalFacade) VerifySession(ctx context.Context, token string) (*model.User, error) {
	return f.auth.VerifySession(ctx, token)
}

func (f *PortalFacade) Logout(ctx context.Context, token string) {
	f.auth.Logout(ctx, token)
}

func (f *PortalFacade) Profile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.users.Profile(ctx, id)
}

func (f *PortalFacade) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (*model.User, error) {
	return f.users.UpdateProfile(ctx, id, update)
}

func (f *PortalFacade) ListUsers(ctx context.Context, filter repository.UserListFilter) ([]model.User, int, error) {
	return f.users.List(ctx, filter)
}

func (f *PortalFacade) CreateUser(ctx context.Context, input usecase.RegistrationInput, role model.Role, active bool) (*model.User, error) {
	return f.auth.CreateUser(ctx, input, role, active)
}

func (f *PortalFacade) Bills(ctx context.Context, userID uuid.UUID) ([]model.Bill, error) {
	return f.bills.ListByUser(ctx, userID)
}

func (f *PortalFacade) PayBill(ctx context.Context, userID uuid.UUID, billNumber string, method model.PaymentMethod) (*model.Bill, error) {
	return f.bills.Pay(ctx, userID, billNumber, method)
}

func (f *PortalFacade) IssueBill(ctx context.Context, input usecase.BillInput) (*model.Bill, error) {
	return f.bills.Issue(ctx, input)
}

func (f *PortalFacade) Dashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardSummary, error) {
	return f.dashboard.Summary(ctx, userID)
}

func (f *PortalFacade) BillsDueForReview(ctx context.Context, asOf time.Time, limit int) ([]model.Bill, error) {
	return f.bills.DueForReview(ctx, asOf, limit)
}

func (f *PortalFacade) MarkBillOverdue(ctx context.Context, billID uuid.UUID) error {
	return f.bills.MarkOverdue(ctx, billID)
}

func (f *PortalFacade) HealthCheck(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}
