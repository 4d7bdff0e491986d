package test

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/adapter/payment"
	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
	"github.com/gridbill/gridbill/internal/usecase"
)

// PortalFacadeStub aggregates facade dependencies for HTTP layer tests.
type PortalFacadeStub struct {
	RegisterFn      func(context.Context, usecase.RegistrationInput) (*model.User, string, error)
	AuthenticateFn  func(context.Context, string, string) (*model.User, string, error)
	VerifySessionFn func(context.Context, string) (*model.User, error)
	LogoutFn        func(context.Context, string)
	ProfileFn       func(context.Context, uuid.UUID) (*model.User, error)
	UpdateProfileFn func(context.Context, uuid.UUID, model.ProfileUpdate) (*model.User, error)
	ListUsersFn     func(context.Context, repository.UserListFilter) ([]model.User, int, error)
	CreateUserFn    func(context.Context, usecase.RegistrationInput, model.Role, bool) (*model.User, error)
	BillsFn         func(context.Context, uuid.UUID) ([]model.Bill, error)
	PayBillFn       func(context.Context, uuid.UUID, string, model.PaymentMethod) (*model.Bill, error)
	IssueBillFn     func(context.Context, usecase.BillInput) (*model.Bill, error)
	DashboardFn     func(context.Context, uuid.UUID) (*model.DashboardSummary, error)
	HealthCheckFn   func(context.Context) error

	User        *model.User
	Token       string
	LogoutCalls []string
}

func (s *PortalFacadeStub) Register(ctx context.Context, input usecase.RegistrationInput) (*model.User, string, error) {
	if s.RegisterFn != nil {
		return s.RegisterFn(ctx, input)
	}
	return s.User, s.token(), nil
}

func (s *PortalFacadeStub) Authenticate(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.AuthenticateFn != nil {
		return s.AuthenticateFn(ctx, email, password)
	}
	return s.User, s.token(), nil
}

func (s *PortalFacadeStub) VerifySession(ctx context.Context, token string) (*model.User, error) {
	if s.VerifySessionFn != nil {
		return s.VerifySessionFn(ctx, token)
	}
	return s.User, nil
}

func (s *PortalFacadeStub) Logout(ctx context.Context, token string) {
	s.LogoutCalls = append(s.LogoutCalls, token)
	if s.LogoutFn != nil {
		s.LogoutFn(ctx, token)
	}
}

func (s *PortalFacadeStub) Profile(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.ProfileFn != nil {
		return s.ProfileFn(ctx, id)
	}
	return s.User, nil
}

func (s *PortalFacadeStub) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (*model.User, error) {
	if s.UpdateProfileFn != nil {
		return s.UpdateProfileFn(ctx, id, update)
	}
	return s.User, nil
}

func (s *PortalFacadeStub) ListUsers(ctx context.Context, filter repository.UserListFilter) ([]model.User, int, error) {
	if s.ListUsersFn != nil {
		return s.ListUsersFn(ctx, filter)
	}
	return nil, 0, nil
}

func (s *PortalFacadeStub) CreateUser(ctx context.Context, input usecase.RegistrationInput, role model.Role, active bool) (*model.User, error) {
	if s.CreateUserFn != nil {
		return s.CreateUserFn(ctx, input, role, active)
	}
	return s.User, nil
}

func (s *PortalFacadeStub) Bills(ctx context.Context, userID uuid.UUID) ([]model.Bill, error) {
	if s.BillsFn != nil {
		return s.BillsFn(ctx, userID)
	}
	return nil, nil
}

func (s *PortalFacadeStub) PayBill(ctx context.Context, userID uuid.UUID, billNumber string, method model.PaymentMethod) (*model.Bill, error) {
	if s.PayBillFn != nil {
		return s.PayBillFn(ctx, userID, billNumber, method)
	}
	return nil, nil
}

func (s *PortalFacadeStub) IssueBill(ctx context.Context, input usecase.BillInput) (*model.Bill, error) {
	if s.IssueBillFn != nil {
		return s.IssueBillFn(ctx, input)
	}
	return nil, nil
}

func (s *PortalFacadeStub) Dashboard(ctx context.Context, userID uuid.UUID) (*model.DashboardSummary, error) {
	if s.DashboardFn != nil {
		return s.DashboardFn(ctx, userID)
	}
	return &model.DashboardSummary{}, nil
}

func (s *PortalFacadeStub) HealthCheck(ctx context.Context) error {
	if s.HealthCheckFn != nil {
		return s.HealthCheckFn(ctx)
	}
	return nil
}

func (s *PortalFacadeStub) token() string {
	if s.Token != "" {
		return s.Token
	}
	return "token"
}

// BillingFacadeStub implements the worker facade contract. Safe for
// concurrent use by worker pools.
type BillingFacadeStub struct {
	DueFn     func(context.Context, time.Time, int) ([]model.Bill, error)
	OverdueFn func(context.Context, uuid.UUID) error

	Due []model.Bill

	mu      sync.Mutex
	overdue []uuid.UUID
}

// BillsDueForReview returns the configured batch once.
func (s *BillingFacadeStub) BillsDueForReview(ctx context.Context, asOf time.Time, limit int) ([]model.Bill, error) {
	if s.DueFn != nil {
		return s.DueFn(ctx, asOf, limit)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	due := s.Due
	s.Due = nil
	return due, nil
}

// MarkBillOverdue records the invocation.
func (s *BillingFacadeStub) MarkBillOverdue(ctx context.Context, billID uuid.UUID) error {
	if s.OverdueFn != nil {
		return s.OverdueFn(ctx, billID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overdue = append(s.overdue, billID)
	return nil
}

// OverdueIDs returns a copy of recorded overdue bill ids.
func (s *BillingFacadeStub) OverdueIDs() []uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]uuid.UUID, len(s.overdue))
	copy(out, s.overdue)
	return out
}

// ProviderStub implements the payment provider contract for tests.
type ProviderStub struct {
	ChargeFn func(context.Context, payment.ChargeRequest) (*payment.Receipt, error)
	Charges  []payment.ChargeRequest
}

// Charge records the request and returns configured responses.
func (s *ProviderStub) Charge(ctx context.Context, req payment.ChargeRequest) (*payment.Receipt, error) {
	s.Charges = append(s.Charges, req)
	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, req)
	}
	return &payment.Receipt{TransactionID: "tx-1", ProcessedAt: time.Now().UTC()}, nil
}
