package test

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
)

// UserRepositoryStub stores users in-memory for tests.
type UserRepositoryStub struct {
	CreateFn func(context.Context, *model.User) (*model.User, error)

	ByEmail map[string]*model.User
	ByID    map[uuid.UUID]*model.User
	Err     error

	CreateCalls    []model.User
	LastLoginCalls []uuid.UUID
	UpdateCalls    []model.ProfileUpdate
}

// NewUserRepositoryStub constructs stub repository with initialized maps.
func NewUserRepositoryStub() *UserRepositoryStub {
	return &UserRepositoryStub{
		ByEmail: make(map[string]*model.User),
		ByID:    make(map[uuid.UUID]*model.User),
	}
}

// Create registers user unless the email is already taken.
func (s *UserRepositoryStub) Create(ctx context.Context, user *model.User) (*model.User, error) {
	s.CreateCalls = append(s.CreateCalls, *user)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, user)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ByEmail == nil {
		s.ByEmail = make(map[string]*model.User)
	}
	if s.ByID == nil {
		s.ByID = make(map[uuid.UUID]*model.User)
	}
	if _, exists := s.ByEmail[user.Email]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	stored := *user
	now := time.Now().UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.ByEmail[stored.Email] = &stored
	s.ByID[stored.ID] = &stored
	return &stored, nil
}

// GetByEmail fetches user by email or returns not found.
func (s *UserRepositoryStub) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByEmail[email]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches user by identifier or returns not found.
func (s *UserRepositoryStub) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if user, ok := s.ByID[id]; ok {
		return user, nil
	}
	return nil, domainErrors.ErrNotFound
}

// UpdateProfile applies set fields to the stored user.
func (s *UserRepositoryStub) UpdateProfile(ctx context.Context, id uuid.UUID, update model.ProfileUpdate) (*model.User, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.UpdateCalls = append(s.UpdateCalls, update)
	user, ok := s.ByID[id]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Address != nil {
		user.Address = *update.Address
	}
	if update.Preferences != nil {
		user.Preferences = *update.Preferences
	}
	user.UpdatedAt = time.Now().UTC()
	return user, nil
}

// UpdateLastLogin records the call and stamps the stored user.
func (s *UserRepositoryStub) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if s.Err != nil {
		return s.Err
	}
	s.LastLoginCalls = append(s.LastLoginCalls, id)
	user, ok := s.ByID[id]
	if !ok {
		return domainErrors.ErrNotFound
	}
	user.LastLogin = &at
	return nil
}

// List filters stored users by the search substring.
func (s *UserRepositoryStub) List(ctx context.Context, filter repository.UserListFilter) ([]model.User, int, error) {
	if s.Err != nil {
		return nil, 0, s.Err
	}
	var matched []model.User
	for _, user := range s.ByID {
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(user.FirstName), needle) &&
				!strings.Contains(strings.ToLower(user.LastName), needle) &&
				!strings.Contains(strings.ToLower(user.Email), needle) &&
				!strings.Contains(strings.ToLower(user.AccountNumber), needle) {
				continue
			}
		}
		matched = append(matched, *user)
	}
	total := len(matched)
	offset := filter.Offset()
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

// BillRepositoryStub allows tests to customize behaviour.
type BillRepositoryStub struct {
	CreateFn             func(context.Context, *model.Bill) (*model.Bill, error)
	GetByNumberFn        func(context.Context, string) (*model.Bill, error)
	ListByUserFn         func(context.Context, uuid.UUID) ([]model.Bill, error)
	OutstandingAmountFn  func(context.Context, uuid.UUID) (float64, error)
	MonthlyUsageFn       func(context.Context, uuid.UUID, int) ([]model.UsagePoint, error)
	MarkPaidFn           func(context.Context, uuid.UUID, model.PaymentMethod, time.Time) error
	SelectDueForReviewFn func(context.Context, time.Time, int) ([]model.Bill, error)
	UpdateStatusFn       func(context.Context, uuid.UUID, model.BillStatus) error

	Bills       []model.Bill
	Due         []model.Bill
	Outstanding float64
	Usage       []model.UsagePoint

	Created     []model.Bill
	PaidCalls   []BillPaidCall
	StatusCalls []BillStatusCall
}

// BillPaidCall records one MarkPaid invocation.
type BillPaidCall struct {
	BillID uuid.UUID
	Method model.PaymentMethod
	PaidAt time.Time
}

// BillStatusCall records one UpdateStatus invocation.
type BillStatusCall struct {
	BillID uuid.UUID
	Status model.BillStatus
}

// Create tracks invocations and returns configured responses.
func (s *BillRepositoryStub) Create(ctx context.Context, bill *model.Bill) (*model.Bill, error) {
	s.Created = append(s.Created, *bill)
	if s.CreateFn != nil {
		return s.CreateFn(ctx, bill)
	}
	stored := *bill
	return &stored, nil
}

// GetByNumber returns matched bill either via override or stored slice.
func (s *BillRepositoryStub) GetByNumber(ctx context.Context, number string) (*model.Bill, error) {
	if s.GetByNumberFn != nil {
		return s.GetByNumberFn(ctx, number)
	}
	for _, b := range s.Bills {
		if b.BillNumber == number {
			bill := b
			return &bill, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListByUser returns bills from configured slice.
func (s *BillRepositoryStub) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bill, error) {
	if s.ListByUserFn != nil {
		return s.ListByUserFn(ctx, userID)
	}
	return s.Bills, nil
}

// OutstandingAmount returns the configured balance.
func (s *BillRepositoryStub) OutstandingAmount(ctx context.Context, userID uuid.UUID) (float64, error) {
	if s.OutstandingAmountFn != nil {
		return s.OutstandingAmountFn(ctx, userID)
	}
	return s.Outstanding, nil
}

// MonthlyUsage returns the configured usage series.
func (s *BillRepositoryStub) MonthlyUsage(ctx context.Context, userID uuid.UUID, months int) ([]model.UsagePoint, error) {
	if s.MonthlyUsageFn != nil {
		return s.MonthlyUsageFn(ctx, userID, months)
	}
	return s.Usage, nil
}

// MarkPaid records payment invocations.
func (s *BillRepositoryStub) MarkPaid(ctx context.Context, billID uuid.UUID, method model.PaymentMethod, paidAt time.Time) error {
	if s.MarkPaidFn != nil {
		return s.MarkPaidFn(ctx, billID, method, paidAt)
	}
	s.PaidCalls = append(s.PaidCalls, BillPaidCall{BillID: billID, Method: method, PaidAt: paidAt})
	return nil
}

// SelectDueForReview returns queued bills for the overdue sweep.
func (s *BillRepositoryStub) SelectDueForReview(ctx context.Context, asOf time.Time, limit int) ([]model.Bill, error) {
	if s.SelectDueForReviewFn != nil {
		return s.SelectDueForReviewFn(ctx, asOf, limit)
	}
	return s.Due, nil
}

// UpdateStatus records update invocations.
func (s *BillRepositoryStub) UpdateStatus(ctx context.Context, billID uuid.UUID, status model.BillStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, billID, status)
	}
	s.StatusCalls = append(s.StatusCalls, BillStatusCall{BillID: billID, Status: status})
	return nil
}
