package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/adapter/payment"
	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
)

const (
	defaultRate       = 0.15
	defaultServiceFee = 15.00
)

// BillInput carries the fields an administrator supplies when issuing
// a bill. Charges are derived, never accepted from the caller.
type BillInput struct {
	UserID          uuid.UUID
	PeriodStart     time.Time
	PeriodEnd       time.Time
	DueDate         time.Time
	EnergyUsage     float64
	Rate            float64
	ServiceFee      float64
	Taxes           float64
	PreviousBalance float64
	MeterReadings   model.MeterReadings
	Notes           string
}

// BillUseCase manages bill issuance, listing and payment.
type BillUseCase struct {
	bills    repository.BillRepository
	users    repository.UserRepository
	payments payment.Provider
}

// NewBillUseCase constructs BillUseCase.
func NewBillUseCase(bills repository.BillRepository, users repository.UserRepository, payments payment.Provider) *BillUseCase {
	return &BillUseCase{bills: bills, users: users, payments: payments}
}

// Issue creates a pending bill for the user with derived charges.
func (u *BillUseCase) Issue(ctx context.Context, input BillInput) (*model.Bill, error) {
	if input.UserID == uuid.Nil {
		return nil, validationError("user is required")
	}
	if input.PeriodStart.IsZero() || input.PeriodEnd.IsZero() || !input.PeriodEnd.After(input.PeriodStart) {
		return nil, validationError("invalid billing period")
	}
	if input.DueDate.IsZero() {
		return nil, validationError("due date is required")
	}

	usage := input.EnergyUsage
	if usage == 0 && input.MeterReadings.Current > input.MeterReadings.Previous {
		usage = input.MeterReadings.Current - input.MeterReadings.Previous
	}
	if usage < 0 {
		return nil, validationError("energy usage cannot be negative")
	}

	rate := input.Rate
	if rate == 0 {
		rate = defaultRate
	}
	if rate < 0 {
		return nil, validationError("rate cannot be negative")
	}

	serviceFee := input.ServiceFee
	if serviceFee == 0 {
		serviceFee = defaultServiceFee
	}

	usr, err := u.users.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	bill := &model.Bill{
		ID:              uuid.New(),
		BillNumber:      NewBillNumber(),
		UserID:          usr.ID,
		AccountNumber:   usr.AccountNumber,
		BillingPeriod:   model.BillingPeriod{Start: input.PeriodStart, End: input.PeriodEnd},
		DueDate:         input.DueDate,
		EnergyUsage:     usage,
		Rate:            rate,
		ServiceFee:      serviceFee,
		Taxes:           input.Taxes,
		PreviousBalance: input.PreviousBalance,
		Status:          model.BillStatusPending,
		MeterReadings:   input.MeterReadings,
		Notes:           input.Notes,
	}
	bill.ComputeTotals()

	return u.bills.Create(ctx, bill)
}

// ListByUser returns the user's bills, newest due first.
func (u *BillUseCase) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bill, error) {
	return u.bills.ListByUser(ctx, userID)
}

// Pay authorizes the charge with the payment gateway and marks the
// bill paid. Bills belonging to other users are reported as not found.
func (u *BillUseCase) Pay(ctx context.Context, userID uuid.UUID, billNumber string, method model.PaymentMethod) (*model.Bill, error) {
	if !model.ValidPaymentMethod(method) {
		return nil, validationError("invalid payment method")
	}

	bill, err := u.bills.GetByNumber(ctx, billNumber)
	if err != nil {
		return nil, err
	}
	if bill.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}

	switch bill.Status {
	case model.BillStatusPaid:
		return nil, domainErrors.ErrBillAlreadyPaid
	case model.BillStatusCancelled:
		return nil, validationError("bill is cancelled")
	}

	receipt, err := u.payments.Charge(ctx, payment.ChargeRequest{
		BillNumber:    bill.BillNumber,
		AccountNumber: bill.AccountNumber,
		Amount:        bill.AmountDue,
		Method:        string(method),
	})
	if err != nil {
		if errors.Is(err, payment.ErrDeclined) {
			return nil, domainErrors.ErrPaymentDeclined
		}
		return nil, err
	}

	paidAt := receipt.ProcessedAt
	if paidAt.IsZero() {
		paidAt = time.Now().UTC()
	}
	if err := u.bills.MarkPaid(ctx, bill.ID, method, paidAt); err != nil {
		return nil, err
	}

	bill.Status = model.BillStatusPaid
	bill.PaidAt = &paidAt
	bill.PaymentMethod = &method
	return bill, nil
}

// DueForReview claims pending bills past their due date for the
// overdue sweep.
func (u *BillUseCase) DueForReview(ctx context.Context, asOf time.Time, limit int) ([]model.Bill, error) {
	return u.bills.SelectDueForReview(ctx, asOf, limit)
}

// MarkOverdue flips a bill to overdue status.
func (u *BillUseCase) MarkOverdue(ctx context.Context, billID uuid.UUID) error {
	return u.bills.UpdateStatus(ctx, billID, model.BillStatusOverdue)
}

// NewBillNumber generates a bill number: BILL plus the last eight
// digits of unix milliseconds and a random four-digit suffix.
func NewBillNumber() string {
	return fmt.Sprintf("BILL%08d%04d", time.Now().UnixMilli()%100000000, rand.Intn(10000))
}
