package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/domain/model"
)

// BillRepository describes persistence operations for bills.
type BillRepository interface {
	Create(ctx context.Context, bill *model.Bill) (*model.Bill, error)
	GetByNumber(ctx context.Context, number string) (*model.Bill, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Bill, error)
	// OutstandingAmount sums amount due over pending and overdue bills.
	OutstandingAmount(ctx context.Context, userID uuid.UUID) (float64, error)
	// MonthlyUsage aggregates energy usage per billing month, oldest first.
	MonthlyUsage(ctx context.Context, userID uuid.UUID, months int) ([]model.UsagePoint, error)
	MarkPaid(ctx context.Context, billID uuid.UUID, method model.PaymentMethod, paidAt time.Time) error
	// SelectDueForReview claims pending bills past their due date for
	// the overdue sweep.
	SelectDueForReview(ctx context.Context, asOf time.Time, limit int) ([]model.Bill, error)
	UpdateStatus(ctx context.Context, billID uuid.UUID, status model.BillStatus) error
}
