package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/gridbill/gridbill/internal/domain/model"
	"github.com/gridbill/gridbill/internal/domain/repository"
)

const (
	recentBillCount = 5
	usageMonths     = 12
)

// DashboardUseCase aggregates account state for the portal landing page.
type DashboardUseCase struct {
	bills repository.BillRepository
}

// NewDashboardUseCase constructs DashboardUseCase.
func NewDashboardUseCase(bills repository.BillRepository) *DashboardUseCase {
	return &DashboardUseCase{bills: bills}
}

// Summary collects outstanding balance, recent bills and the monthly
// usage series for the user.
func (u *DashboardUseCase) Summary(ctx context.Context, userID uuid.UUID) (*model.DashboardSummary, error) {
	balance, err := u.bills.OutstandingAmount(ctx, userID)
	if err != nil {
		return nil, err
	}

	bills, err := u.bills.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	usage, err := u.bills.MonthlyUsage(ctx, userID, usageMonths)
	if err != nil {
		return nil, err
	}

	summary := &model.DashboardSummary{
		CurrentBalance: balance,
		MonthlyUsage:   usage,
	}
	if len(bills) > 0 {
		current := bills[0]
		summary.CurrentBill = &current
		if len(bills) > recentBillCount {
			bills = bills[:recentBillCount]
		}
		summary.RecentBills = bills
	}

	return summary, nil
}
