package dto

import "github.com/gridbill/gridbill/internal/domain/model"

// UsagePointResponse is one month of the usage series.
type UsagePointResponse struct {
	Month string  `json:"month"`
	Usage float64 `json:"usage"`
}

// DashboardResponse aggregates account state for the portal landing page.
type DashboardResponse struct {
	CurrentBalance float64              `json:"currentBalance"`
	CurrentBill    *BillResponse        `json:"currentBill"`
	RecentBills    []BillResponse       `json:"recentBills"`
	MonthlyUsage   []UsagePointResponse `json:"monthlyUsage"`
}

// NewDashboardResponse converts the domain summary.
func NewDashboardResponse(s *model.DashboardSummary) *DashboardResponse {
	resp := &DashboardResponse{
		CurrentBalance: s.CurrentBalance,
		RecentBills:    NewBillResponses(s.RecentBills),
		MonthlyUsage:   make([]UsagePointResponse, 0, len(s.MonthlyUsage)),
	}
	if s.CurrentBill != nil {
		resp.CurrentBill = NewBillResponse(s.CurrentBill)
	}
	for _, p := range s.MonthlyUsage {
		resp.MonthlyUsage = append(resp.MonthlyUsage, UsagePointResponse{Month: p.Month, Usage: p.Usage})
	}
	return resp
}
