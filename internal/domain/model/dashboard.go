package model

// UsagePoint is one month of aggregated energy usage.
type UsagePoint struct {
	Month string  `json:"month"` // YYYY-MM
	Usage float64 `json:"usage"` // kWh
}

// DashboardSummary aggregates account state for the portal landing page.
type DashboardSummary struct {
	CurrentBalance float64
	CurrentBill    *Bill
	RecentBills    []Bill
	MonthlyUsage   []UsagePoint
}
