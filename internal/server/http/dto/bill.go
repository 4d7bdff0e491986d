package dto

import (
	"time"

	"github.com/gridbill/gridbill/internal/domain/model"
)

// IssueBillRequest is the admin payload for creating a bill. Charge
// fields are derived server side and cannot be supplied.
type IssueBillRequest struct {
	UserID          string    `json:"userId"`
	PeriodStart     time.Time `json:"periodStart"`
	PeriodEnd       time.Time `json:"periodEnd"`
	DueDate         time.Time `json:"dueDate"`
	EnergyUsage     float64   `json:"energyUsage"`
	Rate            float64   `json:"rate"`
	ServiceFee      float64   `json:"serviceFee"`
	Taxes           float64   `json:"taxes"`
	PreviousBalance float64   `json:"previousBalance"`
	MeterPrevious   float64   `json:"meterPrevious"`
	MeterCurrent    float64   `json:"meterCurrent"`
	Notes           string    `json:"notes"`
}

// PayRequest selects the payment instrument for a bill.
type PayRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

// BillResponse is the bill representation returned by the API.
type BillResponse struct {
	ID              string     `json:"id"`
	BillNumber      string     `json:"billNumber"`
	AccountNumber   string     `json:"accountNumber"`
	PeriodStart     time.Time  `json:"periodStart"`
	PeriodEnd       time.Time  `json:"periodEnd"`
	DueDate         time.Time  `json:"dueDate"`
	EnergyUsage     float64    `json:"energyUsage"`
	Rate            float64    `json:"rate"`
	EnergyCharge    float64    `json:"energyCharge"`
	ServiceFee      float64    `json:"serviceFee"`
	Taxes           float64    `json:"taxes"`
	TotalAmount     float64    `json:"totalAmount"`
	AmountDue       float64    `json:"amountDue"`
	PreviousBalance float64    `json:"previousBalance"`
	Payments        float64    `json:"payments"`
	Status          string     `json:"status"`
	PaidAt          *time.Time `json:"paidAt,omitempty"`
	PaymentMethod   *string    `json:"paymentMethod,omitempty"`
	MeterPrevious   float64    `json:"meterPrevious"`
	MeterCurrent    float64    `json:"meterCurrent"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// NewBillResponse converts a domain bill into its API representation.
func NewBillResponse(b *model.Bill) *BillResponse {
	resp := &BillResponse{
		ID:              b.ID.String(),
		BillNumber:      b.BillNumber,
		AccountNumber:   b.AccountNumber,
		PeriodStart:     b.BillingPeriod.Start,
		PeriodEnd:       b.BillingPeriod.End,
		DueDate:         b.DueDate,
		EnergyUsage:     b.EnergyUsage,
		Rate:            b.Rate,
		EnergyCharge:    b.EnergyCharge,
		ServiceFee:      b.ServiceFee,
		Taxes:           b.Taxes,
		TotalAmount:     b.TotalAmount,
		AmountDue:       b.AmountDue,
		PreviousBalance: b.PreviousBalance,
		Payments:        b.Payments,
		Status:          string(b.Status),
		PaidAt:          b.PaidAt,
		MeterPrevious:   b.MeterReadings.Previous,
		MeterCurrent:    b.MeterReadings.Current,
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
	}
	if b.PaymentMethod != nil {
		method := string(*b.PaymentMethod)
		resp.PaymentMethod = &method
	}
	return resp
}

// NewBillResponses converts a slice of bills.
func NewBillResponses(bills []model.Bill) []BillResponse {
	result := make([]BillResponse, 0, len(bills))
	for i := range bills {
		result = append(result, *NewBillResponse(&bills[i]))
	}
	return result
}
