package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// BillStatus describes the payment lifecycle of a bill.
type BillStatus string

const (
	BillStatusPending   BillStatus = "pending"
	BillStatusPaid      BillStatus = "paid"
	BillStatusOverdue   BillStatus = "overdue"
	BillStatusCancelled BillStatus = "cancelled"
)

// PaymentMethod enumerates accepted payment instruments.
type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "credit_card"
	PaymentDebitCard    PaymentMethod = "debit_card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentBankTransfer, PaymentCash:
		return true
	}
	return false
}

// BillingPeriod is the usage interval a bill covers.
type BillingPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MeterReadings are the readings bounding the billing period.
type MeterReadings struct {
	Previous float64 `json:"previous"`
	Current  float64 `json:"current"`
}

// Bill is a single monthly statement for a user account.
type Bill struct {
	ID              uuid.UUID
	BillNumber      string
	UserID          uuid.UUID
	AccountNumber   string
	BillingPeriod   BillingPeriod
	DueDate         time.Time
	EnergyUsage     float64 // kWh
	Rate            float64 // $ per kWh
	EnergyCharge    float64
	ServiceFee      float64
	Taxes           float64
	TotalAmount     float64
	AmountDue       float64
	PreviousBalance float64
	Payments        float64
	Status          BillStatus
	PaidAt          *time.Time
	PaymentMethod   *PaymentMethod
	MeterReadings   MeterReadings
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ComputeTotals derives the charge fields from usage, rate, fees and
// balances. Called by the billing service before every store write so
// the arithmetic is visible at the call site.
func (b *Bill) ComputeTotals() {
	b.EnergyCharge = roundCents(b.EnergyUsage * b.Rate)
	b.TotalAmount = roundCents(b.EnergyCharge + b.ServiceFee + b.Taxes)
	b.AmountDue = roundCents(b.TotalAmount + b.PreviousBalance - b.Payments)
}

// DaysOverdue returns how many whole days the bill is past due, zero
// for anything not pending or not yet due.
func (b *Bill) DaysOverdue(now time.Time) int {
	if b.Status != BillStatusPending && b.Status != BillStatusOverdue {
		return 0
	}
	if !now.After(b.DueDate) {
		return 0
	}
	return int(now.Sub(b.DueDate).Hours() / 24)
}

// BillingDays returns the inclusive length of the billing period.
func (b *Bill) BillingDays() int {
	return int(math.Abs(b.BillingPeriod.End.Sub(b.BillingPeriod.Start).Hours())/24) + 1
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
