package models

import "time"

// ObligationType classifies a recurring financial obligation
type ObligationType string

const (
	ObligationTypeCreditCardBill ObligationType = "credit_card_bill"
	ObligationTypeEMI            ObligationType = "emi"
	ObligationTypeSIP            ObligationType = "sip"
	ObligationTypeInsurance      ObligationType = "insurance"
	ObligationTypeUtility        ObligationType = "utility"
)

// ObligationFrequency is the recurrence period of an obligation
type ObligationFrequency string

const (
	FrequencyWeekly    ObligationFrequency = "weekly"
	FrequencyMonthly   ObligationFrequency = "monthly"
	FrequencyQuarterly ObligationFrequency = "quarterly"
	FrequencyYearly    ObligationFrequency = "yearly"
	FrequencyOneTime   ObligationFrequency = "one_time"
)

// Obligation represents a recurring financial obligation (bill, EMI,
// SIP, insurance premium, utility). Occurrences are never materialized
// as rows; schedules are computed on demand from DueDate and Frequency.
// LastPaidDate is recorded by the caller when a payment is made and is
// consumed, not produced, by the scheduler.
type Obligation struct {
	Base
	UserID       uint                `gorm:"not null;index" json:"user_id"`
	Title        string              `gorm:"not null" json:"title"`
	Type         ObligationType      `gorm:"column:obligation_type;not null" json:"obligation_type"`
	Amount       float64             `gorm:"not null" json:"amount"`
	DueDate      time.Time           `gorm:"not null" json:"due_date"`
	Frequency    ObligationFrequency `gorm:"not null;default:monthly" json:"frequency"`
	Provider     string              `json:"provider,omitempty"`
	LastPaidDate *time.Time          `json:"last_paid_date,omitempty"`
}
