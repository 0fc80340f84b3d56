package models

import (
	"strings"
	"time"
)

// Transaction represents a financial transaction in the system.
// Amount is signed: positive values are income, negative values are
// expenses. Transactions are immutable once recorded; corrections are
// performed by deleting and recreating.
type Transaction struct {
	Base
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	Amount   float64   `gorm:"not null" json:"amount"`
	Category string    `gorm:"not null" json:"category"`
	Memo     string    `json:"memo"`
	Date     time.Time `gorm:"not null;index" json:"date"`
}

// IsIncome reports whether the transaction is an income entry.
func (t *Transaction) IsIncome() bool { return t.Amount > 0 }

// IsExpense reports whether the transaction is an expense entry.
func (t *Transaction) IsExpense() bool { return t.Amount < 0 }

// NormalizedCategory returns the category lower-cased and trimmed,
// the form used for budget aggregation keys.
func (t *Transaction) NormalizedCategory() string {
	return strings.ToLower(strings.TrimSpace(t.Category))
}
