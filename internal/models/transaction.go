package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType represents the direction of a transaction
type TransactionType string

const (
	TransactionTypeInflow  TransactionType = "inflow"
	TransactionTypeOutflow TransactionType = "outflow"
)

// Transaction is an append-only inflow/outflow event tied to a budget and
// optionally to a category. Amount is stored non-negative; the sign is
// implied by Type. Date carries no time-of-day component and is normalized
// to UTC before persisting.
type Transaction struct {
	Base
	UserID     uint            `gorm:"not null;index" json:"user_id"`
	BudgetID   uint            `gorm:"not null;index" json:"budget_id"`
	CategoryID *uint           `json:"category_id,omitempty"`
	Type       TransactionType `gorm:"not null" json:"type"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Date       time.Time       `gorm:"not null;index" json:"date"`
	Cleared    bool            `gorm:"default:true" json:"cleared"`
	Note       string          `json:"note"`
	Payee      *string         `json:"payee,omitempty"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}
