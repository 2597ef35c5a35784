package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBudget is one calendar month's instance of a budget, carrying the
// running "available" (ready to assign) balance. Month is always stored as
// 00:00 UTC on the first of the month. Unique per (budget, month) — a missing
// row is a signal to create one, not an error.
type MonthlyBudget struct {
	Base
	UserID    uint            `gorm:"not null;index" json:"user_id"`
	BudgetID  uint            `gorm:"not null;uniqueIndex:idx_budget_month" json:"budget_id"`
	Month     time.Time       `gorm:"not null;uniqueIndex:idx_budget_month" json:"month"`
	Available decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"available"`

	// Relationships
	Details []MonthlyCategoryDetail `gorm:"foreignKey:MonthlyBudgetID" json:"details,omitempty"`
}
