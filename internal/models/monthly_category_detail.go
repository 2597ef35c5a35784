package models

import "github.com/shopspring/decimal"

// MonthlyCategoryDetail records, per category per month, the amount assigned
// and the amount spent. Unique per (monthly budget, category), enforced by
// upsert-on-conflict rather than insert-then-update.
//
// AmountSpent is a denormalized projection maintained by the storage layer
// (trigger on transaction insert); this service reads it but never writes it.
type MonthlyCategoryDetail struct {
	Base
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	MonthlyBudgetID uint            `gorm:"not null;uniqueIndex:idx_month_category" json:"monthly_budget_id"`
	CategoryID      uint            `gorm:"not null;uniqueIndex:idx_month_category" json:"category_id"`
	AmountAssigned  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"amount_assigned"`
	AmountSpent     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0" json:"amount_spent"`
	Carryover       decimal.Decimal `gorm:"column:carryover_from_previous_month;type:numeric(14,2);not null;default:0" json:"carryover_from_previous_month"`
}
