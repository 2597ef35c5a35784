package models

// Budget is the top-level container for a user's financial data.
// Each user currently resolves to exactly one budget; it is created
// lazily on first access and never deleted.
type Budget struct {
	Base
	UserID uint   `gorm:"not null;index" json:"user_id"`
	Name   string `gorm:"not null" json:"name"`

	// Relationships
	MonthlyBudgets []MonthlyBudget `gorm:"foreignKey:BudgetID" json:"monthly_budgets,omitempty"`
	CategoryGroups []CategoryGroup `gorm:"foreignKey:BudgetID" json:"category_groups,omitempty"`
	Transactions   []Transaction   `gorm:"foreignKey:BudgetID" json:"transactions,omitempty"`
}
