package models

// CategoryGroup is a named grouping of categories for display ordering
// (e.g. "Bills", "Needs", "Wants"). It plays no role in calculations.
type CategoryGroup struct {
	Base
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	BudgetID uint   `gorm:"not null;index" json:"budget_id"`
	Name     string `gorm:"not null" json:"name"`

	Categories []Category `gorm:"foreignKey:GroupID" json:"categories,omitempty"`
}
