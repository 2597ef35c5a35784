package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoalFrequency represents how often a category goal recurs
type GoalFrequency string

const (
	GoalFrequencyWeekly  GoalFrequency = "weekly"
	GoalFrequencyMonthly GoalFrequency = "monthly"
	GoalFrequencyYearly  GoalFrequency = "yearly"
	GoalFrequencyCustom  GoalFrequency = "custom"
)

// RepeatUnit represents the unit for custom goal repeat intervals
type RepeatUnit string

const (
	RepeatUnitDay   RepeatUnit = "day"
	RepeatUnitWeek  RepeatUnit = "week"
	RepeatUnitMonth RepeatUnit = "month"
	RepeatUnitYear  RepeatUnit = "year"
)

// Category is a spending bucket a user assigns money to. Goal metadata
// (target amount, due date, cadence) is display-level only and never feeds
// the available-funds calculation.
type Category struct {
	Base
	UserID   uint   `gorm:"not null;index" json:"user_id"`
	BudgetID uint   `gorm:"not null;index" json:"budget_id"`
	GroupID  uint   `gorm:"not null;index" json:"group_id"`
	Name     string `gorm:"not null" json:"name"`

	// Goal metadata
	TargetAmount   *decimal.Decimal `gorm:"type:numeric(14,2)" json:"target_amount,omitempty"`
	DueDate        *time.Time       `json:"due_date,omitempty"`
	DueDay         *int             `json:"due_day,omitempty"`
	Frequency      *GoalFrequency   `json:"frequency,omitempty"`
	Repeats        bool             `gorm:"default:false" json:"repeats"`
	RepeatInterval *int             `json:"repeat_interval,omitempty"`
	RepeatUnit     *RepeatUnit      `json:"repeat_unit,omitempty"`
	Snoozed        bool             `gorm:"default:false" json:"snoozed"`

	// Relationships
	Group   CategoryGroup           `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Details []MonthlyCategoryDetail `gorm:"foreignKey:CategoryID" json:"details,omitempty"`
}
