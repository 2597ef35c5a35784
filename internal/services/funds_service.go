package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "envelo/internal/errors"
	"envelo/internal/logger"
	"envelo/internal/models"
)

// fundsService computes the "ready to assign" balance for a budget.
type fundsService struct {
	db *gorm.DB
}

// NewFundsService creates a new FundsServicer.
func NewFundsService(db *gorm.DB) FundsServicer {
	return &fundsService{db: db}
}

// ComputeAvailable reduces the budget's history up to asOf into one signed
// amount: all inflow that has neither been assigned to a category nor spent
// without one. It fetches transactions dated on or before asOf (inclusive),
// monthly budgets at or before asOf, and every assignment detail belonging
// to those months. Details carry no date column, only a month foreign key,
// so they are scoped by the id of the latest month found.
//
// Any storage failure short-circuits the computation; there is no
// partial-result fallback. Empty inputs reduce to zero, and the result may
// legitimately go negative when more money is assigned than has come in.
func (s *fundsService) ComputeAvailable(userID, budgetID uint, asOf time.Time) (decimal.Decimal, error) {
	if asOf.IsZero() {
		return decimal.Zero, apperrors.WithMessage(apperrors.ErrInvalidInput, "a valid as-of date is required")
	}
	cutoff := dateOnlyUTC(asOf)

	var transactions []models.Transaction
	err := s.db.Where("budget_id = ? AND user_id = ? AND date <= ?", budgetID, userID, cutoff).
		Order("date ASC").
		Find(&transactions).Error
	if err != nil {
		logger.Get().Errorw("failed to fetch transactions for available funds",
			"budget_id", budgetID, "as_of", cutoff, "error", err)
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var months []models.MonthlyBudget
	err = s.db.Where("budget_id = ? AND user_id = ? AND month <= ?", budgetID, userID, cutoff).
		Order("month ASC").
		Find(&months).Error
	if err != nil {
		logger.Get().Errorw("failed to fetch monthly budgets for available funds",
			"budget_id", budgetID, "as_of", cutoff, "error", err)
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	// With no months at or before the cutoff the detail scope is empty and
	// total assigned defaults to zero.
	var lastMonthID uint
	if len(months) > 0 {
		lastMonthID = months[len(months)-1].ID
	}

	var details []models.MonthlyCategoryDetail
	err = s.db.Where("user_id = ? AND monthly_budget_id <= ?", userID, lastMonthID).
		Order("monthly_budget_id ASC").
		Find(&details).Error
	if err != nil {
		logger.Get().Errorw("failed to fetch assignment details for available funds",
			"budget_id", budgetID, "last_month_id", lastMonthID, "error", err)
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return availableFunds(transactions, details), nil
}

// availableFunds is the pure reduction behind ComputeAvailable:
//
//	available = total inflow − total assigned − total uncategorized outflow
//
// Categorized outflow is deliberately excluded: that spending is already
// covered by its category's assignment, and subtracting it here would
// double-count it. Only spending with no category reduces the pool directly.
func availableFunds(transactions []models.Transaction, details []models.MonthlyCategoryDetail) decimal.Decimal {
	available := decimal.Zero
	for _, t := range transactions {
		switch {
		case t.Type == models.TransactionTypeInflow:
			available = available.Add(t.Amount)
		case t.Type == models.TransactionTypeOutflow && t.CategoryID == nil:
			available = available.Sub(t.Amount)
		}
	}
	for _, d := range details {
		available = available.Sub(d.AmountAssigned)
	}
	return available
}
