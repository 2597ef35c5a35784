package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "envelo/internal/errors"
	"envelo/internal/logger"
	"envelo/internal/models"
)

// monthService manages monthly budget periods. Exactly one MonthlyBudget row
// exists per (budget, calendar month); it is created lazily on first access.
type monthService struct {
	db *gorm.DB
}

// NewMonthService creates a new MonthServicer.
func NewMonthService(db *gorm.DB) MonthServicer {
	return &monthService{db: db}
}

// GetOrCreateCurrentMonth returns the monthly budget for the current calendar
// month, creating it with a zero available balance when it does not exist yet.
// "No rows" is a creation signal, never a caller-visible error.
func (s *monthService) GetOrCreateCurrentMonth(userID, budgetID uint) (*models.MonthlyBudget, error) {
	month := firstOfMonthUTC(time.Now())

	var mb models.MonthlyBudget
	err := s.db.Where("budget_id = ? AND user_id = ? AND month = ?", budgetID, userID, month).First(&mb).Error
	if err == nil {
		return &mb, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Get().Errorw("failed to look up current monthly budget",
			"budget_id", budgetID, "month", month, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.CreateMonth(userID, budgetID, month)
}

// CreateMonth inserts the monthly budget row for the given month, normalized
// to 00:00 UTC on the first of the month.
func (s *monthService) CreateMonth(userID, budgetID uint, month time.Time) (*models.MonthlyBudget, error) {
	if month.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a valid month is required")
	}

	mb := &models.MonthlyBudget{
		UserID:    userID,
		BudgetID:  budgetID,
		Month:     firstOfMonthUTC(month),
		Available: decimal.Zero,
	}
	if err := s.db.Create(mb).Error; err != nil {
		logger.Get().Errorw("failed to create monthly budget",
			"budget_id", budgetID, "month", mb.Month, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return mb, nil
}

// GetMonthByID returns a monthly budget by ID if it belongs to the user.
func (s *monthService) GetMonthByID(userID, monthID uint) (*models.MonthlyBudget, error) {
	var mb models.MonthlyBudget
	if err := s.db.Where("id = ? AND user_id = ?", monthID, userID).First(&mb).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrMonthlyBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &mb, nil
}

// AddToAvailable applies a signed delta to a month's available balance as a
// single UPDATE, so concurrent assignment edits for the same month cannot
// lose each other's balance adjustments. Callers pass their transaction
// handle to keep the delta atomic with the write that caused it.
func (s *monthService) AddToAvailable(tx *gorm.DB, monthID uint, delta decimal.Decimal) error {
	res := tx.Model(&models.MonthlyBudget{}).
		Where("id = ?", monthID).
		Update("available", gorm.Expr("available + ?", delta))
	if res.Error != nil {
		logger.Get().Errorw("failed to update available balance",
			"monthly_budget_id", monthID, "delta", delta, "error", res.Error)
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrMonthlyBudgetNotFound
	}
	return nil
}
