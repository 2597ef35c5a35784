package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperrors "envelo/internal/errors"
	"envelo/internal/logger"
	"envelo/internal/models"
)

// budgetService handles budget-related business logic.
type budgetService struct {
	db *gorm.DB
}

// NewBudgetService creates a new BudgetServicer.
func NewBudgetService(db *gorm.DB) BudgetServicer {
	return &budgetService{db: db}
}

// GetOrCreateDefaultBudget returns the user's budget, creating one named
// "<email>'s Budget" on first access. A missing budget row is not an error;
// it triggers creation. Any other lookup failure is surfaced.
func (s *budgetService) GetOrCreateDefaultBudget(userID uint) (*models.Budget, error) {
	var budget models.Budget
	err := s.db.Where("user_id = ?", userID).Order("id ASC").First(&budget).Error
	if err == nil {
		return &budget, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Get().Errorw("failed to look up default budget", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return s.CreateBudget(userID, fmt.Sprintf("%s's Budget", user.Email))
}

// CreateBudget creates a budget for the user with the given display name.
func (s *budgetService) CreateBudget(userID uint, name string) (*models.Budget, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}

	budget := &models.Budget{
		UserID: userID,
		Name:   name,
	}
	if err := s.db.Create(budget).Error; err != nil {
		logger.Get().Errorw("failed to create budget", "user_id", userID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budget, nil
}

// GetBudgetByID returns a budget by ID if it belongs to the user.
func (s *budgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	var budget models.Budget
	if err := s.db.Where("id = ? AND user_id = ?", budgetID, userID).First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}
