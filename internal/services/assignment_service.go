package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "envelo/internal/errors"
	"envelo/internal/logger"
	"envelo/internal/models"
)

// assignmentService owns the per-(category, month) assignment ledger.
type assignmentService struct {
	db           *gorm.DB
	monthService MonthServicer
}

// NewAssignmentService creates a new AssignmentServicer.
func NewAssignmentService(db *gorm.DB, monthService MonthServicer) AssignmentServicer {
	return &assignmentService{db: db, monthService: monthService}
}

// SetAssignedAmount upserts the assigned amount for (month, category) and
// applies the delta (previous − new) to the month's available balance:
// assigning more money reduces what is available, reducing an assignment
// returns money to the pool. Both writes run in one database transaction;
// a failure applying the delta rolls the assignment back and is surfaced
// with a distinct code so the two-phase hazard stays visible to operators.
func (s *assignmentService) SetAssignedAmount(userID, monthID, categoryID uint, newAmount decimal.Decimal) (*models.MonthlyCategoryDetail, error) {
	if newAmount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "assigned amount must be non-negative")
	}

	if _, err := s.monthService.GetMonthByID(userID, monthID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.Category{}).Where("id = ? AND user_id = ?", categoryID, userID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrCategoryNotFound
	}

	var detail models.MonthlyCategoryDetail
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Previous assigned amount; a missing row means 0, not an error.
		previous := decimal.Zero
		var existing models.MonthlyCategoryDetail
		err := tx.Where("monthly_budget_id = ? AND category_id = ?", monthID, categoryID).First(&existing).Error
		if err == nil {
			previous = existing.AmountAssigned
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		// True upsert on the composite key: the first assignment for a
		// category in a month has no row yet.
		detail = models.MonthlyCategoryDetail{
			UserID:          userID,
			MonthlyBudgetID: monthID,
			CategoryID:      categoryID,
			AmountAssigned:  newAmount,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "monthly_budget_id"}, {Name: "category_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{"amount_assigned": newAmount}),
		}).Create(&detail).Error; err != nil {
			logger.Get().Errorw("failed to upsert assignment",
				"monthly_budget_id", monthID, "category_id", categoryID, "error", err)
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		delta := previous.Sub(newAmount)
		if err := s.monthService.AddToAvailable(tx, monthID, delta); err != nil {
			logger.Get().Errorw("assignment written but available delta failed, rolling back",
				"monthly_budget_id", monthID, "category_id", categoryID, "delta", delta, "error", err)
			return apperrors.Wrap(apperrors.ErrInconsistentState, err)
		}

		// Return the persisted row; client-side optimistic amounts may be
		// rounded differently than what was stored.
		if err := tx.Where("monthly_budget_id = ? AND category_id = ?", monthID, categoryID).First(&detail).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &detail, nil
}

// CreateDetail seeds a zero-assignment row for a category in a month, so
// later lookups never need to distinguish "no detail row yet" from "category
// does not exist".
func (s *assignmentService) CreateDetail(userID, categoryID, monthID uint) (*models.MonthlyCategoryDetail, error) {
	detail := &models.MonthlyCategoryDetail{
		UserID:          userID,
		MonthlyBudgetID: monthID,
		CategoryID:      categoryID,
	}
	if err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "monthly_budget_id"}, {Name: "category_id"}},
		DoNothing: true,
	}).Create(detail).Error; err != nil {
		logger.Get().Errorw("failed to seed assignment detail",
			"monthly_budget_id", monthID, "category_id", categoryID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return detail, nil
}

// ListDetails returns all assignment details for a month.
func (s *assignmentService) ListDetails(userID, monthID uint) ([]models.MonthlyCategoryDetail, error) {
	var details []models.MonthlyCategoryDetail
	if err := s.db.Where("monthly_budget_id = ? AND user_id = ?", monthID, userID).Find(&details).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return details, nil
}
