package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "envelo/internal/errors"
	"envelo/internal/logger"
	"envelo/internal/models"
)

// categoryService handles category and category-group management.
type categoryService struct {
	db                *gorm.DB
	monthService      MonthServicer
	assignmentService AssignmentServicer
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB, monthService MonthServicer, assignmentService AssignmentServicer) CategoryServicer {
	return &categoryService{
		db:                db,
		monthService:      monthService,
		assignmentService: assignmentService,
	}
}

// CreateCategoryGroup creates a display grouping for categories.
func (s *categoryService) CreateCategoryGroup(userID, budgetID uint, name string) (*models.CategoryGroup, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name is required")
	}

	group := &models.CategoryGroup{
		UserID:   userID,
		BudgetID: budgetID,
		Name:     name,
	}
	if err := s.db.Create(group).Error; err != nil {
		logger.Get().Errorw("failed to create category group",
			"budget_id", budgetID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return group, nil
}

// ListCategoryGroups returns all groups for a budget with their categories.
func (s *categoryService) ListCategoryGroups(userID, budgetID uint) ([]models.CategoryGroup, error) {
	var groups []models.CategoryGroup
	err := s.db.Where("budget_id = ? AND user_id = ?", budgetID, userID).
		Preload("Categories").
		Order("id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return groups, nil
}

// CreateCategory creates a spending category inside a group and seeds its
// zero-assignment detail row for the current month, so month lookups never
// have to special-case a category with no detail row yet.
func (s *categoryService) CreateCategory(userID, budgetID, groupID uint, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	var group models.CategoryGroup
	if err := s.db.Where("id = ? AND budget_id = ? AND user_id = ?", groupID, budgetID, userID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	category := &models.Category{
		UserID:   userID,
		BudgetID: budgetID,
		GroupID:  groupID,
		Name:     name,
	}
	if err := s.db.Create(category).Error; err != nil {
		logger.Get().Errorw("failed to create category",
			"budget_id", budgetID, "group_id", groupID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	month, err := s.monthService.GetOrCreateCurrentMonth(userID, budgetID)
	if err != nil {
		return nil, err
	}
	if _, err := s.assignmentService.CreateDetail(userID, category.ID, month.ID); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategoriesWithDetails returns the budget's categories with each one's
// assignment detail for the given month preloaded.
func (s *categoryService) ListCategoriesWithDetails(userID, budgetID, monthID uint) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Where("budget_id = ? AND user_id = ?", budgetID, userID).
		Preload("Details", "monthly_budget_id = ?", monthID).
		Order("group_id ASC, id ASC").
		Find(&categories).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// RenameCategory updates a category's display name.
func (s *categoryService) RenameCategory(userID, categoryID uint, name string) (*models.Category, error) {
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	category, err := s.getCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(category).Update("name", name).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// UpdateCategoryGoal updates a category's goal metadata. Nil fields are left
// unchanged. Goal metadata never feeds the available-funds calculation.
func (s *categoryService) UpdateCategoryGoal(userID, categoryID uint, goal CategoryGoalUpdate) (*models.Category, error) {
	category, err := s.getCategory(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if goal.TargetAmount != nil {
		if goal.TargetAmount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be non-negative")
		}
		updates["target_amount"] = *goal.TargetAmount
	}
	if goal.DueDate != nil {
		updates["due_date"] = dateOnlyUTC(*goal.DueDate)
	}
	if goal.DueDay != nil {
		if *goal.DueDay < 1 || *goal.DueDay > 31 {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due day must be between 1 and 31")
		}
		updates["due_day"] = *goal.DueDay
	}
	if goal.Frequency != nil {
		updates["frequency"] = *goal.Frequency
	}
	if goal.Repeats != nil {
		updates["repeats"] = *goal.Repeats
	}
	if goal.RepeatInterval != nil {
		updates["repeat_interval"] = *goal.RepeatInterval
	}
	if goal.RepeatUnit != nil {
		updates["repeat_unit"] = *goal.RepeatUnit
	}
	if goal.Snoozed != nil {
		updates["snoozed"] = *goal.Snoozed
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			logger.Get().Errorw("failed to update category goal",
				"category_id", categoryID, "error", err)
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

func (s *categoryService) getCategory(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}
