package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "envelo/internal/errors"
	"envelo/internal/models"
	"envelo/internal/services"
)

// CategoryHandler handles category and category-group requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateGroupRequest represents the payload for creating a category group.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// CreateCategoryRequest represents the payload for creating a category.
type CreateCategoryRequest struct {
	GroupID uint   `json:"group_id" binding:"required"`
	Name    string `json:"name" binding:"required,min=1,max=100"`
}

// RenameCategoryRequest represents the payload for renaming a category.
type RenameCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// UpdateGoalRequest represents the payload for updating a category's goal metadata.
type UpdateGoalRequest struct {
	TargetAmount   *decimal.Decimal `json:"target_amount"`
	DueDate        *string          `json:"due_date"` // YYYY-MM-DD
	DueDay         *int             `json:"due_day" binding:"omitempty,min=1,max=31"`
	Frequency      *string          `json:"frequency" binding:"omitempty,goal_frequency"`
	Repeats        *bool            `json:"repeats"`
	RepeatInterval *int             `json:"repeat_interval" binding:"omitempty,min=1"`
	RepeatUnit     *string          `json:"repeat_unit" binding:"omitempty,repeat_unit"`
	Snoozed        *bool            `json:"snoozed"`
}

// CreateGroup creates a category group for a budget.
// @Summary     Create a category group
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                true "Budget ID"
// @Param       request body CreateGroupRequest true "Group details"
// @Success     201 {object} models.CategoryGroup "Group created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/groups [post]
func (h *CategoryHandler) CreateGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	group, err := h.categoryService.CreateCategoryGroup(userID, budgetID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"group": group})
}

// ListGroups lists a budget's category groups with their categories.
// @Summary     List category groups
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} map[string][]models.CategoryGroup "Groups"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/groups [get]
func (h *CategoryHandler) ListGroups(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.categoryService.ListCategoryGroups(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// CreateCategory creates a category and seeds its detail row for the current month.
// @Summary     Create a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Budget ID"
// @Param       request body CreateCategoryRequest true "Category details"
// @Success     201 {object} models.Category "Category created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Group not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.CreateCategory(userID, budgetID, req.GroupID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// ListCategories lists a budget's categories with a month's details preloaded.
// @Summary     List categories with monthly details
// @Tags        categories
// @Produce     json
// @Security    BearerAuth
// @Param       id       path  int true "Budget ID"
// @Param       month_id query int true "Monthly budget ID"
// @Success     200 {object} map[string][]models.Category "Categories with details"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budgetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthID, err := parseUintQuery(c, "month_id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.ListCategoriesWithDetails(userID, budgetID, monthID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// RenameCategory renames a category.
// @Summary     Rename a category
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Category ID"
// @Param       request body RenameCategoryRequest true "New name"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id}/name [put]
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	category, err := h.categoryService.RenameCategory(userID, categoryID, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}

// UpdateGoal updates a category's goal metadata.
// @Summary     Update a category's goal
// @Tags        categories
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int               true "Category ID"
// @Param       request body UpdateGoalRequest true "Goal fields to update"
// @Success     200 {object} models.Category "Updated category"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{id}/goal [put]
func (h *CategoryHandler) UpdateGoal(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	goal := services.CategoryGoalUpdate{
		TargetAmount:   req.TargetAmount,
		DueDay:         req.DueDay,
		Repeats:        req.Repeats,
		RepeatInterval: req.RepeatInterval,
		Snoozed:        req.Snoozed,
	}
	if req.DueDate != nil {
		d, err := time.ParseInLocation("2006-01-02", *req.DueDate, time.UTC)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "due_date must be a valid date (YYYY-MM-DD)"))
			return
		}
		goal.DueDate = &d
	}
	if req.Frequency != nil {
		f := models.GoalFrequency(*req.Frequency)
		goal.Frequency = &f
	}
	if req.RepeatUnit != nil {
		u := models.RepeatUnit(*req.RepeatUnit)
		goal.RepeatUnit = &u
	}

	category, err := h.categoryService.UpdateCategoryGoal(userID, categoryID, goal)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category})
}
