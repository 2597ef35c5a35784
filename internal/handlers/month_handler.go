package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "envelo/internal/errors"
	"envelo/internal/services"
)

// MonthHandler handles monthly-budget and assignment requests.
type MonthHandler struct {
	assignmentService services.AssignmentServicer
	auditService      services.AuditServicer
}

// NewMonthHandler creates a new MonthHandler.
func NewMonthHandler(assignmentService services.AssignmentServicer, auditService services.AuditServicer) *MonthHandler {
	return &MonthHandler{assignmentService: assignmentService, auditService: auditService}
}

// AssignRequest represents the payload for setting an assigned amount.
type AssignRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// SetAssigned sets the amount assigned to a category for a month.
// @Summary     Assign funds to a category
// @Description Set the amount assigned to a category for a month and adjust the month's available balance by the difference
// @Tags        months
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id         path int           true "Monthly budget ID"
// @Param       categoryID path int           true "Category ID"
// @Param       request    body AssignRequest true "New assigned amount"
// @Success     200 {object} models.MonthlyCategoryDetail "The stored assignment"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Month or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /months/{id}/categories/{categoryID}/assigned [put]
func (h *MonthHandler) SetAssigned(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}
	categoryID, err := parsePathID(c, "categoryID")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	detail, err := h.assignmentService.SetAssignedAmount(userID, monthID, categoryID, req.Amount)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "SET_ASSIGNED", "monthly_category_detail", detail.ID, c.ClientIP(),
		map[string]interface{}{"monthly_budget_id": monthID, "category_id": categoryID, "amount": req.Amount})

	c.JSON(http.StatusOK, gin.H{"detail": detail})
}

// ListDetails lists all assignment details for a month.
// @Summary     List assignment details
// @Description List all per-category assignment details for a monthly budget
// @Tags        months
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Monthly budget ID"
// @Success     200 {object} map[string][]models.MonthlyCategoryDetail "Assignment details"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /months/{id}/details [get]
func (h *MonthHandler) ListDetails(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	monthID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	details, err := h.assignmentService.ListDetails(userID, monthID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"details": details})
}
