package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"envelo/internal/services"
)

// BudgetHandler handles budget and available-funds requests.
type BudgetHandler struct {
	budgetService services.BudgetServicer
	monthService  services.MonthServicer
	fundsService  services.FundsServicer
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetService services.BudgetServicer, monthService services.MonthServicer, fundsService services.FundsServicer) *BudgetHandler {
	return &BudgetHandler{
		budgetService: budgetService,
		monthService:  monthService,
		fundsService:  fundsService,
	}
}

// GetDefaultBudget returns the authenticated user's budget, creating it
// on first access.
// @Summary     Get the user's budget
// @Description Get the user's budget, creating a default one on first access
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Budget "The user's budget"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budget [get]
func (h *BudgetHandler) GetDefaultBudget(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	budget, err := h.budgetService.GetOrCreateDefaultBudget(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"budget": budget})
}

// GetCurrentMonth returns this month's budget period, creating it on first access.
// @Summary     Get the current monthly budget
// @Description Get the monthly budget for the current calendar month, creating it if absent
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Budget ID"
// @Success     200 {object} models.MonthlyBudget "The current monthly budget"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/months/current [get]
func (h *BudgetHandler) GetCurrentMonth(c *gin.Context) {
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

	if _, err := h.budgetService.GetBudgetByID(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	month, err := h.monthService.GetOrCreateCurrentMonth(userID, budgetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"monthly_budget": month})
}

// GetAvailable computes the ready-to-assign balance as of a date.
// @Summary     Get available funds
// @Description Compute the ready-to-assign balance for a budget as of a date
// @Tags        budget
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  int    true "Budget ID"
// @Param       as_of query string true "As-of date (YYYY-MM-DD)"
// @Success     200 {object} map[string]string "Available amount"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/available [get]
func (h *BudgetHandler) GetAvailable(c *gin.Context) {
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

	asOf, err := parseDateQuery(c, "as_of")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if _, err := h.budgetService.GetBudgetByID(userID, budgetID); err != nil {
		respondWithError(c, err)
		return
	}

	available, err := h.fundsService.ComputeAvailable(userID, budgetID, asOf)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"budget_id": budgetID,
		"as_of":     asOf.Format("2006-01-02"),
		"available": available,
	})
}
