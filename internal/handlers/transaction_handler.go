package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "envelo/internal/errors"
	"envelo/internal/models"
	"envelo/internal/pagination"
	"envelo/internal/services"
)

// TransactionHandler handles transaction ledger requests.
type TransactionHandler struct {
	transactionService services.TransactionServicer
	auditService       services.AuditServicer
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactionService services.TransactionServicer, auditService services.AuditServicer) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService, auditService: auditService}
}

// CreateTransactionRequest represents the payload for inserting a transaction.
type CreateTransactionRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Type       string          `json:"type" binding:"required,transaction_type"`
	CategoryID *uint           `json:"category_id"`
	Date       *string         `json:"date"` // YYYY-MM-DD; defaults to today
	Note       string          `json:"note" binding:"max=500"`
	Cleared    *bool           `json:"cleared"`
	Payee      *string         `json:"payee" binding:"omitempty,max=100"`
}

// UpdateCategoryRequest represents the payload for reassigning a transaction's category.
type UpdateCategoryRequest struct {
	CategoryID *uint `json:"category_id"`
}

// CreateTransaction inserts a transaction into a budget's ledger.
// @Summary     Insert a transaction
// @Description Insert an inflow or outflow transaction into the budget's ledger
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                      true "Budget ID"
// @Param       request body CreateTransactionRequest true "Transaction details"
// @Success     201 {object} models.Transaction "Transaction created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/transactions [post]
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
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

	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var date *time.Time
	if req.Date != nil && *req.Date != "" {
		d, err := time.ParseInLocation("2006-01-02", *req.Date, time.UTC)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "date must be a valid date (YYYY-MM-DD)"))
			return
		}
		date = &d
	}

	transaction, err := h.transactionService.CreateTransaction(
		userID, budgetID, req.Amount, models.TransactionType(req.Type),
		req.CategoryID, date, req.Note, req.Cleared, req.Payee,
	)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "CREATE_TRANSACTION", "transaction", transaction.ID, c.ClientIP(),
		map[string]interface{}{"budget_id": budgetID, "type": req.Type, "amount": req.Amount})

	c.JSON(http.StatusCreated, gin.H{"transaction": transaction})
}

// GetTransactions lists a budget's transactions. With a `through` date it
// returns the full ascending ledger up to that date; otherwise it returns a
// paginated, filtered page for display.
// @Summary     List transactions
// @Description List the budget's transactions, either as a full ledger through a date or as a paginated page
// @Tags        transactions
// @Produce     json
// @Security    BearerAuth
// @Param       id          path  int    true  "Budget ID"
// @Param       through     query string false "Return the full ledger through this date (YYYY-MM-DD)"
// @Param       from        query string false "Filter: from date (YYYY-MM-DD)"
// @Param       to          query string false "Filter: to date (YYYY-MM-DD)"
// @Param       type        query string false "Filter: inflow or outflow"
// @Param       page        query int    false "Page number (default 1)"
// @Param       page_size   query int    false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Transaction] "Transactions"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Budget not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /budgets/{id}/transactions [get]
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
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

	if c.Query("through") != "" {
		through, err := parseDateQuery(c, "through")
		if err != nil {
			respondWithError(c, err)
			return
		}
		transactions, err := h.transactionService.ListTransactions(userID, budgetID, through)
		if err != nil {
			respondWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"transactions": transactions})
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	filter, err := parseTransactionFilter(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.transactionService.GetBudgetTransactions(userID, budgetID, page, filter)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func parseTransactionFilter(c *gin.Context) (services.TransactionFilter, error) {
	var filter services.TransactionFilter

	if v := c.Query("from"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "from must be a valid date (YYYY-MM-DD)")
		}
		filter.FromDate = &d
	}
	if v := c.Query("to"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, time.UTC)
		if err != nil {
			return filter, apperrors.WithMessage(apperrors.ErrInvalidInput, "to must be a valid date (YYYY-MM-DD)")
		}
		filter.ToDate = &d
	}
	if v := c.Query("type"); v != "" {
		t := models.TransactionType(v)
		if t != models.TransactionTypeInflow && t != models.TransactionTypeOutflow {
			return filter, apperrors.ErrInvalidTransactionType
		}
		filter.Type = &t
	}
	return filter, nil
}

// UpdateCategory reassigns or clears a transaction's category.
// @Summary     Reassign a transaction's category
// @Description Set or clear the category of an existing transaction
// @Tags        transactions
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path int                   true "Transaction ID"
// @Param       request body UpdateCategoryRequest true "New category (null to clear)"
// @Success     200 {object} models.Transaction "Updated transaction"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Transaction or category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /transactions/{id}/category [put]
func (h *TransactionHandler) UpdateCategory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	transactionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	transaction, err := h.transactionService.UpdateTransactionCategory(userID, transactionID, req.CategoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"transaction": transaction})
}
