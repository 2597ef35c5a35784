package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "envelo/internal/errors"
	"envelo/internal/logger"
	"envelo/internal/models"
	"envelo/internal/pagination"
)

// transactionService is the append-only ledger of inflow/outflow events.
type transactionService struct {
	db            *gorm.DB
	budgetService BudgetServicer
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB, budgetService BudgetServicer) TransactionServicer {
	return &transactionService{db: db, budgetService: budgetService}
}

// CreateTransaction validates and inserts a transaction. Amounts are stored
// non-negative; the sign is implied by the type. Date defaults to today and
// cleared defaults to true when omitted.
func (s *transactionService) CreateTransaction(
	userID, budgetID uint,
	amount decimal.Decimal,
	txType models.TransactionType,
	categoryID *uint,
	date *time.Time,
	note string,
	cleared *bool,
	payee *string,
) (*models.Transaction, error) {
	if amount.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be non-negative")
	}
	if txType != models.TransactionTypeInflow && txType != models.TransactionTypeOutflow {
		return nil, apperrors.ErrInvalidTransactionType
	}

	if _, err := s.budgetService.GetBudgetByID(userID, budgetID); err != nil {
		return nil, err
	}
	if categoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ? AND user_id = ?", *categoryID, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	txDate := dateOnlyUTC(time.Now())
	if date != nil && !date.IsZero() {
		txDate = dateOnlyUTC(*date)
	}
	isCleared := true
	if cleared != nil {
		isCleared = *cleared
	}

	transaction := &models.Transaction{
		UserID:     userID,
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       txDate,
		Cleared:    isCleared,
		Note:       note,
		Payee:      payee,
	}
	if err := s.db.Create(transaction).Error; err != nil {
		logger.Get().Errorw("failed to insert transaction",
			"budget_id", budgetID, "type", txType, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transaction, nil
}

// ListTransactions returns every transaction for the budget dated on or
// before the through date, ascending. Order only matters for deterministic
// display; the available-funds sum is commutative.
func (s *transactionService) ListTransactions(userID, budgetID uint, through time.Time) ([]models.Transaction, error) {
	if through.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "a valid through date is required")
	}

	var transactions []models.Transaction
	err := s.db.Where("budget_id = ? AND user_id = ? AND date <= ?", budgetID, userID, dateOnlyUTC(through)).
		Order("date ASC").
		Find(&transactions).Error
	if err != nil {
		logger.Get().Errorw("failed to list transactions",
			"budget_id", budgetID, "through", through, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// GetBudgetTransactions returns a paginated, filtered transaction list for display.
func (s *transactionService) GetBudgetTransactions(userID, budgetID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if _, err := s.budgetService.GetBudgetByID(userID, budgetID); err != nil {
		return nil, err
	}

	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("budget_id = ? AND user_id = ?", budgetID, userID)
	base = applyTransactionFilters(base, filter)

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Order("date DESC, id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func applyTransactionFilters(q *gorm.DB, f TransactionFilter) *gorm.DB {
	if f.FromDate != nil {
		q = q.Where("date >= ?", dateOnlyUTC(*f.FromDate))
	}
	if f.ToDate != nil {
		q = q.Where("date <= ?", dateOnlyUTC(*f.ToDate))
	}
	if f.Type != nil {
		q = q.Where("type = ?", *f.Type)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	return q
}

// UpdateTransactionCategory reassigns a transaction to a category, or clears
// the category when nil, leaving it uncategorized.
func (s *transactionService) UpdateTransactionCategory(userID, transactionID uint, categoryID *uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if categoryID != nil {
		var count int64
		if err := s.db.Model(&models.Category{}).Where("id = ? AND user_id = ?", *categoryID, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count == 0 {
			return nil, apperrors.ErrCategoryNotFound
		}
	}

	if err := s.db.Model(&transaction).Update("category_id", categoryID).Error; err != nil {
		logger.Get().Errorw("failed to update transaction category",
			"transaction_id", transactionID, "error", err)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}
