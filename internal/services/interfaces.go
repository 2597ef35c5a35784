package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"envelo/internal/models"
	"envelo/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
}

// BudgetServicer defines the contract for budget-related business logic.
type BudgetServicer interface {
	GetOrCreateDefaultBudget(userID uint) (*models.Budget, error)
	CreateBudget(userID uint, name string) (*models.Budget, error)
	GetBudgetByID(userID, budgetID uint) (*models.Budget, error)
}

// MonthServicer defines the contract for monthly budget period management.
type MonthServicer interface {
	GetOrCreateCurrentMonth(userID, budgetID uint) (*models.MonthlyBudget, error)
	CreateMonth(userID, budgetID uint, month time.Time) (*models.MonthlyBudget, error)
	GetMonthByID(userID, monthID uint) (*models.MonthlyBudget, error)
	AddToAvailable(tx *gorm.DB, monthID uint, delta decimal.Decimal) error
}

// AssignmentServicer defines the contract for per-month category assignments.
type AssignmentServicer interface {
	SetAssignedAmount(userID, monthID, categoryID uint, newAmount decimal.Decimal) (*models.MonthlyCategoryDetail, error)
	CreateDetail(userID, categoryID, monthID uint) (*models.MonthlyCategoryDetail, error)
	ListDetails(userID, monthID uint) ([]models.MonthlyCategoryDetail, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate   *time.Time
	ToDate     *time.Time
	Type       *models.TransactionType
	CategoryID *uint
}

// TransactionServicer defines the contract for the transaction ledger.
type TransactionServicer interface {
	CreateTransaction(userID, budgetID uint, amount decimal.Decimal, txType models.TransactionType, categoryID *uint, date *time.Time, note string, cleared *bool, payee *string) (*models.Transaction, error)
	ListTransactions(userID, budgetID uint, through time.Time) ([]models.Transaction, error)
	GetBudgetTransactions(userID, budgetID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	UpdateTransactionCategory(userID, transactionID uint, categoryID *uint) (*models.Transaction, error)
}

// FundsServicer defines the contract for the available-funds calculation.
type FundsServicer interface {
	ComputeAvailable(userID, budgetID uint, asOf time.Time) (decimal.Decimal, error)
}

// CategoryGoalUpdate holds optional goal fields for a category update.
// Nil fields are left unchanged.
type CategoryGoalUpdate struct {
	TargetAmount   *decimal.Decimal
	DueDate        *time.Time
	DueDay         *int
	Frequency      *models.GoalFrequency
	Repeats        *bool
	RepeatInterval *int
	RepeatUnit     *models.RepeatUnit
	Snoozed        *bool
}

// CategoryServicer defines the contract for category and group management.
type CategoryServicer interface {
	CreateCategoryGroup(userID, budgetID uint, name string) (*models.CategoryGroup, error)
	ListCategoryGroups(userID, budgetID uint) ([]models.CategoryGroup, error)
	CreateCategory(userID, budgetID, groupID uint, name string) (*models.Category, error)
	ListCategoriesWithDetails(userID, budgetID, monthID uint) ([]models.Category, error)
	RenameCategory(userID, categoryID uint, name string) (*models.Category, error)
	UpdateCategoryGoal(userID, categoryID uint, goal CategoryGoalUpdate) (*models.Category, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]interface{})
}
