package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"envelo/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var fixtureCounter atomic.Int64

func nextID() int64 {
	return fixtureCounter.Add(1)
}

// CreateTestUser inserts a user with a unique email and a bcrypt-hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash test password: %v", err)
	}

	user := &models.User{
		Email:    fmt.Sprintf("user%d@example.com", nextID()),
		Password: string(hash),
		IsActive: true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestBudget inserts a budget owned by the given user.
func CreateTestBudget(t *testing.T, db *gorm.DB, userID uint) *models.Budget {
	t.Helper()

	budget := &models.Budget{
		UserID: userID,
		Name:   fmt.Sprintf("Budget %d", nextID()),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test budget: %v", err)
	}
	return budget
}

// CreateTestMonth inserts a monthly budget for the given month, normalized to
// the first day of the month in UTC.
func CreateTestMonth(t *testing.T, db *gorm.DB, userID, budgetID uint, month time.Time) *models.MonthlyBudget {
	t.Helper()

	first := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	mb := &models.MonthlyBudget{
		UserID:    userID,
		BudgetID:  budgetID,
		Month:     first,
		Available: decimal.Zero,
	}
	if err := db.Create(mb).Error; err != nil {
		t.Fatalf("failed to create test monthly budget: %v", err)
	}
	return mb
}

// CreateTestGroup inserts a category group in the given budget.
func CreateTestGroup(t *testing.T, db *gorm.DB, userID, budgetID uint) *models.CategoryGroup {
	t.Helper()

	group := &models.CategoryGroup{
		UserID:   userID,
		BudgetID: budgetID,
		Name:     fmt.Sprintf("Group %d", nextID()),
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test category group: %v", err)
	}
	return group
}

// CreateTestCategory inserts a category in the given group.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID, budgetID, groupID uint) *models.Category {
	t.Helper()

	category := &models.Category{
		UserID:   userID,
		BudgetID: budgetID,
		GroupID:  groupID,
		Name:     fmt.Sprintf("Category %d", nextID()),
	}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestDetail inserts a monthly category detail row.
func CreateTestDetail(t *testing.T, db *gorm.DB, userID, monthID, categoryID uint, assigned decimal.Decimal) *models.MonthlyCategoryDetail {
	t.Helper()

	detail := &models.MonthlyCategoryDetail{
		UserID:          userID,
		MonthlyBudgetID: monthID,
		CategoryID:      categoryID,
		AmountAssigned:  assigned,
		AmountSpent:     decimal.Zero,
		Carryover:       decimal.Zero,
	}
	if err := db.Create(detail).Error; err != nil {
		t.Fatalf("failed to create test detail: %v", err)
	}
	return detail
}

// CreateTestTransaction inserts a transaction. categoryID may be nil for
// uncategorized transactions.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID, budgetID uint, categoryID *uint, txType models.TransactionType, amount decimal.Decimal, date time.Time) *models.Transaction {
	t.Helper()

	txn := &models.Transaction{
		UserID:     userID,
		BudgetID:   budgetID,
		CategoryID: categoryID,
		Type:       txType,
		Amount:     amount,
		Date:       time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		Cleared:    true,
	}
	if err := db.Create(txn).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return txn
}
