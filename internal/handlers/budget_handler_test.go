package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "envelo/internal/errors"
	"envelo/internal/models"
	"envelo/internal/services"
)

// --- mock budget service ---

type mockBudgetService struct {
	getOrCreateDefaultBudgetFn func(userID uint) (*models.Budget, error)
	createBudgetFn             func(userID uint, name string) (*models.Budget, error)
	getBudgetByIDFn            func(userID, budgetID uint) (*models.Budget, error)
}

func (m *mockBudgetService) GetOrCreateDefaultBudget(userID uint) (*models.Budget, error) {
	if m.getOrCreateDefaultBudgetFn != nil {
		return m.getOrCreateDefaultBudgetFn(userID)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) CreateBudget(userID uint, name string) (*models.Budget, error) {
	if m.createBudgetFn != nil {
		return m.createBudgetFn(userID, name)
	}
	return &models.Budget{}, nil
}

func (m *mockBudgetService) GetBudgetByID(userID, budgetID uint) (*models.Budget, error) {
	if m.getBudgetByIDFn != nil {
		return m.getBudgetByIDFn(userID, budgetID)
	}
	return &models.Budget{}, nil
}

var _ services.BudgetServicer = (*mockBudgetService)(nil)

// --- mock month service ---

type mockMonthService struct {
	getOrCreateCurrentMonthFn func(userID, budgetID uint) (*models.MonthlyBudget, error)
	createMonthFn             func(userID, budgetID uint, month time.Time) (*models.MonthlyBudget, error)
	getMonthByIDFn            func(userID, monthID uint) (*models.MonthlyBudget, error)
	addToAvailableFn          func(tx *gorm.DB, monthID uint, delta decimal.Decimal) error
}

func (m *mockMonthService) GetOrCreateCurrentMonth(userID, budgetID uint) (*models.MonthlyBudget, error) {
	if m.getOrCreateCurrentMonthFn != nil {
		return m.getOrCreateCurrentMonthFn(userID, budgetID)
	}
	return &models.MonthlyBudget{}, nil
}

func (m *mockMonthService) CreateMonth(userID, budgetID uint, month time.Time) (*models.MonthlyBudget, error) {
	if m.createMonthFn != nil {
		return m.createMonthFn(userID, budgetID, month)
	}
	return &models.MonthlyBudget{}, nil
}

func (m *mockMonthService) GetMonthByID(userID, monthID uint) (*models.MonthlyBudget, error) {
	if m.getMonthByIDFn != nil {
		return m.getMonthByIDFn(userID, monthID)
	}
	return &models.MonthlyBudget{}, nil
}

func (m *mockMonthService) AddToAvailable(tx *gorm.DB, monthID uint, delta decimal.Decimal) error {
	if m.addToAvailableFn != nil {
		return m.addToAvailableFn(tx, monthID, delta)
	}
	return nil
}

var _ services.MonthServicer = (*mockMonthService)(nil)

// --- mock funds service ---

type mockFundsService struct {
	computeAvailableFn func(userID, budgetID uint, asOf time.Time) (decimal.Decimal, error)
}

func (m *mockFundsService) ComputeAvailable(userID, budgetID uint, asOf time.Time) (decimal.Decimal, error) {
	if m.computeAvailableFn != nil {
		return m.computeAvailableFn(userID, budgetID, asOf)
	}
	return decimal.Zero, nil
}

var _ services.FundsServicer = (*mockFundsService)(nil)

func setupBudgetRouter(handler *BudgetHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.GET("/budget", handler.GetDefaultBudget)
	auth.GET("/budgets/:id/months/current", handler.GetCurrentMonth)
	auth.GET("/budgets/:id/available", handler.GetAvailable)
	return r
}

func TestBudgetHandler_GetDefaultBudget(t *testing.T) {
	t.Run("returns 200 with the budget", func(t *testing.T) {
		svc := &mockBudgetService{
			getOrCreateDefaultBudgetFn: func(userID uint) (*models.Budget, error) {
				return &models.Budget{
					Base:   models.Base{ID: 3},
					UserID: userID,
					Name:   "a@b.com's Budget",
				}, nil
			},
		}
		handler := NewBudgetHandler(svc, &mockMonthService{}, &mockFundsService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budget", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		budget := parseJSON(t, rec)["budget"].(map[string]interface{})
		if budget["name"] != "a@b.com's Budget" {
			t.Errorf("expected default budget name, got %v", budget["name"])
		}
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonthService{}, &mockFundsService{})
		r := gin.New()
		r.GET("/budget", handler.GetDefaultBudget)

		rec := doRequest(r, "GET", "/budget", "")

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetCurrentMonth(t *testing.T) {
	t.Run("returns 200 with the month", func(t *testing.T) {
		monthSvc := &mockMonthService{
			getOrCreateCurrentMonthFn: func(userID, budgetID uint) (*models.MonthlyBudget, error) {
				return &models.MonthlyBudget{
					Base:      models.Base{ID: 11},
					UserID:    userID,
					BudgetID:  budgetID,
					Month:     time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
					Available: decimal.Zero,
				}, nil
			},
		}
		handler := NewBudgetHandler(&mockBudgetService{}, monthSvc, &mockFundsService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/5/months/current", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		month := parseJSON(t, rec)["monthly_budget"].(map[string]interface{})
		if month["id"].(float64) != 11 {
			t.Errorf("expected month 11, got %v", month["id"])
		}
	})

	t.Run("returns 404 when budget is not owned", func(t *testing.T) {
		svc := &mockBudgetService{
			getBudgetByIDFn: func(_, _ uint) (*models.Budget, error) {
				return nil, apperrors.ErrBudgetNotFound
			},
		}
		handler := NewBudgetHandler(svc, &mockMonthService{}, &mockFundsService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/5/months/current", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "BUDGET_NOT_FOUND")
	})

	t.Run("returns 400 on invalid budget id", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonthService{}, &mockFundsService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/abc/months/current", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestBudgetHandler_GetAvailable(t *testing.T) {
	t.Run("returns 200 with the computed amount", func(t *testing.T) {
		fundsSvc := &mockFundsService{
			computeAvailableFn: func(_, _ uint, asOf time.Time) (decimal.Decimal, error) {
				if asOf.Format("2006-01-02") != "2026-01-31" {
					return decimal.Zero, fmt.Errorf("unexpected as-of date %s", asOf)
				}
				return decimal.NewFromInt(300), nil
			},
		}
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonthService{}, fundsSvc)
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/5/available?as_of=2026-01-31", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		available, err := decimal.NewFromString(fmt.Sprintf("%v", result["available"]))
		if err != nil {
			t.Fatalf("failed to parse available: %v", err)
		}
		if !available.Equal(decimal.NewFromInt(300)) {
			t.Errorf("expected available 300, got %s", available)
		}
	})

	t.Run("returns 400 without as_of", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonthService{}, &mockFundsService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/5/available", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
	})

	t.Run("returns 400 on malformed as_of", func(t *testing.T) {
		handler := NewBudgetHandler(&mockBudgetService{}, &mockMonthService{}, &mockFundsService{})
		r := setupBudgetRouter(handler)

		rec := doRequest(r, "GET", "/budgets/5/available?as_of=January", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
