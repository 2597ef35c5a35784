package integration

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
)

func TestAssignFlow_AssignAndReassign(t *testing.T) {
	app := setupApp(t)
	token, budgetID := app.setupBudget(t, "assign@test.com")
	_, categoryID := app.createCategory(t, token, budgetID, "Bills", "Rent")

	rec := app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/months/current", budgetID), "", token)
	monthID := parseJSON(t, rec)["monthly_budget"].(map[string]interface{})["id"].(float64)

	// Assign 500.
	rec = app.request("PUT", fmt.Sprintf("/api/v1/months/%.0f/categories/%.0f/assigned", monthID, categoryID),
		`{"amount":"500"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	detail := parseJSON(t, rec)["detail"].(map[string]interface{})
	assigned, err := decimal.NewFromString(fmt.Sprintf("%v", detail["amount_assigned"]))
	if err != nil {
		t.Fatalf("failed to parse amount_assigned: %v", err)
	}
	if !assigned.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected assigned 500, got %s", assigned)
	}

	// The month's available balance drops by the amount assigned.
	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/months/current", budgetID), "", token)
	month := parseJSON(t, rec)["monthly_budget"].(map[string]interface{})
	available, err := decimal.NewFromString(fmt.Sprintf("%v", month["available"]))
	if err != nil {
		t.Fatalf("failed to parse available: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(-500)) {
		t.Errorf("expected available -500, got %s", available)
	}

	// Lower the assignment to 200; 300 returns to the pool.
	rec = app.request("PUT", fmt.Sprintf("/api/v1/months/%.0f/categories/%.0f/assigned", monthID, categoryID),
		`{"amount":"200"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/months/current", budgetID), "", token)
	month = parseJSON(t, rec)["monthly_budget"].(map[string]interface{})
	available, err = decimal.NewFromString(fmt.Sprintf("%v", month["available"]))
	if err != nil {
		t.Fatalf("failed to parse available: %v", err)
	}
	if !available.Equal(decimal.NewFromInt(-200)) {
		t.Errorf("expected available -200 after lowering, got %s", available)
	}
}

func TestAssignFlow_NegativeAmountRejected(t *testing.T) {
	app := setupApp(t)
	token, budgetID := app.setupBudget(t, "negassign@test.com")
	_, categoryID := app.createCategory(t, token, budgetID, "Bills", "Power")

	rec := app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/months/current", budgetID), "", token)
	monthID := parseJSON(t, rec)["monthly_budget"].(map[string]interface{})["id"].(float64)

	rec = app.request("PUT", fmt.Sprintf("/api/v1/months/%.0f/categories/%.0f/assigned", monthID, categoryID),
		`{"amount":"-100"}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAssignFlow_UnknownCategory(t *testing.T) {
	app := setupApp(t)
	token, budgetID := app.setupBudget(t, "unkcat@test.com")

	rec := app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/months/current", budgetID), "", token)
	monthID := parseJSON(t, rec)["monthly_budget"].(map[string]interface{})["id"].(float64)

	rec = app.request("PUT", fmt.Sprintf("/api/v1/months/%.0f/categories/9999/assigned", monthID),
		`{"amount":"100"}`, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestAssignFlow_ListDetails(t *testing.T) {
	app := setupApp(t)
	token, budgetID := app.setupBudget(t, "details@test.com")
	_, cat1 := app.createCategory(t, token, budgetID, "Needs", "Food")
	_, cat2 := app.createCategory(t, token, budgetID, "Wants", "Games")

	rec := app.request("GET", fmt.Sprintf("/api/v1/budgets/%.0f/months/current", budgetID), "", token)
	monthID := parseJSON(t, rec)["monthly_budget"].(map[string]interface{})["id"].(float64)

	rec = app.request("PUT", fmt.Sprintf("/api/v1/months/%.0f/categories/%.0f/assigned", monthID, cat1),
		`{"amount":"150"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("PUT", fmt.Sprintf("/api/v1/months/%.0f/categories/%.0f/assigned", monthID, cat2),
		`{"amount":"50"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = app.request("GET", fmt.Sprintf("/api/v1/months/%.0f/details", monthID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	details := parseJSON(t, rec)["details"].([]interface{})
	// Both categories were seeded on creation, so both rows exist.
	if len(details) != 2 {
		t.Fatalf("expected 2 details, got %d", len(details))
	}
}
