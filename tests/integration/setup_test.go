package integration

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"envelo/internal/handlers"
	"envelo/internal/logger"
	"envelo/internal/middleware"
	"envelo/internal/models"
	"envelo/internal/services"
	"envelo/internal/validator"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB     *gorm.DB
	Router *gin.Engine
}

// dbCounter ensures each test gets a unique in-memory database.
var dbCounter atomic.Int64

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupIsolatedDB creates an isolated in-memory SQLite database for a single test.
func setupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()

	n := dbCounter.Add(1)
	dsn := fmt.Sprintf("file:apptestdb%d?mode=memory&cache=shared", n)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	allModels := []interface{}{
		&models.User{},
		&models.Budget{},
		&models.MonthlyBudget{},
		&models.CategoryGroup{},
		&models.Category{},
		&models.MonthlyCategoryDetail{},
		&models.Transaction{},
		&models.AuditLog{},
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	db := setupIsolatedDB(t)

	// Services
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	monthService := services.NewMonthService(db)
	assignmentService := services.NewAssignmentService(db, monthService)
	transactionService := services.NewTransactionService(db, budgetService)
	fundsService := services.NewFundsService(db)
	categoryService := services.NewCategoryService(db, monthService, assignmentService)
	auditService := services.NewAuditService(db)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, monthService, fundsService)
	monthHandler := handlers.NewMonthHandler(assignmentService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())

	v1 := router.Group("/api/v1")

	// Public auth routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/budget", budgetHandler.GetDefaultBudget)
	budgets := protected.Group("/budgets")
	budgets.GET("/:id/months/current", budgetHandler.GetCurrentMonth)
	budgets.GET("/:id/available", budgetHandler.GetAvailable)
	budgets.POST("/:id/transactions", transactionHandler.CreateTransaction)
	budgets.GET("/:id/transactions", transactionHandler.GetTransactions)
	budgets.POST("/:id/groups", categoryHandler.CreateGroup)
	budgets.GET("/:id/groups", categoryHandler.ListGroups)
	budgets.POST("/:id/categories", categoryHandler.CreateCategory)
	budgets.GET("/:id/categories", categoryHandler.ListCategories)

	months := protected.Group("/months")
	months.GET("/:id/details", monthHandler.ListDetails)
	months.PUT("/:id/categories/:categoryID/assigned", monthHandler.SetAssigned)

	categories := protected.Group("/categories")
	categories.PUT("/:id/name", categoryHandler.RenameCategory)
	categories.PUT("/:id/goal", categoryHandler.UpdateGoal)

	transactions := protected.Group("/transactions")
	transactions.PUT("/:id/category", transactionHandler.UpdateCategory)

	return &testApp{DB: db, Router: router}
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}

// registerUser registers a new user and returns the token and user ID.
func (app *testApp) registerUser(t *testing.T, email, password string) (token string, userID float64) {
	t.Helper()
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	rec := app.request("POST", "/api/v1/auth/register", body, "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	user := result["user"].(map[string]interface{})
	return result["token"].(string), user["id"].(float64)
}

// setupBudget registers a user and fetches their default budget, returning
// the token and budget ID.
func (app *testApp) setupBudget(t *testing.T, email string) (token string, budgetID float64) {
	t.Helper()
	token, _ = app.registerUser(t, email, "password123")

	rec := app.request("GET", "/api/v1/budget", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("fetching budget failed: %d %s", rec.Code, rec.Body.String())
	}
	budget := parseJSON(t, rec)["budget"].(map[string]interface{})
	return token, budget["id"].(float64)
}

// createCategory creates a group and a category in it, returning both IDs.
func (app *testApp) createCategory(t *testing.T, token string, budgetID float64, groupName, catName string) (groupID, categoryID float64) {
	t.Helper()

	rec := app.request("POST", fmt.Sprintf("/api/v1/budgets/%.0f/groups", budgetID),
		fmt.Sprintf(`{"name":%q}`, groupName), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating group failed: %d %s", rec.Code, rec.Body.String())
	}
	group := parseJSON(t, rec)["group"].(map[string]interface{})
	groupID = group["id"].(float64)

	rec = app.request("POST", fmt.Sprintf("/api/v1/budgets/%.0f/categories", budgetID),
		fmt.Sprintf(`{"group_id":%.0f,"name":%q}`, groupID, catName), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("creating category failed: %d %s", rec.Code, rec.Body.String())
	}
	category := parseJSON(t, rec)["category"].(map[string]interface{})
	return groupID, category["id"].(float64)
}
