package main

import (
	"fmt"
	"net/http"
	"os"

	"envelo/internal/config"
	"envelo/internal/database"
	"envelo/internal/handlers"
	"envelo/internal/logger"
	"envelo/internal/middleware"
	"envelo/internal/services"
	"envelo/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "envelo/internal/docs" // Import swagger docs
)

// @title           Envelo API
// @version         1.0
// @description     Envelo is an envelope-budgeting application: track income and expenses, assign available funds to categories month by month, and see what is still ready to assign.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.Migrate(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	budgetService := services.NewBudgetService(db)
	monthService := services.NewMonthService(db)
	assignmentService := services.NewAssignmentService(db, monthService)
	transactionService := services.NewTransactionService(db, budgetService)
	fundsService := services.NewFundsService(db)
	categoryService := services.NewCategoryService(db, monthService, assignmentService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, monthService, fundsService)
	monthHandler := handlers.NewMonthHandler(assignmentService, auditService)
	categoryHandler := handlers.NewCategoryHandler(categoryService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// Budget routes
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

	// Monthly budget routes
	months := protected.Group("/months")
	months.GET("/:id/details", monthHandler.ListDetails)
	months.PUT("/:id/categories/:categoryID/assigned", monthHandler.SetAssigned)

	// Category routes
	categories := protected.Group("/categories")
	categories.PUT("/:id/name", categoryHandler.RenameCategory)
	categories.PUT("/:id/goal", categoryHandler.UpdateGoal)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.PUT("/:id/category", transactionHandler.UpdateCategory)

	log.Infof("Starting envelo backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
