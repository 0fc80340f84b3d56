package main

import (
	"fmt"
	"net/http"
	"os"

	"fincoach/internal/config"
	"fincoach/internal/database"
	"fincoach/internal/engine"
	"fincoach/internal/explain"
	"fincoach/internal/handlers"
	"fincoach/internal/logger"
	"fincoach/internal/middleware"
	"fincoach/internal/notify"
	"fincoach/internal/realtime"
	"fincoach/internal/services"
	"fincoach/internal/validator"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "fincoach/internal/docs" // Import swagger docs
)

// @title           FinCoach API
// @version         1.0
// @description     FinCoach is a financial planning backend: savings goal planning, budget aggregation, obligation scheduling, product recommendations and a predictive alert engine.
// @termsOfService  http://swagger.io/terms/

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

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Narrative explainer for recommendations
	var explainer explain.Explainer = explain.Disabled{}
	if appConfig.ExplainEnabled {
		cached, err := explain.NewCached(explain.NewAnthropicExplainer(appConfig.ExplainModel))
		if err != nil {
			return fmt.Errorf("failed to create explainer cache: %w", err)
		}
		explainer = cached
		log.Infof("Recommendation narratives enabled with model %s", appConfig.ExplainModel)
	}

	// Realtime alert delivery
	hub := realtime.NewHub()
	mailer := notify.NewEmailSender(appConfig)

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	goalService := services.NewGoalService(db)
	transactionService := services.NewTransactionService(db)
	obligationService := services.NewObligationService(db)
	recommendationService := services.NewRecommendationService(db, explainer)
	auditService := services.NewAuditService(db)

	ruleConfig := engine.RuleConfig{
		LookaheadDays: appConfig.AlertLookaheadDay,
		DueSoonDays:   appConfig.AlertDueSoonDays,
	}
	var alertMailer services.AlertMailer
	if mailer != nil {
		alertMailer = mailer
	}
	alertService := services.NewAlertService(db, ruleConfig, hub, alertMailer)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	goalHandler := handlers.NewGoalHandler(goalService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService, auditService)
	obligationHandler := handlers.NewObligationHandler(obligationService, auditService)
	recommendationHandler := handlers.NewRecommendationHandler(recommendationService)
	alertHandler := handlers.NewAlertHandler(alertService)
	wsHandler := handlers.NewWSHandler(hub, alertService)

	// Periodic alert sweep
	sweeper := cron.New()
	if _, err := sweeper.AddFunc(appConfig.AlertSweepSpec, func() {
		created, err := alertService.SweepAllUsers()
		if err != nil {
			log.Errorw("Alert sweep failed", "error", err)
			return
		}
		if created > 0 {
			log.Infow("Alert sweep completed", "created", created)
		}
	}); err != nil {
		return fmt.Errorf("invalid alert sweep spec %q: %w", appConfig.AlertSweepSpec, err)
	}
	sweeper.Start()
	defer sweeper.Stop()

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
	auth.POST("/refresh", authHandler.Refresh)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)

	// Goal routes
	goals := protected.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetUserGoals)
	goals.GET("/plan", goalHandler.PlanActiveGoals)
	goals.GET("/:id", goalHandler.GetGoalByID)
	goals.GET("/:id/plan", goalHandler.PlanGoal)
	goals.POST("/:id/contribute", goalHandler.RecordContribution)
	goals.POST("/:id/abandon", goalHandler.AbandonGoal)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetUserTransactions)
	transactions.GET("/:id", transactionHandler.GetTransactionByID)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Budget summary
	protected.GET("/budget/summary", transactionHandler.GetBudgetSummary)

	// Obligation routes
	obligations := protected.Group("/obligations")
	obligations.POST("", obligationHandler.CreateObligation)
	obligations.GET("", obligationHandler.GetUserObligations)
	obligations.GET("/schedule", obligationHandler.GetSchedule)
	obligations.POST("/:id/pay", obligationHandler.MarkPaid)
	obligations.DELETE("/:id", obligationHandler.DeleteObligation)

	// Product and recommendation routes
	protected.GET("/products", recommendationHandler.ListProducts)
	protected.GET("/recommendations", recommendationHandler.GetRecommendations)

	// Alert routes
	alerts := protected.Group("/alerts")
	alerts.GET("", alertHandler.GetAlerts)
	alerts.POST("/generate", alertHandler.GenerateAlerts)
	alerts.POST("/:id/read", alertHandler.MarkAlertRead)

	// Realtime alert stream
	protected.GET("/ws/alerts", wsHandler.Stream)

	log.Infof("Starting FinCoach backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
