package services

import (
	"time"

	"fincoach/internal/engine"
	"fincoach/internal/models"
	"fincoach/internal/pagination"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	CreateUser(email, password, fullName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id uint) (*models.User, error)
	VerifyPassword(user *models.User, password string) bool
	AttemptLogin(email, password string) (*models.User, error)
	UpdateProfile(userID uint, income *float64, riskTolerance *models.RiskTolerance, liquidBalance *float64) (*models.User, error)
	StoreRefreshTokenHash(userID uint, tokenHash string) error
	GetRefreshTokenHash(userID uint) (string, error)
}

// GoalServicer defines the contract for goal-related business logic.
type GoalServicer interface {
	CreateGoal(userID uint, title string, targetAmount, currentAmount float64, targetDate time.Time, hint *float64, riskTolerance models.RiskTolerance) (*models.Goal, error)
	GetUserGoals(userID uint, page pagination.PageRequest, status *models.GoalStatus) (*pagination.PageResponse[models.Goal], error)
	GetGoalByID(userID, goalID uint) (*models.Goal, error)
	RecordContribution(userID, goalID uint, amount float64) (*models.Goal, error)
	AbandonGoal(userID, goalID uint) (*models.Goal, error)
	PlanGoal(userID, goalID uint) (*engine.GoalPlan, error)
	PlanActiveGoals(userID uint) ([]engine.PlannedGoal, error)
}

// TransactionFilter holds optional filter parameters for listing transactions.
type TransactionFilter struct {
	FromDate *time.Time
	ToDate   *time.Time
	Category *string
}

// TransactionServicer defines the contract for transaction-related business logic.
type TransactionServicer interface {
	CreateTransaction(userID uint, amount float64, category, memo string, date time.Time) (*models.Transaction, error)
	GetUserTransactions(userID uint, page pagination.PageRequest, filter TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	GetTransactionByID(userID, transactionID uint) (*models.Transaction, error)
	DeleteTransaction(userID, transactionID uint) error
	SummarizeBudget(userID uint, window engine.Window) (*engine.BudgetSummary, error)
}

// ObligationServicer defines the contract for obligation-related business logic.
type ObligationServicer interface {
	CreateObligation(userID uint, title string, obligationType models.ObligationType, amount float64, dueDate time.Time, frequency models.ObligationFrequency, provider string) (*models.Obligation, error)
	GetUserObligations(userID uint) ([]models.Obligation, error)
	GetObligationByID(userID, obligationID uint) (*models.Obligation, error)
	MarkPaid(userID, obligationID uint, paidOn time.Time) (*models.Obligation, error)
	DeleteObligation(userID, obligationID uint) error
	Schedule(userID uint, asOf time.Time) ([]engine.ObligationStatus, error)
}

// ProductRecommendation is a ranked product enriched with an optional
// free-text narrative from the explainer collaborator.
type ProductRecommendation struct {
	engine.RankedProduct
	Narrative string `json:"narrative,omitempty"`
}

// RecommendationServicer defines the contract for product recommendations.
type RecommendationServicer interface {
	GetRecommendations(userID uint, limit int) ([]ProductRecommendation, error)
	ListProducts(page pagination.PageRequest) (*pagination.PageResponse[models.Product], error)
}

// AlertServicer defines the contract for the alert engine.
type AlertServicer interface {
	GenerateAlerts(userID uint) ([]models.Alert, error)
	GetAlerts(userID uint, isRead *bool, limit int) ([]models.Alert, error)
	MarkAlertRead(userID, alertID uint) (*models.Alert, error)
	SweepAllUsers() (int, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID uint, action, resourceType string, resourceID uint, ipAddress string, changes map[string]any)
}
