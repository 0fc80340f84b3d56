package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"fincoach/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// CreateTestUser creates a user with a hashed password and unique email.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	email := fmt.Sprintf("user%d@test.com", nextID())
	return CreateTestUserWithEmail(t, db, email)
}

// CreateTestUserWithEmail creates a user with the given email.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:         email,
		Password:      string(hash),
		FullName:      fmt.Sprintf("Test User %d", counter.Load()),
		Income:        5000,
		RiskTolerance: models.RiskToleranceModerate,
		LiquidBalance: 10000,
		IsActive:      true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateTestGoal creates an active goal due monthsAhead months from now.
func CreateTestGoal(t *testing.T, db *gorm.DB, userID uint, targetAmount float64, monthsAhead int) *models.Goal {
	t.Helper()

	goal := &models.Goal{
		UserID:        userID,
		Title:         fmt.Sprintf("Test Goal %d", nextID()),
		TargetAmount:  targetAmount,
		TargetDate:    time.Now().AddDate(0, monthsAhead, 0),
		RiskTolerance: models.RiskToleranceModerate,
		Status:        models.GoalStatusActive,
	}
	if err := db.Create(goal).Error; err != nil {
		t.Fatalf("failed to create test goal: %v", err)
	}
	return goal
}

// CreateTestTransaction creates a transaction with a signed amount.
func CreateTestTransaction(t *testing.T, db *gorm.DB, userID uint, amount float64, category string, date time.Time) *models.Transaction {
	t.Helper()

	tx := &models.Transaction{
		UserID:   userID,
		Amount:   amount,
		Category: category,
		Date:     date,
	}
	if err := db.Create(tx).Error; err != nil {
		t.Fatalf("failed to create test transaction: %v", err)
	}
	return tx
}

// CreateTestObligation creates an obligation anchored at dueDate.
func CreateTestObligation(t *testing.T, db *gorm.DB, userID uint, amount float64, dueDate time.Time, frequency models.ObligationFrequency) *models.Obligation {
	t.Helper()

	obligation := &models.Obligation{
		UserID:    userID,
		Title:     fmt.Sprintf("Test Obligation %d", nextID()),
		Type:      models.ObligationTypeUtility,
		Amount:    amount,
		DueDate:   dueDate,
		Frequency: frequency,
	}
	if err := db.Create(obligation).Error; err != nil {
		t.Fatalf("failed to create test obligation: %v", err)
	}
	return obligation
}

// CreateTestProduct creates a catalog product.
func CreateTestProduct(t *testing.T, db *gorm.DB, riskLevel models.RiskLevel, expectedReturn, minInvestment float64) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:           fmt.Sprintf("Test Product %d", nextID()),
		Type:           models.ProductTypeMutualFund,
		RiskLevel:      riskLevel,
		ExpectedReturn: expectedReturn,
		MinInvestment:  minInvestment,
		Issuer:         "Test Issuer",
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("failed to create test product: %v", err)
	}
	return product
}
