package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fincoach/internal/engine"
	apperrors "fincoach/internal/errors"
	"fincoach/internal/models"
	"fincoach/internal/pagination"
)

// transactionService handles transaction-related business logic.
type transactionService struct {
	db *gorm.DB
}

// NewTransactionService creates a new TransactionServicer.
func NewTransactionService(db *gorm.DB) TransactionServicer {
	return &transactionService{db: db}
}

// CreateTransaction records a transaction. Amount is signed: positive
// for income, negative for expense. Zero amounts carry no information
// and are rejected.
func (s *transactionService) CreateTransaction(
	userID uint,
	amount float64,
	category, memo string,
	date time.Time,
) (*models.Transaction, error) {
	if amount == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be non-zero")
	}
	if strings.TrimSpace(category) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category is required")
	}
	if date.IsZero() {
		date = time.Now()
	}

	transaction := &models.Transaction{
		UserID:   userID,
		Amount:   amount,
		Category: strings.TrimSpace(category),
		Memo:     memo,
		Date:     date,
	}

	if err := s.db.Create(transaction).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return transaction, nil
}

// GetUserTransactions retrieves a paginated, filtered list of the user's transactions.
func (s *transactionService) GetUserTransactions(
	userID uint,
	page pagination.PageRequest,
	filter TransactionFilter,
) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	base := s.db.Model(&models.Transaction{}).Where("user_id = ?", userID)
	if filter.FromDate != nil {
		base = base.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		base = base.Where("date < ?", *filter.ToDate)
	}
	if filter.Category != nil {
		base = base.Where("LOWER(category) = ?", strings.ToLower(strings.TrimSpace(*filter.Category)))
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Order("date desc").Scopes(pagination.Paginate(page)).Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetTransactionByID returns a transaction by ID if it belongs to the user.
func (s *transactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	var transaction models.Transaction
	if err := s.db.Where("id = ? AND user_id = ?", transactionID, userID).First(&transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &transaction, nil
}

// DeleteTransaction removes a transaction. Recorded transactions are
// immutable; a correction is this delete followed by a new create.
func (s *transactionService) DeleteTransaction(userID, transactionID uint) error {
	transaction, err := s.GetTransactionByID(userID, transactionID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(transaction).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// SummarizeBudget aggregates the user's transactions over the window.
func (s *transactionService) SummarizeBudget(userID uint, window engine.Window) (*engine.BudgetSummary, error) {
	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, window.Start, window.End).
		Order("date asc").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := engine.SummarizeBudget(transactions, window)
	return &summary, nil
}
