package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"fincoach/internal/engine"
	apperrors "fincoach/internal/errors"
	"fincoach/internal/models"
)

// obligationService handles obligation-related business logic.
type obligationService struct {
	db *gorm.DB
}

// NewObligationService creates a new ObligationServicer.
func NewObligationService(db *gorm.DB) ObligationServicer {
	return &obligationService{db: db}
}

// CreateObligation registers a recurring or one-time payment
// obligation anchored at dueDate.
func (s *obligationService) CreateObligation(
	userID uint,
	title string,
	obligationType models.ObligationType,
	amount float64,
	dueDate time.Time,
	frequency models.ObligationFrequency,
	provider string,
) (*models.Obligation, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	if dueDate.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "due date is required")
	}

	obligation := &models.Obligation{
		UserID:    userID,
		Title:     strings.TrimSpace(title),
		Type:      obligationType,
		Amount:    amount,
		DueDate:   dueDate,
		Frequency: frequency,
		Provider:  provider,
	}

	if err := s.db.Create(obligation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return obligation, nil
}

// GetUserObligations returns all of the user's obligations ordered by due date.
func (s *obligationService) GetUserObligations(userID uint) ([]models.Obligation, error) {
	var obligations []models.Obligation
	if err := s.db.Where("user_id = ?", userID).Order("due_date asc").Find(&obligations).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return obligations, nil
}

// GetObligationByID returns an obligation by ID if it belongs to the user.
func (s *obligationService) GetObligationByID(userID, obligationID uint) (*models.Obligation, error) {
	var obligation models.Obligation
	if err := s.db.Where("id = ? AND user_id = ?", obligationID, userID).First(&obligation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrObligationNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &obligation, nil
}

// MarkPaid records a payment against the obligation. The payment
// covers the pending occurrence, so the scheduler advances to the one
// after it; a paid one-time obligation is resolved for good. A payment
// dated before the one already recorded is rejected.
func (s *obligationService) MarkPaid(userID, obligationID uint, paidOn time.Time) (*models.Obligation, error) {
	obligation, err := s.GetObligationByID(userID, obligationID)
	if err != nil {
		return nil, err
	}

	if paidOn.IsZero() {
		paidOn = time.Now()
	}
	if obligation.LastPaidDate != nil && paidOn.Before(*obligation.LastPaidDate) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "payment date precedes the last recorded payment")
	}

	obligation.LastPaidDate = &paidOn
	if err := s.db.Save(obligation).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return obligation, nil
}

// DeleteObligation removes the obligation from scheduling entirely.
func (s *obligationService) DeleteObligation(userID, obligationID uint) error {
	obligation, err := s.GetObligationByID(userID, obligationID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(obligation).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Schedule computes the pending occurrence for each of the user's
// obligations as of asOf.
func (s *obligationService) Schedule(userID uint, asOf time.Time) ([]engine.ObligationStatus, error) {
	obligations, err := s.GetUserObligations(userID)
	if err != nil {
		return nil, err
	}
	return engine.ScheduleObligations(obligations, asOf), nil
}
