package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"fincoach/internal/engine"
	apperrors "fincoach/internal/errors"
	"fincoach/internal/models"
	"fincoach/internal/pagination"
)

// goalService handles goal-related business logic.
type goalService struct {
	db    *gorm.DB
	rates engine.ReturnRates
}

// NewGoalService creates a new GoalServicer.
func NewGoalService(db *gorm.DB) GoalServicer {
	return &goalService{db: db, rates: engine.DefaultReturnRates()}
}

// CreateGoal creates a new savings goal. Target amount must be
// positive and the target date strictly in the future; both are
// validation errors here, not planner failures.
func (s *goalService) CreateGoal(
	userID uint,
	title string,
	targetAmount, currentAmount float64,
	targetDate time.Time,
	hint *float64,
	riskTolerance models.RiskTolerance,
) (*models.Goal, error) {
	if targetAmount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target amount must be greater than zero")
	}
	if currentAmount < 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "current amount cannot be negative")
	}
	if !targetDate.After(time.Now()) {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "target date must be in the future")
	}
	if riskTolerance == "" {
		riskTolerance = models.RiskToleranceModerate
	}

	goal := &models.Goal{
		UserID:                  userID,
		Title:                   title,
		TargetAmount:            targetAmount,
		CurrentAmount:           currentAmount,
		TargetDate:              targetDate,
		MonthlyContributionHint: hint,
		RiskTolerance:           riskTolerance,
		Status:                  models.GoalStatusActive,
	}
	if goal.IsFunded() {
		goal.Status = models.GoalStatusCompleted
	}

	if err := s.db.Create(goal).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return goal, nil
}

// GetUserGoals returns a paginated list of goals with an optional status filter.
func (s *goalService) GetUserGoals(
	userID uint,
	page pagination.PageRequest,
	status *models.GoalStatus,
) (*pagination.PageResponse[models.Goal], error) {
	page.Defaults()

	base := s.db.Model(&models.Goal{}).Where("user_id = ?", userID)
	if status != nil {
		base = base.Where("status = ?", *status)
	}

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := base.Order("target_date asc").Scopes(pagination.Paginate(page)).Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(goals, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetGoalByID returns a goal by ID if it belongs to the user.
func (s *goalService) GetGoalByID(userID, goalID uint) (*models.Goal, error) {
	var goal models.Goal
	if err := s.db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGoalNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &goal, nil
}

// RecordContribution adds a contribution to the goal's current amount.
// Crossing the target flips the goal to completed.
func (s *goalService) RecordContribution(userID, goalID uint, amount float64) (*models.Goal, error) {
	if amount <= 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "contribution amount must be greater than zero")
	}

	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status != models.GoalStatusActive {
		return nil, apperrors.ErrGoalNotActive
	}

	goal.CurrentAmount += amount
	updates := map[string]interface{}{"current_amount": goal.CurrentAmount}
	if goal.IsFunded() {
		goal.Status = models.GoalStatusCompleted
		updates["status"] = goal.Status
	}

	if err := s.db.Model(goal).Updates(updates).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// AbandonGoal marks a goal abandoned. This is the only path to the
// abandoned state; completed goals cannot be abandoned.
func (s *goalService) AbandonGoal(userID, goalID uint) (*models.Goal, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}
	if goal.Status != models.GoalStatusActive {
		return nil, apperrors.ErrGoalAlreadyEnded
	}

	goal.Status = models.GoalStatusAbandoned
	if err := s.db.Model(goal).Update("status", goal.Status).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return goal, nil
}

// PlanGoal computes the required contribution plan for one goal
// against the owner's current disposable income.
func (s *goalService) PlanGoal(userID, goalID uint) (*engine.GoalPlan, error) {
	goal, err := s.GetGoalByID(userID, goalID)
	if err != nil {
		return nil, err
	}

	disposable, err := s.disposableIncome(userID)
	if err != nil {
		return nil, err
	}

	return engine.PlanGoal(*goal, disposable, time.Now(), s.rates)
}

// PlanActiveGoals plans every active goal for the user. Goals whose
// target date has already passed are skipped rather than failing the
// whole pass.
func (s *goalService) PlanActiveGoals(userID uint) ([]engine.PlannedGoal, error) {
	var goals []models.Goal
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.GoalStatusActive).
		Order("target_date asc").Find(&goals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	disposable, err := s.disposableIncome(userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	planned := make([]engine.PlannedGoal, 0, len(goals))
	for _, goal := range goals {
		plan, err := engine.PlanGoal(goal, disposable, now, s.rates)
		if err != nil {
			if errors.Is(err, apperrors.ErrInvalidGoal) {
				continue
			}
			return nil, err
		}
		planned = append(planned, engine.PlannedGoal{Goal: goal, Plan: *plan})
	}
	return planned, nil
}

func (s *goalService) disposableIncome(userID uint) (float64, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.ErrUserNotFound
		}
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var obligations []models.Obligation
	if err := s.db.Where("user_id = ?", userID).Find(&obligations).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return engine.DisposableIncome(user.Income, obligations), nil
}
