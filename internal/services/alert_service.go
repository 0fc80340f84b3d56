package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"fincoach/internal/engine"
	apperrors "fincoach/internal/errors"
	"fincoach/internal/logger"
	"fincoach/internal/models"
)

const defaultAlertLimit = 50

// AlertPusher delivers freshly persisted alerts to live clients.
type AlertPusher interface {
	PushAlerts(userID uint, alerts []models.Alert)
}

// AlertMailer delivers one critical alert out of band.
type AlertMailer interface {
	SendCriticalAlert(user *models.User, alert *models.Alert) error
}

// alertService runs the rule registry over a user's financial state
// and persists the resulting alerts.
type alertService struct {
	db     *gorm.DB
	cfg    engine.RuleConfig
	rates  engine.ReturnRates
	pusher AlertPusher
	mailer AlertMailer

	// userLocks serializes generation per user so concurrent passes
	// cannot race the unread-fingerprint check into duplicates.
	userLocks sync.Map // uint -> *sync.Mutex
}

// NewAlertService creates a new AlertServicer. Pusher and mailer are
// optional; pass nil to skip realtime push or email delivery.
func NewAlertService(db *gorm.DB, cfg engine.RuleConfig, pusher AlertPusher, mailer AlertMailer) AlertServicer {
	return &alertService{
		db:     db,
		cfg:    cfg,
		rates:  engine.DefaultReturnRates(),
		pusher: pusher,
		mailer: mailer,
	}
}

func (s *alertService) lockUser(userID uint) *sync.Mutex {
	mu, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// GenerateAlerts runs every rule against the user's current state and
// persists the drafts that are not already covered by an unread alert
// with the same fingerprint. Only the newly created alerts are
// returned, so an immediate second pass over unchanged state returns
// an empty slice.
func (s *alertService) GenerateAlerts(userID uint) ([]models.Alert, error) {
	mu := s.lockUser(userID)
	mu.Lock()
	defer mu.Unlock()

	ruleCtx, user, err := s.buildContext(userID)
	if err != nil {
		return nil, err
	}

	drafts := engine.EvaluateRules(*ruleCtx)
	if len(drafts) == 0 {
		return []models.Alert{}, nil
	}

	var unread []models.Alert
	if err := s.db.Where("user_id = ? AND is_read = ?", userID, false).Find(&unread).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	seen := make(map[string]struct{}, len(unread))
	for i := range unread {
		seen[unread[i].Fingerprint] = struct{}{}
	}

	created := make([]models.Alert, 0, len(drafts))
	for _, draft := range drafts {
		fingerprint := draft.Fingerprint(userID)
		if _, dup := seen[fingerprint]; dup {
			continue
		}
		seen[fingerprint] = struct{}{}

		metadata, err := json.Marshal(draft.Metadata)
		if err != nil {
			metadata = []byte("{}")
		}

		alert := models.Alert{
			UserID:      userID,
			Type:        draft.Type,
			Title:       draft.Title,
			Message:     draft.Message,
			Priority:    draft.Priority,
			Fingerprint: fingerprint,
			Metadata:    string(metadata),
		}
		if err := s.db.Create(&alert).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		created = append(created, alert)
	}

	s.deliver(user, created)
	return created, nil
}

// deliver pushes new alerts to live clients and mails the critical
// ones. Failures are logged, never surfaced: alerts are already
// persisted.
func (s *alertService) deliver(user *models.User, alerts []models.Alert) {
	if len(alerts) == 0 {
		return
	}
	if s.pusher != nil {
		s.pusher.PushAlerts(user.ID, alerts)
	}
	if s.mailer == nil {
		return
	}
	for i := range alerts {
		if alerts[i].Priority != models.PriorityCritical {
			continue
		}
		if err := s.mailer.SendCriticalAlert(user, &alerts[i]); err != nil {
			logger.Get().Warnw("Critical alert email failed", "user_id", user.ID, "alert_id", alerts[i].ID, "error", err)
		}
	}
}

// buildContext assembles the full rule input for one user.
func (s *alertService) buildContext(userID uint) (*engine.RuleContext, *models.User, error) {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, apperrors.ErrUserNotFound
		}
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var obligations []models.Obligation
	if err := s.db.Where("user_id = ?", userID).Find(&obligations).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	now := time.Now()
	window := engine.MonthWindow(now)

	var transactions []models.Transaction
	if err := s.db.Where("user_id = ? AND date >= ? AND date < ?", userID, window.Start, window.End).
		Find(&transactions).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var goals []models.Goal
	if err := s.db.Where("user_id = ? AND status = ?", userID, models.GoalStatusActive).
		Find(&goals).Error; err != nil {
		return nil, nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	disposable := engine.DisposableIncome(user.Income, obligations)
	planned := make([]engine.PlannedGoal, 0, len(goals))
	for _, goal := range goals {
		plan, err := engine.PlanGoal(goal, disposable, now, s.rates)
		if err != nil {
			continue
		}
		planned = append(planned, engine.PlannedGoal{Goal: goal, Plan: *plan})
	}

	ruleCtx := &engine.RuleContext{
		AsOf: now,
		Profile: engine.Profile{
			Income:        user.Income,
			RiskTolerance: user.RiskTolerance,
			LiquidBalance: user.LiquidBalance,
		},
		Budget:      engine.SummarizeBudget(transactions, window),
		Obligations: engine.ScheduleObligations(obligations, now),
		Goals:       planned,
		Config:      s.cfg,
	}
	return ruleCtx, &user, nil
}

// GetAlerts lists the user's alerts ordered by priority, then recency.
// isRead filters by read state when non-nil.
func (s *alertService) GetAlerts(userID uint, isRead *bool, limit int) ([]models.Alert, error) {
	if limit <= 0 {
		limit = defaultAlertLimit
	}

	query := s.db.Where("user_id = ?", userID)
	if isRead != nil {
		query = query.Where("is_read = ?", *isRead)
	}

	var alerts []models.Alert
	err := query.
		Order(priorityOrderExpr).
		Order("created_at desc").
		Limit(limit).
		Find(&alerts).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return alerts, nil
}

// priorityOrderExpr sorts by descending urgency rank, critical first.
// Works on both postgres and sqlite.
var priorityOrderExpr = fmt.Sprintf(
	"CASE priority WHEN '%s' THEN %d WHEN '%s' THEN %d WHEN '%s' THEN %d ELSE %d END DESC",
	models.PriorityCritical, models.PriorityCritical.Rank(),
	models.PriorityHigh, models.PriorityHigh.Rank(),
	models.PriorityMedium, models.PriorityMedium.Rank(),
	models.PriorityLow.Rank(),
)

// MarkAlertRead flips an alert to read. The transition is one way;
// marking an already read alert is a no-op, not an error.
func (s *alertService) MarkAlertRead(userID, alertID uint) (*models.Alert, error) {
	var alert models.Alert
	if err := s.db.Where("id = ? AND user_id = ?", alertID, userID).First(&alert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAlertNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if alert.IsRead {
		return &alert, nil
	}

	alert.IsRead = true
	if err := s.db.Model(&alert).Update("is_read", true).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &alert, nil
}

// SweepAllUsers runs a generation pass for every active user and
// returns the total number of alerts created. One user's failure does
// not stop the sweep.
func (s *alertService) SweepAllUsers() (int, error) {
	var userIDs []uint
	if err := s.db.Model(&models.User{}).Where("is_active = ?", true).Pluck("id", &userIDs).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := 0
	for _, userID := range userIDs {
		created, err := s.GenerateAlerts(userID)
		if err != nil {
			logger.Get().Errorw("Alert sweep failed for user", "user_id", userID, "error", err)
			continue
		}
		total += len(created)
	}
	return total, nil
}
