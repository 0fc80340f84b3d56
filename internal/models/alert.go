package models

import "encoding/json"

// AlertType identifies the rule that produced an alert
type AlertType string

const (
	AlertTypeLowBalance     AlertType = "low_balance"
	AlertTypeDueSoon        AlertType = "due_soon"
	AlertTypePastDue        AlertType = "past_due"
	AlertTypeGoalOffTrack   AlertType = "goal_off_track"
	AlertTypeBudgetExceeded AlertType = "budget_exceeded"
)

// AlertPriority orders alerts by urgency: critical > high > medium > low.
type AlertPriority string

const (
	PriorityCritical AlertPriority = "critical"
	PriorityHigh     AlertPriority = "high"
	PriorityMedium   AlertPriority = "medium"
	PriorityLow      AlertPriority = "low"
)

// Rank returns a sortable weight for the priority, higher = more urgent.
func (p AlertPriority) Rank() int {
	switch p {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Alert is a predictive notification created by the alert engine.
// State moves one way only: unread to read. Alerts are never deleted
// by the engine; retention is an external concern.
type Alert struct {
	Base
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	Type        AlertType     `gorm:"column:alert_type;not null" json:"alert_type"`
	Title       string        `gorm:"not null" json:"title"`
	Message     string        `gorm:"not null" json:"message"`
	Priority    AlertPriority `gorm:"default:medium" json:"priority"`
	IsRead      bool          `gorm:"default:false" json:"is_read"`
	Fingerprint string        `gorm:"size:128;index" json:"-"`
	Metadata    string        `json:"metadata,omitempty"`
}

// MetadataMap decodes the metadata payload. A malformed payload yields
// nil rather than an error so rendering never breaks on bad data.
func (a *Alert) MetadataMap() map[string]any {
	if a.Metadata == "" {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(a.Metadata), &m); err != nil {
		return nil
	}
	return m
}
