package models

import "time"

// GoalStatus represents the lifecycle state of a savings goal
type GoalStatus string

const (
	GoalStatusActive    GoalStatus = "active"
	GoalStatusCompleted GoalStatus = "completed"
	GoalStatusAbandoned GoalStatus = "abandoned"
)

// Goal represents a savings or investment goal owned by a single user.
// Status moves to completed when CurrentAmount reaches TargetAmount and
// to abandoned only by explicit user action.
type Goal struct {
	Base
	UserID                  uint          `gorm:"not null;index" json:"user_id"`
	Title                   string        `gorm:"not null" json:"title"`
	TargetAmount            float64       `gorm:"not null" json:"target_amount"`
	CurrentAmount           float64       `gorm:"default:0" json:"current_amount"`
	TargetDate              time.Time     `gorm:"not null" json:"target_date"`
	MonthlyContributionHint *float64      `json:"monthly_contribution_hint,omitempty"`
	RiskTolerance           RiskTolerance `gorm:"default:moderate" json:"risk_tolerance"`
	Status                  GoalStatus    `gorm:"default:active" json:"status"`
}

// IsFunded reports whether the goal has reached its target.
func (g *Goal) IsFunded() bool { return g.CurrentAmount >= g.TargetAmount }
