package models

import "time"

// RiskTolerance describes a user's appetite for investment risk.
type RiskTolerance string

const (
	RiskToleranceConservative RiskTolerance = "conservative"
	RiskToleranceModerate     RiskTolerance = "moderate"
	RiskToleranceAggressive   RiskTolerance = "aggressive"
)

// User represents the user model in the database
type User struct {
	Base
	Email               string        `gorm:"uniqueIndex;not null" json:"email"`
	Password            string        `gorm:"not null" json:"-"`
	FullName            string        `json:"full_name"`
	Income              float64       `json:"income"`
	RiskTolerance       RiskTolerance `gorm:"default:moderate" json:"risk_tolerance"`
	LiquidBalance       float64       `json:"liquid_balance"`
	IsActive            bool          `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string        `gorm:"size:64" json:"-"`
	FailedLoginAttempts int           `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time    `json:"-"`
	LastLoginAt         *time.Time    `json:"last_login_at,omitempty"`
	Goals               []Goal        `gorm:"foreignKey:UserID" json:"goals,omitempty"`
	Transactions        []Transaction `gorm:"foreignKey:UserID" json:"transactions,omitempty"`
	Obligations         []Obligation  `gorm:"foreignKey:UserID" json:"obligations,omitempty"`
	Alerts              []Alert       `gorm:"foreignKey:UserID" json:"alerts,omitempty"`
}
