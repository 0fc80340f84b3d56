// Package engine implements the deterministic planning, aggregation,
// scheduling, scoring and alert-rule layer. Everything in this package
// is a pure function of its inputs; persistence and collaborators live
// in the services layer.
package engine

import (
	"math"
	"time"

	apperrors "fincoach/internal/errors"
	"fincoach/internal/models"
	"fincoach/internal/money"
	"fincoach/internal/temporal"
)

// Profile is the subset of the user consumed by the engine.
type Profile struct {
	Income        float64
	RiskTolerance models.RiskTolerance
	LiquidBalance float64
}

// ReturnRates maps a risk tolerance to an assumed annual nominal
// return used for contribution planning.
type ReturnRates map[models.RiskTolerance]float64

// DefaultReturnRates returns the standard risk-to-return mapping.
func DefaultReturnRates() ReturnRates {
	return ReturnRates{
		models.RiskToleranceConservative: 0.04,
		models.RiskToleranceModerate:     0.08,
		models.RiskToleranceAggressive:   0.12,
	}
}

// Rate returns the annual return for the given tolerance, falling back
// to the moderate rate for unknown values.
func (r ReturnRates) Rate(tolerance models.RiskTolerance) float64 {
	if rate, ok := r[tolerance]; ok {
		return rate
	}
	return r[models.RiskToleranceModerate]
}

// GoalPlan is the planning result for a single goal.
type GoalPlan struct {
	GoalID                      uint    `json:"goal_id"`
	MonthsRemaining             int     `json:"months_remaining"`
	RequiredMonthlyContribution float64 `json:"required_monthly_contribution"`
	AssumedAnnualReturn         float64 `json:"assumed_annual_return"`
	Feasible                    bool    `json:"feasible"`
	ShortfallAmount             float64 `json:"shortfall_amount"`
	Completed                   bool    `json:"completed"`
}

// RequiredContribution solves the ordinary-annuity future-value
// equation for the monthly payment needed to grow current to target
// over the given number of months at the given annual rate:
//
//	target = current*(1+i)^n + P * (((1+i)^n - 1)/i)
//
// A zero rate degenerates to straight division. A goal already at or
// above target requires nothing.
func RequiredContribution(target, current float64, months int, annualRate float64) float64 {
	if months <= 0 || current >= target {
		return 0
	}
	i := annualRate / 12
	if i == 0 {
		return (target - current) / float64(months)
	}
	growth := math.Pow(1+i, float64(months))
	return (target - current*growth) * i / (growth - 1)
}

// PlanGoal converts a goal into a required periodic contribution and a
// feasibility verdict against the owner's disposable income (income
// minus recurring obligation load). It returns InvalidGoal when the
// target date is not in the future relative to asOf. The planner never
// auto-adjusts an infeasible plan; remediation is the caller's call.
func PlanGoal(goal models.Goal, disposableIncome float64, asOf time.Time, rates ReturnRates) (*GoalPlan, error) {
	if goal.IsFunded() {
		return &GoalPlan{
			GoalID:    goal.ID,
			Feasible:  true,
			Completed: true,
		}, nil
	}

	months := temporal.MonthsBetween(asOf, goal.TargetDate)
	if months <= 0 {
		return nil, apperrors.ErrInvalidGoal
	}

	rate := rates.Rate(goal.RiskTolerance)
	required := money.Round(RequiredContribution(goal.TargetAmount, goal.CurrentAmount, months, rate))
	if required < 0 {
		// Current principal alone outgrows the target at this rate.
		required = 0
	}

	plan := &GoalPlan{
		GoalID:                      goal.ID,
		MonthsRemaining:             months,
		RequiredMonthlyContribution: required,
		AssumedAnnualReturn:         rate,
		Feasible:                    required <= disposableIncome,
	}
	if !plan.Feasible {
		plan.ShortfallAmount = money.Round(required - disposableIncome)
	}
	return plan, nil
}
