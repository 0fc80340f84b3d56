package engine

import (
	"errors"
	"math"
	"testing"
	"time"

	apperrors "fincoach/internal/errors"
	"fincoach/internal/models"
)

func TestRequiredContribution(t *testing.T) {
	t.Run("satisfies_future_value_identity", func(t *testing.T) {
		// The payment must grow to exactly the target over the horizon.
		target, months, rate := 50000.0, 36, 0.08
		p := RequiredContribution(target, 0, months, rate)

		i := rate / 12
		growth := math.Pow(1+i, float64(months))
		fv := p * (growth - 1) / i
		if math.Abs(fv-target) > 0.01 {
			t.Errorf("payment %v grows to %v, want %v", p, fv, target)
		}
	})

	t.Run("zero_rate_is_linear", func(t *testing.T) {
		p := RequiredContribution(36000, 0, 36, 0)
		if p != 1000 {
			t.Errorf("expected 1000, got %v", p)
		}
	})

	t.Run("existing_principal_reduces_payment", func(t *testing.T) {
		base := RequiredContribution(50000, 0, 36, 0.08)
		withPrincipal := RequiredContribution(50000, 10000, 36, 0.08)
		if withPrincipal >= base {
			t.Errorf("expected principal to reduce payment: %v >= %v", withPrincipal, base)
		}
	})

	t.Run("funded_needs_nothing", func(t *testing.T) {
		if p := RequiredContribution(10000, 10000, 12, 0.08); p != 0 {
			t.Errorf("expected 0, got %v", p)
		}
	})
}

func TestPlanGoal(t *testing.T) {
	asOf := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	t.Run("feasible_plan", func(t *testing.T) {
		goal := models.Goal{
			TargetAmount:  36000,
			TargetDate:    asOf.AddDate(3, 0, 0),
			RiskTolerance: models.RiskToleranceModerate,
			Status:        models.GoalStatusActive,
		}

		plan, err := PlanGoal(goal, 2000, asOf, DefaultReturnRates())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.MonthsRemaining != 36 {
			t.Errorf("expected 36 months, got %d", plan.MonthsRemaining)
		}
		if plan.AssumedAnnualReturn != 0.08 {
			t.Errorf("expected moderate rate 0.08, got %v", plan.AssumedAnnualReturn)
		}
		if !plan.Feasible {
			t.Error("expected plan to be feasible")
		}
		if plan.ShortfallAmount != 0 {
			t.Errorf("expected zero shortfall, got %v", plan.ShortfallAmount)
		}
		if plan.RequiredMonthlyContribution <= 0 || plan.RequiredMonthlyContribution >= 1000 {
			// 8%/yr growth keeps the payment below the linear 1000/mo.
			t.Errorf("unexpected contribution %v", plan.RequiredMonthlyContribution)
		}
	})

	t.Run("infeasible_reports_shortfall", func(t *testing.T) {
		goal := models.Goal{
			TargetAmount:  500000,
			TargetDate:    asOf.AddDate(1, 0, 0),
			RiskTolerance: models.RiskToleranceConservative,
			Status:        models.GoalStatusActive,
		}

		plan, err := PlanGoal(goal, 1000, asOf, DefaultReturnRates())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.Feasible {
			t.Error("expected plan to be infeasible")
		}
		if plan.ShortfallAmount <= 0 {
			t.Errorf("expected positive shortfall, got %v", plan.ShortfallAmount)
		}
	})

	t.Run("funded_goal_is_completed", func(t *testing.T) {
		goal := models.Goal{
			TargetAmount:  5000,
			CurrentAmount: 5000,
			TargetDate:    asOf.AddDate(0, 6, 0),
			Status:        models.GoalStatusActive,
		}

		plan, err := PlanGoal(goal, 0, asOf, DefaultReturnRates())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !plan.Completed || !plan.Feasible {
			t.Error("expected funded goal to plan as completed and feasible")
		}
		if plan.RequiredMonthlyContribution != 0 {
			t.Errorf("expected zero contribution, got %v", plan.RequiredMonthlyContribution)
		}
	})

	t.Run("past_target_date_is_invalid", func(t *testing.T) {
		goal := models.Goal{
			TargetAmount: 5000,
			TargetDate:   asOf.AddDate(0, 0, -1),
		}

		_, err := PlanGoal(goal, 1000, asOf, DefaultReturnRates())
		if !errors.Is(err, apperrors.ErrInvalidGoal) {
			t.Errorf("expected ErrInvalidGoal, got %v", err)
		}
	})

	t.Run("unknown_tolerance_falls_back_to_moderate", func(t *testing.T) {
		rates := DefaultReturnRates()
		if rates.Rate("unknown") != 0.08 {
			t.Errorf("expected moderate fallback, got %v", rates.Rate("unknown"))
		}
	})
}
