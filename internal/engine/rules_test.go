package engine

import (
	"testing"
	"time"

	"fincoach/internal/models"
)

func ruleContext(asOf time.Time) RuleContext {
	return RuleContext{
		AsOf:    asOf,
		Profile: Profile{Income: 5000, RiskTolerance: models.RiskToleranceModerate, LiquidBalance: 10000},
		Budget:  BudgetSummary{Window: MonthWindow(asOf)},
		Config:  DefaultRuleConfig(),
	}
}

func draftsOfType(drafts []AlertDraft, alertType models.AlertType) []AlertDraft {
	var matched []AlertDraft
	for _, d := range drafts {
		if d.Type == alertType {
			matched = append(matched, d)
		}
	}
	return matched
}

func TestEvaluateRules(t *testing.T) {
	asOf := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)

	t.Run("quiet_context_produces_no_drafts", func(t *testing.T) {
		if drafts := EvaluateRules(ruleContext(asOf)); len(drafts) != 0 {
			t.Errorf("expected no drafts, got %d", len(drafts))
		}
	})

	t.Run("low_balance_fires_when_burden_exceeds_liquid", func(t *testing.T) {
		ctx := ruleContext(asOf)
		ctx.Profile.LiquidBalance = 2000
		ctx.Obligations = []ObligationStatus{{
			Obligation:   models.Obligation{Base: models.Base{ID: 1}, Title: "Rent", Amount: 3000},
			NextDue:      asOf.AddDate(0, 0, 10),
			HasNextDue:   true,
			DaysUntilDue: 10,
		}}

		drafts := draftsOfType(EvaluateRules(ctx), models.AlertTypeLowBalance)
		if len(drafts) != 1 {
			t.Fatalf("expected 1 low balance draft, got %d", len(drafts))
		}
		d := drafts[0]
		if d.Priority != models.PriorityCritical {
			t.Errorf("expected critical priority, got %s", d.Priority)
		}
		if d.Metadata["shortfall"] != 1000.0 {
			t.Errorf("expected shortfall 1000, got %v", d.Metadata["shortfall"])
		}
		// 2000 of balance against a 3000 burden over 30 days.
		if d.Metadata["runway_days"] != 20 {
			t.Errorf("expected runway of 20 days, got %v", d.Metadata["runway_days"])
		}
	})

	t.Run("low_balance_silent_when_covered", func(t *testing.T) {
		ctx := ruleContext(asOf)
		ctx.Profile.LiquidBalance = 3000
		ctx.Obligations = []ObligationStatus{{
			Obligation:   models.Obligation{Base: models.Base{ID: 1}, Title: "Rent", Amount: 3000},
			NextDue:      asOf.AddDate(0, 0, 10),
			HasNextDue:   true,
			DaysUntilDue: 10,
		}}

		if drafts := draftsOfType(EvaluateRules(ctx), models.AlertTypeLowBalance); len(drafts) != 0 {
			t.Errorf("expected no low balance draft, got %d", len(drafts))
		}
	})

	t.Run("due_soon_is_high_priority_within_window", func(t *testing.T) {
		ctx := ruleContext(asOf)
		ctx.Obligations = []ObligationStatus{
			{
				Obligation:   models.Obligation{Base: models.Base{ID: 7}, Title: "Electric bill", Amount: 120},
				NextDue:      asOf.AddDate(0, 0, 2),
				HasNextDue:   true,
				DaysUntilDue: 2,
			},
			{
				Obligation:   models.Obligation{Base: models.Base{ID: 8}, Title: "Insurance", Amount: 400},
				NextDue:      asOf.AddDate(0, 0, 20),
				HasNextDue:   true,
				DaysUntilDue: 20,
			},
		}

		drafts := draftsOfType(EvaluateRules(ctx), models.AlertTypeDueSoon)
		if len(drafts) != 1 {
			t.Fatalf("expected 1 due soon draft, got %d", len(drafts))
		}
		if drafts[0].Priority != models.PriorityHigh {
			t.Errorf("expected high priority, got %s", drafts[0].Priority)
		}
		if drafts[0].Subject != "7" {
			t.Errorf("expected subject 7, got %s", drafts[0].Subject)
		}
	})

	t.Run("overdue_is_critical_not_due_soon", func(t *testing.T) {
		ctx := ruleContext(asOf)
		ctx.Obligations = []ObligationStatus{{
			Obligation:   models.Obligation{Base: models.Base{ID: 9}, Title: "Loan payment", Amount: 800},
			NextDue:      asOf.AddDate(0, 0, -4),
			HasNextDue:   true,
			DaysUntilDue: -4,
			Overdue:      true,
		}}

		drafts := EvaluateRules(ctx)
		if past := draftsOfType(drafts, models.AlertTypePastDue); len(past) != 1 {
			t.Fatalf("expected 1 past due draft, got %d", len(past))
		} else if past[0].Priority != models.PriorityCritical {
			t.Errorf("expected critical priority, got %s", past[0].Priority)
		}
		if soon := draftsOfType(drafts, models.AlertTypeDueSoon); len(soon) != 0 {
			t.Errorf("overdue obligation must not also draft due soon, got %d", len(soon))
		}
	})

	t.Run("resolved_obligation_is_skipped", func(t *testing.T) {
		ctx := ruleContext(asOf)
		ctx.Obligations = []ObligationStatus{{
			Obligation: models.Obligation{Base: models.Base{ID: 10}, Title: "One-off fee", Amount: 50},
			HasNextDue: false,
		}}

		if drafts := EvaluateRules(ctx); len(drafts) != 0 {
			t.Errorf("expected no drafts for resolved obligation, got %d", len(drafts))
		}
	})

	t.Run("infeasible_goal_drafts_medium_alert", func(t *testing.T) {
		ctx := ruleContext(asOf)
		ctx.Goals = []PlannedGoal{
			{
				Goal: models.Goal{Base: models.Base{ID: 3}, Title: "World trip"},
				Plan: GoalPlan{GoalID: 3, RequiredMonthlyContribution: 2500, Feasible: false, ShortfallAmount: 500},
			},
			{
				Goal: models.Goal{Base: models.Base{ID: 4}, Title: "Emergency fund"},
				Plan: GoalPlan{GoalID: 4, RequiredMonthlyContribution: 300, Feasible: true},
			},
		}

		drafts := draftsOfType(EvaluateRules(ctx), models.AlertTypeGoalOffTrack)
		if len(drafts) != 1 {
			t.Fatalf("expected 1 off track draft, got %d", len(drafts))
		}
		if drafts[0].Priority != models.PriorityMedium {
			t.Errorf("expected medium priority, got %s", drafts[0].Priority)
		}
		if drafts[0].Subject != "3" {
			t.Errorf("expected subject 3, got %s", drafts[0].Subject)
		}
	})

	t.Run("budget_exceeded_fires_only_on_overspend", func(t *testing.T) {
		ctx := ruleContext(asOf)
		ctx.Budget.TotalIncome = 4000
		ctx.Budget.TotalExpenses = 4600

		drafts := draftsOfType(EvaluateRules(ctx), models.AlertTypeBudgetExceeded)
		if len(drafts) != 1 {
			t.Fatalf("expected 1 budget draft, got %d", len(drafts))
		}
		if drafts[0].Metadata["overspend"] != 600.0 {
			t.Errorf("expected overspend 600, got %v", drafts[0].Metadata["overspend"])
		}

		ctx.Budget.TotalExpenses = 4000
		if drafts := draftsOfType(EvaluateRules(ctx), models.AlertTypeBudgetExceeded); len(drafts) != 0 {
			t.Errorf("break-even month must not draft, got %d", len(drafts))
		}
	})

	t.Run("break_even_to_the_cent_is_quiet", func(t *testing.T) {
		ctx := ruleContext(asOf)
		a, b := 0.1, 0.2
		ctx.Budget.TotalIncome = 0.3
		// Runtime float addition lands a hair above 0.3.
		ctx.Budget.TotalExpenses = a + b

		if drafts := draftsOfType(EvaluateRules(ctx), models.AlertTypeBudgetExceeded); len(drafts) != 0 {
			t.Errorf("sub-cent drift must not draft an overspend, got %d", len(drafts))
		}
	})
}

func TestAlertDraftFingerprint(t *testing.T) {
	draft := AlertDraft{Type: models.AlertTypeDueSoon, Subject: "42"}

	if got := draft.Fingerprint(7); got != "7:due_soon:42" {
		t.Errorf("unexpected fingerprint %q", got)
	}
	if draft.Fingerprint(7) != draft.Fingerprint(7) {
		t.Error("fingerprint must be stable across calls")
	}
	if draft.Fingerprint(7) == draft.Fingerprint(8) {
		t.Error("fingerprint must differ per owner")
	}
}
