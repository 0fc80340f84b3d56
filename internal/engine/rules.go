package engine

import (
	"fmt"
	"time"

	"fincoach/internal/models"
	"fincoach/internal/money"
	"fincoach/internal/temporal"
)

// RuleConfig holds the thresholds for alert rule evaluation.
type RuleConfig struct {
	// LookaheadDays is the burden window for the low-balance rule.
	LookaheadDays int
	// DueSoonDays is how far ahead the due-soon rule looks.
	DueSoonDays int
}

// DefaultRuleConfig returns the standard thresholds.
func DefaultRuleConfig() RuleConfig {
	return RuleConfig{LookaheadDays: DefaultLookaheadDays, DueSoonDays: 3}
}

// PlannedGoal pairs a goal with its planning result for rule input.
type PlannedGoal struct {
	Goal models.Goal
	Plan GoalPlan
}

// RuleContext carries everything a generation pass knows about one
// user. It is assembled once per pass and evaluated by every rule.
type RuleContext struct {
	AsOf        time.Time
	Profile     Profile
	Budget      BudgetSummary
	Obligations []ObligationStatus
	Goals       []PlannedGoal
	Config      RuleConfig
}

// AlertDraft is a rule's proposal for a new alert, before
// deduplication and persistence.
type AlertDraft struct {
	Type     models.AlertType
	Subject  string
	Title    string
	Message  string
	Priority models.AlertPriority
	Metadata map[string]any
}

// Fingerprint is the stable identity of a draft for a given owner,
// used to suppress duplicate unread alerts.
func (d AlertDraft) Fingerprint(ownerID uint) string {
	return fmt.Sprintf("%d:%s:%s", ownerID, d.Type, d.Subject)
}

// Rule is one independent alert predicate with its payload builder.
type Rule struct {
	Name     string
	Evaluate func(RuleContext) []AlertDraft
}

// Rules returns the alert rule registry. Every rule runs on every
// generation pass; each is independent of the others.
func Rules() []Rule {
	return []Rule{
		{Name: "low_balance", Evaluate: evaluateLowBalance},
		{Name: "obligation_due", Evaluate: evaluateObligationsDue},
		{Name: "goal_off_track", Evaluate: evaluateGoalsOffTrack},
		{Name: "budget_exceeded", Evaluate: evaluateBudgetExceeded},
	}
}

// EvaluateRules runs the full registry over the context.
func EvaluateRules(ctx RuleContext) []AlertDraft {
	var drafts []AlertDraft
	for _, rule := range Rules() {
		drafts = append(drafts, rule.Evaluate(ctx)...)
	}
	return drafts
}

func evaluateLowBalance(ctx RuleContext) []AlertDraft {
	days := ctx.Config.LookaheadDays
	if days <= 0 {
		days = DefaultLookaheadDays
	}
	burden := UpcomingBurden(ctx.Obligations, days)
	if burden <= 0 || ctx.Profile.LiquidBalance >= burden {
		return nil
	}
	shortfall := money.Round(burden - ctx.Profile.LiquidBalance)
	runway := temporal.RunwayDays(ctx.Profile.LiquidBalance, burden/float64(days))
	return []AlertDraft{{
		Type:     models.AlertTypeLowBalance,
		Subject:  fmt.Sprintf("%dd", days),
		Title:    "Liquid balance below upcoming obligations",
		Priority: models.PriorityCritical,
		Message: fmt.Sprintf(
			"Obligations of %s fall due within %d days but your liquid balance is %s. Shortfall: %s.",
			money.Format(burden), days,
			money.Format(ctx.Profile.LiquidBalance), money.Format(shortfall),
		),
		Metadata: map[string]any{
			"upcoming_burden": burden,
			"liquid_balance":  ctx.Profile.LiquidBalance,
			"shortfall":       shortfall,
			"window_days":     days,
			"runway_days":     runway,
		},
	}}
}

func evaluateObligationsDue(ctx RuleContext) []AlertDraft {
	var drafts []AlertDraft
	for i := range ctx.Obligations {
		s := &ctx.Obligations[i]
		if !s.HasNextDue {
			continue
		}

		o := s.Obligation
		meta := map[string]any{
			"obligation_id":  o.ID,
			"amount":         o.Amount,
			"due_date":       s.NextDue.Format("2006-01-02"),
			"days_until_due": s.DaysUntilDue,
		}

		switch {
		case s.Overdue:
			drafts = append(drafts, AlertDraft{
				Type:     models.AlertTypePastDue,
				Subject:  fmt.Sprintf("%d", o.ID),
				Title:    fmt.Sprintf("Payment overdue: %s", o.Title),
				Priority: models.PriorityCritical,
				Message: fmt.Sprintf("%s payment of %s was due on %s and is overdue.",
					o.Title, money.Format(o.Amount), s.NextDue.Format("2006-01-02")),
				Metadata: meta,
			})
		case s.DaysUntilDue <= ctx.Config.DueSoonDays:
			drafts = append(drafts, AlertDraft{
				Type:     models.AlertTypeDueSoon,
				Subject:  fmt.Sprintf("%d", o.ID),
				Title:    fmt.Sprintf("Payment due soon: %s", o.Title),
				Priority: models.PriorityHigh,
				Message: fmt.Sprintf("%s payment of %s is due in %d day(s), on %s.",
					o.Title, money.Format(o.Amount), s.DaysUntilDue, s.NextDue.Format("2006-01-02")),
				Metadata: meta,
			})
		}
	}
	return drafts
}

func evaluateGoalsOffTrack(ctx RuleContext) []AlertDraft {
	var drafts []AlertDraft
	for _, pg := range ctx.Goals {
		if pg.Plan.Feasible {
			continue
		}
		drafts = append(drafts, AlertDraft{
			Type:     models.AlertTypeGoalOffTrack,
			Subject:  fmt.Sprintf("%d", pg.Goal.ID),
			Title:    fmt.Sprintf("Goal off track: %s", pg.Goal.Title),
			Priority: models.PriorityMedium,
			Message: fmt.Sprintf(
				"Goal %q needs %s per month but exceeds your disposable income by %s. Consider extending the timeline or raising the risk tier.",
				pg.Goal.Title,
				money.Format(pg.Plan.RequiredMonthlyContribution),
				money.Format(pg.Plan.ShortfallAmount),
			),
			Metadata: map[string]any{
				"goal_id":               pg.Goal.ID,
				"required_contribution": pg.Plan.RequiredMonthlyContribution,
				"shortfall":             pg.Plan.ShortfallAmount,
				"months_remaining":      pg.Plan.MonthsRemaining,
			},
		})
	}
	return drafts
}

func evaluateBudgetExceeded(ctx RuleContext) []AlertDraft {
	// Totals that agree to the cent are break even; summed floats may
	// differ by less than that.
	if ctx.Budget.TotalExpenses <= ctx.Budget.TotalIncome ||
		money.Equal(ctx.Budget.TotalExpenses, ctx.Budget.TotalIncome) {
		return nil
	}
	overspend := money.Round(ctx.Budget.TotalExpenses - ctx.Budget.TotalIncome)
	return []AlertDraft{{
		Type:     models.AlertTypeBudgetExceeded,
		Subject:  ctx.Budget.Window.Start.Format("2006-01"),
		Title:    "Spending exceeded income this period",
		Priority: models.PriorityMedium,
		Message: fmt.Sprintf("Expenses of %s exceeded income of %s by %s for the current window.",
			money.Format(ctx.Budget.TotalExpenses), money.Format(ctx.Budget.TotalIncome), money.Format(overspend)),
		Metadata: map[string]any{
			"total_expenses": ctx.Budget.TotalExpenses,
			"total_income":   ctx.Budget.TotalIncome,
			"overspend":      overspend,
			"window_start":   ctx.Budget.Window.Start.Format("2006-01-02"),
		},
	}}
}
