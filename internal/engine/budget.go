package engine

import (
	"time"

	"fincoach/internal/models"
	"fincoach/internal/money"
)

// Window is a half-open time interval [Start, End) used for budget
// aggregation.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthWindow returns the calendar-month window containing t.
func MonthWindow(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Window{Start: start, End: start.AddDate(0, 1, 0)}
}

// Contains reports whether d falls within the window.
func (w Window) Contains(d time.Time) bool {
	return !d.Before(w.Start) && d.Before(w.End)
}

// BudgetSummary aggregates a set of transactions over a window.
// CategoryBreakdown holds absolute expense totals keyed by normalized
// category; income never appears in the breakdown.
type BudgetSummary struct {
	Window            Window             `json:"window"`
	TotalIncome       float64            `json:"total_income"`
	TotalExpenses     float64            `json:"total_expenses"`
	Net               float64            `json:"net"`
	CategoryBreakdown map[string]float64 `json:"category_breakdown"`
}

// SummarizeBudget folds the transactions inside the window into a
// summary. Net is always TotalIncome - TotalExpenses, including for an
// empty input.
func SummarizeBudget(transactions []models.Transaction, window Window) BudgetSummary {
	summary := BudgetSummary{
		Window:            window,
		CategoryBreakdown: make(map[string]float64),
	}

	for i := range transactions {
		t := &transactions[i]
		if !window.Contains(t.Date) {
			continue
		}
		if t.IsIncome() {
			summary.TotalIncome += t.Amount
			continue
		}
		expense := -t.Amount
		summary.TotalExpenses += expense
		summary.CategoryBreakdown[t.NormalizedCategory()] += expense
	}

	summary.TotalIncome = money.Round(summary.TotalIncome)
	summary.TotalExpenses = money.Round(summary.TotalExpenses)
	summary.Net = money.Round(summary.TotalIncome - summary.TotalExpenses)
	for k, v := range summary.CategoryBreakdown {
		summary.CategoryBreakdown[k] = money.Round(v)
	}
	return summary
}

// MonthlyObligationLoad converts recurring obligations into an average
// monthly cash demand. One-time obligations are excluded: they are not
// a recurring load on income.
func MonthlyObligationLoad(obligations []models.Obligation) float64 {
	var load float64
	for i := range obligations {
		o := &obligations[i]
		switch o.Frequency {
		case models.FrequencyWeekly:
			load += o.Amount * 52 / 12
		case models.FrequencyMonthly:
			load += o.Amount
		case models.FrequencyQuarterly:
			load += o.Amount / 3
		case models.FrequencyYearly:
			load += o.Amount / 12
		}
	}
	return money.Round(load)
}

// DisposableIncome is income net of the recurring obligation load,
// floored at zero.
func DisposableIncome(income float64, obligations []models.Obligation) float64 {
	disposable := income - MonthlyObligationLoad(obligations)
	if disposable < 0 {
		return 0
	}
	return money.Round(disposable)
}
