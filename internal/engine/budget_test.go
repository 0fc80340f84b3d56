package engine

import (
	"testing"
	"time"

	"fincoach/internal/models"
	"fincoach/internal/money"
)

func TestSummarizeBudget(t *testing.T) {
	window := MonthWindow(time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC))
	inWindow := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	t.Run("net_is_income_minus_expenses", func(t *testing.T) {
		transactions := []models.Transaction{
			{Amount: 5000, Category: "Salary", Date: inWindow},
			{Amount: -1200.50, Category: "Rent", Date: inWindow},
			{Amount: -300.25, Category: "Groceries", Date: inWindow},
			{Amount: -99.25, Category: "groceries ", Date: inWindow},
		}

		summary := SummarizeBudget(transactions, window)
		if summary.TotalIncome != 5000 {
			t.Errorf("expected income 5000, got %v", summary.TotalIncome)
		}
		if summary.TotalExpenses != 1600 {
			t.Errorf("expected expenses 1600, got %v", summary.TotalExpenses)
		}
		if summary.Net != summary.TotalIncome-summary.TotalExpenses {
			t.Errorf("net %v != income %v - expenses %v", summary.Net, summary.TotalIncome, summary.TotalExpenses)
		}
	})

	t.Run("categories_normalize_and_exclude_income", func(t *testing.T) {
		transactions := []models.Transaction{
			{Amount: 5000, Category: "Salary", Date: inWindow},
			{Amount: -300, Category: "Groceries", Date: inWindow},
			{Amount: -100, Category: " groceries", Date: inWindow},
		}

		summary := SummarizeBudget(transactions, window)
		if got := summary.CategoryBreakdown["groceries"]; got != 400 {
			t.Errorf("expected merged groceries total 400, got %v", got)
		}
		if _, ok := summary.CategoryBreakdown["salary"]; ok {
			t.Error("income must not appear in the category breakdown")
		}
	})

	t.Run("outside_window_excluded", func(t *testing.T) {
		transactions := []models.Transaction{
			{Amount: -100, Category: "rent", Date: window.Start.AddDate(0, 0, -1)},
			{Amount: -100, Category: "rent", Date: window.End}, // end is exclusive
		}

		summary := SummarizeBudget(transactions, window)
		if summary.TotalExpenses != 0 {
			t.Errorf("expected no expenses in window, got %v", summary.TotalExpenses)
		}
	})

	t.Run("empty_input", func(t *testing.T) {
		summary := SummarizeBudget(nil, window)
		if summary.TotalIncome != 0 || summary.TotalExpenses != 0 || summary.Net != 0 {
			t.Errorf("expected zero summary, got %+v", summary)
		}
		if summary.CategoryBreakdown == nil {
			t.Error("expected empty, non-nil breakdown")
		}
	})
}

func TestMonthlyObligationLoad(t *testing.T) {
	obligations := []models.Obligation{
		{Amount: 120, Frequency: models.FrequencyMonthly},
		{Amount: 300, Frequency: models.FrequencyQuarterly},
		{Amount: 1200, Frequency: models.FrequencyYearly},
		{Amount: 70, Frequency: models.FrequencyWeekly},
		{Amount: 9999, Frequency: models.FrequencyOneTime}, // not recurring
	}

	load := MonthlyObligationLoad(obligations)
	want := money.Round(120 + 100.0 + 100.0 + 70*52.0/12)
	if load != want {
		t.Errorf("expected %v, got %v", want, load)
	}
}

func TestDisposableIncome(t *testing.T) {
	obligations := []models.Obligation{{Amount: 3000, Frequency: models.FrequencyMonthly}}

	if got := DisposableIncome(5000, obligations); got != 2000 {
		t.Errorf("expected 2000, got %v", got)
	}
	// floored at zero when obligations outweigh income
	if got := DisposableIncome(2000, obligations); got != 0 {
		t.Errorf("expected 0, got %v", got)
	}
}
