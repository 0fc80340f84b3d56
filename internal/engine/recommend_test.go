package engine

import (
	"testing"
	"time"

	"fincoach/internal/models"
)

func TestScoreRecommendations(t *testing.T) {
	asOf := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	profile := Profile{Income: 6000, RiskTolerance: models.RiskToleranceModerate, LiquidBalance: 5000}
	cfg := DefaultScoringConfig()

	t.Run("sorted_descending_by_score", func(t *testing.T) {
		catalog := []models.Product{
			{Name: "Aligned", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 10, MinInvestment: 100},
			{Name: "Opposite", RiskLevel: models.RiskLevelHigh, ExpectedReturn: 15, MinInvestment: 100000},
		}

		ranked := ScoreRecommendations(profile, nil, 2000, catalog, 0, cfg, asOf)
		if len(ranked) != 2 {
			t.Fatalf("expected 2 products, got %d", len(ranked))
		}
		if ranked[0].Product.Name != "Aligned" {
			t.Errorf("expected Aligned first, got %s", ranked[0].Product.Name)
		}
		if ranked[0].MatchScore < ranked[1].MatchScore {
			t.Error("ranking must be descending by match score")
		}
	})

	t.Run("ties_break_on_return_then_min_investment", func(t *testing.T) {
		catalog := []models.Product{
			{Name: "LowReturn", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 8, MinInvestment: 100},
			{Name: "HighReturn", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 12, MinInvestment: 100},
			{Name: "HighReturnPricier", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 12, MinInvestment: 500},
		}

		ranked := ScoreRecommendations(profile, nil, 2000, catalog, 0, cfg, asOf)
		want := []string{"HighReturn", "HighReturnPricier", "LowReturn"}
		for i, name := range want {
			if ranked[i].Product.Name != name {
				t.Errorf("position %d: expected %s, got %s", i, name, ranked[i].Product.Name)
			}
		}
	})

	t.Run("limit_truncates", func(t *testing.T) {
		catalog := []models.Product{
			{Name: "A", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 8, MinInvestment: 100},
			{Name: "B", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 9, MinInvestment: 100},
			{Name: "C", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 10, MinInvestment: 100},
		}

		ranked := ScoreRecommendations(profile, nil, 2000, catalog, 2, cfg, asOf)
		if len(ranked) != 2 {
			t.Errorf("expected 2 products, got %d", len(ranked))
		}
	})

	t.Run("adjacent_risk_scores_half", func(t *testing.T) {
		if got := riskAlignment(models.Product{RiskLevel: models.RiskLevelLow}, models.RiskToleranceModerate); got != 0.5 {
			t.Errorf("expected 0.5, got %v", got)
		}
		if got := riskAlignment(models.Product{RiskLevel: models.RiskLevelHigh}, models.RiskToleranceConservative); got != 0 {
			t.Errorf("expected 0, got %v", got)
		}
		if got := riskAlignment(models.Product{RiskLevel: models.RiskLevelModerate}, models.RiskToleranceModerate); got != 1.0 {
			t.Errorf("expected 1.0, got %v", got)
		}
	})

	t.Run("affordability_decays_with_shortfall", func(t *testing.T) {
		if got := affordability(models.Product{MinInvestment: 500}, 2000); got != 1.0 {
			t.Errorf("expected 1.0, got %v", got)
		}
		p := models.Product{MinInvestment: 4000}
		got := affordability(p, 2000)
		if got != 0.5 {
			t.Errorf("expected 0.5, got %v", got)
		}
		if got := affordability(models.Product{MinInvestment: 1000}, 0); got != 0 {
			t.Errorf("expected 0 with no disposable income, got %v", got)
		}
	})

	t.Run("goal_fit_earns_reasoning_factor", func(t *testing.T) {
		goals := []models.Goal{{
			Title:        "House deposit",
			TargetAmount: 20000,
			TargetDate:   asOf.AddDate(3, 0, 0),
			Status:       models.GoalStatusActive,
		}}
		catalog := []models.Product{
			{Name: "Fund", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 10, MinInvestment: 100},
		}

		ranked := ScoreRecommendations(profile, goals, 2000, catalog, 0, cfg, asOf)
		if len(ranked[0].ReasoningFactors) == 0 {
			t.Fatal("expected reasoning factors")
		}
	})

	t.Run("allocation_floored_at_min_investment_capped_at_disposable", func(t *testing.T) {
		catalog := []models.Product{
			{Name: "Pricey", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 10, MinInvestment: 1500},
			{Name: "Cheap", RiskLevel: models.RiskLevelModerate, ExpectedReturn: 8, MinInvestment: 100},
		}

		ranked := ScoreRecommendations(profile, nil, 2000, catalog, 0, cfg, asOf)
		for _, r := range ranked {
			if r.RecommendedAllocation < r.Product.MinInvestment {
				t.Errorf("%s allocation %v below minimum %v", r.Product.Name, r.RecommendedAllocation, r.Product.MinInvestment)
			}
			if r.RecommendedAllocation > 2000 {
				t.Errorf("%s allocation %v exceeds disposable income", r.Product.Name, r.RecommendedAllocation)
			}
		}
	})
}
