package engine

import (
	"fmt"
	"sort"
	"time"

	"fincoach/internal/models"
	"fincoach/internal/money"
	"fincoach/internal/temporal"
)

// ScoringWeights weigh the independent sub-scores of the product
// matcher. They should sum to 1 for a score in [0,1].
type ScoringWeights struct {
	Risk          float64 `json:"risk"`
	Affordability float64 `json:"affordability"`
	GoalFit       float64 `json:"goal_fit"`
}

// ScoringConfig is the named configuration for recommendation scoring,
// swappable without touching the scoring logic.
type ScoringConfig struct {
	Weights ScoringWeights
	// NotableThreshold is the minimum sub-score that earns a product a
	// reasoning factor.
	NotableThreshold float64
	// GoalFitTolerance widens the affordability band when testing
	// whether a product's return can fund a goal on schedule.
	GoalFitTolerance float64
}

// DefaultScoringConfig returns the standard weighting scheme.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Weights:          ScoringWeights{Risk: 0.4, Affordability: 0.35, GoalFit: 0.25},
		NotableThreshold: 0.6,
		GoalFitTolerance: 0.1,
	}
}

// RankedProduct is one scored catalog entry.
type RankedProduct struct {
	Product               models.Product `json:"product"`
	MatchScore            float64        `json:"match_score"`
	ReasoningFactors      []string       `json:"reasoning_factors"`
	RecommendedAllocation float64        `json:"recommended_allocation"`
}

// riskTier maps a user's risk tolerance onto the product risk scale.
func riskTier(t models.RiskTolerance) models.RiskLevel {
	switch t {
	case models.RiskToleranceConservative:
		return models.RiskLevelLow
	case models.RiskToleranceAggressive:
		return models.RiskLevelHigh
	}
	return models.RiskLevelModerate
}

func riskRank(l models.RiskLevel) int {
	switch l {
	case models.RiskLevelLow:
		return 0
	case models.RiskLevelModerate:
		return 1
	case models.RiskLevelHigh:
		return 2
	}
	return 1
}

// riskAlignment scores 1.0 for an exact tier match, 0.5 for an
// adjacent tier and 0.0 for opposite extremes.
func riskAlignment(product models.Product, tolerance models.RiskTolerance) float64 {
	distance := riskRank(product.RiskLevel) - riskRank(riskTier(tolerance))
	if distance < 0 {
		distance = -distance
	}
	switch distance {
	case 0:
		return 1.0
	case 1:
		return 0.5
	}
	return 0.0
}

// affordability scores 1.0 when the minimum investment fits the
// disposable income and decays linearly with the shortfall.
func affordability(product models.Product, disposable float64) float64 {
	if product.MinInvestment <= disposable {
		return 1.0
	}
	shortfall := product.MinInvestment - disposable
	score := 1 - shortfall/product.MinInvestment
	if score < 0 {
		return 0
	}
	return score
}

// goalFit scores 1.0 when any active goal's required contribution,
// recomputed at this product's expected return, stays affordable
// within the tolerance band.
func goalFit(product models.Product, goals []models.Goal, disposable float64, asOf time.Time, tolerance float64) (float64, string) {
	budget := disposable * (1 + tolerance)
	for i := range goals {
		g := &goals[i]
		if g.Status != models.GoalStatusActive || g.IsFunded() {
			continue
		}
		months := MonthsBetweenOrZero(asOf, g.TargetDate)
		if months <= 0 {
			continue
		}
		required := RequiredContribution(g.TargetAmount, g.CurrentAmount, months, product.ExpectedReturn/100)
		if required <= budget {
			return 1.0, g.Title
		}
	}
	return 0.0, ""
}

// ScoreRecommendations matches the catalog against the profile and
// active goals, returning at most limit products sorted descending by
// match score. Ties break on higher expected return, then lower
// minimum investment, so the ranking is fully deterministic.
func ScoreRecommendations(
	profile Profile,
	goals []models.Goal,
	disposableIncome float64,
	catalog []models.Product,
	limit int,
	cfg ScoringConfig,
	asOf time.Time,
) []RankedProduct {
	ranked := make([]RankedProduct, 0, len(catalog))

	for i := range catalog {
		product := catalog[i]

		risk := riskAlignment(product, profile.RiskTolerance)
		afford := affordability(product, disposableIncome)
		fit, fitGoal := goalFit(product, goals, disposableIncome, asOf, cfg.GoalFitTolerance)

		score := cfg.Weights.Risk*risk +
			cfg.Weights.Affordability*afford +
			cfg.Weights.GoalFit*fit

		var factors []string
		if risk >= cfg.NotableThreshold {
			factors = append(factors, fmt.Sprintf("Matches your %s risk tolerance", profile.RiskTolerance))
		}
		if afford >= cfg.NotableThreshold {
			factors = append(factors, fmt.Sprintf("Minimum investment of %s fits your disposable income", money.Format(product.MinInvestment)))
		}
		if fit >= cfg.NotableThreshold {
			factors = append(factors, fmt.Sprintf("Expected return of %.1f%% can keep goal %q on schedule", product.ExpectedReturn, fitGoal))
		}

		ranked = append(ranked, RankedProduct{
			Product:          product,
			MatchScore:       score,
			ReasoningFactors: factors,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.MatchScore != b.MatchScore {
			return a.MatchScore > b.MatchScore
		}
		if a.Product.ExpectedReturn != b.Product.ExpectedReturn {
			return a.Product.ExpectedReturn > b.Product.ExpectedReturn
		}
		return a.Product.MinInvestment < b.Product.MinInvestment
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}

	allocate(ranked, disposableIncome)
	return ranked
}

// allocate distributes the disposable income across the returned set
// proportionally to match score, floored at each product's minimum
// investment and capped at the full disposable amount.
func allocate(ranked []RankedProduct, disposable float64) {
	var total float64
	for i := range ranked {
		total += ranked[i].MatchScore
	}
	for i := range ranked {
		p := &ranked[i]
		var share float64
		if total > 0 {
			share = disposable * p.MatchScore / total
		}
		alloc := share
		if alloc < p.Product.MinInvestment {
			alloc = p.Product.MinInvestment
		}
		if alloc > disposable {
			alloc = disposable
		}
		p.RecommendedAllocation = money.Round(alloc)
	}
}

// MonthsBetweenOrZero is a planning-safe months count: it never
// returns a negative value.
func MonthsBetweenOrZero(from, to time.Time) int {
	months := temporal.MonthsBetween(from, to)
	if months < 0 {
		return 0
	}
	return months
}
