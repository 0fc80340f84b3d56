// Package explain produces short free-text narratives for scored
// recommendations. The narrative is advisory garnish on top of the
// deterministic scoring output: a failing or disabled explainer never
// blocks a recommendation response.
package explain

import (
	"context"
	"fmt"
	"strings"

	"fincoach/internal/models"
)

// Payload is the deterministic scoring result an explainer narrates.
type Payload struct {
	ProductName      string
	ProductType      models.ProductType
	ExpectedReturn   float64
	MatchScore       float64
	RiskTolerance    models.RiskTolerance
	ReasoningFactors []string
	Allocation       float64
}

// CacheKey is a stable identity for the payload. Identical scoring
// results share one narrative.
func (p Payload) CacheKey() string {
	return fmt.Sprintf("%s|%s|%.4f|%s|%s",
		p.ProductName, p.ProductType, p.MatchScore, p.RiskTolerance,
		strings.Join(p.ReasoningFactors, ";"))
}

// Explainer turns a scoring payload into a one-paragraph narrative.
type Explainer interface {
	Narrative(ctx context.Context, payload Payload) (string, error)
}

// Disabled is the no-op explainer used when narratives are turned off.
type Disabled struct{}

// Narrative always returns an empty narrative.
func (Disabled) Narrative(context.Context, Payload) (string, error) {
	return "", nil
}
