// Package sustainability computes the weighted 4-factor sustainability score
// from a product's feature tags and supplier. The keyword and supplier tables
// live in an editable yaml knowledge base, not in code.
package sustainability

import (
	"strings"

	"stripwijzer/helpers"
	"stripwijzer/internal/model"
)

// Scorer computes sustainability metrics against a loaded knowledge base
type Scorer struct {
	rules *Rules
}

// NewScorer creates a scorer for the given knowledge base
func NewScorer(rules *Rules) *Scorer {
	return &Scorer{rules: rules}
}

// Score computes the factor breakdown and weighted total for one product.
// Every sub-score starts at the baseline, takes additive keyword and country
// adjustments, and is clamped to [0, 10]. The total is rounded to one decimal.
func (s *Scorer) Score(features []string, supplier string) model.SustainabilityMetrics {
	packaging := s.rules.Baseline
	ingredients := s.rules.Baseline
	production := s.rules.Baseline
	company := s.rules.Baseline

	for _, rule := range s.rules.KeywordRules {
		if !matchesAny(features, rule.Keyword) {
			continue
		}
		switch rule.Factor {
		case FactorPackaging:
			packaging += rule.Adjustment
		case FactorIngredients:
			ingredients += rule.Adjustment
		case FactorProduction:
			production += rule.Adjustment
		case FactorCompany:
			company += rule.Adjustment
		}
	}

	if country := s.rules.countryFor(supplier); country != "" {
		production += s.rules.CountryAdjustments[country]
	}

	packaging = clamp(packaging)
	ingredients = clamp(ingredients)
	production = clamp(production)
	company = clamp(company)

	total := packaging*s.rules.Weights.Packaging +
		ingredients*s.rules.Weights.Ingredients +
		production*s.rules.Weights.Production +
		company*s.rules.Weights.Company

	return model.SustainabilityMetrics{
		Packaging:   packaging,
		Ingredients: ingredients,
		Production:  production,
		Company:     company,
		Total:       helpers.RoundTo(total, 1),
	}
}

// matchesAny reports whether any feature contains the keyword, case-insensitively
func matchesAny(features []string, keyword string) bool {
	kw := strings.ToLower(keyword)
	for _, feature := range features {
		if strings.Contains(strings.ToLower(feature), kw) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
