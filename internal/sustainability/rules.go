package sustainability

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// Factor names accepted in keyword rules
const (
	FactorPackaging   = "packaging"
	FactorIngredients = "ingredients"
	FactorProduction  = "production"
	FactorCompany     = "company"
)

// KeywordRule maps a case-insensitive feature-text keyword to a sub-score adjustment
type KeywordRule struct {
	Keyword    string  `yaml:"keyword"`
	Factor     string  `yaml:"factor"`
	Adjustment float64 `yaml:"adjustment"`
}

// Weights holds the fixed factor weights; they must sum to 1.0
type Weights struct {
	Packaging   float64 `yaml:"packaging"`
	Ingredients float64 `yaml:"ingredients"`
	Production  float64 `yaml:"production"`
	Company     float64 `yaml:"company"`
}

// Rules is the scorer's entire knowledge base, loaded from yaml
type Rules struct {
	Baseline           float64            `yaml:"baseline"`
	Weights            Weights            `yaml:"weights"`
	KeywordRules       []KeywordRule      `yaml:"keyword_rules"`
	SupplierCountries  map[string]string  `yaml:"supplier_countries"`
	CountryAdjustments map[string]float64 `yaml:"country_adjustments"`
}

// DefaultRules parses the embedded knowledge base
func DefaultRules() (*Rules, error) {
	return parseRules(defaultRulesYAML)
}

// LoadRules reads a knowledge base from path, falling back to the embedded
// default when path is empty.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return parseRules(data)
}

func parseRules(data []byte) (*Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := rules.validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *Rules) validate() error {
	sum := r.Weights.Packaging + r.Weights.Ingredients + r.Weights.Production + r.Weights.Company
	if sum < 0.999 || sum > 1.001 {
		return fmt.Errorf("factor weights must sum to 1.0, got %.3f", sum)
	}
	if r.Baseline < 0 || r.Baseline > 10 {
		return fmt.Errorf("baseline must be within [0, 10], got %.1f", r.Baseline)
	}
	for _, rule := range r.KeywordRules {
		switch rule.Factor {
		case FactorPackaging, FactorIngredients, FactorProduction, FactorCompany:
		default:
			return fmt.Errorf("keyword rule %q names unknown factor %q", rule.Keyword, rule.Factor)
		}
		if rule.Keyword == "" {
			return fmt.Errorf("keyword rule with empty keyword")
		}
	}
	return nil
}

// countryFor returns the inferred production country for a supplier,
// or "" for unknown suppliers.
func (r *Rules) countryFor(supplier string) string {
	return r.SupplierCountries[strings.ToLower(strings.TrimSpace(supplier))]
}
