package sustainability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScorer(t *testing.T) *Scorer {
	t.Helper()
	rules, err := DefaultRules()
	require.NoError(t, err)
	return NewScorer(rules)
}

func TestScoreKnownKeywordsUnknownSupplier(t *testing.T) {
	scorer := newTestScorer(t)

	metrics := scorer.Score([]string{"biologisch afbreekbaar", "plastic-vrij"}, "Onbekend B.V.")

	assert.Equal(t, 7.5, metrics.Packaging)
	assert.Equal(t, 7.0, metrics.Ingredients)
	assert.Equal(t, 5.0, metrics.Production, "unknown supplier gets no production adjustment")
	assert.Equal(t, 5.0, metrics.Company)

	// 7.5*0.25 + 7.0*0.30 + 5.0*0.25 + 5.0*0.20 = 6.225 -> 6.2
	assert.Equal(t, 6.2, metrics.Total)
}

func TestScoreKeywordMatchIsCaseInsensitive(t *testing.T) {
	scorer := newTestScorer(t)

	metrics := scorer.Score([]string{"100% Biologisch Afbreekbaar"}, "")
	assert.Equal(t, 7.0, metrics.Ingredients)
}

func TestScoreSupplierCountryAdjustments(t *testing.T) {
	scorer := newTestScorer(t)

	domestic := scorer.Score(nil, "Cosmeau")
	assert.Equal(t, 7.5, domestic.Production, "domestic production bonus")

	overseas := scorer.Score(nil, "GreenGoods")
	assert.Equal(t, 4.0, overseas.Production, "known-overseas penalty")
}

func TestScoreClamping(t *testing.T) {
	scorer := newTestScorer(t)

	metrics := scorer.Score([]string{
		"plastic-vrij", "plasticvrij", "kartonnen verpakking", "recyclebaar",
	}, "")

	// 5.0 + 2.5 + 2.5 + 1.5 + 1.0 would be 12.5
	assert.Equal(t, 10.0, metrics.Packaging)
}

func TestScoreNoFeatures(t *testing.T) {
	scorer := newTestScorer(t)

	metrics := scorer.Score(nil, "")
	assert.Equal(t, 5.0, metrics.Total, "all factors stay at baseline")
}

func TestLoadRulesOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	custom := `
baseline: 5.0
weights:
  packaging: 0.25
  ingredients: 0.30
  production: 0.25
  company: 0.20
keyword_rules:
  - keyword: "navulbaar"
    factor: packaging
    adjustment: 3.0
supplier_countries:
  nieuwkomer: NL
country_adjustments:
  NL: 2.0
`
	require.NoError(t, os.WriteFile(path, []byte(custom), 0o644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	scorer := NewScorer(rules)

	metrics := scorer.Score([]string{"navulbaar"}, "Nieuwkomer")
	assert.Equal(t, 8.0, metrics.Packaging)
	assert.Equal(t, 7.0, metrics.Production)
}

func TestLoadRulesRejectsBadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	bad := `
baseline: 5.0
weights:
  packaging: 0.5
  ingredients: 0.5
  production: 0.5
  company: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadRules(path)
	assert.Error(t, err)
}

func TestLoadRulesRejectsUnknownFactor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	bad := `
baseline: 5.0
weights:
  packaging: 0.25
  ingredients: 0.30
  production: 0.25
  company: 0.20
keyword_rules:
  - keyword: "x"
    factor: marketing
    adjustment: 1.0
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := LoadRules(path)
	assert.Error(t, err)
}
