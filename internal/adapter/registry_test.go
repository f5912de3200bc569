package adapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stripwijzer/config"
)

func TestTargetsRegistry(t *testing.T) {
	cfg := config.LoadConfig()
	targets := Targets(cfg, newMockCacheService(), NewBrowserFetcher("", cfg.ChromeNavTimeout, cfg.ChromeSettle))

	require.Len(t, targets, 5)

	seen := make(map[string]bool)
	for _, target := range targets {
		assert.NotEmpty(t, target.Slug)
		assert.NotEmpty(t, target.Name)
		assert.NotEmpty(t, target.Supplier)
		assert.NotEmpty(t, target.URL)
		assert.NotEmpty(t, target.Features)
		require.NotNil(t, target.Adapter)
		assert.Equal(t, target.Supplier, target.Adapter.Supplier())

		assert.False(t, seen[target.Slug], "duplicate slug %s", target.Slug)
		seen[target.Slug] = true
	}

	assert.Equal(t, "cosmeau-wasstrips", targets[0].Slug)
	assert.Equal(t, "wasstrip-nl-wasstrips", targets[1].Slug)
	assert.Equal(t, "seepje-wasstrips", targets[2].Slug)
	assert.Equal(t, "wasjewasje-wasstrips", targets[3].Slug)
	assert.Equal(t, "greengoods-wasstrips", targets[4].Slug)
}
