package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectDefaultVariantLowestPricePerWash(t *testing.T) {
	variants := NormalizeVariants([]VariantRecord{
		{Name: "60 wasbeurten", WashCount: 60, Price: 12.99},
		{Name: "120 wasbeurten", WashCount: 120, Price: 21.99},
	})

	def := SelectDefaultVariant(variants)
	assert.Equal(t, 1, def, "120-wash variant has the lower price per wash")
	assert.InDelta(t, 0.2165, variants[0].PricePerWash, 0.0001)
	assert.InDelta(t, 0.18325, variants[1].PricePerWash, 0.0001)

	assert.False(t, variants[0].IsDefault)
	assert.True(t, variants[1].IsDefault)
}

func TestSelectDefaultVariantExplicitMarkWins(t *testing.T) {
	variants := NormalizeVariants([]VariantRecord{
		{Name: "60 wasbeurten", WashCount: 60, Price: 12.99, IsDefault: true},
		{Name: "120 wasbeurten", WashCount: 120, Price: 21.99},
	})

	assert.True(t, variants[0].IsDefault)
	assert.False(t, variants[1].IsDefault)
}

func TestSelectDefaultVariantDoubleMarkKeepsFirst(t *testing.T) {
	variants := NormalizeVariants([]VariantRecord{
		{Name: "a", WashCount: 30, Price: 9.95, IsDefault: true},
		{Name: "b", WashCount: 60, Price: 14.95, IsDefault: true},
	})

	assert.True(t, variants[0].IsDefault)
	assert.False(t, variants[1].IsDefault, "exactly one default survives normalization")
}

func TestSelectDefaultVariantAllPricesMissing(t *testing.T) {
	variants := NormalizeVariants([]VariantRecord{
		{Name: "a", WashCount: 0, Price: 0},
		{Name: "b", WashCount: 0, Price: 0},
	})

	assert.True(t, variants[0].IsDefault, "first variant wins when nothing is comparable")
}

func TestSelectDefaultVariantEmpty(t *testing.T) {
	assert.Equal(t, -1, SelectDefaultVariant(nil))
}
