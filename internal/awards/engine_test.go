package awards

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"stripwijzer/internal/model"
)

func product(slug string, rating, sustainability float64, variants ...model.VariantRecord) model.Product {
	return model.Product{
		Slug:           slug,
		Rating:         rating,
		Sustainability: sustainability,
		Variants:       variants,
	}
}

func variant(washCount int, price float64) model.VariantRecord {
	v := model.VariantRecord{WashCount: washCount, Price: price}
	if washCount > 0 && price > 0 {
		v.PricePerWash = price / float64(washCount)
	}
	return v
}

func TestComputeSustainabilityTiesAllWin(t *testing.T) {
	products := []model.Product{
		product("a", 0, 9.2),
		product("b", 0, 8.5),
		product("c", 0, 9.2),
	}

	flags := Compute(products)

	assert.True(t, flags["a"].BestSustainability)
	assert.False(t, flags["b"].BestSustainability)
	assert.True(t, flags["c"].BestSustainability)
}

func TestComputeBestReviewExcludesZeroRatings(t *testing.T) {
	products := []model.Product{
		product("rated", 4.6, 0),
		product("unrated", 0, 0),
	}

	flags := Compute(products)

	assert.True(t, flags["rated"].BestReview)
	assert.False(t, flags["unrated"].BestReview, "zero ratings never qualify")
}

func TestComputeAllRatingsMissing(t *testing.T) {
	products := []model.Product{
		product("a", 0, 0),
		product("b", 0, 0),
	}

	flags := Compute(products)

	assert.False(t, flags["a"].BestReview)
	assert.False(t, flags["b"].BestReview)
}

func TestComputeBestDealPrice(t *testing.T) {
	products := []model.Product{
		product("a", 0, 0, variant(60, 12.99), variant(120, 21.99)),
		product("b", 0, 0, variant(60, 14.95)),
		product("no-variants", 0, 0),
	}

	flags := Compute(products)

	// a's best is 21.99/120 = 0.183, b's is 14.95/60 = 0.249
	assert.True(t, flags["a"].BestDealPrice)
	assert.False(t, flags["b"].BestDealPrice)
	assert.False(t, flags["no-variants"].BestDealPrice)
}

func TestComputeBestDealPriceIgnoresSentinelPrices(t *testing.T) {
	products := []model.Product{
		product("broken", 0, 0, variant(60, 0)),
		product("ok", 0, 0, variant(60, 14.95)),
	}

	flags := Compute(products)

	assert.False(t, flags["broken"].BestDealPrice)
	assert.True(t, flags["ok"].BestDealPrice)
}

func TestComputeBestTryPriceEligibility(t *testing.T) {
	products := []model.Product{
		product("a", 0, 0, variant(60, 12.99)),
		product("b", 0, 0, variant(30, 9.95)),
		product("c", 0, 0, variant(120, 21.99)),
	}

	flags := Compute(products)

	assert.False(t, flags["a"].BestTryPrice)
	assert.True(t, flags["b"].BestTryPrice)
	assert.False(t, flags["c"].BestTryPrice, "no trial-size variant, never wins")
}

func TestComputeDealPriceTieWithFloatNoise(t *testing.T) {
	// Both come to 0.2075/wash; one arrives via arithmetic that would not
	// compare equal without rounding.
	noisy := variant(80, 16.60)
	noisy.PricePerWash = 16.60/80.0 + 1e-12

	products := []model.Product{
		product("a", 0, 0, variant(40, 8.30)),
		product("b", 0, 0, noisy),
	}

	flags := Compute(products)

	assert.True(t, flags["a"].BestDealPrice)
	assert.True(t, flags["b"].BestDealPrice, "rounded comparison keeps conceptual ties intact")
}

func TestComputeEmptyCatalog(t *testing.T) {
	assert.Empty(t, Compute(nil))
}
