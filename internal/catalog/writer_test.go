package catalog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stripwijzer/internal/model"
	"stripwijzer/pkg/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testInput(variants ...model.VariantRecord) UpsertInput {
	return UpsertInput{
		Slug:        "cosmeau-wasstrips",
		Name:        "Cosmeau Wasstrips",
		Supplier:    "Cosmeau",
		URL:         "https://cosmeau.com/products/wasstrips",
		Variants:    variants,
		StockSignal: true,
		Reviews:     []model.ReviewRecord{{Rating: 4.6, Count: 120}},
		Features:    []string{"plastic-vrij"},
		Timestamp:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestUpsertCreatesProductWithDefaultVariant(t *testing.T) {
	store := newTestStore(t)

	result, err := store.UpsertProductWithVariants(testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 12.99, Currency: "EUR", InStock: true},
		model.VariantRecord{Name: "120 wasbeurten", WashCount: 120, Price: 21.99, Currency: "EUR", InStock: true},
	))
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.True(t, result.PriceChanged, "first write always records history")
	assert.Equal(t, 21.99, result.NewPrice, "120-wash variant has the lowest price per wash")

	product, err := store.GetProductBySlug("cosmeau-wasstrips")
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, 21.99, product.CurrentPrice)
	assert.Equal(t, 120, product.WashesPerPack)
	assert.InDelta(t, 0.18325, product.PricePerWash, 0.0001)
	assert.True(t, product.InStock)
	assert.Equal(t, 4.6, product.Rating)
	assert.Equal(t, 120, product.ReviewCount)
	assert.Equal(t, []string{"plastic-vrij"}, product.Features)

	require.Len(t, product.Variants, 2)
	assert.False(t, product.Variants[0].IsDefault)
	assert.True(t, product.Variants[1].IsDefault)
}

func TestUpsertEmptyVariantsRejectedBeforeAnyWrite(t *testing.T) {
	store := newTestStore(t)

	// No product may ever be created without variants.
	_, err := store.UpsertProductWithVariants(testInput())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	product, err := store.GetProductBySlug("cosmeau-wasstrips")
	require.NoError(t, err)
	assert.Nil(t, product)

	// An existing product must stay untouched by an empty rewrite.
	_, err = store.UpsertProductWithVariants(testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: true},
	))
	require.NoError(t, err)

	_, err = store.UpsertProductWithVariants(testInput())
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))

	product, err = store.GetProductBySlug("cosmeau-wasstrips")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 14.95, product.CurrentPrice)
	assert.Len(t, product.Variants, 1)
}

func TestUpsertReplacesVariantSetEntirely(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UpsertProductWithVariants(testInput(
		model.VariantRecord{Name: "32 wasbeurten", WashCount: 32, Price: 9.95, InStock: true},
		model.VariantRecord{Name: "64 wasbeurten", WashCount: 64, Price: 17.95, InStock: true},
	))
	require.NoError(t, err)

	_, err = store.UpsertProductWithVariants(testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: true},
	))
	require.NoError(t, err)

	product, err := store.GetProductBySlug("cosmeau-wasstrips")
	require.NoError(t, err)
	require.Len(t, product.Variants, 1, "latest scrape is the authoritative variant set")
	assert.Equal(t, "60 wasbeurten", product.Variants[0].Name)
	assert.True(t, product.Variants[0].IsDefault)
}

func TestPriceHistoryIsChangeOnly(t *testing.T) {
	store := newTestStore(t)

	write := func(price float64) *UpsertResult {
		result, err := store.UpsertProductWithVariants(testInput(
			model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: price, InStock: true},
		))
		require.NoError(t, err)
		return result
	}

	first := write(14.95)
	assert.True(t, first.PriceChanged)

	same := write(14.95)
	assert.False(t, same.PriceChanged, "unchanged price appends no history row")

	dropped := write(13.99)
	assert.True(t, dropped.PriceChanged)
	assert.Equal(t, 14.95, dropped.OldPrice)
	assert.Equal(t, 13.99, dropped.NewPrice)

	history, err := store.PriceHistory(first.ProductID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 14.95, history[0].Price)
	assert.Equal(t, 13.99, history[1].Price)
}

func TestUpsertSurvivesHistoryAppendFailure(t *testing.T) {
	store := newTestStore(t)

	// Break only the history side effect; the product write must still
	// come back as a success with the committed state.
	_, err := store.db.Exec(`DROP TABLE price_history`)
	require.NoError(t, err)

	result, err := store.UpsertProductWithVariants(testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: true},
	))
	require.NoError(t, err)
	assert.False(t, result.PriceChanged)
	assert.Equal(t, 14.95, result.NewPrice)

	product, err := store.GetProductBySlug("cosmeau-wasstrips")
	require.NoError(t, err)
	require.NotNil(t, product)
	assert.Equal(t, 14.95, product.CurrentPrice)
}

func TestUpsertStockRequiresPageSignalAndVariant(t *testing.T) {
	store := newTestStore(t)

	in := testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: false},
	)
	_, err := store.UpsertProductWithVariants(in)
	require.NoError(t, err)

	product, err := store.GetProductBySlug(in.Slug)
	require.NoError(t, err)
	assert.False(t, product.InStock, "page signal true but no variant in stock")

	in = testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: true},
	)
	in.StockSignal = false
	_, err = store.UpsertProductWithVariants(in)
	require.NoError(t, err)

	product, err = store.GetProductBySlug(in.Slug)
	require.NoError(t, err)
	assert.False(t, product.InStock, "variant in stock but page signal false")
}

func TestUpsertKeepsRatingWhenReviewsDegrade(t *testing.T) {
	store := newTestStore(t)

	_, err := store.UpsertProductWithVariants(testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: true},
	))
	require.NoError(t, err)

	in := testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: true},
	)
	in.Reviews = nil
	_, err = store.UpsertProductWithVariants(in)
	require.NoError(t, err)

	product, err := store.GetProductBySlug(in.Slug)
	require.NoError(t, err)
	assert.Equal(t, 4.6, product.Rating, "degraded review extraction keeps the previous rating")
	assert.Equal(t, 120, product.ReviewCount)
}

func TestUpsertAggregatesWeightedReviews(t *testing.T) {
	store := newTestStore(t)

	in := testInput(
		model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: true},
	)
	in.Reviews = []model.ReviewRecord{
		{Rating: 5.0, Count: 10},
		{Rating: 4.0, Count: 30},
		{Rating: 0, Count: 5}, // filtered
	}
	_, err := store.UpsertProductWithVariants(in)
	require.NoError(t, err)

	product, err := store.GetProductBySlug(in.Slug)
	require.NoError(t, err)
	assert.Equal(t, 4.3, product.Rating, "(5*10 + 4*30) / 40 = 4.25 -> 4.3")
	assert.Equal(t, 40, product.ReviewCount)
}

func TestListProductsSnapshot(t *testing.T) {
	store := newTestStore(t)

	first := testInput(model.VariantRecord{Name: "60 wasbeurten", WashCount: 60, Price: 14.95, InStock: true})
	_, err := store.UpsertProductWithVariants(first)
	require.NoError(t, err)

	second := first
	second.Slug = "seepje-wasstrips"
	second.Name = "Seepje Wasstrips"
	second.Supplier = "Seepje"
	_, err = store.UpsertProductWithVariants(second)
	require.NoError(t, err)

	products, err := store.ListProducts()
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "cosmeau-wasstrips", products[0].Slug)
	assert.Equal(t, "seepje-wasstrips", products[1].Slug)
	assert.Len(t, products[0].Variants, 1)
}
