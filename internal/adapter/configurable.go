package adapter

import (
	"context"
	"time"

	"stripwijzer/internal/model"
	"stripwijzer/logger"
	"stripwijzer/pkg/errors"
	"stripwijzer/services/cache"
)

// AdapterConfig holds the static configuration for one source
type AdapterConfig struct {
	Supplier  string
	CacheKey  string
	BlockTime int // seconds

	UseBrowser bool

	VariantStrategies []VariantStrategy
	StockStrategies   []StockStrategy
	ReviewStrategies  []ReviewStrategy
}

// ConfigurableAdapter is a site adapter driven by ordered strategy lists
type ConfigurableAdapter struct {
	BaseAdapter
	VariantStrategies []VariantStrategy
	StockStrategies   []StockStrategy
	ReviewStrategies  []ReviewStrategy
}

// NewConfigurableAdapter creates an adapter from its static configuration
func NewConfigurableAdapter(config AdapterConfig, cacheSvc cache.CacheService, browser *BrowserFetcher) *ConfigurableAdapter {
	return &ConfigurableAdapter{
		BaseAdapter: BaseAdapter{
			SupplierName: config.Supplier,
			CacheKey:     config.CacheKey,
			CacheSvc:     cacheSvc,
			BlockTime:    time.Duration(config.BlockTime) * time.Second,
			UseBrowser:   config.UseBrowser,
			Browser:      browser,
		},
		VariantStrategies: config.VariantStrategies,
		StockStrategies:   config.StockStrategies,
		ReviewStrategies:  config.ReviewStrategies,
	}
}

// ExtractVariants runs the variant strategies in order and returns the first
// usable result. A variant is usable when both its price and wash count are
// positive; sentinel-priced variants never reach the catalog.
func (a *ConfigurableAdapter) ExtractVariants(ctx context.Context, url string) ([]model.VariantRecord, error) {
	doc, err := a.document(ctx, url)
	if err != nil {
		return nil, err
	}

	for _, strategy := range a.VariantStrategies {
		raw := strategy.Extract(doc)

		var usable []model.VariantRecord
		for _, v := range raw {
			if v.Price > 0 && v.WashCount > 0 {
				usable = append(usable, v)
			}
		}

		if len(usable) > 0 {
			logger.ForAdapter(a.SupplierName).
				WithField("strategy", strategy.Name).
				WithField("variants", len(usable)).
				Debug().Msg("extracted variants")
			return usable, nil
		}
		if len(raw) > 0 {
			logger.ForAdapter(a.SupplierName).
				WithField("strategy", strategy.Name).
				WithField("discarded", len(raw)).
				Debug().Msg("strategy yielded only unusable variants")
		}
	}

	return nil, errors.NewExtraction(a.SupplierName, "no usable variants found at "+url, nil)
}

// ExtractStock runs the stock strategies in order. When no strategy can
// decide, the page is treated as in stock; the catalog's conjunction with
// per-variant stock still gates the final flag.
func (a *ConfigurableAdapter) ExtractStock(ctx context.Context, url string) (bool, error) {
	doc, err := a.document(ctx, url)
	if err != nil {
		return false, err
	}

	for _, strategy := range a.StockStrategies {
		if inStock, decided := strategy.Extract(doc); decided {
			return inStock, nil
		}
	}

	return true, nil
}

// ExtractReviews runs the review strategies in order. Review extraction is
// best-effort: fetch failures propagate, but a page without recognizable
// review data yields an empty list, not an error.
func (a *ConfigurableAdapter) ExtractReviews(ctx context.Context, url string) ([]model.ReviewRecord, error) {
	doc, err := a.document(ctx, url)
	if err != nil {
		return nil, err
	}

	for _, strategy := range a.ReviewStrategies {
		if reviews := strategy.Extract(doc); len(reviews) > 0 {
			return reviews, nil
		}
	}

	return nil, nil
}
