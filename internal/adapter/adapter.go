// Package adapter extracts variant, stock, and review data from one source's
// page structure. Every source gets a ConfigurableAdapter driven by an
// ordered list of selector/pattern strategies; the first strategy that yields
// a positive price and a positive wash count wins.
package adapter

import (
	"context"

	"stripwijzer/internal/model"
)

// SiteAdapter is the per-source capability set.
//
// ExtractVariants fails with an extraction error when it yields zero
// variants; a product is never allowed to persist without pack-size options.
// ExtractStock reports the page-level availability signal, independent of
// per-variant stock. ExtractReviews is best-effort: failures degrade to an
// empty list and never fail the scrape of a product.
type SiteAdapter interface {
	Supplier() string

	ExtractVariants(ctx context.Context, url string) ([]model.VariantRecord, error)
	ExtractStock(ctx context.Context, url string) (bool, error)
	ExtractReviews(ctx context.Context, url string) ([]model.ReviewRecord, error)
}
