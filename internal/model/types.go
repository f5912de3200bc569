package model

import "time"

// VariantRecord represents one pack-size option scraped from a product page.
// Variants carry no cross-scrape identity; every scrape produces the full
// authoritative set for its product.
type VariantRecord struct {
	Name         string    `json:"name"`
	WashCount    int       `json:"wash_count"`
	Price        float64   `json:"price"`
	PricePerWash float64   `json:"price_per_wash"`
	Currency     string    `json:"currency"`
	InStock      bool      `json:"in_stock"`
	IsDefault    bool      `json:"is_default"`
	ScrapedAt    time.Time `json:"scraped_at"`
}

// ReviewRecord represents review data extracted from a source page. A record
// is either a single review (Count 1) or a widget aggregate (Count > 1 with
// Rating as the aggregate mean).
type ReviewRecord struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// Product is one catalog row, keyed by a unique slug. The denormalized price
// fields always mirror the currently selected default variant.
type Product struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	Supplier       string    `json:"supplier"`
	URL            string    `json:"url"`
	CurrentPrice   float64   `json:"current_price"`
	PricePerWash   float64   `json:"price_per_wash"`
	WashesPerPack  int       `json:"washes_per_pack"`
	InStock        bool      `json:"in_stock"`
	Rating         float64   `json:"rating"`
	ReviewCount    int       `json:"review_count"`
	Sustainability float64   `json:"sustainability"`
	Features       []string  `json:"features"`
	Pros           []string  `json:"pros"`
	Cons           []string  `json:"cons"`
	LastChecked    time.Time `json:"last_checked"`

	Variants []VariantRecord `json:"variants,omitempty"`
}

// PriceHistoryEntry is one row of a product's change-only price log
type PriceHistoryEntry struct {
	ID           int64     `json:"id"`
	ProductID    int64     `json:"product_id"`
	Price        float64   `json:"price"`
	PricePerWash float64   `json:"price_per_wash"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Scrape log statuses
const (
	ScrapeStatusRunning = "running"
	ScrapeStatusSuccess = "success"
	ScrapeStatusFailed  = "failed"
	ScrapeStatusPartial = "partial"
)

// ScrapeLogEntry is the operational record of one run or one per-product attempt
type ScrapeLogEntry struct {
	ID          int64      `json:"id"`
	RunID       string     `json:"run_id"`
	Supplier    string     `json:"supplier"`
	Status      string     `json:"status"`
	Message     string     `json:"message"`
	OldPrice    float64    `json:"old_price"`
	NewPrice    float64    `json:"new_price"`
	PriceChange float64    `json:"price_change"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	DurationMs  int64      `json:"duration_ms"`
}

// AwardFlags are derived, catalog-relative flags; never persisted
type AwardFlags struct {
	BestReview         bool `json:"best_review"`
	BestSustainability bool `json:"best_sustainability"`
	BestDealPrice      bool `json:"best_deal_price"`
	BestTryPrice       bool `json:"best_try_price"`
}

// SustainabilityMetrics is the derived score breakdown; never persisted
type SustainabilityMetrics struct {
	Packaging   float64 `json:"packaging"`
	Ingredients float64 `json:"ingredients"`
	Production  float64 `json:"production"`
	Company     float64 `json:"company"`
	Total       float64 `json:"total"`
}
