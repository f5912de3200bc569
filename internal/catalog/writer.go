package catalog

import (
	"database/sql"
	"encoding/json"
	"math"
	"time"

	"stripwijzer/helpers"
	"stripwijzer/internal/model"
	"stripwijzer/logger"
	"stripwijzer/pkg/errors"
)

// UpsertInput is one adapter result ready for persistence
type UpsertInput struct {
	Slug     string
	Name     string
	Supplier string
	URL      string

	Variants    []model.VariantRecord
	StockSignal bool
	Reviews     []model.ReviewRecord

	Features       []string
	Pros           []string
	Cons           []string
	Sustainability float64

	Timestamp time.Time
}

// UpsertResult reports what the write did, for logging and event publication
type UpsertResult struct {
	ProductID    int64
	Created      bool
	OldPrice     float64
	NewPrice     float64
	PriceChanged bool
	Default      model.VariantRecord
}

// UpsertProductWithVariants persists one adapter result as a single atomic
// transaction: upsert the product by slug, replace the full variant set,
// recompute the default variant, and write its price fields back onto the
// product. An empty candidate set fails before any write; no product may
// persist with zero variants. The change-only price history append happens
// after the transaction commits.
func (s *Store) UpsertProductWithVariants(in UpsertInput) (*UpsertResult, error) {
	if len(in.Variants) == 0 {
		return nil, errors.NewValidation(in.Supplier, "no variants extracted; refusing to persist "+in.Slug)
	}

	variants := model.NormalizeVariants(in.Variants)

	tx, err := s.db.Begin()
	if err != nil {
		return nil, errors.NewPersistence(in.Supplier, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := s.upsertInTx(tx, in, variants)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewPersistence(in.Supplier, "failed to commit product write", err)
	}

	// History is a side effect of the committed write; a failure here must
	// not roll back the catalog state or turn the persisted product into a
	// failed target.
	changed, err := s.appendHistoryIfChanged(result.ProductID, result.NewPrice, result.Default.PricePerWash, in.Timestamp)
	if err != nil {
		logger.ForCatalog().
			WithField("slug", in.Slug).
			WithError(err).
			Error().Msg("failed to append price history")
		return result, nil
	}
	result.PriceChanged = changed

	return result, nil
}

func (s *Store) upsertInTx(tx *sql.Tx, in UpsertInput, variants []model.VariantRecord) (*UpsertResult, error) {
	var (
		productID int64
		oldPrice  float64
		created   bool
	)

	err := tx.QueryRow(`SELECT id, current_price FROM products WHERE slug = ?`, in.Slug).
		Scan(&productID, &oldPrice)
	switch {
	case err == sql.ErrNoRows:
		// Seed price fields with placeholders; the true default is written
		// below once the new variant set is in place.
		res, insertErr := tx.Exec(`
			INSERT INTO products (slug, name, supplier, url, current_price, price_per_wash, washes_per_pack, last_checked)
			VALUES (?, ?, ?, ?, 0, 0, 0, ?)`,
			in.Slug, in.Name, in.Supplier, in.URL, in.Timestamp)
		if insertErr != nil {
			return nil, errors.NewPersistence(in.Supplier, "failed to insert product", insertErr)
		}
		productID, insertErr = res.LastInsertId()
		if insertErr != nil {
			return nil, errors.NewPersistence(in.Supplier, "failed to read product id", insertErr)
		}
		created = true
	case err != nil:
		return nil, errors.NewPersistence(in.Supplier, "failed to look up product", err)
	default:
		// Refresh identity fields only; price fields follow the default
		// variant recomputation below.
		if _, updateErr := tx.Exec(`
			UPDATE products SET name = ?, supplier = ?, url = ?, last_checked = ? WHERE id = ?`,
			in.Name, in.Supplier, in.URL, in.Timestamp, productID); updateErr != nil {
			return nil, errors.NewPersistence(in.Supplier, "failed to update product", updateErr)
		}
	}

	// Replace-all: the latest scrape is the authoritative variant set.
	if _, err := tx.Exec(`DELETE FROM variants WHERE product_id = ?`, productID); err != nil {
		return nil, errors.NewPersistence(in.Supplier, "failed to clear variants", err)
	}

	anyVariantInStock := false
	for _, v := range variants {
		if _, err := tx.Exec(`
			INSERT INTO variants (product_id, name, wash_count, price, price_per_wash, currency, in_stock, is_default, scraped_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			productID, v.Name, v.WashCount, v.Price, v.PricePerWash, v.Currency, v.InStock, v.IsDefault, in.Timestamp); err != nil {
			return nil, errors.NewPersistence(in.Supplier, "failed to insert variant", err)
		}
		if v.InStock {
			anyVariantInStock = true
		}
	}

	defIdx := model.SelectDefaultVariant(variants)
	def := variants[defIdx]

	rating, reviewCount := aggregateReviews(in.Reviews)
	inStock := in.StockSignal && anyVariantInStock

	featuresJSON, prosJSON, consJSON, err := marshalLists(in.Features, in.Pros, in.Cons)
	if err != nil {
		return nil, errors.NewPersistence(in.Supplier, "failed to encode product lists", err)
	}

	// Denormalized price fields mirror the freshly selected default variant.
	if reviewCount > 0 {
		_, err = tx.Exec(`
			UPDATE products
			SET current_price = ?, price_per_wash = ?, washes_per_pack = ?, in_stock = ?,
			    rating = ?, review_count = ?, sustainability = ?,
			    features = ?, pros = ?, cons = ?, last_checked = ?
			WHERE id = ?`,
			def.Price, def.PricePerWash, def.WashCount, inStock,
			rating, reviewCount, in.Sustainability,
			featuresJSON, prosJSON, consJSON, in.Timestamp, productID)
	} else {
		// Review extraction degraded to nothing; keep the previous rating
		// rather than overwriting it with "no data".
		_, err = tx.Exec(`
			UPDATE products
			SET current_price = ?, price_per_wash = ?, washes_per_pack = ?, in_stock = ?,
			    sustainability = ?, features = ?, pros = ?, cons = ?, last_checked = ?
			WHERE id = ?`,
			def.Price, def.PricePerWash, def.WashCount, inStock,
			in.Sustainability, featuresJSON, prosJSON, consJSON, in.Timestamp, productID)
	}
	if err != nil {
		return nil, errors.NewPersistence(in.Supplier, "failed to write denormalized price fields", err)
	}

	return &UpsertResult{
		ProductID: productID,
		Created:   created,
		OldPrice:  oldPrice,
		NewPrice:  def.Price,
		Default:   def,
	}, nil
}

// appendHistoryIfChanged appends a history row only when the new default
// price differs from the most recently recorded one (change-only log).
func (s *Store) appendHistoryIfChanged(productID int64, price, pricePerWash float64, at time.Time) (bool, error) {
	var lastPrice float64
	err := s.db.QueryRow(`
		SELECT price FROM price_history
		WHERE product_id = ?
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1`, productID).Scan(&lastPrice)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	if err == nil && math.Abs(lastPrice-price) < 1e-9 {
		return false, nil
	}

	_, err = s.db.Exec(`
		INSERT INTO price_history (product_id, price, price_per_wash, recorded_at)
		VALUES (?, ?, ?, ?)`,
		productID, price, pricePerWash, at)
	if err != nil {
		return false, err
	}
	return true, nil
}

// aggregateReviews folds review records into a count-weighted mean rating.
// Records with a non-positive rating or count are filtered out.
func aggregateReviews(reviews []model.ReviewRecord) (float64, int) {
	var weighted float64
	var count int
	for _, r := range reviews {
		if r.Rating <= 0 || r.Count <= 0 {
			continue
		}
		weighted += r.Rating * float64(r.Count)
		count += r.Count
	}
	if count == 0 {
		return 0, 0
	}
	return helpers.RoundTo(weighted/float64(count), 1), count
}

func marshalLists(features, pros, cons []string) (string, string, string, error) {
	f, err := marshalList(features)
	if err != nil {
		return "", "", "", err
	}
	p, err := marshalList(pros)
	if err != nil {
		return "", "", "", err
	}
	c, err := marshalList(cons)
	if err != nil {
		return "", "", "", err
	}
	return f, p, c, nil
}

func marshalList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
