package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"stripwijzer/internal/model"
)

// ListProducts returns the full catalog snapshot with variants loaded,
// ordered by slug. This is the read surface for award computation and
// external presentation collaborators.
func (s *Store) ListProducts() ([]model.Product, error) {
	rows, err := s.db.Query(`
		SELECT id, slug, name, supplier, url, current_price, price_per_wash, washes_per_pack,
		       in_stock, rating, review_count, sustainability, features, pros, cons, last_checked
		FROM products ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range products {
		variants, err := s.variantsFor(products[i].ID)
		if err != nil {
			return nil, err
		}
		products[i].Variants = variants
	}

	return products, nil
}

// GetProductBySlug returns one product with its variants, or nil when absent
func (s *Store) GetProductBySlug(slug string) (*model.Product, error) {
	row := s.db.QueryRow(`
		SELECT id, slug, name, supplier, url, current_price, price_per_wash, washes_per_pack,
		       in_stock, rating, review_count, sustainability, features, pros, cons, last_checked
		FROM products WHERE slug = ?`, slug)

	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	p.Variants, err = s.variantsFor(p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// PriceHistory returns a product's change-only price log, oldest first
func (s *Store) PriceHistory(productID int64) ([]model.PriceHistoryEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, product_id, price, price_per_wash, recorded_at
		FROM price_history WHERE product_id = ?
		ORDER BY recorded_at ASC, id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load price history: %w", err)
	}
	defer rows.Close()

	var entries []model.PriceHistoryEntry
	for rows.Next() {
		var e model.PriceHistoryEntry
		if err := rows.Scan(&e.ID, &e.ProductID, &e.Price, &e.PricePerWash, &e.RecordedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) variantsFor(productID int64) ([]model.VariantRecord, error) {
	rows, err := s.db.Query(`
		SELECT name, wash_count, price, price_per_wash, currency, in_stock, is_default, scraped_at
		FROM variants WHERE product_id = ? ORDER BY id`, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	defer rows.Close()

	var variants []model.VariantRecord
	for rows.Next() {
		var v model.VariantRecord
		if err := rows.Scan(&v.Name, &v.WashCount, &v.Price, &v.PricePerWash, &v.Currency, &v.InStock, &v.IsDefault, &v.ScrapedAt); err != nil {
			return nil, err
		}
		variants = append(variants, v)
	}
	return variants, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (model.Product, error) {
	var p model.Product
	var featuresJSON, prosJSON, cJSON string
	err := row.Scan(&p.ID, &p.Slug, &p.Name, &p.Supplier, &p.URL,
		&p.CurrentPrice, &p.PricePerWash, &p.WashesPerPack,
		&p.InStock, &p.Rating, &p.ReviewCount, &p.Sustainability,
		&featuresJSON, &prosJSON, &cJSON, &p.LastChecked)
	if err != nil {
		return model.Product{}, err
	}

	if err := json.Unmarshal([]byte(featuresJSON), &p.Features); err != nil {
		return model.Product{}, fmt.Errorf("corrupt features list for %s: %w", p.Slug, err)
	}
	if err := json.Unmarshal([]byte(prosJSON), &p.Pros); err != nil {
		return model.Product{}, fmt.Errorf("corrupt pros list for %s: %w", p.Slug, err)
	}
	if err := json.Unmarshal([]byte(cJSON), &p.Cons); err != nil {
		return model.Product{}, fmt.Errorf("corrupt cons list for %s: %w", p.Slug, err)
	}
	return p, nil
}
