// Package catalog persists the normalized product catalog: products keyed by
// slug, their replace-all variant sets, the change-only price history, and
// the operational scrape log.
package catalog

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store wraps the catalog database
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	slug TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	supplier TEXT NOT NULL,
	url TEXT NOT NULL,
	current_price REAL NOT NULL DEFAULT 0,
	price_per_wash REAL NOT NULL DEFAULT 0,
	washes_per_pack INTEGER NOT NULL DEFAULT 0,
	in_stock INTEGER NOT NULL DEFAULT 0,
	rating REAL NOT NULL DEFAULT 0,
	review_count INTEGER NOT NULL DEFAULT 0,
	sustainability REAL NOT NULL DEFAULT 0,
	features TEXT NOT NULL DEFAULT '[]',
	pros TEXT NOT NULL DEFAULT '[]',
	cons TEXT NOT NULL DEFAULT '[]',
	last_checked TIMESTAMP
);

CREATE TABLE IF NOT EXISTS variants (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	wash_count INTEGER NOT NULL,
	price REAL NOT NULL,
	price_per_wash REAL NOT NULL,
	currency TEXT NOT NULL DEFAULT 'EUR',
	in_stock INTEGER NOT NULL DEFAULT 0,
	is_default INTEGER NOT NULL DEFAULT 0,
	scraped_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id);

CREATE TABLE IF NOT EXISTS price_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE CASCADE,
	price REAL NOT NULL,
	price_per_wash REAL NOT NULL,
	recorded_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_price_history_product ON price_history(product_id, recorded_at);

CREATE TABLE IF NOT EXISTS scrape_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id TEXT NOT NULL,
	supplier TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	old_price REAL NOT NULL DEFAULT 0,
	new_price REAL NOT NULL DEFAULT 0,
	price_change REAL NOT NULL DEFAULT 0,
	started_at TIMESTAMP NOT NULL,
	completed_at TIMESTAMP,
	duration_ms INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_scrape_logs_run ON scrape_logs(run_id);
`

// Open opens (or creates) the catalog database at path and applies the schema
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog db: %w", err)
	}

	// Single writer; sqlite connections are cheap but not concurrent-safe
	// for writes, and the pipeline is sequential anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}
