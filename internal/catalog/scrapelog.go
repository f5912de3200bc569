package catalog

import (
	"database/sql"
	"time"

	"stripwijzer/internal/model"
)

// StartRunLog inserts the run-level log entry with status "running" and
// returns its id for the terminal update.
func (s *Store) StartRunLog(runID string, startedAt time.Time) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO scrape_logs (run_id, status, started_at)
		VALUES (?, ?, ?)`,
		runID, model.ScrapeStatusRunning, startedAt)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CompleteRunLog moves the run-level entry to its terminal status
func (s *Store) CompleteRunLog(logID int64, status, message string, completedAt time.Time) error {
	var startedAt time.Time
	if err := s.db.QueryRow(`SELECT started_at FROM scrape_logs WHERE id = ?`, logID).Scan(&startedAt); err != nil {
		return err
	}

	_, err := s.db.Exec(`
		UPDATE scrape_logs
		SET status = ?, message = ?, completed_at = ?, duration_ms = ?
		WHERE id = ?`,
		status, message, completedAt, completedAt.Sub(startedAt).Milliseconds(), logID)
	return err
}

// AddTargetLog records one per-product attempt within a run
func (s *Store) AddTargetLog(entry model.ScrapeLogEntry) error {
	var completedAt interface{}
	if entry.CompletedAt != nil {
		completedAt = *entry.CompletedAt
	}
	_, err := s.db.Exec(`
		INSERT INTO scrape_logs (run_id, supplier, status, message, old_price, new_price, price_change, started_at, completed_at, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.RunID, entry.Supplier, entry.Status, entry.Message,
		entry.OldPrice, entry.NewPrice, entry.PriceChange,
		entry.StartedAt, completedAt, entry.DurationMs)
	return err
}

// LatestRunID returns the run id of the most recently started run, or ""
// when no run has been logged yet.
func (s *Store) LatestRunID() (string, error) {
	var runID string
	err := s.db.QueryRow(`
		SELECT run_id FROM scrape_logs
		WHERE supplier = ''
		ORDER BY started_at DESC, id DESC
		LIMIT 1`).Scan(&runID)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return runID, nil
}

// RunLogs returns all log entries for one run, run-level entry first
func (s *Store) RunLogs(runID string) ([]model.ScrapeLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, run_id, supplier, status, message, old_price, new_price, price_change, started_at, completed_at, duration_ms
		FROM scrape_logs WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []model.ScrapeLogEntry
	for rows.Next() {
		var (
			e           model.ScrapeLogEntry
			completedAt sql.NullTime
		)
		if err := rows.Scan(&e.ID, &e.RunID, &e.Supplier, &e.Status, &e.Message,
			&e.OldPrice, &e.NewPrice, &e.PriceChange,
			&e.StartedAt, &completedAt, &e.DurationMs); err != nil {
			return nil, err
		}
		if completedAt.Valid {
			t := completedAt.Time
			e.CompletedAt = &t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
