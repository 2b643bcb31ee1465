package repositories

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/tapelist/tlx/internal/shared"
)

// MaxHistoryEntries bounds the search history MRU list.
const MaxHistoryEntries = 5

// HistoryRepository persists search history as a bounded
// most-recently-used list. Re-searching an existing query moves it to
// the front instead of duplicating it; inserts beyond the bound evict
// the oldest entry.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new [HistoryRepository] with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Record inserts query at the front of the history. Blank queries are
// ignored.
func (r *HistoryRepository) Record(query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	sequence, err := NextSequence(r.db, "search_history")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	now := time.Now()
	stmt := `
		INSERT INTO search_history (id, query, sequence, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(query) DO UPDATE SET sequence = excluded.sequence, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(stmt, shared.GenerateID(), query, sequence, now, now); err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}

	return r.trim()
}

// trim evicts entries beyond the MRU bound.
func (r *HistoryRepository) trim() error {
	stmt := `
		DELETE FROM search_history
		WHERE sequence NOT IN (
			SELECT sequence FROM search_history ORDER BY sequence DESC LIMIT ?
		)
	`
	if _, err := r.db.Exec(stmt, MaxHistoryEntries); err != nil {
		return fmt.Errorf("failed to trim search history: %w", err)
	}
	return nil
}

// List returns queries most recent first.
func (r *HistoryRepository) List() ([]string, error) {
	rows, err := r.db.Query("SELECT query FROM search_history ORDER BY sequence DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	return collectQueries(rows)
}

// Filter returns queries starting with prefix, most recent first.
// An empty prefix behaves like [HistoryRepository.List].
func (r *HistoryRepository) Filter(prefix string) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return r.List()
	}

	pattern := strings.ReplaceAll(strings.ReplaceAll(prefix, "%", `\%`), "_", `\_`) + "%"
	stmt := `
		SELECT query FROM search_history
		WHERE query LIKE ? ESCAPE '\'
		ORDER BY sequence DESC
	`

	rows, err := r.db.Query(stmt, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to filter search history: %w", err)
	}
	defer rows.Close()

	return collectQueries(rows)
}

// Remove deletes a single query from the history.
func (r *HistoryRepository) Remove(query string) error {
	if _, err := r.db.Exec("DELETE FROM search_history WHERE query = ?", query); err != nil {
		return fmt.Errorf("failed to remove search: %w", err)
	}
	return nil
}

// Clear empties the history.
func (r *HistoryRepository) Clear() error {
	if _, err := r.db.Exec("DELETE FROM search_history"); err != nil {
		return fmt.Errorf("failed to clear search history: %w", err)
	}
	return nil
}

func collectQueries(rows *sql.Rows) ([]string, error) {
	var queries []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, fmt.Errorf("failed to scan search query: %w", err)
		}
		queries = append(queries, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return queries, nil
}
