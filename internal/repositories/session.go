package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tapelist/tlx/internal/session"
)

// sessionKey is the well-known row ID of the single session record.
const sessionKey = "current"

// SessionRepository implements [session.Repository] on SQLite. The
// sessions table holds at most one row, serialized as JSON.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new [SessionRepository] with the given database connection
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// SaveSession upserts the session record.
func (r *SessionRepository) SaveSession(rec session.Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO sessions (id, payload, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, sessionKey, string(payload), now, now); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// LoadSession reads the session record. The second return value is
// false when no record exists.
func (r *SessionRepository) LoadSession() (*session.Record, bool, error) {
	var payload string
	err := r.db.QueryRow("SELECT payload FROM sessions WHERE id = ?", sessionKey).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query session: %w", err)
	}

	var rec session.Record
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return nil, false, fmt.Errorf("failed to decode session: %w", err)
	}
	return &rec, true, nil
}

// DeleteSession removes the session record. Deleting a missing record
// is not an error.
func (r *SessionRepository) DeleteSession() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionKey); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
