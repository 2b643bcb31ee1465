package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/tapelist/tlx/internal/models"
)

// Feed names for cached playlist snapshots.
const (
	FeedMine   = "my"
	FeedLiked  = "liked"
	FeedRecent = "recent"
)

// PlaylistCacheRepository stores the last-fetched playlist list per
// feed. A refetch replaces the snapshot wholesale; there is no partial
// merge.
type PlaylistCacheRepository struct {
	db *sql.DB
}

// NewPlaylistCacheRepository creates a new [PlaylistCacheRepository] with the given database connection
func NewPlaylistCacheRepository(db *sql.DB) *PlaylistCacheRepository {
	return &PlaylistCacheRepository{db: db}
}

// Put replaces the snapshot for feed.
func (r *PlaylistCacheRepository) Put(feed string, playlists []models.Playlist) error {
	payload, err := json.Marshal(playlists)
	if err != nil {
		return fmt.Errorf("failed to encode playlist snapshot: %w", err)
	}

	query := `
		INSERT INTO playlist_cache (feed, payload, fetched_at) VALUES (?, ?, ?)
		ON CONFLICT(feed) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at
	`

	if _, err := r.db.Exec(query, feed, string(payload), time.Now()); err != nil {
		return fmt.Errorf("failed to cache playlists: %w", err)
	}
	return nil
}

// Get returns the snapshot for feed and when it was fetched. The
// boolean is false when no snapshot exists.
func (r *PlaylistCacheRepository) Get(feed string) ([]models.Playlist, time.Time, bool, error) {
	var (
		payload   string
		fetchedAt time.Time
	)

	err := r.db.QueryRow("SELECT payload, fetched_at FROM playlist_cache WHERE feed = ?", feed).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to query playlist cache: %w", err)
	}

	var playlists []models.Playlist
	if err := json.Unmarshal([]byte(payload), &playlists); err != nil {
		return nil, time.Time{}, false, fmt.Errorf("failed to decode playlist snapshot: %w", err)
	}
	return playlists, fetchedAt, true, nil
}

// Invalidate drops the snapshot for feed.
func (r *PlaylistCacheRepository) Invalidate(feed string) error {
	if _, err := r.db.Exec("DELETE FROM playlist_cache WHERE feed = ?", feed); err != nil {
		return fmt.Errorf("failed to invalidate playlist cache: %w", err)
	}
	return nil
}
