package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/shared"
)

// PlaylistFetcher retrieves a playlist's detail, videos included.
// Satisfied by the api client.
type PlaylistFetcher interface {
	Playlist(ctx context.Context, id int) (*models.Playlist, error)
}

// SnapshotCache reads locally cached playlist snapshots. Satisfied by
// repositories.PlaylistCacheRepository.
type SnapshotCache interface {
	Get(feed string) ([]models.Playlist, time.Time, bool, error)
}

// ExportEngine exports playlists to disk.
//
// cache is optional; when present it serves playlists the backend
// cannot (offline path). Cached snapshots come from listing endpoints
// and may lack the video list.
type ExportEngine struct {
	client PlaylistFetcher
	cache  SnapshotCache
	logger *log.Logger
}

// NewExportEngine creates an ExportEngine. cache and logger may be nil.
func NewExportEngine(client PlaylistFetcher, cache SnapshotCache, logger *log.Logger) *ExportEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ExportEngine{client: client, cache: cache, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *ExportEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// fromCache looks for id in any cached feed snapshot.
func (e *ExportEngine) fromCache(id int) (*models.Playlist, bool) {
	if e.cache == nil {
		return nil, false
	}

	for _, feed := range []string{"my", "liked", "recent"} {
		playlists, _, ok, err := e.cache.Get(feed)
		if err != nil || !ok {
			continue
		}
		for i := range playlists {
			if playlists[i].ID == id {
				return &playlists[i], true
			}
		}
	}
	return nil, false
}
