package tasks

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tapelist/tlx/internal/models"
	tu "github.com/tapelist/tlx/internal/testing"
)

// fakeFetcher serves playlists from a map, failing for absent IDs.
type fakeFetcher struct {
	playlists map[int]*models.Playlist
	calls     atomic.Int32
}

func (f *fakeFetcher) Playlist(ctx context.Context, id int) (*models.Playlist, error) {
	f.calls.Add(1)
	if pl, ok := f.playlists[id]; ok {
		return pl, nil
	}
	return nil, errors.New("not found")
}

// fakeCache serves one feed snapshot.
type fakeCache struct {
	feed      string
	playlists []models.Playlist
}

func (f *fakeCache) Get(feed string) ([]models.Playlist, time.Time, bool, error) {
	if feed != f.feed {
		return nil, time.Time{}, false, nil
	}
	return f.playlists, time.Now(), true, nil
}

func playlistFixture(id int) *models.Playlist {
	return &models.Playlist{
		ID:    id,
		Title: fmt.Sprintf("playlist %d", id),
		User:  models.UserRef{ID: 1, Username: "maya"},
		Videos: []models.Video{
			{ID: id * 10, Title: "clip", TikTokURL: "https://www.tiktok.com/@u/video/1", TikTokID: "1"},
		},
	}
}

func TestBulkExport(t *testing.T) {
	t.Run("JSON Format", func(t *testing.T) {
		fetcher := &fakeFetcher{playlists: map[int]*models.Playlist{
			1: playlistFixture(1),
			2: playlistFixture(2),
		}}
		engine := NewExportEngine(fetcher, nil, nil)
		dir := t.TempDir()

		result, err := engine.BulkExport(context.Background(), nil, []int{1, 2}, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("bulk export failed: %v", err)
		}

		if result.SuccessfulExports != 2 || result.FailedExports != 0 {
			t.Errorf("unexpected counts: %+v", result)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "1.json"))
		tu.AssertFileExists(t, filepath.Join(dir, "2.json"))
		tu.AssertFileExists(t, result.ManifestPath)

		manifest := tu.MustReadFile(t, result.ManifestPath)
		if !strings.Contains(manifest, `"successful_exports": 2`) {
			t.Errorf("unexpected manifest: %s", manifest)
		}
	})

	t.Run("CSV Format Writes Videos And Metadata", func(t *testing.T) {
		fetcher := &fakeFetcher{playlists: map[int]*models.Playlist{1: playlistFixture(1)}}
		engine := NewExportEngine(fetcher, nil, nil)
		dir := t.TempDir()

		result, err := engine.BulkExport(context.Background(), nil, []int{1}, BulkExportOpts{
			Format:    "csv",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("bulk export failed: %v", err)
		}
		if result.SuccessfulExports != 1 {
			t.Fatalf("expected 1 success, got %+v", result)
		}

		tu.AssertFileExists(t, filepath.Join(dir, "1_videos.csv"))
		tu.AssertFileExists(t, filepath.Join(dir, "1_metadata.json"))
	})

	t.Run("Markdown Format Creates Directory Per Playlist", func(t *testing.T) {
		fetcher := &fakeFetcher{playlists: map[int]*models.Playlist{1: playlistFixture(1)}}
		engine := NewExportEngine(fetcher, nil, nil)
		dir := t.TempDir()

		_, err := engine.BulkExport(context.Background(), nil, []int{1}, BulkExportOpts{
			Format:    "markdown",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("bulk export failed: %v", err)
		}

		tu.AssertDirExists(t, filepath.Join(dir, "1"))
		tu.AssertFileExists(t, filepath.Join(dir, "1", "README.md"))
	})

	t.Run("Partial Failure Recorded In Manifest", func(t *testing.T) {
		fetcher := &fakeFetcher{playlists: map[int]*models.Playlist{1: playlistFixture(1)}}
		engine := NewExportEngine(fetcher, nil, nil)
		dir := t.TempDir()

		result, err := engine.BulkExport(context.Background(), nil, []int{1, 99}, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("bulk export failed: %v", err)
		}

		if result.SuccessfulExports != 1 || result.FailedExports != 1 {
			t.Errorf("unexpected counts: %+v", result)
		}

		manifest := tu.MustReadFile(t, result.ManifestPath)
		if !strings.Contains(manifest, "failed to fetch playlist") {
			t.Errorf("expected failure reason in manifest: %s", manifest)
		}
	})

	t.Run("Cache Fallback Serves Offline Playlist", func(t *testing.T) {
		fetcher := &fakeFetcher{playlists: map[int]*models.Playlist{}}
		cache := &fakeCache{feed: "my", playlists: []models.Playlist{*playlistFixture(7)}}
		engine := NewExportEngine(fetcher, cache, nil)
		dir := t.TempDir()

		result, err := engine.BulkExport(context.Background(), nil, []int{7}, BulkExportOpts{
			Format:    "json",
			OutputDir: dir,
		})
		if err != nil {
			t.Fatalf("bulk export failed: %v", err)
		}

		if result.SuccessfulExports != 1 {
			t.Fatalf("expected cached playlist to export, got %+v", result)
		}
		tu.AssertFileExists(t, filepath.Join(dir, "7.json"))
	})

	t.Run("Progress Updates Are Non-Blocking", func(t *testing.T) {
		fetcher := &fakeFetcher{playlists: map[int]*models.Playlist{
			1: playlistFixture(1),
			2: playlistFixture(2),
			3: playlistFixture(3),
		}}
		engine := NewExportEngine(fetcher, nil, nil)

		// Capacity 1 and no consumer: extra updates must be dropped, not block.
		prog := make(chan ProgressUpdate, 1)

		done := make(chan struct{})
		go func() {
			defer close(done)
			engine.BulkExport(context.Background(), prog, []int{1, 2, 3}, BulkExportOpts{
				Format:    "json",
				OutputDir: t.TempDir(),
			})
		}()

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("export blocked on a full progress channel")
		}
	})

	t.Run("Cancelled Context Stops Producing", func(t *testing.T) {
		fetcher := &fakeFetcher{playlists: map[int]*models.Playlist{1: playlistFixture(1)}}
		engine := NewExportEngine(fetcher, nil, nil)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		result, err := engine.BulkExport(ctx, nil, []int{1, 2, 3}, BulkExportOpts{
			Format:    "json",
			OutputDir: t.TempDir(),
		})
		if err != nil {
			t.Fatalf("expected graceful stop, got %v", err)
		}
		if result.SuccessfulExports != 0 {
			t.Errorf("expected no exports after cancellation, got %d", result.SuccessfulExports)
		}
	})

	t.Run("Nil Client Rejected", func(t *testing.T) {
		engine := NewExportEngine(nil, nil, nil)
		if _, err := engine.BulkExport(context.Background(), nil, []int{1}, BulkExportOpts{}); err == nil {
			t.Error("expected error for missing client")
		}
	})
}
