package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/tapelist/tlx/internal/api"
	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/repositories"
	"github.com/tapelist/tlx/internal/session"
	"github.com/tapelist/tlx/internal/shared"
	tu "github.com/tapelist/tlx/internal/testing"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

type memSessionRepo struct {
	rec *session.Record
}

func (m *memSessionRepo) SaveSession(rec session.Record) error {
	m.rec = &rec
	return nil
}

func (m *memSessionRepo) LoadSession() (*session.Record, bool, error) {
	if m.rec == nil {
		return nil, false, nil
	}
	return m.rec, true, nil
}

func (m *memSessionRepo) DeleteSession() error {
	m.rec = nil
	return nil
}

func newLoggedInStore(t *testing.T) (*session.Store, *memSessionRepo) {
	t.Helper()
	repo := &memSessionRepo{rec: &session.Record{Token: &oauth2.Token{AccessToken: "tok"}}}
	store := session.NewStore(repo, nil)
	if err := store.Hydrate(); err != nil {
		t.Fatalf("failed to hydrate store: %v", err)
	}
	return store, repo
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			store, _ := newLoggedInStore(t)
			client := api.NewClient("", nil, store, logger)

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Client:     client,
				Store:      store,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.client != client {
				t.Error("expected client to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built from the client")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil httpClient uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.httpClient != http.DefaultClient {
				t.Error("expected httpClient to default to http.DefaultClient")
			}
		})

		t.Run("with nil client skips the engine", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.engine != nil {
				t.Error("expected no engine without an api client")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			expected := `{"key":"value"}` + "\n"
			if result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			// channels cannot be marshaled to JSON
			data := make(chan int)
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			data := map[string]string{"key": "value"}
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(data, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writePlain("hello %s", "world")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			failing := &tu.FWriter{}
			runner := NewRunner(RunnerOpts{Output: failing})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
			}
		}
	})

	t.Run("requireSession", func(t *testing.T) {
		t.Run("rejects without a store", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			err := runner.requireSession()
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("rejects a logged-out store", func(t *testing.T) {
			store := session.NewStore(&memSessionRepo{}, nil)
			runner := NewRunner(RunnerOpts{Store: store})

			err := runner.requireSession()
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})

		t.Run("accepts a logged-in store", func(t *testing.T) {
			store, _ := newLoggedInStore(t)
			runner := NewRunner(RunnerOpts{Store: store})

			if err := runner.requireSession(); err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})

		t.Run("gates explore before any request", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.PlaylistsExplore(context.Background(), &cli.Command{})
			if !errors.Is(err, shared.ErrNotAuthenticated) {
				t.Errorf("expected ErrNotAuthenticated, got %v", err)
			}
		})
	})

	t.Run("apiErr", func(t *testing.T) {
		t.Run("passes nil through", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if err := runner.apiErr(nil); err != nil {
				t.Errorf("expected nil, got %v", err)
			}
		})

		t.Run("tears down the session on 401", func(t *testing.T) {
			store, repo := newLoggedInStore(t)
			runner := NewRunner(RunnerOpts{Store: store, Output: &bytes.Buffer{}})

			err := runner.apiErr(api.ErrUnauthorized)

			if !errors.Is(err, shared.ErrSessionExpired) {
				t.Errorf("expected ErrSessionExpired, got %v", err)
			}
			if store.Authenticated() {
				t.Error("expected the session to be torn down")
			}
			if repo.rec != nil {
				t.Error("expected the durable record to be deleted")
			}
		})

		t.Run("wraps network failures as service unavailable", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.apiErr(&api.NetworkError{Err: fmt.Errorf("connection refused")})

			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("passes other errors through unchanged", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			if err := runner.apiErr(api.ErrNotFound); !errors.Is(err, api.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})
	})

	t.Run("writeFieldErrors", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		err := runner.writeFieldErrors(models.FieldErrors{
			"title":       "Playlist name is required",
			"description": "Too long",
		})

		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		result := output.String()
		lines := strings.Split(strings.TrimSpace(result), "\n")
		if len(lines) != 2 {
			t.Fatalf("expected 2 lines, got %d: %q", len(lines), result)
		}
		// fields print in sorted order
		if !strings.Contains(lines[0], "description") {
			t.Errorf("expected description first, got %q", lines[0])
		}
		if !strings.Contains(lines[1], "title") {
			t.Errorf("expected title second, got %q", lines[1])
		}
	})

	t.Run("confirm", func(t *testing.T) {
		runConfirm := func(t *testing.T, input string, args ...string) bool {
			t.Helper()
			runner := NewRunner(RunnerOpts{
				Output: &bytes.Buffer{},
				Input:  strings.NewReader(input),
			})

			var confirmed bool
			cmd := &cli.Command{
				Name:  "rm",
				Flags: []cli.Flag{&cli.BoolFlag{Name: "yes"}},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					confirmed = runner.confirm(cmd, "Delete?")
					return nil
				},
			}
			if err := cmd.Run(context.Background(), append([]string{"rm"}, args...)); err != nil {
				t.Fatalf("failed to run command: %v", err)
			}
			return confirmed
		}

		t.Run("accepts y", func(t *testing.T) {
			if !runConfirm(t, "y\n") {
				t.Error("expected confirmation to be accepted")
			}
		})

		t.Run("rejects anything else", func(t *testing.T) {
			if runConfirm(t, "n\n") {
				t.Error("expected confirmation to be rejected")
			}
		})

		t.Run("rejects on read failure", func(t *testing.T) {
			if runConfirm(t, "") {
				t.Error("expected confirmation to be rejected")
			}
		})

		t.Run("skips the prompt with --yes", func(t *testing.T) {
			if !runConfirm(t, "", "--yes") {
				t.Error("expected --yes to skip the prompt")
			}
		})
	})

	t.Run("mine snapshot reconciliation", func(t *testing.T) {
		newSnapshotRunner := func(t *testing.T, seed []models.Playlist) (*Runner, *repositories.PlaylistCacheRepository) {
			t.Helper()
			db, err := shared.NewDatabase(":memory:")
			if err != nil {
				t.Fatalf("failed to create test database: %v", err)
			}
			t.Cleanup(func() { db.Close() })
			if err := shared.RunMigrations(db); err != nil {
				t.Fatalf("failed to run migrations: %v", err)
			}

			cache := repositories.NewPlaylistCacheRepository(db)
			if seed != nil {
				if err := cache.Put(repositories.FeedMine, seed); err != nil {
					t.Fatalf("failed to seed snapshot: %v", err)
				}
			}
			return NewRunner(RunnerOpts{Cache: cache, Output: &bytes.Buffer{}}), cache
		}

		mustGet := func(t *testing.T, cache *repositories.PlaylistCacheRepository) []models.Playlist {
			t.Helper()
			playlists, _, ok, err := cache.Get(repositories.FeedMine)
			if err != nil {
				t.Fatalf("failed to read snapshot: %v", err)
			}
			if !ok {
				t.Fatal("expected a snapshot")
			}
			return playlists
		}

		t.Run("upsert replaces the entry carrying the same id", func(t *testing.T) {
			runner, cache := newSnapshotRunner(t, []models.Playlist{
				{ID: 1, Title: "Morning Mix"},
				{ID: 2, Title: "Late Night"},
			})

			runner.upsertMineSnapshot(models.Playlist{ID: 2, Title: "Late Night (v2)"})

			playlists := mustGet(t, cache)
			if len(playlists) != 2 {
				t.Fatalf("expected 2 playlists, got %d", len(playlists))
			}
			if playlists[1].Title != "Late Night (v2)" {
				t.Errorf("expected the entry to be replaced, got %q", playlists[1].Title)
			}
		})

		t.Run("upsert prepends a newly created playlist", func(t *testing.T) {
			runner, cache := newSnapshotRunner(t, []models.Playlist{
				{ID: 1, Title: "Morning Mix"},
			})

			runner.upsertMineSnapshot(models.Playlist{ID: 9, Title: "Fresh"})

			playlists := mustGet(t, cache)
			if len(playlists) != 2 {
				t.Fatalf("expected 2 playlists, got %d", len(playlists))
			}
			if playlists[0].ID != 9 {
				t.Errorf("expected the new playlist first, got id %d", playlists[0].ID)
			}
		})

		t.Run("remove drops the deleted playlist", func(t *testing.T) {
			runner, cache := newSnapshotRunner(t, []models.Playlist{
				{ID: 1, Title: "Morning Mix"},
				{ID: 2, Title: "Late Night"},
			})

			runner.removeFromMineSnapshot(1)

			playlists := mustGet(t, cache)
			if len(playlists) != 1 || playlists[0].ID != 2 {
				t.Errorf("expected only playlist 2 to remain, got %v", playlists)
			}
		})

		t.Run("missing snapshot stays missing", func(t *testing.T) {
			runner, cache := newSnapshotRunner(t, nil)

			runner.upsertMineSnapshot(models.Playlist{ID: 1, Title: "Morning Mix"})

			_, _, ok, err := cache.Get(repositories.FeedMine)
			if err != nil {
				t.Fatalf("failed to read snapshot: %v", err)
			}
			if ok {
				t.Error("expected no snapshot to be created")
			}
		})

		t.Run("nil cache is a no-op", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			runner.upsertMineSnapshot(models.Playlist{ID: 1})
			runner.removeFromMineSnapshot(1)
		})
	})

	t.Run("pageSize", func(t *testing.T) {
		t.Run("uses the configured size", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.PageSize = 12
			runner := NewRunner(RunnerOpts{Config: config})

			if got := runner.pageSize(); got != 12 {
				t.Errorf("expected 12, got %d", got)
			}
		})

		t.Run("falls back to the api default", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.API.PageSize = 0
			runner := NewRunner(RunnerOpts{Config: config})

			if got := runner.pageSize(); got != api.DefaultPageSize {
				t.Errorf("expected %d, got %d", api.DefaultPageSize, got)
			}
		})
	})
}
