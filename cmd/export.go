package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tapelist/tlx/internal/shared"
	"github.com/tapelist/tlx/internal/tasks"
	"github.com/urfave/cli/v3"
)

var exportFormats = map[string]bool{
	"json":     true,
	"csv":      true,
	"markdown": true,
	"txt":      true,
}

// ExportRun exports playlists concurrently. Targets come from --ids or
// from a whole feed via --feed; progress is streamed to the terminal
// while workers write files.
func (r *Runner) ExportRun(ctx context.Context, cmd *cli.Command) error {
	if r.engine == nil {
		return fmt.Errorf("%w: export engine not initialized", shared.ErrServiceUnavailable)
	}

	format := cmd.String("format")
	if !exportFormats[format] {
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	ids, err := r.exportTargets(ctx, cmd)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return r.writePlain("Nothing to export\n")
	}

	opts := tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  cmd.String("output"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float64("rate"),
	}
	if opts.OutputDir == "" && r.config != nil {
		opts.OutputDir = r.config.Export.OutputDir
	}
	if opts.NumWorkers <= 0 && r.config != nil {
		opts.NumWorkers = r.config.Export.NumWorkers
	}
	if opts.RateLimit <= 0 && r.config != nil {
		opts.RateLimit = r.config.Export.RateLimit
	}

	r.logger.Info("starting bulk export", "playlists", len(ids), "format", format)

	prog := make(chan tasks.ProgressUpdate, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range prog {
			r.writePlain("[%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := r.engine.BulkExport(ctx, prog, ids, opts)
	close(prog)
	<-done

	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	r.writePlainln("Exported %d of %d %s to %s",
		result.SuccessfulExports,
		result.TotalPlaylists,
		shared.Pluralize(result.TotalPlaylists, "playlist", "playlists"),
		result.OutputDirectory,
	)
	for _, res := range result.Results {
		if !res.Success {
			r.writePlain("✗ %s: %s\n", res.PlaylistTitle, res.ErrorMessage)
		}
	}
	if result.FailedExports > 0 {
		return fmt.Errorf("%d %s failed to export",
			result.FailedExports,
			shared.Pluralize(result.FailedExports, "playlist", "playlists"))
	}
	return nil
}

// exportTargets resolves the playlist IDs to export from --ids or --feed.
func (r *Runner) exportTargets(ctx context.Context, cmd *cli.Command) ([]int, error) {
	rawIDs := cmd.String("ids")
	feed := cmd.String("feed")

	switch {
	case rawIDs != "" && feed != "":
		return nil, fmt.Errorf("%w: cannot specify both --ids and --feed", shared.ErrInvalidFlag)
	case rawIDs != "":
		var ids []int
		for _, part := range strings.Split(rawIDs, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.Atoi(part)
			if err != nil {
				return nil, fmt.Errorf("%w: playlist id must be a number, got %q", shared.ErrInvalidArgument, part)
			}
			ids = append(ids, id)
		}
		return ids, nil
	case feed != "":
		if err := r.requireSession(); err != nil {
			return nil, err
		}
		playlists, _, err := r.feedFetch(ctx, feed)
		if err != nil {
			return nil, r.apiErr(err)
		}
		ids := make([]int, len(playlists))
		for i, p := range playlists {
			ids[i] = p.ID
		}
		return ids, nil
	default:
		return nil, fmt.Errorf("%w: either --ids or --feed must be provided", shared.ErrMissingArgument)
	}
}
