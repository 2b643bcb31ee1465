package main

import (
	"context"
	"fmt"

	"github.com/tapelist/tlx/internal/shared"
	"github.com/urfave/cli/v3"
)

func (r *Runner) requireHistory() error {
	if r.history == nil {
		return fmt.Errorf("%w: local database not available", shared.ErrServiceUnavailable)
	}
	return nil
}

// HistoryList prints recent searches, newest first.
func (r *Runner) HistoryList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireHistory(); err != nil {
		return err
	}

	queries, err := r.history.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(queries, cmd.Bool("pretty"))
	}

	if len(queries) == 0 {
		return r.writePlain("No recent searches\n")
	}
	for i, query := range queries {
		r.writePlain("%d. %s\n", i+1, query)
	}
	return nil
}

// HistoryRemove removes a single search from the history.
func (r *Runner) HistoryRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireHistory(); err != nil {
		return err
	}

	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}

	if err := r.history.Remove(query); err != nil {
		return err
	}
	return r.writePlain("✓ Removed %q from history\n", query)
}

// HistoryClear clears the search history.
func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireHistory(); err != nil {
		return err
	}

	if err := r.history.Clear(); err != nil {
		return err
	}
	return r.writePlain("✓ Search history cleared\n")
}
