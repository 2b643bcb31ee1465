package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/reconcile"
	"github.com/tapelist/tlx/internal/repositories"
	"github.com/tapelist/tlx/internal/shared"
	"github.com/urfave/cli/v3"
)

// feedFetch maps a feed name to its listing call and local cache key.
// Popular has no cache key; its ordering is too volatile to snapshot.
func (r *Runner) feedFetch(ctx context.Context, feed string) ([]models.Playlist, string, error) {
	switch feed {
	case "mine":
		playlists, err := r.client.MyPlaylists(ctx)
		return playlists, repositories.FeedMine, err
	case "liked":
		playlists, err := r.client.LikedPlaylists(ctx)
		return playlists, repositories.FeedLiked, err
	case "recent":
		playlists, err := r.client.RecentPlaylists(ctx)
		return playlists, repositories.FeedRecent, err
	case "popular":
		playlists, err := r.client.PopularPlaylists(ctx)
		return playlists, "", err
	default:
		return nil, "", fmt.Errorf("%w: unknown feed %q", shared.ErrInvalidFlag, feed)
	}
}

// PlaylistsList lists one of the account's feeds, refreshing the local
// snapshot on success. With --cached the last snapshot is served
// without touching the network.
func (r *Runner) PlaylistsList(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	feed := cmd.String("feed")

	if cmd.Bool("cached") {
		return r.listFromCache(feed, cmd)
	}

	playlists, cacheKey, err := r.feedFetch(ctx, feed)
	if err != nil {
		return r.apiErr(err)
	}

	if cacheKey != "" && r.cache != nil {
		if err := r.cache.Put(cacheKey, playlists); err != nil {
			r.logger.Warn("failed to snapshot feed", "feed", feed, "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	return r.renderPlaylists(playlists, fmt.Sprintf("Playlists (%s)", feed))
}

func (r *Runner) listFromCache(feed string, cmd *cli.Command) error {
	var cacheKey string
	switch feed {
	case "mine":
		cacheKey = repositories.FeedMine
	case "liked":
		cacheKey = repositories.FeedLiked
	case "recent":
		cacheKey = repositories.FeedRecent
	default:
		return fmt.Errorf("%w: feed %q has no local snapshot", shared.ErrInvalidFlag, feed)
	}

	if r.cache == nil {
		return fmt.Errorf("%w: local database not available", shared.ErrServiceUnavailable)
	}

	playlists, cachedAt, ok, err := r.cache.Get(cacheKey)
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("No cached snapshot for %s, run 'tlx playlists list --feed %s' while online\n", feed, feed)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	return r.renderPlaylists(playlists, fmt.Sprintf("Playlists (%s, cached %s)", feed, cachedAt.Format("2006-01-02 15:04")))
}

// PlaylistsExplore browses the public feed of other users' playlists.
func (r *Runner) PlaylistsExplore(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	page := int(cmd.Int("page"))
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.pageSize()
	}

	playlists, err := r.client.Explore(ctx, page, limit)
	if err != nil {
		return r.apiErr(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	return r.renderPlaylists(playlists, fmt.Sprintf("Explore (page %d)", page))
}

// PlaylistsSearch searches public playlists and records the query in
// the local search history.
func (r *Runner) PlaylistsSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	if r.history != nil {
		if err := r.history.Record(query); err != nil {
			r.logger.Warn("failed to record search", "error", err)
		}
	}

	page := int(cmd.Int("page"))
	limit := int(cmd.Int("limit"))
	if limit <= 0 {
		limit = r.pageSize()
	}

	playlists, err := r.client.SearchPlaylists(ctx, query, page, limit)
	if err != nil {
		return r.apiErr(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, cmd.Bool("pretty"))
	}
	if len(playlists) == 0 {
		return r.writePlain("No playlists matching %q\n", query)
	}
	return r.renderPlaylists(playlists, fmt.Sprintf("Results for %q", query))
}

// PlaylistsTags suggests existing tags matching a prefix, for picking
// --tag values before a create or update.
func (r *Runner) PlaylistsTags(ctx context.Context, cmd *cli.Command) error {
	prefix := strings.TrimSpace(cmd.StringArg("prefix"))
	if prefix == "" {
		return fmt.Errorf("%w: tag prefix", shared.ErrMissingArgument)
	}

	tags, err := r.client.TagAutocomplete(ctx, prefix)
	if err != nil {
		return r.apiErr(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tags, cmd.Bool("pretty"))
	}
	if len(tags) == 0 {
		return r.writePlain("No tags matching %q\n", prefix)
	}
	for _, tag := range tags {
		r.writePlain("#%s\n", tag.Name)
	}
	return nil
}

// PlaylistsShow prints a playlist's detail including its videos.
func (r *Runner) PlaylistsShow(ctx context.Context, cmd *cli.Command) error {
	id, err := r.playlistIDArg(cmd)
	if err != nil {
		return err
	}

	playlist, err := r.client.Playlist(ctx, id)
	if err != nil {
		return r.apiErr(err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlainHeader(playlist.Title)
	r.writePlain("By @%s • %s • %s • %s\n",
		playlist.User.Username,
		shared.VisibilityString(playlist.IsPublic),
		shared.FormatCount(playlist.VideoCount, "video", "videos"),
		shared.FormatCount(playlist.LikeCount, "like", "likes"),
	)
	if playlist.Description != "" {
		r.writePlain("%s\n", playlist.Description)
	}
	if len(playlist.Tags) > 0 {
		names := make([]string, len(playlist.Tags))
		for i, tag := range playlist.Tags {
			names[i] = "#" + tag.Name
		}
		r.writePlain("%s\n", strings.Join(names, " "))
	}
	for _, video := range playlist.Videos {
		title := video.Title
		if title == "" {
			title = video.TikTokURL
		}
		r.writePlain("  [%d] %s\n", video.ID, title)
	}
	return nil
}

// PlaylistsCreate creates a playlist. Input is validated locally before
// any request is issued.
func (r *Runner) PlaylistsCreate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	input := models.PlaylistInput{
		Title:       cmd.String("title"),
		Description: cmd.String("description"),
		IsPublic:    cmd.Bool("public"),
		Tags:        cmd.StringSlice("tag"),
		CoverImage:  cmd.String("cover"),
	}

	if errs := models.ValidatePlaylist(input); errs != nil {
		return r.writeFieldErrors(errs)
	}

	playlist, err := r.client.CreatePlaylist(ctx, input)
	if err != nil {
		return r.apiErr(err)
	}

	r.upsertMineSnapshot(*playlist)

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Created playlist %q (id %d)\n", playlist.Title, playlist.ID)
}

// PlaylistsUpdate updates a playlist the user owns. Unset flags keep
// the playlist's current values.
func (r *Runner) PlaylistsUpdate(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := r.playlistIDArg(cmd)
	if err != nil {
		return err
	}

	current, err := r.client.Playlist(ctx, id)
	if err != nil {
		return r.apiErr(err)
	}

	input := models.PlaylistInput{
		Title:       current.Title,
		Description: current.Description,
		IsPublic:    current.IsPublic,
		CoverImage:  cmd.String("cover"),
	}
	for _, tag := range current.Tags {
		input.Tags = append(input.Tags, tag.Name)
	}

	if cmd.IsSet("title") {
		input.Title = cmd.String("title")
	}
	if cmd.IsSet("description") {
		input.Description = cmd.String("description")
	}
	if cmd.IsSet("public") {
		input.IsPublic = cmd.Bool("public")
	}
	if cmd.IsSet("tag") {
		input.Tags = cmd.StringSlice("tag")
	}

	if errs := models.ValidatePlaylist(input); errs != nil {
		return r.writeFieldErrors(errs)
	}

	playlist, err := r.client.UpdatePlaylist(ctx, id, input)
	if err != nil {
		return r.apiErr(err)
	}

	r.upsertMineSnapshot(*playlist)

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}
	return r.writePlain("✓ Updated playlist %q\n", playlist.Title)
}

// PlaylistsDelete deletes a playlist after confirmation.
func (r *Runner) PlaylistsDelete(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := r.playlistIDArg(cmd)
	if err != nil {
		return err
	}

	if !r.confirm(cmd, fmt.Sprintf("Delete playlist %d? This cannot be undone.", id)) {
		return r.writePlain("Cancelled\n")
	}

	if err := r.client.DeletePlaylist(ctx, id); err != nil {
		return r.apiErr(err)
	}

	r.removeFromMineSnapshot(id)

	return r.writePlain("✓ Deleted playlist %d\n", id)
}

// PlaylistsLike toggles the user's like. The server verdict decides the
// final state, so the status it returns is what gets printed.
func (r *Runner) PlaylistsLike(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	id, err := r.playlistIDArg(cmd)
	if err != nil {
		return err
	}

	res, err := r.client.LikePlaylist(ctx, id)
	if err != nil {
		return r.apiErr(err)
	}

	if r.cache != nil {
		if err := r.cache.Invalidate(repositories.FeedLiked); err != nil {
			r.logger.Warn("failed to invalidate snapshot", "error", err)
		}
	}

	if res.Status == "liked" {
		return r.writePlain("♥ Liked playlist %d\n", id)
	}
	return r.writePlain("♡ Unliked playlist %d\n", id)
}

// PlaylistsShare records a share and prints the web link.
func (r *Runner) PlaylistsShare(ctx context.Context, cmd *cli.Command) error {
	id, err := r.playlistIDArg(cmd)
	if err != nil {
		return err
	}

	res, err := r.client.SharePlaylist(ctx, id)
	if err != nil {
		return r.apiErr(err)
	}

	link := fmt.Sprintf("%s/playlist/%d", strings.TrimSuffix(r.config.API.WebURL, "/"), id)
	r.writePlain("%s\n", link)
	r.writePlain("Shared %s\n", shared.FormatCount(res.ShareCount, "time", "times"))

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(link); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}
	return nil
}

// upsertMineSnapshot folds a confirmed playlist into the "mine"
// snapshot so --cached reflects the mutation without a refetch. A
// missing snapshot is left missing.
func (r *Runner) upsertMineSnapshot(playlist models.Playlist) {
	if r.cache == nil {
		return
	}

	cached, _, ok, err := r.cache.Get(repositories.FeedMine)
	if err != nil {
		r.logger.Warn("failed to read snapshot", "error", err)
		return
	}
	if !ok {
		return
	}

	if err := r.cache.Put(repositories.FeedMine, reconcile.UpsertByID(cached, playlist)); err != nil {
		r.logger.Warn("failed to update snapshot", "error", err)
	}
}

// removeFromMineSnapshot drops a deleted playlist from the "mine"
// snapshot.
func (r *Runner) removeFromMineSnapshot(id int) {
	if r.cache == nil {
		return
	}

	cached, _, ok, err := r.cache.Get(repositories.FeedMine)
	if err != nil {
		r.logger.Warn("failed to read snapshot", "error", err)
		return
	}
	if !ok {
		return
	}

	if err := r.cache.Put(repositories.FeedMine, reconcile.RemoveByID(cached, id)); err != nil {
		r.logger.Warn("failed to update snapshot", "error", err)
	}
}

func (r *Runner) playlistIDArg(cmd *cli.Command) (int, error) {
	raw := cmd.StringArg("id")
	if raw == "" {
		return 0, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: playlist id must be a number, got %q", shared.ErrInvalidArgument, raw)
	}
	return id, nil
}

func (r *Runner) renderPlaylists(playlists []models.Playlist, title string) error {
	r.writePlainHeader(title)
	if len(playlists) == 0 {
		return r.writePlain("No playlists\n")
	}
	for _, p := range playlists {
		marker := " "
		if p.IsLiked {
			marker = "♥"
		}
		r.writePlain("%s [%d] %s by @%s (%s, %s)\n",
			marker, p.ID, p.Title, p.User.Username,
			shared.FormatCount(p.VideoCount, "video", "videos"),
			shared.FormatCount(p.LikeCount, "like", "likes"),
		)
	}
	return nil
}
