package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/tapelist/tlx/internal/links"
	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/shared"
	"github.com/urfave/cli/v3"
)

// VideosAdd adds a TikTok video to a playlist. The URL is classified
// and its ID extracted locally; title and thumbnail come from TikTok's
// oEmbed endpoint on a best-effort basis.
func (r *Runner) VideosAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	rawID := cmd.StringArg("playlist-id")
	playlistID, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("%w: playlist id must be a number, got %q", shared.ErrInvalidArgument, rawID)
	}

	videoURL := cmd.StringArg("url")
	if videoURL == "" {
		return fmt.Errorf("%w: video url", shared.ErrMissingArgument)
	}

	switch links.Detect(videoURL) {
	case links.PlatformTikTok:
	case links.PlatformInstagram:
		return fmt.Errorf("%w: Instagram links are not supported yet", shared.ErrInvalidArgument)
	default:
		return fmt.Errorf("%w: not a TikTok URL: %s", shared.ErrInvalidArgument, videoURL)
	}

	tiktokID, err := links.ExtractTikTokID(videoURL)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}

	input := models.VideoInput{
		TikTokURL: videoURL,
		TikTokID:  tiktokID,
		Title:     cmd.String("title"),
		Playlist:  playlistID,
	}

	if input.Title == "" {
		if embed, err := links.OEmbed(ctx, r.httpClient, videoURL); err == nil {
			input.Title = embed.Title
			r.logger.Debug("resolved video metadata", "title", embed.Title, "author", embed.AuthorName)
		} else {
			r.logger.Warn("failed to resolve video metadata", "error", err)
		}
	}

	if errs := models.ValidateVideo(input); errs != nil {
		return r.writeFieldErrors(errs)
	}

	video, err := r.client.AddVideo(ctx, input)
	if err != nil {
		return r.apiErr(err)
	}

	title := video.Title
	if title == "" {
		title = video.TikTokURL
	}
	return r.writePlain("✓ Added %q to playlist %d\n", title, playlistID)
}

// VideosRemove removes a video after confirmation.
func (r *Runner) VideosRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireSession(); err != nil {
		return err
	}

	rawID := cmd.StringArg("id")
	videoID, err := strconv.Atoi(rawID)
	if err != nil {
		return fmt.Errorf("%w: video id must be a number, got %q", shared.ErrInvalidArgument, rawID)
	}

	if !r.confirm(cmd, fmt.Sprintf("Remove video %d?", videoID)) {
		return r.writePlain("Cancelled\n")
	}

	if err := r.client.DeleteVideo(ctx, videoID); err != nil {
		return r.apiErr(err)
	}

	return r.writePlain("✓ Removed video %d\n", videoID)
}
