package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = videoItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Title }
func (i playlistItem) Title() string {
	title := i.playlist.Title
	if i.playlist.IsLiked {
		title = "♥ " + title
	}
	return title
}
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("@%s • %s • %s",
		i.playlist.User.Username,
		shared.FormatCount(i.playlist.VideoCount, "video", "videos"),
		shared.FormatCount(i.playlist.LikeCount, "like", "likes"),
	)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, shared.TruncateString(i.playlist.Description, 40))
	}
	return desc
}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string { return i.video.Title }
func (i videoItem) Title() string {
	if i.video.Title != "" {
		return i.video.Title
	}
	return i.video.TikTokURL
}
func (i videoItem) Description() string {
	return i.video.TikTokURL
}
