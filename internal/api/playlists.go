// Playlist endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/tapelist/tlx/internal/models"
)

// DefaultPageSize matches the backend's listing chunk size.
const DefaultPageSize = 6

// LikeResult is the response of the like toggle endpoint.
type LikeResult struct {
	Status string `json:"status"` // "liked" or "unliked"
}

// ShareResult is the response of the share endpoint.
type ShareResult struct {
	ShareCount int `json:"share_count"`
}

// pagedPath appends page/limit query parameters to an endpoint path.
func pagedPath(path string, page, limit int, params url.Values) string {
	query := url.Values{}
	for key, values := range params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	return path + "?" + query.Encode()
}

// Playlists lists public playlists, newest first.
func (c *Client) Playlists(ctx context.Context, page, limit int) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, pagedPath("/playlists/", page, limit, nil), nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Explore lists randomized public playlists for browsing.
func (c *Client) Explore(ctx context.Context, page, limit int) ([]models.Playlist, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, pagedPath("/playlists/explore/", page, limit, nil), nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// MyPlaylists lists the authenticated user's own playlists.
func (c *Client) MyPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, "/playlists/my_playlists/", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// LikedPlaylists lists playlists the authenticated user has liked.
func (c *Client) LikedPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, "/playlists/liked_playlists/", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// RecentPlaylists lists playlists the authenticated user viewed recently.
func (c *Client) RecentPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, "/playlists/recent_playlists/", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// PopularPlaylists lists the most viewed public playlists.
// Works without a credential.
func (c *Client) PopularPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, "/playlists/popular/", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// SearchPlaylists searches public playlists by title and description.
func (c *Client) SearchPlaylists(ctx context.Context, query string, page, limit int) ([]models.Playlist, error) {
	params := url.Values{}
	params.Set("q", query)

	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, pagedPath("/playlists/search/", page, limit, params), nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Playlist fetches a single playlist with its videos.
func (c *Client) Playlist(ctx context.Context, id int) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/playlists/%d/", id), nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// CreatePlaylist creates a playlist. When input carries a cover image path
// the request is sent as multipart form data.
func (c *Client) CreatePlaylist(ctx context.Context, input models.PlaylistInput) (*models.Playlist, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var playlist models.Playlist
	if input.CoverImage != "" {
		if err := c.doMultipart(ctx, http.MethodPost, "/playlists/", playlistFields(input), "cover_image", input.CoverImage, &playlist); err != nil {
			return nil, err
		}
		return &playlist, nil
	}

	if err := c.do(ctx, http.MethodPost, "/playlists/", input, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// UpdatePlaylist updates a playlist the user owns.
func (c *Client) UpdatePlaylist(ctx context.Context, id int, input models.PlaylistInput) (*models.Playlist, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/playlists/%d/", id)

	var playlist models.Playlist
	if input.CoverImage != "" {
		if err := c.doMultipart(ctx, http.MethodPatch, path, playlistFields(input), "cover_image", input.CoverImage, &playlist); err != nil {
			return nil, err
		}
		return &playlist, nil
	}

	if err := c.do(ctx, http.MethodPatch, path, input, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// DeletePlaylist deletes a playlist the user owns.
func (c *Client) DeletePlaylist(ctx context.Context, id int) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/playlists/%d/", id), nil, nil)
}

// LikePlaylist toggles the like state of a playlist.
func (c *Client) LikePlaylist(ctx context.Context, id int) (*LikeResult, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var result LikeResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/playlists/%d/like/", id), struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SharePlaylist records a share and returns the updated share count.
func (c *Client) SharePlaylist(ctx context.Context, id int) (*ShareResult, error) {
	var result ShareResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/playlists/%d/share/", id), struct{}{}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func playlistFields(input models.PlaylistInput) map[string]string {
	fields := map[string]string{
		"title":     input.Title,
		"is_public": strconv.FormatBool(input.IsPublic),
	}
	if input.Description != "" {
		fields["description"] = input.Description
	}
	for i, tag := range input.Tags {
		fields[fmt.Sprintf("tags[%d]", i)] = tag
	}
	return fields
}
