// User profile and follow endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/tapelist/tlx/internal/models"
)

// FollowStatus reports whether the authenticated user follows another user.
type FollowStatus struct {
	IsFollowing bool `json:"is_following"`
	FollowID    int  `json:"follow_id,omitempty"`
}

// UserByUsername fetches a public profile by username.
func (c *Client) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	path := "/users/by-username/" + url.PathEscape(username) + "/"
	if err := c.do(ctx, http.MethodGet, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserPlaylists lists a user's public playlists.
func (c *Client) UserPlaylists(ctx context.Context, username string, page, limit int) ([]models.Playlist, error) {
	params := url.Values{}
	params.Set("username", username)

	var playlists []models.Playlist
	if err := c.do(ctx, http.MethodGet, pagedPath("/playlists/", page, limit, params), nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// Follow starts following the given user.
func (c *Client) Follow(ctx context.Context, userID int) (*models.Follow, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	payload := map[string]int{"followed": userID}

	var follow models.Follow
	if err := c.do(ctx, http.MethodPost, "/follows/", payload, &follow); err != nil {
		return nil, err
	}
	return &follow, nil
}

// Unfollow removes an existing follow relationship.
func (c *Client) Unfollow(ctx context.Context, followID int) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/follows/%d/", followID), nil, nil)
}

// Following reports whether the authenticated user follows userID.
func (c *Client) Following(ctx context.Context, userID int) (*FollowStatus, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var status FollowStatus
	path := fmt.Sprintf("/follows/status/%d/", userID)
	if err := c.do(ctx, http.MethodGet, path, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}
