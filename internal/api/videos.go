// Video endpoints.
package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tapelist/tlx/internal/models"
)

// AddVideo adds a video to a playlist the user owns.
func (c *Client) AddVideo(ctx context.Context, input models.VideoInput) (*models.Video, error) {
	if err := c.requireAuth(); err != nil {
		return nil, err
	}

	var video models.Video
	if err := c.do(ctx, http.MethodPost, "/videos/", input, &video); err != nil {
		return nil, err
	}
	return &video, nil
}

// DeleteVideo removes a video from its playlist.
func (c *Client) DeleteVideo(ctx context.Context, id int) error {
	if err := c.requireAuth(); err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/videos/%d/", id), nil, nil)
}
