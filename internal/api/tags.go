package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/tapelist/tlx/internal/models"
)

// TagAutocomplete suggests existing tags matching prefix. The web
// client calls this while the user types in the tag field; here it
// backs tag discovery before creating or updating a playlist.
func (c *Client) TagAutocomplete(ctx context.Context, prefix string) ([]models.Tag, error) {
	params := url.Values{}
	params.Set("q", prefix)

	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/tags/autocomplete/?"+params.Encode(), nil, &tags); err != nil {
		return nil, err
	}

	return tags, nil
}
