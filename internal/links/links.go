// Package links classifies short-form video URLs and resolves their
// oEmbed metadata.
package links

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

// Platform identifies the host service of a video URL.
type Platform string

const (
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformUnknown   Platform = "unknown"
)

// UnknownID marks a TikTok link whose numeric ID cannot be read from
// the URL, such as vm.tiktok.com short links. The backend resolves the
// real ID when it fetches the video.
const UnknownID = "unknown"

const oembedEndpoint = "https://www.tiktok.com/oembed"

var videoIDPattern = regexp.MustCompile(`/video/(\d+)`)

// Detect classifies rawURL by host.
func Detect(rawURL string) Platform {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || parsed.Host == "" {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Hostname())
	switch {
	case host == "tiktok.com" || strings.HasSuffix(host, ".tiktok.com"):
		return PlatformTikTok
	case host == "instagram.com" || strings.HasSuffix(host, ".instagram.com"):
		return PlatformInstagram
	default:
		return PlatformUnknown
	}
}

// ExtractTikTokID pulls the numeric video ID out of a canonical TikTok
// URL. Short links carry no ID and yield [UnknownID]. Non-TikTok URLs
// yield an error.
func ExtractTikTokID(rawURL string) (string, error) {
	if Detect(rawURL) != PlatformTikTok {
		return "", fmt.Errorf("not a TikTok URL: %s", rawURL)
	}

	if m := videoIDPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1], nil
	}
	return UnknownID, nil
}

// Embed is the subset of TikTok's oEmbed response the client uses.
type Embed struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// OEmbed resolves title, author, and thumbnail for a TikTok URL.
// Callers treat failure as non-fatal; a video without metadata is still
// addable.
func OEmbed(ctx context.Context, client *http.Client, videoURL string) (*Embed, error) {
	if client == nil {
		client = http.DefaultClient
	}

	endpoint := oembedEndpoint + "?url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oembed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read oembed response: %w", err)
	}

	var embed Embed
	if err := json.Unmarshal(body, &embed); err != nil {
		return nil, fmt.Errorf("failed to decode oembed response: %w", err)
	}
	return &embed, nil
}
