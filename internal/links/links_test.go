package links

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	tu "github.com/tapelist/tlx/internal/testing"
)

func TestDetect(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want Platform
	}{
		{"Canonical TikTok", "https://www.tiktok.com/@user/video/7123456789012345678", PlatformTikTok},
		{"Short TikTok", "https://vm.tiktok.com/ZM8abc123/", PlatformTikTok},
		{"Bare TikTok Host", "https://tiktok.com/@user/video/1", PlatformTikTok},
		{"Instagram Reel", "https://www.instagram.com/reel/Cabc123/", PlatformInstagram},
		{"YouTube", "https://www.youtube.com/watch?v=abc", PlatformUnknown},
		{"Garbage", "not a url", PlatformUnknown},
		{"Empty", "", PlatformUnknown},
		{"Lookalike Host", "https://nottiktok.com/video/1", PlatformUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Detect(tc.url); got != tc.want {
				t.Errorf("Detect(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}

func TestExtractTikTokID(t *testing.T) {
	t.Run("Canonical URL", func(t *testing.T) {
		id, err := ExtractTikTokID("https://www.tiktok.com/@user/video/7123456789012345678")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != "7123456789012345678" {
			t.Errorf("expected numeric ID, got %q", id)
		}
	})

	t.Run("Short Link Yields Unknown Marker", func(t *testing.T) {
		id, err := ExtractTikTokID("https://vm.tiktok.com/ZM8abc123/")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if id != UnknownID {
			t.Errorf("expected %q, got %q", UnknownID, id)
		}
	})

	t.Run("Non-TikTok URL Rejected", func(t *testing.T) {
		if _, err := ExtractTikTokID("https://www.instagram.com/reel/Cabc123/"); err == nil {
			t.Error("expected error for non-TikTok URL")
		}
	})
}

func TestOEmbed(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		body := `{"title": "cat video", "author_name": "maya", "thumbnail_url": "https://cdn.example.com/t.jpg"}`
		client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil)}

		embed, err := OEmbed(context.Background(), client, "https://www.tiktok.com/@maya/video/123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if embed.Title != "cat video" || embed.AuthorName != "maya" {
			t.Errorf("unexpected embed: %+v", embed)
		}
	})

	t.Run("Non-200 Status", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(&http.Response{
			StatusCode: http.StatusNotFound,
			Body:       io.NopCloser(strings.NewReader("{}")),
		}, nil)}

		if _, err := OEmbed(context.Background(), client, "https://www.tiktok.com/@maya/video/123"); err == nil {
			t.Error("expected error for non-200 response")
		}
	})

	t.Run("Transport Failure", func(t *testing.T) {
		client := &http.Client{Transport: tu.NewMockRoundTripper(nil, errors.New("dns failure"))}

		if _, err := OEmbed(context.Background(), client, "https://www.tiktok.com/@maya/video/123"); err == nil {
			t.Error("expected error for transport failure")
		}
	})
}
