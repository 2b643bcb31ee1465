package shared

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseCurlCommand(t *testing.T) {
	t.Run("extracts headers", func(t *testing.T) {
		curl := `curl 'https://api.tapelist.example/api/v1/playlists/' \
  -H 'Accept: application/json' \
  -H 'Authorization: Bearer abc123' \
  -H 'User-Agent: Mozilla/5.0'`

		parsed, err := ParseCurlCommand([]byte(curl))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if parsed.Headers["Accept"] != "application/json" {
			t.Errorf("expected Accept header, got %q", parsed.Headers["Accept"])
		}
		if parsed.Headers["Authorization"] != "Bearer abc123" {
			t.Errorf("expected Authorization header, got %q", parsed.Headers["Authorization"])
		}
	})

	t.Run("double quoted headers", func(t *testing.T) {
		curl := `curl "https://api.tapelist.example/api/v1/auth/users/me/" -H "Authorization: Bearer tok"`

		parsed, err := ParseCurlCommand([]byte(curl))
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if parsed.Headers["Authorization"] != "Bearer tok" {
			t.Errorf("expected Authorization header, got %q", parsed.Headers["Authorization"])
		}
	})

	t.Run("no headers", func(t *testing.T) {
		if _, err := ParseCurlCommand([]byte("curl https://example.com")); err == nil {
			t.Error("expected error for command without headers")
		}
	})
}

func TestBearerToken(t *testing.T) {
	t.Run("extracts token", func(t *testing.T) {
		parsed := &CurlHeaders{Headers: map[string]string{"Authorization": "Bearer tok1"}}
		token, err := parsed.BearerToken()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "tok1" {
			t.Errorf("expected token tok1, got %q", token)
		}
	})

	t.Run("case insensitive header name", func(t *testing.T) {
		parsed := &CurlHeaders{Headers: map[string]string{"authorization": "Bearer tok2"}}
		token, err := parsed.BearerToken()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "tok2" {
			t.Errorf("expected token tok2, got %q", token)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		parsed := &CurlHeaders{Headers: map[string]string{"Accept": "application/json"}}
		if _, err := parsed.BearerToken(); err == nil {
			t.Error("expected error for missing authorization header")
		}
	})

	t.Run("non bearer scheme", func(t *testing.T) {
		parsed := &CurlHeaders{Headers: map[string]string{"Authorization": "Basic dXNlcjpwYXNz"}}
		if _, err := parsed.BearerToken(); err == nil {
			t.Error("expected error for non-bearer authorization")
		}
	})
}

func TestParseCurlFile(t *testing.T) {
	t.Run("reads file", func(t *testing.T) {
		tmpDir := t.TempDir()
		path := filepath.Join(tmpDir, "request.sh")
		curl := `curl 'https://api.tapelist.example/' -H 'Authorization: Bearer filetok'`
		if err := os.WriteFile(path, []byte(curl), 0644); err != nil {
			t.Fatalf("failed to write curl file: %v", err)
		}

		parsed, err := ParseCurlFile(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		token, err := parsed.BearerToken()
		if err != nil {
			t.Fatalf("expected bearer token, got error %v", err)
		}
		if token != "filetok" {
			t.Errorf("expected token filetok, got %q", token)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ParseCurlFile("/nonexistent/request.sh"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
