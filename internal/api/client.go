package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/tapelist/tlx/internal/shared"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "http://localhost:8000"

// apiPrefix is prepended to every endpoint path.
const apiPrefix = "/api/v1"

// Client performs authenticated JSON round trips against the tapelist backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	logger     *log.Logger
}

// NewClient creates a client for the backend at baseURL.
//
// tokens may be nil for a client that only calls anonymous endpoints.
func NewClient(baseURL string, httpClient *http.Client, tokens oauth2.TokenSource, logger *log.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		tokens:     tokens,
		logger:     logger,
	}
}

// BaseURL returns the configured backend origin.
func (c *Client) BaseURL() string { return c.baseURL }

// bearer returns the current access token, if any.
func (c *Client) bearer() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	token, err := c.tokens.Token()
	if err != nil || token.AccessToken == "" {
		return "", false
	}
	return token.AccessToken, true
}

// requireAuth fails fast with [ErrUnauthorized] before issuing a request
// that the backend would reject anyway.
func (c *Client) requireAuth() error {
	if _, ok := c.bearer(); !ok {
		return ErrUnauthorized
	}
	return nil
}

// do performs a JSON round trip and decodes the response into result.
//
// A non-nil body is JSON-encoded. Non-2xx responses are normalized into
// the package error taxonomy; transport failures surface as [NetworkError].
func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, result)
}

// doMultipart performs a multipart/form-data round trip, used by endpoints
// that accept an image upload alongside regular fields.
func (c *Client) doMultipart(ctx context.Context, method, path string, fields map[string]string, fileField, filePath string, result any) error {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return fmt.Errorf("failed to write form field: %w", err)
		}
	}

	if filePath != "" {
		file, err := os.Open(filePath)
		if err != nil {
			return fmt.Errorf("failed to open upload file: %w", err)
		}
		defer file.Close()

		part, err := writer.CreateFormFile(fileField, filepath.Base(filePath))
		if err != nil {
			return fmt.Errorf("failed to create form file: %w", err)
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("failed to copy upload file: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, &buf)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return c.send(req, result)
}

func (c *Client) send(req *http.Request, result any) error {
	if token, ok := c.bearer(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debugf("request failed: %s %s: %v", req.Method, req.URL.Path, err)
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debugf("%s %s: status %d", req.Method, req.URL.Path, resp.StatusCode)
		return normalizeStatus(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
