package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrUnauthorized is returned for 401 responses. Receiving it anywhere
	// means the credential is missing or expired; callers end the session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned for 403 responses. The session stays intact.
	ErrForbidden = errors.New("permission denied")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
)

// ValidationError carries field-keyed messages from a 400 response.
type ValidationError struct {
	Fields   map[string]string
	NonField []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields)+len(e.NonField))
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	parts = append(parts, e.NonField...)
	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NetworkError wraps a transport failure where no response was received.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError is the fallback for unexpected response statuses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected API response: status %d", e.StatusCode)
}

// normalizeStatus converts a non-2xx response into the package taxonomy.
func normalizeStatus(status int, body []byte) error {
	switch status {
	case 400:
		return parseValidationError(body)
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	default:
		return &APIError{StatusCode: status, Body: string(body)}
	}
}

// parseValidationError decodes the backend's field-keyed 400 payload.
// Values may be a string, a list of strings, or nested under
// "non_field_errors"/"detail"; anything unparseable degrades to a
// ValidationError with no fields.
func parseValidationError(body []byte) error {
	verr := &ValidationError{Fields: map[string]string{}}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return verr
	}

	for field, value := range raw {
		messages := flattenMessages(value)
		if len(messages) == 0 {
			continue
		}
		switch field {
		case "non_field_errors", "detail":
			verr.NonField = append(verr.NonField, messages...)
		default:
			verr.Fields[field] = strings.Join(messages, " ")
		}
	}
	sort.Strings(verr.NonField)

	return verr
}

func flattenMessages(value any) []string {
	switch v := value.(type) {
	case string:
		return []string{v}
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
