// Package api implements the REST client for the tapelist backend.
//
// Every request goes through [Client.do], which attaches the bearer
// credential from the configured [golang.org/x/oauth2.TokenSource] and
// normalizes non-2xx responses into the package's error taxonomy:
//
//   - [ValidationError] for 400 responses (field-keyed messages)
//   - [ErrUnauthorized] for 401 (callers must tear down the session)
//   - [ErrForbidden] for 403
//   - [ErrNotFound] for 404
//   - [NetworkError] when no response was received
//   - [APIError] for anything else
//
// Downstream code matches on these with errors.Is/errors.As and never
// inspects status codes or raw bodies.
//
// Collection endpoints paginate with page/limit query parameters; a page
// shorter than the requested limit signals exhaustion (the backend sends
// no total count or cursor).
package api
