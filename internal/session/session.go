// Package session holds the process-wide authentication state.
//
// A [Store] owns the credential and the cached profile. It implements
// [golang.org/x/oauth2.TokenSource] so the api client can pull the
// current access token on every request. The store is mutex-guarded;
// it is the one cell shared by the CLI runner, the TUI, and the export
// engine.
//
// The durable record is written by [Store.Authenticate] and
// [Store.AdoptToken] and deleted by [Store.EndSession]. Everything
// else reads.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tapelist/tlx/internal/api"
	"github.com/tapelist/tlx/internal/models"
	"github.com/tapelist/tlx/internal/shared"
	"golang.org/x/oauth2"
)

// Record is the serialized session written to the repository.
type Record struct {
	Token   *oauth2.Token `json:"token"`
	Profile *models.User  `json:"profile,omitempty"`
}

// Repository persists the session record between runs.
type Repository interface {
	SaveSession(rec Record) error
	LoadSession() (*Record, bool, error)
	DeleteSession() error
}

// Store is the authentication state machine.
type Store struct {
	mu      sync.Mutex
	client  *api.Client
	repo    Repository
	logger  *log.Logger
	token   *oauth2.Token
	profile *models.User

	loading bool
	errMsg  string
	success bool
}

// NewStore creates a store backed by repo. Bind the api client with
// [Store.Bind] before calling Authenticate or FetchProfile.
func NewStore(repo Repository, logger *log.Logger) *Store {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Store{repo: repo, logger: logger}
}

// Bind attaches the api client. The client is constructed after the
// store because it consumes the store as its token source.
func (s *Store) Bind(client *api.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.client = client
}

// Token implements [oauth2.TokenSource]. It returns
// [api.ErrUnauthorized] when no credential is held.
func (s *Store) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == nil {
		return nil, api.ErrUnauthorized
	}
	return s.token, nil
}

// Authenticate exchanges credentials for a token pair and persists the
// session. On failure the prior session is left untouched and the
// server's message is recorded as the error flag.
func (s *Store) Authenticate(ctx context.Context, login, secret string) error {
	s.mu.Lock()
	client := s.client
	s.loading = true
	s.errMsg = ""
	s.success = false
	s.mu.Unlock()

	if client == nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return shared.ErrMissingConfig
	}

	pair, err := client.Login(ctx, login, secret)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false

	if err != nil {
		s.errMsg = err.Error()
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.token = &oauth2.Token{AccessToken: pair.Access, RefreshToken: pair.Refresh}
	s.success = true

	if err := s.repo.SaveSession(Record{Token: s.token, Profile: s.profile}); err != nil {
		return fmt.Errorf("failed to persist session: %w", err)
	}

	s.logger.Debug("session established", "login", login)
	return nil
}

// FetchProfile loads the authenticated user's profile. Safe to call
// repeatedly; the last response wins. The profile is cached alongside
// the credential so Hydrate can restore it offline.
func (s *Store) FetchProfile(ctx context.Context) (*models.User, error) {
	s.mu.Lock()
	client := s.client
	token := s.token
	s.mu.Unlock()

	if token == nil {
		return nil, api.ErrUnauthorized
	}
	if client == nil {
		return nil, shared.ErrMissingConfig
	}

	user, err := client.Me(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = user
	if s.token != nil {
		if err := s.repo.SaveSession(Record{Token: s.token, Profile: s.profile}); err != nil {
			s.logger.Warn("failed to cache profile", "error", err)
		}
	}
	return user, nil
}

// AdoptToken installs an externally obtained credential and persists
// it. Used when a token is imported (for example from a browser
// request) rather than issued by Authenticate. The cached profile is
// dropped; it belonged to the previous credential.
func (s *Store) AdoptToken(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty credential", shared.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	s.profile = nil
	if err := s.repo.SaveSession(Record{Token: token}); err != nil {
		return fmt.Errorf("failed to persist session record: %w", err)
	}
	return nil
}

// EndSession clears the credential and profile and deletes the durable
// record. It is the only path back to the logged-out state.
func (s *Store) EndSession() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = nil
	s.profile = nil
	s.loading = false
	s.errMsg = ""
	s.success = false

	if err := s.repo.DeleteSession(); err != nil {
		return fmt.Errorf("failed to delete session record: %w", err)
	}
	return nil
}

// HandleUnauthorized reacts to a 401 from any call site: the session is
// torn down so the next command starts logged out.
func (s *Store) HandleUnauthorized() {
	if err := s.EndSession(); err != nil {
		s.logger.Warn("failed to clear expired session", "error", err)
	}
}

// ResetTransientFlags clears loading, error, and success. Idempotent;
// credential and profile are untouched.
func (s *Store) ResetTransientFlags() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.errMsg = ""
	s.success = false
}

// Hydrate restores the credential and cached profile from the
// repository. A missing record is not an error.
func (s *Store) Hydrate() error {
	rec, ok, err := s.repo.LoadSession()
	if err != nil {
		return fmt.Errorf("failed to load session record: %w", err)
	}
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = rec.Token
	s.profile = rec.Profile
	return nil
}

// Authenticated reports whether a credential is held.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != nil
}

// Profile returns the cached profile, which may be nil.
func (s *Store) Profile() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile
}

// Loading reports whether an authentication request is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ErrorMessage returns the recorded failure message, if any.
func (s *Store) ErrorMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

// Success reports whether the last authentication succeeded.
func (s *Store) Success() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.success
}
