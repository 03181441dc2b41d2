// Package session owns the bearer token lifecycle: login, logout, and
// validation of a previously persisted token at startup.
package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yuchan1120/task-manager-cli/internal/logger"
	"github.com/yuchan1120/task-manager-cli/internal/models"
	"github.com/yuchan1120/task-manager-cli/internal/tokenstore"
	"github.com/yuchan1120/task-manager-cli/internal/validation"
)

// AuthAPI is the slice of the service client the session store needs.
type AuthAPI interface {
	Login(ctx context.Context, creds models.Credentials) (string, error)
	Validate(ctx context.Context) error
}

// Store holds the in-memory session token and keeps the durable copy in
// sync. It is the exclusive owner of both; the API client reads the token
// through the TokenSource interface at call time.
//
// The store moves between exactly two states: unauthenticated and
// authenticated. A successful login or a successful validation of a
// persisted token authenticates; logout or a failed validation
// deauthenticates. Not safe for concurrent use.
type Store struct {
	tokens        *tokenstore.FileStore
	api           AuthAPI
	logger        *zap.Logger
	token         string
	authenticated bool
}

// New creates an unauthenticated Store. SetAPI must be called before Login
// or Bootstrap; the two-step wiring exists because the API client in turn
// reads its bearer token from the store.
func New(tokens *tokenstore.FileStore, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{tokens: tokens, logger: log}
}

// SetAPI attaches the service client used for login and validation calls.
func (s *Store) SetAPI(api AuthAPI) {
	s.api = api
}

// Token returns the current in-memory token, or "" when unauthenticated.
// Implements api.TokenSource.
func (s *Store) Token() string { return s.token }

// IsAuthenticated reports whether the token was confirmed by the service,
// either through login or through startup validation.
func (s *Store) IsAuthenticated() bool { return s.authenticated }

// Login exchanges credentials for a token and persists it. On failure the
// prior session state is left untouched; invalid credentials and transport
// failures are surfaced identically because the service does not
// distinguish them.
func (s *Store) Login(ctx context.Context, username, password string) error {
	creds := models.Credentials{Username: username, Password: password}
	if err := validation.Validate.Struct(creds); err != nil {
		return validation.Errorf("username and password are required")
	}

	token, err := s.api.Login(ctx, creds)
	if err != nil {
		s.logger.Warn("login_failed", zap.String("error", logger.SanitizeError(err)))
		return fmt.Errorf("login failed: %w", err)
	}

	if err := s.tokens.Write(token); err != nil {
		return fmt.Errorf("login succeeded but token could not be persisted: %w", err)
	}
	s.token = token
	s.authenticated = true
	s.logger.Info("logged_in", zap.String("username", username))
	return nil
}

// Logout clears the token from memory and durable storage. Idempotent;
// always succeeds.
func (s *Store) Logout() {
	if err := s.tokens.Clear(); err != nil {
		s.logger.Warn("failed_to_clear_token_file", zap.Error(err))
	}
	s.token = ""
	s.authenticated = false
}

// Bootstrap restores a persisted session at startup. With no stored token
// it returns immediately without touching the network. With one, it asks
// the service to validate it; any failure — expired token, malformed token,
// transport error — is treated as a logout, never retried.
func (s *Store) Bootstrap(ctx context.Context) error {
	stored, err := s.tokens.Read()
	if err != nil {
		return fmt.Errorf("failed to read persisted token: %w", err)
	}
	if stored == "" {
		return nil
	}

	// Adopt the token for the validation call only; it becomes the session
	// token when the service confirms it.
	s.token = stored
	if err := s.api.Validate(ctx); err != nil {
		s.logger.Info("persisted_token_rejected", zap.String("error", logger.SanitizeError(err)))
		s.Logout()
		return nil
	}

	s.authenticated = true
	s.logger.Debug("session_restored")
	return nil
}
