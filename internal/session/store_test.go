package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yuchan1120/task-manager-cli/internal/models"
	"github.com/yuchan1120/task-manager-cli/internal/tokenstore"
	"github.com/yuchan1120/task-manager-cli/internal/validation"
)

type fakeAuthAPI struct {
	token       string
	loginErr    error
	validateErr error

	loginCalls    int
	validateCalls int
}

func (f *fakeAuthAPI) Login(_ context.Context, creds models.Credentials) (string, error) {
	f.loginCalls++
	if f.loginErr != nil {
		return "", f.loginErr
	}
	return f.token, nil
}

func (f *fakeAuthAPI) Validate(_ context.Context) error {
	f.validateCalls++
	return f.validateErr
}

func newTestStore(t *testing.T, api AuthAPI) (*Store, *tokenstore.FileStore) {
	t.Helper()
	tokens := tokenstore.New(filepath.Join(t.TempDir(), "token"))
	s := New(tokens, nil)
	s.SetAPI(api)
	return s, tokens
}

func TestLoginSuccessPersistsToken(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{token: "abc123"}
	s, tokens := newTestStore(t, api)

	if err := s.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Error("expected authenticated state")
	}
	if s.Token() != "abc123" {
		t.Errorf("in-memory token = %q, want abc123", s.Token())
	}

	stored, err := tokens.Read()
	if err != nil {
		t.Fatalf("reading token file: %v", err)
	}
	if stored != "abc123" {
		t.Errorf("persisted token = %q, want abc123", stored)
	}
}

func TestLoginFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{loginErr: errors.New("bad credentials")}
	s, tokens := newTestStore(t, api)

	if err := s.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatal("expected Login to fail")
	}
	if s.IsAuthenticated() {
		t.Error("authenticated after failed login")
	}
	if s.Token() != "" {
		t.Errorf("token set after failed login: %q", s.Token())
	}
	if stored, _ := tokens.Read(); stored != "" {
		t.Errorf("token persisted after failed login: %q", stored)
	}
}

func TestLoginEmptyCredentialsIsLocalValidationError(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{token: "abc123"}
	s, _ := newTestStore(t, api)

	err := s.Login(context.Background(), "", "")
	if !validation.IsValidationError(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if api.loginCalls != 0 {
		t.Errorf("network call issued for empty credentials: %d", api.loginCalls)
	}
}

func TestBootstrapWithoutTokenMakesNoCalls(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{}
	s, _ := newTestStore(t, api)

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("authenticated without any token")
	}
	if api.loginCalls != 0 || api.validateCalls != 0 {
		t.Errorf("network calls issued: login:%d validate:%d", api.loginCalls, api.validateCalls)
	}
}

func TestBootstrapValidTokenRestoresSession(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{}
	s, tokens := newTestStore(t, api)
	if err := tokens.Write("stored-token"); err != nil {
		t.Fatalf("seeding token file: %v", err)
	}

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if !s.IsAuthenticated() {
		t.Error("expected authenticated state")
	}
	if s.Token() != "stored-token" {
		t.Errorf("token = %q, want stored-token", s.Token())
	}
	if api.validateCalls != 1 {
		t.Errorf("validate calls = %d, want 1", api.validateCalls)
	}
}

func TestBootstrapInvalidTokenForcesLogout(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{validateErr: errors.New("expired")}
	s, tokens := newTestStore(t, api)
	if err := tokens.Write("stale-token"); err != nil {
		t.Fatalf("seeding token file: %v", err)
	}

	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error for rejected token: %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("authenticated with rejected token")
	}
	if s.Token() != "" {
		t.Errorf("in-memory token kept: %q", s.Token())
	}
	if stored, _ := tokens.Read(); stored != "" {
		t.Errorf("persisted token not cleared: %q", stored)
	}
	if api.validateCalls != 1 {
		t.Errorf("validate calls = %d, want exactly 1 (no retry)", api.validateCalls)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	api := &fakeAuthAPI{token: "abc123"}
	s, tokens := newTestStore(t, api)
	if err := s.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	s.Logout()
	s.Logout()

	if s.IsAuthenticated() || s.Token() != "" {
		t.Error("session state survives logout")
	}
	if stored, _ := tokens.Read(); stored != "" {
		t.Errorf("persisted token survives logout: %q", stored)
	}
}
