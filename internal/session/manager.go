// Package session is the single source of truth for who is logged in.
// It restores persisted credentials at startup, performs login, signup,
// and logout against the backend, and exposes the status the view layer
// gates on.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ledgerline/tally/internal/api"
	"github.com/ledgerline/tally/internal/model"
)

// Persisted storage keys.
const (
	tokenKey = "session-token"
	userKey  = "session-user"
)

// Status is the session's authentication state.
type Status int

const (
	// StatusUnknown means Restore has not run yet. Protected views
	// render a loading placeholder and fetch nothing.
	StatusUnknown Status = iota

	// StatusAuthenticated means a token and profile are held.
	StatusAuthenticated

	// StatusAnonymous means no valid session exists.
	StatusAnonymous
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// AuthError is returned when login or signup is rejected or the backend
// is unreachable. Message is always displayable.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Message
}

// ErrAuthInFlight is returned when a login or signup is attempted while
// another one is still running. Session transitions are serialized.
var ErrAuthInFlight = errors.New("authentication request already in flight")

// Store persists session credentials between runs. Implemented by the
// keyring-backed credential.Store; tests use an in-memory fake.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

// Authenticator is the backend authentication boundary, implemented by
// api.Client.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, model.User, error)
	Signup(ctx context.Context, name, email, password string) (string, model.User, error)
}

// Manager owns the session for the process lifetime. Constructed once
// at startup and injected into the app model; nothing else writes
// session state.
type Manager struct {
	store Store
	auth  Authenticator
	log   logrus.FieldLogger

	mu       sync.Mutex
	status   Status
	token    string
	user     model.User
	inFlight bool
}

// NewManager creates a Manager in the unknown state.
func NewManager(store Store, auth Authenticator, log logrus.FieldLogger) *Manager {
	return &Manager{
		store:  store,
		auth:   auth,
		log:    log,
		status: StatusUnknown,
	}
}

// SetAuthenticator wires the backend client in after construction. The
// client needs the manager as its token source, so one of the two has
// to be completed late.
func (m *Manager) SetAuthenticator(auth Authenticator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = auth
}

// Restore loads the persisted token and profile. Run exactly once at
// startup. Missing, partial, or malformed data resolves to anonymous;
// Restore never fails.
func (m *Manager) Restore() Status {
	token, err := m.store.Get(tokenKey)
	if err != nil || token == "" {
		return m.setAnonymous()
	}

	raw, err := m.store.Get(userKey)
	if err != nil || raw == "" {
		return m.setAnonymous()
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil || user.IsZero() {
		m.log.WithError(err).Warn("discarding malformed persisted session")
		return m.setAnonymous()
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.status = StatusAuthenticated
	m.mu.Unlock()

	m.log.WithField("email", user.Email).Debug("session restored")
	return StatusAuthenticated
}

// Login exchanges credentials for a session. On success the session is
// persisted and the manager flips to authenticated. On failure it
// returns *AuthError and leaves all session state untouched.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	return m.authenticate(ctx, func() (string, model.User, error) {
		return m.auth.Login(ctx, email, password)
	})
}

// Signup registers a new account; same contract as Login.
func (m *Manager) Signup(ctx context.Context, name, email, password string) error {
	return m.authenticate(ctx, func() (string, model.User, error) {
		return m.auth.Signup(ctx, name, email, password)
	})
}

// authenticate serializes auth calls and applies the shared
// success/failure contract.
func (m *Manager) authenticate(_ context.Context, call func() (string, model.User, error)) error {
	m.mu.Lock()
	if m.inFlight {
		m.mu.Unlock()
		return ErrAuthInFlight
	}
	m.inFlight = true
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight = false
		m.mu.Unlock()
	}()

	token, user, err := call()
	if err != nil {
		return asAuthError(err)
	}

	if err := m.persist(token, user); err != nil {
		// The backend accepted the credentials; a dead keyring only
		// costs persistence across restarts, not this session.
		m.log.WithError(err).Warn("session will not survive restart")
	}

	m.mu.Lock()
	m.token = token
	m.user = user
	m.status = StatusAuthenticated
	m.mu.Unlock()

	m.log.WithField("email", user.Email).Info("signed in")
	return nil
}

// Logout clears the persisted and in-memory session. It always
// succeeds; storage errors are logged, not returned.
func (m *Manager) Logout() {
	if err := m.store.Delete(tokenKey); err != nil {
		m.log.WithError(err).Warn("clearing persisted token")
	}
	if err := m.store.Delete(userKey); err != nil {
		m.log.WithError(err).Warn("clearing persisted profile")
	}
	m.setAnonymous()
	m.log.Info("signed out")
}

// Invalidate is Logout for sessions the backend rejected (401). The app
// layer calls it before redirecting to the login view.
func (m *Manager) Invalidate() {
	m.log.Warn("session rejected by backend, clearing")
	m.Logout()
}

// Token returns the current bearer token, empty when anonymous.
// Implements api.TokenSource.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// User returns the authenticated profile, zero when anonymous.
func (m *Manager) User() model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Status returns the current authentication status.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// persist writes the token and profile to the credential store.
func (m *Manager) persist(token string, user model.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return err
	}
	if err := m.store.Set(tokenKey, token); err != nil {
		return err
	}
	return m.store.Set(userKey, string(raw))
}

// setAnonymous clears in-memory state and returns the new status.
func (m *Manager) setAnonymous() Status {
	m.mu.Lock()
	m.token = ""
	m.user = model.User{}
	m.status = StatusAnonymous
	m.mu.Unlock()
	return StatusAnonymous
}

// asAuthError converts any login/signup failure into an AuthError
// carrying the backend's message when one exists.
func asAuthError(err error) *AuthError {
	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		return &AuthError{Message: reqErr.Message}
	}
	return &AuthError{Message: "Something went wrong"}
}
