package session

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/tally/internal/api"
	"github.com/ledgerline/tally/internal/model"
)

// memStore is an in-memory Store.
type memStore struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (s *memStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (s *memStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *memStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// fakeAuth scripts the Authenticator boundary.
type fakeAuth struct {
	token   string
	user    model.User
	err     error
	started chan struct{}
	release chan struct{}
}

func (f *fakeAuth) Login(_ context.Context, _, _ string) (string, model.User, error) {
	if f.started != nil {
		close(f.started)
	}
	if f.release != nil {
		<-f.release
	}
	return f.token, f.user, f.err
}

func (f *fakeAuth) Signup(ctx context.Context, _, email, password string) (string, model.User, error) {
	return f.Login(ctx, email, password)
}

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestManager(store Store, auth Authenticator) *Manager {
	return NewManager(store, auth, quietLogger())
}

func TestRestoreWithoutPersistedSession(t *testing.T) {
	m := newTestManager(newMemStore(), &fakeAuth{})

	assert.Equal(t, StatusAnonymous, m.Restore())
	assert.Empty(t, m.Token())
}

func TestRestoreWithMalformedProfileFailsOpen(t *testing.T) {
	store := newMemStore()
	store.Set(tokenKey, "tok")
	store.Set(userKey, "{not json")

	m := newTestManager(store, &fakeAuth{})

	assert.Equal(t, StatusAnonymous, m.Restore())
}

func TestLoginPersistsAndRestores(t *testing.T) {
	store := newMemStore()
	user := model.User{ID: "u1", Name: "Pat", Email: "pat@example.com"}
	m := newTestManager(store, &fakeAuth{token: "tok-1", user: user})

	require.NoError(t, m.Login(context.Background(), "pat@example.com", "pw"))
	assert.Equal(t, StatusAuthenticated, m.Status())
	assert.Equal(t, "tok-1", m.Token())
	assert.Equal(t, user, m.User())

	// A fresh process with the same persisted storage comes back
	// authenticated with an identical profile.
	fresh := newTestManager(store, &fakeAuth{})
	require.Equal(t, StatusAuthenticated, fresh.Restore())
	assert.Equal(t, "tok-1", fresh.Token())
	assert.Equal(t, user, fresh.User())
}

func TestFailedLoginLeavesStateUntouched(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store, &fakeAuth{err: &api.RequestError{StatusCode: 401, Message: "Invalid email or password"}})
	m.Restore()

	err := m.Login(context.Background(), "pat@example.com", "wrong")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Invalid email or password", authErr.Message)
	assert.Equal(t, StatusAnonymous, m.Status())
	assert.Empty(t, m.Token())
	_, getErr := store.Get(tokenKey)
	assert.Error(t, getErr, "nothing persisted on failure")
}

func TestTransportErrorBecomesGenericAuthError(t *testing.T) {
	m := newTestManager(newMemStore(), &fakeAuth{err: errors.New("dial tcp: connection refused")})

	err := m.Login(context.Background(), "pat@example.com", "pw")

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "Something went wrong", authErr.Message)
}

func TestLogoutClearsPersistedSession(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store, &fakeAuth{token: "tok", user: model.User{ID: "u1", Email: "p@e.com"}})
	require.NoError(t, m.Login(context.Background(), "p@e.com", "pw"))

	m.Logout()

	assert.Equal(t, StatusAnonymous, m.Status())
	assert.Empty(t, m.Token())

	fresh := newTestManager(store, &fakeAuth{})
	assert.Equal(t, StatusAnonymous, fresh.Restore())
}

func TestConcurrentLoginFailsFast(t *testing.T) {
	auth := &fakeAuth{
		token:   "tok",
		user:    model.User{ID: "u1", Email: "p@e.com"},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	m := newTestManager(newMemStore(), auth)

	done := make(chan error, 1)
	go func() {
		done <- m.Login(context.Background(), "p@e.com", "pw")
	}()

	<-auth.started
	err := m.Signup(context.Background(), "Pat", "p@e.com", "pw")
	assert.ErrorIs(t, err, ErrAuthInFlight)

	close(auth.release)
	assert.NoError(t, <-done)
}

func TestSignupAgainstBackend(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"token":"tok-7","user":{"id":"u9","name":"Sam","email":"sam@example.com"}}`))
	}))
	defer srv.Close()

	// Real wiring: the manager is the client's token source.
	store := newMemStore()
	m := NewManager(store, nil, quietLogger())
	client := api.NewClient(srv.URL, m)
	m.auth = client

	require.NoError(t, m.Signup(context.Background(), "Sam", "sam@example.com", "pw"))
	assert.Equal(t, StatusAuthenticated, m.Status())
	assert.Equal(t, "tok-7", m.Token())
}

func TestInvalidateClearsSession(t *testing.T) {
	store := newMemStore()
	m := newTestManager(store, &fakeAuth{token: "tok", user: model.User{ID: "u1", Email: "p@e.com"}})
	require.NoError(t, m.Login(context.Background(), "p@e.com", "pw"))

	m.Invalidate()

	assert.Equal(t, StatusAnonymous, m.Status())
	fresh := newTestManager(store, &fakeAuth{})
	assert.Equal(t, StatusAnonymous, fresh.Restore())
}
