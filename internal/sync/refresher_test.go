package sync

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/tally/internal/api"
	"github.com/ledgerline/tally/internal/cache"
	"github.com/ledgerline/tally/tests/testutil"
)

type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func quietLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestRefresher(t *testing.T, handler http.Handler) (*Refresher, *cache.Cache) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := testutil.NewTestCache(t)
	client := api.NewClient(srv.URL, staticTokens("tok"))
	return New(client, c, time.Minute, quietLogger()), c
}

func drain(r *Refresher) []RefreshResultMsg {
	var out []RefreshResultMsg
	for {
		select {
		case msg := <-r.resultCh:
			out = append(out, msg)
		default:
			return out
		}
	}
}

func TestRefreshAllFillsCache(t *testing.T) {
	r, c := newTestRefresher(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		switch req.URL.Path {
		case "/api/invoices":
			w.Write([]byte(`[{"id":"i1","number":"INV-001","total":"10"}]`))
		case "/api/suppliers":
			w.Write([]byte(`[{"id":"s1","name":"Alpha"}]`))
		default:
			w.Write([]byte(`[]`))
		}
	}))

	r.refreshAll()

	invoices, err := c.Invoices(context.Background())
	require.NoError(t, err)
	suppliers, err := c.Suppliers(context.Background())
	require.NoError(t, err)
	assert.Len(t, invoices, 1)
	assert.Len(t, suppliers, 1)

	results := drain(r)
	require.Len(t, results, 5)
	for _, msg := range results {
		assert.NoError(t, msg.Error)
	}

	for _, st := range r.Statuses() {
		assert.Equal(t, RefreshIdle, st.State)
		assert.False(t, st.LastRefresh.IsZero())
	}
}

func TestRefreshReportsUnauthorized(t *testing.T) {
	r, _ := newTestRefresher(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expired"}`))
	}))

	r.refreshAll()

	results := drain(r)
	require.NotEmpty(t, results)
	for _, msg := range results {
		assert.Error(t, msg.Error)
		assert.True(t, msg.Unauthorized)
	}
}

func TestPausedRefresherFetchesNothing(t *testing.T) {
	var calls int
	r, _ := newTestRefresher(t, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		calls++
		w.Write([]byte(`[]`))
	}))

	r.Pause()
	r.refreshAll()

	assert.Zero(t, calls)
	assert.Empty(t, drain(r))
}
