package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/tally/internal/model"
)

// staticTokens is a TokenSource returning a fixed token.
type staticTokens string

func (s staticTokens) Token() string { return string(s) }

func TestDoSetsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("tok-123"))
	extra := http.Header{}
	extra.Set("X-Client-Screen", "invoices")

	err := c.Do(context.Background(), http.MethodPost, "/api/ping", map[string]string{"a": "b"}, nil, extra)
	require.NoError(t, err)

	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.Equal(t, "Bearer tok-123", got.Get("Authorization"))
	assert.Equal(t, "invoices", got.Get("X-Client-Screen"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestDoOmitsAuthorizationWithoutToken(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens(""))
	require.NoError(t, c.Get(context.Background(), "/api/ping", nil))

	assert.Empty(t, got.Get("Authorization"))
}

func TestDoDecodesSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"inv-1","number":"INV-001","customer_name":"Acme","total":"150.50"}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("t"))
	invoices, err := c.ListInvoices(context.Background())
	require.NoError(t, err)

	require.Len(t, invoices, 1)
	assert.Equal(t, "INV-001", invoices[0].Number)
	assert.Equal(t, "150.5", invoices[0].Total.String())
}

func TestDoUsesServerMessageOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Invoice not found"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("t"))
	_, err := c.GetInvoice(context.Background(), "missing")

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusNotFound, reqErr.StatusCode)
	assert.Equal(t, "Invoice not found", reqErr.Message)
	assert.False(t, reqErr.Unauthorized())
}

func TestDoFallsBackToGenericMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("t"))
	err := c.Get(context.Background(), "/api/expenses", nil)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Something went wrong", reqErr.Message)
}

func TestDoDoesNotSpecialCase401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"Token expired"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("stale"))
	err := c.Get(context.Background(), "/api/invoices", nil)

	// Still just a RequestError; the caller decides what 401 means.
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.True(t, reqErr.Unauthorized())
	assert.Equal(t, "Token expired", reqErr.Message)
}

func TestDoAcceptsNoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("t"))
	assert.NoError(t, c.DeleteInvoice(context.Background(), "inv-1"))
}

func TestDoWrapsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(srv.URL, staticTokens("t"))
	err := c.Get(context.Background(), "/api/invoices", nil)

	require.Error(t, err)
	var reqErr *RequestError
	assert.False(t, errors.As(err, &reqErr), "transport errors are not RequestErrors")
}

func TestLoginRoundTrip(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/users/login", r.URL.Path)
		w.Write([]byte(`{"token":"tok-9","user":{"id":"u1","name":"Pat","email":"pat@example.com"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens(""))
	token, user, err := c.Login(context.Background(), "pat@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, "tok-9", token)
	assert.Equal(t, model.User{ID: "u1", Name: "Pat", Email: "pat@example.com"}, user)
}

func TestListReturnsMergesBothKinds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sales-returns":
			w.Write([]byte(`[{"id":"sr1","document_number":"INV-001","amount":"10"}]`))
		case "/api/purchase-returns":
			w.Write([]byte(`[{"id":"pr1","document_number":"PUR-004","amount":"25"}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, staticTokens("t"))
	returns, err := c.ListReturns(context.Background())
	require.NoError(t, err)

	require.Len(t, returns, 2)
	assert.Equal(t, model.ReturnKindSales, returns[0].Kind)
	assert.Equal(t, model.ReturnKindPurchase, returns[1].Kind)
}
