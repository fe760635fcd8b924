package cache

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/tally/internal/model"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, c.Close())
	})
	return c
}

func TestEmptySnapshotReadsEmpty(t *testing.T) {
	c := newTestCache(t)

	rows, err := c.Invoices(context.Background())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestReplacePreservesOrderAndFields(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	in := []model.Invoice{
		{
			ID:           "inv-2",
			Number:       "INV-002",
			CustomerName: "Acme",
			Total:        decimal.RequireFromString("150.50"),
			Status:       model.InvoiceStatusSent,
			IssuedAt:     time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:           "inv-1",
			Number:       "INV-001",
			CustomerName: "Globex",
			Total:        decimal.RequireFromString("99.99"),
			Status:       model.InvoiceStatusPaid,
		},
	}
	require.NoError(t, c.ReplaceInvoices(ctx, in))

	out, err := c.Invoices(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "INV-002", out[0].Number)
	assert.Equal(t, "INV-001", out[1].Number)
	assert.True(t, out[0].Total.Equal(in[0].Total))
	assert.Equal(t, model.InvoiceStatusPaid, out[1].Status)
}

func TestReplaceIsASnapshotNotAMerge(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ReplaceSuppliers(ctx, []model.Supplier{
		{ID: "s1", Name: "Alpha"},
		{ID: "s2", Name: "Beta"},
	}))
	require.NoError(t, c.ReplaceSuppliers(ctx, []model.Supplier{
		{ID: "s2", Name: "Beta Renamed"},
	}))

	out, err := c.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Beta Renamed", out[0].Name)
}

func TestResourcesAreIsolated(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ReplaceExpenses(ctx, []model.Expense{
		{ID: "e1", Category: "rent", Amount: decimal.NewFromInt(1200)},
	}))
	require.NoError(t, c.ReplaceReturns(ctx, []model.Return{
		{ID: "r1", Kind: model.ReturnKindSales, DocumentNumber: "INV-001"},
	}))

	expenses, err := c.Expenses(ctx)
	require.NoError(t, err)
	returns, err := c.Returns(ctx)
	require.NoError(t, err)

	assert.Len(t, expenses, 1)
	assert.Len(t, returns, 1)
}

func TestClearWipesEverySnapshot(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.ReplacePurchases(ctx, []model.Purchase{{ID: "p1", Number: "PUR-001"}}))
	require.NoError(t, c.ReplaceInvoices(ctx, []model.Invoice{{ID: "i1", Number: "INV-001"}}))

	require.NoError(t, c.Clear(ctx))

	purchases, err := c.Purchases(ctx)
	require.NoError(t, err)
	invoices, err := c.Invoices(ctx)
	require.NoError(t, err)
	assert.Empty(t, purchases)
	assert.Empty(t, invoices)
}
