package resourcelist

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ledgerline/tally/internal/model"
)

func TestMatchesQuery(t *testing.T) {
	row := model.Supplier{Name: "Alpha Metals", Email: "sales@alpha.example"}

	assert.True(t, matchesQuery(row, ""))
	assert.True(t, matchesQuery(row, "alpha"))
	assert.True(t, matchesQuery(row, "METALS"))
	assert.False(t, matchesQuery(row, "globex"))
}

func TestMatchesQuerySearchesStatus(t *testing.T) {
	row := model.Invoice{
		Number:       "INV-001",
		CustomerName: "Acme",
		Total:        decimal.NewFromInt(10),
		Status:       model.InvoiceStatusOverdue,
	}

	assert.True(t, matchesQuery(row, "overdue"))
	assert.True(t, matchesQuery(row, "inv-001"))
}

func TestRelativeTime(t *testing.T) {
	assert.Equal(t, "", relativeTime(time.Time{}))
	assert.Equal(t, "just now", relativeTime(time.Now().Add(-10*time.Second)))
	assert.Equal(t, "5m ago", relativeTime(time.Now().Add(-5*time.Minute)))
	assert.Equal(t, "2h ago", relativeTime(time.Now().Add(-2*time.Hour)))
	assert.Equal(t, "3d ago", relativeTime(time.Now().Add(-72*time.Hour)))
}

func TestScreenTitle(t *testing.T) {
	assert.Equal(t, "Invoices", ScreenInvoices.Title())
	assert.Equal(t, "Returns", ScreenReturns.Title())
}
