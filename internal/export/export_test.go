package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/tally/internal/model"
)

func sampleInvoice() *model.Invoice {
	return &model.Invoice{
		ID:           "inv-1",
		Number:       "INV-2026-001",
		CustomerName: "Acme Traders",
		Items: []model.InvoiceItem{
			{
				Name:     "Widgets",
				Quantity: decimal.NewFromInt(3),
				Rate:     decimal.NewFromInt(50),
				Amount:   decimal.NewFromInt(150),
			},
		},
		Subtotal:   decimal.NewFromInt(150),
		TaxTotal:   decimal.NewFromInt(27),
		Total:      decimal.NewFromInt(177),
		AmountPaid: decimal.NewFromInt(100),
		Status:     model.InvoiceStatusSent,
		IssuedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		DueAt:      time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestInvoiceTextContainsFields(t *testing.T) {
	text := InvoiceText(sampleInvoice(), "$")

	assert.Contains(t, text, "INVOICE INV-2026-001")
	assert.Contains(t, text, "Acme Traders")
	assert.Contains(t, text, "Widgets")
	assert.Contains(t, text, "$177.00")
	assert.Contains(t, text, "$77.00") // balance = total - paid
}

func TestWriteInvoiceCreatesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")

	path, err := WriteInvoice(dir, sampleInvoice(), "$")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filepath.Base(path), "invoice-INV-2026-001-"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Acme Traders")
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "a-b", sanitizeName("a/b"))
	assert.Equal(t, "untitled", sanitizeName(""))
}
