package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses as reported by the backend. The client never derives
// these; it only renders them.
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// InvoiceItem is a single billed line on an invoice.
type InvoiceItem struct {
	// Name is the product or service description.
	Name string `json:"name"`

	// Quantity is the billed quantity.
	Quantity decimal.Decimal `json:"quantity"`

	// Rate is the unit price before tax.
	Rate decimal.Decimal `json:"rate"`

	// TaxPercent is the tax rate applied by the backend.
	TaxPercent decimal.Decimal `json:"tax_percent"`

	// Amount is the line total computed by the backend.
	Amount decimal.Decimal `json:"amount"`
}

// Invoice is a sales invoice issued to a customer. All monetary fields
// are computed by the backend; the client treats them as display data.
type Invoice struct {
	// ID is the backend identifier for this invoice.
	ID string `json:"id"`

	// Number is the human-facing invoice number assigned by the backend.
	Number string `json:"number"`

	// CustomerName is the billed party's name.
	CustomerName string `json:"customer_name"`

	// CustomerEmail is the billed party's contact address.
	CustomerEmail string `json:"customer_email,omitempty"`

	// Items are the billed lines in document order.
	Items []InvoiceItem `json:"items"`

	// Subtotal is the pre-tax sum of all lines.
	Subtotal decimal.Decimal `json:"subtotal"`

	// TaxTotal is the total tax across all lines.
	TaxTotal decimal.Decimal `json:"tax_total"`

	// Total is the grand total due.
	Total decimal.Decimal `json:"total"`

	// AmountPaid is what the customer has settled so far.
	AmountPaid decimal.Decimal `json:"amount_paid"`

	// Status is one of the InvoiceStatus constants.
	Status string `json:"status"`

	// IssuedAt is the invoice date.
	IssuedAt time.Time `json:"issued_at"`

	// DueAt is the payment due date.
	DueAt time.Time `json:"due_at"`

	// UpdatedAt is when the invoice record last changed.
	UpdatedAt time.Time `json:"updated_at"`
}

// Balance returns the amount still owed. Display arithmetic only; the
// backend remains authoritative for settlement.
func (i Invoice) Balance() decimal.Decimal {
	return i.Total.Sub(i.AmountPaid)
}
