package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase statuses as reported by the backend.
const (
	PurchaseStatusOrdered  = "ordered"
	PurchaseStatusReceived = "received"
	PurchaseStatusPaid     = "paid"
)

// PurchaseItem is a single line on a purchase order.
type PurchaseItem struct {
	// Name is the purchased product description.
	Name string `json:"name"`

	// Quantity is the ordered quantity.
	Quantity decimal.Decimal `json:"quantity"`

	// Rate is the unit cost before tax.
	Rate decimal.Decimal `json:"rate"`

	// Amount is the line total computed by the backend.
	Amount decimal.Decimal `json:"amount"`
}

// Purchase is a stock purchase recorded against a supplier.
type Purchase struct {
	// ID is the backend identifier for this purchase.
	ID string `json:"id"`

	// Number is the human-facing purchase number assigned by the backend.
	Number string `json:"number"`

	// SupplierID links the purchase to a registered supplier.
	SupplierID string `json:"supplier_id"`

	// SupplierName is denormalized for list rendering.
	SupplierName string `json:"supplier_name"`

	// Items are the purchased lines in document order.
	Items []PurchaseItem `json:"items"`

	// Total is the grand total computed by the backend.
	Total decimal.Decimal `json:"total"`

	// Status is one of the PurchaseStatus constants.
	Status string `json:"status"`

	// OrderedAt is the purchase date.
	OrderedAt time.Time `json:"ordered_at"`

	// UpdatedAt is when the purchase record last changed.
	UpdatedAt time.Time `json:"updated_at"`
}
