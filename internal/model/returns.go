package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReturnKind distinguishes the two return directions.
type ReturnKind string

const (
	// ReturnKindSales is a customer returning sold goods.
	ReturnKindSales ReturnKind = "sales"

	// ReturnKindPurchase is the business returning goods to a supplier.
	ReturnKindPurchase ReturnKind = "purchase"
)

// Return is a sales or purchase return. The backend owns the stock and
// ledger adjustments; the client only records and lists them.
type Return struct {
	// ID is the backend identifier for this return.
	ID string `json:"id"`

	// Kind is the return direction.
	Kind ReturnKind `json:"kind"`

	// DocumentID is the originating invoice or purchase ID.
	DocumentID string `json:"document_id"`

	// DocumentNumber is the originating document's human-facing number.
	DocumentNumber string `json:"document_number"`

	// Party is the customer or supplier name, per Kind.
	Party string `json:"party"`

	// Reason is the free-form return reason.
	Reason string `json:"reason,omitempty"`

	// Amount is the credited return total.
	Amount decimal.Decimal `json:"amount"`

	// ReturnedAt is the date the return was recorded.
	ReturnedAt time.Time `json:"returned_at"`

	// UpdatedAt is when the return record last changed.
	UpdatedAt time.Time `json:"updated_at"`
}
