package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an operating cost outside of stock purchases (rent,
// utilities, services).
type Expense struct {
	// ID is the backend identifier for this expense.
	ID string `json:"id"`

	// Category groups expenses for reporting (e.g. "rent", "utilities").
	Category string `json:"category"`

	// Description is the free-form note entered by the user.
	Description string `json:"description"`

	// Amount is the expense total.
	Amount decimal.Decimal `json:"amount"`

	// IncurredAt is the date the expense was incurred.
	IncurredAt time.Time `json:"incurred_at"`

	// UpdatedAt is when the expense record last changed.
	UpdatedAt time.Time `json:"updated_at"`
}
