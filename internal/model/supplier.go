package model

import "time"

// Supplier is a vendor the business purchases goods from.
type Supplier struct {
	// ID is the backend identifier for this supplier.
	ID string `json:"id"`

	// Name is the supplier's trading name.
	Name string `json:"name"`

	// Email is the primary contact address.
	Email string `json:"email,omitempty"`

	// Phone is the primary contact number.
	Phone string `json:"phone,omitempty"`

	// Address is the postal address, free-form.
	Address string `json:"address,omitempty"`

	// TaxID is the supplier's tax registration number, if known.
	TaxID string `json:"tax_id,omitempty"`

	// CreatedAt is when the supplier was registered on the backend.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the supplier record last changed.
	UpdatedAt time.Time `json:"updated_at"`
}
