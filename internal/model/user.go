package model

// User is the profile record associated with an authenticated session.
type User struct {
	// ID is the backend identifier for this account.
	ID string `json:"id"`

	// Name is the display name chosen at signup.
	Name string `json:"name"`

	// Email is the login identifier.
	Email string `json:"email"`

	// BusinessName is the trading name shown on invoices.
	BusinessName string `json:"business_name,omitempty"`
}

// IsZero reports whether the user carries no identifying fields.
func (u User) IsZero() bool {
	return u.ID == "" && u.Email == ""
}
