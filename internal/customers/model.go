// Package customers provides customer CRUD and the customer-to-lead
// conversion workflow.
package customers

import "time"

// Customer is a converted contact eligible to place orders. It shares the
// name/contact shape with leads.
type Customer struct {
	ID        int64     `json:"id" db:"id"`
	FirstName *string   `json:"first_name,omitempty" db:"first_name"`
	LastName  *string   `json:"last_name,omitempty" db:"last_name"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Brand     string    `json:"brand" db:"brand"`
	Source    *string   `json:"source,omitempty" db:"source"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LeadRecord mirrors the leads row written by the reverse conversion,
// declared locally so the transaction stays inside one repository.
type LeadRecord struct {
	ID        int64     `json:"id" db:"id"`
	FirstName *string   `json:"first_name,omitempty" db:"first_name"`
	LastName  *string   `json:"last_name,omitempty" db:"last_name"`
	Name      string    `json:"name" db:"name"`
	Email     *string   `json:"email,omitempty" db:"email"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Status    string    `json:"status" db:"status"`
	Source    *string   `json:"source,omitempty" db:"source"`
	Brand     string    `json:"brand" db:"brand"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// fallbackFirstName is used when a customer's name cannot be split into
// parts during the reverse conversion.
const fallbackFirstName = "Unknown"
