// Package leads provides lead intake and the lead-to-customer conversion
// workflow.
package leads

import "time"

// Status represents the lead pipeline stage.
type Status string

const (
	StatusNew         Status = "new"
	StatusContacted   Status = "contacted"
	StatusQualified   Status = "qualified"
	StatusUnqualified Status = "unqualified"
	StatusConverted   Status = "converted"
)

// IsValid checks if the status is a known pipeline stage.
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQualified, StatusUnqualified, StatusConverted:
		return true
	default:
		return false
	}
}

// DefaultBrand is applied when intake omits the brand.
const DefaultBrand = "sleepwear"

// Lead is a prospective contact. Once ConvertedToCustomer is set the
// conversion markers are immutable and the lead is never deleted by the
// conversion itself.
type Lead struct {
	ID                  int64     `json:"id" db:"id"`
	FirstName           *string   `json:"first_name,omitempty" db:"first_name"`
	LastName            *string   `json:"last_name,omitempty" db:"last_name"`
	Name                string    `json:"name" db:"name"`
	Email               *string   `json:"email,omitempty" db:"email"`
	Phone               *string   `json:"phone,omitempty" db:"phone"`
	Status              Status    `json:"status" db:"status"`
	Source              *string   `json:"source,omitempty" db:"source"`
	Brand               string    `json:"brand" db:"brand"`
	BrandInterest       *string   `json:"brand_interest,omitempty" db:"brand_interest"`
	Notes               *string   `json:"notes,omitempty" db:"notes"`
	ConvertedToCustomer bool      `json:"converted_to_customer" db:"converted_to_customer"`
	ConvertedCustomerID *int64    `json:"converted_customer_id,omitempty" db:"converted_customer_id"`
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerRecord mirrors the customers row written by conversion. It is
// declared here so the conversion transaction stays inside one repository
// instead of spanning packages.
type CustomerRecord struct {
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

// ConvertedPayload is published with LEAD_CONVERTED.
type ConvertedPayload struct {
	Lead     *Lead           `json:"lead"`
	Customer *CustomerRecord `json:"customer"`
}
