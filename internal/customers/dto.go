package customers

type CreateCustomerRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Name      string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Brand     string  `json:"brand,omitempty" validate:"omitempty,max=100"`
	Source    *string `json:"source,omitempty" validate:"omitempty,max=100"`
	Notes     *string `json:"notes,omitempty"`
}

type UpdateCustomerRequest struct {
	FirstName *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName  *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Brand     *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	Source    *string `json:"source,omitempty" validate:"omitempty,max=100"`
	Notes     *string `json:"notes,omitempty"`
}

type ListCustomersRequest struct {
	Brand  *string `json:"brand,omitempty"`
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}

type ListCustomersResponse struct {
	Customers []Customer `json:"customers"`
	Total     int        `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// ConvertToLeadResponse is the POST /api/customers/{id}/convert-to-lead body.
type ConvertToLeadResponse struct {
	Lead    *LeadRecord `json:"lead"`
	Success bool        `json:"success"`
}
