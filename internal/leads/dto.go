package leads

type CreateLeadRequest struct {
	FirstName     *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName      *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Name          string  `json:"name,omitempty" validate:"omitempty,max=200"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Status        *Status `json:"status,omitempty"`
	Source        *string `json:"source,omitempty" validate:"omitempty,max=100"`
	Brand         string  `json:"brand,omitempty" validate:"omitempty,max=100"`
	BrandInterest *string `json:"brand_interest,omitempty" validate:"omitempty,max=200"`
	Notes         *string `json:"notes,omitempty"`
}

type UpdateLeadRequest struct {
	FirstName     *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName      *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Status        *Status `json:"status,omitempty"`
	Source        *string `json:"source,omitempty" validate:"omitempty,max=100"`
	Brand         *string `json:"brand,omitempty" validate:"omitempty,max=100"`
	BrandInterest *string `json:"brand_interest,omitempty" validate:"omitempty,max=200"`
	Notes         *string `json:"notes,omitempty"`
}

type ListLeadsRequest struct {
	Status *Status `json:"status,omitempty"`
	Brand  *string `json:"brand,omitempty"`
	Search *string `json:"search,omitempty"`
	Limit  int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset int     `json:"offset" validate:"gte=0"`
}

type ListLeadsResponse struct {
	Leads  []Lead `json:"leads"`
	Total  int    `json:"total"`
	Limit  int    `json:"limit"`
	Offset int    `json:"offset"`
}

// ConvertLeadResponse is the POST /api/leads/{id}/convert body.
type ConvertLeadResponse struct {
	Lead     *Lead           `json:"lead"`
	Customer *CustomerRecord `json:"customer"`
	Success  bool            `json:"success"`
}
