package activities

import "time"

type CreateActivityRequest struct {
	Type       string     `json:"type" validate:"required"`
	Subject    string     `json:"subject" validate:"required,max=200"`
	Notes      *string    `json:"notes,omitempty"`
	DueAt      *time.Time `json:"due_at,omitempty"`
	LeadID     *int64     `json:"lead_id,omitempty"`
	CustomerID *int64     `json:"customer_id,omitempty"`
}

type UpdateActivityRequest struct {
	Type    *string    `json:"type,omitempty"`
	Subject *string    `json:"subject,omitempty" validate:"omitempty,max=200"`
	Notes   *string    `json:"notes,omitempty"`
	DueAt   *time.Time `json:"due_at,omitempty"`
	Status  *string    `json:"status,omitempty"`
}

type ListActivitiesRequest struct {
	Status     *string `json:"status,omitempty"`
	Type       *string `json:"type,omitempty"`
	LeadID     *int64  `json:"lead_id,omitempty"`
	CustomerID *int64  `json:"customer_id,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}

type ListActivitiesResponse struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
	Limit      int        `json:"limit"`
	Offset     int        `json:"offset"`
}
