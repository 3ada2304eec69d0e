package orders

type CreateOrderItemRequest struct {
	ProductID   *int64  `json:"product_id,omitempty"`
	ProductName string  `json:"product_name" validate:"required,max=200"`
	Quantity    int     `json:"quantity" validate:"required,gt=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gte=0"`
	Discount    float64 `json:"discount" validate:"gte=0"`
}

type CreateOrderRequest struct {
	CustomerID  int64                    `json:"customer_id" validate:"required,gt=0"`
	LeadID      *int64                   `json:"lead_id,omitempty"`
	OrderNumber string                   `json:"order_number,omitempty" validate:"omitempty,max=50"`
	TotalAmount *float64                 `json:"total_amount,omitempty" validate:"omitempty,gte=0"`
	Notes       *string                  `json:"notes,omitempty"`
	Items       []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOrderRequest struct {
	TotalAmount *float64 `json:"total_amount,omitempty" validate:"omitempty,gte=0"`
	Notes       *string  `json:"notes,omitempty"`
}

// UpdateStatusRequest drives both the status and payment-status endpoints.
type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type ListOrdersRequest struct {
	CustomerID    *int64  `json:"customer_id,omitempty"`
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
	Search        *string `json:"search,omitempty"`
	Limit         int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset        int     `json:"offset" validate:"gte=0"`
}

type ListOrdersResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}
