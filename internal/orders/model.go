// Package orders provides order management: creation with atomic stock
// decrement, status transitions with an append-only note trail, and the
// order lifecycle events.
package orders

import "time"

// Status is the order fulfilment state.
type Status string

const (
	StatusNew               Status = "new"
	StatusPreparing         Status = "preparing"
	StatusShipped           Status = "shipped"
	StatusCompleted         Status = "completed"
	StatusCancelled         Status = "cancelled"
	StatusPendingCompletion Status = "pending_completion"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusPreparing, StatusShipped, StatusCompleted, StatusCancelled, StatusPendingCompletion:
		return true
	}
	return false
}

// PaymentStatus is the payment state, tracked independently of fulfilment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentRefunded, PaymentFailed:
		return true
	}
	return false
}

// Order is a customer order with its line items.
type Order struct {
	ID            int64         `json:"id" db:"id"`
	OrderNumber   string        `json:"order_number" db:"order_number"`
	CustomerID    int64         `json:"customer_id" db:"customer_id"`
	LeadID        *int64        `json:"lead_id,omitempty" db:"lead_id"`
	TotalAmount   float64       `json:"total_amount" db:"total_amount"`
	Status        Status        `json:"status" db:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" db:"payment_status"`
	Brand         string        `json:"brand" db:"brand"`
	Notes         *string       `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
	Items         []OrderItem   `json:"items"`
}

// OrderItem is a line on an order. ProductID is nullable because products can
// be deleted after the fact; ProductName is a snapshot taken at order time.
type OrderItem struct {
	ID          int64   `json:"id" db:"id"`
	OrderID     int64   `json:"order_id" db:"order_id"`
	ProductID   *int64  `json:"product_id,omitempty" db:"product_id"`
	ProductName string  `json:"product_name" db:"product_name"`
	Quantity    int     `json:"quantity" db:"quantity"`
	UnitPrice   float64 `json:"unit_price" db:"unit_price"`
	Discount    float64 `json:"discount" db:"discount"`
	Subtotal    float64 `json:"subtotal" db:"subtotal"`
}

// StockChangedPayload accompanies PRODUCT_STOCK_CHANGED.
type StockChangedPayload struct {
	ProductID     int64  `json:"product_id"`
	ProductName   string `json:"product_name"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	Quantity      int    `json:"quantity"`
	Reason        string `json:"reason"`
}

// StatusChangedPayload accompanies ORDER_STATUS_CHANGED and
// ORDER_PAYMENT_STATUS_CHANGED.
type StatusChangedPayload struct {
	Order    *Order `json:"order"`
	Previous string `json:"previous"`
	New      string `json:"new"`
}
