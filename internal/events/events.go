// Package events provides the in-process publish/subscribe bus that decouples
// notification and sync side effects from the CRUD services. The bus is an
// injected dependency, never package-global state, so tests can substitute
// their own instance.
package events

import "time"

// Type identifies an entity lifecycle event.
type Type string

const (
	LeadCreated   Type = "LEAD_CREATED"
	LeadUpdated   Type = "LEAD_UPDATED"
	LeadConverted Type = "LEAD_CONVERTED"
	LeadDeleted   Type = "LEAD_DELETED"

	CustomerCreated Type = "CUSTOMER_CREATED"
	CustomerUpdated Type = "CUSTOMER_UPDATED"
	CustomerDeleted Type = "CUSTOMER_DELETED"

	OrderCreated              Type = "ORDER_CREATED"
	OrderStatusChanged        Type = "ORDER_STATUS_CHANGED"
	OrderPaymentStatusChanged Type = "ORDER_PAYMENT_STATUS_CHANGED"
	OrderDeleted              Type = "ORDER_DELETED"

	ProductCreated      Type = "PRODUCT_CREATED"
	ProductUpdated      Type = "PRODUCT_UPDATED"
	ProductDeleted      Type = "PRODUCT_DELETED"
	ProductStockChanged Type = "PRODUCT_STOCK_CHANGED"

	ActivityCreated Type = "ACTIVITY_CREATED"
)

// Any subscribes a handler to every event type.
const Any Type = "*"

// Event is delivered to handlers after a state-changing operation completes.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}
