package orders

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/lunaria-crm/lunaria/internal/events"
	"github.com/lunaria-crm/lunaria/internal/shared"
)

// ErrInvalidStatus indicates a status value outside the allow-list.
var ErrInvalidStatus = errors.New("invalid status")

// AuditPort abstracts audit logging so tests can run without a database.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns order creation, status transitions and deletion.
type Service struct {
	repo  Repository
	bus   events.Bus
	audit AuditPort
}

// NewService builds the Service. audit may be nil.
func NewService(repo Repository, bus events.Bus, audit AuditPort) *Service {
	return &Service{repo: repo, bus: bus, audit: audit}
}

// Create inserts an order and its items and decrements product stock, all in
// one transaction. Each product row is locked before the decrement so
// concurrent orders cannot read the same stock value; the new stock is
// clamped at zero.
func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	brand, err := s.repo.CustomerBrand(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	items := make([]OrderItem, 0, len(req.Items))
	var itemTotal float64
	for _, it := range req.Items {
		subtotal := it.UnitPrice*float64(it.Quantity) - it.Discount
		items = append(items, OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Discount:    it.Discount,
			Subtotal:    subtotal,
		})
		itemTotal += subtotal
	}

	total := itemTotal
	if req.TotalAmount != nil {
		total = *req.TotalAmount
	}

	number := req.OrderNumber
	if number == "" {
		number = generateOrderNumber()
	}

	draft := Order{
		OrderNumber:   number,
		CustomerID:    req.CustomerID,
		LeadID:        req.LeadID,
		TotalAmount:   total,
		Status:        StatusNew,
		PaymentStatus: PaymentPending,
		Brand:         brand,
		Notes:         req.Notes,
	}

	var orderID int64
	var stockChanges []StockChangedPayload
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		var err error
		orderID, err = tx.Insert(ctx, draft)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if err := tx.InsertItems(ctx, orderID, items); err != nil {
			return fmt.Errorf("insert items: %w", err)
		}

		for _, it := range items {
			if it.ProductID == nil {
				continue
			}
			product, err := tx.ProductForUpdate(ctx, *it.ProductID)
			if err != nil {
				return err
			}
			newStock := product.Stock - it.Quantity
			if newStock < 0 {
				newStock = 0
			}
			if err := tx.SetProductStock(ctx, product.ID, newStock); err != nil {
				return err
			}
			stockChanges = append(stockChanges, StockChangedPayload{
				ProductID:     product.ID,
				ProductName:   product.Name,
				PreviousStock: product.Stock,
				NewStock:      newStock,
				Quantity:      it.Quantity,
				Reason:        "order " + number,
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "order:create",
			Entity:   "order",
			EntityID: strconv.FormatInt(orderID, 10),
			Meta:     map[string]any{"order_number": number, "total": total},
		})
	}

	for _, change := range stockChanges {
		if err := s.bus.Publish(ctx, events.ProductStockChanged, change); err != nil {
			return nil, err
		}
	}
	if err := s.bus.Publish(ctx, events.OrderCreated, order); err != nil {
		return nil, err
	}
	return order, nil
}

// Get returns an order with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	return s.repo.Get(ctx, id)
}

// List returns orders matching the filter plus the unfiltered total.
func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// Update applies a partial update to mutable order fields.
func (s *Service) Update(ctx context.Context, id int64, req UpdateOrderRequest) (*Order, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.TotalAmount != nil {
		updates["total_amount"] = *req.TotalAmount
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// UpdateStatus moves an order to a new fulfilment status. Rejected values
// leave the row untouched. A supplied reason is appended to the note trail.
func (s *Service) UpdateStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Order, error) {
	next := Status(req.Status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.Status

	updates := map[string]any{"status": string(next)}
	if req.Reason != nil && *req.Reason != "" {
		updates["notes"] = appendNote(order.Notes,
			fmt.Sprintf("status %s -> %s: %s", previous, next, *req.Reason))
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.bus.Publish(ctx, events.OrderStatusChanged, StatusChangedPayload{
		Order:    updated,
		Previous: string(previous),
		New:      string(next),
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdatePaymentStatus mirrors UpdateStatus for the payment state.
func (s *Service) UpdatePaymentStatus(ctx context.Context, id int64, req UpdateStatusRequest) (*Order, error) {
	next := PaymentStatus(req.Status)
	if !next.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := order.PaymentStatus

	updates := map[string]any{"payment_status": string(next)}
	if req.Reason != nil && *req.Reason != "" {
		updates["notes"] = appendNote(order.Notes,
			fmt.Sprintf("payment %s -> %s: %s", previous, next, *req.Reason))
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, err
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.bus.Publish(ctx, events.OrderPaymentStatusChanged, StatusChangedPayload{
		Order:    updated,
		Previous: string(previous),
		New:      string(next),
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes an order; items cascade at the database level.
func (s *Service) Delete(ctx context.Context, id int64) error {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "order:delete",
			Entity:   "order",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"order_number": order.OrderNumber},
		})
	}
	return s.bus.Publish(ctx, events.OrderDeleted, order)
}

const orderNumberAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateOrderNumber produces ORD-XXXXXNNNNNN: five random base36 characters
// followed by the last six digits of the current epoch milliseconds.
func generateOrderNumber() string {
	buf := make([]byte, 5)
	for i := range buf {
		buf[i] = orderNumberAlphabet[rand.Intn(len(orderNumberAlphabet))]
	}
	millis := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return "ORD-" + string(buf) + millis[len(millis)-6:]
}

func appendNote(notes *string, line string) string {
	stamped := fmt.Sprintf("[%s] %s", time.Now().UTC().Format(time.RFC3339), line)
	if notes == nil || *notes == "" {
		return stamped
	}
	return *notes + "\n" + stamped
}
