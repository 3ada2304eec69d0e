package orders

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lunaria-crm/lunaria/internal/events"
)

type memoryProduct struct {
	name  string
	stock int
}

type memoryRepo struct {
	orders    map[int64]*Order
	items     map[int64][]OrderItem
	products  map[int64]*memoryProduct
	customers map[int64]string
	nextID    int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		orders:    make(map[int64]*Order),
		items:     make(map[int64][]OrderItem),
		products:  make(map[int64]*memoryProduct),
		customers: make(map[int64]string),
		nextID:    1,
	}
}

func (m *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, m)
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *o
	clone.Items = append([]OrderItem(nil), m.items[id]...)
	return &clone, nil
}

func (m *memoryRepo) List(_ context.Context, _ ListOrdersRequest) ([]Order, int, error) {
	var out []Order
	for _, o := range m.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Insert(_ context.Context, order Order) (int64, error) {
	order.ID = m.nextID
	m.nextID++
	m.orders[order.ID] = &order
	return order.ID, nil
}

func (m *memoryRepo) InsertItems(_ context.Context, orderID int64, items []OrderItem) error {
	for i := range items {
		items[i].ID = m.nextID
		m.nextID++
		items[i].OrderID = orderID
	}
	m.items[orderID] = append(m.items[orderID], items...)
	return nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, updates map[string]any) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["total_amount"]; ok {
		o.TotalAmount = v.(float64)
	}
	if v, ok := updates["status"]; ok {
		o.Status = Status(v.(string))
	}
	if v, ok := updates["payment_status"]; ok {
		o.PaymentStatus = PaymentStatus(v.(string))
	}
	if v, ok := updates["notes"]; ok {
		s := v.(string)
		o.Notes = &s
	}
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	delete(m.items, id)
	return nil
}

func (m *memoryRepo) CustomerBrand(_ context.Context, customerID int64) (string, error) {
	brand, ok := m.customers[customerID]
	if !ok {
		return "", ErrCustomerNotFound
	}
	return brand, nil
}

func (m *memoryRepo) ProductForUpdate(_ context.Context, productID int64) (*ProductRow, error) {
	p, ok := m.products[productID]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &ProductRow{ID: productID, Name: p.name, Stock: p.stock}, nil
}

func (m *memoryRepo) SetProductStock(_ context.Context, productID int64, stock int) error {
	p, ok := m.products[productID]
	if !ok {
		return ErrProductNotFound
	}
	p.stock = stock
	return nil
}

func i64(v int64) *int64 { return &v }

func recordEvents(t *testing.T, bus events.Bus) *[]events.Event {
	t.Helper()
	var seen []events.Event
	bus.Subscribe(events.Any, func(_ context.Context, ev events.Event) error {
		seen = append(seen, ev)
		return nil
	})
	return &seen
}

func TestCreateDecrementsStock(t *testing.T) {
	repo := newMemoryRepo()
	repo.customers[1] = "sleepwear"
	repo.products[10] = &memoryProduct{name: "Silk Robe", stock: 10}
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)
	seen := recordEvents(t, bus)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: 1,
		Items: []CreateOrderItemRequest{
			{ProductID: i64(10), ProductName: "Silk Robe", Quantity: 3, UnitPrice: 20},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 7, repo.products[10].stock)
	require.Equal(t, StatusNew, order.Status)
	require.Equal(t, PaymentPending, order.PaymentStatus)
	require.Equal(t, 60.0, order.TotalAmount)
	require.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	require.Len(t, order.OrderNumber, 15)

	require.Len(t, *seen, 2)
	require.Equal(t, events.ProductStockChanged, (*seen)[0].Type)
	change := (*seen)[0].Payload.(StockChangedPayload)
	require.Equal(t, 10, change.PreviousStock)
	require.Equal(t, 7, change.NewStock)
	require.Equal(t, events.OrderCreated, (*seen)[1].Type)
}

func TestCreateClampsStockAtZero(t *testing.T) {
	repo := newMemoryRepo()
	repo.customers[1] = "sleepwear"
	repo.products[10] = &memoryProduct{name: "Eye Mask", stock: 2}
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: 1,
		Items: []CreateOrderItemRequest{
			{ProductID: i64(10), ProductName: "Eye Mask", Quantity: 5, UnitPrice: 8},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 0, repo.products[10].stock)
}

func TestCreateUnknownCustomer(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)

	_, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: 99,
		Items: []CreateOrderItemRequest{
			{ProductName: "Pillow Mist", Quantity: 1, UnitPrice: 12},
		},
	})
	require.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateAppliesDiscountAndExplicitTotal(t *testing.T) {
	repo := newMemoryRepo()
	repo.customers[1] = "loungewear"
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)

	total := 50.0
	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID:  1,
		TotalAmount: &total,
		Items: []CreateOrderItemRequest{
			{ProductName: "Pajama Set", Quantity: 2, UnitPrice: 30, Discount: 5},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 55.0, order.Items[0].Subtotal)
	require.Equal(t, 50.0, order.TotalAmount)
	require.Equal(t, "loungewear", order.Brand)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	repo := newMemoryRepo()
	repo.customers[1] = "sleepwear"
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: 1,
		Items:      []CreateOrderItemRequest{{ProductName: "Slippers", Quantity: 1, UnitPrice: 15}},
	})
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "teleported"})
	require.ErrorIs(t, err, ErrInvalidStatus)

	unchanged, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	require.Equal(t, StatusNew, unchanged.Status)
}

func TestUpdateStatusAppendsReasonAndPublishes(t *testing.T) {
	repo := newMemoryRepo()
	repo.customers[1] = "sleepwear"
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: 1,
		Items:      []CreateOrderItemRequest{{ProductName: "Slippers", Quantity: 1, UnitPrice: 15}},
	})
	require.NoError(t, err)

	seen := recordEvents(t, bus)
	reason := "packed by warehouse"
	updated, err := svc.UpdateStatus(context.Background(), order.ID, UpdateStatusRequest{
		Status: "preparing",
		Reason: &reason,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPreparing, updated.Status)
	require.Contains(t, *updated.Notes, "status new -> preparing: packed by warehouse")

	require.Len(t, *seen, 1)
	require.Equal(t, events.OrderStatusChanged, (*seen)[0].Type)
	payload := (*seen)[0].Payload.(StatusChangedPayload)
	require.Equal(t, "new", payload.Previous)
	require.Equal(t, "preparing", payload.New)
}

func TestUpdatePaymentStatus(t *testing.T) {
	repo := newMemoryRepo()
	repo.customers[1] = "sleepwear"
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)

	order, err := svc.Create(context.Background(), CreateOrderRequest{
		CustomerID: 1,
		Items:      []CreateOrderItemRequest{{ProductName: "Robe", Quantity: 1, UnitPrice: 99.99}},
	})
	require.NoError(t, err)

	seen := recordEvents(t, bus)
	updated, err := svc.UpdatePaymentStatus(context.Background(), order.ID, UpdateStatusRequest{Status: "paid"})
	require.NoError(t, err)
	require.Equal(t, PaymentPaid, updated.PaymentStatus)

	require.Len(t, *seen, 1)
	require.Equal(t, events.OrderPaymentStatusChanged, (*seen)[0].Type)
}
