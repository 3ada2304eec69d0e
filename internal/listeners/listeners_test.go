package listeners

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"github.com/lunaria-crm/lunaria/internal/events"
	"github.com/lunaria-crm/lunaria/internal/orders"
	"github.com/lunaria-crm/lunaria/jobs"
)

type fakeQueue struct {
	notify   []jobs.NotifyPayload
	shopSync []jobs.ShopSyncPayload
	fail     bool
}

func (f *fakeQueue) EnqueueNotify(_ context.Context, payload jobs.NotifyPayload) (*asynq.TaskInfo, error) {
	if f.fail {
		return nil, errors.New("redis down")
	}
	f.notify = append(f.notify, payload)
	return &asynq.TaskInfo{}, nil
}

func (f *fakeQueue) EnqueueShopSync(_ context.Context, payload jobs.ShopSyncPayload) (*asynq.TaskInfo, error) {
	if f.fail {
		return nil, errors.New("redis down")
	}
	f.shopSync = append(f.shopSync, payload)
	return &asynq.TaskInfo{}, nil
}

func TestOrderCreatedEnqueuesNotification(t *testing.T) {
	bus := events.NewMemoryBus()
	queue := &fakeQueue{}
	Register(bus, slog.New(slog.NewTextHandler(io.Discard, nil)), queue)

	order := &orders.Order{OrderNumber: "ORD-ABCDE123456"}
	require.NoError(t, bus.Publish(context.Background(), events.OrderCreated, order))

	require.Len(t, queue.notify, 1)
	require.Equal(t, "ORDER_CREATED", queue.notify[0].Event)
	require.Equal(t, "Order ORD-ABCDE123456 received", queue.notify[0].Subject)
}

func TestStockChangeEnqueuesShopSync(t *testing.T) {
	bus := events.NewMemoryBus()
	queue := &fakeQueue{}
	Register(bus, slog.New(slog.NewTextHandler(io.Discard, nil)), queue)

	change := orders.StockChangedPayload{ProductID: 42, PreviousStock: 10, NewStock: 7}
	require.NoError(t, bus.Publish(context.Background(), events.ProductStockChanged, change))

	require.Len(t, queue.shopSync, 1)
	require.Equal(t, int64(42), queue.shopSync[0].ProductID)
	require.Equal(t, "PRODUCT_STOCK_CHANGED", queue.shopSync[0].Trigger)
}

func TestEnqueueFailureDoesNotPropagate(t *testing.T) {
	bus := events.NewMemoryBus()
	queue := &fakeQueue{fail: true}
	Register(bus, slog.New(slog.NewTextHandler(io.Discard, nil)), queue)

	err := bus.Publish(context.Background(), events.OrderCreated, &orders.Order{OrderNumber: "ORD-X"})
	require.NoError(t, err)
}

func TestNilQueueOnlyLogs(t *testing.T) {
	bus := events.NewMemoryBus()
	Register(bus, slog.New(slog.NewTextHandler(io.Discard, nil)), nil)

	err := bus.Publish(context.Background(), events.OrderCreated, &orders.Order{})
	require.NoError(t, err)
}
