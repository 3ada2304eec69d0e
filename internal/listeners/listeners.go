// Package listeners wires the event bus to logging and background jobs.
// Handlers here never fail the publishing operation: enqueue errors are
// logged and swallowed so a Redis outage cannot roll back a committed write.
package listeners

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/lunaria-crm/lunaria/internal/events"
	"github.com/lunaria-crm/lunaria/internal/leads"
	"github.com/lunaria-crm/lunaria/internal/orders"
	"github.com/lunaria-crm/lunaria/jobs"
)

// TaskQueue is the slice of the jobs client the listeners need.
type TaskQueue interface {
	EnqueueNotify(ctx context.Context, payload jobs.NotifyPayload) (*asynq.TaskInfo, error)
	EnqueueShopSync(ctx context.Context, payload jobs.ShopSyncPayload) (*asynq.TaskInfo, error)
}

// Register subscribes the standard listeners. queue may be nil when running
// without a job backend; only the logging listener is attached then.
func Register(bus events.Bus, logger *slog.Logger, queue TaskQueue) {
	bus.Subscribe(events.Any, func(_ context.Context, ev events.Event) error {
		logger.Info("event", "id", ev.ID, "type", ev.Type)
		return nil
	})

	if queue == nil {
		return
	}

	notify := func(ctx context.Context, ev events.Event) error {
		payload := jobs.NotifyPayload{
			Event:     string(ev.Type),
			Subject:   notifySubject(ev),
			Reference: ev.ID,
		}
		if _, err := queue.EnqueueNotify(ctx, payload); err != nil {
			logger.Warn("notify enqueue failed", "event", ev.Type, "error", err)
		}
		return nil
	}
	bus.Subscribe(events.OrderCreated, notify)
	bus.Subscribe(events.LeadConverted, notify)

	shopSync := func(ctx context.Context, ev events.Event) error {
		payload := jobs.ShopSyncPayload{Trigger: string(ev.Type)}
		if change, ok := ev.Payload.(orders.StockChangedPayload); ok {
			payload.ProductID = change.ProductID
		}
		if _, err := queue.EnqueueShopSync(ctx, payload); err != nil {
			logger.Warn("shop sync enqueue failed", "event", ev.Type, "error", err)
		}
		return nil
	}
	bus.Subscribe(events.ProductStockChanged, shopSync)
	bus.Subscribe(events.ProductCreated, shopSync)
	bus.Subscribe(events.ProductUpdated, shopSync)
	bus.Subscribe(events.ProductDeleted, shopSync)
}

func notifySubject(ev events.Event) string {
	switch p := ev.Payload.(type) {
	case *orders.Order:
		return "Order " + p.OrderNumber + " received"
	case leads.ConvertedPayload:
		if p.Customer != nil {
			return "Welcome " + p.Customer.Name
		}
		return "Lead converted"
	default:
		return string(ev.Type)
	}
}
