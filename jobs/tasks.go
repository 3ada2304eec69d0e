package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeNotify is the task type for customer-facing notifications.
	TaskTypeNotify = "notify:send"
	// TaskTypeShopSync is the task type for pushing catalog state to the
	// storefront.
	TaskTypeShopSync = "shop:sync"
)

// NotifyPayload describes a notification triggered by an event listener.
type NotifyPayload struct {
	Event     string `json:"event"`
	Subject   string `json:"subject"`
	Reference string `json:"reference"`
}

// NewNotifyTask constructs an Asynq task.
func NewNotifyTask(payload NotifyPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeNotify, data), nil
}

// HandleNotifyTask processes TaskTypeNotify tasks.
func HandleNotifyTask(ctx context.Context, t *asynq.Task) error {
	var payload NotifyPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	// Placeholder: integrate with the mail provider once credentials land.
	fmt.Printf("[jobs] notify event=%s subject=%s ref=%s\n", payload.Event, payload.Subject, payload.Reference)
	return nil
}

// ShopSyncPayload describes a storefront sync request.
type ShopSyncPayload struct {
	Trigger   string `json:"trigger"`
	ProductID int64  `json:"product_id,omitempty"`
}

// NewShopSyncTask constructs an Asynq task.
func NewShopSyncTask(payload ShopSyncPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeShopSync, data), nil
}

// HandleShopSyncTask processes TaskTypeShopSync tasks. The actual storefront
// push is simulated; the commerce API client lives outside this service.
func HandleShopSyncTask(ctx context.Context, t *asynq.Task) error {
	var payload ShopSyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	fmt.Printf("[jobs] shop sync trigger=%s product_id=%d\n", payload.Trigger, payload.ProductID)
	return nil
}
