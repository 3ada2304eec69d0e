package activities

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lunaria-crm/lunaria/internal/events"
)

type memoryRepo struct {
	activities map[int64]*Activity
	nextID     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{activities: make(map[int64]*Activity), nextID: 1}
}

func (m *memoryRepo) Get(_ context.Context, id int64) (*Activity, error) {
	a, ok := m.activities[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *a
	return &clone, nil
}

func (m *memoryRepo) List(_ context.Context, req ListActivitiesRequest) ([]Activity, int, error) {
	var out []Activity
	for _, a := range m.activities {
		if req.Status != nil && string(a.Status) != *req.Status {
			continue
		}
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Create(_ context.Context, a Activity) (int64, error) {
	a.ID = m.nextID
	m.nextID++
	m.activities[a.ID] = &a
	return a.ID, nil
}

func (m *memoryRepo) Update(_ context.Context, id int64, updates map[string]any) error {
	a, ok := m.activities[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["kind"]; ok {
		a.Kind = Kind(v.(string))
	}
	if v, ok := updates["status"]; ok {
		a.Status = Status(v.(string))
	}
	if v, ok := updates["subject"]; ok {
		a.Subject = v.(string)
	}
	return nil
}

func (m *memoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.activities[id]; !ok {
		return ErrNotFound
	}
	delete(m.activities, id)
	return nil
}

func TestCreatePublishesEvent(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus)

	var seen []events.Event
	bus.Subscribe(events.ActivityCreated, func(_ context.Context, ev events.Event) error {
		seen = append(seen, ev)
		return nil
	})

	due := time.Now().Add(24 * time.Hour)
	created, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:    "call",
		Subject: "Follow up on robe order",
		DueAt:   &due,
	})
	require.NoError(t, err)
	require.Equal(t, StatusPending, created.Status)
	require.Len(t, seen, 1)
}

func TestCreateRejectsUnknownType(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, events.NewMemoryBus())

	_, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:    "carrier-pigeon",
		Subject: "Send sample",
	})
	require.ErrorIs(t, err, ErrInvalidType)
	require.Empty(t, repo.activities)
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, events.NewMemoryBus())

	created, err := svc.Create(context.Background(), CreateActivityRequest{
		Type:    "task",
		Subject: "Restock eye masks",
	})
	require.NoError(t, err)

	bogus := "snoozed"
	_, err = svc.Update(context.Background(), created.ID, UpdateActivityRequest{Status: &bogus})
	require.ErrorIs(t, err, ErrInvalidStatus)

	done := "done"
	updated, err := svc.Update(context.Background(), created.ID, UpdateActivityRequest{Status: &done})
	require.NoError(t, err)
	require.Equal(t, StatusDone, updated.Status)
}
