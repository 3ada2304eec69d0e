package activities

import (
	"context"
	"errors"
	"fmt"

	"github.com/lunaria-crm/lunaria/internal/events"
)

// ErrInvalidType indicates an activity type outside the allow-list.
var ErrInvalidType = errors.New("invalid activity type")

// ErrInvalidStatus indicates an activity status outside the allow-list.
var ErrInvalidStatus = errors.New("invalid activity status")

// Service owns activity CRUD.
type Service struct {
	repo Repository
	bus  events.Bus
}

// NewService builds the Service.
func NewService(repo Repository, bus events.Bus) *Service {
	return &Service{repo: repo, bus: bus}
}

// Create schedules an activity and publishes ACTIVITY_CREATED.
func (s *Service) Create(ctx context.Context, req CreateActivityRequest) (*Activity, error) {
	kind := Kind(req.Type)
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, req.Type)
	}

	id, err := s.repo.Create(ctx, Activity{
		Kind:       kind,
		Subject:    req.Subject,
		Notes:      req.Notes,
		DueAt:      req.DueAt,
		Status:     StatusPending,
		LeadID:     req.LeadID,
		CustomerID: req.CustomerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}

	activity, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, events.ActivityCreated, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

// Get returns a single activity.
func (s *Service) Get(ctx context.Context, id int64) (*Activity, error) {
	return s.repo.Get(ctx, id)
}

// List returns activities matching the filter plus the unfiltered total.
func (s *Service) List(ctx context.Context, req ListActivitiesRequest) ([]Activity, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// Update applies a partial update, validating enum fields.
func (s *Service) Update(ctx context.Context, id int64, req UpdateActivityRequest) (*Activity, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Type != nil {
		kind := Kind(*req.Type)
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidType, *req.Type)
		}
		updates["kind"] = string(kind)
	}
	if req.Status != nil {
		status := Status(*req.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, *req.Status)
		}
		updates["status"] = string(status)
	}
	if req.Subject != nil {
		updates["subject"] = *req.Subject
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.DueAt != nil {
		updates["due_at"] = *req.DueAt
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.Get(ctx, id)
}

// Delete removes an activity.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
