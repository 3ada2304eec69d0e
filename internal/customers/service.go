package customers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/lunaria-crm/lunaria/internal/events"
	"github.com/lunaria-crm/lunaria/internal/names"
	"github.com/lunaria-crm/lunaria/internal/shared"
)

// DefaultBrand is applied when creation omits the brand.
const DefaultBrand = "sleepwear"

// AuditPort abstracts audit logging so tests can run without a database.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns customer CRUD and the reverse conversion.
type Service struct {
	repo  Repository
	bus   events.Bus
	audit AuditPort
}

// NewService builds the Service. audit may be nil.
func NewService(repo Repository, bus events.Bus, audit AuditPort) *Service {
	return &Service{repo: repo, bus: bus, audit: audit}
}

// Create inserts a customer directly, without going through a lead.
func (s *Service) Create(ctx context.Context, req CreateCustomerRequest) (*Customer, error) {
	brand := req.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	customer := Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Name:      names.EnsureName(deref(req.FirstName), deref(req.LastName), req.Name),
		Email:     req.Email,
		Phone:     req.Phone,
		Brand:     brand,
		Source:    req.Source,
		Notes:     req.Notes,
	}

	id, err := s.repo.Create(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("create customer: %w", err)
	}

	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload customer: %w", err)
	}
	if err := s.bus.Publish(ctx, events.CustomerCreated, created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies a partial update, recomputing the display name when a name
// part changes.
func (s *Service) Update(ctx context.Context, id int64, req UpdateCustomerRequest) (*Customer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	first := deref(existing.FirstName)
	last := deref(existing.LastName)
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
		first = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
		last = *req.LastName
	}
	if req.FirstName != nil || req.LastName != nil {
		updates["name"] = names.EnsureName(first, last, existing.Name)
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Source != nil {
		updates["source"] = *req.Source
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update customer: %w", err)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, events.CustomerUpdated, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns a single customer.
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

// List returns customers matching the filter plus the unfiltered total.
func (s *Service) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// Delete removes a customer unless the removal policy blocks it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ensureRemovable(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer: %w", err)
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "customer:delete",
			Entity:   "customer",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"name": existing.Name},
		})
	}
	return s.bus.Publish(ctx, events.CustomerDeleted, existing)
}

// ConvertToLead turns a customer back into a lead with status new, removing
// the customer row. The lead insert and the customer delete run in one
// transaction. The removal policy applies here exactly as it does to Delete.
func (s *Service) ConvertToLead(ctx context.Context, id int64) (*LeadRecord, error) {
	customer, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureRemovable(ctx, id); err != nil {
		return nil, err
	}

	first := deref(customer.FirstName)
	last := deref(customer.LastName)
	if first == "" && last == "" {
		first, last = names.Split(customer.Name)
	}
	if first == "" {
		first = fallbackFirstName
	}

	draft := LeadRecord{
		FirstName: &first,
		LastName:  optional(last),
		Name:      names.FullName(first, last),
		Email:     customer.Email,
		Phone:     customer.Phone,
		Status:    "new",
		Source:    customer.Source,
		Brand:     customer.Brand,
		Notes:     customer.Notes,
	}

	var leadID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		var err error
		leadID, err = tx.InsertLead(ctx, draft)
		if err != nil {
			return fmt.Errorf("insert lead: %w", err)
		}
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return nil, fmt.Errorf("convert customer to lead: %w", err)
	}

	lead, err := s.repo.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "customer:convert_to_lead",
			Entity:   "customer",
			EntityID: strconv.FormatInt(id, 10),
			Meta:     map[string]any{"lead_id": leadID},
		})
	}

	if err := s.bus.Publish(ctx, events.CustomerDeleted, customer); err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, events.LeadCreated, lead); err != nil {
		return nil, err
	}
	return lead, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
