package leads

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/lunaria-crm/lunaria/internal/events"
	"github.com/lunaria-crm/lunaria/internal/names"
	"github.com/lunaria-crm/lunaria/internal/shared"
)

// ErrInvalidStatus indicates a status value outside the pipeline enum.
var ErrInvalidStatus = errors.New("invalid lead status")

// AuditPort abstracts audit logging so tests can run without a database.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service owns lead CRUD and the conversion operation.
type Service struct {
	repo  Repository
	bus   events.Bus
	audit AuditPort
}

// NewService builds the Service. audit may be nil.
func NewService(repo Repository, bus events.Bus, audit AuditPort) *Service {
	return &Service{repo: repo, bus: bus, audit: audit}
}

// Create inserts a lead from intake. The display name is derived from the
// name parts when present.
func (s *Service) Create(ctx context.Context, req CreateLeadRequest) (*Lead, error) {
	status := StatusNew
	if req.Status != nil {
		if !req.Status.IsValid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
		}
		status = *req.Status
	}

	brand := req.Brand
	if brand == "" {
		brand = DefaultBrand
	}

	lead := Lead{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Name:          names.EnsureName(deref(req.FirstName), deref(req.LastName), req.Name),
		Email:         req.Email,
		Phone:         req.Phone,
		Status:        status,
		Source:        req.Source,
		Brand:         brand,
		BrandInterest: req.BrandInterest,
		Notes:         req.Notes,
	}

	id, err := s.repo.Create(ctx, lead)
	if err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}

	created, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload lead: %w", err)
	}

	if err := s.bus.Publish(ctx, events.LeadCreated, created); err != nil {
		return nil, err
	}
	return created, nil
}

// Update applies a partial update. Conversion markers are not reachable from
// the request type; once set they stay set.
func (s *Service) Update(ctx context.Context, id int64, req UpdateLeadRequest) (*Lead, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && !req.Status.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, *req.Status)
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
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.Source != nil {
		updates["source"] = *req.Source
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.BrandInterest != nil {
		updates["brand_interest"] = *req.BrandInterest
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("update lead: %w", err)
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, events.LeadUpdated, updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// Get returns a single lead.
func (s *Service) Get(ctx context.Context, id int64) (*Lead, error) {
	return s.repo.Get(ctx, id)
}

// List returns leads matching the filter plus the unfiltered total.
func (s *Service) List(ctx context.Context, req ListLeadsRequest) ([]Lead, int, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}
	return s.repo.List(ctx, req)
}

// Delete removes a lead. Converted leads keep their row through conversion,
// but explicit deletion remains available.
func (s *Service) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	return s.bus.Publish(ctx, events.LeadDeleted, existing)
}

// Convert turns a lead into a customer. Idempotent: a second call returns
// the stored pair without creating another customer. The customer insert and
// the lead update run in one transaction so a failure leaves no orphan row.
func (s *Service) Convert(ctx context.Context, id int64) (*Lead, *CustomerRecord, error) {
	lead, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if lead.ConvertedToCustomer && lead.ConvertedCustomerID != nil {
		customer, err := s.repo.GetCustomer(ctx, *lead.ConvertedCustomerID)
		if err != nil {
			return nil, nil, fmt.Errorf("load converted customer: %w", err)
		}
		return lead, customer, nil
	}

	first := deref(lead.FirstName)
	last := deref(lead.LastName)
	if first == "" && last == "" {
		first, last = names.Split(lead.Name)
	}

	notes := lead.Notes
	if lead.BrandInterest != nil && *lead.BrandInterest != "" {
		annotated := "Brand interest: " + *lead.BrandInterest
		if notes != nil && *notes != "" {
			annotated += "\n" + *notes
		}
		notes = &annotated
	}

	draft := CustomerRecord{
		FirstName: optional(first),
		LastName:  optional(last),
		Name:      names.FullName(first, last),
		Email:     lead.Email,
		Phone:     lead.Phone,
		Brand:     lead.Brand,
		Source:    lead.Source,
		Notes:     notes,
	}

	var customerID int64
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx Repository) error {
		var err error
		customerID, err = tx.InsertCustomer(ctx, draft)
		if err != nil {
			return fmt.Errorf("insert customer: %w", err)
		}
		return tx.Update(ctx, id, map[string]any{
			"status":                StatusConverted,
			"converted_to_customer": true,
			"converted_customer_id": customerID,
		})
	})
	if err != nil {
		return nil, nil, fmt.Errorf("convert lead: %w", err)
	}

	converted, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	customer, err := s.repo.GetCustomer(ctx, customerID)
	if err != nil {
		return nil, nil, err
	}

	if s.audit != nil {
		_ = s.audit.Record(ctx, shared.AuditLog{
			Action:   "lead:convert",
			Entity:   "lead",
			EntityID: strconv.FormatInt(id, 10),
			Meta: map[string]any{
				"customer_id": customerID,
				"brand":       converted.Brand,
			},
		})
	}

	if err := s.bus.Publish(ctx, events.LeadConverted, ConvertedPayload{Lead: converted, Customer: customer}); err != nil {
		return nil, nil, err
	}
	return converted, customer, nil
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
