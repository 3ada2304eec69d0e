package leads

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lunaria-crm/lunaria/internal/events"
)

type memoryRepo struct {
	leads     map[int64]Lead
	customers map[int64]CustomerRecord
	nextLead  int64
	nextCust  int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{leads: make(map[int64]Lead), customers: make(map[int64]CustomerRecord)}
}

func (r *memoryRepo) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	return fn(ctx, r)
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (*Lead, error) {
	l, ok := r.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &l, nil
}

func (r *memoryRepo) List(ctx context.Context, req ListLeadsRequest) ([]Lead, int, error) {
	var out []Lead
	for _, l := range r.leads {
		out = append(out, l)
	}
	return out, len(out), nil
}

func (r *memoryRepo) Create(ctx context.Context, lead Lead) (int64, error) {
	r.nextLead++
	lead.ID = r.nextLead
	r.leads[lead.ID] = lead
	return lead.ID, nil
}

func (r *memoryRepo) Update(ctx context.Context, id int64, updates map[string]any) error {
	l, ok := r.leads[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["first_name"]; ok {
		s := v.(string)
		l.FirstName = &s
	}
	if v, ok := updates["last_name"]; ok {
		s := v.(string)
		l.LastName = &s
	}
	if v, ok := updates["name"]; ok {
		l.Name = v.(string)
	}
	if v, ok := updates["status"]; ok {
		l.Status = v.(Status)
	}
	if v, ok := updates["notes"]; ok {
		s := v.(string)
		l.Notes = &s
	}
	if v, ok := updates["converted_to_customer"]; ok {
		l.ConvertedToCustomer = v.(bool)
	}
	if v, ok := updates["converted_customer_id"]; ok {
		id := v.(int64)
		l.ConvertedCustomerID = &id
	}
	r.leads[id] = l
	return nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.leads[id]; !ok {
		return ErrNotFound
	}
	delete(r.leads, id)
	return nil
}

func (r *memoryRepo) InsertCustomer(ctx context.Context, customer CustomerRecord) (int64, error) {
	r.nextCust++
	customer.ID = r.nextCust
	r.customers[customer.ID] = customer
	return customer.ID, nil
}

func (r *memoryRepo) GetCustomer(ctx context.Context, id int64) (*CustomerRecord, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func strPtr(s string) *string { return &s }

func TestCreateDerivesDisplayName(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)
	ctx := context.Background()

	var published []events.Type
	bus.Subscribe(events.Any, func(ctx context.Context, evt events.Event) error {
		published = append(published, evt.Type)
		return nil
	})

	lead, err := svc.Create(ctx, CreateLeadRequest{FirstName: strPtr("Juan"), LastName: strPtr("Pérez")})
	require.NoError(t, err)
	require.Equal(t, "Juan Pérez", lead.Name)
	require.Equal(t, StatusNew, lead.Status)
	require.Equal(t, DefaultBrand, lead.Brand)
	require.Equal(t, []events.Type{events.LeadCreated}, published)
}

func TestConvertSplitsLegacyName(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, events.NewMemoryBus(), nil)
	ctx := context.Background()

	lead, err := svc.Create(ctx, CreateLeadRequest{Name: "John Doe", Email: strPtr("j@x.com")})
	require.NoError(t, err)

	converted, customer, err := svc.Convert(ctx, lead.ID)
	require.NoError(t, err)
	require.Equal(t, "John", *customer.FirstName)
	require.Equal(t, "Doe", *customer.LastName)
	require.Equal(t, "John Doe", customer.Name)
	require.Equal(t, "j@x.com", *customer.Email)
	require.True(t, converted.ConvertedToCustomer)
	require.Equal(t, StatusConverted, converted.Status)
	require.NotNil(t, converted.ConvertedCustomerID)
	require.Equal(t, customer.ID, *converted.ConvertedCustomerID)
}

func TestConvertIsIdempotent(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := NewService(repo, bus, nil)
	ctx := context.Background()

	var conversions int
	bus.Subscribe(events.LeadConverted, func(ctx context.Context, evt events.Event) error {
		conversions++
		return nil
	})

	lead, err := svc.Create(ctx, CreateLeadRequest{Name: "Jane Roe"})
	require.NoError(t, err)

	first, firstCustomer, err := svc.Convert(ctx, lead.ID)
	require.NoError(t, err)

	second, secondCustomer, err := svc.Convert(ctx, lead.ID)
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, firstCustomer.ID, secondCustomer.ID)
	require.Len(t, repo.customers, 1, "second conversion must not create another customer")
	require.Equal(t, 1, conversions, "LEAD_CONVERTED fires once")
}

func TestConvertAnnotatesBrandInterest(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, events.NewMemoryBus(), nil)
	ctx := context.Background()

	lead, err := svc.Create(ctx, CreateLeadRequest{
		Name:          "Ana Lima",
		BrandInterest: strPtr("winter collection"),
		Notes:         strPtr("met at trade show"),
	})
	require.NoError(t, err)

	_, customer, err := svc.Convert(ctx, lead.ID)
	require.NoError(t, err)
	require.NotNil(t, customer.Notes)
	require.Equal(t, "Brand interest: winter collection\nmet at trade show", *customer.Notes)
}

func TestConvertNotFound(t *testing.T) {
	svc := NewService(newMemoryRepo(), events.NewMemoryBus(), nil)
	_, _, err := svc.Convert(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(newMemoryRepo(), events.NewMemoryBus(), nil)
	bogus := Status("bogus")
	_, err := svc.Create(context.Background(), CreateLeadRequest{Name: "X", Status: &bogus})
	require.ErrorIs(t, err, ErrInvalidStatus)
}
