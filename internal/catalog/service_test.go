package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/lunaria-crm/lunaria/internal/events"
)

type memoryRepo struct {
	products   map[int64]*Product
	categories map[int64]*Category
	listCalls  int
	nextID     int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{
		products:   make(map[int64]*Product),
		categories: make(map[int64]*Category),
		nextID:     1,
	}
}

func (m *memoryRepo) GetProduct(_ context.Context, id int64) (*Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *memoryRepo) ListProducts(_ context.Context, _ ListProductsRequest) ([]Product, int, error) {
	m.listCalls++
	var out []Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, len(out), nil
}

func (m *memoryRepo) CreateProduct(_ context.Context, p Product) (int64, error) {
	p.ID = m.nextID
	m.nextID++
	m.products[p.ID] = &p
	return p.ID, nil
}

func (m *memoryRepo) UpdateProduct(_ context.Context, id int64, updates map[string]any) error {
	p, ok := m.products[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		p.Name = v.(string)
	}
	if v, ok := updates["price"]; ok {
		p.Price = v.(float64)
	}
	if v, ok := updates["stock"]; ok {
		p.Stock = v.(int)
	}
	return nil
}

func (m *memoryRepo) DeleteProduct(_ context.Context, id int64) error {
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memoryRepo) GetCategory(_ context.Context, id int64) (*Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (m *memoryRepo) ListCategories(_ context.Context) ([]Category, error) {
	var out []Category
	for _, c := range m.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (m *memoryRepo) CreateCategory(_ context.Context, c Category) (int64, error) {
	c.ID = m.nextID
	m.nextID++
	m.categories[c.ID] = &c
	return c.ID, nil
}

func (m *memoryRepo) UpdateCategory(_ context.Context, id int64, updates map[string]any) error {
	c, ok := m.categories[id]
	if !ok {
		return ErrCategoryNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	return nil
}

func (m *memoryRepo) DeleteCategory(_ context.Context, id int64) error {
	if _, ok := m.categories[id]; !ok {
		return ErrCategoryNotFound
	}
	delete(m.categories, id)
	return nil
}

func newTestService(t *testing.T, repo Repository, bus events.Bus) *Service {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	svc := NewService(repo, bus, cache, slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc.SubscribeInvalidation(bus)
	return svc
}

func TestListProductsServedFromCache(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := newTestService(t, repo, bus)
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Silk Robe", Price: 89, Stock: 5})
	require.NoError(t, err)

	repo.listCalls = 0
	_, err = svc.ListProducts(ctx, ListProductsRequest{})
	require.NoError(t, err)
	_, err = svc.ListProducts(ctx, ListProductsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, repo.listCalls)
}

func TestProductWriteInvalidatesListings(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := newTestService(t, repo, bus)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Eye Mask", Price: 15, Stock: 3})
	require.NoError(t, err)

	first, err := svc.ListProducts(ctx, ListProductsRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, first.Total)

	name := "Weighted Eye Mask"
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	second, err := svc.ListProducts(ctx, ListProductsRequest{})
	require.NoError(t, err)
	require.Equal(t, "Weighted Eye Mask", second.Products[0].Name)
}

func TestStockChangeEventInvalidatesListings(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := newTestService(t, repo, bus)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Slippers", Price: 25, Stock: 10})
	require.NoError(t, err)

	_, err = svc.ListProducts(ctx, ListProductsRequest{})
	require.NoError(t, err)

	// Order creation publishes this after decrementing stock.
	repo.products[created.ID].Stock = 7
	require.NoError(t, bus.Publish(ctx, events.ProductStockChanged, nil))

	listed, err := svc.ListProducts(ctx, ListProductsRequest{})
	require.NoError(t, err)
	require.Equal(t, 7, listed.Products[0].Stock)
}

func TestManualStockAdjustmentPublishesChange(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := newTestService(t, repo, bus)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, CreateProductRequest{Name: "Robe", Price: 60, Stock: 4})
	require.NoError(t, err)

	var stockEvents []events.Event
	bus.Subscribe(events.ProductStockChanged, func(_ context.Context, ev events.Event) error {
		stockEvents = append(stockEvents, ev)
		return nil
	})

	stock := 9
	_, err = svc.UpdateProduct(ctx, created.ID, UpdateProductRequest{Stock: &stock})
	require.NoError(t, err)
	require.Len(t, stockEvents, 1)
}

func TestDefaultBrandApplied(t *testing.T) {
	repo := newMemoryRepo()
	bus := events.NewMemoryBus()
	svc := newTestService(t, repo, bus)

	created, err := svc.CreateProduct(context.Background(), CreateProductRequest{Name: "Pillow Mist", Price: 12, Stock: 20})
	require.NoError(t, err)
	require.Equal(t, "sleepwear", created.Brand)
}
