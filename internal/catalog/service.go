package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lunaria-crm/lunaria/internal/events"
)

const defaultBrand = "sleepwear"

// Service owns catalog CRUD and keeps the listing cache coherent.
type Service struct {
	repo   Repository
	bus    events.Bus
	cache  *Cache
	logger *slog.Logger
}

// NewService builds the Service. cache may be nil for a cache-less setup.
func NewService(repo Repository, bus events.Bus, cache *Cache, logger *slog.Logger) *Service {
	return &Service{repo: repo, bus: bus, cache: cache, logger: logger}
}

// SubscribeInvalidation bumps the cache version whenever any catalog or stock
// event fires, including stock decrements published by order creation.
func (s *Service) SubscribeInvalidation(bus events.Bus) {
	invalidate := func(ctx context.Context, ev events.Event) error {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("catalog cache bump failed", "event", ev.Type, "error", err)
		}
		return nil
	}
	for _, t := range []events.Type{
		events.ProductCreated,
		events.ProductUpdated,
		events.ProductDeleted,
		events.ProductStockChanged,
	} {
		bus.Subscribe(t, invalidate)
	}
}

// CreateProduct inserts a product and publishes PRODUCT_CREATED.
func (s *Service) CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error) {
	brand := req.Brand
	if brand == "" {
		brand = defaultBrand
	}
	id, err := s.repo.CreateProduct(ctx, Product{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		SKU:         req.SKU,
		Brand:       brand,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.bus.Publish(ctx, events.ProductCreated, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetProduct returns a single product.
func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	return s.repo.GetProduct(ctx, id)
}

// ListProducts serves listings through the versioned cache.
func (s *Service) ListProducts(ctx context.Context, req ListProductsRequest) (*ListProductsResponse, error) {
	if req.Limit <= 0 {
		req.Limit = 50
	}

	key, err := s.cache.BuildKey(ctx, "catalog", "products", listCacheKey(req))
	if err != nil {
		return nil, err
	}

	var resp ListProductsResponse
	err = s.cache.FetchJSON(ctx, key, &resp, func(ctx context.Context) (any, error) {
		products, total, err := s.repo.ListProducts(ctx, req)
		if err != nil {
			return nil, err
		}
		if products == nil {
			products = []Product{}
		}
		return ListProductsResponse{
			Products: products,
			Total:    total,
			Limit:    req.Limit,
			Offset:   req.Offset,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProduct applies a partial update and publishes PRODUCT_UPDATED.
func (s *Service) UpdateProduct(ctx context.Context, id int64, req UpdateProductRequest) (*Product, error) {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.SKU != nil {
		updates["sku"] = *req.SKU
	}
	if req.Brand != nil {
		updates["brand"] = *req.Brand
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Stock != nil {
		updates["stock"] = *req.Stock
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) == 0 {
		return existing, nil
	}

	if err := s.repo.UpdateProduct(ctx, id, updates); err != nil {
		return nil, err
	}
	updated, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.bus.Publish(ctx, events.ProductUpdated, updated); err != nil {
		return nil, err
	}
	if req.Stock != nil && *req.Stock != existing.Stock {
		err := s.bus.Publish(ctx, events.ProductStockChanged, map[string]any{
			"product_id":     id,
			"product_name":   updated.Name,
			"previous_stock": existing.Stock,
			"new_stock":      *req.Stock,
			"reason":         "manual adjustment",
		})
		if err != nil {
			return nil, err
		}
	}
	return updated, nil
}

// DeleteProduct removes a product; existing order items keep their snapshot.
func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	return s.bus.Publish(ctx, events.ProductDeleted, product)
}

// CreateCategory inserts a category.
func (s *Service) CreateCategory(ctx context.Context, req CreateCategoryRequest) (*Category, error) {
	id, err := s.repo.CreateCategory(ctx, Category{Name: req.Name, Description: req.Description})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return s.repo.GetCategory(ctx, id)
}

// GetCategory returns a single category.
func (s *Service) GetCategory(ctx context.Context, id int64) (*Category, error) {
	return s.repo.GetCategory(ctx, id)
}

// ListCategories returns all categories.
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

// UpdateCategory applies a partial update.
func (s *Service) UpdateCategory(ctx context.Context, id int64, req UpdateCategoryRequest) (*Category, error) {
	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if len(updates) > 0 {
		if err := s.repo.UpdateCategory(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetCategory(ctx, id)
}

// DeleteCategory removes a category.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if _, err := s.repo.GetCategory(ctx, id); err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, id)
}

func listCacheKey(req ListProductsRequest) string {
	category := "all"
	if req.CategoryID != nil {
		category = strconv.FormatInt(*req.CategoryID, 10)
	}
	brand := "all"
	if req.Brand != nil && *req.Brand != "" {
		brand = *req.Brand
	}
	search := ""
	if req.Search != nil {
		search = *req.Search
	}
	return fmt.Sprintf("%s:%s:%s:%d:%d", category, brand, search, req.Limit, req.Offset)
}
