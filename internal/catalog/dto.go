package catalog

type CreateProductRequest struct {
	CategoryID  *int64  `json:"category_id,omitempty"`
	Name        string  `json:"name" validate:"required,max=200"`
	SKU         *string `json:"sku,omitempty" validate:"omitempty,max=100"`
	Brand       string  `json:"brand,omitempty" validate:"omitempty,max=100"`
	Price       float64 `json:"price" validate:"gte=0"`
	Stock       int     `json:"stock" validate:"gte=0"`
	Description *string `json:"description,omitempty"`
}

type UpdateProductRequest struct {
	CategoryID  *int64   `json:"category_id,omitempty"`
	Name        *string  `json:"name,omitempty" validate:"omitempty,max=200"`
	SKU         *string  `json:"sku,omitempty" validate:"omitempty,max=100"`
	Brand       *string  `json:"brand,omitempty" validate:"omitempty,max=100"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gte=0"`
	Stock       *int     `json:"stock,omitempty" validate:"omitempty,gte=0"`
	Description *string  `json:"description,omitempty"`
}

type ListProductsRequest struct {
	CategoryID *int64  `json:"category_id,omitempty"`
	Brand      *string `json:"brand,omitempty"`
	Search     *string `json:"search,omitempty"`
	Limit      int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset     int     `json:"offset" validate:"gte=0"`
}

type ListProductsResponse struct {
	Products []Product `json:"products"`
	Total    int       `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

type CreateCategoryRequest struct {
	Name        string  `json:"name" validate:"required,max=200"`
	Description *string `json:"description,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Description *string `json:"description,omitempty"`
}
