// Package catalog provides products and product categories, with a versioned
// Redis read-through cache over product listings.
package catalog

import "time"

// Product is a sellable item carrying the stock counter decremented by
// order creation.
type Product struct {
	ID          int64     `json:"id" db:"id"`
	CategoryID  *int64    `json:"category_id,omitempty" db:"category_id"`
	Name        string    `json:"name" db:"name"`
	SKU         *string   `json:"sku,omitempty" db:"sku"`
	Brand       string    `json:"brand" db:"brand"`
	Price       float64   `json:"price" db:"price"`
	Stock       int       `json:"stock" db:"stock"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Category groups products for storefront navigation.
type Category struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
