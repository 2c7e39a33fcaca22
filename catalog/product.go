package catalog

import (
	"time"
)

// Product represents a product in the catalog.
// Description carries rich-text markup and is opaque to the store.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	PriceCents  int64     `json:"price_cents"`
	Image       string    `json:"image"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	SoldCount   int       `json:"sold_count"`
}

// CreateProductInput holds the parameters for adding a product.
// The id, slug and creation timestamp are assigned by the store, never by the caller.
type CreateProductInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	PriceCents  int64  `json:"price_cents" validate:"gte=0"`
	Image       string `json:"image" validate:"required"`
	Category    string `json:"category" validate:"required"`
}

// Sort key constants for derived catalog views.
const (
	SortNone             = "none"
	SortPriceAscending   = "price_ascending"
	SortPriceDescending  = "price_descending"
	SortCategoryThenName = "category_then_name"
	SortSoldDescending   = "sold_descending"
)

// ValidSortKeys returns the set of valid sort keys.
func ValidSortKeys() []string {
	return []string{SortNone, SortPriceAscending, SortPriceDescending, SortCategoryThenName, SortSoldDescending}
}

// IsValidSortKey checks whether the given sort key is valid.
// The empty string is accepted as SortNone.
func IsValidSortKey(key string) bool {
	if key == "" {
		return true
	}
	for _, k := range ValidSortKeys() {
		if k == key {
			return true
		}
	}
	return false
}
