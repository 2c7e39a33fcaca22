package catalog

import (
	"sort"
	"strings"

	"github.com/utafrali/storefront/pkg/pagination"
)

// Query holds the parameters of a derived catalog view.
type Query struct {
	// Search matches case-insensitively against product name or description.
	Search string
	// Category, when set, must equal the product category exactly.
	Category string
	// Sort is one of the Sort* constants; empty means SortNone.
	Sort string
	// Page is 1-indexed; values below 1 are treated as page 1.
	Page int
	// PageSize defaults to pagination.DefaultPerPage when below 1.
	PageSize int
}

// Result is one page of a filtered, sorted catalog view.
type Result = pagination.Result[Product]

// View computes a filtered, sorted, paginated view over the given catalog.
// It is pure: for a fixed catalog and query the output is identical on every
// call, and the input slice is never modified.
func View(products []Product, q Query) Result {
	filtered := filter(products, q)
	sortProducts(filtered, q.Sort)
	return pagination.Slice(filtered, pagination.New(q.Page, q.PageSize))
}

func filter(products []Product, q Query) []Product {
	search := strings.ToLower(q.Search)

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sortProducts(products []Product, key string) {
	switch key {
	case SortPriceAscending:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceCents < products[j].PriceCents
		})
	case SortPriceDescending:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].PriceCents > products[j].PriceCents
		})
	case SortCategoryThenName:
		sort.SliceStable(products, func(i, j int) bool {
			if products[i].Category != products[j].Category {
				return products[i].Category < products[j].Category
			}
			return products[i].Name < products[j].Name
		})
	case SortSoldDescending:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].SoldCount > products[j].SoldCount
		})
	default:
		// SortNone and unknown keys preserve catalog order.
	}
}
