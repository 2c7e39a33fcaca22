package pagination

// Params holds 1-indexed pagination parameters.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultPerPage is the storefront's fixed product grid page size.
const DefaultPerPage = 6

// New normalizes the given page and page size into Params.
// A page below 1 becomes 1; a page size below 1 becomes DefaultPerPage.
func New(page, perPage int) Params {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return Params{Page: page, PerPage: perPage}
}

// Result wraps one page of a larger collection.
type Result[T any] struct {
	Items      []T  `json:"items"`
	TotalCount int  `json:"total_count"`
	Page       int  `json:"page"`
	PerPage    int  `json:"per_page"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// Slice cuts the requested page out of items. Pages are 1-indexed and the
// page number is not clamped: a page past the end yields an empty Items slice
// with TotalPages still reflecting the full collection. Params are normalized
// the same way New normalizes them, so a zero value is safe.
func Slice[T any](items []T, params Params) Result[T] {
	params = New(params.Page, params.PerPage)
	totalCount := len(items)
	totalPages := totalCount / params.PerPage
	if totalCount%params.PerPage > 0 {
		totalPages++
	}

	start := (params.Page - 1) * params.PerPage
	end := start + params.PerPage
	page := []T{}
	if start < totalCount {
		if end > totalCount {
			end = totalCount
		}
		page = append(page, items[start:end]...)
	}

	return Result[T]{
		Items:      page,
		TotalCount: totalCount,
		Page:       params.Page,
		PerPage:    params.PerPage,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
