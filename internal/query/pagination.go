package query

// Pagination is the pagination block of every list response.
type Pagination struct {
	CurrentPage  int   `json:"current_page"`
	TotalPages   int   `json:"total_pages"`
	TotalItems   int64 `json:"total_items"`
	ItemsPerPage int   `json:"items_per_page"`
	HasNext      bool  `json:"has_next"`
	HasPrev      bool  `json:"has_prev"`
}

// Page is one window of a filtered list.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// CalculateTotalPages returns ceil(total/perPage), never less than 1.
func CalculateTotalPages(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// NewPagination describes page (1-based) of size limit over total rows. A page
// past the end is reported as-is with HasNext=false.
func NewPagination(page, limit int, total int64) Pagination {
	if page < 1 {
		page = 1
	}
	pages := CalculateTotalPages(total, limit)
	return Pagination{
		CurrentPage:  page,
		TotalPages:   pages,
		TotalItems:   total,
		ItemsPerPage: limit,
		HasNext:      page < pages,
		HasPrev:      page > 1,
	}
}
