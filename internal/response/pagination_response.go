package response

type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int64 `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	HasMore    bool  `json:"has_more"`
	From       int   `json:"from"`
	To         int   `json:"to"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// NewPagination normalizes page and pageSize and fills the derived fields.
// itemsOnPage is the number of rows actually returned for the page.
func NewPagination(page, pageSize int, totalItems int64, itemsOnPage int) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	totalPages := totalItems / int64(pageSize)
	if totalItems%int64(pageSize) != 0 {
		totalPages++
	}

	p := &Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: totalItems,
		HasMore:    int64(page) < totalPages,
	}
	if itemsOnPage > 0 {
		p.From = (page-1)*pageSize + 1
		p.To = p.From + itemsOnPage - 1
	}
	return p
}

// Offset is the number of rows to skip for the normalized page.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}
