package community

// Pager is the inbound page/limit pair. Zero values fall back to the
// defaults the caller picked at construction.
type Pager struct {
	Page  int
	Limit int
}

// NewPager clamps page and limit into sane bounds. Page floors at 1,
// limit falls back to def and caps at 100.
func NewPager(page, limit, def int) Pager {
	if def <= 0 {
		def = 10
	}
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = def
	}
	if limit > 100 {
		limit = 100
	}
	return Pager{Page: page, Limit: limit}
}

// Offset converts the 1-based page into a row offset.
func (p Pager) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Pagination is the outbound envelope alongside listed items.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Paginate computes the response envelope for a total row count.
// Pages is ceil(total/limit).
func (p Pager) Paginate(total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:  p.Page,
		Limit: p.Limit,
		Total: total,
		Pages: pages,
	}
}
