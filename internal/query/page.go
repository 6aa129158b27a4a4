package query

import (
	"math"
	"strconv"
)

// MaxLimit bounds the page size accepted from clients.
const MaxLimit = 500

// Page is a 1-based page request.
type Page struct {
	Number int
	Limit  int
}

// ParsePage reads page and limit request parameters. Missing, malformed or
// non-positive values fall back to page 1 and defLimit.
func ParsePage(pageParam, limitParam string, defLimit int) Page {
	p := Page{Number: 1, Limit: defLimit}
	if n, err := strconv.Atoi(pageParam); err == nil && n > 0 {
		p.Number = n
	}
	if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
		p.Limit = l
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Offset saturates at math.MaxInt for pages too far out to address.
func (p Page) Offset() int {
	if p.Number <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Number - 1) * p.Limit
}

// Rank is the global 1-based position of the i-th row of this page.
func (p Page) Rank(i int) int {
	return p.Offset() + i + 1
}

// Slice returns the [start, end) bounds of the page within n items.
func (p Page) Slice(n int) (int, int) {
	start := min(max(p.Offset(), 0), n)
	end := n
	if p.Limit < n-start {
		end = start + max(p.Limit, 0)
	}
	return start, end
}

type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

func (p Page) Pagination(total int) Pagination {
	pages := 0
	if p.Limit > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{
		Page:       p.Number,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: pages,
	}
}
