package pagination

import (
	"fmt"
	"strings"
)

const (
	// DefaultPage is used when the caller omits page or sends a value below 1.
	DefaultPage = 1
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 10
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100

	SortAsc  = "asc"
	SortDesc = "desc"
)

// Params holds page/limit/sort inputs from controllers.
type Params struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Sortable maps the public sort keys of a resource to their SQL columns.
type Sortable struct {
	Columns map[string]string
	Default string
}

// Meta is returned next to every paginated result set.
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// Page wraps one page of rows with its metadata.
type Page[T any] struct {
	Data []T  `json:"data"`
	Meta Meta `json:"meta"`
}

// NormalizeLimit enforces the default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// Normalize applies defaults and validates the sort inputs against the
// resource's sortable columns. Unknown sort keys are rejected.
func (p Params) Normalize(sortable Sortable) (Params, error) {
	out := p
	if out.Page < 1 {
		out.Page = DefaultPage
	}
	out.Limit = NormalizeLimit(out.Limit)

	out.SortBy = strings.TrimSpace(out.SortBy)
	if out.SortBy == "" {
		out.SortBy = sortable.Default
	}
	if _, ok := sortable.Columns[out.SortBy]; !ok {
		return Params{}, fmt.Errorf("unsupported sortBy %q", p.SortBy)
	}

	switch strings.ToLower(strings.TrimSpace(out.SortOrder)) {
	case "":
		out.SortOrder = SortDesc
	case SortAsc:
		out.SortOrder = SortAsc
	case SortDesc:
		out.SortOrder = SortDesc
	default:
		return Params{}, fmt.Errorf("unsupported sortOrder %q", p.SortOrder)
	}
	return out, nil
}

// Offset returns the number of rows to skip.
func (p Params) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * NormalizeLimit(p.Limit)
}

// OrderClause renders the ORDER BY expression for a normalized Params. A
// secondary id ordering keeps pages stable when the sort column has ties.
func (p Params) OrderClause(sortable Sortable) string {
	column, ok := sortable.Columns[p.SortBy]
	if !ok {
		column = sortable.Columns[sortable.Default]
	}
	direction := SortDesc
	if p.SortOrder == SortAsc {
		direction = SortAsc
	}
	return fmt.Sprintf("%s %s, id %s", column, direction, direction)
}

// TotalPages computes the number of pages needed for total rows.
func TotalPages(total int64, limit int) int {
	limit = NormalizeLimit(limit)
	if total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// NewPage wraps rows and total into a Page using the normalized params.
func NewPage[T any](rows []T, total int64, p Params) Page[T] {
	if rows == nil {
		rows = []T{}
	}
	limit := NormalizeLimit(p.Limit)
	page := p.Page
	if page < 1 {
		page = DefaultPage
	}
	return Page[T]{
		Data: rows,
		Meta: Meta{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: TotalPages(total, limit),
		},
	}
}
