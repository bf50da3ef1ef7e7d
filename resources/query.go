package resources

import (
	"net/url"
	"strconv"
	"strings"
)

const DefaultPageSize = 10

// ColumnFilter narrows a list on one column, sent as <ID>=<Value>
type ColumnFilter struct {
	ID    string
	Value string
}

type Sort struct {
	ID   string
	Desc bool
}

// ListParams is the table state of a list view
type ListParams struct {
	PageIndex int // zero-based
	PageSize  int
	Search    string
	Filters   []ColumnFilter
	Sorting   []Sort
}

// Values encodes p the way the backend's list endpoints expect: search,
// one entry per column filter, a one-based page, page_size, and ordering as
// a comma-joined list with "-" marking descending columns.
func (p ListParams) Values() url.Values {
	v := url.Values{}
	if p.Search != "" {
		v.Set("search", p.Search)
	}
	for _, f := range p.Filters {
		if f.ID == "" {
			continue
		}
		v.Add(f.ID, f.Value)
	}

	pageIndex := p.PageIndex
	if pageIndex < 0 {
		pageIndex = 0
	}
	pageSize := p.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	v.Set("page", strconv.Itoa(pageIndex+1))
	v.Set("page_size", strconv.Itoa(pageSize))

	if ordering := p.Ordering(); ordering != "" {
		v.Set("ordering", ordering)
	}
	return v
}

func (p ListParams) Ordering() string {
	parts := make([]string, 0, len(p.Sorting))
	for _, s := range p.Sorting {
		if s.ID == "" {
			continue
		}
		if s.Desc {
			parts = append(parts, "-"+s.ID)
		} else {
			parts = append(parts, s.ID)
		}
	}
	return strings.Join(parts, ",")
}

// ParseOrdering is the inverse of Ordering, for reading table state back from a URL
func ParseOrdering(ordering string) []Sort {
	var sorts []Sort
	for _, part := range strings.Split(ordering, ",") {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		if strings.HasPrefix(part, "-") {
			sorts = append(sorts, Sort{ID: part[1:], Desc: true})
		} else {
			sorts = append(sorts, Sort{ID: part})
		}
	}
	return sorts
}

// ParseListParams reads table state from console query parameters, treating
// every parameter it does not know as a column filter.
func ParseListParams(q url.Values) ListParams {
	p := ListParams{
		Search:  q.Get("search"),
		Sorting: ParseOrdering(q.Get("ordering")),
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 0 {
		p.PageIndex = page - 1
	}
	if size, err := strconv.Atoi(q.Get("page_size")); err == nil && size > 0 {
		p.PageSize = size
	}

	for key, values := range q {
		switch key {
		case "search", "ordering", "page", "page_size":
			continue
		}
		for _, value := range values {
			if value != "" {
				p.Filters = append(p.Filters, ColumnFilter{ID: key, Value: value})
			}
		}
	}
	return p
}
