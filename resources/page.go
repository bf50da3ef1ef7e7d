package resources

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is one page of a list. Count is the total across all pages.
type Page[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// UnmarshalJSON accepts both a bare array, whose length is the count, and the
// paginated {"results": [...], "count": n} envelope.
func (p *Page[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*p = Page[T]{}
		return nil
	}

	if trimmed[0] == '[' {
		var results []T
		if err := json.Unmarshal(trimmed, &results); err != nil {
			return err
		}
		*p = Page[T]{Results: results, Count: len(results)}
		return nil
	}

	var envelope struct {
		Results *[]T `json:"results"`
		Count   *int `json:"count"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return err
	}
	if envelope.Results == nil || envelope.Count == nil {
		return fmt.Errorf("list response is neither an array nor a results/count envelope")
	}
	*p = Page[T]{Results: *envelope.Results, Count: *envelope.Count}
	return nil
}

// Pages is the number of pages of size pageSize needed to hold Count rows
func (p Page[T]) Pages(pageSize int) int {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if p.Count == 0 {
		return 1
	}
	return (p.Count + pageSize - 1) / pageSize
}
