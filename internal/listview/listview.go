// Package listview is the pagination/search engine behind every console list
// screen. It holds no hidden state: the view is recomputed from (source,
// query, searchableKeys, pageSize, page) on every call, so the same inputs
// always produce the same output.
package listview

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultPageSize is used when a consumer does not configure one.
const DefaultPageSize = 10

// Controller filters and paginates an in-memory collection. It owns no I/O:
// consumers fetch the collection themselves and hand a fresh slice to
// SetSource after every external mutation.
type Controller[T any] struct {
	source          []T
	searchableKeys  []string
	initialPageSize int

	query    string
	pageSize int
	page     int
}

// View is one derived page of the collection.
type View[T any] struct {
	Items         []T
	Total         int
	TotalPages    int
	EffectivePage int
	PageSize      int
	Query         string
}

// NewController creates a controller over the given searchable field paths
// (dot notation; empty means "match against the whole serialized record").
// initialPageSize <= 0 falls back to DefaultPageSize.
func NewController[T any](searchableKeys []string, initialPageSize int) *Controller[T] {
	if initialPageSize <= 0 {
		initialPageSize = DefaultPageSize
	}
	return &Controller[T]{
		searchableKeys:  searchableKeys,
		initialPageSize: initialPageSize,
		pageSize:        initialPageSize,
		page:            1,
	}
}

// SetSource replaces the backing collection. The stored page is deliberately
// left alone; a now-stale page number is absorbed by EffectivePage.
func (c *Controller[T]) SetSource(items []T) { c.source = items }

// SetQuery replaces the search query. Never errors, even when the shrunken
// result set leaves the stored page out of range.
func (c *Controller[T]) SetQuery(q string) { c.query = q }

// SetPageSize replaces the page size; values below 1 are ignored.
func (c *Controller[T]) SetPageSize(n int) {
	if n >= 1 {
		c.pageSize = n
	}
}

// SetPage jumps to the given 1-based page; values below 1 clamp to 1.
func (c *Controller[T]) SetPage(n int) {
	if n < 1 {
		n = 1
	}
	c.page = n
}

// Next advances one page, clamped to the last page of the current view.
func (c *Controller[T]) Next() {
	v := c.View()
	if v.EffectivePage < v.TotalPages {
		c.page = v.EffectivePage + 1
	} else {
		c.page = v.TotalPages
	}
}

// Prev steps back one page, clamped to 1.
func (c *Controller[T]) Prev() {
	v := c.View()
	if v.EffectivePage > 1 {
		c.page = v.EffectivePage - 1
	} else {
		c.page = 1
	}
}

// Reset restores the empty query, page 1 and the configured initial page size.
func (c *Controller[T]) Reset() {
	c.query = ""
	c.page = 1
	c.pageSize = c.initialPageSize
}

// Query returns the current search query.
func (c *Controller[T]) Query() string { return c.query }

// Page returns the stored (possibly stale) 1-based page number.
func (c *Controller[T]) Page() int { return c.page }

// PageSize returns the current page size.
func (c *Controller[T]) PageSize() int { return c.pageSize }

// View derives the filtered, paginated slice from the current inputs.
func (c *Controller[T]) View() View[T] {
	filtered := c.filter()

	total := len(filtered)
	totalPages := (total + c.pageSize - 1) / c.pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	effective := c.page
	if effective > totalPages {
		effective = totalPages
	}
	if effective < 1 {
		effective = 1
	}

	start := (effective - 1) * c.pageSize
	end := start + c.pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return View[T]{
		Items:         filtered[start:end],
		Total:         total,
		TotalPages:    totalPages,
		EffectivePage: effective,
		PageSize:      c.pageSize,
		Query:         c.query,
	}
}

func (c *Controller[T]) filter() []T {
	if c.query == "" {
		return c.source
	}

	needle := strings.ToLower(c.query)
	out := make([]T, 0, len(c.source))
	for _, item := range c.source {
		if c.matches(item, needle) {
			out = append(out, item)
		}
	}
	return out
}

// matches checks the lowercased needle against each searchable key's resolved
// value; with no keys configured, the whole record's JSON form is searched.
func (c *Controller[T]) matches(item T, needle string) bool {
	if len(c.searchableKeys) == 0 {
		raw, err := json.Marshal(item)
		if err != nil {
			raw = []byte(fmt.Sprintf("%v", item))
		}
		return strings.Contains(strings.ToLower(string(raw)), needle)
	}
	for _, key := range c.searchableKeys {
		val, ok := resolvePath(item, key)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(val), needle) {
			return true
		}
	}
	return false
}
