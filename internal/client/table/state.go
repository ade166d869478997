package table

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// SortDirection is the tri-state sort order of a view.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// ParseSortDirection accepts "asc", "desc" and "none" in any case.
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	case "", "none":
		return SortNone, nil
	}
	return SortNone, fmt.Errorf("unknown sort direction %q", s)
}

// AllFilterValue disables a column filter.
const AllFilterValue = "all"

// DefaultPageSize is used when a State is created without a valid size.
const DefaultPageSize = 10

// PageSizeOptions are the page sizes offered to users.
var PageSizeOptions = []int{5, 10, 25, 50}

// State is the user-controlled part of a view. The owner keeps it between
// calls to Process and mutates it only through its methods, which keep
// SortColumn and SortDirection consistent and reset the page where needed.
type State struct {
	SearchQuery   string
	Filters       map[string]string
	SortColumn    string
	SortDirection SortDirection
	CurrentPage   int
	PageSize      int
}

// NewState returns an unsorted, unfiltered state on page 1.
func NewState(pageSize int) State {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return State{
		Filters:     map[string]string{},
		CurrentPage: 1,
		PageSize:    pageSize,
	}
}

// ToggleSort cycles the sort on column: none, ascending, descending, none.
// Selecting another column starts again at ascending.
func (s *State) ToggleSort(column string) {
	if column == "" {
		s.SortColumn, s.SortDirection = "", SortNone
		return
	}
	if s.SortColumn != column {
		s.SortColumn, s.SortDirection = column, SortAscending
		return
	}
	switch s.SortDirection {
	case SortAscending:
		s.SortDirection = SortDescending
	case SortDescending:
		s.SortColumn, s.SortDirection = "", SortNone
	default:
		s.SortDirection = SortAscending
	}
}

// SetSort sets column and direction explicitly. An empty column or SortNone
// clears the sort.
func (s *State) SetSort(column string, dir SortDirection) {
	if column == "" || dir == SortNone {
		s.SortColumn, s.SortDirection = "", SortNone
		return
	}
	s.SortColumn, s.SortDirection = column, dir
}

// SetSearch replaces the search query and returns to the first page.
func (s *State) SetSearch(query string) {
	s.SearchQuery = query
	s.CurrentPage = 1
}

// SetFilter sets the filter for key and returns to the first page. An empty
// value or AllFilterValue removes the filter.
func (s *State) SetFilter(key, value string) {
	if s.Filters == nil {
		s.Filters = map[string]string{}
	}
	if value == "" || value == AllFilterValue {
		delete(s.Filters, key)
	} else {
		s.Filters[key] = value
	}
	s.CurrentPage = 1
}

// ClearFilters drops every column filter and returns to the first page.
func (s *State) ClearFilters() {
	clear(s.Filters)
	s.CurrentPage = 1
}

// SetPage moves to page. Values below 1 select the first page.
func (s *State) SetPage(page int) {
	s.CurrentPage = max(page, 1)
}

// SetPageSize changes the page size and returns to the first page.
func (s *State) SetPageSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("page size must be positive, got %d", size)
	}
	s.PageSize = size
	s.CurrentPage = 1
	return nil
}

// Clamp keeps CurrentPage within [1, totalPages] and reports whether it
// changed. With no pages the current page becomes 1.
func (s *State) Clamp(totalPages int) bool {
	page := s.CurrentPage
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	changed := page != s.CurrentPage
	s.CurrentPage = page
	return changed
}

// Clone returns a copy that shares no maps with s.
func (s State) Clone() State {
	s.Filters = maps.Clone(s.Filters)
	return s
}

// FilterKeys returns the active filter keys in sorted order.
func (s State) FilterKeys() []string {
	return slices.Sorted(maps.Keys(s.Filters))
}
