package table

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// View is the derived, paged result of a pipeline run.
type View[T any] struct {
	Items         []T
	TotalItems    int
	TotalPages    int
	CurrentPage   int
	PageSize      int
	SortColumn    string
	SortDirection SortDirection
}

// Processor runs the view pipeline for records of type T.
type Processor[T any] struct {
	schema Schema
	lang   language.Tag
}

// Option configures a Processor.
type Option func(*options)

type options struct {
	lang language.Tag
}

// WithLanguage selects the collation used for string ordering.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// NewProcessor builds a Processor searching the searchable columns of schema.
func NewProcessor[T any](schema Schema, opts ...Option) *Processor[T] {
	o := options{lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}
	return &Processor[T]{schema: slices.Clone(schema), lang: o.lang}
}

// Schema returns the columns the processor was built with.
func (p *Processor[T]) Schema() Schema {
	return slices.Clone(p.schema)
}

// Process applies search, column filters, sort and pagination, in that order.
func (p *Processor[T]) Process(items []T, st State) View[T] {
	out := Search(items, st.SearchQuery, p.schema.SearchableKeys())
	out = FilterColumns(out, st.Filters)
	out = Sort(out, st.SortColumn, st.SortDirection, p.lang)
	page := Paginate(out, st.CurrentPage, st.PageSize)

	return View[T]{
		Items:         page.Items,
		TotalItems:    page.TotalItems,
		TotalPages:    page.TotalPages,
		CurrentPage:   st.CurrentPage,
		PageSize:      st.PageSize,
		SortColumn:    st.SortColumn,
		SortDirection: st.SortDirection,
	}
}

// Search keeps the records for which any of keys resolves to a value whose
// searchable form contains query, ignoring case. A blank query returns items
// as is.
func Search[T any](items []T, query string, keys []string) []T {
	if strings.TrimSpace(query) == "" {
		return items
	}
	needle := strings.ToLower(query)
	return slices.DeleteFunc(slices.Clone(items), func(item T) bool {
		for _, key := range keys {
			if strings.Contains(strings.ToLower(SearchableString(Lookup(item, key))), needle) {
				return false
			}
		}
		return true
	})
}

// FilterColumns keeps the records matching every active filter. A filter
// matches when the searchable form at its path contains the value, ignoring
// case. Empty values and AllFilterValue are inactive.
func FilterColumns[T any](items []T, filters map[string]string) []T {
	out := items
	for key, value := range filters {
		if value == "" || value == AllFilterValue {
			continue
		}
		needle := strings.ToLower(value)
		out = slices.DeleteFunc(slices.Clone(out), func(item T) bool {
			return !strings.Contains(strings.ToLower(SearchableString(Lookup(item, key))), needle)
		})
	}
	return out
}

// Sort returns a stably sorted copy of items ordered by the value at column.
// Two strings are collated for lang, two numbers compared numerically, and
// anything else compared by searchable form. With no column or SortNone the
// input is returned unchanged.
func Sort[T any](items []T, column string, dir SortDirection, lang language.Tag) []T {
	if column == "" || dir == SortNone {
		return items
	}
	col := collate.New(lang)
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		c := compareValues(col, Lookup(a, column), Lookup(b, column))
		if dir == SortDescending {
			return -c
		}
		return c
	})
	return out
}

func compareValues(col *collate.Collator, a, b any) int {
	if as, ok := a.(string); ok {
		if bs, ok := b.(string); ok {
			return col.CompareString(as, bs)
		}
	}
	if an, ok := number(a); ok {
		if bn, ok := number(b); ok {
			return cmp.Compare(an, bn)
		}
	}
	return col.CompareString(SearchableString(a), SearchableString(b))
}

// Page is one slice of a result set.
type Page[T any] struct {
	Items      []T
	TotalItems int
	TotalPages int
}

// Paginate cuts page (1-based) of the given size out of items. Pages outside
// the result set, and non-positive sizes, produce no items.
func Paginate[T any](items []T, page, size int) Page[T] {
	total := len(items)
	p := Page[T]{Items: []T{}, TotalItems: total}
	if size <= 0 {
		return p
	}
	p.TotalPages = total / size
	if total%size != 0 {
		p.TotalPages++
	}
	if page < 1 || page > p.TotalPages {
		return p
	}
	start := (page - 1) * size
	end := start + min(size, total-start)
	p.Items = slices.Clone(items[start:end])
	return p
}
