package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/flock/internal/client/directory"
	"github.com/dmitrijs2005/flock/internal/client/session"
	"github.com/dmitrijs2005/flock/internal/client/table"
	domain "github.com/dmitrijs2005/flock/internal/models"
	"golang.org/x/text/language"
)

const (
	viewMembers  = "members"
	viewChurches = "churches"
)

var errNoView = errors.New("no list is open; use 'members' or 'churches' first")

// view is one listable directory with its own table state.
type view[T any] struct {
	name    string
	proc    *table.Processor[T]
	state   table.State
	filters []directory.FilterOption
	load    func(context.Context) ([]T, error)
	roles   []domain.Role
}

func newView[T any](name string, schema table.Schema, filters []directory.FilterOption, pageSize int,
	lang language.Tag, load func(context.Context) ([]T, error), roles ...domain.Role) *view[T] {
	return &view[T]{
		name:    name,
		proc:    table.NewProcessor[T](schema, table.WithLanguage(lang)),
		state:   table.NewState(pageSize),
		filters: filters,
		load:    load,
		roles:   roles,
	}
}

func (v *view[T]) allowed(st session.State) error {
	if !st.IsAuthenticated {
		return errNotSignedIn
	}
	if !st.CanAccess(v.roles...) {
		return fmt.Errorf("you do not have permission to view %s", v.name)
	}
	return nil
}

func (v *view[T]) render(ctx context.Context, w io.Writer) error {
	items, err := v.load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", v.name, err)
	}

	out := v.proc.Process(items, v.state)
	if v.state.Clamp(out.TotalPages) {
		out = v.proc.Process(items, v.state)
	}

	schema := v.proc.Schema()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := make([]string, len(schema))
	for i, c := range schema {
		header[i] = strings.ToUpper(c.Label)
		if c.Path == v.state.SortColumn {
			switch v.state.SortDirection {
			case table.SortAscending:
				header[i] += " ^"
			case table.SortDescending:
				header[i] += " v"
			}
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	for _, it := range out.Items {
		row := make([]string, len(schema))
		for i, c := range schema {
			row[i] = c.Cell(it)
		}
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if out.TotalItems == 0 {
		fmt.Fprintf(w, "No %s found.\n", v.name)
	} else {
		fmt.Fprintf(w, "Page %d of %d, %d %s, %d per page.\n",
			out.CurrentPage, out.TotalPages, out.TotalItems, v.name, out.PageSize)
	}
	if summary := v.summary(); summary != "" {
		fmt.Fprintln(w, summary)
	}
	return nil
}

func (v *view[T]) summary() string {
	var parts []string
	if v.state.SearchQuery != "" {
		parts = append(parts, fmt.Sprintf("search %q", v.state.SearchQuery))
	}
	for _, k := range v.state.FilterKeys() {
		parts = append(parts, fmt.Sprintf("%s=%s", k, v.state.Filters[k]))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Active: " + strings.Join(parts, ", ")
}

func (v *view[T]) filter(args []string) error {
	if len(args) == 1 && args[0] == "clear" {
		v.state.ClearFilters()
		return nil
	}
	if len(args) < 2 {
		return errors.New(v.filterUsage())
	}
	key := args[0]
	if _, ok := v.proc.Schema().Column(key); !ok {
		return fmt.Errorf("unknown column %q", key)
	}
	v.state.SetFilter(key, strings.Join(args[1:], " "))
	return nil
}

func (v *view[T]) filterUsage() string {
	var b strings.Builder
	b.WriteString("usage: filter <column> <value|all> | filter clear")
	for _, f := range v.filters {
		fmt.Fprintf(&b, "\n  %s (%s): %s", f.Key, f.Label, strings.Join(f.Values, ", "))
	}
	return b.String()
}

func (v *view[T]) sort(args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: sort <column> [asc|desc|none]")
	}
	if _, ok := v.proc.Schema().Column(args[0]); !ok {
		return fmt.Errorf("unknown column %q", args[0])
	}
	if len(args) == 1 {
		v.state.ToggleSort(args[0])
		return nil
	}
	dir, err := table.ParseSortDirection(args[1])
	if err != nil {
		return err
	}
	v.state.SetSort(args[0], dir)
	return nil
}

func (v *view[T]) page(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: page <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page %q", args[0])
	}
	v.state.SetPage(n)
	return nil
}

func (v *view[T]) pageSize(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: pagesize <n> (common sizes: %s)", joinInts(table.PageSizeOptions))
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid page size %q", args[0])
	}
	return v.state.SetPageSize(n)
}

func joinInts(xs []int) string {
	s := make([]string, len(xs))
	for i, x := range xs {
		s[i] = strconv.Itoa(x)
	}
	return strings.Join(s, ", ")
}

// tableView is the type-erased surface of a view used by the commands.
type tableView interface {
	allowed(session.State) error
	render(context.Context, io.Writer) error
	filter([]string) error
	sort([]string) error
	page([]string) error
	pageSize([]string) error
	step(delta int)
	search(query string)
}

func (v *view[T]) step(delta int) { v.state.SetPage(v.state.CurrentPage + delta) }

func (v *view[T]) search(query string) { v.state.SetSearch(query) }

func (a *App) view(name string) tableView {
	switch name {
	case viewMembers:
		return a.members
	case viewChurches:
		return a.churches
	}
	return nil
}

// Show opens and prints a directory list.
func (a *App) Show(ctx context.Context, name string) error {
	v := a.view(name)
	if v == nil {
		return fmt.Errorf("unknown list %q", name)
	}
	if err := v.allowed(a.machine.State()); err != nil {
		return err
	}
	a.active = name
	return v.render(ctx, a.out)
}

// withActive applies fn to the open list and re-renders it.
func (a *App) withActive(ctx context.Context, fn func(tableView) error) error {
	v := a.view(a.active)
	if v == nil {
		return errNoView
	}
	if err := v.allowed(a.machine.State()); err != nil {
		return err
	}
	if err := fn(v); err != nil {
		return err
	}
	return v.render(ctx, a.out)
}

func (a *App) Search(ctx context.Context, args []string) error {
	return a.withActive(ctx, func(v tableView) error {
		v.search(strings.Join(args, " "))
		return nil
	})
}

func (a *App) Filter(ctx context.Context, args []string) error {
	return a.withActive(ctx, func(v tableView) error { return v.filter(args) })
}

func (a *App) Sort(ctx context.Context, args []string) error {
	return a.withActive(ctx, func(v tableView) error { return v.sort(args) })
}

func (a *App) Page(ctx context.Context, args []string) error {
	return a.withActive(ctx, func(v tableView) error { return v.page(args) })
}

func (a *App) Next(ctx context.Context) error {
	return a.withActive(ctx, func(v tableView) error { v.step(1); return nil })
}

func (a *App) Prev(ctx context.Context) error {
	return a.withActive(ctx, func(v tableView) error { v.step(-1); return nil })
}

func (a *App) PageSize(ctx context.Context, args []string) error {
	return a.withActive(ctx, func(v tableView) error { return v.pageSize(args) })
}
