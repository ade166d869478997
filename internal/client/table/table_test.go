package table

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type place struct {
	Street string
	City   string
	Zip    int
}

func (p *place) Field(name string) any {
	switch name {
	case "street":
		return p.Street
	case "city":
		return p.City
	case "zip":
		return p.Zip
	}
	return nil
}

func (p *place) FieldNames() []string { return []string{"street", "city", "zip"} }

type person struct {
	Name  string
	Age   int
	Home  *place
	Notes map[string]any
}

func (p person) Field(name string) any {
	switch name {
	case "name":
		return p.Name
	case "age":
		return p.Age
	case "home":
		if p.Home == nil {
			return nil
		}
		return p.Home
	case "notes":
		if p.Notes == nil {
			return nil
		}
		return p.Notes
	}
	return nil
}

func (p person) FieldNames() []string { return []string{"name", "age", "home", "notes"} }

func names[T interface{ Field(string) any }](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Field("name").(string))
	}
	return out
}

func TestLookup(t *testing.T) {
	p := person{Name: "Ann", Age: 31, Home: &place{Street: "1 Main St", City: "NY", Zip: 10001},
		Notes: map[string]any{"tag": "vip", "meta": map[string]string{"source": "import"}}}

	assert.Equal(t, "Ann", Lookup(p, "name"))
	assert.Equal(t, "NY", Lookup(p, "home.city"))
	assert.Equal(t, 10001, Lookup(p, "home.zip"))
	assert.Equal(t, "vip", Lookup(p, "notes.tag"))
	assert.Equal(t, "import", Lookup(p, "notes.meta.source"))

	for _, path := range []string{"", ".", "home.", "missing", "home.city.more", "name.first", "notes.meta.absent"} {
		assert.Nil(t, Lookup(p, path), path)
	}
	assert.Nil(t, Lookup(person{Name: "Bo"}, "home.city"), "nil nested object")
	assert.Nil(t, Lookup(nil, "name"))
	assert.Nil(t, Lookup(42, "name"))
}

func TestSearchableString(t *testing.T) {
	assert.Equal(t, "", SearchableString(nil))
	assert.Equal(t, "Ann", SearchableString("Ann"))
	assert.Equal(t, "42", SearchableString(42))
	assert.Equal(t, "1.5", SearchableString(1.5))
	assert.Equal(t, "true", SearchableString(true))
	assert.Equal(t, "1 Main St NY", SearchableString(&place{Street: "1 Main St", City: "NY", Zip: 1}),
		"only string fields of an object, one level")
	assert.Equal(t, "x z", SearchableString(map[string]any{"b": "z", "a": "x", "c": 3}))
	assert.Equal(t, "a b", SearchableString([]string{"a", "b"}))
}

func people() []person {
	return []person{
		{Name: "Ann", Age: 31, Home: &place{City: "NY"}},
		{Name: "Bo", Age: 25, Home: &place{City: "LA"}},
		{Name: "carl", Age: 40, Home: &place{City: "New York"}},
		{Name: "Dee", Age: 25},
	}
}

func TestSearch(t *testing.T) {
	in := []map[string]any{{"name": "Ann", "city": "NY"}, {"name": "Bo", "city": "LA"}}
	got := Search(in, "an", []string{"name"})
	require.Len(t, got, 1)
	assert.Equal(t, "Ann", got[0]["name"])

	assert.Equal(t, in, Search(in, "   ", []string{"name"}), "blank query passes through")

	got2 := Search(people(), "new", []string{"name", "home"})
	assert.Equal(t, []string{"carl"}, names(got2))

	assert.Empty(t, Search(people(), "ann", []string{"missing.path"}))
}

func TestFilterColumns(t *testing.T) {
	got := FilterColumns(people(), map[string]string{"home.city": "ny", "age": AllFilterValue})
	assert.Equal(t, []string{"Ann"}, names(got), "substring, case-insensitive")

	got = FilterColumns(people(), map[string]string{"home.city": "n", "name": "a"})
	assert.Equal(t, []string{"Ann", "carl"}, names(got), "AND across keys")

	once := FilterColumns(people(), map[string]string{"age": "25"})
	twice := FilterColumns(once, map[string]string{"age": "25"})
	assert.Equal(t, names(once), names(twice))
	assert.Equal(t, []string{"Bo", "Dee"}, names(once))

	assert.Len(t, FilterColumns(people(), map[string]string{"name": ""}), 4)
}

func TestSort(t *testing.T) {
	in := people()

	asc := Sort(in, "name", SortAscending, language.English)
	assert.Equal(t, []string{"Ann", "Bo", "carl", "Dee"}, names(asc), "locale-aware, not byte order")

	desc := Sort(in, "name", SortDescending, language.English)
	assert.Equal(t, []string{"Dee", "carl", "Bo", "Ann"}, names(desc))

	byAge := Sort(in, "age", SortAscending, language.English)
	assert.Equal(t, []string{"Bo", "Dee", "Ann", "carl"}, names(byAge), "numeric and stable")

	byCity := Sort(in, "home.city", SortAscending, language.English)
	assert.Equal(t, []string{"Dee", "Bo", "carl", "Ann"}, names(byCity), "missing values sort as empty")

	assert.Equal(t, names(in), names(Sort(in, "", SortAscending, language.English)))
	assert.Equal(t, names(in), names(Sort(in, "name", SortNone, language.English)))
	assert.Equal(t, "Ann", in[0].Name, "input untouched")

	again := Sort(asc, "name", SortAscending, language.English)
	assert.Equal(t, names(asc), names(again))
}

func TestSort_MixedTypesFallBackToText(t *testing.T) {
	in := []map[string]any{{"v": "10"}, {"v": 9}, {"v": nil}}
	got := Sort(in, "v", SortAscending, language.English)
	assert.Equal(t, []any{nil, "10", 9}, []any{got[0]["v"], got[1]["v"], got[2]["v"]})
}

func TestSort_MixedTypesUseCollation(t *testing.T) {
	in := []map[string]any{{"v": "banan"}, {"v": []string{"Äpple"}}}
	got := Sort(in, "v", SortAscending, language.Swedish)
	assert.Equal(t, "banan", got[0]["v"])

	got = Sort(in, "v", SortAscending, language.German)
	assert.Equal(t, []string{"Äpple"}, got[0]["v"])
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7}

	p := Paginate(items, 3, 3)
	assert.Equal(t, []int{7}, p.Items)
	assert.Equal(t, 7, p.TotalItems)
	assert.Equal(t, 3, p.TotalPages)

	assert.Empty(t, Paginate(items, 4, 3).Items)
	assert.Empty(t, Paginate(items, 0, 3).Items)
	assert.Empty(t, Paginate(items, 1, 0).Items)

	empty := Paginate([]int{}, 1, 10)
	assert.Equal(t, 0, empty.TotalPages)
	assert.Empty(t, empty.Items)
}

func TestPaginate_HugePageSize(t *testing.T) {
	p := Paginate([]int{1, 2, 3}, 1, math.MaxInt)
	assert.Equal(t, 3, p.TotalItems)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, []int{1, 2, 3}, p.Items)

	assert.Empty(t, Paginate([]int{1, 2, 3}, 2, math.MaxInt).Items)
	assert.Equal(t, 0, Paginate([]int{}, 1, math.MaxInt).TotalPages)
}

func TestPaginate_PagesCoverAllItems(t *testing.T) {
	for n := 0; n <= 23; n++ {
		items := make([]int, n)
		for size := 1; size <= 7; size++ {
			first := Paginate(items, 1, size)
			sum := 0
			var last int
			for page := 1; page <= first.TotalPages; page++ {
				got := len(Paginate(items, page, size).Items)
				sum += got
				last = got
			}
			require.Equal(t, n, sum, "n=%d size=%d", n, size)

			want := n % size
			if n > 0 && want == 0 {
				want = size
			}
			require.Equal(t, want, last, "n=%d size=%d", n, size)
		}
	}
}

func TestProcessor_Process(t *testing.T) {
	schema := Schema{
		{Path: "name", Label: "Name", Searchable: true},
		{Path: "age", Kind: KindNumber, Label: "Age"},
		{Path: "home.city", Label: "City", Searchable: true},
	}
	p := NewProcessor[person](schema)

	st := NewState(1)
	st.SetSearch("n")
	st.SetFilter("age", "")
	st.ToggleSort("name")
	st.ToggleSort("name")

	view := p.Process(people(), st)

	want := View[string]{
		Items:         []string{"carl"},
		TotalItems:    2,
		TotalPages:    2,
		CurrentPage:   1,
		PageSize:      1,
		SortColumn:    "name",
		SortDirection: SortDescending,
	}
	got := View[string]{
		Items:         names(view.Items),
		TotalItems:    view.TotalItems,
		TotalPages:    view.TotalPages,
		CurrentPage:   view.CurrentPage,
		PageSize:      view.PageSize,
		SortColumn:    view.SortColumn,
		SortDirection: view.SortDirection,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Process() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"name", "home.city"}, p.Schema().SearchableKeys())
}

func TestProcessor_DescendingReversesAscending(t *testing.T) {
	p := NewProcessor[person](Schema{{Path: "name", Searchable: true}})
	st := NewState(50)
	st.SetSort("name", SortAscending)
	asc := names(p.Process(people(), st).Items)
	st.SetSort("name", SortDescending)
	desc := names(p.Process(people(), st).Items)

	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}
}

func TestColumnCell(t *testing.T) {
	p := people()[0]
	assert.Equal(t, "NY", Column{Path: "home.city"}.Cell(p))
	assert.Equal(t, "31", Column{Path: "age"}.Cell(p))
	assert.Equal(t, "", Column{Path: "home.zip.code"}.Cell(p))
}
