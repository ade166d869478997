package table

// Kind is the rendering hint of a column.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindObject
)

// Column describes one addressable field of a record.
type Column struct {
	Path       string
	Kind       Kind
	Label      string
	Searchable bool
}

// Schema is the ordered list of columns a caller exposes for a record type.
type Schema []Column

// SearchableKeys returns the paths of the searchable columns in order.
func (s Schema) SearchableKeys() []string {
	keys := make([]string, 0, len(s))
	for _, c := range s {
		if c.Searchable {
			keys = append(keys, c.Path)
		}
	}
	return keys
}

// Column finds the column with the given path.
func (s Schema) Column(path string) (Column, bool) {
	for _, c := range s {
		if c.Path == path {
			return c, true
		}
	}
	return Column{}, false
}

// Cell renders the value of column c for record r.
func (c Column) Cell(r any) string {
	return SearchableString(Lookup(r, c.Path))
}
