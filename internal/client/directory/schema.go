package directory

import "github.com/dmitrijs2005/flock/internal/client/table"

// FilterOption is a column the user can filter on, with its known values.
type FilterOption struct {
	Key    string
	Label  string
	Values []string
}

var MemberSchema = table.Schema{
	{Path: "name", Label: "Name", Kind: table.KindString, Searchable: true},
	{Path: "email", Label: "Email", Kind: table.KindString, Searchable: true},
	{Path: "telephone", Label: "Telephone", Kind: table.KindString, Searchable: true},
	{Path: "role", Label: "Role", Kind: table.KindString},
	{Path: "address.street", Label: "Street", Kind: table.KindString, Searchable: true},
	{Path: "address.city", Label: "City", Kind: table.KindString, Searchable: true},
	{Path: "address.state", Label: "State", Kind: table.KindString, Searchable: true},
	{Path: "address.country", Label: "Country", Kind: table.KindString, Searchable: true},
}

var MemberFilters = []FilterOption{
	{Key: "address.city", Label: "City", Values: []string{"Springfield", "New York", "Los Angeles", "Chicago", "Miami", "Seattle", "Denver"}},
	{Key: "role", Label: "Role", Values: []string{"ADMIN", "MODERATOR", "USER"}},
}

var ChurchSchema = table.Schema{
	{Path: "name", Label: "Name", Kind: table.KindString, Searchable: true},
	{Path: "address.street", Label: "Street", Kind: table.KindString, Searchable: true},
	{Path: "address.city", Label: "City", Kind: table.KindString, Searchable: true},
	{Path: "address.state", Label: "State", Kind: table.KindString, Searchable: true},
	{Path: "address.country", Label: "Country", Kind: table.KindString, Searchable: true},
}

var ChurchFilters = []FilterOption{
	{Key: "address.city", Label: "City", Values: []string{"Springfield", "New York", "Los Angeles", "Chicago", "Miami", "Seattle", "Denver"}},
}
