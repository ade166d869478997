// Package models holds the records the console lists: members and churches
// with their postal addresses.
package models

// Address is a postal address.
type Address struct {
	ID          string `json:"id"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zipCode"`
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
}

func (a *Address) Field(name string) any {
	switch name {
	case "id":
		return a.ID
	case "street":
		return a.Street
	case "city":
		return a.City
	case "state":
		return a.State
	case "zipCode":
		return a.ZipCode
	case "country":
		return a.Country
	case "countryCode":
		return a.CountryCode
	}
	return nil
}

func (a *Address) FieldNames() []string {
	return []string{"id", "street", "city", "state", "zipCode", "country", "countryCode"}
}

// Member is a person in the congregation directory.
type Member struct {
	ID        int      `json:"id"`
	Name      string   `json:"name"`
	Email     string   `json:"email"`
	Telephone string   `json:"telephone"`
	Role      string   `json:"role"`
	Address   *Address `json:"address,omitempty"`
}

func (m Member) Field(name string) any {
	switch name {
	case "id":
		return m.ID
	case "name":
		return m.Name
	case "email":
		return m.Email
	case "telephone":
		return m.Telephone
	case "role":
		return m.Role
	case "address":
		if m.Address == nil {
			return nil
		}
		return m.Address
	}
	return nil
}

func (m Member) FieldNames() []string {
	return []string{"id", "name", "email", "telephone", "role", "address"}
}

// Church is a congregation.
type Church struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Address *Address `json:"address,omitempty"`
}

func (c Church) Field(name string) any {
	switch name {
	case "id":
		return c.ID
	case "name":
		return c.Name
	case "address":
		if c.Address == nil {
			return nil
		}
		return c.Address
	}
	return nil
}

func (c Church) FieldNames() []string {
	return []string{"id", "name", "address"}
}
