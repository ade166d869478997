package models

// Role is the access level attached to an identity.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleModerator, RoleUser:
		return true
	}
	return false
}

// Preferences holds per-user console settings.
type Preferences struct {
	Theme         string `json:"theme"`
	Notifications bool   `json:"notifications"`
}

// Profile is the optional, user-editable part of an identity.
type Profile struct {
	FirstName   string      `json:"firstName,omitempty"`
	LastName    string      `json:"lastName,omitempty"`
	Avatar      string      `json:"avatar,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// Identity describes the authenticated principal.
type Identity struct {
	ID        string  `json:"id"`
	Email     string  `json:"email,omitempty"`
	Telephone string  `json:"telephone,omitempty"`
	Name      string  `json:"name"`
	Role      Role    `json:"role"`
	Profile   Profile `json:"profile"`
}

// IdentityPatch is a partial update of an Identity. Nil fields are left
// untouched.
type IdentityPatch struct {
	Name        *string
	Email       *string
	Telephone   *string
	FirstName   *string
	LastName    *string
	Avatar      *string
	Preferences *Preferences
}

// Empty reports whether the patch changes nothing.
func (p IdentityPatch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Telephone == nil &&
		p.FirstName == nil && p.LastName == nil && p.Avatar == nil && p.Preferences == nil
}

// Apply returns a copy of id with the patch merged in.
func (id Identity) Apply(p IdentityPatch) Identity {
	if p.Name != nil {
		id.Name = *p.Name
	}
	if p.Email != nil {
		id.Email = *p.Email
	}
	if p.Telephone != nil {
		id.Telephone = *p.Telephone
	}
	if p.FirstName != nil {
		id.Profile.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		id.Profile.LastName = *p.LastName
	}
	if p.Avatar != nil {
		id.Profile.Avatar = *p.Avatar
	}
	if p.Preferences != nil {
		id.Profile.Preferences = *p.Preferences
	}
	return id
}

// Identifier returns the e-mail address, or the telephone number when the
// identity has no e-mail.
func (id Identity) Identifier() string {
	if id.Email != "" {
		return id.Email
	}
	return id.Telephone
}
