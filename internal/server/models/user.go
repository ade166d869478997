// Package models defines server-side records persisted by the repositories.
package models

import (
	"time"

	domain "github.com/dmitrijs2005/flock/internal/models"
)

// User is a registered account. Email and Telephone are both optional but at
// least one is set; either can be used to log in.
type User struct {
	ID            string
	Email         string
	Telephone     string
	Name          string
	Role          domain.Role
	FirstName     string
	LastName      string
	Avatar        string
	Theme         string
	Notifications bool
	Salt          []byte
	PasswordHash  []byte
	CreatedAt     time.Time
}

// Identity is the public view of the user.
func (u *User) Identity() domain.Identity {
	return domain.Identity{
		ID:        u.ID,
		Email:     u.Email,
		Telephone: u.Telephone,
		Name:      u.Name,
		Role:      u.Role,
		Profile: domain.Profile{
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Avatar:    u.Avatar,
			Preferences: domain.Preferences{
				Theme:         u.Theme,
				Notifications: u.Notifications,
			},
		},
	}
}

// ApplyIdentity copies the editable identity fields back onto the user.
func (u *User) ApplyIdentity(id domain.Identity) {
	u.Name = id.Name
	u.Email = id.Email
	u.Telephone = id.Telephone
	u.FirstName = id.Profile.FirstName
	u.LastName = id.Profile.LastName
	u.Avatar = id.Profile.Avatar
	u.Theme = id.Profile.Preferences.Theme
	u.Notifications = id.Profile.Preferences.Notifications
}
