package users

import (
	"time"

	"github.com/dmitrijs2005/flock/internal/cryptox"
	domain "github.com/dmitrijs2005/flock/internal/models"
	"github.com/dmitrijs2005/flock/internal/server/models"
)

// DemoPassword is the password of every demo account.
const DemoPassword = "password123"

// DemoUsers returns the three built-in accounts: an administrator and a
// regular user who log in by e-mail and a moderator who logs in by phone.
// Salts are fresh on every call.
func DemoUsers() []*models.User {
	seed := []models.User{
		{ID: "1", Email: "admin@sda.com", Name: "John Administrator", Role: domain.RoleAdmin,
			FirstName: "John", LastName: "Administrator", Theme: "default", Notifications: true},
		{ID: "2", Telephone: "+1234567890", Name: "Jane Moderator", Role: domain.RoleModerator,
			FirstName: "Jane", LastName: "Moderator", Theme: "ocean", Notifications: false},
		{ID: "3", Email: "user@sda.com", Name: "Bob User", Role: domain.RoleUser,
			FirstName: "Bob", LastName: "User", Theme: "dark", Notifications: true},
	}

	out := make([]*models.User, 0, len(seed))
	for i := range seed {
		u := seed[i]
		salt := cryptox.NewSalt()
		u.Salt = salt
		u.PasswordHash = cryptox.HashPassword([]byte(DemoPassword), salt)
		u.CreatedAt = time.Now()
		out = append(out, &u)
	}
	return out
}
