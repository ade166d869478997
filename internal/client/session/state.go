package session

import (
	"slices"

	"github.com/dmitrijs2005/flock/internal/models"
)

// Status is the coarse position of the session in the login flow.
type Status string

const (
	StatusAnonymous           Status = "anonymous"
	StatusAuthenticating      Status = "authenticating"
	StatusVerificationPending Status = "verification_pending"
	StatusAuthenticated       Status = "authenticated"
	StatusAuthFailed          Status = "auth_failed"
)

// State is a snapshot of the session. Snapshots handed out by Machine share
// no memory with the machine.
type State struct {
	Status          Status
	Identity        *models.Identity
	IsAuthenticated bool
	Loading         bool
	Error           string
	LoginMethod     models.LoginMethod
	Pending         *models.PendingVerification
}

// Initial is the state of a freshly started console.
func Initial() State {
	return State{Status: StatusAnonymous}
}

func (s State) clone() State {
	if s.Identity != nil {
		id := *s.Identity
		s.Identity = &id
	}
	if s.Pending != nil {
		p := *s.Pending
		s.Pending = &p
	}
	return s
}

// HasRole reports whether an authenticated identity holds role r.
func (s State) HasRole(r models.Role) bool {
	return s.IsAuthenticated && s.Identity != nil && s.Identity.Role == r
}

// IsAdmin is HasRole(models.RoleAdmin).
func (s State) IsAdmin() bool {
	return s.HasRole(models.RoleAdmin)
}

// CanAccess reports whether the identity holds any of roles. With no roles
// any authenticated identity is allowed.
func (s State) CanAccess(roles ...models.Role) bool {
	if !s.IsAuthenticated || s.Identity == nil {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	return slices.Contains(roles, s.Identity.Role)
}
