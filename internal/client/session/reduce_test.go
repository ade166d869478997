package session

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/flock/internal/models"
	"github.com/stretchr/testify/assert"
)

func pendingState() State {
	return State{
		Status:      StatusVerificationPending,
		LoginMethod: models.LoginLocal,
		Pending: &models.PendingVerification{
			Identifier:        "+1234567890",
			Channel:           models.ChannelSMS,
			TempToken:         "temp",
			ExpiresAt:         time.Date(2026, 1, 1, 12, 4, 0, 0, time.UTC),
			RemainingAttempts: 3,
		},
	}
}

func TestReduce_Transitions(t *testing.T) {
	renewedAt := time.Date(2026, 1, 1, 12, 10, 0, 0, time.UTC)

	tests := []struct {
		name  string
		from  State
		event Event
		check func(t *testing.T, s State)
	}{
		{
			name:  "start from anonymous",
			from:  Initial(),
			event: AuthStarted{Method: models.LoginLocal},
			check: func(t *testing.T, s State) {
				assert.Equal(t, StatusAuthenticating, s.Status)
				assert.True(t, s.Loading)
			},
		},
		{
			name:  "retry clears previous error",
			from:  State{Status: StatusAuthFailed, Error: "Invalid credentials"},
			event: AuthStarted{Method: models.LoginLocal},
			check: func(t *testing.T, s State) {
				assert.Equal(t, StatusAuthenticating, s.Status)
				assert.Empty(t, s.Error)
			},
		},
		{
			name:  "start ignored while authenticated",
			from:  State{Status: StatusAuthenticated, IsAuthenticated: true},
			event: AuthStarted{Method: models.LoginLocal},
			check: func(t *testing.T, s State) {
				assert.Equal(t, StatusAuthenticated, s.Status)
			},
		},
		{
			name:  "second factor required",
			from:  State{Status: StatusAuthenticating, Loading: true, LoginMethod: models.LoginLocal},
			event: VerificationRequired{Pending: models.PendingVerification{TempToken: "t", RemainingAttempts: 3}},
			check: func(t *testing.T, s State) {
				assert.Equal(t, StatusVerificationPending, s.Status)
				assert.False(t, s.Loading)
				assert.Equal(t, "t", s.Pending.TempToken)
				assert.Nil(t, s.Identity)
			},
		},
		{
			name:  "wrong code keeps pending",
			from:  pendingState(),
			event: VerificationRejected{Message: "nope", Remaining: 2},
			check: func(t *testing.T, s State) {
				assert.Equal(t, StatusVerificationPending, s.Status)
				assert.Equal(t, 2, s.Pending.RemainingAttempts)
				assert.Equal(t, "nope", s.Error)
			},
		},
		{
			name:  "renewal resets budget and window",
			from:  pendingState(),
			event: VerificationRenewed{ExpiresAt: renewedAt, MaxAttempts: 3},
			check: func(t *testing.T, s State) {
				assert.Equal(t, renewedAt, s.Pending.ExpiresAt)
				assert.Equal(t, "temp", s.Pending.TempToken)
			},
		},
		{
			name:  "renewal swaps in a fresh temp token",
			from:  pendingState(),
			event: VerificationRenewed{ExpiresAt: renewedAt, MaxAttempts: 3, TempToken: "temp-renewed"},
			check: func(t *testing.T, s State) {
				assert.Equal(t, "temp-renewed", s.Pending.TempToken)
				assert.Equal(t, 3, s.Pending.RemainingAttempts)
			},
		},
		{
			name:  "verification success",
			from:  pendingState(),
			event: AuthSucceeded{Identity: admin, Method: models.LoginLocal},
			check: func(t *testing.T, s State) {
				assert.Equal(t, StatusAuthenticated, s.Status)
				assert.True(t, s.IsAuthenticated)
				assert.Nil(t, s.Pending)
			},
		},
		{
			name:  "failure retains nothing",
			from:  pendingState(),
			event: AuthFailed{Message: "expired"},
			check: func(t *testing.T, s State) {
				assert.Equal(t, State{Status: StatusAuthFailed, Error: "expired"}, s)
			},
		},
		{
			name:  "discarded resume settles anonymous",
			from:  State{Status: StatusAuthenticating, Loading: true, LoginMethod: models.LoginLocal},
			event: SessionDiscarded{},
			check: func(t *testing.T, s State) {
				assert.Equal(t, Initial(), s)
			},
		},
		{
			name:  "logout from pending",
			from:  pendingState(),
			event: LoggedOut{},
			check: func(t *testing.T, s State) {
				assert.Equal(t, Initial(), s)
			},
		},
		{
			name:  "identity update ignored unless authenticated",
			from:  pendingState(),
			event: IdentityUpdated{},
			check: func(t *testing.T, s State) {
				assert.Equal(t, pendingState(), s)
			},
		},
		{
			name:  "rejection ignored outside pending",
			from:  Initial(),
			event: VerificationRejected{Message: "x"},
			check: func(t *testing.T, s State) {
				assert.Equal(t, Initial(), s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Reduce(tt.from, tt.event))
		})
	}
}

func TestReduce_DoesNotAliasInput(t *testing.T) {
	from := pendingState()
	_ = Reduce(from, VerificationRejected{Message: "x", Remaining: 1})
	assert.Equal(t, 3, from.Pending.RemainingAttempts)

	id := admin
	auth := State{Status: StatusAuthenticated, IsAuthenticated: true, Identity: &id}
	name := "Changed"
	_ = Reduce(auth, IdentityUpdated{Patch: models.IdentityPatch{Name: &name}})
	assert.Equal(t, admin.Name, auth.Identity.Name)
}

func TestState_RoleGates(t *testing.T) {
	mod := models.Identity{ID: "2", Role: models.RoleModerator}
	st := State{Status: StatusAuthenticated, IsAuthenticated: true, Identity: &mod}

	assert.True(t, st.HasRole(models.RoleModerator))
	assert.False(t, st.IsAdmin())
	assert.True(t, st.CanAccess(models.RoleAdmin, models.RoleModerator))
	assert.False(t, st.CanAccess(models.RoleAdmin))
	assert.True(t, st.CanAccess())

	anon := Initial()
	assert.False(t, anon.CanAccess())
	assert.False(t, anon.HasRole(models.RoleUser))

	stale := State{Status: StatusAnonymous, Identity: &mod}
	assert.False(t, stale.HasRole(models.RoleModerator))
}
