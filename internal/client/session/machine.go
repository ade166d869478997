package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/models"
)

const (
	msgLoginFailed  = "Login failed. Please try again."
	msgVerifyFailed = "Verification failed. Please try again."
	msgResendFailed = "Failed to resend verification code."
	msgSaveFailed   = "Could not save the session. Please try again."
	msgEnterCode    = "Please enter the verification code."
)

// Machine is the single owner of the session state.
//
// StartLogin, CompleteVerification, ResendVerification and ResumeSession
// share one in-flight slot: while one runs, the others return ErrBusy.
// Logout always runs; results of login operations that were in flight when
// it happened are dropped.
type Machine struct {
	store     CredentialStore
	persisted PersistedSession
	log       logging.Logger

	busy atomic.Bool

	// storeMu orders writes to persisted with the commits that depend on them.
	storeMu sync.Mutex

	mu     sync.Mutex
	state  State
	epoch  uint64
	subs   map[int]func(State)
	nextID int

	notifyMu sync.Mutex
}

// NewMachine returns a machine in the anonymous state.
func NewMachine(store CredentialStore, persisted PersistedSession, log logging.Logger) *Machine {
	return &Machine{
		store:     store,
		persisted: persisted,
		log:       log.With("component", "session"),
		state:     Initial(),
		subs:      map[int]func(State){},
	}
}

// State returns a snapshot of the current state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// Subscribe registers fn to receive every new snapshot. Calls are serialized.
// The returned function unregisters fn.
func (m *Machine) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// StartLogin runs the first login step. Allowed from anonymous and
// auth_failed.
func (m *Machine) StartLogin(ctx context.Context, creds models.Credentials, method models.LoginMethod) (State, error) {
	if !method.Valid() {
		return m.State(), fmt.Errorf("%w: unknown login method %q", common.ErrValidation, method)
	}
	if !m.busy.CompareAndSwap(false, true) {
		return m.State(), ErrBusy
	}
	defer m.busy.Store(false)

	epoch, err := m.begin(AuthStarted{Method: method}, StatusAnonymous, StatusAuthFailed)
	if err != nil {
		return m.State(), err
	}

	if method == models.LoginLocal {
		creds.Identifier = strings.TrimSpace(creds.Identifier)
		if err := creds.Validate(); err != nil {
			return m.commit(epoch, AuthFailed{Message: common.UserMessage(err, msgLoginFailed)}), nil
		}
	}

	m.log.Info(ctx, "login started", "method", method)
	res, err := m.store.Authenticate(ctx, creds, method)
	if err != nil {
		m.log.Warn(ctx, "login rejected", "method", method, "error", err)
		return m.commit(epoch, AuthFailed{Message: common.UserMessage(err, msgLoginFailed)}), nil
	}

	if res.RequiresVerification {
		m.log.Info(ctx, "second factor required", "channel", res.Pending.Channel)
		return m.commit(epoch, VerificationRequired{Pending: res.Pending}), nil
	}

	return m.establish(ctx, epoch, res.Identity, res.Token, method), nil
}

// CompleteVerification submits the second-factor code. Allowed from
// verification_pending.
func (m *Machine) CompleteVerification(ctx context.Context, code string) (State, error) {
	if !m.busy.CompareAndSwap(false, true) {
		return m.State(), ErrBusy
	}
	defer m.busy.Store(false)

	m.mu.Lock()
	if m.state.Status != StatusVerificationPending || m.state.Pending == nil {
		m.mu.Unlock()
		return m.State(), ErrInvalidTransition
	}
	pending := *m.state.Pending
	method := m.state.LoginMethod
	m.mu.Unlock()

	epoch, err := m.begin(VerificationSubmitted{}, StatusVerificationPending)
	if err != nil {
		return m.State(), err
	}

	code = strings.TrimSpace(code)
	if code == "" {
		return m.commit(epoch, VerificationRejected{Message: msgEnterCode, Remaining: pending.RemainingAttempts}), nil
	}

	grant, err := m.store.CompleteLogin(ctx, pending.TempToken, code)
	if err != nil {
		var ve *common.VerificationError
		switch {
		case errors.As(err, &ve) && ve.Remaining > 0:
			m.log.Info(ctx, "verification code rejected", "remaining", ve.Remaining)
			return m.commit(epoch, VerificationRejected{
				Message:   common.UserMessage(err, msgVerifyFailed),
				Remaining: ve.Remaining,
			}), nil
		case errors.Is(err, common.ErrUnavailable):
			m.log.Warn(ctx, "verification unavailable", "error", err)
			return m.commit(epoch, VerificationRejected{
				Message:   common.UserMessage(err, msgVerifyFailed),
				Remaining: pending.RemainingAttempts,
			}), nil
		default:
			m.log.Warn(ctx, "verification failed", "error", err)
			return m.commit(epoch, AuthFailed{Message: common.UserMessage(err, msgVerifyFailed)}), nil
		}
	}

	if method == "" {
		method = models.LoginLocal
	}
	return m.establish(ctx, epoch, grant.Identity, grant.Token, method), nil
}

// ResendVerification asks for a fresh code on the pending channel. Allowed
// from verification_pending; the status does not change.
func (m *Machine) ResendVerification(ctx context.Context) (State, error) {
	if !m.busy.CompareAndSwap(false, true) {
		return m.State(), ErrBusy
	}
	defer m.busy.Store(false)

	m.mu.Lock()
	if m.state.Status != StatusVerificationPending || m.state.Pending == nil {
		m.mu.Unlock()
		return m.State(), ErrInvalidTransition
	}
	pending := *m.state.Pending
	m.mu.Unlock()

	epoch, err := m.begin(ResendRequested{}, StatusVerificationPending)
	if err != nil {
		return m.State(), err
	}

	info, err := m.store.SendCode(ctx, pending.Identifier, pending.Channel)
	if err != nil {
		m.log.Warn(ctx, "resend failed", "channel", pending.Channel, "error", err)
		return m.commit(epoch, ResendFailed{Message: common.UserMessage(err, msgResendFailed)}), nil
	}

	m.log.Info(ctx, "verification code resent", "channel", info.Channel)
	return m.commit(epoch, VerificationRenewed{
		ExpiresAt:   info.ExpiresAt,
		MaxAttempts: info.MaxAttempts,
		TempToken:   info.TempToken,
	}), nil
}

// ResumeSession restores a persisted session at startup. Allowed from
// anonymous. A missing, unusable or rejected token leaves the session
// anonymous; rejected tokens are removed from storage.
func (m *Machine) ResumeSession(ctx context.Context) (State, error) {
	if !m.busy.CompareAndSwap(false, true) {
		return m.State(), ErrBusy
	}
	defer m.busy.Store(false)

	m.mu.Lock()
	status := m.state.Status
	m.mu.Unlock()
	if status != StatusAnonymous {
		return m.State(), ErrInvalidTransition
	}

	token, ok, err := m.persisted.Get(ctx, common.SessionTokenKey)
	if err != nil {
		m.log.Warn(ctx, "read persisted session", "error", err)
		return m.State(), nil
	}
	if !ok || token == "" {
		return m.State(), nil
	}

	raw, ok, err := m.persisted.Get(ctx, common.LoginMethodKey)
	method := models.LoginMethod(raw)
	if err != nil || !ok || !method.Valid() {
		m.log.Warn(ctx, "persisted session has no usable login method, discarding", "error", err)
		m.storeMu.Lock()
		m.clearPersisted(ctx)
		m.storeMu.Unlock()
		return m.State(), nil
	}

	epoch, err := m.begin(AuthStarted{Method: method}, StatusAnonymous)
	if err != nil {
		return m.State(), err
	}

	identity, err := m.store.ValidateToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrUnavailable) {
			m.log.Warn(ctx, "session validation unavailable, keeping token", "error", err)
			return m.commit(epoch, SessionDiscarded{Message: common.UserMessage(err, msgLoginFailed)}), nil
		}
		m.log.Info(ctx, "persisted session rejected", "error", err)
		m.storeMu.Lock()
		m.clearPersisted(ctx)
		m.storeMu.Unlock()
		return m.commit(epoch, SessionDiscarded{}), nil
	}

	m.log.Info(ctx, "session resumed", "user_id", identity.ID, "method", method)
	return m.commit(epoch, AuthSucceeded{Identity: identity, Method: method}), nil
}

// Logout ends the session from any status. Local state is cleared first;
// the credential store is told afterwards and its failure is only logged.
func (m *Machine) Logout(ctx context.Context) (State, error) {
	m.storeMu.Lock()
	token, _, err := m.persisted.Get(ctx, common.SessionTokenKey)
	if err != nil {
		m.log.Warn(ctx, "read persisted session", "error", err)
	}
	m.clearPersisted(ctx)

	m.mu.Lock()
	m.epoch++
	st, subs := m.transition(LoggedOut{})
	m.mu.Unlock()
	m.storeMu.Unlock()
	m.notify(st, subs)

	if token != "" {
		if err := m.store.Logout(ctx, token); err != nil {
			m.log.Warn(ctx, "remote logout failed", "error", err)
		}
	}
	m.log.Info(ctx, "logged out")
	return st, nil
}

// UpdateIdentity merges patch into the authenticated identity.
func (m *Machine) UpdateIdentity(patch models.IdentityPatch) (State, error) {
	m.mu.Lock()
	status := m.state.Status
	m.mu.Unlock()
	if status != StatusAuthenticated {
		return m.State(), ErrInvalidTransition
	}
	return m.apply(IdentityUpdated{Patch: patch}), nil
}

// ClearError dismisses the current error message.
func (m *Machine) ClearError() State {
	return m.apply(ErrorCleared{})
}

// establish persists token and method, then commits the authenticated state.
func (m *Machine) establish(ctx context.Context, epoch uint64, identity models.Identity, token string, method models.LoginMethod) State {
	m.storeMu.Lock()
	defer m.storeMu.Unlock()

	if !m.current(epoch) {
		return m.State()
	}
	if err := m.persist(ctx, token, method); err != nil {
		m.log.Error(ctx, "persist session", "error", err)
		return m.commit(epoch, AuthFailed{Message: msgSaveFailed})
	}

	m.log.Info(ctx, "login succeeded", "user_id", identity.ID, "method", method)
	return m.commit(epoch, AuthSucceeded{Identity: identity, Method: method})
}

// persist writes the token and its login method. A token is never left
// behind without its method.
func (m *Machine) persist(ctx context.Context, token string, method models.LoginMethod) error {
	if err := m.persisted.Set(ctx, common.SessionTokenKey, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := m.persisted.Set(ctx, common.LoginMethodKey, string(method)); err != nil {
		if rmErr := m.persisted.Remove(ctx, common.SessionTokenKey); rmErr != nil {
			m.log.Error(ctx, "remove orphaned token", "error", rmErr)
		}
		return fmt.Errorf("store login method: %w", err)
	}
	return nil
}

func (m *Machine) clearPersisted(ctx context.Context) {
	for _, key := range []string{common.SessionTokenKey, common.LoginMethodKey} {
		if err := m.persisted.Remove(ctx, key); err != nil {
			m.log.Error(ctx, "remove persisted session key", "key", key, "error", err)
		}
	}
}

// begin applies e if the status is one of allowed and returns the epoch the
// operation belongs to.
func (m *Machine) begin(e Event, allowed ...Status) (uint64, error) {
	m.mu.Lock()
	ok := false
	for _, s := range allowed {
		if m.state.Status == s {
			ok = true
			break
		}
	}
	if !ok {
		m.mu.Unlock()
		return 0, ErrInvalidTransition
	}
	epoch := m.epoch
	next, subs := m.transition(e)
	m.mu.Unlock()

	m.notify(next, subs)
	return epoch, nil
}

// commit applies e unless a logout happened since epoch was taken.
func (m *Machine) commit(epoch uint64, e Event) State {
	m.mu.Lock()
	if m.epoch != epoch {
		st := m.state.clone()
		m.mu.Unlock()
		return st
	}
	next, subs := m.transition(e)
	m.mu.Unlock()

	m.notify(next, subs)
	return next
}

func (m *Machine) current(epoch uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.epoch == epoch
}

func (m *Machine) apply(e Event) State {
	m.mu.Lock()
	next, subs := m.transition(e)
	m.mu.Unlock()

	m.notify(next, subs)
	return next
}

// transition must be called with mu held.
func (m *Machine) transition(e Event) (State, []func(State)) {
	m.state = Reduce(m.state, e)
	subs := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	return m.state.clone(), subs
}

func (m *Machine) notify(st State, subs []func(State)) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	for _, fn := range subs {
		fn(st.clone())
	}
}
