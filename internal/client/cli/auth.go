package cli

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/flock/internal/client/session"
	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/models"
	"github.com/dustin/go-humanize"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// newSSOState generates the anti-forgery state sent to the identity provider.
var newSSOState = func() (string, error) { return common.MakeRandHexString(16) }

var (
	errNotSignedIn      = errors.New("not signed in; use 'login' or 'sso'")
	errSSOStateMismatch = errors.New("state does not match this sign-in; run 'sso' again")
)

// Resume restores the persisted session, if any.
func (a *App) Resume(ctx context.Context) (session.State, error) {
	st, err := a.machine.ResumeSession(ctx)
	if err != nil {
		return st, err
	}
	a.report(st)
	return st, nil
}

// Login prompts for missing credentials and starts a password login.
// Usage: login [identifier]
func (a *App) Login(ctx context.Context, args []string) error {
	identifier := strings.Join(args, " ")
	if identifier == "" {
		var err error
		identifier, err = getSimpleText(a.reader, "Enter email or phone number", a.out)
		if err != nil {
			return err
		}
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	creds := models.Credentials{
		Identifier:     identifier,
		Password:       password,
		IdentifierType: models.DetectIdentifierType(identifier),
	}
	st, err := a.machine.StartLogin(ctx, creds, models.LoginLocal)
	if err != nil {
		return a.machineError(err)
	}
	a.report(st)
	return nil
}

// SSO signs in through the configured identity provider.
func (a *App) SSO(ctx context.Context) error {
	if a.authURL == nil {
		return errors.New("federated login is not configured")
	}

	state, err := newSSOState()
	if err != nil {
		return err
	}
	a.printf("Open this address, sign in and paste the code and state you receive:\n  %s\n", a.authURL(state))

	code, err := getSimpleText(a.reader, "Authorization code", a.out)
	if err != nil {
		return err
	}
	returned, err := getSimpleText(a.reader, "State", a.out)
	if err != nil {
		return err
	}
	if subtle.ConstantTimeCompare([]byte(returned), []byte(state)) != 1 {
		return errSSOStateMismatch
	}

	st, err := a.machine.StartLogin(ctx, models.Credentials{Code: code}, models.LoginFederated)
	if err != nil {
		return a.machineError(err)
	}
	a.report(st)
	return nil
}

// Verify submits the second-factor code. Usage: verify <code>
func (a *App) Verify(ctx context.Context, args []string) error {
	st, err := a.machine.CompleteVerification(ctx, strings.Join(args, ""))
	if err != nil {
		return a.machineError(err)
	}
	a.report(st)
	return nil
}

// Resend requests a new verification code.
func (a *App) Resend(ctx context.Context) error {
	st, err := a.machine.ResendVerification(ctx)
	if err != nil {
		return a.machineError(err)
	}
	if st.Error == "" {
		a.printf("A new code was sent.\n")
	}
	a.report(st)
	return nil
}

// Logout ends the session.
func (a *App) Logout(ctx context.Context) error {
	if _, err := a.machine.Logout(ctx); err != nil {
		return err
	}
	a.active = ""
	a.printf("Signed out.\n")
	return nil
}

// Whoami prints the session status and identity.
func (a *App) Whoami(context.Context) error {
	st := a.machine.State()
	a.printf("Status: %s\n", st.Status)

	if st.Pending != nil {
		a.printf("Waiting for the code sent to %s (%s), %d attempts left, expires %s.\n",
			displayIdentifier(st.Pending.Identifier), st.Pending.Channel, st.Pending.RemainingAttempts,
			humanize.RelTime(a.now(), st.Pending.ExpiresAt, "ago", "from now"))
	}
	if st.Identity != nil {
		id := st.Identity
		a.printf("Name:   %s\n", id.Name)
		if id.Email != "" {
			a.printf("Email:  %s\n", id.Email)
		}
		if id.Telephone != "" {
			a.printf("Phone:  %s\n", displayIdentifier(id.Telephone))
		}
		a.printf("Role:   %s\n", id.Role)
		a.printf("Login:  %s\n", st.LoginMethod)
		a.printf("Theme:  %s\n", id.Profile.Preferences.Theme)
	}
	if st.Error != "" {
		a.printf("Last error: %s\n", st.Error)
	}
	return nil
}

// Demo lists the built-in demo accounts.
func (a *App) Demo(context.Context) error {
	if len(a.demo) == 0 {
		a.printf("No demo accounts are available.\n")
		return nil
	}
	a.printf("Demo accounts:\n")
	for _, d := range a.demo {
		a.printf("  %-10s %-16s password: %s\n", d.Role, displayIdentifier(d.Identifier), d.Password)
	}
	return nil
}

// Theme changes the signed-in user's theme. Usage: theme <name>
func (a *App) Theme(ctx context.Context, args []string) error {
	st := a.machine.State()
	if !st.IsAuthenticated {
		return errNotSignedIn
	}
	if len(args) != 1 {
		return errors.New("usage: theme <name>")
	}
	if a.profiles == nil {
		return errors.New("profile updates are not available")
	}

	token, ok, err := a.persisted.Get(ctx, common.SessionTokenKey)
	if err != nil || !ok {
		return errors.New("session token is not available; please log in again")
	}

	prefs := st.Identity.Profile.Preferences
	prefs.Theme = args[0]
	id, err := a.profiles.UpdatePreferences(ctx, token, prefs)
	if err != nil {
		return errors.New(common.UserMessage(err, "Could not update preferences."))
	}

	saved := id.Profile.Preferences
	if _, err := a.machine.UpdateIdentity(models.IdentityPatch{Preferences: &saved}); err != nil {
		return a.machineError(err)
	}
	a.printf("Theme set to %s.\n", saved.Theme)
	return nil
}

func (a *App) report(st session.State) {
	switch st.Status {
	case session.StatusAuthenticated:
		a.printf("Signed in as %s (%s).\n", st.Identity.Name, st.Identity.Role)
	case session.StatusVerificationPending:
		p := st.Pending
		if st.Error != "" {
			a.printf("%s\n", st.Error)
		}
		a.printf("Enter the code sent by %s to %s with 'verify <code>' (%d attempts, expires %s).\n",
			p.Channel, displayIdentifier(p.Identifier), p.RemainingAttempts,
			humanize.RelTime(a.now(), p.ExpiresAt, "ago", "from now"))
	case session.StatusAuthFailed:
		a.printf("%s\n", st.Error)
	case session.StatusAnonymous:
		if st.Error != "" {
			a.printf("%s\n", st.Error)
		}
	}
}

func (a *App) machineError(err error) error {
	switch {
	case errors.Is(err, session.ErrBusy):
		return errors.New("another sign-in step is still running")
	case errors.Is(err, session.ErrInvalidTransition):
		return fmt.Errorf("not possible right now (status: %s)", a.machine.State().Status)
	}
	return errors.New(common.UserMessage(err, "Something went wrong."))
}

func displayIdentifier(identifier string) string {
	return models.FormatIdentifier(identifier, models.DetectIdentifierType(identifier))
}
