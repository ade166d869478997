package cli

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/flock/internal/client/directory"
	"github.com/dmitrijs2005/flock/internal/client/models"
	"github.com/dmitrijs2005/flock/internal/client/session"
	"github.com/dmitrijs2005/flock/internal/client/table"
	"github.com/dmitrijs2005/flock/internal/logging"
	domain "github.com/dmitrijs2005/flock/internal/models"
	"golang.org/x/text/language"
)

// ProfileStore persists preference changes for the signed-in user.
type ProfileStore interface {
	UpdatePreferences(ctx context.Context, token string, prefs domain.Preferences) (domain.Identity, error)
}

// DemoAccount is a built-in login shown by the "demo" command.
type DemoAccount struct {
	Identifier string
	Password   string
	Role       domain.Role
}

// Options wires an App.
type Options struct {
	Machine   *session.Machine
	Persisted session.PersistedSession
	Profiles  ProfileStore
	Directory directory.Source
	Demo      []DemoAccount
	// AuthURL returns the provider login page for state; nil disables "sso".
	AuthURL  func(state string) string
	PageSize int
	Language language.Tag
	Log      logging.Logger
	In       io.Reader
	Out      io.Writer
}

type App struct {
	machine   *session.Machine
	persisted session.PersistedSession
	profiles  ProfileStore
	dir       directory.Source
	demo      []DemoAccount
	authURL   func(state string) string
	log       logging.Logger

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time

	members  *view[models.Member]
	churches *view[models.Church]
	active   string
}

func NewApp(o Options) *App {
	if o.In == nil {
		o.In = os.Stdin
	}
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Log == nil {
		o.Log = logging.Discard()
	}
	if o.PageSize <= 0 {
		o.PageSize = table.DefaultPageSize
	}
	if o.Language == language.Und {
		o.Language = language.English
	}

	return &App{
		machine:   o.Machine,
		persisted: o.Persisted,
		profiles:  o.Profiles,
		dir:       o.Directory,
		demo:      o.Demo,
		authURL:   o.AuthURL,
		log:       o.Log,
		reader:    bufio.NewReader(o.In),
		out:       o.Out,
		now:       time.Now,
		members: newView(viewMembers, directory.MemberSchema, directory.MemberFilters, o.PageSize, o.Language,
			o.Directory.Members, domain.RoleAdmin, domain.RoleModerator),
		churches: newView(viewChurches, directory.ChurchSchema, directory.ChurchFilters, o.PageSize, o.Language,
			o.Directory.Churches),
	}
}

// Run restores a persisted session, then serves commands until the input
// ends or the user exits.
func (a *App) Run(ctx context.Context) {
	a.printf("Welcome to flock (type 'help' for commands)\n")

	if _, err := a.Resume(ctx); err != nil {
		a.log.Warn(ctx, "resume session", "error", err)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool {
	return a.machine.State().IsAuthenticated
}

func (a *App) status() string {
	st := a.machine.State()
	switch st.Status {
	case session.StatusAuthenticated:
		return st.Identity.Identifier()
	case session.StatusVerificationPending:
		return "verify"
	}
	return ""
}
