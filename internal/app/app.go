// Package app is the composition root of the flock console. It builds the
// credential service, the session machine and the REPL from configuration
// and runs them until the user exits or a signal arrives.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/flock/internal/client/cli"
	"github.com/dmitrijs2005/flock/internal/client/directory"
	"github.com/dmitrijs2005/flock/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/flock/internal/client/session"
	"github.com/dmitrijs2005/flock/internal/client/storage"
	"github.com/dmitrijs2005/flock/internal/config"
	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/server/federated"
	"github.com/dmitrijs2005/flock/internal/server/repositories/challenges"
	"github.com/dmitrijs2005/flock/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flock/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/flock/internal/server/repositories/users"
	"github.com/dmitrijs2005/flock/internal/server/services"
	"github.com/dmitrijs2005/flock/internal/server/verification"
	"golang.org/x/text/language"
)

// purgeInterval is how often expired revocations are dropped.
const purgeInterval = 10 * time.Minute

// shutdownTimeout bounds how long Run waits for the console after the
// context ends before resources are closed.
var shutdownTimeout = 3 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	serve   func(context.Context)
	revoked revokedtokens.Repository
	closers []io.Closer
}

// Options overrides process-level I/O, mainly for tests.
type Options struct {
	In     io.Reader
	Out    io.Writer
	LogOut io.Writer
}

func NewApp(ctx context.Context, c *config.Config, o Options) (*App, error) {
	if o.LogOut == nil {
		o.LogOut = os.Stderr
	}
	logger := logging.New(c.LogLevel, c.LogFormat, o.LogOut)

	app := &App{config: c, logger: logger}
	ok := false
	defer func() {
		if !ok {
			app.Close()
		}
	}()

	db, manager, err := app.initRepositories(ctx)
	if err != nil {
		return nil, err
	}

	store, err := app.initChallengeStore(ctx, &manager)
	if err != nil {
		return nil, err
	}
	app.revoked = manager.RevokedTokens(db)

	verifier := verification.NewService(store, verification.LogSender{Log: logger.With("component", "verification")}, logger)

	var fed services.FederatedIdentity
	var authURL func(string) string
	fcfg := federated.Config{
		Issuer: c.OIDCIssuer, ClientID: c.OIDCClientID,
		ClientSecret: c.OIDCClientSecret, RedirectURL: c.OIDCRedirectURL,
	}
	if fcfg.Enabled() {
		p, err := federated.New(ctx, fcfg)
		if err != nil {
			logger.Warn(ctx, "federated login disabled", "error", err)
		} else {
			fed, authURL = p, p.AuthURL
		}
	}

	creds := services.NewCredentialService(db, manager, verifier, fed, c, logger.With("component", "credentials"))

	sessionDB, err := storage.InitDatabase(ctx, c.SessionDBPath)
	if err != nil {
		return nil, fmt.Errorf("session store init error: %w", err)
	}
	app.closers = append(app.closers, sessionDB)
	persisted := metadata.NewSQLiteRepository(sessionDB)

	dir, err := app.initDirectory()
	if err != nil {
		return nil, err
	}

	lang, err := language.Parse(c.Language)
	if err != nil {
		logger.Warn(ctx, "unknown language, using English", "language", c.Language)
		lang = language.English
	}

	machine := session.NewMachine(creds, persisted, logger)
	machine.Subscribe(func(st session.State) {
		logger.Debug(context.Background(), "session state changed", "status", st.Status, "loading", st.Loading)
	})

	console := cli.NewApp(cli.Options{
		Machine:   machine,
		Persisted: persisted,
		Profiles:  creds,
		Directory: dir,
		Demo:      demoAccounts(),
		AuthURL:   authURL,
		PageSize:  c.PageSize,
		Language:  lang,
		Log:       logger,
		In:        o.In,
		Out:       o.Out,
	})
	app.serve = console.Run

	ok = true
	return app, nil
}

// initRepositories selects PostgreSQL when a DSN is configured and the demo
// accounts in memory otherwise.
func (app *App) initRepositories(ctx context.Context) (*sql.DB, repomanager.RepositoryManager, error) {
	if app.config.DatabaseDSN == "" {
		app.logger.Info(ctx, "no database configured, using demo accounts")
		return nil, repomanager.NewInMemoryRepositoryManager(users.NewMemoryRepository(users.DemoUsers()...)), nil
	}

	db, err := repomanager.OpenPostgres(ctx, app.config.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db)

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		return nil, nil, fmt.Errorf("db migration error: %w", err)
	}
	return db, m, nil
}

// initChallengeStore uses Redis for challenges and the revocation ledger
// when configured.
func (app *App) initChallengeStore(ctx context.Context, m *repomanager.RepositoryManager) (challenges.Repository, error) {
	if app.config.RedisURL == "" {
		return challenges.NewMemoryRepository(), nil
	}

	rdb, err := repomanager.OpenRedis(ctx, app.config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("redis init error: %w", err)
	}
	app.closers = append(app.closers, rdb)

	*m = repomanager.WithRevokedTokens(*m, revokedtokens.NewRedisRepository(rdb))
	return challenges.NewRedisRepository(rdb), nil
}

var _ session.CredentialStore = (*services.CredentialService)(nil)

func (app *App) initDirectory() (directory.Source, error) {
	if app.config.DirectoryFile != "" {
		return directory.NewFileSource(app.config.DirectoryFile), nil
	}
	return directory.Demo()
}

func demoAccounts() []cli.DemoAccount {
	var out []cli.DemoAccount
	for _, d := range services.DemoCredentials() {
		out = append(out, cli.DemoAccount{Identifier: d.Identifier, Password: d.Password, Role: d.Role})
	}
	return out
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// startRevocationJanitor drops expired revocations until ctx ends.
func (app *App) startRevocationJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := app.revoked.PurgeExpired(ctx, time.Now())
			if err != nil {
				app.logger.Warn(ctx, "purge revoked tokens", "error", err)
			} else if n > 0 {
				app.logger.Debug(ctx, "purged revoked tokens", "count", n)
			}
		case <-ctx.Done():
			return
		}
	}
}

// Run serves the console until the user exits or the process is signalled,
// then releases resources.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.Close()

	app.initSignalHandler(cancelFunc)
	go app.startRevocationJanitor(ctx, purgeInterval)

	done := make(chan struct{})
	go func() {
		defer close(done)
		app.serve(ctx)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		app.logger.Info(ctx, "interrupted, shutting down")
		select {
		case <-done:
		case <-time.After(shutdownTimeout):
			app.logger.Warn(ctx, "console still busy, closing anyway")
		}
	}
}

// Close releases every resource opened by NewApp, newest first.
func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Warn(context.Background(), "close", "error", err)
		}
	}
	app.closers = nil
}
