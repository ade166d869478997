// Package repomanager hands out repositories bound to a database handle, so
// services can run the same code against *sql.DB or inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/flock/internal/dbx"
	"github.com/dmitrijs2005/flock/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/flock/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RevokedTokens(db dbx.DBTX) revokedtokens.Repository
}

// WithRevokedTokens returns m with its revoked-token store replaced by r, for
// deployments that keep the ledger outside the user database.
func WithRevokedTokens(m RepositoryManager, r revokedtokens.Repository) RepositoryManager {
	return &revokedOverride{RepositoryManager: m, revoked: r}
}

type revokedOverride struct {
	RepositoryManager
	revoked revokedtokens.Repository
}

func (o *revokedOverride) RevokedTokens(dbx.DBTX) revokedtokens.Repository { return o.revoked }
