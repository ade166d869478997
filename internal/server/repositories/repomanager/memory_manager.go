package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/flock/internal/dbx"
	"github.com/dmitrijs2005/flock/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/flock/internal/server/repositories/users"
)

// InMemoryRepositoryManager serves the same in-memory repositories regardless
// of the handle it is given. It backs the console when no database is
// configured.
type InMemoryRepositoryManager struct {
	users   *users.MemoryRepository
	revoked *revokedtokens.MemoryRepository
}

func NewInMemoryRepositoryManager(u *users.MemoryRepository) *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: u, revoked: revokedtokens.NewMemoryRepository()}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository { return m.users }

func (m *InMemoryRepositoryManager) RevokedTokens(dbx.DBTX) revokedtokens.Repository {
	return m.revoked
}
