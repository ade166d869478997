// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/flock/internal/server/models"
)

// Repository looks users up by any of their identifiers. Lookups return
// common.ErrorNotFound when nothing matches.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// FindByIdentifier matches an e-mail address (case-insensitively) or a
	// normalized telephone number.
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)

	// Update stores the editable profile fields of user.
	Update(ctx context.Context, user *models.User) error
}
