// Package challenges stores outstanding verification challenges, one per
// login identifier.
package challenges

import (
	"context"
	"time"

	"github.com/dmitrijs2005/flock/internal/models"
)

// Repository keeps at most one challenge per identifier.
type Repository interface {
	// Put stores c under c.Identifier, replacing any previous challenge.
	// Stores may drop the entry once ttl has passed.
	Put(ctx context.Context, c models.Challenge, ttl time.Duration) error

	// Get returns common.ErrorNotFound when there is no challenge.
	Get(ctx context.Context, identifier string) (*models.Challenge, error)

	// Delete removes the challenge; deleting a missing one is not an error.
	Delete(ctx context.Context, identifier string) error
}
