// Package revokedtokens records token ids that must no longer be accepted:
// verification tokens that were already exchanged and session tokens that
// were logged out.
package revokedtokens

import (
	"context"
	"time"
)

// Repository is a set of revoked token ids.
type Repository interface {
	// Revoke adds id to the set until expiresAt. It reports false when id was
	// already present, which makes it usable as an atomic "consume once".
	Revoke(ctx context.Context, id string, expiresAt time.Time) (bool, error)

	// IsRevoked reports whether id is in the set.
	IsRevoked(ctx context.Context, id string) (bool, error)

	// PurgeExpired drops entries whose token expired before now and returns
	// how many were removed.
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
