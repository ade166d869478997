// Package metadata is a small key/value table in the console's SQLite file.
// The persisted session lives here.
package metadata

import "context"

// Repository stores string values by key.
type Repository interface {
	// Get reports ok=false for a missing key.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key; removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}
