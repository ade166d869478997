package session

import (
	"context"

	"github.com/dmitrijs2005/flock/internal/models"
)

// CredentialStore authenticates users and manages their tokens.
type CredentialStore interface {
	Authenticate(ctx context.Context, creds models.Credentials, method models.LoginMethod) (models.AuthResult, error)
	CompleteLogin(ctx context.Context, tempToken, code string) (models.Grant, error)
	ValidateToken(ctx context.Context, token string) (models.Identity, error)
	SendCode(ctx context.Context, identifier string, channel models.Channel) (models.ChallengeInfo, error)
	Logout(ctx context.Context, token string) error
}

// PersistedSession is a durable string key/value store.
type PersistedSession interface {
	// Get reports ok=false when key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
