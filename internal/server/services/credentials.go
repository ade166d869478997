// Package services contains server-side business logic. This file implements
// CredentialService: password and federated login, second-factor completion,
// token validation and revocation, and profile updates.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/config"
	"github.com/dmitrijs2005/flock/internal/cryptox"
	"github.com/dmitrijs2005/flock/internal/dbx"
	"github.com/dmitrijs2005/flock/internal/logging"
	"github.com/dmitrijs2005/flock/internal/models"
	"github.com/dmitrijs2005/flock/internal/server/auth"
	srvmodels "github.com/dmitrijs2005/flock/internal/server/models"
	"github.com/dmitrijs2005/flock/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/flock/internal/server/repositories/users"
	"github.com/dmitrijs2005/flock/internal/server/verification"
	"github.com/golang-jwt/jwt/v5"
)

// Verifier issues and checks second-factor codes.
type Verifier interface {
	Send(ctx context.Context, identifier string, channel models.Channel) (models.ChallengeInfo, error)
	Resend(ctx context.Context, identifier string, channel models.Channel) (models.ChallengeInfo, error)
	Validate(ctx context.Context, identifier string, channel models.Channel, code string) error
}

// FederatedIdentity resolves an authorization code to a verified e-mail.
type FederatedIdentity interface {
	Email(ctx context.Context, code string) (string, error)
}

var _ Verifier = (*verification.Service)(nil)

// CredentialService authenticates users against the user directory.
type CredentialService struct {
	db                        *sql.DB
	repomanager               repomanager.RepositoryManager
	verifier                  Verifier
	federated                 FederatedIdentity
	log                       logging.Logger
	jwtSecret                 []byte
	sessionTokenValidity      time.Duration
	verificationTokenValidity time.Duration
	now                       func() time.Time
}

// NewCredentialService wires the service. db may be nil when m does not need
// a handle. federated may be nil, which disables federated login.
func NewCredentialService(db *sql.DB, m repomanager.RepositoryManager, v Verifier, federated FederatedIdentity,
	cfg *config.Config, log logging.Logger) *CredentialService {
	return &CredentialService{
		db:                        db,
		repomanager:               m,
		verifier:                  v,
		federated:                 federated,
		log:                       log,
		jwtSecret:                 []byte(cfg.SecretKey),
		sessionTokenValidity:      cfg.SessionTokenValidity,
		verificationTokenValidity: cfg.VerificationTokenValidity,
		now:                       time.Now,
	}
}

// Authenticate runs the first login step. A local login that passes the
// password check always requires verification; a federated login yields a
// session directly.
func (s *CredentialService) Authenticate(ctx context.Context, creds models.Credentials, method models.LoginMethod) (models.AuthResult, error) {
	switch method {
	case models.LoginLocal:
		return s.authenticateLocal(ctx, creds)
	case models.LoginFederated:
		return s.authenticateFederated(ctx, creds.Code)
	}
	return models.AuthResult{}, fmt.Errorf("%w: unknown login method %q", common.ErrValidation, method)
}

func (s *CredentialService) authenticateLocal(ctx context.Context, creds models.Credentials) (models.AuthResult, error) {
	if err := creds.Validate(); err != nil {
		return models.AuthResult{}, err
	}

	identifier := models.NormalizeIdentifier(creds.Identifier, creds.IdentifierType)

	user, err := s.repomanager.Users(s.db).FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// keep timing close to a real check
			_ = cryptox.HashPassword([]byte(creds.Password), cryptox.NewSalt())
			return models.AuthResult{}, common.ErrorUnauthorized
		}
		return models.AuthResult{}, s.unavailable(ctx, "find user", err)
	}

	if !cryptox.VerifyPassword([]byte(creds.Password), user.Salt, user.PasswordHash) {
		s.log.Info(ctx, "password rejected", "user_id", user.ID)
		return models.AuthResult{}, common.ErrorUnauthorized
	}

	channel := models.ChannelFor(creds.IdentifierType)
	info, err := s.verifier.Send(ctx, identifier, channel)
	if err != nil {
		return models.AuthResult{}, err
	}

	temp, err := s.verificationToken(user.ID, identifier, channel)
	if err != nil {
		return models.AuthResult{}, err
	}

	s.log.Info(ctx, "verification required", "user_id", user.ID, "channel", string(channel))

	return models.AuthResult{
		RequiresVerification: true,
		Pending: models.PendingVerification{
			Identifier:        identifier,
			Channel:           channel,
			TempToken:         temp,
			ExpiresAt:         info.ExpiresAt,
			RemainingAttempts: info.MaxAttempts,
		},
	}, nil
}

func (s *CredentialService) authenticateFederated(ctx context.Context, code string) (models.AuthResult, error) {
	if s.federated == nil {
		return models.AuthResult{}, fmt.Errorf("%w: federated login is not configured", common.ErrUnavailable)
	}
	if code == "" {
		return models.AuthResult{}, fmt.Errorf("%w: authorization code is required", common.ErrValidation)
	}

	email, err := s.federated.Email(ctx, code)
	if err != nil {
		return models.AuthResult{}, err
	}

	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.AuthResult{}, common.ErrorUnauthorized
		}
		return models.AuthResult{}, s.unavailable(ctx, "find user", err)
	}

	token, err := s.sessionToken(user.ID)
	if err != nil {
		return models.AuthResult{}, err
	}
	s.log.Info(ctx, "federated login", "user_id", user.ID)
	return models.AuthResult{Identity: user.Identity(), Token: token}, nil
}

// CompleteLogin exchanges a verification token and the code the user
// received for a session. Each verification token is accepted once.
func (s *CredentialService) CompleteLogin(ctx context.Context, tempToken, code string) (models.Grant, error) {
	claims, err := auth.ParseToken(tempToken, auth.PurposeVerification, s.jwtSecret, jwt.WithTimeFunc(s.now))
	if err != nil {
		return models.Grant{}, err
	}

	revoked := s.repomanager.RevokedTokens(s.db)

	used, err := revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return models.Grant{}, s.unavailable(ctx, "check token", err)
	}
	if used {
		return models.Grant{}, common.ErrTokenReused
	}

	if err := s.verifier.Validate(ctx, claims.Identifier, claims.Channel, code); err != nil {
		return models.Grant{}, err
	}

	added, err := revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
	if err != nil {
		return models.Grant{}, s.unavailable(ctx, "consume token", err)
	}
	if !added {
		return models.Grant{}, common.ErrTokenReused
	}

	user, err := s.repomanager.Users(s.db).FindByID(ctx, claims.UserID)
	if err != nil {
		return models.Grant{}, s.lookupError(ctx, err)
	}

	token, err := s.sessionToken(user.ID)
	if err != nil {
		return models.Grant{}, err
	}
	s.log.Info(ctx, "login completed", "user_id", user.ID)
	return models.Grant{Identity: user.Identity(), Token: token}, nil
}

// ValidateToken returns the identity behind a live session token.
func (s *CredentialService) ValidateToken(ctx context.Context, token string) (models.Identity, error) {
	user, _, err := s.sessionUser(ctx, token)
	if err != nil {
		return models.Identity{}, err
	}
	return user.Identity(), nil
}

// SendCode replaces the outstanding code for identifier and issues a fresh
// verification token, so the new code stays redeemable for the full token
// lifetime.
func (s *CredentialService) SendCode(ctx context.Context, identifier string, channel models.Channel) (models.ChallengeInfo, error) {
	if identifier == "" {
		return models.ChallengeInfo{}, fmt.Errorf("%w: identifier is required", common.ErrValidation)
	}

	user, err := s.repomanager.Users(s.db).FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.ChallengeInfo{}, common.ErrorUnauthorized
		}
		return models.ChallengeInfo{}, s.unavailable(ctx, "find user", err)
	}

	info, err := s.verifier.Resend(ctx, identifier, channel)
	if err != nil {
		return models.ChallengeInfo{}, err
	}

	info.TempToken, err = s.verificationToken(user.ID, identifier, channel)
	if err != nil {
		return models.ChallengeInfo{}, err
	}
	return info, nil
}

// Logout revokes a session token for the rest of its lifetime. Tokens that
// are already invalid are ignored.
func (s *CredentialService) Logout(ctx context.Context, token string) error {
	claims, err := auth.ParseToken(token, auth.PurposeSession, s.jwtSecret, jwt.WithTimeFunc(s.now))
	if err != nil {
		if common.IsAuthentication(err) {
			return nil
		}
		return err
	}
	if _, err := s.repomanager.RevokedTokens(s.db).Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return s.unavailable(ctx, "revoke token", err)
	}
	s.log.Info(ctx, "logged out", "user_id", claims.UserID)
	return nil
}

// UpdateProfile applies patch to the user behind token and returns the
// stored identity. Role and id are not editable.
func (s *CredentialService) UpdateProfile(ctx context.Context, token string, patch models.IdentityPatch) (models.Identity, error) {
	var out models.Identity
	err := s.withTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		user, _, err := s.sessionUserFrom(ctx, repo, token)
		if err != nil {
			return err
		}

		next := user.Identity().Apply(patch)
		if next.Email != "" {
			if err := models.ValidateIdentifier(next.Email, models.IdentifierEmail); err != nil {
				return err
			}
		}
		if next.Telephone != "" {
			if err := models.ValidateIdentifier(next.Telephone, models.IdentifierPhone); err != nil {
				return err
			}
		}
		if next.Email == "" && next.Telephone == "" {
			return fmt.Errorf("%w: email or telephone is required", common.ErrValidation)
		}

		user.ApplyIdentity(next)
		if err := repo.Update(ctx, user); err != nil {
			return s.lookupError(ctx, err)
		}
		out = user.Identity()
		return nil
	})
	return out, err
}

// UpdatePreferences replaces the preferences of the user behind token.
func (s *CredentialService) UpdatePreferences(ctx context.Context, token string, prefs models.Preferences) (models.Identity, error) {
	return s.UpdateProfile(ctx, token, models.IdentityPatch{Preferences: &prefs})
}

// DemoCredential describes one built-in account.
type DemoCredential struct {
	Identifier     string
	IdentifierType models.IdentifierType
	Password       string
	Role           models.Role
}

// DemoCredentials lists the built-in accounts seeded into the in-memory
// directory.
func DemoCredentials() []DemoCredential {
	var out []DemoCredential
	for _, u := range users.DemoUsers() {
		c := DemoCredential{Password: users.DemoPassword, Role: u.Role}
		if u.Email != "" {
			c.Identifier, c.IdentifierType = u.Email, models.IdentifierEmail
		} else {
			c.Identifier, c.IdentifierType = u.Telephone, models.IdentifierPhone
		}
		out = append(out, c)
	}
	return out
}

// --- helpers below ---

// withTx runs fn in a transaction when the service has a database and
// directly otherwise.
func (s *CredentialService) withTx(ctx context.Context, fn func(ctx context.Context, tx dbx.DBTX) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return dbx.WithTx(ctx, s.db, nil, fn)
}

func (s *CredentialService) verificationToken(userID, identifier string, channel models.Channel) (string, error) {
	claims := auth.NewClaims(userID, auth.PurposeVerification, s.now(), s.verificationTokenValidity)
	claims.Identifier = identifier
	claims.Channel = channel
	token, err := auth.GenerateToken(claims, s.jwtSecret)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *CredentialService) sessionToken(userID string) (string, error) {
	token, err := auth.GenerateToken(auth.NewClaims(userID, auth.PurposeSession, s.now(), s.sessionTokenValidity), s.jwtSecret)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

func (s *CredentialService) sessionUser(ctx context.Context, token string) (*srvmodels.User, *auth.Claims, error) {
	return s.sessionUserFrom(ctx, s.repomanager.Users(s.db), token)
}

func (s *CredentialService) sessionUserFrom(ctx context.Context, repo users.Repository, token string) (*srvmodels.User, *auth.Claims, error) {
	claims, err := auth.ParseToken(token, auth.PurposeSession, s.jwtSecret, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, nil, err
	}

	revoked, err := s.repomanager.RevokedTokens(s.db).IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, s.unavailable(ctx, "check token", err)
	}
	if revoked {
		return nil, nil, fmt.Errorf("%w: token revoked", common.ErrInvalidToken)
	}

	user, err := repo.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, nil, s.lookupError(ctx, err)
	}
	return user, claims, nil
}

// lookupError keeps not-found and validation failures and reports anything
// else as the directory being unavailable.
func (s *CredentialService) lookupError(ctx context.Context, err error) error {
	if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrValidation) {
		return err
	}
	return s.unavailable(ctx, "user directory", err)
}

func (s *CredentialService) unavailable(ctx context.Context, op string, err error) error {
	s.log.Error(ctx, "credential store failure", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %v", common.ErrUnavailable, op, err)
}
