// Package federated signs users in through an external OpenID Connect
// provider: the console obtains an authorization code, the provider turns it
// into a verified e-mail address.
package federated

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dmitrijs2005/flock/internal/common"
	"golang.org/x/oauth2"
)

// ErrEmailNotVerified is returned when the provider vouches for an account
// without a verified e-mail address.
var ErrEmailNotVerified = errors.New("federated account has no verified email")

type Config struct {
	Issuer       string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// Enabled reports whether enough is configured to attempt discovery.
func (c Config) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

// CodeExchanger is the part of *oauth2.Config the provider uses.
type CodeExchanger interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
}

type Provider struct {
	exchanger CodeExchanger
	verifier  *oidc.IDTokenVerifier
}

// New discovers the issuer's endpoints and keys.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	p, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("oidc provider: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     p.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	return NewWithVerifier(oauthCfg, p.Verifier(&oidc.Config{ClientID: cfg.ClientID})), nil
}

func NewWithVerifier(ex CodeExchanger, v *oidc.IDTokenVerifier) *Provider {
	return &Provider{exchanger: ex, verifier: v}
}

// AuthURL is where the user goes to obtain an authorization code.
func (p *Provider) AuthURL(state string) string {
	return p.exchanger.AuthCodeURL(state, oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Email exchanges code and returns the verified e-mail address from the ID
// token.
func (p *Provider) Email(ctx context.Context, code string) (string, error) {
	token, err := p.exchanger.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: exchange code: %v", common.ErrorUnauthorized, err)
	}

	raw, ok := token.Extra("id_token").(string)
	if !ok || raw == "" {
		return "", fmt.Errorf("%w: no id_token in response", common.ErrorUnauthorized)
	}

	idToken, err := p.verifier.Verify(ctx, raw)
	if err != nil {
		return "", fmt.Errorf("%w: verify id_token: %v", common.ErrorUnauthorized, err)
	}

	var claims struct {
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return "", fmt.Errorf("%w: parse id_token claims: %v", common.ErrorUnauthorized, err)
	}
	if claims.Sub == "" || claims.Email == "" || !claims.EmailVerified {
		return "", fmt.Errorf("%w: %w", common.ErrorUnauthorized, ErrEmailNotVerified)
	}
	return claims.Email, nil
}
