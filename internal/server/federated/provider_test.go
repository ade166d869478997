package federated

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

const (
	issuer   = "https://id.example.test"
	clientID = "flock-console"
)

type fakeExchanger struct {
	idToken string
	err     error
	gotCode string
}

func (f *fakeExchanger) AuthCodeURL(state string, _ ...oauth2.AuthCodeOption) string {
	return issuer + "/auth?state=" + state
}

func (f *fakeExchanger) Exchange(_ context.Context, code string, _ ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	f.gotCode = code
	if f.err != nil {
		return nil, f.err
	}
	tok := &oauth2.Token{AccessToken: "access"}
	if f.idToken == "" {
		return tok, nil
	}
	return tok.WithExtra(map[string]any{"id_token": f.idToken}), nil
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return raw
}

func newProvider(t *testing.T, ex CodeExchanger) (*Provider, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{key.Public()}}
	v := oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: clientID})
	return NewWithVerifier(ex, v), key
}

func baseClaims() jwt.MapClaims {
	now := time.Now()
	return jwt.MapClaims{
		"iss":            issuer,
		"aud":            clientID,
		"sub":            "abc",
		"email":          "admin@sda.com",
		"email_verified": true,
		"iat":            now.Unix(),
		"exp":            now.Add(time.Hour).Unix(),
	}
}

func TestEmail_Success(t *testing.T) {
	ex := &fakeExchanger{}
	p, key := newProvider(t, ex)
	ex.idToken = signIDToken(t, key, baseClaims())

	email, err := p.Email(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "admin@sda.com", email)
	assert.Equal(t, "the-code", ex.gotCode)
}

func TestEmail_Failures(t *testing.T) {
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	tests := []struct {
		name  string
		setup func(t *testing.T, ex *fakeExchanger, key *rsa.PrivateKey)
	}{
		{"exchange fails", func(t *testing.T, ex *fakeExchanger, _ *rsa.PrivateKey) {
			ex.err = errors.New("bad code")
		}},
		{"no id token", func(t *testing.T, ex *fakeExchanger, _ *rsa.PrivateKey) {}},
		{"wrong key", func(t *testing.T, ex *fakeExchanger, _ *rsa.PrivateKey) {
			ex.idToken = signIDToken(t, otherKey, baseClaims())
		}},
		{"wrong audience", func(t *testing.T, ex *fakeExchanger, key *rsa.PrivateKey) {
			c := baseClaims()
			c["aud"] = "someone-else"
			ex.idToken = signIDToken(t, key, c)
		}},
		{"unverified email", func(t *testing.T, ex *fakeExchanger, key *rsa.PrivateKey) {
			c := baseClaims()
			c["email_verified"] = false
			ex.idToken = signIDToken(t, key, c)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &fakeExchanger{}
			p, key := newProvider(t, ex)
			tt.setup(t, ex, key)

			_, err := p.Email(context.Background(), "code")
			assert.ErrorIs(t, err, common.ErrorUnauthorized)
		})
	}
}

func TestAuthURL(t *testing.T) {
	p, _ := newProvider(t, &fakeExchanger{})
	assert.True(t, strings.HasSuffix(p.AuthURL("xyz"), "state=xyz"))
}

func TestConfigEnabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.False(t, Config{Issuer: issuer}.Enabled())
	assert.True(t, Config{Issuer: issuer, ClientID: clientID}.Enabled())
}
