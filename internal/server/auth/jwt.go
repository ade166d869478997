// Package auth mints and parses the HS256 tokens handed to the console:
// short-lived verification tokens that bridge the two login factors, and
// session tokens.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/flock/internal/common"
	"github.com/dmitrijs2005/flock/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Purpose separates verification tokens from session tokens so that one can
// never be used in place of the other.
type Purpose string

const (
	PurposeSession      Purpose = "session"
	PurposeVerification Purpose = "verification"
)

// Claims carries the registered claims plus the user and, for verification
// tokens, the identifier and channel the code was sent to. RegisteredClaims.ID
// is unique per token and is what revocation keys on.
type Claims struct {
	jwt.RegisteredClaims
	UserID     string         `json:"uid"`
	Purpose    Purpose        `json:"purpose"`
	Identifier string         `json:"identifier,omitempty"`
	Channel    models.Channel `json:"channel,omitempty"`
}

// NewClaims returns claims with a fresh token id, issued at now and valid for
// validity.
func NewClaims(userID string, purpose Purpose, now time.Time, validity time.Duration) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validity)),
		},
		UserID:  userID,
		Purpose: purpose,
	}
}

func GenerateToken(claims Claims, secretKey []byte) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature, expiry and purpose of tokenString.
// Expired tokens yield common.ErrTokenExpired; every other defect yields
// common.ErrInvalidToken.
func ParseToken(tokenString string, purpose Purpose, secretKey []byte, opts ...jwt.ParserOption) (*Claims, error) {
	claims := &Claims{}

	opts = append([]jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}, opts...)
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: unexpected purpose %q", common.ErrInvalidToken, claims.Purpose)
	}
	if claims.ID == "" || claims.UserID == "" || claims.ExpiresAt == nil {
		return nil, fmt.Errorf("%w: incomplete claims", common.ErrInvalidToken)
	}

	return claims, nil
}
