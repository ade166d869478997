package models

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dmitrijs2005/flock/internal/common"
)

// IdentifierType tells how the login identifier should be interpreted.
type IdentifierType string

const (
	IdentifierEmail IdentifierType = "email"
	IdentifierPhone IdentifierType = "phone"
)

// Channel is the delivery channel of a verification code.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// ChannelFor returns the delivery channel implied by an identifier type.
func ChannelFor(t IdentifierType) Channel {
	if t == IdentifierPhone {
		return ChannelSMS
	}
	return ChannelEmail
}

// LoginMethod records how a session was obtained.
type LoginMethod string

const (
	LoginLocal     LoginMethod = "local"
	LoginFederated LoginMethod = "federated"
)

// Valid reports whether m is a known login method.
func (m LoginMethod) Valid() bool {
	return m == LoginLocal || m == LoginFederated
}

// Credentials are submitted to start a login. For federated logins Code holds
// the authorization code returned by the identity provider and the other
// fields are ignored.
type Credentials struct {
	Identifier     string
	Password       string
	IdentifierType IdentifierType
	Code           string
}

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)
	phoneStrip = regexp.MustCompile(`[^\d+]`)
)

// ValidateIdentifier checks the identifier's shape for its type.
func ValidateIdentifier(identifier string, t IdentifierType) error {
	switch t {
	case IdentifierEmail:
		if !emailRe.MatchString(identifier) {
			return fmt.Errorf("%w: invalid email address", common.ErrValidation)
		}
	case IdentifierPhone:
		if !phoneRe.MatchString(phoneStrip.ReplaceAllString(identifier, "")) {
			return fmt.Errorf("%w: invalid phone number", common.ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown identifier type %q", common.ErrValidation, t)
	}
	return nil
}

// Validate checks a local login submission.
func (c Credentials) Validate() error {
	if strings.TrimSpace(c.Identifier) == "" {
		return fmt.Errorf("%w: identifier is required", common.ErrValidation)
	}
	if c.Password == "" {
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	return ValidateIdentifier(strings.TrimSpace(c.Identifier), c.IdentifierType)
}

// DetectIdentifierType guesses the identifier type from its shape.
func DetectIdentifierType(identifier string) IdentifierType {
	if strings.Contains(identifier, "@") {
		return IdentifierEmail
	}
	return IdentifierPhone
}

// FormatIdentifier renders an identifier for display. Ten-digit phone
// numbers become "(555) 123-4567"; anything else is returned unchanged.
func FormatIdentifier(identifier string, t IdentifierType) string {
	if t != IdentifierPhone {
		return identifier
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, identifier)
	if len(digits) != 10 {
		return identifier
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// NormalizeIdentifier returns the canonical lookup form of an identifier:
// lower-cased e-mail addresses and phone numbers reduced to digits and an
// optional leading '+'.
func NormalizeIdentifier(identifier string, t IdentifierType) string {
	identifier = strings.TrimSpace(identifier)
	if t == IdentifierPhone {
		return phoneStrip.ReplaceAllString(identifier, "")
	}
	return strings.ToLower(identifier)
}
