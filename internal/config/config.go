// Package config handles configuration for the flock console, including
// defaults, a JSON overlay and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings.
//
// Fields:
//   - DatabaseDSN: PostgreSQL DSN (pgx) of the user directory. Empty selects
//     the built-in demo accounts held in memory.
//   - RedisURL: Redis URL for verification challenges and revoked tokens.
//     Empty keeps both in memory.
//   - SessionDBPath: SQLite file holding the persisted console session.
//   - DirectoryFile: JSON file with members and churches. Empty selects the
//     bundled demo directory.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default
//     outside development.
//   - SessionTokenValidity / VerificationTokenValidity: token lifetimes.
//   - PageSize, Language: initial table settings.
//   - OIDC*: federated login; disabled unless issuer and client id are set.
type Config struct {
	DatabaseDSN               string
	RedisURL                  string
	SessionDBPath             string
	DirectoryFile             string
	SecretKey                 string
	SessionTokenValidity      time.Duration
	VerificationTokenValidity time.Duration
	PageSize                  int
	Language                  string
	LogLevel                  string
	LogFormat                 string
	OIDCIssuer                string
	OIDCClientID              string
	OIDCClientSecret          string
	OIDCRedirectURL           string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = ""
	c.RedisURL = ""
	c.SessionDBPath = "flock.db"
	c.DirectoryFile = ""
	c.SecretKey = "secretKey"
	c.SessionTokenValidity = 24 * time.Hour
	c.VerificationTokenValidity = 15 * time.Minute
	c.PageSize = 10
	c.Language = "en"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.OIDCRedirectURL = "urn:ietf:wg:oauth:2.0:oob"
}

// LoadConfig builds a Config by applying defaults, then overlaying FLOCK_*
// environment variables (a .env file in the working directory is loaded
// first), an optional JSON file and finally command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg, ".env")
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	return cfg
}
