package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/flock/internal/flagx"
	"github.com/dmitrijs2005/flock/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations accept both "15m" and
// integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN               string          `json:"database_dsn"`
	RedisURL                  string          `json:"redis_url"`
	SessionDBPath             string          `json:"session_db_path"`
	DirectoryFile             string          `json:"directory_file"`
	SecretKey                 string          `json:"secret_key"`
	SessionTokenValidity      *timex.Duration `json:"session_token_validity"`
	VerificationTokenValidity *timex.Duration `json:"verification_token_validity"`
	PageSize                  int             `json:"page_size"`
	Language                  string          `json:"language"`
	LogLevel                  string          `json:"log_level"`
	LogFormat                 string          `json:"log_format"`
	OIDCIssuer                string          `json:"oidc_issuer"`
	OIDCClientID              string          `json:"oidc_client_id"`
	OIDCClientSecret          string          `json:"oidc_client_secret"`
	OIDCRedirectURL           string          `json:"oidc_redirect_url"`
}

// parseJson loads the file named by -c/-config in args and copies every
// field it sets into config. Without the flag nothing happens. An unreadable
// file or invalid JSON panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.SessionDBPath, c.SessionDBPath)
	setString(&config.DirectoryFile, c.DirectoryFile)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Language, c.Language)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.OIDCIssuer, c.OIDCIssuer)
	setString(&config.OIDCClientID, c.OIDCClientID)
	setString(&config.OIDCClientSecret, c.OIDCClientSecret)
	setString(&config.OIDCRedirectURL, c.OIDCRedirectURL)

	if c.SessionTokenValidity != nil {
		config.SessionTokenValidity = c.SessionTokenValidity.Duration
	}
	if c.VerificationTokenValidity != nil {
		config.VerificationTokenValidity = c.VerificationTokenValidity.Duration
	}
	if c.PageSize > 0 {
		config.PageSize = c.PageSize
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
