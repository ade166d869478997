package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// parseEnv loads envFile into the process environment when it exists and
// copies the FLOCK_* variables that are set into config. Variables already
// present in the environment win over the file. Malformed numbers and
// durations panic.
func parseEnv(config *Config, envFile string) {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				panic(err)
			}
		}
	}

	setString(&config.DatabaseDSN, os.Getenv("FLOCK_DATABASE_DSN"))
	setString(&config.RedisURL, os.Getenv("FLOCK_REDIS_URL"))
	setString(&config.SessionDBPath, os.Getenv("FLOCK_SESSION_DB"))
	setString(&config.DirectoryFile, os.Getenv("FLOCK_DIRECTORY_FILE"))
	setString(&config.SecretKey, os.Getenv("FLOCK_SECRET_KEY"))
	setString(&config.Language, os.Getenv("FLOCK_LANGUAGE"))
	setString(&config.LogLevel, os.Getenv("FLOCK_LOG_LEVEL"))
	setString(&config.LogFormat, os.Getenv("FLOCK_LOG_FORMAT"))
	setString(&config.OIDCIssuer, os.Getenv("FLOCK_OIDC_ISSUER"))
	setString(&config.OIDCClientID, os.Getenv("FLOCK_OIDC_CLIENT_ID"))
	setString(&config.OIDCClientSecret, os.Getenv("FLOCK_OIDC_CLIENT_SECRET"))
	setString(&config.OIDCRedirectURL, os.Getenv("FLOCK_OIDC_REDIRECT_URL"))

	setDuration(&config.SessionTokenValidity, os.Getenv("FLOCK_SESSION_TOKEN_VALIDITY"))
	setDuration(&config.VerificationTokenValidity, os.Getenv("FLOCK_VERIFICATION_TOKEN_VALIDITY"))

	if v := os.Getenv("FLOCK_PAGE_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		if n > 0 {
			config.PageSize = n
		}
	}
}

func setDuration(dst *time.Duration, v string) {
	if v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
