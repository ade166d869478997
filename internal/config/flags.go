package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/flock/internal/flagx"
)

// parseFlags overlays Config fields from command-line flags.
//
// Supported flags:
//
//	-d string   PostgreSQL DSN
//	-r string   Redis URL
//	-f string   session database file
//	-m string   members/churches JSON file
//	-s string   JWT HMAC secret key
//	-t int      session token validity, minutes
//	-v int      verification token validity, minutes
//	-p int      rows per page
//	-l string   collation language (BCP 47 tag)
//	-log string         log level
//	-log-format string  "text" or "json"
//	-oidc-issuer string
//	-oidc-client-id string
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{
		"-d", "-r", "-f", "-m", "-s", "-t", "-v", "-p", "-l",
		"-log", "-log-format", "-oidc-issuer", "-oidc-client-id",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL")
	fs.StringVar(&config.SessionDBPath, "f", config.SessionDBPath, "session database file")
	fs.StringVar(&config.DirectoryFile, "m", config.DirectoryFile, "directory JSON file")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionValidity := fs.Int("t", int(config.SessionTokenValidity.Minutes()), "session token validity (in minutes)")
	verificationValidity := fs.Int("v", int(config.VerificationTokenValidity.Minutes()), "verification token validity (in minutes)")

	fs.IntVar(&config.PageSize, "p", config.PageSize, "rows per page")
	fs.StringVar(&config.Language, "l", config.Language, "collation language")
	fs.StringVar(&config.LogLevel, "log", config.LogLevel, "log level")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format")
	fs.StringVar(&config.OIDCIssuer, "oidc-issuer", config.OIDCIssuer, "OpenID Connect issuer")
	fs.StringVar(&config.OIDCClientID, "oidc-client-id", config.OIDCClientID, "OpenID Connect client id")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTokenValidity = time.Duration(*sessionValidity) * time.Minute
	config.VerificationTokenValidity = time.Duration(*verificationValidity) * time.Minute
}
