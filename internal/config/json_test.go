package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"database_dsn":                "postgres://db",
		"redis_url":                   "redis://cache:6379/0",
		"session_db_path":             "/tmp/session.db",
		"secret_key":                  "my_secret_key",
		"session_token_validity":      "2h",
		"verification_token_validity": 300000000000,
		"page_size":                   25,
		"language":                    "sv",
		"oidc_issuer":                 "https://id.example",
		"oidc_client_id":              "console",
	})

	t.Run("loads from json", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-config", path})

		assert.Equal(t, "postgres://db", cfg.DatabaseDSN)
		assert.Equal(t, "redis://cache:6379/0", cfg.RedisURL)
		assert.Equal(t, "/tmp/session.db", cfg.SessionDBPath)
		assert.Equal(t, "my_secret_key", cfg.SecretKey)
		assert.Equal(t, 2*time.Hour, cfg.SessionTokenValidity)
		assert.Equal(t, 5*time.Minute, cfg.VerificationTokenValidity)
		assert.Equal(t, 25, cfg.PageSize)
		assert.Equal(t, "sv", cfg.Language)
		assert.Equal(t, "https://id.example", cfg.OIDCIssuer)
		assert.Equal(t, "console", cfg.OIDCClientID)
	})

	t.Run("absent fields keep defaults", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		parseJson(cfg, []string{"-c", writeTempJSON(t, map[string]any{"page_size": 5})})

		assert.Equal(t, 5, cfg.PageSize)
		assert.Equal(t, "flock.db", cfg.SessionDBPath)
		assert.Equal(t, 24*time.Hour, cfg.SessionTokenValidity)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("no config flag leaves config untouched", func(t *testing.T) {
		cfg := &Config{}
		cfg.LoadDefaults()
		want := *cfg
		parseJson(cfg, []string{"-p", "50"})
		assert.Equal(t, want, *cfg)
	})

	t.Run("missing file panics", func(t *testing.T) {
		assert.Panics(t, func() {
			parseJson(&Config{}, []string{"-c", filepath.Join(t.TempDir(), "nope.json")})
		})
	})

	t.Run("invalid json panics", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte("{"), 0o600))
		assert.Panics(t, func() { parseJson(&Config{}, []string{"-c", bad}) })
	})
}
