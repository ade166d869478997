package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{
				"-d", "postgres://db", "-r", "redis://localhost:6379/1", "-f", "s.db", "-m", "dir.json",
				"-s", "secret", "-t", "60", "-v", "5", "-p", "25", "-l", "de",
				"-log", "debug", "-log-format", "json",
				"-oidc-issuer", "https://id.example", "-oidc-client-id", "console",
			},
			expected: &Config{
				DatabaseDSN:               "postgres://db",
				RedisURL:                  "redis://localhost:6379/1",
				SessionDBPath:             "s.db",
				DirectoryFile:             "dir.json",
				SecretKey:                 "secret",
				SessionTokenValidity:      time.Hour,
				VerificationTokenValidity: 5 * time.Minute,
				PageSize:                  25,
				Language:                  "de",
				LogLevel:                  "debug",
				LogFormat:                 "json",
				OIDCIssuer:                "https://id.example",
				OIDCClientID:              "console",
			},
		},
		{
			name:     "foreign flags are ignored",
			args:     []string{"-c", "cfg.json", "-x", "1", "-p", "5"},
			expected: &Config{PageSize: 5},
		},
		{
			name:        "bad int panics",
			args:        []string{"-p", "many"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config, tt.args) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config, tt.args) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}

func TestLoadConfig_DefaultsJsonFlagsPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, map[string]any{"page_size": 25, "language": "fr"})
	os.Args = []string{"flock", "-c", path, "-p", "50"}

	cfg := LoadConfig()

	assert.Equal(t, 50, cfg.PageSize)
	assert.Equal(t, "fr", cfg.Language)
	assert.Equal(t, "secretKey", cfg.SecretKey)
	assert.Equal(t, 15*time.Minute, cfg.VerificationTokenValidity)
}
