package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "newswatch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
api_key: file-key
engine_id: file-cx
keywords:
  - economy
  - rates
feeds:
  Reuters: https://example.com/reuters.rss
fetch_timeout: 30s
concurrency: 3
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "file-cx", cfg.EngineID)
	assert.Equal(t, []string{"economy", "rates"}, cfg.Keywords)
	assert.Equal(t, "https://example.com/reuters.rss", cfg.Feeds["Reuters"])
	assert.Equal(t, Duration(30*time.Second), cfg.FetchTimeout)
	assert.Equal(t, 3, cfg.Concurrency)

	// Defaults fill anything the file leaves out.
	assert.Equal(t, "d1", cfg.DateRestrict)
	assert.Equal(t, "data/seen_urls.txt", cfg.SeenURLsPath)
	assert.Equal(t, 587, cfg.Email.Port)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
api_key: file-key
engine_id: file-cx
keywords: [economy]
`)

	t.Setenv("API_KEY", "env-key")
	t.Setenv("CSE_ID", "env-cx")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-cx", cfg.EngineID)
}

func TestLoad_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("API_KEY", "env-key")
	t.Setenv("CSE_ID", "env-cx")

	// Keywords cannot come from the environment, so this still fails
	// validation -- but not with a file error.
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "keywords")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "missing credentials",
			mutate:  func(c *Config) { c.APIKey = "" },
			wantErr: "credentials",
		},
		{
			name:    "missing engine id",
			mutate:  func(c *Config) { c.EngineID = "" },
			wantErr: "credentials",
		},
		{
			name:    "missing keywords",
			mutate:  func(c *Config) { c.Keywords = nil },
			wantErr: "keywords",
		},
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.APIKey = "k"
			cfg.EngineID = "cx"
			cfg.Keywords = []string{"economy"}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
