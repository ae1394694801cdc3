package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GITHUB_TOKEN", "GOOGLE_API_KEY", "ANTHROPIC_API_KEY", "GITHUB_WEBHOOK_SECRET", "PORT",
		"INSPECTOR_GITHUB_TOKEN", "INSPECTOR_LLM_PROVIDER", "INSPECTOR_MAX_PR_LINES", "INSPECTOR_PORT",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFrom_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfigFrom(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 5*time.Minute, cfg.Server.RequestTimeout)
	assert.Equal(t, "", cfg.GitHub.Token)
	assert.Equal(t, ProviderGemini, cfg.AI.LLMProvider)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
	assert.Equal(t, 500, cfg.Quality.MaxPRLines)
	assert.Equal(t, 80, cfg.Quality.CoverageThreshold)
	assert.True(t, cfg.Quality.LintStrict)
	assert.True(t, cfg.Quality.AutoApprove)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "commits.db", filepath.Base(cfg.Database.Path))
	assert.False(t, cfg.GitHub.AllowUnsigned)
	assert.Equal(t, 5, cfg.MaxWorkers)
}

func TestLoadConfigFrom_FileMergedOverDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"github_token": "file-token", "max_pr_lines": 1200, "auto_approve": false}`)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "file-token", cfg.GitHub.Token)
	assert.Equal(t, 1200, cfg.Quality.MaxPRLines)
	assert.False(t, cfg.Quality.AutoApprove)
	// untouched keys keep their defaults
	assert.Equal(t, 80, cfg.Quality.CoverageThreshold)
	assert.Equal(t, "gemini-2.0-flash", cfg.AI.Model)
}

func TestLoadConfigFrom_EnvironmentWins(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"github_token": "file-token", "port": "9000"}`)
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("PORT", "9999")
	t.Setenv("INSPECTOR_MAX_PR_LINES", "42")

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.GitHub.Token)
	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 42, cfg.Quality.MaxPRLines)
}

func TestLoadConfigFrom_InvalidFileFallsBack(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `{"github_token": `)

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "", cfg.GitHub.Token)
	assert.Equal(t, 500, cfg.Quality.MaxPRLines)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:     ServerConfig{Port: "8080", RequestTimeout: time.Minute},
			AI:         AIConfig{LLMProvider: ProviderGemini},
			Quality:    QualityConfig{MaxPRLines: 500, CoverageThreshold: 80},
			Database:   DBConfig{Driver: DriverSQLite, Path: "/tmp/x.db"},
			MaxWorkers: 1,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "zero workers", mutate: func(c *Config) { c.MaxWorkers = 0 }, wantErr: true},
		{name: "negative max PR lines", mutate: func(c *Config) { c.Quality.MaxPRLines = -1 }, wantErr: true},
		{name: "coverage above 100", mutate: func(c *Config) { c.Quality.CoverageThreshold = 101 }, wantErr: true},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.LLMProvider = "gpt" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, wantErr: true},
		{name: "postgres without DSN", mutate: func(c *Config) { c.Database.Driver = DriverPostgres }, wantErr: true},
		{
			name: "postgres with DSN",
			mutate: func(c *Config) {
				c.Database.Driver = DriverPostgres
				c.Database.DSN = "postgres://localhost/inspector"
			},
		},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Config.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveValue(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	require.NoError(t, SaveValue(path, "max_pr_lines", 900))
	require.NoError(t, SaveValue(path, "github_token", "saved-token"))

	cfg, err := LoadConfigFrom(path)
	require.NoError(t, err)
	assert.Equal(t, "saved-token", cfg.GitHub.Token)
	assert.Equal(t, 900, cfg.Quality.MaxPRLines)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
