// Package config loads the application configuration: documented defaults,
// an optional JSON config file merged over them, and environment variables
// taking precedence over both.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/code-inspector/internal/logger"
)

const (
	configDirName  = ".codeinspector"
	configFileName = "config.json"
	envConfigPath  = "CODEINSPECTOR_CONFIG"
	envPrefix      = "INSPECTOR"
)

// Supported generation backends.
const (
	ProviderGemini    = "gemini"
	ProviderOllama    = "ollama"
	ProviderAnthropic = "anthropic"
)

// Supported persistence drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds the application's configuration values. It is loaded once and
// passed explicitly into every component; nothing reads it ad hoc.
type Config struct {
	Server     ServerConfig
	GitHub     GitHubConfig
	AI         AIConfig
	Quality    QualityConfig
	Database   DBConfig
	Logging    logger.Config
	MaxWorkers int
}

// ServerConfig configures the webhook ingress.
type ServerConfig struct {
	Port           string
	RequestTimeout time.Duration
}

// GitHubConfig holds the hosting credential and webhook authentication.
type GitHubConfig struct {
	Token         string
	WebhookSecret string
	// AllowUnsigned accepts requests without a signature header even when a
	// secret is configured. A present but wrong signature is always rejected.
	AllowUnsigned bool
}

// AIConfig selects and authenticates the generation backend.
type AIConfig struct {
	LLMProvider     string
	Model           string
	GoogleAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
}

// QualityConfig holds the thresholds of the quality report.
type QualityConfig struct {
	MaxPRLines        int
	CoverageThreshold int
	LintStrict        bool
	AutoApprove       bool
}

// DBConfig configures the review outcome store.
type DBConfig struct {
	Driver          string
	Path            string
	DSN             string
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultConfigPath returns the config file location, honouring CODEINSPECTOR_CONFIG.
func DefaultConfigPath() string {
	if p := os.Getenv(envConfigPath); p != "" {
		return p
	}
	return filepath.Join(homeDir(), configDirName, configFileName)
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// LoadConfig loads configuration from the default config file location.
func LoadConfig() (*Config, error) {
	return LoadConfigFrom(DefaultConfigPath())
}

// LoadConfigFrom reads the JSON config file at path, merges it over the
// defaults and applies environment overrides. A missing or unreadable file
// silently falls back to the defaults.
func LoadConfigFrom(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			slog.Debug("config file not loaded, using defaults", "path", path, "error", err)
			v = newViper()
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("port"),
			RequestTimeout: v.GetDuration("request_timeout"),
		},
		GitHub: GitHubConfig{
			Token:         v.GetString("github_token"),
			WebhookSecret: v.GetString("webhook_secret"),
			AllowUnsigned: v.GetBool("webhook_allow_unsigned"),
		},
		AI: AIConfig{
			LLMProvider:     strings.ToLower(v.GetString("llm_provider")),
			Model:           v.GetString("llm_model"),
			GoogleAPIKey:    v.GetString("google_api_key"),
			AnthropicAPIKey: v.GetString("anthropic_api_key"),
			OllamaHost:      v.GetString("ollama_host"),
		},
		Quality: QualityConfig{
			MaxPRLines:        v.GetInt("max_pr_lines"),
			CoverageThreshold: v.GetInt("coverage_threshold"),
			LintStrict:        v.GetBool("lint_strict"),
			AutoApprove:       v.GetBool("auto_approve"),
		},
		Database: DBConfig{
			Driver:          strings.ToLower(v.GetString("db_driver")),
			Path:            v.GetString("db_path"),
			DSN:             v.GetString("db_dsn"),
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Logging: logger.Config{
			Level:  v.GetString("log_level"),
			Format: v.GetString("log_format"),
			Output: v.GetString("log_output"),
		},
		MaxWorkers: v.GetInt("max_workers"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("github_token", "")
	v.SetDefault("google_api_key", "")
	v.SetDefault("anthropic_api_key", "")
	v.SetDefault("llm_provider", ProviderGemini)
	v.SetDefault("llm_model", "gemini-2.0-flash")
	v.SetDefault("ollama_host", "")
	v.SetDefault("max_pr_lines", 500)
	v.SetDefault("coverage_threshold", 80)
	v.SetDefault("lint_strict", true)
	v.SetDefault("auto_approve", true)
	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("db_path", filepath.Join(homeDir(), configDirName, "commits.db"))
	v.SetDefault("db_dsn", "")
	v.SetDefault("webhook_secret", "")
	v.SetDefault("webhook_allow_unsigned", false)
	v.SetDefault("port", "8080")
	v.SetDefault("max_workers", 5)
	v.SetDefault("request_timeout", "5m")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_output", "stdout")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// The well-known variable names win over the prefixed ones.
	bindEnv(v, "github_token", "GITHUB_TOKEN", "INSPECTOR_GITHUB_TOKEN")
	bindEnv(v, "google_api_key", "GOOGLE_API_KEY", "INSPECTOR_GOOGLE_API_KEY")
	bindEnv(v, "anthropic_api_key", "ANTHROPIC_API_KEY", "INSPECTOR_ANTHROPIC_API_KEY")
	bindEnv(v, "webhook_secret", "GITHUB_WEBHOOK_SECRET", "INSPECTOR_WEBHOOK_SECRET")
	bindEnv(v, "port", "PORT", "INSPECTOR_PORT")
	return v
}

func bindEnv(v *viper.Viper, key string, envs ...string) {
	if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
		slog.Error("failed to bind environment variable", "key", key, "error", err)
	}
}

// Validate checks the configuration for values no component can work with.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port == "" {
		errs = append(errs, errors.New("port must be set"))
	}
	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request_timeout must be positive, got %s", c.Server.RequestTimeout))
	}
	if c.MaxWorkers <= 0 {
		errs = append(errs, fmt.Errorf("max_workers must be positive, got %d", c.MaxWorkers))
	}
	if c.Quality.MaxPRLines <= 0 {
		errs = append(errs, fmt.Errorf("max_pr_lines must be positive, got %d", c.Quality.MaxPRLines))
	}
	if c.Quality.CoverageThreshold < 0 || c.Quality.CoverageThreshold > 100 {
		errs = append(errs, fmt.Errorf("coverage_threshold must be between 0 and 100, got %d", c.Quality.CoverageThreshold))
	}

	switch c.AI.LLMProvider {
	case ProviderGemini, ProviderOllama, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("unsupported llm_provider %q", c.AI.LLMProvider))
	}

	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			errs = append(errs, errors.New("db_path must be set for the sqlite driver"))
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("db_dsn must be set for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported db_driver %q", c.Database.Driver))
	}

	return errors.Join(errs...)
}

// SaveValue persists a single key into the JSON config file at path, keeping
// whatever else the file already holds. Defaults and environment values are
// never written.
func SaveValue(path, key string, value any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("existing config file unreadable, overwriting", "path", path, "error", err)
		}
	}

	v.Set(key, value)
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	return os.Chmod(path, 0o600)
}
