// Package config resolves application configuration from command-line flags,
// environment variables, a .env file, and defaults, in that order of precedence.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App       AppConfig
	Logger    LoggerConfig
	Server    ServerConfig
	Auth      AuthConfig
	Catalog   CatalogConfig
	AI        AIConfig
	Billing   BillingConfig
	RateLimit RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	Name        string
	DataDir     string // Root for sqlite, badger, search index and auth key
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json", "pretty" or empty for auto
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	CORSOrigins  []string
}

// AuthConfig holds token configuration.
type AuthConfig struct {
	// Secret, when set, derives the PASETO key so every replica shares it.
	// Otherwise a random key is persisted at KeyPath.
	Secret              string
	KeyPath             string
	AccessTokenDuration time.Duration
}

// CatalogConfig holds generated catalog configuration.
type CatalogConfig struct {
	WarmCount int // Palettes generated into the cache at startup
}

// AIConfig holds AI palette suggestion configuration.
type AIConfig struct {
	Enabled bool
	Backend string // "gemini" or "vertex-ai"
	Model   string
	APIKey  string
	Timeout time.Duration
}

// BillingConfig holds payment webhook configuration.
type BillingConfig struct {
	WebhookSecret string
}

// RateLimitConfig holds request rate limits.
type RateLimitConfig struct {
	APIRequestsPerSecond float64
	APIBurst             int
	AIRequestsPerMinute  int
}

// SQLitePath is the user palette database file.
func (c *Config) SQLitePath() string { return filepath.Join(c.App.DataDir, "palettes.db") }

// BadgerPath is the subscription database directory.
func (c *Config) BadgerPath() string { return filepath.Join(c.App.DataDir, "badger") }

// SearchPath is the search index directory.
func (c *Config) SearchPath() string { return filepath.Join(c.App.DataDir, "search") }

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool { return c.App.Environment == "production" }

// Load builds the configuration from args (usually os.Args[1:]).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("coloredin", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	name := fs.String("name", "", "Application name")
	dataDir := fs.String("data-dir", "", "Directory for databases and keys")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := fs.String("log-format", "", "Log format (json, pretty)")

	port := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed CORS origins")

	authSecret := fs.String("auth-secret", "", "Secret used to derive the token key")
	authKeyPath := fs.String("auth-key-path", "", "Path of the generated token key")
	accessTTL := fs.String("access-token-duration", "", "Access token lifetime (default: 24h)")

	warmCount := fs.String("catalog-warm", "", "Catalog palettes generated at startup (default: 2000)")

	aiEnabled := fs.String("ai-enabled", "", "Enable AI palette suggestions (default: false)")
	aiBackend := fs.String("ai-backend", "", "AI backend (gemini, vertex-ai)")
	aiModel := fs.String("ai-model", "", "AI model name")
	aiTimeout := fs.String("ai-timeout", "", "AI request timeout (default: 20s)")

	webhookSecret := fs.String("billing-webhook-secret", "", "Shared secret for billing webhooks")

	apiRPS := fs.String("rate-limit-rps", "", "API requests per second per client (default: 20)")
	apiBurst := fs.String("rate-limit-burst", "", "API burst per client (default: 40)")
	aiPerMinute := fs.String("ai-rate-limit", "", "AI suggestions per minute per user (default: 6)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// A missing .env file is fine.
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
			Name:        getConfigValue(*name, "APP_NAME", "Colored In"),
			DataDir:     getConfigValue(*dataDir, "DATA_DIR", ""),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*port, "SERVER_PORT", "8080"),
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "http://localhost:5173")),
		},
		Auth: AuthConfig{
			Secret:  getConfigValue(*authSecret, "AUTH_SECRET", ""),
			KeyPath: getConfigValue(*authKeyPath, "AUTH_KEY_PATH", ""),
		},
		Catalog: CatalogConfig{
			WarmCount: getIntConfigValue(*warmCount, "CATALOG_WARM", 2000),
		},
		AI: AIConfig{
			Enabled: getBoolConfigValue(*aiEnabled, "AI_ENABLED", false),
			Backend: getConfigValue(*aiBackend, "AI_BACKEND", "gemini"),
			Model:   getConfigValue(*aiModel, "AI_MODEL", "gemini-2.5-flash"),
			APIKey:  getConfigValue("", "GOOGLE_API_KEY", ""),
		},
		Billing: BillingConfig{
			WebhookSecret: getConfigValue(*webhookSecret, "BILLING_WEBHOOK_SECRET", ""),
		},
		RateLimit: RateLimitConfig{
			APIRequestsPerSecond: getFloatConfigValue(*apiRPS, "RATE_LIMIT_RPS", 20),
			APIBurst:             getIntConfigValue(*apiBurst, "RATE_LIMIT_BURST", 40),
			AIRequestsPerMinute:  getIntConfigValue(*aiPerMinute, "AI_RATE_LIMIT", 6),
		},
	}

	durations := []struct {
		flagValue, envKey, def string
		dest                   *time.Duration
	}{
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*accessTTL, "ACCESS_TOKEN_DURATION", "24h", &cfg.Auth.AccessTokenDuration},
		{*aiTimeout, "AI_TIMEOUT", "20s", &cfg.AI.Timeout},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dest = parsed
	}

	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that config values are present and valid.
func (c *Config) Validate() error {
	validEnvs := map[string]bool{"development": true, "staging": true, "production": true}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %q (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	switch c.Logger.Format {
	case "", "json", "pretty":
	default:
		return fmt.Errorf("invalid log format: %s (must be json or pretty)", c.Logger.Format)
	}

	if p, err := strconv.Atoi(c.Server.Port); err != nil || p <= 0 || p > 65535 {
		return fmt.Errorf("invalid server port: %q", c.Server.Port)
	}

	if c.App.DataDir == "" {
		return errors.New("data dir cannot be empty after expansion")
	}

	if c.Catalog.WarmCount < 0 {
		return fmt.Errorf("catalog warm count must not be negative, got %d", c.Catalog.WarmCount)
	}

	if c.AI.Enabled {
		switch c.AI.Backend {
		case "gemini":
			if c.AI.APIKey == "" {
				return errors.New("GOOGLE_API_KEY is required when AI is enabled with the gemini backend")
			}
		case "vertex-ai":
		default:
			return fmt.Errorf("invalid AI backend: %s (must be gemini or vertex-ai)", c.AI.Backend)
		}
	}

	if c.RateLimit.APIRequestsPerSecond <= 0 || c.RateLimit.APIBurst <= 0 || c.RateLimit.AIRequestsPerMinute <= 0 {
		return errors.New("rate limits must be positive")
	}

	return nil
}

func (c *Config) expandPaths() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	c.App.DataDir, err = expandPath(c.App.DataDir, filepath.Join(homeDir, ".coloredin"))
	if err != nil {
		return fmt.Errorf("invalid data dir: %w", err)
	}

	c.Auth.KeyPath, err = expandPath(c.Auth.KeyPath, filepath.Join(c.App.DataDir, "auth.key"))
	if err != nil {
		return fmt.Errorf("invalid auth key path: %w", err)
	}
	return nil
}

// expandPath expands ~ and makes path absolute. Empty path yields defaultPath.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return filepath.Clean(abs), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envKey != "" {
		if v := os.Getenv(envKey); v != "" {
			return v
		}
	}
	return defaultValue
}

// getBoolConfigValue accepts "true", "1" and "yes" (any case) as true.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	v := getConfigValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	v = strings.ToLower(v)
	return v == "true" || v == "1" || v == "yes"
}

func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	v := getConfigValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue
	}
	return n
}

func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	v := getConfigValue(flagValue, envKey, "")
	if v == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultValue
	}
	return f
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads KEY=value lines (# for comments) into the environment
// without overriding variables that are already set.
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- path comes from the operator
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
