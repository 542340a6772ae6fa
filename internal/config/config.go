// Package config provides application configuration management with support
// for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Booru   BooruConfig
	Data    DataConfig
	Search  SearchConfig
	Session SessionConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// BooruConfig holds remote board connection configuration.
type BooruConfig struct {
	BaseURL string        // Board root URL (default: https://gelbooru.com)
	APIKey  string        // Optional API key
	UserID  string        // Optional API user id, paired with the key
	Timeout time.Duration // Per-request timeout (default: 30s)
}

// DataConfig holds durable storage configuration.
type DataConfig struct {
	BasePath string // Base path for the preference database
}

// SearchConfig holds search and pagination configuration.
type SearchConfig struct {
	PostsPerPage int // Posts shown per page (default: 5)
	FetchLimit   int // Posts fetched and snapshotted per search (default: 50)
	TagLimit     int // Default tag lookup limit (default: 20)
}

// SessionConfig holds search session lifecycle configuration.
type SessionConfig struct {
	TTL           time.Duration // Idle time before a session is evicted (default: 30m)
	SweepInterval time.Duration // How often eviction runs (default: 5m)
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for durable data")

	booruURL := flag.String("booru-url", "", "Board base URL")
	booruKey := flag.String("booru-api-key", "", "Board API key")
	booruUser := flag.String("booru-user-id", "", "Board API user id")
	booruTimeout := flag.String("booru-timeout", "", "Board request timeout (default: 30s)")

	postsPerPage := flag.String("posts-per-page", "", "Posts shown per page (default: 5)")
	fetchLimit := flag.String("fetch-limit", "", "Posts fetched per search (default: 50)")
	tagLimit := flag.String("tag-limit", "", "Default tag lookup limit (default: 20)")

	sessionTTL := flag.String("session-ttl", "", "Idle session lifetime (default: 30m)")
	sweepInterval := flag.String("session-sweep-interval", "", "Session eviction interval (default: 5m)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Booru: BooruConfig{
			BaseURL: getConfigValue(*booruURL, "BOORU_URL", "https://gelbooru.com"),
			APIKey:  getConfigValue(*booruKey, "BOORU_API_KEY", ""),
			UserID:  getConfigValue(*booruUser, "BOORU_USER_ID", ""),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Search: SearchConfig{
			PostsPerPage: getIntConfigValue(*postsPerPage, "POSTS_PER_PAGE", 5),
			FetchLimit:   getIntConfigValue(*fetchLimit, "FETCH_LIMIT", 50),
			TagLimit:     getIntConfigValue(*tagLimit, "TAG_LIMIT", 20),
		},
	}

	timeoutStr := getConfigValue(*booruTimeout, "BOORU_TIMEOUT", "30s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid board timeout %q: %w", timeoutStr, err)
	}
	cfg.Booru.Timeout = timeout

	ttlStr := getConfigValue(*sessionTTL, "SESSION_TTL", "30m")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session ttl %q: %w", ttlStr, err)
	}
	cfg.Session.TTL = ttl

	sweepStr := getConfigValue(*sweepInterval, "SESSION_SWEEP_INTERVAL", "5m")
	sweep, err := time.ParseDuration(sweepStr)
	if err != nil {
		return nil, fmt.Errorf("invalid session sweep interval %q: %w", sweepStr, err)
	}
	cfg.Session.SweepInterval = sweep

	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Booru.BaseURL == "" {
		return errors.New("board base URL cannot be empty")
	}
	if !strings.HasPrefix(c.Booru.BaseURL, "http://") && !strings.HasPrefix(c.Booru.BaseURL, "https://") {
		return fmt.Errorf("board base URL must be http(s): %s", c.Booru.BaseURL)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Search.PostsPerPage <= 0 {
		return fmt.Errorf("posts per page must be positive: %d", c.Search.PostsPerPage)
	}
	if c.Search.FetchLimit <= 0 {
		return fmt.Errorf("fetch limit must be positive: %d", c.Search.FetchLimit)
	}
	if c.Search.FetchLimit > 100 {
		return fmt.Errorf("fetch limit exceeds the board maximum of 100: %d", c.Search.FetchLimit)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("session ttl must be positive: %s", c.Session.TTL)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session sweep interval must be positive: %s", c.Session.SweepInterval)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
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

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute, defaulting to
// ~/Telbooru/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "Telbooru", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
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

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		value = strings.Trim(value, `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
