// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
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
	App    AppConfig
	Logger LoggerConfig
	Data   DataConfig
	Server ServerConfig
	Auth   AuthConfig
	AI     AIConfig
	Search SearchConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds persistent storage configuration.
type DataConfig struct {
	// BasePath is the directory holding the SQLite database.
	BasePath string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	CORSOrigins  string        // Comma-separated allowed origins (default: *)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 15s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for access tokens (32 bytes, hex-encoded)
	TokenKeyHex string
	// Access token lifetime (default: 24h)
	TokenDuration time.Duration
}

// AIConfig holds model-provider configuration.
// The provider speaks the OpenAI-compatible chat/embeddings API.
type AIConfig struct {
	BaseURL      string        // Provider base URL (default: https://api.openai.com/v1)
	APIKey       string        // Bearer key for the provider
	ChatModel    string        // Multimodal tagging/captioning model (default: gpt-4o-mini)
	EmbedModel   string        // Embedding model (default: text-embedding-3-small)
	EmbedDim     int           // Fixed embedding dimension (default: 1536)
	Timeout      time.Duration // Per-call timeout (default: 30s)
	EnrichJobTTL time.Duration // Deadline for a detached enrichment job (default: 2m)
}

// SearchConfig holds search endpoint configuration.
type SearchConfig struct {
	// RatePerMinute bounds per-caller search requests; model calls are not free.
	RatePerMinute float64
	RateBurst     int
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for data storage")

	serverPort := flag.String("port", "", "Server port (default: 8080)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (default: *)")
	readTimeout := flag.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := flag.String("write-timeout", "", "HTTP write timeout (default: 15s)")
	idleTimeout := flag.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")

	tokenKey := flag.String("token-key", "", "PASETO v4 symmetric key (64 hex chars)")
	tokenDuration := flag.String("token-duration", "", "Access token lifetime (e.g., 24h)")

	aiBaseURL := flag.String("ai-base-url", "", "Model provider base URL")
	aiKey := flag.String("ai-api-key", "", "Model provider API key")
	aiChatModel := flag.String("ai-chat-model", "", "Multimodal chat model for tagging/captioning")
	aiEmbedModel := flag.String("ai-embed-model", "", "Embedding model")
	aiEmbedDim := flag.String("ai-embed-dim", "", "Embedding vector dimension (default: 1536)")
	aiTimeout := flag.String("ai-timeout", "", "Per-call model timeout (default: 30s)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	// Parse flags but don't exit on error - we want to handle it gracefully.
	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Server: ServerConfig{
			Port:        getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			CORSOrigins: getConfigValue(*corsOrigins, "CORS_ORIGINS", "*"),
		},
		Auth: AuthConfig{
			TokenKeyHex: getConfigValue(*tokenKey, "AUTH_TOKEN_KEY", ""),
		},
		AI: AIConfig{
			BaseURL:    getConfigValue(*aiBaseURL, "AI_BASE_URL", "https://api.openai.com/v1"),
			APIKey:     getConfigValue(*aiKey, "AI_API_KEY", ""),
			ChatModel:  getConfigValue(*aiChatModel, "AI_CHAT_MODEL", "gpt-4o-mini"),
			EmbedModel: getConfigValue(*aiEmbedModel, "AI_EMBED_MODEL", "text-embedding-3-small"),
			EmbedDim:   getIntConfigValue(*aiEmbedDim, "AI_EMBED_DIM", 1536),
		},
		Search: SearchConfig{
			RatePerMinute: float64(getIntConfigValue("", "SEARCH_RATE_PER_MINUTE", 30)),
			RateBurst:     getIntConfigValue("", "SEARCH_RATE_BURST", 10),
		},
	}

	// Parse durations.
	var err error
	cfg.Auth.TokenDuration, err = parseDurationValue(*tokenDuration, "AUTH_TOKEN_DURATION", "24h")
	if err != nil {
		return nil, err
	}
	cfg.Server.ReadTimeout, err = parseDurationValue(*readTimeout, "SERVER_READ_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Server.WriteTimeout, err = parseDurationValue(*writeTimeout, "SERVER_WRITE_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	cfg.Server.IdleTimeout, err = parseDurationValue(*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s")
	if err != nil {
		return nil, err
	}
	cfg.AI.Timeout, err = parseDurationValue(*aiTimeout, "AI_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}
	cfg.AI.EnrichJobTTL, err = parseDurationValue("", "AI_ENRICH_JOB_TTL", "2m")
	if err != nil {
		return nil, err
	}

	// Expand and validate data path.
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

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.AI.EmbedDim <= 0 {
		return fmt.Errorf("invalid embedding dimension: %d", c.AI.EmbedDim)
	}

	// AI.APIKey can be empty in development - the provider client rejects
	// calls at request time, and tests inject doubles.

	return nil
}

// expandDataPath expands ~ and makes the path absolute.
// Defaults to ~/lost-and-found/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "lost-and-found", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// parseDurationValue resolves a duration from flag, env var, or default.
func parseDurationValue(flagValue, envKey, defaultValue string) (time.Duration, error) {
	str := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envKey, str, err)
	}
	return d, nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
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

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
