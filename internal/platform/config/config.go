// Package config loads application configuration from environment variables.
// Variables use the EXAM_ prefix; the Gemini key is also read from GEMINI_API_KEY.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	CORS        CORSConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	AI          AIConfig
	Log         LogConfig
	CatalogPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// CORSConfig holds the browser origin allowed to call the API.
type CORSConfig struct {
	AllowedOrigin string
}

// DatabaseConfig holds PostgreSQL settings for the generation log. Empty URL disables it.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
	Migrate  bool
}

// CacheConfig holds Dragonfly/Redis settings for usage counters. Empty URL keeps them in memory.
type CacheConfig struct {
	URL string
}

// AIConfig holds generative service settings.
type AIConfig struct {
	Google         GoogleConfig
	TimeoutSeconds int // 0 keeps the transport default
}

// GoogleConfig holds Google Gemini provider settings.
type GoogleConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// SlogLevel maps Level onto a slog.Level, defaulting to info.
func (l LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("EXAM_SERVER_PORT", envInt("PORT", 5000)),
			Host: envStr("EXAM_SERVER_HOST", "0.0.0.0"),
		},
		CORS: CORSConfig{
			AllowedOrigin: envStr("EXAM_CORS_ORIGIN", "https://exam-generator-frontend.vercel.app"),
		},
		Database: DatabaseConfig{
			URL:      envStr("EXAM_DATABASE_URL", ""),
			MaxConns: envInt("EXAM_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("EXAM_DATABASE_MIN_CONNS", 1),
			Migrate:  envBool("EXAM_DATABASE_MIGRATE", true),
		},
		Cache: CacheConfig{
			URL: envStr("EXAM_CACHE_URL", ""),
		},
		AI: AIConfig{
			Google: GoogleConfig{
				APIKey:  envStr("EXAM_AI_GOOGLE_API_KEY", envStr("GEMINI_API_KEY", "")),
				Model:   envStr("EXAM_AI_GOOGLE_MODEL", "gemini-2.0-flash"),
				BaseURL: envStr("EXAM_AI_GOOGLE_BASE_URL", ""),
			},
			TimeoutSeconds: envInt("EXAM_AI_TIMEOUT_SECONDS", 0),
		},
		Log: LogConfig{
			Level:  envStr("EXAM_LOG_LEVEL", "info"),
			Format: envStr("EXAM_LOG_FORMAT", "json"),
		},
		CatalogPath: envStr("EXAM_CATALOG_PATH", ""),
	}

	return cfg, nil
}

// Validate checks that the configuration is usable. A missing API key is not an
// error here: the server still starts and reports it per request.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("EXAM_SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.CORS.AllowedOrigin == "" {
		return fmt.Errorf("EXAM_CORS_ORIGIN is required")
	}

	if c.Log.Format != "json" && c.Log.Format != "text" {
		return fmt.Errorf("EXAM_LOG_FORMAT must be 'json' or 'text', got %q", c.Log.Format)
	}

	if c.AI.TimeoutSeconds < 0 {
		return fmt.Errorf("EXAM_AI_TIMEOUT_SECONDS must not be negative, got %d", c.AI.TimeoutSeconds)
	}

	if c.Database.URL != "" && c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("EXAM_DATABASE_MIN_CONNS (%d) exceeds EXAM_DATABASE_MAX_CONNS (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	return nil
}

// HasAPIKey returns true if the Gemini credential is set.
func (c *Config) HasAPIKey() bool {
	return c.AI.Google.APIKey != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
