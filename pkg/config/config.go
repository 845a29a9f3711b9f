package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tikezone/platform/pkg/observability"
	"github.com/tikezone/platform/pkg/otp"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// App configuration
	App AppConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// AppConfig holds authentication and routing configuration
type AppConfig struct {
	// MainDomain is the canonical domain; tenant subdomains hang off it
	MainDomain string
	// APIBaseURL is where the tenant resolver reaches the internal lookup API
	APIBaseURL string
	// Production toggles Secure cookies and the HTTPS upgrade redirect
	Production bool
	// SigningKey signs session tokens; required, process lifetime.
	// Rotating it invalidates all outstanding tokens.
	SigningKey string
	// TokenTTL is the session token (and cookie) lifetime
	TokenTTL time.Duration
	// OTPTTL is the one-time login code lifetime
	OTPTTL time.Duration
	// PostgresURL points at the user/agent/page store
	PostgresURL string
	// RedisURL, when set, switches the OTP store to the redis backend
	RedisURL string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	LogLevel       observability.LogLevel
	MetricsEnabled bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Server:        loadServerConfig(),
		App:           loadAppConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Host:            getEnv("TIKEZONE_HOST", "0.0.0.0"),
		Port:            getEnv("TIKEZONE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("TIKEZONE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("TIKEZONE_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:     getEnvDuration("TIKEZONE_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout: getEnvDuration("TIKEZONE_SHUTDOWN_TIMEOUT", 30*time.Second),
	}
}

func loadAppConfig() AppConfig {
	cfg := AppConfig{
		MainDomain:  getEnv("TIKEZONE_MAIN_DOMAIN", "tikezone.com"),
		APIBaseURL:  getEnv("TIKEZONE_API_BASE_URL", ""),
		Production:  getEnvBool("TIKEZONE_PRODUCTION", false),
		SigningKey:  getEnv("TIKEZONE_SIGNING_KEY", ""),
		TokenTTL:    getEnvDuration("TIKEZONE_TOKEN_TTL", 7*24*time.Hour),
		OTPTTL:      getEnvDuration("TIKEZONE_OTP_TTL", otp.DefaultTTL),
		PostgresURL: getEnv("TIKEZONE_POSTGRES_URL", ""),
		RedisURL:    getEnv("TIKEZONE_REDIS_URL", ""),
	}

	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://127.0.0.1:" + getEnv("TIKEZONE_PORT", "8080")
	}

	return cfg
}

func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:       observability.ParseLogLevel(getEnv("TIKEZONE_LOG_LEVEL", "info")),
		MetricsEnabled: getEnvBool("TIKEZONE_METRICS_ENABLED", true),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}
	if c.App.MainDomain == "" {
		return fmt.Errorf("main domain is required")
	}
	if c.App.SigningKey == "" {
		return fmt.Errorf("signing key is required (set TIKEZONE_SIGNING_KEY)")
	}
	if c.App.TokenTTL <= 0 {
		return fmt.Errorf("token TTL must be positive")
	}
	if c.App.OTPTTL <= 0 {
		return fmt.Errorf("OTP TTL must be positive")
	}
	if c.App.PostgresURL == "" {
		return fmt.Errorf("postgres URL is required (set TIKEZONE_POSTGRES_URL)")
	}
	return nil
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvDuration returns a duration environment variable or a default
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
