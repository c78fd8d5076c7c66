package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	IDPModeCognito = "cognito"
	IDPModeLocal   = "local"
)

type Config struct {
	Env                  string        // Environment (dev, local, test, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	DatabaseFile         string        // Path to SQLite database file (default: ./auth.db)

	CookiePrefix            string        // Session cookie name prefix (default: chatauth)
	CookieDomain            string        // Cookie domain, omitted when localhost (default: localhost)
	AccessTokenCookieBuffer time.Duration // Added to expires_in for the access token cookie (default: 60s)
	RefreshTokenExpiry      time.Duration // Refresh token and synchronize cookie lifetime (default: 30 days)
	SynchronizeSecret       string        // Key material for the synchronize cookie; required outside dev

	IDPMode             string // cognito or local (default: local in dev/local/test, cognito otherwise)
	CognitoRegion       string
	CognitoUserPoolID   string
	CognitoClientID     string
	CognitoClientSecret string
	LocalIDPStaticCode  string // Optional fixed confirmation/reset code for the local provider
}

// LoadConfig reads the environment, after loading .env if there is one.
// Call Validate before using the result.
func LoadConfig() Config {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := Config{
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		DatabaseFile:         getEnvOrDefault("AUTH_DATABASE_FILE", "auth.db"),

		CookiePrefix:            getEnvOrDefault("COOKIE_PREFIX", "chatauth"),
		CookieDomain:            getEnvOrDefault("COOKIE_DOMAIN", "localhost"),
		AccessTokenCookieBuffer: time.Duration(getEnvIntOrDefault("ACCESS_TOKEN_COOKIE_BUFFER_SEC", 60)) * time.Second,
		RefreshTokenExpiry:      time.Duration(getEnvIntOrDefault("REFRESH_TOKEN_EXPIRY_DAYS", 30)) * 24 * time.Hour,
		SynchronizeSecret:       os.Getenv("SYNCHRONIZE_SECRET"),

		CognitoRegion:       os.Getenv("COGNITO_REGION"),
		CognitoUserPoolID:   os.Getenv("COGNITO_USER_POOL_ID"),
		CognitoClientID:     os.Getenv("COGNITO_CLIENT_ID"),
		CognitoClientSecret: os.Getenv("COGNITO_CLIENT_SECRET"),
		LocalIDPStaticCode:  os.Getenv("LOCAL_IDP_STATIC_CODE"),
	}

	cfg.IDPMode = strings.ToLower(os.Getenv("IDP_MODE"))
	if cfg.IDPMode == "" {
		cfg.IDPMode = IDPModeCognito
		if cfg.IsDevelopment() {
			cfg.IDPMode = IDPModeLocal
		}
	}

	return cfg
}

// IsDevelopment is true for dev, local and test. Those get insecure cookies,
// an ephemeral synchronize secret and the local identity provider.
func (c Config) IsDevelopment() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

// IsProduction controls whether error details reach clients.
func (c Config) IsProduction() bool {
	switch strings.ToLower(c.Env) {
	case "prod", "production":
		return true
	}
	return false
}

// SecureCookies is false only for local and test, where the service is
// reached over plain http.
func (c Config) SecureCookies() bool {
	switch strings.ToLower(c.Env) {
	case "local", "test":
		return false
	}
	return true
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if strings.TrimSpace(c.CookiePrefix) == "" {
		errs = append(errs, errors.New("COOKIE_PREFIX must not be empty"))
	}
	if c.RefreshTokenExpiry <= 0 {
		errs = append(errs, errors.New("REFRESH_TOKEN_EXPIRY_DAYS must be positive"))
	}
	if c.AccessTokenCookieBuffer < 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_COOKIE_BUFFER_SEC must not be negative"))
	}
	if c.SynchronizeSecret == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("SYNCHRONIZE_SECRET is required outside dev, local and test"))
	}

	switch c.IDPMode {
	case IDPModeCognito:
		for key, v := range map[string]string{
			"COGNITO_REGION":        c.CognitoRegion,
			"COGNITO_USER_POOL_ID":  c.CognitoUserPoolID,
			"COGNITO_CLIENT_ID":     c.CognitoClientID,
			"COGNITO_CLIENT_SECRET": c.CognitoClientSecret,
		} {
			if v == "" {
				errs = append(errs, fmt.Errorf("%s is required when IDP_MODE=cognito", key))
			}
		}
	case IDPModeLocal:
		if c.IsProduction() {
			errs = append(errs, errors.New("IDP_MODE=local keeps users in memory and is not allowed in production"))
		}
	default:
		errs = append(errs, fmt.Errorf("IDP_MODE %q is not cognito or local", c.IDPMode))
	}

	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes (for backwards compatibility)
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
