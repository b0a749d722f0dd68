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

// Duplicate place policies.
const (
	// DuplicatePolicyReport surfaces an AlreadyExists result to the caller.
	DuplicatePolicyReport = "report"
	// DuplicatePolicyReuse silently returns the existing place as a success.
	DuplicatePolicyReuse = "reuse"
)

// Config holds the application configuration.
type Config struct {
	App         AppConfig
	Logger      LoggerConfig
	Data        DataConfig
	Server      ServerConfig
	Auth        AuthConfig
	Entitlement EntitlementConfig
	Billing     BillingConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
	// Location is the time zone used to decide "same calendar day" for the daily bonus.
	Location *time.Location
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-disk storage locations.
type DataConfig struct {
	BasePath string
}

// DatabasePath is the SQLite entity database.
func (d DataConfig) DatabasePath() string { return filepath.Join(d.BasePath, "secretmenu.db") }

// PreferencesPath is the Badger directory holding premium state and preferences.
func (d DataConfig) PreferencesPath() string { return filepath.Join(d.BasePath, "prefs") }

// PhotosDir is the subdirectory for order photos.
const PhotosDir = "photos"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port         string        // Server port (default: 8080)
	ReadTimeout  time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout time.Duration // HTTP write timeout (default: 30s)
	IdleTimeout  time.Duration // HTTP idle timeout (default: 60s)
	CORSOrigins  []string
}

// AuthConfig holds device token configuration.
type AuthConfig struct {
	// PASETO v4 symmetric key for device tokens (32 bytes)
	AccessTokenKey      []byte
	AccessTokenDuration time.Duration
	// PairingCode overrides the random one-time code printed at startup.
	PairingCode string
}

// EntitlementConfig holds the freemium limits.
type EntitlementConfig struct {
	FreePlaceLimit       int
	FreeOrderLimit       int
	FreePhotoLimit       int
	DuplicatePlacePolicy string
}

// BillingConfig holds purchase and rewarded-ad provider settings.
type BillingConfig struct {
	PurchaseTimeout time.Duration
	AdTimeout       time.Duration
	// SimulateAdCompletion makes the simulated ad provider report a watched ad.
	SimulateAdCompletion bool
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	return LoadConfigFromArgs(os.Args[1:])
}

// LoadConfigFromArgs is LoadConfig with an explicit argument list.
func LoadConfigFromArgs(args []string) (*Config, error) {
	fs := flag.NewFlagSet("secretmenu", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := fs.String("data-path", "", "Base path for databases and photos")
	timezone := fs.String("timezone", "", "IANA time zone for the daily bonus (default: Local)")

	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 30s)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	corsOrigins := fs.String("cors-origins", "", "Comma separated allowed CORS origins")

	accessTokenDuration := fs.String("access-token-duration", "", "Device token lifetime (e.g., 720h)")
	pairingCode := fs.String("pairing-code", "", "Fixed device pairing code")

	freePlaceLimit := fs.String("free-place-limit", "", "Places allowed without premium (default: 3)")
	freeOrderLimit := fs.String("free-order-limit", "", "Orders allowed without premium (default: 5)")
	freePhotoLimit := fs.String("free-photo-limit", "", "Orders with photos allowed without premium, 0 for no limit (default: 0)")
	duplicatePolicy := fs.String("duplicate-place-policy", "", "report or reuse (default: report)")

	purchaseTimeout := fs.String("purchase-timeout", "", "Purchase provider timeout (default: 60s)")
	adTimeout := fs.String("ad-timeout", "", "Rewarded ad timeout (default: 45s)")
	simulateAd := fs.String("simulate-ad-completion", "", "Simulated ads report completion (default: false)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

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
			CORSOrigins: splitList(getConfigValue(*corsOrigins, "CORS_ORIGINS", "")),
		},
		Auth: AuthConfig{
			AccessTokenKey: nil, // Set by auth.LoadOrGenerateKey during bootstrap.
			PairingCode:    getConfigValue(*pairingCode, "PAIRING_CODE", ""),
		},
		Entitlement: EntitlementConfig{
			FreePlaceLimit:       getIntConfigValue(*freePlaceLimit, "FREE_PLACE_LIMIT", 3),
			FreeOrderLimit:       getIntConfigValue(*freeOrderLimit, "FREE_ORDER_LIMIT", 5),
			FreePhotoLimit:       getIntConfigValue(*freePhotoLimit, "FREE_PHOTO_LIMIT", 0),
			DuplicatePlacePolicy: strings.ToLower(getConfigValue(*duplicatePolicy, "DUPLICATE_PLACE_POLICY", DuplicatePolicyReport)),
		},
		Billing: BillingConfig{
			SimulateAdCompletion: getBoolConfigValue(*simulateAd, "SIMULATE_AD_COMPLETION", false),
		},
	}

	durations := []struct {
		flagValue string
		envKey    string
		def       string
		dest      *time.Duration
	}{
		{*accessTokenDuration, "ACCESS_TOKEN_DURATION", "720h", &cfg.Auth.AccessTokenDuration},
		{*readTimeout, "SERVER_READ_TIMEOUT", "15s", &cfg.Server.ReadTimeout},
		{*writeTimeout, "SERVER_WRITE_TIMEOUT", "30s", &cfg.Server.WriteTimeout},
		{*idleTimeout, "SERVER_IDLE_TIMEOUT", "60s", &cfg.Server.IdleTimeout},
		{*purchaseTimeout, "PURCHASE_TIMEOUT", "60s", &cfg.Billing.PurchaseTimeout},
		{*adTimeout, "AD_TIMEOUT", "45s", &cfg.Billing.AdTimeout},
	}
	for _, d := range durations {
		raw := getConfigValue(d.flagValue, d.envKey, d.def)
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", d.envKey, raw, err)
		}
		*d.dest = parsed
	}

	tzName := getConfigValue(*timezone, "TIMEZONE", "Local")
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", tzName, err)
	}
	cfg.App.Location = loc

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
		return errors.New("data path cannot be empty after expansion")
	}

	if c.Entitlement.FreePlaceLimit < 0 || c.Entitlement.FreeOrderLimit < 0 || c.Entitlement.FreePhotoLimit < 0 {
		return errors.New("free limits cannot be negative")
	}

	switch c.Entitlement.DuplicatePlacePolicy {
	case DuplicatePolicyReport, DuplicatePolicyReuse:
	default:
		return fmt.Errorf("invalid duplicate place policy: %s (must be report or reuse)", c.Entitlement.DuplicatePlacePolicy)
	}

	if c.Billing.PurchaseTimeout <= 0 || c.Billing.AdTimeout <= 0 {
		return errors.New("billing timeouts must be positive")
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

// expandDataPath defaults the data path to ~/SecretMenu/data.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "SecretMenu", "data")

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

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
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

// splitList splits a comma separated value, dropping blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
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
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Env vars take precedence over the .env file.
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
