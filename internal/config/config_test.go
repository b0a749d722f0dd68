package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development", Location: time.UTC},
		Logger: LoggerConfig{Level: "info"},
		Data:   DataConfig{BasePath: "/some/path"},
		Entitlement: EntitlementConfig{
			FreePlaceLimit:       3,
			FreeOrderLimit:       5,
			FreePhotoLimit:       3,
			DuplicatePlacePolicy: DuplicatePolicyReport,
		},
		Billing: BillingConfig{
			PurchaseTimeout: time.Minute,
			AdTimeout:       45 * time.Second,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_DuplicatePolicy(t *testing.T) {
	for _, policy := range []string{DuplicatePolicyReport, DuplicatePolicyReuse} {
		cfg := validConfig()
		cfg.Entitlement.DuplicatePlacePolicy = policy
		assert.NoError(t, cfg.Validate(), policy)
	}

	cfg := validConfig()
	cfg.Entitlement.DuplicatePlacePolicy = "merge"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate place policy")
}

func TestValidate_NegativeLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Entitlement.FreeOrderLimit = -1
	assert.Error(t, cfg.Validate())
}

func TestValidate_ZeroLimitsAllowed(t *testing.T) {
	// A zero free limit means every create requires premium.
	cfg := validConfig()
	cfg.Entitlement.FreePlaceLimit = 0
	cfg.Entitlement.FreeOrderLimit = 0
	assert.NoError(t, cfg.Validate())
}

func TestValidate_NonPositiveTimeouts(t *testing.T) {
	cfg := validConfig()
	cfg.Billing.AdTimeout = 0
	assert.Error(t, cfg.Validate())
}

func TestValidate_EmptyDataPath(t *testing.T) {
	cfg := validConfig()
	cfg.Data.BasePath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "data path cannot be empty")
}

func TestDataConfig_Paths(t *testing.T) {
	d := DataConfig{BasePath: "/var/lib/secretmenu"}
	assert.Equal(t, "/var/lib/secretmenu/secretmenu.db", d.DatabasePath())
	assert.Equal(t, "/var/lib/secretmenu/prefs", d.PreferencesPath())
}

func TestExpandDataPath_EmptyUsesDefault(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.expandDataPath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "SecretMenu", "data"), cfg.Data.BasePath)
}

func TestExpandDataPath_TildeExpansion(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "~/menus"}}
	require.NoError(t, cfg.expandDataPath())

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(homeDir, "menus"), cfg.Data.BasePath)
}

func TestExpandDataPath_RelativePath(t *testing.T) {
	cfg := &Config{Data: DataConfig{BasePath: "relative/data"}}
	require.NoError(t, cfg.expandDataPath())
	assert.True(t, filepath.IsAbs(cfg.Data.BasePath))
}

func TestGetConfigValue_Precedence(t *testing.T) {
	assert.Equal(t, "flag-value", getConfigValue("flag-value", "SM_TEST_KEY", "default"))

	t.Setenv("SM_TEST_KEY", "env-value")
	assert.Equal(t, "env-value", getConfigValue("", "SM_TEST_KEY", "default"))

	assert.Equal(t, "default", getConfigValue("", "SM_TEST_KEY_UNSET", "default"))
}

func TestGetIntConfigValue(t *testing.T) {
	t.Setenv("SM_TEST_INT", "7")
	assert.Equal(t, 7, getIntConfigValue("", "SM_TEST_INT", 3))
	assert.Equal(t, 9, getIntConfigValue("9", "SM_TEST_INT", 3))

	t.Setenv("SM_TEST_INT", "many")
	assert.Equal(t, 3, getIntConfigValue("", "SM_TEST_INT", 3))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"http://a", "http://b"}, splitList(" http://a, ,http://b "))
}

func TestLoadConfigFromArgs_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfigFromArgs([]string{
		"-data-path", dir,
		"-env-file", filepath.Join(dir, "missing.env"),
		"-timezone", "UTC",
	})
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.Data.BasePath)
	assert.Equal(t, 3, cfg.Entitlement.FreePlaceLimit)
	assert.Equal(t, 5, cfg.Entitlement.FreeOrderLimit)
	assert.Zero(t, cfg.Entitlement.FreePhotoLimit)
	assert.Equal(t, DuplicatePolicyReport, cfg.Entitlement.DuplicatePlacePolicy)
	assert.Equal(t, 60*time.Second, cfg.Billing.PurchaseTimeout)
	assert.Equal(t, 45*time.Second, cfg.Billing.AdTimeout)
	assert.Equal(t, 720*time.Hour, cfg.Auth.AccessTokenDuration)
	assert.Equal(t, "UTC", cfg.App.Location.String())
}

func TestLoadConfigFromArgs_Overrides(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfigFromArgs([]string{
		"-data-path", dir,
		"-env-file", filepath.Join(dir, "missing.env"),
		"-free-place-limit", "10",
		"-free-photo-limit", "3",
		"-duplicate-place-policy", "REUSE",
		"-ad-timeout", "5s",
		"-timezone", "America/Chicago",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, cfg.Entitlement.FreePlaceLimit)
	assert.Equal(t, 3, cfg.Entitlement.FreePhotoLimit)
	assert.Equal(t, DuplicatePolicyReuse, cfg.Entitlement.DuplicatePlacePolicy)
	assert.Equal(t, 5*time.Second, cfg.Billing.AdTimeout)
	assert.Equal(t, "America/Chicago", cfg.App.Location.String())
}

func TestLoadConfigFromArgs_InvalidTimezone(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfigFromArgs([]string{
		"-data-path", dir,
		"-env-file", filepath.Join(dir, "missing.env"),
		"-timezone", "Mars/Olympus_Mons",
	})
	assert.Error(t, err)
}

func TestLoadEnvFile_ValidFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	content := `# comment
SM_ENV_ONE=first
SM_ENV_TWO="quoted value"

SM_ENV_THREE = spaced
`
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Setenv("SM_ENV_ONE", "")
	t.Setenv("SM_ENV_TWO", "")
	t.Setenv("SM_ENV_THREE", "")

	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "first", os.Getenv("SM_ENV_ONE"))
	assert.Equal(t, "quoted value", os.Getenv("SM_ENV_TWO"))
	assert.Equal(t, "spaced", os.Getenv("SM_ENV_THREE"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("NOT_A_PAIR\n"), 0o600))

	err := loadEnvFile(envFile)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format at line 1")
}

func TestLoadEnvFile_ExistingEnvVarsNotOverwritten(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SM_ENV_KEEP=from-file\n"), 0o600))

	t.Setenv("SM_ENV_KEEP", "original-value")
	require.NoError(t, loadEnvFile(envFile))

	assert.Equal(t, "original-value", os.Getenv("SM_ENV_KEEP"))
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/file/.env"))
}
