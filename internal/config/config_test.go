package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "tsheet.db", cfg.Database.Filename)
	assert.Equal(t, 24*time.Hour, cfg.Validation.MaxEntryDuration)
	assert.Equal(t, 500, cfg.Validation.MaxDescriptionLength)
	assert.Equal(t, 1000.0, cfg.Validation.MaxHourlyRate)
	assert.Equal(t, 40.0, cfg.Payroll.OvertimeThresholdHours)
	assert.Equal(t, 0.25, cfg.Payroll.TaxRate)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Notification.MaxAttempts)
	assert.Equal(t, "table", cfg.Application.OutputFormat)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_GetDatabasePath(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Dir = "/var/lib/tsheet"
	cfg.Database.Filename = "data.db"

	assert.Equal(t, filepath.Join("/var/lib/tsheet", "data.db"), cfg.GetDatabasePath())
}

func TestConfig_Location(t *testing.T) {
	cfg := NewConfig()
	cfg.Payroll.Timezone = ""
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Payroll.Timezone = "America/New_York"
	loc, err = cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(c *Config)
		wantField string
	}{
		{"defaults", func(c *Config) {}, ""},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "database.driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = DriverPostgres }, "database.dsn"},
		{"postgres with dsn", func(c *Config) { c.Database.Driver = DriverPostgres; c.Database.DSN = "postgres://x" }, ""},
		{"empty sqlite dir", func(c *Config) { c.Database.Dir = "" }, "database.dir"},
		{"zero query timeout", func(c *Config) { c.Database.QueryTimeout = 0 }, "database.query_timeout"},
		{"zero entry duration", func(c *Config) { c.Validation.MaxEntryDuration = 0 }, "validation.max_entry_duration"},
		{"tax rate of one", func(c *Config) { c.Payroll.TaxRate = 1 }, "payroll.tax_rate"},
		{"bad timezone", func(c *Config) { c.Payroll.Timezone = "Mars/Olympus" }, "payroll.timezone"},
		{"redis without addr", func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, "redis.addr"},
		{"no notify attempts", func(c *Config) { c.Notification.MaxAttempts = 0 }, "notification.max_attempts"},
		{"bad output format", func(c *Config) { c.Application.OutputFormat = "xml" }, "application.output_format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
		})
	}
}

func TestLoader_Load_Environment(t *testing.T) {
	lookuper := envconfig.MapLookuper(map[string]string{
		"TS_DB_DIR":                     "/tmp/tsheet",
		"TS_DB_QUERY_TIMEOUT":           "3s",
		"TS_PAYROLL_TAX_RATE":           "0.3",
		"TS_REDIS_ENABLED":              "true",
		"TS_REDIS_ADDR":                 "cache:6379",
		"TS_NOTIFY_MAX_ATTEMPTS":        "5",
		"TS_VALIDATION_MAX_HOURLY_RATE": "250",
	})

	cfg, err := NewLoader().WithLookuper(lookuper).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "/tmp/tsheet", cfg.Database.Dir)
	assert.Equal(t, 3*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, 0.3, cfg.Payroll.TaxRate)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Redis.Addr)
	assert.Equal(t, 5, cfg.Notification.MaxAttempts)
	assert.Equal(t, 250.0, cfg.Validation.MaxHourlyRate)
	// untouched values keep their defaults
	assert.Equal(t, "tsheet.db", cfg.Database.Filename)
	assert.Equal(t, 40.0, cfg.Payroll.OvertimeThresholdHours)
}

func TestLoader_Load_FileThenEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tsheet.yaml")
	content := `
database:
  driver: postgres
  dsn: postgres://file@localhost/tsheet
payroll:
  overtime_threshold_hours: 38
  timezone: Europe/London
application:
  timeout: 30s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	lookuper := envconfig.MapLookuper(map[string]string{
		ConfigFileEnv: path,
		"TS_DB_DSN":   "postgres://env@localhost/tsheet",
	})

	cfg, err := NewLoader().WithLookuper(lookuper).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://env@localhost/tsheet", cfg.Database.DSN)
	assert.Equal(t, 38.0, cfg.Payroll.OvertimeThresholdHours)
	assert.Equal(t, "Europe/London", cfg.Payroll.Timezone)
	assert.Equal(t, 30*time.Second, cfg.Application.Timeout)
}

func TestLoader_Load_MissingFile(t *testing.T) {
	_, err := NewLoader().
		WithLookuper(envconfig.MapLookuper(map[string]string{})).
		WithFile(filepath.Join(t.TempDir(), "missing.yaml")).
		Load(context.Background())

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "config", cfgErr.Field)
}

func TestLoader_Load_InvalidEnvironment(t *testing.T) {
	lookuper := envconfig.MapLookuper(map[string]string{
		"TS_PAYROLL_TAX_RATE": "1.5",
	})

	_, err := NewLoader().WithLookuper(lookuper).Load(context.Background())

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "payroll.tax_rate", cfgErr.Field)
}

func TestLoader_LoadWithOverrides(t *testing.T) {
	format := "json"
	timeout := 5 * time.Second
	tz := "Asia/Tokyo"
	overrides := &ConfigOverrides{
		OutputFormat: &format,
		Timeout:      &timeout,
		Timezone:     &tz,
	}

	lookuper := envconfig.MapLookuper(map[string]string{"TS_OUTPUT_FORMAT": "table"})
	cfg, err := NewLoader().WithLookuper(lookuper).LoadWithOverrides(context.Background(), overrides)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Application.OutputFormat)
	assert.Equal(t, 5*time.Second, cfg.Application.Timeout)
	assert.Equal(t, "Asia/Tokyo", cfg.Payroll.Timezone)
}

func TestLoader_LoadWithOverrides_RevalidatesAfterOverrides(t *testing.T) {
	driver := "oracle"
	_, err := NewLoader().
		WithLookuper(envconfig.MapLookuper(map[string]string{})).
		LoadWithOverrides(context.Background(), &ConfigOverrides{DBDriver: &driver})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "database.driver", cfgErr.Field)
}
