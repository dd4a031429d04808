package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all configuration options for the timesheet tracker
type Config struct {
	Database     DatabaseConfig     `yaml:"database"`
	Validation   ValidationConfig   `yaml:"validation"`
	Payroll      PayrollConfig      `yaml:"payroll"`
	Redis        RedisConfig        `yaml:"redis"`
	Notification NotificationConfig `yaml:"notification"`
	Server       ServerConfig       `yaml:"server"`
	Logging      LoggingConfig      `yaml:"logging"`
	Application  ApplicationConfig  `yaml:"application"`
}

// Database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Driver          string        `yaml:"driver" env:"TS_DB_DRIVER, overwrite"`
	Dir             string        `yaml:"dir" env:"TS_DB_DIR, overwrite"`
	Filename        string        `yaml:"filename" env:"TS_DB_FILENAME, overwrite"`
	DSN             string        `yaml:"dsn" env:"TS_DB_DSN, overwrite"`
	QueryTimeout    time.Duration `yaml:"query_timeout" env:"TS_DB_QUERY_TIMEOUT, overwrite"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"TS_DB_WRITE_TIMEOUT, overwrite"`
	DirPermissions  uint32        `yaml:"dir_permissions" env:"TS_DB_DIR_PERMISSIONS, overwrite"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"TS_DB_MAX_OPEN_CONNS, overwrite"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"TS_DB_MAX_IDLE_CONNS, overwrite"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"TS_DB_CONN_MAX_LIFETIME, overwrite"`
}

// ValidationConfig holds time entry and employee validation limits
type ValidationConfig struct {
	MaxEntryDuration     time.Duration `yaml:"max_entry_duration" env:"TS_VALIDATION_MAX_ENTRY_DURATION, overwrite"`
	MaxDescriptionLength int           `yaml:"max_description_length" env:"TS_VALIDATION_MAX_DESCRIPTION_LENGTH, overwrite"`
	MaxHourlyRate        float64       `yaml:"max_hourly_rate" env:"TS_VALIDATION_MAX_HOURLY_RATE, overwrite"`
}

// PayrollConfig holds reporting and payroll settings
type PayrollConfig struct {
	OvertimeThresholdHours float64 `yaml:"overtime_threshold_hours" env:"TS_PAYROLL_OVERTIME_THRESHOLD, overwrite"`
	TaxRate                float64 `yaml:"tax_rate" env:"TS_PAYROLL_TAX_RATE, overwrite"`
	Timezone               string  `yaml:"timezone" env:"TS_PAYROLL_TIMEZONE, overwrite"`
}

// RedisConfig holds the report cache and notification dedup settings
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled" env:"TS_REDIS_ENABLED, overwrite"`
	Addr     string        `yaml:"addr" env:"TS_REDIS_ADDR, overwrite"`
	DB       int           `yaml:"db" env:"TS_REDIS_DB, overwrite"`
	Timeout  time.Duration `yaml:"timeout" env:"TS_REDIS_TIMEOUT, overwrite"`
	CacheTTL time.Duration `yaml:"cache_ttl" env:"TS_REDIS_CACHE_TTL, overwrite"`
	DedupTTL time.Duration `yaml:"dedup_ttl" env:"TS_REDIS_DEDUP_TTL, overwrite"`
}

// NotificationConfig controls timesheet submission notifications
type NotificationConfig struct {
	Enabled      bool          `yaml:"enabled" env:"TS_NOTIFY_ENABLED, overwrite"`
	MaxAttempts  int           `yaml:"max_attempts" env:"TS_NOTIFY_MAX_ATTEMPTS, overwrite"`
	InitialDelay time.Duration `yaml:"initial_delay" env:"TS_NOTIFY_INITIAL_DELAY, overwrite"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"TS_SERVER_ADDR, overwrite"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"TS_SERVER_READ_TIMEOUT, overwrite"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"TS_SERVER_WRITE_TIMEOUT, overwrite"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" env:"TS_LOG_LEVEL, overwrite"`
	Pretty bool   `yaml:"pretty" env:"TS_LOG_PRETTY, overwrite"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout      time.Duration `yaml:"timeout" env:"TS_APP_TIMEOUT, overwrite"`
	Verbose      bool          `yaml:"verbose" env:"TS_APP_VERBOSE, overwrite"`
	OutputFormat string        `yaml:"output_format" env:"TS_OUTPUT_FORMAT, overwrite"`
}

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	defaultDBDir := filepath.Join(homeDir, ".tsheet")

	return &Config{
		Database: DatabaseConfig{
			Driver:          DriverSQLite,
			Dir:             defaultDBDir,
			Filename:        "tsheet.db",
			QueryTimeout:    10 * time.Second,
			WriteTimeout:    5 * time.Second,
			DirPermissions:  0755,
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Validation: ValidationConfig{
			MaxEntryDuration:     24 * time.Hour,
			MaxDescriptionLength: 500,
			MaxHourlyRate:        1000,
		},
		Payroll: PayrollConfig{
			OvertimeThresholdHours: 40,
			TaxRate:                0.25,
			Timezone:               "UTC",
		},
		Redis: RedisConfig{
			Enabled:  false,
			Addr:     "localhost:6379",
			DB:       0,
			Timeout:  2 * time.Second,
			CacheTTL: 5 * time.Minute,
			DedupTTL: time.Hour,
		},
		Notification: NotificationConfig{
			Enabled:      true,
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Pretty: false,
		},
		Application: ApplicationConfig{
			Timeout:      60 * time.Second,
			Verbose:      false,
			OutputFormat: "table",
		},
	}
}

// GetDatabasePath returns the full path to the SQLite database file
func (c *Config) GetDatabasePath() string {
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the database query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the database write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Location resolves the payroll timezone used for week boundaries
func (c *Config) Location() (*time.Location, error) {
	if c.Payroll.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(c.Payroll.Timezone)
}

// Validate validates the configuration and returns the first problem found
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Dir == "" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "dsn is required for the postgres driver"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: "driver must be sqlite or postgres"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	if c.Validation.MaxEntryDuration <= 0 {
		return &ConfigError{Field: "validation.max_entry_duration", Message: "max entry duration must be positive"}
	}
	if c.Validation.MaxDescriptionLength < 1 {
		return &ConfigError{Field: "validation.max_description_length", Message: "max description length must be at least 1"}
	}
	if c.Validation.MaxHourlyRate <= 0 {
		return &ConfigError{Field: "validation.max_hourly_rate", Message: "max hourly rate must be positive"}
	}

	if c.Payroll.OvertimeThresholdHours < 0 {
		return &ConfigError{Field: "payroll.overtime_threshold_hours", Message: "overtime threshold cannot be negative"}
	}
	if c.Payroll.TaxRate < 0 || c.Payroll.TaxRate >= 1 {
		return &ConfigError{Field: "payroll.tax_rate", Message: "tax rate must be in [0, 1)"}
	}
	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "payroll.timezone", Message: "unknown timezone " + c.Payroll.Timezone}
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return &ConfigError{Field: "redis.addr", Message: "redis address cannot be empty when redis is enabled"}
		}
		if c.Redis.CacheTTL <= 0 {
			return &ConfigError{Field: "redis.cache_ttl", Message: "cache ttl must be positive"}
		}
	}

	if c.Notification.MaxAttempts < 1 {
		return &ConfigError{Field: "notification.max_attempts", Message: "max attempts must be at least 1"}
	}

	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}
	switch c.Application.OutputFormat {
	case "table", "json":
	default:
		return &ConfigError{Field: "application.output_format", Message: "output format must be table or json"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
