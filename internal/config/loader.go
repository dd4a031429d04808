package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/sethvargo/go-envconfig"
	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the variable holding the YAML config path
const ConfigFileEnv = "TS_CONFIG"

// Loader handles loading configuration from multiple sources
type Loader struct {
	config   *Config
	file     string
	lookuper envconfig.Lookuper
}

// NewLoader creates a new configuration loader reading the process environment
func NewLoader() *Loader {
	return &Loader{
		config:   NewConfig(),
		lookuper: envconfig.OsLookuper(),
	}
}

// WithFile sets the YAML file to read. An empty path falls back to TS_CONFIG.
func (l *Loader) WithFile(path string) *Loader {
	l.file = path
	return l
}

// WithLookuper replaces the environment source, mainly for tests
func (l *Loader) WithLookuper(lookuper envconfig.Lookuper) *Loader {
	l.lookuper = lookuper
	return l
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML file, if any
// 3. Override with environment variables
// 4. Override with command line flags (LoadWithOverrides)
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   l.config,
		Lookuper: l.lookuper,
	}); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(ctx context.Context, overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		overrides.apply(config)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (l *Loader) loadFile() error {
	path := l.file
	if path == "" {
		if v, ok := l.lookuper.Lookup(ConfigFileEnv); ok {
			path = v
		}
	}
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &ConfigError{Field: "config", Message: "config file not found: " + path}
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, l.config); err != nil {
		return &ConfigError{Field: "config", Message: "invalid YAML in " + path + ": " + err.Error()}
	}
	return nil
}

// ConfigOverrides holds command line flag overrides. Nil fields were not set.
type ConfigOverrides struct {
	DBDriver   *string
	DBDir      *string
	DBFilename *string
	DSN        *string

	Timezone *string

	RedisEnabled *bool
	RedisAddr    *string

	ServerAddr *string

	LogLevel *string

	Timeout      *time.Duration
	Verbose      *bool
	OutputFormat *string
}

func (o *ConfigOverrides) apply(config *Config) {
	if o.DBDriver != nil {
		config.Database.Driver = *o.DBDriver
	}
	if o.DBDir != nil {
		config.Database.Dir = *o.DBDir
	}
	if o.DBFilename != nil {
		config.Database.Filename = *o.DBFilename
	}
	if o.DSN != nil {
		config.Database.DSN = *o.DSN
	}
	if o.Timezone != nil {
		config.Payroll.Timezone = *o.Timezone
	}
	if o.RedisEnabled != nil {
		config.Redis.Enabled = *o.RedisEnabled
	}
	if o.RedisAddr != nil {
		config.Redis.Addr = *o.RedisAddr
	}
	if o.ServerAddr != nil {
		config.Server.Addr = *o.ServerAddr
	}
	if o.LogLevel != nil {
		config.Logging.Level = *o.LogLevel
	}
	if o.Timeout != nil {
		config.Application.Timeout = *o.Timeout
	}
	if o.Verbose != nil {
		config.Application.Verbose = *o.Verbose
	}
	if o.OutputFormat != nil {
		config.Application.OutputFormat = *o.OutputFormat
	}
}
