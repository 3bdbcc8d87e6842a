// Package config provides configuration file support for mtt.
//
// The file lives at <user config dir>/mtt/config.yaml. Every key can be
// overridden with an MTT_ environment variable, dots replaced by
// underscores (MTT_LOGGING_LEVEL, MTT_LOCK_TIMEOUT, ...).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/validate"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mtt-project/mtt/pkg/errclass"
	"github.com/mtt-project/mtt/pkg/fsutil"
)

// EnvPrefix is the prefix of environment overrides.
const EnvPrefix = "MTT"

// Config represents the mtt configuration.
type Config struct {
	DataDir      string        `mapstructure:"data_dir" yaml:"data_dir,omitempty"`
	OutputFormat string        `mapstructure:"output_format" yaml:"output_format" validate:"required|in:text,json"`
	TimeFormat   string        `mapstructure:"time_format" yaml:"time_format" validate:"required"`
	Logging      LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Lock         LockConfig    `mapstructure:"lock" yaml:"lock"`
	Journal      JournalConfig `mapstructure:"journal" yaml:"journal"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"required|in:debug,info,warn,error"`
	Format string `mapstructure:"format" yaml:"format" validate:"required|in:text,json"`
}

// LockConfig configures the state-file lock.
type LockConfig struct {
	Enabled bool          `mapstructure:"enabled" yaml:"enabled"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Lease   time.Duration `mapstructure:"lease" yaml:"lease"`
}

// JournalConfig configures the event journal.
type JournalConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		OutputFormat: "text",
		TimeFormat:   "2006-01-02 15:04",
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
		},
		Lock: LockConfig{
			Enabled: true,
			Timeout: 5 * time.Second,
			Lease:   30 * time.Second,
		},
		Journal: JournalConfig{Enabled: true},
	}
}

// Keys lists every settable key in display order.
var Keys = []string{
	"data_dir",
	"output_format",
	"time_format",
	"logging.level",
	"logging.format",
	"lock.enabled",
	"lock.timeout",
	"lock.lease",
	"journal.enabled",
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("output_format", cfg.OutputFormat)
	v.SetDefault("time_format", cfg.TimeFormat)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("lock.enabled", cfg.Lock.Enabled)
	v.SetDefault("lock.timeout", cfg.Lock.Timeout)
	v.SetDefault("lock.lease", cfg.Lock.Lease)
	v.SetDefault("journal.enabled", cfg.Journal.Enabled)
}

// Load reads the configuration file at path and applies MTT_* environment
// overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	return load(path, true)
}

// LoadFile is Load without environment overrides, for editing the file.
func LoadFile(path string) (*Config, error) {
	return load(path, false)
}

func load(path string, withEnv bool) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}
	setDefaults(v, Default())

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	for _, target := range []any{c, &c.Logging} {
		v := validate.Struct(target)
		if !v.Validate() {
			return errclass.ErrConfigInvalid.WithMessage(v.Errors.One())
		}
	}
	if c.Lock.Timeout <= 0 {
		return errclass.ErrConfigInvalid.WithMessagef("lock.timeout must be positive, got %s", c.Lock.Timeout)
	}
	if c.Lock.Lease <= 0 {
		return errclass.ErrConfigInvalid.WithMessagef("lock.lease must be positive, got %s", c.Lock.Lease)
	}
	return nil
}

// Save writes configuration to path atomically.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := fsutil.AtomicWrite(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Get returns the string form of key.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "data_dir":
		return c.DataDir, nil
	case "output_format":
		return c.OutputFormat, nil
	case "time_format":
		return c.TimeFormat, nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "lock.enabled":
		return strconv.FormatBool(c.Lock.Enabled), nil
	case "lock.timeout":
		return c.Lock.Timeout.String(), nil
	case "lock.lease":
		return c.Lock.Lease.String(), nil
	case "journal.enabled":
		return strconv.FormatBool(c.Journal.Enabled), nil
	default:
		return "", errclass.ErrConfigInvalid.WithMessagef("unknown key %q", key)
	}
}

// Set parses value into key and re-validates the whole config. On error
// the config is left unchanged.
func (c *Config) Set(key, value string) error {
	next := *c
	switch key {
	case "data_dir":
		next.DataDir = value
	case "output_format":
		next.OutputFormat = value
	case "time_format":
		next.TimeFormat = value
	case "logging.level":
		next.Logging.Level = value
	case "logging.format":
		next.Logging.Format = value
	case "lock.enabled", "journal.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("%s: expected true or false, got %q", key, value)
		}
		if key == "lock.enabled" {
			next.Lock.Enabled = b
		} else {
			next.Journal.Enabled = b
		}
	case "lock.timeout", "lock.lease":
		d, err := time.ParseDuration(value)
		if err != nil {
			return errclass.ErrConfigInvalid.WithMessagef("%s: %v", key, err)
		}
		if key == "lock.timeout" {
			next.Lock.Timeout = d
		} else {
			next.Lock.Lease = d
		}
	default:
		return errclass.ErrConfigInvalid.WithMessagef("unknown key %q", key)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
