// Package config resolves runtime settings from defaults, an optional YAML or
// JSON file and CM_* environment variables.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Moosa-Imran/Content-Machine-sub001/internal/adapters/file"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/logging"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/adapters/redis"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/framework"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

// DefaultSQLitePath is used when the sqlite driver is selected without a path.
const DefaultSQLitePath = ".contentmachine/framework.db"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the full runtime configuration.
type Config struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store" json:"store"`
	HTTP    HTTPConfig    `mapstructure:"http" yaml:"http" json:"http"`
	Log     LogConfig     `mapstructure:"log" yaml:"log" json:"log"`
	Lock    LockConfig    `mapstructure:"lock" yaml:"lock" json:"lock"`
	Metrics MetricsConfig `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

// StoreConfig selects and configures the framework store.
type StoreConfig struct {
	Driver string       `mapstructure:"driver" yaml:"driver" json:"driver"`
	Path   string       `mapstructure:"path" yaml:"path" json:"path"`
	Redis  RedisConfig  `mapstructure:"redis" yaml:"redis" json:"redis"`
	SQLite SQLiteConfig `mapstructure:"sqlite" yaml:"sqlite" json:"sqlite"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string `mapstructure:"addr" yaml:"addr" json:"addr"`
	Password string `mapstructure:"password" yaml:"password" json:"password"`
	DB       int    `mapstructure:"db" yaml:"db" json:"db"`
	Prefix   string `mapstructure:"prefix" yaml:"prefix" json:"prefix"`
	// Lock enables the cross-replica mutation lock.
	Lock bool `mapstructure:"lock" yaml:"lock" json:"lock"`
}

// SQLiteConfig configures the sqlite driver.
type SQLiteConfig struct {
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port" yaml:"port" json:"port"`
}

type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"`
}

type LockConfig struct {
	TTL time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// Default returns the built-in configuration: a file store in the working directory.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   file.DefaultPath,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: redis.DefaultPrefix,
				Lock:   true,
			},
			SQLite: SQLiteConfig{Path: DefaultSQLitePath},
		},
		HTTP:    HTTPConfig{Port: 8080},
		Log:     LogConfig{Level: "info"},
		Lock:    LockConfig{TTL: framework.DefaultLockTTL},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load builds a Config from the defaults, the file at path (skipped when empty)
// and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.MergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// MergeFile overlays the keys present in a YAML or JSON file. Unknown keys are rejected.
func (c *Config) MergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           c,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, filepath.Base(path), err)
	}
	return nil
}

// ApplyEnv overrides settings from CM_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
			}
			*dst = n
		}
		return nil
	}
	flag := func(key string, dst *bool) error {
		if v, ok := lookup(key); ok && v != "" {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("%w: %s=%q is not a boolean", ErrInvalidConfig, key, v)
			}
			*dst = b
		}
		return nil
	}

	str("CM_STORE_DRIVER", &c.Store.Driver)
	str("CM_STORE_PATH", &c.Store.Path)
	str("CM_REDIS_ADDR", &c.Store.Redis.Addr)
	str("CM_REDIS_PASSWORD", &c.Store.Redis.Password)
	str("CM_REDIS_PREFIX", &c.Store.Redis.Prefix)
	str("CM_SQLITE_PATH", &c.Store.SQLite.Path)
	str("CM_LOG_LEVEL", &c.Log.Level)

	if err := num("CM_REDIS_DB", &c.Store.Redis.DB); err != nil {
		return err
	}
	if err := num("CM_PORT", &c.HTTP.Port); err != nil {
		return err
	}
	if err := flag("CM_REDIS_LOCK", &c.Store.Redis.Lock); err != nil {
		return err
	}
	if err := flag("CM_METRICS_ENABLED", &c.Metrics.Enabled); err != nil {
		return err
	}
	if v, ok := lookup("CM_LOCK_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: CM_LOCK_TTL=%q: %v", ErrInvalidConfig, v, err)
		}
		c.Lock.TTL = d
	}
	return nil
}

// Validate checks the driver and the settings it depends on.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Store.Path == "" {
			return fmt.Errorf("%w: store.path is required for the file driver", ErrInvalidConfig)
		}
	case DriverRedis:
		if c.Store.Redis.Addr == "" {
			return fmt.Errorf("%w: store.redis.addr is required for the redis driver", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.Store.SQLite.Path == "" {
			return fmt.Errorf("%w: store.sqlite.path is required for the sqlite driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store driver %q (want memory, file, redis or sqlite)", ErrInvalidConfig, c.Store.Driver)
	}

	if c.HTTP.Port < 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("%w: http.port %d out of range", ErrInvalidConfig, c.HTTP.Port)
	}
	if c.Lock.TTL <= 0 {
		return fmt.Errorf("%w: lock.ttl must be positive", ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
