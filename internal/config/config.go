// Package config provides configuration loading and validation for the
// query layer's runnable entry points.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration constants.
const (
	DefaultStoreBackend = StoreBackendMongo
	DefaultMongoURI     = "mongodb://localhost:27017"
	DefaultDatabase     = "threadq"
	DefaultStoreTimeout = 10 * time.Second

	DefaultPageSize = 50
	MaxPageSize     = 500

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// StoreBackend selects the store implementation to wire.
type StoreBackend string

// Store backends.
const (
	// StoreBackendMongo wires the MongoDB adapter. Default.
	StoreBackendMongo StoreBackend = "mongo"

	// StoreBackendMemory wires the in-memory store. Testing and
	// development only.
	StoreBackendMemory StoreBackend = "memory"
)

// Config holds the complete configuration.
type Config struct {
	Store StoreConfig `yaml:"store"`
	Query QueryConfig `yaml:"query"`
	Log   LogConfig   `yaml:"log"`
}

// StoreConfig holds store connection settings.
type StoreConfig struct {
	Backend  StoreBackend  `yaml:"backend"`
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

// QueryConfig holds paging defaults applied by callers building filters.
type QueryConfig struct {
	PageSize    int `yaml:"page_size"`
	MaxPageSize int `yaml:"max_page_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with all defaults applied.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Backend:  DefaultStoreBackend,
			URI:      DefaultMongoURI,
			Database: DefaultDatabase,
			Timeout:  DefaultStoreTimeout,
		},
		Query: QueryConfig{
			PageSize:    DefaultPageSize,
			MaxPageSize: MaxPageSize,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads configuration from the optional yaml file at path, then
// applies environment overrides and validates the result. An empty path
// skips the file and uses defaults plus environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("THREADQ_STORE_BACKEND"); v != "" {
		cfg.Store.Backend = StoreBackend(v)
	}
	if v := os.Getenv("THREADQ_MONGO_URI"); v != "" {
		cfg.Store.URI = v
	}
	if v := os.Getenv("THREADQ_DATABASE"); v != "" {
		cfg.Store.Database = v
	}
	if v := os.Getenv("THREADQ_PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Query.PageSize = n
		}
	}
	if v := os.Getenv("THREADQ_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Store.Backend == "" {
		cfg.Store.Backend = DefaultStoreBackend
	}
	if cfg.Store.URI == "" {
		cfg.Store.URI = DefaultMongoURI
	}
	if cfg.Store.Database == "" {
		cfg.Store.Database = DefaultDatabase
	}
	if cfg.Store.Timeout <= 0 {
		cfg.Store.Timeout = DefaultStoreTimeout
	}
	if cfg.Query.PageSize <= 0 {
		cfg.Query.PageSize = DefaultPageSize
	}
	if cfg.Query.MaxPageSize <= 0 {
		cfg.Query.MaxPageSize = MaxPageSize
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}

// Validate checks the configuration for consistency.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case StoreBackendMongo, StoreBackendMemory:
	default:
		return fmt.Errorf("unknown store backend: %q", c.Store.Backend)
	}
	if c.Query.PageSize > c.Query.MaxPageSize {
		return fmt.Errorf("page_size %d exceeds max_page_size %d", c.Query.PageSize, c.Query.MaxPageSize)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Log.Level)
	}
	return nil
}
