package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"

	// ConfigPathEnvVar overrides the config file location.
	ConfigPathEnvVar = "CONFIG_PATH"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/arvores/config.yaml",
}

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	API      APIConfig      `koanf:"api"`
}

type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

type DatabaseConfig struct {
	// Driver is the database/sql driver name: sqlite3 or pgx.
	Driver       string `koanf:"driver"`
	DSN          string `koanf:"dsn"`
	MaxOpenConns int    `koanf:"max_open_conns"`
	// Seed inserts the demo dataset when the species table is empty.
	Seed bool `koanf:"seed"`
}

type APIConfig struct {
	DefaultPerPage int      `koanf:"default_per_page"`
	MaxPerPage     int      `koanf:"max_per_page"`
	CORSOrigins    []string `koanf:"cors_origins"`
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            5000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:       DriverSQLite,
			DSN:          "",
			MaxOpenConns: 10,
			Seed:         false,
		},
		API: APIConfig{
			DefaultPerPage: 100,
			MaxPerPage:     1000,
			CORSOrigins:    []string{"*"},
		},
	}
}

// Load loads configuration from defaults, an optional YAML file and environment
// variables, in increasing order of precedence.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := splitCommaField(k, "api.cors_origins"); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if cfg.Database.DSN == "" && cfg.Database.Driver == DriverSQLite {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.Database.DSN = filepath.Join(homeDir, ".arvores", "arvores.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	// Ensure the directory of a file-backed sqlite database exists
	if cfg.Database.Driver == DriverSQLite && !isMemoryDSN(cfg.Database.DSN) {
		dir := filepath.Dir(strings.TrimPrefix(cfg.Database.DSN, "file:"))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required for driver %s", c.Database.Driver)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.API.DefaultPerPage <= 0 || c.API.MaxPerPage <= 0 {
		return fmt.Errorf("page sizes must be positive")
	}
	if c.API.DefaultPerPage > c.API.MaxPerPage {
		return fmt.Errorf("default_per_page %d exceeds max_per_page %d", c.API.DefaultPerPage, c.API.MaxPerPage)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

var envMappings = map[string]string{
	"http_host":            "server.host",
	"http_port":            "server.port",
	"http_read_timeout":    "server.read_timeout",
	"http_write_timeout":   "server.write_timeout",
	"shutdown_timeout":     "server.shutdown_timeout",
	"db_driver":            "database.driver",
	"db_dsn":               "database.dsn",
	"arvores_db_path":      "database.dsn",
	"db_max_open_conns":    "database.max_open_conns",
	"db_seed":              "database.seed",
	"api_default_per_page": "api.default_per_page",
	"api_max_per_page":     "api.max_per_page",
	"cors_origins":         "api.cors_origins",
}

// envTransformFunc maps known environment variables to config paths; all
// others are dropped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func splitCommaField(k *koanf.Koanf, path string) error {
	s, ok := k.Get(path).(string)
	if !ok || s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if err := k.Set(path, out); err != nil {
		return fmt.Errorf("failed to set %s: %w", path, err)
	}
	return nil
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory") || strings.HasPrefix(dsn, "file::memory:")
}
