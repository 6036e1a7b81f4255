package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Source    SourceConfig    `mapstructure:"source"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Environment  string        `mapstructure:"environment"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
	// ExportRateLimit caps PNG exports and reload triggers per client per minute; 0 disables it.
	ExportRateLimit int `mapstructure:"export_rate_limit"`
}

// Source kinds accepted in source.kind
const (
	SourceAuto     = "auto"
	SourceParquet  = "parquet"
	SourceCSV      = "csv"
	SourceXLSX     = "xlsx"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

// SourceConfig describes where the booking table comes from
type SourceConfig struct {
	Kind       string `mapstructure:"kind"`
	Path       string `mapstructure:"path"`
	DSN        string `mapstructure:"dsn"`
	Table      string `mapstructure:"table"`
	Sheet      string `mapstructure:"sheet"`
	ReloadCron string `mapstructure:"reload_cron"`
}

// DashboardConfig holds chart and precomputation settings
type DashboardConfig struct {
	MinThreshold int     `mapstructure:"min_threshold"`
	MaxThreshold int     `mapstructure:"max_threshold"`
	YHeadroom    float64 `mapstructure:"y_headroom"`
	MarkerSize   int     `mapstructure:"marker_size"`
}

// AuthConfig protects the admin routes. An empty secret leaves them open.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// EnvPrefix prefixes every environment override, e.g. BOOKINGCURVE_SOURCE_PATH for source.path.
const EnvPrefix = "BOOKINGCURVE"

// Load reads configuration from file and environment variables.
// A .env file next to the config file is loaded first when present.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// Default returns the defaults plus environment overrides, used when no
// config file is given. A .env file in the working directory is loaded first.
func Default() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return unmarshal(newViper())
}

// newViper returns a viper with defaults and BOOKINGCURVE_ env overrides wired.
func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}
	return nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.export_rate_limit", 30)

	v.SetDefault("source.kind", SourceAuto)
	v.SetDefault("source.path", "./data/processed_bookings.parquet")
	v.SetDefault("source.dsn", "")
	v.SetDefault("source.table", "processed_bookings")
	v.SetDefault("source.sheet", "")
	v.SetDefault("source.reload_cron", "")

	v.SetDefault("dashboard.min_threshold", 5)
	v.SetDefault("dashboard.max_threshold", 30)
	v.SetDefault("dashboard.y_headroom", 1.1)
	v.SetDefault("dashboard.marker_size", 8)

	// registered so AutomaticEnv can see the key during Unmarshal
	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 || c.Server.IdleTimeout <= 0 {
		return fmt.Errorf("server timeouts must be positive")
	}
	if c.Server.ExportRateLimit < 0 {
		return fmt.Errorf("server.export_rate_limit must not be negative")
	}

	switch c.Source.Kind {
	case SourceAuto, SourceParquet, SourceCSV, SourceXLSX, SourceSQLite:
		if c.Source.Path == "" {
			return fmt.Errorf("source.path is required for source.kind %q", c.Source.Kind)
		}
	case SourcePostgres:
		if c.Source.DSN == "" {
			return fmt.Errorf("source.dsn is required for source.kind %q", c.Source.Kind)
		}
	default:
		return fmt.Errorf("source.kind must be one of: auto, parquet, csv, xlsx, sqlite, postgres")
	}
	if (c.Source.Kind == SourceSQLite || c.Source.Kind == SourcePostgres) && c.Source.Table == "" {
		return fmt.Errorf("source.table is required for SQL sources")
	}

	if c.Dashboard.MinThreshold < 0 {
		return fmt.Errorf("dashboard.min_threshold must not be negative")
	}
	if c.Dashboard.MaxThreshold < c.Dashboard.MinThreshold {
		return fmt.Errorf("dashboard.max_threshold must be at least dashboard.min_threshold")
	}
	if c.Dashboard.YHeadroom < 1.0 {
		return fmt.Errorf("dashboard.y_headroom must be at least 1.0")
	}
	if c.Dashboard.MarkerSize < 1 {
		return fmt.Errorf("dashboard.marker_size must be at least 1")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
