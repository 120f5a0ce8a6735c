// Package config defines the configuration structures for the patent-prophet
// services. No I/O or parsing logic lives in this file, only plain data
// types and validation; loading lives in loader.go.
package config

import (
	"fmt"
	"time"

	"github.com/turtacn/patent-prophet/internal/infrastructure/monitoring/logging"
)

// ServerConfig holds HTTP server tunables for the search API.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// BigQueryConfig holds the parameters for the public patent warehouse.
type BigQueryConfig struct {
	ProjectID string `mapstructure:"project_id"`
	Dataset   string `mapstructure:"dataset"`
	Table     string `mapstructure:"table"`
	Location  string `mapstructure:"location"`
}

// TableID resolves the fully-qualified table identifier. A dataset that
// already carries a project segment ("proj.dataset") is used as-is.
func (c BigQueryConfig) TableID() string {
	if c.Dataset == "" {
		return c.Table
	}
	if containsDot(c.Dataset) || c.ProjectID == "" {
		return c.Dataset + "." + c.Table
	}
	return c.ProjectID + "." + c.Dataset + "." + c.Table
}

func containsDot(s string) bool {
	for _, r := range s {
		if r == '.' {
			return true
		}
	}
	return false
}

// RedisConfig holds the optional search-cache connection parameters.
// An empty Addr disables the cache.
type RedisConfig struct {
	Addr      string        `mapstructure:"addr"`
	Password  string        `mapstructure:"password"`
	DB        int           `mapstructure:"db"`
	KeyPrefix string        `mapstructure:"key_prefix"`
	TTL       time.Duration `mapstructure:"ttl"`
}

// IngestConfig holds the defaults for ingestion runs; the CLI flags override
// these per invocation.
type IngestConfig struct {
	Limit     int    `mapstructure:"limit"`
	PageSize  int    `mapstructure:"page_size"`
	StartDate string `mapstructure:"start_date"`
}

// Config is the root configuration for both the ingest CLI and the API server.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	BigQuery BigQueryConfig `mapstructure:"bigquery"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Log      logging.Config `mapstructure:"log"`
}

// Validate checks cross-field constraints that defaults cannot repair.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("database.host must not be empty")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.db_name must not be empty")
	}
	if c.Ingest.PageSize <= 0 {
		return fmt.Errorf("ingest.page_size must be positive, got %d", c.Ingest.PageSize)
	}
	if c.Ingest.Limit <= 0 {
		return fmt.Errorf("ingest.limit must be positive, got %d", c.Ingest.Limit)
	}
	if c.BigQuery.Table == "" {
		return fmt.Errorf("bigquery.table must not be empty")
	}
	return nil
}
