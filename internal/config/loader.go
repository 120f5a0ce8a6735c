package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix shared by all settings.
const envPrefix = "PROPHET"

// newViper builds a pre-configured viper instance: YAML file type, PROPHET_
// env prefix, automatic env binding, and a key replacer so that nested keys
// like "database.host" resolve to "PROPHET_DATABASE_HOST".
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads the YAML file at configPath, merges PROPHET_* environment
// overrides, applies defaults for unset fields, and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from PROPHET_* environment variables
// and defaults, with no config file required. This is the loading strategy
// for containerised deployments and for CLI runs without a --config flag.
func LoadFromEnv() (*Config, error) {
	v := newViper()

	// AutomaticEnv only resolves keys viper already knows about, so register
	// every key by priming it with the default configuration.
	defaults := NewDefaultConfig()
	bindStructKeys(v, "", defaults)

	return unmarshalAndFinalize(v)
}

// bindStructKeys registers the key space of the configuration with viper so
// environment-variable lookups succeed without a config file.
func bindStructKeys(v *viper.Viper, prefix string, cfg *Config) {
	for key, val := range map[string]interface{}{
		"server.host":                 cfg.Server.Host,
		"server.port":                 cfg.Server.Port,
		"server.mode":                 cfg.Server.Mode,
		"server.read_timeout":         cfg.Server.ReadTimeout,
		"server.write_timeout":        cfg.Server.WriteTimeout,
		"server.shutdown_timeout":     cfg.Server.ShutdownTimeout,
		"database.host":               cfg.Database.Host,
		"database.port":               cfg.Database.Port,
		"database.user":               cfg.Database.User,
		"database.password":           cfg.Database.Password,
		"database.db_name":            cfg.Database.DBName,
		"database.ssl_mode":           cfg.Database.SSLMode,
		"database.max_open_conns":     cfg.Database.MaxOpenConns,
		"database.max_idle_conns":     cfg.Database.MaxIdleConns,
		"database.conn_max_lifetime":  cfg.Database.ConnMaxLifetime,
		"database.conn_max_idle_time": cfg.Database.ConnMaxIdleTime,
		"database.migrations_dir":     cfg.Database.MigrationsDir,
		"bigquery.project_id":         cfg.BigQuery.ProjectID,
		"bigquery.dataset":            cfg.BigQuery.Dataset,
		"bigquery.table":              cfg.BigQuery.Table,
		"bigquery.location":           cfg.BigQuery.Location,
		"redis.addr":                  cfg.Redis.Addr,
		"redis.password":              cfg.Redis.Password,
		"redis.db":                    cfg.Redis.DB,
		"redis.key_prefix":            cfg.Redis.KeyPrefix,
		"redis.ttl":                   cfg.Redis.TTL,
		"ingest.limit":                cfg.Ingest.Limit,
		"ingest.page_size":            cfg.Ingest.PageSize,
		"ingest.start_date":           cfg.Ingest.StartDate,
		"log.level":                   cfg.Log.Level,
		"log.format":                  cfg.Log.Format,
	} {
		v.SetDefault(prefix+key, val)
	}
}

// unmarshalAndFinalize unmarshals viper state into a Config, applies defaults
// and validates the result.
func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}
