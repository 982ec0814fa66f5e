package config

import (
	"fmt"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all atlas settings.
const envPrefix = "ATLAS"

// envKeys lists every nested key that may be supplied through the
// environment alone. viper only resolves AutomaticEnv for keys it already
// knows, so they are bound explicitly.
var envKeys = []string{
	"server.port", "server.mode", "server.read_timeout", "server.write_timeout",
	"server.max_body_size", "server.shutdown_timeout", "server.cors_origins",
	"grpc.port", "grpc.enabled",
	"database.host", "database.port", "database.user", "database.password",
	"database.db_name", "database.ssl_mode", "database.max_conns", "database.min_conns",
	"database.max_idle_conns", "database.conn_max_lifetime", "database.conn_max_idle_time",
	"database.statement_timeout", "database.migration_path", "database.auto_migrate",
	"redis.addr", "redis.password", "redis.db", "redis.pool_size", "redis.default_ttl",
	"redis.key_prefix",
	"kafka.enabled", "kafka.brokers", "kafka.group_id", "kafka.auto_offset_reset",
	"kafka.timeout_ms", "kafka.batch_size", "kafka.dead_letter_topic",
	"minio.enabled", "minio.endpoint", "minio.access_key", "minio.secret_key",
	"minio.bucket", "minio.region", "minio.use_ssl", "minio.presign_expiry",
	"minio.retention_days",
	"auth.jwt_secret", "auth.issuer", "auth.token_ttl",
	"auth.bootstrap_email", "auth.bootstrap_name", "auth.bootstrap_password",
	"explorer.page_size", "explorer.marker_batch_size", "explorer.marker_batch_wait",
	"explorer.top_n", "explorer.cache_ttl",
	"worker.concurrency", "worker.max_retries", "worker.retry_backoff",
	"worker.handler_timeout", "worker.health_port",
	"log.level", "log.format", "log.output_paths",
	"metrics.enabled", "metrics.namespace", "metrics.path",
}

// newViper builds a Viper instance with the atlas conventions: YAML files,
// ATLAS_ env prefix and "." → "_" so "database.host" resolves to
// ATLAS_DATABASE_HOST.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return v
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadDotEnv(files ...string) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		_ = godotenv.Load(f)
	}
}

// Load reads the YAML file at configPath, merges ATLAS_* environment
// overrides, applies defaults and validates the result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config from ATLAS_* environment variables only.
//
//	ATLAS_<SECTION>_<FIELD>   e.g.  ATLAS_DATABASE_HOST, ATLAS_REDIS_ADDR
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

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

// Watch re-parses configPath whenever it changes on disk and passes the new
// Config to onChange. Changes that fail to parse or validate are reported to
// onError (if non-nil) and never reach onChange. Callers apply only the safe
// subset at runtime (log level today).
func Watch(configPath string, onChange func(*Config), onError func(error)) {
	v := newViper()
	v.SetConfigFile(configPath)
	_ = v.ReadInConfig()

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}

// MustLoad wraps Load and panics on error. For use in main() only.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
