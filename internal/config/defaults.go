package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort      = 8080
	DefaultServerMode      = "debug"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxBodySize     = 1 << 20

	DefaultGRPCPort = 9090

	DefaultDBHost           = "localhost"
	DefaultDBPort           = 5432
	DefaultDBUser           = "atlas"
	DefaultDBName           = "atlas"
	DefaultDBMaxConns       = 25
	DefaultDBMinConns       = 2
	DefaultMigrationPath    = "migrations"
	DefaultStatementTimeout = 30 * time.Second

	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisTTL    = 10 * time.Minute
	DefaultRedisPrefix = "atlas:"

	DefaultKafkaBroker     = "localhost:9092"
	DefaultKafkaGroupID    = "atlas-worker"
	DefaultDeadLetterTopic = "atlas.dlq"

	DefaultMinIOEndpoint = "localhost:9000"
	DefaultMinIOBucket   = "atlas-exports"
	DefaultPresignExpiry = 15 * time.Minute

	// DefaultJWTSecret is only acceptable in debug mode; Validate rejects it
	// when server.mode is release.
	DefaultJWTSecret = "atlas-development-secret"
	DefaultJWTIssuer = "coal-transition-atlas"
	DefaultTokenTTL  = 12 * time.Hour

	DefaultPageSize        = 1000
	DefaultMarkerBatchSize = 100
	DefaultMarkerBatchWait = 16 * time.Millisecond
	DefaultTopN            = 20
	DefaultCatalogCacheTTL = 5 * time.Minute

	DefaultWorkerConcurrency = 4
	DefaultWorkerMaxRetries  = 3
	DefaultWorkerBackoff     = time.Second
	DefaultHandlerTimeout    = 2 * time.Minute
	DefaultWorkerHealthPort  = 8081

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "atlas"
	DefaultMetricsPath      = "/metrics"
)

// ApplyDefaults fills every zero-value field in cfg with its default.
// Explicitly configured values are left unchanged.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxBodySize == 0 {
		cfg.Server.MaxBodySize = DefaultMaxBodySize
	}
	if cfg.GRPC.Port == 0 {
		cfg.GRPC.Port = DefaultGRPCPort
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.User == "" {
		cfg.Database.User = DefaultDBUser
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.MinConns == 0 {
		cfg.Database.MinConns = DefaultDBMinConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.StatementTimeout == 0 {
		cfg.Database.StatementTimeout = DefaultStatementTimeout
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = DefaultMigrationPath
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = DefaultRedisTTL
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisPrefix
	}

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.AutoOffsetReset == "" {
		cfg.Kafka.AutoOffsetReset = "earliest"
	}
	if cfg.Kafka.DeadLetterTopic == "" {
		cfg.Kafka.DeadLetterTopic = DefaultDeadLetterTopic
	}

	// ── MinIO ─────────────────────────────────────────────────────────────────
	if cfg.MinIO.Endpoint == "" {
		cfg.MinIO.Endpoint = DefaultMinIOEndpoint
	}
	if cfg.MinIO.Bucket == "" {
		cfg.MinIO.Bucket = DefaultMinIOBucket
	}
	if cfg.MinIO.PresignExpiry == 0 {
		cfg.MinIO.PresignExpiry = DefaultPresignExpiry
	}

	// ── Auth ──────────────────────────────────────────────────────────────────
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = DefaultJWTSecret
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = DefaultJWTIssuer
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = DefaultTokenTTL
	}

	// ── Explorer ──────────────────────────────────────────────────────────────
	if cfg.Explorer.PageSize == 0 {
		cfg.Explorer.PageSize = DefaultPageSize
	}
	if cfg.Explorer.MarkerBatchSize == 0 {
		cfg.Explorer.MarkerBatchSize = DefaultMarkerBatchSize
	}
	if cfg.Explorer.MarkerBatchWait == 0 {
		cfg.Explorer.MarkerBatchWait = DefaultMarkerBatchWait
	}
	if cfg.Explorer.TopN == 0 {
		cfg.Explorer.TopN = DefaultTopN
	}
	if cfg.Explorer.CacheTTL == 0 {
		cfg.Explorer.CacheTTL = DefaultCatalogCacheTTL
	}

	// ── Worker ────────────────────────────────────────────────────────────────
	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}
	if cfg.Worker.MaxRetries == 0 {
		cfg.Worker.MaxRetries = DefaultWorkerMaxRetries
	}
	if cfg.Worker.RetryBackoff == 0 {
		cfg.Worker.RetryBackoff = DefaultWorkerBackoff
	}
	if cfg.Worker.HandlerTimeout == 0 {
		cfg.Worker.HandlerTimeout = DefaultHandlerTimeout
	}
	if cfg.Worker.HealthPort == 0 {
		cfg.Worker.HealthPort = DefaultWorkerHealthPort
	}

	// ── Log / Metrics ─────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
}

// NewDefaultConfig returns a Config populated only with defaults. The
// binaries fall back to it when no config file is given.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

//Personal.AI order the ending
