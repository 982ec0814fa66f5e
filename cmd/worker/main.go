// Command worker consumes atlas events: it invalidates catalog snapshots,
// refreshes the catalog on request and exports statistics snapshots to
// object storage.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/reporting"
	"github.com/turtacn/CoalTransition-Atlas/internal/config"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/redis"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/storage/minio"
	"github.com/turtacn/CoalTransition-Atlas/internal/interfaces/http/handlers"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/events"
)

const (
	defaultHealthPort = 8081
	exportLockName    = "stats-export"
	exportLockTTL     = 2 * time.Minute
)

// Set by -ldflags at build time.
var version = "dev"

// allTopics are the topics the worker subscribes to by default.
var allTopics = []string{
	events.TopicProjectChanged,
	events.TopicTransactionActivity,
	events.TopicCatalogRefresh,
}

func main() {
	configPath := flag.String("config", "", "path to configuration file (env only when empty)")
	topicFilter := flag.String("topics", "", "comma-separated list of topics to consume (default: all)")
	ensureTopics := flag.Bool("ensure-topics", false, "create missing topics before consuming")
	flag.Parse()

	config.LoadDotEnv()
	var cfg *config.Config
	var err error
	if *configPath == "" {
		cfg, err = config.LoadFromEnv()
	} else {
		cfg, err = config.Load(*configPath)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if !cfg.Kafka.Enabled {
		fmt.Fprintln(os.Stderr, "worker: kafka.enabled is false, nothing to consume")
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "worker: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)

	topics := selectTopics(*topicFilter)
	logger.Info("starting atlas worker",
		logging.String("version", version),
		logging.Strings("topics", topics))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, topics, *ensureTopics, logger); err != nil {
		logger.Fatal("worker exited", logging.Err(err))
	}
	logger.Info("atlas worker stopped")
}

// selectTopics parses --topics, keeping only topics the worker handles.
func selectTopics(filter string) []string {
	if strings.TrimSpace(filter) == "" {
		return allTopics
	}
	known := make(map[string]bool, len(allTopics))
	for _, t := range allTopics {
		known[t] = true
	}
	var out []string
	for _, t := range strings.Split(filter, ",") {
		t = strings.TrimSpace(t)
		if known[t] {
			out = append(out, t)
		}
	}
	return out
}

func run(ctx context.Context, cfg *config.Config, topics []string, ensureTopics bool, logger logging.Logger) error {
	if len(topics) == 0 {
		return fmt.Errorf("no known topics selected")
	}

	collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
		Namespace:       cfg.Metrics.Namespace,
		EnableGoMetrics: true,
	}, logger.Named("metrics"))
	if err != nil {
		return err
	}
	metrics := prometheus.NewAppMetrics(collector)

	// Infrastructure
	pool, err := postgres.NewPool(ctx, cfg.Database, logger.Named("pgx"))
	if err != nil {
		return err
	}
	defer pool.Close()

	redisClient, err := redis.NewClient(cfg.Redis, logger.Named("redis"))
	if err != nil {
		return err
	}
	defer redisClient.Close()

	if ensureTopics {
		tm, err := kafka.NewTopicManager(cfg.Kafka.Brokers, logger.Named("topics"))
		if err != nil {
			return err
		}
		err = tm.EnsureTopics(ctx, kafka.DefaultTopics(1))
		tm.Close()
		if err != nil {
			return err
		}
	}

	// Application
	snapshots := redis.NewSnapshotCache(
		redis.NewRedisCache(redisClient, logger, redis.WithCacheName("catalog"), redis.WithCacheObserver(metrics)),
		cfg.Explorer.CacheTTL,
	)
	loader := catalog.NewLoader(postgres.NewRowStore(pool, logger.Named("rows")), logger.Named("catalog"),
		catalog.WithCache(snapshots),
		catalog.WithPageSize(cfg.Explorer.PageSize),
		catalog.WithObserver(metrics),
	)
	explorerSvc := explorer.NewService(loader, logger.Named("explorer"),
		explorer.WithResultCache(redis.NewRedisCache(redisClient, logger, redis.WithCacheName("explorer"), redis.WithCacheObserver(metrics)), cfg.Explorer.CacheTTL),
		explorer.WithDefaultTopN(cfg.Explorer.TopN),
	)

	checkers := []handlers.HealthChecker{
		namedCheck{"catalog", pool.Ping},
		namedCheck{"redis", redisClient.Ping},
	}

	var exp exporter = disabledExporter{logger: logger}
	if cfg.MinIO.Enabled {
		mc, err := minio.NewClient(ctx, cfg.MinIO, logger.Named("minio"))
		if err != nil {
			return err
		}
		if err := mc.EnsureBucket(ctx); err != nil {
			return err
		}
		checkers = append(checkers, namedCheck{"minio", mc.HealthCheck})
		exp = NewSnapshotExporter(
			reporting.NewReporter(explorerSvc, logger.Named("reporting"), reporting.WithTopLimit(cfg.Explorer.TopN)),
			minio.NewExportRepository(mc, logger.Named("exports")),
			redis.NewMutex(redisClient, exportLockName, exportLockTTL),
			metrics,
			logger.Named("export"),
		)
	}

	registry := map[string]MessageHandler{}
	for _, h := range []MessageHandler{
		NewProjectChangedHandler(loader, exp, logger.Named("projects")),
		NewTransactionActivityHandler(loader, logger.Named("transactions")),
		NewCatalogRefreshHandler(loader, explorerSvc, exp, logger.Named("refresh")),
	} {
		registry[h.Topic()] = h
	}

	deadLetter := cfg.Kafka.DeadLetterTopic
	if deadLetter == "" {
		deadLetter = events.TopicDeadLetter
	}
	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers:         cfg.Kafka.Brokers,
		GroupID:         cfg.Kafka.GroupID,
		Topics:          topics,
		AutoOffsetReset: cfg.Kafka.AutoOffsetReset,
		HandlerTimeout:  cfg.Worker.HandlerTimeout,
		RetryConfig: kafka.RetryConfig{
			MaxRetries:      cfg.Worker.MaxRetries,
			RetryBackoff:    cfg.Worker.RetryBackoff,
			MaxRetryBackoff: 30 * time.Second,
			DeadLetterTopic: deadLetter,
		},
	}, logger.Named("consumer"))
	if err != nil {
		return err
	}
	defer consumer.Close()

	for _, topic := range topics {
		consumer.Subscribe(topic, instrument(registry[topic], metrics))
	}

	healthSrv := startHealthServer(cfg, handlers.NewHealthHandler(version, metrics, checkers...), collector.Handler(), logger)

	if err := consumer.Start(ctx); err != nil {
		return err
	}
	logger.Info("worker consuming", logging.Int("topics", len(topics)))

	<-ctx.Done()
	logger.Info("shutdown signal received, draining")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := healthSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("health server shutdown error", logging.Err(err))
	}
	return nil
}

// namedCheck adapts a ping function to handlers.HealthChecker.
type namedCheck struct {
	name  string
	check func(ctx context.Context) error
}

func (c namedCheck) Name() string                    { return c.name }
func (c namedCheck) Check(ctx context.Context) error { return c.check(ctx) }

// startHealthServer serves /healthz, /readyz and the metrics endpoint.
func startHealthServer(cfg *config.Config, health *handlers.HealthHandler, metrics http.Handler, logger logging.Logger) *http.Server {
	port := defaultHealthPort
	if cfg.Worker.HealthPort > 0 {
		port = cfg.Worker.HealthPort
	}

	r := chi.NewRouter()
	health.RegisterRoutes(r)
	path := cfg.Metrics.Path
	if path == "" {
		path = "/metrics"
	}
	r.Handle(path, metrics)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server listening", logging.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", logging.Err(err))
		}
	}()

	return srv
}

//Personal.AI order the ending
