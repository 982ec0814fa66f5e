// Command apiserver serves the atlas HTTP API and the gRPC health service.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/auth"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/explorer"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/impact"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/mapview"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/pipeline"
	"github.com/turtacn/CoalTransition-Atlas/internal/application/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/config"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/auth/session"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres/repositories"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/redis"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/storage/minio"
	grpcserver "github.com/turtacn/CoalTransition-Atlas/internal/interfaces/grpc"
	httpserver "github.com/turtacn/CoalTransition-Atlas/internal/interfaces/http"
	"github.com/turtacn/CoalTransition-Atlas/internal/interfaces/http/handlers"
)

// Set by -ldflags at build time.
var version = "dev"

// publisher is satisfied by *kafka.Producer.
type publisher interface {
	PublishEvent(ctx context.Context, topic, key, eventType string, payload interface{}) error
}

func main() {
	configPath := flag.String("config", "", "path to configuration file (env only when empty)")
	flag.Parse()

	config.LoadDotEnv()
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(logging.LogConfig{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		OutputPaths: cfg.Log.OutputPaths,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
	logging.SetDefault(logger)
	watchLogLevel(*configPath, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting atlas apiserver",
		logging.String("version", version),
		logging.Int("http_port", cfg.Server.Port),
		logging.Bool("grpc", cfg.GRPC.Enabled),
	)

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("apiserver exited", logging.Err(err))
	}
	logger.Info("apiserver stopped")
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadFromEnv()
	}
	return config.Load(path)
}

// watchLogLevel applies log.level edits without a restart.
func watchLogLevel(path string, logger logging.Logger) {
	setter, ok := logger.(logging.LevelSetter)
	if path == "" || !ok {
		return
	}
	config.Watch(path, func(c *config.Config) {
		setter.SetLevel(c.Log.Level)
		logger.Info("log level reloaded", logging.String("level", c.Log.Level))
	}, func(err error) {
		logger.Warn("config reload rejected", logging.Err(err))
	})
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	// Metrics
	var metrics *prometheus.AppMetrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		collector, err := prometheus.NewMetricsCollector(prometheus.CollectorConfig{
			Namespace:            cfg.Metrics.Namespace,
			EnableProcessMetrics: true,
			EnableGoMetrics:      true,
		}, logger.Named("metrics"))
		if err != nil {
			return err
		}
		metrics = prometheus.NewAppMetrics(collector)
		metricsHandler = collector.Handler()
	}

	// PostgreSQL: typed repositories over database/sql, catalog rows over pgx.
	conn, err := postgres.NewConnection(cfg.Database, logger.Named("postgres"))
	if err != nil {
		return err
	}
	defer conn.Close()

	if cfg.Database.AutoMigrate {
		if err := conn.RunMigrations(cfg.Database.MigrationPath); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPool(ctx, cfg.Database, logger.Named("pgx"))
	if err != nil {
		return err
	}
	defer pool.Close()

	// Redis
	redisClient, err := redis.NewClient(cfg.Redis, logger.Named("redis"))
	if err != nil {
		return err
	}
	defer redisClient.Close()

	resultCache := redis.NewRedisCache(redisClient, logger, redis.WithCacheName("explorer"), redis.WithCacheObserver(metrics))
	snapshotCache := redis.NewSnapshotCache(
		redis.NewRedisCache(redisClient, logger, redis.WithCacheName("catalog"), redis.WithCacheObserver(metrics)),
		cfg.Explorer.CacheTTL,
	)

	// Kafka
	var events publisher
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:   cfg.Kafka.Brokers,
			Source:    "apiserver",
			BatchSize: cfg.Kafka.BatchSize,
			OnPublish: metrics.ObservePublish,
		}, logger.Named("kafka"))
		if err != nil {
			return err
		}
		defer producer.Close()
		events = producer
	}

	// Application services
	loader := catalog.NewLoader(postgres.NewRowStore(pool, logger.Named("rows")), logger.Named("catalog"),
		catalog.WithCache(snapshotCache),
		catalog.WithPageSize(cfg.Explorer.PageSize),
		catalog.WithObserver(metrics),
	)
	explorerSvc := explorer.NewService(loader, logger.Named("explorer"),
		explorer.WithResultCache(resultCache, cfg.Explorer.CacheTTL),
		explorer.WithDefaultTopN(cfg.Explorer.TopN),
	)

	projectOpts := []project.Option{project.WithCatalog(loader)}
	var pipelineOpts []pipeline.Option
	if events != nil {
		projectOpts = append(projectOpts, project.WithPublisher(events))
		pipelineOpts = append(pipelineOpts, pipeline.WithPublisher(events))
	}
	projectSvc := project.NewService(
		repositories.NewProjectRepository(conn, logger),
		repositories.NewChangeLogRepository(conn, logger),
		logger.Named("project"),
		projectOpts...,
	)
	pipelineSvc := pipeline.NewService(
		repositories.NewTransactionRepository(conn, logger),
		repositories.NewActivityRepository(conn, logger),
		logger.Named("pipeline"),
		pipelineOpts...,
	)
	impactSvc := impact.NewService(loader, logger.Named("impact"))
	mapSvc := mapview.NewService(explorerSvc, loader, pipelineSvc,
		cfg.Explorer.MarkerBatchSize, cfg.Explorer.MarkerBatchWait, logger.Named("map"))

	sessions, err := session.NewManager(cfg.Auth)
	if err != nil {
		return err
	}
	authSvc := auth.NewService(repositories.NewUserRepository(conn, logger), sessions, logger.Named("auth"),
		auth.WithAttemptRecorder(metrics))
	if cfg.Auth.BootstrapEmail != "" {
		if err := authSvc.EnsureUser(ctx, cfg.Auth.BootstrapEmail, cfg.Auth.BootstrapName, cfg.Auth.BootstrapPassword); err != nil {
			return err
		}
	}

	// Health
	checkers := []handlers.HealthChecker{
		&postgresHealthAdapter{conn: conn},
		&rowStoreHealthAdapter{pool: pool},
		&redisHealthAdapter{client: redisClient},
	}

	var exportHandler *handlers.ExportHandler
	if cfg.MinIO.Enabled {
		mc, err := minio.NewClient(ctx, cfg.MinIO, logger.Named("minio"))
		if err != nil {
			return err
		}
		checkers = append(checkers, &minioHealthAdapter{client: mc})
		exportHandler = handlers.NewExportHandler(minio.NewExportRepository(mc, logger.Named("exports")), logger)
	}

	recorders := healthFanout{metrics}
	var grpcSrv *grpcserver.Server
	if cfg.GRPC.Enabled {
		grpcSrv, err = grpcserver.NewServer(cfg.GRPC,
			grpcserver.WithLogger(logger.Named("grpc")),
			grpcserver.WithRecorder(metrics),
			grpcserver.WithReflection(cfg.Server.Mode == "debug"),
		)
		if err != nil {
			return err
		}
		recorders = append(recorders, grpcSrv)
	}

	// Warm the explorer snapshots; a failure here only delays the first view.
	if err := loader.RefreshAll(ctx, catalog.SnapshotTables...); err != nil {
		logger.Warn("catalog warm-up failed", logging.Err(err))
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		HealthHandler:      handlers.NewHealthHandler(version, recorders, checkers...),
		AuthHandler:        handlers.NewAuthHandler(authSvc, logger),
		ExplorerHandler:    handlers.NewExplorerHandler(explorerSvc, events, logger),
		MapHandler:         handlers.NewMapHandler(mapSvc, logger),
		ProjectHandler:     handlers.NewProjectHandler(projectSvc, logger),
		TransactionHandler: handlers.NewTransactionHandler(pipelineSvc, logger),
		ImpactHandler:      handlers.NewImpactHandler(impactSvc, logger),
		ExportHandler:      exportHandler,
		TokenVerifier:      sessions,
		Recorder:           metrics,
		CORSOrigins:        cfg.Server.CORSOrigins,
		MaxBodySize:        cfg.Server.MaxBodySize,
		Logger:             logger,
		MetricsPath:        cfg.Metrics.Path,
		MetricsHandler:     metricsHandler,
	})
	httpSrv := httpserver.NewServer(cfg.Server, router, logger.Named("http"))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(httpSrv.Start)
	if grpcSrv != nil {
		g.Go(grpcSrv.Start)
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace(cfg))
		defer cancel()
		if grpcSrv != nil {
			if err := grpcSrv.Stop(stopCtx); err != nil {
				logger.Error("grpc shutdown failed", logging.Err(err))
			}
		}
		return httpSrv.Stop(stopCtx)
	})
	return g.Wait()
}

func shutdownGrace(cfg *config.Config) time.Duration {
	if cfg.Server.ShutdownTimeout > 0 {
		return cfg.Server.ShutdownTimeout
	}
	return 30 * time.Second
}

//Personal.AI order the ending
