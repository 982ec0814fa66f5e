package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/redis"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/storage/minio"
	"github.com/turtacn/CoalTransition-Atlas/internal/interfaces/http/handlers"
)

// Adapters for HealthHandler
type postgresHealthAdapter struct {
	conn *postgres.Connection
}

func (a *postgresHealthAdapter) Name() string { return "postgres" }

func (a *postgresHealthAdapter) Check(ctx context.Context) error {
	return a.conn.HealthCheck(ctx)
}

type rowStoreHealthAdapter struct {
	pool *pgxpool.Pool
}

func (a *rowStoreHealthAdapter) Name() string { return "catalog" }

func (a *rowStoreHealthAdapter) Check(ctx context.Context) error {
	return a.pool.Ping(ctx)
}

type redisHealthAdapter struct {
	client *redis.Client
}

func (a *redisHealthAdapter) Name() string { return "redis" }

func (a *redisHealthAdapter) Check(ctx context.Context) error {
	return a.client.Ping(ctx)
}

type minioHealthAdapter struct {
	client *minio.Client
}

func (a *minioHealthAdapter) Name() string { return "minio" }

func (a *minioHealthAdapter) Check(ctx context.Context) error {
	return a.client.HealthCheck(ctx)
}

// healthFanout forwards component health to every recorder: the prometheus
// gauge and the gRPC health service.
type healthFanout []handlers.HealthRecorder

func (f healthFanout) SetHealth(component string, up bool) {
	for _, r := range f {
		r.SetHealth(component, up)
	}
}

//Personal.AI order the ending
