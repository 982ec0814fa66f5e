package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turtacn/CoalTransition-Atlas/internal/config"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

// NewPool opens the pgx pool used by the catalog row store.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, log logging.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "invalid database config")
	}
	configurePool(poolCfg, cfg)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create pgx pool")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "pgx pool ping failed")
	}

	log.Info("catalog pool ready",
		logging.Int("max_conns", int(poolCfg.MaxConns)),
		logging.Int("min_conns", int(poolCfg.MinConns)))
	return pool, nil
}

func configurePool(poolCfg *pgxpool.Config, cfg config.DatabaseConfig) {
	poolCfg.MaxConns = int32(orDefault(cfg.MaxConns, defaultMaxOpenConns))
	if cfg.MinConns > 0 {
		poolCfg.MinConns = int32(cfg.MinConns)
	}
	poolCfg.MaxConnLifetime = orDefaultDuration(cfg.ConnMaxLifetime, defaultConnMaxLifetime)
	poolCfg.MaxConnIdleTime = orDefaultDuration(cfg.ConnMaxIdleTime, defaultConnMaxIdleTime)
}

//Personal.AI order the ending
