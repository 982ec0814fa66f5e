package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/transaction"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

type postgresActivityRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewActivityRepository returns the append-only transaction activity store.
func NewActivityRepository(conn *postgres.Connection, log logging.Logger) transaction.ActivityRepository {
	return &postgresActivityRepo{executor: conn.DB(), log: log}
}

func (r *postgresActivityRepo) Append(ctx context.Context, a *transaction.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.executor.ExecContext(ctx,
		`INSERT INTO transaction_activities (id, transaction_id, type, title, description, author, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.TransactionID, string(a.Type), a.Title, nullString(a.Description), a.Author, a.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to append activity")
	}
	return nil
}

func (r *postgresActivityRepo) ListByTransaction(ctx context.Context, transactionID string) ([]*transaction.Activity, error) {
	rows, err := r.executor.QueryContext(ctx,
		`SELECT id, transaction_id, type, title, description, author, created_at
		FROM transaction_activities WHERE transaction_id = $1 ORDER BY created_at DESC, id`,
		transactionID)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list activities")
	}
	defer rows.Close()

	var out []*transaction.Activity
	for rows.Next() {
		var (
			a     transaction.Activity
			typ   string
			descr sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.TransactionID, &typ, &a.Title, &descr, &a.Author, &a.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan activity")
		}
		a.Type = transaction.ActivityType(typ)
		a.Description = descr.String
		out = append(out, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate activities")
	}
	return out, nil
}

//Personal.AI order the ending
