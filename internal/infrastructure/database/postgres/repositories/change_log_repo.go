package repositories

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

const changeLogColumns = `id, project_id, plant_name, field_label, old_value, new_value, note, author, created_at`

type postgresChangeLogRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewChangeLogRepository returns the append-only project change log.
func NewChangeLogRepository(conn *postgres.Connection, log logging.Logger) project.ChangeLogRepository {
	return &postgresChangeLogRepo{executor: conn.DB(), log: log}
}

func (r *postgresChangeLogRepo) Append(ctx context.Context, e *project.ChangeLogEntry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.executor.ExecContext(ctx,
		`INSERT INTO project_change_log (`+changeLogColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.ProjectID, e.PlantName, e.FieldLabel,
		nullString(e.OldValue), nullString(e.NewValue), nullString(e.Note),
		e.Author, e.CreatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to append change log entry")
	}
	return nil
}

func (r *postgresChangeLogRepo) ListByProject(ctx context.Context, projectID string) ([]*project.ChangeLogEntry, error) {
	return r.query(ctx,
		`SELECT `+changeLogColumns+` FROM project_change_log WHERE project_id = $1 ORDER BY created_at DESC, id`,
		projectID)
}

func (r *postgresChangeLogRepo) ListRecent(ctx context.Context, limit int) ([]*project.ChangeLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return r.query(ctx,
		`SELECT `+changeLogColumns+` FROM project_change_log ORDER BY created_at DESC, id LIMIT $1`,
		limit)
}

func (r *postgresChangeLogRepo) query(ctx context.Context, q string, args ...interface{}) ([]*project.ChangeLogEntry, error) {
	rows, err := r.executor.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to query change log")
	}
	defer rows.Close()

	var out []*project.ChangeLogEntry
	for rows.Next() {
		var (
			e              project.ChangeLogEntry
			oldV, newV, nt sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.ProjectID, &e.PlantName, &e.FieldLabel, &oldV, &newV, &nt, &e.Author, &e.CreatedAt); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan change log entry")
		}
		e.OldValue, e.NewValue, e.Note = oldV.String, newV.String, nt.String
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate change log")
	}
	return out, nil
}

//Personal.AI order the ending
