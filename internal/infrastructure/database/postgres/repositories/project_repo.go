package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

const projectColumns = `id, plant_name, unit_name, capacity_mw, country, latitude, longitude,
	status, planned_retirement_year, actual_retirement_year, transition_type,
	financial_mechanism, funders, narrative, challenges, next_steps, created_at, updated_at`

type postgresProjectRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewProjectRepository returns a project.Repository backed by conn.
func NewProjectRepository(conn *postgres.Connection, log logging.Logger) project.Repository {
	return &postgresProjectRepo{executor: conn.DB(), log: log}
}

func (r *postgresProjectRepo) List(ctx context.Context, f project.ListFilter) ([]*project.Record, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.Country != "" {
		args = append(args, f.Country)
		conds = append(conds, fmt.Sprintf("lower(country) = lower($%d)", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		conds = append(conds, fmt.Sprintf("lower(status) = lower($%d)", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(plant_name ILIKE $%d OR unit_name ILIKE $%d OR country ILIKE $%d)", n, n, n))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total FROM projects%s ORDER BY plant_name, id LIMIT $%d OFFSET $%d`,
		projectColumns, where, len(args)-1, len(args))

	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list projects")
	}
	defer rows.Close()

	var (
		out   []*project.Record
		total int64
	)
	for rows.Next() {
		rec, err := scanProject(rows, &total)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate projects")
	}
	return out, total, nil
}

func (r *postgresProjectRepo) GetByID(ctx context.Context, id string) (*project.Record, error) {
	row := r.executor.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	rec, err := scanProject(row, nil)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.ErrCodeProjectNotFound, "project not found").WithDetail("id=" + id)
		}
		return nil, err
	}
	return rec, nil
}

func (r *postgresProjectRepo) Create(ctx context.Context, p *project.Record) error {
	query := `INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.executor.ExecContext(ctx, query,
		p.ID, p.PlantName, nullString(p.UnitName), p.CapacityMW, nullString(p.Country),
		nullFloat(p.Latitude), nullFloat(p.Longitude),
		nullString(p.Status), nullInt(p.PlannedRetirementYear), nullInt(p.ActualRetirementYear),
		nullString(p.TransitionType), nullString(p.FinancialMechanism), nullString(p.Funders),
		nullString(p.Narrative), nullString(p.Challenges), nullString(p.NextSteps),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeConflict, "project already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert project")
	}
	return nil
}

// UpdateField writes one editable column. The column name is checked
// against project.EditableFields before it reaches the SQL text.
func (r *postgresProjectRepo) UpdateField(ctx context.Context, id, column string, value interface{}) error {
	if _, ok := project.LookupField(column); !ok {
		return errors.Errorf(errors.ErrCodeFieldNotEditable, "column %q is not editable", column)
	}
	query := fmt.Sprintf(`UPDATE projects SET %s = $1, updated_at = NOW() WHERE id = $2`, column)
	res, err := r.executor.ExecContext(ctx, query, value, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update project field")
	}
	if err := affectedOrNotFound(res, errors.New(errors.ErrCodeProjectNotFound, "project not found").WithDetail("id="+id)); err != nil {
		return err
	}
	r.log.Debug("project field written", logging.String("id", id), logging.String("column", column))
	return nil
}

// scanProject reads projectColumns, plus the window total when total is
// non-nil.
func scanProject(s scanner, total *int64) (*project.Record, error) {
	var (
		p                                                     project.Record
		unit, country, status, ttype, fin, funders, narrative sql.NullString
		challenges, next                                      sql.NullString
		lat, lng                                              sql.NullFloat64
		planned, actual                                       sql.NullInt64
	)
	dest := []interface{}{
		&p.ID, &p.PlantName, &unit, &p.CapacityMW, &country, &lat, &lng,
		&status, &planned, &actual, &ttype,
		&fin, &funders, &narrative, &challenges, &next, &p.CreatedAt, &p.UpdatedAt,
	}
	if total != nil {
		dest = append(dest, total)
	}
	if err := s.Scan(dest...); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan project")
	}
	p.UnitName = unit.String
	p.Country = country.String
	p.Latitude = floatPtr(lat)
	p.Longitude = floatPtr(lng)
	p.Status = status.String
	p.PlannedRetirementYear = intPtr(planned)
	p.ActualRetirementYear = intPtr(actual)
	p.TransitionType = ttype.String
	p.FinancialMechanism = fin.String
	p.Funders = funders.String
	p.Narrative = narrative.String
	p.Challenges = challenges.String
	p.NextSteps = next.String
	return &p, nil
}

//Personal.AI order the ending
