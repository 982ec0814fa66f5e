package postgres

import (
	"context"
	stderrors "errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/turtacn/CoalTransition-Atlas/internal/application/catalog"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
	"github.com/turtacn/CoalTransition-Atlas/pkg/types/common"
)

// Querier is the subset of *pgxpool.Pool used by RowStore.
type Querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

var identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// RowStore serves catalog tables as flat rows over pgx. Every table is keyed
// by an "id" column; values come back as string, int64, float64, bool or nil.
type RowStore struct {
	db     Querier
	logger logging.Logger
}

// NewRowStore wraps db.
func NewRowStore(db Querier, logger logging.Logger) *RowStore {
	return &RowStore{db: db, logger: logger}
}

// Select implements catalog.RowStore.
func (s *RowStore) Select(ctx context.Context, table string, q catalog.Query) ([]common.Row, error) {
	query, args, err := buildSelect(table, q)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "select "+table)
	}
	out, err := collect(rows, "select "+table)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("rows selected",
		logging.String("table", table),
		logging.Int("offset", q.Offset),
		logging.Int("rows", len(out)))
	return out, nil
}

// Insert implements catalog.RowStore. A missing id is generated by the
// database.
func (s *RowStore) Insert(ctx context.Context, table string, row common.Row) (common.Row, error) {
	query, args, err := buildInsert(table, row)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "insert "+table)
	}
	out, err := collect(rows, "insert "+table)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errors.Errorf(errors.ErrCodeDatabaseError, "insert into %s returned no row", table)
	}
	return out[0], nil
}

// Update implements catalog.RowStore.
func (s *RowStore) Update(ctx context.Context, table, id string, patch common.Row) error {
	query, args, err := buildUpdate(table, id, patch)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, "update "+table)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("row not found").WithDetail(fmt.Sprintf("table=%s id=%s", table, id))
	}
	return nil
}

// Delete implements catalog.RowStore.
func (s *RowStore) Delete(ctx context.Context, table, id string) error {
	if !catalog.KnownTable(table) {
		return errors.Errorf(errors.ErrCodeTableUnknown, "unknown table %q", table)
	}
	tag, err := s.db.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id::text = $1", ident(table)), id)
	if err != nil {
		return mapPgError(err, "delete "+table)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("row not found").WithDetail(fmt.Sprintf("table=%s id=%s", table, id))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// SQL builders
// ─────────────────────────────────────────────────────────────────────────────

func ident(name string) string { return pgx.Identifier{name}.Sanitize() }

func checkColumn(name string) error {
	if !identPattern.MatchString(name) {
		return errors.Errorf(errors.ErrCodeFilterInvalid, "invalid column name %q", name)
	}
	return nil
}

func sortedKeys(r map[string]interface{}) []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildSelect(table string, q catalog.Query) (string, []interface{}, error) {
	if !catalog.KnownTable(table) {
		return "", nil, errors.Errorf(errors.ErrCodeTableUnknown, "unknown table %q", table)
	}
	var (
		sb    strings.Builder
		args  []interface{}
		conds []string
	)
	fmt.Fprintf(&sb, "SELECT * FROM %s", ident(table))

	for _, col := range sortedKeys(q.Filters) {
		if err := checkColumn(col); err != nil {
			return "", nil, err
		}
		v := q.Filters[col]
		if v == nil {
			conds = append(conds, ident(col)+" IS NULL")
			continue
		}
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", ident(col), len(args)))
	}
	if len(conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}

	order := q.Order
	if order == "" {
		order = "id"
	}
	if err := checkColumn(order); err != nil {
		return "", nil, err
	}
	fmt.Fprintf(&sb, " ORDER BY %s", ident(order))

	if q.Offset > 0 {
		args = append(args, q.Offset)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}
	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	return sb.String(), args, nil
}

func buildInsert(table string, row common.Row) (string, []interface{}, error) {
	if !catalog.KnownTable(table) {
		return "", nil, errors.Errorf(errors.ErrCodeTableUnknown, "unknown table %q", table)
	}
	cols := make([]string, 0, len(row))
	placeholders := make([]string, 0, len(row))
	args := make([]interface{}, 0, len(row))
	for _, col := range sortedKeys(row) {
		if col == "id" && row[col] == nil {
			continue
		}
		if err := checkColumn(col); err != nil {
			return "", nil, err
		}
		args = append(args, row[col])
		cols = append(cols, ident(col))
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	if len(cols) == 0 {
		return fmt.Sprintf("INSERT INTO %s DEFAULT VALUES RETURNING *", ident(table)), nil, nil
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		ident(table), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return query, args, nil
}

func buildUpdate(table, id string, patch common.Row) (string, []interface{}, error) {
	if !catalog.KnownTable(table) {
		return "", nil, errors.Errorf(errors.ErrCodeTableUnknown, "unknown table %q", table)
	}
	var (
		sets []string
		args []interface{}
	)
	for _, col := range sortedKeys(patch) {
		if col == "id" {
			continue
		}
		if err := checkColumn(col); err != nil {
			return "", nil, err
		}
		args = append(args, patch[col])
		sets = append(sets, fmt.Sprintf("%s = $%d", ident(col), len(args)))
	}
	if len(sets) == 0 {
		return "", nil, errors.NewValidationError("patch", "nothing to update")
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id::text = $%d", ident(table), strings.Join(sets, ", "), len(args))
	return query, args, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Result conversion
// ─────────────────────────────────────────────────────────────────────────────

func collect(rows pgx.Rows, op string) ([]common.Row, error) {
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapPgError(err, op)
	}
	out := make([]common.Row, len(maps))
	for i, m := range maps {
		r := make(common.Row, len(m))
		for k, v := range m {
			r[k] = scalar(v)
		}
		out[i] = r
	}
	return out, nil
}

// scalar flattens pgx values to the Row value set.
func scalar(v interface{}) interface{} {
	switch x := v.(type) {
	case nil:
		return nil
	case string, int64, float64, bool:
		return x
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339)
	case pgtype.Numeric:
		f, err := x.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return uuid.UUID(x).String()
	default:
		return fmt.Sprint(x)
	}
}

func mapPgError(err error, op string) error {
	var pgErr *pgconn.PgError
	if stderrors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return errors.Wrap(err, errors.ErrCodeConflict, op+": duplicate key")
		case "42P01", "42703":
			return errors.Wrap(err, errors.ErrCodeFilterInvalid, op+": unknown relation or column")
		}
	}
	return errors.Wrap(err, errors.ErrCodeDatabaseError, op+" failed")
}

//Personal.AI order the ending
