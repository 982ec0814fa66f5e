package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/transaction"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

const transactionColumns = `id, name, stage, rag_status, confidence, plant_name, capacity_mw, country,
	latitude, longitude, plants, next_steps, owner, notes, created_at, updated_at`

type postgresTransactionRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewTransactionRepository returns a transaction.Repository. Plants and
// next steps are stored as JSONB arrays on the row.
func NewTransactionRepository(conn *postgres.Connection, log logging.Logger) transaction.Repository {
	return &postgresTransactionRepo{executor: conn.DB(), log: log}
}

func (r *postgresTransactionRepo) List(ctx context.Context, f transaction.ListFilter) ([]*transaction.Transaction, error) {
	var (
		conds []string
		args  []interface{}
	)
	if f.Stage != "" {
		args = append(args, string(f.Stage))
		conds = append(conds, fmt.Sprintf("stage = $%d", len(args)))
	}
	if f.RAG != "" {
		args = append(args, string(f.RAG))
		conds = append(conds, fmt.Sprintf("rag_status = $%d", len(args)))
	}
	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY updated_at DESC, id"

	rows, err := r.executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to list transactions")
	}
	defer rows.Close()

	var out []*transaction.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to iterate transactions")
	}
	return out, nil
}

func (r *postgresTransactionRepo) GetByID(ctx context.Context, id string) (*transaction.Transaction, error) {
	row := r.executor.QueryRowContext(ctx, `SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, notFoundTransaction(id)
		}
		return nil, err
	}
	return t, nil
}

func (r *postgresTransactionRepo) Create(ctx context.Context, t *transaction.Transaction) error {
	plants, steps, err := encodeChildren(t)
	if err != nil {
		return err
	}
	_, err = r.executor.ExecContext(ctx,
		`INSERT INTO transactions (`+transactionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		t.ID, t.Name, string(t.Stage), string(t.RAG), t.Confidence,
		nullString(t.PlantName), t.CapacityMW, nullString(t.Country),
		nullFloat(t.Latitude), nullFloat(t.Longitude), plants, steps,
		nullString(t.Owner), nullString(t.Notes), t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Wrap(err, errors.ErrCodeConflict, "transaction already exists")
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to insert transaction")
	}
	return nil
}

func (r *postgresTransactionRepo) Update(ctx context.Context, t *transaction.Transaction) error {
	plants, steps, err := encodeChildren(t)
	if err != nil {
		return err
	}
	res, err := r.executor.ExecContext(ctx,
		`UPDATE transactions SET name = $2, stage = $3, rag_status = $4, confidence = $5,
		plant_name = $6, capacity_mw = $7, country = $8, latitude = $9, longitude = $10,
		plants = $11, next_steps = $12, owner = $13, notes = $14, updated_at = $15
		WHERE id = $1`,
		t.ID, t.Name, string(t.Stage), string(t.RAG), t.Confidence,
		nullString(t.PlantName), t.CapacityMW, nullString(t.Country),
		nullFloat(t.Latitude), nullFloat(t.Longitude), plants, steps,
		nullString(t.Owner), nullString(t.Notes), t.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to update transaction")
	}
	return affectedOrNotFound(res, notFoundTransaction(t.ID))
}

func (r *postgresTransactionRepo) Delete(ctx context.Context, id string) error {
	res, err := r.executor.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to delete transaction")
	}
	if err := affectedOrNotFound(res, notFoundTransaction(id)); err != nil {
		return err
	}
	r.log.Info("transaction row deleted", logging.String("id", id))
	return nil
}

func notFoundTransaction(id string) *errors.AppError {
	return errors.New(errors.ErrCodeTransactionNotFound, "transaction not found").WithDetail("id=" + id)
}

func encodeChildren(t *transaction.Transaction) ([]byte, []byte, error) {
	plants := t.Plants
	if plants == nil {
		plants = []transaction.PlantRef{}
	}
	steps := t.NextSteps
	if steps == nil {
		steps = []transaction.NextStep{}
	}
	p, err := json.Marshal(plants)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode plants")
	}
	s, err := json.Marshal(steps)
	if err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode next steps")
	}
	return p, s, nil
}

func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var (
		t                             transaction.Transaction
		stage, rag                    string
		plantName, country, owner, nt sql.NullString
		lat, lng                      sql.NullFloat64
		plants, steps                 []byte
	)
	err := s.Scan(&t.ID, &t.Name, &stage, &rag, &t.Confidence, &plantName, &t.CapacityMW, &country,
		&lat, &lng, &plants, &steps, &owner, &nt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to scan transaction")
	}
	t.Stage = transaction.Stage(stage)
	t.RAG = transaction.RAGStatus(rag)
	t.PlantName, t.Country, t.Owner, t.Notes = plantName.String, country.String, owner.String, nt.String
	t.Latitude, t.Longitude = floatPtr(lat), floatPtr(lng)
	if len(plants) > 0 {
		if err := json.Unmarshal(plants, &t.Plants); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode plants")
		}
	}
	if len(steps) > 0 {
		if err := json.Unmarshal(steps, &t.NextSteps); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode next steps")
		}
	}
	return &t, nil
}

//Personal.AI order the ending
