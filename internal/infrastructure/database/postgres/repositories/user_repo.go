package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/user"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

type postgresUserRepo struct {
	executor queryExecutor
	log      logging.Logger
}

// NewUserRepository returns a user.Repository backed by the users table.
func NewUserRepository(conn *postgres.Connection, log logging.Logger) user.Repository {
	return &postgresUserRepo{executor: conn.DB(), log: log}
}

func (r *postgresUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var (
		u         user.User
		lastLogin sql.NullTime
	)
	err := r.executor.QueryRowContext(ctx,
		`SELECT id, email, name, password_hash, last_login_at, created_at FROM users WHERE email = $1`,
		user.NormalizeEmail(email),
	).Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &lastLogin, &u.CreatedAt)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.NotFound("user not found").WithDetail("email=" + email)
		}
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to load user")
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLoginAt = &t
	}
	return &u, nil
}

func (r *postgresUserRepo) Create(ctx context.Context, u *user.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	u.Email = user.NormalizeEmail(u.Email)
	_, err := r.executor.ExecContext(ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Email, u.Name, u.PasswordHash, u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Conflict("user already exists").WithDetail("email=" + u.Email).WithCause(err)
		}
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create user")
	}
	r.log.Info("user created", logging.String("email", u.Email))
	return nil
}

func (r *postgresUserRepo) TouchLogin(ctx context.Context, id string) error {
	res, err := r.executor.ExecContext(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to record login")
	}
	return affectedOrNotFound(res, errors.NotFound("user not found").WithDetail("id="+id))
}

//Personal.AI order the ending
