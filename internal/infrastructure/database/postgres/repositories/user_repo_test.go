package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/user"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo user.Repository
}

func (s *UserRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.Require().NoError(err)

	logger := logging.NewNopLogger()
	s.repo = NewUserRepository(postgres.NewConnectionWithDB(s.db, logger), logger)
}

func (s *UserRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *UserRepoTestSuite) TestGetByEmail_NormalizesEmail() {
	now := time.Now()
	s.mock.ExpectQuery(`SELECT id, email, .* FROM users WHERE email = \$1`).
		WithArgs("ada@example.org").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "last_login_at", "created_at"}).
			AddRow("u1", "ada@example.org", "Ada Lovelace", "$2a$hash", now, now))

	u, err := s.repo.GetByEmail(context.Background(), "  Ada@Example.org ")
	s.Require().NoError(err)
	s.Equal("u1", u.ID)
	s.Require().NotNil(u.LastLoginAt)
	s.Equal("AL", u.Identity().Initials)
}

func (s *UserRepoTestSuite) TestGetByEmail_NotFound() {
	s.mock.ExpectQuery(`FROM users WHERE email = \$1`).WillReturnError(sql.ErrNoRows)

	_, err := s.repo.GetByEmail(context.Background(), "ghost@example.org")
	s.True(errors.IsNotFound(err))
}

func (s *UserRepoTestSuite) TestCreate_Success() {
	s.mock.ExpectExec(`INSERT INTO users`).
		WithArgs(sqlmock.AnyArg(), "new@example.org", "New User", "hash", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	u := &user.User{Email: "New@example.org", Name: "New User", PasswordHash: "hash"}
	s.Require().NoError(s.repo.Create(context.Background(), u))
	s.NotEmpty(u.ID)
	s.False(u.CreatedAt.IsZero())
}

func (s *UserRepoTestSuite) TestCreate_Duplicate() {
	s.mock.ExpectExec(`INSERT INTO users`).WillReturnError(&pq.Error{Code: "23505"})

	err := s.repo.Create(context.Background(), &user.User{Email: "ada@example.org"})
	s.True(errors.IsConflict(err))
}

func (s *UserRepoTestSuite) TestTouchLogin() {
	s.mock.ExpectExec(`UPDATE users SET last_login_at = NOW\(\) WHERE id = \$1`).
		WithArgs("u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.TouchLogin(context.Background(), "u1"))
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

//Personal.AI order the ending
