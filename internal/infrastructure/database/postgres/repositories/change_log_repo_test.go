package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/project"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

var changeLogCols = []string{
	"id", "project_id", "plant_name", "field_label", "old_value", "new_value", "note", "author", "created_at",
}

type ChangeLogRepoTestSuite struct {
	suite.Suite
	mock sqlmock.Sqlmock
	db   *sql.DB
	repo project.ChangeLogRepository
}

func (s *ChangeLogRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.Require().NoError(err)
	logger := logging.NewNopLogger()
	s.repo = NewChangeLogRepository(postgres.NewConnectionWithDB(s.db, logger), logger)
}

func (s *ChangeLogRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *ChangeLogRepoTestSuite) TestAppend_AssignsID() {
	s.mock.ExpectExec(`INSERT INTO project_change_log`).
		WithArgs(sqlmock.AnyArg(), "p1", "Cirebon", "Status", "Announced", "Retired", nil, "Ada <ada@example.org>", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	e := &project.ChangeLogEntry{
		ProjectID: "p1", PlantName: "Cirebon", FieldLabel: "Status",
		OldValue: "Announced", NewValue: "Retired", Author: "Ada <ada@example.org>",
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.repo.Append(context.Background(), e))
	s.NotEmpty(e.ID)
}

func (s *ChangeLogRepoTestSuite) TestAppend_Failure() {
	s.mock.ExpectExec(`INSERT INTO project_change_log`).WillReturnError(sql.ErrConnDone)

	err := s.repo.Append(context.Background(), &project.ChangeLogEntry{ProjectID: "p1"})
	s.True(errors.IsCode(err, errors.ErrCodeDatabaseError))
}

func (s *ChangeLogRepoTestSuite) TestListByProject() {
	now := time.Now()
	s.mock.ExpectQuery(`FROM project_change_log WHERE project_id = \$1 ORDER BY created_at DESC`).
		WithArgs("p1").
		WillReturnRows(sqlmock.NewRows(changeLogCols).
			AddRow("c2", "p1", "Cirebon", "Note", nil, nil, "call with utility", "Ada", now).
			AddRow("c1", "p1", "Cirebon", "Project created", nil, nil, nil, "Ada", now.Add(-time.Hour)))

	out, err := s.repo.ListByProject(context.Background(), "p1")
	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal("call with utility", out[0].Note)
	s.Empty(out[1].OldValue)
}

func (s *ChangeLogRepoTestSuite) TestListRecent_DefaultLimit() {
	s.mock.ExpectQuery(`FROM project_change_log ORDER BY created_at DESC, id LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows(changeLogCols))

	out, err := s.repo.ListRecent(context.Background(), 0)
	s.NoError(err)
	s.Empty(out)
}

func TestChangeLogRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ChangeLogRepoTestSuite))
}

//Personal.AI order the ending
