package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/CoalTransition-Atlas/internal/domain/transaction"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/database/postgres"
	"github.com/turtacn/CoalTransition-Atlas/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CoalTransition-Atlas/pkg/errors"
)

var transactionCols = []string{
	"id", "name", "stage", "rag_status", "confidence", "plant_name", "capacity_mw", "country",
	"latitude", "longitude", "plants", "next_steps", "owner", "notes", "created_at", "updated_at",
}

type TransactionRepoTestSuite struct {
	suite.Suite
	mock       sqlmock.Sqlmock
	db         *sql.DB
	repo       transaction.Repository
	activities transaction.ActivityRepository
	now        time.Time
}

func (s *TransactionRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	s.Require().NoError(err)
	logger := logging.NewNopLogger()
	conn := postgres.NewConnectionWithDB(s.db, logger)
	s.repo = NewTransactionRepository(conn, logger)
	s.activities = NewActivityRepository(conn, logger)
	s.now = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
}

func (s *TransactionRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func (s *TransactionRepoTestSuite) TestList_ByStage() {
	plants := `[{"plant_name":"Pelabuhan Ratu","capacity_mw":1050,"country":"Indonesia","status":"operating"}]`
	steps := `[{"text":"Sign NDA","completed":true}]`
	s.mock.ExpectQuery(`FROM transactions WHERE stage = \$1 ORDER BY updated_at DESC`).
		WithArgs("due_diligence").
		WillReturnRows(sqlmock.NewRows(transactionCols).AddRow(
			"t1", "PLN ETM", "due_diligence", "amber", 60, nil, 0.0, nil,
			nil, nil, []byte(plants), []byte(steps), "Ada", nil, s.now, s.now,
		))

	out, err := s.repo.List(context.Background(), transaction.ListFilter{Stage: transaction.Stage("due_diligence")})
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	t := out[0]
	s.Equal(transaction.RAGStatus("amber"), t.RAG)
	s.Require().Len(t.Plants, 1)
	s.Equal(1050.0, t.Plants[0].CapacityMW)
	s.True(t.NextSteps[0].Completed)
	s.Nil(t.Latitude)
}

func (s *TransactionRepoTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(`FROM transactions WHERE id = \$1`).
		WithArgs("none").
		WillReturnError(sql.ErrNoRows)

	_, err := s.repo.GetByID(context.Background(), "none")
	s.True(errors.IsCode(err, errors.ErrCodeTransactionNotFound))
}

func (s *TransactionRepoTestSuite) TestGetByID_CorruptPlants() {
	s.mock.ExpectQuery(`FROM transactions WHERE id = \$1`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows(transactionCols).AddRow(
			"t1", "PLN ETM", "identification", "green", 0, nil, 0.0, nil,
			nil, nil, []byte(`{not json`), []byte(`[]`), nil, nil, s.now, s.now,
		))

	_, err := s.repo.GetByID(context.Background(), "t1")
	s.True(errors.IsCode(err, errors.ErrCodeSerialization))
}

func (s *TransactionRepoTestSuite) TestCreate_EncodesEmptyChildren() {
	s.mock.ExpectExec(`INSERT INTO transactions`).
		WithArgs("t2", "Deal", "identification", "green", 0,
			nil, 0.0, nil, nil, nil, []byte("[]"), []byte("[]"), nil, nil, s.now, s.now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.repo.Create(context.Background(), &transaction.Transaction{
		ID: "t2", Name: "Deal", Stage: "identification", RAG: "green", CreatedAt: s.now, UpdatedAt: s.now,
	})
	s.NoError(err)
}

func (s *TransactionRepoTestSuite) TestUpdate_Missing() {
	s.mock.ExpectExec(`UPDATE transactions SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.repo.Update(context.Background(), &transaction.Transaction{ID: "gone", Name: "x"})
	s.True(errors.IsCode(err, errors.ErrCodeTransactionNotFound))
}

func (s *TransactionRepoTestSuite) TestDelete() {
	s.mock.ExpectExec(`DELETE FROM transactions WHERE id = \$1`).
		WithArgs("t1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	s.NoError(s.repo.Delete(context.Background(), "t1"))
}

func (s *TransactionRepoTestSuite) TestActivities() {
	s.mock.ExpectExec(`INSERT INTO transaction_activities`).
		WithArgs(sqlmock.AnyArg(), "t1", "call", "Intro call", nil, "Ada", s.now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectQuery(`FROM transaction_activities WHERE transaction_id = \$1`).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "transaction_id", "type", "title", "description", "author", "created_at"}).
			AddRow("a1", "t1", "call", "Intro call", nil, "Ada", s.now))

	a := &transaction.Activity{TransactionID: "t1", Type: transaction.ActivityCall, Title: "Intro call", Author: "Ada", CreatedAt: s.now}
	s.Require().NoError(s.activities.Append(context.Background(), a))
	s.NotEmpty(a.ID)

	out, err := s.activities.ListByTransaction(context.Background(), "t1")
	s.Require().NoError(err)
	s.Require().Len(out, 1)
	s.Equal(transaction.ActivityCall, out[0].Type)
}

func TestTransactionRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionRepoTestSuite))
}

//Personal.AI order the ending
