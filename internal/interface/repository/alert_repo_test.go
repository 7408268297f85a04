package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"farewatch/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockedAlertRepo(t *testing.T) (*GormAlertRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)

	return &GormAlertRepository{db: db}, mock
}

func committedFlight() *entity.TrackedFlight {
	return &entity.TrackedFlight{
		ID:     12,
		UserID: 7,
	}
}

func TestCommitDropAppliesAllThreeWrites(t *testing.T) {
	repo, mock := newMockedAlertRepo(t)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "t_tracked_flights" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "t_users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "t_price_observations"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.CommitDrop(context.Background(), committedFlight(), 449, "USD", 51, at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitDropRollsBackWhenSavingsWriteFails(t *testing.T) {
	repo, mock := newMockedAlertRepo(t)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "t_tracked_flights" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "t_users" SET`).
		WillReturnError(errors.New("savings write refused"))
	mock.ExpectRollback()

	err := repo.CommitDrop(context.Background(), committedFlight(), 449, "USD", 51, at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "increment user savings")
	// No observation insert, no commit: the flight update rolled back with it
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitDropRollsBackWhenObservationInsertFails(t *testing.T) {
	repo, mock := newMockedAlertRepo(t)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "t_tracked_flights" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "t_users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "t_price_observations"`).
		WillReturnError(errors.New("observations table gone"))
	mock.ExpectRollback()

	err := repo.CommitDrop(context.Background(), committedFlight(), 449, "USD", 51, at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price observation")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommitDropRollsBackWhenFlightMissing(t *testing.T) {
	repo, mock := newMockedAlertRepo(t)
	at := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "t_tracked_flights" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.CommitDrop(context.Background(), committedFlight(), 449, "USD", 51, at)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found during alert commit")
	assert.NoError(t, mock.ExpectationsWereMet())
}
