package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHoldMock(t *testing.T) (*SlotHoldRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSlotHoldRepo(db), mock
}

func TestPlaceHoldsReapsThenInserts(t *testing.T) {
	repo, mock := newHoldMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM slot_holds").
		WithArgs("2026-09-01", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO slot_holds").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO slot_holds").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	token, err := repo.PlaceHolds(context.Background(), "ana@example.com", "2026-09-01", 1, []int{10, 11}, 5*time.Minute)
	require.NoError(t, err)
	assert.Len(t, token, 32)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceHoldsConflictRollsBack(t *testing.T) {
	repo, mock := newHoldMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM slot_holds").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO slot_holds").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO slot_holds").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	mock.ExpectRollback()

	_, err := repo.PlaceHolds(context.Background(), "ana@example.com", "2026-09-01", 1, []int{10, 11}, 5*time.Minute)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlaceHoldsEmptyHoursNoop(t *testing.T) {
	repo, mock := newHoldMock(t)

	token, err := repo.PlaceHolds(context.Background(), "ana@example.com", "2026-09-01", 1, nil, 5*time.Minute)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReleaseHolds(t *testing.T) {
	repo, mock := newHoldMock(t)

	mock.ExpectExec("DELETE FROM slot_holds").
		WithArgs("tok").
		WillReturnResult(sqlmock.NewResult(0, 2))

	assert.NoError(t, repo.ReleaseHolds(context.Background(), "tok"))
	assert.NoError(t, repo.ReleaseHolds(context.Background(), ""))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveHeldHoursExcludesHolder(t *testing.T) {
	repo, mock := newHoldMock(t)

	mock.ExpectQuery("SELECT hour FROM slot_holds").
		WithArgs("2026-09-01", 1, "ana@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"hour"}).AddRow(12))

	hours, err := repo.ActiveHeldHours(context.Background(), "2026-09-01", 1, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, []int{12}, hours)
}
