package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

func newMock(t *testing.T) (*BookingRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewBookingRepo(db), mock
}

func TestBookingCreateAssignsID(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO bookings").
		WithArgs("2026-09-01", 1, 10, "ana@example.com", "Ana Torres", "+51 999 111 222",
			model.StatusConfirmed, nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(7, 1))

	b := model.Booking{
		Date:        "2026-09-01",
		Court:       1,
		Hour:        10,
		HolderEmail: "ana@example.com",
		HolderName:  "Ana Torres",
		HolderPhone: "+51 999 111 222",
		Status:      model.StatusConfirmed,
	}
	require.NoError(t, repo.Create(context.Background(), &b))
	assert.Equal(t, uint64(7), b.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCreateDuplicateKeyIsSlotTaken(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	b := model.Booking{Date: "2026-09-01", Court: 1, Hour: 10, Status: model.StatusConfirmed}
	err := repo.Create(context.Background(), &b)
	assert.ErrorIs(t, err, ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingOccupiedHours(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT hour FROM bookings").
		WithArgs("2026-09-01", 1).
		WillReturnRows(sqlmock.NewRows([]string{"hour"}).AddRow(9).AddRow(10).AddRow(14))

	hours, err := repo.OccupiedHours(context.Background(), "2026-09-01", 1)
	require.NoError(t, err)
	assert.Equal(t, []int{9, 10, 14}, hours)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingCountConfirmed(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("ana@example.com", "2026-09-01", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountConfirmed(context.Background(), "ana@example.com", "2026-09-01", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestBookingListByHolderScansOptionalColumns(t *testing.T) {
	repo, mock := newMock(t)

	created := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	cols := []string{"id", "booking_date", "court", "hour", "holder_email", "holder_name", "holder_phone",
		"status", "admin_comment", "voucher_url", "charge_id", "payment_type", "created_at"}
	mock.ExpectQuery("SELECT (.+) FROM bookings").
		WithArgs("ana@example.com").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "2026-09-01", 1, 10, "ana@example.com", "Ana Torres", "",
				model.StatusConfirmed, nil, "https://courts.example.com/v1/vouchers/ch_1", "ch_1", nil, created).
			AddRow(2, "2026-09-01", 1, 11, "ana@example.com", "Ana Torres", "",
				model.StatusConfirmed, nil, nil, "ch_1", nil, created))

	rows, err := repo.ListByHolder(context.Background(), "ana@example.com")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].VoucherURL)
	assert.Nil(t, rows[0].AdminComment)
	require.NotNil(t, rows[0].ChargeID)
	assert.Equal(t, "ch_1", *rows[0].ChargeID)
	assert.Nil(t, rows[1].VoucherURL)
}

func TestBookingDelete(t *testing.T) {
	repo, mock := newMock(t)

	mock.ExpectExec("DELETE FROM bookings").
		WithArgs(uint64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}
