package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

// BookingRepo provides data access to the bookings table.  Every row is
// one confirmed hour of one court; the unique key on
// (booking_date, court, hour) makes double booking impossible at the
// storage level.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo constructs a BookingRepo with the given DB handle.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle for callers that need to coordinate
// with other repositories on the same connection pool.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = `id, booking_date, court, hour, holder_email, holder_name, holder_phone,
	           status, admin_comment, voucher_url, charge_id, payment_type, created_at`

// Create inserts one booking hour.  On success the booking's ID is
// populated.  A collision on (booking_date, court, hour) returns
// ErrSlotTaken.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings
	           (booking_date, court, hour, holder_email, holder_name, holder_phone,
	            status, admin_comment, voucher_url, charge_id, payment_type)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		b.Date, b.Court, b.Hour, b.HolderEmail, b.HolderName, b.HolderPhone,
		b.Status, b.AdminComment, b.VoucherURL, b.ChargeID, b.PaymentType)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrSlotTaken
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	return nil
}

// Delete removes a booking row by id.  Deleting an already removed row is
// not an error.
func (r *BookingRepo) Delete(ctx context.Context, id uint64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	return err
}

// OccupiedHours returns the hours with a confirmed booking on the given
// date and court, ascending.
func (r *BookingRepo) OccupiedHours(ctx context.Context, date string, court int) ([]int, error) {
	const q = `SELECT hour FROM bookings
	           WHERE booking_date = ? AND court = ?
	           ORDER BY hour`
	rows, err := r.db.QueryContext(ctx, q, date, court)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hours []int
	for rows.Next() {
		var h int
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hours = append(hours, h)
	}
	return hours, rows.Err()
}

// CountConfirmed counts the holder's booked hours on one date and court.
// Feeds the per-day quota check.
func (r *BookingRepo) CountConfirmed(ctx context.Context, holderEmail, date string, court int) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings
	           WHERE holder_email = ? AND booking_date = ? AND court = ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, holderEmail, date, court).Scan(&n)
	return n, err
}

// ListByHolder returns every booking hour recorded under the given email,
// newest dates first, hours ascending within a date.
func (r *BookingRepo) ListByHolder(ctx context.Context, holderEmail string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE holder_email = ?
	           ORDER BY booking_date DESC, court, hour`
	return r.list(ctx, q, holderEmail)
}

// ListByDate returns all bookings of a day across every court, for the
// operator's day roster.
func (r *BookingRepo) ListByDate(ctx context.Context, date string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE booking_date = ?
	           ORDER BY court, hour`
	return r.list(ctx, q, date)
}

// ListByChargeID returns the booking hours paid by one charge, hours
// ascending.  Used to reconstruct vouchers.
func (r *BookingRepo) ListByChargeID(ctx context.Context, chargeID string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
	           FROM bookings
	           WHERE charge_id = ?
	           ORDER BY booking_date, court, hour`
	return r.list(ctx, q, chargeID)
}

func (r *BookingRepo) list(ctx context.Context, query string, args ...any) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Booking
	for rows.Next() {
		var b model.Booking
		if err := rows.Scan(
			&b.ID, &b.Date, &b.Court, &b.Hour, &b.HolderEmail, &b.HolderName, &b.HolderPhone,
			&b.Status, &b.AdminComment, &b.VoucherURL, &b.ChargeID, &b.PaymentType, &b.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, b)
	}
	return result, rows.Err()
}
