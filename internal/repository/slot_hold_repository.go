package repository

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"time"
)

// SlotHoldRepo provides data access to the slot_holds table.  Holds are
// short-lived claims placed on schedule hours while payment is in flight;
// expired holds are reaped opportunistically on every placement.  The
// unique key on (booking_date, court, hour) keeps two live holds off the
// same slot.
type SlotHoldRepo struct {
	db *sql.DB
}

// NewSlotHoldRepo returns a SlotHoldRepo bound to the provided database.
func NewSlotHoldRepo(db *sql.DB) *SlotHoldRepo { return &SlotHoldRepo{db: db} }

// PlaceHolds claims the given hours for the holder inside one transaction:
// expired holds on the (date, court) are removed first, then one row per
// hour is inserted under a fresh token.  A collision with a live hold
// surfaces as ErrSlotTaken via the unique key and rolls back every insert
// of the batch.
func (r *SlotHoldRepo) PlaceHolds(ctx context.Context, holderEmail, date string, court int, hours []int, ttl time.Duration) (string, error) {
	if len(hours) == 0 {
		return "", nil
	}
	token, err := randomToken(16)
	if err != nil {
		return "", err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`DELETE FROM slot_holds WHERE booking_date = ? AND court = ? AND expires_at <= UTC_TIMESTAMP()`,
		date, court)
	if err != nil {
		return "", err
	}

	expires := time.Now().UTC().Add(ttl)
	for _, h := range hours {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO slot_holds (holder_email, booking_date, court, hour, hold_token, expires_at)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			holderEmail, date, court, h, token, expires)
		if err != nil {
			if isDuplicateKey(err) {
				return "", ErrSlotTaken
			}
			return "", err
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	committed = true
	return token, nil
}

// ReleaseHolds removes every hold placed under the given token.  Releasing
// an unknown or already expired token is not an error.
func (r *SlotHoldRepo) ReleaseHolds(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `DELETE FROM slot_holds WHERE hold_token = ?`, token)
	return err
}

// ActiveHeldHours returns the unexpired held hours of a (date, court),
// excluding holds placed by excludeHolder so a holder mid-checkout does
// not collide with their own claim.
func (r *SlotHoldRepo) ActiveHeldHours(ctx context.Context, date string, court int, excludeHolder string) ([]int, error) {
	const q = `SELECT hour FROM slot_holds
	           WHERE booking_date = ? AND court = ?
	             AND expires_at > UTC_TIMESTAMP()
	             AND holder_email <> ?
	           ORDER BY hour`
	rows, err := r.db.QueryContext(ctx, q, date, court, excludeHolder)
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

// randomToken generates a random hexadecimal string of n bytes (2n hex
// characters), used for hold_token values.
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
