// Package repository implements MySQL data access for bookings, slot
// holds, charges, users and refresh tokens.  Sentinel errors defined here
// let higher layers distinguish the failure scenarios without inspecting
// driver internals; the duplicate-key checks back the schedule's
// one-booking-per-slot guarantee.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrSlotTaken is returned when an insert collides with the unique key on
// (booking_date, court, hour) — either in bookings or in slot_holds.  It is
// the database-level arbitration between concurrent committers.
var ErrSlotTaken = errors.New("slot already taken")

// ErrChargeNotFound is returned when a charge lookup yields no rows.
var ErrChargeNotFound = errors.New("charge not found")

// mysqlDuplicateEntry is the server error code for a unique key violation.
const mysqlDuplicateEntry = 1062

// isDuplicateKey reports whether err is a MySQL duplicate-entry error.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == mysqlDuplicateEntry
}
