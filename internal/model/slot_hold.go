package model

import "time"

// SlotHold is a temporary claim on one (date, court, hour) slot placed by
// the committer before payment capture starts.  Holds keep the slot out of
// other holders' availability while the external payment call is in flight
// and expire automatically at ExpiresAt, so an abandoned checkout releases
// the slot without cleanup jobs.
//
// Fields:
//
//	ID          – primary key identifier.
//	HolderEmail – holder the slot is held for.
//	Date        – booking day, YYYY-MM-DD.
//	Court       – court number (1..3).
//	Hour        – held slot start hour.
//	HoldToken   – opaque token correlating the holds of one commit attempt.
//	ExpiresAt   – when the hold stops counting as occupied.
//	CreatedAt   – when the hold was created.
type SlotHold struct {
	ID          uint64    // slot_holds.id
	HolderEmail string    // slot_holds.holder_email
	Date        string    // slot_holds.booking_date
	Court       int       // slot_holds.court
	Hour        int       // slot_holds.hour
	HoldToken   string    // slot_holds.hold_token
	ExpiresAt   time.Time // slot_holds.expires_at
	CreatedAt   time.Time // slot_holds.created_at
}
