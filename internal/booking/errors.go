// Package booking implements the slot allocation engine for the court
// schedule: availability reads, the interactive range-selection state
// machine, the per-holder quota, the two-phase commit that turns a selected
// range into persisted bookings, and the display-level merge of per-hour
// rows.  The package is headless — persistence, payment and identity are
// injected behind small interfaces so the whole engine is testable without
// a database or an HTTP stack.
package booking

import (
	"errors"
	"fmt"
)

// Sentinel errors distinguishing the failure modes of selection and commit.
// Handlers translate these into HTTP statuses; nothing in this package
// retries on its own.
var (
	// ErrSlotOccupied signals that at least one hour of the requested
	// range is already booked or held by another holder.  Returned both
	// at selection time and by the commit-time re-validation.
	ErrSlotOccupied = errors.New("slot already occupied")

	// ErrQuotaExceeded signals that committing the range would push a
	// non-privileged holder past the per-court per-day hour cap.
	ErrQuotaExceeded = errors.New("booking quota exceeded")

	// ErrPaymentDeclined signals that the payment collaborator returned a
	// non-approved charge.  No bookings are created.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentCancelled signals that the holder abandoned the payment
	// step.  No bookings are created.
	ErrPaymentCancelled = errors.New("payment cancelled")

	// ErrScheduleUnavailable signals that the occupancy of the schedule
	// could not be read.  A failed read must never be treated as "all
	// hours free"; selection is blocked until availability is confirmed.
	ErrScheduleUnavailable = errors.New("schedule unavailable")
)

// PartialCommitError reports a commit that failed after at least one
// per-hour booking was durably created and the compensating deletes could
// not undo all of them.  Hours lists the slots that remain committed so the
// caller can present them as booked and the rest as failed.  This state is
// not locally recoverable and is surfaced verbatim.
type PartialCommitError struct {
	Hours []int // hours whose bookings remain committed, ascending
	Err   error // the failure that interrupted the create loop
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("commit partially failed, hours %v remain booked: %v", e.Hours, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }
