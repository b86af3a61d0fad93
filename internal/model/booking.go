package model

import "time"

// Booking status and payment-type enumerations.  Cancellation is handled
// outside this service, so persisted rows are always CONFIRMED.
const (
	StatusConfirmed = "CONFIRMED"

	PaymentTypeCard  = "card"
	PaymentTypeOther = "other"
)

// Booking records one confirmed hour of one court for one holder.  A
// multi-hour reservation is stored as consecutive per-hour rows sharing the
// same charge reference; MergeContiguous collapses them for display.  At
// most one row may exist per (date, court, hour) — the bookings table
// carries a unique key on exactly that triple.
//
// Fields:
//
//	ID           – primary key identifier.
//	Date         – booking day, YYYY-MM-DD.
//	Court        – court number (1..3).
//	Hour         – slot start hour; every slot is one hour wide.
//	HolderEmail  – identity the booking is recorded under.
//	HolderName   – display name captured at commit time.
//	HolderPhone  – contact phone captured at commit time.
//	Status       – always CONFIRMED within this service.
//	AdminComment – operator-only note (nil for ordinary holders).
//	VoucherURL   – receipt link returned by the payment collaborator.
//	ChargeID     – payment charge reference, if a charge was captured.
//	PaymentType  – how the operator recorded the booking (card|other).
//	CreatedAt    – creation timestamp.
type Booking struct {
	ID           uint64    `json:"id"`
	Date         string    `json:"date"`
	Court        int       `json:"court"`
	Hour         int       `json:"hour"`
	HolderEmail  string    `json:"holder_email"`
	HolderName   string    `json:"holder_name"`
	HolderPhone  string    `json:"holder_phone,omitempty"`
	Status       string    `json:"status"`
	AdminComment *string   `json:"admin_comment,omitempty"`
	VoucherURL   *string   `json:"voucher_url,omitempty"`
	ChargeID     *string   `json:"charge_id,omitempty"`
	PaymentType  *string   `json:"payment_type,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// MergedBooking is a derived, never-persisted view: a contiguous run of
// same-holder bookings on one court and day collapsed to a single range.
// StartHour is inclusive, EndHour exclusive.  Optional fields carry the
// first non-nil value found while folding.
type MergedBooking struct {
	Date         string  `json:"date"`
	Court        int     `json:"court"`
	StartHour    int     `json:"start_hour"`
	EndHour      int     `json:"end_hour"`
	HolderEmail  string  `json:"holder_email"`
	HolderName   string  `json:"holder_name"`
	Status       string  `json:"status"`
	AdminComment *string `json:"admin_comment,omitempty"`
	VoucherURL   *string `json:"voucher_url,omitempty"`
	ChargeID     *string `json:"charge_id,omitempty"`
	PaymentType  *string `json:"payment_type,omitempty"`
}

// Hours returns the number of one-hour slots the merged range spans.
func (m MergedBooking) Hours() int { return m.EndHour - m.StartHour }
