// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a court reservation is
// successfully committed.  It carries enough information for downstream
// consumers to log, notify, or trigger analytics without querying the
// primary database.
type BookingConfirmedEvent struct {
	HolderEmail      string `json:"holder_email"`
	HolderName       string `json:"holder_name"`
	Date             string `json:"date"`
	Court            int    `json:"court"`
	StartHour        int    `json:"start_hour"`
	EndHour          int    `json:"end_hour"`
	ChargeID         string `json:"charge_id,omitempty"`
	VoucherURL       string `json:"voucher_url,omitempty"`
	TotalAmountCents int64  `json:"total_amount_cents"`
	ConfirmedAt      string `json:"confirmed_at"`
}
