package model

import "time"

// Charge statuses returned by the payment collaborator.
const (
	ChargeStatusPaid   = "paid"
	ChargeStatusFailed = "failed"
)

// SentinelChargeID is used when a voucher link must be derived for a
// booking that never went through payment capture.  The voucher renderer
// reconstructs the document entirely from the fallback query parameters in
// that case.
const SentinelChargeID = "ch_mock_unknown"

// Charge is the approved (or rejected) payment transaction returned by the
// payment collaborator.  Charges are persisted so that voucher links stay
// resolvable after the fact.
type Charge struct {
	ID          string            `json:"id"`
	Status      string            `json:"status"`
	AmountCents int64             `json:"amount_cents"`
	Currency    string            `json:"currency"`
	Email       string            `json:"email"`
	Method      string            `json:"method"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	VoucherURL  string            `json:"voucher_url,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// Approved reports whether the charge completed successfully.
func (c *Charge) Approved() bool { return c != nil && c.Status == ChargeStatusPaid }
