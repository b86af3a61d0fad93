package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

// SlotWriter persists and removes individual booking hours.  Create must
// enforce the slot uniqueness of (date, court, hour) and return
// ErrSlotOccupied (possibly wrapped) when the slot is already taken; the
// store is the final arbiter against concurrent committers.
type SlotWriter interface {
	Create(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, id uint64) error
}

// HoldStore places and releases short-lived soft holds on slot hours.
// PlaceHolds must fail with ErrSlotOccupied (possibly wrapped) when any of
// the hours is actively held by another holder.
type HoldStore interface {
	PlaceHolds(ctx context.Context, holderEmail, date string, court int, hours []int, ttl time.Duration) (token string, err error)
	ReleaseHolds(ctx context.Context, token string) error
}

// ChargeRequest describes the payment to capture for a booking.
type ChargeRequest struct {
	AmountCents int64
	Currency    string
	Email       string
	Method      string
	Description string
	Metadata    map[string]string
}

// PaymentProcessor captures payment for a pending booking.  A declined
// charge returns ErrPaymentDeclined, a holder-cancelled flow
// ErrPaymentCancelled; both may be wrapped.
type PaymentProcessor interface {
	Charge(ctx context.Context, req ChargeRequest) (*model.Charge, error)
}

// Holder identifies the person a booking is committed for.
type Holder struct {
	Email      string
	Name       string
	Phone      string
	Privileged bool
}

// CommitOptions carries per-commit extras.  AdminComment is operator-only
// and ignored for unprivileged holders; ChargeMetadata is merged into the
// payment request (e.g. simulation triggers in test environments).
type CommitOptions struct {
	AdminComment   string
	PaymentType    string
	ChargeMetadata map[string]string
}

// CommitResult reports a successful commit.
type CommitResult struct {
	Bookings   []model.Booking
	Charge     *model.Charge
	VoucherURL string
}

// BookingCommitter turns a validated selection into confirmed bookings:
// re-validate the range against fresh occupancy, re-check the quota, place
// a short soft hold on the hours, capture payment, then persist one booking
// row per hour.  The soft hold keeps a concurrent committer from charging
// for hours that are about to be taken; the store's uniqueness constraint
// remains the last line of defense.
type BookingCommitter struct {
	avail     *AvailabilityIndex
	quota     *QuotaGuard
	slots     SlotWriter
	holds     HoldStore
	payments  PaymentProcessor
	vouchers  VoucherLinker
	provider  func() time.Time
	holdTTL   time.Duration
	priceCent int64
	currency  string
}

// NewBookingCommitter wires a committer.  holds may be nil, in which case
// the hold phase is skipped and the commit relies on re-validation plus the
// store's uniqueness constraint alone.
func NewBookingCommitter(
	avail *AvailabilityIndex,
	quota *QuotaGuard,
	slots SlotWriter,
	holds HoldStore,
	payments PaymentProcessor,
	vouchers VoucherLinker,
	holdTTL time.Duration,
	pricePerHourCents int64,
	currency string,
) *BookingCommitter {
	if avail == nil || quota == nil || slots == nil || payments == nil {
		panic("nil collaborator passed to NewBookingCommitter")
	}
	return &BookingCommitter{
		avail:     avail,
		quota:     quota,
		slots:     slots,
		holds:     holds,
		payments:  payments,
		vouchers:  vouchers,
		provider:  time.Now,
		holdTTL:   holdTTL,
		priceCent: pricePerHourCents,
		currency:  currency,
	}
}

// Commit executes the full pipeline for the selected range on behalf of the
// holder.  requirePayment controls the capture step: the operator may
// record a booking settled outside the system (paid at the desk), in which
// case no charge exists and the voucher link falls back to the sentinel
// charge id.  Error taxonomy, in pipeline order:
//
//   - ErrScheduleUnavailable: occupancy or quota could not be read.
//   - ErrSlotOccupied: an hour of the range is taken or held by someone else.
//   - ErrQuotaExceeded: the holder's daily court quota would be exceeded.
//   - ErrPaymentCancelled / ErrPaymentDeclined: the charge did not complete;
//     no booking rows exist and the hold is released.
//   - PartialCommitError: persistence failed mid-range AND the compensating
//     deletes of the already created rows also failed; the Hours field lists
//     the rows left behind for manual reconciliation.
//
// A create failure after a captured charge first attempts to delete every
// row created so far; when compensation succeeds the original error is
// returned bare, leaving no partial state.
func (c *BookingCommitter) Commit(ctx context.Context, sel SelectionRange, holder Holder, requirePayment bool, opts CommitOptions) (*CommitResult, error) {
	hours := sel.Hours()
	if len(hours) == 0 || len(hours) > MaxSelectionHours {
		return nil, fmt.Errorf("invalid selection range %d..%d", sel.StartHour, sel.EndHour)
	}

	// Fresh occupancy check: the selection snapshot may be stale by now.
	occ, err := c.avail.QueryFor(ctx, sel.Date, sel.Court, holder.Email)
	if err != nil {
		return nil, err
	}
	for _, h := range hours {
		if occ.Has(h) {
			return nil, ErrSlotOccupied
		}
	}

	if err := c.quota.Check(ctx, holder.Email, holder.Privileged, sel.Date, sel.Court, len(hours)); err != nil {
		return nil, err
	}

	var holdToken string
	if c.holds != nil {
		holdToken, err = c.holds.PlaceHolds(ctx, holder.Email, sel.Date, sel.Court, hours, c.holdTTL)
		if err != nil {
			if errors.Is(err, ErrSlotOccupied) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: placing slot holds: %v", ErrScheduleUnavailable, err)
		}
		defer func() {
			// Best effort: an expired or already released hold is fine.
			_ = c.holds.ReleaseHolds(context.WithoutCancel(ctx), holdToken)
		}()
	}

	var charge *model.Charge
	if requirePayment {
		meta := map[string]string{
			"date":  sel.Date,
			"court": fmt.Sprintf("%d", sel.Court),
			"start": fmt.Sprintf("%d", sel.StartHour),
			"end":   fmt.Sprintf("%d", sel.EndHour),
		}
		for k, v := range opts.ChargeMetadata {
			meta[k] = v
		}
		charge, err = c.payments.Charge(ctx, ChargeRequest{
			AmountCents: c.priceCent * int64(len(hours)),
			Currency:    c.currency,
			Email:       holder.Email,
			Method:      opts.PaymentType,
			Description: fmt.Sprintf("Court %d on %s, %02d:00-%02d:00", sel.Court, sel.Date, sel.StartHour, sel.EndHour),
			Metadata:    meta,
		})
		if err != nil {
			return nil, err
		}
	}

	voucherURL := c.vouchers.Link(charge, VoucherContext{
		Court:     sel.Court,
		Date:      sel.Date,
		StartHour: sel.StartHour,
		EndHour:   sel.EndHour,
		Name:      holder.Name,
		Email:     holder.Email,
		Comment:   c.adminComment(holder, opts),
	})

	created := make([]model.Booking, 0, len(hours))
	for _, h := range hours {
		row := model.Booking{
			Date:        sel.Date,
			Court:       sel.Court,
			Hour:        h,
			HolderEmail: holder.Email,
			HolderName:  holder.Name,
			HolderPhone: holder.Phone,
			Status:      model.StatusConfirmed,
			VoucherURL:  &voucherURL,
			CreatedAt:   c.provider(),
		}
		if charge != nil && charge.ID != "" {
			id := charge.ID
			row.ChargeID = &id
		}
		if holder.Privileged {
			if opts.AdminComment != "" {
				comment := opts.AdminComment
				row.AdminComment = &comment
			}
			if opts.PaymentType != "" {
				pt := opts.PaymentType
				row.PaymentType = &pt
			}
		}
		if err := c.slots.Create(ctx, &row); err != nil {
			return nil, c.compensate(ctx, created, err)
		}
		created = append(created, row)
	}

	return &CommitResult{
		Bookings:   created,
		Charge:     charge,
		VoucherURL: voucherURL,
	}, nil
}

// adminComment returns the operator comment when the holder may set one.
func (c *BookingCommitter) adminComment(holder Holder, opts CommitOptions) string {
	if holder.Privileged {
		return opts.AdminComment
	}
	return ""
}

// compensate deletes the rows created before cause struck.  When every
// delete succeeds the cause is returned unchanged; otherwise the rows that
// could not be removed are reported in a PartialCommitError wrapping cause.
func (c *BookingCommitter) compensate(ctx context.Context, created []model.Booking, cause error) error {
	var stranded []int
	for _, row := range created {
		if err := c.slots.Delete(context.WithoutCancel(ctx), row.ID); err != nil {
			stranded = append(stranded, row.Hour)
		}
	}
	if len(stranded) > 0 {
		return &PartialCommitError{Hours: stranded, Err: cause}
	}
	return cause
}
