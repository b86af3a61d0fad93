package booking

import (
	"context"
	"fmt"
)

// DailyCourtQuota is the maximum number of confirmed hours a regular holder
// may hold on one court for one date.
const DailyCourtQuota = 2

// QuotaCounter reports how many confirmed hours a holder already has booked
// on a (date, court).  Implemented by the booking repository.
type QuotaCounter interface {
	CountConfirmed(ctx context.Context, holderEmail, date string, court int) (int, error)
}

// QuotaGuard enforces the per-holder daily court quota.  Operators are
// exempt; everyone else gets at most DailyCourtQuota hours per court per
// date, counting already confirmed hours plus the hours being requested.
type QuotaGuard struct {
	counter QuotaCounter
}

// NewQuotaGuard builds a guard over the given counter.
func NewQuotaGuard(counter QuotaCounter) *QuotaGuard {
	if counter == nil {
		panic("nil quota counter passed to NewQuotaGuard")
	}
	return &QuotaGuard{counter: counter}
}

// Check validates that the holder may book `requested` additional hours on
// the (date, court).  privileged holders bypass the quota entirely, without
// touching the counter.  A counter read failure propagates as
// ErrScheduleUnavailable: the quota cannot be verified, so the booking must
// not proceed.  Exceeding the quota returns ErrQuotaExceeded.
func (g *QuotaGuard) Check(ctx context.Context, holderEmail string, privileged bool, date string, court, requested int) error {
	if privileged {
		return nil
	}
	used, err := g.counter.CountConfirmed(ctx, holderEmail, date, court)
	if err != nil {
		return fmt.Errorf("%w: counting confirmed hours for %s: %v", ErrScheduleUnavailable, holderEmail, err)
	}
	if used+requested > DailyCourtQuota {
		return fmt.Errorf("%w: %d hour(s) already booked on court %d for %s, %d more requested (limit %d)",
			ErrQuotaExceeded, used, court, date, requested, DailyCourtQuota)
	}
	return nil
}
