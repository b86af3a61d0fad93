package booking

import (
	"context"
	"fmt"
)

// HourSet is the set of occupied slot-start hours for one (date, court).
type HourSet map[int]struct{}

// Has reports whether the given hour is in the set.
func (s HourSet) Has(hour int) bool {
	_, ok := s[hour]
	return ok
}

// Hours returns the members of the set in unspecified order.
func (s HourSet) Hours() []int {
	out := make([]int, 0, len(s))
	for h := range s {
		out = append(out, h)
	}
	return out
}

// BookingSource reads confirmed bookings from the persistence collaborator.
type BookingSource interface {
	// OccupiedHours returns the slot hours with a confirmed booking for
	// the given date and court.
	OccupiedHours(ctx context.Context, date string, court int) ([]int, error)
}

// HoldSource reads unexpired soft holds.  excludeHolder filters out the
// viewing holder's own holds, so a holder mid-checkout does not see their
// own claim as a conflict.
type HoldSource interface {
	ActiveHeldHours(ctx context.Context, date string, court int, excludeHolder string) ([]int, error)
}

// AvailabilityIndex answers which hours of a (date, court) are occupied.
// Occupied means confirmed bookings plus other holders' active soft holds.
// Read failures are wrapped in ErrScheduleUnavailable and must propagate;
// the index never falls back to reporting a slot as free.
type AvailabilityIndex struct {
	bookings BookingSource
	holds    HoldSource
}

// NewAvailabilityIndex builds an index over the given sources.  holds may
// be nil when soft holds are not in play (e.g. read-only listings).
func NewAvailabilityIndex(bookings BookingSource, holds HoldSource) *AvailabilityIndex {
	if bookings == nil {
		panic("nil booking source passed to NewAvailabilityIndex")
	}
	return &AvailabilityIndex{bookings: bookings, holds: holds}
}

// Query returns every occupied hour of the given date and court, including
// all active holds.  Use QueryFor when the viewer's own holds should not
// count as occupied.
func (a *AvailabilityIndex) Query(ctx context.Context, date string, court int) (HourSet, error) {
	return a.QueryFor(ctx, date, court, "")
}

// QueryFor returns the occupied hours as seen by the given holder: confirmed
// bookings plus holds placed by anyone else.
func (a *AvailabilityIndex) QueryFor(ctx context.Context, date string, court int, holder string) (HourSet, error) {
	booked, err := a.bookings.OccupiedHours(ctx, date, court)
	if err != nil {
		return nil, fmt.Errorf("%w: read bookings for %s court %d: %v", ErrScheduleUnavailable, date, court, err)
	}
	set := make(HourSet, len(booked))
	for _, h := range booked {
		set[h] = struct{}{}
	}
	if a.holds != nil {
		held, err := a.holds.ActiveHeldHours(ctx, date, court, holder)
		if err != nil {
			return nil, fmt.Errorf("%w: read holds for %s court %d: %v", ErrScheduleUnavailable, date, court, err)
		}
		for _, h := range held {
			set[h] = struct{}{}
		}
	}
	return set, nil
}

// IsFree reports whether a single hour is free for the given date and court.
func (a *AvailabilityIndex) IsFree(ctx context.Context, date string, court int, hour int) (bool, error) {
	occ, err := a.Query(ctx, date, court)
	if err != nil {
		return false, err
	}
	return !occ.Has(hour), nil
}
