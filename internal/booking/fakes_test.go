package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/tennis-court-reservation/internal/model"
)

// fakeBookingSource serves occupied hours from an in-memory map keyed by
// "date/court" and can be forced to fail.
type fakeBookingSource struct {
	occupied map[string][]int
	err      error
}

func (f *fakeBookingSource) key(date string, court int) string {
	return fmt.Sprintf("%s/%d", date, court)
}

func (f *fakeBookingSource) OccupiedHours(_ context.Context, date string, court int) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.occupied[f.key(date, court)], nil
}

// fakeHoldSource mirrors fakeBookingSource for active holds, tracking which
// holder was excluded on the last query.
type fakeHoldSource struct {
	held         map[string][]int
	err          error
	lastExcluded string
}

func (f *fakeHoldSource) ActiveHeldHours(_ context.Context, date string, court int, excludeHolder string) ([]int, error) {
	f.lastExcluded = excludeHolder
	if f.err != nil {
		return nil, f.err
	}
	return f.held[fmt.Sprintf("%s/%d", date, court)], nil
}

// fakeQuotaCounter returns a fixed count per holder email.
type fakeQuotaCounter struct {
	counts map[string]int
	err    error
	calls  int
}

func (f *fakeQuotaCounter) CountConfirmed(_ context.Context, holderEmail, _ string, _ int) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[holderEmail], nil
}

// fakeSlotWriter records created rows, assigns ids, and can fail creation
// from a given call index onward.  Deletes can be made to fail too.
type fakeSlotWriter struct {
	created   []model.Booking
	deleted   []uint64
	nextID    uint64
	failAfter int // fail the Nth create (0-based); -1 never fails
	createErr error
	deleteErr error
	creates   int
}

func newFakeSlotWriter() *fakeSlotWriter {
	return &fakeSlotWriter{failAfter: -1}
}

func (f *fakeSlotWriter) Create(_ context.Context, b *model.Booking) error {
	if f.failAfter >= 0 && f.creates == f.failAfter {
		f.creates++
		if f.createErr != nil {
			return f.createErr
		}
		return errors.New("create failed")
	}
	f.creates++
	f.nextID++
	b.ID = f.nextID
	f.created = append(f.created, *b)
	return nil
}

func (f *fakeSlotWriter) Delete(_ context.Context, id uint64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// fakeHoldStore records hold placement and release.
type fakeHoldStore struct {
	placeErr   error
	releaseErr error
	placed     []int
	released   []string
	token      string
}

func (f *fakeHoldStore) PlaceHolds(_ context.Context, _, _ string, _ int, hours []int, _ time.Duration) (string, error) {
	if f.placeErr != nil {
		return "", f.placeErr
	}
	f.placed = append(f.placed, hours...)
	if f.token == "" {
		f.token = "hold-token-1"
	}
	return f.token, nil
}

func (f *fakeHoldStore) ReleaseHolds(_ context.Context, token string) error {
	f.released = append(f.released, token)
	return f.releaseErr
}

// fakePaymentProcessor returns a canned charge or error.
type fakePaymentProcessor struct {
	charge   *model.Charge
	err      error
	requests []ChargeRequest
}

func (f *fakePaymentProcessor) Charge(_ context.Context, req ChargeRequest) (*model.Charge, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.charge, nil
}
