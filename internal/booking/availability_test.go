package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityIndexQueryMergesBookingsAndHolds(t *testing.T) {
	bookings := &fakeBookingSource{occupied: map[string][]int{"2026-09-01/1": {9, 10}}}
	holds := &fakeHoldSource{held: map[string][]int{"2026-09-01/1": {14}}}
	idx := NewAvailabilityIndex(bookings, holds)

	occ, err := idx.Query(context.Background(), "2026-09-01", 1)
	require.NoError(t, err)

	assert.True(t, occ.Has(9))
	assert.True(t, occ.Has(10))
	assert.True(t, occ.Has(14))
	assert.False(t, occ.Has(11))
	assert.ElementsMatch(t, []int{9, 10, 14}, occ.Hours())
}

func TestAvailabilityIndexQueryForExcludesOwnHolds(t *testing.T) {
	bookings := &fakeBookingSource{}
	holds := &fakeHoldSource{held: map[string][]int{"2026-09-01/2": {8}}}
	idx := NewAvailabilityIndex(bookings, holds)

	_, err := idx.QueryFor(context.Background(), "2026-09-01", 2, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", holds.lastExcluded)
}

func TestAvailabilityIndexWithoutHoldSource(t *testing.T) {
	bookings := &fakeBookingSource{occupied: map[string][]int{"2026-09-01/3": {6}}}
	idx := NewAvailabilityIndex(bookings, nil)

	occ, err := idx.Query(context.Background(), "2026-09-01", 3)
	require.NoError(t, err)
	assert.True(t, occ.Has(6))
	assert.False(t, occ.Has(7))
}

func TestAvailabilityIndexReadFailurePropagates(t *testing.T) {
	bookings := &fakeBookingSource{err: errors.New("connection refused")}
	idx := NewAvailabilityIndex(bookings, nil)

	_, err := idx.Query(context.Background(), "2026-09-01", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrScheduleUnavailable)
}

func TestAvailabilityIndexHoldReadFailurePropagates(t *testing.T) {
	bookings := &fakeBookingSource{}
	holds := &fakeHoldSource{err: errors.New("timeout")}
	idx := NewAvailabilityIndex(bookings, holds)

	_, err := idx.Query(context.Background(), "2026-09-01", 1)
	assert.ErrorIs(t, err, ErrScheduleUnavailable)
}

func TestIsFree(t *testing.T) {
	bookings := &fakeBookingSource{occupied: map[string][]int{"2026-09-01/1": {12}}}
	idx := NewAvailabilityIndex(bookings, nil)

	free, err := idx.IsFree(context.Background(), "2026-09-01", 1, 12)
	require.NoError(t, err)
	assert.False(t, free)

	free, err = idx.IsFree(context.Background(), "2026-09-01", 1, 13)
	require.NoError(t, err)
	assert.True(t, free)
}
