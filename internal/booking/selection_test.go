package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadedController(t *testing.T, occupied []int, conflict func(int)) *SelectionController {
	t.Helper()
	bookings := &fakeBookingSource{occupied: map[string][]int{"2026-09-01/1": occupied}}
	idx := NewAvailabilityIndex(bookings, nil)
	ctl := NewSelectionController(idx, 6, 22, conflict)
	require.NoError(t, ctl.Load(context.Background(), "2026-09-01", 1, "ana@example.com"))
	return ctl
}

func TestSelectionSingleHour(t *testing.T) {
	ctl := loadedController(t, nil, nil)

	require.NoError(t, ctl.Begin(10))
	assert.Equal(t, Selecting, ctl.State())

	rng, err := ctl.Release()
	require.NoError(t, err)
	assert.Equal(t, Selected, ctl.State())
	assert.Equal(t, SelectionRange{Date: "2026-09-01", Court: 1, StartHour: 10, EndHour: 11}, rng)
	assert.Equal(t, []int{10}, rng.Hours())
}

func TestSelectionExtendToTwoHours(t *testing.T) {
	ctl := loadedController(t, nil, nil)

	require.NoError(t, ctl.Begin(10))
	ctl.Extend(11)

	rng, err := ctl.Release()
	require.NoError(t, err)
	assert.Equal(t, 2, rng.Duration())
	assert.Equal(t, []int{10, 11}, rng.Hours())
}

func TestSelectionExtendCappedAtTwoHours(t *testing.T) {
	ctl := loadedController(t, nil, nil)

	require.NoError(t, ctl.Begin(10))
	ctl.Extend(15) // far past the cap

	rng, err := ctl.Release()
	require.NoError(t, err)
	assert.Equal(t, 12, rng.EndHour)
}

func TestSelectionExtendClampedToWindowClose(t *testing.T) {
	ctl := loadedController(t, nil, nil)

	require.NoError(t, ctl.Begin(21))
	ctl.Extend(23)

	rng, err := ctl.Release()
	require.NoError(t, err)
	assert.Equal(t, 22, rng.EndHour)
	assert.Equal(t, 1, rng.Duration())
}

func TestSelectionExtendBackwardKeepsOneHour(t *testing.T) {
	ctl := loadedController(t, nil, nil)

	require.NoError(t, ctl.Begin(10))
	ctl.Extend(8)

	rng, err := ctl.Release()
	require.NoError(t, err)
	assert.Equal(t, 1, rng.Duration())
	assert.Equal(t, 10, rng.StartHour)
}

func TestSelectionBeginOnOccupiedHour(t *testing.T) {
	ctl := loadedController(t, []int{10}, nil)

	err := ctl.Begin(10)
	assert.ErrorIs(t, err, ErrSlotOccupied)
	assert.Equal(t, Idle, ctl.State())
}

func TestSelectionBeginOutsideWindow(t *testing.T) {
	ctl := loadedController(t, nil, nil)

	assert.ErrorIs(t, ctl.Begin(5), ErrSlotOccupied)
	assert.ErrorIs(t, ctl.Begin(22), ErrSlotOccupied)
}

func TestSelectionExtendIntoOccupiedHourRefused(t *testing.T) {
	var warnedHours []int
	ctl := loadedController(t, []int{11}, func(h int) { warnedHours = append(warnedHours, h) })

	require.NoError(t, ctl.Begin(10))
	ctl.Extend(11)
	ctl.Extend(11) // repeated gesture movement must not re-notify

	assert.Equal(t, []int{11}, warnedHours)

	rng, err := ctl.Release()
	require.NoError(t, err)
	assert.Equal(t, 1, rng.Duration())
}

func TestSelectionConflictNotifiesAgainOnNewGesture(t *testing.T) {
	var warned int
	ctl := loadedController(t, []int{11}, func(int) { warned++ })

	require.NoError(t, ctl.Begin(10))
	ctl.Extend(11)
	_, err := ctl.Release()
	require.NoError(t, err)

	require.NoError(t, ctl.Begin(10))
	ctl.Extend(11)
	assert.Equal(t, 2, warned)
}

func TestSelectionWithoutLoadFails(t *testing.T) {
	bookings := &fakeBookingSource{}
	ctl := NewSelectionController(NewAvailabilityIndex(bookings, nil), 6, 22, nil)

	assert.ErrorIs(t, ctl.Begin(10), ErrScheduleUnavailable)
}

func TestSelectionLoadFailureBlocksSelection(t *testing.T) {
	bookings := &fakeBookingSource{err: errors.New("db down")}
	ctl := NewSelectionController(NewAvailabilityIndex(bookings, nil), 6, 22, nil)

	err := ctl.Load(context.Background(), "2026-09-01", 1, "ana@example.com")
	assert.ErrorIs(t, err, ErrScheduleUnavailable)
	assert.ErrorIs(t, ctl.Begin(10), ErrScheduleUnavailable)
}

func TestSelectionCancelReturnsToIdle(t *testing.T) {
	ctl := loadedController(t, nil, nil)

	require.NoError(t, ctl.Begin(10))
	ctl.Cancel()
	assert.Equal(t, Idle, ctl.State())

	_, err := ctl.Release()
	assert.Error(t, err)
}

func TestSelectionReleaseWithoutBegin(t *testing.T) {
	ctl := loadedController(t, nil, nil)

	_, err := ctl.Release()
	assert.Error(t, err)
	assert.Equal(t, Idle, ctl.State())
}
