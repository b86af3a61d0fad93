package booking

import (
	"context"
	"fmt"
)

// MaxSelectionHours caps the width of one selection gesture.  The facility
// rents at most two consecutive hours per reservation.
const MaxSelectionHours = 2

// SelectionState enumerates the states of the range-selection machine.
type SelectionState int

const (
	// Idle – no gesture in progress.
	Idle SelectionState = iota
	// Selecting – the holder has anchored a start hour and may still
	// extend the range.
	Selecting
	// Selected – the gesture was released over a valid range; the range
	// awaits the quota check and commit.
	Selected
)

func (s SelectionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Selecting:
		return "selecting"
	case Selected:
		return "selected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// SelectionRange is the validated outcome of a selection gesture.  StartHour
// is inclusive, EndHour exclusive; EndHour-StartHour is 1 or 2.  Ranges are
// ephemeral and never persisted.
type SelectionRange struct {
	Date      string
	Court     int
	StartHour int
	EndHour   int
}

// Hours returns the slot hours of the range in ascending order.
func (r SelectionRange) Hours() []int {
	out := make([]int, 0, r.EndHour-r.StartHour)
	for h := r.StartHour; h < r.EndHour; h++ {
		out = append(out, h)
	}
	return out
}

// Duration returns the width of the range in hours.
func (r SelectionRange) Duration() int { return r.EndHour - r.StartHour }

// SelectionController models the drag gesture as an explicit state machine
// decoupled from any UI event system: Begin anchors a start hour, Extend
// grows the candidate range, Release finalizes or aborts, Cancel resets.
// Occupancy is validated live against a snapshot loaded from the
// AvailabilityIndex at gesture start; the commit path re-validates against
// fresh data, so a stale snapshot can produce at worst a late conflict, not
// a double booking.
//
// The controller is single-actor state, like the interactive context it
// models; it is not safe for concurrent use.
type SelectionController struct {
	avail    *AvailabilityIndex
	open     int // first selectable hour, inclusive
	close    int // last selectable hour, exclusive
	conflict func(hour int)

	date     string
	court    int
	holder   string
	occupied HourSet
	loaded   bool

	state  SelectionState
	start  int
	end    int
	warned bool // conflict notification already fired this gesture
}

// NewSelectionController builds a controller bound to the availability index
// and the facility's bookable window.  conflict, when non-nil, is invoked at
// most once per unbroken gesture with the first occupied hour that refused
// an extension.
func NewSelectionController(avail *AvailabilityIndex, openHour, closeHour int, conflict func(hour int)) *SelectionController {
	if avail == nil {
		panic("nil availability index passed to NewSelectionController")
	}
	return &SelectionController{
		avail:    avail,
		open:     openHour,
		close:    closeHour,
		conflict: conflict,
		state:    Idle,
	}
}

// Load snapshots the occupancy of a (date, court) for the given holder and
// resets the machine to Idle.  Selection is blocked until a snapshot is
// confirmed: a read failure propagates ErrScheduleUnavailable and leaves the
// controller unloaded, so no hour can be presented as free during the
// outage.
func (s *SelectionController) Load(ctx context.Context, date string, court int, holder string) error {
	s.reset()
	s.loaded = false
	occ, err := s.avail.QueryFor(ctx, date, court, holder)
	if err != nil {
		return err
	}
	s.date = date
	s.court = court
	s.holder = holder
	s.occupied = occ
	s.loaded = true
	return nil
}

// State returns the current machine state.
func (s *SelectionController) State() SelectionState { return s.state }

// Range returns the current candidate range bounds.  Only meaningful in
// Selecting or Selected.
func (s *SelectionController) Range() (start, end int) { return s.start, s.end }

// Begin anchors a new one-hour selection at the given hour.  It fails with
// ErrScheduleUnavailable when no snapshot is loaded, and with
// ErrSlotOccupied when the hour is occupied or outside the bookable window;
// in every failure case the machine stays Idle.
func (s *SelectionController) Begin(hour int) error {
	s.reset()
	if !s.loaded {
		return fmt.Errorf("%w: selection requires a loaded schedule snapshot", ErrScheduleUnavailable)
	}
	if hour < s.open || hour >= s.close {
		return fmt.Errorf("%w: hour %d outside bookable window %d..%d", ErrSlotOccupied, hour, s.open, s.close)
	}
	if s.occupied.Has(hour) {
		return ErrSlotOccupied
	}
	s.state = Selecting
	s.start = hour
	s.end = hour + 1
	return nil
}

// Extend grows the candidate range toward the given hour.  The candidate
// end is capped at start+MaxSelectionHours and at the close of the bookable
// window.  If any hour of the candidate range is occupied the extension is
// refused — the current end is kept — and the conflict callback fires once
// per gesture.  Extend is a no-op outside the Selecting state.
func (s *SelectionController) Extend(hour int) {
	if s.state != Selecting {
		return
	}
	next := hour + 1
	if max := s.start + MaxSelectionHours; next > max {
		next = max
	}
	if next > s.close {
		next = s.close
	}
	if next <= s.start {
		next = s.start + 1
	}
	for h := s.start; h < next; h++ {
		if s.occupied.Has(h) {
			if !s.warned {
				s.warned = true
				if s.conflict != nil {
					s.conflict(h)
				}
			}
			return
		}
	}
	s.end = next
}

// Release finalizes the gesture.  If any hour of the range became occupied
// it aborts to Idle with ErrSlotOccupied and no further effect.  Otherwise
// the machine moves to Selected and the validated range is returned; the
// caller is expected to follow up with the quota check before committing.
func (s *SelectionController) Release() (SelectionRange, error) {
	if s.state != Selecting {
		return SelectionRange{}, fmt.Errorf("release without an active selection (state %s)", s.state)
	}
	for h := s.start; h < s.end; h++ {
		if s.occupied.Has(h) {
			s.reset()
			return SelectionRange{}, ErrSlotOccupied
		}
	}
	s.state = Selected
	return SelectionRange{
		Date:      s.date,
		Court:     s.court,
		StartHour: s.start,
		EndHour:   s.end,
	}, nil
}

// Cancel abandons the gesture from any state: Selected ranges are dropped
// on explicit cancel, successful commit, or navigation away.
func (s *SelectionController) Cancel() { s.reset() }

func (s *SelectionController) reset() {
	s.state = Idle
	s.start = 0
	s.end = 0
	s.warned = false
}
