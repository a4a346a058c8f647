package gesture

import (
	"fmt"
	"math"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/grid"
)

// Controller is the move/resize state machine.
//
//	Idle -> PendingDrag -> Dragging -> Idle
//	Idle -> PendingResize -> Resizing -> Idle
//
// PointerUp and Cancel are the only transitions back to Idle.
type Controller struct {
	threshold float64
	layout    *grid.Layout

	state   State
	subject booking.Booking
	edge    Edge
	down    grid.Point
	preview Preview
}

// NewController returns an idle controller. threshold <= 0 uses
// DefaultThreshold.
func NewController(threshold float64) *Controller {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Controller{threshold: threshold}
}

// SetLayout sets the layout pointer positions are resolved against.
func (c *Controller) SetLayout(l *grid.Layout) {
	c.layout = l
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Active reports whether a gesture is in progress.
func (c *Controller) Active() bool {
	return c.state != Idle
}

// Subject returns the booking being dragged or resized.
func (c *Controller) Subject() (booking.Booking, bool) {
	return c.subject, c.state != Idle
}

// Preview returns the current visual feedback. ok is false until the pointer
// has passed the threshold.
func (c *Controller) Preview() (Preview, bool) {
	return c.preview, c.state == Dragging || c.state == Resizing
}

// PointerDown starts a possible drag of bookingID.
func (c *Controller) PointerDown(bookingID string, p grid.Point) error {
	return c.begin(PendingDrag, bookingID, EdgeStart, p)
}

// BeginResize starts a possible resize of one edge of bookingID.
func (c *Controller) BeginResize(bookingID string, edge Edge, p grid.Point) error {
	return c.begin(PendingResize, bookingID, edge, p)
}

func (c *Controller) begin(next State, bookingID string, edge Edge, p grid.Point) error {
	if c.state != Idle {
		return ErrGestureActive
	}
	if c.layout == nil {
		return ErrNoLayout
	}
	pb, ok := c.layout.Placement.Find(bookingID)
	if !ok {
		return fmt.Errorf("%w: %s", booking.ErrBookingNotFound, bookingID)
	}
	c.state = next
	c.subject = pb.Booking
	c.edge = edge
	c.down = p
	c.preview = Preview{
		BookingID: bookingID,
		State:     next,
		Edge:      edge,
		RawStart:  pb.Start,
		RawEnd:    pb.End,
		Start:     pb.Start,
		End:       pb.End,
	}
	return nil
}

// PointerMove updates the preview. It never produces an outcome.
func (c *Controller) PointerMove(p grid.Point) (Preview, bool) {
	switch c.state {
	case PendingDrag:
		if !c.pastThreshold(p) {
			return c.preview, false
		}
		c.state = Dragging
	case PendingResize:
		if !c.pastThreshold(p) {
			return c.preview, false
		}
		c.state = Resizing
	case Dragging, Resizing:
	default:
		return Preview{}, false
	}

	if c.state == Dragging {
		c.preview = c.dragAt(p)
	} else {
		c.preview = c.resizeAt(p)
	}
	return c.preview, true
}

// PointerUp ends the gesture at p. For drags, target says what lies under
// the pointer; resizes ignore it.
func (c *Controller) PointerUp(p grid.Point, target Target) (Outcome, error) {
	state := c.state
	subject := c.subject
	if state == Idle {
		return Outcome{}, ErrNoGesture
	}

	var out Outcome
	switch state {
	case PendingDrag:
		out = Outcome{Kind: OutcomeClick, BookingID: subject.ID}
	case Dragging:
		out = c.dropOn(target)
	case PendingResize:
		out = Outcome{Kind: OutcomeNoop, BookingID: subject.ID}
	case Resizing:
		pv := c.resizeAt(p)
		out = Outcome{Kind: OutcomeResize, BookingID: subject.ID, RoomID: subject.RoomID, Start: pv.Start, End: pv.End, Edge: c.edge}
		if subject.Start.Equal(pv.Start) && subject.End.Equal(pv.End) {
			out.Kind = OutcomeNoop
		}
	}
	c.reset()
	return out, nil
}

// Cancel abandons the gesture without an outcome. It reports whether a
// gesture was in progress.
func (c *Controller) Cancel() bool {
	active := c.state != Idle
	c.reset()
	return active
}

func (c *Controller) reset() {
	c.state = Idle
	c.subject = booking.Booking{}
	c.preview = Preview{}
	c.down = grid.Point{}
}

func (c *Controller) pastThreshold(p grid.Point) bool {
	return math.Hypot(p.X-c.down.X, p.Y-c.down.Y) >= c.threshold
}

// dropOn resolves the drop target into a move outcome.
func (c *Controller) dropOn(target Target) Outcome {
	subject := c.subject
	noop := Outcome{Kind: OutcomeNoop, BookingID: subject.ID}

	var roomID string
	var start time.Time
	var targetID string

	switch t := target.(type) {
	case CellTarget:
		if t.SlotIndex < 0 || t.SlotIndex >= len(c.layout.Slots) {
			return noop
		}
		if _, ok := booking.FindRoom(c.layout.Rooms, t.RoomID); !ok {
			return noop
		}
		roomID = t.RoomID
		start = c.layout.SlotTime(t.SlotIndex)
	case BookingTarget:
		if t.BookingID == subject.ID {
			return noop
		}
		other, ok := c.layout.Placement.Find(t.BookingID)
		if !ok {
			return noop
		}
		roomID = other.RoomID
		start = other.Start
		targetID = other.ID
	default:
		return noop
	}

	end := start.Add(subject.Duration())
	if subject.SamePlacement(roomID, start, end) {
		return noop
	}
	return Outcome{
		Kind:            OutcomeMove,
		BookingID:       subject.ID,
		RoomID:          roomID,
		Start:           start,
		End:             end,
		TargetBookingID: targetID,
	}
}

// dragAt shifts the whole booking by the pointer travel along the time axis.
func (c *Controller) dragAt(p grid.Point) Preview {
	m := c.layout.Mapper
	delta := m.TimeAxisDelta(c.down, p)
	shift := m.PxToMinutes(delta)
	unit := c.layout.Geometry.Interval

	pv := c.preview
	pv.State = c.state
	pv.DeltaPx = delta
	pv.RawStart = c.shifted(c.subject.Start, shift)
	pv.RawEnd = c.shifted(c.subject.End, shift)
	pv.Start = Snap(pv.RawStart, c.layout.Date, unit)
	pv.End = pv.Start.Add(c.subject.Duration())
	return pv
}

// resizeAt projects p onto the dragged edge. The live preview and the final
// commit both go through here, so what the user saw for a pointer position
// is what gets committed for that position.
func (c *Controller) resizeAt(p grid.Point) Preview {
	m := c.layout.Mapper
	delta := m.TimeAxisDelta(c.down, p)
	shift := m.PxToMinutes(delta)
	unit := SnapUnit(c.layout.Geometry.Interval)
	floor := time.Duration(unit) * time.Minute

	pv := c.preview
	pv.State = c.state
	pv.DeltaPx = delta
	pv.RawStart, pv.RawEnd = c.subject.Start, c.subject.End
	pv.Start, pv.End = c.subject.Start, c.subject.End

	if c.edge == EdgeStart {
		pv.RawStart = c.shifted(c.subject.Start, shift)
		pv.Start = Snap(pv.RawStart, c.layout.Date, unit)
		if latest := pv.End.Add(-floor); pv.Start.After(latest) {
			pv.Start = latest
		}
		return pv
	}

	pv.RawEnd = c.shifted(c.subject.End, shift)
	pv.End = Snap(pv.RawEnd, c.layout.Date, unit)
	if earliest := pv.Start.Add(floor); pv.End.Before(earliest) {
		pv.End = earliest
	}
	return pv
}

// shifted moves t by the given minutes on the grid's wall clock.
func (c *Controller) shifted(t time.Time, by float64) time.Time {
	pl := c.layout.Placement
	return pl.TimeAt(pl.MinutesFrom(t) + by)
}
