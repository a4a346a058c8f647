// Package gesture turns pointer input on the grid into move and resize
// intents. Intermediate pointer movement only updates a preview; PointerUp is
// the one transition that produces an Outcome.
package gesture

import (
	"errors"
	"fmt"
	"time"
)

// Gesture errors.
var (
	ErrGestureActive = errors.New("a gesture is already in progress")
	ErrNoGesture     = errors.New("no gesture in progress")
	ErrNoLayout      = errors.New("no layout to resolve pointer positions against")
)

// DefaultThreshold is the pointer travel, in pixels, that turns a press into
// a drag.
const DefaultThreshold = 5.0

// State is a state of the gesture machine.
type State int

const (
	Idle State = iota
	PendingDrag
	Dragging
	PendingResize
	Resizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingDrag:
		return "pending-drag"
	case Dragging:
		return "dragging"
	case PendingResize:
		return "pending-resize"
	case Resizing:
		return "resizing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Edge selects which end of a booking a resize moves.
type Edge int

const (
	EdgeStart Edge = iota
	EdgeEnd
)

func (e Edge) String() string {
	if e == EdgeStart {
		return "start"
	}
	return "end"
}

// Target is where a drag was released.
type Target interface {
	isTarget()
}

// CellTarget is an empty grid cell.
type CellTarget struct {
	RoomID    string
	SlotIndex int
}

// BookingTarget is another booking.
type BookingTarget struct {
	BookingID string
}

// NoTarget is anywhere outside the grid body.
type NoTarget struct{}

func (CellTarget) isTarget()    {}
func (BookingTarget) isTarget() {}
func (NoTarget) isTarget()      {}

// OutcomeKind says what a finished gesture asks for.
type OutcomeKind int

const (
	// OutcomeNoop means nothing changes.
	OutcomeNoop OutcomeKind = iota
	// OutcomeClick means the pointer never travelled past the threshold.
	OutcomeClick
	// OutcomeMove asks to place the booking at RoomID over [Start, End).
	OutcomeMove
	// OutcomeResize asks to change the booking to [Start, End).
	OutcomeResize
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeClick:
		return "click"
	case OutcomeMove:
		return "move"
	case OutcomeResize:
		return "resize"
	default:
		return "noop"
	}
}

// Outcome is the single result of a finished gesture.
type Outcome struct {
	Kind            OutcomeKind
	BookingID       string
	RoomID          string
	Start           time.Time
	End             time.Time
	Edge            Edge   // resize only
	TargetBookingID string // set when a drag was dropped on another booking
}

// Preview is the visual feedback for an in-progress gesture. It never
// reflects a committed change.
type Preview struct {
	BookingID string
	State     State
	Edge      Edge
	DeltaPx   float64   // pointer travel along the time axis
	RawStart  time.Time // unsnapped
	RawEnd    time.Time
	Start     time.Time // snapped
	End       time.Time
}
