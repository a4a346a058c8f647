// Package conflict classifies a proposed booking placement as a move, a swap
// or a rejection.
package conflict

import (
	"fmt"
	"strings"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// Kind is the outcome of Resolve.
type Kind int

const (
	// KindMove means the target is free.
	KindMove Kind = iota
	// KindSwap means exactly one booking occupies the target and trades
	// places with the moved booking.
	KindSwap
)

func (k Kind) String() string {
	if k == KindSwap {
		return "swap"
	}
	return "move"
}

// Candidate is a proposed new placement for an existing booking.
type Candidate struct {
	BookingID string
	RoomID    string
	Start     time.Time
	End       time.Time
}

// Result describes an accepted placement. Move is set for KindMove, Swap for
// KindSwap.
type Result struct {
	Kind     Kind
	Move     booking.MoveRequest
	Swap     booking.SwapRequest
	Occupant *booking.Booking
}

// Error reports a rejected placement together with the bookings in the way.
type Error struct {
	Candidate Candidate
	Conflicts []booking.Booking
	Err       error
}

func (e *Error) Error() string {
	ids := make([]string, len(e.Conflicts))
	for i, b := range e.Conflicts {
		ids[i] = b.ID
	}
	return fmt.Sprintf("%v (room %s, %s-%s): %s", e.Err, e.Candidate.RoomID,
		e.Candidate.Start.Format("15:04"), e.Candidate.End.Format("15:04"), strings.Join(ids, ", "))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Overlapping returns the active bookings in roomID that intersect
// [start, end), skipping any whose ID is in exclude.
func Overlapping(bookings []booking.Booking, roomID string, start, end time.Time, exclude ...string) []booking.Booking {
	var out []booking.Booking
	for _, b := range bookings {
		if !b.IsActive() || b.RoomID != roomID || excluded(b.ID, exclude) {
			continue
		}
		if b.Overlaps(start, end) {
			out = append(out, b)
		}
	}
	return out
}

func excluded(id string, exclude []string) bool {
	for _, e := range exclude {
		if e == id {
			return true
		}
	}
	return false
}

// Resolve classifies moving c.BookingID to c. No overlap yields a move, one
// overlap yields a swap in which the occupant takes the moved booking's
// original room and start while keeping its own duration, and more than one
// overlap is rejected with ErrMultipleConflicts. A swap whose relocated
// occupant would itself collide is rejected with ErrSwapBlocked.
func Resolve(bookings []booking.Booking, c Candidate) (Result, error) {
	if !c.End.After(c.Start) {
		return Result{}, booking.ErrInvalidDuration
	}
	moved, ok := find(bookings, c.BookingID)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, c.BookingID)
	}

	conflicts := Overlapping(bookings, c.RoomID, c.Start, c.End, moved.ID)
	switch len(conflicts) {
	case 0:
		return Result{
			Kind: KindMove,
			Move: booking.MoveRequest{
				BookingID:    moved.ID,
				NewRoomID:    c.RoomID,
				NewStartTime: c.Start,
				NewEndTime:   c.End,
			},
		}, nil
	case 1:
		return swap(bookings, moved, conflicts[0], c)
	default:
		return Result{}, &Error{Candidate: c, Conflicts: conflicts, Err: booking.ErrMultipleConflicts}
	}
}

func swap(bookings []booking.Booking, moved, occupant booking.Booking, c Candidate) (Result, error) {
	targetStart := moved.Start
	targetEnd := moved.Start.Add(occupant.Duration())

	blockers := Overlapping(bookings, moved.RoomID, targetStart, targetEnd, moved.ID, occupant.ID)
	if moved.RoomID == c.RoomID && booking.RangesOverlap(targetStart, targetEnd, c.Start, c.End) {
		blockers = append(blockers, moved.WithPlacement(c.RoomID, c.Start, c.End))
	}
	if len(blockers) > 0 {
		return Result{}, &Error{Candidate: c, Conflicts: blockers, Err: booking.ErrSwapBlocked}
	}

	return Result{
		Kind: KindSwap,
		Swap: booking.SwapRequest{
			BookingID:          moved.ID,
			NewRoomID:          c.RoomID,
			NewStartTime:       c.Start,
			NewEndTime:         c.End,
			TargetBookingID:    occupant.ID,
			TargetRoomID:       moved.RoomID,
			TargetNewStartTime: targetStart,
			TargetNewEndTime:   targetEnd,
		},
		Occupant: &occupant,
	}, nil
}

func find(bookings []booking.Booking, id string) (booking.Booking, bool) {
	for _, b := range bookings {
		if b.ID == id {
			return b, true
		}
	}
	return booking.Booking{}, false
}
