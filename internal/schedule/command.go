package schedule

import (
	"context"
	"errors"
	"fmt"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// ErrDuplicateBooking is returned when creating a booking whose ID exists.
var ErrDuplicateBooking = errors.New("booking already exists")

// Command is one booking mutation. Apply and Invert are pure; Submit sends
// the mutation to the collaborator and returns the authoritative bookings it
// touched.
type Command interface {
	// Kind names the mutation for logs and metrics.
	Kind() string
	// Touches lists the IDs of the bookings the command changes.
	Touches() []string
	// Apply returns state with the mutation applied.
	Apply(State) (State, error)
	// Invert returns state with the touched bookings restored to how they
	// were before the mutation. Cache does not need it to roll back; it
	// replays pending commands instead. Invert serves callers that keep
	// their own State.
	Invert(State) State
	// Inverse returns the command that undoes this one.
	Inverse() Command
	// Submit issues the mutation to the collaborator.
	Submit(ctx context.Context, m booking.Mutator) ([]booking.Booking, error)
}

// Move relocates one booking.
type Move struct {
	Before booking.Booking
	After  booking.Booking
}

// NewMove builds a move of current as described by req.
func NewMove(current booking.Booking, req booking.MoveRequest) Move {
	return Move{
		Before: current,
		After:  current.WithPlacement(req.NewRoomID, req.NewStartTime, req.NewEndTime),
	}
}

func (c Move) Kind() string      { return "move" }
func (c Move) Touches() []string { return []string{c.After.ID} }

func (c Move) Apply(s State) (State, error) {
	if _, ok := s.Get(c.After.ID); !ok {
		return s, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, c.After.ID)
	}
	if err := c.After.Validate(); err != nil {
		return s, err
	}
	return s.put(c.After), nil
}

func (c Move) Invert(s State) State {
	return s.put(c.Before)
}

func (c Move) Inverse() Command {
	return Move{Before: c.After, After: c.Before}
}

func (c Move) Request() booking.MoveRequest {
	return booking.MoveRequest{
		BookingID:    c.After.ID,
		NewRoomID:    c.After.RoomID,
		NewStartTime: c.After.Start,
		NewEndTime:   c.After.End,
	}
}

func (c Move) Submit(ctx context.Context, m booking.Mutator) ([]booking.Booking, error) {
	b, err := m.MoveBooking(ctx, c.Request())
	if err != nil {
		return nil, err
	}
	return []booking.Booking{b}, nil
}

// Swap trades the places of two bookings in one step.
type Swap struct {
	Moved  Move
	Target Move
}

// NewSwap builds a swap of moved and target as described by req.
func NewSwap(moved, target booking.Booking, req booking.SwapRequest) Swap {
	return Swap{
		Moved:  NewMove(moved, req.Moved()),
		Target: NewMove(target, req.Target()),
	}
}

func (c Swap) Kind() string { return "swap" }

func (c Swap) Touches() []string {
	return []string{c.Moved.After.ID, c.Target.After.ID}
}

// Apply updates both bookings in a single state transition so no
// intermediate state ever holds one half of the swap.
func (c Swap) Apply(s State) (State, error) {
	for _, m := range []Move{c.Moved, c.Target} {
		if _, ok := s.Get(m.After.ID); !ok {
			return s, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, m.After.ID)
		}
		if err := m.After.Validate(); err != nil {
			return s, err
		}
	}
	return s.put(c.Moved.After, c.Target.After), nil
}

func (c Swap) Invert(s State) State {
	return s.put(c.Moved.Before, c.Target.Before)
}

func (c Swap) Inverse() Command {
	return Swap{Moved: c.Moved.Inverse().(Move), Target: c.Target.Inverse().(Move)}
}

func (c Swap) Request() booking.SwapRequest {
	return booking.SwapRequest{
		BookingID:          c.Moved.After.ID,
		NewRoomID:          c.Moved.After.RoomID,
		NewStartTime:       c.Moved.After.Start,
		NewEndTime:         c.Moved.After.End,
		TargetBookingID:    c.Target.After.ID,
		TargetRoomID:       c.Target.After.RoomID,
		TargetNewStartTime: c.Target.After.Start,
		TargetNewEndTime:   c.Target.After.End,
	}
}

func (c Swap) Submit(ctx context.Context, m booking.Mutator) ([]booking.Booking, error) {
	return m.SwapBookings(ctx, c.Request())
}

// Resize changes one booking's time range within its room.
type Resize struct {
	Before booking.Booking
	After  booking.Booking
}

// NewResize builds a resize of current as described by req.
func NewResize(current booking.Booking, req booking.ResizeRequest) Resize {
	return Resize{
		Before: current,
		After:  current.WithPlacement(current.RoomID, req.NewStartTime, req.NewEndTime),
	}
}

func (c Resize) Kind() string      { return "resize" }
func (c Resize) Touches() []string { return []string{c.After.ID} }

func (c Resize) Apply(s State) (State, error) {
	if _, ok := s.Get(c.After.ID); !ok {
		return s, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, c.After.ID)
	}
	if !c.After.End.After(c.After.Start) {
		return s, booking.ErrInvalidDuration
	}
	return s.put(c.After), nil
}

func (c Resize) Invert(s State) State {
	return s.put(c.Before)
}

func (c Resize) Inverse() Command {
	return Resize{Before: c.After, After: c.Before}
}

func (c Resize) Request() booking.ResizeRequest {
	return booking.ResizeRequest{
		BookingID:    c.After.ID,
		NewStartTime: c.After.Start,
		NewEndTime:   c.After.End,
	}
}

func (c Resize) Submit(ctx context.Context, m booking.Mutator) ([]booking.Booking, error) {
	b, err := m.ResizeBooking(ctx, c.Request())
	if err != nil {
		return nil, err
	}
	return []booking.Booking{b}, nil
}

// Create adds a booking.
type Create struct {
	Booking booking.Booking
}

func (c Create) Kind() string      { return "create" }
func (c Create) Touches() []string { return []string{c.Booking.ID} }

func (c Create) Apply(s State) (State, error) {
	if _, ok := s.Get(c.Booking.ID); ok {
		return s, fmt.Errorf("%w: %s", ErrDuplicateBooking, c.Booking.ID)
	}
	if err := c.Booking.Validate(); err != nil {
		return s, err
	}
	return s.put(c.Booking), nil
}

func (c Create) Invert(s State) State {
	return s.remove(c.Booking.ID)
}

func (c Create) Inverse() Command {
	return Delete(c)
}

func (c Create) Submit(ctx context.Context, m booking.Mutator) ([]booking.Booking, error) {
	b, err := m.CreateBooking(ctx, c.Booking)
	if err != nil {
		return nil, err
	}
	return []booking.Booking{b}, nil
}

// Delete removes a booking.
type Delete struct {
	Booking booking.Booking
}

func (c Delete) Kind() string      { return "delete" }
func (c Delete) Touches() []string { return []string{c.Booking.ID} }

func (c Delete) Apply(s State) (State, error) {
	if _, ok := s.Get(c.Booking.ID); !ok {
		return s, fmt.Errorf("%w: %s", booking.ErrBookingNotFound, c.Booking.ID)
	}
	return s.remove(c.Booking.ID), nil
}

func (c Delete) Invert(s State) State {
	return s.put(c.Booking)
}

func (c Delete) Inverse() Command {
	return Create(c)
}

func (c Delete) Submit(ctx context.Context, m booking.Mutator) ([]booking.Booking, error) {
	return nil, m.DeleteBooking(ctx, c.Booking.ID)
}
