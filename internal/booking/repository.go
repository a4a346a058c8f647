package booking

import (
	"context"
	"time"
)

// Reader fetches rooms and bookings.
type Reader interface {
	// ListRooms returns every room, bookable or not.
	ListRooms(ctx context.Context) ([]Room, error)

	// ListBookings returns bookings overlapping [from, to), in any status.
	ListBookings(ctx context.Context, from, to time.Time) ([]Booking, error)
}

// Mutator applies booking changes. Each method returns the authoritative
// state of every booking it touched.
type Mutator interface {
	// CreateBooking stores a new booking.
	CreateBooking(ctx context.Context, b Booking) (Booking, error)

	// DeleteBooking removes a booking.
	DeleteBooking(ctx context.Context, id string) error

	// MoveBooking relocates one booking.
	// Returns ErrMutationRejected if the new range overlaps another active booking.
	MoveBooking(ctx context.Context, req MoveRequest) (Booking, error)

	// SwapBookings relocates two bookings in a single atomic step.
	// Returns ErrMutationRejected if the final state has an overlap.
	SwapBookings(ctx context.Context, req SwapRequest) ([]Booking, error)

	// ResizeBooking changes a booking's time range.
	ResizeBooking(ctx context.Context, req ResizeRequest) (Booking, error)
}

// Repository is the full booking collaborator.
type Repository interface {
	Reader
	Mutator
}

// Active filters out cancelled and no-show bookings.
func Active(bookings []Booking) []Booking {
	out := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			out = append(out, b)
		}
	}
	return out
}

// FindRoom returns the room with the given ID.
func FindRoom(rooms []Room, id string) (Room, bool) {
	for _, r := range rooms {
		if r.ID == id {
			return r, true
		}
	}
	return Room{}, false
}
