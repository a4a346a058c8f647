// Package schedule keeps the local, optimistic copy of the booking
// collection. Every change is a Command applied through Cache.
package schedule

import (
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// State is an immutable set of bookings keyed by ID. Methods that change it
// return a new State and leave the receiver untouched.
type State struct {
	bookings map[string]booking.Booking
}

// NewState builds a state from a booking list. Later duplicates win.
func NewState(bookings []booking.Booking) State {
	m := make(map[string]booking.Booking, len(bookings))
	for _, b := range bookings {
		m[b.ID] = b
	}
	return State{bookings: m}
}

// Get returns the booking with the given ID.
func (s State) Get(id string) (booking.Booking, bool) {
	b, ok := s.bookings[id]
	return b, ok
}

// Len returns the number of bookings.
func (s State) Len() int {
	return len(s.bookings)
}

// All returns the bookings ordered by start, then ID.
func (s State) All() []booking.Booking {
	out := slices.Collect(maps.Values(s.bookings))
	slices.SortFunc(out, func(a, b booking.Booking) int {
		if c := a.Start.Compare(b.Start); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Between returns the bookings overlapping [from, to).
func (s State) Between(from, to time.Time) []booking.Booking {
	var out []booking.Booking
	for _, b := range s.All() {
		if b.Overlaps(from, to) {
			out = append(out, b)
		}
	}
	return out
}

// Equal reports whether both states hold identical bookings.
func (s State) Equal(o State) bool {
	return maps.EqualFunc(s.bookings, o.bookings, sameBooking)
}

// sameBooking compares instants with Equal and every other field with ==.
func sameBooking(a, b booking.Booking) bool {
	if !a.Start.Equal(b.Start) || !a.End.Equal(b.End) {
		return false
	}
	a.Start, a.End = b.Start, b.End
	return a == b
}

// put returns a copy of s with bs inserted or replaced.
func (s State) put(bs ...booking.Booking) State {
	m := maps.Clone(s.bookings)
	if m == nil {
		m = make(map[string]booking.Booking, len(bs))
	}
	for _, b := range bs {
		m[b.ID] = b
	}
	return State{bookings: m}
}

// remove returns a copy of s without ids.
func (s State) remove(ids ...string) State {
	m := maps.Clone(s.bookings)
	for _, id := range ids {
		delete(m, id)
	}
	return State{bookings: m}
}
