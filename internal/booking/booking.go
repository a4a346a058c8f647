// Package booking defines the core domain types for venuegrid.
package booking

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a booking.
type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusConfirmed, StatusPending, StatusCancelled, StatusCompleted, StatusNoShow:
		return Status(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
}

// Active reports whether bookings with this status occupy their room.
func (s Status) Active() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// Room is a bookable space in the venue.
type Room struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Capacity int    `json:"capacity"`
	Color    string `json:"color"`
	Bookable bool   `json:"bookable"`
}

// Booking is a reservation of one room over a time range.
type Booking struct {
	ID            string    `json:"id"`
	RoomID        string    `json:"roomId"`
	Start         time.Time `json:"startTime"`
	End           time.Time `json:"endTime"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone,omitempty"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Status        Status    `json:"status"`
	Source        string    `json:"source,omitempty"`
	Notes         string    `json:"notes,omitempty"`
}

// New creates a pending booking with a fresh ID.
func New(roomID string, start, end time.Time, customer string) (Booking, error) {
	b := Booking{
		ID:           uuid.NewString(),
		RoomID:       roomID,
		Start:        start,
		End:          end,
		CustomerName: customer,
		Status:       StatusPending,
	}
	if err := b.Validate(); err != nil {
		return Booking{}, err
	}
	return b, nil
}

// Validate checks the booking invariants.
func (b Booking) Validate() error {
	if b.RoomID == "" {
		return ErrRoomNotFound
	}
	if !b.End.After(b.Start) {
		return ErrInvalidDuration
	}
	return nil
}

// IsActive returns true if the booking is placed on the grid and takes part
// in conflict checks.
func (b Booking) IsActive() bool {
	return b.Status.Active()
}

// Duration returns End - Start.
func (b Booking) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Overlaps reports whether b intersects [start, end).
func (b Booking) Overlaps(start, end time.Time) bool {
	return RangesOverlap(start, end, b.Start, b.End)
}

// SamePlacement reports whether b sits in roomID over exactly [start, end).
func (b Booking) SamePlacement(roomID string, start, end time.Time) bool {
	return b.RoomID == roomID && b.Start.Equal(start) && b.End.Equal(end)
}

// WithPlacement returns a copy of b moved to roomID over [start, end).
func (b Booking) WithPlacement(roomID string, start, end time.Time) Booking {
	b.RoomID = roomID
	b.Start = start
	b.End = end
	return b
}

// RangesOverlap returns true if two half-open ranges overlap.
// Two ranges overlap if: start1 < end2 AND end1 > start2
func RangesOverlap(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && end1.After(start2)
}
