package booking

import "time"

// MoveRequest relocates one booking.
type MoveRequest struct {
	BookingID    string    `json:"bookingId"`
	NewRoomID    string    `json:"newRoomId"`
	NewStartTime time.Time `json:"newStartTime"`
	NewEndTime   time.Time `json:"newEndTime"`
}

// SwapRequest relocates two bookings atomically.
type SwapRequest struct {
	BookingID          string    `json:"bookingId"`
	NewRoomID          string    `json:"newRoomId"`
	NewStartTime       time.Time `json:"newStartTime"`
	NewEndTime         time.Time `json:"newEndTime"`
	TargetBookingID    string    `json:"targetBookingId"`
	TargetRoomID       string    `json:"targetRoomId"`
	TargetNewStartTime time.Time `json:"targetNewStartTime"`
	TargetNewEndTime   time.Time `json:"targetNewEndTime"`
}

// ResizeRequest changes a booking's time range within its room.
type ResizeRequest struct {
	BookingID    string    `json:"bookingId"`
	NewStartTime time.Time `json:"newStartTime"`
	NewEndTime   time.Time `json:"newEndTime"`
}

// Validate checks the request produces a positive duration.
func (r MoveRequest) Validate() error {
	if r.BookingID == "" {
		return ErrBookingNotFound
	}
	if r.NewRoomID == "" {
		return ErrRoomNotFound
	}
	if !r.NewEndTime.After(r.NewStartTime) {
		return ErrInvalidDuration
	}
	return nil
}

// Validate checks both halves of the swap.
func (r SwapRequest) Validate() error {
	if err := r.Moved().Validate(); err != nil {
		return err
	}
	return r.Target().Validate()
}

// Moved returns the half of the swap that applies to the dragged booking.
func (r SwapRequest) Moved() MoveRequest {
	return MoveRequest{
		BookingID:    r.BookingID,
		NewRoomID:    r.NewRoomID,
		NewStartTime: r.NewStartTime,
		NewEndTime:   r.NewEndTime,
	}
}

// Target returns the half of the swap that applies to the displaced booking.
func (r SwapRequest) Target() MoveRequest {
	return MoveRequest{
		BookingID:    r.TargetBookingID,
		NewRoomID:    r.TargetRoomID,
		NewStartTime: r.TargetNewStartTime,
		NewEndTime:   r.TargetNewEndTime,
	}
}

// Validate checks the request produces a positive duration.
func (r ResizeRequest) Validate() error {
	if r.BookingID == "" {
		return ErrBookingNotFound
	}
	if !r.NewEndTime.After(r.NewStartTime) {
		return ErrInvalidDuration
	}
	return nil
}
