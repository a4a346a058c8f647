package booking

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrInvalidDuration      = errors.New("booking must end after it starts")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrOutsideBusinessHours = errors.New("booking falls outside business hours")
)

// Conflict errors.
var (
	ErrMultipleConflicts = errors.New("target overlaps more than one booking")
	ErrSwapBlocked       = errors.New("swap would overlap another booking")
	ErrOverlap           = errors.New("booking overlaps another booking")
)

// Lookup errors.
var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrRoomNotFound    = errors.New("room not found")
	ErrRoomNotBookable = errors.New("room is not bookable")
)

// Collaborator errors. Both trigger a rollback of the optimistic update.
var (
	ErrMutationRejected = errors.New("booking service rejected the change")
	ErrNetworkFailure   = errors.New("booking service unreachable")
)

// UserMessage maps an error to a sentence suitable for a status line.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrOutsideBusinessHours):
		return "That time is outside business hours."
	case errors.Is(err, ErrSwapBlocked):
		return "Can't swap: the other booking would overlap something else."
	case errors.Is(err, ErrMultipleConflicts):
		return "That slot overlaps several bookings."
	case errors.Is(err, ErrOverlap):
		return "That time overlaps another booking in the room."
	case errors.Is(err, ErrInvalidDuration):
		return "A booking must end after it starts."
	case errors.Is(err, ErrMutationRejected):
		return "The booking service rejected the change; it has been undone."
	case errors.Is(err, ErrNetworkFailure):
		return "Couldn't reach the booking service; the change has been undone."
	case errors.Is(err, ErrRoomNotBookable):
		return "That room can't be booked."
	case errors.Is(err, ErrBookingNotFound), errors.Is(err, ErrRoomNotFound):
		return "That booking or room no longer exists."
	default:
		return fmt.Sprintf("Something went wrong: %v", err)
	}
}

// Retryable reports whether re-issuing the same request could succeed.
// Only transport failures qualify.
func Retryable(err error) bool {
	return errors.Is(err, ErrNetworkFailure)
}
