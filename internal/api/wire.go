// Package api exposes a booking.Repository over HTTP and consumes one.
package api

import (
	"errors"
	"net/http"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

const prefix = "/api/v1"

// errorBody is the JSON error envelope.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type roomsResponse struct {
	Rooms []booking.Room `json:"rooms"`
}

type bookingsResponse struct {
	Bookings []booking.Booking `json:"bookings"`
}

// Error codes carried in errorBody.Code.
const (
	codeOverlap     = "overlap"
	codeRejected    = "rejected"
	codeNotFound    = "not_found"
	codeInvalid     = "invalid"
	codeUnavailable = "unavailable"
)

// statusFor maps a repository error to an HTTP status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, booking.ErrOverlap):
		return http.StatusConflict, codeOverlap
	case errors.Is(err, booking.ErrMutationRejected):
		return http.StatusConflict, codeRejected
	case errors.Is(err, booking.ErrBookingNotFound):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, booking.ErrInvalidDuration),
		errors.Is(err, booking.ErrInvalidStatus),
		errors.Is(err, booking.ErrRoomNotFound),
		errors.Is(err, booking.ErrRoomNotBookable):
		return http.StatusUnprocessableEntity, codeInvalid
	case errors.Is(err, booking.ErrNetworkFailure):
		return http.StatusBadGateway, codeUnavailable
	default:
		return http.StatusInternalServerError, ""
	}
}
