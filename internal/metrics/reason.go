package metrics

import (
	"errors"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// Reason maps a mutation error to a low-cardinality label.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, booking.ErrNetworkFailure):
		return "network"
	case errors.Is(err, booking.ErrMutationRejected):
		return "rejected"
	default:
		return "other"
	}
}
