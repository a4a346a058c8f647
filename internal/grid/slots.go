// Package grid turns business hours and bookings into screen geometry.
//
// Everything here is pure: the same inputs always produce the same slots,
// geometry and placement. Layouter memoizes the last result by input key.
package grid

import (
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

const (
	// DefaultInterval is the slot duration in minutes when none is configured.
	DefaultInterval = 15
	// MaxSlots bounds slot generation for absurd configurations.
	MaxSlots = 200
	// EdgePadding is the lead-in and trail-out shown around business hours
	// when time runs along columns.
	EdgePadding = 60
)

// Orientation selects which screen axis carries time.
type Orientation string

const (
	// TimeAsColumns lays rooms out as rows with time running left to right.
	TimeAsColumns Orientation = "horizontal"
	// TimeAsRows lays rooms out as columns with time running top to bottom.
	TimeAsRows Orientation = "vertical"
)

// ParseOrientation accepts "horizontal"/"vertical" and the aliases
// "columns"/"rows".
func ParseOrientation(s string) (Orientation, bool) {
	switch s {
	case "horizontal", "columns", "traditional":
		return TimeAsColumns, true
	case "vertical", "rows":
		return TimeAsRows, true
	default:
		return "", false
	}
}

// Toggle returns the other orientation.
func (o Orientation) Toggle() Orientation {
	if o == TimeAsRows {
		return TimeAsColumns
	}
	return TimeAsRows
}

// Padding is extra grid time shown before open and after close, in minutes.
type Padding struct {
	Lead  int
	Trail int
}

// PaddingFor returns the padding policy of an orientation.
func PaddingFor(o Orientation) Padding {
	if o == TimeAsColumns {
		return Padding{Lead: EdgePadding, Trail: EdgePadding}
	}
	return Padding{}
}

// TimeSlot is one row or column of the grid.
type TimeSlot struct {
	MinutesFromOpen int    // negative during lead-in
	Label           string // "HH:MM"
	NextDay         bool   // at or after midnight following the selected date
}

// GenerateSlots lists the slots for one business day. The last slot may run
// past close when interval does not divide the span. Closed and zero-length
// days produce no slots.
func GenerateSlots(h hours.BusinessHours, interval int, pad Padding) []TimeSlot {
	if h.Span() <= 0 {
		return nil
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	open := h.OpenMinutes()
	stop := h.CloseMinutes() + pad.Trail

	var slots []TimeSlot
	for counter := open - pad.Lead; counter <= stop && len(slots) < MaxSlots; counter += interval {
		slots = append(slots, TimeSlot{
			MinutesFromOpen: counter - open,
			Label:           dateutil.FormatClock(counter),
			NextDay:         counter >= dateutil.MinutesPerDay,
		})
	}
	return slots
}
