// Package hours resolves business hours for a calendar date.
package hours

import (
	"fmt"
	"time"

	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

// BusinessHours is the opening window for one day. CloseTime earlier than
// OpenTime means the venue closes after midnight.
type BusinessHours struct {
	OpenTime  string `json:"openTime" toml:"open"`   // "HH:MM"
	CloseTime string `json:"closeTime" toml:"close"` // "HH:MM"
	IsClosed  bool   `json:"isClosed" toml:"closed"`
}

// Closed is a day with no opening window.
var Closed = BusinessHours{IsClosed: true}

// Validate checks that open and close are well formed.
func (h BusinessHours) Validate() error {
	if h.IsClosed {
		return nil
	}
	if _, err := dateutil.ParseClock(h.OpenTime); err != nil {
		return fmt.Errorf("open time: %w", err)
	}
	if _, err := dateutil.ParseClock(h.CloseTime); err != nil {
		return fmt.Errorf("close time: %w", err)
	}
	return nil
}

// IsLateNight reports whether close falls on the following calendar day.
func (h BusinessHours) IsLateNight() bool {
	if h.IsClosed {
		return false
	}
	open, close := clock(h.OpenTime), clock(h.CloseTime)
	openHour, openMinute := open/60, open%60
	closeHour, closeMinute := close/60, close%60
	return closeHour < openHour || (closeHour == openHour && closeMinute < openMinute)
}

// OpenMinutes returns the open time in minutes since midnight.
func (h BusinessHours) OpenMinutes() int {
	return clock(h.OpenTime)
}

// CloseMinutes returns the close time in minutes since midnight of the open
// day, so late-night closes are greater than 1440.
func (h BusinessHours) CloseMinutes() int {
	c := clock(h.CloseTime)
	if h.IsLateNight() {
		c += dateutil.MinutesPerDay
	}
	return c
}

// Span returns the length of the business day in minutes.
// Closed and zero-length days return 0.
func (h BusinessHours) Span() int {
	if h.IsClosed {
		return 0
	}
	return h.CloseMinutes() - h.OpenMinutes()
}

// Window returns the absolute open and close instants for date.
func (h BusinessHours) Window(date time.Time) (open, close time.Time) {
	return dateutil.AtMinutes(date, h.OpenMinutes()), dateutil.AtMinutes(date, h.CloseMinutes())
}

// Contains reports whether [start, end) lies inside the business window of
// date. Closed days contain nothing.
func (h BusinessHours) Contains(date, start, end time.Time) bool {
	if h.Span() <= 0 {
		return false
	}
	open, close := h.Window(date)
	return !start.Before(open) && !end.After(close) && end.After(start)
}

func (h BusinessHours) String() string {
	if h.IsClosed {
		return "closed"
	}
	return h.OpenTime + "-" + h.CloseTime
}

// clock parses "HH:MM", returning 0 for malformed input. Callers validate
// configuration up front.
func clock(s string) int {
	m, err := dateutil.ParseClock(s)
	if err != nil {
		return 0
	}
	return m
}
