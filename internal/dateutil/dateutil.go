// Package dateutil provides date parsing and wall-clock helpers.
package dateutil

import (
	"errors"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidClockFormat = errors.New("time must be in HH:MM format")
)

// DateLayout is the canonical date format used in config, storage and the CLI.
const DateLayout = "2006-01-02"

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 24 * 60

// ParseDate parses a date string in YYYY-MM-DD format in the given location.
// Empty input or "today" returns today's date; "tomorrow" and "yesterday" are
// accepted as well.
func ParseDate(s string, now time.Time) (time.Time, error) {
	today := TruncateToDay(now)
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), now.Location())
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// TruncateToDay returns t with time set to midnight in t's location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidClockFormat
	}
	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, ErrInvalidClockFormat
		}
	}
	hours := int(s[0]-'0')*10 + int(s[1]-'0')
	mins := int(s[3]-'0')*10 + int(s[4]-'0')
	if hours > 23 || mins > 59 {
		return 0, ErrInvalidClockFormat
	}
	return hours*60 + mins, nil
}

// FormatClock converts minutes since midnight to "HH:MM", wrapping around the
// day in both directions (1500 -> "01:00", -30 -> "23:30").
func FormatClock(m int) string {
	m %= MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return string([]byte{
		byte('0' + m/600), byte('0' + (m/60)%10), ':',
		byte('0' + (m%60)/10), byte('0' + m%10),
	})
}

// AtMinutes returns the instant that lies the given number of minutes after
// midnight of date. Values past 1440 land on the following day.
func AtMinutes(date time.Time, minutes int) time.Time {
	day := TruncateToDay(date)
	return time.Date(day.Year(), day.Month(), day.Day(), 0, minutes, 0, 0, day.Location())
}

// WallMinutes returns the minutes the clocks advance from origin to t, with
// t read in origin's location. It agrees with AtMinutes across DST changes,
// where elapsed time does not.
func WallMinutes(origin, t time.Time) float64 {
	return wall(t.In(origin.Location())).Sub(wall(origin)).Minutes()
}

// AddWallMinutes returns the instant whose wall clock reads minutes after
// origin's. It is the inverse of WallMinutes except inside a DST gap.
func AddWallMinutes(origin time.Time, minutes float64) time.Time {
	w := wall(origin).Add(time.Duration(minutes * float64(time.Minute)))
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), origin.Location())
}

// wall re-reads t's clock face as UTC.
func wall(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// ErrEndDateBeforeStart is returned when a range ends before it starts.
var ErrEndDateBeforeStart = errors.New("end date must be on or after start date")

// DateRange is an inclusive span of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange parses start and end. An empty end defaults to start.
func NewDateRange(start, end string, now time.Time) (DateRange, error) {
	s, err := ParseDate(start, now)
	if err != nil {
		return DateRange{}, err
	}
	e := s
	if end != "" {
		if e, err = ParseDate(end, now); err != nil {
			return DateRange{}, err
		}
	}
	if e.Before(s) {
		return DateRange{}, ErrEndDateBeforeStart
	}
	return DateRange{Start: s, End: e}, nil
}

// Bounds returns the half-open instant range [Start 00:00, End+1 00:00).
// extraDays widens the upper bound, which callers use to cover business days
// that close after midnight.
func (r DateRange) Bounds(extraDays int) (time.Time, time.Time) {
	return TruncateToDay(r.Start), TruncateToDay(r.End).AddDate(0, 0, 1+extraDays)
}
