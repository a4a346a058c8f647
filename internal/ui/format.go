package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

// Stats holds aggregated occupancy for a set of bookings.
type Stats struct {
	OpenMinutes    int // bookable room-minutes
	BookedMinutes  int // active booking minutes inside business hours
	Bookings       int
	CancelledCount int
	NoShowCount    int
	DayStats       map[string]DayStats
	RoomMinutes    map[string]int
}

// DayStats holds occupancy for a single day.
type DayStats struct {
	OpenMinutes   int
	BookedMinutes int
	Bookings      int
}

// Percent returns the share of open room time that is booked.
func (s Stats) Percent() int {
	if s.OpenMinutes == 0 {
		return 0
	}
	return (s.BookedMinutes * 100) / s.OpenMinutes
}

// Percent returns the share of open room time that is booked.
func (d DayStats) Percent() int {
	if d.OpenMinutes == 0 {
		return 0
	}
	return (d.BookedMinutes * 100) / d.OpenMinutes
}

// BusiestDay returns the day with the most booked minutes.
func (s Stats) BusiestDay() (day string, minutes int) {
	for d, ds := range s.DayStats {
		if ds.BookedMinutes > minutes || (ds.BookedMinutes == minutes && d < day) {
			minutes = ds.BookedMinutes
			day = d
		}
	}
	return day, minutes
}

// AccumulateDay adds the business day of date to stats and counts the
// bookings that fall inside it. Only bookable rooms contribute open time.
func AccumulateDay(stats *Stats, date time.Time, h hours.BusinessHours, rooms []booking.Room, bookings []booking.Booking) {
	if stats.DayStats == nil {
		stats.DayStats = make(map[string]DayStats)
	}
	if stats.RoomMinutes == nil {
		stats.RoomMinutes = make(map[string]int)
	}

	key := date.Format("Mon Jan 2")
	ds := stats.DayStats[key]
	if h.Span() <= 0 {
		stats.DayStats[key] = ds
		return
	}
	open, close := h.Window(date)

	bookable := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		if r.Bookable {
			bookable[r.ID] = true
			ds.OpenMinutes += h.Span()
		}
	}

	for _, b := range bookings {
		if !b.Overlaps(open, close) || !bookable[b.RoomID] {
			continue
		}
		// Bookings spanning two business days are counted on the day they start.
		if b.Start.Before(open) {
			continue
		}
		switch b.Status {
		case booking.StatusCancelled:
			stats.CancelledCount++
			continue
		case booking.StatusNoShow:
			stats.NoShowCount++
			continue
		}
		minutes := OverlapMinutes(b.Start, b.End, open, close)
		ds.BookedMinutes += minutes
		ds.Bookings++
		stats.RoomMinutes[b.RoomID] += minutes
	}

	stats.OpenMinutes += ds.OpenMinutes
	stats.BookedMinutes += ds.BookedMinutes
	stats.Bookings += ds.Bookings
	stats.DayStats[key] = ds
}

// PrintBookingRow prints a single booking row with consistent formatting.
func PrintBookingRow(w io.Writer, b booking.Booking, roomName string, nameWidth int) {
	customer := b.CustomerName
	if nameWidth > 3 && len([]rune(customer)) > nameWidth {
		customer = string([]rune(customer)[:nameWidth-3]) + "..."
	}
	_, _ = fmt.Fprintf(w, "  %s %s-%s  %-12s  %-*s  %s  %s\n",
		statusSymbol(b.Status),
		b.Start.Format("15:04"),
		b.End.Format("15:04"),
		roomName,
		nameWidth, customer,
		formatMuted(FormatDuration(int(b.Duration().Minutes()))),
		formatMuted(shortID(b.ID)),
	)
}

// PrintStats prints the occupancy summary.
func PrintStats(w io.Writer, stats Stats) {
	_, _ = fmt.Fprintf(w, "  Booked: %s of %s  |  Occupancy: %s  |  Bookings: %d\n",
		FormatDuration(stats.BookedMinutes),
		FormatDuration(stats.OpenMinutes),
		formatStats(fmt.Sprintf("%d%%", stats.Percent())),
		stats.Bookings,
	)
	if day, minutes := stats.BusiestDay(); minutes > 0 {
		_, _ = fmt.Fprintf(w, "  Busiest day: %s (%s booked)\n", day, formatStats(FormatDuration(minutes)))
	}
	if stats.CancelledCount > 0 || stats.NoShowCount > 0 {
		_, _ = fmt.Fprintf(w, "  %s\n", formatMuted(fmt.Sprintf("Cancelled: %d  |  No-shows: %d",
			stats.CancelledCount, stats.NoShowCount)))
	}
}

// OccupancyBar creates an ASCII bar showing booked over open time.
func OccupancyBar(booked, open, width int) string {
	if open == 0 {
		return "[" + strings.Repeat("░", width) + "] (closed)"
	}

	pct := (booked * 100) / open
	filled := min((booked*width)/open, width)

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", colorConfirmed.Sprint(bar), formatStats(fmt.Sprintf("(%d%% booked)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// OverlapMinutes returns the whole minutes shared by [start1, end1) and
// [start2, end2).
func OverlapMinutes(start1, end1, start2, end2 time.Time) int {
	from := start1
	if start2.After(from) {
		from = start2
	}
	to := end1
	if end2.Before(to) {
		to = end2
	}
	if !to.After(from) {
		return 0
	}
	return int(to.Sub(from).Minutes())
}

// parseSpan turns a date and two "HH:MM" clocks into instants. An end at or
// before the start falls on the next day, so 22:00-01:00 is three hours.
func parseSpan(date time.Time, start, end string) (time.Time, time.Time, error) {
	s, err := dateutil.ParseClock(start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start: %w", err)
	}
	e, err := dateutil.ParseClock(end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end: %w", err)
	}
	if e <= s {
		e += dateutil.MinutesPerDay
	}
	return dateutil.AtMinutes(date, s), dateutil.AtMinutes(date, e), nil
}

// statusSymbol returns the status indicator for a booking.
func statusSymbol(s booking.Status) string {
	switch s {
	case booking.StatusConfirmed:
		return colorConfirmed.Sprint("●")
	case booking.StatusPending:
		return colorPending.Sprint("○")
	case booking.StatusCompleted:
		return colorInactive.Sprint("✓")
	case booking.StatusCancelled:
		return colorInactive.Sprint("✗")
	case booking.StatusNoShow:
		return colorNoShow.Sprint("!")
	default:
		return "?"
	}
}

// shortID abbreviates a UUID for listings. Commands accept any unique prefix.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func roomNames(rooms []booking.Room) map[string]string {
	names := make(map[string]string, len(rooms))
	for _, r := range rooms {
		names[r.ID] = r.Name
	}
	return names
}
