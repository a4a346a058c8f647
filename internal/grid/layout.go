package grid

import (
	"sync"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

// LayoutKey identifies the inputs of a layout. Collections are represented by
// version counters bumped by their owners on every change.
type LayoutKey struct {
	Date            string // YYYY-MM-DD
	Zone            string
	Hours           hours.BusinessHours
	Settings        Settings
	Viewport        Viewport
	BookingsVersion uint64
	RoomsVersion    uint64
}

// LayoutInput is the full input tuple of a layout.
type LayoutInput struct {
	Date            time.Time
	Hours           hours.BusinessHours
	Settings        Settings
	Viewport        Viewport
	Rooms           []booking.Room
	Bookings        []booking.Booking
	BookingsVersion uint64
	RoomsVersion    uint64
}

// Key returns the memo key of in.
func (in LayoutInput) Key() LayoutKey {
	return LayoutKey{
		Date:            in.Date.Format(dateutil.DateLayout),
		Zone:            in.Date.Location().String(),
		Hours:           in.Hours,
		Settings:        in.Settings,
		Viewport:        in.Viewport,
		BookingsVersion: in.BookingsVersion,
		RoomsVersion:    in.RoomsVersion,
	}
}

// Layout is everything a renderer needs for one day.
type Layout struct {
	Key       LayoutKey
	Date      time.Time
	Hours     hours.BusinessHours
	Rooms     []booking.Room
	Slots     []TimeSlot
	Geometry  Geometry
	Mapper    Mapper
	Placement Placement
}

// Closed reports whether the day has no grid.
func (l *Layout) Closed() bool {
	return len(l.Slots) == 0
}

// SlotTime returns the instant at the start of slot i.
func (l *Layout) SlotTime(i int) time.Time {
	return dateutil.AtMinutes(l.Date, l.Hours.OpenMinutes()+l.Slots[i].MinutesFromOpen)
}

// IsPadding reports whether slot lies in the lead-in or trail-out, which is
// shown but not bookable.
func (l *Layout) IsPadding(slot TimeSlot) bool {
	return slot.MinutesFromOpen < 0 || slot.MinutesFromOpen >= l.Hours.Span()
}

// Compute builds a layout from scratch.
func Compute(in LayoutInput) *Layout {
	day := dateutil.TruncateToDay(in.Date)
	interval := in.Settings.IntervalOrDefault()
	slots := GenerateSlots(in.Hours, interval, PaddingFor(in.Settings.orientation()))
	geom := NewGeometry(in.Settings, in.Viewport, len(slots), len(in.Rooms))
	mapper := NewMapper(geom)

	return &Layout{
		Key:      in.Key(),
		Date:     day,
		Hours:    in.Hours,
		Rooms:    in.Rooms,
		Slots:    slots,
		Geometry: geom,
		Mapper:   mapper,
		Placement: Place(PlaceInput{
			Date:     day,
			Hours:    in.Hours,
			Slots:    slots,
			Mapper:   mapper,
			Rooms:    in.Rooms,
			Bookings: in.Bookings,
		}),
	}
}

// Layouter memoizes the most recent layout by input key.
type Layouter struct {
	mu     sync.Mutex
	last   *Layout
	hits   int
	misses int
}

// Layout returns the cached layout when in has the same key as the last call,
// otherwise computes and caches a new one.
func (l *Layouter) Layout(in LayoutInput) *Layout {
	key := in.Key()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.last != nil && l.last.Key == key {
		l.hits++
		return l.last
	}
	l.misses++
	l.last = Compute(in)
	return l.last
}

// Stats returns the number of cache hits and misses.
func (l *Layouter) Stats() (hits, misses int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hits, l.misses
}
