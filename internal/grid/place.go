package grid

import (
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

// PlacedBooking is a booking positioned on the grid. The embedded booking is
// a copy and keeps its full time range; the geometry fields describe only the
// visible part.
type PlacedBooking struct {
	booking.Booking

	RoomIndex    int
	StartMinutes float64 // visible start, minutes from origin
	EndMinutes   float64 // visible end, minutes from origin
	OffsetSlots  float64
	ExtentSlots  float64
	OffsetPx     float64
	ExtentPx     float64
	ClippedStart bool
	ClippedEnd   bool
}

// PlaceInput collects the inputs of Place.
type PlaceInput struct {
	Date     time.Time
	Hours    hours.BusinessHours
	Slots    []TimeSlot
	Mapper   Mapper
	Rooms    []booking.Room
	Bookings []booking.Booking
}

// Placement is the result of Place.
type Placement struct {
	Origin        time.Time // selected date at open minus lead-in
	WindowMinutes int
	ByRoom        map[string][]PlacedBooking
	roomOrder     []string
}

// All returns every placed booking in room order, then by start.
func (p Placement) All() []PlacedBooking {
	var out []PlacedBooking
	for _, id := range p.roomOrder {
		out = append(out, p.ByRoom[id]...)
	}
	return out
}

// Find returns the placed booking with the given ID.
func (p Placement) Find(id string) (PlacedBooking, bool) {
	for _, list := range p.ByRoom {
		for _, pb := range list {
			if pb.ID == id {
				return pb, true
			}
		}
	}
	return PlacedBooking{}, false
}

// TimeAt returns the instant minutes after the origin on the wall clock,
// the clock the slot labels use.
func (p Placement) TimeAt(minutes float64) time.Time {
	return dateutil.AddWallMinutes(p.Origin, minutes)
}

// MinutesFrom returns t as wall-clock minutes from the origin.
func (p Placement) MinutesFrom(t time.Time) float64 {
	return dateutil.WallMinutes(p.Origin, t)
}

// Origin returns the instant at the start of the visible window.
func Origin(date time.Time, h hours.BusinessHours, slots []TimeSlot) time.Time {
	lead := 0
	if len(slots) > 0 {
		lead = -slots[0].MinutesFromOpen
	}
	return dateutil.AtMinutes(date, h.OpenMinutes()-lead)
}

// Place positions the active bookings of the listed rooms inside the visible
// window. Bookings outside the window, in unlisted rooms, or cancelled are
// left out; the input slice is never modified.
func Place(in PlaceInput) Placement {
	p := Placement{ByRoom: make(map[string][]PlacedBooking, len(in.Rooms))}
	for _, r := range in.Rooms {
		p.roomOrder = append(p.roomOrder, r.ID)
	}
	if len(in.Slots) == 0 || in.Hours.Span() <= 0 {
		return p
	}

	g := in.Mapper.Geometry()
	p.Origin = Origin(in.Date, in.Hours, in.Slots)
	p.WindowMinutes = len(in.Slots) * g.Interval

	roomIndex := make(map[string]int, len(in.Rooms))
	for i, r := range in.Rooms {
		roomIndex[r.ID] = i
	}

	window := float64(p.WindowMinutes)
	for _, b := range in.Bookings {
		if !b.IsActive() {
			continue
		}
		idx, ok := roomIndex[b.RoomID]
		if !ok {
			continue
		}

		start := p.MinutesFrom(b.Start)
		end := p.MinutesFrom(b.End)
		visStart := max(start, 0)
		visEnd := min(end, window)
		if visEnd-visStart <= 0 {
			continue
		}

		interval := float64(g.Interval)
		p.ByRoom[b.RoomID] = append(p.ByRoom[b.RoomID], PlacedBooking{
			Booking:      b,
			RoomIndex:    idx,
			StartMinutes: visStart,
			EndMinutes:   visEnd,
			OffsetSlots:  visStart / interval,
			ExtentSlots:  (visEnd - visStart) / interval,
			OffsetPx:     in.Mapper.MinutesToPx(visStart),
			ExtentPx:     in.Mapper.MinutesToPx(visEnd - visStart),
			ClippedStart: start < 0,
			ClippedEnd:   end > window,
		})
	}

	for id := range p.ByRoom {
		slices.SortFunc(p.ByRoom[id], func(a, b PlacedBooking) int {
			if c := a.Start.Compare(b.Start); c != 0 {
				return c
			}
			return strings.Compare(a.ID, b.ID)
		})
	}
	return p
}
