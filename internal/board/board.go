// Package board wires the grid engine together for one selected day: it
// turns gesture outcomes into validated schedule commands.
package board

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/gesture"
	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/hours"
	"github.com/javiermolinar/venuegrid/internal/schedule"
)

// Options configure a Board.
type Options struct {
	Hours     hours.Resolver
	Cache     *schedule.Cache
	Repo      booking.Reader
	Settings  grid.Settings
	Date      time.Time
	Threshold float64
	Logger    zerolog.Logger
}

// Board is the scheduling grid for one selected date.
type Board struct {
	hours    hours.Resolver
	cache    *schedule.Cache
	repo     booking.Reader
	settings grid.Settings
	date     time.Time
	log      zerolog.Logger

	rooms        []booking.Room
	roomsVersion uint64

	layouter grid.Layouter
	gestures *gesture.Controller
	viewport grid.Viewport
}

// New returns a board for opts.Date.
func New(opts Options) *Board {
	return &Board{
		hours:    opts.Hours,
		cache:    opts.Cache,
		repo:     opts.Repo,
		settings: opts.Settings,
		date:     dateutil.TruncateToDay(opts.Date),
		log:      opts.Logger.With().Str("component", "board").Logger(),
		gestures: gesture.NewController(opts.Threshold),
	}
}

// Date returns the selected date.
func (b *Board) Date() time.Time {
	return b.date
}

// SetDate selects another day.
func (b *Board) SetDate(d time.Time) {
	b.date = dateutil.TruncateToDay(d)
	b.gestures.Cancel()
}

// Hours returns the business hours of the selected date.
func (b *Board) Hours() hours.BusinessHours {
	return b.hours.For(b.date)
}

// Settings returns the display settings.
func (b *Board) Settings() grid.Settings {
	return b.settings
}

// SetSettings replaces the display settings.
func (b *Board) SetSettings(s grid.Settings) {
	b.settings = s
	b.gestures.Cancel()
}

// SetOrientation switches the grid orientation.
func (b *Board) SetOrientation(o grid.Orientation) {
	s := b.settings
	s.Orientation = o
	b.SetSettings(s)
}

// SetSidebar opens or closes the sidebar.
func (b *Board) SetSidebar(open bool) {
	s := b.settings
	s.SidebarOpen = open
	b.settings = s
}

// Rooms returns the rooms shown on the board.
func (b *Board) Rooms() []booking.Room {
	return b.rooms
}

// SetRooms replaces the room list.
func (b *Board) SetRooms(rooms []booking.Room) {
	b.rooms = rooms
	b.roomsVersion++
}

// Cache returns the booking cache.
func (b *Board) Cache() *schedule.Cache {
	return b.cache
}

// Gestures returns the gesture controller. Its layout is kept current by
// Layout.
func (b *Board) Gestures() *gesture.Controller {
	return b.gestures
}

// Layout returns the grid layout for vp. Results are memoized on the full
// input tuple.
func (b *Board) Layout(vp grid.Viewport) *grid.Layout {
	b.viewport = vp
	l := b.layouter.Layout(grid.LayoutInput{
		Date:            b.date,
		Hours:           b.Hours(),
		Settings:        b.settings,
		Viewport:        vp,
		Rooms:           b.rooms,
		Bookings:        b.cache.Bookings(),
		BookingsVersion: b.cache.Version(),
		RoomsVersion:    b.roomsVersion,
	})
	b.gestures.SetLayout(l)
	return l
}

// LayoutStats returns memo hits and misses.
func (b *Board) LayoutStats() (hits, misses int) {
	return b.layouter.Stats()
}

// Refresh reloads rooms and the bookings around the selected date.
func (b *Board) Refresh(ctx context.Context) error {
	rooms, err := b.repo.ListRooms(ctx)
	if err != nil {
		return fmt.Errorf("loading rooms: %w", err)
	}
	b.SetRooms(rooms)

	from, to := b.Window()
	if err := b.cache.Refresh(ctx, from, to); err != nil {
		return err
	}
	b.log.Debug().Str("date", b.date.Format(dateutil.DateLayout)).Int("rooms", len(rooms)).Msg("board refreshed")
	return nil
}

// Load replaces the rooms and the bookings with freshly fetched ones.
// Pending optimistic changes are replayed on top.
func (b *Board) Load(rooms []booking.Room, bookings []booking.Booking) {
	b.SetRooms(rooms)
	b.cache.Load(bookings)
}

// Window is the booking range the board needs for the selected date. It
// covers the lead-in before an early open and the tail of a late-night close.
func (b *Board) Window() (time.Time, time.Time) {
	return b.date.AddDate(0, 0, -1), b.date.AddDate(0, 0, 2)
}
