// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/schedule"
)

// LoadedMsg is sent when rooms and bookings around a date are loaded.
type LoadedMsg struct {
	Date     time.Time
	Rooms    []booking.Room
	Bookings []booking.Booking
}

// SettledMsg carries the collaborator's answer for a dispatched ticket.
type SettledMsg struct {
	Result schedule.Result
}

// UndoneMsg is sent when an undo finished.
type UndoneMsg struct {
	Err error
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// Load fetches the rooms and the bookings overlapping [from, to). date is
// echoed back so stale loads can be told apart.
func Load(repo booking.Reader, date, from, to time.Time) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()

		rooms, err := repo.ListRooms(ctx)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading rooms: %w", err)}
		}
		bookings, err := repo.ListBookings(ctx, from, to)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading bookings: %w", err)}
		}
		return LoadedMsg{Date: date, Rooms: rooms, Bookings: bookings}
	}
}

// Dispatch sends an applied ticket to the collaborator off the UI loop. The
// result must be settled on the loop.
func Dispatch(cache *schedule.Cache, t *schedule.Ticket, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return SettledMsg{Result: cache.Dispatch(ctx, t)}
	}
}

// Undo reverts the last settled mutation.
func Undo(cache *schedule.Cache, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return UndoneMsg{Err: cache.Undo(ctx)}
	}
}

// ClearStatusAfter clears the status line after d.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
