package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/board"
	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

func (a *App) moveCmd() *cobra.Command {
	var (
		room  string
		date  string
		start string
	)

	cmd := &cobra.Command{
		Use:   "move <booking-id>",
		Short: "Move a booking to another room or time",
		Long: `Move a booking and keep its duration. Unset flags keep the current value.

When the new slot is taken by exactly one booking of the same length, the two
bookings swap places, the same as dropping one block onto another on the board.`,
		Example: `  venuegrid move 3f2a9c1b --room="Studio B"
  venuegrid move 3f2a9c1b --start=20:00
  venuegrid move 3f2a9c1b --date=tomorrow --start=18:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			if err := a.ensureRepo(); err != nil {
				return err
			}
			bk, err := a.findBooking(ctx, args[0])
			if err != nil {
				return err
			}

			b, err := a.homeBoard(ctx, bk)
			if err != nil {
				return err
			}
			if date != "" {
				day, err := a.parseDate(date)
				if err != nil {
					return err
				}
				if b, err = a.boardFor(ctx, day, bk); err != nil {
					return err
				}
			}

			roomID := bk.RoomID
			if room != "" {
				r, err := findRoom(b.Rooms(), room)
				if err != nil {
					return err
				}
				roomID = r.ID
			}
			clock := start
			if clock == "" {
				clock = bk.Start.Format("15:04")
			}
			from, _, err := spanOn(b, b.Date(), clock, clock)
			if err != nil {
				return err
			}
			to := from.Add(bk.Duration())

			if bk.SamePlacement(roomID, from, to) {
				_, _ = fmt.Fprintln(a.out, "No change.")
				return nil
			}
			if err := b.CommitMove(ctx, bk.ID, roomID, from, to); err != nil {
				return fmt.Errorf("moving booking: %s", booking.UserMessage(err))
			}

			a.printPlacement(b, "Moved", bk.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "Target room name or ID")
	cmd.Flags().StringVar(&date, "date", "", "Target business day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	return cmd
}

func (a *App) resizeCmd() *cobra.Command {
	var (
		start string
		end   string
	)

	cmd := &cobra.Command{
		Use:   "resize <booking-id>",
		Short: "Change the start or end of a booking",
		Long: `Resize a booking in place. Unset flags keep the current edge. The booking
must still lie inside business hours and must not overlap another booking.`,
		Example: `  venuegrid resize 3f2a9c1b --end=23:00
  venuegrid resize 3f2a9c1b --start=18:00 --end=20:30`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			if start == "" && end == "" {
				return fmt.Errorf("set --start, --end or both")
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			bk, err := a.findBooking(ctx, args[0])
			if err != nil {
				return err
			}

			b, err := a.homeBoard(ctx, bk)
			if err != nil {
				return err
			}

			s, e := bk.Start.Format("15:04"), bk.End.Format("15:04")
			if start != "" {
				s = start
			}
			if end != "" {
				e = end
			}
			from, to, err := spanOn(b, b.Date(), s, e)
			if err != nil {
				return err
			}

			if err := b.CommitResize(ctx, bk.ID, from, to); err != nil {
				return fmt.Errorf("resizing booking: %s", booking.UserMessage(err))
			}

			a.printPlacement(b, "Resized", bk.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start time (HH:MM)")
	cmd.Flags().StringVar(&end, "end", "", "New end time (HH:MM)")
	return cmd
}

// boardFor loads a board for day and makes sure bk is on it, even when it
// lies outside the day's booking window.
func (a *App) boardFor(ctx context.Context, day time.Time, bk booking.Booking) (*board.Board, error) {
	b, err := a.loadBoard(ctx, day)
	if err != nil {
		return nil, err
	}
	if _, ok := b.Cache().State().Get(bk.ID); !ok {
		b.Cache().Load(append(b.Cache().Bookings(), bk))
	}
	return b, nil
}

// homeBoard loads the board of the business day bk belongs to. A booking
// that starts after midnight belongs to the previous day when that day
// closes late.
func (a *App) homeBoard(ctx context.Context, bk booking.Booking) (*board.Board, error) {
	b, err := a.boardFor(ctx, dateutil.TruncateToDay(bk.Start), bk)
	if err != nil {
		return nil, err
	}
	if b.Hours().Contains(b.Date(), bk.Start, bk.End) {
		return b, nil
	}
	prev, err := a.boardFor(ctx, b.Date().AddDate(0, 0, -1), bk)
	if err != nil {
		return nil, err
	}
	if prev.Hours().Contains(prev.Date(), bk.Start, bk.End) {
		return prev, nil
	}
	return b, nil
}

func (a *App) printPlacement(b *board.Board, verb, id string) {
	after, ok := b.Cache().State().Get(id)
	if !ok {
		return
	}
	name := roomNames(b.Rooms())[after.RoomID]
	_, _ = fmt.Fprintf(a.out, "%s %s: %s %s %s-%s\n",
		verb,
		shortID(after.ID),
		name,
		after.Start.Format(dateutil.DateLayout),
		after.Start.Format("15:04"),
		after.End.Format("15:04"),
	)
}
