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

func (a *App) bookCmd() *cobra.Command {
	var (
		room   string
		date   string
		start  string
		end    string
		phone  string
		email  string
		source string
		notes  string
		status string
	)

	cmd := &cobra.Command{
		Use:   "book <customer>",
		Short: "Book a room",
		Long: `Create a booking. The range must lie inside the business hours of --date
and must not overlap another active booking in the room.

--date is the business day. On days that close after midnight, times before
the opening time fall on the following calendar day.`,
		Example: `  venuegrid book "Ana Ruiz" --room="Studio A" --start=19:00 --end=21:00
  venuegrid book Team --room=r1 --date=2025-03-14 --start=23:30 --end=01:00 --status=confirmed`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ctx := context.Background()
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			st, err := booking.ParseStatus(status)
			if err != nil {
				return err
			}

			b, err := a.loadBoard(ctx, day)
			if err != nil {
				return err
			}
			r, err := findRoom(b.Rooms(), room)
			if err != nil {
				return err
			}
			from, to, err := spanOn(b, day, start, end)
			if err != nil {
				return err
			}

			nb, err := booking.New(r.ID, from, to, args[0])
			if err != nil {
				return err
			}
			nb.CustomerPhone = phone
			nb.CustomerEmail = email
			nb.Source = source
			nb.Notes = notes
			nb.Status = st

			created, err := b.Create(ctx, nb)
			if err != nil {
				return fmt.Errorf("creating booking: %s", booking.UserMessage(err))
			}

			_, _ = fmt.Fprintf(a.out, "Booked %s: %s %s %s-%s [%s]\n",
				shortID(created.ID),
				r.Name,
				created.Start.Format(dateutil.DateLayout),
				created.Start.Format("15:04"),
				created.End.Format("15:04"),
				formatStatus(created.Status),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&room, "room", "", "Room name or ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "Business day (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&start, "start", "", "Start time (HH:MM, required)")
	cmd.Flags().StringVar(&end, "end", "", "End time (HH:MM, required)")
	cmd.Flags().StringVar(&phone, "phone", "", "Customer phone")
	cmd.Flags().StringVar(&email, "email", "", "Customer email")
	cmd.Flags().StringVar(&source, "source", "cli", "Where the booking came from")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&status, "status", string(booking.StatusPending), "pending or confirmed")

	_ = cmd.MarkFlagRequired("room")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

// loadBoard opens a board for day with rooms and bookings loaded.
func (a *App) loadBoard(ctx context.Context, day time.Time) (*board.Board, error) {
	b, err := a.newBoard(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := b.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("loading board: %w", err)
	}
	return b, nil
}

// spanOn parses start and end on the business day of b. On late-night days
// a start before opening belongs to the early hours of the next day.
func spanOn(b *board.Board, day time.Time, start, end string) (time.Time, time.Time, error) {
	from, to, err := parseSpan(day, start, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	h := b.Hours()
	if h.IsLateNight() {
		if m, _ := dateutil.ParseClock(start); m < h.OpenMinutes() {
			from, to = from.AddDate(0, 0, 1), to.AddDate(0, 0, 1)
		}
	}
	return from, to, nil
}
