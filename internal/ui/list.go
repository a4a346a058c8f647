package ui

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

func (a *App) listCmd() *cobra.Command {
	var (
		startDate string
		endDate   string
		room      string
		status    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bookings in a date range",
		Long: `List bookings that start within a date range.

If no dates are specified, lists today's bookings.
If only --start is specified, lists bookings for that single day.
If both --start and --end are specified, lists bookings in that range (inclusive).`,
		Example: `  venuegrid list
  venuegrid list --start=2025-03-14 --room="Studio A"
  venuegrid list --start=2025-03-10 --end=2025-03-16 --status=pending`,
		RunE: func(_ *cobra.Command, _ []string) error {
			dateRange, err := dateutil.NewDateRange(startDate, endDate, a.now())
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()

			rooms, err := a.repo.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}
			roomID := ""
			if room != "" {
				r, err := findRoom(rooms, room)
				if err != nil {
					return err
				}
				roomID = r.ID
			}
			var want booking.Status
			if status != "" {
				if want, err = booking.ParseStatus(status); err != nil {
					return err
				}
			}

			from, to := dateRange.Bounds(0)
			all, err := a.repo.ListBookings(ctx, from, to)
			if err != nil {
				return fmt.Errorf("listing bookings: %w", err)
			}

			bookings := all[:0]
			for _, b := range all {
				if b.Start.Before(from) || !b.Start.Before(to) {
					continue
				}
				if roomID != "" && b.RoomID != roomID {
					continue
				}
				if want != "" && b.Status != want {
					continue
				}
				bookings = append(bookings, b)
			}

			if len(bookings) == 0 {
				_, _ = fmt.Fprintln(a.out, "No bookings found in the specified date range.")
				return nil
			}

			slices.SortStableFunc(bookings, func(x, y booking.Booking) int {
				return x.Start.Compare(y.Start)
			})

			names := roomNames(rooms)
			nameWidth := 24
			if w, _ := termSize(); w < 80 {
				nameWidth = 14
			}

			// Print bookings grouped by date
			var currentDate string
			for _, b := range bookings {
				date := b.Start.Format(dateutil.DateLayout)
				if date != currentDate {
					if currentDate != "" {
						_, _ = fmt.Fprintln(a.out)
					}
					_, _ = fmt.Fprintln(a.out, formatHeader(fmt.Sprintf("=== %s %s ===", b.Start.Format("Mon"), date)))
					currentDate = date
				}
				PrintBookingRow(a.out, b, names[b.RoomID], nameWidth)
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&startDate, "start", "", "Start date (YYYY-MM-DD, defaults to today)")
	cmd.Flags().StringVar(&endDate, "end", "", "End date (YYYY-MM-DD, defaults to start date)")
	cmd.Flags().StringVar(&room, "room", "", "Only this room (name or ID)")
	cmd.Flags().StringVar(&status, "status", "", "Only this status")

	return cmd
}
