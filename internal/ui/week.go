package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

func (a *App) weekCmd() *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show room occupancy for a week",
		Long: `Display Monday through Sunday of the week containing --date with the share
of open room time that is booked, per day and per room.

Only bookable rooms count towards open time. Cancelled bookings and no-shows
are counted separately and do not occupy time.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := context.Background()

			res, err := a.resolver(ctx)
			if err != nil {
				return err
			}
			rooms, err := a.repo.ListRooms(ctx)
			if err != nil {
				return fmt.Errorf("listing rooms: %w", err)
			}

			monday := weekStart(day)
			bookings, err := a.repo.ListBookings(ctx, monday, monday.AddDate(0, 0, 8))
			if err != nil {
				return fmt.Errorf("listing bookings: %w", err)
			}

			header := fmt.Sprintf("WEEK: %s - %s", monday.Format("Mon Jan 2"), monday.AddDate(0, 0, 6).Format("Mon Jan 2, 2006"))
			_, _ = fmt.Fprintf(a.out, "\n  %s\n", formatHeader(header))
			_, _ = fmt.Fprintln(a.out, strings.Repeat("─", 74))

			var stats Stats
			for i := range 7 {
				d := monday.AddDate(0, 0, i)
				h := res.For(d)
				AccumulateDay(&stats, d, h, rooms, bookings)

				ds := stats.DayStats[d.Format("Mon Jan 2")]
				_, _ = fmt.Fprintf(a.out, "  %-10s %-13s %s\n",
					d.Format("Mon Jan 2"),
					h.String(),
					OccupancyBar(ds.BookedMinutes, ds.OpenMinutes, 20),
				)
			}

			_, _ = fmt.Fprintln(a.out, strings.Repeat("─", 74))
			PrintStats(a.out, stats)

			if len(stats.RoomMinutes) > 0 {
				_, _ = fmt.Fprintf(a.out, "\n  %s\n", formatHeader("ROOMS"))
				for _, r := range rooms {
					if !r.Bookable {
						continue
					}
					_, _ = fmt.Fprintf(a.out, "  %-20s %s\n", r.Name, FormatDuration(stats.RoomMinutes[r.ID]))
				}
			}

			_, _ = fmt.Fprintln(a.out)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Any day of the week (YYYY-MM-DD, default: today)")
	return cmd
}

// weekStart returns the Monday of the ISO week containing t.
func weekStart(t time.Time) time.Time {
	day := dateutil.TruncateToDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}
