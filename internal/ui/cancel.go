package ui

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/conflict"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
)

func (a *App) cancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <booking-id>",
		Short: "Cancel a booking",
		Long: `Mark a booking as cancelled. Cancelled bookings stay on record but free
their room. Any unique prefix of the ID is accepted.

Example:
  venuegrid cancel 3f2a9c1b`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.setStatus(args[0], booking.StatusCancelled)
		},
	}
}

func (a *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <booking-id>",
		Short: "Delete a booking",
		Long: `Remove a booking from the board for good. Use cancel to keep a record.

Example:
  venuegrid delete 3f2a9c1b`,
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

			b, err := a.loadBoard(ctx, dateutil.TruncateToDay(bk.Start))
			if err != nil {
				return err
			}
			if err := b.Delete(ctx, bk.ID); err != nil {
				return fmt.Errorf("deleting booking: %s", booking.UserMessage(err))
			}

			_, _ = fmt.Fprintf(a.out, "Deleted booking %s (%s)\n", shortID(bk.ID), bk.CustomerName)
			return nil
		},
	}
}

// setStatus changes the status of a booking in the SQLite store.
func (a *App) setStatus(ref string, status booking.Status) error {
	store, err := a.requireStore()
	if err != nil {
		return err
	}
	ctx := context.Background()
	bk, err := a.findBooking(ctx, ref)
	if err != nil {
		return err
	}
	if bk.Status == status {
		_, _ = fmt.Fprintf(a.out, "Booking %s is already %s\n", shortID(bk.ID), formatStatus(status))
		return nil
	}
	if status.Active() && !bk.Status.Active() {
		// Reactivating must not double-book the room.
		b, err := a.loadBoard(ctx, dateutil.TruncateToDay(bk.Start))
		if err != nil {
			return err
		}
		if others := conflict.Overlapping(b.Cache().Bookings(), bk.RoomID, bk.Start, bk.End, bk.ID); len(others) > 0 {
			return fmt.Errorf("updating booking: %s", booking.UserMessage(fmt.Errorf("%w: %s", booking.ErrOverlap, others[0].ID)))
		}
	}
	if err := store.SetStatus(ctx, bk.ID, status); err != nil {
		return fmt.Errorf("updating booking: %s", booking.UserMessage(err))
	}

	a.log.Info().Str("booking", bk.ID).Str("from", string(bk.Status)).Str("to", string(status)).Msg("status changed")
	_, _ = fmt.Fprintf(a.out, "Booking %s (%s): %s -> %s\n",
		shortID(bk.ID), bk.CustomerName, formatStatus(bk.Status), formatStatus(status))
	return nil
}
