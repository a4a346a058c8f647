package ui

import (
	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

func (a *App) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <booking-id> <status>",
		Short: "Set the status of a booking",
		Long: `Change how a booking stands.

Statuses:
  pending   - Requested, not yet confirmed
  confirmed - Confirmed with the customer
  completed - The session took place
  cancelled - Called off; frees the room
  no_show   - The customer did not come; frees the room

Example:
  venuegrid status 3f2a9c1b confirmed`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			status, err := booking.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return a.setStatus(args[0], status)
		},
	}
}
