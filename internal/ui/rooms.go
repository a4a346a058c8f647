package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

func (a *App) roomsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rooms",
		Short: "List or add rooms",
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.listRooms()
		},
	}
	cmd.AddCommand(a.roomsAddCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List rooms in display order",
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.listRooms()
		},
	})
	return cmd
}

func (a *App) roomsAddCmd() *cobra.Command {
	var (
		id       string
		category string
		capacity int
		color    string
		closed   bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add or update a room",
		Long: `Add a room to the venue. Rooms appear on the grid in the order they were
added. Adding a room with an existing --id updates it.`,
		Example: `  venuegrid rooms add "Studio A" --capacity=8 --color=#89b4fa
  venuegrid rooms add Storage --closed`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := a.requireStore()
			if err != nil {
				return err
			}
			if color != "" && (len(color) != 7 || !strings.HasPrefix(color, "#")) {
				return fmt.Errorf("color must look like #rrggbb")
			}
			if id == "" {
				id = uuid.NewString()
			}

			r := booking.Room{
				ID:       id,
				Name:     args[0],
				Category: category,
				Capacity: capacity,
				Color:    color,
				Bookable: !closed,
			}
			if err := store.AddRoom(context.Background(), r); err != nil {
				return fmt.Errorf("adding room: %w", err)
			}
			a.log.Info().Str("room", r.ID).Str("name", r.Name).Msg("room saved")
			_, _ = fmt.Fprintf(a.out, "Saved room %s (%s)\n", formatHeader(r.Name), shortID(r.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "Room ID (default: generated)")
	cmd.Flags().StringVar(&category, "category", "", "Room category")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "Number of guests")
	cmd.Flags().StringVar(&color, "color", "", "Block color as #rrggbb")
	cmd.Flags().BoolVar(&closed, "closed", false, "Show the room but do not accept bookings")
	return cmd
}

func (a *App) listRooms() error {
	if err := a.ensureRepo(); err != nil {
		return err
	}
	rooms, err := a.repo.ListRooms(context.Background())
	if err != nil {
		return fmt.Errorf("listing rooms: %w", err)
	}
	if len(rooms) == 0 {
		_, _ = fmt.Fprintln(a.out, "No rooms yet. Add one with: venuegrid rooms add <name>")
		return nil
	}

	for _, r := range rooms {
		state := ""
		if !r.Bookable {
			state = formatMuted(" (not bookable)")
		}
		capacity := ""
		if r.Capacity > 0 {
			capacity = fmt.Sprintf("%d pax", r.Capacity)
		}
		_, _ = fmt.Fprintf(a.out, "  %-20s %-12s %-8s %s%s\n",
			r.Name, r.Category, capacity, formatMuted(r.ID), state)
	}
	return nil
}
