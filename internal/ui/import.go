package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/db"
)

func (a *App) importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [database_path]",
		Short: "Import rooms and bookings from another database",
		Long: `Import all rooms and bookings from another venuegrid database into the
current one. Rooms with the same ID are updated. Bookings that already exist
or that would overlap an active booking are skipped.

Example:
  venuegrid import /path/to/other.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := a.requireStore()
			if err != nil {
				return err
			}

			sourcePath, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			destPath, err := resolvePath(a.config.Storage.DBPath)
			if err != nil {
				return err
			}

			if sourcePath == destPath {
				return fmt.Errorf("source database matches current database")
			}

			info, err := os.Stat(sourcePath)
			if err != nil {
				if os.IsNotExist(err) {
					return fmt.Errorf("source database does not exist: %s", sourcePath)
				}
				return fmt.Errorf("checking source database: %w", err)
			}
			if info.IsDir() {
				return fmt.Errorf("source database path is a directory: %s", sourcePath)
			}

			res, err := importVenue(context.Background(), store, sourcePath)
			if err != nil {
				return err
			}

			a.log.Info().Str("source", sourcePath).Int("rooms", res.Rooms).Int("bookings", res.Bookings).
				Int("skipped", res.Skipped).Msg("import finished")
			_, _ = fmt.Fprintf(a.out, "Imported %d rooms and %d bookings from %s\n", res.Rooms, res.Bookings, sourcePath)
			if res.Skipped > 0 {
				_, _ = fmt.Fprintln(a.out, formatMuted(fmt.Sprintf("Skipped %d bookings that already exist or overlap.", res.Skipped)))
			}
			return nil
		},
	}

	return cmd
}

type importResult struct {
	Rooms    int
	Bookings int
	Skipped  int
}

// importVenue copies rooms first so every imported booking finds its room.
func importVenue(ctx context.Context, dest *db.SQLite, sourcePath string) (importResult, error) {
	var res importResult

	source, err := db.New(sourcePath)
	if err != nil {
		return res, fmt.Errorf("opening source database: %w", err)
	}
	defer func() { _ = source.Close() }()

	rooms, err := source.ListRooms(ctx)
	if err != nil {
		return res, fmt.Errorf("listing source rooms: %w", err)
	}
	for _, r := range rooms {
		if err := dest.AddRoom(ctx, r); err != nil {
			return res, fmt.Errorf("importing room %q: %w", r.Name, err)
		}
		res.Rooms++
	}

	bookings, err := source.ListBookings(ctx, time.Unix(0, 0), time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return res, fmt.Errorf("listing source bookings: %w", err)
	}
	for _, b := range bookings {
		if _, err := dest.GetBooking(ctx, b.ID); err == nil {
			res.Skipped++
			continue
		}
		if _, err := dest.CreateBooking(ctx, b); err != nil {
			if errors.Is(err, booking.ErrMutationRejected) {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("importing booking %s: %w", b.ID, err)
		}
		res.Bookings++
	}

	return res, nil
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
