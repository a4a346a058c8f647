package ui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/board"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/render"
)

func (a *App) gridCmd() *cobra.Command {
	var (
		date        string
		orientation string
		noColor     bool
		copyOut     bool
	)

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Print the booking grid of a day",
		Long: `Print every room and every slot of a business day as a character grid.

This is a read-only snapshot of the board. Run venuegrid without a command
to edit bookings interactively.`,
		Example: `  venuegrid grid
  venuegrid grid --date=tomorrow --orientation=vertical
  venuegrid grid --copy`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			b, err := a.snapshotBoard(ctx, date, orientation)
			if err != nil {
				return err
			}

			l := b.Layout(grid.Viewport{})
			title := formatHeader(b.Date().Format("=== Monday, January 2, 2006 ===")) + "  " + formatMuted(b.Hours().String())
			if l.Closed() {
				_, _ = fmt.Fprintln(a.out, title)
				_, _ = fmt.Fprintln(a.out, "Closed.")
				return nil
			}

			text := render.Text(l, render.TextOptions{
				NoColor: noColor || a.noColor || !isTerminal(),
				Output:  a.out,
			})
			_, _ = fmt.Fprintf(a.out, "%s\n\n%s", title, text)

			if copyOut {
				plain := render.Text(l, render.TextOptions{NoColor: true})
				if err := clipboard.WriteAll(plain); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				_, _ = fmt.Fprintln(a.out, formatMuted("Copied to clipboard."))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Business day (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&orientation, "orientation", "", "horizontal or vertical (default: from config)")
	cmd.Flags().BoolVar(&noColor, "plain", false, "Print without colors")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Also copy the plain grid to the clipboard")
	return cmd
}

func (a *App) exportCmd() *cobra.Command {
	var (
		date        string
		orientation string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the booking grid of a day as a PNG image",
		Example: `  venuegrid export --date=2025-03-14 -o friday.png
  venuegrid export --orientation=vertical`,
		RunE: func(_ *cobra.Command, _ []string) error {
			ctx := context.Background()
			b, err := a.snapshotBoard(ctx, date, orientation)
			if err != nil {
				return err
			}
			if output == "" {
				output = "venuegrid-" + b.Date().Format(dateutil.DateLayout) + ".png"
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			title := b.Date().Format("Monday, January 2, 2006")
			if err := render.PNG(f, b.Layout(grid.Viewport{}), title); err != nil {
				_ = f.Close()
				return fmt.Errorf("rendering image: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing %s: %w", output, err)
			}

			a.log.Info().Str("file", output).Msg("grid exported")
			_, _ = fmt.Fprintf(a.out, "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Business day (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&orientation, "orientation", "", "horizontal or vertical (default: from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default: venuegrid-<date>.png)")
	return cmd
}

func (a *App) slotsCmd() *cobra.Command {
	var (
		date        string
		orientation string
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List the time slots of a business day",
		Long: `List the grid slots of a day. Slots in the lead-in and trail-out padding
are shown but cannot be booked.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			day, err := a.parseDate(date)
			if err != nil {
				return err
			}
			o, err := a.orientation(orientation)
			if err != nil {
				return err
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}
			res, err := a.resolver(context.Background())
			if err != nil {
				return err
			}

			h := res.For(day)
			_, _ = fmt.Fprintf(a.out, "%s  %s\n", formatHeader(day.Format("Monday, January 2, 2006")), formatMuted(h.String()))

			slots := grid.GenerateSlots(h, a.config.Grid.Interval, grid.PaddingFor(o))
			if len(slots) == 0 {
				_, _ = fmt.Fprintln(a.out, "Closed.")
				return nil
			}

			var line strings.Builder
			for i, s := range slots {
				label := s.Label
				switch {
				case s.MinutesFromOpen < 0 || s.MinutesFromOpen >= h.Span():
					label = formatMuted(label)
				case s.NextDay:
					label += "+"
				}
				line.WriteString(label)
				if (i+1)%8 == 0 || i == len(slots)-1 {
					_, _ = fmt.Fprintln(a.out, "  "+line.String())
					line.Reset()
				} else {
					line.WriteString("  ")
				}
			}
			_, _ = fmt.Fprintf(a.out, "%s\n", formatMuted(fmt.Sprintf("%d slots of %d minutes", len(slots), a.config.Grid.Interval)))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Business day (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&orientation, "orientation", "", "horizontal or vertical (default: from config)")
	return cmd
}

// snapshotBoard loads a board for a --date flag with an optional
// orientation override.
func (a *App) snapshotBoard(ctx context.Context, date, orientation string) (*board.Board, error) {
	day, err := a.parseDate(date)
	if err != nil {
		return nil, err
	}
	o, err := a.orientation(orientation)
	if err != nil {
		return nil, err
	}
	b, err := a.loadBoard(ctx, day)
	if err != nil {
		return nil, err
	}
	b.SetOrientation(o)
	return b, nil
}

// orientation parses an --orientation flag, defaulting to the config.
func (a *App) orientation(s string) (grid.Orientation, error) {
	if s == "" {
		return a.config.GridSettings().Orientation, nil
	}
	o, ok := grid.ParseOrientation(s)
	if !ok {
		return "", fmt.Errorf("invalid orientation %q: must be horizontal or vertical", s)
	}
	return o, nil
}
