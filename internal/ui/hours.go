package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

func (a *App) hoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Show or change business hours",
		Long: `Show the weekly business hours and the per-date overrides.

A close time earlier than the open time means the venue closes after
midnight. Hours saved here are stored in the database and take precedence
over the [hours] section of the config file.`,
		Example: `  venuegrid hours
  venuegrid hours set friday 18:00 03:00
  venuegrid hours set all 10:00 22:00
  venuegrid hours set monday closed
  venuegrid hours override 2025-12-24 10:00 16:00
  venuegrid hours clear 2025-12-24`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.showHours()
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set (<weekday> | all) (<open> <close> | closed)",
		Short: "Set the hours of a weekday",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := a.requireStore()
			if err != nil {
				return err
			}
			h, err := parseHours(args[1:])
			if err != nil {
				return err
			}

			ctx := context.Background()
			if strings.EqualFold(args[0], "all") {
				if err := store.SaveWeek(ctx, hours.Uniform(h)); err != nil {
					return err
				}
				a.log.Info().Str("hours", h.String()).Msg("weekly hours saved for every day")
				_, _ = fmt.Fprintf(a.out, "Every day: %s\n", h)
				return nil
			}

			wd, err := parseWeekday(args[0])
			if err != nil {
				return err
			}
			w, err := a.resolver(ctx)
			if err != nil {
				return err
			}
			var week [7]hours.BusinessHours
			for i := range week {
				week[i] = w.ForWeekday(i)
			}
			week[wd] = h
			if err := store.SaveWeek(ctx, week); err != nil {
				return err
			}
			a.log.Info().Str("weekday", wd.String()).Str("hours", h.String()).Msg("weekly hours saved")
			_, _ = fmt.Fprintf(a.out, "%s: %s\n", wd, h)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "override <date> (<open> <close> | closed)",
		Short: "Set the hours of a single date",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := a.requireStore()
			if err != nil {
				return err
			}
			day, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			h, err := parseHours(args[1:])
			if err != nil {
				return err
			}
			date := day.Format(dateutil.DateLayout)
			if err := store.SetOverride(context.Background(), hours.Override{Date: date, Hours: h}); err != nil {
				return err
			}
			a.log.Info().Str("date", date).Str("hours", h.String()).Msg("override saved")
			_, _ = fmt.Fprintf(a.out, "%s: %s\n", date, h)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear <date>",
		Short: "Remove the override of a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := a.requireStore()
			if err != nil {
				return err
			}
			day, err := a.parseDate(args[0])
			if err != nil {
				return err
			}
			date := day.Format(dateutil.DateLayout)
			if err := store.DeleteOverride(context.Background(), date); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.out, "Cleared override for %s\n", date)
			return nil
		},
	})

	return cmd
}

func (a *App) showHours() error {
	if err := a.ensureRepo(); err != nil {
		return err
	}
	w, err := a.resolver(context.Background())
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(a.out, formatHeader("Weekly hours"))
	for i := range 7 {
		wd := time.Weekday((i + 1) % 7) // Monday first
		h := w.ForWeekday(int(wd))
		note := ""
		if h.IsLateNight() {
			note = formatMuted(" (closes after midnight)")
		}
		_, _ = fmt.Fprintf(a.out, "  %-10s %s%s\n", wd, h, note)
	}

	if overrides := w.Overrides(); len(overrides) > 0 {
		_, _ = fmt.Fprintf(a.out, "\n%s\n", formatHeader("Overrides"))
		for _, o := range overrides {
			_, _ = fmt.Fprintf(a.out, "  %-10s %s\n", o.Date, o.Hours)
		}
	}
	return nil
}

func parseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		name := strings.ToLower(wd.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return wd, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// parseHours accepts either "closed" or an open and a close clock.
func parseHours(args []string) (hours.BusinessHours, error) {
	if len(args) == 1 {
		if strings.EqualFold(args[0], "closed") {
			return hours.Closed, nil
		}
		return hours.BusinessHours{}, fmt.Errorf("expected <open> <close> or closed")
	}
	h := hours.BusinessHours{OpenTime: args[0], CloseTime: args[1]}
	if err := h.Validate(); err != nil {
		return hours.BusinessHours{}, err
	}
	if h.Span() <= 0 {
		return hours.BusinessHours{}, fmt.Errorf("open and close must differ")
	}
	return h, nil
}
