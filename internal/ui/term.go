package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// Color definitions for consistent styling across the UI.
var (
	// Confirmed bookings: bold green, the normal case
	colorConfirmed = color.New(color.FgGreen, color.Bold)

	// Pending bookings: yellow so they stand out for follow-up
	colorPending = color.New(color.FgYellow)

	// Finished or dropped bookings: dim
	colorInactive = color.New(color.FgWhite, color.Faint)

	// No-shows: red
	colorNoShow = color.New(color.FgRed)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Stats: cyan for metrics
	colorStats = color.New(color.FgCyan)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termSize returns the terminal size, or 80x24 if detection fails.
func termSize() (width, height int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		return 80, 24
	}
	return width, height
}

// isTerminal reports whether stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatStatus colors a status name.
func formatStatus(s booking.Status) string {
	switch s {
	case booking.StatusConfirmed:
		return colorConfirmed.Sprint(s)
	case booking.StatusPending:
		return colorPending.Sprint(s)
	case booking.StatusNoShow:
		return colorNoShow.Sprint(s)
	default:
		return colorInactive.Sprint(s)
	}
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatStats formats text for statistics.
func formatStats(s string) string {
	return colorStats.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
