// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Free cells, subtle highlight
	BgSelection string `toml:"bg_selection"` // Cursor
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Padding, grid lines
	Accent      string `toml:"accent"`       // Title, headers
	Warning     string `toml:"warning"`      // Errors, rollbacks

	// Booking status colors
	Confirmed string `toml:"confirmed"`
	Pending   string `toml:"pending"`
	Completed string `toml:"completed"`
	Cancelled string `toml:"cancelled"`
	NoShow    string `toml:"no_show"`

	// Gesture preview; falls back to Accent
	Preview string `toml:"preview"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "mocha"
	}
	name = strings.ToLower(name)

	path := "embedded/" + name + ".toml"
	data, err := embeddedThemes.ReadFile(path)
	if err != nil {
		// Fallback to mocha
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

// Status returns the theme color of a booking status.
func (t *Theme) Status(s booking.Status) string {
	switch s {
	case booking.StatusConfirmed:
		return t.Confirmed
	case booking.StatusCompleted:
		return t.Completed
	case booking.StatusCancelled:
		return t.Cancelled
	case booking.StatusNoShow:
		return t.NoShow
	default:
		return t.Pending
	}
}

func (t *Theme) applyDefaults() {
	t.Preview = coalesce(t.Preview, t.Accent)
	t.Confirmed = coalesce(t.Confirmed, t.Accent)
	t.Pending = coalesce(t.Pending, t.Warning, t.Accent)
	t.Completed = coalesce(t.Completed, t.FgMuted)
	t.Cancelled = coalesce(t.Cancelled, t.FgMuted)
	t.NoShow = coalesce(t.NoShow, t.Warning)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
