package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

func darkTheme() *Theme {
	t := &Theme{
		Bg:          "#101010",
		BgHighlight: "#202020",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		FgMuted:     "#aaaaaa",
		Accent:      "#ff0000",
		Warning:     "#888888",
		Confirmed:   "#00ff00",
		Pending:     "#ffff00",
	}
	t.applyDefaults()
	return t
}

func TestNewPalette_StatusBlocks(t *testing.T) {
	base := darkTheme()
	palette := NewPalette(base)

	bg, _ := palette.Block(booking.StatusConfirmed, "")
	if bg != lipgloss.Color(darkenColor(base.Confirmed)) {
		t.Fatalf("confirmed bg = %q, want %q", bg, darkenColor(base.Confirmed))
	}
	bg, _ = palette.Block(booking.StatusPending, "")
	if bg != lipgloss.Color(darkenColor(base.Pending)) {
		t.Fatalf("pending bg = %q, want %q", bg, darkenColor(base.Pending))
	}
	unknown, _ := palette.Block("mystery", "")
	if unknown != bg {
		t.Fatalf("unknown status bg = %q, want pending %q", unknown, bg)
	}
}

func TestNewPalette_RoomColorWins(t *testing.T) {
	palette := NewPalette(darkTheme())

	bg, _ := palette.Block(booking.StatusConfirmed, "#3366cc")
	if bg != lipgloss.Color(darkenColor("#3366cc")) {
		t.Fatalf("room bg = %q, want %q", bg, darkenColor("#3366cc"))
	}
	// Malformed room colors fall back to the status color.
	bg, _ = palette.Block(booking.StatusConfirmed, "blue")
	want, _ := palette.Block(booking.StatusConfirmed, "")
	if bg != want {
		t.Fatalf("bg = %q, want status color %q", bg, want)
	}
}

func TestNewPalette_LightThemeBlendsTowardBackground(t *testing.T) {
	base := &Theme{
		Bg:          "#f5f5f5",
		BgHighlight: "#eeeeee",
		BgSelection: "#e0e0e0",
		Fg:          "#222222",
		FgMuted:     "#555555",
		Accent:      "#2f6feb",
		Warning:     "#c2410c",
		Confirmed:   "#1d8a8a",
	}
	base.applyDefaults()

	palette := NewPalette(base)
	bg, fg := palette.Block(booking.StatusConfirmed, "")
	if relativeLuminance(string(bg)) <= relativeLuminance(base.Confirmed) {
		t.Fatalf("confirmed bg luminance = %f, want greater than %f",
			relativeLuminance(string(bg)), relativeLuminance(base.Confirmed))
	}
	if fg != lipgloss.Color(base.Fg) {
		t.Fatalf("text on light block = %q, want dark foreground %q", fg, base.Fg)
	}
}

func TestNewPalette_NilUsesMocha(t *testing.T) {
	palette := NewPalette(nil)
	mocha, err := Load("mocha")
	if err != nil {
		t.Fatalf("Load(mocha): %v", err)
	}
	if palette.Bg != lipgloss.Color(mocha.Bg) {
		t.Fatalf("Bg = %q, want %q", palette.Bg, mocha.Bg)
	}
}

func TestChooseTextColorPrefersContrast(t *testing.T) {
	bg := "#f0f0f0"
	lightText := "#ffffff"
	darkText := "#111111"

	if got := chooseTextColor(bg, lightText, darkText); got != darkText {
		t.Fatalf("chooseTextColor(%q, %q, %q) = %q, want %q", bg, lightText, darkText, got, darkText)
	}
}

func TestBlendColors(t *testing.T) {
	if got := blendColors("#000000", "#ffffff", 0.5); got != "#7f7f7f" {
		t.Fatalf("blendColors = %q, want #7f7f7f", got)
	}
	if got := blendColors("bad", "#ffffff", 0.5); got != "bad" {
		t.Fatalf("blendColors with bad input = %q, want passthrough", got)
	}
}
