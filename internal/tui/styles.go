package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/tui/theme"
	"github.com/javiermolinar/venuegrid/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg      lipgloss.Color
	colorModalBg lipgloss.Color

	TitleStyle      lipgloss.Style
	RoomLabelStyle  lipgloss.Style
	TimeLabelStyle  lipgloss.Style
	FreeCellStyle   lipgloss.Style
	PaddingStyle    lipgloss.Style
	OffCellStyle    lipgloss.Style
	CursorStyle     lipgloss.Style
	PreviewStyle    lipgloss.Style
	GrabbedStyle    lipgloss.Style
	StatusStyle     lipgloss.Style
	StatusWarnStyle lipgloss.Style
	HelpStyle       lipgloss.Style
	PromptStyle     lipgloss.Style

	Modal view.ModalStyles
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	base := lipgloss.NewStyle().Background(p.Bg).Foreground(p.Fg)

	return &Styles{
		palette:      p,
		colorBg:      p.Bg,
		colorModalBg: p.BgHighlight,

		TitleStyle:      lipgloss.NewStyle().Bold(true).Background(p.Accent).Foreground(p.TextOnAccent),
		RoomLabelStyle:  base.Bold(true),
		TimeLabelStyle:  base.Foreground(p.FgMuted),
		FreeCellStyle:   lipgloss.NewStyle().Background(p.BgHighlight).Foreground(p.FgMuted),
		PaddingStyle:    lipgloss.NewStyle().Background(p.Padding).Foreground(p.FgMuted),
		OffCellStyle:    lipgloss.NewStyle().Background(p.Unbookable).Foreground(p.FgMuted),
		CursorStyle:     lipgloss.NewStyle().Background(p.Cursor).Foreground(p.Fg).Bold(true),
		PreviewStyle:    lipgloss.NewStyle().Background(p.Preview).Foreground(p.TextOnPreview).Bold(true),
		GrabbedStyle:    lipgloss.NewStyle().Faint(true),
		StatusStyle:     base,
		StatusWarnStyle: lipgloss.NewStyle().Background(p.Warning).Foreground(p.TextOnWarning),
		HelpStyle:       base.Foreground(p.FgMuted),
		PromptStyle:     base.Foreground(p.Accent),

		Modal: view.ModalStyles{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(p.Accent).
				BorderBackground(p.BgHighlight).
				Background(p.BgHighlight).
				Padding(0, 2),
			Title: lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.BgHighlight),
			Label: lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.BgHighlight),
			Text:  lipgloss.NewStyle().Foreground(p.Fg).Background(p.BgHighlight),
			Muted: lipgloss.NewStyle().Foreground(p.FgMuted).Background(p.BgHighlight),
		},
	}
}

// BookingStyle returns the block style of a booking.
func (s *Styles) BookingStyle(status booking.Status, roomHex string) lipgloss.Style {
	bg, fg := s.palette.Block(status, roomHex)
	return lipgloss.NewStyle().Background(bg).Foreground(fg)
}
