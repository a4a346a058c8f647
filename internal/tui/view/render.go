// Package view provides view composition helpers for the TUI.
package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ViewState contains pre-rendered sections and modal metadata.
type ViewState struct {
	Width            int
	Height           int
	Header           string
	Body             string
	Footer           string
	ModalContent     string
	ShowModal        bool
	Bg               lipgloss.Color
	ModalBg          lipgloss.Color
	EmptyPlaceholder string
}

// Render composes the final view output. The body is clipped so the header
// and footer always stay on screen.
func Render(state ViewState) string {
	if state.Width == 0 || state.Height == 0 {
		if state.EmptyPlaceholder != "" {
			return state.EmptyPlaceholder
		}
		return "Loading..."
	}

	headerH := lineCount(state.Header)
	footerH := lineCount(state.Footer)
	bodyH := max(state.Height-headerH-footerH, 0)

	parts := make([]string, 0, 3)
	if state.Header != "" {
		parts = append(parts, state.Header)
	}
	parts = append(parts, PlaceBox(state.Width, bodyH, lipgloss.Top, clipLines(state.Body, bodyH), state.Bg))
	if state.Footer != "" {
		parts = append(parts, state.Footer)
	}
	base := PadLinesWithBackground(strings.Join(parts, "\n"), state.Width, state.Height, state.Bg)

	if state.ShowModal && state.ModalContent != "" {
		return RenderModalOverlay(base, state.ModalContent, state.Width, state.Height, state.ModalBg)
	}
	return base
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

func clipLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}
