package view

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	Width       int
	StatusLine  string
	StatusStyle lipgloss.Style
	Pending     int
	PromptLine  string
	HelpLine    string
	HelpStyle   lipgloss.Style
}

// RenderFooter renders the prompt, status and help lines.
func RenderFooter(state FooterViewState) string {
	status := state.StatusLine
	if state.Pending > 0 {
		status = "saving " + strconv.Itoa(state.Pending) + "… " + status
	}

	var lines []string
	if state.PromptLine != "" {
		lines = append(lines, Fit(state.PromptLine, state.Width))
	}
	lines = append(lines, state.StatusStyle.Render(Fit(status, state.Width)))
	if state.HelpLine != "" {
		lines = append(lines, state.HelpStyle.Render(Fit(state.HelpLine, state.Width)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
