package view

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

// HeaderViewState holds what the title bar shows.
type HeaderViewState struct {
	Width       int
	Date        time.Time
	Today       time.Time
	Hours       hours.BusinessHours
	Orientation grid.Orientation
	Interval    int
	Loading     bool
	Style       lipgloss.Style
}

// HeaderTitle builds the left part of the title bar.
func HeaderTitle(date, today time.Time, h hours.BusinessHours) string {
	title := date.Format("Mon 2 Jan 2006")
	if sameDay(date, today) {
		title += " (today)"
	}
	return title + " · " + h.String()
}

// RenderHeader renders the title bar.
func RenderHeader(state HeaderViewState) string {
	left := " venuegrid  " + HeaderTitle(state.Date, state.Today, state.Hours)
	right := string(state.Orientation) + " · " + FormatInterval(state.Interval) + " "
	if state.Loading {
		right = "loading… " + right
	}
	gap := max(state.Width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return state.Style.Render(Fit(left+strings.Repeat(" ", gap)+right, state.Width))
}

// FormatInterval formats a slot interval ("15m", "1h").
func FormatInterval(minutes int) string {
	switch {
	case minutes < 60:
		return strconv.Itoa(minutes) + "m"
	case minutes%60 == 0:
		return strconv.Itoa(minutes/60) + "h"
	default:
		return strconv.Itoa(minutes/60) + "h" + strconv.Itoa(minutes%60) + "m"
	}
}

func sameDay(a, b time.Time) bool {
	ya, ma, da := a.Date()
	yb, mb, db := b.Date()
	return ya == yb && ma == mb && da == db
}
