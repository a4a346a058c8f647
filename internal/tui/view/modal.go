package view

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/venuegrid/internal/booking"
)

// ModalStyles holds the styles of a modal frame.
type ModalStyles struct {
	Frame lipgloss.Style
	Title lipgloss.Style
	Label lipgloss.Style
	Text  lipgloss.Style
	Muted lipgloss.Style
}

// RenderModalFrame renders a framed modal with title, body and footer.
func RenderModalFrame(title, body, footer string, styles ModalStyles) string {
	parts := []string{styles.Title.Render(title), "", body}
	if footer != "" {
		parts = append(parts, "", styles.Muted.Render(footer))
	}
	return styles.Frame.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

// BookingDetailBody lists the fields of a booking.
func BookingDetailBody(b booking.Booking, room booking.Room, styles ModalStyles) string {
	rows := [][2]string{
		{"Customer", b.CustomerName},
		{"Room", roomLabel(room)},
		{"When", b.Start.Format("Mon 2 Jan 15:04") + " – " + b.End.Format("15:04")},
		{"Length", b.Duration().String()},
		{"Status", string(b.Status)},
	}
	if b.CustomerPhone != "" {
		rows = append(rows, [2]string{"Phone", b.CustomerPhone})
	}
	if b.CustomerEmail != "" {
		rows = append(rows, [2]string{"Email", b.CustomerEmail})
	}
	if b.Source != "" {
		rows = append(rows, [2]string{"Source", b.Source})
	}
	if b.Notes != "" {
		rows = append(rows, [2]string{"Notes", b.Notes})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, styles.Label.Render(Fit(r[0], 9))+styles.Text.Render(r[1]))
	}
	return strings.Join(lines, "\n")
}

func roomLabel(r booking.Room) string {
	if r.Name == "" {
		return r.ID
	}
	label := r.Name
	if r.Capacity > 0 {
		label += " (" + strconv.Itoa(r.Capacity) + " pax)"
	}
	return label
}
