// Package render draws a grid layout as a PNG image or as terminal text.
package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/grid"
)

// Status colours, hex so both renderers can share them.
var statusHex = map[booking.Status]string{
	booking.StatusConfirmed: "#43A047",
	booking.StatusPending:   "#FFB300",
	booking.StatusCompleted: "#1E88E5",
	booking.StatusCancelled: "#9E9E9E",
	booking.StatusNoShow:    "#E53935",
}

const (
	hexBackground = "#F5F6F8"
	hexGridLine   = "#C8CCD0"
	hexPadding    = "#E3E5E8"
	hexClosedRoom = "#D0D3D6"
	hexText       = "#50555A"
	hexLabel      = "#14181C"
)

// bookingHex picks the fill of a booking: its room colour when set, else the
// status colour.
func bookingHex(pb grid.PlacedBooking, rooms []booking.Room) string {
	if r, ok := booking.FindRoom(rooms, pb.RoomID); ok && r.Color != "" {
		if _, err := parseHex(r.Color); err == nil {
			return r.Color
		}
	}
	if h, ok := statusHex[pb.Status]; ok {
		return h
	}
	return statusHex[booking.StatusPending]
}

// parseHex parses "#RRGGBB" or "#RGB".
func parseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	c := color.RGBA{A: 255}
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
	case 3:
		if _, err := fmt.Sscanf(s, "%1x%1x%1x", &c.R, &c.G, &c.B); err != nil {
			return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
		}
		c.R *= 17
		c.G *= 17
		c.B *= 17
	default:
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	return c, nil
}

func mustHex(s string) color.RGBA {
	c, err := parseHex(s)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return c
}

// label is the text shown inside a booking block.
func label(pb grid.PlacedBooking) string {
	name := pb.CustomerName
	if name == "" {
		name = pb.ID
	}
	prefix, suffix := "", ""
	if pb.ClippedStart {
		prefix = "‹"
	}
	if pb.ClippedEnd {
		suffix = "›"
	}
	return prefix + name + suffix
}
