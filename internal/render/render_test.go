package render

import (
	"bytes"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/hours"
)

var day = time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2025, 3, 14, h, m, 0, 0, time.UTC)
}

func testLayout(o grid.Orientation, h hours.BusinessHours) *grid.Layout {
	s := grid.DefaultSettings()
	s.Orientation = o
	return grid.Compute(grid.LayoutInput{
		Date:     day,
		Hours:    h,
		Settings: s,
		Viewport: grid.Viewport{Width: 1600, Height: 900},
		Rooms: []booking.Room{
			{ID: "r1", Name: "Studio A", Bookable: true, Color: "#8E24AA"},
			{ID: "r2", Name: "Studio B", Bookable: true},
			{ID: "r3", Name: "Storage"},
		},
		Bookings: []booking.Booking{
			{ID: "A", RoomID: "r1", Start: at(12, 0), End: at(14, 0), CustomerName: "Ada", Status: booking.StatusConfirmed},
			{ID: "B", RoomID: "r2", Start: at(8, 0), End: at(11, 0), CustomerName: "Bob", Status: booking.StatusPending},
			{ID: "C", RoomID: "r2", Start: at(15, 0), End: at(16, 0), CustomerName: "Cy", Status: booking.StatusCancelled},
		},
	})
}

var open = hours.BusinessHours{OpenTime: "10:00", CloseTime: "18:00"}

func TestPNG(t *testing.T) {
	for _, o := range []grid.Orientation{grid.TimeAsColumns, grid.TimeAsRows} {
		t.Run(string(o), func(t *testing.T) {
			l := testLayout(o, open)
			var buf bytes.Buffer
			if err := PNG(&buf, l, "Friday"); err != nil {
				t.Fatalf("PNG: %v", err)
			}
			img, err := png.Decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			g := l.Geometry
			if got := img.Bounds().Dx(); got < int(g.Origin.X) {
				t.Errorf("width %d smaller than the gutter", got)
			}
			if o == grid.TimeAsColumns {
				want := int(g.Origin.X + g.TimeExtent() + 0.5)
				if got := img.Bounds().Dx(); got != want {
					t.Errorf("width = %d, want %d", got, want)
				}
			} else {
				want := int(g.Origin.Y + g.TimeExtent() + 0.5)
				if got := img.Bounds().Dy(); got != want {
					t.Errorf("height = %d, want %d", got, want)
				}
			}
		})
	}
}

func TestPNGClosedDay(t *testing.T) {
	var buf bytes.Buffer
	err := PNG(&buf, testLayout(grid.TimeAsColumns, hours.Closed), "")
	if !errors.Is(err, ErrClosedDay) {
		t.Errorf("error = %v, want %v", err, ErrClosedDay)
	}
}

func TestTextHorizontal(t *testing.T) {
	out := Text(testLayout(grid.TimeAsColumns, open), TextOptions{NoColor: true})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 rooms:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "09:00") || !strings.Contains(lines[0], "12:00") {
		t.Errorf("header missing hour labels: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Studio A") || !strings.Contains(lines[1], "Ada") {
		t.Errorf("room line = %q", lines[1])
	}
	if !strings.Contains(lines[2], "‹Bob") {
		t.Errorf("clipped booking should be marked: %q", lines[2])
	}
	if strings.Contains(out, "Cy") {
		t.Error("cancelled booking should not be drawn")
	}
	if !strings.ContainsRune(lines[3], offRune) {
		t.Errorf("non-bookable room should be marked: %q", lines[3])
	}
	if !strings.ContainsRune(lines[1], padRune) {
		t.Errorf("lead-in padding should be shaded: %q", lines[1])
	}
}

func TestTextVertical(t *testing.T) {
	out := Text(testLayout(grid.TimeAsRows, open), TextOptions{NoColor: true, RoomWidth: 12})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// 10:00..18:00 every 15 minutes, inclusive of close.
	if len(lines) != 1+33 {
		t.Fatalf("got %d lines:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[1], "10:00") {
		t.Errorf("first row = %q", lines[1])
	}
	// 12:00 is the ninth slot.
	if !strings.Contains(lines[9], "Ada") {
		t.Errorf("12:00 row = %q", lines[9])
	}
	if !strings.Contains(lines[1], "‹Bob") {
		t.Errorf("clipped booking label missing: %q", lines[1])
	}
}

func TestTextClosed(t *testing.T) {
	if got := Text(testLayout(grid.TimeAsColumns, hours.Closed), TextOptions{}); got != "Closed\n" {
		t.Errorf("Text = %q", got)
	}
}

func TestParseHex(t *testing.T) {
	c, err := parseHex("#8E24AA")
	if err != nil || c.R != 0x8E || c.G != 0x24 || c.B != 0xAA {
		t.Errorf("parseHex = %v, %v", c, err)
	}
	c, err = parseHex("fff")
	if err != nil || c.R != 255 || c.B != 255 {
		t.Errorf("short form = %v, %v", c, err)
	}
	if _, err := parseHex("blue"); err == nil {
		t.Error("expected an error")
	}
}
