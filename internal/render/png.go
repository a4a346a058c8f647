package render

import (
	"errors"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/javiermolinar/venuegrid/internal/grid"
)

// ErrClosedDay is returned when there is no grid to draw.
var ErrClosedDay = errors.New("venue is closed on this day")

const (
	cellInset    = 2.0
	cornerRadius = 4.0
	labelPadding = 4.0
)

// PNG draws l at its pixel geometry and writes the image to w.
func PNG(w io.Writer, l *grid.Layout, title string) error {
	if l.Closed() {
		return ErrClosedDay
	}
	dc := canvas(l)
	dc.SetFontFace(basicfont.Face7x13)

	drawCells(dc, l)
	drawHeaders(dc, l, title)
	drawBookings(dc, l)

	return dc.EncodePNG(w)
}

// canvas sizes the image to the grid extent, not the viewport.
func canvas(l *grid.Layout) *gg.Context {
	g := l.Geometry
	width, height := g.Origin.X+g.TimeExtent(), g.Origin.Y+g.RoomExtent()
	if g.Orientation == grid.TimeAsRows {
		width, height = g.Origin.X+g.RoomExtent(), g.Origin.Y+g.TimeExtent()
	}
	dc := gg.NewContext(int(width+0.5), int(height+0.5))
	dc.SetColor(mustHex(hexBackground))
	dc.Clear()
	return dc
}

func drawCells(dc *gg.Context, l *grid.Layout) {
	dc.SetLineWidth(0.5)
	for ri, room := range l.Rooms {
		for si, slot := range l.Slots {
			r := l.Mapper.CellRect(ri, si)
			switch {
			case l.IsPadding(slot):
				dc.SetColor(mustHex(hexPadding))
				dc.DrawRectangle(r.X, r.Y, r.W, r.H)
				dc.Fill()
			case !room.Bookable:
				dc.SetColor(mustHex(hexClosedRoom))
				dc.DrawRectangle(r.X, r.Y, r.W, r.H)
				dc.Fill()
			}
			dc.SetColor(mustHex(hexGridLine))
			dc.DrawRectangle(r.X, r.Y, r.W, r.H)
			dc.Stroke()
		}
	}
}

func drawHeaders(dc *gg.Context, l *grid.Layout, title string) {
	g := l.Geometry
	dc.SetColor(mustHex(hexText))

	if title != "" {
		dc.DrawStringAnchored(title, labelPadding, labelPadding, 0, 1)
	}

	perLabel := labelEvery(l)
	for si, slot := range l.Slots {
		if si%perLabel != 0 {
			continue
		}
		r := l.Mapper.CellRect(0, si)
		if g.Orientation == grid.TimeAsColumns {
			dc.DrawStringAnchored(slot.Label, r.X, g.Origin.Y-labelPadding, 0, 0)
		} else {
			dc.DrawStringAnchored(slot.Label, g.Origin.X-labelPadding, r.Y, 1, 1)
		}
	}

	for ri, room := range l.Rooms {
		r := l.Mapper.CellRect(ri, 0)
		if g.Orientation == grid.TimeAsColumns {
			name := fit(dc, room.Name, g.Origin.X-2*labelPadding)
			dc.DrawStringAnchored(name, labelPadding, r.Y+r.H/2, 0, 0.5)
		} else {
			name := fit(dc, room.Name, r.W-2*labelPadding)
			dc.DrawStringAnchored(name, r.X+r.W/2, g.Origin.Y/2, 0.5, 0.5)
		}
	}
}

func drawBookings(dc *gg.Context, l *grid.Layout) {
	for _, pb := range l.Placement.All() {
		r := l.Mapper.BookingRect(pb)
		x, y := r.X+cellInset, r.Y+cellInset
		w, h := r.W-2*cellInset, r.H-2*cellInset
		if w <= 0 || h <= 0 {
			continue
		}

		dc.SetColor(mustHex(bookingHex(pb, l.Rooms)))
		dc.DrawRoundedRectangle(x, y, w, h, cornerRadius)
		dc.Fill()

		dc.SetColor(mustHex(hexLabel))
		text := fit(dc, label(pb), w-2*labelPadding)
		dc.DrawStringAnchored(text, x+labelPadding, y+h/2, 0, 0.5)
	}
}

// labelEvery returns how many slots share one time label so labels never
// overlap.
func labelEvery(l *grid.Layout) int {
	const minGap = 44.0
	n := 1
	for float64(n)*l.Geometry.SlotPx < minGap && n < len(l.Slots) {
		n++
	}
	return n
}

// fit shortens s until it is no wider than width.
func fit(dc *gg.Context, s string, width float64) string {
	runes := []rune(s)
	for len(runes) > 0 {
		if w, _ := dc.MeasureString(string(runes)); w <= width {
			return string(runes)
		}
		runes = runes[:len(runes)-1]
	}
	return ""
}
