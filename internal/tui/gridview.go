package tui

import (
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/venuegrid/internal/gesture"
	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/tui/view"
)

const (
	roomLabelWidth = 14 // rooms as rows
	slotCellWidth  = 2  // rooms as rows
	timeGutter     = 6  // rooms as columns
	minColumnWidth = 6
	maxColumnWidth = 18
)

const (
	fillFree    = "·"
	fillPadding = "░"
	fillOff     = "╳"
)

// cell is one slot of one room as drawn in the terminal. Cells of the same
// booking form a run; the run's label is spread across its cells.
type cell struct {
	style lipgloss.Style
	fill  string
	label string
	pos   int // index within the run
}

// tracks builds the cells of every room.
func (m Model) tracks(l *grid.Layout) [][]cell {
	s := m.styles
	gestures := m.board.Gestures()
	subject, grabbed := gestures.Subject()

	out := make([][]cell, len(l.Rooms))
	for r, room := range l.Rooms {
		track := make([]cell, len(l.Slots))
		for i, slot := range l.Slots {
			switch {
			case l.IsPadding(slot):
				track[i] = cell{style: s.PaddingStyle, fill: fillPadding}
			case !room.Bookable:
				track[i] = cell{style: s.OffCellStyle, fill: fillOff}
			default:
				track[i] = cell{style: s.FreeCellStyle, fill: fillFree}
			}
		}

		for _, pb := range l.Placement.ByRoom[room.ID] {
			style := s.BookingStyle(pb.Status, room.Color)
			if grabbed && pb.ID == subject.ID {
				style = style.Inherit(s.GrabbedStyle)
			}
			paint(track, firstSlot(pb, len(track)), lastSlot(pb, len(track)), style, pb.CustomerName)
		}
		out[r] = track
	}

	// The preview sits in the room under the pointer while dragging and in
	// the booking's own room while resizing.
	if pv, ok := gestures.Preview(); ok {
		room := m.cursor.Room
		if gestures.State() == gesture.Resizing {
			if pb, found := l.Placement.Find(pv.BookingID); found {
				room = pb.RoomIndex
			}
		}
		if room >= 0 && room < len(out) {
			interval := float64(l.Geometry.Interval)
			from := int(math.Floor(l.Placement.MinutesFrom(pv.Start) / interval))
			to := int(math.Ceil(l.Placement.MinutesFrom(pv.End)/interval)) - 1
			paint(out[room], from, to, s.PreviewStyle, pv.Start.Format("15:04"))
		}
	}
	return out
}

// paint lays a run over track[from..to], clipped to the track.
func paint(track []cell, from, to int, style lipgloss.Style, label string) {
	from = max(from, 0)
	to = min(to, len(track)-1)
	for i := from; i <= to; i++ {
		track[i] = cell{style: style, fill: " ", label: label, pos: i - from}
	}
}

func (m Model) renderBody() string {
	l := m.layout()
	switch {
	case m.loading && len(l.Rooms) == 0:
		return ""
	case len(l.Rooms) == 0:
		return m.styles.StatusStyle.Render(" No rooms yet. Add one with: venuegrid rooms add <name>")
	case l.Closed():
		return m.styles.StatusStyle.Render(" Closed on " + l.Date.Format("Monday 2 January") + ".")
	}

	tracks := m.tracks(l)
	from, to := m.scroll, min(m.scroll+m.visibleSlots(l), len(l.Slots))
	if l.Geometry.Orientation == grid.TimeAsRows {
		return m.renderColumns(l, tracks, from, to)
	}
	return m.renderRows(l, tracks, from, to)
}

// renderRows draws rooms as rows with time running left to right.
func (m Model) renderRows(l *grid.Layout, tracks [][]cell, from, to int) string {
	s := m.styles
	lines := make([]string, 0, len(l.Rooms)+1)

	ruler := []rune(strings.Repeat(" ", (to-from)*slotCellWidth))
	for i := from; i < to; i++ {
		t := l.SlotTime(i)
		if t.Minute() != 0 {
			continue
		}
		at := (i - from) * slotCellWidth
		for k, r := range []rune(t.Format("15:04")) {
			if at+k < len(ruler) {
				ruler[at+k] = r
			}
		}
	}
	lines = append(lines, s.TimeLabelStyle.Render(strings.Repeat(" ", roomLabelWidth)+string(ruler)))

	for r, room := range l.Rooms {
		var b strings.Builder
		b.WriteString(s.RoomLabelStyle.Render(view.Fit(" "+room.Name, roomLabelWidth)))
		for i := from; i < to; i++ {
			c := tracks[r][i]
			b.WriteString(m.cellStyle(c, r, i).Render(cellText(c, slotCellWidth)))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

// renderColumns draws rooms as columns with time running top to bottom.
func (m Model) renderColumns(l *grid.Layout, tracks [][]cell, from, to int) string {
	s := m.styles
	width := m.columnWidth(len(l.Rooms))
	lines := make([]string, 0, to-from+1)

	var head strings.Builder
	head.WriteString(strings.Repeat(" ", timeGutter))
	for _, room := range l.Rooms {
		head.WriteString(s.RoomLabelStyle.Render(view.Fit(room.Name, width)))
	}
	lines = append(lines, head.String())

	for i := from; i < to; i++ {
		var b strings.Builder
		gutter := ""
		if t := l.SlotTime(i); t.Minute() == 0 {
			gutter = t.Format("15:04")
		}
		b.WriteString(s.TimeLabelStyle.Render(view.Fit(gutter, timeGutter)))
		for r := range l.Rooms {
			c := tracks[r][i]
			text := strings.Repeat(c.fill, width)
			if c.label != "" {
				text = ""
				if c.pos == 0 {
					text = c.label
				}
				text = view.Fit(text, width)
			}
			b.WriteString(m.cellStyle(c, r, i).Render(text))
		}
		lines = append(lines, b.String())
	}
	return strings.Join(lines, "\n")
}

func (m Model) cellStyle(c cell, room, slot int) lipgloss.Style {
	if room == m.cursor.Room && slot == m.cursor.Slot {
		return m.styles.CursorStyle
	}
	return c.style
}

// cellText returns the width columns of c. Run labels continue from one
// cell to the next.
func cellText(c cell, width int) string {
	if c.label == "" {
		return strings.Repeat(c.fill, width)
	}
	runes := []rune(c.label)
	from := c.pos * width
	if from >= len(runes) {
		return strings.Repeat(" ", width)
	}
	chunk := runes[from:min(from+width, len(runes))]
	return string(chunk) + strings.Repeat(" ", width-len(chunk))
}

// visibleSlots is how many slots fit on screen along the time axis. Before
// the first window size arrives every slot counts as visible.
func (m Model) visibleSlots(l *grid.Layout) int {
	n := len(l.Slots)
	if m.width == 0 || m.height == 0 {
		return n
	}
	if l.Geometry.Orientation == grid.TimeAsRows {
		return clamp(m.bodyHeight()-1, 1, max(n, 1))
	}
	return clamp((m.width-roomLabelWidth)/slotCellWidth, 1, max(n, 1))
}

func (m Model) columnWidth(rooms int) int {
	if m.width == 0 || rooms == 0 {
		return maxColumnWidth
	}
	return clamp((m.width-timeGutter)/rooms, minColumnWidth, maxColumnWidth)
}

// firstSlot is the slot holding the visible start of pb.
func firstSlot(pb grid.PlacedBooking, slots int) int {
	return clamp(int(math.Floor(pb.OffsetSlots)), 0, max(slots-1, 0))
}

// lastSlot is the slot holding the visible end of pb.
func lastSlot(pb grid.PlacedBooking, slots int) int {
	return clamp(int(math.Ceil(pb.OffsetSlots+pb.ExtentSlots))-1, 0, max(slots-1, 0))
}

// slotAt is the slot containing t, clamped to the grid.
func slotAt(l *grid.Layout, t time.Time) int {
	minutes := l.Placement.MinutesFrom(t)
	return clamp(int(math.Floor(minutes/float64(l.Geometry.Interval))), 0, max(len(l.Slots)-1, 0))
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
