package render

import (
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/venuegrid/internal/grid"
)

// TextOptions configure the text renderer.
type TextOptions struct {
	// SlotWidth is the number of columns per slot when time runs across.
	SlotWidth int
	// RoomWidth is the number of columns per room when time runs down.
	RoomWidth int
	// NoColor renders plain ASCII.
	NoColor bool
	// Output is the terminal whose colour profile is detected. Ignored when
	// NoColor is set.
	Output io.Writer
}

const (
	defaultSlotWidth = 2
	defaultRoomWidth = 16
	labelWidth       = 14
	gutterWidth      = 6

	padRune  = '░'
	freeRune = '·'
	offRune  = '╳'
)

// Text renders l as a character grid. Cells are characters, not pixels, so
// the output does not depend on the layout viewport.
func Text(l *grid.Layout, opts TextOptions) string {
	if opts.SlotWidth <= 0 {
		opts.SlotWidth = defaultSlotWidth
	}
	if opts.RoomWidth <= 0 {
		opts.RoomWidth = defaultRoomWidth
	}
	if l.Closed() {
		return "Closed\n"
	}

	t := newTextRenderer(opts)
	if l.Geometry.Orientation == grid.TimeAsRows {
		return t.vertical(l)
	}
	return t.horizontal(l)
}

type textRenderer struct {
	opts   TextOptions
	lg     *lipgloss.Renderer
	header lipgloss.Style
	muted  lipgloss.Style
}

func newTextRenderer(opts TextOptions) *textRenderer {
	var lg *lipgloss.Renderer
	if opts.NoColor || opts.Output == nil {
		lg = lipgloss.NewRenderer(io.Discard)
		lg.SetColorProfile(termenv.Ascii)
	} else {
		lg = lipgloss.NewRenderer(opts.Output)
	}
	return &textRenderer{
		opts:   opts,
		lg:     lg,
		header: lg.NewStyle().Bold(true).Foreground(lipgloss.Color(hexText)),
		muted:  lg.NewStyle().Foreground(lipgloss.Color(hexGridLine)),
	}
}

// cell is one character of a room track.
type cell struct {
	r  rune
	fg string // booking colour, empty for background
}

// track lays out one room along the time axis, width characters per slot.
func (t *textRenderer) track(l *grid.Layout, roomIndex, width int) []cell {
	room := l.Rooms[roomIndex]
	cells := make([]cell, len(l.Slots)*width)
	for si, slot := range l.Slots {
		r := freeRune
		switch {
		case l.IsPadding(slot):
			r = padRune
		case !room.Bookable:
			r = offRune
		}
		for k := 0; k < width; k++ {
			cells[si*width+k] = cell{r: r}
		}
	}

	for _, pb := range l.Placement.ByRoom[room.ID] {
		from := int(math.Round(pb.OffsetSlots * float64(width)))
		to := int(math.Round((pb.OffsetSlots + pb.ExtentSlots) * float64(width)))
		to = min(max(to, from+1), len(cells))
		hex := bookingHex(pb, l.Rooms)
		text := []rune(ansi.Truncate(label(pb), to-from, ""))
		for i := from; i < to; i++ {
			r := '█'
			if k := i - from; k < len(text) {
				r = text[k]
			}
			cells[i] = cell{r: r, fg: hex}
		}
	}
	return cells
}

// paint renders a run of cells, grouping equal colours into one style call.
func (t *textRenderer) paint(cells []cell) string {
	var b strings.Builder
	for i := 0; i < len(cells); {
		j := i
		var run strings.Builder
		for j < len(cells) && cells[j].fg == cells[i].fg {
			run.WriteRune(cells[j].r)
			j++
		}
		if cells[i].fg == "" {
			b.WriteString(t.muted.Render(run.String()))
		} else {
			b.WriteString(t.lg.NewStyle().
				Foreground(lipgloss.Color(hexLabel)).
				Background(lipgloss.Color(cells[i].fg)).
				Render(run.String()))
		}
		i = j
	}
	return b.String()
}

func (t *textRenderer) horizontal(l *grid.Layout) string {
	w := t.opts.SlotWidth
	var b strings.Builder

	// Time header: a label at every full hour that has room for it.
	head := []rune(strings.Repeat(" ", len(l.Slots)*w))
	for si, slot := range l.Slots {
		if !strings.HasSuffix(slot.Label, ":00") {
			continue
		}
		pos := si * w
		if pos+len(slot.Label) > len(head) {
			break
		}
		if pos > 0 && head[pos-1] != ' ' {
			continue
		}
		copy(head[pos:], []rune(slot.Label))
	}
	b.WriteString(strings.Repeat(" ", labelWidth+1))
	b.WriteString(t.header.Render(strings.TrimRight(string(head), " ")))
	b.WriteByte('\n')

	for ri, room := range l.Rooms {
		b.WriteString(t.header.Render(pad(room.Name, labelWidth)))
		b.WriteByte(' ')
		b.WriteString(t.paint(t.track(l, ri, w)))
		b.WriteByte('\n')
	}
	return b.String()
}

func (t *textRenderer) vertical(l *grid.Layout) string {
	w := t.opts.RoomWidth
	tracks := make([][]cell, len(l.Rooms))
	for ri := range l.Rooms {
		tracks[ri] = t.track(l, ri, 1)
	}

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", gutterWidth))
	for _, room := range l.Rooms {
		b.WriteString(t.header.Render(pad(room.Name, w)))
	}
	b.WriteByte('\n')

	for si, slot := range l.Slots {
		b.WriteString(t.header.Render(pad(slot.Label, gutterWidth)))
		for ri := range l.Rooms {
			b.WriteString(t.verticalCell(l, ri, si, tracks[ri][si], w))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// verticalCell fills one room column for slot si. A booking shows its label
// in its first visible slot and a bar below it.
func (t *textRenderer) verticalCell(l *grid.Layout, ri, si int, c cell, w int) string {
	if c.fg == "" {
		return t.muted.Render(strings.Repeat(string(c.r), w-1) + " ")
	}
	text := strings.Repeat("█", w-1)
	for _, pb := range l.Placement.ByRoom[l.Rooms[ri].ID] {
		if int(math.Floor(pb.OffsetSlots)) == si {
			text = pad(label(pb), w-1)
			break
		}
	}
	return t.lg.NewStyle().
		Foreground(lipgloss.Color(hexLabel)).
		Background(lipgloss.Color(c.fg)).
		Render(text) + " "
}

// pad truncates or right-pads s to exactly width display columns.
func pad(s string, width int) string {
	s = ansi.Truncate(s, width, "…")
	if n := ansi.StringWidth(s); n < width {
		s += strings.Repeat(" ", width-n)
	}
	return s
}
