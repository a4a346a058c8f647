package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/dateutil"
	"github.com/javiermolinar/venuegrid/internal/gesture"
	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/schedule"
	"github.com/javiermolinar/venuegrid/internal/tui/commands"
	"github.com/javiermolinar/venuegrid/internal/tui/input"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.prompt.Width = max(msg.Width-len(m.prompt.Prompt)-1, 10)
		m.ensureCursorVisible()
		return m, nil

	case commands.LoadedMsg:
		if !msg.Date.Equal(m.board.Date()) {
			return m, nil // a newer day was selected meanwhile
		}
		m.board.Load(msg.Rooms, msg.Bookings)
		m.loading = false
		if !m.placed {
			m.placeCursor()
			m.placed = true
		}
		m.clampCursor()
		return m, nil

	case commands.SettledMsg:
		kind := msg.Result.Ticket.Command().Kind()
		if err := m.board.Cache().Settle(msg.Result); err != nil {
			m.log.Info().Err(err).Str("kind", kind).Msg("change rolled back")
			return m, m.warn(booking.UserMessage(err))
		}
		return m, m.setStatus(fmt.Sprintf("Saved %s.", kind))

	case commands.UndoneMsg:
		if msg.Err != nil {
			if errors.Is(msg.Err, schedule.ErrNothingToUndo) {
				return m, m.setStatus("Nothing to undo.")
			}
			return m, m.warn(booking.UserMessage(msg.Err))
		}
		return m, m.setStatus("Undone.")

	case commands.ErrMsg:
		m.loading = false
		m.log.Warn().Err(msg.Err).Msg("load failed")
		return m, m.warn(booking.UserMessage(msg.Err))

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		m.statusMsg = ""
		m.statusWarn = false
		return m, nil
	}
	return m, nil
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	default:
		return m.handleBoardKeys(msg)
	}
}

// handleBoardKeys handles keys on the grid.
func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	gestures := m.board.Gestures()
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	// Pointer movement. Which keys move along time depends on orientation.
	case key.Matches(msg, k.Up):
		m.movePointer(0, -1)
	case key.Matches(msg, k.Down):
		m.movePointer(0, 1)
	case key.Matches(msg, k.Left):
		m.movePointer(-1, 0)
	case key.Matches(msg, k.Right):
		m.movePointer(1, 0)

	// Gestures
	case key.Matches(msg, k.Grab):
		if gestures.Active() {
			return m.drop()
		}
		return m.grab()
	case key.Matches(msg, k.GrabStart):
		return m.grabEdge(gesture.EdgeStart)
	case key.Matches(msg, k.GrabEnd):
		return m.grabEdge(gesture.EdgeEnd)
	case key.Matches(msg, k.Cancel):
		if gestures.Cancel() {
			return m, m.setStatus("Cancelled.")
		}

	// Booking actions
	case key.Matches(msg, k.Details):
		if pb, ok := m.bookingUnderCursor(); ok {
			m.openDetails(pb.Booking)
		}
	case key.Matches(msg, k.Delete):
		return m.deleteUnderCursor()
	case key.Matches(msg, k.Undo):
		if gestures.Active() {
			return m, nil
		}
		return m, commands.Undo(m.board.Cache(), m.timeout)

	// View
	case key.Matches(msg, k.Rotate):
		m.toggleOrientation()
	case key.Matches(msg, k.NextDay):
		return m.changeDay(m.board.Date().AddDate(0, 0, 1))
	case key.Matches(msg, k.PrevDay):
		return m.changeDay(m.board.Date().AddDate(0, 0, -1))
	case key.Matches(msg, k.Jump):
		m.mode = ModePrompt
		m.prompt.SetValue("")
		return m, m.prompt.Focus()
	case key.Matches(msg, k.Refresh):
		m.loading = true
		return m, m.load()
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ensureCursorVisible()
	}
	return m, nil
}

// handlePromptKeys handles the go-to-date prompt.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeBoard
		m.prompt.Blur()
		return m, nil
	case "tab":
		if v, ok := input.PromptAutocomplete(m.prompt.Value(), input.JumpSuggestions); ok {
			m.prompt.SetValue(v)
			m.prompt.CursorEnd()
		}
		return m, nil
	case "enter":
		m.mode = ModeBoard
		m.prompt.Blur()
		date, err := input.ParseJump(m.prompt.Value(), m.board.Date(), m.now())
		if err != nil {
			return m, m.warn(err.Error())
		}
		return m.changeDay(date)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleModalKeys closes the modal on any dismiss key.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", " ", "i", "q":
		m.mode = ModeBoard
		m.modalText = ""
	}
	return m, nil
}

// movePointer moves the cursor by one cell. dx and dy are screen
// directions; they map to the time or room axis by orientation.
func (m *Model) movePointer(dx, dy int) {
	l := m.layout()
	if l.Closed() || len(l.Rooms) == 0 {
		return
	}
	dTime, dRoom := dx, dy
	if l.Geometry.Orientation == grid.TimeAsRows {
		dTime, dRoom = dy, dx
	}

	gestures := m.board.Gestures()
	if gestures.State() == gesture.PendingResize || gestures.State() == gesture.Resizing {
		dRoom = 0 // a resize stays in its room
	}

	m.cursor.Slot = clamp(m.cursor.Slot+dTime, 0, len(l.Slots)-1)
	m.cursor.Room = clamp(m.cursor.Room+dRoom, 0, len(l.Rooms)-1)
	m.ensureCursorVisible()

	if gestures.Active() {
		gestures.PointerMove(m.pointer(l))
	}
}

// grab starts dragging the booking under the cursor. The cursor jumps to
// the booking's first slot so the drop cell is where the booking will start.
func (m Model) grab() (tea.Model, tea.Cmd) {
	pb, ok := m.bookingUnderCursor()
	if !ok {
		return m, m.setStatus("Nothing to grab here.")
	}
	l := m.layout()
	m.cursor.Slot = firstSlot(pb, len(l.Slots))
	m.ensureCursorVisible()
	if err := m.board.Gestures().PointerDown(pb.ID, m.pointer(l)); err != nil {
		return m, m.warn(booking.UserMessage(err))
	}
	return m, m.setStatus(fmt.Sprintf("Moving %s: arrows to move, space to drop, esc to cancel.", name(pb.Booking)))
}

// grabEdge starts resizing one edge of the booking under the cursor.
func (m Model) grabEdge(edge gesture.Edge) (tea.Model, tea.Cmd) {
	if m.board.Gestures().Active() {
		return m, nil
	}
	pb, ok := m.bookingUnderCursor()
	if !ok {
		return m, m.setStatus("Nothing to resize here.")
	}
	if (edge == gesture.EdgeStart && pb.ClippedStart) || (edge == gesture.EdgeEnd && pb.ClippedEnd) {
		return m, m.warn("That edge is off the grid.")
	}
	l := m.layout()
	if edge == gesture.EdgeStart {
		m.cursor.Slot = firstSlot(pb, len(l.Slots))
	} else {
		m.cursor.Slot = lastSlot(pb, len(l.Slots))
	}
	m.ensureCursorVisible()
	if err := m.board.Gestures().BeginResize(pb.ID, edge, m.pointer(l)); err != nil {
		return m, m.warn(booking.UserMessage(err))
	}
	return m, m.setStatus(fmt.Sprintf("Resizing the %s of %s: arrows to resize, space to drop.", edge, name(pb.Booking)))
}

// drop ends the gesture at the cursor and starts the resulting mutation.
// The collaborator call runs in a command; its result is settled on the loop.
func (m Model) drop() (tea.Model, tea.Cmd) {
	l := m.layout()
	gestures := m.board.Gestures()
	subject, _ := gestures.Subject()
	p := m.pointer(l)

	out, err := gestures.PointerUp(p, gesture.HitTest(l, p, subject.ID))
	if err != nil {
		return m, m.warn(booking.UserMessage(err))
	}

	switch out.Kind {
	case gesture.OutcomeClick:
		if b, ok := m.board.Cache().State().Get(out.BookingID); ok {
			m.openDetails(b)
		}
		return m, nil
	case gesture.OutcomeNoop:
		return m, m.setStatus("No change.")
	}

	ticket, err := m.board.Begin(out)
	if err != nil {
		m.log.Debug().Err(err).Str("booking", out.BookingID).Msg("gesture refused")
		return m, m.warn(booking.UserMessage(err))
	}
	if ticket == nil {
		return m, m.setStatus("No change.")
	}
	m.statusMsg = describe(ticket.Command())
	m.statusWarn = false
	return m, commands.Dispatch(m.board.Cache(), ticket, m.timeout)
}

func (m Model) deleteUnderCursor() (tea.Model, tea.Cmd) {
	if m.board.Gestures().Active() {
		return m, nil
	}
	pb, ok := m.bookingUnderCursor()
	if !ok {
		return m, m.setStatus("Nothing to delete here.")
	}
	b, ok := m.board.Cache().State().Get(pb.ID)
	if !ok {
		return m, nil
	}
	ticket, err := m.board.Cache().Begin(schedule.Delete{Booking: b})
	if err != nil {
		return m, m.warn(booking.UserMessage(err))
	}
	m.statusMsg = describe(ticket.Command())
	m.statusWarn = false
	return m, commands.Dispatch(m.board.Cache(), ticket, m.timeout)
}

func (m Model) changeDay(date time.Time) (tea.Model, tea.Cmd) {
	m.board.SetDate(date)
	m.loading = true
	m.placed = false
	m.scroll = 0
	return m, m.load()
}

// toggleOrientation switches axes, keeping the cursor on the same time.
func (m *Model) toggleOrientation() {
	l := m.layout()
	var at time.Time
	if !l.Closed() {
		at = l.SlotTime(clamp(m.cursor.Slot, 0, len(l.Slots)-1))
	}
	m.board.SetOrientation(m.board.Settings().Orientation.Toggle())

	l = m.layout()
	if !at.IsZero() && !l.Closed() {
		m.cursor.Slot = slotAt(l, at)
	}
	m.scroll = 0
	m.clampCursor()
	m.ensureCursorVisible()
}

func (m *Model) openDetails(b booking.Booking) {
	room, _ := booking.FindRoom(m.board.Rooms(), b.RoomID)
	m.modalText = m.renderDetails(b, room)
	m.mode = ModeModal
}

// placeCursor puts the cursor on the current time when the selected day is
// today and open, else on the first bookable slot of the first room.
func (m *Model) placeCursor() {
	l := m.layout()
	m.cursor = Position{}
	if l.Closed() {
		return
	}
	now := m.now()
	if dateutil.TruncateToDay(now).Equal(l.Date) && m.board.Hours().Contains(l.Date, now, now.Add(time.Minute)) {
		m.cursor.Slot = slotAt(l, now)
	} else {
		for i, s := range l.Slots {
			if !l.IsPadding(s) {
				m.cursor.Slot = i
				break
			}
		}
	}
	m.ensureCursorVisible()
}

func (m *Model) clampCursor() {
	l := m.layout()
	m.cursor.Slot = clamp(m.cursor.Slot, 0, max(len(l.Slots)-1, 0))
	m.cursor.Room = clamp(m.cursor.Room, 0, max(len(l.Rooms)-1, 0))
}

// ensureCursorVisible scrolls the time axis so the cursor is on screen.
func (m *Model) ensureCursorVisible() {
	l := m.layout()
	visible := m.visibleSlots(l)
	if m.cursor.Slot < m.scroll {
		m.scroll = m.cursor.Slot
	}
	if m.cursor.Slot >= m.scroll+visible {
		m.scroll = m.cursor.Slot - visible + 1
	}
	m.scroll = clamp(m.scroll, 0, max(len(l.Slots)-visible, 0))
}

// pointer is the screen point of the cursor cell.
func (m Model) pointer(l *grid.Layout) grid.Point {
	return l.Mapper.CellCenter(m.cursor.Room, m.cursor.Slot)
}

// bookingUnderCursor returns the booking at the cursor cell.
func (m Model) bookingUnderCursor() (grid.PlacedBooking, bool) {
	l := m.layout()
	t, ok := gesture.HitTest(l, m.pointer(l), "").(gesture.BookingTarget)
	if !ok {
		return grid.PlacedBooking{}, false
	}
	return l.Placement.Find(t.BookingID)
}

func (m *Model) setStatus(s string) tea.Cmd {
	m.statusMsg = s
	m.statusWarn = false
	return commands.ClearStatusAfter(statusTTL)
}

func (m *Model) warn(s string) tea.Cmd {
	m.statusMsg = s
	m.statusWarn = true
	return commands.ClearStatusAfter(statusTTL)
}

func describe(cmd schedule.Command) string {
	switch cmd.Kind() {
	case "swap":
		return "Swapping…"
	case "move":
		return "Moving…"
	case "resize":
		return "Resizing…"
	case "delete":
		return "Deleting…"
	default:
		return "Saving…"
	}
}

func name(b booking.Booking) string {
	if b.CustomerName != "" {
		return b.CustomerName
	}
	return b.ID
}
