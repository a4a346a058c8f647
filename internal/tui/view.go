package tui

import (
	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/tui/view"
)

const (
	headerHeight = 1
	// fullHelpRows is the height of the longest column in keyMap.FullHelp.
	fullHelpRows = 5
)

// View renders the model.
func (m Model) View() string {
	settings := m.board.Settings()
	header := view.RenderHeader(view.HeaderViewState{
		Width:       m.width,
		Date:        m.board.Date(),
		Today:       m.now(),
		Hours:       m.board.Hours(),
		Orientation: settings.Orientation,
		Interval:    settings.IntervalOrDefault(),
		Loading:     m.loading,
		Style:       m.styles.TitleStyle,
	})

	return view.Render(view.ViewState{
		Width:            m.width,
		Height:           m.height,
		Header:           header,
		Body:             m.renderBody(),
		Footer:           m.renderFooter(),
		ModalContent:     m.modalText,
		ShowModal:        m.mode == ModeModal,
		Bg:               m.styles.colorBg,
		ModalBg:          m.styles.colorModalBg,
		EmptyPlaceholder: "Loading…",
	})
}

func (m Model) renderFooter() string {
	statusStyle := m.styles.StatusStyle
	if m.statusWarn {
		statusStyle = m.styles.StatusWarnStyle
	}
	var promptLine string
	if m.mode == ModePrompt {
		promptLine = m.prompt.View()
	}
	return view.RenderFooter(view.FooterViewState{
		Width:       m.width,
		StatusLine:  m.statusMsg,
		StatusStyle: statusStyle,
		Pending:     m.board.Cache().Pending(),
		PromptLine:  promptLine,
		HelpLine:    m.help.View(m.keys),
		HelpStyle:   m.styles.HelpStyle,
	})
}

// footerHeight mirrors the line count of renderFooter.
func (m Model) footerHeight() int {
	h := 2
	if m.help.ShowAll {
		h = 1 + fullHelpRows
	}
	if m.mode == ModePrompt {
		h++
	}
	return h
}

func (m Model) bodyHeight() int {
	return max(m.height-headerHeight-m.footerHeight(), 0)
}

func (m Model) renderDetails(b booking.Booking, room booking.Room) string {
	body := view.BookingDetailBody(b, room, m.styles.Modal)
	return view.RenderModalFrame("Booking", body, "esc to close", m.styles.Modal)
}
