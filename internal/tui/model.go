// Package tui provides the terminal booking board for venuegrid.
//
// The keyboard drives a pointer over the grid. Pointer positions are the
// centres of grid cells, so the same gesture controller that serves mouse
// input decides every move, swap and resize.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/javiermolinar/venuegrid/internal/board"
	"github.com/javiermolinar/venuegrid/internal/booking"
	"github.com/javiermolinar/venuegrid/internal/config"
	"github.com/javiermolinar/venuegrid/internal/grid"
	"github.com/javiermolinar/venuegrid/internal/tui/commands"
	"github.com/javiermolinar/venuegrid/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeBoard Mode = iota
	ModePrompt
	ModeModal
)

const (
	defaultTimeout = 10 * time.Second
	statusTTL      = 4 * time.Second
)

// Position is the pointer cell.
type Position struct {
	Room int
	Slot int
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	board   *board.Board
	repo    booking.Reader
	log     zerolog.Logger
	now     func() time.Time
	timeout time.Duration

	// Theme and styles
	styles *Styles
	keys   keyMap
	help   help.Model
	prompt textinput.Model

	// State
	mode      Mode
	cursor    Position
	scroll    int // first visible slot
	loading   bool
	placed    bool // cursor has been placed for the loaded day
	modalText string

	// Terminal dimensions
	width  int
	height int

	// Messages
	statusMsg  string
	statusWarn bool
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) ModelOption {
	return func(m *Model) {
		m.log = log.With().Str("component", "tui").Logger()
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.now = now
	}
}

// WithTimeout bounds each collaborator call.
func WithTimeout(d time.Duration) ModelOption {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// New creates a new TUI model.
func New(b *board.Board, repo booking.Reader, cfg *config.Config, opts ...ModelOption) Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		// Fallback to mocha on error
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	prompt := textinput.New()
	prompt.Placeholder = "YYYY-MM-DD, tomorrow, fri, +7"
	prompt.Prompt = "go to: "
	prompt.CharLimit = 32
	prompt.PromptStyle = styles.PromptStyle
	prompt.TextStyle = styles.StatusStyle

	h := help.New()
	h.Styles.ShortKey = styles.HelpStyle.Bold(true)
	h.Styles.ShortDesc = styles.HelpStyle
	h.Styles.FullKey = styles.HelpStyle.Bold(true)
	h.Styles.FullDesc = styles.HelpStyle

	m := Model{
		board:   b,
		repo:    repo,
		log:     zerolog.Nop(),
		now:     time.Now,
		timeout: defaultTimeout,
		styles:  styles,
		keys:    defaultKeyMap(),
		help:    h,
		prompt:  prompt,
		mode:    ModeBoard,
		loading: true,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.load()
}

// Run starts the TUI.
func Run(b *board.Board, repo booking.Reader, cfg *config.Config, opts ...ModelOption) error {
	p := tea.NewProgram(New(b, repo, cfg, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) load() tea.Cmd {
	from, to := m.board.Window()
	return commands.Load(m.repo, m.board.Date(), from, to)
}

// layout returns the memoized layout of the board. The TUI draws characters,
// so the viewport is left at zero and cells keep their preset pixel sizes.
func (m Model) layout() *grid.Layout {
	return m.board.Layout(grid.Viewport{})
}

// Cursor returns the pointer cell.
func (m Model) Cursor() Position {
	return m.cursor
}

// Status returns the status line text.
func (m Model) Status() string {
	return m.statusMsg
}
