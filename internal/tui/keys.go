package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the board key bindings. It implements help.KeyMap.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Grab      key.Binding
	GrabStart key.Binding
	GrabEnd   key.Binding
	Cancel    key.Binding
	Details   key.Binding
	Delete    key.Binding
	Undo      key.Binding
	Rotate    key.Binding
	NextDay   key.Binding
	PrevDay   key.Binding
	Jump      key.Binding
	Refresh   key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:      key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
		Right:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
		Grab:      key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "grab/drop")),
		GrabStart: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "resize start")),
		GrabEnd:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "resize end")),
		Cancel:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Details:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "details")),
		Delete:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete")),
		Undo:      key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		Rotate:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "orientation")),
		NextDay:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next day")),
		PrevDay:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev day")),
		Jump:      key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "go to date")),
		Refresh:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Grab, k.GrabStart, k.GrabEnd, k.Cancel, k.Rotate, k.NextDay, k.PrevDay, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Grab, k.GrabStart, k.GrabEnd, k.Cancel},
		{k.Details, k.Delete, k.Undo},
		{k.Rotate, k.NextDay, k.PrevDay, k.Jump, k.Refresh},
		{k.Help, k.Quit},
	}
}
