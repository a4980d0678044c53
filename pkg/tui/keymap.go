package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Left      key.Binding
	Right     key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Back      key.Binding
	Enter     key.Binding

	Create    key.Binding
	List      key.Binding
	Subscribe key.Binding

	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Clear     key.Binding

	Refresh key.Binding
	Filter  key.Binding
	Toggle  key.Binding
	Search  key.Binding
	Resolve key.Binding
	Close   key.Binding
	Open    key.Binding
	Retry   key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.ForceQuit, k.Create, k.List, k.Subscribe}
}

// FullHelp lists the bindings available on every view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Create, k.List, k.Subscribe, k.Help, k.ForceQuit},
	}
}

// formKeyMap is shown on the create and subscribe views.
type formKeyMap struct{ KeyMap }

func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Left, k.Submit, k.Clear, k.List, k.Subscribe}
}

func (k formKeyMap) FullHelp() [][]key.Binding {
	return append([][]key.Binding{
		{k.NextField, k.PrevField, k.Left, k.Right, k.Submit, k.Clear},
	}, k.KeyMap.FullHelp()...)
}

// listKeyMap is shown on the list view. Resolve and Close are only listed
// when the highlighted incident can take them.
type listKeyMap struct {
	KeyMap
	actionable bool
}

func (k listKeyMap) ShortHelp() []key.Binding {
	b := []key.Binding{k.Up, k.Down, k.Enter, k.Filter, k.Toggle, k.Refresh, k.Search, k.Open}
	if k.actionable {
		b = append(b, k.Resolve, k.Close)
	}
	return append(b, k.Quit, k.Help)
}

func (k listKeyMap) FullHelp() [][]key.Binding {
	actions := []key.Binding{k.Refresh, k.Filter, k.Toggle, k.Search, k.Open}
	if k.actionable {
		actions = append(actions, k.Resolve, k.Close)
	}
	return append([][]key.Binding{
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
		actions,
	}, k.KeyMap.FullHelp()...)
}

// authKeyMap is shown behind the authentication gate.
type authKeyMap struct{ KeyMap }

func (k authKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Quit, k.ForceQuit}
}

func (k authKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var errorViewKeyMap = KeyMap{
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "dismiss"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

type errorKeyMap struct{ KeyMap }

func (k errorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.ForceQuit}
}

func (k errorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp(upArrow+"/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp(downArrow+"/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left"),
		key.WithHelp(leftArrow+"/"+rightArrow, "change option"),
	),
	Right: key.NewBinding(
		key.WithKeys("right"),
		key.WithHelp(rightArrow, "next option"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "view details"),
	),
	Create: key.NewBinding(
		key.WithKeys("ctrl+n"),
		key.WithHelp("ctrl+n", "create incident"),
	),
	List: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "view incidents"),
	),
	Subscribe: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "subscriptions"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab/shift+tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "submit"),
	),
	Clear: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "clear"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Filter: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "filter"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("v"),
		key.WithHelp("v", "table/cards"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Resolve: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "resolve"),
	),
	Close: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "close"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open in browser"),
	),
	Retry: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "retry"),
	),
}
