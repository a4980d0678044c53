package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/clcollins/nowdesk/pkg/classify"
	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/tui/style"
)

const (
	loadingIncidentsMessage = "Loading incidents..."

	cardWidth = 72
)

type listMode int

const (
	tableMode listMode = iota
	cardMode
)

// incidentList is the filtered, searchable incident list. all holds the
// last fetched list; visible is what the current filter and quick search
// leave of it.
type incidentList struct {
	all     []incident.Incident
	visible []incident.Incident
	filter  classify.Filter
	mode    listMode
	cursor  int
	loaded  bool

	table     table.Model
	search    textinput.Model
	searching bool
}

func newIncidentList() incidentList {
	s := textinput.New()
	s.Prompt = "/ "
	s.Placeholder = "number, summary or assignee"
	s.Width = 40
	return incidentList{
		filter: classify.FilterAll,
		table:  newIncidentTable(),
		search: s,
	}
}

func (l *incidentList) setIncidents(incs []incident.Incident) {
	l.all = incs
	l.loaded = true
	l.apply()
}

// apply recomputes the visible incidents and keeps the cursor in range.
func (l *incidentList) apply() {
	l.visible = fuzzyFilter(incident.Filter(l.all, l.filter), l.search.Value())
	if l.cursor >= len(l.visible) {
		l.cursor = len(l.visible) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
	l.table.SetRows(incidentRows(l.visible))
	l.table.SetCursor(l.cursor)
}

func (l incidentList) highlighted() (incident.Incident, bool) {
	if l.cursor < 0 || l.cursor >= len(l.visible) {
		return incident.Incident{}, false
	}
	return l.visible[l.cursor], true
}

// actionable reports whether the highlighted incident can be resolved or
// closed.
func (l incidentList) actionable() bool {
	inc, ok := l.highlighted()
	return ok && !inc.Terminal()
}

func (l *incidentList) move(delta int) {
	if len(l.visible) == 0 {
		return
	}
	l.cursor = max(0, min(len(l.visible)-1, l.cursor+delta))
	l.table.SetCursor(l.cursor)
}

func (l *incidentList) cycleFilter() {
	l.filter = l.filter.Next()
	l.cursor = 0
	l.apply()
}

func (l *incidentList) toggleMode() {
	if l.mode == tableMode {
		l.mode = cardMode
	} else {
		l.mode = tableMode
	}
}

func (l *incidentList) startSearch() tea.Cmd {
	l.searching = true
	return l.search.Focus()
}

// updateSearch feeds a key to the quick search box. Enter keeps the
// search and returns to the list; esc drops it.
func (l *incidentList) updateSearch(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, defaultKeyMap.Back):
		l.search.Reset()
		l.search.Blur()
		l.searching = false
		l.apply()
		return nil
	case msg.Type == tea.KeyEnter:
		l.search.Blur()
		l.searching = false
		return nil
	}
	var cmd tea.Cmd
	l.search, cmd = l.search.Update(msg)
	l.cursor = 0
	l.apply()
	return cmd
}

func (l *incidentList) resize(width, height int) {
	l.table.SetColumns(incidentTableColumns(width))
	l.table.SetWidth(width)
	l.table.SetHeight(max(height, 3))
}

func (l incidentList) emptyMessage() string {
	if l.search.Value() != "" {
		return fmt.Sprintf("No incidents match %q.", l.search.Value())
	}
	if l.filter == classify.FilterAll {
		return "No incidents found."
	}
	return fmt.Sprintf("No %s incidents found.", l.filter)
}

func statsView(s incident.Stats) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		style.StatTotal.Render(fmt.Sprintf("Total %d", s.Total)), " ",
		style.StatActive.Render(fmt.Sprintf("Active %d", s.Active)), " ",
		style.StatResolved.Render(fmt.Sprintf("Resolved %d", s.Resolved)), " ",
		style.StatClosed.Render(fmt.Sprintf("Closed %d", s.Closed)),
	)
}

func filterView(active classify.Filter) string {
	var tabs []string
	for _, f := range classify.Filters {
		label := strings.ToUpper(string(f[:1])) + string(f[1:])
		if f == active {
			tabs = append(tabs, style.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, style.Tab.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func cardView(inc incident.Incident, focused bool) string {
	state := inc.StateClass()
	priority := inc.PriorityClass()

	header := lipgloss.JoinHorizontal(
		lipgloss.Top,
		style.Label.Render(inc.Number), " ",
		style.Badge(state.Visual).Render(state.Label), " ",
		style.Badge(priority.Visual).Render(priority.Label),
	)
	body := wordwrap.String(truncate.StringWithTail(inc.Title(), cardWidth*2, ellipsis), cardWidth-4)
	footer := style.Muted.Render(inc.Assignee() + " " + dot + " " + incident.FormatTimestamp(inc.UpdatedAt))

	card := style.Card
	if focused {
		card = style.CardFocused
	}
	return card.Width(cardWidth).Render(header + "\n" + body + "\n" + footer)
}

// cardsView renders the cards around the cursor that fit in height rows.
func (l incidentList) cardsView(height int) string {
	if len(l.visible) == 0 {
		return ""
	}
	var cards []string
	used := 0
	for i := l.cursor; i < len(l.visible); i++ {
		c := cardView(l.visible[i], i == l.cursor)
		h := lipgloss.Height(c)
		if used+h > height && len(cards) > 0 {
			break
		}
		cards = append(cards, c)
		used += h
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (l incidentList) view(height int) string {
	var s strings.Builder
	s.WriteString(statsView(incident.Count(l.all)))
	s.WriteString("\n")
	s.WriteString(filterView(l.filter))
	s.WriteString("\n")
	if l.searching || l.search.Value() != "" {
		s.WriteString(l.search.View())
		s.WriteString("\n")
	}

	switch {
	case !l.loaded:
		s.WriteString(style.Muted.Render(loadingIncidentsMessage))
	case len(l.visible) == 0:
		s.WriteString(style.Muted.Render(l.emptyMessage()))
	case l.mode == cardMode:
		s.WriteString(l.cardsView(height))
	default:
		s.WriteString(style.Container.Render(l.table.View()))
	}
	return s.String()
}
