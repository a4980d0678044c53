package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/clcollins/nowdesk/pkg/searchselect"
	"github.com/clcollins/nowdesk/pkg/tui/style"
)

const (
	pickerRows      = 6
	pickerWidth     = 60
	pickerHeaderRow = 2 // label and input line precede the dropdown
)

// picker drives a searchselect.State from key and mouse input and turns
// the lookups it issues into commands.
type picker struct {
	id          pickerID
	label       string
	placeholder string
	searcher    Searcher
	state       searchselect.State
	focused     bool
}

func newPicker(id pickerID, label, placeholder string, s Searcher) picker {
	return picker{
		id:          id,
		label:       label,
		placeholder: placeholder,
		searcher:    s,
	}
}

func (p *picker) lookup(q searchselect.Query) tea.Cmd {
	if p.searcher == nil {
		return nil
	}
	return lookupCandidates(p.searcher, p.id, q)
}

// mount issues the initial empty lookup.
func (p *picker) mount() tea.Cmd {
	return p.lookup(p.state.Mount())
}

func (p *picker) focus() {
	p.focused = true
	p.state.Focus()
}

func (p *picker) blur() {
	p.focused = false
	p.state.Blur()
}

func (p *picker) reset() tea.Cmd {
	return p.lookup(p.state.Reset())
}

// resolve applies a lookup response; stale responses are dropped.
func (p *picker) resolve(msg gotCandidatesMsg) bool {
	if msg.err != nil {
		return p.state.ResolveError(msg.tag, msg.err)
	}
	return p.state.Resolve(msg.tag, msg.candidates)
}

func (p *picker) update(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyRunes:
		return p.lookup(p.state.Type(msg.Runes...))
	case tea.KeySpace:
		return p.lookup(p.state.Type(' '))
	case tea.KeyBackspace:
		return p.lookup(p.state.Backspace())
	case tea.KeyUp:
		p.state.Focus()
		p.state.MoveUp()
	case tea.KeyDown:
		p.state.Focus()
		p.state.MoveDown()
	case tea.KeyEnter:
		if p.state.Open {
			p.state.SelectCursor()
		} else {
			p.state.Focus()
		}
	case tea.KeyEsc:
		p.state.Blur()
	}
	return nil
}

// click handles a pointer press at screen cell x,y. Presses outside the
// rendered picker close the dropdown; presses on a dropdown row select it.
func (p *picker) click(x, y int) bool {
	if !p.state.PointerDown(x, y) {
		return false
	}
	row := y - p.state.Bounds.Y - pickerHeaderRow
	if p.dropdownVisible() && row >= 0 && row < p.visibleRows() {
		p.state.Select(p.offset() + row)
		return true
	}
	p.state.Focus()
	return true
}

func (p *picker) dropdownVisible() bool {
	return p.state.Open && len(p.state.Candidates) > 0
}

func (p *picker) visibleRows() int {
	return min(pickerRows, len(p.state.Candidates))
}

func (p *picker) offset() int {
	return max(0, p.state.Cursor-pickerRows+1)
}

func (p picker) view() string {
	var s strings.Builder

	s.WriteString(fieldLabel(p.label+" *", p.focused))
	s.WriteString("\n")

	input := p.state.Query
	if input == "" && !p.focused {
		input = style.Muted.Render(p.placeholder)
	}
	prompt := "  "
	if p.focused {
		prompt = "> "
		input += cursorChar
	}
	s.WriteString(prompt + input)
	if p.state.Selected() {
		s.WriteString(" " + style.Success.Render(checkMark))
	}
	if p.state.Querying() && p.state.Open {
		s.WriteString(" " + style.Muted.Render("searching..."))
	}

	if p.dropdownVisible() {
		offset := p.offset()
		for i := offset; i < offset+p.visibleRows(); i++ {
			c := p.state.Candidates[i]
			line := c.Label
			if c.Subtitle != "" {
				line += " " + dot + " " + c.Subtitle
			}
			line = truncate.StringWithTail(line, pickerWidth-2, ellipsis)
			s.WriteString("\n")
			if i == p.state.Cursor {
				s.WriteString(style.Selected.Render("> " + line))
			} else {
				s.WriteString("  " + line)
			}
		}
	} else if p.state.Open && p.state.Err != nil {
		s.WriteString("\n" + style.Failure.Render("  lookup failed: "+p.state.Err.Error()))
	}

	return lipgloss.NewStyle().Width(pickerWidth).Render(s.String())
}
