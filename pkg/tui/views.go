package tui

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"

	"github.com/clcollins/nowdesk/pkg/classify"
	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/snow"
	"github.com/clcollins/nowdesk/pkg/tui/style"
)

const (
	dot        = "•"
	upArrow    = "↑"
	downArrow  = "↓"
	leftArrow  = "←"
	rightArrow = "→"
	cursorChar = "▏"
	checkMark  = "✓"
	ellipsis   = "…"

	headerHeight     = 2
	footerHeight     = 2
	listChromeHeight = 6

	authRequiredTitle = "Authentication Required"
)

// markdownRenderer turns incident markdown into terminal output.
type markdownRenderer interface {
	Render(string) (string, error)
}

func (m model) View() string {
	if m.err != nil {
		log.Debug("tui.View", "error", m.err)
		return m.errorView()
	}

	var body string
	switch {
	case !m.authenticated():
		body = m.authView()
	case m.view == createView:
		body = m.form.view()
	case m.view == subscribeView:
		body = m.subscriptions.view()
	case m.viewingIncident:
		body = m.incidentViewer.View()
	default:
		body = m.list.view(m.incidentViewer.Height)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		style.Padded.Render(body),
		m.renderFooter(),
		style.Help.Render(m.help.View(m.keyMap())),
	)
}

// keyMap is the help shown for the current view.
func (m model) keyMap() help.KeyMap {
	switch {
	case !m.authenticated():
		return authKeyMap{defaultKeyMap}
	case m.view == listView:
		inc, ok := m.currentIncident()
		return listKeyMap{KeyMap: defaultKeyMap, actionable: ok && classify.Actionable(inc.State)}
	default:
		return formKeyMap{defaultKeyMap}
	}
}

func (m model) errorView() string {
	var s strings.Builder
	s.WriteString(dot + " ERROR " + dot)
	s.WriteString("\n\n")
	s.WriteString(wordwrap.String(m.err.Error(), 56))
	s.WriteString("\n\n")
	s.WriteString(help.New().View(errorKeyMap{errorViewKeyMap}))
	return style.Error.Render(s.String())
}

func (m model) authView() string {
	if m.auth != authFailed {
		return m.spinner.View() + " " + checkingAuthStatus
	}

	var s strings.Builder
	s.WriteString(style.Title.Render(authRequiredTitle))
	s.WriteString("\n\n")
	s.WriteString("Sign in to " + style.Label.Render(m.instanceURL) + " in your browser,\n")
	s.WriteString("then update session_cookie and press r to retry.")
	if m.authErr != nil {
		s.WriteString("\n\n")
		s.WriteString(style.Failure.Render(wordwrap.String(m.authErr.Error(), 56)))
	}
	return style.Card.Render(s.String())
}

func (m model) renderHeader() string {
	var tabs []string
	for _, v := range []activeView{createView, listView, subscribeView} {
		if v == m.view {
			tabs = append(tabs, style.ActiveTab.Render(v.String()))
		} else {
			tabs = append(tabs, style.Tab.Render(v.String()))
		}
	}
	title := style.Label.Render("nowdesk") + " " + style.Muted.Render(m.instanceURL)
	return lipgloss.JoinHorizontal(lipgloss.Top, append([]string{title, "  "}, tabs...)...) + "\n"
}

func (m model) renderFooter() string {
	status := statusArea(m.status)
	if m.apiInProgress || m.form.status == formSubmitting || m.subscriptions.submitting {
		status = m.spinner.View() + " " + status
	}
	return style.StatusLine.Render(status)
}

func statusArea(s string) string {
	return "> " + strings.TrimSuffix(s, "\n")
}

func fieldLabel(label string, focused bool) string {
	if focused {
		return style.FocusLabel.Render(label)
	}
	return style.Label.Render(label)
}

// selectorView renders a left/right option selector.
func selectorView(label, value string, focused bool) string {
	return fieldLabel(label, focused) + "\n  " + leftArrow + " " + value + " " + rightArrow
}

type incidentSummary struct {
	Number          string
	Title           string
	Description     string
	State           string
	Priority        string
	Impact          string
	Urgency         string
	Assignee        string
	Caller          string
	AssignmentGroup string
	OpenedBy        string
	Category        string
	Created         string
	Updated         string
	Link            string
}

func orNotSpecified(s string) string {
	if s == "" {
		return incident.NotSpecified
	}
	return s
}

func summarizeIncident(inc incident.Incident, instanceURL string) incidentSummary {
	return incidentSummary{
		Number:          inc.Number,
		Title:           inc.Title(),
		Description:     inc.Description,
		State:           inc.StateClass().Label,
		Priority:        inc.PriorityClass().Label,
		Impact:          orNotSpecified(classify.Impact(inc.Impact)),
		Urgency:         orNotSpecified(classify.Urgency(inc.Urgency)),
		Assignee:        inc.Assignee(),
		Caller:          orNotSpecified(inc.CallerID),
		AssignmentGroup: orNotSpecified(inc.AssignmentGroup),
		OpenedBy:        orNotSpecified(inc.OpenedBy),
		Category:        orNotSpecified(inc.Category),
		Created:         incident.FormatTimestamp(inc.CreatedAt),
		Updated:         incident.FormatTimestamp(inc.UpdatedAt),
		Link:            snow.IncidentURL(instanceURL, inc.ID),
	}
}

const incidentTemplate = `# {{ .Number }} - {{ .State }}

[{{ .Title }}]({{ .Link }})

* Priority: {{ .Priority }}
* Impact: {{ .Impact }}
* Urgency: {{ .Urgency }}
* Category: {{ .Category }}

* Assigned to: **{{ .Assignee }}**
* Assignment group: {{ .AssignmentGroup }}
* Caller: {{ .Caller }}
* Opened by: {{ .OpenedBy }}

* Created: {{ .Created }}
* Updated: {{ .Updated }}

## Description

{{ if .Description -}}
{{ .Description }}
{{- else -}}
_none_
{{- end }}
`

var incidentTmpl = template.Must(template.New("incident").Parse(incidentTemplate))

func incidentMarkdown(inc incident.Incident, instanceURL string) (string, error) {
	o := new(bytes.Buffer)
	if err := incidentTmpl.Execute(o, summarizeIncident(inc, instanceURL)); err != nil {
		return "", fmt.Errorf("tui.incidentMarkdown(): %w", err)
	}
	return o.String(), nil
}
