package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/clcollins/nowdesk/pkg/classify"
	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/snow"
	"github.com/clcollins/nowdesk/pkg/tui/style"
)

const (
	incidentCreatedMessage = "Incident created successfully!"
	incidentFailedMessage  = "Failed to create incident. Please try again."

	formInputWidth = 60
)

type formStatus int

const (
	formEditing formStatus = iota
	formSubmitting
)

const (
	incidentFocusShort = iota
	incidentFocusDescription
	incidentFocusPriority
	incidentFocusImpact
	incidentFocusUrgency
	incidentFocusCategory
	incidentFocusCaller
	incidentFocusGroup
	incidentFieldCount
)

// incidentForm collects the fields for a new incident. The selector fields
// hold indexes into their option lists.
type incidentForm struct {
	gateway snow.RecordGateway

	short       textinput.Model
	description textarea.Model
	caller      textinput.Model
	group       textinput.Model

	priority int
	impact   int
	urgency  int
	category int

	focus   int
	status  formStatus
	message string
	failed  bool
}

func newIncidentForm(gw snow.RecordGateway) incidentForm {
	f := incidentForm{
		gateway:     gw,
		short:       newFormInput("Brief summary of the issue"),
		description: newFormTextarea(),
		caller:      newFormInput("Caller name or sys_id"),
		group:       newFormInput("Assignment group name or sys_id"),
	}
	f.setDefaults()
	f.short.Focus()
	return f
}

func newFormInput(placeholder string) textinput.Model {
	i := textinput.New()
	i.Prompt = "> "
	i.Placeholder = placeholder
	i.Width = formInputWidth
	return i
}

func newFormTextarea() textarea.Model {
	t := textarea.New()
	t.Placeholder = "Detailed description of the incident"
	t.ShowLineNumbers = false
	t.SetWidth(formInputWidth)
	t.SetHeight(4)
	return t
}

func (f *incidentForm) setDefaults() {
	def := incident.NewFields()
	f.priority = indexOf(classify.PriorityCodes, def.Priority)
	f.impact = indexOf(classify.LevelCodes, def.Impact)
	f.urgency = indexOf(classify.LevelCodes, def.Urgency)
	f.category = 0
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return 0
}

// fields returns the current form values.
func (f incidentForm) fields() incident.Fields {
	return incident.Fields{
		ShortDescription: f.short.Value(),
		Description:      f.description.Value(),
		Priority:         classify.PriorityCodes[f.priority],
		Impact:           classify.LevelCodes[f.impact],
		Urgency:          classify.LevelCodes[f.urgency],
		Category:         classify.Categories[f.category].Value,
		Caller:           f.caller.Value(),
		AssignmentGroup:  f.group.Value(),
	}
}

func (f *incidentForm) setFocus(i int) tea.Cmd {
	f.focus = (i + incidentFieldCount) % incidentFieldCount
	f.short.Blur()
	f.description.Blur()
	f.caller.Blur()
	f.group.Blur()

	switch f.focus {
	case incidentFocusShort:
		return f.short.Focus()
	case incidentFocusDescription:
		return f.description.Focus()
	case incidentFocusCaller:
		return f.caller.Focus()
	case incidentFocusGroup:
		return f.group.Focus()
	}
	return nil
}

// clear restores the defaults. It does nothing while a submission is in
// flight.
func (f *incidentForm) clear() tea.Cmd {
	if f.status != formEditing {
		return nil
	}
	f.short.Reset()
	f.description.Reset()
	f.caller.Reset()
	f.group.Reset()
	f.setDefaults()
	f.message = ""
	f.failed = false
	return f.setFocus(incidentFocusShort)
}

func (f *incidentForm) submit() tea.Cmd {
	if f.status != formEditing {
		return nil
	}
	fields := f.fields()
	if err := fields.Validate(); err != nil {
		f.message = "Cannot submit: " + err.Error()
		f.failed = true
		return nil
	}
	f.status = formSubmitting
	f.message = ""
	f.failed = false
	log.Debug("tui.incidentForm.submit", "priority", fields.Priority, "impact", fields.Impact, "urgency", fields.Urgency)
	return createIncident(f.gateway, fields)
}

func (f *incidentForm) created(msg incidentCreatedMsg) tea.Cmd {
	f.status = formEditing
	if msg.err != nil {
		f.message = incidentFailedMessage
		f.failed = true
		return nil
	}
	cmd := f.clear()
	f.message = incidentCreatedMessage
	return cmd
}

func cycle(i, delta, n int) int {
	return (i + delta + n) % n
}

func (f *incidentForm) update(msg tea.KeyMsg) tea.Cmd {
	if f.status != formEditing {
		return nil
	}

	switch {
	case key.Matches(msg, defaultKeyMap.NextField):
		return f.setFocus(f.focus + 1)
	case key.Matches(msg, defaultKeyMap.PrevField):
		return f.setFocus(f.focus - 1)
	case key.Matches(msg, defaultKeyMap.Submit):
		return f.submit()
	case key.Matches(msg, defaultKeyMap.Clear):
		return f.clear()
	}

	delta := 0
	switch {
	case key.Matches(msg, defaultKeyMap.Left):
		delta = -1
	case key.Matches(msg, defaultKeyMap.Right):
		delta = 1
	}

	var cmd tea.Cmd
	switch f.focus {
	case incidentFocusShort:
		f.short, cmd = f.short.Update(msg)
	case incidentFocusDescription:
		f.description, cmd = f.description.Update(msg)
	case incidentFocusCaller:
		f.caller, cmd = f.caller.Update(msg)
	case incidentFocusGroup:
		f.group, cmd = f.group.Update(msg)
	case incidentFocusPriority:
		f.priority = cycle(f.priority, delta, len(classify.PriorityCodes))
	case incidentFocusImpact:
		f.impact = cycle(f.impact, delta, len(classify.LevelCodes))
	case incidentFocusUrgency:
		f.urgency = cycle(f.urgency, delta, len(classify.LevelCodes))
	case incidentFocusCategory:
		f.category = cycle(f.category, delta, len(classify.Categories))
	}
	return cmd
}

func (f incidentForm) inputView(label string, input string, focus int) string {
	return fieldLabel(label, f.focus == focus) + "\n" + input
}

func (f incidentForm) buttonsView() string {
	submit := "[ Submit ]"
	if f.status == formSubmitting {
		submit = "[ " + submittingStatus + " ]"
	}
	if f.status == formEditing {
		submit = style.Selected.Render(submit)
	} else {
		submit = style.Unavailable.Render(submit)
	}
	return strings.Join([]string{style.Muted.Render("[ Clear ]"), submit}, "  ")
}

func (f incidentForm) view() string {
	var msg string
	switch {
	case f.message == "":
	case f.failed:
		msg = style.Failure.Render(f.message)
	default:
		msg = style.Success.Render(f.message)
	}

	priority := classify.PriorityCodes[f.priority]
	count := fmt.Sprintf("%d/%d", utf8.RuneCountInString(f.short.Value()), incident.MaxShortDescription)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		style.Title.Render("Create New Incident")+"\n",
		msg,
		f.inputView("Short Description *", f.short.View()+" "+style.Muted.Render(count), incidentFocusShort),
		"",
		f.inputView("Description", f.description.View(), incidentFocusDescription),
		"",
		selectorView("Priority", priority+" - "+classify.Priority(priority).Label, f.focus == incidentFocusPriority),
		style.Hint.Render("  "+classify.Priority(priority).Severity),
		"",
		selectorView("Impact", classify.Impact(classify.LevelCodes[f.impact]), f.focus == incidentFocusImpact),
		selectorView("Urgency", classify.Urgency(classify.LevelCodes[f.urgency]), f.focus == incidentFocusUrgency),
		selectorView("Category", classify.Categories[f.category].Label, f.focus == incidentFocusCategory),
		"",
		f.inputView("Caller", f.caller.View(), incidentFocusCaller),
		f.inputView("Assignment Group", f.group.View(), incidentFocusGroup),
		"",
		f.buttonsView(),
	)
}
