package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/launcher"
	"github.com/clcollins/nowdesk/pkg/snow"
	"github.com/clcollins/nowdesk/pkg/tui/style"
)

type activeView int

const (
	createView activeView = iota
	listView
	subscribeView
)

func (v activeView) String() string {
	switch v {
	case listView:
		return "Incidents"
	case subscribeView:
		return "Subscriptions"
	}
	return "Create Incident"
}

// Config wires the console to its backends.
type Config struct {
	Incidents     snow.RecordGateway
	Users         Searcher
	Notifications Searcher
	Subscriptions Subscriber

	// Probe, when set, gates the console behind an authentication check.
	Probe ProbeFunc

	InstanceURL string
	Actor       string
	Launcher    launcher.BrowserLauncher
	Debug       bool
}

type authState int

const (
	authPending authState = iota
	authChecking
	authFailed
	authOK
)

type model struct {
	err error

	incidents   snow.RecordGateway
	probe       ProbeFunc
	instanceURL string
	actor       string
	launcher    launcher.BrowserLauncher
	now         func() time.Time

	auth    authState
	authErr error
	view    activeView

	form          incidentForm
	subscriptions subscriptionForm
	list          incidentList

	// viewport.Model has no Focused() method
	viewingIncident  bool
	selectedIncident *incident.Incident
	incidentViewer   viewport.Model
	markdownRenderer markdownRenderer

	help          help.Model
	spinner       spinner.Model
	apiInProgress bool
	status        string

	width  int
	height int
	debug  bool
}

func InitialModel(cfg Config) (tea.Model, tea.Cmd) {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	m := model{
		incidents:      cfg.Incidents,
		probe:          cfg.Probe,
		instanceURL:    cfg.InstanceURL,
		actor:          cfg.Actor,
		launcher:       cfg.Launcher,
		now:            time.Now,
		view:           createView,
		form:           newIncidentForm(cfg.Incidents),
		subscriptions:  newSubscriptionForm(cfg.Users, cfg.Notifications, cfg.Subscriptions),
		list:           newIncidentList(),
		help:           newHelp(),
		spinner:        s,
		incidentViewer: newIncidentViewer(),
		debug:          cfg.Debug,
	}

	// Create the markdown renderer once; reusing it is much faster
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		log.Error("tui.InitialModel", "failed to create markdown renderer", err)
	} else {
		m.markdownRenderer = renderer
	}

	log.Debug("tui.InitialModel", "instance", m.instanceURL, "gated", m.probe != nil)
	return m, nil
}

func (m *model) setStatus(msg string) {
	log.Info("tui.setStatus", "status", msg)
	m.status = msg
}

func (m *model) toggleHelp() {
	m.help.ShowAll = !m.help.ShowAll
}

func (m model) authenticated() bool {
	return m.auth == authOK
}

// startAuth begins the authentication check, or skips straight to the
// console when there is nothing to check.
func (m *model) startAuth() tea.Cmd {
	if m.probe == nil {
		return m.authenticate()
	}
	m.auth = authChecking
	m.authErr = nil
	m.setStatus(checkingAuthStatus)
	return checkAuth(m.probe)
}

// authenticate opens the console and issues the work deferred until the
// session is known to be good.
func (m *model) authenticate() tea.Cmd {
	m.auth = authOK
	m.authErr = nil
	m.setStatus("")
	cmds := []tea.Cmd{m.subscriptions.init()}
	if m.view == listView {
		cmds = append(cmds, m.refreshIncidents())
	}
	return tea.Batch(cmds...)
}

func (m *model) refreshIncidents() tea.Cmd {
	m.apiInProgress = true
	m.setStatus(loadingIncidentsStatus)
	return updateIncidentList(m.incidents)
}

// switchView makes v the active view. Entering the list refreshes it.
func (m *model) switchView(v activeView) tea.Cmd {
	log.Debug("tui.switchView", "from", m.view, "to", v)
	entering := m.view != v
	m.view = v
	m.clearSelectedIncident("switch view")
	if v == listView && entering {
		return m.refreshIncidents()
	}
	return nil
}

func (m *model) clearSelectedIncident(reason any) {
	m.selectedIncident = nil
	m.viewingIncident = false
	log.Debug("tui.clearSelectedIncident", "reason", reason)
}

// currentIncident is the incident the list actions apply to: the one in
// the detail view, or the highlighted row.
func (m model) currentIncident() (incident.Incident, bool) {
	if m.viewingIncident && m.selectedIncident != nil {
		return *m.selectedIncident, true
	}
	return m.list.highlighted()
}

func newHelp() help.Model {
	h := help.New()
	h.ShowAll = false
	return h
}

func newIncidentViewer() viewport.Model {
	vp := viewport.New(100, 100)
	vp.Style = style.IncidentViewer
	return vp
}
