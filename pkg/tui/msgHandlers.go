package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/clcollins/nowdesk/pkg/snow"
	"github.com/clcollins/nowdesk/pkg/tui/style"
)

// errMsgHandler is the message handler for the errMsg message
func (m model) errMsgHandler(msg errMsg) (tea.Model, tea.Cmd) {
	log.Error("tui.errMsgHandler", "error", msg.error)
	m.apiInProgress = false
	m.setStatus(msg.Error())
	m.err = msg.error
	return m, nil
}

// windowSizeMsgHandler resizes the tui according to the new terminal
// window size
func (m model) windowSizeMsgHandler(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	log.Debug("tui.windowSizeMsgHandler", "width", msg.Width, "height", msg.Height)
	m.width = msg.Width
	m.height = msg.Height

	borderEdges := 2 + style.HorizontalPadding*2
	m.help.Width = msg.Width - borderEdges

	height := max(msg.Height-headerHeight-footerHeight-listChromeHeight, 3)
	m.list.resize(msg.Width-borderEdges, height)

	m.incidentViewer.Width = msg.Width - borderEdges
	m.incidentViewer.Height = max(msg.Height-headerHeight-footerHeight, 3)
	return m, nil
}

func (m model) authCheckedMsgHandler(msg authCheckedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.auth = authFailed
		m.authErr = msg.err
		m.setStatus("authentication check failed")
		return m, nil
	}
	cmd := m.authenticate()
	return m, cmd
}

// updatedIncidentListMsgHandler replaces the list. A failed refresh empties
// the list and reports the error on the status line.
func (m model) updatedIncidentListMsgHandler(msg updatedIncidentListMsg) (tea.Model, tea.Cmd) {
	m.apiInProgress = false
	if msg.err != nil {
		log.Error("tui.updatedIncidentListMsgHandler", "error", msg.err)
		m.list.setIncidents(nil)
		m.setStatus(fmt.Sprintf("failed to load incidents: %v", msg.err))
		return m, nil
	}
	m.list.setIncidents(msg.incidents)
	m.setStatus(fmt.Sprintf("showing %d/%d incidents", len(m.list.visible), len(m.list.all)))
	return m, nil
}

func (m model) gotIncidentMsgHandler(msg gotIncidentMsg) (tea.Model, tea.Cmd) {
	m.apiInProgress = false
	if msg.err != nil {
		if errors.Is(msg.err, snow.ErrNotFound) {
			m.clearSelectedIncident("not found")
		}
		return m, func() tea.Msg { return errMsg{msg.err} }
	}
	inc := msg.incident
	m.selectedIncident = &inc
	m.viewingIncident = true
	m.setStatus(fmt.Sprintf("got incident %s", inc.Number))
	return m, renderIncident(inc, m.instanceURL, m.markdownRenderer)
}

func (m model) renderedIncidentMsgHandler(msg renderedIncidentMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		return m, func() tea.Msg { return errMsg{msg.err} }
	}
	m.incidentViewer.SetContent(msg.content)
	m.incidentViewer.GotoTop()
	return m, nil
}

// incidentCreatedMsgHandler settles the form. The list is refreshed only
// when it is the active view.
func (m model) incidentCreatedMsgHandler(msg incidentCreatedMsg) (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{m.form.created(msg)}
	if msg.err == nil && m.view == listView {
		cmds = append(cmds, m.refreshIncidents())
	}
	return m, tea.Batch(cmds...)
}

func (m model) transitionedIncidentMsgHandler(msg transitionedIncidentMsg) (tea.Model, tea.Cmd) {
	m.apiInProgress = false
	if msg.err != nil {
		return m, func() tea.Msg { return errMsg{msg.err} }
	}
	m.setStatus(fmt.Sprintf("incident %sd", msg.transition))
	cmds := []tea.Cmd{m.refreshIncidents()}
	if m.viewingIncident && m.selectedIncident != nil && m.selectedIncident.ID == msg.id {
		cmds = append(cmds, getIncident(m.incidents, msg.id))
	}
	return m, tea.Batch(cmds...)
}

func (m model) keyMsgHandler(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	log.Debug("tui.keyMsgHandler", "key", msg.String())
	if key.Matches(msg, defaultKeyMap.ForceQuit) {
		return m, tea.Quit
	}

	switch {
	case m.err != nil:
		return switchErrorFocusMode(m, msg)

	case !m.authenticated():
		return switchAuthFocusMode(m, msg)
	}

	switch {
	case key.Matches(msg, defaultKeyMap.Create):
		cmd := m.switchView(createView)
		return m, cmd
	case key.Matches(msg, defaultKeyMap.List):
		cmd := m.switchView(listView)
		return m, cmd
	case key.Matches(msg, defaultKeyMap.Subscribe):
		cmd := m.switchView(subscribeView)
		return m, cmd
	}

	switch m.view {
	case createView:
		cmd := m.form.update(msg)
		return m, cmd

	case subscribeView:
		cmd := m.subscriptions.update(msg)
		return m, cmd

	case listView:
		switch {
		case m.viewingIncident:
			return switchIncidentFocusMode(m, msg)
		case m.list.searching:
			cmd := m.list.updateSearch(msg)
			return m, cmd
		default:
			return switchTableFocusMode(m, msg)
		}
	}

	return m, nil
}

// mouseMsgHandler routes pointer presses to the subscription pickers, which
// close their dropdowns on presses outside them.
func (m model) mouseMsgHandler(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.MouseLeft || !m.authenticated() || m.err != nil {
		return m, nil
	}
	if m.view == subscribeView {
		originX := style.Padded.GetPaddingLeft()
		originY := lipgloss.Height(m.renderHeader())
		m.subscriptions.click(originX, originY, msg.X, msg.Y)
	}
	return m, nil
}

// transitionCmd resolves or closes the current incident, if it can take
// the action.
func (m *model) transitionCmd(t transition) tea.Cmd {
	inc, ok := m.currentIncident()
	if !ok || inc.Terminal() {
		log.Debug("tui.transitionCmd", "transition", t, "ignored", inc.Number)
		return nil
	}
	m.apiInProgress = true
	m.setStatus(fmt.Sprintf("%s %s...", t, inc.Number))
	return transitionIncident(m.incidents, inc.ID, t, m.actor, m.now())
}

func (m *model) openBrowser() tea.Cmd {
	inc, ok := m.currentIncident()
	if !ok {
		return nil
	}
	return openBrowserCmd(m.launcher, snow.IncidentURL(m.instanceURL, inc.ID))
}

// switchTableFocusMode is the main mode of the list view
func switchTableFocusMode(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Help):
		m.toggleHelp()

	case key.Matches(msg, defaultKeyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, defaultKeyMap.Up):
		m.list.move(-1)

	case key.Matches(msg, defaultKeyMap.Down):
		m.list.move(1)

	case key.Matches(msg, defaultKeyMap.Enter):
		if inc, ok := m.list.highlighted(); ok {
			return m, func() tea.Msg { return getIncidentMsg(inc.ID) }
		}

	case key.Matches(msg, defaultKeyMap.Refresh):
		cmd := m.refreshIncidents()
		return m, cmd

	case key.Matches(msg, defaultKeyMap.Filter):
		m.list.cycleFilter()
		m.setStatus(fmt.Sprintf("filter: %s", m.list.filter))

	case key.Matches(msg, defaultKeyMap.Toggle):
		m.list.toggleMode()

	case key.Matches(msg, defaultKeyMap.Search):
		cmd := m.list.startSearch()
		return m, cmd

	case key.Matches(msg, defaultKeyMap.Resolve):
		cmd := m.transitionCmd(transitionResolve)
		return m, cmd

	case key.Matches(msg, defaultKeyMap.Close):
		cmd := m.transitionCmd(transitionClose)
		return m, cmd

	case key.Matches(msg, defaultKeyMap.Open):
		cmd := m.openBrowser()
		return m, cmd

	case msg.String() == "1":
		cmd := m.switchView(createView)
		return m, cmd

	case msg.String() == "3":
		cmd := m.switchView(subscribeView)
		return m, cmd
	}
	return m, nil
}

func switchIncidentFocusMode(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Help):
		m.toggleHelp()
		return m, nil

	// This un-sets the selected incident and returns to the table view
	case key.Matches(msg, defaultKeyMap.Back):
		m.clearSelectedIncident("back")
		return m, nil

	case key.Matches(msg, defaultKeyMap.Refresh):
		if m.selectedIncident != nil {
			id := m.selectedIncident.ID
			return m, func() tea.Msg { return getIncidentMsg(id) }
		}

	case key.Matches(msg, defaultKeyMap.Resolve):
		cmd := m.transitionCmd(transitionResolve)
		return m, cmd

	case key.Matches(msg, defaultKeyMap.Close):
		cmd := m.transitionCmd(transitionClose)
		return m, cmd

	case key.Matches(msg, defaultKeyMap.Open):
		cmd := m.openBrowser()
		return m, cmd
	}

	var cmd tea.Cmd
	m.incidentViewer, cmd = m.incidentViewer.Update(msg)
	return m, cmd
}

// switchAuthFocusMode handles keys while the console waits behind the
// authentication gate.
func switchAuthFocusMode(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, defaultKeyMap.Quit):
		return m, tea.Quit
	case key.Matches(msg, defaultKeyMap.Retry) && m.auth == authFailed:
		cmd := m.startAuth()
		return m, cmd
	}
	return m, nil
}

func switchErrorFocusMode(m model, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, defaultKeyMap.Back) {
		m.err = nil
	}
	return m, nil
}
