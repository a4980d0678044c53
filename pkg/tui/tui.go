package tui

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

type checkAuthMsg string

func (m model) Init() tea.Cmd {
	log.Debug("tui.Init")
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg { return checkAuthMsg("init") },
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.windowSizeMsgHandler(msg)

	case tea.KeyMsg:
		return m.keyMsgHandler(msg)

	case tea.MouseMsg:
		return m.mouseMsgHandler(msg)

	case errMsg:
		return m.errMsgHandler(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case checkAuthMsg:
		cmd := m.startAuth()
		return m, cmd

	case authCheckedMsg:
		return m.authCheckedMsgHandler(msg)

	case updateIncidentListMsg:
		cmd := m.refreshIncidents()
		return m, cmd

	case updatedIncidentListMsg:
		return m.updatedIncidentListMsgHandler(msg)

	case getIncidentMsg:
		m.apiInProgress = true
		m.setStatus("getting incident " + string(msg) + "...")
		return m, getIncident(m.incidents, string(msg))

	case gotIncidentMsg:
		return m.gotIncidentMsgHandler(msg)

	case renderedIncidentMsg:
		return m.renderedIncidentMsgHandler(msg)

	case incidentCreatedMsg:
		return m.incidentCreatedMsgHandler(msg)

	case transitionedIncidentMsg:
		return m.transitionedIncidentMsgHandler(msg)

	case gotCandidatesMsg:
		m.subscriptions.candidates(msg)
		return m, nil

	case subscriptionCreatedMsg:
		cmd := m.subscriptions.created(msg)
		return m, cmd

	case browserFinishedMsg:
		if msg.err != nil {
			return m, func() tea.Msg { return errMsg{msg.err} }
		}
		return m, nil
	}

	return m, nil
}
