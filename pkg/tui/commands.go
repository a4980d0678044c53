package tui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/launcher"
	"github.com/clcollins/nowdesk/pkg/record"
	"github.com/clcollins/nowdesk/pkg/searchselect"
	"github.com/clcollins/nowdesk/pkg/snow"
)

const (
	checkingAuthStatus     = "Checking authentication..."
	loadingIncidentsStatus = "Refreshing..."
	submittingStatus       = "Submitting..."
)

// Type and function for capturing error messages with tea.Msg
type errMsg struct{ error }

// Searcher answers search-select lookups.
type Searcher interface {
	Search(ctx context.Context, text string) ([]searchselect.Candidate, error)
}

// Subscriber creates notification subscriptions.
type Subscriber interface {
	Create(ctx context.Context, sub snow.Subscription) (record.Record, error)
}

// ProbeFunc checks that the session is authenticated.
type ProbeFunc func(ctx context.Context) error

type authCheckedMsg struct {
	err error
}

func checkAuth(probe ProbeFunc) tea.Cmd {
	return func() tea.Msg {
		err := probe(context.Background())
		log.Debug("tui.checkAuth", "authenticated", err == nil, "error", err)
		return authCheckedMsg{err}
	}
}

type updateIncidentListMsg string
type updatedIncidentListMsg struct {
	incidents []incident.Incident
	err       error
}

func updateIncidentList(gw snow.RecordGateway) tea.Cmd {
	return func() tea.Msg {
		r, err := gw.List(context.Background(), nil)
		if err != nil {
			return updatedIncidentListMsg{nil, err}
		}
		incs := incident.FromRecords(r)
		log.Debug("tui.updateIncidentList", "incidents", len(incs))
		return updatedIncidentListMsg{incs, nil}
	}
}

type getIncidentMsg string
type gotIncidentMsg struct {
	incident incident.Incident
	err      error
}

func getIncident(gw snow.RecordGateway, id string) tea.Cmd {
	return func() tea.Msg {
		r, err := gw.Get(context.Background(), id)
		if err != nil {
			return gotIncidentMsg{err: err}
		}
		return gotIncidentMsg{incident.FromRecord(r), nil}
	}
}

type incidentCreatedMsg struct {
	record record.Record
	err    error
}

func createIncident(gw snow.RecordGateway, f incident.Fields) tea.Cmd {
	payload := f.Payload()
	return func() tea.Msg {
		r, err := gw.Create(context.Background(), payload)
		if err != nil {
			log.Error("tui.createIncident", "error", err)
		}
		return incidentCreatedMsg{r, err}
	}
}

// transition names an incident workflow update.
type transition string

const (
	transitionResolve transition = "resolve"
	transitionClose   transition = "close"
)

type transitionedIncidentMsg struct {
	id         string
	transition transition
	err        error
}

func transitionIncident(gw snow.RecordGateway, id string, t transition, actor string, now time.Time) tea.Cmd {
	var payload map[string]any
	switch t {
	case transitionResolve:
		payload = incident.ResolvePayload(actor, now)
	case transitionClose:
		payload = incident.ClosePayload(actor, now)
	}
	return func() tea.Msg {
		_, err := gw.Update(context.Background(), id, payload)
		if err != nil {
			err = fmt.Errorf("failed to %s incident: %w", t, err)
		}
		return transitionedIncidentMsg{id, t, err}
	}
}

// pickerID names one of the search-select pickers.
type pickerID string

const (
	userPicker         pickerID = "user"
	notificationPicker pickerID = "notification"
)

type gotCandidatesMsg struct {
	picker     pickerID
	tag        uint64
	candidates []searchselect.Candidate
	err        error
}

func lookupCandidates(s Searcher, picker pickerID, q searchselect.Query) tea.Cmd {
	return func() tea.Msg {
		c, err := s.Search(context.Background(), q.Text)
		return gotCandidatesMsg{picker, q.Tag, c, err}
	}
}

type subscriptionCreatedMsg struct {
	err error
}

func createSubscription(s Subscriber, sub snow.Subscription) tea.Cmd {
	return func() tea.Msg {
		_, err := s.Create(context.Background(), sub)
		if err != nil {
			log.Error("tui.createSubscription", "error", err)
		}
		return subscriptionCreatedMsg{err}
	}
}

type renderedIncidentMsg struct {
	content string
	err     error
}

func renderIncident(inc incident.Incident, instanceURL string, r markdownRenderer) tea.Cmd {
	return func() tea.Msg {
		md, err := incidentMarkdown(inc, instanceURL)
		if err != nil {
			return renderedIncidentMsg{"", err}
		}
		if r == nil {
			return renderedIncidentMsg{md, nil}
		}
		content, err := r.Render(md)
		return renderedIncidentMsg{content, err}
	}
}

type browserFinishedMsg struct {
	err error
}

func openBrowserCmd(l launcher.BrowserLauncher, url string) tea.Cmd {
	if !l.Enabled {
		return func() tea.Msg {
			return browserFinishedMsg{fmt.Errorf("tui.openBrowserCmd(): no browser command configured")}
		}
	}

	command := l.BuildCommand(url)
	return func() tea.Msg {
		c := exec.Command(command[0], command[1:]...)
		log.Debug("tui.openBrowserCmd", "command", c.String())

		var stderr bytes.Buffer
		c.Stderr = &stderr
		c.Stdout = io.Discard
		if err := c.Run(); err != nil {
			return browserFinishedMsg{fmt.Errorf("tui.openBrowserCmd(): %w: %s", err, stderr.String())}
		}
		return browserFinishedMsg{}
	}
}
