package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clcollins/nowdesk/pkg/classify"
	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/launcher"
	"github.com/clcollins/nowdesk/pkg/record"
	"github.com/clcollins/nowdesk/pkg/searchselect"
	"github.com/clcollins/nowdesk/pkg/snow"
)

func testIncidentRecord(id, number, state string) record.Record {
	return record.Record{
		"sys_id":            record.Scalar(id),
		"number":            record.Scalar(number),
		"short_description": record.Scalar("summary of " + number),
		"incident_state":    record.Pair(state, classify.State(state).Label),
		"priority":          record.Pair("3", "3 - Moderate"),
	}
}

// fakeSearcher answers lookups from a fixed candidate list, or fails.
type fakeSearcher struct {
	candidates []searchselect.Candidate
	err        error
	queries    []string
}

func (f *fakeSearcher) Search(ctx context.Context, text string) ([]searchselect.Candidate, error) {
	f.queries = append(f.queries, text)
	return f.candidates, f.err
}

// fakeSubscriber records the subscriptions it is asked to create.
type fakeSubscriber struct {
	created []snow.Subscription
	err     error
}

func (f *fakeSubscriber) Create(ctx context.Context, sub snow.Subscription) (record.Record, error) {
	f.created = append(f.created, sub)
	if f.err != nil {
		return nil, f.err
	}
	return record.Record{"sys_id": record.Scalar("sub1")}, nil
}

type fakeRenderer struct{}

func (fakeRenderer) Render(s string) (string, error) { return "rendered:" + s, nil }

func TestUpdateIncidentList(t *testing.T) {
	records := []record.Record{
		testIncidentRecord("a1", "INC0000001", classify.StateNew),
		testIncidentRecord("a2", "INC0000002", classify.StateResolved),
	}

	tests := []struct {
		name     string
		gateway  *snow.MockGateway
		expected updatedIncidentListMsg
	}{
		{
			name:     "return updatedIncidentListMsg with the projected incidents",
			gateway:  snow.NewMockGateway("incident", records...),
			expected: updatedIncidentListMsg{incidents: incident.FromRecords(records)},
		},
		{
			name:     "return updatedIncidentListMsg with non-nil error if the list fails",
			gateway:  &snow.MockGateway{Table: "incident", Err: snow.ErrMockError},
			expected: updatedIncidentListMsg{err: snow.ErrMockError},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cmd := updateIncidentList(test.gateway)
			assert.Equal(t, test.expected, cmd())
		})
	}
}

func TestGetIncident(t *testing.T) {
	rec := testIncidentRecord("a1", "INC0000001", classify.StateNew)
	gw := snow.NewMockGateway("incident", rec)

	tests := []struct {
		name     string
		id       string
		expected gotIncidentMsg
	}{
		{
			name:     "return gotIncidentMsg with the incident",
			id:       "a1",
			expected: gotIncidentMsg{incident: incident.FromRecord(rec)},
		},
		{
			name:     "return gotIncidentMsg with non-nil error if the get fails",
			id:       "err",
			expected: gotIncidentMsg{err: snow.ErrMockError},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, getIncident(gw, test.id)())
		})
	}

	t.Run("missing incidents are ErrNotFound", func(t *testing.T) {
		msg := getIncident(gw, "missing")().(gotIncidentMsg)
		assert.ErrorIs(t, msg.err, snow.ErrNotFound)
	})
}

func TestCreateIncident(t *testing.T) {
	gw := snow.NewMockGateway("incident")
	fields := incident.NewFields()
	fields.ShortDescription = "Email down"

	msg := createIncident(gw, fields)().(incidentCreatedMsg)
	require.NoError(t, msg.err)
	assert.NotEmpty(t, msg.record.ID())

	calls := gw.Calls("Create")
	require.Len(t, calls, 1)
	assert.Equal(t, map[string]any{
		"short_description": "Email down",
		"priority":          "3",
		"impact":            "3",
		"urgency":           "3",
	}, calls[0].Payload)

	gw.Err = snow.ErrMockError
	msg = createIncident(gw, fields)().(incidentCreatedMsg)
	assert.ErrorIs(t, msg.err, snow.ErrMockError)
}

func TestTransitionIncident(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	gw := snow.NewMockGateway("incident", testIncidentRecord("a1", "INC0000001", classify.StateNew))

	tests := []struct {
		name       string
		id         string
		transition transition
		payload    map[string]any
		err        error
	}{
		{
			name:       "resolve sends the resolve payload",
			id:         "a1",
			transition: transitionResolve,
			payload:    incident.ResolvePayload("jdoe", now),
		},
		{
			name:       "close sends the close payload",
			id:         "a1",
			transition: transitionClose,
			payload:    incident.ClosePayload("jdoe", now),
		},
		{
			name:       "return transitionedIncidentMsg with non-nil error if the update fails",
			id:         "err",
			transition: transitionResolve,
			payload:    incident.ResolvePayload("jdoe", now),
			err:        snow.ErrMockError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			msg := transitionIncident(gw, test.id, test.transition, "jdoe", now)().(transitionedIncidentMsg)
			assert.Equal(t, test.id, msg.id)
			assert.Equal(t, test.transition, msg.transition)

			calls := gw.Calls("Update")
			require.NotEmpty(t, calls)
			assert.Equal(t, test.payload, calls[len(calls)-1].Payload)

			if test.err != nil {
				assert.ErrorIs(t, msg.err, test.err)
				assert.True(t, strings.HasPrefix(msg.err.Error(), "failed to "+string(test.transition)+" incident"))
				return
			}
			assert.NoError(t, msg.err)
		})
	}
}

func TestLookupCandidates(t *testing.T) {
	candidates := []searchselect.Candidate{{ID: "u1", Label: "Alice"}}
	lookupErr := errors.New("boom")

	tests := []struct {
		name     string
		searcher *fakeSearcher
		expected gotCandidatesMsg
	}{
		{
			name:     "return gotCandidatesMsg carrying the query tag",
			searcher: &fakeSearcher{candidates: candidates},
			expected: gotCandidatesMsg{picker: userPicker, tag: 7, candidates: candidates},
		},
		{
			name:     "return gotCandidatesMsg with non-nil error if the lookup fails",
			searcher: &fakeSearcher{err: lookupErr},
			expected: gotCandidatesMsg{picker: userPicker, tag: 7, err: lookupErr},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			cmd := lookupCandidates(test.searcher, userPicker, searchselect.Query{Tag: 7, Text: "al"})
			assert.Equal(t, test.expected, cmd())
			assert.Equal(t, []string{"al"}, test.searcher.queries)
		})
	}
}

func TestCreateSubscription(t *testing.T) {
	sub := snow.Subscription{User: "u1", Notification: "n1", Device: "email"}

	s := &fakeSubscriber{}
	assert.Equal(t, subscriptionCreatedMsg{}, createSubscription(s, sub)())
	assert.Equal(t, []snow.Subscription{sub}, s.created)

	s = &fakeSubscriber{err: snow.ErrMockError}
	assert.Equal(t, subscriptionCreatedMsg{err: snow.ErrMockError}, createSubscription(s, sub)())
}

func TestCheckAuth(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	rejected := func(ctx context.Context) error { return snow.ErrMockError }

	assert.Equal(t, authCheckedMsg{}, checkAuth(ok)())
	assert.Equal(t, authCheckedMsg{err: snow.ErrMockError}, checkAuth(rejected)())
}

func TestRenderIncident(t *testing.T) {
	inc := incident.FromRecord(testIncidentRecord("a1", "INC0000001", classify.StateNew))

	t.Run("without a renderer the markdown is returned", func(t *testing.T) {
		msg := renderIncident(inc, "https://example.service-now.com", nil)().(renderedIncidentMsg)
		require.NoError(t, msg.err)
		assert.Contains(t, msg.content, "# INC0000001 - New")
		assert.Contains(t, msg.content, "https://example.service-now.com/incident.do?sys_id=a1")
		assert.Contains(t, msg.content, "Assigned to: **Unassigned**")
	})

	t.Run("the renderer is applied", func(t *testing.T) {
		msg := renderIncident(inc, "https://example.service-now.com", fakeRenderer{})().(renderedIncidentMsg)
		require.NoError(t, msg.err)
		assert.True(t, strings.HasPrefix(msg.content, "rendered:# INC0000001"))
	})
}

func TestOpenBrowserCmd(t *testing.T) {
	msg := openBrowserCmd(launcher.BrowserLauncher{}, "https://example.service-now.com")().(browserFinishedMsg)
	assert.Error(t, msg.err)
}
