package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clcollins/nowdesk/pkg/classify"
	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/rand"
	"github.com/clcollins/nowdesk/pkg/record"
	"github.com/clcollins/nowdesk/pkg/snow"
)

func testIncidentRecord(id, number, state string) record.Record {
	return record.Record{
		"sys_id":            record.Scalar(id),
		"number":            record.Scalar(number),
		"short_description": record.Scalar("summary of " + number),
		"incident_state":    record.Pair(state, classify.State(state).Label),
		"priority":          record.Pair("2", "2 - High"),
		"assigned_to":       record.Pair("u1", "Beth Anglin"),
	}
}

func testIncidentGateway() *snow.MockGateway {
	return snow.NewMockGateway("incident",
		testIncidentRecord("a1", "INC0000001", classify.StateNew),
		testIncidentRecord("a2", "INC0000002", classify.StateResolved),
		testIncidentRecord("a3", "INC0000003", classify.StateClosed),
	)
}

func TestListIncidents(t *testing.T) {
	tests := []struct {
		name     string
		filter   classify.Filter
		contains []string
		excludes []string
	}{
		{
			name:     "all incidents",
			filter:   classify.FilterAll,
			contains: []string{"INC0000001", "INC0000002", "INC0000003", "3 incidents (1 active, 1 resolved, 1 closed)"},
		},
		{
			name:     "active incidents only",
			filter:   classify.FilterActive,
			contains: []string{"INC0000001", "Beth Anglin", "High", "summary of INC0000001", "1 incidents (1 active, 0 resolved, 0 closed)"},
			excludes: []string{"INC0000002", "INC0000003"},
		},
		{
			name:     "closed incidents only",
			filter:   classify.FilterClosed,
			contains: []string{"INC0000003"},
			excludes: []string{"INC0000001", "INC0000002"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			require.NoError(t, listIncidents(context.Background(), testIncidentGateway(), tt.filter, out))
			for _, s := range tt.contains {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out.String(), s)
			}
		})
	}

	t.Run("no incidents", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.NoError(t, listIncidents(context.Background(), snow.NewMockGateway("incident"), classify.FilterAll, out))
		assert.Equal(t, "No incidents found.\n", out.String())
	})

	t.Run("list failures are returned", func(t *testing.T) {
		gw := &snow.MockGateway{Table: "incident", Err: snow.ErrMockError}
		err := listIncidents(context.Background(), gw, classify.FilterAll, &bytes.Buffer{})
		assert.ErrorIs(t, err, snow.ErrMockError)
	})
}

func TestIncidentTablesKeepFullValues(t *testing.T) {
	id := rand.SysID()
	number := rand.Number("INC")
	gw := snow.NewMockGateway("incident", testIncidentRecord(id, number, classify.StateInProgress))

	t.Run("list", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.NoError(t, listIncidents(context.Background(), gw, classify.FilterAll, out))
		for _, s := range []string{id, number, "In Progress", "Beth Anglin", "summary of " + number} {
			assert.Contains(t, out.String(), s)
		}
		assert.NotContains(t, out.String(), "…")
	})

	t.Run("get", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.NoError(t, showIncident(context.Background(), gw, id, out))
		for _, s := range []string{"Assigned to", number, "summary of " + number, "Beth Anglin"} {
			assert.Contains(t, out.String(), s)
		}
		assert.NotContains(t, out.String(), "…")
	})
}

func TestShowIncident(t *testing.T) {
	gw := testIncidentGateway()

	out := &bytes.Buffer{}
	require.NoError(t, showIncident(context.Background(), gw, "a1", out))
	for _, s := range []string{"INC0000001", "summary of INC0000001", "New", "Beth Anglin", incident.NotSpecified} {
		assert.Contains(t, out.String(), s)
	}

	err := showIncident(context.Background(), gw, "missing", &bytes.Buffer{})
	assert.ErrorIs(t, err, snow.ErrNotFound)
}

func TestTransitionIncidentCommand(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("resolves an active incident", func(t *testing.T) {
		gw := testIncidentGateway()
		out := &bytes.Buffer{}
		require.NoError(t, transitionIncident(context.Background(), gw, "a1", incident.ResolvePayload("jdoe", now), out))
		assert.Equal(t, "INC0000001 is now Resolved\n", out.String())

		calls := gw.Calls("Update")
		require.Len(t, calls, 1)
		assert.Equal(t, "a1", calls[0].ID)
		assert.Equal(t, incident.ResolvePayload("jdoe", now), calls[0].Payload)
	})

	t.Run("closes an active incident", func(t *testing.T) {
		gw := testIncidentGateway()
		out := &bytes.Buffer{}
		require.NoError(t, transitionIncident(context.Background(), gw, "a1", incident.ClosePayload("", now), out))
		assert.Equal(t, "INC0000001 is now Closed\n", out.String())
	})

	t.Run("refuses terminal incidents", func(t *testing.T) {
		gw := testIncidentGateway()
		for _, id := range []string{"a2", "a3"} {
			err := transitionIncident(context.Background(), gw, id, incident.ClosePayload("", now), &bytes.Buffer{})
			assert.ErrorContains(t, err, "is already")
		}
		assert.Empty(t, gw.Calls("Update"))
	})

	t.Run("update failures are returned", func(t *testing.T) {
		gw := testIncidentGateway()
		err := transitionIncident(context.Background(), gw, "err", incident.ResolvePayload("", now), &bytes.Buffer{})
		assert.ErrorIs(t, err, snow.ErrMockError)
	})
}

func TestDeleteIncident(t *testing.T) {
	gw := testIncidentGateway()

	out := &bytes.Buffer{}
	require.NoError(t, deleteIncident(context.Background(), gw, "a1", out))
	assert.Equal(t, "deleted incident a1\n", out.String())
	assert.Len(t, gw.Records(), 2)

	err := deleteIncident(context.Background(), gw, "a1", &bytes.Buffer{})
	assert.ErrorIs(t, err, snow.ErrNotFound)
}
