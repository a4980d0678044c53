// Package incident projects raw incident records into the view the console
// renders and builds the payloads for incident mutations.
package incident

import (
	"strings"
	"time"

	"github.com/clcollins/nowdesk/pkg/classify"
	"github.com/clcollins/nowdesk/pkg/record"
)

const (
	Unassigned   = "Unassigned"
	NotSpecified = "Not specified"

	DefaultActor = "System"
	CloseCode    = "Solved (Permanently)"
	CloseNotes   = "Incident closed via incident management console"
)

// Incident is the normalized projection of an incident record. Display
// fields hold what the instance renders for humans, code fields hold the
// raw values classification works on. Empty optional strings mean absent.
type Incident struct {
	ID               string
	Number           string
	ShortDescription string
	Description      string

	State    string
	Priority string
	Impact   string
	Urgency  string

	StateLabel    string
	PriorityLabel string

	AssignedTo      string
	CallerID        string
	AssignmentGroup string
	OpenedBy        string
	Category        string
	Subcategory     string

	CreatedAt string
	UpdatedAt string
}

// FromRecord builds an Incident from either field representation.
func FromRecord(r record.Record) Incident {
	return Incident{
		ID:               r.ID(),
		Number:           r.DisplayOr("number", ""),
		ShortDescription: r.DisplayOr("short_description", ""),
		Description:      r.DisplayOr("description", ""),

		State:    strings.TrimSpace(r.ValueOr("incident_state", "")),
		Priority: strings.TrimSpace(r.ValueOr("priority", "")),
		Impact:   strings.TrimSpace(r.ValueOr("impact", "")),
		Urgency:  strings.TrimSpace(r.ValueOr("urgency", "")),

		StateLabel:    r.DisplayOr("incident_state", ""),
		PriorityLabel: r.DisplayOr("priority", ""),

		AssignedTo:      r.DisplayOr("assigned_to", ""),
		CallerID:        r.DisplayOr("caller_id", ""),
		AssignmentGroup: r.DisplayOr("assignment_group", ""),
		OpenedBy:        r.DisplayOr("opened_by", ""),
		Category:        r.DisplayOr("category", ""),
		Subcategory:     r.DisplayOr("subcategory", ""),

		CreatedAt: r.DisplayOr("sys_created_on", ""),
		UpdatedAt: r.DisplayOr("sys_updated_on", ""),
	}
}

// FromRecords projects a list response.
func FromRecords(records []record.Record) []Incident {
	out := make([]Incident, 0, len(records))
	for _, r := range records {
		out = append(out, FromRecord(r))
	}
	return out
}

func (i Incident) StateClass() classify.StateClass {
	return classify.State(i.State)
}

func (i Incident) PriorityClass() classify.PriorityClass {
	return classify.Priority(i.Priority)
}

// Terminal reports whether the incident is resolved or closed.
func (i Incident) Terminal() bool {
	return classify.IsTerminal(i.State)
}

// Assignee returns the assignee or Unassigned.
func (i Incident) Assignee() string {
	if i.AssignedTo == "" {
		return Unassigned
	}
	return i.AssignedTo
}

// Title is the short description, or the number when there is none.
func (i Incident) Title() string {
	if i.ShortDescription != "" {
		return i.ShortDescription
	}
	return i.Number
}

// Filter returns the incidents in bucket f, keeping their order. FilterAll
// returns incs unchanged.
func Filter(incs []Incident, f classify.Filter) []Incident {
	if f == classify.FilterAll {
		return incs
	}
	out := make([]Incident, 0, len(incs))
	for _, i := range incs {
		if f.Matches(i.State) {
			out = append(out, i)
		}
	}
	return out
}

// Stats are the badge counts shown above the list.
type Stats struct {
	Total    int
	Active   int
	Resolved int
	Closed   int
}

// Count computes Stats over the unfiltered list.
func Count(incs []Incident) Stats {
	s := Stats{Total: len(incs)}
	for _, i := range incs {
		switch classify.State(i.State).Bucket {
		case classify.FilterActive:
			s.Active++
		case classify.FilterResolved:
			s.Resolved++
		case classify.FilterClosed:
			s.Closed++
		}
	}
	return s
}

// Layouts the instance is known to send timestamps in.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006 03:04:05 PM",
	"01-02-2006 15:04:05",
	"2006-01-02",
}

const displayLayout = "Jan 2, 2006, 03:04 PM"

// FormatTimestamp renders a backend timestamp for display. Empty input
// yields NotSpecified and unparseable input is returned as is.
func FormatTimestamp(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return NotSpecified
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(displayLayout)
		}
	}
	return s
}

func actorOrDefault(actor string) string {
	if strings.TrimSpace(actor) == "" {
		return DefaultActor
	}
	return actor
}

func timestamp(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}

// ResolvePayload is the partial update that resolves an incident.
func ResolvePayload(actor string, now time.Time) map[string]any {
	return map[string]any{
		"incident_state": classify.StateResolved,
		"resolved_by":    actorOrDefault(actor),
		"resolved_at":    timestamp(now),
	}
}

// ClosePayload is the partial update that closes an incident.
func ClosePayload(actor string, now time.Time) map[string]any {
	return map[string]any{
		"incident_state": classify.StateClosed,
		"close_code":     CloseCode,
		"close_notes":    CloseNotes,
		"closed_by":      actorOrDefault(actor),
		"closed_at":      timestamp(now),
	}
}
