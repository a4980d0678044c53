package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/muesli/reflow/truncate"

	"github.com/clcollins/nowdesk/pkg/incident"
	"github.com/clcollins/nowdesk/pkg/tui/style"
)

const (
	initialTableHeight = 20
	initialTableWidth  = 120

	numberWidth   = 12
	stateWidth    = 12
	priorityWidth = 10
	assigneeWidth = 20
	updatedWidth  = 22
)

func incidentTableColumns(width int) []table.Column {
	summary := width - numberWidth - stateWidth - priorityWidth - assigneeWidth - updatedWidth - 12
	if summary < 20 {
		summary = 20
	}
	return []table.Column{
		{Title: "Number", Width: numberWidth},
		{Title: "Summary", Width: summary},
		{Title: "State", Width: stateWidth},
		{Title: "Priority", Width: priorityWidth},
		{Title: "Assigned To", Width: assigneeWidth},
		{Title: "Updated", Width: updatedWidth},
	}
}

func newIncidentTable() table.Model {
	t := table.New(
		table.WithColumns(incidentTableColumns(initialTableWidth)),
		table.WithRows([]table.Row{}),
		table.WithFocused(true),
		table.WithHeight(initialTableHeight),
	)
	t.SetStyles(style.Table)
	return t
}

func incidentRow(inc incident.Incident) table.Row {
	return table.Row{
		inc.Number,
		inc.Title(),
		inc.StateClass().Label,
		inc.PriorityClass().Label,
		truncate.StringWithTail(inc.Assignee(), assigneeWidth, ellipsis),
		incident.FormatTimestamp(inc.UpdatedAt),
	}
}

func incidentRows(incs []incident.Incident) []table.Row {
	rows := make([]table.Row, 0, len(incs))
	for _, inc := range incs {
		rows = append(rows, incidentRow(inc))
	}
	return rows
}
