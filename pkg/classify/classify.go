// Package classify maps raw incident codes onto the buckets the console
// renders: badge styles, labels, filter groups and action eligibility.
package classify

import (
	"fmt"
	"strings"
)

// Visual is the style class a badge is rendered with.
type Visual string

const (
	VisualStateNew        Visual = "state-new"
	VisualStateInProgress Visual = "state-progress"
	VisualStateResolved   Visual = "state-resolved"
	VisualStateClosed     Visual = "state-closed"

	VisualPriorityCritical Visual = "priority-critical"
	VisualPriorityHigh     Visual = "priority-high"
	VisualPriorityModerate Visual = "priority-moderate"
	VisualPriorityLow      Visual = "priority-low"
	VisualPriorityPlanning Visual = "priority-planning"
)

// Filter is the list filter bucket an incident state falls into.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterActive   Filter = "active"
	FilterResolved Filter = "resolved"
	FilterClosed   Filter = "closed"
)

// Filters lists the filter buckets in the order the list view cycles them.
var Filters = []Filter{FilterAll, FilterActive, FilterResolved, FilterClosed}

// ParseFilter converts user input into a Filter.
func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Filters {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("classify.ParseFilter(): unknown filter %q, expected one of %v", s, Filters)
}

// Next returns the filter following f, wrapping around.
func (f Filter) Next() Filter {
	for i, known := range Filters {
		if f == known {
			return Filters[(i+1)%len(Filters)]
		}
	}
	return FilterAll
}

// Matches reports whether an incident in the given state belongs to f.
func (f Filter) Matches(stateCode string) bool {
	if f == FilterAll {
		return true
	}
	return State(stateCode).Bucket == f
}

// StateClass describes how an incident state is presented.
type StateClass struct {
	Label      string
	Visual     Visual
	Bucket     Filter
	IsTerminal bool
}

var (
	stateNew        = StateClass{Label: "New", Visual: VisualStateNew, Bucket: FilterActive}
	stateInProgress = StateClass{Label: "In Progress", Visual: VisualStateInProgress, Bucket: FilterActive}
	stateResolved   = StateClass{Label: "Resolved", Visual: VisualStateResolved, Bucket: FilterResolved, IsTerminal: true}
	stateClosed     = StateClass{Label: "Closed", Visual: VisualStateClosed, Bucket: FilterClosed, IsTerminal: true}

	states = map[string]StateClass{
		StateNew:           stateNew,
		StateInProgress:    stateInProgress,
		StateInProgressAlt: stateInProgress,
		StateResolved:      stateResolved,
		StateClosed:        stateClosed,
	}
)

// Incident state codes.
const (
	StateNew           = "1"
	StateInProgress    = "2"
	StateInProgressAlt = "3"
	StateResolved      = "6"
	StateClosed        = "7"
)

// State classifies an incident state code. Unknown codes are treated as New.
func State(code string) StateClass {
	if c, ok := states[strings.TrimSpace(code)]; ok {
		return c
	}
	return stateNew
}

// IsTerminal reports whether no further workflow action applies.
func IsTerminal(code string) bool {
	return State(code).IsTerminal
}

// Actionable reports whether resolve and close may be offered.
func Actionable(code string) bool {
	return !IsTerminal(code)
}

// PriorityClass describes how an incident priority is presented.
type PriorityClass struct {
	Label    string
	Visual   Visual
	Severity string
}

var priorities = map[string]PriorityClass{
	"1": {Label: "Critical", Visual: VisualPriorityCritical, Severity: "Critical - Service is completely unavailable"},
	"2": {Label: "High", Visual: VisualPriorityHigh, Severity: "High - Service is significantly impacted"},
	"3": {Label: "Moderate", Visual: VisualPriorityModerate, Severity: "Moderate - Service is partially impacted"},
	"4": {Label: "Low", Visual: VisualPriorityLow, Severity: "Low - Minor inconvenience or cosmetic issue"},
	"5": {Label: "Planning", Visual: VisualPriorityPlanning, Severity: "Planning - Future enhancement or non-urgent request"},
}

// PriorityCodes lists the selectable priority codes in order.
var PriorityCodes = []string{"1", "2", "3", "4", "5"}

// Priority classifies a priority code. Unknown codes are treated as Moderate.
func Priority(code string) PriorityClass {
	if c, ok := priorities[strings.TrimSpace(code)]; ok {
		return c
	}
	return priorities["3"]
}

// LevelCodes lists the impact and urgency codes in order.
var LevelCodes = []string{"1", "2", "3"}

var impacts = map[string]string{
	"1": "High (Multiple users affected)",
	"2": "Medium (Some users affected)",
	"3": "Low (Single user affected)",
}

var urgencies = map[string]string{
	"1": "High (Immediate action required)",
	"2": "Medium (Action required soon)",
	"3": "Low (Action can be delayed)",
}

// Impact returns the selector label for an impact code.
func Impact(code string) string {
	if l, ok := impacts[code]; ok {
		return code + " - " + l
	}
	return code
}

// Urgency returns the selector label for an urgency code.
func Urgency(code string) string {
	if l, ok := urgencies[code]; ok {
		return code + " - " + l
	}
	return code
}

// Category is a selectable incident category.
type Category struct {
	Value string
	Label string
}

// Categories lists the categories offered on the incident form. The empty
// value means no category.
var Categories = []Category{
	{Value: "", Label: "Select a category"},
	{Value: "inquiry", Label: "Inquiry / Help"},
	{Value: "software", Label: "Software"},
	{Value: "hardware", Label: "Hardware"},
	{Value: "network", Label: "Network"},
	{Value: "database", Label: "Database"},
	{Value: "security", Label: "Security"},
	{Value: "access", Label: "Access / Authentication"},
}
