package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestState(t *testing.T) {
	tests := []struct {
		code     string
		expected StateClass
	}{
		{code: "1", expected: StateClass{Label: "New", Visual: VisualStateNew, Bucket: FilterActive}},
		{code: "2", expected: StateClass{Label: "In Progress", Visual: VisualStateInProgress, Bucket: FilterActive}},
		{code: "3", expected: StateClass{Label: "In Progress", Visual: VisualStateInProgress, Bucket: FilterActive}},
		{code: "6", expected: StateClass{Label: "Resolved", Visual: VisualStateResolved, Bucket: FilterResolved, IsTerminal: true}},
		{code: "7", expected: StateClass{Label: "Closed", Visual: VisualStateClosed, Bucket: FilterClosed, IsTerminal: true}},
	}

	for _, test := range tests {
		t.Run("state "+test.code, func(t *testing.T) {
			assert.Equal(t, test.expected, State(test.code))
		})
	}
}

func TestStateTerminalOnlyForResolvedAndClosed(t *testing.T) {
	for _, code := range []string{"", "0", "1", "2", "3", "4", "5", "6", "7", "8", "99", "-1", "New", " 6 "} {
		expected := code == "6" || code == "7" || code == " 6 "
		assert.Equal(t, expected, IsTerminal(code), "code %q", code)
		assert.Equal(t, !expected, Actionable(code), "code %q", code)
	}
}

func TestUnknownStatesEqualNew(t *testing.T) {
	for _, code := range []string{"", "0", "4", "5", "8", "closed", "100"} {
		assert.Equal(t, State("1"), State(code), "code %q", code)
	}
}

func TestPriority(t *testing.T) {
	tests := []struct {
		code     string
		label    string
		visual   Visual
		severity string
	}{
		{"1", "Critical", VisualPriorityCritical, "Critical - Service is completely unavailable"},
		{"2", "High", VisualPriorityHigh, "High - Service is significantly impacted"},
		{"3", "Moderate", VisualPriorityModerate, "Moderate - Service is partially impacted"},
		{"4", "Low", VisualPriorityLow, "Low - Minor inconvenience or cosmetic issue"},
		{"5", "Planning", VisualPriorityPlanning, "Planning - Future enhancement or non-urgent request"},
	}

	for _, test := range tests {
		t.Run("priority "+test.code, func(t *testing.T) {
			p := Priority(test.code)
			assert.Equal(t, test.label, p.Label)
			assert.Equal(t, test.visual, p.Visual)
			assert.Equal(t, test.severity, p.Severity)
		})
	}

	for _, code := range []string{"", "0", "6", "urgent"} {
		assert.Equal(t, Priority("3"), Priority(code), "unknown priority %q defaults to Moderate", code)
	}
}

func TestFilter(t *testing.T) {
	assert.True(t, FilterAll.Matches("7"))
	assert.True(t, FilterActive.Matches("1"))
	assert.True(t, FilterActive.Matches("3"))
	assert.True(t, FilterActive.Matches("42"), "unknown codes classify as New")
	assert.False(t, FilterActive.Matches("6"))
	assert.True(t, FilterResolved.Matches("6"))
	assert.False(t, FilterResolved.Matches("7"))
	assert.True(t, FilterClosed.Matches("7"))

	assert.Equal(t, FilterActive, FilterAll.Next())
	assert.Equal(t, FilterAll, FilterClosed.Next())
	assert.Equal(t, FilterAll, Filter("bogus").Next())
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter(" Resolved ")
	assert.NoError(t, err)
	assert.Equal(t, FilterResolved, f)

	_, err = ParseFilter("open")
	assert.Error(t, err)
}

func TestLevelLabels(t *testing.T) {
	assert.Equal(t, "1 - High (Multiple users affected)", Impact("1"))
	assert.Equal(t, "3 - Low (Action can be delayed)", Urgency("3"))
	assert.Equal(t, "9", Impact("9"))
}
