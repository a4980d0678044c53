package searchselect

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	aResults  = []Candidate{{ID: "u1", Label: "Abel Tuter"}, {ID: "u2", Label: "Bud Richman"}}
	abResults = []Candidate{{ID: "u1", Label: "Abel Tuter", Subtitle: "abel@example.com"}}
)

func TestLatestQueryWins(t *testing.T) {
	tests := []struct {
		name  string
		order []string
	}{
		{name: "responses in order", order: []string{"a", "ab"}},
		{name: "responses reversed", order: []string{"ab", "a"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			s := &State{}
			qa := s.Type('a')
			qab := s.Type('b')
			assert.Equal(t, "a", qa.Text)
			assert.Equal(t, "ab", qab.Text)
			assert.Greater(t, qab.Tag, qa.Tag)
			assert.True(t, s.Querying())

			for _, q := range test.order {
				switch q {
				case "a":
					assert.False(t, s.Resolve(qa.Tag, aResults))
				case "ab":
					assert.True(t, s.Resolve(qab.Tag, abResults))
				}
			}

			assert.Equal(t, abResults, s.Candidates)
			assert.Equal(t, "ab", s.Query)
			assert.True(t, s.Open)
			assert.False(t, s.Querying())
		})
	}
}

func TestStaleErrorIsDiscarded(t *testing.T) {
	s := &State{}
	q1 := s.SetQuery("ab")
	q2 := s.Backspace()
	assert.Equal(t, "a", q2.Text)

	assert.True(t, s.Resolve(q2.Tag, aResults))
	assert.False(t, s.ResolveError(q1.Tag, errors.New("boom")))
	assert.NoError(t, s.Err)
	assert.Equal(t, aResults, s.Candidates)

	q3 := s.Type('x')
	assert.True(t, s.ResolveError(q3.Tag, errors.New("boom")))
	assert.Error(t, s.Err)
	assert.Equal(t, aResults, s.Candidates, "failed lookups keep the last candidates")
}

func TestFocusOpensWithLastCandidates(t *testing.T) {
	s := &State{}
	q := s.Mount()
	assert.False(t, s.Open, "mount does not open the dropdown")
	s.Resolve(q.Tag, aResults)

	s.Focus()
	assert.True(t, s.Open)
	assert.Equal(t, aResults, s.Candidates)

	empty := &State{}
	empty.Focus()
	assert.True(t, empty.Open)
	assert.Empty(t, empty.Candidates)
}

func TestSelectCommitsLabelAndCloses(t *testing.T) {
	s := &State{}
	q := s.Type('b')
	s.Resolve(q.Tag, aResults)

	s.MoveDown()
	assert.True(t, s.SelectCursor())
	assert.Equal(t, "u2", s.SelectedID)
	assert.Equal(t, "Bud Richman", s.SelectedLabel)
	assert.Equal(t, "Bud Richman", s.Query)
	assert.False(t, s.Open)
	assert.True(t, s.Selected())
}

func TestSelectRefusesUnknownCandidates(t *testing.T) {
	s := &State{}
	q := s.Type('g')
	s.Resolve(q.Tag, []Candidate{{ID: "", Label: "Ghost"}})

	assert.False(t, s.Select(0))
	assert.False(t, s.Select(5))
	assert.False(t, s.Select(-1))
	assert.Empty(t, s.SelectedID)
	assert.False(t, s.Selected())
}

func TestTypingAfterSelectionKeepsSelection(t *testing.T) {
	s := &State{}
	q := s.Type('a')
	s.Resolve(q.Tag, aResults)
	s.Select(0)

	s.Type('x')
	assert.Equal(t, "u1", s.SelectedID)
	assert.Equal(t, "Abel Tuterx", s.Query)
	assert.True(t, s.Open)
}

func TestPointerDown(t *testing.T) {
	s := &State{Bounds: Bounds{X: 2, Y: 5, Width: 30, Height: 6}}
	q := s.Type('a')
	s.Resolve(q.Tag, aResults)
	s.Select(0)
	s.Focus()

	assert.True(t, s.PointerDown(2, 5))
	assert.True(t, s.Open)
	assert.True(t, s.PointerDown(31, 10))
	assert.True(t, s.Open)

	assert.False(t, s.PointerDown(32, 10))
	assert.False(t, s.Open)
	assert.Equal(t, "u1", s.SelectedID)
	assert.Equal(t, "Abel Tuter", s.Query)

	s.Focus()
	assert.False(t, s.PointerDown(10, 11))
	assert.False(t, s.Open)
}

func TestBlurPreservesSelectionAndText(t *testing.T) {
	s := &State{}
	q := s.Type('a')
	s.Resolve(q.Tag, aResults)
	s.Select(1)
	s.Focus()
	s.Blur()
	assert.False(t, s.Open)
	assert.Equal(t, "u2", s.SelectedID)
	assert.Equal(t, "Bud Richman", s.Query)
}

func TestCursorWraps(t *testing.T) {
	s := &State{}
	s.MoveDown()
	assert.Equal(t, 0, s.Cursor)

	q := s.Type('a')
	s.Resolve(q.Tag, aResults)
	s.MoveUp()
	assert.Equal(t, 1, s.Cursor)
	s.MoveDown()
	assert.Equal(t, 0, s.Cursor)
}

func TestResetDiscardsInFlightLookups(t *testing.T) {
	s := &State{Bounds: Bounds{Width: 10, Height: 1}}
	q := s.Type('a')
	s.Resolve(q.Tag, aResults)
	s.Select(0)
	pending := s.Type('b')

	fresh := s.Reset()
	assert.Empty(t, s.Query)
	assert.Empty(t, s.SelectedID)
	assert.Empty(t, s.SelectedLabel)
	assert.Empty(t, s.Candidates)
	assert.False(t, s.Open)
	assert.Equal(t, Bounds{Width: 10, Height: 1}, s.Bounds)
	assert.Greater(t, fresh.Tag, pending.Tag)

	assert.False(t, s.Resolve(pending.Tag, abResults))
	assert.True(t, s.Resolve(fresh.Tag, aResults))
}
