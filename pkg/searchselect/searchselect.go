// Package searchselect holds the state of a live-search picker: the query
// text, the candidates returned by the last accepted lookup, whether the
// dropdown is open and the committed selection.
//
// Lookups are asynchronous and may complete in any order. Every query the
// state issues carries a monotonically increasing tag and only the response
// to the most recently issued tag is applied, so the visible candidates
// always belong to the current query text.
package searchselect

// Candidate is one selectable lookup result.
type Candidate struct {
	ID       string
	Label    string
	Subtitle string
}

// Query is a lookup the caller must perform. Its Tag is passed back to
// Resolve or ResolveError with the result.
type Query struct {
	Tag  uint64
	Text string
}

// Bounds is the rectangle the picker was last rendered into, in screen
// cells.
type Bounds struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell x,y lies inside b.
func (b Bounds) Contains(x, y int) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}

// State is the picker state. The zero value is a closed picker with an
// empty query.
type State struct {
	Query      string
	Candidates []Candidate
	Open       bool
	Cursor     int
	Err        error

	// SelectedID is only ever set from a candidate the backend returned.
	SelectedID    string
	SelectedLabel string

	Bounds Bounds

	issued   uint64
	resolved uint64
}

func (s *State) issue() Query {
	s.issued++
	return Query{Tag: s.issued, Text: s.Query}
}

// Mount issues the initial lookup for the empty query without opening
// the dropdown.
func (s *State) Mount() Query {
	return s.issue()
}

// SetQuery replaces the query text, opens the dropdown and issues a lookup.
func (s *State) SetQuery(text string) Query {
	s.Query = text
	s.Open = true
	return s.issue()
}

// Type appends r to the query.
func (s *State) Type(r ...rune) Query {
	return s.SetQuery(s.Query + string(r))
}

// Backspace removes the last rune of the query.
func (s *State) Backspace() Query {
	q := []rune(s.Query)
	if len(q) > 0 {
		q = q[:len(q)-1]
	}
	return s.SetQuery(string(q))
}

// Querying reports whether a lookup for the current query is still
// outstanding.
func (s *State) Querying() bool {
	return s.resolved != s.issued
}

// Resolve applies a lookup result. It returns false and leaves the state
// untouched when tag belongs to a superseded query.
func (s *State) Resolve(tag uint64, candidates []Candidate) bool {
	if tag != s.issued {
		return false
	}
	s.resolved = tag
	s.Candidates = candidates
	s.Cursor = 0
	s.Err = nil
	return true
}

// ResolveError records a failed lookup. Candidates from the last accepted
// lookup stay visible.
func (s *State) ResolveError(tag uint64, err error) bool {
	if tag != s.issued {
		return false
	}
	s.resolved = tag
	s.Err = err
	return true
}

// Focus opens the dropdown with the last known candidates.
func (s *State) Focus() {
	s.Open = true
}

// Blur closes the dropdown, keeping the query and selection.
func (s *State) Blur() {
	s.Open = false
}

// PointerDown closes the dropdown when x,y lies outside Bounds. It reports
// whether the pointer landed inside.
func (s *State) PointerDown(x, y int) bool {
	if s.Bounds.Contains(x, y) {
		return true
	}
	s.Blur()
	return false
}

// MoveUp moves the cursor up by one, wrapping to the bottom.
func (s *State) MoveUp() {
	if len(s.Candidates) == 0 {
		return
	}
	s.Cursor--
	if s.Cursor < 0 {
		s.Cursor = len(s.Candidates) - 1
	}
}

// MoveDown moves the cursor down by one, wrapping to the top.
func (s *State) MoveDown() {
	if len(s.Candidates) == 0 {
		return
	}
	s.Cursor++
	if s.Cursor >= len(s.Candidates) {
		s.Cursor = 0
	}
}

// Select commits the candidate at index i, sets the query to its label and
// closes the dropdown. Out of range indexes and candidates without an id
// are refused.
func (s *State) Select(i int) bool {
	if i < 0 || i >= len(s.Candidates) || s.Candidates[i].ID == "" {
		return false
	}
	c := s.Candidates[i]
	s.SelectedID = c.ID
	s.SelectedLabel = c.Label
	s.Query = c.Label
	s.Cursor = i
	s.Open = false
	return true
}

// SelectCursor commits the highlighted candidate.
func (s *State) SelectCursor() bool {
	return s.Select(s.Cursor)
}

// Selected reports whether a candidate has been committed.
func (s *State) Selected() bool {
	return s.SelectedID != ""
}

// Reset clears query, candidates and selection and issues a fresh empty
// lookup. Responses to anything issued before the reset are discarded.
func (s *State) Reset() Query {
	bounds := s.Bounds
	issued := s.issued
	*s = State{Bounds: bounds, issued: issued, resolved: issued}
	return s.issue()
}
