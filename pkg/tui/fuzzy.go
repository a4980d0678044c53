package tui

import (
	"sort"
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"

	"github.com/clcollins/nowdesk/pkg/incident"
)

var fuzzyInit sync.Once

// fuzzyScore matches pattern against text the way fzf does, ignoring case.
// ok is false when the pattern does not match.
func fuzzyScore(text, pattern string) (score int, ok bool) {
	fuzzyInit.Do(func() { algo.Init("default") })

	chars := util.ToChars([]byte(text))
	p := []rune(strings.ToLower(pattern))
	res, _ := algo.FuzzyMatchV2(false, true, true, &chars, p, false, nil)
	if res.Start < 0 {
		return 0, false
	}
	return res.Score, true
}

// searchText is what the quick filter matches an incident against.
func searchText(inc incident.Incident) string {
	return strings.Join([]string{inc.Number, inc.ShortDescription, inc.Assignee()}, " ")
}

// fuzzyFilter keeps the incidents matching pattern, best match first.
// Ties keep their list order. An empty pattern returns incs unchanged.
func fuzzyFilter(incs []incident.Incident, pattern string) []incident.Incident {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return incs
	}

	type scored struct {
		inc   incident.Incident
		score int
	}
	var matches []scored
	for _, inc := range incs {
		if s, ok := fuzzyScore(searchText(inc), pattern); ok {
			matches = append(matches, scored{inc, s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	out := make([]incident.Incident, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.inc)
	}
	return out
}
