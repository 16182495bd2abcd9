// Package fuzzy scores session names against a query and maps the matched
// byte positions onto terminal columns for highlighting.
package fuzzy

import (
	"sort"

	sfuzzy "github.com/sahilm/fuzzy"
)

// Match is the result of scoring one candidate. Positions are byte offsets
// into the candidate, ascending.
type Match struct {
	Score     int64
	Positions []int
}

// Matcher scores a candidate against a query. The second return value is
// false when the candidate does not match at all.
type Matcher interface {
	ScoreAndHighlight(query, candidate string) (Match, bool)
}

// SahilmMatcher matches case-insensitively with github.com/sahilm/fuzzy.
type SahilmMatcher struct{}

// Default is the matcher used when none is supplied.
var Default Matcher = SahilmMatcher{}

func (SahilmMatcher) ScoreAndHighlight(query, candidate string) (Match, bool) {
	if query == "" {
		return Match{}, true
	}
	found := sfuzzy.Find(query, []string{candidate})
	if len(found) == 0 {
		return Match{}, false
	}
	return Match{
		Score:     int64(found[0].Score),
		Positions: append([]int(nil), found[0].MatchedIndexes...),
	}, true
}

// Ranked pairs a match with the index of its candidate.
type Ranked struct {
	Index int
	Match Match
}

// Rank scores every candidate and returns the matching ones by descending
// score; equal scores keep candidate order. An empty query returns all
// candidates in order with a zero score.
func Rank(m Matcher, query string, candidates []string) []Ranked {
	if m == nil {
		m = Default
	}
	out := make([]Ranked, 0, len(candidates))
	for i, candidate := range candidates {
		if query == "" {
			out = append(out, Ranked{Index: i})
			continue
		}
		match, ok := m.ScoreAndHighlight(query, candidate)
		if !ok {
			continue
		}
		out = append(out, Ranked{Index: i, Match: match})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Match.Score > out[j].Match.Score
	})
	return out
}
