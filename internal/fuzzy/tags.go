package fuzzy

import (
	"sort"
	"strings"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
)

// ResolveTag maps typed input onto an existing tag name. An exact
// case-insensitive match wins; otherwise the closest fuzzy match is used.
func ResolveTag(input string, tags []string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}
	for _, tag := range tags {
		if strings.EqualFold(tag, input) {
			return tag, true
		}
	}
	ranks := fuzzysearch.RankFindNormalizedFold(input, tags)
	if len(ranks) == 0 {
		return "", false
	}
	sort.Stable(ranks)
	return ranks[0].Target, true
}
