package fuzzy

import "unicode/utf8"

// Segment is a run of text that is either highlighted or not.
type Segment struct {
	Text    string
	Matched bool
}

// Segments splits s into alternating plain and matched runs. Positions that
// do not fall on a rune boundary inside s are ignored.
func Segments(s string, positions []int) []Segment {
	if s == "" {
		return nil
	}
	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		if p >= 0 && p < len(s) && utf8.RuneStart(s[p]) {
			matched[p] = true
		}
	}
	var out []Segment
	start := 0
	current := matched[0]
	for i := range s {
		if matched[i] != current {
			out = append(out, Segment{Text: s[start:i], Matched: current})
			start = i
			current = matched[i]
		}
	}
	return append(out, Segment{Text: s[start:], Matched: current})
}
