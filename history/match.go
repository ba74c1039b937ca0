package history

import (
	"slices"

	"github.com/sahilm/fuzzy"
)

// Match keeps the entries whose line fuzzy-matches pattern, in their
// chronological order. An empty pattern keeps everything.
func Match(entries []Entry, pattern string) []Entry {
	if pattern == "" {
		return entries
	}

	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Line
	}

	matches := fuzzy.Find(pattern, lines)
	indexes := make([]int, len(matches))
	for i, m := range matches {
		indexes[i] = m.Index
	}
	slices.Sort(indexes)

	kept := make([]Entry, len(indexes))
	for i, idx := range indexes {
		kept[i] = entries[idx]
	}
	return kept
}

// Tail returns the last n entries, or all of them when n <= 0.
func Tail(entries []Entry, n int) []Entry {
	if n <= 0 || n >= len(entries) {
		return entries
	}
	return entries[len(entries)-n:]
}
