// File: suggest.go
// Title: Spelling Suggestions
// Description: Picks the closest known word for a misspelled alias or
//              keyword, used for "did you mean" hints in error messages.
// Author: msto63
// Version: v0.1.0
// Created: 2026-10-19
// Modified: 2026-10-19
//
// Change History:
// - 2026-10-19 v0.1.0: Initial implementation

package stringx

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Suggest returns the candidate closest to word, or "" when no candidate is
// similar enough. A candidate that contains the letters of word in order
// wins over edit distance; ties keep the alphabetically first candidate.
func Suggest(word string, candidates []string) string {
	if word == "" || len(candidates) == 0 {
		return ""
	}

	ranks := fuzzy.RankFindFold(word, candidates)
	if len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}

	best, bestDist := "", -1
	sorted := append([]string(nil), candidates...)
	sort.Strings(sorted)
	for _, c := range sorted {
		d := fuzzy.LevenshteinDistance(strings.ToLower(word), strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist > maxDistance(word) {
		return ""
	}
	return best
}

// DidYouMean formats a hint for Suggest's result, or "" when there is none.
func DidYouMean(word string, candidates []string) string {
	if s := Suggest(word, candidates); s != "" {
		return "did you mean " + s + "?"
	}
	return ""
}

func maxDistance(word string) int {
	n := len([]rune(word)) / 2
	if n < 1 {
		return 1
	}
	return n
}
