package rules

import "strings"

// FuzzyThreshold is the system-wide acceptance score for fuzzy matching.
const FuzzyThreshold = 0.85

// levenshtein computes the unit-cost edit distance between two rune
// sequences with the classic dynamic-programming formulation, using a
// single rolling row.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(a)+1)
	curr := make([]int, len(a)+1)
	for j := 0; j <= len(a); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(b); i++ {
		curr[0] = i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if b[i-1] == a[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j-1]+cost, min(curr[j-1]+1, prev[j]+1))
		}
		prev, curr = curr, prev
	}
	return prev[len(a)]
}

// Similarity scores how alike two strings are on a 0..1 scale:
// 1 - distance/max(len). Comparison is case-insensitive and rune-based so
// CJK text is measured in characters, not bytes.
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))

	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(maxLen)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
