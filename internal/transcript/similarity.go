package transcript

import "strings"

// Matcher scores text similarity for overlap detection. The zero value
// performs exact and case-insensitive matching only; set Fuzzy to also
// accept near-duplicates by edit distance.
type Matcher struct {
	Fuzzy bool
}

// TokenizeWords splits text into whitespace-delimited word tokens.
// Punctuation stays attached to its word.
func TokenizeWords(text string) []string {
	return strings.Fields(text)
}

// Similarity returns a score in [0, 1] for two strings: 1.0 for an exact
// match, 0.95 for a case-insensitive match, and otherwise a normalized
// edit-distance score when fuzzy matching is enabled. Two empty strings are
// identical; one empty string never matches.
func (m Matcher) Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	if a == b {
		return 1.0
	}

	la, lb := strings.ToLower(a), strings.ToLower(b)
	if la == lb {
		return 0.95
	}
	if !m.Fuzzy {
		return 0.0
	}

	ra, rb := []rune(la), []rune(lb)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	return 1.0 - float64(EditDistance(la, lb))/float64(maxLen)
}

// EditDistance returns the Levenshtein distance between a and b, counting
// insertions, deletions, and substitutions at unit cost. Runs in
// O(len(a)*len(b)); inputs here are short window joins, so that is cheap.
func EditDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1]
			} else {
				min := prev[j] // deletion
				if curr[j-1] < min {
					min = curr[j-1] // insertion
				}
				if prev[j-1] < min {
					min = prev[j-1] // substitution
				}
				curr[j] = min + 1
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// joinWords joins words[start:end] with single spaces, clamping the range.
func joinWords(words []string, start, end int) string {
	if start >= len(words) {
		return ""
	}
	if end > len(words) {
		end = len(words)
	}
	return strings.Join(words[start:end], " ")
}
