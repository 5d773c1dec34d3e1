package transcript

import (
	"strings"
	"unicode"
)

const (
	repairHistorySize = 3
	// repairTailChars is the length of the previous-text suffix checked for
	// character-level duplication at the segment boundary.
	repairTailChars = 10
)

// RepairRule identifies which continuity fix was applied, for observability.
type RepairRule string

const (
	RepairPeriodToComma  RepairRule = "period_to_comma"
	RepairInsertedPeriod RepairRule = "inserted_period"
	RepairStrippedPrefix RepairRule = "stripped_prefix"
)

// Repairer applies lightweight continuity fixes at segment boundaries:
// punctuation and casing repairs plus a coarse character-level duplicate
// strip that catches overlaps the word-level reconciler misses due to
// punctuation or casing differences. It keeps a short history of previously
// emitted texts purely for boundary patching; fixes to the previous text
// are best effort and land in that history.
//
// Owned by the pipeline's consumer goroutine; not safe for concurrent use.
type Repairer struct {
	history []string
}

// NewRepairer creates an empty repairer.
func NewRepairer() *Repairer {
	return &Repairer{}
}

// Apply repairs the boundary between the previously emitted text and seg,
// records the result in history, and returns the possibly trimmed segment
// along with the rules that fired. Empty segments pass through untouched.
func (r *Repairer) Apply(seg Segment) (Segment, []RepairRule) {
	if seg.Empty() {
		return seg, nil
	}

	var applied []RepairRule

	if len(r.history) > 0 {
		prev := r.history[len(r.history)-1]
		text := seg.Text

		firstRune := firstRuneOf(text)
		switch {
		case strings.HasSuffix(prev, ".") && unicode.IsLower(firstRune):
			// Mid-sentence split: the window boundary produced a spurious
			// full stop.
			prev = strings.TrimSuffix(prev, ".") + ","
			applied = append(applied, RepairPeriodToComma)
		case !endsSentence(prev) && unicode.IsUpper(firstRune):
			prev += "."
			applied = append(applied, RepairInsertedPeriod)
		}

		if tail := tailOf(prev, repairTailChars); tail != "" && strings.HasPrefix(text, tail) {
			text = strings.TrimLeft(strings.TrimPrefix(text, tail), " ")
			applied = append(applied, RepairStrippedPrefix)
		}

		r.history[len(r.history)-1] = prev
		seg.Text = text
	}

	if !seg.Empty() {
		r.history = append(r.history, seg.Text)
		if len(r.history) > repairHistorySize {
			r.history = r.history[1:]
		}
	}

	return seg, applied
}

// Previous returns the most recent (possibly patched) history entry.
func (r *Repairer) Previous() (string, bool) {
	if len(r.history) == 0 {
		return "", false
	}
	return r.history[len(r.history)-1], true
}

// History returns the patched boundary history, oldest first.
func (r *Repairer) History() []string {
	out := make([]string, len(r.history))
	copy(out, r.history)
	return out
}

// Reset clears the boundary history. Called on stream stop.
func (r *Repairer) Reset() {
	r.history = nil
}

func endsSentence(s string) bool {
	return strings.HasSuffix(s, ".") || strings.HasSuffix(s, "!") || strings.HasSuffix(s, "?")
}

func firstRuneOf(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

// tailOf returns the last n runes of s.
func tailOf(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
