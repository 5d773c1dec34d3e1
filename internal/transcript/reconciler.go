package transcript

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ReconcilerConfig controls overlap detection and conflict resolution.
type ReconcilerConfig struct {
	// SlidingWindowSize is the number of words compared around the segment
	// boundary when searching for overlapping text.
	SlidingWindowSize int
	// OverlapThreshold is the minimum similarity score for a candidate word
	// range to count as an overlap.
	OverlapThreshold float64
	// ConfidenceWeight is the weight of confidence vs recency in conflict
	// resolution.
	ConfidenceWeight float64
	// MaxContextSegments bounds the history of accepted segments kept for
	// comparison. Oldest entries are evicted first.
	MaxContextSegments int
	// FuzzyMatching accepts near-duplicates by edit distance.
	FuzzyMatching bool
}

// DefaultReconcilerConfig returns the standard reconciliation settings.
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		SlidingWindowSize:  10,
		OverlapThreshold:   0.7,
		ConfidenceWeight:   0.3,
		MaxContextSegments: 5,
		FuzzyMatching:      true,
	}
}

// overlapInfo describes a detected word-range overlap between a prior
// segment and the current one. Lifetime is a single ProcessSegment call.
type overlapInfo struct {
	prevWordStart int
	prevWordEnd   int
	currWordStart int
	currWordEnd   int
	similarity    float64
	found         bool
}

// Reconciler removes textual duplication caused by overlapping audio
// windows. It keeps a bounded window of recently accepted segments and, for
// each new segment, strips the best-matching overlapping word range against
// the most recent temporally overlapping entry.
//
// Not safe for concurrent use: one Reconciler serves exactly one stream and
// is owned by the pipeline's consumer goroutine.
type Reconciler struct {
	cfg     ReconcilerConfig
	matcher Matcher
	recent  []Segment
	logger  zerolog.Logger
}

// NewReconciler creates a reconciler with the given configuration.
func NewReconciler(cfg ReconcilerConfig) *Reconciler {
	return &Reconciler{
		cfg:     cfg,
		matcher: Matcher{Fuzzy: cfg.FuzzyMatching},
		logger:  log.With().Str("component", "reconciler").Logger(),
	}
}

// ProcessSegment reconciles a new segment against recent history and
// returns it with any duplicated text removed. The returned segment may
// have empty text, meaning it was fully absorbed and should be discarded
// downstream. Non-empty results join the comparison history.
func (r *Reconciler) ProcessSegment(seg Segment) Segment {
	if seg.Empty() {
		return seg
	}

	// Walk newest to oldest; only the most recent segment that overlaps in
	// both time and content is reconciled against.
	for i := len(r.recent) - 1; i >= 0; i-- {
		prev := r.recent[i]
		if !prev.overlapsInTime(seg) {
			continue
		}

		ov := r.detectOverlap(prev, seg)
		if !ov.found {
			continue
		}

		keepCurrent := r.resolveConflict(prev, seg)
		r.logger.Debug().
			Float64("similarity", ov.similarity).
			Int("words", ov.currWordEnd-ov.currWordStart).
			Bool("keptCurrent", keepCurrent).
			Msg("Overlap detected")

		// Regardless of which side wins the weighted score, the duplicated
		// words are stripped from the current segment; the score records a
		// preference only. Deliberate: newer audio re-covers the boundary.
		seg = removeOverlap(seg, ov)
		break
	}

	if !seg.Empty() {
		r.recent = append(r.recent, seg)
		if len(r.recent) > r.cfg.MaxContextSegments {
			r.recent = r.recent[1:]
		}
	}

	return seg
}

// Reset clears all comparison history. Called on stream stop.
func (r *Reconciler) Reset() {
	r.recent = nil
}

// ContextLen returns the current number of history entries.
func (r *Reconciler) ContextLen() int {
	return len(r.recent)
}

// detectOverlap searches for the best-scoring word range shared between the
// end of prev and the current segment. Every (prevStart, currStart, length)
// triple within the sliding window is tried; the window overlap produced by
// the segmenter's carried tail makes the duplicated text appear verbatim or
// near-verbatim at the join, so an exhaustive bounded search is cheap and
// robust to boundary rewording.
func (r *Reconciler) detectOverlap(prev, curr Segment) overlapInfo {
	var best overlapInfo

	prevWords := TokenizeWords(prev.Text)
	currWords := TokenizeWords(curr.Text)
	if len(prevWords) == 0 || len(currWords) == 0 {
		return best
	}

	windowSize := r.cfg.SlidingWindowSize
	if len(prevWords) < windowSize {
		windowSize = len(prevWords)
	}
	if len(currWords) < windowSize {
		windowSize = len(currWords)
	}

	firstPrev := len(prevWords) - windowSize
	if firstPrev < 0 {
		firstPrev = 0
	}

	for prevStart := firstPrev; prevStart < len(prevWords); prevStart++ {
		for currStart := 0; currStart < len(currWords); currStart++ {
			maxLen := len(prevWords) - prevStart
			if n := len(currWords) - currStart; n < maxLen {
				maxLen = n
			}
			if maxLen > windowSize {
				maxLen = windowSize
			}

			for length := 1; length <= maxLen; length++ {
				prevText := joinWords(prevWords, prevStart, prevStart+length)
				currText := joinWords(currWords, currStart, currStart+length)

				sim := r.matcher.Similarity(prevText, currText)
				if sim < r.cfg.OverlapThreshold {
					continue
				}
				// Prefer higher similarity; at equal similarity prefer the
				// longer range so a full repeated phrase wins over its first
				// word.
				if sim > best.similarity || (sim == best.similarity && length > best.currWordEnd-best.currWordStart) {
					best = overlapInfo{
						prevWordStart: prevStart,
						prevWordEnd:   prevStart + length,
						currWordStart: currStart,
						currWordEnd:   currStart + length,
						similarity:    sim,
						found:         true,
					}
				}
			}
		}
	}

	return best
}

// resolveConflict weighs confidence difference against a small recency bias
// and reports whether the current segment's content is preferred.
func (r *Reconciler) resolveConflict(prev, curr Segment) bool {
	confidenceScore := curr.Confidence - prev.Confidence
	const recencyBias = 0.1
	score := r.cfg.ConfidenceWeight*confidenceScore + (1.0-r.cfg.ConfidenceWeight)*recencyBias
	return score > 0.0
}

// removeOverlap strips the detected word range from the current segment.
// A front strip shifts the start time forward in proportion to the words
// removed; a middle or end strip splices the remainder with a single space.
func removeOverlap(curr Segment, ov overlapInfo) Segment {
	if !ov.found {
		return curr
	}

	words := TokenizeWords(curr.Text)

	if ov.currWordStart == 0 {
		cleaned := joinWords(words, ov.currWordEnd, len(words))
		if cleaned == "" {
			curr.Text = ""
			return curr
		}
		removed := float64(ov.currWordEnd) / float64(len(words))
		curr.Start += curr.Duration() * removed
		curr.Text = cleaned
		return curr
	}

	before := joinWords(words, 0, ov.currWordStart)
	after := joinWords(words, ov.currWordEnd, len(words))
	switch {
	case before != "" && after != "":
		curr.Text = before + " " + after
	case after != "":
		curr.Text = after
	default:
		curr.Text = before
	}
	return curr
}
