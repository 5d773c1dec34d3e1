// Package transcript implements the text side of the streaming pipeline:
// fuzzy similarity scoring, overlap reconciliation between segments produced
// from overlapping audio windows, and boundary continuity repair.
package transcript

// Segment is one unit of transcribed text with its time range and
// confidence. Segments are immutable once emitted downstream; an empty Text
// marks a segment fully absorbed by deduplication.
type Segment struct {
	Text       string
	Start      float64 // seconds
	End        float64 // seconds, End >= Start
	Confidence float64 // [0, 1]
	Language   string
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Empty reports whether the segment carries no text.
func (s Segment) Empty() bool {
	return s.Text == ""
}

// overlapsInTime reports whether two segments' time ranges intersect.
// Adjacent ranges (prev.End == next.Start) do not overlap: the segmenter
// only produces duplicated text when audio windows share samples.
func (s Segment) overlapsInTime(other Segment) bool {
	return !(s.End <= other.Start || other.End <= s.Start)
}
