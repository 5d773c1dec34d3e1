// Package models defines the data structures for transcript events.
package models

// SegmentFinal represents a finalized, reconciled transcript segment.
type SegmentFinal struct {
	EventType  string  `json:"eventType"`
	SessionID  string  `json:"sessionId"`
	SegmentID  string  `json:"segmentId"`
	Timestamp  int64   `json:"timestamp"`
	Text       string  `json:"text"`
	StartTime  float64 `json:"startTime"`
	EndTime    float64 `json:"endTime"`
	Confidence float64 `json:"confidence"`
	Language   string  `json:"language,omitempty"`
}

// SummaryCreated represents a generated summary of a session transcript.
type SummaryCreated struct {
	EventType    string `json:"eventType"`
	SessionID    string `json:"sessionId"`
	Timestamp    int64  `json:"timestamp"`
	Summary      string `json:"summary"`
	SegmentCount int    `json:"segmentCount"`
}
