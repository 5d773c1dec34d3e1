package events

import (
	"context"
	"testing"

	"audio-transcriber/internal/models"
)

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.enabled {
				t.Error("expected publisher to be disabled")
			}
			if p.writerSegments != nil {
				t.Error("expected nil segments writer when disabled")
			}
			if p.writerSummaries != nil {
				t.Error("expected nil summaries writer when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	cfg := &Config{
		Enabled:        false,
		Brokers:        []string{"localhost:9092"},
		TopicSegments:  "test.segments",
		TopicSummaries: "test.summaries",
	}

	p := New(cfg)

	if p.topicSegments != "test.segments" {
		t.Errorf("expected topic segments 'test.segments', got %s", p.topicSegments)
	}
	if p.topicSummaries != "test.summaries" {
		t.Errorf("expected topic summaries 'test.summaries', got %s", p.topicSummaries)
	}
}

func TestPublisher_PublishSegment_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := models.SegmentFinal{
		EventType: "transcript.segment.final",
		SessionID: "ses-123",
		Text:      "hello world",
	}
	err := p.PublishSegment(context.Background(), "ses-123", event)

	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishSummary_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := models.SummaryCreated{
		EventType: "transcript.summary.created",
		SessionID: "ses-123",
		Summary:   "a short summary",
	}
	err := p.PublishSummary(context.Background(), "ses-123", event)

	if err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
}

func TestPublisher_PublishSegment_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	// Create an unmarshalable value (channel)
	event := make(chan int)
	err := p.PublishSegment(context.Background(), "test-key", event)

	if err == nil {
		t.Error("expected error for unmarshalable event")
	}
}

func TestPublisher_PublishSummary_InvalidJSON(t *testing.T) {
	p := New(&Config{Enabled: false})

	event := make(chan int)
	err := p.PublishSummary(context.Background(), "test-key", event)

	if err == nil {
		t.Error("expected error for unmarshalable event")
	}
}

func TestPublisher_Close_NoWriters(t *testing.T) {
	p := New(&Config{Enabled: false})

	err := p.Close()
	if err != nil {
		t.Errorf("expected no error closing disabled publisher, got %v", err)
	}
}

func TestPublisher_Close_NilPublisher(t *testing.T) {
	p := &Publisher{
		writerSegments:  nil,
		writerSummaries: nil,
	}

	err := p.Close()
	if err != nil {
		t.Errorf("expected no error closing publisher with nil writers, got %v", err)
	}
}
