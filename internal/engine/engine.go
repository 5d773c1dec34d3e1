// Package engine defines the black-box inference interfaces the pipeline
// depends on: a speech-to-text Transcriber and a text Generator. The
// pipeline never sees engine internals; concrete implementations live in
// subpackages and mocks in this package serve tests.
package engine

import (
	"context"
	"time"
)

// TranscriberConfig configures a speech-to-text engine at initialization.
type TranscriberConfig struct {
	ModelPath    string
	Language     string // language code or "auto"
	Threads      int
	MaxSegment   time.Duration // maximum single-segment length
	VADThreshold float64
	UseGPU       bool
}

// Transcription is one engine result. Start and End are offsets within the
// submitted audio window; the caller rebases them onto the stream timeline.
type Transcription struct {
	Text       string
	Confidence float64 // [0, 1]
	Start      time.Duration
	End        time.Duration
	Language   string
}

// Transcriber turns raw audio samples into text. Transcribe blocks for the
// duration of inference; the pipeline serializes calls, so implementations
// need not support concurrent invocation on one handle.
type Transcriber interface {
	Transcribe(ctx context.Context, samples []float32, sampleRate int) (Transcription, error)

	// Close releases the model handle. The Transcriber is unusable afterwards.
	Close() error
}

// GeneratorConfig configures a text-generation engine at initialization.
type GeneratorConfig struct {
	BaseURL     string // OpenAI-compatible endpoint, e.g. a local llama-server
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Generation is one text-generation result.
type Generation struct {
	Text            string
	TokensGenerated int
	InferenceTime   time.Duration
}

// Generator produces text from a prompt. Blocking, serialized by callers.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (Generation, error)
	Close() error
}
