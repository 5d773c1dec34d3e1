// Package audio provides the sample-level building blocks of the capture
// path: timestamped chunks, a bounded ring buffer, and push-style sources
// that deliver mono 16 kHz float32 audio to the pipeline.
package audio

import "context"

// SampleRate is the fixed sample rate every component in this repository
// operates at. Whisper models are trained on 16 kHz mono audio.
const SampleRate = 16000

// Chunk is a timestamped run of mono float32 samples in [-1, 1].
// Timestamp is the capture time, in seconds, of the first sample.
type Chunk struct {
	Samples   []float32
	Timestamp float64
}

// Duration returns the chunk length in seconds at the fixed sample rate.
func (c Chunk) Duration() float64 {
	return float64(len(c.Samples)) / float64(SampleRate)
}

// ChunkFunc receives captured audio. Implementations must not block: the
// callback runs on the capture path.
type ChunkFunc func(samples []float32, timestamp float64)

// Source delivers captured audio via a push callback.
type Source interface {
	// Start begins capture and invokes fn for every chunk until the context
	// is cancelled, Stop is called, or the source is exhausted.
	Start(ctx context.Context, fn ChunkFunc) error

	// Stop ends capture and releases resources. Idempotent.
	Stop() error
}
