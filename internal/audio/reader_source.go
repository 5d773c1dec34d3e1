package audio

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ReaderSourceConfig configures a ReaderSource.
type ReaderSourceConfig struct {
	// ChunkMs is the chunk size delivered per callback, in milliseconds.
	ChunkMs int
	// Realtime paces delivery at capture speed. When false the reader is
	// drained as fast as possible (useful for batch files and tests).
	Realtime bool
}

// DefaultReaderSourceConfig returns the capture-like defaults: 100ms chunks
// delivered at real-time pace.
func DefaultReaderSourceConfig() ReaderSourceConfig {
	return ReaderSourceConfig{ChunkMs: 100, Realtime: true}
}

// ReaderSource reads signed 16-bit little-endian mono PCM at 16 kHz from an
// io.Reader and delivers it as float32 chunks, mimicking a microphone
// capture callback. Device I/O itself lives outside this repository; this
// source covers files, pipes, and test fixtures.
type ReaderSource struct {
	r   io.Reader
	cfg ReaderSourceConfig

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
}

// NewReaderSource creates a source reading PCM from r.
func NewReaderSource(r io.Reader, cfg ReaderSourceConfig) *ReaderSource {
	if cfg.ChunkMs <= 0 {
		cfg.ChunkMs = 100
	}
	return &ReaderSource{r: r, cfg: cfg}
}

// Start reads the stream to exhaustion, invoking fn per chunk. It returns
// nil on EOF or context cancellation and an error on a malformed stream.
func (s *ReaderSource) Start(ctx context.Context, fn ChunkFunc) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		cancel()
		return nil
	}
	s.cancel = cancel
	s.mu.Unlock()
	defer cancel()

	chunkSamples := SampleRate * s.cfg.ChunkMs / 1000
	raw := make([]byte, chunkSamples*2)

	// Decoded samples stage through a ring buffer so delivery stays in
	// fixed-size chunks regardless of how the reads line up.
	staging := NewRingBuffer(chunkSamples * 8)

	start := time.Now()
	var delivered int
	deliver := func(samples []float32) {
		if len(samples) == 0 {
			return
		}
		timestamp := float64(delivered) / float64(SampleRate)
		fn(samples, timestamp)
		delivered += len(samples)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		n, err := io.ReadFull(s.r, raw)
		if n > 0 {
			if n%2 != 0 {
				return fmt.Errorf("audio: truncated 16-bit sample in input stream")
			}
			staging.Write(decodePCM16(raw[:n]))
			for staging.Available() >= chunkSamples {
				deliver(staging.Read(chunkSamples))
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			deliver(staging.Read(staging.Available()))
			log.Debug().Int("samples", delivered).Msg("Audio source exhausted")
			return nil
		}
		if err != nil {
			return fmt.Errorf("audio: read source: %w", err)
		}

		if s.cfg.Realtime {
			next := start.Add(time.Duration(delivered) * time.Second / SampleRate)
			if d := time.Until(next); d > 0 {
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(d):
				}
			}
		}
	}
}

// Stop cancels a running Start. Idempotent.
func (s *ReaderSource) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// decodePCM16 converts little-endian int16 samples to float32 in [-1, 1].
func decodePCM16(raw []byte) []float32 {
	samples := make([]float32, len(raw)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(raw[i*2:]))
		samples[i] = float32(v) / 32768.0
	}
	return samples
}
