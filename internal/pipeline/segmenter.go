// Package pipeline wires captured audio through chunk-boundary decisions,
// inference, reconciliation, and continuity repair into a single ordered
// stream of finalized transcript segments.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"audio-transcriber/internal/audio"
	"audio-transcriber/internal/engine"
	"audio-transcriber/internal/observability/metrics"
	"audio-transcriber/internal/transcript"
)

// Flush trigger reasons, used for logging and metrics.
const (
	flushReasonMaxWindow = "max_window"
	flushReasonSilence   = "silence"
	flushReasonFinal     = "final"
)

// SegmenterConfig controls chunk-boundary decisions.
type SegmenterConfig struct {
	// SampleRate of all incoming audio. Fixed at 16 kHz in practice.
	SampleRate int
	// MinWindow is the minimum accumulated audio before a silence-triggered
	// flush is allowed.
	MinWindow time.Duration
	// MaxWindow is the hard cap on accumulated audio; reaching it always
	// flushes. Bounds both memory and latency.
	MaxWindow time.Duration
	// OverlapTail is the slice of each flushed window carried into the next
	// one to preserve words broken at the boundary.
	OverlapTail time.Duration
	// SilenceThreshold is the amplitude below which a chunk's mean energy
	// classifies it as silence.
	SilenceThreshold float64
	// Dedup enables reconciliation of overlapping windows. When disabled
	// only the lighter continuity repair pass runs.
	Dedup bool
}

// DefaultSegmenterConfig returns the standard segmentation settings.
func DefaultSegmenterConfig() SegmenterConfig {
	return SegmenterConfig{
		SampleRate:       audio.SampleRate,
		MinWindow:        2 * time.Second,
		MaxWindow:        10 * time.Second,
		OverlapTail:      500 * time.Millisecond,
		SilenceThreshold: 0.01,
		Dedup:            true,
	}
}

// ResultFunc receives finalized, reconciled, repaired segments in increasing
// time order. Invoked synchronously from the pipeline's consumer goroutine;
// implementations must not block.
type ResultFunc func(seg transcript.Segment)

// Segmenter owns the accumulation buffer and the carried overlap tail. It
// decides when accumulated audio is ready for inference, drives the
// transcription engine, and feeds results through reconciliation and
// continuity repair to the sink.
//
// All state is owned by the single consumer goroutine; the segmenter has no
// internal locking.
type Segmenter struct {
	cfg         SegmenterConfig
	transcriber engine.Transcriber
	reconciler  *transcript.Reconciler
	repairer    *transcript.Repairer
	emit        ResultFunc
	metrics     *metrics.Metrics
	logger      zerolog.Logger

	buf       []float32
	tail      []float32
	startAt   float64
	haveStart bool
}

// NewSegmenter creates a segmenter. The transcriber must already be
// initialized; engine load failures are surfaced by the engine constructor,
// not here.
func NewSegmenter(cfg SegmenterConfig, t engine.Transcriber, rec *transcript.Reconciler, rep *transcript.Repairer, emit ResultFunc) *Segmenter {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = audio.SampleRate
	}
	return &Segmenter{
		cfg:         cfg,
		transcriber: t,
		reconciler:  rec,
		repairer:    rep,
		emit:        emit,
		metrics:     metrics.DefaultMetrics,
		logger:      log.With().Str("component", "segmenter").Logger(),
	}
}

// Append adds one captured chunk to the accumulation buffer and flushes if
// a chunk boundary condition fires.
func (s *Segmenter) Append(ctx context.Context, chunk audio.Chunk) {
	if len(chunk.Samples) == 0 {
		return
	}

	if !s.haveStart {
		s.startAt = chunk.Timestamp
		s.haveStart = true
	}
	s.buf = append(s.buf, chunk.Samples...)

	maxSamples := s.samplesFor(s.cfg.MaxWindow)
	minSamples := s.samplesFor(s.cfg.MinWindow)

	switch {
	case len(s.buf) >= maxSamples:
		s.flush(ctx, flushReasonMaxWindow)
	case len(s.buf) >= minSamples && !s.detectSpeech(chunk.Samples):
		s.flush(ctx, flushReasonSilence)
	}
}

// FlushPending processes any remaining accumulated audio. Called once at
// stream stop.
func (s *Segmenter) FlushPending(ctx context.Context) {
	if len(s.buf) == 0 {
		return
	}
	s.flush(ctx, flushReasonFinal)
}

// Reset clears the accumulation buffer, the carried tail, and all
// reconciliation and repair history.
func (s *Segmenter) Reset() {
	s.buf = nil
	s.tail = nil
	s.haveStart = false
	if s.reconciler != nil {
		s.reconciler.Reset()
	}
	if s.repairer != nil {
		s.repairer.Reset()
	}
}

// Buffered returns the number of accumulated samples, excluding the tail.
func (s *Segmenter) Buffered() int {
	return len(s.buf)
}

// Tail returns the carried overlap tail.
func (s *Segmenter) Tail() []float32 {
	return s.tail
}

// detectSpeech classifies a chunk by mean squared amplitude. A coarse gate:
// it only decides when to flush, not what to transcribe — the engine may
// run its own VAD on the window.
func (s *Segmenter) detectSpeech(samples []float32) bool {
	if len(samples) == 0 {
		return false
	}
	var energy float64
	for _, v := range samples {
		energy += float64(v) * float64(v)
	}
	energy /= float64(len(samples))
	return energy > s.cfg.SilenceThreshold*s.cfg.SilenceThreshold
}

// flush sends tail+buffer to the engine as one window, rebases result
// timestamps onto the stream timeline, runs reconciliation and repair, and
// emits. The last OverlapTail seconds of the flushed audio become the next
// carried tail; a failed inference drops the window's results but still
// re-seeds the tail, so loss is bounded to the window minus the tail.
func (s *Segmenter) flush(ctx context.Context, reason string) {
	window := make([]float32, 0, len(s.tail)+len(s.buf))
	window = append(window, s.tail...)
	window = append(window, s.buf...)

	windowStart := s.startAt - float64(len(s.tail))/float64(s.cfg.SampleRate)
	windowDur := float64(len(window)) / float64(s.cfg.SampleRate)

	s.metrics.RecordFlush(reason, windowDur)
	s.logger.Debug().
		Str("reason", reason).
		Float64("windowSec", windowDur).
		Float64("windowStart", windowStart).
		Msg("Flushing accumulation buffer")

	s.reseedTail()
	s.buf = nil
	s.haveStart = false

	start := time.Now()
	result, err := s.transcriber.Transcribe(ctx, window, s.cfg.SampleRate)
	s.metrics.RecordInference(err, time.Since(start).Seconds())
	if err != nil {
		// Window dropped, not retried: the carried tail re-covers the most
		// recent speech in the next window.
		s.logger.Error().Err(err).Str("reason", reason).Msg("Inference failed, window dropped")
		return
	}

	text := strings.TrimSpace(result.Text)
	if text == "" {
		return
	}

	seg := transcript.Segment{
		Text:       text,
		Start:      windowStart + result.Start.Seconds(),
		End:        windowStart + result.End.Seconds(),
		Confidence: result.Confidence,
		Language:   result.Language,
	}
	if seg.End < seg.Start {
		seg.End = seg.Start
	}

	if s.cfg.Dedup && s.reconciler != nil {
		before := seg.Text
		seg = s.reconciler.ProcessSegment(seg)
		if seg.Text != before {
			s.metrics.RecordOverlap()
		}
		if seg.Empty() {
			s.metrics.RecordSegmentAbsorbed()
			return
		}
	}

	if s.repairer != nil {
		var rules []transcript.RepairRule
		seg, rules = s.repairer.Apply(seg)
		for _, rule := range rules {
			s.metrics.RecordRepair(string(rule))
		}
		if seg.Empty() {
			s.metrics.RecordSegmentAbsorbed()
			return
		}
	}

	s.metrics.RecordSegmentEmitted()
	if s.emit != nil {
		s.emit(seg)
	}
}

// reseedTail carries the last OverlapTail seconds of the just-flushed
// buffer into the next window, or the whole buffer when shorter.
func (s *Segmenter) reseedTail() {
	tailSamples := s.samplesFor(s.cfg.OverlapTail)
	if tailSamples <= 0 {
		s.tail = nil
		return
	}
	src := s.buf
	if len(src) > tailSamples {
		src = src[len(src)-tailSamples:]
	}
	s.tail = append([]float32(nil), src...)
}

func (s *Segmenter) samplesFor(d time.Duration) int {
	return int(d.Seconds() * float64(s.cfg.SampleRate))
}
