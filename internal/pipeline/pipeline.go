package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"audio-transcriber/internal/audio"
	"audio-transcriber/internal/observability/metrics"
)

// consumerPollInterval bounds how long the consumer sleeps without checking
// for cancellation.
const consumerPollInterval = 100 * time.Millisecond

// ErrAlreadyStarted is returned by Start on a running pipeline.
var ErrAlreadyStarted = errors.New("pipeline: already started")

// Pipeline connects the audio capture callback to the segmenter through a
// hand-off queue: one producer (Push, called from the capture path, never
// blocking on inference) and one consumer goroutine that owns every piece
// of segmentation, reconciliation, and inference state.
type Pipeline struct {
	seg     *Segmenter
	metrics *metrics.Metrics
	logger  zerolog.Logger

	mu    sync.Mutex
	queue []audio.Chunk
	wake  chan struct{}

	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// New creates a pipeline around the given segmenter.
func New(seg *Segmenter) *Pipeline {
	return &Pipeline{
		seg:     seg,
		metrics: metrics.DefaultMetrics,
		logger:  log.With().Str("component", "pipeline").Logger(),
		wake:    make(chan struct{}, 1),
	}
}

// Start launches the consumer goroutine. One pipeline serves one stream;
// Start may be called once per pipeline.
func (p *Pipeline) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrAlreadyStarted
	}
	p.started = true

	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.run(ctx)

	p.logger.Info().Msg("Pipeline started")
	return nil
}

// Push copies the given samples into the hand-off queue. Safe to call from
// the capture callback: it holds the queue mutex briefly and never waits on
// inference. Pushes after Stop are dropped.
func (p *Pipeline) Push(samples []float32, timestamp float64) {
	if len(samples) == 0 {
		return
	}

	chunk := audio.Chunk{
		Samples:   append([]float32(nil), samples...),
		Timestamp: timestamp,
	}

	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.queue = append(p.queue, chunk)
	depth := len(p.queue)
	p.mu.Unlock()

	p.metrics.RecordChunkQueued(len(chunk.Samples))
	p.metrics.QueueDepth.Set(float64(depth))

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Stop cancels the consumer, waits for it to finish the current window,
// flushes any remaining accumulated audio as a final window, and clears all
// state. Safe to call more than once.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	cancel, done := p.cancel, p.done
	p.mu.Unlock()

	cancel()
	<-done

	p.logger.Info().Msg("Pipeline stopped")
}

// run is the consumer loop. It drains all queued chunks into the segmenter,
// re-evaluating the flush condition after each one, and waits with a short
// timeout so stop requests are honored between windows. Inference happens
// only here: at most one call in flight, in timestamp order.
func (p *Pipeline) run(ctx context.Context) {
	defer close(p.done)

	for {
		select {
		case <-ctx.Done():
			p.drain(context.Background())
			p.seg.FlushPending(context.Background())
			p.seg.Reset()
			p.clearQueue()
			return
		case <-p.wake:
		case <-time.After(consumerPollInterval):
		}

		p.drain(ctx)
	}
}

// drain feeds every currently queued chunk to the segmenter.
func (p *Pipeline) drain(ctx context.Context) {
	for {
		p.mu.Lock()
		if len(p.queue) == 0 {
			p.mu.Unlock()
			p.metrics.QueueDepth.Set(0)
			return
		}
		chunk := p.queue[0]
		p.queue = p.queue[1:]
		p.mu.Unlock()

		p.seg.Append(ctx, chunk)
	}
}

func (p *Pipeline) clearQueue() {
	p.mu.Lock()
	p.queue = nil
	p.mu.Unlock()
	p.metrics.QueueDepth.Set(0)
}
