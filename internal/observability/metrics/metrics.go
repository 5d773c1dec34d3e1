// Package metrics provides Prometheus metrics for the transcription pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "audio_transcriber"

// Metrics holds all Prometheus metrics for the pipeline.
type Metrics struct {
	// Capture / queue metrics
	ChunksQueued  prometheus.Counter
	SamplesQueued prometheus.Counter
	QueueDepth    prometheus.Gauge

	// Segmenter metrics
	FlushesTotal     *prometheus.CounterVec
	WindowDuration   prometheus.Histogram
	InferenceLatency prometheus.Histogram
	InferenceErrors  prometheus.Counter

	// Reconciliation metrics
	SegmentsEmitted  prometheus.Counter
	SegmentsAbsorbed prometheus.Counter
	OverlapsDetected prometheus.Counter
	RepairsApplied   *prometheus.CounterVec

	// Summarization metrics
	SummariesTotal prometheus.Counter
	SummaryLatency prometheus.Histogram
	SummaryErrors  prometheus.Counter

	// Kafka publish metrics
	KafkaPublishTotal   *prometheus.CounterVec
	KafkaPublishErrors  *prometheus.CounterVec
	KafkaPublishLatency *prometheus.HistogramVec

	// Store metrics
	StoreSaves  prometheus.Counter
	StoreErrors prometheus.Counter
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics = NewMetrics()

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		ChunksQueued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_queued_total",
			Help:      "Total number of audio chunks pushed into the pipeline",
		}),
		SamplesQueued: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_queued_total",
			Help:      "Total number of audio samples pushed into the pipeline",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Number of audio chunks waiting in the hand-off queue",
		}),

		FlushesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flushes_total",
			Help:      "Total number of accumulation buffer flushes",
		}, []string{"reason"}),
		WindowDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "window_duration_seconds",
			Help:      "Audio duration of flushed inference windows in seconds",
			Buckets:   []float64{1, 2, 3, 5, 8, 10, 12},
		}),
		InferenceLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_latency_seconds",
			Help:      "Speech-to-text inference latency in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}),
		InferenceErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inference_errors_total",
			Help:      "Total number of failed inference windows (dropped)",
		}),

		SegmentsEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_emitted_total",
			Help:      "Total number of finalized segments emitted downstream",
		}),
		SegmentsAbsorbed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "segments_absorbed_total",
			Help:      "Total number of segments fully absorbed by deduplication",
		}),
		OverlapsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overlaps_detected_total",
			Help:      "Total number of cross-window text overlaps detected",
		}),
		RepairsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "repairs_applied_total",
			Help:      "Total number of boundary continuity repairs applied",
		}, []string{"rule"}),

		SummariesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summaries_total",
			Help:      "Total number of summaries generated",
		}),
		SummaryLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "summary_latency_seconds",
			Help:      "Text generation latency for summaries in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}),
		SummaryErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_errors_total",
			Help:      "Total number of failed summary generations",
		}),

		KafkaPublishTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_total",
			Help:      "Total number of Kafka messages published",
		}, []string{"topic", "event_type"}),
		KafkaPublishErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_publish_errors_total",
			Help:      "Total number of Kafka publish errors",
		}, []string{"topic", "event_type"}),
		KafkaPublishLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_latency_seconds",
			Help:      "Kafka publish latency in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"topic"}),

		StoreSaves: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_saves_total",
			Help:      "Total number of transcriptions saved to the store",
		}),
		StoreErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Total number of store save failures",
		}),
	}
}

// RecordChunkQueued records an audio chunk entering the hand-off queue.
func (m *Metrics) RecordChunkQueued(samples int) {
	m.ChunksQueued.Inc()
	m.SamplesQueued.Add(float64(samples))
}

// RecordFlush records a buffer flush with its trigger reason and the window
// duration in seconds.
func (m *Metrics) RecordFlush(reason string, windowSeconds float64) {
	m.FlushesTotal.WithLabelValues(reason).Inc()
	m.WindowDuration.Observe(windowSeconds)
}

// RecordInference records one inference call.
func (m *Metrics) RecordInference(err error, latencySeconds float64) {
	m.InferenceLatency.Observe(latencySeconds)
	if err != nil {
		m.InferenceErrors.Inc()
	}
}

// RecordSegmentEmitted records a finalized segment reaching the sink.
func (m *Metrics) RecordSegmentEmitted() {
	m.SegmentsEmitted.Inc()
}

// RecordSegmentAbsorbed records a segment fully removed by deduplication.
func (m *Metrics) RecordSegmentAbsorbed() {
	m.SegmentsAbsorbed.Inc()
}

// RecordOverlap records a detected cross-window overlap.
func (m *Metrics) RecordOverlap() {
	m.OverlapsDetected.Inc()
}

// RecordRepair records one applied continuity repair rule.
func (m *Metrics) RecordRepair(rule string) {
	m.RepairsApplied.WithLabelValues(rule).Inc()
}

// RecordSummary records one summary generation attempt.
func (m *Metrics) RecordSummary(err error, latencySeconds float64) {
	m.SummariesTotal.Inc()
	m.SummaryLatency.Observe(latencySeconds)
	if err != nil {
		m.SummaryErrors.Inc()
	}
}

// RecordKafkaPublish records a Kafka publish attempt.
func (m *Metrics) RecordKafkaPublish(topic, eventType string, err error, latencySeconds float64) {
	m.KafkaPublishTotal.WithLabelValues(topic, eventType).Inc()
	m.KafkaPublishLatency.WithLabelValues(topic).Observe(latencySeconds)
	if err != nil {
		m.KafkaPublishErrors.WithLabelValues(topic, eventType).Inc()
	}
}

// RecordStoreSave records a store save attempt.
func (m *Metrics) RecordStoreSave(err error) {
	if err != nil {
		m.StoreErrors.Inc()
		return
	}
	m.StoreSaves.Inc()
}
