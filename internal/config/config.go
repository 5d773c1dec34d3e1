// Package config holds the runtime configuration for the transcriber:
// defaults, an optional YAML file, and environment overrides, in that
// order of precedence (lowest first).
package config

import (
	"fmt"

	"audio-transcriber/internal/audio"
)

// Config is the full runtime configuration.
type Config struct {
	Audio         AudioConfig         `yaml:"audio"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Dedup         DedupConfig         `yaml:"dedup"`
	Whisper       WhisperConfig       `yaml:"whisper"`
	LLM           LLMConfig           `yaml:"llm"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Store         StoreConfig         `yaml:"store"`
	Observability ObservabilityConfig `yaml:"observability"`
	Log           LogConfig           `yaml:"log"`
}

// AudioConfig describes the capture input.
type AudioConfig struct {
	// SampleRate of all audio in the pipeline. Only 16000 is supported.
	SampleRate int `yaml:"sample_rate"`
	// ChunkMs is the capture chunk duration in milliseconds.
	ChunkMs int `yaml:"chunk_ms"`
	// Realtime paces file playback at capture speed instead of reading as
	// fast as the source allows.
	Realtime bool `yaml:"realtime"`
}

// PipelineConfig controls window accumulation and flushing.
type PipelineConfig struct {
	MinWindowSec     float64 `yaml:"min_window_sec"`
	MaxWindowSec     float64 `yaml:"max_window_sec"`
	OverlapTailMs    int     `yaml:"overlap_tail_ms"`
	SilenceThreshold float64 `yaml:"silence_threshold"`
}

// DedupConfig controls overlap reconciliation between windows.
type DedupConfig struct {
	Enabled            bool    `yaml:"enabled"`
	SlidingWindowSize  int     `yaml:"sliding_window_size"`
	OverlapThreshold   float64 `yaml:"overlap_threshold"`
	ConfidenceWeight   float64 `yaml:"confidence_weight"`
	MaxContextSegments int     `yaml:"max_context_segments"`
	FuzzyMatching      bool    `yaml:"fuzzy_matching"`
}

// WhisperConfig configures the transcription engine.
type WhisperConfig struct {
	ModelPath    string  `yaml:"model_path"`
	Language     string  `yaml:"language"`
	Threads      int     `yaml:"threads"`
	MaxSegmentMs int     `yaml:"max_segment_ms"`
	VADThreshold float64 `yaml:"vad_threshold"`
	UseGPU       bool    `yaml:"use_gpu"`
}

// LLMConfig configures the summarization backend, an OpenAI-compatible
// HTTP endpoint such as llama-server.
type LLMConfig struct {
	Enabled     bool    `yaml:"enabled"`
	BaseURL     string  `yaml:"base_url"`
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
	TopP        float64 `yaml:"top_p"`
}

// KafkaConfig configures event publishing. When disabled, events are
// logged instead of produced.
type KafkaConfig struct {
	Enabled        bool     `yaml:"enabled"`
	Brokers        []string `yaml:"brokers"`
	TopicSegments  string   `yaml:"topic_segments"`
	TopicSummaries string   `yaml:"topic_summaries"`
}

// StoreConfig configures the SQLite transcription store.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// ObservabilityConfig configures the metrics and health HTTP server.
type ObservabilityConfig struct {
	MetricsAddr string `yaml:"metrics_addr"`
}

// LogConfig configures zerolog.
type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() Config {
	return Config{
		Audio: AudioConfig{
			SampleRate: audio.SampleRate,
			ChunkMs:    100,
		},
		Pipeline: PipelineConfig{
			MinWindowSec:     2,
			MaxWindowSec:     10,
			OverlapTailMs:    500,
			SilenceThreshold: 0.01,
		},
		Dedup: DedupConfig{
			Enabled:            true,
			SlidingWindowSize:  10,
			OverlapThreshold:   0.7,
			ConfidenceWeight:   0.3,
			MaxContextSegments: 5,
			FuzzyMatching:      true,
		},
		Whisper: WhisperConfig{
			ModelPath:    "models/ggml-base.en.bin",
			Language:     "en",
			Threads:      4,
			VADThreshold: 0.6,
		},
		LLM: LLMConfig{
			BaseURL:     "http://localhost:8080/v1",
			Model:       "local",
			MaxTokens:   512,
			Temperature: 0.7,
			TopP:        0.9,
		},
		Kafka: KafkaConfig{
			Brokers:        []string{"localhost:9092"},
			TopicSegments:  "transcript.segments",
			TopicSummaries: "transcript.summaries",
		},
		Store: StoreConfig{
			Path: "transcriptions.db",
		},
		Observability: ObservabilityConfig{
			MetricsAddr: ":9090",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate applies defaults for zero values and rejects out-of-range
// settings.
func (c *Config) Validate() error {
	if c.Audio.SampleRate == 0 {
		c.Audio.SampleRate = audio.SampleRate
	}
	if c.Audio.SampleRate != audio.SampleRate {
		return fmt.Errorf("config: sample rate must be %d, got %d", audio.SampleRate, c.Audio.SampleRate)
	}
	if c.Audio.ChunkMs <= 0 {
		c.Audio.ChunkMs = 100
	}

	if c.Pipeline.MinWindowSec <= 0 {
		c.Pipeline.MinWindowSec = 2
	}
	if c.Pipeline.MaxWindowSec <= 0 {
		c.Pipeline.MaxWindowSec = 10
	}
	if c.Pipeline.MaxWindowSec < c.Pipeline.MinWindowSec {
		return fmt.Errorf("config: max window %.1fs is below min window %.1fs",
			c.Pipeline.MaxWindowSec, c.Pipeline.MinWindowSec)
	}
	if c.Pipeline.OverlapTailMs < 0 {
		return fmt.Errorf("config: overlap tail must be >= 0, got %dms", c.Pipeline.OverlapTailMs)
	}
	if c.Pipeline.SilenceThreshold < 0 {
		return fmt.Errorf("config: silence threshold must be >= 0, got %g", c.Pipeline.SilenceThreshold)
	}

	if c.Dedup.SlidingWindowSize <= 0 {
		c.Dedup.SlidingWindowSize = 10
	}
	if c.Dedup.OverlapThreshold < 0 || c.Dedup.OverlapThreshold > 1 {
		return fmt.Errorf("config: overlap threshold must be in [0,1], got %g", c.Dedup.OverlapThreshold)
	}
	if c.Dedup.ConfidenceWeight < 0 || c.Dedup.ConfidenceWeight > 1 {
		return fmt.Errorf("config: confidence weight must be in [0,1], got %g", c.Dedup.ConfidenceWeight)
	}
	if c.Dedup.MaxContextSegments <= 0 {
		c.Dedup.MaxContextSegments = 5
	}

	if c.Whisper.ModelPath == "" {
		return fmt.Errorf("config: whisper model path is required")
	}
	if c.Whisper.Threads < 0 {
		return fmt.Errorf("config: whisper threads must be >= 0, got %d", c.Whisper.Threads)
	}

	if c.LLM.Enabled && c.LLM.BaseURL == "" {
		return fmt.Errorf("config: llm base URL is required when llm is enabled")
	}
	if c.LLM.MaxTokens <= 0 {
		c.LLM.MaxTokens = 512
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("config: kafka brokers are required when kafka is enabled")
	}
	if c.Kafka.TopicSegments == "" {
		c.Kafka.TopicSegments = "transcript.segments"
	}
	if c.Kafka.TopicSummaries == "" {
		c.Kafka.TopicSummaries = "transcript.summaries"
	}

	if c.Store.Enabled && c.Store.Path == "" {
		return fmt.Errorf("config: store path is required when the store is enabled")
	}

	if c.Observability.MetricsAddr == "" {
		c.Observability.MetricsAddr = ":9090"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return nil
}
