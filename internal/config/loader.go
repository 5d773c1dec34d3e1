package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Loader builds a Config from defaults, an optional YAML file, and
// environment overrides. Tests can override Lookup to inject
// deterministic maps.
type Loader struct {
	// Path to a YAML config file. Empty means no file; a missing file at a
	// non-empty path is an error.
	Path string
	// Lookup resolves environment variables. Defaults to os.LookupEnv.
	Lookup func(string) (string, bool)
}

// Load assembles and validates the configuration.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Default()

	path := l.Path
	if path == "" {
		if v, ok := l.Lookup("TRANSCRIBER_CONFIG"); ok && strings.TrimSpace(v) != "" {
			path = strings.TrimSpace(v)
		}
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	l.applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (l Loader) applyEnv(cfg *Config) {
	overrideInt(l.Lookup, "AUDIO_SAMPLE_RATE", &cfg.Audio.SampleRate)
	overrideInt(l.Lookup, "AUDIO_CHUNK_MS", &cfg.Audio.ChunkMs)
	overrideBool(l.Lookup, "AUDIO_REALTIME", &cfg.Audio.Realtime)

	overrideFloat(l.Lookup, "PIPELINE_MIN_WINDOW_SEC", &cfg.Pipeline.MinWindowSec)
	overrideFloat(l.Lookup, "PIPELINE_MAX_WINDOW_SEC", &cfg.Pipeline.MaxWindowSec)
	overrideInt(l.Lookup, "PIPELINE_OVERLAP_TAIL_MS", &cfg.Pipeline.OverlapTailMs)
	overrideFloat(l.Lookup, "PIPELINE_SILENCE_THRESHOLD", &cfg.Pipeline.SilenceThreshold)

	overrideBool(l.Lookup, "DEDUP_ENABLED", &cfg.Dedup.Enabled)
	overrideInt(l.Lookup, "DEDUP_SLIDING_WINDOW_SIZE", &cfg.Dedup.SlidingWindowSize)
	overrideFloat(l.Lookup, "DEDUP_OVERLAP_THRESHOLD", &cfg.Dedup.OverlapThreshold)
	overrideFloat(l.Lookup, "DEDUP_CONFIDENCE_WEIGHT", &cfg.Dedup.ConfidenceWeight)
	overrideInt(l.Lookup, "DEDUP_MAX_CONTEXT_SEGMENTS", &cfg.Dedup.MaxContextSegments)
	overrideBool(l.Lookup, "DEDUP_FUZZY_MATCHING", &cfg.Dedup.FuzzyMatching)

	overrideString(l.Lookup, "WHISPER_MODEL_PATH", &cfg.Whisper.ModelPath)
	overrideString(l.Lookup, "WHISPER_LANGUAGE", &cfg.Whisper.Language)
	overrideInt(l.Lookup, "WHISPER_THREADS", &cfg.Whisper.Threads)
	overrideInt(l.Lookup, "WHISPER_MAX_SEGMENT_MS", &cfg.Whisper.MaxSegmentMs)
	overrideFloat(l.Lookup, "WHISPER_VAD_THRESHOLD", &cfg.Whisper.VADThreshold)
	overrideBool(l.Lookup, "WHISPER_USE_GPU", &cfg.Whisper.UseGPU)

	overrideBool(l.Lookup, "LLM_ENABLED", &cfg.LLM.Enabled)
	overrideString(l.Lookup, "LLM_BASE_URL", &cfg.LLM.BaseURL)
	overrideString(l.Lookup, "LLM_API_KEY", &cfg.LLM.APIKey)
	overrideString(l.Lookup, "LLM_MODEL", &cfg.LLM.Model)
	overrideInt(l.Lookup, "LLM_MAX_TOKENS", &cfg.LLM.MaxTokens)
	overrideFloat(l.Lookup, "LLM_TEMPERATURE", &cfg.LLM.Temperature)
	overrideFloat(l.Lookup, "LLM_TOP_P", &cfg.LLM.TopP)

	overrideBool(l.Lookup, "KAFKA_ENABLED", &cfg.Kafka.Enabled)
	overrideStrings(l.Lookup, "KAFKA_BROKERS", &cfg.Kafka.Brokers)
	overrideString(l.Lookup, "KAFKA_TOPIC_SEGMENTS", &cfg.Kafka.TopicSegments)
	overrideString(l.Lookup, "KAFKA_TOPIC_SUMMARIES", &cfg.Kafka.TopicSummaries)

	overrideBool(l.Lookup, "STORE_ENABLED", &cfg.Store.Enabled)
	overrideString(l.Lookup, "STORE_PATH", &cfg.Store.Path)

	overrideString(l.Lookup, "METRICS_ADDR", &cfg.Observability.MetricsAddr)
	overrideString(l.Lookup, "LOG_LEVEL", &cfg.Log.Level)
	overrideBool(l.Lookup, "LOG_PRETTY", &cfg.Log.Pretty)
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
		*target = strings.TrimSpace(v)
	}
}

func overrideStrings(lookup func(string) (string, bool), key string, target *[]string) {
	v, ok := lookup(key)
	if !ok || strings.TrimSpace(v) == "" {
		return
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) > 0 {
		*target = out
	}
}

func overrideInt(lookup func(string) (string, bool), key string, target *int) {
	if v, ok := lookup(key); ok {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*target = n
		}
	}
}

func overrideFloat(lookup func(string) (string, bool), key string, target *float64) {
	if v, ok := lookup(key); ok {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*target = f
		}
	}
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) {
	if v, ok := lookup(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			*target = b
		}
	}
}
