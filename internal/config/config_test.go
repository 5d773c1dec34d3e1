package config

import (
	"os"
	"path/filepath"
	"testing"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Loader{Lookup: noEnv}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want 16000", cfg.Audio.SampleRate)
	}
	if cfg.Pipeline.MinWindowSec != 2 {
		t.Errorf("min window = %g, want 2", cfg.Pipeline.MinWindowSec)
	}
	if cfg.Pipeline.MaxWindowSec != 10 {
		t.Errorf("max window = %g, want 10", cfg.Pipeline.MaxWindowSec)
	}
	if cfg.Pipeline.OverlapTailMs != 500 {
		t.Errorf("overlap tail = %d, want 500", cfg.Pipeline.OverlapTailMs)
	}
	if !cfg.Dedup.Enabled {
		t.Error("dedup disabled by default, want enabled")
	}
	if cfg.Dedup.OverlapThreshold != 0.7 {
		t.Errorf("overlap threshold = %g, want 0.7", cfg.Dedup.OverlapThreshold)
	}
	if cfg.Dedup.MaxContextSegments != 5 {
		t.Errorf("max context segments = %d, want 5", cfg.Dedup.MaxContextSegments)
	}
	if cfg.Kafka.Enabled {
		t.Error("kafka enabled by default, want disabled")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q, want info", cfg.Log.Level)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	cfg, err := Loader{Lookup: envMap(map[string]string{
		"PIPELINE_MAX_WINDOW_SEC": "15",
		"DEDUP_OVERLAP_THRESHOLD": "0.8",
		"DEDUP_FUZZY_MATCHING":    "false",
		"WHISPER_MODEL_PATH":      "/models/tiny.bin",
		"WHISPER_THREADS":         "8",
		"KAFKA_ENABLED":           "true",
		"KAFKA_BROKERS":           "k1:9092, k2:9092",
		"LOG_LEVEL":               "debug",
	})}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.MaxWindowSec != 15 {
		t.Errorf("max window = %g, want 15", cfg.Pipeline.MaxWindowSec)
	}
	if cfg.Dedup.OverlapThreshold != 0.8 {
		t.Errorf("overlap threshold = %g, want 0.8", cfg.Dedup.OverlapThreshold)
	}
	if cfg.Dedup.FuzzyMatching {
		t.Error("fuzzy matching = true, want false")
	}
	if cfg.Whisper.ModelPath != "/models/tiny.bin" {
		t.Errorf("model path = %q, want /models/tiny.bin", cfg.Whisper.ModelPath)
	}
	if cfg.Whisper.Threads != 8 {
		t.Errorf("threads = %d, want 8", cfg.Whisper.Threads)
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "k1:9092" || cfg.Kafka.Brokers[1] != "k2:9092" {
		t.Errorf("brokers = %v, want [k1:9092 k2:9092]", cfg.Kafka.Brokers)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Log.Level)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte(`
pipeline:
  max_window_sec: 8
whisper:
  model_path: /models/base.bin
  language: de
store:
  enabled: true
  path: /tmp/lectures.db
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Loader{Path: path, Lookup: noEnv}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pipeline.MaxWindowSec != 8 {
		t.Errorf("max window = %g, want 8", cfg.Pipeline.MaxWindowSec)
	}
	if cfg.Whisper.Language != "de" {
		t.Errorf("language = %q, want de", cfg.Whisper.Language)
	}
	if !cfg.Store.Enabled || cfg.Store.Path != "/tmp/lectures.db" {
		t.Errorf("store = %+v, want enabled at /tmp/lectures.db", cfg.Store)
	}
	// Untouched sections keep their defaults.
	if cfg.Pipeline.MinWindowSec != 2 {
		t.Errorf("min window = %g, want default 2", cfg.Pipeline.MinWindowSec)
	}
}

func TestEnvOverridesBeatFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log:\n  level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Loader{Path: path, Lookup: envMap(map[string]string{
		"LOG_LEVEL": "trace",
	})}.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "trace" {
		t.Errorf("log level = %q, want trace (env beats file)", cfg.Log.Level)
	}
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Loader{Path: "/does/not/exist.yaml", Lookup: noEnv}.Load()
	if err == nil {
		t.Fatal("Load() succeeded for missing file, want error")
	}
}

func TestValidateRejectsWrongSampleRate(t *testing.T) {
	cfg := Default()
	cfg.Audio.SampleRate = 44100
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() allowed 44100 Hz, want error")
	}
}

func TestValidateRejectsInvertedWindows(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.MinWindowSec = 12
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() allowed min window above max, want error")
	}
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	cfg := Default()
	cfg.Dedup.OverlapThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() allowed overlap threshold 1.5, want error")
	}
}

func TestValidateRequiresModelPath(t *testing.T) {
	cfg := Default()
	cfg.Whisper.ModelPath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() allowed empty model path, want error")
	}
}

func TestValidateFillsZeroValues(t *testing.T) {
	var cfg Config
	cfg.Whisper.ModelPath = "m.bin"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Audio.SampleRate != 16000 {
		t.Errorf("sample rate = %d, want filled 16000", cfg.Audio.SampleRate)
	}
	if cfg.Pipeline.MaxWindowSec != 10 {
		t.Errorf("max window = %g, want filled 10", cfg.Pipeline.MaxWindowSec)
	}
	if cfg.Dedup.MaxContextSegments != 5 {
		t.Errorf("max context segments = %d, want filled 5", cfg.Dedup.MaxContextSegments)
	}
}
