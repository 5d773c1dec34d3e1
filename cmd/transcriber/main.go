package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"audio-transcriber/internal/app"
	"audio-transcriber/internal/audio"
	"audio-transcriber/internal/config"
	"audio-transcriber/internal/engine"
	"audio-transcriber/internal/engine/llamaserver"
	"audio-transcriber/internal/engine/whisper"
	"audio-transcriber/internal/events"
	"audio-transcriber/internal/models"
	"audio-transcriber/internal/observability"
	"audio-transcriber/internal/observability/logging"
	"audio-transcriber/internal/pipeline"
	"audio-transcriber/internal/session"
	"audio-transcriber/internal/store"
	"audio-transcriber/internal/summarize"
	"audio-transcriber/internal/transcript"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Transcriber exited with error")
	}
}

func run() error {
	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to YAML config file")
	inputPath := flag.String("input", "", "raw 16-bit LE mono 16kHz PCM file, - for stdin")
	flag.Parse()

	cfg, err := config.Loader{Path: *configPath}.Load()
	if err != nil {
		return err
	}

	application := app.New(&cfg)
	if err := application.Start(); err != nil {
		return err
	}
	defer application.Shutdown()

	// Observability server comes up first so health probes work while the
	// model loads.
	obs := observability.NewServer(cfg.Observability.MetricsAddr)
	obs.Start()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := obs.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Observability server shutdown failed")
		}
	}()

	transcriber, err := whisper.New(engine.TranscriberConfig{
		ModelPath:    cfg.Whisper.ModelPath,
		Language:     cfg.Whisper.Language,
		Threads:      cfg.Whisper.Threads,
		MaxSegment:   time.Duration(cfg.Whisper.MaxSegmentMs) * time.Millisecond,
		VADThreshold: cfg.Whisper.VADThreshold,
		UseGPU:       cfg.Whisper.UseGPU,
	})
	if err != nil {
		return err
	}
	defer transcriber.Close()

	var generator engine.Generator
	if cfg.LLM.Enabled {
		generator, err = llamaserver.New(engine.GeneratorConfig{
			BaseURL:     cfg.LLM.BaseURL,
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			TopP:        cfg.LLM.TopP,
		})
		if err != nil {
			return err
		}
		defer generator.Close()
	}

	var db *store.Store
	if cfg.Store.Enabled {
		db, err = store.Open(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	publisher := events.New(&events.Config{
		Enabled:        cfg.Kafka.Enabled,
		Brokers:        cfg.Kafka.Brokers,
		TopicSegments:  cfg.Kafka.TopicSegments,
		TopicSummaries: cfg.Kafka.TopicSummaries,
	})
	defer publisher.Close()

	input := os.Stdin
	if *inputPath != "" && *inputPath != "-" {
		f, err := os.Open(*inputPath)
		if err != nil {
			return fmt.Errorf("open input %s: %w", *inputPath, err)
		}
		defer f.Close()
		input = f
	}

	sessionId := session.NewID()
	segmentIds := session.NewGenerator()
	logger := logging.WithSession(sessionId)

	var transcriptParts []string
	var segmentCount int

	// Emitted from the pipeline's consumer goroutine, one segment at a
	// time, so no locking is needed here.
	emit := func(seg transcript.Segment) {
		segmentId := segmentIds.Next(sessionId)
		transcriptParts = append(transcriptParts, seg.Text)
		segmentCount++

		segLogger := logging.WithSegment(sessionId, segmentId)
		segLogger.Info().
			Float64("start", seg.Start).
			Float64("end", seg.End).
			Float64("confidence", seg.Confidence).
			Str("text", seg.Text).
			Msg("Segment finalized")

		event := models.SegmentFinal{
			EventType:  "transcript.segment.final",
			SessionID:  sessionId,
			SegmentID:  segmentId,
			Timestamp:  time.Now().UnixMilli(),
			Text:       seg.Text,
			StartTime:  seg.Start,
			EndTime:    seg.End,
			Confidence: seg.Confidence,
			Language:   seg.Language,
		}
		if err := publisher.PublishSegment(context.Background(), sessionId, event); err != nil {
			segLogger.Error().Err(err).Msg("Failed to publish segment")
		}

		if db != nil {
			if err := db.Save(context.Background(), seg.Text); err != nil {
				segLogger.Error().Err(err).Msg("Failed to save segment")
			}
		}
	}

	reconciler := transcript.NewReconciler(transcript.ReconcilerConfig{
		SlidingWindowSize:  cfg.Dedup.SlidingWindowSize,
		OverlapThreshold:   cfg.Dedup.OverlapThreshold,
		ConfidenceWeight:   cfg.Dedup.ConfidenceWeight,
		MaxContextSegments: cfg.Dedup.MaxContextSegments,
		FuzzyMatching:      cfg.Dedup.FuzzyMatching,
	})
	repairer := transcript.NewRepairer()

	seg := pipeline.NewSegmenter(pipeline.SegmenterConfig{
		SampleRate:       cfg.Audio.SampleRate,
		MinWindow:        time.Duration(cfg.Pipeline.MinWindowSec * float64(time.Second)),
		MaxWindow:        time.Duration(cfg.Pipeline.MaxWindowSec * float64(time.Second)),
		OverlapTail:      time.Duration(cfg.Pipeline.OverlapTailMs) * time.Millisecond,
		SilenceThreshold: cfg.Pipeline.SilenceThreshold,
		Dedup:            cfg.Dedup.Enabled,
	}, transcriber, reconciler, repairer, emit)

	pipe := pipeline.New(seg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := pipe.Start(ctx); err != nil {
		return err
	}

	source := audio.NewReaderSource(input, audio.ReaderSourceConfig{
		ChunkMs:  cfg.Audio.ChunkMs,
		Realtime: cfg.Audio.Realtime,
	})

	obs.SetReady(true)
	logger.Info().Msg("Transcription session started")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer pipe.Stop()
		return source.Start(gctx, pipe.Push)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	obs.SetReady(false)

	fullTranscript := strings.Join(transcriptParts, " ")
	logger.Info().
		Int("segments", segmentCount).
		Int("transcriptChars", len(fullTranscript)).
		Msg("Transcription session finished")

	if generator != nil && fullTranscript != "" {
		summarizer := summarize.New(generator, cfg.LLM.MaxTokens)
		summary, err := summarizer.SummarizeTranscript(context.Background(), fullTranscript)
		if err != nil {
			logger.Error().Err(err).Msg("Summarization failed")
		} else {
			fmt.Println(summary)

			event := models.SummaryCreated{
				EventType:    "transcript.summary.created",
				SessionID:    sessionId,
				Timestamp:    time.Now().UnixMilli(),
				Summary:      summary,
				SegmentCount: segmentCount,
			}
			if err := publisher.PublishSummary(context.Background(), sessionId, event); err != nil {
				logger.Error().Err(err).Msg("Failed to publish summary")
			}
			if db != nil {
				if err := db.Save(context.Background(), summary); err != nil {
					logger.Error().Err(err).Msg("Failed to save summary")
				}
			}
		}
	}

	return nil
}
