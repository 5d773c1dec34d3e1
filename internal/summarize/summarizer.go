// Package summarize builds lecture-oriented prompts over accumulated
// transcript text and runs them through a text-generation engine.
package summarize

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"audio-transcriber/internal/engine"
	"audio-transcriber/internal/observability/metrics"
)

const summaryPrompt = `Summarize this university lecture transcript. Focus on:
1. Key concepts and definitions
2. Important formulas or theories
3. Examples given by the professor
4. Potential exam topics

Transcript:
%s

Summary:`

const questionPrompt = `Based on this lecture content, answer the following question:

Context:
%s

Question: %s

Answer:`

// Summarizer turns transcripts into summaries and answers questions
// against them.
type Summarizer struct {
	gen       engine.Generator
	maxTokens int
	metrics   *metrics.Metrics
	logger    zerolog.Logger
}

// New creates a summarizer over the given generator. maxTokens bounds
// answers; summaries always use a fixed 512 tokens.
func New(gen engine.Generator, maxTokens int) *Summarizer {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &Summarizer{
		gen:       gen,
		maxTokens: maxTokens,
		metrics:   metrics.DefaultMetrics,
		logger:    log.With().Str("component", "summarizer").Logger(),
	}
}

// SummarizeTranscript produces a study summary of the given transcript.
// A blank transcript returns an error without invoking the engine.
func (s *Summarizer) SummarizeTranscript(ctx context.Context, transcript string) (string, error) {
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("summarize: empty transcript")
	}

	prompt := fmt.Sprintf(summaryPrompt, transcript)
	result, err := s.gen.Generate(ctx, prompt, 512)
	s.metrics.RecordSummary(err, result.InferenceTime.Seconds())
	if err != nil {
		s.logger.Error().Err(err).Msg("Summary generation failed")
		return "", fmt.Errorf("summarize: generate summary: %w", err)
	}

	s.logger.Info().
		Int("tokens", result.TokensGenerated).
		Dur("inferenceTime", result.InferenceTime).
		Msg("Summary generated")
	return strings.TrimSpace(result.Text), nil
}

// AnswerQuestion answers a question grounded in the given lecture
// content.
func (s *Summarizer) AnswerQuestion(ctx context.Context, question, transcript string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("summarize: empty question")
	}
	if strings.TrimSpace(transcript) == "" {
		return "", fmt.Errorf("summarize: empty context")
	}

	prompt := fmt.Sprintf(questionPrompt, transcript, question)
	result, err := s.gen.Generate(ctx, prompt, s.maxTokens)
	s.metrics.RecordSummary(err, result.InferenceTime.Seconds())
	if err != nil {
		s.logger.Error().Err(err).Msg("Answer generation failed")
		return "", fmt.Errorf("summarize: generate answer: %w", err)
	}
	return strings.TrimSpace(result.Text), nil
}
