// Package llamaserver implements engine.Generator against an
// OpenAI-compatible chat completion endpoint, typically a local llama-server
// instance. It works with any server speaking the same protocol.
package llamaserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"

	"audio-transcriber/internal/engine"
)

const defaultRequestTimeout = 300 * time.Second

// Generator is an HTTP client for an OpenAI-compatible completion server.
type Generator struct {
	client *openai.Client
	cfg    engine.GeneratorConfig
	logger zerolog.Logger
}

// New creates a generator. BaseURL is required; APIKey may be any
// placeholder for servers that do not check it.
func New(cfg engine.GeneratorConfig) (*Generator, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("llamaserver: base URL is required")
	}

	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = "not-needed"
	}
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = cfg.BaseURL
	clientCfg.HTTPClient = &http.Client{Timeout: defaultRequestTimeout}

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: log.With().Str("component", "llamaserver").Str("baseUrl", cfg.BaseURL).Logger(),
	}, nil
}

// Generate sends the prompt as a single user message and returns the
// completion. maxTokens <= 0 falls back to the configured default.
func (g *Generator) Generate(ctx context.Context, prompt string, maxTokens int) (engine.Generation, error) {
	if maxTokens <= 0 {
		maxTokens = g.cfg.MaxTokens
	}

	req := openai.ChatCompletionRequest{
		Model:       g.cfg.Model,
		MaxTokens:   maxTokens,
		Temperature: float32(g.cfg.Temperature),
		TopP:        float32(g.cfg.TopP),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		g.logger.Error().Err(err).Dur("elapsed", elapsed).Msg("Completion request failed")
		return engine.Generation{}, fmt.Errorf("llamaserver: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return engine.Generation{}, fmt.Errorf("llamaserver: completion returned no choices")
	}

	g.logger.Debug().
		Int("promptChars", len(prompt)).
		Int("tokens", resp.Usage.CompletionTokens).
		Dur("elapsed", elapsed).
		Msg("Completion finished")

	return engine.Generation{
		Text:            resp.Choices[0].Message.Content,
		TokensGenerated: resp.Usage.CompletionTokens,
		InferenceTime:   elapsed,
	}, nil
}

// Close is a no-op; the generator holds no persistent connection state.
func (g *Generator) Close() error { return nil }
