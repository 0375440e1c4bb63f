package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkoukk/tiktoken-go"
	openai "github.com/sashabaranov/go-openai"

	"github.com/soulsync/soulsync/internal/domain/kundali"
	"github.com/soulsync/soulsync/pkg/metrics"
)

// Config tunes the interpretation generator.
type Config struct {
	APIKey      string
	BaseURL     string
	Models      []string
	Temperature float32
	// MaxPromptTokens caps the serialized planetary payload; oversized
	// payloads are truncated, not rejected.
	MaxPromptTokens int
}

// Generator produces guidance text through an ordered model degrade chain:
// each configured model is tried with the identical prompt, the first success
// wins, and all failures are aggregated into one error.
type Generator struct {
	client *openai.Client
	cfg    Config
	logger *slog.Logger
}

// NewGenerator constructs the generator.
func NewGenerator(cfg Config, logger *slog.Logger) (*Generator, error) {
	if len(cfg.Models) == 0 {
		return nil, errors.New("llm generator needs at least one model")
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientConfig.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Generator{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		logger: logger.With("component", "llm.generator"),
	}, nil
}

// Interpret implements kundali.Interpreter.
func (g *Generator) Interpret(ctx context.Context, planetaryPayload string) (kundali.Interpretation, error) {
	prompt := kundali.BuildPrompt(g.truncatePayload(planetaryPayload))

	var failures []error
	for _, model := range g.cfg.Models {
		resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       model,
			Temperature: g.cfg.Temperature,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			g.logger.Warn("model call failed, degrading", "model", model, "error", err)
			failures = append(failures, fmt.Errorf("model %s: %w", model, err))
			continue
		}
		if len(resp.Choices) == 0 {
			failures = append(failures, fmt.Errorf("model %s: empty choices", model))
			continue
		}
		usage := metrics.TokenUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
		g.logger.Info("interpretation generated", "model", model, "total_tokens", usage.TotalTokens)
		return kundali.Interpretation{
			Content: resp.Choices[0].Message.Content,
			Model:   model,
			Usage:   usage,
		}, nil
	}
	return kundali.Interpretation{}, errors.Join(failures...)
}

// truncatePayload trims the planetary payload to the configured token budget
// using the tokenizer of the primary model.
func (g *Generator) truncatePayload(payload string) string {
	if g.cfg.MaxPromptTokens <= 0 {
		return payload
	}
	encoder, err := tiktoken.EncodingForModel(g.cfg.Models[0])
	if err != nil {
		encoder, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return payload
		}
	}
	tokens := encoder.Encode(payload, nil, nil)
	if len(tokens) <= g.cfg.MaxPromptTokens {
		return payload
	}
	g.logger.Warn("planetary payload truncated", "tokens", len(tokens), "budget", g.cfg.MaxPromptTokens)
	return encoder.Decode(tokens[:g.cfg.MaxPromptTokens])
}

var _ kundali.Interpreter = (*Generator)(nil)
