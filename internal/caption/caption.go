// Package caption generates short caption and vibe text for memes from
// their tag list. Generation is best effort: callers substitute the
// fallback strings whenever a generator call fails.
package caption

import (
	"context"
	"fmt"
	"strings"

	"charm.land/fantasy"
	"charm.land/fantasy/providers/anthropic"
	"charm.land/fantasy/providers/openai"
	"charm.land/fantasy/providers/openrouter"
)

// Fallback text used whenever generation fails or is disabled.
const (
	FallbackCaption = "when the tags speak for themselves"
	FallbackVibe    = "chaotic neutral"
)

// Generator produces caption and vibe text for a tag list.
type Generator interface {
	Caption(ctx context.Context, tags []string) (string, error)
	Vibe(ctx context.Context, tags []string) (string, error)
}

// Config selects and configures the language model provider.
type Config struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
}

// LLMGenerator generates text with a hosted language model.
type LLMGenerator struct {
	model fantasy.LanguageModel
}

var _ Generator = (*LLMGenerator)(nil)

// NewLLMGenerator creates a generator backed by the configured provider.
func NewLLMGenerator(ctx context.Context, cfg Config) (*LLMGenerator, error) {
	var provider fantasy.Provider
	var err error

	switch cfg.Provider {
	case "openai":
		opts := []openai.Option{openai.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		provider, err = openai.New(opts...)

	case "anthropic":
		opts := []anthropic.Option{anthropic.WithAPIKey(cfg.APIKey)}
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		provider, err = anthropic.New(opts...)

	case "openrouter":
		provider, err = openrouter.New(openrouter.WithAPIKey(cfg.APIKey))

	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	model, err := provider.LanguageModel(ctx, cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("get language model: %w", err)
	}

	return &LLMGenerator{model: model}, nil
}

func (g *LLMGenerator) Caption(ctx context.Context, tags []string) (string, error) {
	return g.complete(ctx, CaptionPrompt(tags))
}

func (g *LLMGenerator) Vibe(ctx context.Context, tags []string) (string, error) {
	return g.complete(ctx, VibePrompt(tags))
}

func (g *LLMGenerator) complete(ctx context.Context, prompt string) (string, error) {
	agent := fantasy.NewAgent(g.model)

	result, err := agent.Generate(ctx, fantasy.AgentCall{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("generate: %w", err)
	}

	return strings.TrimSpace(result.Response.Content.Text()), nil
}

// CaptionPrompt builds the caption prompt for a tag list.
func CaptionPrompt(tags []string) string {
	return fmt.Sprintf(
		"Write a funny one-line caption for a meme tagged: %s. Reply with the caption only.",
		strings.Join(tags, ", "))
}

// VibePrompt builds the vibe prompt for a tag list.
func VibePrompt(tags []string) string {
	return fmt.Sprintf(
		"Describe the vibe of a meme tagged %s in at most four words. Reply with the vibe only.",
		strings.Join(tags, ", "))
}

// Static is a Generator that always returns fixed text. It is used when
// no language model is configured, and in tests.
type Static struct {
	CaptionText string
	VibeText    string
}

var _ Generator = (*Static)(nil)

// Disabled returns a Static generator serving the fallback strings.
func Disabled() *Static {
	return &Static{CaptionText: FallbackCaption, VibeText: FallbackVibe}
}

func (s *Static) Caption(_ context.Context, _ []string) (string, error) {
	return s.CaptionText, nil
}

func (s *Static) Vibe(_ context.Context, _ []string) (string, error) {
	return s.VibeText, nil
}
