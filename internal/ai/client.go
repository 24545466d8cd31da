package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/khrees2412/pipeliner/internal/config"
	"github.com/khrees2412/pipeliner/pkg/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Default models per provider, used when default_model is blank
var defaultModels = map[string]string{
	"gemini":    "gemini-2.5-flash",
	"openai":    "gpt-4o-mini",
	"anthropic": "claude-3-5-haiku-latest",
	"ollama":    "llama3.2",
	"lmstudio":  "local-model",
}

// NewModel builds the language model selected by cfg.AIProvider
func NewModel(ctx context.Context, cfg *config.Config) (llms.Model, error) {
	provider := cfg.AIProvider
	if provider == "" {
		provider = "gemini"
	}
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModels[provider]
	}

	switch provider {
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("%w: Gemini API key missing. Run: pipeliner config set --key gemini_key --value YOUR_KEY", models.ErrNotConfigured)
		}
		return googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiKey),
			googleai.WithDefaultModel(model),
		)
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("%w: OpenAI API key missing. Run: pipeliner config set --key openai_key --value YOUR_KEY", models.ErrNotConfigured)
		}
		return openai.New(openai.WithToken(cfg.OpenAIKey), openai.WithModel(model))
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("%w: Anthropic API key missing. Run: pipeliner config set --key anthropic_key --value YOUR_KEY", models.ErrNotConfigured)
		}
		return anthropic.New(anthropic.WithToken(cfg.AnthropicKey), anthropic.WithModel(model))
	case "ollama":
		return ollama.New(ollama.WithServerURL(cfg.OllamaURL), ollama.WithModel(model))
	case "lmstudio":
		// LM Studio speaks the OpenAI protocol and ignores the token
		return openai.New(
			openai.WithBaseURL(strings.TrimRight(cfg.LMStudioURL, "/")),
			openai.WithToken("lm-studio"),
			openai.WithModel(model),
		)
	default:
		return nil, fmt.Errorf("%w: unsupported AI provider: %s", models.ErrInvalid, provider)
	}
}
