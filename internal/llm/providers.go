package llm

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/config"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/search"
)

// Environment variables holding provider API keys
const (
	GroqKeyEnv   = "GROQ_API_KEY"
	GeminiKeyEnv = "GEMINI_API_KEY"
)

// Providers builds the configured providers in order: primary, then
// fallback. A provider without an API key is skipped with a warning, so an
// empty result means every search uses the local parser.
func Providers(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) []search.Provider {
	if logger == nil {
		logger = zap.NewNop()
	}

	var providers []search.Provider
	for _, name := range []string{cfg.Primary, cfg.Fallback} {
		if name == "" {
			continue
		}
		p, err := newProvider(ctx, name, cfg)
		if err != nil {
			logger.Warn("llm provider disabled", zap.String("provider", name), zap.Error(err))
			continue
		}
		providers = append(providers, p)
	}
	return providers
}

func newProvider(ctx context.Context, name string, cfg config.LLMConfig) (search.Provider, error) {
	switch name {
	case "groq":
		key := os.Getenv(GroqKeyEnv)
		if key == "" {
			return search.Provider{}, fmt.Errorf("%s is not set", GroqKeyEnv)
		}
		return search.Provider{Name: name, Completer: NewGroq(cfg.Groq, key, cfg.Timeout())}, nil
	case "gemini":
		c, err := NewGemini(ctx, cfg.Gemini, os.Getenv(GeminiKeyEnv))
		if err != nil {
			return search.Provider{}, err
		}
		return search.Provider{Name: name, Completer: c}, nil
	default:
		return search.Provider{}, fmt.Errorf("unknown provider: %s", name)
	}
}

// Strategies wraps each provider in a parsing strategy
func Strategies(providers []search.Provider, cfg config.LLMConfig) []search.Strategy {
	strategies := make([]search.Strategy, 0, len(providers))
	for _, p := range providers {
		strategies = append(strategies, search.NewLLMStrategy(p, cfg.Timeout()))
	}
	return strategies
}
