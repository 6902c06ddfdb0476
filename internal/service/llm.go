package service

import (
	"context"
	"fmt"

	"github.com/fadilmartias/resume-ai/internal/config"
)

// LetterGeneratorInterface is implemented by every LLM provider. GenerateLetters
// returns the raw model output, which is expected to be a JSON document.
type LetterGeneratorInterface interface {
	GenerateLetters(ctx context.Context, prompt Prompt) (string, error)
	Provider() string
	Model() string
	// GetCircuitBreakerStatus reports consecutive failures and whether calls are refused.
	GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool)
}

// Ready reports whether the generator currently accepts calls.
func Ready(generator LetterGeneratorInterface) bool {
	_, open := generator.GetCircuitBreakerStatus()
	return !open
}

// NewLetterGenerator picks the provider configured by LLM_PROVIDER.
func NewLetterGenerator(ctx context.Context, llmConfig *config.LLMConfig) (LetterGeneratorInterface, error) {
	switch llmConfig.Provider {
	case config.ProviderGemini:
		return NewGeminiService(ctx, config.LoadGeminiConfig(), llmConfig)
	case config.ProviderOpenRouter:
		return NewOpenRouterService(config.LoadOpenRouterConfig(), llmConfig)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q (expected %q or %q)", llmConfig.Provider, config.ProviderGemini, config.ProviderOpenRouter)
	}
}
