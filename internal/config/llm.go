package config

import (
	"strings"
	"sync"
	"time"
)

const (
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
)

type LLMConfig struct {
	Provider       string
	RequestTimeout time.Duration
	MaxRetries     int
}

var (
	llmConfig *LLMConfig
	llmOnce   sync.Once
)

func LoadLLMConfig() *LLMConfig {
	llmOnce.Do(func() {
		llmConfig = &LLMConfig{
			Provider:       strings.ToLower(envOr("LLM_PROVIDER", ProviderGemini)),
			RequestTimeout: envSeconds("LLM_TIMEOUT_SECONDS", 90*time.Second),
			MaxRetries:     envInt("LLM_MAX_RETRIES", 3),
		}
	})
	return llmConfig
}
