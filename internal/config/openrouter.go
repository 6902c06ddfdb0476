package config

import (
	"os"
	"sync"
)

type OpenRouterConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

var (
	openRouterConfig *OpenRouterConfig
	openRouterOnce   sync.Once
)

func LoadOpenRouterConfig() *OpenRouterConfig {
	openRouterOnce.Do(func() {
		openRouterConfig = &OpenRouterConfig{
			APIKey:  os.Getenv("OPENROUTER_API_KEY"),
			Model:   envOr("OPENROUTER_MODEL", "openai/gpt-4o-mini"),
			BaseURL: envOr("OPENROUTER_URL", "https://openrouter.ai/api/v1/chat/completions"),
		}
	})
	return openRouterConfig
}
