package config

import (
	"log"
	"os"
	"sync"
)

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	WebPort string
	BaseURL string
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
			log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
		}
		appConfig = &AppConfig{
			Name:    envOr("APP_NAME", "ResumeAI"),
			Env:     env,
			Port:    envOr("APP_PORT", ":8000"),
			WebPort: envOr("WEB_PORT", ":3000"),
			BaseURL: os.Getenv("APP_URL"),
		}
	})
	return appConfig
}

// IsProduction reports whether stack traces and dev messages must be hidden.
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
