package config

import (
	"sync"
	"time"
)

// ClientConfig configures the side that submits resumes to the generation service.
type ClientConfig struct {
	GeneratorURL string
	// Timeout of zero means the request is bound only to the view lifetime.
	Timeout time.Duration
}

var (
	clientConfig *ClientConfig
	clientOnce   sync.Once
)

func LoadClientConfig() *ClientConfig {
	clientOnce.Do(func() {
		clientConfig = &ClientConfig{
			GeneratorURL: envOr("GENERATOR_URL", "http://localhost:8000/generate"),
			Timeout:      envSeconds("CLIENT_TIMEOUT_SECONDS", 0),
		}
	})
	return clientConfig
}
