package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/resume-ai/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// ProviderError is a non-2xx answer from an HTTP based provider.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Code, e.Message)
}

func (e *ProviderError) StatusCode() int {
	return e.Code
}

type OpenRouterService struct {
	client *resty.Client
	url    string
	model  string
	retry  *retryPolicy
}

func NewOpenRouterService(openRouterConfig *config.OpenRouterConfig, llmConfig *config.LLMConfig) (*OpenRouterService, error) {
	if openRouterConfig.APIKey == "" {
		return nil, errors.New("OPENROUTER_API_KEY not set")
	}

	client := resty.New().
		SetAuthToken(openRouterConfig.APIKey).
		SetHeader("Content-Type", "application/json")

	return &OpenRouterService{
		client: client,
		url:    openRouterConfig.BaseURL,
		model:  openRouterConfig.Model,
		retry:  newRetryPolicy(llmConfig.MaxRetries, llmConfig.RequestTimeout),
	}, nil
}

func (s *OpenRouterService) Provider() string { return config.ProviderOpenRouter }

func (s *OpenRouterService) Model() string { return s.model }

func (s *OpenRouterService) GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	return s.retry.Status()
}

func (s *OpenRouterService) GenerateLetters(ctx context.Context, prompt Prompt) (string, error) {
	if strings.TrimSpace(prompt.User) == "" {
		return "", errors.New("prompt cannot be empty")
	}

	messages := []map[string]string{}
	if prompt.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": prompt.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": prompt.User})

	payload := map[string]any{
		"model":           s.model,
		"messages":        messages,
		"response_format": map[string]string{"type": "json_object"},
	}

	var text string
	err := s.retry.do(ctx, "OpenRouter chat completion", func(ctx context.Context) error {
		resp, err := s.client.R().
			SetContext(ctx).
			SetBody(payload).
			Post(s.url)
		if err != nil {
			return err
		}
		if resp.IsError() {
			msg := gjson.Get(resp.String(), "error.message").String()
			if msg == "" {
				msg = resp.Status()
			}
			return &ProviderError{Code: resp.StatusCode(), Message: msg}
		}

		text = gjson.Get(resp.String(), "choices.0.message.content").String()
		if text == "" {
			return errors.New("no response from LLM")
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}
