package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/resume-ai/internal/config"
	"google.golang.org/genai"
)

type GeminiService struct {
	Client *genai.Client
	model  string
	retry  *retryPolicy
}

func NewGeminiService(ctx context.Context, geminiConfig *config.GeminiConfig, llmConfig *config.LLMConfig) (*GeminiService, error) {
	if geminiConfig.APIKey == "" {
		return nil, errors.New("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  geminiConfig.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiService{
		Client: client,
		model:  geminiConfig.Model,
		retry:  newRetryPolicy(llmConfig.MaxRetries, llmConfig.RequestTimeout),
	}, nil
}

func (s *GeminiService) Provider() string { return config.ProviderGemini }

func (s *GeminiService) Model() string { return s.model }

// letterSchema constrains Gemini to the two-field answer.
var letterSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"recruiter_message": {Type: genai.TypeString, Description: "Personalized message for the recruiter"},
		"cover_letter":      {Type: genai.TypeString, Description: "Generated cover letter"},
	},
	Required: []string{"recruiter_message", "cover_letter"},
}

func (s *GeminiService) GenerateLetters(ctx context.Context, prompt Prompt) (string, error) {
	if strings.TrimSpace(prompt.User) == "" {
		return "", errors.New("prompt cannot be empty")
	}

	genConfig := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.7)),
		ResponseMIMEType: "application/json",
		ResponseSchema:   letterSchema,
	}
	if prompt.System != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(prompt.System, genai.RoleUser)
	}

	var text string
	err := s.retry.do(ctx, "GenerateLetters", func(ctx context.Context) error {
		result, err := s.Client.Models.GenerateContent(ctx, s.model, genai.Text(prompt.User), genConfig)
		if err != nil {
			return err
		}
		if err := validateGenerateResponse(result); err != nil {
			return fmt.Errorf("invalid response: %w", err)
		}
		text = result.Text()
		return nil
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return errors.New("response is nil")
	}

	if len(resp.Candidates) == 0 {
		return errors.New("no candidates in response")
	}

	if resp.Candidates[0].Content == nil {
		return errors.New("candidate content is nil")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return errors.New("no parts in content")
	}

	return nil
}

func (s *GeminiService) GetCircuitBreakerStatus() (consecutiveErrors int, isOpen bool) {
	return s.retry.Status()
}
