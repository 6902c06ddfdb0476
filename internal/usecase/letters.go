package usecase

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/resume-ai/internal/dto"
	"github.com/fadilmartias/resume-ai/internal/schemas"
	"github.com/tidwall/gjson"
)

// ErrInvalidModelOutput is returned when the model answer does not carry both letters.
var ErrInvalidModelOutput = errors.New("invalid model output")

// ParseLetters reads the recruiter message and the cover letter out of raw model output.
// Markdown code fences around the JSON are tolerated.
func ParseLetters(text string) (*dto.GenerationResult, error) {
	doc := stripCodeFence(text)
	if !gjson.Valid(doc) {
		return nil, fmt.Errorf("%w: not a JSON document", ErrInvalidModelOutput)
	}
	if err := schemas.ValidateGenerationResult(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidModelOutput, err)
	}

	fields := gjson.GetMany(doc, "recruiter_message", "cover_letter")
	return &dto.GenerationResult{
		RecruiterMessage: strings.TrimSpace(fields[0].String()),
		CoverLetter:      strings.TrimSpace(fields[1].String()),
	}, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
