// Package schemas validates generated JSON documents against the embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed generation_result.schema.json
var generationResultSchema string

var (
	generationResult     *gojsonschema.Schema
	generationResultErr  error
	generationResultOnce sync.Once
)

// FieldError is a single violation at a JSON path.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

func loadGenerationResult() (*gojsonschema.Schema, error) {
	generationResultOnce.Do(func() {
		generationResult, generationResultErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(generationResultSchema))
		if generationResultErr != nil {
			generationResultErr = fmt.Errorf("failed to load generation result schema: %w", generationResultErr)
		}
	})
	return generationResult, generationResultErr
}

// ValidateGenerationResult checks that doc is an object carrying a non-empty
// recruiter_message and cover_letter.
func ValidateGenerationResult(doc string) error {
	schema, err := loadGenerationResult()
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("document is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{}
	for _, re := range result.Errors() {
		ve.Errors = append(ve.Errors, FieldError{
			Field:   re.Field(),
			Message: re.Description(),
		})
	}
	return ve
}
