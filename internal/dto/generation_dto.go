package dto

import (
	"time"

	"github.com/google/uuid"
)

// ResumeFile is an uploaded resume kept in memory with its original name and MIME type.
type ResumeFile struct {
	Name        string `validate:"required"`
	ContentType string
	Data        []byte
}

// Submission is the pair sent to the generation service.
type Submission struct {
	Resume         *ResumeFile `validate:"required"`
	JobDescription string      `validate:"required,notblank"`
}

// GenerationResult is the body of a successful POST /generate.
type GenerationResult struct {
	RecruiterMessage string `json:"recruiter_message"`
	CoverLetter      string `json:"cover_letter"`
}

type GenerationDTO struct {
	ID               uuid.UUID `json:"id"`
	ResumeName       string    `json:"resume_name"`
	JobDescription   string    `json:"job_description"`
	RecruiterMessage string    `json:"recruiter_message"`
	CoverLetter      string    `json:"cover_letter"`
	Provider         string    `json:"provider"`
	Model            string    `json:"model"`
	Status           string    `json:"status"`
	Error            string    `json:"error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
