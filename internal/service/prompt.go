package service

import (
	"fmt"
	"strings"
)

const SystemPrompt = "You are an AI assistant specializing in crafting personalized recruiter messages and cover letters. " +
	"Generate both based on the provided resume and job description."

const letterPrompt = `Resume:
%s

Job Description:
%s

Please generate a personalized recruiter message and a cover letter.

Return your answer STRICTLY in JSON format with this schema:
{
  "recruiter_message": "<short personalized message for the recruiter, suitable for direct outreach>",
  "cover_letter": "<complete cover letter to accompany the application>"
}`

// Prompt is a single generation request sent to an LLM provider.
type Prompt struct {
	System string
	User   string
}

// BuildLetterPrompt combines the extracted resume text and the job description.
func BuildLetterPrompt(resumeText, jobDescription string) Prompt {
	return Prompt{
		System: SystemPrompt,
		User:   fmt.Sprintf(letterPrompt, strings.TrimSpace(resumeText), strings.TrimSpace(jobDescription)),
	}
}
