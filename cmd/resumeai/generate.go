package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fadilmartias/resume-ai/internal/client"
	"github.com/fadilmartias/resume-ai/internal/config"
	"github.com/fadilmartias/resume-ai/internal/dto"
	"github.com/fadilmartias/resume-ai/internal/form"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a recruiter message and a cover letter",
	Long:  "Upload a resume (PDF, DOC, DOCX or TXT) together with a job description and print the generated recruiter message and cover letter.",
	RunE:  runGenerate,
}

var (
	genResumeFile         string
	genJobDescription     string
	genJobDescriptionFile string
	genCopyField          string
	genURL                string
)

// systemClipboard is replaced in tests.
var systemClipboard form.Clipboard = osClipboard{}

type osClipboard struct{}

func (osClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

func init() {
	generateCmd.Flags().StringVarP(&genResumeFile, "resume", "r", "", "Path to the resume file (required)")
	generateCmd.Flags().StringVarP(&genJobDescription, "job-description", "j", "", "Job description text")
	generateCmd.Flags().StringVar(&genJobDescriptionFile, "job-description-file", "", "Path to a file holding the job description")
	generateCmd.Flags().StringVar(&genCopyField, "copy", "", "Copy recruiter-message or cover-letter to the clipboard")
	generateCmd.Flags().StringVar(&genURL, "url", "", "Generation service URL (overrides GENERATOR_URL)")

	_ = generateCmd.MarkFlagRequired("resume")
	generateCmd.MarkFlagsMutuallyExclusive("job-description", "job-description-file")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	var copyField form.Field
	if genCopyField != "" {
		field, err := form.ParseField(genCopyField)
		if err != nil {
			return err
		}
		copyField = field
	}

	resume, err := readResumeFile(genResumeFile)
	if err != nil {
		return err
	}
	jobDescription, err := readJobDescription(genJobDescription, genJobDescriptionFile)
	if err != nil {
		return err
	}

	clientConfig := config.LoadClientConfig()
	url := genURL
	if url == "" {
		url = clientConfig.GeneratorURL
	}

	ctrl := form.NewController(client.New(url), clientConfig.Timeout)
	defer ctrl.Close()

	ctrl.SetResume(resume)
	ctrl.SetJobDescription(jobDescription)

	outcome, err := ctrl.Submit(cmd.Context())
	switch outcome {
	case form.OutcomeIncomplete:
		return errors.New("a resume file and a non-empty job description are required")
	case form.OutcomeGenerated:
	default:
		return fmt.Errorf("failed to generate letters: %w", err)
	}

	result := ctrl.Result()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Recruiter Message\n\n%s\n\n", result.RecruiterMessage)
	fmt.Fprintf(out, "Cover Letter\n\n%s\n", result.CoverLetter)

	if copyField != "" {
		if err := ctrl.Copy(copyField, systemClipboard); err != nil {
			return fmt.Errorf("failed to copy %s: %w", copyField, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Copied %s to the clipboard\n", copyField)
	}
	return nil
}

func readResumeFile(path string) (*dto.ResumeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	return &dto.ResumeFile{Name: filepath.Base(path), Data: data}, nil
}

func readJobDescription(text, path string) (string, error) {
	if path == "" {
		return text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read job description file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
