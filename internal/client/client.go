// Package client talks to the generation service over its multipart HTTP contract.
package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fadilmartias/resume-ai/internal/dto"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

const (
	ResumeField         = "resume"
	JobDescriptionField = "job_description"
)

var (
	// ErrRequestFailed covers transport failures and non-2xx answers.
	ErrRequestFailed = errors.New("generation request failed")
	// ErrMalformedResponse is a 2xx answer without both letters.
	ErrMalformedResponse = errors.New("malformed generation response")
	// ErrIncompleteSubmission is returned before any network call when a part is missing.
	ErrIncompleteSubmission = errors.New("submission needs a resume file and a job description")
)

// RequestError describes a failed round trip. StatusCode is zero for transport failures.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%v: status %d: %s", ErrRequestFailed, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", ErrRequestFailed, e.Err)
	default:
		return ErrRequestFailed.Error()
	}
}

func (e *RequestError) Is(target error) bool {
	return target == ErrRequestFailed
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

type Client struct {
	http     *resty.Client
	endpoint string
}

type Option func(*Client)

// WithHTTPClient replaces the transport, mostly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = resty.NewWithClient(hc)
	}
}

// WithTimeout bounds every request. Zero leaves requests bounded by their context only.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		http:     resty.New(),
		endpoint: endpoint,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetHeader("Accept", "application/json")
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Generate issues exactly one multipart POST carrying the resume bytes and the job description.
func (c *Client) Generate(ctx context.Context, sub dto.Submission) (*dto.GenerationResult, error) {
	if !sub.Complete() {
		return nil, ErrIncompleteSubmission
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartField(ResumeField, sub.Resume.Name, contentType(sub.Resume), bytes.NewReader(sub.Resume.Data)).
		SetMultipartFormData(map[string]string{JobDescriptionField: sub.JobDescription}).
		Post(c.endpoint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, &RequestError{Err: ctxErr}
		}
		return nil, &RequestError{Err: err}
	}

	body := resp.Body()
	if resp.IsError() || resp.StatusCode() < http.StatusOK || resp.StatusCode() >= http.StatusMultipleChoices {
		return nil, &RequestError{StatusCode: resp.StatusCode(), Message: errorMessage(resp)}
	}

	return decodeResult(body)
}

func decodeResult(body []byte) (*dto.GenerationResult, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not JSON", ErrMalformedResponse)
	}
	recruiter := gjson.GetBytes(body, "recruiter_message")
	cover := gjson.GetBytes(body, "cover_letter")
	if recruiter.Type != gjson.String || cover.Type != gjson.String {
		return nil, fmt.Errorf("%w: recruiter_message and cover_letter must be strings", ErrMalformedResponse)
	}

	return &dto.GenerationResult{
		RecruiterMessage: recruiter.String(),
		CoverLetter:      cover.String(),
	}, nil
}

// errorMessage reads the server's message from either the error envelope or FastAPI's detail field.
func errorMessage(resp *resty.Response) string {
	body := resp.Body()
	for _, path := range []string{"message", "detail", "error"} {
		if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return http.StatusText(resp.StatusCode())
}

func contentType(f *dto.ResumeFile) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if ct := mime.TypeByExtension(filepath.Ext(f.Name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
