// Package form holds the state of one mounted cover letter form: the pending
// submission, the busy flag, the last generated result and the last failure.
package form

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fadilmartias/resume-ai/internal/dto"
)

// Generator performs the single network round trip. *client.Client implements it.
type Generator interface {
	Generate(ctx context.Context, sub dto.Submission) (*dto.GenerationResult, error)
}

// Clipboard receives copied text.
type Clipboard interface {
	WriteText(text string) error
}

// Outcome tells the view what Submit did.
type Outcome int

const (
	// OutcomeIncomplete means a part was missing and nothing was sent.
	OutcomeIncomplete Outcome = iota
	// OutcomeBusy means a request was already in flight and nothing was sent.
	OutcomeBusy
	// OutcomeClosed means the view was unmounted and nothing was sent.
	OutcomeClosed
	OutcomeGenerated
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeIncomplete:
		return "incomplete"
	case OutcomeBusy:
		return "busy"
	case OutcomeClosed:
		return "closed"
	case OutcomeGenerated:
		return "generated"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Field selects one of the generated texts.
type Field string

const (
	FieldRecruiterMessage Field = "recruiter-message"
	FieldCoverLetter      Field = "cover-letter"
)

func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldRecruiterMessage, FieldCoverLetter:
		return f, nil
	default:
		return "", fmt.Errorf("unknown field %q", s)
	}
}

var (
	// ErrNoResult is returned by Copy before the first successful generation.
	ErrNoResult = errors.New("nothing generated yet")
	errClosed   = errors.New("form view closed")
)

type Controller struct {
	generator Generator
	timeout   time.Duration

	// life is cancelled by Close and bounds every request.
	life   context.Context
	cancel context.CancelCauseFunc

	mu         sync.Mutex
	submission dto.Submission
	busy       bool
	closed     bool
	result     *dto.GenerationResult
	lastErr    error
}

// NewController mounts a form view. timeout of zero leaves requests bounded only
// by the caller and the view lifetime.
func NewController(generator Generator, timeout time.Duration) *Controller {
	life, cancel := context.WithCancelCause(context.Background())
	return &Controller{
		generator: generator,
		timeout:   timeout,
		life:      life,
		cancel:    cancel,
	}
}

func (c *Controller) SetResume(file *dto.ResumeFile) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submission.Resume = file
}

func (c *Controller) SetJobDescription(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submission.JobDescription = text
}

// Submit sends the pending submission once. Incomplete submissions and submits
// while a request is in flight are no-ops. A failure keeps the previous result.
func (c *Controller) Submit(ctx context.Context) (Outcome, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return OutcomeClosed, errClosed
	case c.busy:
		c.mu.Unlock()
		return OutcomeBusy, nil
	case !c.submission.Complete():
		c.mu.Unlock()
		return OutcomeIncomplete, nil
	}
	c.busy = true
	sub := c.submission
	c.mu.Unlock()

	reqCtx, cancel := c.requestContext(ctx)
	defer cancel()

	result, err := c.generator.Generate(reqCtx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if c.closed {
		return OutcomeClosed, errClosed
	}
	if err != nil {
		log.Printf("Error generating message: %v", err)
		c.lastErr = err
		return OutcomeFailed, err
	}
	c.result = result
	c.lastErr = nil
	return OutcomeGenerated, nil
}

func (c *Controller) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	reqCtx, cancel := context.WithCancelCause(ctx)
	stop := context.AfterFunc(c.life, func() {
		cancel(context.Cause(c.life))
	})

	cancelAll := func() {
		stop()
		cancel(context.Canceled)
	}
	if c.timeout <= 0 {
		return reqCtx, cancelAll
	}

	timeoutCtx, cancelTimeout := context.WithTimeout(reqCtx, c.timeout)
	return timeoutCtx, func() {
		cancelTimeout()
		cancelAll()
	}
}

// Close unmounts the view. An in-flight request is cancelled and its outcome discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
	c.cancel(errClosed)
}

func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Result returns a copy of the last successful result, or nil.
func (c *Controller) Result() *dto.GenerationResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return nil
	}
	r := *c.result
	return &r
}

func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

func (c *Controller) Submission() dto.Submission {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submission
}

// Text returns the generated text for field.
func (c *Controller) Text(field Field) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil {
		return "", ErrNoResult
	}
	switch field {
	case FieldRecruiterMessage:
		return c.result.RecruiterMessage, nil
	case FieldCoverLetter:
		return c.result.CoverLetter, nil
	default:
		return "", fmt.Errorf("unknown field %q", field)
	}
}

// Copy writes exactly the selected text to the clipboard.
func (c *Controller) Copy(field Field, clipboard Clipboard) error {
	text, err := c.Text(field)
	if err != nil {
		return err
	}
	return clipboard.WriteText(text)
}
