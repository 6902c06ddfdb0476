package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"github.com/fadilmartias/resume-ai/internal/client"
	"github.com/fadilmartias/resume-ai/internal/dto"
	"github.com/fadilmartias/resume-ai/internal/form"
	"github.com/fadilmartias/resume-ai/internal/web"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// VisitorCookie identifies the browser whose form view is mounted.
const VisitorCookie = "resumeai_view"

type ViewHandler struct {
	registry       *form.Registry
	maxUploadBytes int64
}

func NewViewHandler(registry *form.Registry, maxUploadBytes int64) *ViewHandler {
	return &ViewHandler{registry: registry, maxUploadBytes: maxUploadBytes}
}

func (h *ViewHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/", h.Landing)
	app.Get("/generate", h.Form)
	app.Post("/generate", h.Submit)
	app.Get("/generate/copy/:field", h.Copy)
}

type formView struct {
	Title          string
	Active         string
	FileName       string
	JobDescription string
	Busy           bool
	Notice         string
	Error          string
	Result         *dto.GenerationResult
}

func (h *ViewHandler) Landing(c *fiber.Ctx) error {
	return c.Render(web.LandingView, fiber.Map{
		"Title":  "Home",
		"Active": "home",
	}, web.Layout)
}

// Form mounts a fresh form view, discarding whatever the visitor had before.
func (h *ViewHandler) Form(c *fiber.Ctx) error {
	ctrl := h.registry.Mount(h.visitorID(c))
	return h.render(c, ctrl, "", "")
}

// Submit feeds the posted fields into the mounted view and runs one submission.
func (h *ViewHandler) Submit(c *fiber.Ctx) error {
	ctrl := h.registry.Current(h.visitorID(c))

	if file, err := c.FormFile(ResumeField); err == nil {
		if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
			return h.render(c, ctrl, "", fmt.Sprintf("The resume file is too large (max %dMB).", h.maxUploadBytes/(1024*1024)))
		}
		resume, err := readResume(file)
		if err != nil {
			return h.render(c, ctrl, "", "The resume file could not be read.")
		}
		ctrl.SetResume(resume)
	}
	ctrl.SetJobDescription(c.FormValue(JobDescriptionField))

	outcome, err := ctrl.Submit(c.UserContext())
	switch outcome {
	case form.OutcomeIncomplete:
		return h.render(c, ctrl, "Select a resume file and paste a job description to continue.", "")
	case form.OutcomeBusy:
		return h.render(c, ctrl, "Your cover letter is still being generated.", "")
	case form.OutcomeClosed:
		return h.render(c, h.registry.Current(h.visitorID(c)), "The form was reopened before the letters were ready.", "")
	case form.OutcomeFailed:
		return h.render(c, ctrl, "", failureMessage(err))
	default:
		return h.render(c, ctrl, "", "")
	}
}

// Copy answers with exactly the selected text. The page script puts it on the clipboard.
func (h *ViewHandler) Copy(c *fiber.Ctx) error {
	field, err := form.ParseField(c.Params("field"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	ctrl, ok := h.registry.Lookup(h.visitorID(c))
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, form.ErrNoResult.Error())
	}

	if err := ctrl.Copy(field, responseClipboard{c}); err != nil {
		if errors.Is(err, form.ErrNoResult) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}
	return nil
}

func (h *ViewHandler) render(c *fiber.Ctx, ctrl *form.Controller, notice, errMsg string) error {
	sub := ctrl.Submission()
	view := formView{
		Title:          "Create",
		Active:         "create",
		JobDescription: sub.JobDescription,
		Busy:           ctrl.Busy(),
		Notice:         notice,
		Error:          errMsg,
		Result:         ctrl.Result(),
	}
	if sub.Resume != nil {
		view.FileName = sub.Resume.Name
	}
	return c.Render(web.FormView, view, web.Layout)
}

func (h *ViewHandler) visitorID(c *fiber.Ctx) string {
	if id := c.Cookies(VisitorCookie); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	if id, ok := c.Locals(VisitorCookie).(string); ok {
		return id
	}

	id := uuid.NewString()
	c.Locals(VisitorCookie, id)
	c.Cookie(&fiber.Cookie{
		Name:     VisitorCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return id
}

func readResume(file *multipart.FileHeader) (*dto.ResumeFile, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &dto.ResumeFile{
		Name:        file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func failureMessage(err error) string {
	var re *client.RequestError
	switch {
	case errors.As(err, &re) && re.StatusCode != 0:
		return fmt.Sprintf("The generation service could not create your letters: %s", re.Message)
	case errors.Is(err, client.ErrMalformedResponse):
		return "The generation service returned an unexpected answer. Please try again."
	default:
		return "The generation service is unreachable. Please try again."
	}
}

type responseClipboard struct {
	c *fiber.Ctx
}

func (r responseClipboard) WriteText(text string) error {
	r.c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return r.c.SendString(text)
}
