package handler

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/fadilmartias/resume-ai/internal/middleware"
	"github.com/fadilmartias/resume-ai/internal/usecase"
	"github.com/fadilmartias/resume-ai/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ResumeField         = "resume"
	JobDescriptionField = "job_description"
)

type GenerateHandler struct {
	uc             *usecase.GenerationUsecase
	maxUploadBytes int64
}

func NewGenerateHandler(uc *usecase.GenerationUsecase, maxUploadBytes int64) *GenerateHandler {
	return &GenerateHandler{uc: uc, maxUploadBytes: maxUploadBytes}
}

func (h *GenerateHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/generate", middleware.RateLimiter(10, 1*time.Minute), h.Generate)
	app.Get("/generations", h.List)
	app.Get("/generations/:id", h.Get)
}

// Generate answers with exactly {"recruiter_message", "cover_letter"} on success.
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	jobDescription := c.FormValue(JobDescriptionField)
	file, fileErr := c.FormFile(ResumeField)

	missing := map[string]string{}
	if fileErr != nil {
		missing[ResumeField] = "resume file is required"
	}
	if strings.TrimSpace(jobDescription) == "" {
		missing[JobDescriptionField] = "job description is required"
	}
	if len(missing) > 0 {
		formErr := util.NewFormError("resume and job_description are required", missing)
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: formErr.Message,
			Details: formErr.Errors,
		}, fileErr)
	}

	if h.maxUploadBytes > 0 && file.Size > h.maxUploadBytes {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusRequestEntityTooLarge,
			Message: fmt.Sprintf("resume file size is too large (max %dMB)", h.maxUploadBytes/(1024*1024)),
		})
	}

	f, err := file.Open()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot read resume file",
		}, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot read resume file",
		}, err)
	}

	log.Printf("Generating letters for %q (%d bytes, %s)", file.Filename, len(data), file.Header.Get(fiber.HeaderContentType))

	result, err := h.uc.Generate(c.UserContext(), usecase.GenerateInput{
		ResumeName:     file.Filename,
		ResumeData:     data,
		JobDescription: jobDescription,
	})
	if err != nil {
		var se *util.StatusError
		if errors.As(err, &se) {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    se.Code,
				Message: se.Message,
			}, se.Err)
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to generate letters",
		}, err)
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *GenerateHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "generation not found",
		})
	}
	data, err := h.uc.GetGeneration(c.UserContext(), id)
	if err != nil {
		return h.historyError(c, err, "generation not found")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get generation",
		Data:    data,
	})
}

func (h *GenerateHandler) List(c *fiber.Ctx) error {
	data, pagination, err := h.uc.ListGenerations(c.UserContext(), c.QueryInt("page", 1), c.QueryInt("page_size", 0))
	if err != nil {
		return h.historyError(c, err, "cannot list generations")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:       fiber.StatusOK,
		Message:    "Success list generations",
		Data:       data,
		Pagination: pagination,
	})
}

func (h *GenerateHandler) historyError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, usecase.ErrHistoryDisabled):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: "generation history is disabled",
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: message,
		})
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: message,
		}, err)
	}
}
