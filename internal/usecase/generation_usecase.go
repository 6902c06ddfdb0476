package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/fadilmartias/resume-ai/internal/dto"
	"github.com/fadilmartias/resume-ai/internal/model"
	"github.com/fadilmartias/resume-ai/internal/response"
	"github.com/fadilmartias/resume-ai/internal/service"
	"github.com/fadilmartias/resume-ai/internal/util"
	"github.com/gofiber/fiber/v2"
)

// ErrHistoryDisabled is returned by the history lookups when no database is configured.
var ErrHistoryDisabled = errors.New("generation history is disabled")

// GenerationStore persists generations. *repository.GenerationRepository implements it.
type GenerationStore interface {
	Create(ctx context.Context, generation *model.Generation) error
	Update(ctx context.Context, generation *model.Generation) error
	FindByID(ctx context.Context, id string) (*model.Generation, error)
	List(ctx context.Context, offset, limit int) ([]model.Generation, int64, error)
}

type GenerateInput struct {
	ResumeName     string
	ResumeData     []byte
	JobDescription string
}

type GenerationUsecase struct {
	generationRepo GenerationStore
	generator      service.LetterGeneratorInterface
}

// NewGenerationUsecase wires the usecase. generationRepo may be nil, in which case
// nothing is persisted.
func NewGenerationUsecase(generationRepo GenerationStore, generator service.LetterGeneratorInterface) *GenerationUsecase {
	return &GenerationUsecase{generationRepo: generationRepo, generator: generator}
}

func (uc *GenerationUsecase) HistoryEnabled() bool {
	return uc.generationRepo != nil
}

// Generate extracts the resume text, asks the model for both letters and returns them.
// Failures are *util.StatusError values carrying the HTTP status to answer with.
func (uc *GenerationUsecase) Generate(ctx context.Context, input GenerateInput) (*dto.GenerationResult, error) {
	resumeText, err := util.ExtractResumeText(ctx, input.ResumeName, input.ResumeData)
	if err != nil {
		if errors.Is(err, util.ErrUnsupportedFormat) {
			return nil, util.NewStatusError(fiber.StatusBadRequest, "Unsupported file format. Please upload a PDF, DOCX, or TXT file.", err)
		}
		return nil, util.NewStatusError(fiber.StatusInternalServerError, fmt.Sprintf("Error processing the resume file: %v", err), err)
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, util.NewStatusError(fiber.StatusUnprocessableEntity, "Error processing the resume file: no text found", nil)
	}

	generation := &model.Generation{
		ResumeName:     input.ResumeName,
		ResumeText:     resumeText,
		JobDescription: input.JobDescription,
		Provider:       uc.generator.Provider(),
		Model:          uc.generator.Model(),
		Status:         model.GenerationStatusProcessing,
	}
	uc.save(ctx, generation, true)

	result, err := uc.generateLetters(ctx, resumeText, input.JobDescription)
	if err != nil {
		generation.Status = model.GenerationStatusFailed
		generation.Error = err.Error()
		uc.save(ctx, generation, false)
		return nil, err
	}

	generation.RecruiterMessage = result.RecruiterMessage
	generation.CoverLetter = result.CoverLetter
	generation.Status = model.GenerationStatusCompleted
	uc.save(ctx, generation, false)

	return result, nil
}

func (uc *GenerationUsecase) generateLetters(ctx context.Context, resumeText, jobDescription string) (*dto.GenerationResult, error) {
	text, err := uc.generator.GenerateLetters(ctx, service.BuildLetterPrompt(resumeText, jobDescription))
	if err != nil {
		log.Printf("Generation with %s/%s failed: %v", uc.generator.Provider(), uc.generator.Model(), err)
		return nil, util.NewStatusError(fiber.StatusBadGateway, "failed to generate recruiter message and cover letter", err)
	}

	result, err := ParseLetters(text)
	if err != nil {
		log.Printf("Unusable model output from %s/%s: %v", uc.generator.Provider(), uc.generator.Model(), err)
		return nil, util.NewStatusError(fiber.StatusBadGateway, "model returned an unusable answer", err)
	}
	return result, nil
}

// save persists the generation on a best-effort basis. The response to the
// caller never depends on the history store.
func (uc *GenerationUsecase) save(ctx context.Context, generation *model.Generation, create bool) {
	if uc.generationRepo == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)

	var err error
	if create {
		err = uc.generationRepo.Create(ctx, generation)
	} else {
		err = uc.generationRepo.Update(ctx, generation)
	}
	if err != nil {
		log.Printf("Could not persist generation %s: %v", generation.ID, err)
	}
}

func (uc *GenerationUsecase) GetGeneration(ctx context.Context, id string) (*dto.GenerationDTO, error) {
	if uc.generationRepo == nil {
		return nil, ErrHistoryDisabled
	}
	generation, err := uc.generationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	data := toGenerationDTO(generation)
	return &data, nil
}

func (uc *GenerationUsecase) ListGenerations(ctx context.Context, page, pageSize int) ([]dto.GenerationDTO, *response.Pagination, error) {
	if uc.generationRepo == nil {
		return nil, nil, ErrHistoryDisabled
	}

	normalized := response.NewPagination(page, pageSize, 0, 0)
	generations, total, err := uc.generationRepo.List(ctx, normalized.Offset(), normalized.PageSize)
	if err != nil {
		return nil, nil, err
	}

	data := make([]dto.GenerationDTO, 0, len(generations))
	for i := range generations {
		data = append(data, toGenerationDTO(&generations[i]))
	}
	return data, response.NewPagination(normalized.Page, normalized.PageSize, total, len(data)), nil
}

func toGenerationDTO(generation *model.Generation) dto.GenerationDTO {
	return dto.GenerationDTO{
		ID:               generation.ID,
		ResumeName:       generation.ResumeName,
		JobDescription:   generation.JobDescription,
		RecruiterMessage: generation.RecruiterMessage,
		CoverLetter:      generation.CoverLetter,
		Provider:         generation.Provider,
		Model:            generation.Model,
		Status:           generation.Status,
		Error:            generation.Error,
		CreatedAt:        generation.CreatedAt,
		UpdatedAt:        generation.UpdatedAt,
	}
}
