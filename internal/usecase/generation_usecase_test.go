package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/fadilmartias/resume-ai/internal/model"
	"github.com/fadilmartias/resume-ai/internal/service"
	"github.com/fadilmartias/resume-ai/internal/util"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGenerator struct {
	output  string
	err     error
	prompts []service.Prompt
}

func (f *fakeGenerator) GenerateLetters(ctx context.Context, prompt service.Prompt) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.output, f.err
}

func (f *fakeGenerator) Provider() string { return "fake" }

func (f *fakeGenerator) Model() string { return "fake-model" }

func (f *fakeGenerator) GetCircuitBreakerStatus() (int, bool) { return 0, false }

type memoryStore struct {
	mu          sync.Mutex
	generations map[uuid.UUID]model.Generation
	order       []uuid.UUID
	failWrites  bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{generations: map[uuid.UUID]model.Generation{}}
}

func (m *memoryStore) Create(ctx context.Context, g *model.Generation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errors.New("database down")
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	m.generations[g.ID] = *g
	m.order = append(m.order, g.ID)
	return nil
}

func (m *memoryStore) Update(ctx context.Context, g *model.Generation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWrites {
		return errors.New("database down")
	}
	m.generations[g.ID] = *g
	return nil
}

func (m *memoryStore) FindByID(ctx context.Context, id string) (*model.Generation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	g, ok := m.generations[parsed]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &g, nil
}

func (m *memoryStore) List(ctx context.Context, offset, limit int) ([]model.Generation, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.Generation
	for i := len(m.order) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.generations[m.order[i]])
	}
	return out, int64(len(m.order)), nil
}

func (m *memoryStore) only(t *testing.T) model.Generation {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.Len(t, m.generations, 1)
	for _, g := range m.generations {
		return g
	}
	return model.Generation{}
}

func txtInput(resume, jd string) GenerateInput {
	return GenerateInput{ResumeName: "resume.txt", ResumeData: []byte(resume), JobDescription: jd}
}

func TestGenerate(t *testing.T) {
	gen := &fakeGenerator{output: `{"recruiter_message":"A","cover_letter":"B"}`}
	store := newMemoryStore()
	uc := NewGenerationUsecase(store, gen)

	result, err := uc.Generate(context.Background(), txtInput("Jane Doe, Go developer", "Backend engineer"))
	require.NoError(t, err)
	assert.Equal(t, "A", result.RecruiterMessage)
	assert.Equal(t, "B", result.CoverLetter)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0].User, "Jane Doe, Go developer")
	assert.Contains(t, gen.prompts[0].User, "Backend engineer")

	stored := store.only(t)
	assert.Equal(t, model.GenerationStatusCompleted, stored.Status)
	assert.Equal(t, "A", stored.RecruiterMessage)
	assert.Equal(t, "fake", stored.Provider)
}

func TestGenerateUnsupportedFormat(t *testing.T) {
	gen := &fakeGenerator{}
	uc := NewGenerationUsecase(nil, gen)

	_, err := uc.Generate(context.Background(), GenerateInput{ResumeName: "resume.png", ResumeData: []byte("x"), JobDescription: "jd"})

	var se *util.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadRequest, se.Code)
	assert.Equal(t, "Unsupported file format. Please upload a PDF, DOCX, or TXT file.", se.Message)
	assert.Empty(t, gen.prompts)
}

func TestGenerateExtractionFailure(t *testing.T) {
	uc := NewGenerationUsecase(nil, &fakeGenerator{})

	_, err := uc.Generate(context.Background(), GenerateInput{ResumeName: "resume.docx", ResumeData: []byte("garbage"), JobDescription: "jd"})

	var se *util.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusInternalServerError, se.Code)
	assert.Contains(t, se.Message, "Error processing the resume file")
}

func TestGenerateEmptyResume(t *testing.T) {
	uc := NewGenerationUsecase(nil, &fakeGenerator{})

	_, err := uc.Generate(context.Background(), txtInput("   \n", "jd"))

	var se *util.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnprocessableEntity, se.Code)
}

func TestGenerateProviderFailureIsRecorded(t *testing.T) {
	store := newMemoryStore()
	uc := NewGenerationUsecase(store, &fakeGenerator{err: errors.New("quota exceeded")})

	_, err := uc.Generate(context.Background(), txtInput("resume", "jd"))

	var se *util.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusBadGateway, se.Code)

	stored := store.only(t)
	assert.Equal(t, model.GenerationStatusFailed, stored.Status)
	assert.Contains(t, stored.Error, "quota exceeded")
}

func TestGenerateUnusableOutput(t *testing.T) {
	uc := NewGenerationUsecase(nil, &fakeGenerator{output: "I cannot help with that."})

	_, err := uc.Generate(context.Background(), txtInput("resume", "jd"))
	assert.ErrorIs(t, err, ErrInvalidModelOutput)
}

func TestGenerateIgnoresStoreFailures(t *testing.T) {
	store := newMemoryStore()
	store.failWrites = true
	uc := NewGenerationUsecase(store, &fakeGenerator{output: `{"recruiter_message":"A","cover_letter":"B"}`})

	result, err := uc.Generate(context.Background(), txtInput("resume", "jd"))
	require.NoError(t, err)
	assert.Equal(t, "B", result.CoverLetter)
}

func TestHistoryDisabled(t *testing.T) {
	uc := NewGenerationUsecase(nil, &fakeGenerator{})
	assert.False(t, uc.HistoryEnabled())

	_, err := uc.GetGeneration(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrHistoryDisabled)

	_, _, err = uc.ListGenerations(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrHistoryDisabled)
}

func TestListAndGetGenerations(t *testing.T) {
	store := newMemoryStore()
	uc := NewGenerationUsecase(store, &fakeGenerator{output: `{"recruiter_message":"A","cover_letter":"B"}`})
	for i := 0; i < 3; i++ {
		_, err := uc.Generate(context.Background(), txtInput("resume", "jd"))
		require.NoError(t, err)
	}

	data, pagination, err := uc.ListGenerations(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.Len(t, data, 2)
	assert.Equal(t, int64(3), pagination.TotalItems)
	assert.True(t, pagination.HasMore)

	got, err := uc.GetGeneration(context.Background(), data[0].ID.String())
	require.NoError(t, err)
	assert.Equal(t, data[0].ID, got.ID)
	assert.Equal(t, "A", got.RecruiterMessage)
}
