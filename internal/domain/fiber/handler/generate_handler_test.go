package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fadilmartias/resume-ai/internal/service"
	"github.com/fadilmartias/resume-ai/internal/usecase"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	output string
	err    error
	calls  int
}

func (s *stubGenerator) GenerateLetters(ctx context.Context, prompt service.Prompt) (string, error) {
	s.calls++
	return s.output, s.err
}

func (s *stubGenerator) Provider() string { return "stub" }

func (s *stubGenerator) Model() string { return "stub-model" }

func (s *stubGenerator) GetCircuitBreakerStatus() (int, bool) { return 0, false }

func newGenerateApp(gen service.LetterGeneratorInterface, maxUpload int64) *fiber.App {
	app := fiber.New()
	NewGenerateHandler(usecase.NewGenerationUsecase(nil, gen), maxUpload).RegisterRoutes(app)
	return app
}

func multipartRequest(t *testing.T, fileName string, data []byte, jobDescription string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if fileName != "" {
		part, err := w.CreateFormFile(ResumeField, fileName)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	if jobDescription != "" {
		require.NoError(t, w.WriteField(JobDescriptionField, jobDescription))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/generate", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(r).Decode(&out))
	return out
}

func TestGenerateReturnsBothLetters(t *testing.T) {
	gen := &stubGenerator{output: `{"recruiter_message":"A","cover_letter":"B"}`}
	app := newGenerateApp(gen, 5*1024*1024)

	resp, err := app.Test(multipartRequest(t, "resume.txt", []byte("Jane Doe, Go developer"), "Backend engineer"), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, map[string]any{"recruiter_message": "A", "cover_letter": "B"}, body)
	assert.Equal(t, 1, gen.calls)
}

func TestGenerateRequiresBothFields(t *testing.T) {
	gen := &stubGenerator{}
	app := newGenerateApp(gen, 0)

	for name, req := range map[string]*http.Request{
		"no file": multipartRequest(t, "", nil, "Backend engineer"),
		"no text": multipartRequest(t, "resume.txt", []byte("resume"), ""),
		"none":    multipartRequest(t, "", nil, ""),
	} {
		resp, err := app.Test(req, -1)
		require.NoError(t, err, name)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, name)

		body := decodeBody(t, resp.Body)
		assert.Equal(t, false, body["success"], name)
	}
	assert.Zero(t, gen.calls)
}

func TestGenerateRejectsUnsupportedFormat(t *testing.T) {
	app := newGenerateApp(&stubGenerator{}, 0)

	resp, err := app.Test(multipartRequest(t, "resume.png", []byte{0x89, 'P', 'N', 'G'}, "Backend engineer"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "Unsupported file format. Please upload a PDF, DOCX, or TXT file.", body["message"])
}

func TestGenerateRejectsLargeFiles(t *testing.T) {
	app := newGenerateApp(&stubGenerator{}, 1024*1024)

	resp, err := app.Test(multipartRequest(t, "resume.txt", bytes.Repeat([]byte("a"), 1024*1024+1), "Backend engineer"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestGenerateProviderFailure(t *testing.T) {
	app := newGenerateApp(&stubGenerator{output: "not json"}, 0)

	resp, err := app.Test(multipartRequest(t, "resume.txt", []byte("resume"), "Backend engineer"), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)
}

func TestHistoryRoutesWithoutDatabase(t *testing.T) {
	app := newGenerateApp(&stubGenerator{}, 0)

	for _, path := range []string{"/generations", "/generations/" + uuid.NewString(), "/generations/not-a-uuid"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
		require.NoError(t, err, path)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode, path)
	}
}
