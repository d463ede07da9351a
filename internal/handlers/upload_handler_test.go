package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
	"github.com/Mishraaa-Anant/Automated-HR/internal/services"
)

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func TestUploadSavesPDFsAndSkipsTheRest(t *testing.T) {
	dir := t.TempDir()
	storage := services.NewStorageService(dir)
	require.NoError(t, storage.EnsureResumeDir())

	app := fiber.New()
	h := NewUploadHandler(storage, 1024)
	app.Post("/api/upload", h.HandleUpload)

	body, contentType := multipartBody(t, map[string][]byte{
		"jane.pdf":  []byte("%PDF-1.4 jane"),
		"notes.txt": []byte("plain text"),
	})
	req := httptest.NewRequest(fiber.MethodPost, "/api/upload", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.UploadResponse
	decodeBody(t, resp, &got)
	assert.Equal(t, 1, got.Uploaded)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, "Successfully uploaded 1 resumes", got.Message)

	names, err := storage.ListResumes()
	require.NoError(t, err)
	assert.Equal(t, []string{"jane.pdf"}, names)
	assert.Equal(t, filepath.Join(dir, "jane.pdf"), storage.ResumePath("jane.pdf"))
}

func TestUploadOversizedFileSkipped(t *testing.T) {
	storage := services.NewStorageService(t.TempDir())
	require.NoError(t, storage.EnsureResumeDir())

	app := fiber.New()
	h := NewUploadHandler(storage, 4)
	app.Post("/api/upload", h.HandleUpload)

	body, contentType := multipartBody(t, map[string][]byte{
		"big.pdf": []byte("%PDF-1.4 far too large for the limit"),
	})
	req := httptest.NewRequest(fiber.MethodPost, "/api/upload", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.UploadResponse
	decodeBody(t, resp, &got)
	assert.Zero(t, got.Uploaded)
	assert.Equal(t, 1, got.Skipped)
}

func TestUploadNoFiles(t *testing.T) {
	app := fiber.New()
	h := NewUploadHandler(services.NewStorageService(t.TempDir()), 1024)
	app.Post("/api/upload", h.HandleUpload)

	body, contentType := multipartBody(t, nil)
	req := httptest.NewRequest(fiber.MethodPost, "/api/upload", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestResultsListAndDelete(t *testing.T) {
	history := newTestHistory(t)
	require.NoError(t, history.Prepend([]models.Candidate{
		{ID: "c1", Name: "Jane"},
	}))

	app := fiber.New()
	h := NewResultsHandler(history)
	app.Get("/api/results", h.HandleGetResults)
	app.Delete("/api/history/:id", h.HandleDeleteCandidate)

	resp := getJSON(t, app, "/api/results")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var listed []models.Candidate
	decodeBody(t, resp, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, "Jane", listed[0].Name)

	req := httptest.NewRequest(fiber.MethodDelete, "/api/history/c1", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, history.All())

	req = httptest.NewRequest(fiber.MethodDelete, "/api/history/c1", nil)
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestGetConfig(t *testing.T) {
	app := fiber.New()
	h := NewResultsHandler(newTestHistory(t))
	app.Get("/api/config", h.HandleGetConfig)

	resp := getJSON(t, app, "/api/config")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	decodeBody(t, resp, &body)
	assert.Equal(t, "Automated-HR", body["app_name"])
	assert.Equal(t, "3.1", body["version"])
}
