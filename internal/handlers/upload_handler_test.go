package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/resume-parser/internal/models"
	"jobportal/resume-parser/internal/services"
)

func newUploadApp(t *testing.T, docRepo *fakeDocRepo, maxFileSize int64) *fiber.App {
	t.Helper()

	storage := services.NewStorageService(t.TempDir())
	require.NoError(t, storage.EnsureUploadDir())

	app := fiber.New()
	app.Post("/upload-resume", NewUploadHandler(docRepo, storage, maxFileSize).HandleUpload)
	return app
}

func uploadRequest(t *testing.T, app *fiber.App, field, filename, content string) *http.Response {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func TestHandleUpload(t *testing.T) {
	docRepo := newFakeDocRepo()
	app := newUploadApp(t, docRepo, 10*1024*1024)

	resp := uploadRequest(t, app, "resume", "My Resume.pdf", "%PDF-1.4")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result models.UploadResponse
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.True(t, result.Success)
	assert.Equal(t, "My Resume.pdf", result.OriginalFilename)
	assert.True(t, strings.HasPrefix(result.Filename, "resume_deepseek_"))
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))

	require.Len(t, docRepo.docs, 1)
	doc := docRepo.docs[result.FilePath]
	require.NotNil(t, doc)
	assert.Equal(t, "My Resume.pdf", doc.OriginalFileName)
	assert.Equal(t, int64(len("%PDF-1.4")), doc.SizeBytes)
}

func TestHandleUploadAcceptsLegacyFileField(t *testing.T) {
	app := newUploadApp(t, newFakeDocRepo(), 10*1024*1024)

	resp := uploadRequest(t, app, "file", "resume.pdf", "%PDF-1.4")
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHandleUploadNoFile(t *testing.T) {
	app := newUploadApp(t, newFakeDocRepo(), 10*1024*1024)

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleUploadRejectsBadExtension(t *testing.T) {
	app := newUploadApp(t, newFakeDocRepo(), 10*1024*1024)

	resp := uploadRequest(t, app, "resume", "resume.exe", "MZ")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Please upload a PDF or Word document")
}

func TestHandleUploadRejectsOversizedFile(t *testing.T) {
	app := newUploadApp(t, newFakeDocRepo(), 16)

	resp := uploadRequest(t, app, "resume", "resume.pdf", strings.Repeat("x", 64))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
