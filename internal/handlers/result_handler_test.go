package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobportal/resume-parser/internal/models"
)

func TestHandleGetParseRun(t *testing.T) {
	runRepo := &fakeRunRepo{}
	run := &models.ParseRun{
		ID:          uuid.New(),
		Fingerprint: "resume.pdf-1024",
		Status:      models.ParseStatusCompleted,
		Success:     true,
		ProfileJSON: `{"success": true, "name": "Jane Doe"}`,
		DurationMs:  1200,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, runRepo.Create(run))

	app := fiber.New()
	app.Get("/parses/:id", NewResultHandler(runRepo).HandleGetParseRun)

	req := httptest.NewRequest(http.MethodGet, "/parses/"+run.ID.String(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var result models.ParseRunResponse
	require.NoError(t, json.Unmarshal(raw, &result))
	assert.Equal(t, run.ID.String(), result.ID)
	assert.Equal(t, "completed", result.Status)
	assert.True(t, result.Success)
	assert.Equal(t, int64(1200), result.DurationMs)
	require.NotNil(t, result.Profile)
	assert.Equal(t, "Jane Doe", result.Profile.Name())
}

func TestHandleGetParseRunInvalidID(t *testing.T) {
	app := fiber.New()
	app.Get("/parses/:id", NewResultHandler(&fakeRunRepo{}).HandleGetParseRun)

	req := httptest.NewRequest(http.MethodGet, "/parses/not-a-uuid", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleGetParseRunNotFound(t *testing.T) {
	app := fiber.New()
	app.Get("/parses/:id", NewResultHandler(&fakeRunRepo{}).HandleGetParseRun)

	req := httptest.NewRequest(http.MethodGet, "/parses/"+uuid.NewString(), nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
