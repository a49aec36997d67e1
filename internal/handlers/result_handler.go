package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"jobportal/resume-parser/internal/models"
	"jobportal/resume-parser/internal/repositories"
)

type ResultHandler struct {
	runRepo repositories.ParseRunRepository
}

func NewResultHandler(runRepo repositories.ParseRunRepository) *ResultHandler {
	return &ResultHandler{
		runRepo: runRepo,
	}
}

// HandleGetParseRun handles GET /parses/:id
func (h *ResultHandler) HandleGetParseRun(c *fiber.Ctx) error {
	idParam := c.Params("id")
	runID, err := uuid.Parse(idParam)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid parse run ID format",
		})
	}

	run, err := h.runRepo.FindByID(runID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Parse run not found",
		})
	}

	response := models.ParseRunResponse{
		ID:           run.ID.String(),
		Status:       string(run.Status),
		Success:      run.Success,
		FromCache:    run.FromCache,
		DurationMs:   run.DurationMs,
		ErrorMessage: run.ErrorMessage,
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(run.ProfileJSON), &profile); err == nil {
		response.Profile = profile
	}

	return c.JSON(response)
}
