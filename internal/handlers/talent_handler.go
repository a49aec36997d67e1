package handlers

import (
	"github.com/gofiber/fiber/v2"

	"jobportal/resume-parser/internal/models"
	"jobportal/resume-parser/internal/services"
)

type TalentHandler struct {
	talentService services.TalentService
}

func NewTalentHandler(talentService services.TalentService) *TalentHandler {
	return &TalentHandler{
		talentService: talentService,
	}
}

// HandleSearch handles GET /talent/search
func (h *TalentHandler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q query parameter is required",
		})
	}

	limit := c.QueryInt("limit", 5)
	if limit < 1 || limit > 50 {
		limit = 5
	}

	matches, err := h.talentService.Search(c.UserContext(), query, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Talent search failed",
			"details": err.Error(),
		})
	}

	if matches == nil {
		matches = []models.TalentMatch{}
	}

	return c.JSON(models.TalentSearchResponse{
		Query:   query,
		Results: matches,
	})
}
